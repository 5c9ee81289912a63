package main

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/Bren2010/roster/tree/accumulator"
)

type CommitRequest struct {
	Resp chan<- CommitResponse
}

type CommitResponse struct {
	Checkpoint *accumulator.Checkpoint
	Err        error
}

// publish commits all pending actions and updates metrics.
func publish(acc *accumulator.Accumulator) (*accumulator.Checkpoint, error) {
	start := time.Now()
	cp, err := acc.Publish()
	commitOps.WithLabelValues(fmt.Sprint(err == nil)).Inc()
	commitDur.Observe(float64(time.Since(start).Microseconds()))

	size, _ := acc.Size()
	logSize.Set(float64(size))

	return cp, err
}

// committer is a goroutine that commits pending admissions every `interval`,
// and whenever a request is received over `ch`, until ctx is cancelled.
func committer(ctx context.Context, acc *accumulator.Accumulator, interval time.Duration, ch <-chan CommitRequest) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		var resp chan<- CommitResponse
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		case req := <-ch:
			resp = req.Resp
		}

		cp, err := publish(acc)
		if err != nil {
			log.Printf("Failed to commit pending admissions: %v", err)
		}
		if resp != nil {
			select {
			case resp <- CommitResponse{cp, err}:
			default:
			}
		}
	}
}
