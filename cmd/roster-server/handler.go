package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/Bren2010/roster/api"
	"github.com/Bren2010/roster/tree/accumulator"
)

// maxRequestSize is the largest request body that the API server will read.
const maxRequestSize = 1 << 16

// apiError is an error that's safe to return to the client.
type apiError struct {
	status int
	err    error
}

func (e *apiError) Error() string { return e.err.Error() }
func (e *apiError) Unwrap() error { return e.err }

func badRequest(format string, a ...interface{}) error {
	return &apiError{http.StatusBadRequest, fmt.Errorf(format, a...)}
}

// HandleAPI wraps a function that returns a JSON-encodable response or an
// error, and writes whichever was returned. Errors that aren't caused by the
// request are logged and hidden from the client.
func HandleAPI(name string, fn func(req *http.Request) (interface{}, error)) http.HandlerFunc {
	return func(rw http.ResponseWriter, req *http.Request) {
		res, err := fn(req)

		status := http.StatusOK
		if err != nil {
			var (
				apiErr  *apiError
				eligErr *accumulator.EligibilityError
			)
			switch {
			case errors.As(err, &apiErr):
				status = apiErr.status
				res = api.ErrorResponse{Error: err.Error()}
			case errors.As(err, &eligErr), errors.Is(err, accumulator.ErrInvalidIdentity):
				status = http.StatusBadRequest
				res = api.ErrorResponse{Error: err.Error()}
			default:
				log.Printf("%v: %v", name, err)
				status = http.StatusInternalServerError
				res = api.ErrorResponse{Error: "internal server error"}
			}
		}
		requestCtr.WithLabelValues(name, fmt.Sprint(status)).Inc()

		rw.Header().Set("Content-Type", "application/json")
		rw.WriteHeader(status)
		if err := json.NewEncoder(rw).Encode(res); err != nil {
			log.Println(err)
		}
	}
}

func decodeEntry(req *http.Request) (*accumulator.Entry, error) {
	var e api.Entry
	dec := json.NewDecoder(http.MaxBytesReader(nil, req.Body, maxRequestSize))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&e); err != nil {
		return nil, badRequest("failed to parse request body: %v", err)
	}
	return e.ToEntry(), nil
}

type Handler struct {
	config *APIConfig
	acc    *accumulator.Accumulator
	ch     chan<- CommitRequest
}

// Home redirects requests to a pre-configured URL, like the API documentation.
func (h *Handler) Home(rw http.ResponseWriter, req *http.Request) {
	http.Redirect(rw, req, h.config.HomeRedirect, http.StatusSeeOther)
}

func (h *Handler) Meta(req *http.Request) (interface{}, error) {
	cs := h.acc.Suite()
	return api.MetaResponse{
		Suite:         cs.Name(),
		HashAlgorithm: "sha256",
		EmptyIdentity: cs.EmptyIdentity(),
		MinAttribute:  h.config.bounds.Min,
		MaxAttribute:  h.config.bounds.Max,
	}, nil
}

func (h *Handler) Checkpoint(req *http.Request) (interface{}, error) {
	cp := h.acc.Checkpoint()
	size, _ := h.acc.Size()
	return api.CheckpointResponse{Root: cp.Value, Marker: cp.Marker, LogSize: size}, nil
}

func (h *Handler) Admit(req *http.Request) (interface{}, error) {
	e, err := decodeEntry(req)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	existed, err := h.acc.Admit(e, h.config.bounds)
	admitDur.Observe(float64(time.Since(start).Microseconds()))
	if err != nil {
		admitOps.WithLabelValues("rejected").Inc()
		return nil, err
	} else if existed {
		admitOps.WithLabelValues("existed").Inc()
	} else {
		admitOps.WithLabelValues("admitted").Inc()
	}

	return api.AdmitResponse{Existed: existed}, nil
}

// Publish asks the committer to commit all pending admissions now, and waits
// for the result.
func (h *Handler) Publish(req *http.Request) (interface{}, error) {
	resCh := make(chan CommitResponse, 1)
	select {
	case h.ch <- CommitRequest{Resp: resCh}:
	case <-req.Context().Done():
		return nil, req.Context().Err()
	}

	var res CommitResponse
	select {
	case res = <-resCh:
	case <-req.Context().Done():
		return nil, req.Context().Err()
	}
	if res.Err != nil {
		return nil, res.Err
	}

	size, _ := h.acc.Size()
	return api.CheckpointResponse{
		Root:    res.Checkpoint.Value,
		Marker:  res.Checkpoint.Marker,
		LogSize: size,
	}, nil
}

func (h *Handler) Member(req *http.Request) (interface{}, error) {
	e, err := decodeEntry(req)
	if err != nil {
		return nil, err
	}
	cp := h.acc.Checkpoint()
	return api.MemberResponse{
		Member: accumulator.IsMember(h.acc.Suite(), e, cp.Value),
		Root:   cp.Value,
	}, nil
}
