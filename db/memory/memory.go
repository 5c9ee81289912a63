// Package memory provides in-memory implementations of the database interfaces.
package memory

import (
	"errors"
	"fmt"

	"github.com/Bren2010/roster/db"
)

func dup(b []byte) []byte {
	if b == nil {
		return nil
	}
	out := make([]byte, len(b))
	copy(out, b)
	return out
}

// AccumulatorStore implements db.AccumulatorStore in memory. Writes are applied
// immediately, and undone by Rollback until the next Commit.
type AccumulatorStore struct {
	Head, Checkpoint []byte
	Positions        map[string][]byte
	Actions          map[uint64][]byte
	TreeSize         uint64

	logStore *LogStore
	undo     []func()
}

var _ db.AccumulatorStore = (*AccumulatorStore)(nil)

func NewAccumulatorStore() *AccumulatorStore {
	return &AccumulatorStore{
		Positions: make(map[string][]byte),
		Actions:   make(map[uint64][]byte),

		logStore: NewLogStore(),
	}
}

func (as *AccumulatorStore) GetHead() ([]byte, error) { return dup(as.Head), nil }

func (as *AccumulatorStore) SetHead(raw []byte) error {
	if raw == nil {
		return errors.New("unable to store nil head")
	}
	prev := as.Head
	as.undo = append(as.undo, func() { as.Head = prev })
	as.Head = dup(raw)
	return nil
}

func (as *AccumulatorStore) GetCheckpoint() ([]byte, error) { return dup(as.Checkpoint), nil }

func (as *AccumulatorStore) SetCheckpoint(raw []byte) error {
	if raw == nil {
		return errors.New("unable to store nil checkpoint")
	}
	prev := as.Checkpoint
	as.undo = append(as.undo, func() { as.Checkpoint = prev })
	as.Checkpoint = dup(raw)
	return nil
}

func (as *AccumulatorStore) GetPosition(marker []byte) ([]byte, error) {
	return dup(as.Positions[fmt.Sprintf("%x", marker)]), nil
}

func (as *AccumulatorStore) SetPosition(marker, raw []byte) error {
	if raw == nil {
		return errors.New("unable to store nil position")
	}
	key := fmt.Sprintf("%x", marker)
	prev, ok := as.Positions[key]
	as.undo = append(as.undo, func() {
		if ok {
			as.Positions[key] = prev
		} else {
			delete(as.Positions, key)
		}
	})
	as.Positions[key] = dup(raw)
	return nil
}

func (as *AccumulatorStore) BatchGet(keys []uint64) (map[uint64][]byte, error) {
	out := make(map[uint64][]byte)
	for _, key := range keys {
		if val, ok := as.Actions[key]; ok {
			out[key] = dup(val)
		}
	}
	return out, nil
}

func (as *AccumulatorStore) Put(key uint64, data []byte) error {
	if data == nil {
		return errors.New("unable to store nil action")
	}
	prev, ok := as.Actions[key]
	as.undo = append(as.undo, func() {
		if ok {
			as.Actions[key] = prev
		} else {
			delete(as.Actions, key)
		}
	})
	as.Actions[key] = dup(data)
	return nil
}

func (as *AccumulatorStore) LogStore() db.LogStore { return as.logStore }

func (as *AccumulatorStore) GetTreeSize() (uint64, error) { return as.TreeSize, nil }

func (as *AccumulatorStore) SetTreeSize(n uint64) error {
	prev := as.TreeSize
	as.undo = append(as.undo, func() { as.TreeSize = prev })
	as.TreeSize = n
	return nil
}

func (as *AccumulatorStore) Commit() error {
	as.undo = nil
	return nil
}

func (as *AccumulatorStore) Rollback() {
	for i := len(as.undo) - 1; i >= 0; i-- {
		as.undo[i]()
	}
	as.undo = nil
}

func (as *AccumulatorStore) Close() error { return nil }

// LogStore implements db.LogStore in memory.
type LogStore struct {
	Data map[uint64][]byte
}

func NewLogStore() *LogStore {
	return &LogStore{Data: make(map[uint64][]byte)}
}

func (ls *LogStore) BatchGet(keys []uint64) (map[uint64][]byte, error) {
	out := make(map[uint64][]byte)

	for _, key := range keys {
		if d, ok := ls.Data[key]; ok {
			out[key] = dup(d)
		}
	}

	return out, nil
}

func (ls *LogStore) BatchPut(data map[uint64][]byte) error {
	for _, value := range data {
		if value == nil {
			return errors.New("unable to store nil value")
		}
	}
	for key, value := range data {
		ls.Data[key] = dup(value)
	}
	return nil
}
