// Package accumulator implements an event-sourced membership accumulator with
// a Merkle commitment.
//
// Candidates are admitted by appending them to an action log, after checking
// that they're not already pending. Periodically, every pending action is folded
// into a committed Merkle root. Admission always appends an action, whether or
// not the candidate was already pending, so that the shape of the log doesn't
// reveal which outcome occurred.
package accumulator

import (
	"bytes"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/Bren2010/roster/crypto/suites"
	"github.com/Bren2010/roster/db"
)

// EmptyRoot returns the committed root of an accumulator that hasn't folded
// any entries yet.
func EmptyRoot(cs suites.CipherSuite) []byte {
	return make([]byte, cs.HashSize())
}

func marshalCheckpoint(cp *Checkpoint) []byte {
	buf := &bytes.Buffer{}
	writeBytes(buf, cp.Value)
	writeBytes(buf, cp.Marker)
	return buf.Bytes()
}

func parseCheckpoint(cs suites.CipherSuite, raw []byte) (*Checkpoint, error) {
	buf := bytes.NewBuffer(raw)
	root, err := readBytes(buf)
	if err != nil {
		return nil, err
	}
	marker, err := readBytes(buf)
	if err != nil {
		return nil, err
	} else if err := readEnd(buf); err != nil {
		return nil, err
	} else if len(root) != cs.HashSize() || len(marker) != cs.HashSize() {
		return nil, errors.New("checkpoint has values of unexpected size")
	}
	return &Checkpoint{Value: root, Marker: marker}, nil
}

// Accumulator owns an action log and the committed checkpoint over it.
//
// Admit and Publish are serialized with each other. Reading the committed
// checkpoint never blocks.
type Accumulator struct {
	cs    suites.CipherSuite
	store db.AccumulatorStore

	mu      sync.Mutex
	actions *ActionLog

	checkpoint atomic.Pointer[Checkpoint]
}

// New loads the accumulator kept in `store`.
func New(cs suites.CipherSuite, store db.AccumulatorStore) (*Accumulator, error) {
	actions, err := NewActionLog(cs, store)
	if err != nil {
		return nil, err
	}

	cp := &Checkpoint{Value: EmptyRoot(cs), Marker: EmptyMarker(cs)}
	raw, err := store.GetCheckpoint()
	if err != nil {
		return nil, err
	} else if raw != nil {
		cp, err = parseCheckpoint(cs, raw)
		if err != nil {
			return nil, fmt.Errorf("parsing checkpoint: %w", err)
		}
	}
	if _, err := actions.Position(cp.Marker); err != nil {
		return nil, fmt.Errorf("locating checkpoint in action log: %w", err)
	}

	acc := &Accumulator{cs: cs, store: store, actions: actions}
	acc.checkpoint.Store(cp)
	return acc, nil
}

// Suite returns the accumulator's cipher suite.
func (a *Accumulator) Suite() suites.CipherSuite { return a.cs }

// Checkpoint returns the most recently committed checkpoint. The returned
// value must not be modified.
func (a *Accumulator) Checkpoint() *Checkpoint {
	return a.checkpoint.Load()
}

// Size returns the number of actions in the log and the marker covering them.
func (a *Accumulator) Size() (uint64, Marker) {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.actions.Size(), a.actions.Head()
}

// Pending returns the actions that have been appended since the last commit.
func (a *Accumulator) Pending() ([]*Entry, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.actions.Since(a.Checkpoint().Marker)
}

// Audit replays the action log and checks it against its stored markers.
func (a *Accumulator) Audit() error {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.actions.Audit()
}
