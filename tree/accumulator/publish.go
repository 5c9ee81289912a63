package accumulator

import (
	"fmt"
)

// Publish folds every pending action into the committed Merkle root and
// advances the committed marker past them. The new checkpoint is written to the
// database and made visible to readers in a single step. If nothing is pending,
// the current checkpoint is returned unchanged.
func (a *Accumulator) Publish() (*Checkpoint, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	cp := a.Checkpoint()
	pending, err := a.actions.Since(cp.Marker)
	if err != nil {
		return nil, err
	} else if len(pending) == 0 {
		return cp, nil
	}

	next := Fold(a.cs, pending, *cp, MerkleStep(a.cs))
	if !next.Marker.Equal(a.actions.Head()) {
		return nil, fmt.Errorf("folded marker %v does not match head of log %v", next.Marker, a.actions.Head())
	}
	if err := a.store.SetCheckpoint(marshalCheckpoint(&next)); err != nil {
		a.store.Rollback()
		return nil, err
	} else if err := a.store.Commit(); err != nil {
		a.store.Rollback()
		return nil, fmt.Errorf("committing checkpoint: %w", err)
	}

	a.checkpoint.Store(&next)
	return &next, nil
}
