package accumulator

import (
	"github.com/Bren2010/roster/crypto/branchless"
	"github.com/Bren2010/roster/crypto/suites"
	"github.com/Bren2010/roster/tree/log"
)

// FoldState pairs an accumulated value with the marker of the log position it
// reflects. Folding from the same state over the same actions always produces
// the same result, so a FoldState can be stored and resumed from later.
type FoldState[T any] struct {
	Value  T
	Marker Marker
}

// Checkpoint is the committed state of the accumulator: the Merkle root of all
// entries folded so far, and the marker of the last action folded.
type Checkpoint = FoldState[[]byte]

// Step combines an accumulated value with the next action. Steps must compute
// the result of every outcome of an internal condition and choose between them
// with the branchless package.
type Step[T any] func(acc T, e *Entry) T

// Fold applies `step` to each of the pending actions, in the order they were
// appended, starting from `initial`. The marker of the returned state covers
// exactly the actions in `pending`.
func Fold[T any](cs suites.CipherSuite, pending []*Entry, initial FoldState[T], step Step[T]) FoldState[T] {
	state := initial
	for _, e := range pending {
		state = FoldState[T]{
			Value:  step(state.Value, e),
			Marker: state.Marker.Advance(cs, e),
		}
	}
	return state
}

// ExistenceStep returns a step that reports whether `candidate` is among the
// folded actions.
func ExistenceStep(candidate *Entry) Step[bool] {
	return func(found bool, e *Entry) bool {
		return branchless.Or(found, Equal(e, candidate))
	}
}

// MerkleStep returns a step that replaces the accumulated root with the root
// recomputed from each real entry's witness, and passes the root through
// unchanged for sentinel entries. The witness is evaluated either way.
func MerkleStep(cs suites.CipherSuite) Step[[]byte] {
	return func(root []byte, e *Entry) []byte {
		updated := log.Recompute(cs, e.LeafHash(cs), &e.Witness)
		return branchless.SelectBytes(e.IsReal(cs), updated, root)
	}
}
