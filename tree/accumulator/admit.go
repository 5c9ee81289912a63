package accumulator

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/Bren2010/roster/crypto/branchless"
)

// ErrInvalidIdentity is returned when a candidate's identity is not the
// canonical encoding of a group element, or is the empty identity.
var ErrInvalidIdentity = errors.New("identity is not a valid member identity")

// Bounds is the inclusive range that a candidate's attribute must fall in to be
// eligible for admission.
type Bounds struct {
	Min, Max uint64
}

// Contains returns true if min <= x <= max.
func (b Bounds) Contains(x uint64) bool {
	return b.Min <= x && x <= b.Max
}

// EligibilityError is returned when a candidate's attribute is outside of the
// eligible range.
type EligibilityError struct {
	Attribute uint64
	Bounds    Bounds
}

func (e *EligibilityError) Error() string {
	return fmt.Sprintf("attribute %v is outside of eligible range [%v, %v]",
		e.Attribute, e.Bounds.Min, e.Bounds.Max)
}

// Admit checks that `candidate` is eligible and then appends an action to the
// log: the candidate itself, or the empty sentinel if the candidate is already
// pending. It returns true if the candidate was already pending.
//
// Nothing is appended if an error is returned.
func (a *Accumulator) Admit(candidate *Entry, bounds Bounds) (bool, error) {
	if !bounds.Contains(candidate.Attribute) {
		return false, &EligibilityError{Attribute: candidate.Attribute, Bounds: bounds}
	}
	canonical, err := a.cs.ParseIdentity(candidate.Identity)
	if err != nil {
		return false, fmt.Errorf("%w: %v", ErrInvalidIdentity, err)
	} else if !bytes.Equal(canonical, candidate.Identity) {
		return false, fmt.Errorf("%w: identity is not canonically encoded", ErrInvalidIdentity)
	} else if !candidate.IsReal(a.cs) {
		return false, fmt.Errorf("%w: identity is the empty identity", ErrInvalidIdentity)
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	cp := a.Checkpoint()
	pending, err := a.actions.Since(cp.Marker)
	if err != nil {
		return false, err
	}
	scan := Fold(a.cs, pending, FoldState[bool]{Value: false, Marker: cp.Marker}, ExistenceStep(candidate))
	if !scan.Marker.Equal(a.actions.Head()) {
		return false, errors.New("pending actions do not match the head of the log")
	}

	toAppend := branchless.Select(scan.Value, Empty(a.cs), candidate)
	if _, err := a.actions.Append(toAppend); err != nil {
		return false, err
	}
	return scan.Value, nil
}
