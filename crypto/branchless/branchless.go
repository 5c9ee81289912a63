// Package branchless implements selection between two already-computed values
// without skipping the computation of either one.
//
// Callers evaluate both candidate results before calling into this package, so
// the work done is independent of the condition. Byte slices are selected and
// compared in constant time.
package branchless

import (
	"crypto/subtle"
)

// bit converts b into 0 or 1. The compiler lowers this to a conditional set
// rather than a jump.
func bit(b bool) int {
	var out int
	if b {
		out = 1
	}
	return out
}

// Select returns ifTrue if cond is set, and ifFalse otherwise.
func Select[T any](cond bool, ifTrue, ifFalse T) T {
	options := [2]T{ifFalse, ifTrue}
	return options[bit(cond)]
}

// SelectBytes returns a copy of ifTrue if cond is set, and a copy of ifFalse
// otherwise. Both inputs must be the same length.
func SelectBytes(cond bool, ifTrue, ifFalse []byte) []byte {
	if len(ifTrue) != len(ifFalse) {
		panic("branchless: selected values have different lengths")
	}
	out := make([]byte, len(ifFalse))
	copy(out, ifFalse)
	subtle.ConstantTimeCopy(bit(cond), out, ifTrue)
	return out
}

// Or returns a || b, without short-circuiting.
func Or(a, b bool) bool {
	return bit(a)|bit(b) == 1
}

// And returns a && b, without short-circuiting.
func And(a, b bool) bool {
	return bit(a)&bit(b) == 1
}

// Not returns !a.
func Not(a bool) bool {
	return bit(a)^1 == 1
}

// Equal returns true if a and b are equal. The running time depends only on
// the lengths of the inputs.
func Equal(a, b []byte) bool {
	return subtle.ConstantTimeCompare(a, b) == 1
}

// EqualUint64 returns true if a and b are equal, in constant time.
func EqualUint64(a, b uint64) bool {
	hi := subtle.ConstantTimeEq(int32(a>>32), int32(b>>32))
	lo := subtle.ConstantTimeEq(int32(a), int32(b))
	return hi&lo == 1
}
