package math

import (
	"slices"
	"testing"
)

func assert(ok bool) {
	if !ok {
		panic("Assertion failed.")
	}
}

func TestMath(t *testing.T) {
	assert(Log2(0) == 0)
	assert(Log2(8) == 3)
	assert(Log2(10000) == 13)

	assert(Level(1) == 1)
	assert(Level(2) == 0)
	assert(Level(3) == 2)

	assert(Root(1) == 0)
	assert(Root(5) == 7)
	assert(Left(7) == 3)
	assert(Right(7, 8) == 11)
	assert(Right(7, 5) == 8)

	assert(Parent(1, 4) == 3)
	assert(Parent(5, 4) == 3)
	assert(Parent(8, 5) == 7)

	assert(Sibling(13, 8) == 9)
	assert(Sibling(9, 8) == 13)

	assert(slices.Equal(DirectPath(4, 8), []uint64{5, 3, 7}))
	assert(slices.Equal(Copath(4, 8), []uint64{6, 1, 11}))
	assert(slices.Equal(Copath(8, 5), []uint64{3}))
	assert(len(Copath(0, 1)) == 0)

	assert(slices.Equal(FullSubtrees(7, 6), []uint64{3, 9}))
	assert(slices.Equal(FullSubtrees(7, 8), []uint64{7}))
	assert(IsFullSubtree(3, 4))
	assert(!IsFullSubtree(11, 7))
}

func TestCopathCoversTree(t *testing.T) {
	// Every leaf's copath, together with its direct path, must touch exactly
	// the levels between the leaf and the root.
	for n := uint64(1); n < 70; n++ {
		for x := uint64(0); x < n; x++ {
			copath := Copath(2*x, n)
			direct := DirectPath(2*x, n)
			if len(copath) != len(direct) {
				t.Fatalf("copath and direct path differ in length: x=%v n=%v", x, n)
			}
			for i, id := range copath {
				if Parent(id, n) != direct[i] {
					t.Fatalf("copath node %v is not a child of %v: x=%v n=%v", id, direct[i], x, n)
				}
			}
		}
	}
}
