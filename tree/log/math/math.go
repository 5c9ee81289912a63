// Package math implements the mathematical operations for a Log Tree.
//
// Nodes are numbered in-order: leaf x has id 2x and intermediate nodes take the
// odd ids between their children. The tree is left-balanced, so a tree with n
// leaves has a ragged right edge whenever n is not a power of two.
package math

// IsLeaf returns true if x is the id of a leaf node.
func IsLeaf(x uint64) bool {
	return (x & 1) == 0
}

// Log2 returns the exponent of the largest power of 2 less than or equal to x.
func Log2(x uint64) uint64 {
	if x == 0 {
		return 0
	}

	k := uint64(0)
	for (x >> k) > 0 {
		k += 1
	}
	return k - 1
}

// Level returns the level of a node in the tree. Leaves are level 0, their
// parents are level 1, and so on.
func Level(x uint64) uint64 {
	if IsLeaf(x) {
		return 0
	}

	k := uint64(0)
	for ((x >> k) & 1) == 1 {
		k += 1
	}
	return k
}

// Width returns the number of nodes needed to store a tree with n leaves.
func Width(n uint64) uint64 {
	if n == 0 {
		return 0
	}
	return 2*(n-1) + 1
}

// Root returns the id of the root node of a tree with n leaves.
func Root(n uint64) uint64 {
	w := Width(n)
	return (1 << Log2(w)) - 1
}

// Left returns the left child of an intermediate node.
func Left(x uint64) uint64 {
	k := Level(x)
	if k == 0 {
		panic("leaf node has no children")
	}
	return x ^ (1 << (k - 1))
}

func rightStep(x uint64) uint64 {
	k := Level(x)
	if k == 0 {
		panic("leaf node has no children")
	}
	return x ^ (3 << (k - 1))
}

// Right returns the right child of an intermediate node.
func Right(x, n uint64) uint64 {
	r := rightStep(x)
	w := Width(n)
	for r >= w {
		r = Left(r)
	}
	return r
}

func parentStep(x uint64) uint64 {
	k := Level(x)
	b := (x >> (k + 1)) & 1
	return (x | (1 << k)) ^ (b << (k + 1))
}

// Parent returns the id of the parent node x, if there are n leaves in the tree
// total.
func Parent(x, n uint64) uint64 {
	if x == Root(n) {
		panic("root node has no parent")
	}

	width := Width(n)
	p := parentStep(x)
	for p >= width {
		p = parentStep(p)
	}
	return p
}

// Sibling returns the other child of the node's parent.
func Sibling(x, n uint64) uint64 {
	p := Parent(x, n)
	if x < p {
		return Right(p, n)
	}
	return Left(p)
}

// DirectPath returns the direct path of a node, ordered from leaf to root.
func DirectPath(x, n uint64) []uint64 {
	d := make([]uint64, 0)
	r := Root(n)
	for x != r {
		x = Parent(x, n)
		d = append(d, x)
	}
	return d
}

// Copath returns the copath of a node, ordered from leaf to root.
func Copath(x, n uint64) []uint64 {
	if x == Root(n) {
		return make([]uint64, 0)
	}

	d := DirectPath(x, n)
	d = append([]uint64{x}, d...)
	d = d[:len(d)-1]
	for i := 0; i < len(d); i++ {
		d[i] = Sibling(d[i], n)
	}

	return d
}

// IsFullSubtree returns true if node x represents a full subtree, meaning its
// value will not change as more leaves are added.
func IsFullSubtree(x, n uint64) bool {
	rightmost := 2 * (n - 1)
	expected := x + (1 << Level(x)) - 1

	return expected <= rightmost
}

// FullSubtrees returns the list of full subtrees that x consists of, ordered
// from left to right.
func FullSubtrees(x, n uint64) []uint64 {
	out := make([]uint64, 0)

	for {
		if IsFullSubtree(x, n) {
			out = append(out, x)
			return out
		}
		out = append(out, Left(x))
		x = Right(x, n)
	}
}
