// Package log implements a Log Tree: a left-balanced Merkle tree where new
// leaves are only ever added to the right-most edge. It produces and verifies
// the witnesses that membership entries carry.
package log

import (
	"errors"
	"fmt"

	"github.com/Bren2010/roster/crypto/suites"
	"github.com/Bren2010/roster/db"
	"github.com/Bren2010/roster/tree/log/math"
)

// Tree is an implementation of a Log Tree over a database. Only the values of
// full subtrees are stored, since they never change once written; everything
// else is computed on demand.
type Tree struct {
	cs    suites.CipherSuite
	store db.LogStore
}

func NewTree(cs suites.CipherSuite, store db.LogStore) *Tree {
	return &Tree{cs: cs, store: store}
}

// fetch loads the values of the requested full subtrees from the database. It
// returns an error if not all of them are found.
func (t *Tree) fetch(ids []uint64) (map[uint64][]byte, error) {
	data, err := t.store.BatchGet(ids)
	if err != nil {
		return nil, err
	}
	for _, id := range ids {
		value, ok := data[id]
		if !ok {
			return nil, fmt.Errorf("node %v was not found in the database", id)
		} else if len(value) != t.cs.HashSize() {
			return nil, fmt.Errorf("node %v has unexpected size: %v", id, len(value))
		}
	}
	return data, nil
}

// resolve returns the value of each of the given nodes in a tree with n
// leaves, in the same order.
func (t *Tree) resolve(ids []uint64, n uint64) ([][]byte, error) {
	subtrees := make([][]uint64, len(ids))
	lookup := make([]uint64, 0)
	for i, id := range ids {
		subtrees[i] = math.FullSubtrees(id, n)
		lookup = append(lookup, subtrees[i]...)
	}
	data, err := t.fetch(lookup)
	if err != nil {
		return nil, err
	}

	out := make([][]byte, len(ids))
	for i, fs := range subtrees {
		last := fs[len(fs)-1]
		acc := &nodeData{leaf: math.IsLeaf(last), value: data[last]}
		for j := len(fs) - 2; j >= 0; j-- {
			left := &nodeData{leaf: math.IsLeaf(fs[j]), value: data[fs[j]]}
			acc = &nodeData{leaf: false, value: treeHash(t.cs, left, acc)}
		}
		out[i] = acc.value
	}
	return out, nil
}

// Root returns the root of the tree when it had n leaves.
func (t *Tree) Root(n uint64) ([]byte, error) {
	if n == 0 {
		return nil, errors.New("empty tree has no root")
	}
	out, err := t.resolve([]uint64{math.Root(n)}, n)
	if err != nil {
		return nil, err
	}
	return out[0], nil
}

// Witness returns the witness for leaf x in the tree when it had n leaves.
func (t *Tree) Witness(x, n uint64) (*Witness, error) {
	if x >= n {
		return nil, fmt.Errorf("leaf %v is not in a tree of size %v", x, n)
	}
	copath, err := t.resolve(math.Copath(2*x, n), n)
	if err != nil {
		return nil, err
	}
	return &Witness{Position: x, Size: n, Copath: copath}, nil
}

// Append adds a new leaf to the end of the log and returns the new root value.
// n is the current number of leaves; after this operation is complete, methods
// should be called with n+1.
func (t *Tree) Append(n uint64, value []byte) ([]byte, error) {
	if len(value) != t.cs.HashSize() {
		return nil, fmt.Errorf("leaf has unexpected size: %v", len(value))
	}
	leaf := 2 * n

	// Every node on the new leaf's direct path that is now a full subtree has
	// just become one, so its value is computed and stored.
	written := map[uint64][]byte{leaf: value}
	get := func(id uint64) (*nodeData, error) {
		if v, ok := written[id]; ok {
			return &nodeData{leaf: math.IsLeaf(id), value: v}, nil
		}
		data, err := t.fetch([]uint64{id})
		if err != nil {
			return nil, err
		}
		return &nodeData{leaf: math.IsLeaf(id), value: data[id]}, nil
	}
	for _, id := range math.DirectPath(leaf, n+1) {
		if !math.IsFullSubtree(id, n+1) {
			break
		}
		l, err := get(math.Left(id))
		if err != nil {
			return nil, err
		}
		r, err := get(math.Right(id, n+1))
		if err != nil {
			return nil, err
		}
		written[id] = treeHash(t.cs, l, r)
	}

	if err := t.store.BatchPut(written); err != nil {
		return nil, err
	}
	return t.Root(n + 1)
}
