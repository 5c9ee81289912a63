package log

import (
	"bytes"
	"errors"

	"github.com/Bren2010/roster/crypto/suites"
	"github.com/Bren2010/roster/tree/log/math"
)

// ErrMalformedWitness is returned when a witness does not have the shape
// required by its position and tree size.
var ErrMalformedWitness = errors.New("malformed witness")

// maxTreeSize is the largest number of leaves a witness may claim. Node
// indices of larger trees don't fit in a uint64.
const maxTreeSize = 1 << 62

// Witness is the sibling-hash path that allows a Merkle root to be recomputed
// from a single leaf.
type Witness struct {
	Position uint64   `json:"position"` // Index of the leaf in the tree.
	Size     uint64   `json:"size"`     // Number of leaves in the tree.
	Copath   [][]byte `json:"copath"`   // Copath hashes, ordered from leaf to root.
}

// nodeData is the value of a node, along with whether it is a leaf.
type nodeData struct {
	leaf  bool
	value []byte
}

func (nd *nodeData) marshal() []byte {
	out := make([]byte, 1+len(nd.value))
	if !nd.leaf {
		out[0] = 1
	}
	copy(out[1:], nd.value)
	return out
}

// treeHash returns the intermediate hash of left and right.
func treeHash(cs suites.CipherSuite, left, right *nodeData) []byte {
	if len(left.value) != cs.HashSize() || len(right.value) != cs.HashSize() {
		panic("node value is wrong length")
	}

	h := cs.Hash()
	h.Write(left.marshal())
	h.Write(right.marshal())
	return h.Sum(nil)
}

// EvaluateWitness returns the root that would result in the given witness
// being valid for the given leaf value.
func EvaluateWitness(cs suites.CipherSuite, leaf []byte, w *Witness) ([]byte, error) {
	if len(leaf) != cs.HashSize() {
		return nil, errors.New("leaf value is unexpected size")
	} else if w == nil || w.Size > maxTreeSize || w.Position >= w.Size {
		return nil, ErrMalformedWitness
	}
	for _, elem := range w.Copath {
		if len(elem) != cs.HashSize() {
			return nil, ErrMalformedWitness
		}
	}

	x := 2 * w.Position
	path := math.Copath(x, w.Size)
	if len(w.Copath) != len(path) {
		return nil, ErrMalformedWitness
	}

	acc := &nodeData{leaf: true, value: leaf}
	for i := 0; i < len(path); i++ {
		nd := &nodeData{leaf: math.IsLeaf(path[i]), value: w.Copath[i]}

		var hash []byte
		if x < path[i] {
			hash = treeHash(cs, acc, nd)
		} else {
			hash = treeHash(cs, nd, acc)
		}

		acc = &nodeData{leaf: false, value: hash}
		x = path[i]
	}

	return acc.value, nil
}

// Recompute is the total form of EvaluateWitness. When the witness is
// malformed, it returns a domain-separated value that is not the output of
// treeHash and so never matches a real root.
func Recompute(cs suites.CipherSuite, leaf []byte, w *Witness) []byte {
	root, err := EvaluateWitness(cs, leaf, w)
	if err != nil {
		h := cs.Hash()
		h.Write([]byte("roster malformed witness"))
		h.Write(leaf)
		return h.Sum(nil)
	}
	return root
}

// VerifyWitness checks that `w` is a valid witness for `leaf` in a tree with
// the given root.
func VerifyWitness(cs suites.CipherSuite, leaf []byte, w *Witness, root []byte) error {
	cand, err := EvaluateWitness(cs, leaf, w)
	if err != nil {
		return err
	} else if !bytes.Equal(root, cand) {
		return errors.New("root does not match witness")
	}
	return nil
}
