// Package suites implements each supported cipher suite.
package suites

import (
	"fmt"
	"hash"
)

// CipherSuite is the interface implemented by each supported cipher suite. A
// cipher suite fixes the hash function used for leaves, tree nodes and action
// markers, and the group that member identities are drawn from.
type CipherSuite interface {
	Id() uint16
	Name() string
	Hash() hash.Hash
	HashSize() int
	CommitmentFixedBytes() []byte

	// EmptyIdentity returns the encoding of the group's identity element. It is
	// the identity of the empty sentinel entry and is never a valid member.
	EmptyIdentity() []byte
	// ParseIdentity checks that raw encodes a point of the group and returns
	// the point's canonical encoding.
	ParseIdentity(raw []byte) ([]byte, error)
	// GenerateIdentity returns a fresh private key and the canonical encoding
	// of its public point.
	GenerateIdentity() (private, public []byte, err error)
}

// All returns every supported cipher suite.
func All() []CipherSuite {
	return []CipherSuite{RosterSha256P256{}, RosterSha256Ed25519{}}
}

// FromName returns the cipher suite with the given name.
func FromName(name string) (CipherSuite, error) {
	for _, cs := range All() {
		if cs.Name() == name {
			return cs, nil
		}
	}
	return nil, fmt.Errorf("unknown cipher suite: %q", name)
}
