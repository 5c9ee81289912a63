package suites

import (
	"bytes"
	"crypto/ecdh"
	"crypto/rand"
	"crypto/sha256"
	"errors"
	"hash"

	"filippo.io/nistec"
)

// RosterSha256P256 uses SHA-256 for hashing and P-256 points as member
// identities. The point at infinity is the empty identity.
type RosterSha256P256 struct{}

var _ CipherSuite = RosterSha256P256{}

func (s RosterSha256P256) Id() uint16      { return 0x01 }
func (s RosterSha256P256) Name() string    { return "roster-sha256-p256" }
func (s RosterSha256P256) Hash() hash.Hash { return sha256.New() }
func (s RosterSha256P256) HashSize() int   { return 32 }

func (s RosterSha256P256) CommitmentFixedBytes() []byte {
	return []byte{
		0xd8, 0x21, 0xf8, 0x79, 0x0d, 0x97, 0x70, 0x97,
		0x96, 0xb4, 0xd7, 0x90, 0x33, 0x57, 0xc3, 0xf5,
	}
}

func (s RosterSha256P256) EmptyIdentity() []byte {
	return nistec.NewP256Point().Bytes()
}

func (s RosterSha256P256) ParseIdentity(raw []byte) ([]byte, error) {
	if len(raw) == 0 {
		return nil, errors.New("identity is empty")
	}
	p, err := nistec.NewP256Point().SetBytes(raw)
	if err != nil {
		return nil, err
	}
	return p.Bytes(), nil
}

func (s RosterSha256P256) GenerateIdentity() ([]byte, []byte, error) {
	priv, err := ecdh.P256().GenerateKey(rand.Reader)
	if err != nil {
		return nil, nil, err
	}
	pub, err := s.ParseIdentity(priv.PublicKey().Bytes())
	if err != nil {
		return nil, nil, err
	} else if bytes.Equal(pub, s.EmptyIdentity()) {
		return nil, nil, errors.New("generated identity is the empty identity")
	}
	return priv.Bytes(), pub, nil
}
