package suites

import (
	"crypto/ed25519"
	"crypto/rand"
	"crypto/sha256"
	"hash"

	"filippo.io/edwards25519"
)

// RosterSha256Ed25519 uses SHA-256 for hashing and edwards25519 points (that
// is, ed25519 public keys) as member identities. The neutral element of the
// curve group is the empty identity.
type RosterSha256Ed25519 struct{}

var _ CipherSuite = RosterSha256Ed25519{}

func (s RosterSha256Ed25519) Id() uint16      { return 0x02 }
func (s RosterSha256Ed25519) Name() string    { return "roster-sha256-ed25519" }
func (s RosterSha256Ed25519) Hash() hash.Hash { return sha256.New() }
func (s RosterSha256Ed25519) HashSize() int   { return 32 }

func (s RosterSha256Ed25519) CommitmentFixedBytes() []byte {
	return []byte{
		0x5a, 0x0e, 0x3c, 0x61, 0x9f, 0x27, 0xb4, 0x12,
		0x88, 0xc6, 0x4d, 0x01, 0xe3, 0x7a, 0x95, 0x2b,
	}
}

func (s RosterSha256Ed25519) EmptyIdentity() []byte {
	return edwards25519.NewIdentityPoint().Bytes()
}

// ParseIdentity decodes raw as an edwards25519 point. Non-canonical encodings
// are accepted by the decoder, so the re-encoded point is returned.
func (s RosterSha256Ed25519) ParseIdentity(raw []byte) ([]byte, error) {
	p, err := new(edwards25519.Point).SetBytes(raw)
	if err != nil {
		return nil, err
	}
	return p.Bytes(), nil
}

func (s RosterSha256Ed25519) GenerateIdentity() ([]byte, []byte, error) {
	pub, priv, err := ed25519.GenerateKey(rand.Reader)
	if err != nil {
		return nil, nil, err
	}
	canonical, err := s.ParseIdentity(pub)
	if err != nil {
		return nil, nil, err
	}
	return priv.Seed(), canonical, nil
}
