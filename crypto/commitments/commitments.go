// Package commitments implements a cryptographic commitment.
package commitments

import (
	"crypto/hmac"

	"github.com/Bren2010/roster/crypto/suites"
)

// Commit returns a cryptographic commitment to `body` with the given `opening`.
//
// Chaining commitments, where each opening is the previous commitment, yields a
// value that binds the whole ordered sequence of bodies.
func Commit(cs suites.CipherSuite, opening, body []byte) []byte {
	mac := hmac.New(cs.Hash, cs.CommitmentFixedBytes())
	mac.Write(opening)
	mac.Write(body)
	return mac.Sum(nil)
}

// Verify returns true if `commitment` corresponds to a commitment to `body`
// with the given `opening`.
func Verify(cs suites.CipherSuite, opening, body, commitment []byte) bool {
	cand := Commit(cs, opening, body)
	return hmac.Equal(commitment, cand)
}
