package accumulator

import (
	"encoding/hex"

	"github.com/Bren2010/roster/crypto/branchless"
	"github.com/Bren2010/roster/crypto/commitments"
	"github.com/Bren2010/roster/crypto/suites"
)

// Marker is a commitment to the ordered sequence of actions appended to the
// action log so far. Each append chains a new commitment, with the previous
// marker as the opening and the serialized action as the body.
type Marker []byte

// EmptyMarker returns the marker of an empty action log.
func EmptyMarker(cs suites.CipherSuite) Marker {
	return make(Marker, cs.HashSize())
}

// Advance returns the marker that results from appending e after m.
func (m Marker) Advance(cs suites.CipherSuite, e *Entry) Marker {
	return commitments.Commit(cs, m, e.Marshal())
}

func (m Marker) Equal(other Marker) bool {
	return branchless.Equal(m, other)
}

func (m Marker) String() string {
	return hex.EncodeToString(m)
}
