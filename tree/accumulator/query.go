package accumulator

import (
	"github.com/Bren2010/roster/crypto/branchless"
	"github.com/Bren2010/roster/crypto/suites"
	"github.com/Bren2010/roster/tree/log"
)

// IsMember returns true if e's witness leads from e's leaf to `root`. The
// empty sentinel is never a member.
func IsMember(cs suites.CipherSuite, e *Entry, root []byte) bool {
	cand := log.Recompute(cs, e.LeafHash(cs), &e.Witness)
	return branchless.And(e.IsReal(cs), branchless.Equal(cand, root))
}

// IsMember returns true if e is a member as of the last committed checkpoint.
// Pending admissions are not visible until the next Publish.
func (a *Accumulator) IsMember(e *Entry) bool {
	return IsMember(a.cs, e, a.Checkpoint().Value)
}
