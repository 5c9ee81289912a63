package accumulator

import (
	"bytes"
	"encoding/binary"
	"fmt"

	"github.com/Bren2010/roster/crypto/branchless"
	"github.com/Bren2010/roster/crypto/suites"
	"github.com/Bren2010/roster/tree/log"
)

// Entry is a membership entry: the identity being admitted, the numeric
// attribute that admission is conditioned on, and the witness placing the
// entry's leaf in the Log Tree maintained outside of the accumulator.
//
// Entries are treated as immutable once created.
type Entry struct {
	Identity  []byte
	Attribute uint64
	Witness   log.Witness
}

// Empty returns the sentinel entry. Its identity is the identity element of
// the cipher suite's group, which is never a valid member.
func Empty(cs suites.CipherSuite) *Entry {
	return &Entry{Identity: cs.EmptyIdentity()}
}

// IsReal returns true if e is not the sentinel entry.
func (e *Entry) IsReal(cs suites.CipherSuite) bool {
	return branchless.Not(branchless.Equal(e.Identity, cs.EmptyIdentity()))
}

// Equal returns true if a and b describe the same member. Witnesses are not
// compared.
func Equal(a, b *Entry) bool {
	return branchless.And(
		branchless.Equal(a.Identity, b.Identity),
		branchless.EqualUint64(a.Attribute, b.Attribute),
	)
}

// LeafHash returns the value of e's leaf in the Log Tree.
func (e *Entry) LeafHash(cs suites.CipherSuite) []byte {
	buf := &bytes.Buffer{}
	buf.WriteString("Roster Member")
	buf.Write(binary.BigEndian.AppendUint16(nil, cs.Id()))
	writeBytes(buf, e.Identity)
	writeUint64(buf, e.Attribute)

	h := cs.Hash()
	h.Write(buf.Bytes())
	return h.Sum(nil)
}

// Marshal returns the serialized entry, as stored in the action log.
func (e *Entry) Marshal() []byte {
	buf := &bytes.Buffer{}
	writeBytes(buf, e.Identity)
	writeUint64(buf, e.Attribute)
	writeUint64(buf, e.Witness.Position)
	writeUint64(buf, e.Witness.Size)
	buf.Write(binary.AppendUvarint(nil, uint64(len(e.Witness.Copath))))
	for _, elem := range e.Witness.Copath {
		writeBytes(buf, elem)
	}
	return buf.Bytes()
}

// ParseEntry parses a serialized entry.
func ParseEntry(raw []byte) (*Entry, error) {
	buf := bytes.NewBuffer(raw)

	identity, err := readBytes(buf)
	if err != nil {
		return nil, fmt.Errorf("reading identity: %w", err)
	}
	attribute, err := readUint64(buf)
	if err != nil {
		return nil, fmt.Errorf("reading attribute: %w", err)
	}
	position, err := readUint64(buf)
	if err != nil {
		return nil, fmt.Errorf("reading witness position: %w", err)
	}
	size, err := readUint64(buf)
	if err != nil {
		return nil, fmt.Errorf("reading witness size: %w", err)
	}
	count, err := binary.ReadUvarint(buf)
	if err != nil {
		return nil, fmt.Errorf("reading witness length: %w", err)
	} else if count > uint64(buf.Len()) {
		return nil, fmt.Errorf("witness has too many elements: %v", count)
	}
	var copath [][]byte
	for i := uint64(0); i < count; i++ {
		elem, err := readBytes(buf)
		if err != nil {
			return nil, fmt.Errorf("reading witness element: %w", err)
		}
		copath = append(copath, elem)
	}
	if err := readEnd(buf); err != nil {
		return nil, err
	}

	return &Entry{
		Identity:  identity,
		Attribute: attribute,
		Witness:   log.Witness{Position: position, Size: size, Copath: copath},
	}, nil
}
