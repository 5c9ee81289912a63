package accumulator

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/Bren2010/roster/crypto/suites"
	"github.com/Bren2010/roster/db/memory"
)

func TestActionLogSince(t *testing.T) {
	cs := suites.RosterSha256P256{}
	store := memory.NewAccumulatorStore()
	l, err := NewActionLog(cs, store)
	require.NoError(t, err)
	require.True(t, l.Head().Equal(EmptyMarker(cs)))

	entries := testEntries(t, cs, 5)
	markers := []Marker{EmptyMarker(cs)}
	for _, e := range entries {
		m, err := l.Append(e)
		require.NoError(t, err)
		require.True(t, m.Equal(markers[len(markers)-1].Advance(cs, e)))
		markers = append(markers, m)
	}
	require.Equal(t, uint64(5), l.Size())

	for i, m := range markers {
		since, err := l.Since(m)
		require.NoError(t, err)
		require.Len(t, since, len(entries)-i)
		for j, e := range since {
			require.Equal(t, entries[i+j].Marshal(), e.Marshal())
		}
	}

	_, err = l.Since(make(Marker, 32)[:31])
	require.ErrorIs(t, err, ErrUnknownMarker)

	// A fresh handle over the same store picks up where the last left off.
	reloaded, err := NewActionLog(cs, store)
	require.NoError(t, err)
	require.Equal(t, l.Size(), reloaded.Size())
	require.True(t, l.Head().Equal(reloaded.Head()))
	require.NoError(t, reloaded.Audit())
}

func TestActionLogAudit(t *testing.T) {
	cs := suites.RosterSha256Ed25519{}

	setup := func() (*memory.AccumulatorStore, *ActionLog) {
		store := memory.NewAccumulatorStore()
		l, err := NewActionLog(cs, store)
		require.NoError(t, err)
		require.NoError(t, l.Audit())
		for _, e := range testEntries(t, cs, 3) {
			_, err := l.Append(e)
			require.NoError(t, err)
		}
		require.NoError(t, l.Audit())
		return store, l
	}

	// Modified action.
	store, l := setup()
	tampered := testEntries(t, cs, 1)[0]
	store.Actions[1] = tampered.Marshal()
	require.Error(t, l.Audit())

	// Unparseable action.
	store, l = setup()
	store.Actions[2] = []byte{0xff}
	require.Error(t, l.Audit())

	// Modified head.
	store, _ = setup()
	size, marker, err := parseHead(store.Head)
	require.NoError(t, err)
	marker[0] ^= 1
	store.Head = marshalHead(size, marker)
	l, err = NewActionLog(cs, store)
	require.NoError(t, err)
	require.Error(t, l.Audit())
}

func TestParseEntry(t *testing.T) {
	cs := suites.RosterSha256P256{}
	e := testEntries(t, cs, 1)[0]
	e.Witness.Copath = [][]byte{make([]byte, 32), make([]byte, 32)}
	raw := e.Marshal()

	parsed, err := ParseEntry(raw)
	require.NoError(t, err)
	require.Equal(t, e, parsed)

	_, err = ParseEntry(raw[:len(raw)-1])
	require.Error(t, err)
	_, err = ParseEntry(append(raw, 0))
	require.Error(t, err)
	_, err = ParseEntry(nil)
	require.Error(t, err)
}
