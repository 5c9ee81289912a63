package memory

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRollback(t *testing.T) {
	store := NewAccumulatorStore()
	require.NoError(t, store.SetHead([]byte("head")))
	require.NoError(t, store.Put(0, []byte("first")))
	require.NoError(t, store.Commit())

	require.NoError(t, store.SetHead([]byte("new head")))
	require.NoError(t, store.SetCheckpoint([]byte("checkpoint")))
	require.NoError(t, store.SetPosition([]byte{1}, []byte("position")))
	require.NoError(t, store.Put(0, []byte("overwritten")))
	require.NoError(t, store.Put(1, []byte("second")))
	require.NoError(t, store.SetTreeSize(5))
	store.Rollback()

	head, err := store.GetHead()
	require.NoError(t, err)
	require.Equal(t, []byte("head"), head)
	cp, err := store.GetCheckpoint()
	require.NoError(t, err)
	require.Nil(t, cp)
	pos, err := store.GetPosition([]byte{1})
	require.NoError(t, err)
	require.Nil(t, pos)
	actions, err := store.BatchGet([]uint64{0, 1})
	require.NoError(t, err)
	require.Equal(t, map[uint64][]byte{0: []byte("first")}, actions)
	n, err := store.GetTreeSize()
	require.NoError(t, err)
	require.EqualValues(t, 0, n)

	// Nothing is left to undo after a commit.
	require.NoError(t, store.SetTreeSize(5))
	require.NoError(t, store.Commit())
	store.Rollback()
	n, err = store.GetTreeSize()
	require.NoError(t, err)
	require.EqualValues(t, 5, n)
}
