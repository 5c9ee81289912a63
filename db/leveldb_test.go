package db

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLDBBuffersUntilCommit(t *testing.T) {
	store, err := NewLDBMemoryStore()
	require.NoError(t, err)
	defer store.Close()
	ldb := store.(*ldbAccumulatorStore)

	require.NoError(t, store.Put(0, []byte("action")))
	require.NoError(t, store.SetHead([]byte("head")))

	// Reads through the same connection see buffered writes.
	got, err := store.BatchGet([]uint64{0, 1})
	require.NoError(t, err)
	require.Equal(t, map[uint64][]byte{0: []byte("action")}, got)

	// The underlying database doesn't until Commit.
	_, err = ldb.conn.conn.Get([]byte("a0"), nil)
	require.Error(t, err)

	require.NoError(t, store.Commit())
	raw, err := ldb.conn.conn.Get([]byte("a0"), nil)
	require.NoError(t, err)
	require.Equal(t, []byte("action"), raw)

	head, err := store.GetHead()
	require.NoError(t, err)
	require.Equal(t, []byte("head"), head)
}

func TestLDBMissingValues(t *testing.T) {
	store, err := NewLDBMemoryStore()
	require.NoError(t, err)
	defer store.Close()

	head, err := store.GetHead()
	require.NoError(t, err)
	require.Nil(t, head)

	checkpoint, err := store.GetCheckpoint()
	require.NoError(t, err)
	require.Nil(t, checkpoint)

	pos, err := store.GetPosition([]byte{1, 2, 3})
	require.NoError(t, err)
	require.Nil(t, pos)

	n, err := store.GetTreeSize()
	require.NoError(t, err)
	require.Zero(t, n)
}

func TestLDBReopen(t *testing.T) {
	file := filepath.Join(t.TempDir(), "roster.db")

	store, err := NewLDBAccumulatorStore(file)
	require.NoError(t, err)
	require.NoError(t, store.SetCheckpoint([]byte("checkpoint")))
	require.NoError(t, store.SetPosition([]byte{0xab}, []byte{1}))
	require.NoError(t, store.SetTreeSize(42))
	require.NoError(t, store.LogStore().BatchPut(map[uint64][]byte{6: []byte("node")}))
	require.NoError(t, store.Commit())
	require.NoError(t, store.Close())

	store, err = NewLDBAccumulatorStore(file)
	require.NoError(t, err)
	defer store.Close()

	checkpoint, err := store.GetCheckpoint()
	require.NoError(t, err)
	require.Equal(t, []byte("checkpoint"), checkpoint)

	pos, err := store.GetPosition([]byte{0xab})
	require.NoError(t, err)
	require.Equal(t, []byte{1}, pos)

	n, err := store.GetTreeSize()
	require.NoError(t, err)
	require.Equal(t, uint64(42), n)

	nodes, err := store.LogStore().BatchGet([]uint64{6, 7})
	require.NoError(t, err)
	require.Equal(t, map[uint64][]byte{6: []byte("node")}, nodes)
}

func TestLDBRollback(t *testing.T) {
	store, err := NewLDBMemoryStore()
	require.NoError(t, err)
	defer store.Close()

	require.NoError(t, store.SetHead([]byte("head")))
	require.NoError(t, store.Commit())

	require.NoError(t, store.Put(0, []byte("action")))
	require.NoError(t, store.SetHead([]byte("new head")))
	store.Rollback()
	require.NoError(t, store.Commit())

	head, err := store.GetHead()
	require.NoError(t, err)
	require.Equal(t, []byte("head"), head)
	got, err := store.BatchGet([]uint64{0})
	require.NoError(t, err)
	require.Empty(t, got)
}

func TestLDBFailedCommitDiscardsWrites(t *testing.T) {
	store, err := NewLDBMemoryStore()
	require.NoError(t, err)
	ldb := store.(*ldbAccumulatorStore)

	require.NoError(t, store.SetHead([]byte("head")))
	require.NoError(t, ldb.conn.conn.Close())
	require.Error(t, store.Commit())
	require.Empty(t, ldb.conn.batch)
}
