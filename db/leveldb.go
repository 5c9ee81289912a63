package db

import (
	"encoding/binary"
	"errors"
	"fmt"

	"github.com/syndtr/goleveldb/leveldb"
	lerrors "github.com/syndtr/goleveldb/leveldb/errors"
	"github.com/syndtr/goleveldb/leveldb/opt"
	"github.com/syndtr/goleveldb/leveldb/storage"
)

const (
	leveldbHeadKey       = "head"
	leveldbCheckpointKey = "checkpoint"
	leveldbTreeSizeKey   = "tree-size"
)

func dup(in []byte) []byte {
	out := make([]byte, len(in))
	copy(out, in)
	return out
}

// ldbConn is a wrapper around a base LevelDB database that handles batching
// writes between commits transparently.
type ldbConn struct {
	conn  *leveldb.DB
	batch map[string][]byte
}

func newLDBConn(conn *leveldb.DB) *ldbConn {
	return &ldbConn{conn, make(map[string][]byte)}
}

// Get returns the value of key, or nil if it doesn't exist.
func (c *ldbConn) Get(key string) ([]byte, error) {
	if value, ok := c.batch[key]; ok {
		return dup(value), nil
	}
	value, err := c.conn.Get([]byte(key), nil)
	if errors.Is(err, leveldb.ErrNotFound) {
		return nil, nil
	} else if err != nil {
		return nil, err
	}
	return value, nil
}

func (c *ldbConn) Put(key string, value []byte) {
	c.batch[key] = dup(value)
}

// Commit writes all buffered values in a single LevelDB batch, so either all
// of them become visible or none do. The buffer is emptied either way.
func (c *ldbConn) Commit() error {
	if len(c.batch) == 0 {
		return nil
	}
	b := new(leveldb.Batch)
	for key, value := range c.batch {
		b.Put([]byte(key), value)
	}
	c.Rollback()
	return c.conn.Write(b, &opt.WriteOptions{Sync: true})
}

// Rollback discards all buffered values.
func (c *ldbConn) Rollback() {
	c.batch = make(map[string][]byte)
}

// ldbAccumulatorStore implements the AccumulatorStore interface over a LevelDB
// database.
type ldbAccumulatorStore struct {
	conn *ldbConn
}

// NewLDBAccumulatorStore opens, or creates, the LevelDB database at `file`.
func NewLDBAccumulatorStore(file string) (AccumulatorStore, error) {
	conn, err := leveldb.OpenFile(file, nil)
	if lerrors.IsCorrupted(err) {
		conn, err = leveldb.RecoverFile(file, nil)
	}
	if err != nil {
		return nil, err
	}
	return &ldbAccumulatorStore{newLDBConn(conn)}, nil
}

// NewLDBMemoryStore returns a LevelDB database that is kept entirely in
// memory.
func NewLDBMemoryStore() (AccumulatorStore, error) {
	conn, err := leveldb.Open(storage.NewMemStorage(), nil)
	if err != nil {
		return nil, err
	}
	return &ldbAccumulatorStore{newLDBConn(conn)}, nil
}

func (ldb *ldbAccumulatorStore) GetHead() ([]byte, error) {
	return ldb.conn.Get(leveldbHeadKey)
}

func (ldb *ldbAccumulatorStore) SetHead(raw []byte) error {
	ldb.conn.Put(leveldbHeadKey, raw)
	return nil
}

func (ldb *ldbAccumulatorStore) GetCheckpoint() ([]byte, error) {
	return ldb.conn.Get(leveldbCheckpointKey)
}

func (ldb *ldbAccumulatorStore) SetCheckpoint(raw []byte) error {
	ldb.conn.Put(leveldbCheckpointKey, raw)
	return nil
}

func (ldb *ldbAccumulatorStore) GetPosition(marker []byte) ([]byte, error) {
	return ldb.conn.Get("m" + fmt.Sprintf("%x", marker))
}

func (ldb *ldbAccumulatorStore) SetPosition(marker, raw []byte) error {
	ldb.conn.Put("m"+fmt.Sprintf("%x", marker), raw)
	return nil
}

func (ldb *ldbAccumulatorStore) BatchGet(keys []uint64) (map[uint64][]byte, error) {
	out := make(map[uint64][]byte)

	for _, key := range keys {
		value, err := ldb.conn.Get("a" + fmt.Sprint(key))
		if err != nil {
			return nil, err
		} else if value == nil {
			continue
		}
		out[key] = value
	}

	return out, nil
}

func (ldb *ldbAccumulatorStore) Put(key uint64, data []byte) error {
	ldb.conn.Put("a"+fmt.Sprint(key), data)
	return nil
}

func (ldb *ldbAccumulatorStore) LogStore() LogStore {
	return &ldbLogStore{ldb.conn}
}

func (ldb *ldbAccumulatorStore) GetTreeSize() (uint64, error) {
	raw, err := ldb.conn.Get(leveldbTreeSizeKey)
	if err != nil {
		return 0, err
	} else if raw == nil {
		return 0, nil
	} else if len(raw) != 8 {
		return 0, fmt.Errorf("tree size has unexpected length: %v", len(raw))
	}
	return binary.BigEndian.Uint64(raw), nil
}

func (ldb *ldbAccumulatorStore) SetTreeSize(n uint64) error {
	ldb.conn.Put(leveldbTreeSizeKey, binary.BigEndian.AppendUint64(nil, n))
	return nil
}

func (ldb *ldbAccumulatorStore) Commit() error {
	return ldb.conn.Commit()
}

func (ldb *ldbAccumulatorStore) Rollback() {
	ldb.conn.Rollback()
}

func (ldb *ldbAccumulatorStore) Close() error {
	return ldb.conn.conn.Close()
}

// ldbLogStore implements the LogStore interface over LevelDB.
type ldbLogStore struct {
	conn *ldbConn
}

func (ls *ldbLogStore) BatchGet(keys []uint64) (map[uint64][]byte, error) {
	out := make(map[uint64][]byte)

	for _, key := range keys {
		value, err := ls.conn.Get("l" + fmt.Sprint(key))
		if err != nil {
			return nil, err
		} else if value == nil {
			continue
		}
		out[key] = value
	}

	return out, nil
}

func (ls *ldbLogStore) BatchPut(data map[uint64][]byte) error {
	for key, value := range data {
		ls.conn.Put("l"+fmt.Sprint(key), value)
	}
	return nil
}
