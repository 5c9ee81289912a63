// Package db implements database wrappers that match a common interface.
package db

// LogStore is the interface a Log Tree uses to communicate with its database.
type LogStore interface {
	BatchGet(keys []uint64) (data map[uint64][]byte, err error)
	BatchPut(data map[uint64][]byte) error
}

// AccumulatorStore is the interface a membership accumulator uses to
// communicate with its database. Writes are buffered until Commit is called,
// and Commit applies them all at once.
type AccumulatorStore interface {
	// GetHead returns the serialized head of the action log, or nil if no
	// action has been appended yet.
	GetHead() ([]byte, error)
	SetHead(raw []byte) error

	// GetCheckpoint returns the serialized committed checkpoint, or nil if
	// nothing has been committed yet.
	GetCheckpoint() ([]byte, error)
	SetCheckpoint(raw []byte) error

	// GetPosition returns the log position that follows the action which
	// produced `marker`, or nil if the marker is unknown.
	GetPosition(marker []byte) ([]byte, error)
	SetPosition(marker, raw []byte) error

	// BatchGet returns the serialized actions at the requested positions.
	// Positions that don't exist are omitted from the output.
	BatchGet(keys []uint64) (map[uint64][]byte, error)
	Put(key uint64, data []byte) error

	// LogStore returns a handle to the nodes of a Log Tree kept in the same
	// database.
	LogStore() LogStore
	// GetTreeSize returns the number of leaves in the Log Tree kept in the same
	// database.
	GetTreeSize() (uint64, error)
	SetTreeSize(n uint64) error

	// Commit applies every buffered write at once. If it fails, none of the
	// buffered writes are applied and they are discarded.
	Commit() error
	// Rollback discards every write buffered since the last Commit.
	Rollback()
	Close() error
}
