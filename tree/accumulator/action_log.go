package accumulator

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/Bren2010/roster/crypto/commitments"
	"github.com/Bren2010/roster/crypto/suites"
	"github.com/Bren2010/roster/db"
)

// ErrUnknownMarker is returned when a marker does not correspond to any
// position of the action log.
var ErrUnknownMarker = errors.New("marker is not known to the action log")

// auditBatchSize is the number of actions read from the database at once when
// auditing the log.
const auditBatchSize = 1024

func marshalHead(size uint64, marker Marker) []byte {
	buf := &bytes.Buffer{}
	writeUint64(buf, size)
	writeBytes(buf, marker)
	return buf.Bytes()
}

func parseHead(raw []byte) (uint64, Marker, error) {
	buf := bytes.NewBuffer(raw)
	size, err := readUint64(buf)
	if err != nil {
		return 0, nil, err
	}
	marker, err := readBytes(buf)
	if err != nil {
		return 0, nil, err
	} else if err := readEnd(buf); err != nil {
		return 0, nil, err
	}
	return size, marker, nil
}

func marshalPosition(pos uint64) []byte {
	buf := &bytes.Buffer{}
	writeUint64(buf, pos)
	return buf.Bytes()
}

func parsePosition(raw []byte) (uint64, error) {
	buf := bytes.NewBuffer(raw)
	pos, err := readUint64(buf)
	if err != nil {
		return 0, err
	} else if err := readEnd(buf); err != nil {
		return 0, err
	}
	return pos, nil
}

// ActionLog is the append-only sequence of membership actions. Every action is
// either a real entry or the empty sentinel. Actions are never removed or
// modified; consumers keep track of how much of the log they've processed with
// a Marker.
//
// ActionLog is not safe for concurrent use.
type ActionLog struct {
	cs    suites.CipherSuite
	store db.AccumulatorStore

	size   uint64
	marker Marker
}

// NewActionLog loads the action log kept in `store`.
func NewActionLog(cs suites.CipherSuite, store db.AccumulatorStore) (*ActionLog, error) {
	raw, err := store.GetHead()
	if err != nil {
		return nil, err
	} else if raw == nil {
		return &ActionLog{cs: cs, store: store, marker: EmptyMarker(cs)}, nil
	}

	size, marker, err := parseHead(raw)
	if err != nil {
		return nil, fmt.Errorf("parsing action log head: %w", err)
	} else if len(marker) != cs.HashSize() {
		return nil, fmt.Errorf("action log head has marker of unexpected size: %v", len(marker))
	}
	return &ActionLog{cs: cs, store: store, size: size, marker: marker}, nil
}

// Size returns the number of actions in the log.
func (l *ActionLog) Size() uint64 { return l.size }

// Head returns the marker covering every action in the log.
func (l *ActionLog) Head() Marker { return l.marker }

// Append adds e to the end of the log and returns the new head marker. The
// action, its marker and the new head are committed to the database together.
// If an error is returned, none of them are.
func (l *ActionLog) Append(e *Entry) (Marker, error) {
	raw := e.Marshal()
	next := commitments.Commit(l.cs, l.marker, raw)

	if err := l.store.Put(l.size, raw); err != nil {
		l.store.Rollback()
		return nil, err
	} else if err := l.store.SetPosition(next, marshalPosition(l.size+1)); err != nil {
		l.store.Rollback()
		return nil, err
	} else if err := l.store.SetHead(marshalHead(l.size+1, next)); err != nil {
		l.store.Rollback()
		return nil, err
	} else if err := l.store.Commit(); err != nil {
		l.store.Rollback()
		return nil, fmt.Errorf("committing action: %w", err)
	}

	l.size, l.marker = l.size+1, next
	return next, nil
}

// Position returns the number of actions that `m` covers.
func (l *ActionLog) Position(m Marker) (uint64, error) {
	if m.Equal(EmptyMarker(l.cs)) {
		return 0, nil
	}
	raw, err := l.store.GetPosition(m)
	if err != nil {
		return 0, err
	} else if raw == nil {
		return 0, ErrUnknownMarker
	}
	pos, err := parsePosition(raw)
	if err != nil {
		return 0, fmt.Errorf("parsing position of marker %v: %w", m, err)
	} else if pos > l.size {
		return 0, fmt.Errorf("marker %v is past the end of the log", m)
	}
	return pos, nil
}

// get returns the actions in positions [start, end).
func (l *ActionLog) get(start, end uint64) ([][]byte, error) {
	keys := make([]uint64, 0, end-start)
	for i := start; i < end; i++ {
		keys = append(keys, i)
	}
	data, err := l.store.BatchGet(keys)
	if err != nil {
		return nil, err
	}

	out := make([][]byte, 0, len(keys))
	for _, key := range keys {
		raw, ok := data[key]
		if !ok {
			return nil, fmt.Errorf("action %v was not found in the database", key)
		}
		out = append(out, raw)
	}
	return out, nil
}

// Since returns the actions appended after `m`, in the order they were
// appended.
func (l *ActionLog) Since(m Marker) ([]*Entry, error) {
	pos, err := l.Position(m)
	if err != nil {
		return nil, err
	}
	raws, err := l.get(pos, l.size)
	if err != nil {
		return nil, err
	}

	out := make([]*Entry, 0, len(raws))
	for i, raw := range raws {
		e, err := ParseEntry(raw)
		if err != nil {
			return nil, fmt.Errorf("parsing action %v: %w", pos+uint64(i), err)
		}
		out = append(out, e)
	}
	return out, nil
}

// Audit replays the whole log from the empty marker and checks that every
// stored marker maps to the right position and that the head marker opens to
// the last action.
func (l *ActionLog) Audit() error {
	prev, marker := Marker(nil), EmptyMarker(l.cs)
	var last []byte

	for start := uint64(0); start < l.size; start += auditBatchSize {
		end := min(start+auditBatchSize, l.size)
		raws, err := l.get(start, end)
		if err != nil {
			return err
		}

		for i, raw := range raws {
			if _, err := ParseEntry(raw); err != nil {
				return fmt.Errorf("parsing action %v: %w", start+uint64(i), err)
			}
			prev, marker, last = marker, commitments.Commit(l.cs, marker, raw), raw

			pos, err := l.Position(marker)
			if err != nil {
				return fmt.Errorf("looking up marker of action %v: %w", start+uint64(i), err)
			} else if pos != start+uint64(i)+1 {
				return fmt.Errorf("marker of action %v maps to position %v", start+uint64(i), pos)
			}
		}
	}

	if l.size == 0 {
		if !l.marker.Equal(EmptyMarker(l.cs)) {
			return errors.New("empty log has unexpected head marker")
		}
		return nil
	} else if !commitments.Verify(l.cs, prev, last, l.marker) {
		return errors.New("head marker does not match the last action")
	}
	return nil
}
