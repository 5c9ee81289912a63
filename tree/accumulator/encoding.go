package accumulator

import (
	"bytes"
	"encoding/binary"
	"errors"
	"io"
)

func writeUint64(buf *bytes.Buffer, x uint64) {
	buf.Write(binary.BigEndian.AppendUint64(nil, x))
}

func readUint64(buf *bytes.Buffer) (uint64, error) {
	var x uint64
	if err := binary.Read(buf, binary.BigEndian, &x); err != nil {
		return 0, err
	}
	return x, nil
}

func writeBytes(buf *bytes.Buffer, b []byte) {
	buf.Write(binary.AppendUvarint(nil, uint64(len(b))))
	buf.Write(b)
}

func readBytes(buf *bytes.Buffer) ([]byte, error) {
	size, err := binary.ReadUvarint(buf)
	if err != nil {
		return nil, err
	} else if size > uint64(buf.Len()) {
		return nil, io.ErrUnexpectedEOF
	}
	out := make([]byte, size)
	if _, err := io.ReadFull(buf, out); err != nil {
		return nil, err
	}
	return out, nil
}

func readEnd(buf *bytes.Buffer) error {
	if buf.Len() != 0 {
		return errors.New("unexpected trailing data")
	}
	return nil
}
