package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/Bren2010/roster/api"
)

// printJSON writes v to w as indented JSON.
func printJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// readEntry reads a JSON-encoded entry from a file, or from stdin if the
// filename is "-".
func readEntry(filename string) (*api.Entry, error) {
	var (
		raw []byte
		err error
	)
	if filename == "-" {
		raw, err = io.ReadAll(os.Stdin)
	} else {
		raw, err = os.ReadFile(filename)
	}
	if err != nil {
		return nil, err
	}

	var e api.Entry
	if err := json.Unmarshal(raw, &e); err != nil {
		return nil, fmt.Errorf("failed to parse entry: %w", err)
	}
	return &e, nil
}
