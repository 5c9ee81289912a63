// Package api defines the messages exchanged with roster-server, and a client
// for sending them.
package api

import (
	"github.com/Bren2010/roster/tree/accumulator"
	"github.com/Bren2010/roster/tree/log"
)

// Entry is the JSON encoding of a membership entry.
type Entry struct {
	Identity  []byte      `json:"identity"`
	Attribute uint64      `json:"attribute"`
	Witness   log.Witness `json:"witness"`
}

func FromEntry(e *accumulator.Entry) *Entry {
	return &Entry{Identity: e.Identity, Attribute: e.Attribute, Witness: e.Witness}
}

func (e *Entry) ToEntry() *accumulator.Entry {
	return &accumulator.Entry{Identity: e.Identity, Attribute: e.Attribute, Witness: e.Witness}
}

type MetaResponse struct {
	Suite         string `json:"suite"`
	HashAlgorithm string `json:"hash_algorithm"`
	EmptyIdentity []byte `json:"empty_identity"`
	MinAttribute  uint64 `json:"min_attribute"`
	MaxAttribute  uint64 `json:"max_attribute"`
}

type AdmitResponse struct {
	Existed bool `json:"existed"`
}

type CheckpointResponse struct {
	Root    []byte `json:"root"`
	Marker  []byte `json:"marker"`
	LogSize uint64 `json:"log_size"`
}

type MemberResponse struct {
	Member bool   `json:"member"`
	Root   []byte `json:"root"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}
