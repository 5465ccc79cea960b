// Package store implements the §6 on-disk file formats: the record
// file, invocation DB file, shape-rule file, input-constraint file,
// dialect-match file, and validity file, each msgpack-encoded behind a
// small versioned envelope per spec §9 ("explicit on-disk schema with
// a versioned header").
//
// Every Write goes through WriteAtomic, matching spec §5's "result for
// each operator is a single output file written atomically
// (write-then-rename), so a crashed worker leaves no partial state
// visible".
package store

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/vmihailenco/msgpack/v5"
)

// Kind tags which §6 file format a Header's payload decodes as.
type Kind string

const (
	KindRecord          Kind = "record"
	KindInvocationDB    Kind = "invocdb"
	KindShapeRule       Kind = "shaperules"
	KindInputConstraint Kind = "constraintrules"
	KindDialectMatch    Kind = "dialectmatch"
	KindValidity        Kind = "validity"
	KindGraph           Kind = "graph"
)

// CurrentVersion is the envelope format version this package writes.
const CurrentVersion = 1

// Header is the versioned envelope every file on disk carries before
// its payload, so a future format change can be detected rather than
// silently misdecoded.
type Header struct {
	Version int
	Kind    Kind
}

// envelope is the actual wire shape: header fields inline, payload
// carried as raw bytes so Decode can dispatch on Kind before
// unmarshaling the payload into its concrete Go type.
type envelope struct {
	Version int
	Kind    Kind
	Payload []byte
}

// Encode wraps payload in a versioned envelope and msgpack-encodes the
// result.
func Encode(kind Kind, payload any) ([]byte, error) {
	raw, err := msgpack.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("store: encode payload: %w", err)
	}
	return msgpack.Marshal(envelope{Version: CurrentVersion, Kind: kind, Payload: raw})
}

// Decode reads the envelope header and unmarshals its payload into
// out, verifying kind and version match what the caller expects.
func Decode(data []byte, kind Kind, out any) error {
	var env envelope
	if err := msgpack.Unmarshal(data, &env); err != nil {
		return fmt.Errorf("store: decode envelope: %w", err)
	}
	if env.Kind != kind {
		return fmt.Errorf("store: expected kind %q, file has %q", kind, env.Kind)
	}
	if env.Version != CurrentVersion {
		return fmt.Errorf("store: unsupported envelope version %d", env.Version)
	}
	return msgpack.Unmarshal(env.Payload, out)
}

// WriteAtomic writes data to path by first writing to a sibling
// temporary file and renaming it into place, so a process crash mid-
// write never leaves a half-written file visible under path (spec
// §5).
func WriteAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, ".tmp-*")
	if err != nil {
		return fmt.Errorf("store: create temp file: %w", err)
	}
	tmpPath := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("store: write temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("store: close temp file: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("store: rename temp file into place: %w", err)
	}
	return nil
}

// OperatorFilePath builds the "<name_index>.<ext>" path spec §6
// describes for per-OI files.
func OperatorFilePath(dir, nameIndex, ext string) string {
	return filepath.Join(dir, nameIndex+"."+ext)
}
