// Package blobfmt implements the fixed-width little-endian binary layouts
// shared by the blob header, index snapshot, and write-ahead log: the on-disk
// formats fixed by the cache's file format (see SPEC_FULL.md §6 at the
// repository root for the layout tables).
//
// Every multi-byte integer is little-endian and fixed width. There is no
// schema evolution: changing a width or field order here is a breaking
// on-disk format change, not a version this package negotiates.
package blobfmt

import (
	"encoding/binary"
	"errors"
	"io"
)

// Field widths, in bytes, for the primitives used across the blob header,
// index entries, and WAL records.
const (
	FlagWidth   = 1
	U32Width    = 4
	U64Width    = 8
	OpFlagWidth = 1
)

// Header is the fixed ASCII sentinel written once at the start of a new blob
// file.
const Header = "blob.cache.data.01"

// HeaderLen is len(Header): the number of leading blob bytes that the
// fragmentation ratio excludes.
const HeaderLen = len(Header)

// PutU32 encodes v as 4 little-endian bytes into buf[0:4].
func PutU32(buf []byte, v uint32) {
	binary.LittleEndian.PutUint32(buf, v)
}

// U32 decodes 4 little-endian bytes from buf[0:4].
func U32(buf []byte) uint32 {
	return binary.LittleEndian.Uint32(buf)
}

// PutU64 encodes v as 8 little-endian bytes into buf[0:8].
func PutU64(buf []byte, v uint64) {
	binary.LittleEndian.PutUint64(buf, v)
}

// U64 decodes 8 little-endian bytes from buf[0:8].
func U64(buf []byte) uint64 {
	return binary.LittleEndian.Uint64(buf)
}

// ReadFull reads exactly len(buf) bytes from r into buf.
//
// Returns io.EOF if zero bytes could be read (a clean end-of-stream: the
// caller was at a valid record boundary). Returns io.ErrUnexpectedEOF if one
// or more bytes but fewer than len(buf) were read (a torn trailing record).
// Callers use this distinction to tell "nothing more to read" apart from
// "the last record was cut off mid-write".
func ReadFull(r io.Reader, buf []byte) error {
	n, err := io.ReadFull(r, buf)
	if err == nil {
		return nil
	}

	if errors.Is(err, io.EOF) && n == 0 {
		return io.EOF
	}

	return io.ErrUnexpectedEOF
}
