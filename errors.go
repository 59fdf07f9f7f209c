// Package blobcache implements a persistent, embedded, single-process
// key-value cache backed by an append-only blob file, an in-memory index,
// a write-ahead log for crash recovery, and vacuum-based compaction.
package blobcache

import "errors"

// Sentinel errors returned by Cache operations.
//
// Callers should use [errors.Is] to check error types, since every returned
// error wraps one of these with additional context:
//
//	if errors.Is(err, blobcache.ErrNotFound) {
//	    // ...
//	}
var (
	// ErrBadKey indicates an empty key was passed to an operation that
	// requires one.
	ErrBadKey = errors.New("blobcache: bad key")

	// ErrBadValue indicates a value is neither []byte nor encodable by
	// valuecodec.
	ErrBadValue = errors.New("blobcache: bad value")

	// ErrNotFound indicates the key is absent or expired and Get was called
	// without a refresh callback.
	ErrNotFound = errors.New("blobcache: not found")

	// ErrClosed indicates an operation was invoked on an already-closed
	// Cache, including calling Close twice.
	ErrClosed = errors.New("blobcache: closed")

	// ErrLocked indicates another process already holds the exclusive lock
	// on the blob file.
	//
	// Recovery: not retryable within the same process invocation - the
	// caller must wait for the other process to close its Cache.
	ErrLocked = errors.New("blobcache: locked by another process")

	// ErrIO wraps an underlying filesystem failure.
	ErrIO = errors.New("blobcache: io error")

	// ErrCodec wraps a compression or structured value encode/decode
	// failure.
	ErrCodec = errors.New("blobcache: codec error")

	// ErrCorrupt indicates a short read, malformed frame, internally
	// inconsistent length, or frame payload that fails to decompress while
	// reading the blob or index file.
	//
	// Recovery: none within this package - the blob or index file is
	// damaged. There is no repair tool; restore from backup or discard.
	ErrCorrupt = errors.New("blobcache: corrupt")
)
