// Package fsx provides the narrow filesystem abstraction the cache engine
// needs: open/read/write/rename/remove plus an advisory whole-file lock.
//
// The engine only ever talks to the [FS] interface, never to [os] directly.
// [Real] is the only implementation in this module; the engine's tests run
// against it in temporary directories.
package fsx

import (
	"io"
	"os"
)

// File represents an open file descriptor.
//
// This interface is satisfied by [os.File] and is usable with all stdlib
// functions accepting [io.Reader], [io.Writer], [io.Seeker], or [io.Closer].
type File interface {
	io.ReadWriteCloser
	io.Seeker

	// Fd returns the file descriptor.
	Fd() uintptr

	// Stat returns the [os.FileInfo] for this file.
	Stat() (os.FileInfo, error)
}

// Lock represents a held advisory lock. Call Close to release it.
type Lock interface {
	io.Closer
}

// FS defines the filesystem operations the cache engine depends on.
//
// All methods mirror their [os] package equivalents so [Real] is a thin
// passthrough; fakes used in tests can inject short reads, torn writes, and
// lock contention without satisfying anything beyond this interface.
type FS interface {
	// OpenFile opens a file with the given flags and permissions. See [os.OpenFile].
	OpenFile(path string, flag int, perm os.FileMode) (File, error)

	// ReadFile reads an entire file into memory. See [os.ReadFile].
	// Returns os.ErrNotExist (wrapped) if the file does not exist.
	ReadFile(path string) ([]byte, error)

	// WriteFileAtomic writes data to path using a temp-file-then-rename
	// sequence so a reader never observes a partial write.
	WriteFileAtomic(path string, data []byte, perm os.FileMode) error

	// Stat returns file info, or an error satisfying os.IsNotExist if absent.
	Stat(path string) (os.FileInfo, error)

	// Remove deletes a file. Returns nil if the file does not exist.
	Remove(path string) error

	// Rename atomically replaces newpath with oldpath's contents.
	Rename(oldpath, newpath string) error

	// Lock acquires an exclusive, non-blocking advisory lock on path.
	// Returns ErrWouldBlock if another process already holds it.
	Lock(path string) (Lock, error)
}

// Compile-time interface check.
var _ File = (*os.File)(nil)
