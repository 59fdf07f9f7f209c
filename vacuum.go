package blobcache

import (
	"fmt"
	"io"
	"os"

	"github.com/ddofborg/blobcache/internal/blobfmt"
)

// Vacuum rebuilds the blob file keeping only live frames, in index
// iteration order, then atomically replaces the blob file and reopens the
// cache's read and append handles against it.
//
// Vacuum requires no argument. After the rename it takes the engine's
// exclusive lock again on the new blob file and releases the one held on
// the replaced file. It writes a fresh index snapshot and removes
// the WAL, since the rebuilt blob makes every previously recorded offset
// stale.
func (c *Cache) Vacuum() error {
	if c.closed {
		return ErrClosed
	}

	return c.vacuumLocked()
}

func (c *Cache) vacuumLocked() error {
	tmpPath := c.blobPath + tmpSuffix

	tmp, err := c.fs.OpenFile(tmpPath, os.O_RDWR|os.O_CREATE|os.O_TRUNC, 0o644)
	if err != nil {
		return fmt.Errorf("%w: create vacuum temp file: %v", ErrIO, err)
	}

	if _, err := tmp.Write([]byte(blobHeader)); err != nil {
		_ = tmp.Close()

		return fmt.Errorf("%w: write vacuum header: %v", ErrIO, err)
	}

	rebuilt := make(map[string]indexEntry, len(c.index))

	for key, entry := range c.index {
		_, payload, err := c.readRawFrame(entry)
		if err != nil {
			_ = tmp.Close()

			return err
		}

		newStart, err := tmp.Seek(0, io.SeekEnd)
		if err != nil {
			_ = tmp.Close()

			return fmt.Errorf("%w: seek vacuum temp file: %v", ErrIO, err)
		}

		if _, err := tmp.Write(payload); err != nil {
			_ = tmp.Close()

			return fmt.Errorf("%w: write vacuum frame: %v", ErrIO, err)
		}

		rebuilt[key] = indexEntry{start: uint64(newStart), length: entry.length, expires: entry.expires}
	}

	if err := tmp.Close(); err != nil {
		return fmt.Errorf("%w: close vacuum temp file: %v", ErrIO, err)
	}

	if err := c.fs.Rename(tmpPath, c.blobPath); err != nil {
		return fmt.Errorf("%w: rename vacuum file over blob: %v", ErrIO, err)
	}

	// The held lock belongs to the replaced inode; lock the new file so a
	// second opener still fails with ErrLocked.
	newLock, err := c.fs.Lock(c.blobPath)
	if err != nil {
		return fmt.Errorf("%w: relock blob after vacuum: %v", ErrIO, err)
	}

	_ = c.lock.Close()
	c.lock = newLock

	// The rename replaces the blob's inode out from under both open handles:
	// the read handle and, just as importantly, the append handle used by
	// every future Set. Both must be reopened against the new inode, or
	// writes would silently land in the now-unlinked old file.
	if err := c.readFile.Close(); err != nil {
		return fmt.Errorf("%w: close stale read handle: %v", ErrIO, err)
	}

	newRead, err := c.fs.OpenFile(c.blobPath, os.O_RDONLY, 0)
	if err != nil {
		return fmt.Errorf("%w: reopen read handle after vacuum: %v", ErrIO, err)
	}

	c.readFile = newRead

	if err := c.appendFile.Close(); err != nil {
		return fmt.Errorf("%w: close stale append handle: %v", ErrIO, err)
	}

	newAppend, err := c.fs.OpenFile(c.blobPath, os.O_RDWR, 0)
	if err != nil {
		return fmt.Errorf("%w: reopen append handle after vacuum: %v", ErrIO, err)
	}

	if _, err := newAppend.Seek(0, io.SeekEnd); err != nil {
		_ = newAppend.Close()

		return fmt.Errorf("%w: seek reopened append handle after vacuum: %v", ErrIO, err)
	}

	c.appendFile = newAppend
	c.index = rebuilt

	if err := writeIndexSnapshot(c.fs, c.indexPath, c.index); err != nil {
		return err
	}

	if err := c.fs.Remove(c.walPath); err != nil {
		return fmt.Errorf("%w: remove wal after vacuum: %v", ErrIO, err)
	}

	return nil
}

// readRawFrame reads the exact on-disk bytes of a live frame (flag + length
// + compressed payload) so vacuum can copy them verbatim without
// decompressing and recompressing.
func (c *Cache) readRawFrame(entry indexEntry) (start uint64, raw []byte, err error) {
	if _, err := c.readFile.Seek(int64(entry.start), io.SeekStart); err != nil {
		return 0, nil, fmt.Errorf("%w: seek frame for vacuum: %v", ErrIO, err)
	}

	raw = make([]byte, entry.length)
	if err := blobfmt.ReadFull(c.readFile, raw); err != nil {
		return 0, nil, fmt.Errorf("%w: short read frame for vacuum: %v", ErrCorrupt, err)
	}

	return entry.start, raw, nil
}
