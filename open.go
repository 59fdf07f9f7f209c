package blobcache

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/ddofborg/blobcache/internal/fsx"
)

// Open opens or creates the cache at opts.Path.
//
// Steps, in order: acquire the exclusive advisory lock on the blob file
// (failing fast with [ErrLocked] on conflict), write the header if the blob
// is new, open a read-only handle, load the index snapshot, replay the
// write-ahead log over it, delete the WAL file, and reopen it fresh for
// append. The returned Cache owns all three file handles until [Cache.Close].
func Open(opts Options) (*Cache, error) {
	if opts.Path == "" {
		return nil, fmt.Errorf("%w: Options.Path is required", ErrBadKey)
	}

	if opts.AutoVacuumThreshold < 0 || opts.AutoVacuumThreshold > 1 {
		return nil, fmt.Errorf("%w: AutoVacuumThreshold must be in [0, 1], got %v", ErrBadValue, opts.AutoVacuumThreshold)
	}

	opts = opts.withDefaults()

	return openWithFS(opts, fsx.NewReal())
}

func openWithFS(opts Options, fs fsx.FS) (*Cache, error) {
	blobPath := opts.Path + blobSuffix
	indexPath := opts.Path + indexSuffix
	walPath := opts.Path + walSuffix

	lock, err := fs.Lock(blobPath)
	if err != nil {
		if errors.Is(err, fsx.ErrWouldBlock) {
			return nil, fmt.Errorf("%w: %s", ErrLocked, blobPath)
		}

		return nil, fmt.Errorf("%w: acquire blob lock: %v", ErrIO, err)
	}

	appendFile, err := fs.OpenFile(blobPath, os.O_RDWR|os.O_CREATE, 0o644)
	if err != nil {
		_ = lock.Close()

		return nil, fmt.Errorf("%w: open blob for append: %v", ErrIO, err)
	}

	if err := ensureBlobHeader(appendFile); err != nil {
		_ = appendFile.Close()
		_ = lock.Close()

		return nil, err
	}

	readFile, err := fs.OpenFile(blobPath, os.O_RDONLY, 0)
	if err != nil {
		_ = appendFile.Close()
		_ = lock.Close()

		return nil, fmt.Errorf("%w: open blob for read: %v", ErrIO, err)
	}

	now := uint32(opts.Clock().Unix())

	index, err := loadIndexSnapshot(fs, indexPath, now)
	if err != nil {
		_ = readFile.Close()
		_ = appendFile.Close()
		_ = lock.Close()

		return nil, err
	}

	if err := replayWALFile(fs, walPath, index, now); err != nil {
		_ = readFile.Close()
		_ = appendFile.Close()
		_ = lock.Close()

		return nil, err
	}

	if err := fs.Remove(walPath); err != nil {
		_ = readFile.Close()
		_ = appendFile.Close()
		_ = lock.Close()

		return nil, fmt.Errorf("%w: remove wal: %v", ErrIO, err)
	}

	walFile, err := fs.OpenFile(walPath, os.O_RDWR|os.O_CREATE|os.O_APPEND, 0o644)
	if err != nil {
		_ = readFile.Close()
		_ = appendFile.Close()
		_ = lock.Close()

		return nil, fmt.Errorf("%w: open wal for append: %v", ErrIO, err)
	}

	c := &Cache{
		opts:       opts,
		fs:         fs,
		blobPath:   blobPath,
		indexPath:  indexPath,
		walPath:    walPath,
		lock:       lock,
		appendFile: appendFile,
		readFile:   readFile,
		walFile:    walFile,
		compressor: newZlibCompressor(6),
		index:      index,
		metrics:    newMetricsSink(opts.MetricsRegistry),
	}

	return c, nil
}

// ensureBlobHeader writes the fixed header when the blob file is new
// (zero-length), then seeks the append handle to the end of the file.
func ensureBlobHeader(f fsx.File) error {
	info, err := f.Stat()
	if err != nil {
		return fmt.Errorf("%w: stat blob: %v", ErrIO, err)
	}

	if info.Size() == 0 {
		if _, err := f.Write([]byte(blobHeader)); err != nil {
			return fmt.Errorf("%w: write blob header: %v", ErrIO, err)
		}
	}

	if _, err := f.Seek(0, io.SeekEnd); err != nil {
		return fmt.Errorf("%w: seek blob end: %v", ErrIO, err)
	}

	return nil
}

// replayWALFile reads the WAL file at path, if present, and overlays its
// records onto index. A missing WAL means a clean prior close; nothing to
// replay.
func replayWALFile(fs fsx.FS, path string, index map[string]indexEntry, now uint32) error {
	f, err := fs.OpenFile(path, os.O_RDONLY, 0)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}

		return fmt.Errorf("%w: open wal for replay: %v", ErrIO, err)
	}
	defer f.Close()

	return walReplay(f, index, now)
}
