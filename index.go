package blobcache

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/ddofborg/blobcache/internal/blobfmt"
	"github.com/ddofborg/blobcache/internal/fsx"
)

// writeIndexSnapshot serializes index to a buffer and atomically installs
// it at path via temp-file + rename.
func writeIndexSnapshot(fs fsx.FS, path string, index map[string]indexEntry) error {
	var buf bytes.Buffer

	for key, entry := range index {
		rec := blobfmt.IndexRecord{
			Key:     []byte(key),
			Start:   entry.start,
			Length:  entry.length,
			Expires: entry.expires,
		}

		if err := blobfmt.WriteIndexRecord(&buf, rec); err != nil {
			return fmt.Errorf("%w: encode index record: %v", ErrIO, err)
		}
	}

	if err := fs.WriteFileAtomic(path, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("%w: write index snapshot: %v", ErrIO, err)
	}

	return nil
}

// loadIndexSnapshot reads the index file at path, if present, filtering out
// entries whose expiration has already passed. A missing file is not an
// error; it yields an empty index (a brand-new cache).
func loadIndexSnapshot(fs fsx.FS, path string, now uint32) (map[string]indexEntry, error) {
	index := make(map[string]indexEntry)

	data, err := fs.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return index, nil
		}

		return nil, fmt.Errorf("%w: read index snapshot: %v", ErrIO, err)
	}

	r := bytes.NewReader(data)

	for {
		rec, err := blobfmt.ReadIndexRecord(r)
		if err != nil {
			if errors.Is(err, io.EOF) {
				return index, nil
			}

			return nil, fmt.Errorf("%w: decode index record: %v", ErrCorrupt, err)
		}

		if rec.Expires != 0 && rec.Expires <= now {
			continue
		}

		index[string(rec.Key)] = indexEntry{start: rec.Start, length: rec.Length, expires: rec.Expires}
	}
}
