package blobcache

import (
	"errors"
	"fmt"
	"io"

	"github.com/ddofborg/blobcache/internal/blobfmt"
)

// walAppendUpsert appends an upsert record and flushes it, so the mutation
// survives a crash that happens immediately after this call returns.
func (c *Cache) walAppendUpsert(key string, entry indexEntry) error {
	rec := blobfmt.WALRecord{
		Key:     []byte(key),
		Op:      blobfmt.WALUpsert,
		Start:   entry.start,
		Length:  entry.length,
		Expires: entry.expires,
	}

	return c.walAppend(rec)
}

// walAppendDelete appends a delete record and flushes it.
func (c *Cache) walAppendDelete(key string) error {
	return c.walAppend(blobfmt.WALRecord{Key: []byte(key), Op: blobfmt.WALDelete})
}

func (c *Cache) walAppend(rec blobfmt.WALRecord) error {
	if err := blobfmt.WriteWALRecord(c.walFile, rec); err != nil {
		return fmt.Errorf("%w: write wal record: %v", ErrIO, err)
	}

	return nil
}

// walReplay sequentially reads WAL records from r and overlays them onto
// index, honoring the expiration filter. It stops silently - without
// error - at a clean end-of-file or a torn trailing record.
func walReplay(r io.Reader, index map[string]indexEntry, now uint32) error {
	for {
		rec, err := blobfmt.ReadWALRecord(r)
		if err != nil {
			if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
				return nil
			}

			return fmt.Errorf("%w: wal replay: %v", ErrCorrupt, err)
		}

		key := string(rec.Key)

		switch rec.Op {
		case blobfmt.WALDelete:
			delete(index, key)
		case blobfmt.WALUpsert:
			if rec.Expires != 0 && rec.Expires <= now {
				delete(index, key)
				continue
			}

			index[key] = indexEntry{start: rec.Start, length: rec.Length, expires: rec.Expires}
		}
	}
}
