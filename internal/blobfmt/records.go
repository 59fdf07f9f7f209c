package blobfmt

import (
	"io"
)

// WALOp identifies the kind of mutation a WAL record describes.
type WALOp byte

const (
	// WALDelete records a key removal.
	WALDelete WALOp = 0

	// WALUpsert records a key installed or overwritten with a new frame.
	WALUpsert WALOp = 1
)

// IndexRecord is one entry of an index snapshot: a key plus the blob frame
// location and expiration it points at.
type IndexRecord struct {
	Key     []byte
	Start   uint64
	Length  uint32
	Expires uint32
}

// WriteIndexRecord appends rec's on-disk encoding to w: key length (4),
// key bytes, start (8), length (4), expires (4).
func WriteIndexRecord(w io.Writer, rec IndexRecord) error {
	header := make([]byte, U32Width)
	PutU32(header, uint32(len(rec.Key)))

	if _, err := w.Write(header); err != nil {
		return err
	}

	if _, err := w.Write(rec.Key); err != nil {
		return err
	}

	tail := make([]byte, U64Width+U32Width+U32Width)
	PutU64(tail[0:U64Width], rec.Start)
	PutU32(tail[U64Width:U64Width+U32Width], rec.Length)
	PutU32(tail[U64Width+U32Width:], rec.Expires)

	_, err := w.Write(tail)

	return err
}

// ReadIndexRecord reads one record from r. Returns io.EOF when r is
// exhausted cleanly between records; returns io.ErrUnexpectedEOF if the
// stream ends mid-record.
func ReadIndexRecord(r io.Reader) (IndexRecord, error) {
	keyLenBuf := make([]byte, U32Width)
	if err := ReadFull(r, keyLenBuf); err != nil {
		return IndexRecord{}, err
	}

	keyLen := U32(keyLenBuf)

	key := make([]byte, keyLen)
	if err := ReadFull(r, key); err != nil {
		return IndexRecord{}, midRecord(err)
	}

	tail := make([]byte, U64Width+U32Width+U32Width)
	if err := ReadFull(r, tail); err != nil {
		return IndexRecord{}, midRecord(err)
	}

	return IndexRecord{
		Key:     key,
		Start:   U64(tail[0:U64Width]),
		Length:  U32(tail[U64Width : U64Width+U32Width]),
		Expires: U32(tail[U64Width+U32Width:]),
	}, nil
}

// WALRecord is one write-ahead log entry: a delete, or an upsert carrying
// the frame location just appended to the blob.
type WALRecord struct {
	Key     []byte
	Op      WALOp
	Start   uint64
	Length  uint32
	Expires uint32
}

// WriteWALRecord appends rec's on-disk encoding to w.
func WriteWALRecord(w io.Writer, rec WALRecord) error {
	header := make([]byte, U32Width)
	PutU32(header, uint32(len(rec.Key)))

	if _, err := w.Write(header); err != nil {
		return err
	}

	if _, err := w.Write(rec.Key); err != nil {
		return err
	}

	if _, err := w.Write([]byte{byte(rec.Op)}); err != nil {
		return err
	}

	if rec.Op != WALUpsert {
		return nil
	}

	tail := make([]byte, U64Width+U32Width+U32Width)
	PutU64(tail[0:U64Width], rec.Start)
	PutU32(tail[U64Width:U64Width+U32Width], rec.Length)
	PutU32(tail[U64Width+U32Width:], rec.Expires)

	_, err := w.Write(tail)

	return err
}

// ReadWALRecord reads one record from r. Returns io.EOF when r is exhausted
// cleanly between records; returns io.ErrUnexpectedEOF if the stream ends
// mid-record - callers treat that as a torn tail and stop replay silently.
func ReadWALRecord(r io.Reader) (WALRecord, error) {
	keyLenBuf := make([]byte, U32Width)
	if err := ReadFull(r, keyLenBuf); err != nil {
		return WALRecord{}, err
	}

	keyLen := U32(keyLenBuf)

	key := make([]byte, keyLen)
	if err := ReadFull(r, key); err != nil {
		return WALRecord{}, midRecord(err)
	}

	opBuf := make([]byte, OpFlagWidth)
	if err := ReadFull(r, opBuf); err != nil {
		return WALRecord{}, midRecord(err)
	}

	op := WALOp(opBuf[0])
	if op != WALUpsert {
		return WALRecord{Key: key, Op: op}, nil
	}

	tail := make([]byte, U64Width+U32Width+U32Width)
	if err := ReadFull(r, tail); err != nil {
		return WALRecord{}, midRecord(err)
	}

	return WALRecord{
		Key:     key,
		Op:      op,
		Start:   U64(tail[0:U64Width]),
		Length:  U32(tail[U64Width : U64Width+U32Width]),
		Expires: U32(tail[U64Width+U32Width:]),
	}, nil
}

// midRecord turns a clean io.EOF met after a record's first field into
// io.ErrUnexpectedEOF: the stream ended inside the record.
func midRecord(err error) error {
	if err == io.EOF {
		return io.ErrUnexpectedEOF
	}

	return err
}
