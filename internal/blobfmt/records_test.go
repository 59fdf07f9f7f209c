package blobfmt_test

import (
	"bytes"
	"errors"
	"io"
	"testing"

	"github.com/ddofborg/blobcache/internal/blobfmt"
)

func Test_ReadIndexRecord_ReturnsOriginalRecord_When_RoundTripped(t *testing.T) {
	t.Parallel()

	want := blobfmt.IndexRecord{Key: []byte("hello"), Start: 18, Length: 42, Expires: 1234}

	var buf bytes.Buffer
	if err := blobfmt.WriteIndexRecord(&buf, want); err != nil {
		t.Fatalf("WriteIndexRecord: %v", err)
	}

	got, err := blobfmt.ReadIndexRecord(&buf)
	if err != nil {
		t.Fatalf("ReadIndexRecord: %v", err)
	}

	if !bytes.Equal(got.Key, want.Key) || got.Start != want.Start || got.Length != want.Length || got.Expires != want.Expires {
		t.Fatalf("round trip mismatch: got %+v, want %+v", got, want)
	}
}

func Test_ReadIndexRecord_ReturnsEOF_When_StreamIsExhausted(t *testing.T) {
	t.Parallel()

	_, err := blobfmt.ReadIndexRecord(bytes.NewReader(nil))
	if !errors.Is(err, io.EOF) {
		t.Fatalf("expected io.EOF, got %v", err)
	}
}

func Test_ReadWALRecord_ReturnsOriginalRecord_When_OpIsUpsert(t *testing.T) {
	t.Parallel()

	want := blobfmt.WALRecord{Key: []byte("k"), Op: blobfmt.WALUpsert, Start: 5, Length: 9, Expires: 0}

	var buf bytes.Buffer
	if err := blobfmt.WriteWALRecord(&buf, want); err != nil {
		t.Fatalf("WriteWALRecord: %v", err)
	}

	got, err := blobfmt.ReadWALRecord(&buf)
	if err != nil {
		t.Fatalf("ReadWALRecord: %v", err)
	}

	if !bytes.Equal(got.Key, want.Key) || got.Op != want.Op || got.Start != want.Start || got.Length != want.Length {
		t.Fatalf("round trip mismatch: got %+v, want %+v", got, want)
	}
}

func Test_ReadWALRecord_OmitsTail_When_OpIsDelete(t *testing.T) {
	t.Parallel()

	want := blobfmt.WALRecord{Key: []byte("gone"), Op: blobfmt.WALDelete}

	var buf bytes.Buffer
	if err := blobfmt.WriteWALRecord(&buf, want); err != nil {
		t.Fatalf("WriteWALRecord: %v", err)
	}

	// A delete record is key-length + key + op byte only.
	if buf.Len() != blobfmt.U32Width+len(want.Key)+blobfmt.OpFlagWidth {
		t.Fatalf("unexpected delete record length: %d", buf.Len())
	}

	got, err := blobfmt.ReadWALRecord(&buf)
	if err != nil {
		t.Fatalf("ReadWALRecord: %v", err)
	}

	if !bytes.Equal(got.Key, want.Key) || got.Op != want.Op {
		t.Fatalf("round trip mismatch: got %+v, want %+v", got, want)
	}
}

func Test_ReadWALRecord_ReturnsUnexpectedEOF_When_UpsertTailIsTorn(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	if err := blobfmt.WriteWALRecord(&buf, blobfmt.WALRecord{Key: []byte("k"), Op: blobfmt.WALUpsert, Start: 1, Length: 2, Expires: 3}); err != nil {
		t.Fatalf("WriteWALRecord: %v", err)
	}

	torn := buf.Bytes()[:buf.Len()-3]

	_, err := blobfmt.ReadWALRecord(bytes.NewReader(torn))
	if !errors.Is(err, io.ErrUnexpectedEOF) {
		t.Fatalf("expected io.ErrUnexpectedEOF, got %v", err)
	}
}
