package blobfmt_test

import (
	"bytes"
	"errors"
	"io"
	"testing"

	"github.com/ddofborg/blobcache/internal/blobfmt"
)

func Test_U32_RoundTrips_ThroughPutU32(t *testing.T) {
	t.Parallel()

	cases := []uint32{0, 1, 255, 65536, 0xFFFFFFFF}

	for _, v := range cases {
		buf := make([]byte, blobfmt.U32Width)
		blobfmt.PutU32(buf, v)

		if got := blobfmt.U32(buf); got != v {
			t.Fatalf("U32(PutU32(%d)) = %d", v, got)
		}
	}
}

func Test_U64_RoundTrips_ThroughPutU64(t *testing.T) {
	t.Parallel()

	cases := []uint64{0, 1, 1 << 40, 0xFFFFFFFFFFFFFFFF}

	for _, v := range cases {
		buf := make([]byte, blobfmt.U64Width)
		blobfmt.PutU64(buf, v)

		if got := blobfmt.U64(buf); got != v {
			t.Fatalf("U64(PutU64(%d)) = %d", v, got)
		}
	}
}

func Test_ReadFull_ReturnsEOF_When_NothingWasRead(t *testing.T) {
	t.Parallel()

	buf := make([]byte, 4)

	err := blobfmt.ReadFull(bytes.NewReader(nil), buf)
	if !errors.Is(err, io.EOF) {
		t.Fatalf("expected io.EOF, got %v", err)
	}
}

func Test_ReadFull_ReturnsUnexpectedEOF_When_RecordIsTorn(t *testing.T) {
	t.Parallel()

	buf := make([]byte, 4)

	err := blobfmt.ReadFull(bytes.NewReader([]byte{1, 2}), buf)
	if !errors.Is(err, io.ErrUnexpectedEOF) {
		t.Fatalf("expected io.ErrUnexpectedEOF, got %v", err)
	}
}

func Test_ReadFull_ReturnsNil_When_BufferIsFullyRead(t *testing.T) {
	t.Parallel()

	buf := make([]byte, 4)

	err := blobfmt.ReadFull(bytes.NewReader([]byte{1, 2, 3, 4, 5}), buf)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !bytes.Equal(buf, []byte{1, 2, 3, 4}) {
		t.Fatalf("unexpected buf contents: %v", buf)
	}
}
