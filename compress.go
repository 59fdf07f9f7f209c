package blobcache

import (
	"bytes"
	"compress/zlib"
	"fmt"
	"io"
)

// Compressor compresses and decompresses frame payloads.
//
// The default implementation wraps [compress/zlib] at level 6, matching the
// on-disk wire format exactly - this is a case where the standard library
// already implements the literal byte format the frame layout requires, so
// no third-party codec is substituted for it.
type Compressor interface {
	Compress(plain []byte) ([]byte, error)
	Decompress(compressed []byte) ([]byte, error)
}

type zlibCompressor struct {
	level int
}

// newZlibCompressor returns the default [Compressor], zlib at the given
// level.
func newZlibCompressor(level int) *zlibCompressor {
	return &zlibCompressor{level: level}
}

func (z *zlibCompressor) Compress(plain []byte) ([]byte, error) {
	var buf bytes.Buffer

	w, err := zlib.NewWriterLevel(&buf, z.level)
	if err != nil {
		return nil, fmt.Errorf("%w: zlib writer: %v", ErrCodec, err)
	}

	if _, err := w.Write(plain); err != nil {
		return nil, fmt.Errorf("%w: zlib write: %v", ErrCodec, err)
	}

	if err := w.Close(); err != nil {
		return nil, fmt.Errorf("%w: zlib close: %v", ErrCodec, err)
	}

	return buf.Bytes(), nil
}

func (z *zlibCompressor) Decompress(compressed []byte) ([]byte, error) {
	r, err := zlib.NewReader(bytes.NewReader(compressed))
	if err != nil {
		return nil, fmt.Errorf("%w: zlib reader: %v", ErrCorrupt, err)
	}
	defer r.Close()

	plain, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("%w: zlib read: %v", ErrCorrupt, err)
	}

	return plain, nil
}
