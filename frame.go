package blobcache

import (
	"fmt"
	"io"

	"github.com/ddofborg/blobcache/internal/blobfmt"
)

// appendFrame writes one blob frame (flag + payload_length + payload) to
// the append handle and returns the frame's start offset (the flag byte's
// offset) and total on-disk length.
//
// payload must already be compressed. isBytes selects the flag byte: 1 for
// raw []byte values, 0 for structured-encoded values.
func (c *Cache) appendFrame(isBytes byte, payload []byte) (start uint64, total uint32, err error) {
	offset, err := c.appendFile.Seek(0, io.SeekEnd)
	if err != nil {
		return 0, 0, fmt.Errorf("%w: seek blob end: %v", ErrIO, err)
	}

	header := make([]byte, blobfmt.FlagWidth+blobfmt.U32Width)
	header[0] = isBytes
	blobfmt.PutU32(header[blobfmt.FlagWidth:], uint32(len(payload)))

	if _, err := c.appendFile.Write(header); err != nil {
		return 0, 0, fmt.Errorf("%w: write frame header: %v", ErrIO, err)
	}

	if _, err := c.appendFile.Write(payload); err != nil {
		return 0, 0, fmt.Errorf("%w: write frame payload: %v", ErrIO, err)
	}

	totalLen := uint32(blobfmt.FlagWidth) + uint32(blobfmt.U32Width) + uint32(len(payload))

	return uint64(offset), totalLen, nil
}

// readFrame reads the frame starting at start (the flag byte's offset) and
// returns its flag byte and decompressed payload.
func (c *Cache) readFrame(start uint64, length uint32) (isBytes byte, payload []byte, err error) {
	if _, err := c.readFile.Seek(int64(start), io.SeekStart); err != nil {
		return 0, nil, fmt.Errorf("%w: seek frame: %v", ErrIO, err)
	}

	header := make([]byte, blobfmt.FlagWidth+blobfmt.U32Width)
	if err := blobfmt.ReadFull(c.readFile, header); err != nil {
		return 0, nil, fmt.Errorf("%w: short read frame header: %v", ErrCorrupt, err)
	}

	payloadLen := blobfmt.U32(header[blobfmt.FlagWidth:])

	compressed := make([]byte, payloadLen)
	if err := blobfmt.ReadFull(c.readFile, compressed); err != nil {
		return 0, nil, fmt.Errorf("%w: short read frame payload: %v", ErrCorrupt, err)
	}

	expectedTotal := uint32(blobfmt.FlagWidth) + uint32(blobfmt.U32Width) + payloadLen
	if expectedTotal != length {
		return 0, nil, fmt.Errorf("%w: frame length mismatch: index says %d, frame header says %d", ErrCorrupt, length, expectedTotal)
	}

	plain, err := c.compressor.Decompress(compressed)
	if err != nil {
		return 0, nil, err
	}

	return header[0], plain, nil
}
