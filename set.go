package blobcache

import (
	"fmt"

	"github.com/ddofborg/blobcache/valuecodec"
)

// Set stores value under key, replacing any existing entry.
//
// value must be either []byte (stored raw) or a value the codec can
// encode: bool, any integer kind other than uint64 and uintptr,
// float32/float64, string, []any,
// map[string]any, or a [valuecodec.Value] directly. Use [WithTTL] to give
// the entry a lifetime; without it, the entry never expires.
//
// Set never rewrites or truncates the blob file: even an overwrite appends
// a fresh frame and leaves the old one as dead, vacuum-reclaimable space.
func (c *Cache) Set(key string, value any, opts ...SetOption) error {
	if c.closed {
		return ErrClosed
	}

	if key == "" {
		return ErrBadKey
	}

	var call callOptions
	for _, opt := range opts {
		opt(&call)
	}

	isBytes, plain, err := c.encodeValue(value)
	if err != nil {
		return err
	}

	compressed, err := c.compressor.Compress(plain)
	if err != nil {
		return err
	}

	start, total, err := c.appendFrame(isBytes, compressed)
	if err != nil {
		return err
	}

	expires := uint32(0)
	if call.hasTTL && call.ttl > 0 {
		expires = uint32(c.now().Add(call.ttl).Unix())
	}

	entry := indexEntry{start: start, length: total, expires: expires}

	if err := c.walAppendUpsert(key, entry); err != nil {
		return err
	}

	c.index[key] = entry

	c.sets.Add(1)

	if c.metrics != nil {
		c.metrics.sets.Inc(1)
	}

	return nil
}

// encodeValue returns the is_bytes flag and the plain (uncompressed) payload
// for value: raw passthrough for []byte, or the structured encoding
// otherwise.
func (c *Cache) encodeValue(value any) (isBytes byte, payload []byte, err error) {
	if raw, ok := value.([]byte); ok {
		return 1, raw, nil
	}

	v, err := valuecodec.FromGo(value)
	if err != nil {
		return 0, nil, fmt.Errorf("%w: %v", ErrBadValue, err)
	}

	encoded, err := valuecodec.Encode(v)
	if err != nil {
		return 0, nil, fmt.Errorf("%w: %v", ErrCodec, err)
	}

	return 0, encoded, nil
}
