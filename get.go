package blobcache

import (
	"fmt"

	"github.com/ddofborg/blobcache/valuecodec"
)

// Get returns the value stored under key.
//
// If the key is absent or expired and [WithRefresh] was supplied, Get calls
// the refresh callback, stores its return value under the TTL given by
// [WithTTL] (if any), and returns it. Without a refresh callback, a missing
// or expired key fails with [ErrNotFound].
//
// The returned value is []byte if it was stored raw, or a decoded
// [valuecodec.Value] otherwise. The one exception is a refresh result
// itself: it is returned exactly as the callback produced it, without a
// round trip through the encoder and decoder, since re-reading it back
// from the blob the caller just wrote would be redundant work for the
// same logical value.
func (c *Cache) Get(key string, opts ...GetOption) (any, error) {
	if c.closed {
		return nil, ErrClosed
	}

	if key == "" {
		return nil, ErrBadKey
	}

	var call callOptions
	for _, opt := range opts {
		opt(&call)
	}

	if entry, ok := c.liveEntry(key); ok {
		value, err := c.readValue(entry)
		if err != nil {
			return nil, err
		}

		c.hits.Add(1)

		if c.metrics != nil {
			c.metrics.hits.Inc(1)
		}

		return value, nil
	}

	c.misses.Add(1)

	if c.metrics != nil {
		c.metrics.misses.Inc(1)
	}

	if !call.hasRefresh {
		return nil, ErrNotFound
	}

	refreshed, err := call.refresh(key)
	if err != nil {
		return nil, err
	}

	var setOpts []SetOption
	if call.hasTTL {
		setOpts = append(setOpts, WithTTL(call.ttl))
	}

	if err := c.Set(key, refreshed, setOpts...); err != nil {
		return nil, err
	}

	c.refreshes.Add(1)

	if c.metrics != nil {
		c.metrics.refreshes.Inc(1)
	}

	return refreshed, nil
}

// Has reports whether key has a live (present and unexpired) entry.
//
// An entry with expires == 0 never expires. Otherwise it is live only
// while now < expires: an entry whose expiration exactly equals the
// current second is already considered expired.
func (c *Cache) Has(key string) (bool, error) {
	if c.closed {
		return false, ErrClosed
	}

	_, ok := c.liveEntry(key)

	return ok, nil
}

// liveEntry returns the index entry for key if it exists and has not
// expired, evicting it from the in-memory index as a side effect when it
// has (the blob frame is left for vacuum to reclaim).
func (c *Cache) liveEntry(key string) (indexEntry, bool) {
	entry, ok := c.index[key]
	if !ok {
		return indexEntry{}, false
	}

	if entry.expires != 0 && c.nowSeconds() >= entry.expires {
		delete(c.index, key)

		return indexEntry{}, false
	}

	return entry, true
}

func (c *Cache) readValue(entry indexEntry) (any, error) {
	isBytes, payload, err := c.readFrame(entry.start, entry.length)
	if err != nil {
		return nil, err
	}

	if isBytes == 1 {
		return payload, nil
	}

	mode := valuecodec.DecodeAsMap
	if c.opts.DecodeMapping == DecodeMappingOrderedPairs {
		mode = valuecodec.DecodeAsOrderedPairs
	}

	value, err := valuecodec.Decode(payload, mode)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCodec, err)
	}

	return value, nil
}
