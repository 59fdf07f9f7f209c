package blobcache

import "fmt"

// Keys returns a snapshot of the keys currently in the index.
//
// The snapshot may include entries that expire between this call and the
// caller's use of the result; [Cache.Has] remains the authoritative
// liveness check for any individual key.
func (c *Cache) Keys() ([]string, error) {
	if c.closed {
		return nil, ErrClosed
	}

	keys := make([]string, 0, len(c.index))
	for key := range c.index {
		keys = append(keys, key)
	}

	return keys, nil
}

// WhenExpired returns key's expiration time: absolute Unix seconds, or,
// when relative is true, the number of seconds from now until expiration
// (negative if already past). An entry that never expires reports 0 (or
// -now in relative mode). Fails with [ErrNotFound] if key is absent,
// regardless of whether its entry has already expired.
func (c *Cache) WhenExpired(key string, relative bool) (int64, error) {
	if c.closed {
		return 0, ErrClosed
	}

	entry, ok := c.index[key]
	if !ok {
		return 0, fmt.Errorf("%w: %s", ErrNotFound, key)
	}

	if entry.expires == 0 {
		if relative {
			return -c.now().Unix(), nil
		}

		return 0, nil
	}

	if relative {
		return int64(entry.expires) - c.now().Unix(), nil
	}

	return int64(entry.expires), nil
}
