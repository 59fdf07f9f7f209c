package blobcache

import "strings"

// Delete removes key's entry, if present. Deleting an absent key is a
// no-op, not an error.
func (c *Cache) Delete(key string) error {
	if c.closed {
		return ErrClosed
	}

	if key == "" {
		return ErrBadKey
	}

	return c.deleteOne(key)
}

func (c *Cache) deleteOne(key string) error {
	if _, ok := c.index[key]; !ok {
		return nil
	}

	if err := c.walAppendDelete(key); err != nil {
		return err
	}

	delete(c.index, key)

	c.deletes.Add(1)

	if c.metrics != nil {
		c.metrics.deletes.Inc(1)
	}

	return nil
}

// DeletePrefix removes every key whose byte representation begins with
// prefix. An empty prefix matches every key.
func (c *Cache) DeletePrefix(prefix string) error {
	if c.closed {
		return ErrClosed
	}

	matched := make([]string, 0)

	for key := range c.index {
		if strings.HasPrefix(key, prefix) {
			matched = append(matched, key)
		}
	}

	for _, key := range matched {
		if err := c.deleteOne(key); err != nil {
			return err
		}
	}

	return nil
}
