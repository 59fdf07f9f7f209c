package blobcache

import "fmt"

// Stats is a snapshot of accumulated counters and current size accounting.
type Stats struct {
	Hits      int64
	Misses    int64
	Sets      int64
	Deletes   int64
	Refreshes int64

	FragmentationRatio float64
	TotalKeys          int
	DataFileSizeBytes  int64
}

// Stats returns a snapshot of the cache's accumulated counters plus current
// fragmentation and size accounting.
//
// When [Options.MetricsRegistry] was set, the same counters are already
// mirrored continuously into that registry under the "blobcache." prefix;
// Stats does not depend on a registry being configured.
func (c *Cache) Stats() (Stats, error) {
	if c.closed {
		return Stats{}, ErrClosed
	}

	ratio, err := c.FragmentationRatio()
	if err != nil {
		return Stats{}, err
	}

	info, err := c.appendFile.Stat()
	if err != nil {
		return Stats{}, fmt.Errorf("%w: stat blob: %v", ErrIO, err)
	}

	return Stats{
		Hits:               c.hits.Load(),
		Misses:             c.misses.Load(),
		Sets:               c.sets.Load(),
		Deletes:            c.deletes.Load(),
		Refreshes:          c.refreshes.Load(),
		FragmentationRatio: ratio,
		TotalKeys:          len(c.index),
		DataFileSizeBytes:  info.Size(),
	}, nil
}

// FragmentationRatio reports the fraction of the blob file (excluding the
// header) occupied by dead frame bytes: 1 - (sum of live frame lengths) /
// (blob size - header size). An empty blob (header only, or no blob yet)
// reports 1.
func (c *Cache) FragmentationRatio() (float64, error) {
	if c.closed {
		return 0, ErrClosed
	}

	return c.fragmentationRatioLocked(), nil
}

func (c *Cache) fragmentationRatioLocked() float64 {
	info, err := c.appendFile.Stat()
	if err != nil {
		return 1
	}

	excludingHeader := info.Size() - int64(len(blobHeader))
	if excludingHeader <= 0 {
		return 1
	}

	var live int64
	for _, entry := range c.index {
		live += int64(entry.length)
	}

	return 1 - float64(live)/float64(excludingHeader)
}
