package blobcache

import (
	"errors"
	"fmt"
)

// Close flushes final state and releases the cache's file handles and lock.
//
// If [Cache.FragmentationRatio] exceeds [Options.AutoVacuumThreshold], Close
// runs [Cache.Vacuum] first. Close is idempotent-rejecting: calling it twice
// returns [ErrClosed]. After Close returns (successfully or not), every
// other operation fails with [ErrClosed].
func (c *Cache) Close() error {
	if c.closed {
		return ErrClosed
	}

	var errs []error

	if ratio := c.fragmentationRatioLocked(); ratio > c.opts.AutoVacuumThreshold {
		if err := c.vacuumLocked(); err != nil {
			errs = append(errs, err)
		}
	}

	c.closed = true

	if err := c.readFile.Close(); err != nil {
		errs = append(errs, fmt.Errorf("%w: close read handle: %v", ErrIO, err))
	}

	if err := c.walFile.Close(); err != nil {
		errs = append(errs, fmt.Errorf("%w: close wal handle: %v", ErrIO, err))
	}

	if err := c.lock.Close(); err != nil {
		errs = append(errs, fmt.Errorf("%w: release lock: %v", ErrIO, err))
	}

	if err := c.appendFile.Close(); err != nil {
		errs = append(errs, fmt.Errorf("%w: close append handle: %v", ErrIO, err))
	}

	if err := writeIndexSnapshot(c.fs, c.indexPath, c.index); err != nil {
		errs = append(errs, err)
	}

	if err := c.fs.Remove(c.walPath); err != nil {
		errs = append(errs, fmt.Errorf("%w: remove wal: %v", ErrIO, err))
	}

	return errors.Join(errs...)
}
