package blobcache

import (
	"time"

	go_metrics "github.com/rcrowley/go-metrics"
)

// DecodeMapping selects how decoded structured values represent JSON
// objects. See [valuecodec.DecodeMode] for the underlying codec knob this
// wraps.
type DecodeMapping int

const (
	// DecodeMappingMap decodes JSON objects as Go-style maps (default).
	DecodeMappingMap DecodeMapping = iota

	// DecodeMappingOrderedPairs decodes JSON objects as key-sorted pair
	// lists, for callers that need deterministic iteration order.
	DecodeMappingOrderedPairs
)

// Options configures [Open]. Path is required; every other field has a
// workable default.
type Options struct {
	// Path is the base path for the cache's files: Path+".data.bin" is the
	// blob file, Path+".index.bin" is the index snapshot, and Path+".wal.bin"
	// is the write-ahead log.
	Path string

	// AutoVacuumThreshold is the fragmentation ratio above which Close
	// triggers a vacuum before releasing the lock. Must be in [0, 1].
	// Zero value defaults to 0.5. Pass 1.0 to effectively disable
	// auto-vacuum, since FragmentationRatio never exceeds 1.
	AutoVacuumThreshold float64

	// DecodeMapping controls how decoded structured values represent JSON
	// objects. Zero value is [DecodeMappingMap].
	DecodeMapping DecodeMapping

	// Clock returns the current time used for TTL accounting. Defaults to
	// time.Now; overriding it lets tests drive expiry deterministically
	// without sleeping.
	Clock func() time.Time

	// MetricsRegistry, when non-nil, receives the same counters as Stats
	// mirrored under a "blobcache." prefix, for processes already scraping
	// a github.com/rcrowley/go-metrics registry.
	MetricsRegistry go_metrics.Registry
}

func (o Options) withDefaults() Options {
	if o.AutoVacuumThreshold == 0 {
		o.AutoVacuumThreshold = 0.5
	}

	if o.Clock == nil {
		o.Clock = time.Now
	}

	return o
}

// callOptions collects the per-call knobs applied by [SetOption] and
// [GetOption].
type callOptions struct {
	hasTTL     bool
	ttl        time.Duration
	refresh    func(key string) (any, error)
	hasRefresh bool
}

// Option customizes a single [Cache.Set] or [Cache.Get] call.
type Option func(*callOptions)

// SetOption customizes a single [Cache.Set] call.
type SetOption = Option

// GetOption customizes a single [Cache.Get] call.
type GetOption = Option

// WithTTL sets the entry's time-to-live on a [Cache.Set] call, or the TTL
// applied to the value a refresh callback produces on a [Cache.Get] call.
// A zero or negative TTL means the entry never expires.
func WithTTL(ttl time.Duration) Option {
	return func(o *callOptions) {
		o.hasTTL = true
		o.ttl = ttl
	}
}

// WithRefresh supplies a callback invoked by [Cache.Get] when the key is
// absent or expired. Its return value is stored with Set under the TTL
// given by [WithTTL] (if any) and returned to the caller in place of
// [ErrNotFound]. Passing WithRefresh to Set has no effect.
func WithRefresh(refresh func(key string) (any, error)) GetOption {
	return func(o *callOptions) {
		o.hasRefresh = true
		o.refresh = refresh
	}
}
