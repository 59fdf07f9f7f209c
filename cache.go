package blobcache

import (
	"sync/atomic"
	"time"

	go_metrics "github.com/rcrowley/go-metrics"

	"github.com/ddofborg/blobcache/internal/blobfmt"
	"github.com/ddofborg/blobcache/internal/fsx"
)

// blobHeader is the fixed ASCII sentinel written once at the start of a new
// blob file.
const blobHeader = blobfmt.Header

const (
	blobSuffix  = ".data.bin"
	indexSuffix = ".index.bin"
	walSuffix   = ".wal.bin"
	tmpSuffix   = ".tmp"
)

// indexEntry is the in-memory counterpart of [blobfmt.IndexRecord]: the
// blob frame a live key currently points at.
type indexEntry struct {
	start   uint64
	length  uint32
	expires uint32
}

// Cache is a persistent, embedded, single-process key-value store backed by
// an append-only blob file, an in-memory index, and a write-ahead log.
//
// A Cache is not safe for concurrent use from multiple goroutines; the
// engine assumes single-threaded, synchronous access from within one
// process, matching the exclusive whole-file lock it holds against other
// processes. Construct one with [Open] and release it with [Cache.Close].
type Cache struct {
	opts Options
	fs   fsx.FS

	blobPath  string
	indexPath string
	walPath   string

	lock       fsx.Lock
	appendFile fsx.File
	readFile   fsx.File
	walFile    fsx.File

	compressor Compressor

	index map[string]indexEntry

	metrics *metricsSink

	hits      atomic.Int64
	misses    atomic.Int64
	sets      atomic.Int64
	deletes   atomic.Int64
	refreshes atomic.Int64

	closed bool
}

func (c *Cache) now() time.Time {
	return c.opts.Clock()
}

func (c *Cache) nowSeconds() uint32 {
	return uint32(c.now().Unix())
}

// metricsSink mirrors Cache counters into an optional go-metrics registry
// under the "blobcache." namespace.
type metricsSink struct {
	registry  go_metrics.Registry
	hits      go_metrics.Counter
	misses    go_metrics.Counter
	sets      go_metrics.Counter
	deletes   go_metrics.Counter
	refreshes go_metrics.Counter
}

func newMetricsSink(registry go_metrics.Registry) *metricsSink {
	if registry == nil {
		return nil
	}

	return &metricsSink{
		registry:  registry,
		hits:      go_metrics.GetOrRegisterCounter("blobcache.hits", registry),
		misses:    go_metrics.GetOrRegisterCounter("blobcache.misses", registry),
		sets:      go_metrics.GetOrRegisterCounter("blobcache.sets", registry),
		deletes:   go_metrics.GetOrRegisterCounter("blobcache.deletes", registry),
		refreshes: go_metrics.GetOrRegisterCounter("blobcache.refreshes", registry),
	}
}
