package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	flag "github.com/spf13/pflag"

	"github.com/ddofborg/blobcache"
)

var errPathRequired = errors.New("--path is required")

func newFlagSet(name string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	return fs
}

func openCache(path string) (*blobcache.Cache, error) {
	if path == "" {
		return nil, errPathRequired
	}

	return blobcache.Open(blobcache.Options{Path: path})
}

func cmdGet(out, errOut *os.File, args []string) int {
	fs := newFlagSet("get")
	path := fs.String("path", "", "Path to the cache file")

	if err := fs.Parse(args); err != nil {
		fmt.Fprintln(errOut, err)
		return 1
	}

	if fs.NArg() != 1 {
		fmt.Fprintln(errOut, "usage: blobcache get --path <file> <key>")
		return 1
	}

	cache, err := openCache(*path)
	if err != nil {
		fmt.Fprintln(errOut, err)
		return 1
	}
	defer cache.Close()

	value, err := cache.Get(fs.Arg(0))
	if err != nil {
		fmt.Fprintln(errOut, err)
		return 1
	}

	fmt.Fprintf(out, "%v\n", value)

	return 0
}

func cmdSet(out, errOut *os.File, args []string) int {
	fs := newFlagSet("set")
	path := fs.String("path", "", "Path to the cache file")
	ttl := fs.Duration("ttl", 0, "Time to live, e.g. 30s (0 means no expiration)")

	if err := fs.Parse(args); err != nil {
		fmt.Fprintln(errOut, err)
		return 1
	}

	if fs.NArg() != 2 {
		fmt.Fprintln(errOut, "usage: blobcache set --path <file> <key> <value>")
		return 1
	}

	cache, err := openCache(*path)
	if err != nil {
		fmt.Fprintln(errOut, err)
		return 1
	}
	defer cache.Close()

	var opts []blobcache.SetOption
	if *ttl > 0 {
		opts = append(opts, blobcache.WithTTL(*ttl))
	}

	if err := cache.Set(fs.Arg(0), fs.Arg(1), opts...); err != nil {
		fmt.Fprintln(errOut, err)
		return 1
	}

	return 0
}

func cmdDelete(out, errOut *os.File, args []string) int {
	fs := newFlagSet("delete")
	path := fs.String("path", "", "Path to the cache file")

	if err := fs.Parse(args); err != nil {
		fmt.Fprintln(errOut, err)
		return 1
	}

	if fs.NArg() != 1 {
		fmt.Fprintln(errOut, "usage: blobcache delete --path <file> <key>")
		return 1
	}

	cache, err := openCache(*path)
	if err != nil {
		fmt.Fprintln(errOut, err)
		return 1
	}
	defer cache.Close()

	if err := cache.Delete(fs.Arg(0)); err != nil {
		fmt.Fprintln(errOut, err)
		return 1
	}

	return 0
}

func cmdKeys(out, errOut *os.File, args []string) int {
	fs := newFlagSet("keys")
	path := fs.String("path", "", "Path to the cache file")

	if err := fs.Parse(args); err != nil {
		fmt.Fprintln(errOut, err)
		return 1
	}

	cache, err := openCache(*path)
	if err != nil {
		fmt.Fprintln(errOut, err)
		return 1
	}
	defer cache.Close()

	keys, err := cache.Keys()
	if err != nil {
		fmt.Fprintln(errOut, err)
		return 1
	}

	for _, key := range keys {
		fmt.Fprintln(out, key)
	}

	return 0
}

func cmdStats(out, errOut *os.File, args []string) int {
	fs := newFlagSet("stats")
	path := fs.String("path", "", "Path to the cache file")

	if err := fs.Parse(args); err != nil {
		fmt.Fprintln(errOut, err)
		return 1
	}

	cache, err := openCache(*path)
	if err != nil {
		fmt.Fprintln(errOut, err)
		return 1
	}
	defer cache.Close()

	stats, err := cache.Stats()
	if err != nil {
		fmt.Fprintln(errOut, err)
		return 1
	}

	fmt.Fprintf(out, "hits:                %d\n", stats.Hits)
	fmt.Fprintf(out, "misses:              %d\n", stats.Misses)
	fmt.Fprintf(out, "sets:                %d\n", stats.Sets)
	fmt.Fprintf(out, "deletes:             %d\n", stats.Deletes)
	fmt.Fprintf(out, "refreshes:           %d\n", stats.Refreshes)
	fmt.Fprintf(out, "keys:                %d\n", stats.TotalKeys)
	fmt.Fprintf(out, "data file size:      %d bytes\n", stats.DataFileSizeBytes)
	fmt.Fprintf(out, "fragmentation ratio: %.4f\n", stats.FragmentationRatio)

	return 0
}

func cmdVacuum(out, errOut *os.File, args []string) int {
	fs := newFlagSet("vacuum")
	path := fs.String("path", "", "Path to the cache file")

	if err := fs.Parse(args); err != nil {
		fmt.Fprintln(errOut, err)
		return 1
	}

	cache, err := openCache(*path)
	if err != nil {
		fmt.Fprintln(errOut, err)
		return 1
	}
	defer cache.Close()

	start := time.Now()

	if err := cache.Vacuum(); err != nil {
		fmt.Fprintln(errOut, err)
		return 1
	}

	fmt.Fprintf(out, "vacuumed in %s\n", time.Since(start))

	return 0
}
