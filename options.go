package slab

import "errors"

// Options is the configuration of a Cache.
type Options struct {
	// ArenaSize is the byte size of the arena backing the cache's own
	// buddy page source. Must be a power of two between 4 MiB, the
	// largest single slab, and 4 GiB, the reach of a 32-bit offset.
	// Ignored when Source is set.
	ArenaSize int

	// Source supplies pages instead of a cache-owned arena. Several
	// caches may share one Source; the caller is responsible for making
	// it safe for whatever concurrency the caches see.
	Source PageSource
}

// DefaultOptions
var DefaultOptions = Options{
	ArenaSize: 64 << 20, // 64 MiB
}

func checkOptions(options Options) error {
	if options.Source != nil {
		return nil
	}
	if options.ArenaSize < pageSize<<maxPageOrder || options.ArenaSize&(options.ArenaSize-1) != 0 ||
		uint64(options.ArenaSize) > 1<<32 {
		return errors.New("slab/options: invalid arena size")
	}
	return nil
}
