//go:build !linux

package slab

// mapRegion falls back to the Go heap on platforms without the mmap
// path. The arena is then visible to the garbage collector but the
// allocator semantics are identical.
func mapRegion(size int) ([]byte, func() error, error) {
	return make([]byte, size), func() error { return nil }, nil
}
