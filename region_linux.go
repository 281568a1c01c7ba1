//go:build linux

package slab

import "golang.org/x/sys/unix"

// mapRegion reserves size bytes of anonymous memory. Pages are
// committed lazily by the kernel, so large default arenas cost nothing
// until slabs are actually written.
func mapRegion(size int) ([]byte, func() error, error) {
	mem, err := unix.Mmap(-1, 0, size,
		unix.PROT_READ|unix.PROT_WRITE,
		unix.MAP_PRIVATE|unix.MAP_ANONYMOUS)
	if err != nil {
		return nil, nil, err
	}
	return mem, func() error { return unix.Munmap(mem) }, nil
}
