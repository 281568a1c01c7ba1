package slab

import "errors"

var (
	// ErrBadObjectSize is returned by New for a non-positive object size.
	ErrBadObjectSize = errors.New("slab: object size must be positive")

	// ErrSizeTooLarge is returned by New when no slab of at most 4 MiB
	// can hold a single object next to its header.
	ErrSizeTooLarge = errors.New("slab: object size exceeds the largest slab")

	// ErrOutOfPages is returned by Alloc when the page source cannot
	// provide another slab. The cache is left unchanged.
	ErrOutOfPages = errors.New("slab: out of pages")
)

// PageSource hands out naturally-aligned power-of-two page regions
// inside one contiguous arena. Acquire returns the arena offset of a
// 4096<<order byte block aligned to its own size; Release takes such an
// offset back. Mem exposes the arena so the cache can address objects
// and headers by offset.
type PageSource interface {
	Acquire(order int) (uint32, error)
	Release(base uint32)
	Mem() []byte
}

// Cache is a fixed-size object allocator in the SLAB style. One cache
// serves exactly one object size, fixed at creation. Objects come from
// slabs, page blocks carved into uniform slots, and freed objects are
// recycled within their slab before any slab goes back to the page
// layer.
//
// A Cache is not safe for concurrent use. Distinct caches are
// independent and may be used from different goroutines.
type Cache struct {
	geom geometry

	src    PageSource
	mem    []byte
	ownSrc bool

	// List heads, nullOff when empty. Membership tracks occupancy:
	// free <=> inUse == 0, full <=> inUse == objectsPerSlab.
	freeList    uint32
	partialList uint32
	fullList    uint32

	pageAcquires uint64
	pageReleases uint64
}

// New creates a cache for objects of the given size. With no options,
// the cache owns a buddy-managed arena of DefaultOptions.ArenaSize
// bytes; pass Options to size the arena or share a PageSource.
func New(objectSize int, options ...Options) (*Cache, error) {
	opt := DefaultOptions
	if len(options) > 0 {
		opt = options[0]
	}
	if err := checkOptions(opt); err != nil {
		return nil, err
	}

	geom, err := computeGeometry(objectSize)
	if err != nil {
		return nil, err
	}

	c := &Cache{
		geom:        geom,
		src:         opt.Source,
		freeList:    nullOff,
		partialList: nullOff,
		fullList:    nullOff,
	}
	if c.src == nil {
		b, err := NewBuddy(opt.ArenaSize)
		if err != nil {
			return nil, err
		}
		c.src = b
		c.ownSrc = true
	}
	c.mem = c.src.Mem()
	return c, nil
}

// Alloc returns an uninitialized chunk of exactly the cache's object
// size. Partial slabs are preferred, then free slabs; a new slab is
// acquired only when neither exists.
func (c *Cache) Alloc() ([]byte, error) {
	base := c.partialList
	wasFree := false

	if base == nullOff {
		base = c.freeList
		if base == nullOff {
			nb, err := c.src.Acquire(c.geom.order)
			if err != nil {
				return nil, err
			}
			c.pageAcquires++
			c.initSlab(nb)
			c.listPush(&c.freeList, nb)
			base = nb
		}
		wasFree = true
	}

	k := c.popSlot(base)

	h := c.hdr(base)
	if h.inUse == uint32(c.geom.objectsPerSlab) {
		from := &c.partialList
		if wasFree {
			from = &c.freeList
		}
		c.listRemove(from, base)
		c.listPush(&c.fullList, base)
	} else if wasFree {
		c.listRemove(&c.freeList, base)
		c.listPush(&c.partialList, base)
	}

	off := c.slotOffset(base, k)
	end := off + uint32(c.geom.objectSize)
	return c.mem[off:end:end], nil
}

// Free returns a chunk obtained from Alloc on this cache. The owning
// slab is found by masking the chunk's offset, so no per-object
// bookkeeping exists. Freeing a foreign or already-freed chunk is a
// caller bug with undefined behavior.
func (c *Cache) Free(buf []byte) {
	off := c.offsetOf(buf)
	base := c.slabBase(off)

	c.pushSlot(base, c.slotIndex(base, off))

	h := c.hdr(base)
	wasFull := h.inUse == uint32(c.geom.objectsPerSlab)-1
	if h.inUse == 0 {
		from := &c.partialList
		if wasFull {
			from = &c.fullList
		}
		c.listRemove(from, base)
		c.listPush(&c.freeList, base)
	} else if wasFull {
		c.listRemove(&c.fullList, base)
		c.listPush(&c.partialList, base)
	}
}

// Shrink gives every object-free slab back to the page source. Partial
// and full slabs are untouched.
func (c *Cache) Shrink() {
	c.listDrain(&c.freeList, c.releaseSlab)
}

// Release gives all slabs back to the page source, live objects
// included. The cache stays usable; the next Alloc starts from an empty
// cache.
func (c *Cache) Release() {
	c.listDrain(&c.freeList, c.releaseSlab)
	c.listDrain(&c.partialList, c.releaseSlab)
	c.listDrain(&c.fullList, c.releaseSlab)
}

// Reset releases everything and reconfigures the cache for a new
// object size, keeping the arena.
func (c *Cache) Reset(objectSize int) error {
	geom, err := computeGeometry(objectSize)
	if err != nil {
		return err
	}
	c.Release()
	c.geom = geom
	return nil
}

// Close releases all slabs and, when the cache owns its page source,
// tears the arena down. The cache must not be used afterwards.
func (c *Cache) Close() error {
	c.Release()
	if c.ownSrc {
		if b, ok := c.src.(*Buddy); ok {
			return b.Close()
		}
	}
	return nil
}

// ObjectSize reports the size objects were requested at.
func (c *Cache) ObjectSize() int { return c.geom.objectSize }

// SlabOrder reports the page order of this cache's slabs.
func (c *Cache) SlabOrder() int { return c.geom.order }

// ObjectsPerSlab reports how many objects one slab holds.
func (c *Cache) ObjectsPerSlab() int { return c.geom.objectsPerSlab }

func (c *Cache) releaseSlab(base uint32) {
	c.src.Release(base)
	c.pageReleases++
}
