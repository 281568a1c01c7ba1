package slab

import (
	"math"
	"unsafe"
)

const (
	// nullOff marks an absent list neighbour. Offset 0 is a valid slab
	// base (the first block of the arena), so the zero value won't do.
	nullOff uint32 = math.MaxUint32

	// slotEnd terminates a slab's free-slot chain. Untyped so it can
	// sit in the uint16 link table and compare against uint32 heads.
	slotEnd = math.MaxUint16
)

// slabHeader sits at the base of every slab, inside the region it
// describes. prev/next are arena offsets chaining the slab into exactly
// one of the cache's three lists. freeHead starts the chain of unused
// slot indexes threaded through the link table that follows the header.
type slabHeader struct {
	prev     uint32
	next     uint32
	inUse    uint32
	freeHead uint32
}

// hdr reinterprets the bytes at an arena offset as a slab header.
func (c *Cache) hdr(base uint32) *slabHeader {
	return (*slabHeader)(unsafe.Pointer(&c.mem[base]))
}

// links returns the slab's free-slot link table, one entry per object.
func (c *Cache) links(base uint32) []uint16 {
	return unsafe.Slice((*uint16)(unsafe.Pointer(&c.mem[base+baseHeaderSize])), c.geom.objectsPerSlab)
}

// initSlab prepares a freshly acquired region: zero occupancy, detached
// from all lists, every slot chained onto the free-slot list in order.
func (c *Cache) initSlab(base uint32) {
	h := c.hdr(base)
	h.prev = nullOff
	h.next = nullOff
	h.inUse = 0
	h.freeHead = 0

	links := c.links(base)
	for i := range links {
		links[i] = uint16(i + 1)
	}
	links[len(links)-1] = slotEnd
}

// slotOffset is the arena offset of the k-th object slot.
func (c *Cache) slotOffset(base uint32, k int) uint32 {
	return base + uint32(c.geom.headerSize) + uint32(k*c.geom.objectSize)
}

// slotIndex inverts slotOffset for an offset inside the slab at base.
func (c *Cache) slotIndex(base, off uint32) int {
	return int(off-base-uint32(c.geom.headerSize)) / c.geom.objectSize
}

// slabBase recovers the owning slab of any offset inside it by masking
// off the low 12+order bits.
func (c *Cache) slabBase(off uint32) uint32 {
	return off &^ c.geom.slabMask()
}

// offsetOf translates a slice handed out by Alloc back into its arena
// offset. The slice must alias the cache's region.
func (c *Cache) offsetOf(buf []byte) uint32 {
	p := uintptr(unsafe.Pointer(unsafe.SliceData(buf)))
	b := uintptr(unsafe.Pointer(unsafe.SliceData(c.mem)))
	return uint32(p - b)
}

// popSlot takes one unused slot off the slab's free-slot chain.
func (c *Cache) popSlot(base uint32) int {
	h := c.hdr(base)
	k := int(h.freeHead)
	h.freeHead = uint32(c.links(base)[k])
	h.inUse++
	return k
}

// pushSlot returns a slot to the front of the chain, so the next Alloc
// from this slab reuses it first.
func (c *Cache) pushSlot(base uint32, k int) {
	h := c.hdr(base)
	c.links(base)[k] = uint16(h.freeHead)
	h.freeHead = uint32(k)
	h.inUse--
}
