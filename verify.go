package slab

import "fmt"

// Invariant checks used by the test suite after public calls. They walk
// every slab, so they are debug tooling, not part of any hot path.

type occupancy int

const (
	occFree occupancy = iota
	occPartial
	occFull
)

// verify checks structural invariants: each slab sits on the list
// matching its occupancy, neighbour links agree, bases are aligned to
// the slab size, and the free-slot chain accounts for exactly the
// unused slots.
func (c *Cache) verify() error {
	seen := make(map[uint32]bool)
	if err := c.verifyList(c.freeList, occFree, seen); err != nil {
		return err
	}
	if err := c.verifyList(c.partialList, occPartial, seen); err != nil {
		return err
	}
	return c.verifyList(c.fullList, occFull, seen)
}

func (c *Cache) verifyList(head uint32, occ occupancy, seen map[uint32]bool) error {
	prev := nullOff
	for cur := head; cur != nullOff; cur = c.hdr(cur).next {
		if seen[cur] {
			return fmt.Errorf("slab %#x linked twice", cur)
		}
		seen[cur] = true

		if cur&c.geom.slabMask() != 0 {
			return fmt.Errorf("slab %#x not aligned to %d", cur, c.geom.slabBytes())
		}

		h := c.hdr(cur)
		if h.prev != prev {
			return fmt.Errorf("slab %#x prev link broken", cur)
		}
		prev = cur

		limit := uint32(c.geom.objectsPerSlab)
		switch occ {
		case occFree:
			if h.inUse != 0 {
				return fmt.Errorf("slab %#x on free list with %d live objects", cur, h.inUse)
			}
		case occPartial:
			if h.inUse == 0 || h.inUse >= limit {
				return fmt.Errorf("slab %#x on partial list with %d/%d live objects", cur, h.inUse, limit)
			}
		case occFull:
			if h.inUse != limit {
				return fmt.Errorf("slab %#x on full list with %d/%d live objects", cur, h.inUse, limit)
			}
		}

		if err := c.verifySlotChain(cur); err != nil {
			return err
		}
	}
	return nil
}

// verifySlotChain counts the slab's free-slot chain and checks it for
// cycles and out-of-range indexes.
func (c *Cache) verifySlotChain(base uint32) error {
	h := c.hdr(base)
	links := c.links(base)
	visited := make(map[uint32]bool)

	n := 0
	for k := h.freeHead; k != slotEnd; k = uint32(links[k]) {
		if k >= uint32(c.geom.objectsPerSlab) {
			return fmt.Errorf("slab %#x free-slot index %d out of range", base, k)
		}
		if visited[k] {
			return fmt.Errorf("slab %#x free-slot chain cycles at %d", base, k)
		}
		visited[k] = true
		n++
	}

	if want := c.geom.objectsPerSlab - int(h.inUse); n != want {
		return fmt.Errorf("slab %#x has %d chained slots, want %d", base, n, want)
	}
	return nil
}
