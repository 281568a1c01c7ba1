package slab

import "errors"

var errArenaSize = errors.New("slab: arena size must be a power of two, 4 MiB to 4 GiB")

// Buddy is the default PageSource: a buddy allocator over one
// contiguous anonymous-mapped arena. Blocks are 4096<<order bytes and
// always start at an offset aligned to their own size, which is the
// property the cache's pointer-masking free path relies on.
//
// A Buddy is not safe for concurrent use; wrap it before sharing one
// arena between caches used from different goroutines.
type Buddy struct {
	mem   []byte
	unmap func() error

	topOrder int
	free     []*pageSet
	taken    *pageMap
}

// NewBuddy maps an arena of the given size (a power of two, at least
// one max-order block) and marks it as a single free block.
func NewBuddy(size int) (*Buddy, error) {
	// Offsets are uint32, so the arena tops out at 4 GiB.
	if size < pageSize<<maxPageOrder || size&(size-1) != 0 || uint64(size) > 1<<32 {
		return nil, errArenaSize
	}

	mem, unmap, err := mapRegion(size)
	if err != nil {
		return nil, err
	}

	top := 0
	for pageSize<<top < size {
		top++
	}

	b := &Buddy{
		mem:      mem,
		unmap:    unmap,
		topOrder: top,
		free:     make([]*pageSet, top+1),
		taken:    newPageMap(),
	}
	for i := range b.free {
		b.free[i] = newPageSet()
	}
	b.free[top].add(0)
	return b, nil
}

// Acquire returns the offset of a free 4096<<order block, splitting a
// larger block when no exact fit is on hand.
func (b *Buddy) Acquire(order int) (uint32, error) {
	if order < 0 || order > maxPageOrder {
		return 0, errors.New("slab: page order out of range")
	}

	from := order
	for from <= b.topOrder && b.free[from].len() == 0 {
		from++
	}
	if from > b.topOrder {
		return 0, ErrOutOfPages
	}

	base, _ := b.free[from].any()
	b.free[from].remove(base)

	// Split down, parking the upper halves.
	for from > order {
		from--
		b.free[from].add(base + uint32(pageSize<<from))
	}

	b.taken.put(base, order)
	return base, nil
}

// Release returns a block obtained from Acquire, merging it with its
// buddy repeatedly while the buddy is also free.
func (b *Buddy) Release(base uint32) {
	order, ok := b.taken.take(base)
	if !ok {
		panic("slab: release of unacquired block")
	}

	for order < b.topOrder {
		buddy := base ^ uint32(pageSize<<order)
		if !b.free[order].contains(buddy) {
			break
		}
		b.free[order].remove(buddy)
		if buddy < base {
			base = buddy
		}
		order++
	}
	b.free[order].add(base)
}

// Mem exposes the arena bytes.
func (b *Buddy) Mem() []byte { return b.mem }

// Taken reports how many blocks are currently acquired.
func (b *Buddy) Taken() int { return b.taken.len() }

// Close unmaps the arena. All blocks must have been released.
func (b *Buddy) Close() error {
	mem := b.mem
	b.mem = nil
	b.free = nil
	b.taken = nil
	if b.unmap == nil || mem == nil {
		return nil
	}
	return b.unmap()
}
