package slab

const (
	pageSize     = 4096
	maxPageOrder = 10

	// header is 16 bytes of fixed fields plus one uint16 free-slot
	// link per object, rounded up so the object array stays 8-aligned.
	baseHeaderSize = 16
	slotLinkSize   = 2
)

// geometry describes how a cache carves its slabs: the page order of
// each slab, how many objects fit, and where the object array starts.
type geometry struct {
	objectSize     int
	order          int
	objectsPerSlab int
	headerSize     int
}

func headerSizeFor(objects int) int {
	n := baseHeaderSize + objects*slotLinkSize
	return (n + 7) &^ 7
}

// computeGeometry maps an object size to a slab layout. Single-page
// slabs hold as many objects as fit after the header; anything larger
// gets the smallest slab that holds exactly one object.
func computeGeometry(objectSize int) (geometry, error) {
	if objectSize <= 0 {
		return geometry{}, ErrBadObjectSize
	}
	if objectSize > pageSize<<maxPageOrder {
		return geometry{}, ErrSizeTooLarge
	}

	// The header grows with the object count (one link per slot), so the
	// count is the largest n with headerSizeFor(n) + n*objectSize <= 4096.
	// Estimate ignoring alignment, then settle on the exact boundary.
	objects := (pageSize - baseHeaderSize) / (objectSize + slotLinkSize)
	for objects > 0 && headerSizeFor(objects)+objects*objectSize > pageSize {
		objects--
	}
	for headerSizeFor(objects+1)+(objects+1)*objectSize <= pageSize {
		objects++
	}

	if objects >= 1 {
		return geometry{
			objectSize:     objectSize,
			order:          0,
			objectsPerSlab: objects,
			headerSize:     headerSizeFor(objects),
		}, nil
	}

	// One object per slab: smallest order whose slab fits header + object.
	hdr := headerSizeFor(1)
	for order := 1; order <= maxPageOrder; order++ {
		if hdr+objectSize <= pageSize<<order {
			return geometry{
				objectSize:     objectSize,
				order:          order,
				objectsPerSlab: 1,
				headerSize:     hdr,
			}, nil
		}
	}
	return geometry{}, ErrSizeTooLarge
}

// slabBytes is the byte span of one slab.
func (g geometry) slabBytes() int {
	return pageSize << g.order
}

// slabMask yields the slab base when AND-NOT-ed onto any offset inside
// the slab. This is what makes Free O(1): slab bases are naturally
// aligned to their own size, so the low 12+order bits locate the slot
// and the high bits locate the slab.
func (g geometry) slabMask() uint32 {
	return uint32(g.slabBytes() - 1)
}
