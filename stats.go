package slab

import "github.com/bytedance/sonic"

// Stats is a point-in-time summary of a cache.
type Stats struct {
	ObjectSize     int
	SlabOrder      int
	ObjectsPerSlab int

	FreeSlabs    int
	PartialSlabs int
	FullSlabs    int

	LiveObjects int
	BytesHeld   uint64

	PageAcquires uint64
	PageReleases uint64
}

// Stats walks the three lists and counts what they hold.
func (c *Cache) Stats() (st Stats) {
	st.ObjectSize = c.geom.objectSize
	st.SlabOrder = c.geom.order
	st.ObjectsPerSlab = c.geom.objectsPerSlab

	st.FreeSlabs = c.listLen(c.freeList)
	c.listWalk(c.partialList, func(base uint32) {
		st.PartialSlabs++
		st.LiveObjects += int(c.hdr(base).inUse)
	})
	c.listWalk(c.fullList, func(uint32) { st.FullSlabs++ })
	st.LiveObjects += st.FullSlabs * c.geom.objectsPerSlab

	slabs := st.FreeSlabs + st.PartialSlabs + st.FullSlabs
	st.BytesHeld = uint64(slabs) * uint64(c.geom.slabBytes())

	st.PageAcquires = c.pageAcquires
	st.PageReleases = c.pageReleases
	return
}

// Utilization is the share of held bytes occupied by live objects.
func (s Stats) Utilization() float64 {
	if s.BytesHeld == 0 {
		return 0
	}
	return float64(s.LiveObjects*s.ObjectSize) / float64(s.BytesHeld)
}

// MarshalJSON
func (s Stats) MarshalJSON() ([]byte, error) {
	type alias Stats
	return sonic.Marshal(alias(s))
}
