package slab

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/tidwall/hashmap"
	"golang.org/x/exp/rand"
)

const traceSteps = 100000

// TestRandomTrace drives the cache with a random alloc/free mix,
// checking structural invariants at every step and occupancy
// accounting periodically.
func TestRandomTrace(t *testing.T) {
	assert := assert.New(t)
	c := newTestCache(t, 41)

	r := rand.New(rand.NewSource(7))
	live := hashmap.New[uint32, []byte](1024)
	var keys []uint32

	for step := 0; step < traceSteps; step++ {
		if r.Intn(2) == 0 {
			buf, err := c.Alloc()
			assert.Nil(err)

			off := c.offsetOf(buf)
			_, dup := live.Get(off)
			assert.False(dup, "step %d: slot %#x handed out twice", step, off)
			live.Set(off, buf)
			keys = append(keys, off)
		} else if len(keys) > 0 {
			i := r.Intn(len(keys))
			off := keys[i]
			keys[i] = keys[len(keys)-1]
			keys = keys[:len(keys)-1]

			buf, _ := live.Get(off)
			live.Delete(off)
			c.Free(buf)
		}

		assert.Nil(c.verify(), "step %d", step)
		if step%2048 == 0 {
			assertAccounting(t, c, keys)
		}
	}

	// Drain everything, shrink, and match page traffic.
	for _, off := range keys {
		buf, _ := live.Get(off)
		c.Free(buf)
	}
	c.Shrink()

	free, partial, full := c.counts()
	assert.Equal([3]int{0, 0, 0}, [3]int{free, partial, full})

	st := c.Stats()
	assert.Equal(st.PageAcquires, st.PageReleases)
	assert.Zero(c.src.(*Buddy).Taken())
}

// assertAccounting groups live offsets by slab and checks that every
// slab's inUse matches exactly the outstanding objects inside it, and
// that no live slot is also on its slab's free-slot chain.
func assertAccounting(t *testing.T, c *Cache, keys []uint32) {
	t.Helper()
	assert := assert.New(t)

	perSlab := make(map[uint32]map[int]bool)
	for _, off := range keys {
		base := c.slabBase(off)
		if perSlab[base] == nil {
			perSlab[base] = make(map[int]bool)
		}
		perSlab[base][c.slotIndex(base, off)] = true
	}

	total := 0
	check := func(base uint32) {
		h := c.hdr(base)
		slots := perSlab[base]
		assert.Equal(len(slots), int(h.inUse), "slab %#x", base)
		total += len(slots)

		links := c.links(base)
		for k := h.freeHead; k != slotEnd; k = uint32(links[k]) {
			assert.False(slots[int(k)], "live slot %d chained as free in slab %#x", k, base)
		}
	}
	c.listWalk(c.partialList, check)
	c.listWalk(c.fullList, check)
	c.listWalk(c.freeList, func(base uint32) {
		assert.Empty(perSlab[base], "free slab %#x holds live objects", base)
	})

	assert.Equal(len(keys), total)
}
