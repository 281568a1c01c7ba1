package slab

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// listFixture builds a cache with n detached, initialized slabs.
func listFixture(t *testing.T, n int) (*Cache, []uint32) {
	t.Helper()
	c, err := New(64, Options{ArenaSize: testArena})
	assert.Nil(t, err)
	t.Cleanup(func() { c.Close() })

	bases := make([]uint32, n)
	for i := range bases {
		base, err := c.src.Acquire(c.geom.order)
		assert.Nil(t, err)
		c.initSlab(base)
		bases[i] = base
	}
	return c, bases
}

func TestListPushRemove(t *testing.T) {
	assert := assert.New(t)
	c, bases := listFixture(t, 3)

	head := nullOff
	for _, base := range bases {
		c.listPush(&head, base)
	}
	assert.Equal(bases[2], head)
	assert.Equal(3, c.listLen(head))

	// Remove the middle element, then the head, then the tail.
	c.listRemove(&head, bases[1])
	assert.Equal(2, c.listLen(head))
	assert.Equal(bases[2], head)

	c.listRemove(&head, bases[2])
	assert.Equal(bases[0], head)
	assert.Equal(nullOff, c.hdr(bases[0]).prev)
	assert.Equal(nullOff, c.hdr(bases[0]).next)

	c.listRemove(&head, bases[0])
	assert.Equal(nullOff, head)

	for _, base := range bases {
		c.src.Release(base)
	}
}

func TestListDrain(t *testing.T) {
	assert := assert.New(t)
	c, bases := listFixture(t, 4)

	head := nullOff
	for _, base := range bases {
		c.listPush(&head, base)
	}

	var drained []uint32
	c.listDrain(&head, func(base uint32) {
		drained = append(drained, base)
		c.src.Release(base)
	})
	assert.Equal(nullOff, head)
	assert.Len(drained, 4)
}
