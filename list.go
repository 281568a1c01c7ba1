package slab

// Intrusive doubly-linked slab lists. Each cache keeps three heads
// (free, partial, full) and every slab is on exactly one of them. The
// caller always knows which list a slab is on, so remove takes the
// owning head explicitly instead of guessing it from the slab.

// listPush puts a slab at the front of a list.
func (c *Cache) listPush(head *uint32, base uint32) {
	h := c.hdr(base)
	h.prev = nullOff
	h.next = *head
	if *head != nullOff {
		c.hdr(*head).prev = base
	}
	*head = base
}

// listRemove unlinks a slab from the list rooted at head in O(1), using
// the slab's own neighbour links. The head pointer is only touched when
// the slab is the first element.
func (c *Cache) listRemove(head *uint32, base uint32) {
	h := c.hdr(base)
	if h.prev != nullOff {
		c.hdr(h.prev).next = h.next
	} else {
		*head = h.next
	}
	if h.next != nullOff {
		c.hdr(h.next).prev = h.prev
	}
	h.prev = nullOff
	h.next = nullOff
}

// listWalk visits every slab on a list. The callback must not mutate
// list membership.
func (c *Cache) listWalk(head uint32, fn func(base uint32)) {
	for cur := head; cur != nullOff; cur = c.hdr(cur).next {
		fn(cur)
	}
}

// listDrain pops every slab off a list, calling fn after the slab is
// detached, so fn may release the underlying pages.
func (c *Cache) listDrain(head *uint32, fn func(base uint32)) {
	for cur := *head; cur != nullOff; {
		next := c.hdr(cur).next
		fn(cur)
		cur = next
	}
	*head = nullOff
}

// listLen counts the slabs on a list.
func (c *Cache) listLen(head uint32) (n int) {
	c.listWalk(head, func(uint32) { n++ })
	return
}
