package slab

import "github.com/cockroachdb/swiss"

// pageMap records the order of every block handed out by the buddy, so
// Release can recover it from the bare offset.
type pageMap struct {
	m *swiss.Map[uint32, uint8]
}

func newPageMap() *pageMap {
	return &pageMap{m: swiss.New[uint32, uint8](8)}
}

func (m *pageMap) put(base uint32, order int) {
	m.m.Put(base, uint8(order))
}

// take removes and returns the order recorded for base.
func (m *pageMap) take(base uint32) (int, bool) {
	order, ok := m.m.Get(base)
	if ok {
		m.m.Delete(base)
	}
	return int(order), ok
}

func (m *pageMap) len() int {
	return m.m.Len()
}

// pageSet holds the free blocks of a single order. Membership tests
// drive coalescing; any() feeds splitting.
type pageSet struct {
	m *swiss.Map[uint32, struct{}]
}

func newPageSet() *pageSet {
	return &pageSet{m: swiss.New[uint32, struct{}](8)}
}

func (s *pageSet) add(base uint32) {
	s.m.Put(base, struct{}{})
}

func (s *pageSet) remove(base uint32) {
	s.m.Delete(base)
}

func (s *pageSet) contains(base uint32) bool {
	_, ok := s.m.Get(base)
	return ok
}

// any returns an arbitrary member.
func (s *pageSet) any() (uint32, bool) {
	var (
		base  uint32
		found bool
	)
	s.m.All(func(k uint32, _ struct{}) bool {
		base, found = k, true
		return false
	})
	return base, found
}

func (s *pageSet) len() int {
	return s.m.Len()
}
