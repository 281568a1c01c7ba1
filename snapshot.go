package slab

import (
	"encoding/binary"
	"errors"

	"github.com/bytedance/sonic"
	"github.com/klauspost/compress/s2"
	"github.com/zeebo/xxh3"
)

var (
	// ErrForeignSource is returned when snapshotting a cache built on an
	// injected PageSource; only cache-owned arenas can be dumped.
	ErrForeignSource = errors.New("slab: snapshot requires a cache-owned arena")

	// ErrBadSnapshot is returned when a snapshot cannot be decoded or
	// its checksum does not match its payload.
	ErrBadSnapshot = errors.New("slab: malformed snapshot")
)

// Offsets make the whole cache position independent: nothing in the
// arena or the headers refers to real addresses. A snapshot is
// therefore just the metadata plus the compressed arena, and a restored
// cache is equivalent to the one dumped. Chunks handed out before the
// snapshot alias the old arena and cannot be freed on the restored one;
// a restored cache is for inspection and for carrying allocations
// across process restarts where the caller re-derives its references.

// snapshotMeta travels as sonic-encoded JSON ahead of the arena blob.
type snapshotMeta struct {
	ObjectSize int

	FreeList    uint32
	PartialList uint32
	FullList    uint32

	PageAcquires uint64
	PageReleases uint64

	ArenaSize int
	Taken     map[uint32]uint8
	FreeSets  [][]uint32
}

// MarshalBinary dumps the cache: metadata, then the s2-compressed
// arena, then an xxh3 trailer over both, so corruption anywhere in the
// snapshot is caught before a cache is rebuilt from it.
func (c *Cache) MarshalBinary() ([]byte, error) {
	b, ok := c.src.(*Buddy)
	if !ok || !c.ownSrc {
		return nil, ErrForeignSource
	}

	meta := snapshotMeta{
		ObjectSize:   c.geom.objectSize,
		FreeList:     c.freeList,
		PartialList:  c.partialList,
		FullList:     c.fullList,
		PageAcquires: c.pageAcquires,
		PageReleases: c.pageReleases,
		ArenaSize:    len(b.mem),
		Taken:        make(map[uint32]uint8, b.taken.len()),
		FreeSets:     make([][]uint32, len(b.free)),
	}
	b.taken.m.All(func(base uint32, order uint8) bool {
		meta.Taken[base] = order
		return true
	})
	for order, set := range b.free {
		set.m.All(func(base uint32, _ struct{}) bool {
			meta.FreeSets[order] = append(meta.FreeSets[order], base)
			return true
		})
	}

	head, err := sonic.Marshal(meta)
	if err != nil {
		return nil, err
	}

	blob := s2.Encode(nil, b.mem)

	out := binary.AppendUvarint(make([]byte, 0, len(head)+len(blob)+16), uint64(len(head)))
	out = append(out, head...)
	out = append(out, blob...)
	return binary.LittleEndian.AppendUint64(out, xxh3.Hash(out)), nil
}

// LoadSnapshot rebuilds a cache from MarshalBinary output in a fresh
// arena.
func LoadSnapshot(data []byte) (*Cache, error) {
	if len(data) < 8 {
		return nil, ErrBadSnapshot
	}
	payload, sum := data[:len(data)-8], binary.LittleEndian.Uint64(data[len(data)-8:])
	if xxh3.Hash(payload) != sum {
		return nil, ErrBadSnapshot
	}

	headLen, n := binary.Uvarint(payload)
	if n <= 0 || uint64(len(payload)-n) < headLen {
		return nil, ErrBadSnapshot
	}

	var meta snapshotMeta
	if err := sonic.Unmarshal(payload[n:n+int(headLen)], &meta); err != nil {
		return nil, ErrBadSnapshot
	}

	b, err := NewBuddy(meta.ArenaSize)
	if err != nil {
		return nil, err
	}
	decoded, err := s2.Decode(b.mem, payload[n+int(headLen):])
	if err != nil || len(decoded) != len(b.mem) {
		b.Close()
		return nil, ErrBadSnapshot
	}
	copy(b.mem, decoded)

	// Rebuild the buddy's view of the arena.
	for i := range b.free {
		b.free[i] = newPageSet()
	}
	for order, bases := range meta.FreeSets {
		for _, base := range bases {
			b.free[order].add(base)
		}
	}
	for base, order := range meta.Taken {
		b.taken.put(base, int(order))
	}

	geom, err := computeGeometry(meta.ObjectSize)
	if err != nil {
		b.Close()
		return nil, err
	}
	return &Cache{
		geom:         geom,
		src:          b,
		mem:          b.mem,
		ownSrc:       true,
		freeList:     meta.FreeList,
		partialList:  meta.PartialList,
		fullList:     meta.FullList,
		pageAcquires: meta.PageAcquires,
		pageReleases: meta.PageReleases,
	}, nil
}
