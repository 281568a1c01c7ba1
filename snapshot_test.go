package slab

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSnapshotRoundTrip(t *testing.T) {
	assert := assert.New(t)
	c := newTestCache(t, 80)

	var marks []uint32
	for i := 0; i < 300; i++ {
		buf, err := c.Alloc()
		assert.Nil(err)
		for j := range buf {
			buf[j] = byte(i)
		}
		if i%3 == 0 {
			c.Free(buf)
		} else {
			marks = append(marks, c.offsetOf(buf))
		}
	}

	data, err := c.MarshalBinary()
	assert.Nil(err)

	rc, err := LoadSnapshot(data)
	assert.Nil(err)
	defer rc.Close()

	assert.Equal(c.Stats(), rc.Stats())
	assert.Nil(rc.verify())

	// Object bytes survive at the same offsets.
	for _, off := range marks {
		assert.Equal(c.mem[off:off+80], rc.mem[off:off+80])
	}

	// The restored cache keeps allocating correctly.
	for i := 0; i < 100; i++ {
		_, err := rc.Alloc()
		assert.Nil(err)
	}
	assert.Nil(rc.verify())
}

func TestSnapshotChecksum(t *testing.T) {
	assert := assert.New(t)
	c := newTestCache(t, 80)

	buf, err := c.Alloc()
	assert.Nil(err)
	copy(buf, "snapshot")

	data, err := c.MarshalBinary()
	assert.Nil(err)

	// Flip a bit in the last blob byte, just ahead of the trailer.
	data[len(data)-9] ^= 0x40
	_, err = LoadSnapshot(data)
	assert.ErrorIs(err, ErrBadSnapshot)

	_, err = LoadSnapshot(data[:3])
	assert.ErrorIs(err, ErrBadSnapshot)
}

func TestSnapshotHeadCorruption(t *testing.T) {
	assert := assert.New(t)
	c := newTestCache(t, 80)

	_, err := c.Alloc()
	assert.Nil(err)

	data, err := c.MarshalBinary()
	assert.Nil(err)

	// Corrupt the metadata head, right after the length varint. The
	// trailer hash covers it, so the load must fail cleanly instead of
	// producing a cache with mangled bookkeeping.
	data[2] ^= 0x01
	_, err = LoadSnapshot(data)
	assert.ErrorIs(err, ErrBadSnapshot)

	// Trailer tampering fails too.
	data[2] ^= 0x01
	data[len(data)-1] ^= 0x01
	_, err = LoadSnapshot(data)
	assert.ErrorIs(err, ErrBadSnapshot)
}

func TestSnapshotForeignSource(t *testing.T) {
	assert := assert.New(t)

	b, err := NewBuddy(4 << 20)
	assert.Nil(err)
	defer b.Close()

	c, err := New(64, Options{Source: b})
	assert.Nil(err)

	_, err = c.MarshalBinary()
	assert.ErrorIs(err, ErrForeignSource)
}
