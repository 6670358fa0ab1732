package bitset

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBitSet(t *testing.T) {
	b := New(100)

	b.Set(10)
	b.Set(63)
	b.Set(64)
	b.Set(100) // out of range

	assert.True(t, b.Test(10))
	assert.True(t, b.Test(63))
	assert.True(t, b.Test(64))
	assert.False(t, b.Test(11))
	assert.False(t, b.Test(100))
	assert.Equal(t, uint64(3), b.Count())
	assert.Len(t, b.Words(), 2)
}

func TestBitSet_TestAndSet(t *testing.T) {
	b := New(8)
	assert.False(t, b.TestAndSet(3))
	assert.True(t, b.Test(3))
	assert.True(t, b.TestAndSet(3))
	assert.False(t, b.TestAndSet(8))
}

func TestBitSet_OrBits(t *testing.T) {
	b := New(128)

	// A 7-bit field straddling the first word boundary.
	b.OrBits(60, 0b1011011, 7)
	w := b.Words()
	assert.Equal(t, uint64(0b1011)<<60, w[0])
	assert.Equal(t, uint64(0b101), w[1])

	// Bits above width are masked.
	c := New(64)
	c.OrBits(0, 0xFF, 4)
	assert.Equal(t, uint64(0xF), c.Words()[0])

	// Out of range fields are ignored.
	c.OrBits(62, 0b111, 3)
	assert.Equal(t, uint64(0xF), c.Words()[0])

	c.OrBits(0, 0b1, 0)
	assert.Equal(t, uint64(4), c.Count())
}

func TestBitSet_OrBitsFullWidth(t *testing.T) {
	b := New(192)
	b.OrBits(32, ^uint64(0), 64)
	w := b.Words()
	assert.Equal(t, uint64(0xFFFFFFFF00000000), w[0])
	assert.Equal(t, uint64(0x00000000FFFFFFFF), w[1])
	assert.Zero(t, w[2])
}

func TestBitSet_Concurrent(t *testing.T) {
	const n = 4096
	b := New(n)

	var (
		wg    sync.WaitGroup
		mu    sync.Mutex
		first int
	)
	for g := range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			fresh := 0
			for i := uint64(0); i < n; i++ {
				if !b.TestAndSet((i + uint64(g)*97) % n) {
					fresh++
				}
			}
			mu.Lock()
			first += fresh
			mu.Unlock()
		}()
	}
	wg.Wait()

	assert.Equal(t, n, first)
	assert.Equal(t, uint64(n), b.Count())
}
