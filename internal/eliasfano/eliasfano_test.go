package eliasfano

import (
	"math/rand/v2"
	"slices"
	"sort"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sortedValues(r *rand.Rand, n int, universe uint64, dups bool) []uint64 {
	values := make([]uint64, 0, n)
	seen := make(map[uint64]struct{}, n)
	for len(values) < n {
		v := r.Uint64N(universe)
		if !dups {
			if _, ok := seen[v]; ok {
				continue
			}
			seen[v] = struct{}{}
		}
		values = append(values, v)
	}
	slices.Sort(values)
	return values
}

func TestSequence_Get(t *testing.T) {
	r := rand.New(rand.NewPCG(4711, 1))

	tests := []struct {
		name     string
		n        int
		universe uint64
		dups     bool
	}{
		{"sparse", 1000, 1 << 40, false},
		{"dense", 2000, 2100, false},
		{"duplicates", 3000, 500, true},
		{"single", 1, 10, false},
		{"universe equals n", 64, 64, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			values := sortedValues(r, tt.n, tt.universe, tt.dups)

			s, err := FromSorted(values, tt.universe)
			require.NoError(t, err)
			require.Equal(t, uint64(tt.n), s.Len())
			assert.Equal(t, tt.universe, s.Universe())

			for i, want := range values {
				got, err := s.Get(uint64(i))
				require.NoError(t, err)
				require.Equal(t, want, got, "index %d", i)
			}
			assert.Equal(t, values, s.Values())

			_, err = s.Get(uint64(tt.n))
			assert.ErrorIs(t, err, ErrOutOfRange)
		})
	}
}

func TestSequence_LowerBound(t *testing.T) {
	r := rand.New(rand.NewPCG(42, 7))
	universe := uint64(50_000)
	values := sortedValues(r, 4000, universe, true)

	s, err := FromSorted(values, universe)
	require.NoError(t, err)

	for q := uint64(0); q < universe+10; q += 7 {
		want := uint64(sort.Search(len(values), func(i int) bool { return values[i] >= q }))
		require.Equal(t, want, s.LowerBound(q), "query %d", q)
	}

	for i, v := range values {
		idx, ok := s.Rank(v)
		require.True(t, ok)
		require.LessOrEqual(t, idx, uint64(i))
		require.Equal(t, v, s.UncheckedGet(idx))
	}
}

func TestSequence_Range(t *testing.T) {
	values := []uint64{1, 3, 3, 7, 8, 8, 8, 12, 30}
	s, err := FromSorted(values, 31)
	require.NoError(t, err)

	start, end := s.Range(3, 8)
	assert.Equal(t, uint64(1), start)
	assert.Equal(t, uint64(4), end)

	start, end = s.Range(8, 9)
	assert.Equal(t, uint64(4), start)
	assert.Equal(t, uint64(7), end)

	start, end = s.Range(13, 30)
	assert.Equal(t, start, end)

	start, end = s.Range(30, 1000)
	assert.Equal(t, uint64(8), start)
	assert.Equal(t, uint64(9), end)

	assert.True(t, s.Contains(12))
	assert.False(t, s.Contains(11))

	var got []uint64
	for i, v := range s.Iter(4, 7) {
		assert.GreaterOrEqual(t, i, uint64(4))
		got = append(got, v)
	}
	assert.Equal(t, []uint64{8, 8, 8}, got)
}

func TestSequence_Empty(t *testing.T) {
	s, err := FromSorted(nil, 0)
	require.NoError(t, err)
	assert.Equal(t, uint64(0), s.Len())
	assert.Equal(t, uint64(0), s.LowerBound(5))
	assert.Empty(t, s.Values())

	_, err = NewBuilder(3, 0)
	assert.ErrorIs(t, err, ErrInvalidUniverse)
}

func TestSequence_SelectMatchesBitset(t *testing.T) {
	r := rand.New(rand.NewPCG(1, 2))
	values := sortedValues(r, 5000, 1<<20, false)
	s, err := FromSorted(values, 1<<20)
	require.NoError(t, err)

	for k := uint64(0); k < s.Len(); k += 13 {
		require.Equal(t, uint64(s.high.Select(uint(k))), s.select1(k))
		require.Equal(t, k+1, uint64(s.high.Rank(uint(s.select1(k)))))
	}
	assert.Positive(t, s.SizeInBytes())
}

func TestBuilder_Concurrent(t *testing.T) {
	r := rand.New(rand.NewPCG(99, 3))
	universe := uint64(1 << 24)
	values := sortedValues(r, 20_000, universe, false)

	b, err := NewBuilder(uint64(len(values)), universe)
	require.NoError(t, err)

	const workers = 8
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func(w int) {
			defer wg.Done()
			for i := w; i < len(values); i += workers {
				if err := b.Set(uint64(i), values[i]); err != nil {
					t.Error(err)
				}
			}
		}(w)
	}
	wg.Wait()

	s, err := b.Build()
	require.NoError(t, err)
	assert.Equal(t, values, s.Values())
}

func TestBuilder_Errors(t *testing.T) {
	t.Run("unwritten slot", func(t *testing.T) {
		b, err := NewBuilder(3, 100)
		require.NoError(t, err)
		require.NoError(t, b.Set(0, 1))
		require.NoError(t, b.Set(2, 50))

		_, err = b.Build()
		assert.ErrorIs(t, err, ErrUnwrittenSlot)
	})

	t.Run("double write", func(t *testing.T) {
		b, err := NewBuilder(2, 100)
		require.NoError(t, err)
		require.NoError(t, b.Set(0, 1))
		assert.ErrorIs(t, b.Set(0, 2), ErrDuplicateSlot)
		require.NoError(t, b.Set(1, 3))

		_, err = b.Build()
		assert.ErrorIs(t, err, ErrDuplicateSlot)
	})

	t.Run("out of range", func(t *testing.T) {
		b, err := NewBuilder(2, 100)
		require.NoError(t, err)
		assert.ErrorIs(t, b.Set(2, 1), ErrOutOfRange)
		assert.ErrorIs(t, b.Set(0, 100), ErrValueOutOfUniverse)
	})

	t.Run("decreasing low parts", func(t *testing.T) {
		b, err := NewBuilder(2, 1000)
		require.NoError(t, err)
		require.NoError(t, b.Set(0, 501))
		require.NoError(t, b.Set(1, 500))

		_, err = b.Build()
		assert.ErrorIs(t, err, ErrNotMonotone)
	})

	t.Run("permuted high parts", func(t *testing.T) {
		// Universe equals n, so there are no low bits and every value is
		// its own high part. Positions 2+0 and 0+1 do not collide.
		b, err := NewBuilder(2, 3)
		require.NoError(t, err)
		require.NoError(t, b.Set(0, 2))
		require.NoError(t, b.Set(1, 0))

		_, err = b.Build()
		assert.ErrorIs(t, err, ErrNotMonotone)
	})
}
