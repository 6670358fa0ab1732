package vocab

import (
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVocabulary_Insert(t *testing.T) {
	v := New[uint32](4)

	a, err := v.Insert("a")
	require.NoError(t, err)
	b, err := v.Insert("b")
	require.NoError(t, err)
	again, err := v.Insert("a")
	require.NoError(t, err)

	assert.Equal(t, uint32(0), a)
	assert.Equal(t, uint32(1), b)
	assert.Equal(t, a, again)
	assert.Equal(t, 2, v.Len())

	name, ok := v.Name(1)
	assert.True(t, ok)
	assert.Equal(t, "b", name)

	_, ok = v.Name(2)
	assert.False(t, ok)

	v.Freeze()
	_, err = v.Insert("c")
	assert.ErrorIs(t, err, ErrFrozen)

	id, err := v.Insert("b")
	require.NoError(t, err)
	assert.Equal(t, uint32(1), id)
}

func TestVocabulary_RoundTrip(t *testing.T) {
	v := New[uint32](0)
	for i := 0; i < 100; i++ {
		_, err := v.Insert(fmt.Sprintf("node-%d", i%60))
		require.NoError(t, err)
	}
	require.Equal(t, 60, v.Len())

	for _, name := range v.Names() {
		id, ok := v.ID(name)
		require.True(t, ok)
		require.Equal(t, name, v.UncheckedName(id))
	}
}

func TestVocabulary_Concurrent(t *testing.T) {
	v := New[uint32](0)

	var wg sync.WaitGroup
	for g := 0; g < 8; g++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < 500; i++ {
				if _, err := v.Insert(fmt.Sprintf("n%d", i)); err != nil {
					t.Error(err)
				}
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 500, v.Len())
	for i, name := range v.Names() {
		id, ok := v.ID(name)
		require.True(t, ok)
		require.Equal(t, uint32(i), id)
	}
}

func TestVocabulary_Numeric(t *testing.T) {
	v := NewNumeric[uint32](3)

	id, ok := v.ID("2")
	assert.True(t, ok)
	assert.Equal(t, uint32(2), id)

	_, ok = v.ID("3")
	assert.False(t, ok)

	id, err := v.Insert("7")
	require.NoError(t, err)
	assert.Equal(t, uint32(7), id)
	assert.Equal(t, 8, v.Len())

	_, err = v.Insert("x")
	assert.ErrorIs(t, err, ErrInvalidNumericName)

	name, ok := v.Name(5)
	assert.True(t, ok)
	assert.Equal(t, "5", name)
	assert.True(t, v.IsNumeric())
}

func TestVocabulary_FromNames(t *testing.T) {
	v, err := FromNames[uint16]([]string{"x", "y", "z"})
	require.NoError(t, err)
	assert.Equal(t, 3, v.Len())

	_, err = FromNames[uint16]([]string{"x", "x"})
	assert.ErrorIs(t, err, ErrDuplicateName)

	sub, err := v.Subset([]uint16{2, 0})
	require.NoError(t, err)
	assert.Equal(t, []string{"z", "x"}, sub.Names())
}
