package conv

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/graphgo/model"
)

func TestCheckNodesNumber(t *testing.T) {
	assert.NoError(t, CheckNodesNumber(0))
	assert.NoError(t, CheckNodesNumber(MaxNodesNumber))
	assert.ErrorIs(t, CheckNodesNumber(MaxNodesNumber+1), ErrOverflow)
}

func TestToEdgeTypeID(t *testing.T) {
	got, err := ToEdgeTypeID(5)
	require.NoError(t, err)
	assert.Equal(t, model.EdgeTypeID(5), got)

	_, err = ToEdgeTypeID(uint64(model.UnknownEdgeType))
	assert.ErrorIs(t, err, ErrOverflow)
}
