package conv

import (
	"errors"
	"fmt"
	"math"

	"github.com/hupe1980/graphgo/model"
)

// ErrOverflow is returned when a value does not fit the target id domain.
var ErrOverflow = errors.New("integer overflow")

// MaxNodesNumber is the largest node count a graph can hold.
const MaxNodesNumber = uint64(math.MaxUint32) + 1

// CheckNodesNumber fails for node counts whose ids do not fit NodeID.
func CheckNodesNumber(n uint64) error {
	if n > MaxNodesNumber {
		return fmt.Errorf("%w: %d nodes exceed %d", ErrOverflow, n, MaxNodesNumber)
	}
	return nil
}

// ToEdgeTypeID narrows v into the EdgeTypeID domain. UnknownEdgeType is
// reserved and therefore rejected.
func ToEdgeTypeID(v uint64) (model.EdgeTypeID, error) {
	if v >= uint64(model.UnknownEdgeType) {
		return 0, fmt.Errorf("%w: %d is not an edge type id", ErrOverflow, v)
	}
	return model.EdgeTypeID(v), nil
}
