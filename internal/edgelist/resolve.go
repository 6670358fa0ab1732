package edgelist

import (
	"fmt"
	"strconv"
	"sync/atomic"

	"github.com/hupe1980/graphgo/internal/conv"
	"github.com/hupe1980/graphgo/internal/vocab"
	"github.com/hupe1980/graphgo/model"
)

// Resolver turns reader rows into Tuples: it maps names to ids, substitutes
// default weights and edge types, and rejects rows that cannot be resolved.
// A Resolver may be shared by all shards of one construction.
type Resolver struct {
	Columns Columns

	Nodes     *vocab.Vocabulary[model.NodeID]
	EdgeTypes *vocab.Vocabulary[model.EdgeTypeID]

	// StrictNodes rejects names that are not already in Nodes.
	StrictNodes bool

	// NodesNumber bounds numeric node ids. Zero means the count is inferred
	// from the largest id seen.
	NodesNumber uint64

	DefaultWeight    float64
	HasDefaultWeight bool

	DefaultEdgeType    string
	HasDefaultEdgeType bool

	// NumericEdgeTypeIDs parses edge type names as decimal ids, also when
	// EdgeTypes is a fixed name vocabulary.
	NumericEdgeTypeIDs bool

	maxNode     atomic.Uint64 // largest numeric node id seen + 1
	maxEdgeType atomic.Uint64 // largest numeric edge type seen + 1
}

// Strings resolves a shard of name-keyed edges.
func (r *Resolver) Strings(s model.Shard[model.StringEdge]) model.Shard[Tuple] {
	return model.Shard[Tuple]{
		Len: s.Len,
		Rows: func(yield func(model.Row[Tuple]) bool) {
			for row := range s.Rows {
				out := model.Row[Tuple]{Line: row.Line, Err: row.Err}
				if out.Err == nil {
					out.Value, out.Err = r.resolveString(row.Value)
				}
				if !yield(out) {
					return
				}
			}
		},
	}
}

// Numeric resolves a shard of numeric edges.
func (r *Resolver) Numeric(s model.Shard[model.Edge]) model.Shard[Tuple] {
	return model.Shard[Tuple]{
		Len: s.Len,
		Rows: func(yield func(model.Row[Tuple]) bool) {
			for row := range s.Rows {
				out := model.Row[Tuple]{Line: row.Line, Err: row.Err}
				if out.Err == nil {
					out.Value, out.Err = r.resolveNumeric(row.Value)
				}
				if !yield(out) {
					return
				}
			}
		},
	}
}

// Finish grows numeric vocabularies to cover every id seen. It must be
// called after all shards have been consumed.
func (r *Resolver) Finish() {
	if r.Nodes != nil && r.Nodes.IsNumeric() {
		r.Nodes.Grow(max(r.NodesNumber, r.maxNode.Load()))
	}
	if r.EdgeTypes != nil && r.EdgeTypes.IsNumeric() {
		r.EdgeTypes.Grow(r.maxEdgeType.Load())
	}
}

func (r *Resolver) resolveString(e model.StringEdge) (Tuple, error) {
	src, err := r.node(e.Src)
	if err != nil {
		return Tuple{}, err
	}
	dst, err := r.node(e.Dst)
	if err != nil {
		return Tuple{}, err
	}

	t := Tuple{Src: src, Dst: dst, EdgeType: model.UnknownEdgeType}

	if t.Weight, err = r.weight(e.Weight, e.HasWeight); err != nil {
		return Tuple{}, err
	}

	if !r.Columns.EdgeTypes {
		if e.EdgeType != "" {
			return Tuple{}, fmt.Errorf("%w: %q", ErrUnexpectedEdgeType, e.EdgeType)
		}
		return t, nil
	}

	name, ok := e.EdgeType, e.EdgeType != ""
	if !ok && r.HasDefaultEdgeType {
		name, ok = r.DefaultEdgeType, true
	}
	if ok {
		if t.EdgeType, err = r.edgeTypeByName(name); err != nil {
			return Tuple{}, err
		}
	}
	return t, nil
}

func (r *Resolver) resolveNumeric(e model.Edge) (Tuple, error) {
	for _, id := range [2]model.NodeID{e.Src, e.Dst} {
		if r.NodesNumber > 0 && uint64(id) >= r.NodesNumber {
			return Tuple{}, fmt.Errorf("%w: %d >= %d", ErrNodeOutOfRange, id, r.NodesNumber)
		}
		observe(&r.maxNode, uint64(id)+1)
	}

	t := Tuple{Src: e.Src, Dst: e.Dst, EdgeType: model.UnknownEdgeType}

	var err error
	if t.Weight, err = r.weight(e.Weight, e.HasWeight); err != nil {
		return Tuple{}, err
	}

	if !r.Columns.EdgeTypes {
		if e.HasEdgeType {
			return Tuple{}, fmt.Errorf("%w: %d", ErrUnexpectedEdgeType, e.EdgeType)
		}
		return t, nil
	}

	switch {
	case e.HasEdgeType:
		t.EdgeType = e.EdgeType
	case r.HasDefaultEdgeType:
		if t.EdgeType, err = r.edgeTypeByName(r.DefaultEdgeType); err != nil {
			return Tuple{}, err
		}
	}
	if t.EdgeType != model.UnknownEdgeType {
		if r.EdgeTypes.IsNumeric() {
			observe(&r.maxEdgeType, uint64(t.EdgeType)+1)
		} else if uint64(t.EdgeType) >= r.EdgeTypes.Size() {
			return Tuple{}, fmt.Errorf("%w: %d", ErrUnknownEdgeType, t.EdgeType)
		}
	}
	return t, nil
}

func (r *Resolver) node(name string) (model.NodeID, error) {
	if r.StrictNodes {
		id, ok := r.Nodes.ID(name)
		if !ok {
			return 0, fmt.Errorf("%w: %q", ErrUnknownNodeName, name)
		}
		return id, nil
	}
	return r.Nodes.Insert(name)
}

func (r *Resolver) weight(w float64, ok bool) (float64, error) {
	if !r.Columns.Weights {
		if ok {
			return 0, ErrUnexpectedWeight
		}
		return 0, nil
	}
	if ok {
		return w, nil
	}
	if r.HasDefaultWeight {
		return r.DefaultWeight, nil
	}
	return 0, ErrMissingWeight
}

func (r *Resolver) edgeTypeByName(name string) (model.EdgeTypeID, error) {
	if r.EdgeTypes.IsNumeric() || r.NumericEdgeTypeIDs {
		raw, err := strconv.ParseUint(name, 10, 64)
		if err != nil {
			return 0, fmt.Errorf("%w: %q", ErrUnknownEdgeType, name)
		}
		id, err := conv.ToEdgeTypeID(raw)
		if err != nil {
			return 0, fmt.Errorf("%w: %w", ErrUnknownEdgeType, err)
		}
		if !r.EdgeTypes.IsNumeric() {
			if raw >= r.EdgeTypes.Size() {
				return 0, fmt.Errorf("%w: %d", ErrUnknownEdgeType, raw)
			}
			return id, nil
		}
		observe(&r.maxEdgeType, raw+1)
		return id, nil
	}

	id, err := r.EdgeTypes.Insert(name)
	if err != nil {
		return 0, fmt.Errorf("%w: %w", ErrUnknownEdgeType, err)
	}
	return id, nil
}

// observe raises a to at least v.
func observe(a *atomic.Uint64, v uint64) {
	for {
		cur := a.Load()
		if v <= cur || a.CompareAndSwap(cur, v) {
			return
		}
	}
}
