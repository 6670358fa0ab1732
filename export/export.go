package export

import (
	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"
	"github.com/apache/arrow-go/v18/arrow/memory"

	"github.com/hupe1980/graphgo/graph"
	"github.com/hupe1980/graphgo/model"
	"github.com/hupe1980/graphgo/walk"
)

// Column names shared by the records.
const (
	ColumnSource      = "source"
	ColumnDestination = "destination"
	ColumnSourceName  = "source_name"
	ColumnDestName    = "destination_name"
	ColumnWeight      = "weight"
	ColumnEdgeType    = "edge_type"
	ColumnFrequency   = "frequency"
	ColumnLabel       = "label"
	ColumnWalk        = "walk"
	ColumnContext     = "context"
	ColumnCentral     = "central"
)

// EdgeListSchema returns the schema of EdgeList for g.
func EdgeListSchema(g *graph.Graph, names bool) *arrow.Schema {
	fields := []arrow.Field{
		{Name: ColumnSource, Type: arrow.PrimitiveTypes.Uint32},
		{Name: ColumnDestination, Type: arrow.PrimitiveTypes.Uint32},
	}
	if names {
		fields = append(fields,
			arrow.Field{Name: ColumnSourceName, Type: arrow.BinaryTypes.String},
			arrow.Field{Name: ColumnDestName, Type: arrow.BinaryTypes.String},
		)
	}
	if g.HasWeights() {
		fields = append(fields, arrow.Field{Name: ColumnWeight, Type: arrow.PrimitiveTypes.Float64})
	}
	if g.HasEdgeTypes() {
		fields = append(fields, arrow.Field{Name: ColumnEdgeType, Type: arrow.BinaryTypes.String, Nullable: true})
	}
	return arrow.NewSchema(fields, nil)
}

// EdgeList returns every directed edge of g in edge id order. Weight and
// edge type columns are present when g has them; names adds the node names.
// Edges without a type are null in the edge type column.
func EdgeList(mem memory.Allocator, g *graph.Graph, names bool) arrow.Record {
	schema := EdgeListSchema(g, names)
	b := array.NewRecordBuilder(mem, schema)
	defer b.Release()
	b.Reserve(int(g.DirectedEdgesNumber()))

	src := b.Field(0).(*array.Uint32Builder)
	dst := b.Field(1).(*array.Uint32Builder)
	next := 2

	var srcName, dstName *array.StringBuilder
	if names {
		srcName = b.Field(next).(*array.StringBuilder)
		dstName = b.Field(next + 1).(*array.StringBuilder)
		next += 2
	}
	var weight *array.Float64Builder
	if g.HasWeights() {
		weight = b.Field(next).(*array.Float64Builder)
		next++
	}
	var edgeType *array.StringBuilder
	if g.HasEdgeTypes() {
		edgeType = b.Field(next).(*array.StringBuilder)
	}

	for e := range g.IterEdges() {
		src.Append(uint32(e.Src))
		dst.Append(uint32(e.Dst))
		if names {
			srcName.Append(e.SrcName)
			dstName.Append(e.DstName)
		}
		if weight != nil {
			weight.Append(e.Weight)
		}
		if edgeType != nil {
			if e.EdgeTypeID == model.UnknownEdgeType {
				edgeType.AppendNull()
			} else {
				edgeType.Append(e.EdgeTypeName)
			}
		}
	}
	return b.NewRecord()
}

// Cooccurrence returns the pairs and frequencies of b.
func Cooccurrence(mem memory.Allocator, b *walk.CooccurrenceBatch) arrow.Record {
	schema := arrow.NewSchema([]arrow.Field{
		{Name: ColumnSource, Type: arrow.PrimitiveTypes.Uint32},
		{Name: ColumnDestination, Type: arrow.PrimitiveTypes.Uint32},
		{Name: ColumnFrequency, Type: arrow.PrimitiveTypes.Float64},
	}, nil)

	rb := array.NewRecordBuilder(mem, schema)
	defer rb.Release()

	rb.Field(0).(*array.Uint32Builder).AppendValues(nodeIDs(b.Sources), nil)
	rb.Field(1).(*array.Uint32Builder).AppendValues(nodeIDs(b.Destinations), nil)
	rb.Field(2).(*array.Float64Builder).AppendValues(b.Frequencies, nil)
	return rb.NewRecord()
}

// EdgePrediction returns the pairs and labels of b followed by one float64
// column per feature.
func EdgePrediction(mem memory.Allocator, b *walk.EdgePredictionBatch) arrow.Record {
	fields := []arrow.Field{
		{Name: ColumnSource, Type: arrow.PrimitiveTypes.Uint32},
		{Name: ColumnDestination, Type: arrow.PrimitiveTypes.Uint32},
		{Name: ColumnLabel, Type: arrow.FixedWidthTypes.Boolean},
	}
	for _, c := range b.Columns {
		fields = append(fields, arrow.Field{Name: c, Type: arrow.PrimitiveTypes.Float64})
	}

	rb := array.NewRecordBuilder(mem, arrow.NewSchema(fields, nil))
	defer rb.Release()

	rb.Field(0).(*array.Uint32Builder).AppendValues(nodeIDs(b.Sources), nil)
	rb.Field(1).(*array.Uint32Builder).AppendValues(nodeIDs(b.Destinations), nil)
	rb.Field(2).(*array.BooleanBuilder).AppendValues(b.Labels, nil)

	columns := len(b.Columns)
	for c := range columns {
		fb := rb.Field(3 + c).(*array.Float64Builder)
		fb.Reserve(b.Len())
		for r := range b.Len() {
			fb.UnsafeAppend(b.Features[r*columns+c])
		}
	}
	return rb.NewRecord()
}

// Walks returns one row per walk holding a list of node ids.
func Walks(mem memory.Allocator, walks [][]model.NodeID) arrow.Record {
	schema := arrow.NewSchema([]arrow.Field{
		{Name: ColumnWalk, Type: arrow.ListOf(arrow.PrimitiveTypes.Uint32)},
	}, nil)

	rb := array.NewRecordBuilder(mem, schema)
	defer rb.Release()

	lb := rb.Field(0).(*array.ListBuilder)
	vb := lb.ValueBuilder().(*array.Uint32Builder)
	for _, w := range walks {
		lb.Append(true)
		vb.AppendValues(nodeIDs(w), nil)
	}
	return rb.NewRecord()
}

// Node2Vec returns one row per window with its fixed-size context and the
// central node.
func Node2Vec(mem memory.Allocator, b *walk.Node2VecBatch) arrow.Record {
	size := b.ContextSize()
	schema := arrow.NewSchema([]arrow.Field{
		{Name: ColumnContext, Type: arrow.FixedSizeListOf(int32(size), arrow.PrimitiveTypes.Uint32)},
		{Name: ColumnCentral, Type: arrow.PrimitiveTypes.Uint32},
	}, nil)

	rb := array.NewRecordBuilder(mem, schema)
	defer rb.Release()

	lb := rb.Field(0).(*array.FixedSizeListBuilder)
	vb := lb.ValueBuilder().(*array.Uint32Builder)
	for r := range b.Len() {
		lb.Append(true)
		vb.AppendValues(nodeIDs(b.Context(r)), nil)
	}
	rb.Field(1).(*array.Uint32Builder).AppendValues(nodeIDs(b.Centrals), nil)
	return rb.NewRecord()
}

func nodeIDs(ids []model.NodeID) []uint32 {
	out := make([]uint32, len(ids))
	for i, id := range ids {
		out[i] = uint32(id)
	}
	return out
}
