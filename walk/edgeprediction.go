package walk

import (
	"context"
	"fmt"

	"github.com/RoaringBitmap/roaring/v2"

	"github.com/hupe1980/graphgo/graph"
	"github.com/hupe1980/graphgo/internal/parallel"
	"github.com/hupe1980/graphgo/internal/rng"
	"github.com/hupe1980/graphgo/model"
)

// DefaultMaxAttempts bounds the rejection sampling of a single row.
const DefaultMaxAttempts = 10000

// Feature selects the columns of an edge prediction batch.
type Feature uint8

const (
	// FeatureDegrees adds the source and destination degrees, divided by
	// the maximum degree.
	FeatureDegrees Feature = 1 << iota
	FeatureAdamicAdar
	FeatureJaccard
	FeatureResourceAllocation
	// FeaturePreferentialAttachment adds the degree product divided by the
	// squared maximum degree.
	FeaturePreferentialAttachment

	AllFeatures = FeatureDegrees | FeatureAdamicAdar | FeatureJaccard |
		FeatureResourceAllocation | FeaturePreferentialAttachment
)

// Columns returns the feature column names selected by f, in batch order.
func (f Feature) Columns() []string {
	var out []string
	if f&FeatureDegrees != 0 {
		out = append(out, "source_degree", "destination_degree")
	}
	if f&FeatureAdamicAdar != 0 {
		out = append(out, "adamic_adar")
	}
	if f&FeatureJaccard != 0 {
		out = append(out, "jaccard")
	}
	if f&FeatureResourceAllocation != 0 {
		out = append(out, "resource_allocation")
	}
	if f&FeaturePreferentialAttachment != 0 {
		out = append(out, "preferential_attachment")
	}
	return out
}

// EdgePredictionConfig configures EdgePredictionBatch.
type EdgePredictionConfig struct {
	// Index selects the batch; the same index yields the same batch.
	Index uint64
	// BatchSize is the number of rows.
	BatchSize int
	// NegativeRate is the probability of a row being a negative example.
	NegativeRate float64
	// AvoidFalseNegatives rejects negatives that are edges of the graph.
	AvoidFalseNegatives bool
	// HeterogeneousNodeTypes rejects negatives between nodes with the same
	// node types.
	HeterogeneousNodeTypes bool
	// DegreeWeightedNegatives draws negative endpoints proportionally to
	// their degree instead of uniformly.
	DegreeWeightedNegatives bool
	// EdgeTypes, if set, restricts positives to these edge types.
	EdgeTypes []model.EdgeTypeID
	// Features selects the feature columns.
	Features Feature
	// MaxAttempts bounds the rejection sampling per row. Defaults to
	// DefaultMaxAttempts.
	MaxAttempts int
}

// EdgePredictionBatch holds labelled node pairs for link prediction.
type EdgePredictionBatch struct {
	Sources      []model.NodeID
	Destinations []model.NodeID
	// Labels is true for edges of the graph.
	Labels []bool
	// Features holds len(Columns) values per row, row-major.
	Features []float64
	Columns  []string
}

// Len returns the number of rows.
func (b *EdgePredictionBatch) Len() int { return len(b.Sources) }

// Row returns the features of row r.
func (b *EdgePredictionBatch) Row(r int) []float64 {
	n := len(b.Columns)
	return b.Features[r*n : (r+1)*n]
}

// EdgePredictionBatch samples a batch of positive and negative pairs. Node
// ids refer to the graph; the dense node mapping is not applied.
func (w *Walker) EdgePredictionBatch(ctx context.Context, cfg EdgePredictionConfig) (*EdgePredictionBatch, error) {
	sampler, err := w.newPairSampler(cfg)
	if err != nil {
		return nil, err
	}

	columns := cfg.Features.Columns()
	release, err := w.resources.Reserve("edge prediction batch", int64(cfg.BatchSize * (9 + 8*len(columns))))
	if err != nil {
		return nil, err
	}
	defer release()

	batch := &EdgePredictionBatch{
		Sources:      make([]model.NodeID, cfg.BatchSize),
		Destinations: make([]model.NodeID, cfg.BatchSize),
		Labels:       make([]bool, cfg.BatchSize),
		Features:     make([]float64, cfg.BatchSize*len(columns)),
		Columns:      columns,
	}

	err = parallel.Each(ctx, cfg.BatchSize, parallel.Options{Workers: w.workers}, func(r int) error {
		stream := rng.NewStream(rng.Mix(w.params.RandomState, saltEdgePrediction, cfg.Index, uint64(r)))
		src, dst, label, err := sampler.sample(&stream)
		if err != nil {
			return fmt.Errorf("row %d: %w", r, err)
		}
		batch.Sources[r] = src
		batch.Destinations[r] = dst
		batch.Labels[r] = label
		sampler.features(batch.Row(r), src, dst)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return batch, nil
}

type pairSampler struct {
	w         *Walker
	cfg       EdgePredictionConfig
	types     *roaring.Bitmap
	maxDegree float64
}

func (w *Walker) newPairSampler(cfg EdgePredictionConfig) (*pairSampler, error) {
	g := w.g
	if cfg.BatchSize <= 0 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidBatchSize, cfg.BatchSize)
	}
	if !(cfg.NegativeRate >= 0 && cfg.NegativeRate < 1) {
		return nil, fmt.Errorf("%w: %v", ErrInvalidNegativeRate, cfg.NegativeRate)
	}
	if g.DirectedEdgesNumber() == 0 {
		return nil, ErrNoEdges
	}
	if cfg.HeterogeneousNodeTypes {
		if !g.HasNodeTypes() {
			return nil, graph.ErrMissingNodeTypes
		}
		if g.NodeTypesNumber() < 2 {
			return nil, ErrHomogeneousNodeTypes
		}
	}
	if cfg.MaxAttempts <= 0 {
		cfg.MaxAttempts = DefaultMaxAttempts
	}

	s := &pairSampler{w: w, cfg: cfg, maxDegree: float64(g.MaxNodeDegree())}
	if cfg.EdgeTypes != nil {
		if !g.HasEdgeTypes() {
			return nil, graph.ErrMissingEdgeTypes
		}
		s.types = roaring.New()
		for _, t := range cfg.EdgeTypes {
			if int64(t) >= int64(g.EdgeTypesNumber()) {
				return nil, fmt.Errorf("%w: %d", graph.ErrEdgeTypeNotFound, t)
			}
			s.types.Add(uint32(t))
		}
	}
	return s, nil
}

func (s *pairSampler) sample(stream *rng.Stream) (src, dst model.NodeID, label bool, err error) {
	if stream.Float64() >= s.cfg.NegativeRate {
		src, dst, err = s.positive(stream)
		return src, dst, true, err
	}
	src, dst, err = s.negative(stream)
	return src, dst, false, err
}

func (s *pairSampler) positive(stream *rng.Stream) (model.NodeID, model.NodeID, error) {
	g := s.w.g
	m := int(g.DirectedEdgesNumber())
	for range s.cfg.MaxAttempts {
		e := model.EdgeID(stream.IntN(m))
		if s.types != nil && !s.types.Contains(uint32(g.UncheckedEdgeTypeID(e))) {
			continue
		}
		src, dst := g.UncheckedNodeIDsFromEdgeID(e)
		return src, dst, nil
	}
	return 0, 0, fmt.Errorf("%w: no edge of the requested types after %d attempts", ErrSamplingExhausted, s.cfg.MaxAttempts)
}

func (s *pairSampler) negative(stream *rng.Stream) (model.NodeID, model.NodeID, error) {
	g := s.w.g
	for range s.cfg.MaxAttempts {
		src, dst := s.endpoint(stream), s.endpoint(stream)
		switch {
		case src == dst:
		case s.cfg.AvoidFalseNegatives && g.HasEdge(src, dst):
		case s.cfg.HeterogeneousNodeTypes && s.w.sameNodeTypes(src, dst):
		default:
			return src, dst, nil
		}
	}
	return 0, 0, fmt.Errorf("%w: no negative pair after %d attempts", ErrSamplingExhausted, s.cfg.MaxAttempts)
}

// endpoint draws a node uniformly, or proportionally to its degree as the
// source of a uniformly drawn edge.
func (s *pairSampler) endpoint(stream *rng.Stream) model.NodeID {
	g := s.w.g
	if s.cfg.DegreeWeightedNegatives {
		src, _ := g.UncheckedNodeIDsFromEdgeID(model.EdgeID(stream.IntN(int(g.DirectedEdgesNumber()))))
		return src
	}
	return model.NodeID(stream.IntN(int(g.NodesNumber())))
}

func (s *pairSampler) features(row []float64, src, dst model.NodeID) {
	g := s.w.g
	f := s.cfg.Features
	i := 0
	if f&FeatureDegrees != 0 {
		row[i] = float64(g.UncheckedNodeDegree(src)) / s.maxDegree
		row[i+1] = float64(g.UncheckedNodeDegree(dst)) / s.maxDegree
		i += 2
	}
	if f&FeatureAdamicAdar != 0 {
		row[i] = g.UncheckedAdamicAdarIndex(src, dst)
		i++
	}
	if f&FeatureJaccard != 0 {
		row[i] = g.UncheckedJaccardCoefficient(src, dst)
		i++
	}
	if f&FeatureResourceAllocation != 0 {
		row[i] = g.UncheckedResourceAllocationIndex(src, dst)
		i++
	}
	if f&FeaturePreferentialAttachment != 0 {
		row[i] = g.UncheckedPreferentialAttachment(src, dst, true)
	}
}
