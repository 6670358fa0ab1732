// Package walk generates biased random walks and the training batches built
// from them.
//
// Transitions follow node2vec: the weight of the edge to a candidate is
// divided by ReturnWeight when the candidate is the previous node and by
// ExploreWeight otherwise. ChangeNodeTypeWeight and ChangeEdgeTypeWeight
// penalize switching node types or edge types. With every bias at 1 the walk
// is first-order, and on unweighted graphs it picks neighbours uniformly.
//
//	params, err := walk.NewParameters(80, walk.WithReturnWeight(0.5), walk.WithIterations(10))
//	w, err := walk.NewWalker(g, params)
//	walks, err := w.Walks(ctx)
//
// Every walk has an index and every random decision is derived from
// (RandomState, index, step), so results are reproducible regardless of the
// number of workers.
//
// On top of the walks the package builds co-occurrence matrices
// (Cooccurrence), CBOW/skipgram windows (Node2VecBatch) and labelled node
// pairs for link prediction (EdgePredictionBatch).
package walk
