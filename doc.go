// Package graphgo provides compact in-memory graphs and the random walk
// machinery used to train graph embeddings.
//
// Graphs are immutable. Edges are stored as a sorted Elias-Fano sequence of
// (source, destination) codes, so neighbourhoods are contiguous ranges and
// edge ids are ranks in that sequence. Weights, node types and edge types
// are optional.
//
// # Quick Start
//
//	ctx := context.Background()
//	eng := graphgo.New(graphgo.WithLogLevel(slog.LevelInfo))
//
//	edges := []model.StringEdge{{Src: "a", Dst: "b"}, {Src: "b", Dst: "c"}}
//	g, _ := eng.FromStringEdges(ctx, model.SplitShards(edges, 4))
//
//	params, _ := walk.NewParameters(80, walk.WithReturnWeight(0.5), walk.WithWindowSize(5))
//	walks, _ := eng.Walks(ctx, g, params)
//
// # Packages
//
//   - graph: construction, queries, metrics, filtering and holdouts
//   - walk: first and second order walks and the training batches built on them
//   - community: Louvain community detection and modularity
//   - export: Apache Arrow records of edge lists, walks and batches
//   - observability: Prometheus metrics collector
//
// # Configuration
//
// LoadConfig reads GRAPHGO_* environment variables, optionally seeded from
// .env files, and Config.Options turns them into engine options.
//
// # Errors
//
// Every error wraps one of ErrConfiguration, ErrNotFound, ErrInconsistent or
// ErrMissingCapability. Use errors.Is or ErrorClass to tell them apart.
//
// # Determinism
//
// Walks, batches and holdouts depend only on their inputs and seeds, never
// on the number of workers.
package graphgo
