// Package testutil provides deterministic graph fixtures for tests and benchmarks.
//
// Generators return plain edge lists so that any package can build graphs
// from them without import cycles:
//
//	edges := testutil.Path(4)                    // 0-1-2-3
//	edges = testutil.NewRNG(42).RandomSparse(1000, 5000)
//	shards := model.SplitShards(edges, 4)
package testutil
