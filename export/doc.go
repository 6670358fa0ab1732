// Package export converts graphs, walks and training batches into Apache
// Arrow records, so that callers can hand them to other runtimes without
// copying. Records are built with the given memory.Allocator and must be
// released by the caller.
package export
