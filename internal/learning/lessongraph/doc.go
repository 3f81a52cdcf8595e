// Package lessongraph holds the prerequisite graph rules for lessons.
//
// Everything here is pure: callers load lessons and prerequisite edges from storage,
// hand them over as plain values, and decide what to do with the result. Nothing in
// this package performs I/O, blocks, or mutates persisted state.
//
// The prerequisite relation is kept as an index-based adjacency map (lesson id to the
// set of lesson ids it depends on). Lessons never hold pointers to each other, so the
// relation can be traversed, cloned and edited without ownership cycles.
//
// Validation failures are returned as *Violation values (as error) so callers can
// switch on Kind without string matching.
package lessongraph
