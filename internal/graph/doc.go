// Package graph assembles parsed migration records into an immutable revision
// graph.
//
// # Shape
//
// A Graph is an arena: nodes live in one flat slice in first-seen order and an
// index maps each revision id to its slot. Edges are stored as revision ids on
// both ends (Edges for parents, Children for the reverse direction), never as
// pointers, so a Graph can be handed to a presenter while the next scan builds
// a replacement.
//
// # Build passes
//
//  1. Node creation: index every record; a repeated revision keeps the first
//     record and yields a DuplicateRevision warning.
//  2. Linking: resolve declared parents; unknown ones yield a DanglingParent
//     warning and the edge is dropped. Children are the inverted edge set.
//  3. Validation: a depth-first walk over parent edges reports every back edge
//     as a CycleDetected warning and flags the members.
//  4. Classification: ROOT, HEAD and MERGE are computed independently.
//
// Build never fails. Migration histories are edited by many hands and the
// graph shows what exists; inconsistencies travel as warnings.
//
// # Lifecycle
//
// A Graph is never patched. Any change to the source directory means a new
// Build; the layout engine returns a positioned copy rather than mutating.
package graph
