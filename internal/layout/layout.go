// Package layout assigns every node of a revision graph a deterministic 2-D
// position.
//
// The primary axis is the topological depth: the longest distance from a
// parentless node. Within one depth level nodes are ordered by the barycenter
// of their parents' secondary coordinate, ties by revision id, and then placed
// left to right with a minimum separation that never reorders them.
//
// Coordinates are abstract (depth units by sibling units, scaled by Options);
// mapping them to pixels is the presenter's job.
package layout

import (
	"context"
	"fmt"
	"math"
	"slices"
	"strings"

	"github.com/specialistvlad/revgraph/internal/ctxlog"
	"github.com/specialistvlad/revgraph/internal/graph"
)

// Orientation selects which screen axis carries the depth.
type Orientation int

const (
	// TopDown places depth on Y and siblings on X.
	TopDown Orientation = iota
	// LeftRight places depth on X and siblings on Y.
	LeftRight
)

// String implements fmt.Stringer.
func (o Orientation) String() string {
	if o == LeftRight {
		return "left-right"
	}
	return "top-down"
}

// ParseOrientation accepts "top-down" or "left-right" (case-insensitive).
func ParseOrientation(s string) (Orientation, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "top-down", "topdown", "tb":
		return TopDown, nil
	case "left-right", "leftright", "lr":
		return LeftRight, nil
	}
	return TopDown, fmt.Errorf("unknown orientation %q: must be 'top-down' or 'left-right'", s)
}

// Options controls spacing and orientation.
type Options struct {
	Orientation Orientation
	// RowSpacing is the distance between two depth levels.
	RowSpacing float64
	// ColumnSpacing is the distance between neighbouring parentless nodes.
	ColumnSpacing float64
	// MinSeparation is the smallest distance between two nodes of a level.
	MinSeparation float64
}

// DefaultOptions returns unit spacing in top-down orientation.
func DefaultOptions() Options {
	return Options{Orientation: TopDown, RowSpacing: 1, ColumnSpacing: 1, MinSeparation: 1}
}

func (o Options) normalized() Options {
	d := DefaultOptions()
	if o.RowSpacing <= 0 {
		o.RowSpacing = d.RowSpacing
	}
	if o.ColumnSpacing <= 0 {
		o.ColumnSpacing = d.ColumnSpacing
	}
	if o.MinSeparation <= 0 {
		o.MinSeparation = o.ColumnSpacing
	}
	return o
}

// Layout returns a copy of g with a position on every node. The same graph
// and options always produce the same positions.
func Layout(ctx context.Context, g *graph.Graph, opts Options) *graph.Graph {
	logger := ctxlog.FromContext(ctx)
	opts = opts.normalized()

	nodes := g.Nodes()
	if len(nodes) == 0 {
		return g.WithPositions(nil)
	}

	parents := acyclicParents(nodes)
	depth := depths(nodes, parents)

	levels := make(map[int][]string)
	maxDepth := 0
	for _, n := range nodes {
		d := depth[n.Revision]
		levels[d] = append(levels[d], n.Revision)
		maxDepth = max(maxDepth, d)
	}

	secondary := make(map[string]float64, len(nodes))
	positions := make(map[string]graph.Position, len(nodes))
	for d := 0; d <= maxDepth; d++ {
		ids := levels[d]
		// Parentless nodes only occur on level 0 and sort purely by id.
		desired := make(map[string]float64, len(ids))
		for _, id := range ids {
			if ps := parents[id]; len(ps) > 0 {
				desired[id] = barycenter(ps, secondary)
			} else {
				desired[id] = math.Inf(-1)
			}
		}
		slices.SortFunc(ids, func(a, b string) int {
			if desired[a] != desired[b] {
				if desired[a] < desired[b] {
					return -1
				}
				return 1
			}
			return strings.Compare(a, b)
		})

		prev := math.Inf(-1)
		for col, id := range ids {
			want := desired[id]
			if math.IsInf(want, -1) {
				want = float64(col) * opts.ColumnSpacing
			}
			x := math.Max(want, prev+opts.MinSeparation)
			secondary[id] = x
			prev = x
			positions[id] = place(opts, d, col, x)
		}
	}

	logger.Debug("Layout complete.", "nodes", len(nodes), "levels", maxDepth+1, "orientation", opts.Orientation.String())
	return g.WithPositions(positions)
}

func place(opts Options, depth, col int, secondary float64) graph.Position {
	primary := float64(depth) * opts.RowSpacing
	p := graph.Position{Level: depth, Column: col}
	if opts.Orientation == LeftRight {
		p.X, p.Y = primary, secondary
	} else {
		p.X, p.Y = secondary, primary
	}
	return p
}

func barycenter(ids []string, secondary map[string]float64) float64 {
	var sum float64
	for _, id := range ids {
		sum += secondary[id]
	}
	return sum / float64(len(ids))
}

// acyclicParents returns the parent edges that survive cycle breaking. The
// walk follows child edges, first from parentless nodes and then from every
// remaining node, both in ascending revision order; an edge reaching a node
// still on the walk stack is dropped. A cycle with no way in is therefore
// broken at the edge entering its lowest revision.
func acyclicParents(nodes []graph.Node) map[string][]string {
	byID := make(map[string]graph.Node, len(nodes))
	ids := make([]string, 0, len(nodes))
	for _, n := range nodes {
		byID[n.Revision] = n
		ids = append(ids, n.Revision)
	}
	slices.Sort(ids)

	type edge struct{ parent, child string }
	broken := make(map[edge]struct{})
	const (
		unvisited = iota
		onStack
		done
	)
	state := make(map[string]int, len(nodes))

	var visit func(id string)
	visit = func(id string) {
		state[id] = onStack
		for _, child := range byID[id].Children {
			switch state[child] {
			case onStack:
				broken[edge{id, child}] = struct{}{}
			case unvisited:
				visit(child)
			}
		}
		state[id] = done
	}

	for _, id := range ids {
		if len(byID[id].Edges) == 0 && state[id] == unvisited {
			visit(id)
		}
	}
	for _, id := range ids {
		if state[id] == unvisited {
			visit(id)
		}
	}

	parents := make(map[string][]string, len(nodes))
	for _, n := range nodes {
		for _, p := range n.Edges {
			if _, ok := broken[edge{p, n.Revision}]; !ok {
				parents[n.Revision] = append(parents[n.Revision], p)
			}
		}
	}
	return parents
}

// depths computes longest-path depth over an acyclic parent relation in
// topological order.
func depths(nodes []graph.Node, parents map[string][]string) map[string]int {
	pending := make(map[string]int, len(nodes))
	children := make(map[string][]string, len(nodes))
	var queue []string
	for _, n := range nodes {
		pending[n.Revision] = len(parents[n.Revision])
		for _, p := range parents[n.Revision] {
			children[p] = append(children[p], n.Revision)
		}
	}
	for _, n := range nodes {
		if pending[n.Revision] == 0 {
			queue = append(queue, n.Revision)
		}
	}

	depth := make(map[string]int, len(nodes))
	for len(queue) > 0 {
		id := queue[0]
		queue = queue[1:]
		for _, c := range children[id] {
			depth[c] = max(depth[c], depth[id]+1)
			pending[c]--
			if pending[c] == 0 {
				queue = append(queue, c)
			}
		}
	}
	return depth
}
