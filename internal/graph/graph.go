package graph

import (
	"slices"

	"github.com/specialistvlad/revgraph/internal/migration"
)

// Position is the abstract 2-D placement assigned by the layout engine.
type Position struct {
	X float64
	Y float64
	// Level is the topological depth of the node.
	Level int
	// Column is the node's ordinal among the nodes of its level.
	Column int
}

// Node is a Record augmented with graph-relative attributes.
type Node struct {
	migration.Record

	// Edges are the declared parents that exist in the graph.
	Edges []string
	// Children are the revisions that list this node among their parents,
	// in ascending revision order.
	Children []string
	Role     Role
	// InCycle is set when the node lies on a detected cycle.
	InCycle bool
	// Position is nil until the layout engine runs.
	Position *Position
}

// Depth returns the layout depth, or 0 for a graph that has not been laid out.
func (n Node) Depth() int {
	if n.Position == nil {
		return 0
	}
	return n.Position.Level
}

func (n Node) clone() Node {
	c := n
	c.Parents = slices.Clone(n.Parents)
	c.BranchLabels = slices.Clone(n.BranchLabels)
	c.Edges = slices.Clone(n.Edges)
	c.Children = slices.Clone(n.Children)
	if n.Position != nil {
		p := *n.Position
		c.Position = &p
	}
	return c
}

// Graph is an immutable revision graph. Accessors return copies.
type Graph struct {
	nodes    []Node
	index    map[string]int
	warnings []Warning
}

// Empty returns a graph without nodes.
func Empty() *Graph {
	return &Graph{index: map[string]int{}}
}

// Len returns the number of nodes.
func (g *Graph) Len() int {
	return len(g.nodes)
}

// Has reports whether the revision is part of the graph.
func (g *Graph) Has(id string) bool {
	_, ok := g.index[id]
	return ok
}

// Node looks up a node by revision id.
func (g *Graph) Node(id string) (Node, bool) {
	i, ok := g.index[id]
	if !ok {
		return Node{}, false
	}
	return g.nodes[i].clone(), true
}

// Nodes returns every node in first-seen order.
func (g *Graph) Nodes() []Node {
	out := make([]Node, len(g.nodes))
	for i := range g.nodes {
		out[i] = g.nodes[i].clone()
	}
	return out
}

// IDs returns every revision id in ascending order.
func (g *Graph) IDs() []string {
	ids := make([]string, 0, len(g.nodes))
	for i := range g.nodes {
		ids = append(ids, g.nodes[i].Revision)
	}
	slices.Sort(ids)
	return ids
}

// Records returns the records the graph was built from, in first-seen order.
func (g *Graph) Records() []migration.Record {
	out := make([]migration.Record, len(g.nodes))
	for i := range g.nodes {
		out[i] = g.nodes[i].clone().Record
	}
	return out
}

// Warnings returns the structural problems found while building.
func (g *Graph) Warnings() []Warning {
	return slices.Clone(g.warnings)
}

// Roots returns the ids of ROOT nodes in ascending order.
func (g *Graph) Roots() []string {
	return g.idsWithRole(RoleRoot)
}

// Heads returns the ids of HEAD nodes in ascending order.
func (g *Graph) Heads() []string {
	return g.idsWithRole(RoleHead)
}

// Merges returns the ids of MERGE nodes in ascending order.
func (g *Graph) Merges() []string {
	return g.idsWithRole(RoleMerge)
}

func (g *Graph) idsWithRole(r Role) []string {
	var ids []string
	for i := range g.nodes {
		if g.nodes[i].Role.Has(r) {
			ids = append(ids, g.nodes[i].Revision)
		}
	}
	slices.Sort(ids)
	return ids
}

// WithPositions returns a copy of the graph whose nodes carry the given
// positions. Nodes missing from the map keep their current position.
func (g *Graph) WithPositions(positions map[string]Position) *Graph {
	out := &Graph{
		nodes:    make([]Node, len(g.nodes)),
		index:    make(map[string]int, len(g.index)),
		warnings: slices.Clone(g.warnings),
	}
	for i := range g.nodes {
		n := g.nodes[i].clone()
		if p, ok := positions[n.Revision]; ok {
			n.Position = &p
		}
		out.nodes[i] = n
		out.index[n.Revision] = i
	}
	return out
}

// IsLaidOut reports whether every node carries a position.
func (g *Graph) IsLaidOut() bool {
	for i := range g.nodes {
		if g.nodes[i].Position == nil {
			return false
		}
	}
	return true
}
