package graph

import (
	"context"
	"slices"

	"github.com/specialistvlad/revgraph/internal/ctxlog"
	"github.com/specialistvlad/revgraph/internal/migration"
)

// Build assembles records into a graph. It never fails; structural problems
// are returned as warnings, which the graph also retains.
func Build(ctx context.Context, records []migration.Record) (*Graph, []Warning) {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("Build: Starting graph construction.", "record_count", len(records))

	g := &Graph{
		nodes: make([]Node, 0, len(records)),
		index: make(map[string]int, len(records)),
	}

	// First pass: one node per distinct revision.
	g.warnings = append(g.warnings, createNodes(ctx, g, records)...)
	logger.Debug("Build: Node creation complete.", "node_count", len(g.nodes))

	// Second pass: resolve parents and invert them into children.
	g.warnings = append(g.warnings, linkNodes(ctx, g)...)
	logger.Debug("Build: Node linking complete.")

	// Third pass: cycles are reported, not rejected.
	cycles := g.detectCycles()
	for _, w := range cycles {
		logger.Warn("Cycle detected in revision graph.", "cycle", w.Cycle)
	}
	g.warnings = append(g.warnings, cycles...)
	g.markCycleMembers()
	logger.Debug("Build: Cycle detection complete.", "cycle_count", len(cycles))

	for i := range g.nodes {
		g.nodes[i].Role = classify(&g.nodes[i])
	}

	logger.Debug("Build: Graph construction finished.", "warnings", len(g.warnings))
	return g, slices.Clone(g.warnings)
}

// Subgraph builds a fresh graph from the records of the given revisions. Ids
// that are not part of g are ignored. Edges to revisions outside the subset
// surface as DanglingParent warnings of the new graph.
func (g *Graph) Subgraph(ctx context.Context, ids []string) (*Graph, []Warning) {
	keep := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		keep[id] = struct{}{}
	}
	var records []migration.Record
	for _, rec := range g.Records() {
		if _, ok := keep[rec.Revision]; ok {
			records = append(records, rec)
		}
	}
	return Build(ctx, records)
}

func createNodes(ctx context.Context, g *Graph, records []migration.Record) []Warning {
	logger := ctxlog.FromContext(ctx)
	var warnings []Warning
	for _, rec := range records {
		if i, exists := g.index[rec.Revision]; exists {
			kept := g.nodes[i].Path
			logger.Warn("Duplicate revision found, keeping the first definition.",
				"revision", rec.Revision, "path", rec.Path, "kept", kept)
			warnings = append(warnings, Warning{
				Kind:     DuplicateRevision,
				Revision: rec.Revision,
				Path:     rec.Path,
				KeptPath: kept,
			})
			continue
		}
		g.index[rec.Revision] = len(g.nodes)
		g.nodes = append(g.nodes, Node{Record: rec})
	}
	return warnings
}

func linkNodes(ctx context.Context, g *Graph) []Warning {
	logger := ctxlog.FromContext(ctx)
	var warnings []Warning
	for i := range g.nodes {
		n := &g.nodes[i]
		for _, parent := range n.Parents {
			if _, ok := g.index[parent]; !ok {
				logger.Warn("Parent revision not found, dropping edge.",
					"revision", n.Revision, "path", n.Path, "parent", parent)
				warnings = append(warnings, Warning{
					Kind:     DanglingParent,
					Revision: n.Revision,
					Path:     n.Path,
					Parent:   parent,
				})
				continue
			}
			n.Edges = append(n.Edges, parent)
		}
	}
	for i := range g.nodes {
		for _, parent := range g.nodes[i].Edges {
			p := &g.nodes[g.index[parent]]
			p.Children = append(p.Children, g.nodes[i].Revision)
		}
	}
	for i := range g.nodes {
		slices.Sort(g.nodes[i].Children)
	}
	return warnings
}

// detectCycles walks parent edges depth-first from every unvisited node in
// ascending revision order. Each edge that reaches a node still on the walk
// stack closes a cycle and yields one warning. Membership is settled by
// markCycleMembers, since a walk can miss cycles through finished nodes.
func (g *Graph) detectCycles() []Warning {
	const (
		unvisited = iota
		onStack
		done
	)
	state := make([]uint8, len(g.nodes))
	var (
		stack    []int
		warnings []Warning
	)

	var visit func(i int)
	visit = func(i int) {
		state[i] = onStack
		stack = append(stack, i)
		for _, parent := range g.nodes[i].Edges {
			j := g.index[parent]
			switch state[j] {
			case onStack:
				start := slices.Index(stack, j)
				cycle := make([]string, 0, len(stack)-start)
				for _, k := range stack[start:] {
					cycle = append(cycle, g.nodes[k].Revision)
				}
				warnings = append(warnings, Warning{
					Kind:     CycleDetected,
					Revision: g.nodes[j].Revision,
					Cycle:    cycle,
				})
			case unvisited:
				visit(j)
			}
		}
		stack = stack[:len(stack)-1]
		state[i] = done
	}

	for _, id := range g.IDs() {
		if i := g.index[id]; state[i] == unvisited {
			visit(i)
		}
	}
	return warnings
}

// markCycleMembers sets InCycle on every node of a strongly connected
// component with more than one member, and on nodes with a self-loop.
// Components are found with Tarjan's algorithm.
func (g *Graph) markCycleMembers() {
	n := len(g.nodes)
	index := make([]int, n)
	low := make([]int, n)
	onStack := make([]bool, n)
	for i := range index {
		index[i] = -1
	}
	var (
		stack []int
		next  int
	)

	var connect func(i int)
	connect = func(i int) {
		index[i], low[i] = next, next
		next++
		stack = append(stack, i)
		onStack[i] = true
		for _, parent := range g.nodes[i].Edges {
			j := g.index[parent]
			switch {
			case index[j] < 0:
				connect(j)
				low[i] = min(low[i], low[j])
			case onStack[j]:
				low[i] = min(low[i], index[j])
			}
		}
		if low[i] != index[i] {
			return
		}
		var members []int
		for {
			k := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			onStack[k] = false
			members = append(members, k)
			if k == i {
				break
			}
		}
		if len(members) > 1 || slices.Contains(g.nodes[i].Edges, g.nodes[i].Revision) {
			for _, k := range members {
				g.nodes[k].InCycle = true
			}
		}
	}

	for i := range g.nodes {
		if index[i] < 0 {
			connect(i)
		}
	}
}
