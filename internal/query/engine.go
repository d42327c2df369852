package query

import (
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/specialistvlad/revgraph/internal/graph"
)

// ErrNotFound is matched by errors returned for unknown revision ids.
var ErrNotFound = errors.New("revision not found")

// NotFoundError reports a query for a revision absent from the graph.
type NotFoundError struct {
	ID string
}

// Error implements the error interface.
func (e *NotFoundError) Error() string {
	return fmt.Sprintf("revision %q not found", e.ID)
}

// Is makes errors.Is(err, ErrNotFound) hold.
func (e *NotFoundError) Is(target error) bool {
	return target == ErrNotFound
}

// Options tunes search.
type Options struct {
	// MinSimilarity is the floor in [0, 1] below which fuzzy candidates are
	// dropped. Substring and exact matches are never dropped.
	MinSimilarity float64
	// Limit caps the number of search results; 0 means unlimited.
	Limit int
}

// DefaultMinSimilarity keeps fuzzy noise out of search results.
const DefaultMinSimilarity = 0.6

// DefaultOptions returns the default search tuning.
func DefaultOptions() Options {
	return Options{MinSimilarity: DefaultMinSimilarity}
}

// Engine answers queries over one graph.
type Engine struct {
	g     *graph.Graph
	opts  Options
	nodes []graph.Node
}

// New creates an engine over g.
func New(g *graph.Graph, opts Options) *Engine {
	if opts.MinSimilarity <= 0 || opts.MinSimilarity > 1 {
		opts.MinSimilarity = DefaultMinSimilarity
	}
	if opts.Limit < 0 {
		opts.Limit = 0
	}
	return &Engine{g: g, opts: opts, nodes: g.Nodes()}
}

// Graph returns the graph the engine reads.
func (e *Engine) Graph() *graph.Graph {
	return e.g
}

// Node looks up a node by id, failing with ErrNotFound.
func (e *Engine) Node(id string) (graph.Node, error) {
	n, ok := e.g.Node(id)
	if !ok {
		return graph.Node{}, &NotFoundError{ID: id}
	}
	return n, nil
}

// FilterByDate returns the nodes whose date lies in [start, end]. A nil bound
// is open on that side; with both bounds nil the filter is inactive and every
// node is returned. Undated nodes never match an active filter. The result is
// ordered by date, then revision id.
func (e *Engine) FilterByDate(start, end *time.Time) []graph.Node {
	if start == nil && end == nil {
		out := slices.Clone(e.nodes)
		slices.SortFunc(out, byDateThenID)
		return out
	}
	if start != nil && end != nil && start.After(*end) {
		return []graph.Node{}
	}

	out := []graph.Node{}
	for _, n := range e.nodes {
		if n.Date == nil {
			continue
		}
		if start != nil && n.Date.Before(*start) {
			continue
		}
		if end != nil && n.Date.After(*end) {
			continue
		}
		out = append(out, n)
	}
	slices.SortFunc(out, byDateThenID)
	return out
}

func byDateThenID(a, b graph.Node) int {
	switch {
	case a.Date == nil && b.Date != nil:
		return 1
	case a.Date != nil && b.Date == nil:
		return -1
	case a.Date != nil && b.Date != nil && !a.Date.Equal(*b.Date):
		return a.Date.Compare(*b.Date)
	}
	return strings.Compare(a.Revision, b.Revision)
}

// Relations is the transitive neighbourhood of one revision.
type Relations struct {
	Ancestors   []string
	Descendants []string
}

// Relationships returns every ancestor and descendant of id, following the
// surviving edges transitively. The revision itself is excluded even when it
// lies on a cycle. Both lists are sorted.
func (e *Engine) Relationships(id string) (Relations, error) {
	if !e.g.Has(id) {
		return Relations{}, &NotFoundError{ID: id}
	}
	return Relations{
		Ancestors:   e.closure(id, func(n graph.Node) []string { return n.Edges }),
		Descendants: e.closure(id, func(n graph.Node) []string { return n.Children }),
	}, nil
}

func (e *Engine) closure(start string, next func(graph.Node) []string) []string {
	seen := map[string]struct{}{start: {}}
	queue := []string{start}
	out := []string{}
	for len(queue) > 0 {
		id := queue[0]
		queue = queue[1:]
		n, _ := e.g.Node(id)
		for _, m := range next(n) {
			if _, ok := seen[m]; ok {
				continue
			}
			seen[m] = struct{}{}
			out = append(out, m)
			queue = append(queue, m)
		}
	}
	slices.Sort(out)
	return out
}

// Stats summarizes the graph the way the status line shows it.
type Stats struct {
	Nodes      int
	Roots      int
	Heads      int
	Merges     int
	CycleNodes int
	Undated    int
	Warnings   int
	FirstDate  *time.Time
	LastDate   *time.Time
}

// Stats counts nodes by role.
func (e *Engine) Stats() Stats {
	s := Stats{Nodes: len(e.nodes), Warnings: len(e.g.Warnings())}
	for _, n := range e.nodes {
		if n.Role.Has(graph.RoleRoot) {
			s.Roots++
		}
		if n.Role.Has(graph.RoleHead) {
			s.Heads++
		}
		if n.Role.Has(graph.RoleMerge) {
			s.Merges++
		}
		if n.InCycle {
			s.CycleNodes++
		}
		if n.Date == nil {
			s.Undated++
			continue
		}
		if s.FirstDate == nil || n.Date.Before(*s.FirstDate) {
			d := *n.Date
			s.FirstDate = &d
		}
		if s.LastDate == nil || n.Date.After(*s.LastDate) {
			d := *n.Date
			s.LastDate = &d
		}
	}
	return s
}
