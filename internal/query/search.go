package query

import (
	"slices"
	"strings"
	"unicode/utf8"

	"github.com/agext/levenshtein"
	"github.com/sahilm/fuzzy"
	"github.com/specialistvlad/revgraph/internal/graph"
)

// Score bands. Exact id matches outrank substrings, which outrank any fuzzy
// candidate: the fuzzy band tops out at scoreFuzzyScale. An id equal to the
// query only up to case sits just below a verbatim one.
const (
	scoreExact         = 1.0
	scoreExactFold     = 0.995
	scoreSubstringBase = 0.9
	scoreSubstringSpan = 0.09
	scoreFuzzyScale    = 0.85
)

// Result is a scored search hit.
type Result struct {
	Node  graph.Node
	Score float64
}

// Search returns the nodes matching q, best first. A blank query matches
// nothing.
func (e *Engine) Search(q string) []graph.Node {
	ranked := e.Rank(q)
	out := make([]graph.Node, len(ranked))
	for i, r := range ranked {
		out[i] = r.Node
	}
	return out
}

// Rank scores every node against q case-insensitively and returns the hits
// ordered by descending score, then ascending depth, then ascending revision.
func (e *Engine) Rank(q string) []Result {
	raw := strings.TrimSpace(q)
	if raw == "" {
		return []Result{}
	}

	results := []Result{}
	for _, n := range e.nodes {
		if s, ok := e.score(raw, n); ok {
			results = append(results, Result{Node: n, Score: s})
		}
	}

	slices.SortFunc(results, func(a, b Result) int {
		switch {
		case a.Score > b.Score:
			return -1
		case a.Score < b.Score:
			return 1
		case a.Node.Depth() != b.Node.Depth():
			return a.Node.Depth() - b.Node.Depth()
		}
		return strings.Compare(a.Node.Revision, b.Node.Revision)
	})

	if e.opts.Limit > 0 && len(results) > e.opts.Limit {
		results = results[:e.opts.Limit]
	}
	return results
}

func (e *Engine) score(raw string, n graph.Node) (float64, bool) {
	if n.Revision == raw {
		return scoreExact, true
	}
	q := strings.ToLower(raw)
	id := strings.ToLower(n.Revision)
	if id == q {
		return scoreExactFold, true
	}

	fields := []string{id, strings.ToLower(n.Message)}
	for _, l := range n.BranchLabels {
		fields = append(fields, strings.ToLower(l))
	}

	best, found := 0.0, false
	for _, f := range fields {
		if f == "" || !strings.Contains(f, q) {
			continue
		}
		coverage := float64(utf8.RuneCountInString(q)) / float64(utf8.RuneCountInString(f))
		best = max(best, scoreSubstringBase+scoreSubstringSpan*coverage)
		found = true
	}
	if found {
		return best, true
	}

	sim := similarity(q, fields)
	if sim < e.opts.MinSimilarity {
		return 0, false
	}
	return scoreFuzzyScale * sim, true
}

// similarity is the best of the edit-distance similarity against each field
// and each word of it, and the density of q as a subsequence of a field.
func similarity(q string, fields []string) float64 {
	best := 0.0
	for _, f := range fields {
		if f == "" {
			continue
		}
		best = max(best, levenshtein.Similarity(q, f, nil))
		for _, w := range strings.FieldsFunc(f, isSeparator) {
			best = max(best, levenshtein.Similarity(q, w, nil))
		}
	}

	qLen := utf8.RuneCountInString(q)
	for _, m := range fuzzy.Find(q, fields) {
		if len(m.MatchedIndexes) == 0 {
			continue
		}
		span := m.MatchedIndexes[len(m.MatchedIndexes)-1] - m.MatchedIndexes[0] + 1
		best = max(best, min(1, float64(qLen)/float64(span)))
	}
	return best
}

func isSeparator(r rune) bool {
	switch r {
	case ' ', '\t', '_', '-', '.', ',', ':', '/', '(', ')':
		return true
	}
	return false
}
