package query

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/specialistvlad/revgraph/internal/graph"
	"github.com/specialistvlad/revgraph/internal/layout"
	"github.com/specialistvlad/revgraph/internal/migration"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func day(d int) *time.Time {
	t := time.Date(2024, 1, d, 12, 0, 0, 0, time.UTC)
	return &t
}

func rec(id, msg string, date *time.Time, parents ...string) migration.Record {
	return migration.Record{Revision: id, Parents: parents, Message: msg, Date: date, Path: id + ".py"}
}

func newEngine(t *testing.T, opts Options, records ...migration.Record) *Engine {
	t.Helper()
	g, _ := graph.Build(context.Background(), records)
	return New(layout.Layout(context.Background(), g, layout.DefaultOptions()), opts)
}

func ids(nodes []graph.Node) []string {
	out := make([]string, len(nodes))
	for i, n := range nodes {
		out[i] = n.Revision
	}
	return out
}

func sampleEngine(t *testing.T) *Engine {
	return newEngine(t, DefaultOptions(),
		rec("ae1d", "Add users table", day(1)),
		rec("b7f2", "Add posts table", day(2), "ae1d"),
		rec("c0de", "Index posts by author", day(3), "b7f2"),
		rec("d00d", "Merge heads", day(5), "c0de", "ae1d"),
		rec("e5e5", "Backfill emails", nil, "d00d"),
	)
}

func TestSearch_EmptyQuery(t *testing.T) {
	t.Parallel()

	e := sampleEngine(t)
	assert.Empty(t, e.Search(""))
	assert.Empty(t, e.Search("   "))
}

func TestSearch_ExactIDRanksFirst(t *testing.T) {
	t.Parallel()

	// "c0de1" contains the query in its id and message but must not outrank
	// the exact id match.
	e := newEngine(t, DefaultOptions(),
		rec("c0de1", "touches c0de", nil),
		rec("c0de", "base", nil),
	)

	results := e.Search("C0DE")
	require.NotEmpty(t, results)
	assert.Equal(t, "c0de", results[0].Revision)
	assert.Equal(t, []string{"c0de", "c0de1"}, ids(results))
}

func TestSearch_VerbatimIDBeatsCaseFoldedID(t *testing.T) {
	t.Parallel()

	// --- Arrange ---
	// "ABC" is shallower, so a plain case-insensitive tie would rank it first.
	e := newEngine(t, DefaultOptions(),
		rec("ABC", "upper", nil),
		rec("abc", "lower", nil, "ABC"),
	)

	// --- Act ---
	lower := e.Rank("abc")
	upper := e.Rank("ABC")

	// --- Assert ---
	require.Len(t, lower, 2)
	assert.Equal(t, "abc", lower[0].Node.Revision)
	assert.Equal(t, scoreExact, lower[0].Score)
	assert.Equal(t, scoreExactFold, lower[1].Score)
	assert.Greater(t, lower[1].Score, scoreSubstringBase+scoreSubstringSpan)

	require.Len(t, upper, 2)
	assert.Equal(t, "ABC", upper[0].Node.Revision)
}

func TestSearch_SubstringInMessage(t *testing.T) {
	t.Parallel()

	e := sampleEngine(t)
	results := e.Search("posts")

	// Both match as substrings; the shorter message has higher coverage.
	assert.Equal(t, []string{"b7f2", "c0de"}, ids(results))
}

func TestSearch_TiesBreakByDepthThenID(t *testing.T) {
	t.Parallel()

	e := newEngine(t, DefaultOptions(),
		rec("z1", "create table", nil),
		rec("a2", "create table", nil, "z1"),
		rec("b2", "create table", nil, "z1"),
	)
	assert.Equal(t, []string{"z1", "a2", "b2"}, ids(e.Search("create")))
}

func TestSearch_Fuzzy(t *testing.T) {
	t.Parallel()

	e := sampleEngine(t)

	t.Run("typo in a message word", func(t *testing.T) {
		results := e.Search("bakfill")
		require.NotEmpty(t, results)
		assert.Equal(t, "e5e5", results[0].Revision)
	})

	t.Run("subsequence", func(t *testing.T) {
		ranked := e.Rank("addusers")
		require.NotEmpty(t, ranked)
		assert.Equal(t, "ae1d", ranked[0].Node.Revision)
		assert.Less(t, ranked[0].Score, scoreSubstringBase, "fuzzy hits stay below substring hits")
	})

	t.Run("noise below the floor is dropped", func(t *testing.T) {
		assert.Empty(t, e.Search("qqqqqqqq"))
	})
}

func TestSearch_Limit(t *testing.T) {
	t.Parallel()

	e := newEngine(t, Options{Limit: 1},
		rec("a", "table one", nil),
		rec("b", "table two", nil),
	)
	assert.Len(t, e.Search("table"), 1)
}

func TestSearch_BranchLabels(t *testing.T) {
	t.Parallel()

	r := rec("f00", "initial", nil)
	r.BranchLabels = []string{"billing"}
	e := newEngine(t, DefaultOptions(), r, rec("f01", "other", nil))

	assert.Equal(t, []string{"f00"}, ids(e.Search("billing")))
}

func TestFilterByDate(t *testing.T) {
	t.Parallel()

	e := sampleEngine(t)

	t.Run("inactive filter returns every node", func(t *testing.T) {
		assert.Len(t, e.FilterByDate(nil, nil), 5)
	})

	t.Run("inclusive bounds", func(t *testing.T) {
		assert.Equal(t, []string{"b7f2", "c0de"}, ids(e.FilterByDate(day(2), day(3))))
	})

	t.Run("open start", func(t *testing.T) {
		assert.Equal(t, []string{"ae1d", "b7f2"}, ids(e.FilterByDate(nil, day(2))))
	})

	t.Run("open end excludes undated nodes", func(t *testing.T) {
		assert.Equal(t, []string{"c0de", "d00d"}, ids(e.FilterByDate(day(3), nil)))
	})

	t.Run("reversed bounds", func(t *testing.T) {
		assert.Empty(t, e.FilterByDate(day(4), day(1)))
	})
}

func TestRelationships(t *testing.T) {
	t.Parallel()

	e := sampleEngine(t)

	t.Run("root has no ancestors", func(t *testing.T) {
		rel, err := e.Relationships("ae1d")
		require.NoError(t, err)
		assert.Empty(t, rel.Ancestors)
		assert.Equal(t, []string{"b7f2", "c0de", "d00d", "e5e5"}, rel.Descendants)
	})

	t.Run("transitive ancestors", func(t *testing.T) {
		rel, err := e.Relationships("c0de")
		require.NoError(t, err)
		assert.Equal(t, []string{"ae1d", "b7f2"}, rel.Ancestors)
		assert.Equal(t, []string{"d00d", "e5e5"}, rel.Descendants)
	})

	t.Run("unknown revision", func(t *testing.T) {
		_, err := e.Relationships("nope")
		require.Error(t, err)
		assert.True(t, errors.Is(err, ErrNotFound))
		var nf *NotFoundError
		require.ErrorAs(t, err, &nf)
		assert.Equal(t, "nope", nf.ID)
	})
}

func TestRelationships_MergeScenario(t *testing.T) {
	t.Parallel()

	e := newEngine(t, DefaultOptions(),
		rec("r1", "", nil), rec("r2", "", nil, "r1"), rec("r3", "", nil, "r1", "r2"))

	rel, err := e.Relationships("r3")
	require.NoError(t, err)
	assert.Equal(t, []string{"r1", "r2"}, rel.Ancestors)
	assert.Empty(t, rel.Descendants)
}

func TestRelationships_CycleExcludesSelf(t *testing.T) {
	t.Parallel()

	e := newEngine(t, DefaultOptions(),
		rec("a", "", nil, "c"), rec("b", "", nil, "a"), rec("c", "", nil, "b"))

	rel, err := e.Relationships("a")
	require.NoError(t, err)
	assert.Equal(t, []string{"b", "c"}, rel.Ancestors)
	assert.Equal(t, []string{"b", "c"}, rel.Descendants)
}

func TestStats(t *testing.T) {
	t.Parallel()

	s := sampleEngine(t).Stats()
	assert.Equal(t, 5, s.Nodes)
	assert.Equal(t, 1, s.Roots)
	assert.Equal(t, 1, s.Heads)
	assert.Equal(t, 1, s.Merges)
	assert.Equal(t, 1, s.Undated)
	assert.Equal(t, 0, s.Warnings)
	require.NotNil(t, s.FirstDate)
	assert.True(t, s.FirstDate.Equal(*day(1)))
	assert.True(t, s.LastDate.Equal(*day(5)))
}
