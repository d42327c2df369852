package layout

import (
	"context"
	"testing"

	"github.com/specialistvlad/revgraph/internal/graph"
	"github.com/specialistvlad/revgraph/internal/migration"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func build(t *testing.T, records ...migration.Record) *graph.Graph {
	t.Helper()
	g, _ := graph.Build(context.Background(), records)
	return g
}

func rec(id string, parents ...string) migration.Record {
	return migration.Record{Revision: id, Parents: parents, Path: id + ".py"}
}

func pos(t *testing.T, g *graph.Graph, id string) graph.Position {
	t.Helper()
	n, ok := g.Node(id)
	require.True(t, ok, "node %q not found", id)
	require.NotNil(t, n.Position, "node %q has no position", id)
	return *n.Position
}

func TestLayout_LinearChain(t *testing.T) {
	t.Parallel()

	g := build(t, rec("a"), rec("b", "a"), rec("c", "b"))
	out := Layout(context.Background(), g, DefaultOptions())

	require.True(t, out.IsLaidOut())
	assert.False(t, g.IsLaidOut(), "the input graph keeps no positions")
	assert.Equal(t, graph.Position{X: 0, Y: 0, Level: 0, Column: 0}, pos(t, out, "a"))
	assert.Equal(t, graph.Position{X: 0, Y: 1, Level: 1, Column: 0}, pos(t, out, "b"))
	assert.Equal(t, graph.Position{X: 0, Y: 2, Level: 2, Column: 0}, pos(t, out, "c"))
}

func TestLayout_DepthIsLongestPath(t *testing.T) {
	t.Parallel()

	// r3 merges r1 (depth 0) and r2 (depth 1): it must sit below r2.
	g := build(t, rec("r1"), rec("r2", "r1"), rec("r3", "r1", "r2"))
	out := Layout(context.Background(), g, DefaultOptions())

	assert.Equal(t, 0, pos(t, out, "r1").Level)
	assert.Equal(t, 1, pos(t, out, "r2").Level)
	assert.Equal(t, 2, pos(t, out, "r3").Level)
}

func TestLayout_SiblingsKeepSeparationAndOrder(t *testing.T) {
	t.Parallel()

	// --- Arrange ---
	// Two roots; root "a" has three children which all want x = 0.
	g := build(t,
		rec("a"), rec("z"),
		rec("c1", "a"), rec("c2", "a"), rec("c3", "a"),
		rec("zc", "z"),
	)

	// --- Act ---
	out := Layout(context.Background(), g, DefaultOptions())

	// --- Assert ---
	assert.Equal(t, 0.0, pos(t, out, "a").X)
	assert.Equal(t, 1.0, pos(t, out, "z").X)

	// Children of a (barycenter 0) come before zc (barycenter 1), ties by id.
	assert.Equal(t, 0, pos(t, out, "c1").Column)
	assert.Equal(t, 1, pos(t, out, "c2").Column)
	assert.Equal(t, 2, pos(t, out, "c3").Column)
	assert.Equal(t, 3, pos(t, out, "zc").Column)

	xs := []float64{pos(t, out, "c1").X, pos(t, out, "c2").X, pos(t, out, "c3").X, pos(t, out, "zc").X}
	for i := 1; i < len(xs); i++ {
		assert.GreaterOrEqual(t, xs[i]-xs[i-1], 1.0, "minimum separation is enforced")
	}
}

func TestLayout_ChildNearParentBarycenter(t *testing.T) {
	t.Parallel()

	g := build(t, rec("a"), rec("b"), rec("c"), rec("m", "a", "c"))
	out := Layout(context.Background(), g, DefaultOptions())

	assert.Equal(t, 1.0, pos(t, out, "m").X, "a merge sits at the average of its parents")
}

func TestLayout_Deterministic(t *testing.T) {
	t.Parallel()

	records := []migration.Record{
		rec("base"), rec("f1", "base"), rec("f2", "base"), rec("f3", "f1"),
		rec("m1", "f2", "f3"), rec("other"), rec("o1", "other"), rec("m2", "m1", "o1"),
	}
	g := build(t, records...)

	first := Layout(context.Background(), g, DefaultOptions())
	second := Layout(context.Background(), g, DefaultOptions())
	assert.Equal(t, first.Nodes(), second.Nodes())

	// Input order must not matter either.
	reversed := make([]migration.Record, len(records))
	for i, r := range records {
		reversed[len(records)-1-i] = r
	}
	third := Layout(context.Background(), build(t, reversed...), DefaultOptions())
	for _, id := range g.IDs() {
		assert.Equal(t, pos(t, first, id), pos(t, third, id), "position of %s", id)
	}
}

func TestLayout_Cycles(t *testing.T) {
	t.Parallel()

	t.Run("pure cycle breaks at lowest revision", func(t *testing.T) {
		g := build(t, rec("b", "a"), rec("c", "b"), rec("a", "c"))
		out := Layout(context.Background(), g, DefaultOptions())

		assert.Equal(t, 0, pos(t, out, "a").Level)
		assert.Equal(t, 1, pos(t, out, "b").Level)
		assert.Equal(t, 2, pos(t, out, "c").Level)
	})

	t.Run("cycle reachable from a root", func(t *testing.T) {
		g := build(t, rec("root"), rec("x", "root", "y"), rec("y", "x"))
		out := Layout(context.Background(), g, DefaultOptions())

		assert.Equal(t, 0, pos(t, out, "root").Level)
		assert.Equal(t, 1, pos(t, out, "x").Level)
		assert.Equal(t, 2, pos(t, out, "y").Level)
	})
}

func TestLayout_OptionsAndOrientation(t *testing.T) {
	t.Parallel()

	g := build(t, rec("a"), rec("b"), rec("c", "a"))
	opts := Options{Orientation: LeftRight, RowSpacing: 120, ColumnSpacing: 40, MinSeparation: 40}
	out := Layout(context.Background(), g, opts)

	assert.Equal(t, graph.Position{X: 0, Y: 0, Level: 0, Column: 0}, pos(t, out, "a"))
	assert.Equal(t, graph.Position{X: 0, Y: 40, Level: 0, Column: 1}, pos(t, out, "b"))
	assert.Equal(t, graph.Position{X: 120, Y: 0, Level: 1, Column: 0}, pos(t, out, "c"))
}

func TestLayout_EmptyGraph(t *testing.T) {
	t.Parallel()

	out := Layout(context.Background(), graph.Empty(), Options{})
	assert.Equal(t, 0, out.Len())
}

func TestParseOrientation(t *testing.T) {
	t.Parallel()

	o, err := ParseOrientation("Left-Right")
	require.NoError(t, err)
	assert.Equal(t, LeftRight, o)

	o, err = ParseOrientation("")
	require.NoError(t, err)
	assert.Equal(t, TopDown, o)

	_, err = ParseOrientation("diagonal")
	assert.ErrorContains(t, err, "unknown orientation")
}
