package report

import (
	"cmp"
	"fmt"
	"io"
	"slices"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/specialistvlad/revgraph/internal/graph"
	"github.com/specialistvlad/revgraph/internal/migration"
	"github.com/specialistvlad/revgraph/internal/query"
)

const (
	dateLayout    = "2006-01-02"
	summaryLength = 30
)

// Printer writes human-readable reports to a terminal or pipe.
type Printer struct {
	w      io.Writer
	styles Styles
}

// NewPrinter creates a Printer whose color profile is detected from w.
func NewPrinter(w io.Writer, scheme map[string]string) *Printer {
	return &Printer{w: w, styles: NewStyles(lipgloss.NewRenderer(w), scheme)}
}

// Styles returns the styles the printer renders with.
func (p *Printer) Styles() Styles {
	return p.styles
}

// Graph lists every node grouped by layout level, in column order. Nodes of
// a graph without positions are listed by revision id.
func (p *Printer) Graph(g *graph.Graph) {
	nodes := g.Nodes()
	if len(nodes) == 0 {
		fmt.Fprintln(p.w, p.styles.Muted.Render("No migrations."))
		return
	}
	if !g.IsLaidOut() {
		p.Nodes(sortByID(nodes))
		return
	}

	slices.SortFunc(nodes, func(a, b graph.Node) int {
		return cmp.Or(
			cmp.Compare(a.Position.Level, b.Position.Level),
			cmp.Compare(a.Position.Column, b.Position.Column),
		)
	})

	level := -1
	for _, n := range nodes {
		if n.Position.Level != level {
			level = n.Position.Level
			fmt.Fprintln(p.w, p.styles.Title.Render(fmt.Sprintf("Level %d", level)))
		}
		fmt.Fprintln(p.w, "  "+p.nodeLine(n))
	}
}

// Nodes lists nodes in the given order.
func (p *Printer) Nodes(nodes []graph.Node) {
	if len(nodes) == 0 {
		fmt.Fprintln(p.w, p.styles.Muted.Render("No migrations."))
		return
	}
	for _, n := range nodes {
		fmt.Fprintln(p.w, p.nodeLine(n))
	}
}

func (p *Printer) nodeLine(n graph.Node) string {
	style := p.styles.ForRole(n.Role)
	line := fmt.Sprintf("%s %s %s %s",
		style.Render(fmt.Sprintf("%-12s", n.Revision)),
		style.Render(fmt.Sprintf("%-6s", tag(n.Role))),
		p.styles.Muted.Render(fmt.Sprintf("%-10s", formatDate(n.Date, dateLayout))),
		p.styles.Text.Render(n.Message),
	)
	if len(n.Edges) > 0 {
		line += p.styles.Parent.Render(" <- " + strings.Join(n.Edges, ", "))
	}
	if n.InCycle {
		line += p.styles.Warning.Render(" (cycle)")
	}
	return line
}

// Results lists ranked search hits with their score.
func (p *Printer) Results(results []query.Result) {
	if len(results) == 0 {
		fmt.Fprintln(p.w, p.styles.Muted.Render("No matches."))
		return
	}
	for _, r := range results {
		fmt.Fprintf(p.w, "%s  %s\n", p.styles.Muted.Render(fmt.Sprintf("%.2f", r.Score)), p.nodeLine(r.Node))
	}
}

// Relations lists the transitive ancestors and descendants of id.
func (p *Printer) Relations(g *graph.Graph, id string, rel query.Relations) {
	fmt.Fprintln(p.w, p.styles.Selected.Render(id))
	p.list(g, fmt.Sprintf("Ancestors (%d):", len(rel.Ancestors)), "No ancestors.", rel.Ancestors, p.styles.Parent)
	p.list(g, fmt.Sprintf("Descendants (%d):", len(rel.Descendants)), "No descendants.", rel.Descendants, p.styles.Child)
}

// Details prints everything known about one node.
func (p *Printer) Details(g *graph.Graph, n graph.Node) {
	style := p.styles.ForRole(n.Role)
	fmt.Fprintln(p.w, p.styles.Title.Render("Migration details"))
	fmt.Fprintln(p.w, style.Render("["+n.Role.String()+"]"))
	fmt.Fprintln(p.w)

	field := func(label, value string) {
		fmt.Fprintf(p.w, "%s\n   %s\n", p.styles.Muted.Render(label+":"), p.styles.Text.Render(value))
	}
	field("Revision ID", n.Revision)
	field("Message", n.Message)
	field("File", n.Path)
	field("Create date", formatDate(n.Date, time.DateTime))
	if len(n.BranchLabels) > 0 {
		field("Branch labels", strings.Join(n.BranchLabels, ", "))
	}
	if dangling := missing(n.Parents, n.Edges); len(dangling) > 0 {
		fmt.Fprintln(p.w, p.styles.Warning.Render("Unknown parents: "+strings.Join(dangling, ", ")))
	}
	if n.InCycle {
		fmt.Fprintln(p.w, p.styles.Warning.Render("Part of a cycle"))
	}
	fmt.Fprintln(p.w)

	p.list(g, fmt.Sprintf("Parents (%d):", len(n.Edges)), "No parents (ROOT)", n.Edges, p.styles.Parent)
	p.list(g, fmt.Sprintf("Children (%d):", len(n.Children)), "No children (HEAD)", n.Children, p.styles.Child)
}

// Source prints the content of a migration file below a header naming it. A
// read error is reported in place of the content.
func (p *Printer) Source(path string, content []byte, err error) {
	fmt.Fprintln(p.w)
	fmt.Fprintln(p.w, p.styles.Title.Render("Source: "+path))
	if err != nil {
		fmt.Fprintln(p.w, p.styles.Warning.Render("Cannot read file: "+err.Error()))
		return
	}
	text := string(content)
	fmt.Fprint(p.w, text)
	if !strings.HasSuffix(text, "\n") {
		fmt.Fprintln(p.w)
	}
}

func (p *Printer) list(g *graph.Graph, title, empty string, ids []string, style lipgloss.Style) {
	if len(ids) == 0 {
		fmt.Fprintln(p.w, p.styles.Muted.Render(empty))
		return
	}
	fmt.Fprintln(p.w, title)
	for _, id := range ids {
		msg := "?"
		if n, ok := g.Node(id); ok {
			msg = truncate(n.Message, summaryLength)
		}
		fmt.Fprintf(p.w, "   - %s - %s\n", style.Render(id), msg)
	}
}

// Problems lists unreadable files and structural warnings.
func (p *Printer) Problems(parseErrs []*migration.ParseError, warnings []graph.Warning) {
	for _, e := range parseErrs {
		fmt.Fprintln(p.w, p.styles.Warning.Render("skipped: ")+e.Error())
	}
	for _, w := range warnings {
		fmt.Fprintln(p.w, p.styles.Warning.Render("warning: ")+w.String())
	}
}

// Status summarizes what is on screen.
type Status struct {
	Shown  int
	Total  int
	Merges int
	Heads  int
	// Filtered switches the count to "shown/total".
	Filtered bool
}

// StatusOf summarizes g. total is the size of the unfiltered graph; a
// different value marks the status as filtered.
func StatusOf(g *graph.Graph, total int) Status {
	return Status{
		Shown:    g.Len(),
		Total:    total,
		Merges:   len(g.Merges()),
		Heads:    len(g.Heads()),
		Filtered: g.Len() != total,
	}
}

// String renders the status line, e.g. "Total: 3 | Merges: 1 | Heads: 1".
func (s Status) String() string {
	count := fmt.Sprintf("Total: %d", s.Total)
	if s.Filtered {
		count = fmt.Sprintf("Filtered: %d/%d", s.Shown, s.Total)
	}
	return fmt.Sprintf("%s | Merges: %d | Heads: %d", count, s.Merges, s.Heads)
}

// Status prints the status line.
func (p *Printer) Status(s Status) {
	fmt.Fprintln(p.w, p.styles.Muted.Render(s.String()))
}

// FilterLabel prints the active date range; an open bound shows as "*".
func (p *Printer) FilterLabel(from, to string) {
	fmt.Fprintln(p.w, p.styles.Warning.Render(fmt.Sprintf("Filter active: %s -> %s", cmp.Or(from, "*"), cmp.Or(to, "*"))))
}

func formatDate(d *time.Time, layout string) string {
	if d == nil {
		return "-"
	}
	return d.Format(layout)
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}

func missing(all, present []string) []string {
	var out []string
	for _, id := range all {
		if !slices.Contains(present, id) && !slices.Contains(out, id) {
			out = append(out, id)
		}
	}
	return out
}

func sortByID(nodes []graph.Node) []graph.Node {
	slices.SortFunc(nodes, func(a, b graph.Node) int { return strings.Compare(a.Revision, b.Revision) })
	return nodes
}
