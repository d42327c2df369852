package report

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/specialistvlad/revgraph/internal/config"
	"github.com/specialistvlad/revgraph/internal/graph"
)

// Styles holds one lipgloss style per visual element.
type Styles struct {
	Normal   lipgloss.Style
	Head     lipgloss.Style
	Root     lipgloss.Style
	Merge    lipgloss.Style
	Selected lipgloss.Style
	Parent   lipgloss.Style
	Child    lipgloss.Style
	Text     lipgloss.Style
	Muted    lipgloss.Style
	Warning  lipgloss.Style
	Title    lipgloss.Style
}

// NewStyles builds the styles for a renderer from a color scheme as returned
// by config.Model.ColorScheme. Missing keys fall back to the defaults.
func NewStyles(r *lipgloss.Renderer, scheme map[string]string) Styles {
	color := func(key string) lipgloss.Color {
		if v, ok := scheme[key]; ok && v != "" {
			return lipgloss.Color(v)
		}
		return lipgloss.Color(config.DefaultColors()[key])
	}

	return Styles{
		Normal:   r.NewStyle().Foreground(color(config.ColorNodeNormal)),
		Head:     r.NewStyle().Foreground(color(config.ColorNodeHead)).Bold(true),
		Root:     r.NewStyle().Foreground(color(config.ColorNodeRoot)).Bold(true),
		Merge:    r.NewStyle().Foreground(color(config.ColorNodeMerge)),
		Selected: r.NewStyle().Foreground(color(config.ColorNodeSelected)).Bold(true),
		Parent:   r.NewStyle().Foreground(color(config.ColorEdgeParent)),
		Child:    r.NewStyle().Foreground(color(config.ColorEdgeChild)),
		Text:     r.NewStyle().Foreground(color(config.ColorText)),
		Muted:    r.NewStyle().Foreground(color(config.ColorEdgeNormal)),
		Warning:  r.NewStyle().Foreground(color(config.ColorEdgeMerge)).Bold(true),
		Title:    r.NewStyle().Bold(true).Underline(true),
	}
}

// ForRole picks the node style. HEAD wins over ROOT, ROOT over MERGE.
func (s Styles) ForRole(role graph.Role) lipgloss.Style {
	switch {
	case role.Has(graph.RoleHead):
		return s.Head
	case role.Has(graph.RoleRoot):
		return s.Root
	case role.Has(graph.RoleMerge):
		return s.Merge
	default:
		return s.Normal
	}
}

// tag is the single-word label shown next to a node, using the same
// precedence as ForRole.
func tag(role graph.Role) string {
	switch {
	case role.Has(graph.RoleHead):
		return "HEAD"
	case role.Has(graph.RoleRoot):
		return "ROOT"
	case role.Has(graph.RoleMerge):
		return "MERGE"
	default:
		return "NORMAL"
	}
}
