package report

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/specialistvlad/revgraph/internal/graph"
	"gopkg.in/yaml.v3"
)

// Format is an export document format.
type Format string

const (
	FormatYAML Format = "yaml"
	FormatJSON Format = "json"
)

// ParseFormat accepts "yaml", "yml" or "json" (case-insensitive).
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "yaml", "yml":
		return FormatYAML, nil
	case "json":
		return FormatJSON, nil
	}
	return "", fmt.Errorf("unknown export format %q: must be 'yaml' or 'json'", s)
}

// Document is the exported form of a graph.
type Document struct {
	Nodes    []DocumentNode    `yaml:"nodes" json:"nodes"`
	Warnings []DocumentWarning `yaml:"warnings,omitempty" json:"warnings,omitempty"`
}

// DocumentNode is one exported node. Parents are the declared parents, Edges
// the ones that resolved to a node of the graph.
type DocumentNode struct {
	Revision     string            `yaml:"revision" json:"revision"`
	Message      string            `yaml:"message,omitempty" json:"message,omitempty"`
	Path         string            `yaml:"path" json:"path"`
	Date         *time.Time        `yaml:"date,omitempty" json:"date,omitempty"`
	BranchLabels []string          `yaml:"branch_labels,omitempty" json:"branch_labels,omitempty"`
	Parents      []string          `yaml:"parents,omitempty" json:"parents,omitempty"`
	Edges        []string          `yaml:"edges,omitempty" json:"edges,omitempty"`
	Children     []string          `yaml:"children,omitempty" json:"children,omitempty"`
	Roles        []string          `yaml:"roles" json:"roles"`
	InCycle      bool              `yaml:"in_cycle,omitempty" json:"in_cycle,omitempty"`
	Position     *DocumentPosition `yaml:"position,omitempty" json:"position,omitempty"`
}

// DocumentPosition is the exported layout position.
type DocumentPosition struct {
	X      float64 `yaml:"x" json:"x"`
	Y      float64 `yaml:"y" json:"y"`
	Level  int     `yaml:"level" json:"level"`
	Column int     `yaml:"column" json:"column"`
}

// DocumentWarning is one exported structural warning.
type DocumentWarning struct {
	Kind     string `yaml:"kind" json:"kind"`
	Revision string `yaml:"revision,omitempty" json:"revision,omitempty"`
	Message  string `yaml:"message" json:"message"`
}

// NewDocument converts g into its export form, nodes ordered by revision id.
func NewDocument(g *graph.Graph) Document {
	doc := Document{Nodes: make([]DocumentNode, 0, g.Len())}
	for _, id := range g.IDs() {
		n, _ := g.Node(id)
		dn := DocumentNode{
			Revision:     n.Revision,
			Message:      n.Message,
			Path:         n.Path,
			Date:         n.Date,
			BranchLabels: n.BranchLabels,
			Parents:      n.Parents,
			Edges:        n.Edges,
			Children:     n.Children,
			Roles:        n.Role.Names(),
			InCycle:      n.InCycle,
		}
		if n.Position != nil {
			dn.Position = &DocumentPosition{X: n.Position.X, Y: n.Position.Y, Level: n.Position.Level, Column: n.Position.Column}
		}
		doc.Nodes = append(doc.Nodes, dn)
	}
	for _, w := range g.Warnings() {
		doc.Warnings = append(doc.Warnings, DocumentWarning{Kind: w.Kind.String(), Revision: w.Revision, Message: w.String()})
	}
	return doc
}

// Export writes g to w in the given format.
func Export(w io.Writer, g *graph.Graph, format Format) error {
	doc := NewDocument(g)
	switch format {
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(doc); err != nil {
			return fmt.Errorf("failed to encode JSON export: %w", err)
		}
		return nil
	case FormatYAML, "":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(doc); err != nil {
			return fmt.Errorf("failed to encode YAML export: %w", err)
		}
		return enc.Close()
	default:
		return fmt.Errorf("unknown export format %q", format)
	}
}
