package config

import (
	"errors"
	"fmt"
	"maps"
	"path/filepath"
	"regexp"
	"slices"
	"strings"
)

// ErrNoProject is returned by ResolveProject when nothing selects a
// migration directory.
var ErrNoProject = errors.New("no migration directory")

// Model is the unified, format-agnostic representation of the configuration.
type Model struct {
	Projects []Project
	Scan     Scan
	Layout   Layout
	Search   Search
	// Colors maps a color key (see DefaultColors) to a "#rrggbb" value.
	// Keys missing here fall back to the defaults.
	Colors map[string]string
}

// Project is a named migration directory.
type Project struct {
	Alias string
	Path  string
}

// Scan holds the file enumeration patterns.
type Scan struct {
	Include []string
	Exclude []string
}

// Layout holds the layout engine settings.
type Layout struct {
	Orientation   string
	RowSpacing    float64
	ColumnSpacing float64
	MinSeparation float64
}

// Search holds the query engine settings.
type Search struct {
	MinSimilarity float64
	Limit         int
}

// Color keys understood by the renderer.
const (
	ColorNodeNormal   = "node_normal"
	ColorNodeHead     = "node_head"
	ColorNodeRoot     = "node_root"
	ColorNodeMerge    = "node_merge"
	ColorNodeSelected = "node_selected"
	ColorEdgeNormal   = "edge_normal"
	ColorEdgeMerge    = "edge_merge"
	ColorEdgeParent   = "edge_parent"
	ColorEdgeChild    = "edge_child"
	ColorText         = "text"
	ColorBackground   = "background"
)

// DefaultColors returns a fresh copy of the built-in color scheme.
func DefaultColors() map[string]string {
	return map[string]string{
		ColorNodeNormal:   "#4a90d9",
		ColorNodeHead:     "#9b59b6",
		ColorNodeRoot:     "#f1c40f",
		ColorNodeMerge:    "#e67e22",
		ColorNodeSelected: "#2ecc71",
		ColorEdgeNormal:   "#7f8c8d",
		ColorEdgeMerge:    "#e67e22",
		ColorEdgeParent:   "#27ae60",
		ColorEdgeChild:    "#58d68d",
		ColorText:         "#2c3e50",
		ColorBackground:   "#ecf0f1",
	}
}

// Default returns the configuration used when no file is present.
func Default() *Model {
	return &Model{
		Scan: Scan{
			Include: []string{"*.py"},
			Exclude: []string{"__*", "**/__pycache__/**"},
		},
		Layout: Layout{
			Orientation:   "top-down",
			RowSpacing:    1,
			ColumnSpacing: 1,
			MinSeparation: 1,
		},
		Search: Search{MinSimilarity: 0.6},
		Colors: map[string]string{},
	}
}

var hexColor = regexp.MustCompile(`^#[0-9a-fA-F]{6}$`)

// Validate checks the model for values no component can work with.
func (m *Model) Validate() error {
	var errs []error
	seen := make(map[string]struct{}, len(m.Projects))
	for _, p := range m.Projects {
		if p.Alias == "" {
			errs = append(errs, errors.New("project alias cannot be empty"))
		}
		if p.Path == "" {
			errs = append(errs, fmt.Errorf("project %q: path cannot be empty", p.Alias))
		}
		if _, dup := seen[p.Alias]; dup {
			errs = append(errs, fmt.Errorf("project %q is declared more than once", p.Alias))
		}
		seen[p.Alias] = struct{}{}
	}
	if len(m.Scan.Include) == 0 {
		errs = append(errs, errors.New("scan.include must list at least one pattern"))
	}
	switch strings.ToLower(m.Layout.Orientation) {
	case "", "top-down", "topdown", "tb", "left-right", "leftright", "lr":
	default:
		errs = append(errs, fmt.Errorf("layout.orientation %q: must be 'top-down' or 'left-right'", m.Layout.Orientation))
	}
	if m.Layout.RowSpacing < 0 || m.Layout.ColumnSpacing < 0 || m.Layout.MinSeparation < 0 {
		errs = append(errs, errors.New("layout spacing values cannot be negative"))
	}
	if m.Search.MinSimilarity < 0 || m.Search.MinSimilarity > 1 {
		errs = append(errs, fmt.Errorf("search.min_similarity %v: must be between 0 and 1", m.Search.MinSimilarity))
	}
	if m.Search.Limit < 0 {
		errs = append(errs, errors.New("search.limit cannot be negative"))
	}
	for _, k := range slices.Sorted(maps.Keys(m.Colors)) {
		if _, known := DefaultColors()[k]; !known {
			errs = append(errs, fmt.Errorf("colors: unknown key %q", k))
		} else if !hexColor.MatchString(m.Colors[k]) {
			errs = append(errs, fmt.Errorf("colors.%s: %q is not a #rrggbb value", k, m.Colors[k]))
		}
	}
	return errors.Join(errs...)
}

// ColorScheme returns the defaults overlaid with the configured colors.
func (m *Model) ColorScheme() map[string]string {
	scheme := DefaultColors()
	maps.Copy(scheme, m.Colors)
	return scheme
}

// ResolveProject picks the migration directory for a selector. The selector
// is matched against project aliases first; anything else is taken as a
// directory path. An empty selector picks the first configured project.
func (m *Model) ResolveProject(selector string) (Project, error) {
	if selector == "" {
		if len(m.Projects) == 0 {
			return Project{}, fmt.Errorf("%w: no project configured and no directory given", ErrNoProject)
		}
		return m.Projects[0], nil
	}
	for _, p := range m.Projects {
		if p.Alias == selector {
			return p, nil
		}
	}
	return Project{Alias: filepath.Base(filepath.Clean(selector)), Path: selector}, nil
}
