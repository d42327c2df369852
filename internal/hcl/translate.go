package hcl

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/hashicorp/hcl/v2"
	"github.com/specialistvlad/revgraph/internal/config"
	"github.com/specialistvlad/revgraph/internal/ctxlog"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/convert"
)

// translate overlays the decoded file onto config.Default(). Relative project
// paths are resolved against baseDir, the directory holding the file.
func translate(ctx context.Context, root *fileRoot, baseDir string) (*config.Model, error) {
	logger := ctxlog.FromContext(ctx)
	m := config.Default()

	for _, p := range root.Projects {
		path := p.Path
		if path != "" && !filepath.IsAbs(path) {
			path = filepath.Join(baseDir, path)
		}
		m.Projects = append(m.Projects, config.Project{Alias: p.Alias, Path: path})
	}

	if s := root.Scan; s != nil {
		if s.Include != nil {
			m.Scan.Include = s.Include
		}
		if s.Exclude != nil {
			m.Scan.Exclude = s.Exclude
		}
	}

	if l := root.Layout; l != nil {
		setIf(&m.Layout.Orientation, l.Orientation)
		setIf(&m.Layout.RowSpacing, l.RowSpacing)
		setIf(&m.Layout.ColumnSpacing, l.ColumnSpacing)
		setIf(&m.Layout.MinSeparation, l.MinSeparation)
	}

	if s := root.Search; s != nil {
		setIf(&m.Search.MinSimilarity, s.MinSimilarity)
		setIf(&m.Search.Limit, s.Limit)
	}

	colors, err := decodeColors(root.Colors)
	if err != nil {
		return nil, err
	}
	if colors != nil {
		m.Colors = colors
	}

	logger.Debug("Configuration translated.", "projects", len(m.Projects), "colors", len(m.Colors))
	return m, nil
}

func setIf[T any](dst *T, v *T) {
	if v != nil {
		*dst = *v
	}
}

// decodeColors evaluates the free-form colors attribute as a map of strings.
// A missing attribute yields nil.
func decodeColors(expr hcl.Expression) (map[string]string, error) {
	if expr == nil {
		return nil, nil
	}
	val, diags := expr.Value(nil)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to evaluate colors: %w", diags)
	}
	if val.IsNull() {
		return nil, nil
	}

	val, err := convert.Convert(val, cty.Map(cty.String))
	if err != nil {
		return nil, fmt.Errorf("colors must be a map of strings: %w", err)
	}

	out := make(map[string]string, val.LengthInt())
	for it := val.ElementIterator(); it.Next(); {
		k, v := it.Element()
		if v.IsNull() {
			continue
		}
		out[k.AsString()] = v.AsString()
	}
	return out, nil
}
