package hcl

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/hashicorp/hcl/v2/hclwrite"
	"github.com/specialistvlad/revgraph/internal/config"
	"github.com/specialistvlad/revgraph/internal/ctxlog"
	"github.com/zclconf/go-cty/cty"
)

// Writer is the HCL-specific implementation of the config.Writer interface.
type Writer struct{}

// NewWriter creates a new HCL configuration writer.
func NewWriter() *Writer {
	return &Writer{}
}

// Write renders m and stores it at path, creating parent directories.
func (w *Writer) Write(ctx context.Context, path string, m *config.Model) error {
	logger := ctxlog.FromContext(ctx)

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create directory for %s: %w", path, err)
		}
	}
	if err := os.WriteFile(path, Encode(m), 0o644); err != nil {
		return fmt.Errorf("failed to write config file %s: %w", path, err)
	}

	logger.Debug("Configuration written.", "path", path)
	return nil
}

// Encode renders m as HCL source that Loader reads back into an equal model.
func Encode(m *config.Model) []byte {
	f := hclwrite.NewEmptyFile()
	body := f.Body()

	for _, p := range m.Projects {
		block := body.AppendNewBlock("project", []string{p.Alias})
		block.Body().SetAttributeValue("path", cty.StringVal(p.Path))
		body.AppendNewline()
	}

	scan := body.AppendNewBlock("scan", nil).Body()
	scan.SetAttributeValue("include", stringList(m.Scan.Include))
	scan.SetAttributeValue("exclude", stringList(m.Scan.Exclude))
	body.AppendNewline()

	layout := body.AppendNewBlock("layout", nil).Body()
	layout.SetAttributeValue("orientation", cty.StringVal(m.Layout.Orientation))
	layout.SetAttributeValue("row_spacing", cty.NumberFloatVal(m.Layout.RowSpacing))
	layout.SetAttributeValue("column_spacing", cty.NumberFloatVal(m.Layout.ColumnSpacing))
	layout.SetAttributeValue("min_separation", cty.NumberFloatVal(m.Layout.MinSeparation))
	body.AppendNewline()

	search := body.AppendNewBlock("search", nil).Body()
	search.SetAttributeValue("min_similarity", cty.NumberFloatVal(m.Search.MinSimilarity))
	search.SetAttributeValue("limit", cty.NumberIntVal(int64(m.Search.Limit)))

	if len(m.Colors) > 0 {
		body.AppendNewline()
		colors := make(map[string]cty.Value, len(m.Colors))
		for k, v := range m.Colors {
			colors[k] = cty.StringVal(v)
		}
		body.SetAttributeValue("colors", cty.MapVal(colors))
	}

	return hclwrite.Format(f.Bytes())
}

func stringList(items []string) cty.Value {
	if len(items) == 0 {
		return cty.ListValEmpty(cty.String)
	}
	vals := make([]cty.Value, len(items))
	for i, s := range items {
		vals[i] = cty.StringVal(s)
	}
	return cty.ListVal(vals)
}
