package hcl

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/specialistvlad/revgraph/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "revgraph.hcl")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoad_MissingFileYieldsDefaults(t *testing.T) {
	t.Parallel()

	m, err := NewLoader().Load(context.Background(), filepath.Join(t.TempDir(), "nope.hcl"))
	require.NoError(t, err)
	assert.Equal(t, config.Default(), m)

	m, err = NewLoader().Load(context.Background(), "")
	require.NoError(t, err)
	assert.Equal(t, config.Default(), m)
}

func TestLoad_FullFile(t *testing.T) {
	t.Parallel()

	// --- Arrange ---
	path := writeConfig(t, `
project "api" {
  path = "alembic/versions"
}

project "billing" {
  path = "/srv/billing/versions"
}

scan {
  include = ["*.py", "*.pyi"]
}

layout {
  orientation = "left-right"
  row_spacing = 120
}

search {
  min_similarity = 0.75
  limit          = 10
}

colors = {
  node_head = "#000000"
}
`)

	// --- Act ---
	m, err := NewLoader().Load(context.Background(), path)

	// --- Assert ---
	require.NoError(t, err)
	require.Len(t, m.Projects, 2)
	assert.Equal(t, config.Project{Alias: "api", Path: filepath.Join(filepath.Dir(path), "alembic/versions")}, m.Projects[0])
	assert.Equal(t, "/srv/billing/versions", m.Projects[1].Path)

	assert.Equal(t, []string{"*.py", "*.pyi"}, m.Scan.Include)
	assert.Equal(t, config.Default().Scan.Exclude, m.Scan.Exclude, "unset attributes keep their default")

	assert.Equal(t, "left-right", m.Layout.Orientation)
	assert.Equal(t, 120.0, m.Layout.RowSpacing)
	assert.Equal(t, 1.0, m.Layout.ColumnSpacing)

	assert.Equal(t, 0.75, m.Search.MinSimilarity)
	assert.Equal(t, 10, m.Search.Limit)

	assert.Equal(t, map[string]string{"node_head": "#000000"}, m.Colors)
}

func TestLoad_Errors(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name    string
		content string
		wantErr string
	}{
		{
			name:    "syntax error",
			content: "scan {\n  include = [\n",
			wantErr: "failed to parse HCL file",
		},
		{
			name:    "wrong attribute type",
			content: "search {\n  limit = \"ten\"\n}\n",
			wantErr: "failed to decode HCL file",
		},
		{
			name:    "colors not a map",
			content: "colors = [\"#000000\"]\n",
			wantErr: "colors must be a map of strings",
		},
		{
			name:    "invalid value",
			content: "layout {\n  orientation = \"diagonal\"\n}\n",
			wantErr: "invalid configuration",
		},
		{
			name:    "project without label",
			content: "project {\n  path = \"x\"\n}\n",
			wantErr: "failed to decode HCL file",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			_, err := NewLoader().Load(context.Background(), writeConfig(t, tc.content))
			assert.ErrorContains(t, err, tc.wantErr)
		})
	}
}

func TestWriter_RoundTrip(t *testing.T) {
	t.Parallel()

	// --- Arrange ---
	m := config.Default()
	m.Projects = []config.Project{{Alias: "api", Path: "/srv/api/versions"}}
	m.Layout.Orientation = "left-right"
	m.Layout.MinSeparation = 2.5
	m.Search.Limit = 25
	m.Colors = config.DefaultColors()
	path := filepath.Join(t.TempDir(), "nested", "revgraph.hcl")

	// --- Act ---
	require.NoError(t, NewWriter().Write(context.Background(), path, m))
	loaded, err := NewLoader().Load(context.Background(), path)

	// --- Assert ---
	require.NoError(t, err)
	assert.Equal(t, m, loaded)

	src, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(src), `project "api" {`)
	assert.Contains(t, string(src), "min_separation = 2.5")
}
