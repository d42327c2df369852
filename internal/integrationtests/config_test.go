package integrationtests

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const projectsConfig = `
project "billing" {
  path = "alembic/versions"
}

project "empty" {
  path = "other/versions"
}

search {
  limit = 1
}

layout {
  orientation = "left-right"
}

colors = {
  node_head = "#ff0000"
}
`

func TestConfig_ProjectAliases(t *testing.T) {
	t.Parallel()

	files := with(alembicTree(), map[string]string{
		"revgraph.hcl":                projectsConfig,
		"other/versions/__init__.py": "",
	})

	t.Run("first project is the default", func(t *testing.T) {
		t.Parallel()
		result := RunIntegrationTest(t, files, "scan")
		require.NoError(t, result.Err)
		assert.Contains(t, result.Output, "Total: 5")
	})

	t.Run("alias selects a project", func(t *testing.T) {
		t.Parallel()
		result := RunIntegrationTest(t, files, "-p", "empty", "scan")
		require.NoError(t, result.Err)
		assert.Contains(t, result.Output, "No migrations.")
		assert.Contains(t, result.Output, "Total: 0")
	})

	t.Run("search limit applies", func(t *testing.T) {
		t.Parallel()
		result := RunIntegrationTest(t, files, "search", "add")
		require.NoError(t, result.Err)
		lines := strings.Split(strings.TrimSpace(result.Output), "\n")
		assert.Len(t, lines, 1)
	})

	t.Run("limit flag overrides the file", func(t *testing.T) {
		t.Parallel()
		result := RunIntegrationTest(t, files, "search", "--limit", "2", "add")
		require.NoError(t, result.Err)
		lines := strings.Split(strings.TrimSpace(result.Output), "\n")
		assert.Len(t, lines, 2)
	})

	t.Run("orientation reaches the export", func(t *testing.T) {
		t.Parallel()
		result := RunIntegrationTest(t, files, "export")
		require.NoError(t, result.Err)
		// Left-right puts depth on x: the head sits three levels to the right.
		assert.Contains(t, result.Output, "x: 3\n")
	})
}

func TestConfig_InvalidFileIsAUsageError(t *testing.T) {
	t.Parallel()

	files := with(alembicTree(), map[string]string{
		"revgraph.hcl": "colors = {\n  node_head = \"red\"\n}\n",
	})
	result := RunIntegrationTest(t, files, "scan", "$ROOT/alembic/versions")

	require.Error(t, result.Err)
	assert.Contains(t, result.Err.Error(), "not a #rrggbb value")
}

func TestInit_WritesLoadableFile(t *testing.T) {
	t.Parallel()

	result := RunIntegrationTest(t, alembicTree(), "-p", "$ROOT/alembic/versions", "init")
	require.NoError(t, result.Err)

	raw, err := os.ReadFile(filepath.Join(result.Root, "revgraph.hcl"))
	require.NoError(t, err)
	assert.Contains(t, string(raw), `project "versions"`)
	assert.Contains(t, string(raw), "node_selected")
}
