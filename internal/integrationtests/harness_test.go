package integrationtests

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/specialistvlad/revgraph/internal/cli"
	"github.com/specialistvlad/revgraph/internal/testutil"
	"github.com/stretchr/testify/require"
)

// HarnessResult holds the outcomes of an integration test run.
type HarnessResult struct {
	Root      string
	Output    string
	LogOutput string
	Err       error
}

// RunIntegrationTest writes files below a fresh root directory and runs the
// command line against it. "$ROOT" in args is replaced with that directory,
// and --config always points at $ROOT/revgraph.hcl.
func RunIntegrationTest(t *testing.T, files map[string]string, args ...string) *HarnessResult {
	t.Helper()

	root := t.TempDir()
	for name, content := range files {
		path := filepath.Join(root, name)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	}

	full := []string{"--config", filepath.Join(root, "revgraph.hcl"), "--log-level", "debug"}
	for _, a := range args {
		full = append(full, strings.ReplaceAll(a, "$ROOT", root))
	}

	out, logs := &testutil.SafeBuffer{}, &testutil.SafeBuffer{}
	err := cli.Execute(context.Background(), full, out, logs)

	t.Cleanup(func() {
		if os.Getenv("REVGRAPH_TEST_LOGS") == "true" {
			t.Logf("--- Full Log Output for %s ---\n%s", t.Name(), logs.String())
		}
	})

	return &HarnessResult{Root: root, Output: out.String(), LogOutput: logs.String(), Err: err}
}

// alembicTree is a versions directory as Alembic generates it, including the
// package marker, a bytecode cache and two branches joined by a merge.
func alembicTree() map[string]string {
	return map[string]string{
		"alembic/versions/__init__.py":                           "",
		"alembic/versions/__pycache__/1a2b_init.cpython-312.pyc": "\x00\x01binary",
		"alembic/versions/1a2b_init.py":                          revision("1a2b", "None", "Initial schema", "2024-03-01 09:00:00.000000"),
		"alembic/versions/2c3d_add_orders.py":                    revision("2c3d", `"1a2b"`, "Add orders", "2024-03-05 10:15:00.000000"),
		"alembic/versions/3e4f_add_invoices.py":                  revision("3e4f", `"1a2b"`, "Add invoices", "2024-03-07 16:45:00.000000"),
		"alembic/versions/4a5b_merge.py":                         revision("4a5b", "(\n    \"2c3d\",\n    \"3e4f\",  # invoices branch\n)", "Merge orders and invoices", "2024-03-10 08:00:00.000000"),
		"alembic/versions/5c6d_backfill_totals.py":               revision("5c6d", `"4a5b"`, "Backfill order totals", ""),
	}
}

func revision(id, down, message, date string) string {
	var b strings.Builder
	b.WriteString(`"""` + message + "\n\nRevision ID: " + id + "\n")
	if date != "" {
		b.WriteString("Create Date: " + date + "\n")
	}
	b.WriteString(`"""` + "\nfrom alembic import op\n\n")
	b.WriteString("revision = '" + id + "'\n")
	b.WriteString("down_revision = " + down + "\n")
	b.WriteString("branch_labels = None\ndepends_on = None\n")
	return b.String()
}

func with(files map[string]string, extra map[string]string) map[string]string {
	for k, v := range extra {
		files[k] = v
	}
	return files
}
