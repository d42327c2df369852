package testutil

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

// Migration describes a revision file to generate.
type Migration struct {
	Revision string
	Parents  []string
	Message  string
	// Date is written verbatim into the Create Date header when set.
	Date string
	// File overrides the generated file name.
	File string
}

// Render produces the text of an Alembic-style revision file.
func (m Migration) Render() string {
	var down string
	switch len(m.Parents) {
	case 0:
		down = "None"
	case 1:
		down = fmt.Sprintf("%q", m.Parents[0])
	default:
		quoted := make([]string, len(m.Parents))
		for i, p := range m.Parents {
			quoted[i] = fmt.Sprintf("%q", p)
		}
		down = "(" + strings.Join(quoted, ", ") + ")"
	}

	var b strings.Builder
	fmt.Fprintf(&b, "\"\"\"%s\n\nRevision ID: %s\nRevises: %s\n", m.Message, m.Revision, strings.Join(m.Parents, ", "))
	if m.Date != "" {
		fmt.Fprintf(&b, "Create Date: %s\n", m.Date)
	}
	b.WriteString("\n\"\"\"\nfrom alembic import op\nimport sqlalchemy as sa\n\n")
	fmt.Fprintf(&b, "# revision identifiers, used by Alembic.\nrevision = %q\ndown_revision = %s\n", m.Revision, down)
	b.WriteString("branch_labels = None\ndepends_on = None\n\n\ndef upgrade():\n    pass\n\n\ndef downgrade():\n    pass\n")
	return b.String()
}

// FileName returns the file name the migration is written to.
func (m Migration) FileName() string {
	if m.File != "" {
		return m.File
	}
	slug := strings.ToLower(strings.Join(strings.Fields(m.Message), "_"))
	if slug == "" {
		return m.Revision + ".py"
	}
	return m.Revision + "_" + slug + ".py"
}

// WriteMigrations writes every migration into dir and returns their paths.
func WriteMigrations(t *testing.T, dir string, migrations ...Migration) []string {
	t.Helper()
	require.NoError(t, os.MkdirAll(dir, 0o755))
	paths := make([]string, 0, len(migrations))
	for _, m := range migrations {
		path := filepath.Join(dir, m.FileName())
		require.NoError(t, os.WriteFile(path, []byte(m.Render()), 0o600))
		paths = append(paths, path)
	}
	return paths
}

// WriteFile writes raw content into dir/name.
func WriteFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

// MergeScenario is the three-revision history r1 <- r2 <- r3 where r3 also
// revises r1.
func MergeScenario() []Migration {
	return []Migration{
		{Revision: "r1", Message: "Create users", Date: "2024-01-15 10:30:00.000000"},
		{Revision: "r2", Parents: []string{"r1"}, Message: "Create posts", Date: "2024-01-16 11:00:00.000000"},
		{Revision: "r3", Parents: []string{"r1", "r2"}, Message: "Merge heads", Date: "2024-01-17 12:00:00.000000"},
	}
}
