package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"strings"
	"time"

	"github.com/specialistvlad/revgraph/internal/config"
	"github.com/specialistvlad/revgraph/internal/layout"
	"github.com/specialistvlad/revgraph/internal/migration"
	"github.com/specialistvlad/revgraph/internal/report"
)

// ErrConfigExists is returned by Init when the target file is already there.
var ErrConfigExists = errors.New("config file already exists")

// Scan prints the laid-out graph of the selected project, any files that
// were skipped and the structural warnings.
func (a *App) Scan(ctx context.Context) error {
	ctx = a.context(ctx)
	res, _, err := a.load(ctx)
	if err != nil {
		return err
	}

	a.printer.Graph(res.Graph)
	a.printer.Problems(res.ParseErrors, res.Warnings)
	a.printer.Status(report.StatusOf(res.Graph, res.Graph.Len()))
	return nil
}

// Search prints the nodes matching q, best first. limit overrides the
// configured limit when positive.
func (a *App) Search(ctx context.Context, q string, limit int) error {
	ctx = a.context(ctx)
	if strings.TrimSpace(q) == "" {
		return fmt.Errorf("%w: search query cannot be empty", ErrInvalidInput)
	}
	if limit > 0 {
		a.config.Search.Limit = limit
	}
	_, engine, err := a.load(ctx)
	if err != nil {
		return err
	}

	results := engine.Rank(q)
	a.logger.Debug("Search finished.", "query", q, "results", len(results))
	a.printer.Results(results)
	return nil
}

// Filter prints the graph rebuilt from the revisions created between from
// and to, both inclusive. A date-only to covers the whole day. At least one
// bound is required.
func (a *App) Filter(ctx context.Context, from, to string) error {
	ctx = a.context(ctx)
	start, end, err := parseRange(from, to)
	if err != nil {
		return err
	}
	res, engine, err := a.load(ctx)
	if err != nil {
		return err
	}

	matched := engine.FilterByDate(start, end)
	if len(matched) == 0 {
		fmt.Fprintln(a.outW, "No migrations in the given date range.")
		return nil
	}
	ids := make([]string, len(matched))
	for i, n := range matched {
		ids[i] = n.Revision
	}

	sub, _ := res.Graph.Subgraph(ctx, ids)
	opts, err := scanOptions(a.config)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}
	sub = layout.Layout(ctx, sub, opts.Layout)

	a.printer.FilterLabel(strings.TrimSpace(from), strings.TrimSpace(to))
	a.printer.Graph(sub)
	a.printer.Status(report.StatusOf(sub, res.Graph.Len()))
	return nil
}

// Relations prints every transitive ancestor and descendant of id.
func (a *App) Relations(ctx context.Context, id string) error {
	ctx = a.context(ctx)
	_, engine, err := a.load(ctx)
	if err != nil {
		return err
	}
	rel, err := engine.Relationships(id)
	if err != nil {
		return err
	}
	a.printer.Relations(engine.Graph(), id, rel)
	return nil
}

// Show prints the details of one revision, followed by its file content when
// source is set. An unreadable file is reported in the output, not returned.
func (a *App) Show(ctx context.Context, id string, source bool) error {
	ctx = a.context(ctx)
	_, engine, err := a.load(ctx)
	if err != nil {
		return err
	}
	n, err := engine.Node(id)
	if err != nil {
		return err
	}
	a.printer.Details(engine.Graph(), n)
	if source {
		content, err := os.ReadFile(n.Path)
		if err != nil {
			a.logger.Warn("Cannot read migration source.", "revision", n.Revision, "path", n.Path, "error", err)
		}
		a.printer.Source(n.Path, content, err)
	}
	return nil
}

// Export writes the laid-out graph as a document. An empty output path
// writes to the app's output.
func (a *App) Export(ctx context.Context, format, output string) (err error) {
	ctx = a.context(ctx)
	f, err := report.ParseFormat(format)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}
	res, _, err := a.load(ctx)
	if err != nil {
		return err
	}

	var w io.Writer = a.outW
	if output != "" {
		file, err := os.Create(output)
		if err != nil {
			return fmt.Errorf("failed to create export file: %w", err)
		}
		defer func() {
			if cerr := file.Close(); cerr != nil && err == nil {
				err = fmt.Errorf("failed to close export file: %w", cerr)
			}
		}()
		w = file
	}

	if err := report.Export(w, res.Graph, f); err != nil {
		return err
	}
	a.logger.Info("Graph exported.", "format", string(f), "nodes", res.Graph.Len(), "output", output)
	return nil
}

// Init writes a configuration file with every setting at its default. An
// existing file is only replaced when force is set.
func (a *App) Init(ctx context.Context, path string, force bool, writer config.Writer) error {
	ctx = a.context(ctx)
	if path == "" {
		return fmt.Errorf("%w: config path cannot be empty", ErrInvalidInput)
	}
	if _, err := os.Stat(path); err == nil && !force {
		return fmt.Errorf("%w: %s (use --force to overwrite)", ErrConfigExists, path)
	} else if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("error accessing path %s: %w", path, err)
	}

	m := config.Default()
	m.Colors = config.DefaultColors()
	if a.cfg.Project != "" {
		p, err := m.ResolveProject(a.cfg.Project)
		if err != nil {
			return fmt.Errorf("%w: %w", ErrInvalidInput, err)
		}
		m.Projects = append(m.Projects, p)
	}

	if err := writer.Write(ctx, path, m); err != nil {
		return err
	}
	fmt.Fprintf(a.outW, "Wrote %s\n", path)
	return nil
}

// parseRange interprets the filter bounds. A bound given as a bare date
// stretches to the end of that day when it is the upper one.
func parseRange(from, to string) (*time.Time, *time.Time, error) {
	from, to = strings.TrimSpace(from), strings.TrimSpace(to)
	if from == "" && to == "" {
		return nil, nil, fmt.Errorf("%w: at least one of --from or --to is required", ErrInvalidInput)
	}

	var start, end *time.Time
	if from != "" {
		if start = migration.ParseDate(from); start == nil {
			return nil, nil, fmt.Errorf("%w: cannot parse --from date %q", ErrInvalidInput, from)
		}
	}
	if to != "" {
		if end = migration.ParseDate(to); end == nil {
			return nil, nil, fmt.Errorf("%w: cannot parse --to date %q", ErrInvalidInput, to)
		}
		if _, err := time.Parse(time.DateOnly, to); err == nil {
			eod := end.Add(24*time.Hour - time.Nanosecond)
			end = &eod
		}
	}
	return start, end, nil
}
