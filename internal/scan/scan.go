// Package scan is the single entry point that turns a migration directory into
// a laid-out revision graph: enumerate files, parse each one, build the graph
// and compute the layout.
//
// Per-file failures are collected, never fatal. Only a directory that cannot
// be enumerated at all makes Scan return an error.
package scan

import (
	"context"
	"errors"
	"fmt"

	"github.com/specialistvlad/revgraph/internal/ctxlog"
	"github.com/specialistvlad/revgraph/internal/fsutil"
	"github.com/specialistvlad/revgraph/internal/graph"
	"github.com/specialistvlad/revgraph/internal/layout"
	"github.com/specialistvlad/revgraph/internal/migration"
)

// Options are passed explicitly to every scan; nothing is read from globals.
type Options struct {
	// Include and Exclude are doublestar patterns relative to the directory.
	Include []string
	Exclude []string
	Layout  layout.Options
}

// DefaultOptions scans the top level of a versions directory.
func DefaultOptions() Options {
	return Options{
		Include: fsutil.DefaultInclude,
		Exclude: fsutil.DefaultExclude,
		Layout:  layout.DefaultOptions(),
	}
}

// Result is everything one scan produced.
type Result struct {
	Dir         string
	Files       []string
	Graph       *graph.Graph
	ParseErrors []*migration.ParseError
	Warnings    []graph.Warning
}

// Scan builds a laid-out graph from the migration files in dir. Cancelling ctx
// stops parsing between files.
func Scan(ctx context.Context, dir string, opts Options) (*Result, error) {
	ctx = ctxlog.With(ctx, "dir", dir)
	logger := ctxlog.FromContext(ctx)

	if len(opts.Include) == 0 {
		opts.Include = fsutil.DefaultInclude
	}
	files, err := fsutil.FindFiles(dir, opts.Include, opts.Exclude)
	if err != nil {
		return nil, fmt.Errorf("failed to enumerate migration files: %w", err)
	}
	logger.Debug("Discovered migration files.", "count", len(files))

	records, parseErrors, err := ParseFiles(ctx, files)
	if err != nil {
		return nil, err
	}

	g, warnings := graph.Build(ctx, records)
	g = layout.Layout(ctx, g, opts.Layout)

	logger.Info("Scan complete.",
		"files", len(files), "revisions", g.Len(),
		"parse_errors", len(parseErrors), "warnings", len(warnings))
	return &Result{
		Dir:         dir,
		Files:       files,
		Graph:       g,
		ParseErrors: parseErrors,
		Warnings:    warnings,
	}, nil
}

// ParseFiles parses every path in order. Files that fail are logged and
// reported; the only error returned is the context's.
func ParseFiles(ctx context.Context, paths []string) ([]migration.Record, []*migration.ParseError, error) {
	logger := ctxlog.FromContext(ctx)
	var (
		records []migration.Record
		failed  []*migration.ParseError
	)
	for _, path := range paths {
		if err := ctx.Err(); err != nil {
			return nil, nil, fmt.Errorf("scan interrupted: %w", err)
		}
		rec, err := migration.ParseFile(path)
		if err != nil {
			var perr *migration.ParseError
			if !errors.As(err, &perr) {
				perr = &migration.ParseError{Path: path, Reason: "unreadable", Err: err}
			}
			logger.Warn("Skipping migration file.", "path", path, "reason", perr.Reason, "error", perr.Err)
			failed = append(failed, perr)
			continue
		}
		logger.Debug("Parsed migration file.", "path", path, "revision", rec.Revision, "parents", rec.Parents)
		records = append(records, rec)
	}
	return records, failed, nil
}
