package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/specialistvlad/revgraph/internal/config"
	"github.com/specialistvlad/revgraph/internal/ctxlog"
	"github.com/specialistvlad/revgraph/internal/layout"
	"github.com/specialistvlad/revgraph/internal/query"
	"github.com/specialistvlad/revgraph/internal/report"
	"github.com/specialistvlad/revgraph/internal/scan"
)

// App encapsulates the application's dependencies and configuration.
type App struct {
	outW    io.Writer
	logger  *slog.Logger
	cfg     *Config
	config  *config.Model
	printer *report.Printer
}

// NewApp is the constructor for the main application. Reports go to outW and
// logs to logW, so exported documents on outW stay machine-readable.
func NewApp(outW, logW io.Writer, appConfig *Config, loader config.Loader) (*App, error) {
	logger := newLogger(appConfig.LogLevel, appConfig.LogFormat, logW)
	ctx := ctxlog.WithLogger(context.Background(), logger)
	logger.Debug("Logger configured successfully.")

	model, err := loader.Load(ctx, appConfig.ConfigPath)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to load configuration: %w", ErrInvalidInput, err)
	}
	logger.Debug("Configuration loaded.", "path", appConfig.ConfigPath, "projects", len(model.Projects))

	return &App{
		outW:    outW,
		logger:  logger,
		cfg:     appConfig,
		config:  model,
		printer: report.NewPrinter(outW, model.ColorScheme()),
	}, nil
}

// Config returns the loaded configuration model. This is primarily for testing.
func (a *App) Config() *config.Model {
	return a.config
}

func (a *App) context(ctx context.Context) context.Context {
	return ctxlog.WithLogger(ctx, a.logger)
}

// load scans the selected project and wraps the result in a query engine.
func (a *App) load(ctx context.Context) (*scan.Result, *query.Engine, error) {
	project, err := a.config.ResolveProject(a.cfg.Project)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}
	opts, err := scanOptions(a.config)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}

	a.logger.Debug("Scanning project.", "project", project.Alias, "path", project.Path)
	res, err := scan.Scan(ctx, project.Path, opts)
	if err != nil {
		return nil, nil, err
	}
	for _, w := range res.Warnings {
		a.logger.Debug("Graph warning.", "kind", w.Kind.String(), "detail", w.String())
	}
	return res, query.New(res.Graph, queryOptions(a.config)), nil
}

func scanOptions(m *config.Model) (scan.Options, error) {
	orientation, err := layout.ParseOrientation(m.Layout.Orientation)
	if err != nil {
		return scan.Options{}, err
	}
	return scan.Options{
		Include: m.Scan.Include,
		Exclude: m.Scan.Exclude,
		Layout: layout.Options{
			Orientation:   orientation,
			RowSpacing:    m.Layout.RowSpacing,
			ColumnSpacing: m.Layout.ColumnSpacing,
			MinSeparation: m.Layout.MinSeparation,
		},
	}, nil
}

func queryOptions(m *config.Model) query.Options {
	return query.Options{MinSimilarity: m.Search.MinSimilarity, Limit: m.Search.Limit}
}
