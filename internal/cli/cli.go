package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/specialistvlad/revgraph/internal/app"
	"github.com/specialistvlad/revgraph/internal/hcl"
	"github.com/specialistvlad/revgraph/internal/query"
	"github.com/spf13/cobra"
)

// Process exit codes.
const (
	ExitRuntime  = 1
	ExitUsage    = 2
	ExitNotFound = 3
)

// DefaultConfigPath is where the configuration is looked up when --config is
// not given.
const DefaultConfigPath = "revgraph.hcl"

// ExitError is a custom error type that includes a specific exit code.
type ExitError struct {
	Code    int
	Message string
}

// Error implements the error interface for ExitError.
func (e *ExitError) Error() string {
	return e.Message
}

// usageError marks errors raised while parsing the command line.
type usageError struct {
	err error
}

func (e *usageError) Error() string { return e.err.Error() }
func (e *usageError) Unwrap() error { return e.err }

// globalFlags are the persistent flags shared by every command.
type globalFlags struct {
	configPath string
	project    string
	logLevel   string
	logFormat  string
}

// Execute runs the command line given by args. Failures are returned as an
// *ExitError carrying the process exit code.
func Execute(ctx context.Context, args []string, outW, errW io.Writer) error {
	root := NewRootCommand(outW, errW)
	root.SetArgs(args)
	return toExitError(root.ExecuteContext(ctx))
}

// NewRootCommand builds the full command tree writing reports to outW and
// logs to errW.
func NewRootCommand(outW, errW io.Writer) *cobra.Command {
	flags := &globalFlags{}

	root := &cobra.Command{
		Use:   "revgraph",
		Short: "Explore the revision graph of a migration directory",
		Long: `revgraph reads a directory of Alembic-style migration files, builds the
revision graph and lets you browse, search and export it.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          unknownCommand,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmd.Help()
		},
	}
	root.SetOut(outW)
	root.SetErr(errW)
	root.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return &usageError{err: err}
	})

	pf := root.PersistentFlags()
	pf.StringVar(&flags.configPath, "config", DefaultConfigPath, "Path to the HCL configuration file.")
	pf.StringVarP(&flags.project, "project", "p", "", "Project alias from the configuration, or a migration directory.")
	pf.StringVar(&flags.logLevel, "log-level", "warn", "Set the logging level. Options: 'debug', 'info', 'warn', 'error'.")
	pf.StringVar(&flags.logFormat, "log-format", "text", "Log output format. Options: 'text' or 'json'.")

	newApp := func() (*app.App, error) {
		cfg, err := app.NewConfig(app.Config{
			ConfigPath: flags.configPath,
			Project:    flags.project,
			LogFormat:  flags.logFormat,
			LogLevel:   flags.logLevel,
		})
		if err != nil {
			return nil, err
		}
		return app.NewApp(outW, errW, cfg, hcl.NewLoader())
	}

	root.AddCommand(
		newScanCommand(flags, newApp),
		newSearchCommand(newApp),
		newFilterCommand(newApp),
		newRelationsCommand(newApp),
		newShowCommand(newApp),
		newExportCommand(newApp),
		newInitCommand(flags, newApp),
	)
	return root
}

// args wraps a positional argument validator so its failures count as usage
// errors.
func args(v cobra.PositionalArgs) cobra.PositionalArgs {
	return func(cmd *cobra.Command, a []string) error {
		if err := v(cmd, a); err != nil {
			return &usageError{err: err}
		}
		return nil
	}
}

// unknownCommand rejects positional words on the root command, which only
// happen when no subcommand matched.
func unknownCommand(cmd *cobra.Command, a []string) error {
	if len(a) == 0 {
		return nil
	}
	msg := fmt.Sprintf("unknown command %q for %q", a[0], cmd.CommandPath())
	if suggestions := cmd.SuggestionsFor(a[0]); len(suggestions) > 0 {
		msg += "\n\nDid you mean this?\n\t" + strings.Join(suggestions, "\n\t")
	}
	return &usageError{err: errors.New(msg)}
}

func toExitError(err error) error {
	if err == nil {
		return nil
	}
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr
	}

	var ue *usageError
	switch {
	case errors.As(err, &ue), errors.Is(err, app.ErrInvalidInput):
		return &ExitError{Code: ExitUsage, Message: err.Error()}
	case errors.Is(err, query.ErrNotFound):
		return &ExitError{Code: ExitNotFound, Message: err.Error()}
	default:
		return &ExitError{Code: ExitRuntime, Message: err.Error()}
	}
}
