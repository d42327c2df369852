package cli

import (
	"strings"

	"github.com/specialistvlad/revgraph/internal/app"
	"github.com/specialistvlad/revgraph/internal/hcl"
	"github.com/spf13/cobra"
)

type appFactory func() (*app.App, error)

func newScanCommand(flags *globalFlags, newApp appFactory) *cobra.Command {
	return &cobra.Command{
		Use:   "scan [DIR]",
		Short: "Scan a migration directory and print its revision graph",
		Long: `Scan parses every migration file of the selected project, or of DIR when
given, and prints the graph level by level with skipped files and warnings.`,
		Args: args(cobra.MaximumNArgs(1)),
		RunE: func(cmd *cobra.Command, a []string) error {
			if len(a) == 1 {
				flags.project = a[0]
			}
			application, err := newApp()
			if err != nil {
				return err
			}
			return application.Scan(cmd.Context())
		},
	}
}

func newSearchCommand(newApp appFactory) *cobra.Command {
	var limit int
	cmd := &cobra.Command{
		Use:   "search QUERY...",
		Short: "Find revisions by id, message or branch label",
		Args:  args(cobra.MinimumNArgs(1)),
		RunE: func(cmd *cobra.Command, a []string) error {
			application, err := newApp()
			if err != nil {
				return err
			}
			return application.Search(cmd.Context(), strings.Join(a, " "), limit)
		},
	}
	cmd.Flags().IntVarP(&limit, "limit", "n", 0, "Maximum number of results. 0 uses the configured limit.")
	return cmd
}

func newFilterCommand(newApp appFactory) *cobra.Command {
	var from, to string
	cmd := &cobra.Command{
		Use:   "filter --from DATE --to DATE",
		Short: "Print the graph of revisions created in a date range",
		Long: `Filter keeps the revisions whose Create Date lies within the range, both
bounds inclusive, and rebuilds the graph from them. A bare date given to
--to covers that whole day. Revisions without a date are never kept.`,
		Args: args(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, _ []string) error {
			application, err := newApp()
			if err != nil {
				return err
			}
			return application.Filter(cmd.Context(), from, to)
		},
	}
	cmd.Flags().StringVar(&from, "from", "", "Earliest create date, e.g. 2024-01-15.")
	cmd.Flags().StringVar(&to, "to", "", "Latest create date, e.g. 2024-01-31.")
	return cmd
}

func newRelationsCommand(newApp appFactory) *cobra.Command {
	return &cobra.Command{
		Use:   "relations REVISION",
		Short: "List every ancestor and descendant of a revision",
		Args:  args(cobra.ExactArgs(1)),
		RunE: func(cmd *cobra.Command, a []string) error {
			application, err := newApp()
			if err != nil {
				return err
			}
			return application.Relations(cmd.Context(), a[0])
		},
	}
}

func newShowCommand(newApp appFactory) *cobra.Command {
	var source bool
	cmd := &cobra.Command{
		Use:   "show REVISION",
		Short: "Print the details of a revision",
		Args:  args(cobra.ExactArgs(1)),
		RunE: func(cmd *cobra.Command, a []string) error {
			application, err := newApp()
			if err != nil {
				return err
			}
			return application.Show(cmd.Context(), a[0], source)
		},
	}
	cmd.Flags().BoolVar(&source, "source", false, "Also print the migration file.")
	return cmd
}

func newExportCommand(newApp appFactory) *cobra.Command {
	var format, output string
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export the laid-out graph as YAML or JSON",
		Args:  args(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, _ []string) error {
			application, err := newApp()
			if err != nil {
				return err
			}
			return application.Export(cmd.Context(), format, output)
		},
	}
	cmd.Flags().StringVarP(&format, "format", "f", "yaml", "Document format. Options: 'yaml' or 'json'.")
	cmd.Flags().StringVarP(&output, "output", "o", "", "Write to this file instead of standard output.")
	return cmd
}

func newInitCommand(flags *globalFlags, newApp appFactory) *cobra.Command {
	var force bool
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write a configuration file with the default settings",
		Long: `Init writes the file named by --config with every setting at its default.
When --project is given it is recorded as the first project.`,
		Args: args(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, _ []string) error {
			application, err := newApp()
			if err != nil {
				return err
			}
			return application.Init(cmd.Context(), flags.configPath, force, hcl.NewWriter())
		},
	}
	cmd.Flags().BoolVar(&force, "force", false, "Overwrite an existing file.")
	return cmd
}
