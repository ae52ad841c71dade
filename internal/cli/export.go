package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/roach88/mimic/internal/archive"
	"github.com/roach88/mimic/internal/consistency"
	"github.com/roach88/mimic/internal/fixture"
)

// ExportOptions holds flags for the export command.
type ExportOptions struct {
	*RootOptions
	Output string
	Repair bool
}

// exportReport is the JSON shape of an export run.
type exportReport struct {
	Dataset  string `json:"dataset"`
	Archive  string `json:"archive"`
	Tables   int    `json:"tables"`
	Warnings int    `json:"warnings"`
}

// NewExportCommand creates the export command.
func NewExportCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ExportOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export a dataset to a SQLite archive",
		Long: `Load a dataset and export its tables, content index, and repair
warnings to a SQLite archive file for offline inspection.

Records are serialized as canonical JSON, so exporting the same
dataset twice produces identical archives.

Examples:
  mimic export --data ./data.yaml --out ./data.db
  mimic export --data ./data.yaml --out ./data.db --repair=false`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runExport(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Output, "out", "", "path to the archive file (required)")
	_ = cmd.MarkFlagRequired("out")
	cmd.Flags().BoolVar(&opts.Repair, "repair", true, "repair the dataset before exporting")

	return cmd
}

func runExport(opts *ExportOptions, cmd *cobra.Command) error {
	s, err := fixture.LoadStore(opts.Data)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to load dataset", err)
	}

	var warnings []consistency.Warning
	if opts.Repair {
		warnings = consistency.NewRepairer(s).Repair()
	}

	arc, err := archive.Open(opts.Output)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to open archive", err)
	}
	defer arc.Close()

	if err := arc.Export(context.Background(), s, warnings); err != nil {
		return WrapExitError(ExitCommandError, "failed to export", err)
	}

	report := exportReport{
		Dataset:  opts.Data,
		Archive:  opts.Output,
		Tables:   len(s.TableNames()),
		Warnings: len(warnings),
	}

	out := &OutputFormatter{Format: opts.Format, Writer: cmd.OutOrStdout(), Verbose: opts.Verbose}
	if opts.Format == "json" {
		return out.JSON(report)
	}
	out.Textf("exported %d table(s) to %s (%d repair warning(s))", report.Tables, report.Archive, report.Warnings)
	return nil
}
