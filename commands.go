package main

import (
	"fmt"
	"os"
	"time"

	"frtutracker/config"
	"frtutracker/logger"
	"frtutracker/services"
	"frtutracker/utils"

	"github.com/spf13/cobra"
)

type exportOptions struct {
	*rootOptions
	Format string
	Out    string
}

func newExportCommand(rootOpts *rootOptions) *cobra.Command {
	opts := &exportOptions{rootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write the history log to a CSV or PDF file",
		Long: `Export the stored history log without starting the server.

Examples:
  frtutracker export
  frtutracker export --format pdf --out report.pdf`,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runExport(cmd, opts)
		},
	}

	cmd.Flags().StringVar(&opts.Format, "format", "csv", "export format (csv|pdf)")
	cmd.Flags().StringVar(&opts.Out, "out", "", "output file (default frtu_logs_<date>.<format>)")

	return cmd
}

func runExport(cmd *cobra.Command, opts *exportOptions) error {
	if opts.Format != "csv" && opts.Format != "pdf" {
		return fmt.Errorf("invalid format %q: must be csv or pdf", opts.Format)
	}

	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return err
	}
	ctx := cmd.Context()
	db, store, err := setup(ctx, cfg)
	if err != nil {
		return err
	}
	defer db.Close()
	defer logger.Close()

	logs, err := store.Logs(ctx)
	if err != nil {
		return err
	}

	exporter := services.NewReportExporter(cfg.Report.PDFFontPath)
	var (
		body []byte
		ok   bool
	)
	if opts.Format == "pdf" {
		body, ok, err = exporter.ExportPDF(logs)
		if err != nil {
			return err
		}
	} else {
		body, ok = exporter.ExportCSV(logs)
	}
	if !ok {
		return fmt.Errorf("no logs to export")
	}

	out := opts.Out
	if out == "" {
		out = services.ReportFileName(time.Now(), opts.Format)
	}
	if err := os.WriteFile(out, body, 0o644); err != nil {
		return err
	}
	logger.Info("Exported %d entries to %s", len(logs), out)
	fmt.Fprintln(cmd.OutOrStdout(), out)
	return nil
}

func newHashPasscodeCommand() *cobra.Command {
	return &cobra.Command{
		Use:          "hash-passcode <passcode>",
		Short:        "Print the bcrypt hash to use as FRTU_PASSCODE_HASH",
		Args:         cobra.ExactArgs(1),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			hash, err := utils.HashPasscode(args[0])
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), hash)
			return nil
		},
	}
}
