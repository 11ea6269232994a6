package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/spf13/cobra"

	tg "toggl-reporter/internal/adapter/toggl"
	"toggl-reporter/internal/app"
)

func newExportCmd(c *cli) *cobra.Command {
	var (
		ff     filterFlags
		kind   string
		format string
		out    string
	)
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Download a weekly, detailed or summary report as PDF or CSV",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := ff.filter(c.cfg, time.Now())
			if err != nil {
				return err
			}
			k := tg.ReportKind(kind)
			switch k {
			case tg.ReportWeekly, tg.ReportDetailed, tg.ReportSummary:
			default:
				return fmt.Errorf("--kind must be weekly, details or summary; got %q", kind)
			}

			var w io.Writer = cmd.OutOrStdout()
			if out != "" && out != "-" {
				file, err := os.Create(out)
				if err != nil {
					return err
				}
				defer file.Close()
				w = file
			}

			client := app.NewTogglClient(c.cfg, c.log)
			n, err := client.ExportReport(cmd.Context(), k, tg.ExportFormat(format), tg.QueryFromFilter(f), w)
			if err != nil {
				return err
			}
			c.log.Info("report exported", slog.String("kind", kind), slog.String("format", format), slog.Int64("bytes", n))
			return nil
		},
	}
	ff.register(cmd.Flags())
	cmd.Flags().StringVar(&kind, "kind", string(tg.ReportDetailed), "Report kind: weekly, details, summary")
	cmd.Flags().StringVar(&format, "format", string(tg.FormatCSV), "Export format: pdf, csv")
	cmd.Flags().StringVarP(&out, "output", "o", "", "Output file (default stdout)")
	return cmd
}
