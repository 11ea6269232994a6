package main

import (
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"toggl-reporter/internal/config"
)

// cli carries what every subcommand needs once the root has run.
type cli struct {
	cfgPath string
	verbose bool

	log *slog.Logger
	cfg config.Config
}

func newRootCmd() *cobra.Command {
	c := &cli{}
	root := &cobra.Command{
		Use:   "toggl-reporter",
		Short: "Toggl Track reports, syncs and bulk edits",
		Long: `toggl-reporter reads Toggl Track reports and time entries. It syncs the
detailed report into MySQL, SQLite or Google Sheets, prints console reports,
exports PDF/CSV reports and clones hours between accounts.

Configuration comes from an optional TOML file and TOGGL_* environment variables.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			level := slog.LevelInfo
			if c.verbose {
				level = slog.LevelDebug
			}
			c.log = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
			slog.SetDefault(c.log)

			cfg, err := config.Load(c.cfgPath)
			if err != nil {
				return err
			}
			c.cfg = cfg
			return nil
		},
	}
	root.PersistentFlags().StringVar(&c.cfgPath, "config", os.Getenv("TOGGL_CONFIG"), "TOML config file (env TOGGL_CONFIG)")
	root.PersistentFlags().BoolVarP(&c.verbose, "verbose", "v", false, "Enable verbose logging")

	root.AddCommand(
		newSyncCmd(c),
		newServeCmd(c),
		newReportCmd(c),
		newExportCmd(c),
		newClientsCmd(c),
		newCloneCmd(c),
		newTagsCmd(c),
		newTimerCmd(c),
	)
	return root
}
