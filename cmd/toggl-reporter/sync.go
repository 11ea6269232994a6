package main

import (
	"context"
	"log/slog"
	"time"

	"github.com/spf13/cobra"

	"toggl-reporter/internal/app"
)

type syncOptions struct {
	once     bool
	daily    bool
	interval time.Duration
	from     string
	to       string
}

func newSyncCmd(c *cli) *cobra.Command {
	var o syncOptions
	cmd := &cobra.Command{
		Use:   "sync",
		Short: "Copy the detailed report into the configured sink",
		Long: `sync copies detailed report entries into MySQL, SQLite or Google Sheets
(SINK_DRIVER). By default it syncs the last 24 hours every --interval;
--once runs a single sync and --daily runs at local midnight (SYNC_TZ).`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSync(cmd.Context(), c, o)
		},
	}
	f := cmd.Flags()
	f.BoolVar(&o.once, "once", false, "Run a single sync and exit")
	f.BoolVar(&o.daily, "daily", false, "Run at local midnight each day (uses SYNC_TZ, default UTC)")
	f.DurationVar(&o.interval, "interval", 15*time.Minute, "Sync interval when not running once")
	f.StringVar(&o.from, "from", "", "RFC3339 or YYYY-MM-DD start (default: now - 24h)")
	f.StringVar(&o.to, "to", "", "RFC3339 or YYYY-MM-DD end, dates inclusive (default: now)")
	cmd.MarkFlagsMutuallyExclusive("once", "daily")
	return cmd
}

func runSync(ctx context.Context, c *cli, o syncOptions) error {
	logger := c.log
	fromTime, toTime, err := app.Window(o.from, o.to, time.Now().UTC())
	if err != nil {
		return err
	}

	application, err := app.New(ctx, logger, c.cfg)
	if err != nil {
		return err
	}
	defer application.Close()

	if o.once {
		if err := application.RunOnce(ctx, fromTime, toTime); err != nil {
			return err
		}
		logger.Info("sync completed")
		return nil
	}

	if o.daily {
		runDaily(ctx, c, application)
		return nil
	}

	ticker := time.NewTicker(o.interval)
	defer ticker.Stop()
	logger.Info("starting periodic sync", slog.Duration("interval", o.interval))
	if err := application.RunOnce(ctx, fromTime, toTime); err != nil {
		logger.Error("initial sync failed", slog.String("error", err.Error()))
	}
	for {
		select {
		case <-ctx.Done():
			logger.Info("shutting down")
			return nil
		case <-ticker.C:
			end := time.Now().UTC()
			start := end.Add(-24 * time.Hour)
			if err := application.RunOnce(ctx, start, end); err != nil {
				logger.Error("periodic sync failed", slog.String("error", err.Error()))
			}
		}
	}
}

// runDaily syncs the previous local day right after each midnight until ctx
// is done.
func runDaily(ctx context.Context, c *cli, application *app.App) {
	logger := c.log
	loc := c.cfg.Location()
	logger.Info("starting daily sync at midnight", slog.String("tz", loc.String()))
	for {
		next := app.NextMidnight(time.Now().In(loc))
		dur := time.Until(next)
		logger.Info("sleeping until next midnight", slog.Time("next", next), slog.Duration("sleep", dur))
		timer := time.NewTimer(dur)
		select {
		case <-ctx.Done():
			timer.Stop()
			logger.Info("shutting down")
			return
		case <-timer.C:
			// Window is [previous midnight, midnight) in local tz, expressed in UTC.
			endUTC := next.UTC()
			startUTC := next.AddDate(0, 0, -1).UTC()
			if err := application.RunOnce(ctx, startUTC, endUTC); err != nil {
				logger.Error("daily sync failed", slog.String("error", err.Error()))
			} else {
				logger.Info("daily sync completed", slog.Time("from", startUTC), slog.Time("to", endUTC))
			}
		}
	}
}
