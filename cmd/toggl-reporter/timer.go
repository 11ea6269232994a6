package main

import (
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"toggl-reporter/internal/app"
	"toggl-reporter/internal/domain"
)

func newTimerCmd(c *cli) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "timer",
		Short: "Start, stop or show the running time entry",
	}

	var project, task int64
	start := &cobra.Command{
		Use:   "start DESCRIPTION",
		Short: "Start a time entry",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := app.NewTogglClient(c.cfg, c.log).StartTimeEntry(cmd.Context(), args[0], project, task)
			if err != nil {
				return err
			}
			printEntry(cmd.OutOrStdout(), e)
			return nil
		},
	}
	start.Flags().Int64Var(&project, "project", 0, "Project id")
	start.Flags().Int64Var(&task, "task", 0, "Task id")

	stop := &cobra.Command{
		Use:   "stop",
		Short: "Stop the running time entry",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			client := app.NewTogglClient(c.cfg, c.log)
			cur, running, err := client.CurrentTimeEntry(cmd.Context())
			if err != nil {
				return err
			}
			if !running {
				fmt.Fprintln(cmd.OutOrStdout(), "no timer running")
				return nil
			}
			e, err := client.StopTimeEntry(cmd.Context(), cur.ID)
			if err != nil {
				return err
			}
			printEntry(cmd.OutOrStdout(), e)
			return nil
		},
	}

	current := &cobra.Command{
		Use:   "current",
		Short: "Show the running time entry",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			e, running, err := app.NewTogglClient(c.cfg, c.log).CurrentTimeEntry(cmd.Context())
			if err != nil {
				return err
			}
			if !running {
				fmt.Fprintln(cmd.OutOrStdout(), "no timer running")
				return nil
			}
			printEntry(cmd.OutOrStdout(), e)
			return nil
		},
	}

	cmd.AddCommand(start, stop, current)
	return cmd
}

func printEntry(w io.Writer, e domain.TimeEntry) {
	dur := time.Duration(e.DurationSec) * time.Second
	if e.Running() {
		dur = time.Since(e.Start).Truncate(time.Second)
	}
	fmt.Fprintf(w, "%d\t%s\t%s\t%s\n", e.ID, e.Start.Local().Format(time.DateTime), dur, e.Description)
}
