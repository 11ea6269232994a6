package main

import (
	"time"

	"github.com/spf13/cobra"

	"toggl-reporter/internal/app"
	"toggl-reporter/internal/usecase"
)

func newReportCmd(c *cli) *cobra.Command {
	var (
		ff         filterFlags
		addTags    []string
		removeTags []string
	)
	cmd := &cobra.Command{
		Use:   "report",
		Short: "Print the detailed report grouped by client and project",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := ff.filter(c.cfg, time.Now())
			if err != nil {
				return err
			}
			client := app.NewTogglClient(c.cfg, c.log)
			uc := &usecase.ReportUseCase{Log: c.log, Toggl: client, Tags: client}
			return uc.Run(cmd.Context(), usecase.ReportRequest{
				Filter:     f,
				AddTags:    addTags,
				RemoveTags: removeTags,
			}, cmd.OutOrStdout())
		},
	}
	ff.register(cmd.Flags())
	cmd.Flags().StringSliceVar(&addTags, "add-tags", nil, "Add these tags to every reported entry")
	cmd.Flags().StringSliceVar(&removeTags, "remove-tags", nil, "Remove these tags from every reported entry")
	return cmd
}
