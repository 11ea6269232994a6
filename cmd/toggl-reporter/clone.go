package main

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	tg "toggl-reporter/internal/adapter/toggl"
	"toggl-reporter/internal/app"
	"toggl-reporter/internal/usecase"
)

func newCloneCmd(c *cli) *cobra.Command {
	var (
		ff        filterFlags
		user      int64
		toProject int64
	)
	cmd := &cobra.Command{
		Use:   "clone",
		Short: "Copy one user's hours into a project of another account",
		Long: `clone reads the detailed report of --user in the source workspace and
creates one entry per record in --to-project, using the account of
TOGGL_CLONE_API_TOKEN. Durations are rounded to a tenth of an hour and
entries start at the full hour of the source record.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if c.cfg.Clone.APIToken == "" {
				return errors.New("TOGGL_CLONE_API_TOKEN is required")
			}
			f, err := ff.filter(c.cfg, time.Now())
			if err != nil {
				return err
			}
			target := tg.NewClient(
				tg.NewTokenSession(c.cfg.Clone.APIToken).WithUserAgent(c.cfg.Toggl.UserAgent),
				c.log,
				tg.WithEndpoints(tg.NewEndpoints(c.cfg.Toggl.BaseURL)),
			)
			uc := &usecase.CloneUseCase{
				Log:    c.log,
				Source: app.NewTogglClient(c.cfg, c.log),
				Target: target,
			}
			res, err := uc.Run(cmd.Context(), usecase.CloneRequest{
				SourceWorkspaceID: f.WorkspaceID,
				UserID:            user,
				Since:             f.Since,
				Until:             f.Until,
				TargetProjectID:   toProject,
			})
			fmt.Fprintf(cmd.OutOrStdout(), "created %d entries, skipped %d\n", res.Created, res.Skipped)
			return err
		},
	}
	ff.register(cmd.Flags())
	cmd.Flags().Int64Var(&user, "user", 0, "Source user id")
	cmd.Flags().Int64Var(&toProject, "to-project", 0, "Target project id")
	_ = cmd.MarkFlagRequired("to-project")
	return cmd
}
