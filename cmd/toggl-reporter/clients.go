package main

import (
	"errors"
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	tg "toggl-reporter/internal/adapter/toggl"
	"toggl-reporter/internal/app"
)

func newClientsCmd(c *cli) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "clients",
		Short: "List clients with their ids",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			clients, err := app.NewTogglClient(c.cfg, c.log).Clients(cmd.Context())
			if err != nil {
				return err
			}
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "ID\tNAME\tWORKSPACE")
			for _, cl := range clients {
				fmt.Fprintf(tw, "%d\t%s\t%d\n", cl.ID, cl.Name, cl.WorkspaceID)
			}
			return tw.Flush()
		},
	}

	var (
		workspace int64
		notes     string
	)
	add := &cobra.Command{
		Use:   "add NAME",
		Short: "Create a client",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if workspace == 0 {
				workspace = c.cfg.Toggl.WorkspaceID
			}
			if workspace == 0 {
				return errors.New("--workspace or TOGGL_WORKSPACE_ID is required")
			}
			p := tg.NewClientParams{Name: args[0], WorkspaceID: workspace}
			if cmd.Flags().Changed("notes") {
				p.Notes = &notes
			}
			cl, err := app.NewTogglClient(c.cfg, c.log).CreateClient(cmd.Context(), p)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "created client %q with id %d\n", cl.Name, cl.ID)
			return nil
		},
	}
	add.Flags().Int64Var(&workspace, "workspace", 0, "Workspace id (default TOGGL_WORKSPACE_ID)")
	add.Flags().StringVar(&notes, "notes", "", "Client notes")

	rm := &cobra.Command{
		Use:   "rm ID",
		Short: "Delete a client",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ids, err := parseIDList("id", args[0])
			if err != nil || len(ids) != 1 {
				return fmt.Errorf("invalid client id %q", args[0])
			}
			status, err := app.NewTogglClient(c.cfg, c.log).DeleteClient(cmd.Context(), ids[0])
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "deleted client %d (HTTP %d)\n", ids[0], status)
			return nil
		},
	}
	cmd.AddCommand(add, rm)
	return cmd
}
