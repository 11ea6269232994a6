package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"toggl-reporter/internal/app"
)

func newTagsCmd(c *cli) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tags",
		Short: "Add or remove tags on time entries",
	}
	for _, action := range []string{"add", "remove"} {
		var ids string
		sub := &cobra.Command{
			Use:   action + " TAG...",
			Short: strings.ToUpper(action[:1]) + action[1:] + " tags on the entries given by --ids",
			Args:  cobra.MinimumNArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				entryIDs, err := parseIDList("ids", ids)
				if err != nil {
					return err
				}
				client := app.NewTogglClient(c.cfg, c.log)
				edit := client.AddTags
				if action == "remove" {
					edit = client.RemoveTags
				}
				entries, err := edit(cmd.Context(), entryIDs, args)
				if err != nil {
					return err
				}
				for _, e := range entries {
					fmt.Fprintf(cmd.OutOrStdout(), "%d\t%s\n", e.ID, strings.Join(e.Tags, ","))
				}
				return nil
			},
		}
		sub.Flags().StringVar(&ids, "ids", "", "Comma separated time entry ids")
		_ = sub.MarkFlagRequired("ids")
		cmd.AddCommand(sub)
	}
	return cmd
}
