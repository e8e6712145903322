package main

import (
	"github.com/spf13/cobra"
)

func newSourcesCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sources",
		Short: "List the specialized databases and their configured status",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			asJSON, _ := cmd.Flags().GetBool("json")
			entries := a.registry.All()

			if asJSON {
				return writeJSON(cmd.OutOrStdout(), map[string]any{
					"sources":       entries,
					"total":         len(entries),
					"enabled_count": a.registry.EnabledCount(),
				})
			}

			rows := make([][]string, len(entries))
			for i, e := range entries {
				rows[i] = []string{e.ID, e.Name, e.Status(), e.BaseURL}
			}
			return writeTable(cmd.OutOrStdout(), []string{"ID", "NAME", "STATUS", "BASE URL"}, rows)
		},
	}
	cmd.Flags().Bool("json", false, "output as JSON")
	return cmd
}
