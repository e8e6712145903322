package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/helixir/paper-search-service/internal/pdf"
)

func newResolveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "resolve <paper-id> <paper-url>",
		Short: "Resolve a paper's landing page to a download link",
		Long: `resolve maps an arXiv abstract page to its PDF link. Any other URL is
returned unchanged. No network request is made.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			asJSON, _ := cmd.Flags().GetBool("json")

			dl, err := pdf.ResolveDownload(args[0], args[1])
			if err != nil {
				return err
			}

			if asJSON {
				return writeJSON(cmd.OutOrStdout(), dl)
			}
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "%s\n%s\n", dl.URL, dl.Filename)
			return err
		},
	}
	cmd.Flags().Bool("json", false, "output as JSON")
	return cmd
}
