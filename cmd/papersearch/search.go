package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/helixir/paper-search-service/internal/domain"
	"github.com/helixir/paper-search-service/internal/papersources"
)

func newSearchCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "search <query>",
		Short: "Run a federated search across the selected sources",
		Long: `search sends the query to every selected source concurrently, merges the
results and prints them ranked by year and citation count.

Sources are given by id. arxiv, semantic_scholar, crossref and pubmed reach the
real databases; any other id yields placeholder records marked synthetic.

With --progress the sources are searched one after another and each step is
reported on stderr as it happens.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			query := strings.Join(args, " ")
			ids, _ := cmd.Flags().GetStringSlice("source")
			maxResults, _ := cmd.Flags().GetInt("max-results")
			progress, _ := cmd.Flags().GetBool("progress")
			asJSON, _ := cmd.Flags().GetBool("json")

			sources := descriptorsFor(a.registry, ids)

			var (
				papers []domain.Paper
				err    error
			)
			if progress {
				papers, err = a.searchWithProgress(cmd, query, sources, maxResults)
			} else {
				papers, err = a.coordinator.FederatedSearch(cmd.Context(), query, sources, maxResults)
			}
			if err != nil {
				return err
			}

			if asJSON {
				return writeJSON(cmd.OutOrStdout(), map[string]any{"papers": papers})
			}
			return writePapers(cmd.OutOrStdout(), papers)
		},
	}

	defaultIDs := make([]string, len(domain.SpecializedKinds))
	for i, k := range domain.SpecializedKinds {
		defaultIDs[i] = string(k)
	}
	cmd.Flags().StringSliceP("source", "s", defaultIDs, "source ids to search (repeatable or comma-separated)")
	cmd.Flags().IntP("max-results", "n", 0, "maximum results per source (0 uses the configured default)")
	cmd.Flags().Bool("progress", false, "search sources sequentially and report progress on stderr")
	cmd.Flags().Bool("json", false, "output results as JSON")
	return cmd
}

// searchWithProgress drains a progress stream, echoing each step to stderr,
// and returns the papers of the final event.
func (a *app) searchWithProgress(cmd *cobra.Command, query string, sources []domain.SourceDescriptor, maxResults int) ([]domain.Paper, error) {
	events, err := a.coordinator.SearchWithProgress(cmd.Context(), query, sources, maxResults)
	if err != nil {
		return nil, err
	}

	var papers []domain.Paper
	for event := range events {
		switch event.Type {
		case domain.EventProgress:
			fmt.Fprintf(cmd.ErrOrStderr(), "[%5.1f%%] %s\n", event.Percentage, event.Message)
		case domain.EventComplete:
			fmt.Fprintf(cmd.ErrOrStderr(), "[%5.1f%%] %s\n", event.Percentage, event.Message)
			papers = event.Papers
		case domain.EventError:
			return nil, fmt.Errorf("%s", event.Message)
		}
	}
	if papers == nil {
		papers = []domain.Paper{}
	}
	return papers, nil
}

// descriptorsFor turns source ids into descriptors. Catalog ids take their
// name and URL from the catalog; other ids describe themselves.
func descriptorsFor(registry *papersources.Registry, ids []string) []domain.SourceDescriptor {
	out := make([]domain.SourceDescriptor, 0, len(ids))
	for _, id := range ids {
		id = strings.TrimSpace(id)
		if id == "" {
			continue
		}
		if entry, ok := registry.Get(domain.KindForID(id)); ok && entry.ID == id {
			out = append(out, domain.SourceDescriptor{
				ID:      entry.ID,
				Name:    entry.Name,
				URL:     entry.BaseURL,
				Enabled: entry.Enabled,
			})
			continue
		}
		out = append(out, domain.SourceDescriptor{ID: id, Name: id, URL: id, Enabled: true})
	}
	return out
}

func writePapers(w io.Writer, papers []domain.Paper) error {
	if len(papers) == 0 {
		_, err := fmt.Fprintln(w, "No papers found.")
		return err
	}

	rows := make([][]string, len(papers))
	for i, p := range papers {
		year := "-"
		if p.Year != nil {
			year = fmt.Sprintf("%d", *p.Year)
		}
		title := p.Title
		if p.Synthetic {
			title += " (synthetic)"
		}
		rows[i] = []string{
			fmt.Sprintf("%d", i+1),
			year,
			fmt.Sprintf("%d", p.Citations),
			p.Source,
			truncate(title, maxTitleWidth),
			p.URL,
		}
	}
	if err := writeTable(w, []string{"#", "YEAR", "CITED", "SOURCE", "TITLE", "URL"}, rows); err != nil {
		return err
	}
	_, err := fmt.Fprintf(w, "\n%d papers\n", len(papers))
	return err
}
