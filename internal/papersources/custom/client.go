// Package custom provides the fallback adapter for sources without a
// dedicated integration.
//
// The adapter does not query anything. It synthesizes two placeholder papers
// from the query and the caller's descriptor so that an unrecognized source
// still contributes a visible, well-formed result. Every record it produces is
// marked Synthetic and typed "synthetic"; none of it is real bibliographic data.
package custom

import (
	"context"
	"fmt"
	"strings"

	"github.com/helixir/paper-search-service/internal/domain"
	"github.com/helixir/paper-search-service/internal/papersources"
)

// PlaceholderCount is the number of papers produced per search.
const PlaceholderCount = 2

// Client implements papersources.PaperSource with synthetic results.
type Client struct{}

// Ensure Client implements PaperSource interface.
var _ papersources.PaperSource = (*Client)(nil)

// New creates a new custom adapter.
func New() *Client {
	return &Client{}
}

// Search returns PlaceholderCount synthetic papers, or fewer if MaxResults is
// smaller. It only fails when ctx is already done.
func (c *Client) Search(ctx context.Context, params papersources.SearchParams) ([]domain.Paper, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	n := PlaceholderCount
	if params.MaxResults > 0 && params.MaxResults < n {
		n = params.MaxResults
	}

	src := params.Source
	baseURL := strings.TrimRight(src.URL, "/")
	papers := make([]domain.Paper, 0, n)
	for i := 0; i < n; i++ {
		ordinal := i + 1
		paper := domain.Paper{
			ID:    fmt.Sprintf("%s-%d", src.ID, ordinal),
			Title: fmt.Sprintf("%s research in %s (%d)", params.Query, src.Name, ordinal),
			Authors: []string{
				fmt.Sprintf("%s Researcher %c", src.Name, 'A'+i),
				fmt.Sprintf("%s Scholar %c", src.Name, 'C'+i),
			},
			Abstract:      fmt.Sprintf("Placeholder record %d for %q from %s. No data was retrieved from this source.", ordinal, params.Query, src.Name),
			Keywords:      []string{params.Query, src.Name, "research", fmt.Sprintf("topic %d", ordinal)},
			Year:          domain.IntPtr(2023 - i),
			Journal:       src.Name + " Journal",
			Citations:     50 - i*10,
			Source:        src.ID,
			URL:           fmt.Sprintf("%s/paper/%d", baseURL, ordinal),
			PublishedDate: domain.StringPtr(fmt.Sprintf("2023-%02d-15", 6-i)),
			PaperType:     domain.PaperTypeSynthetic,
			Synthetic:     true,
		}
		paper.Normalize()
		papers = append(papers, paper)
	}
	return papers, nil
}

// Kind returns the adapter kind.
func (c *Client) Kind() domain.SourceKind {
	return domain.KindCustom
}
