// Package papersources provides the adapters that query academic paper databases.
//
// Every database (arXiv, Semantic Scholar, Crossref, PubMed) and the synthetic
// custom fallback implements the PaperSource interface, so the search
// coordinator can fan a query out across caller-selected sources through a
// single API. Adapters are constructed per search around the HTTPClient that
// search owns:
//
//	client := papersources.NewHTTPClient(papersources.HTTPClientConfig{})
//	defer client.Close()
//	source := arxiv.New(arxiv.Config{}, client)
//	papers, err := source.Search(ctx, papersources.SearchParams{
//		Query:      "graph neural networks",
//		MaxResults: 10,
//		Source:     descriptor,
//	})
//
// Adapters report failures as errors. Callers decide how a failure is
// surfaced; the coordinator turns it into an empty result for that source.
package papersources

import (
	"context"

	"github.com/helixir/paper-search-service/internal/domain"
)

// MaxResponseSize bounds how much of an upstream response body is decoded.
const MaxResponseSize = 10 << 20

// SearchParams defines the parameters for one adapter call.
type SearchParams struct {
	// Query is the free-text search query.
	Query string

	// MaxResults caps the number of papers requested from the source.
	MaxResults int

	// Source is the caller-supplied descriptor the results are attributed to.
	// Every returned paper carries Source.ID.
	Source domain.SourceDescriptor
}

// PaperSource defines the interface that all adapters implement.
type PaperSource interface {
	// Search queries the database and returns normalized papers.
	// Implementations must respect context cancellation and must not retry.
	Search(ctx context.Context, params SearchParams) ([]domain.Paper, error)

	// Kind returns the adapter kind.
	Kind() domain.SourceKind
}
