// Package search coordinates federated paper searches across caller-selected
// sources.
//
// A Coordinator validates the request, dispatches one adapter call per
// source and merges the results into a single list ordered by year and
// citation count. A failing source never fails the search: its error is
// logged and counted, and it contributes no papers.
package search

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/helixir/paper-search-service/internal/domain"
	"github.com/helixir/paper-search-service/internal/observability"
	"github.com/helixir/paper-search-service/internal/papersources"
	"github.com/helixir/paper-search-service/internal/papersources/arxiv"
	"github.com/helixir/paper-search-service/internal/papersources/crossref"
	"github.com/helixir/paper-search-service/internal/papersources/custom"
	"github.com/helixir/paper-search-service/internal/papersources/pubmed"
	"github.com/helixir/paper-search-service/internal/papersources/semanticscholar"
)

const (
	// DefaultMaxResults is used when a request does not set max_results.
	DefaultMaxResults = 10

	// DefaultMaxResultsCap bounds max_results per source.
	DefaultMaxResultsCap = 50

	// DefaultProgressPacing is the delay after each source in a progress search.
	DefaultProgressPacing = 500 * time.Millisecond
)

// Config holds coordinator settings.
type Config struct {
	// HTTPClient configures the pooled client created for each search.
	HTTPClient papersources.HTTPClientConfig

	// DefaultMaxResults replaces a zero max_results.
	DefaultMaxResults int

	// MaxResultsCap clamps larger max_results values.
	MaxResultsCap int

	// ProgressPacing is the delay after each source in SearchWithProgress.
	// Zero disables pacing.
	ProgressPacing time.Duration

	// SemanticScholarAPIKey is sent as x-api-key when set.
	SemanticScholarAPIKey string

	// PubMedAPIKey is sent as api_key when set.
	PubMedAPIKey string

	// CrossrefMailto identifies the caller to Crossref's polite pool.
	CrossrefMailto string
}

// DefaultConfig returns the default coordinator configuration.
func DefaultConfig() Config {
	return Config{
		DefaultMaxResults: DefaultMaxResults,
		MaxResultsCap:     DefaultMaxResultsCap,
		ProgressPacing:    DefaultProgressPacing,
	}
}

// SourceFactory builds the adapter for one source kind around the HTTP client
// of the current search.
type SourceFactory func(kind domain.SourceKind, httpClient *papersources.HTTPClient) papersources.PaperSource

// Option configures a Coordinator.
type Option func(*Coordinator)

// WithSourceFactory replaces the adapter factory.
func WithSourceFactory(factory SourceFactory) Option {
	return func(c *Coordinator) {
		c.newSource = factory
	}
}

// WithIDGenerator replaces the search id generator.
func WithIDGenerator(gen func() string) Option {
	return func(c *Coordinator) {
		c.newID = gen
	}
}

// Coordinator runs federated searches. It holds no per-search state and is
// safe for concurrent use.
type Coordinator struct {
	config    Config
	registry  *papersources.Registry
	limits    *papersources.RateLimits
	metrics   *observability.Metrics
	logger    zerolog.Logger
	validate  *validator.Validate
	newSource SourceFactory
	newID     func() string
}

// NewCoordinator creates a Coordinator.
// The metrics parameter may be nil (metrics recording will be skipped).
// The limits parameter may be nil (no rate limiting).
func NewCoordinator(
	cfg Config,
	registry *papersources.Registry,
	limits *papersources.RateLimits,
	metrics *observability.Metrics,
	logger zerolog.Logger,
	opts ...Option,
) *Coordinator {
	if cfg.DefaultMaxResults <= 0 {
		cfg.DefaultMaxResults = DefaultMaxResults
	}
	if cfg.MaxResultsCap <= 0 {
		cfg.MaxResultsCap = DefaultMaxResultsCap
	}
	if cfg.ProgressPacing < 0 {
		cfg.ProgressPacing = 0
	}
	if registry == nil {
		registry = papersources.NewRegistry(papersources.DefaultCatalogEntries())
	}

	c := &Coordinator{
		config:   cfg,
		registry: registry,
		limits:   limits,
		metrics:  metrics,
		logger:   logger.With().Str("component", "search").Logger(),
		validate: validator.New(),
		newID:    func() string { return uuid.New().String() },
	}
	c.newSource = c.defaultSource

	for _, opt := range opts {
		opt(c)
	}
	return c
}

// plan is a validated search request.
type plan struct {
	searchID   string
	query      string
	sources    []domain.SourceDescriptor
	maxResults int
}

// prepare validates the request. Errors are domain.ValidationError values.
func (c *Coordinator) prepare(query string, sources []domain.SourceDescriptor, maxResults int) (plan, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return plan{}, domain.NewValidationError("query", "query is required")
	}
	if len(sources) == 0 {
		return plan{}, domain.NewValidationError("sources", "no sources selected")
	}

	switch {
	case maxResults < 0:
		return plan{}, domain.NewValidationError("max_results", "max_results must not be negative")
	case maxResults == 0:
		maxResults = c.config.DefaultMaxResults
	case maxResults > c.config.MaxResultsCap:
		maxResults = c.config.MaxResultsCap
	}

	valid := validSources(c.validate, sources, c.logger)
	if len(valid) == 0 {
		return plan{}, domain.NewValidationError("sources", "no valid sources")
	}

	return plan{
		searchID:   c.newID(),
		query:      query,
		sources:    valid,
		maxResults: maxResults,
	}, nil
}

// sourceResult is the outcome of one adapter call in a fan-out.
type sourceResult struct {
	index  int
	papers []domain.Paper
}

// FederatedSearch queries every valid source concurrently and returns the
// merged papers sorted by year and citations, both descending. Duplicates
// across sources are kept. Only request validation fails the call; if every
// source fails the result is an empty slice.
func (c *Coordinator) FederatedSearch(ctx context.Context, query string, sources []domain.SourceDescriptor, maxResults int) ([]domain.Paper, error) {
	p, err := c.prepare(query, sources, maxResults)
	if err != nil {
		return nil, err
	}

	logger := observability.WithSearchContext(c.logger, p.searchID, p.query, len(p.sources))
	ctx = observability.WithSearchID(ctx, p.searchID)
	start := time.Now()
	logger.Info().Int("max_results", p.maxResults).Msg("starting federated search")

	httpClient := papersources.NewHTTPClient(c.config.HTTPClient)
	defer httpClient.Close()

	resultChan := make(chan sourceResult, len(p.sources))
	var wg sync.WaitGroup

	for i, src := range p.sources {
		wg.Add(1)
		go func(index int, src domain.SourceDescriptor) {
			defer wg.Done()

			papers, _ := c.searchSource(ctx, httpClient, p, src, logger)
			resultChan <- sourceResult{index: index, papers: papers}
		}(i, src)
	}

	go func() {
		wg.Wait()
		close(resultChan)
	}()

	bySource := make([][]domain.Paper, len(p.sources))
	for result := range resultChan {
		bySource[result.index] = result.papers
	}

	papers := make([]domain.Paper, 0)
	for _, ps := range bySource {
		papers = append(papers, ps...)
	}
	SortPapers(papers)

	duration := time.Since(start)
	logger.Info().
		Int("total_papers", len(papers)).
		Dur("duration", duration).
		Msg("federated search completed")

	if c.metrics != nil {
		c.metrics.RecordFederatedSearch(observability.ModeSync, len(papers), duration.Seconds())
	}

	return papers, nil
}

// searchSource runs one adapter call. A returned error or a panic is logged
// and counted; the papers are then an empty slice and the error is returned
// for callers that report it.
func (c *Coordinator) searchSource(
	ctx context.Context,
	httpClient *papersources.HTTPClient,
	p plan,
	src domain.SourceDescriptor,
	searchLogger zerolog.Logger,
) (papers []domain.Paper, err error) {
	kind := src.Kind()
	logger := observability.WithSourceContext(searchLogger, src.ID, string(kind))
	start := time.Now()

	if c.metrics != nil {
		c.metrics.RecordSearchStarted(string(kind))
	}

	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("source %s panicked: %v", src.ID, r)
		}

		duration := time.Since(start)
		if err != nil {
			papers = []domain.Paper{}
			logger.Warn().Err(err).Dur("duration", duration).Msg("source search failed")
			if c.metrics != nil {
				c.metrics.RecordSearchFailed(string(kind), duration.Seconds())
			}
			return
		}

		if papers == nil {
			papers = []domain.Paper{}
		}
		logger.Info().
			Int("paper_count", len(papers)).
			Dur("duration", duration).
			Msg("source search completed")
		if c.metrics != nil {
			c.metrics.RecordSearchCompleted(string(kind), len(papers), duration.Seconds())
		}
	}()

	source := c.newSource(kind, httpClient.WithRateLimiter(c.limits.For(kind)))
	return source.Search(ctx, papersources.SearchParams{
		Query:      p.query,
		MaxResults: p.maxResults,
		Source:     src,
	})
}

// defaultSource builds the adapter for kind, pointed at the catalog base URL.
func (c *Coordinator) defaultSource(kind domain.SourceKind, httpClient *papersources.HTTPClient) papersources.PaperSource {
	baseURL := c.registry.BaseURL(kind)

	switch kind {
	case domain.KindArXiv:
		return arxiv.New(arxiv.Config{BaseURL: baseURL}, httpClient)
	case domain.KindSemanticScholar:
		return semanticscholar.NewClient(semanticscholar.Config{
			BaseURL: baseURL,
			APIKey:  c.config.SemanticScholarAPIKey,
		}, httpClient)
	case domain.KindCrossref:
		return crossref.New(crossref.Config{
			BaseURL: baseURL,
			Mailto:  c.config.CrossrefMailto,
		}, httpClient)
	case domain.KindPubMed:
		return pubmed.New(pubmed.Config{
			BaseURL: baseURL,
			APIKey:  c.config.PubMedAPIKey,
		}, httpClient)
	default:
		return custom.New()
	}
}

// Registry returns the source catalog used by the coordinator.
func (c *Coordinator) Registry() *papersources.Registry {
	return c.registry
}
