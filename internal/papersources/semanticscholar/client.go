package semanticscholar

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/helixir/paper-search-service/internal/domain"
	"github.com/helixir/paper-search-service/internal/papersources"
)

const (
	// DefaultBaseURL is the default Semantic Scholar API base URL.
	DefaultBaseURL = papersources.DefaultSemanticScholarBaseURL

	// DefaultMaxResults is the default maximum results per request.
	DefaultMaxResults = 10

	// apiKeyHeader carries the optional partner API key.
	apiKeyHeader = "x-api-key"

	// sourceName is the human-readable name for this source.
	sourceName = "Semantic Scholar"

	// paperFields is the list of fields to request from the API.
	paperFields = "paperId,title,authors,abstract,year,citationCount,journal,url,publicationDate"
)

// Config holds configuration for the Semantic Scholar client.
type Config struct {
	// BaseURL is the API base URL.
	BaseURL string

	// APIKey is optional; anonymous access has a lower shared quota.
	APIKey string

	// MaxResults is used when a search does not set one.
	MaxResults int
}

func (c *Config) applyDefaults() {
	if c.BaseURL == "" {
		c.BaseURL = DefaultBaseURL
	}
	if c.MaxResults == 0 {
		c.MaxResults = DefaultMaxResults
	}
}

// Client implements the papersources.PaperSource interface for Semantic Scholar.
type Client struct {
	config     Config
	httpClient *papersources.HTTPClient
}

// NewClient creates a new Semantic Scholar client that issues requests through httpClient.
func NewClient(cfg Config, httpClient *papersources.HTTPClient) *Client {
	cfg.applyDefaults()

	return &Client{
		config:     cfg,
		httpClient: httpClient,
	}
}

// Search queries the paper search endpoint.
func (c *Client) Search(ctx context.Context, params papersources.SearchParams) ([]domain.Paper, error) {
	searchURL, err := c.buildSearchURL(params)
	if err != nil {
		return nil, fmt.Errorf("building search URL: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, searchURL, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if c.config.APIKey != "" {
		req.Header.Set(apiKeyHeader, c.config.APIKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("executing request: %w", err)
	}
	defer resp.Body.Close()

	if err := handleErrorResponse(resp); err != nil {
		return nil, err
	}

	var searchResp SearchResponse
	if err := json.NewDecoder(io.LimitReader(resp.Body, papersources.MaxResponseSize)).Decode(&searchResp); err != nil {
		return nil, fmt.Errorf("decoding response: %w", err)
	}

	papers := make([]domain.Paper, 0, len(searchResp.Data))
	for _, result := range searchResp.Data {
		if result.PaperID == "" {
			continue
		}
		papers = append(papers, convertToPaper(result, params.Source.ID))
	}
	return papers, nil
}

// Kind returns the adapter kind.
func (c *Client) Kind() domain.SourceKind {
	return domain.KindSemanticScholar
}

func (c *Client) buildSearchURL(params papersources.SearchParams) (string, error) {
	baseURL, err := url.Parse(c.config.BaseURL)
	if err != nil {
		return "", fmt.Errorf("parsing base URL: %w", err)
	}

	searchURL := baseURL.JoinPath("paper", "search")

	limit := params.MaxResults
	if limit <= 0 {
		limit = c.config.MaxResults
	}

	q := url.Values{}
	q.Set("query", params.Query)
	q.Set("limit", strconv.Itoa(limit))
	q.Set("fields", paperFields)
	searchURL.RawQuery = q.Encode()

	return searchURL.String(), nil
}

// handleErrorResponse checks for API errors and returns appropriate error types.
func handleErrorResponse(resp *http.Response) error {
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return nil
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return domain.NewExternalAPIError(sourceName, resp.StatusCode, "failed to read error response", err)
	}

	var errResp ErrorResponse
	if err := json.Unmarshal(body, &errResp); err == nil {
		message := errResp.Error
		if message == "" {
			message = errResp.Message
		}
		if message == "" {
			message = string(body)
		}
		return domain.NewExternalAPIError(sourceName, resp.StatusCode, message, nil)
	}

	return domain.NewExternalAPIError(sourceName, resp.StatusCode, string(body), nil)
}

func convertToPaper(result PaperResult, sourceID string) domain.Paper {
	authors := make([]string, 0, len(result.Authors))
	for _, a := range result.Authors {
		if name := strings.TrimSpace(a.Name); name != "" {
			authors = append(authors, name)
		}
	}

	var abstract, journal string
	if result.Abstract != nil {
		abstract = *result.Abstract
	}
	if result.Journal != nil {
		journal = strings.TrimSpace(result.Journal.Name)
	}

	citations := 0
	if result.CitationCount != nil {
		citations = *result.CitationCount
	}

	var publishedDate *string
	if result.PublicationDate != nil {
		publishedDate = domain.StringPtr(strings.TrimSpace(*result.PublicationDate))
	}

	paper := domain.Paper{
		ID:            "ss-" + result.PaperID,
		Title:         result.Title,
		Authors:       authors,
		Abstract:      abstract,
		Keywords:      []string{},
		Year:          result.Year,
		Journal:       journal,
		Citations:     citations,
		Source:        sourceID,
		URL:           result.URL,
		PublishedDate: publishedDate,
		PaperType:     domain.PaperTypeResearchArticle,
	}
	paper.Normalize()
	return paper
}
