package pubmed

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
	// DefaultBaseURL is the default E-utilities base URL.
	DefaultBaseURL = papersources.DefaultPubMedBaseURL

	// DefaultMaxResults is the default maximum results per request.
	DefaultMaxResults = 10

	// MaxResultsLimit is the maximum retmax accepted by esearch.
	MaxResultsLimit = 10000

	// articleBaseURL is the public landing page prefix for a PMID.
	articleBaseURL = "https://pubmed.ncbi.nlm.nih.gov/"

	sourceName = "PubMed"
)

// Config holds configuration for the PubMed client.
type Config struct {
	// BaseURL is the E-utilities base URL.
	BaseURL string

	// APIKey raises the NCBI quota from 3 to 10 requests per second.
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

// Client implements the papersources.PaperSource interface for PubMed.
type Client struct {
	config     Config
	httpClient *papersources.HTTPClient
}

// Ensure Client implements PaperSource interface.
var _ papersources.PaperSource = (*Client)(nil)

// New creates a new PubMed client that issues requests through httpClient.
func New(cfg Config, httpClient *papersources.HTTPClient) *Client {
	cfg.applyDefaults()
	return &Client{
		config:     cfg,
		httpClient: httpClient,
	}
}

// Search resolves the query to PMIDs and fetches their summaries. When the
// query matches nothing the summary call is skipped.
func (c *Client) Search(ctx context.Context, params papersources.SearchParams) ([]domain.Paper, error) {
	ids, err := c.esearch(ctx, params)
	if err != nil {
		return nil, fmt.Errorf("esearch failed: %w", err)
	}

	if len(ids) == 0 {
		return []domain.Paper{}, nil
	}

	summaries, err := c.esummary(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("esummary failed: %w", err)
	}

	papers := make([]domain.Paper, 0, len(summaries))
	for _, doc := range summaries {
		papers = append(papers, docSumToPaper(doc, params.Source.ID))
	}
	return papers, nil
}

// Kind returns the adapter kind.
func (c *Client) Kind() domain.SourceKind {
	return domain.KindPubMed
}

// esearch returns the PMIDs matching the query.
func (c *Client) esearch(ctx context.Context, params papersources.SearchParams) ([]string, error) {
	maxResults := params.MaxResults
	if maxResults <= 0 {
		maxResults = c.config.MaxResults
	}
	if maxResults > MaxResultsLimit {
		maxResults = MaxResultsLimit
	}

	q := url.Values{}
	q.Set("db", "pubmed")
	q.Set("term", params.Query)
	q.Set("retmax", strconv.Itoa(maxResults))
	q.Set("retmode", "json")

	var resp ESearchResponse
	if err := c.getJSON(ctx, "esearch.fcgi", q, &resp); err != nil {
		return nil, err
	}

	ids := make([]string, 0, len(resp.Result.IDList))
	for _, id := range resp.Result.IDList {
		if id = strings.TrimSpace(id); id != "" {
			ids = append(ids, id)
		}
	}
	return ids, nil
}

// esummary returns the document summaries for ids in the order NCBI lists them.
func (c *Client) esummary(ctx context.Context, ids []string) ([]DocSum, error) {
	q := url.Values{}
	q.Set("db", "pubmed")
	q.Set("id", strings.Join(ids, ","))
	q.Set("retmode", "json")

	var resp ESummaryResponse
	if err := c.getJSON(ctx, "esummary.fcgi", q, &resp); err != nil {
		return nil, err
	}

	order := ids
	if raw, ok := resp.Result["uids"]; ok {
		var uids []string
		if err := json.Unmarshal(raw, &uids); err != nil {
			return nil, fmt.Errorf("failed to parse uids: %w", err)
		}
		order = uids
	}

	docs := make([]DocSum, 0, len(order))
	for _, uid := range order {
		raw, ok := resp.Result[uid]
		if !ok {
			continue
		}
		var doc DocSum
		if err := json.Unmarshal(raw, &doc); err != nil {
			return nil, fmt.Errorf("failed to parse summary %s: %w", uid, err)
		}
		if doc.Error != "" {
			continue
		}
		if doc.UID == "" {
			doc.UID = uid
		}
		docs = append(docs, doc)
	}
	return docs, nil
}

func (c *Client) getJSON(ctx context.Context, endpoint string, q url.Values, out any) error {
	u, err := url.Parse(strings.TrimRight(c.config.BaseURL, "/") + "/" + endpoint)
	if err != nil {
		return fmt.Errorf("invalid base URL: %w", err)
	}

	if c.config.APIKey != "" {
		q.Set("api_key", c.config.APIKey)
	}
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return papersources.StatusError(sourceName, resp)
	}

	if err := json.NewDecoder(io.LimitReader(resp.Body, papersources.MaxResponseSize)).Decode(out); err != nil {
		return fmt.Errorf("failed to parse JSON response: %w", err)
	}
	return nil
}

func docSumToPaper(doc DocSum, sourceID string) domain.Paper {
	authors := make([]string, 0, len(doc.Authors))
	for _, a := range doc.Authors {
		if name := strings.TrimSpace(a.Name); name != "" {
			authors = append(authors, name)
		}
	}

	var year *int
	if pd := strings.TrimSpace(doc.PubDate); len(pd) >= 4 {
		if y, err := strconv.Atoi(pd[:4]); err == nil {
			year = domain.IntPtr(y)
		}
	}

	journal := strings.TrimSpace(doc.FullJournalName)
	if journal == "" {
		journal = strings.TrimSpace(doc.Source)
	}

	paperType := domain.PaperTypeResearchArticle
	if len(doc.PubType) > 0 && strings.TrimSpace(doc.PubType[0]) != "" {
		paperType = strings.ToLower(strings.TrimSpace(doc.PubType[0]))
	}

	paper := domain.Paper{
		ID:            "pm-" + doc.UID,
		Title:         strings.TrimSpace(doc.Title),
		Authors:       authors,
		Abstract:      domain.AbstractUnavailable,
		Keywords:      []string{},
		Year:          year,
		Journal:       journal,
		Citations:     0,
		Source:        sourceID,
		URL:           articleBaseURL + doc.UID + "/",
		PublishedDate: sortPubDate(doc.SortPubDate),
		PaperType:     paperType,
	}
	paper.Normalize()
	return paper
}

// sortPubDate converts "2023/03/15 00:00" to "2023-03-15".
func sortPubDate(s string) *string {
	s = strings.TrimSpace(s)
	if len(s) < 10 {
		return nil
	}
	date := strings.ReplaceAll(s[:10], "/", "-")
	if _, err := strconv.Atoi(date[:4]); err != nil {
		return nil
	}
	return domain.StringPtr(date)
}
