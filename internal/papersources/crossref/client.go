package crossref

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"regexp"
	"strconv"
	"strings"

	"github.com/helixir/paper-search-service/internal/domain"
	"github.com/helixir/paper-search-service/internal/papersources"
)

const (
	// DefaultBaseURL is the default Crossref API base URL.
	DefaultBaseURL = papersources.DefaultCrossrefBaseURL

	// DefaultMaxResults is the default maximum results per request.
	DefaultMaxResults = 10

	// sourceName is the human-readable name for this source.
	sourceName = "Crossref"

	doiResolver = "https://doi.org/"
)

// jatsTagRegex matches JATS/XML tags embedded in Crossref abstracts.
var jatsTagRegex = regexp.MustCompile(`<[^>]+>`)

// Config holds configuration for the Crossref client.
type Config struct {
	// BaseURL is the API base URL.
	BaseURL string

	// Mailto routes requests to Crossref's polite pool when set.
	Mailto string

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

// Client implements the papersources.PaperSource interface for Crossref.
type Client struct {
	config     Config
	httpClient *papersources.HTTPClient
}

// Ensure Client implements PaperSource interface.
var _ papersources.PaperSource = (*Client)(nil)

// New creates a new Crossref client that issues requests through httpClient.
func New(cfg Config, httpClient *papersources.HTTPClient) *Client {
	cfg.applyDefaults()

	return &Client{
		config:     cfg,
		httpClient: httpClient,
	}
}

// Search queries the works endpoint.
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

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("executing request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, papersources.StatusError(sourceName, resp)
	}

	var works WorksResponse
	if err := json.NewDecoder(io.LimitReader(resp.Body, papersources.MaxResponseSize)).Decode(&works); err != nil {
		return nil, fmt.Errorf("decoding response: %w", err)
	}

	papers := make([]domain.Paper, 0, len(works.Message.Items))
	for _, item := range works.Message.Items {
		if strings.TrimSpace(item.DOI) == "" {
			continue
		}
		papers = append(papers, workToPaper(item, params.Source.ID))
	}
	return papers, nil
}

// Kind returns the adapter kind.
func (c *Client) Kind() domain.SourceKind {
	return domain.KindCrossref
}

func (c *Client) buildSearchURL(params papersources.SearchParams) (string, error) {
	baseURL, err := url.Parse(c.config.BaseURL)
	if err != nil {
		return "", fmt.Errorf("parsing base URL: %w", err)
	}

	worksURL := baseURL.JoinPath("works")

	rows := params.MaxResults
	if rows <= 0 {
		rows = c.config.MaxResults
	}

	q := url.Values{}
	q.Set("query", params.Query)
	q.Set("rows", strconv.Itoa(rows))
	if c.config.Mailto != "" {
		q.Set("mailto", c.config.Mailto)
	}
	worksURL.RawQuery = q.Encode()

	return worksURL.String(), nil
}

func workToPaper(item Work, sourceID string) domain.Paper {
	doi := strings.TrimSpace(item.DOI)

	var title, journal string
	if len(item.Title) > 0 {
		title = item.Title[0]
	}
	if len(item.ContainerTitle) > 0 {
		journal = strings.TrimSpace(item.ContainerTitle[0])
	}

	authors := make([]string, 0, len(item.Author))
	for _, a := range item.Author {
		name := strings.TrimSpace(strings.TrimSpace(a.Given) + " " + strings.TrimSpace(a.Family))
		if name == "" {
			name = strings.TrimSpace(a.Name)
		}
		if name != "" {
			authors = append(authors, name)
		}
	}

	date := item.PublishedPrint
	if !date.hasYear() {
		date = item.PublishedOnline
	}
	var year *int
	var publishedDate *string
	if date.hasYear() {
		year = domain.IntPtr(date.DateParts[0][0])
		publishedDate = domain.StringPtr(date.format())
	}

	pageURL := strings.TrimSpace(item.URL)
	if pageURL == "" {
		pageURL = doiResolver + doi
	}

	keywords := make([]string, 0, len(item.Subject))
	for _, s := range item.Subject {
		if s = strings.TrimSpace(s); s != "" {
			keywords = append(keywords, s)
		}
	}

	paper := domain.Paper{
		ID:            "cr-" + strings.ReplaceAll(doi, "/", "-"),
		Title:         title,
		Authors:       authors,
		Abstract:      stripJATS(item.Abstract),
		Keywords:      keywords,
		Year:          year,
		Journal:       journal,
		Citations:     item.IsReferencedByCount,
		Source:        sourceID,
		URL:           pageURL,
		PublishedDate: publishedDate,
		PaperType:     paperType(item.Type),
		DOI:           doi,
	}
	paper.Normalize()
	return paper
}

func (d *DateInfo) hasYear() bool {
	return d != nil && len(d.DateParts) > 0 && len(d.DateParts[0]) > 0 && d.DateParts[0][0] > 0
}

// format renders the date-parts as YYYY, YYYY-MM or YYYY-MM-DD.
func (d *DateInfo) format() string {
	parts := d.DateParts[0]
	switch {
	case len(parts) >= 3:
		return fmt.Sprintf("%04d-%02d-%02d", parts[0], parts[1], parts[2])
	case len(parts) == 2:
		return fmt.Sprintf("%04d-%02d", parts[0], parts[1])
	default:
		return fmt.Sprintf("%04d", parts[0])
	}
}

func paperType(t string) string {
	switch t = strings.TrimSpace(t); t {
	case "", "journal-article":
		return domain.PaperTypeResearchArticle
	default:
		return strings.ReplaceAll(t, "-", " ")
	}
}

// stripJATS removes markup from a JATS abstract and collapses whitespace.
func stripJATS(s string) string {
	s = jatsTagRegex.ReplaceAllString(s, " ")
	return strings.Join(strings.Fields(s), " ")
}
