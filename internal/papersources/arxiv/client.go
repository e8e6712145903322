package arxiv

import (
	"context"
	"encoding/xml"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/helixir/paper-search-service/internal/domain"
	"github.com/helixir/paper-search-service/internal/papersources"
	"github.com/helixir/paper-search-service/internal/pdf"
)

const (
	// DefaultBaseURL is the default arXiv API base URL.
	DefaultBaseURL = papersources.DefaultArXivBaseURL

	// DefaultMaxResults is the default maximum results per request.
	DefaultMaxResults = 10

	// defaultJournal is reported when an entry has no journal reference.
	defaultJournal = "arXiv"

	// sourceName is the human-readable name for this source.
	sourceName = "arXiv"
)

// arxivIDRegex extracts the arXiv ID from the full URL.
// Matches patterns like "http://arxiv.org/abs/2301.12345v1" or "http://arxiv.org/abs/hep-th/9901001v1".
var arxivIDRegex = regexp.MustCompile(`arxiv\.org/abs/(.+?)(?:v\d+)?$`)

// subjectPrefixes are the category prefixes accepted as keywords when an
// entry has no primary category.
var subjectPrefixes = []string{"cs.", "math.", "physics.", "q-bio.", "q-fin.", "stat."}

// Config holds configuration for the arXiv client.
type Config struct {
	// BaseURL is the arXiv API base URL.
	BaseURL string

	// MaxResults is used when a search does not set one.
	MaxResults int
}

// applyDefaults sets default values for unset configuration fields.
func (c *Config) applyDefaults() {
	if c.BaseURL == "" {
		c.BaseURL = DefaultBaseURL
	}
	if c.MaxResults == 0 {
		c.MaxResults = DefaultMaxResults
	}
}

// Client implements the papersources.PaperSource interface for arXiv.
type Client struct {
	config     Config
	httpClient *papersources.HTTPClient
	now        func() time.Time
}

// Ensure Client implements PaperSource interface.
var _ papersources.PaperSource = (*Client)(nil)

// New creates a new arXiv client that issues requests through httpClient.
func New(cfg Config, httpClient *papersources.HTTPClient) *Client {
	cfg.applyDefaults()

	return &Client{
		config:     cfg,
		httpClient: httpClient,
		now:        time.Now,
	}
}

// Search queries arXiv for papers matching the given parameters.
func (c *Client) Search(ctx context.Context, params papersources.SearchParams) ([]domain.Paper, error) {
	searchURL, err := c.buildSearchURL(params)
	if err != nil {
		return nil, fmt.Errorf("building search URL: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, searchURL, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("executing request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, papersources.StatusError(sourceName, resp)
	}

	var feed Feed
	if err := xml.NewDecoder(io.LimitReader(resp.Body, papersources.MaxResponseSize)).Decode(&feed); err != nil {
		return nil, fmt.Errorf("decoding response: %w", err)
	}

	papers := make([]domain.Paper, 0, len(feed.Entries))
	for i := range feed.Entries {
		paper, ok := c.entryToPaper(&feed.Entries[i], params.Source.ID)
		if ok {
			papers = append(papers, paper)
		}
	}

	return papers, nil
}

// Kind returns the adapter kind.
func (c *Client) Kind() domain.SourceKind {
	return domain.KindArXiv
}

// buildSearchURL constructs the arXiv search API URL.
func (c *Client) buildSearchURL(params papersources.SearchParams) (string, error) {
	baseURL, err := url.Parse(c.config.BaseURL)
	if err != nil {
		return "", fmt.Errorf("parsing base URL: %w", err)
	}

	baseURL.Path = strings.TrimRight(baseURL.Path, "/") + "/query"

	maxResults := params.MaxResults
	if maxResults <= 0 {
		maxResults = c.config.MaxResults
	}

	query := url.Values{}
	query.Set("search_query", "all:"+params.Query)
	query.Set("start", "0")
	query.Set("max_results", strconv.Itoa(maxResults))

	baseURL.RawQuery = query.Encode()
	return baseURL.String(), nil
}

// entryToPaper converts an arXiv Atom entry to a domain Paper. Entries
// without a recognizable abstract URL are skipped.
func (c *Client) entryToPaper(entry *Entry, sourceID string) (domain.Paper, bool) {
	arxivID := extractArXivID(strings.TrimSpace(entry.ID))
	if arxivID == "" {
		return domain.Paper{}, false
	}

	authors := make([]string, 0, len(entry.Authors))
	for _, a := range entry.Authors {
		if name := normalizeWhitespace(a.Name); name != "" {
			authors = append(authors, name)
		}
	}

	published := strings.TrimSpace(entry.Published)
	year := c.now().Year()
	if len(published) >= 4 {
		if y, err := strconv.Atoi(published[:4]); err == nil {
			year = y
		}
	}
	var publishedDate *string
	if len(published) >= 10 {
		publishedDate = domain.StringPtr(published[:10])
	}

	journal := normalizeWhitespace(entry.JournalRef)
	if journal == "" {
		journal = defaultJournal
	}

	paper := domain.Paper{
		ID:            "arxiv-" + arxivID,
		Title:         normalizeWhitespace(entry.Title),
		Authors:       authors,
		Abstract:      normalizeWhitespace(entry.Summary),
		Keywords:      keywords(entry),
		Year:          domain.IntPtr(year),
		Journal:       journal,
		Citations:     0,
		Source:        sourceID,
		URL:           strings.TrimSpace(entry.ID),
		PublishedDate: publishedDate,
		PaperType:     domain.PaperTypePreprint,
		DOI:           strings.TrimSpace(entry.DOI),
		PDFURL:        pdf.ArXivPDFURL(arxivID),
	}
	paper.Normalize()
	return paper, true
}

// keywords prefers the primary category and otherwise keeps the category
// terms that carry a known subject prefix.
func keywords(entry *Entry) []string {
	if term := strings.TrimSpace(entry.PrimaryCategory.Term); term != "" {
		return []string{term}
	}

	out := make([]string, 0, len(entry.Categories))
	for _, cat := range entry.Categories {
		term := strings.TrimSpace(cat.Term)
		for _, prefix := range subjectPrefixes {
			if strings.HasPrefix(term, prefix) {
				out = append(out, term)
				break
			}
		}
	}
	return out
}

// extractArXivID extracts the arXiv ID from the full entry URL.
// Input: "http://arxiv.org/abs/2301.12345v1" -> "2301.12345"
func extractArXivID(entryURL string) string {
	matches := arxivIDRegex.FindStringSubmatch(entryURL)
	if len(matches) < 2 {
		return ""
	}
	return matches[1]
}

// normalizeWhitespace trims and collapses multiple whitespace characters.
func normalizeWhitespace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
