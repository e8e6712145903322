package domain

import (
	"strings"
)

// Defaults applied by adapters when the upstream record omits a field.
const (
	UnknownTitle        = "Unknown Title"
	AbstractUnavailable = "No abstract available"
)

// Paper types reported by the adapters.
const (
	PaperTypePreprint        = "preprint"
	PaperTypeResearchArticle = "research article"
	PaperTypeSynthetic       = "synthetic"
)

// Paper is the normalized record every adapter produces.
//
// Year and PublishedDate are nil when the upstream record does not carry them,
// which keeps "unknown" distinguishable from a real value on the wire.
type Paper struct {
	ID            string   `json:"id"`
	Title         string   `json:"title"`
	Authors       []string `json:"authors"`
	Abstract      string   `json:"abstract"`
	Keywords      []string `json:"keywords"`
	Year          *int     `json:"year"`
	Journal       string   `json:"journal"`
	Citations     int      `json:"citations"`
	Source        string   `json:"source"`
	URL           string   `json:"url"`
	PublishedDate *string  `json:"published_date"`
	PaperType     string   `json:"paper_type"`
	DOI           string   `json:"doi,omitempty"`
	PDFURL        string   `json:"pdf_url,omitempty"`

	// Synthetic marks placeholder records that were not fetched from any
	// real database.
	Synthetic bool `json:"synthetic,omitempty"`
}

// SortYear returns the year used for ranking, treating an unknown year as 0.
func (p Paper) SortYear() int {
	if p.Year == nil {
		return 0
	}
	return *p.Year
}

// Normalize fills defaults so the record always satisfies the wire contract:
// non-empty title and abstract, non-nil slices and non-negative citations.
func (p *Paper) Normalize() {
	p.Title = strings.TrimSpace(p.Title)
	if p.Title == "" {
		p.Title = UnknownTitle
	}
	p.Abstract = strings.TrimSpace(p.Abstract)
	if p.Abstract == "" {
		p.Abstract = AbstractUnavailable
	}
	if p.Authors == nil {
		p.Authors = []string{}
	}
	if p.Keywords == nil {
		p.Keywords = []string{}
	}
	if p.Citations < 0 {
		p.Citations = 0
	}
}

// IntPtr returns a pointer to v.
func IntPtr(v int) *int {
	return &v
}

// StringPtr returns a pointer to s, or nil when s is empty.
func StringPtr(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
