package papersources

import (
	"fmt"

	"github.com/helixir/paper-search-service/internal/domain"
)

// Catalog statuses reported by the discovery endpoints.
const (
	StatusAvailable = "available"
	StatusDisabled  = "disabled"
)

// Default API endpoints of the specialized databases.
const (
	DefaultArXivBaseURL           = "http://export.arxiv.org/api"
	DefaultSemanticScholarBaseURL = "https://api.semanticscholar.org/graph/v1"
	DefaultCrossrefBaseURL        = "https://api.crossref.org"
	DefaultPubMedBaseURL          = "https://eutils.ncbi.nlm.nih.gov/entrez/eutils"
)

// CatalogEntry describes one specialized database.
type CatalogEntry struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	BaseURL     string `json:"base_url"`
	Enabled     bool   `json:"enabled"`
	Description string `json:"description"`
}

// Status returns the availability label derived from Enabled.
func (e CatalogEntry) Status() string {
	if e.Enabled {
		return StatusAvailable
	}
	return StatusDisabled
}

// Kind returns the adapter kind of the entry.
func (e CatalogEntry) Kind() domain.SourceKind {
	return domain.KindForID(e.ID)
}

// DefaultCatalogEntries returns the built-in catalog, all enabled.
func DefaultCatalogEntries() []CatalogEntry {
	return []CatalogEntry{
		NewCatalogEntry(domain.KindArXiv, "arXiv", DefaultArXivBaseURL, true),
		NewCatalogEntry(domain.KindSemanticScholar, "Semantic Scholar", DefaultSemanticScholarBaseURL, true),
		NewCatalogEntry(domain.KindCrossref, "Crossref", DefaultCrossrefBaseURL, true),
		NewCatalogEntry(domain.KindPubMed, "PubMed", DefaultPubMedBaseURL, true),
	}
}

// NewCatalogEntry builds an entry with the standard description.
func NewCatalogEntry(kind domain.SourceKind, name, baseURL string, enabled bool) CatalogEntry {
	return CatalogEntry{
		ID:          string(kind),
		Name:        name,
		BaseURL:     baseURL,
		Enabled:     enabled,
		Description: fmt.Sprintf("%s academic paper database", name),
	}
}

// Registry is the read-only catalog of specialized databases. It is built once
// at startup and never mutated, so it is safe for concurrent use without locks.
type Registry struct {
	entries []CatalogEntry
	byKind  map[domain.SourceKind]CatalogEntry
}

// NewRegistry creates a registry from entries, preserving their order.
// Entries whose id is not a specialized kind are ignored.
func NewRegistry(entries []CatalogEntry) *Registry {
	r := &Registry{
		entries: make([]CatalogEntry, 0, len(entries)),
		byKind:  make(map[domain.SourceKind]CatalogEntry, len(entries)),
	}
	for _, e := range entries {
		kind := e.Kind()
		if !kind.IsSpecialized() {
			continue
		}
		if _, dup := r.byKind[kind]; dup {
			continue
		}
		r.entries = append(r.entries, e)
		r.byKind[kind] = e
	}
	return r
}

// All returns a copy of the catalog in declaration order.
func (r *Registry) All() []CatalogEntry {
	out := make([]CatalogEntry, len(r.entries))
	copy(out, r.entries)
	return out
}

// Get returns the entry for kind.
func (r *Registry) Get(kind domain.SourceKind) (CatalogEntry, bool) {
	e, ok := r.byKind[kind]
	return e, ok
}

// BaseURL returns the configured API endpoint for kind, or "" if unknown.
func (r *Registry) BaseURL(kind domain.SourceKind) string {
	return r.byKind[kind].BaseURL
}

// EnabledCount returns the number of enabled entries.
func (r *Registry) EnabledCount() int {
	n := 0
	for _, e := range r.entries {
		if e.Enabled {
			n++
		}
	}
	return n
}

// Len returns the number of entries.
func (r *Registry) Len() int {
	return len(r.entries)
}
