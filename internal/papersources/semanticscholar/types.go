// Package semanticscholar provides a client for the Semantic Scholar API.
//
// This package implements the papersources.PaperSource interface on top of
// the Semantic Scholar Graph API paper search endpoint.
//
// API Documentation: https://api.semanticscholar.org/api-docs/
package semanticscholar

// SearchResponse represents the response from the Semantic Scholar paper search endpoint.
type SearchResponse struct {
	// Total is the total number of papers matching the query.
	Total int `json:"total"`

	// Offset is the current offset in the result set.
	Offset int `json:"offset"`

	// Data contains the list of papers returned by the search.
	Data []PaperResult `json:"data"`
}

// PaperResult represents a single paper in the Semantic Scholar API response.
// Nullable fields are pointers.
type PaperResult struct {
	PaperID         string   `json:"paperId"`
	Title           string   `json:"title"`
	Abstract        *string  `json:"abstract"`
	Year            *int     `json:"year"`
	PublicationDate *string  `json:"publicationDate"`
	Journal         *Journal `json:"journal"`
	Authors         []Author `json:"authors"`
	CitationCount   *int     `json:"citationCount"`
	URL             string   `json:"url"`
}

// Journal contains journal-specific information.
type Journal struct {
	Name string `json:"name"`
}

// Author represents a paper author.
type Author struct {
	AuthorID string `json:"authorId"`
	Name     string `json:"name"`
}

// ErrorResponse represents an error response from the API.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}
