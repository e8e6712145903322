// Package crossref provides a client for the Crossref REST API works search.
//
// API Documentation: https://api.crossref.org/swagger-ui/index.html
package crossref

// WorksResponse is the envelope returned by GET /works.
type WorksResponse struct {
	Status  string       `json:"status"`
	Message WorksMessage `json:"message"`
}

// WorksMessage holds the result page.
type WorksMessage struct {
	TotalResults int    `json:"total-results"`
	Items        []Work `json:"items"`
}

// Work is one Crossref record.
type Work struct {
	DOI                 string    `json:"DOI"`
	URL                 string    `json:"URL"`
	Type                string    `json:"type"`
	Title               []string  `json:"title"`
	ContainerTitle      []string  `json:"container-title"`
	Author              []Author  `json:"author"`
	Abstract            string    `json:"abstract"`
	Subject             []string  `json:"subject"`
	PublishedPrint      *DateInfo `json:"published-print"`
	PublishedOnline     *DateInfo `json:"published-online"`
	IsReferencedByCount int       `json:"is-referenced-by-count"`
}

// Author is a contributor with split name parts.
type Author struct {
	Given  string `json:"given"`
	Family string `json:"family"`
	Name   string `json:"name"`
}

// DateInfo carries Crossref's nested date-parts array, e.g. [[2021, 3, 14]].
type DateInfo struct {
	DateParts [][]int `json:"date-parts"`
}
