package httpserver

import (
	"encoding/json"

	"github.com/helixir/paper-search-service/internal/domain"
	"github.com/helixir/paper-search-service/internal/papersources"
)

// Request and response types for JSON serialization.

// searchRequest is the body of both search endpoints. Sources are kept raw so
// that malformed items are dropped individually instead of failing the request.
type searchRequest struct {
	Query      string            `json:"query"`
	Sources    []json.RawMessage `json:"sources"`
	MaxResults int               `json:"max_results"`
}

type searchResponse struct {
	Papers []domain.Paper `json:"papers"`
}

type downloadRequest struct {
	PaperID  string `json:"paper_id"`
	PaperURL string `json:"paper_url"`
}

type downloadResponse struct {
	Success     bool   `json:"success"`
	DownloadURL string `json:"download_url"`
	Filename    string `json:"filename"`
	Message     string `json:"message"`
}

type sourceResponse struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	BaseURL     string `json:"base_url"`
	Enabled     bool   `json:"enabled"`
	Description string `json:"description"`
	Status      string `json:"status,omitempty"`
}

type listSourcesResponse struct {
	Sources      []sourceResponse `json:"sources"`
	Total        int              `json:"total"`
	EnabledCount *int             `json:"enabled_count,omitempty"`
}

type errorResponse struct {
	Detail string `json:"detail"`
}

// Converter functions

func catalogEntryToResponse(e papersources.CatalogEntry, withStatus bool) sourceResponse {
	resp := sourceResponse{
		ID:          e.ID,
		Name:        e.Name,
		BaseURL:     e.BaseURL,
		Enabled:     e.Enabled,
		Description: e.Description,
	}
	if withStatus {
		resp.Status = e.Status()
	}
	return resp
}
