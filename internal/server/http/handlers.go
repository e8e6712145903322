package httpserver

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/helixir/paper-search-service/internal/domain"
	"github.com/helixir/paper-search-service/internal/pdf"
	"github.com/helixir/paper-search-service/internal/search"
)

const maxRequestBodySize = 1 << 20 // 1 MB limit for request bodies

// searchPapers handles POST /paper-search/search.
// It runs a federated search and returns all papers in one response.
func (s *Server) searchPapers(w http.ResponseWriter, r *http.Request) {
	var req searchRequest
	if !decodeBody(w, r, &req) {
		return
	}

	papers, err := s.searcher.FederatedSearch(r.Context(), req.Query, search.DecodeSources(req.Sources), req.MaxResults)
	if err != nil {
		s.writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, searchResponse{Papers: papers})
}

// listSources handles GET /paper-search/sources.
func (s *Server) listSources(w http.ResponseWriter, _ *http.Request) {
	entries := s.catalog.All()

	sources := make([]sourceResponse, len(entries))
	for i, e := range entries {
		sources[i] = catalogEntryToResponse(e, false)
	}

	writeJSON(w, http.StatusOK, listSourcesResponse{
		Sources: sources,
		Total:   len(sources),
	})
}

// listSourcesWithStatus handles GET /paper-search/sources-with-status.
func (s *Server) listSourcesWithStatus(w http.ResponseWriter, _ *http.Request) {
	entries := s.catalog.All()

	sources := make([]sourceResponse, len(entries))
	for i, e := range entries {
		sources[i] = catalogEntryToResponse(e, true)
	}
	enabled := s.catalog.EnabledCount()

	writeJSON(w, http.StatusOK, listSourcesResponse{
		Sources:      sources,
		Total:        len(sources),
		EnabledCount: &enabled,
	})
}

// resolveDownload handles POST /paper-search/download.
// It derives a direct download link; nothing is fetched.
func (s *Server) resolveDownload(w http.ResponseWriter, r *http.Request) {
	var req downloadRequest
	if !decodeBody(w, r, &req) {
		return
	}

	d, err := pdf.ResolveDownload(req.PaperID, req.PaperURL)
	if err != nil {
		s.writeDomainError(w, err)
		return
	}

	kind, message := "passthrough", "Download link resolved"
	if d.ArXiv {
		kind, message = "arxiv", "arXiv PDF link generated"
	}
	if s.metrics != nil {
		s.metrics.RecordDownloadResolved(kind)
	}

	writeJSON(w, http.StatusOK, downloadResponse{
		Success:     true,
		DownloadURL: d.URL,
		Filename:    d.Filename,
		Message:     message,
	})
}

// decodeBody reads a size-limited JSON body into v, writing a 400 response
// and returning false if it cannot be decoded.
func decodeBody(w http.ResponseWriter, r *http.Request, v interface{}) bool {
	defer r.Body.Close()
	body, err := io.ReadAll(io.LimitReader(r.Body, maxRequestBodySize))
	if err != nil {
		writeError(w, http.StatusBadRequest, "failed to read request body")
		return false
	}

	if err := json.Unmarshal(body, v); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON request body")
		return false
	}
	return true
}

// writeDomainError maps domain errors to HTTP status codes and writes a JSON
// error response. Internal error details are not leaked to clients.
func (s *Server) writeDomainError(w http.ResponseWriter, err error) {
	if err == nil {
		return
	}

	var ve *domain.ValidationError
	switch {
	case errors.As(err, &ve):
		writeError(w, http.StatusBadRequest, ve.Message)
	case errors.Is(err, domain.ErrInvalidInput):
		writeError(w, http.StatusBadRequest, "invalid input")
	default:
		s.logger.Error().Err(err).Msg("request failed")
		writeError(w, http.StatusInternalServerError, "internal server error")
	}
}
