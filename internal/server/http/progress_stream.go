package httpserver

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/helixir/paper-search-service/internal/domain"
	"github.com/helixir/paper-search-service/internal/search"
)

// searchWithProgress handles POST /paper-search/search-with-progress (SSE).
// Validation errors are returned as a JSON 400 before the stream starts.
// Once streaming, every event is written as "data: <json>\n\n"; a heartbeat is
// written whenever no event arrives within the heartbeat interval. A client
// disconnect cancels the search.
func (s *Server) searchWithProgress(w http.ResponseWriter, r *http.Request) {
	var req searchRequest
	if !decodeBody(w, r, &req) {
		return
	}

	flusher, ok := w.(http.Flusher)
	if !ok {
		writeError(w, http.StatusInternalServerError, "streaming not supported")
		return
	}

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	events, err := s.searcher.SearchWithProgress(ctx, req.Query, search.DecodeSources(req.Sources), req.MaxResults)
	if err != nil {
		s.writeDomainError(w, err)
		return
	}

	// Set SSE headers.
	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("X-Accel-Buffering", "no")
	w.WriteHeader(http.StatusOK)

	// A stream outlives the server write timeout.
	_ = http.NewResponseController(w).SetWriteDeadline(time.Time{})
	flusher.Flush()

	heartbeat := time.NewTimer(s.heartbeatInterval)
	defer heartbeat.Stop()

	for {
		select {
		case <-ctx.Done():
			s.logger.Info().Err(ctx.Err()).Msg("progress stream closed by client")
			return

		case event, ok := <-events:
			if !ok {
				return
			}
			s.sendSSEEvent(w, flusher, event)
			heartbeat.Reset(s.heartbeatInterval)

		case <-heartbeat.C:
			s.sendSSEEvent(w, flusher, domain.NewHeartbeatEvent())
			heartbeat.Reset(s.heartbeatInterval)
		}
	}
}

// sendSSEEvent writes a single SSE event to the response writer.
func (s *Server) sendSSEEvent(w http.ResponseWriter, flusher http.Flusher, event domain.ProgressEvent) {
	data, err := json.Marshal(event)
	if err != nil {
		s.logger.Error().Err(err).Str("event_type", string(event.Type)).Msg("failed to encode progress event")
		return
	}
	fmt.Fprintf(w, "data: %s\n\n", data)
	flusher.Flush()

	if s.metrics != nil {
		s.metrics.RecordStreamEvent(string(event.Type))
	}
}
