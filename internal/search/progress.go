package search

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/helixir/paper-search-service/internal/domain"
	"github.com/helixir/paper-search-service/internal/observability"
	"github.com/helixir/paper-search-service/internal/papersources"
)

// ProgressEventCount returns the number of events a successful progress search
// over n sources emits: one start event, two per source and one complete event.
func ProgressEventCount(n int) int {
	return 2*n + 2
}

// SearchWithProgress validates the request and then queries the sources one
// after another in a background goroutine, reporting each step on the
// returned channel. The channel is buffered for every event of the search, so
// the producer never blocks on a slow consumer; it is closed after the final
// event. A validation failure is returned before anything is started.
//
// Cancelling ctx stops the search after the current source and interrupts the
// pacing delay.
func (c *Coordinator) SearchWithProgress(ctx context.Context, query string, sources []domain.SourceDescriptor, maxResults int) (<-chan domain.ProgressEvent, error) {
	p, err := c.prepare(query, sources, maxResults)
	if err != nil {
		return nil, err
	}

	// One extra slot for the error event of a recovered panic.
	events := make(chan domain.ProgressEvent, ProgressEventCount(len(p.sources))+1)
	logger := observability.WithSearchContext(c.logger, p.searchID, p.query, len(p.sources))
	ctx = observability.WithSearchID(ctx, p.searchID)

	go func() {
		defer close(events)
		defer func() {
			if r := recover(); r != nil {
				logger.Error().Interface("panic", r).Msg("progress search panicked")
				events <- domain.NewErrorEvent(fmt.Sprintf("Search failed: %v", r))
			}
		}()

		c.runWithProgress(ctx, p, events, logger)
	}()

	return events, nil
}

func (c *Coordinator) runWithProgress(ctx context.Context, p plan, events chan<- domain.ProgressEvent, logger zerolog.Logger) {
	start := time.Now()
	total := len(p.sources)
	logger.Info().Int("max_results", p.maxResults).Msg("starting progress search")

	httpClient := papersources.NewHTTPClient(c.config.HTTPClient)
	defer httpClient.Close()

	events <- domain.NewStartEvent(total)

	papers := make([]domain.Paper, 0)
	for i, src := range p.sources {
		events <- domain.NewSearchingEvent(src, i, total, len(papers))

		found, err := c.searchSource(ctx, httpClient, p, src, logger)
		papers = append(papers, found...)
		if err != nil {
			events <- domain.NewFailedEvent(src, i, total, len(papers), err)
		} else {
			events <- domain.NewFoundEvent(src, i, total, len(found), len(papers))
		}

		if err := pause(ctx, c.config.ProgressPacing); err != nil {
			logger.Info().Int("completed_sources", i+1).Msg("progress search cancelled")
			events <- domain.NewErrorEvent("Search cancelled")
			return
		}
	}

	SortPapers(papers)
	events <- domain.NewCompleteEvent(papers, total)

	duration := time.Since(start)
	logger.Info().
		Int("total_papers", len(papers)).
		Dur("duration", duration).
		Msg("progress search completed")

	if c.metrics != nil {
		c.metrics.RecordFederatedSearch(observability.ModeStream, len(papers), duration.Seconds())
	}
}

// pause waits for d or until ctx is done. It reports ctx.Err() even when d is
// zero, so a cancelled search stops between sources.
func pause(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}

	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
