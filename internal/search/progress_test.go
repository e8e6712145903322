package search

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/helixir/paper-search-service/internal/domain"
	"github.com/helixir/paper-search-service/internal/papersources"
)

// collectEvents drains events, failing the test if the channel is not closed in time.
func collectEvents(t *testing.T, events <-chan domain.ProgressEvent) []domain.ProgressEvent {
	t.Helper()

	var out []domain.ProgressEvent
	timeout := time.After(5 * time.Second)
	for {
		select {
		case event, ok := <-events:
			if !ok {
				return out
			}
			out = append(out, event)
		case <-timeout:
			t.Fatalf("progress stream not closed; got %d events", len(out))
		}
	}
}

func TestProgressEventCount(t *testing.T) {
	assert.Equal(t, 4, ProgressEventCount(1))
	assert.Equal(t, 8, ProgressEventCount(3))
}

func TestSearchWithProgress_EventSequence(t *testing.T) {
	c := newTestCoordinator(WithSourceFactory(mockFactory(func(_ context.Context, params papersources.SearchParams) ([]domain.Paper, error) {
		switch params.Source.ID {
		case "arxiv":
			return []domain.Paper{
				paper("arxiv-1", "arxiv", domain.IntPtr(2020), 0),
				paper("arxiv-2", "arxiv", domain.IntPtr(2024), 0),
			}, nil
		case "crossref":
			return nil, errors.New("status 503")
		default:
			return []domain.Paper{paper("pm-1", "pubmed", domain.IntPtr(2022), 7)}, nil
		}
	})))

	sources := []domain.SourceDescriptor{
		{ID: "arxiv", Name: "arXiv", URL: "https://arxiv.org"},
		{ID: "crossref", Name: "Crossref", URL: "https://crossref.org"},
		{ID: "pubmed", Name: "PubMed", URL: "https://pubmed.ncbi.nlm.nih.gov"},
	}
	stream, err := c.SearchWithProgress(context.Background(), "ml", sources, 10)
	require.NoError(t, err)

	events := collectEvents(t, stream)
	require.Len(t, events, 8)

	start := events[0]
	assert.Equal(t, domain.EventProgress, start.Type)
	assert.Equal(t, domain.StatusStarted, start.Status)
	assert.Equal(t, "Starting paper search...", start.Message)
	assert.Equal(t, 0, start.Current)
	assert.Equal(t, 3, start.Total)

	expected := []struct {
		status      domain.ProgressStatus
		message     string
		current     int
		papersFound int
		percentage  float64
	}{
		{domain.StatusSearching, "Searching arXiv...", 0, 0, 0},
		{domain.StatusFound, "Found 2 papers from arXiv", 1, 2, 33.3},
		{domain.StatusSearching, "Searching Crossref...", 1, 2, 33.3},
		{domain.StatusFailed, "Search failed for Crossref: status 503", 2, 2, 66.7},
		{domain.StatusSearching, "Searching PubMed...", 2, 2, 66.7},
		{domain.StatusFound, "Found 1 papers from PubMed", 3, 3, 100},
	}
	for i, want := range expected {
		got := events[i+1]
		assert.Equal(t, domain.EventProgress, got.Type, "event %d", i+1)
		assert.Equal(t, want.status, got.Status, "event %d", i+1)
		assert.Equal(t, want.message, got.Message, "event %d", i+1)
		assert.Equal(t, want.current, got.Current, "event %d", i+1)
		assert.Equal(t, 3, got.Total, "event %d", i+1)
		assert.Equal(t, want.papersFound, got.PapersFound, "event %d", i+1)
		assert.InDelta(t, want.percentage, got.Percentage, 0.001, "event %d", i+1)
	}

	complete := events[7]
	assert.Equal(t, domain.EventComplete, complete.Type)
	assert.Equal(t, 100.0, complete.Percentage)
	assert.Equal(t, 3, complete.PapersFound)
	require.Len(t, complete.Papers, 3)
	assert.Equal(t, "arxiv-2", complete.Papers[0].ID)
	assert.Equal(t, "pm-1", complete.Papers[1].ID)
	assert.Equal(t, "arxiv-1", complete.Papers[2].ID)
}

func TestSearchWithProgress_SequentialDispatch(t *testing.T) {
	active := make(chan struct{}, 1)
	c := newTestCoordinator(WithSourceFactory(mockFactory(func(context.Context, papersources.SearchParams) ([]domain.Paper, error) {
		select {
		case active <- struct{}{}:
		default:
			return nil, errors.New("overlapping source calls")
		}
		time.Sleep(10 * time.Millisecond)
		<-active
		return nil, nil
	})))

	stream, err := c.SearchWithProgress(context.Background(), "ml", []domain.SourceDescriptor{descriptor("a"), descriptor("b"), descriptor("c")}, 10)
	require.NoError(t, err)

	for _, event := range collectEvents(t, stream) {
		assert.NotEqual(t, domain.StatusFailed, event.Status, event.Message)
	}
}

func TestSearchWithProgress_ValidationError(t *testing.T) {
	c := newTestCoordinator()

	stream, err := c.SearchWithProgress(context.Background(), " ", []domain.SourceDescriptor{descriptor("arxiv")}, 10)

	require.Error(t, err)
	assert.Nil(t, stream)
	assert.True(t, errors.Is(err, domain.ErrInvalidInput))
}

func TestSearchWithProgress_EmptyResult(t *testing.T) {
	c := newTestCoordinator(WithSourceFactory(mockFactory(func(context.Context, papersources.SearchParams) ([]domain.Paper, error) {
		return nil, nil
	})))

	stream, err := c.SearchWithProgress(context.Background(), "ml", []domain.SourceDescriptor{descriptor("arxiv")}, 10)
	require.NoError(t, err)

	events := collectEvents(t, stream)
	require.Len(t, events, 4)
	complete := events[3]
	assert.Equal(t, domain.EventComplete, complete.Type)
	assert.NotNil(t, complete.Papers)
	assert.Empty(t, complete.Papers)
}

func TestSearchWithProgress_Cancellation(t *testing.T) {
	cfg := DefaultConfig()
	cfg.ProgressPacing = time.Hour
	c := NewCoordinator(cfg, nil, nil, nil, zerolog.Nop(), WithSourceFactory(mockFactory(func(context.Context, papersources.SearchParams) ([]domain.Paper, error) {
		return nil, nil
	})))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	stream, err := c.SearchWithProgress(ctx, "ml", []domain.SourceDescriptor{descriptor("a"), descriptor("b")}, 10)
	require.NoError(t, err)

	var events []domain.ProgressEvent
	for event := range stream {
		events = append(events, event)
		if event.Status == domain.StatusFound {
			cancel()
		}
		if len(events) > ProgressEventCount(2) {
			t.Fatal("stream did not stop after cancellation")
		}
	}

	require.Len(t, events, 4)
	assert.Equal(t, domain.StatusFound, events[2].Status)
	last := events[3]
	assert.Equal(t, domain.EventError, last.Type)
	assert.Equal(t, "Search cancelled", last.Message)
}

func TestPause(t *testing.T) {
	t.Run("zero duration returns immediately", func(t *testing.T) {
		assert.NoError(t, pause(context.Background(), 0))
	})

	t.Run("waits for duration", func(t *testing.T) {
		start := time.Now()
		require.NoError(t, pause(context.Background(), 20*time.Millisecond))
		assert.GreaterOrEqual(t, time.Since(start), 20*time.Millisecond)
	})

	t.Run("cancelled context interrupts", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		assert.ErrorIs(t, pause(ctx, time.Hour), context.Canceled)
	})
}
