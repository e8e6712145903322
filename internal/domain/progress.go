package domain

import (
	"encoding/json"
	"fmt"
	"math"
)

// ProgressEventType discriminates the variants of ProgressEvent.
type ProgressEventType string

const (
	EventProgress  ProgressEventType = "progress"
	EventComplete  ProgressEventType = "complete"
	EventError     ProgressEventType = "error"
	EventHeartbeat ProgressEventType = "heartbeat"
)

// ProgressStatus refines a progress event.
type ProgressStatus string

const (
	StatusStarted   ProgressStatus = "started"
	StatusSearching ProgressStatus = "searching"
	StatusFound     ProgressStatus = "found"
	StatusFailed    ProgressStatus = "failed"
)

// ProgressEvent is one message of a streamed search. Only the fields that
// belong to Type are serialized.
type ProgressEvent struct {
	Type        ProgressEventType
	Status      ProgressStatus
	Source      string
	Message     string
	Current     int
	Total       int
	PapersFound int
	Percentage  float64
	Papers      []Paper
}

// Percentage returns current/total as a percentage rounded to one decimal.
func Percentage(current, total int) float64 {
	if total <= 0 {
		return 0
	}
	return math.Round(float64(current)/float64(total)*1000) / 10
}

// NewStartEvent reports that a streamed search over total sources began.
func NewStartEvent(total int) ProgressEvent {
	return ProgressEvent{
		Type:       EventProgress,
		Status:     StatusStarted,
		Message:    "Starting paper search...",
		Total:      total,
		Percentage: 0,
	}
}

// NewSearchingEvent reports that the source at zero-based index is being queried.
func NewSearchingEvent(src SourceDescriptor, index, total, papersFound int) ProgressEvent {
	return ProgressEvent{
		Type:        EventProgress,
		Status:      StatusSearching,
		Source:      src.ID,
		Message:     fmt.Sprintf("Searching %s...", src.Name),
		Current:     index,
		Total:       total,
		PapersFound: papersFound,
		Percentage:  Percentage(index, total),
	}
}

// NewFoundEvent reports that the source at zero-based index returned found papers.
func NewFoundEvent(src SourceDescriptor, index, total, found, papersFound int) ProgressEvent {
	return ProgressEvent{
		Type:        EventProgress,
		Status:      StatusFound,
		Source:      src.ID,
		Message:     fmt.Sprintf("Found %d papers from %s", found, src.Name),
		Current:     index + 1,
		Total:       total,
		PapersFound: papersFound,
		Percentage:  Percentage(index+1, total),
	}
}

// NewFailedEvent reports that the source at zero-based index failed.
func NewFailedEvent(src SourceDescriptor, index, total, papersFound int, err error) ProgressEvent {
	return ProgressEvent{
		Type:        EventProgress,
		Status:      StatusFailed,
		Source:      src.ID,
		Message:     fmt.Sprintf("Search failed for %s: %v", src.Name, err),
		Current:     index + 1,
		Total:       total,
		PapersFound: papersFound,
		Percentage:  Percentage(index+1, total),
	}
}

// NewCompleteEvent carries the final sorted result set.
func NewCompleteEvent(papers []Paper, total int) ProgressEvent {
	if papers == nil {
		papers = []Paper{}
	}
	return ProgressEvent{
		Type:        EventComplete,
		Message:     "Search complete",
		Current:     total,
		Total:       total,
		PapersFound: len(papers),
		Percentage:  100.0,
		Papers:      papers,
	}
}

// NewErrorEvent terminates a stream after an unexpected failure.
func NewErrorEvent(message string) ProgressEvent {
	return ProgressEvent{Type: EventError, Message: message}
}

// NewHeartbeatEvent keeps an idle stream alive.
func NewHeartbeatEvent() ProgressEvent {
	return ProgressEvent{Type: EventHeartbeat}
}

type progressPayload struct {
	Type        ProgressEventType `json:"type"`
	Status      ProgressStatus    `json:"status"`
	Source      string            `json:"source,omitempty"`
	Message     string            `json:"message"`
	Current     int               `json:"current"`
	Total       int               `json:"total"`
	PapersFound int               `json:"papers_found"`
	Percentage  float64           `json:"percentage"`
}

type completePayload struct {
	Type       ProgressEventType `json:"type"`
	Message    string            `json:"message"`
	Current    int               `json:"current"`
	Total      int               `json:"total"`
	Percentage float64           `json:"percentage"`
	Papers     []Paper           `json:"papers"`
	TotalFound int               `json:"total_found"`
}

type errorPayload struct {
	Type    ProgressEventType `json:"type"`
	Message string            `json:"message"`
}

type heartbeatPayload struct {
	Type ProgressEventType `json:"type"`
}

// MarshalJSON encodes the event with the field set of its variant.
func (e ProgressEvent) MarshalJSON() ([]byte, error) {
	switch e.Type {
	case EventProgress:
		return json.Marshal(progressPayload{
			Type:        e.Type,
			Status:      e.Status,
			Source:      e.Source,
			Message:     e.Message,
			Current:     e.Current,
			Total:       e.Total,
			PapersFound: e.PapersFound,
			Percentage:  e.Percentage,
		})
	case EventComplete:
		papers := e.Papers
		if papers == nil {
			papers = []Paper{}
		}
		return json.Marshal(completePayload{
			Type:       e.Type,
			Message:    e.Message,
			Current:    e.Current,
			Total:      e.Total,
			Percentage: e.Percentage,
			Papers:     papers,
			TotalFound: e.PapersFound,
		})
	case EventError:
		return json.Marshal(errorPayload{Type: e.Type, Message: e.Message})
	case EventHeartbeat:
		return json.Marshal(heartbeatPayload{Type: e.Type})
	default:
		return nil, fmt.Errorf("unknown progress event type %q", e.Type)
	}
}

// IsTerminal returns true for the events that end a stream.
func (e ProgressEvent) IsTerminal() bool {
	return e.Type == EventComplete || e.Type == EventError
}
