package domain

import (
	"encoding/json"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKindForID(t *testing.T) {
	tests := []struct {
		id       string
		expected SourceKind
	}{
		{"arxiv", KindArXiv},
		{"semantic_scholar", KindSemanticScholar},
		{"crossref", KindCrossref},
		{"pubmed", KindPubMed},
		{"ArXiv", KindCustom},
		{"ieee", KindCustom},
		{"", KindCustom},
	}

	for _, tt := range tests {
		t.Run(tt.id, func(t *testing.T) {
			assert.Equal(t, tt.expected, KindForID(tt.id))
		})
	}
}

func TestSourceKind_IsSpecialized(t *testing.T) {
	for _, k := range SpecializedKinds {
		assert.True(t, k.IsSpecialized(), "%s should be specialized", k)
	}
	assert.False(t, KindCustom.IsSpecialized())
	assert.False(t, SourceKind("ieee").IsSpecialized())
}

func TestPaper_Normalize(t *testing.T) {
	t.Run("fills defaults", func(t *testing.T) {
		p := Paper{Title: "  ", Citations: -3}
		p.Normalize()

		assert.Equal(t, UnknownTitle, p.Title)
		assert.Equal(t, AbstractUnavailable, p.Abstract)
		assert.NotNil(t, p.Authors)
		assert.NotNil(t, p.Keywords)
		assert.Zero(t, p.Citations)
	})

	t.Run("keeps populated fields", func(t *testing.T) {
		p := Paper{Title: " Attention ", Abstract: "abs", Authors: []string{"A"}, Citations: 7}
		p.Normalize()

		assert.Equal(t, "Attention", p.Title)
		assert.Equal(t, "abs", p.Abstract)
		assert.Equal(t, []string{"A"}, p.Authors)
		assert.Equal(t, 7, p.Citations)
	})
}

func TestPaper_JSON(t *testing.T) {
	t.Run("unknown year and date encode as null", func(t *testing.T) {
		p := Paper{ID: "ss-1"}
		p.Normalize()

		data, err := json.Marshal(p)
		require.NoError(t, err)

		var decoded map[string]any
		require.NoError(t, json.Unmarshal(data, &decoded))
		assert.Nil(t, decoded["year"])
		assert.Nil(t, decoded["published_date"])
		assert.Equal(t, []any{}, decoded["authors"])
		assert.NotContains(t, decoded, "doi")
		assert.NotContains(t, decoded, "synthetic")
	})

	t.Run("known values are emitted", func(t *testing.T) {
		p := Paper{ID: "cr-10.1-x", Year: IntPtr(2021), PublishedDate: StringPtr("2021-03-01"), DOI: "10.1/x"}

		data, err := json.Marshal(p)
		require.NoError(t, err)

		var decoded map[string]any
		require.NoError(t, json.Unmarshal(data, &decoded))
		assert.Equal(t, float64(2021), decoded["year"])
		assert.Equal(t, "2021-03-01", decoded["published_date"])
		assert.Equal(t, "10.1/x", decoded["doi"])
	})

	t.Run("sort year treats unknown as zero", func(t *testing.T) {
		assert.Equal(t, 0, Paper{}.SortYear())
		assert.Equal(t, 2020, Paper{Year: IntPtr(2020)}.SortYear())
	})
}

func TestStringPtr(t *testing.T) {
	assert.Nil(t, StringPtr(""))
	require.NotNil(t, StringPtr("x"))
	assert.Equal(t, "x", *StringPtr("x"))
}

func TestPercentage(t *testing.T) {
	assert.Equal(t, 0.0, Percentage(0, 3))
	assert.Equal(t, 33.3, Percentage(1, 3))
	assert.Equal(t, 66.7, Percentage(2, 3))
	assert.Equal(t, 100.0, Percentage(3, 3))
	assert.Equal(t, 0.0, Percentage(1, 0))
}

func TestProgressEvent_MarshalJSON(t *testing.T) {
	src := SourceDescriptor{ID: "arxiv", Name: "arXiv", URL: "https://arxiv.org"}

	t.Run("start event keeps zero counters", func(t *testing.T) {
		data, err := json.Marshal(NewStartEvent(3))
		require.NoError(t, err)
		assert.JSONEq(t, `{"type":"progress","status":"started","message":"Starting paper search...","current":0,"total":3,"papers_found":0,"percentage":0}`, string(data))
	})

	t.Run("found event", func(t *testing.T) {
		data, err := json.Marshal(NewFoundEvent(src, 0, 3, 5, 5))
		require.NoError(t, err)
		assert.JSONEq(t, `{"type":"progress","status":"found","source":"arxiv","message":"Found 5 papers from arXiv","current":1,"total":3,"papers_found":5,"percentage":33.3}`, string(data))
	})

	t.Run("failed event carries the cause", func(t *testing.T) {
		ev := NewFailedEvent(src, 1, 2, 4, errors.New("boom"))
		assert.Equal(t, "Search failed for arXiv: boom", ev.Message)
		assert.Equal(t, 2, ev.Current)
		assert.Equal(t, 100.0, ev.Percentage)
	})

	t.Run("complete event", func(t *testing.T) {
		ev := NewCompleteEvent(nil, 2)
		data, err := json.Marshal(ev)
		require.NoError(t, err)
		assert.JSONEq(t, `{"type":"complete","message":"Search complete","current":2,"total":2,"percentage":100,"papers":[],"total_found":0}`, string(data))
		assert.True(t, ev.IsTerminal())
	})

	t.Run("error and heartbeat", func(t *testing.T) {
		data, err := json.Marshal(NewErrorEvent("bad"))
		require.NoError(t, err)
		assert.JSONEq(t, `{"type":"error","message":"bad"}`, string(data))

		data, err = json.Marshal(NewHeartbeatEvent())
		require.NoError(t, err)
		assert.JSONEq(t, `{"type":"heartbeat"}`, string(data))
		assert.False(t, NewHeartbeatEvent().IsTerminal())
	})

	t.Run("unknown type fails", func(t *testing.T) {
		_, err := json.Marshal(ProgressEvent{Type: "bogus"})
		require.Error(t, err)
	})
}

func TestErrors(t *testing.T) {
	t.Run("validation error unwraps to invalid input", func(t *testing.T) {
		err := fmt.Errorf("wrap: %w", NewValidationError("query", "query is required"))
		assert.ErrorIs(t, err, ErrInvalidInput)

		var ve *ValidationError
		require.ErrorAs(t, err, &ve)
		assert.Equal(t, "query", ve.Field)
		assert.Equal(t, "validation error: query: query is required", ve.Error())
	})

	t.Run("external API error unwraps cause", func(t *testing.T) {
		cause := errors.New("timeout")
		err := NewExternalAPIError("arxiv", 503, "unavailable", cause)
		assert.ErrorIs(t, err, cause)
		assert.Equal(t, "arxiv API error (status 503): unavailable", err.Error())
	})
}
