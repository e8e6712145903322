package crossref

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/helixir/paper-search-service/internal/domain"
	"github.com/helixir/paper-search-service/internal/papersources"
)

const worksResponseJSON = `{
  "status": "ok",
  "message": {
    "total-results": 3,
    "items": [
      {
        "DOI": "10.1038/nature14539",
        "URL": "https://doi.org/10.1038/nature14539",
        "type": "journal-article",
        "title": ["Deep learning"],
        "container-title": ["Nature"],
        "author": [
          {"given": "Yann", "family": "LeCun"},
          {"given": "", "family": ""},
          {"family": "Hinton"}
        ],
        "abstract": "<jats:p>Deep learning allows\n computational models.</jats:p>",
        "subject": ["Multidisciplinary"],
        "published-print": {"date-parts": [[2015, 5, 28]]},
        "published-online": {"date-parts": [[2015, 5, 27]]},
        "is-referenced-by-count": 50000
      },
      {
        "DOI": "10.1145/3065386",
        "type": "proceedings-article",
        "title": [],
        "published-online": {"date-parts": [[2017, 5]]}
      },
      {
        "DOI": "",
        "title": ["no doi"]
      }
    ]
  }
}`

var testSource = domain.SourceDescriptor{ID: "crossref", Name: "Crossref", URL: "https://www.crossref.org"}

func newTestClient(cfg Config) *Client {
	return New(cfg, papersources.NewHTTPClient(papersources.HTTPClientConfig{Timeout: 5 * time.Second}))
}

func TestNew(t *testing.T) {
	client := New(Config{}, nil)

	assert.Equal(t, DefaultBaseURL, client.config.BaseURL)
	assert.Equal(t, DefaultMaxResults, client.config.MaxResults)
	assert.Equal(t, domain.KindCrossref, client.Kind())
}

func TestClient_Search(t *testing.T) {
	t.Run("maps works", func(t *testing.T) {
		var gotPath, gotQuery, gotRows, gotMailto string
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			gotPath = r.URL.Path
			gotQuery = r.URL.Query().Get("query")
			gotRows = r.URL.Query().Get("rows")
			gotMailto = r.URL.Query().Get("mailto")
			_, _ = w.Write([]byte(worksResponseJSON))
		}))
		defer server.Close()

		papers, err := newTestClient(Config{BaseURL: server.URL, Mailto: "ops@example.org"}).Search(context.Background(), papersources.SearchParams{
			Query:      "deep learning",
			MaxResults: 7,
			Source:     testSource,
		})
		require.NoError(t, err)

		assert.Equal(t, "/works", gotPath)
		assert.Equal(t, "deep learning", gotQuery)
		assert.Equal(t, "7", gotRows)
		assert.Equal(t, "ops@example.org", gotMailto)

		require.Len(t, papers, 2)

		p := papers[0]
		assert.Equal(t, "cr-10.1038-nature14539", p.ID)
		assert.Equal(t, "10.1038/nature14539", p.DOI)
		assert.Equal(t, "Deep learning", p.Title)
		assert.Equal(t, []string{"Yann LeCun", "Hinton"}, p.Authors)
		assert.Equal(t, "Deep learning allows computational models.", p.Abstract)
		assert.Equal(t, []string{"Multidisciplinary"}, p.Keywords)
		assert.Equal(t, 2015, *p.Year)
		assert.Equal(t, "2015-05-28", *p.PublishedDate)
		assert.Equal(t, "Nature", p.Journal)
		assert.Equal(t, 50000, p.Citations)
		assert.Equal(t, "crossref", p.Source)
		assert.Equal(t, "https://doi.org/10.1038/nature14539", p.URL)
		assert.Equal(t, domain.PaperTypeResearchArticle, p.PaperType)

		sparse := papers[1]
		assert.Equal(t, "cr-10.1145-3065386", sparse.ID)
		assert.Equal(t, domain.UnknownTitle, sparse.Title)
		assert.Equal(t, domain.AbstractUnavailable, sparse.Abstract)
		assert.Equal(t, 2017, *sparse.Year, "falls back to published-online")
		assert.Equal(t, "2017-05", *sparse.PublishedDate)
		assert.Equal(t, "https://doi.org/10.1145/3065386", sparse.URL)
		assert.Equal(t, "proceedings article", sparse.PaperType)
		assert.Empty(t, sparse.Authors)
	})

	t.Run("omits mailto when not configured", func(t *testing.T) {
		var hasMailto bool
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			hasMailto = r.URL.Query().Has("mailto")
			_, _ = w.Write([]byte(`{"status":"ok","message":{"items":[]}}`))
		}))
		defer server.Close()

		papers, err := newTestClient(Config{BaseURL: server.URL}).Search(context.Background(), papersources.SearchParams{Query: "q", Source: testSource})
		require.NoError(t, err)
		assert.Empty(t, papers)
		assert.False(t, hasMailto)
	})

	t.Run("returns external API error on non-200", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
		}))
		defer server.Close()

		_, err := newTestClient(Config{BaseURL: server.URL}).Search(context.Background(), papersources.SearchParams{Query: "q", Source: testSource})

		var apiErr *domain.ExternalAPIError
		require.True(t, errors.As(err, &apiErr))
		assert.Equal(t, "Crossref", apiErr.Source)
		assert.Equal(t, "Internal Server Error", apiErr.Message)
	})
}

func TestDateInfo_Format(t *testing.T) {
	assert.Equal(t, "2020", (&DateInfo{DateParts: [][]int{{2020}}}).format())
	assert.Equal(t, "2020-01", (&DateInfo{DateParts: [][]int{{2020, 1}}}).format())
	assert.Equal(t, "2020-01-09", (&DateInfo{DateParts: [][]int{{2020, 1, 9}}}).format())

	var missing *DateInfo
	assert.False(t, missing.hasYear())
	assert.False(t, (&DateInfo{DateParts: [][]int{{}}}).hasYear())
}
