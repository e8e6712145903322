package papersources

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/helixir/paper-search-service/internal/domain"
)

func TestDefaultCatalogEntries(t *testing.T) {
	entries := DefaultCatalogEntries()
	require.Len(t, entries, 4)

	ids := make([]string, 0, len(entries))
	for _, e := range entries {
		ids = append(ids, e.ID)
		assert.True(t, e.Enabled)
		assert.Equal(t, e.Name+" academic paper database", e.Description)
		assert.NotEmpty(t, e.BaseURL)
	}
	assert.Equal(t, []string{"arxiv", "semantic_scholar", "crossref", "pubmed"}, ids)
}

func TestRegistry(t *testing.T) {
	t.Run("preserves order and ignores unknown or duplicate ids", func(t *testing.T) {
		r := NewRegistry([]CatalogEntry{
			NewCatalogEntry(domain.KindPubMed, "PubMed", "https://pm.test", false),
			{ID: "ieee", Name: "IEEE"},
			NewCatalogEntry(domain.KindArXiv, "arXiv", "https://ax.test", true),
			NewCatalogEntry(domain.KindArXiv, "arXiv again", "https://dup.test", true),
		})

		all := r.All()
		require.Len(t, all, 2)
		assert.Equal(t, "pubmed", all[0].ID)
		assert.Equal(t, "arxiv", all[1].ID)
		assert.Equal(t, 2, r.Len())
		assert.Equal(t, 1, r.EnabledCount())
		assert.Equal(t, "https://ax.test", r.BaseURL(domain.KindArXiv))
		assert.Empty(t, r.BaseURL(domain.KindCrossref))
	})

	t.Run("All returns a copy", func(t *testing.T) {
		r := NewRegistry(DefaultCatalogEntries())
		all := r.All()
		all[0].Name = "mutated"

		e, ok := r.Get(domain.KindArXiv)
		require.True(t, ok)
		assert.Equal(t, "arXiv", e.Name)
	})

	t.Run("status follows enabled flag", func(t *testing.T) {
		assert.Equal(t, StatusAvailable, CatalogEntry{Enabled: true}.Status())
		assert.Equal(t, StatusDisabled, CatalogEntry{}.Status())
	})

	t.Run("unknown kind lookup", func(t *testing.T) {
		r := NewRegistry(DefaultCatalogEntries())
		_, ok := r.Get(domain.KindCustom)
		assert.False(t, ok)
	})
}
