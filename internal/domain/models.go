// Package domain provides domain models and errors for the Paper Search Service.
package domain

// SourceKind identifies which adapter serves a source id. The set is closed:
// every id that is not one of the specialized databases maps to KindCustom.
type SourceKind string

const (
	KindArXiv           SourceKind = "arxiv"
	KindSemanticScholar SourceKind = "semantic_scholar"
	KindCrossref        SourceKind = "crossref"
	KindPubMed          SourceKind = "pubmed"
	KindCustom          SourceKind = "custom"
)

// SpecializedKinds lists the databases with a dedicated adapter, in catalog order.
var SpecializedKinds = []SourceKind{
	KindArXiv,
	KindSemanticScholar,
	KindCrossref,
	KindPubMed,
}

// KindForID resolves a source id to its adapter kind by exact match.
func KindForID(id string) SourceKind {
	switch SourceKind(id) {
	case KindArXiv, KindSemanticScholar, KindCrossref, KindPubMed:
		return SourceKind(id)
	default:
		return KindCustom
	}
}

// IsSpecialized returns true if the kind has a dedicated adapter.
func (k SourceKind) IsSpecialized() bool {
	return k != KindCustom && KindForID(string(k)) == k
}

// SourceDescriptor is a caller-supplied reference to a searchable database.
type SourceDescriptor struct {
	ID      string `json:"id" validate:"required"`
	Name    string `json:"name" validate:"required"`
	URL     string `json:"url" validate:"required"`
	Enabled bool   `json:"enabled"`
}

// Kind returns the adapter kind serving this descriptor.
func (d SourceDescriptor) Kind() SourceKind {
	return KindForID(d.ID)
}
