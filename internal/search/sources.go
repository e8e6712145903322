package search

import (
	"encoding/json"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"

	"github.com/helixir/paper-search-service/internal/domain"
)

// DecodeSources decodes caller-supplied descriptors one item at a time.
// An item that is not an object or carries a non-string id, name or url is
// returned as the zero descriptor, so it is later rejected as invalid while
// still counting as a selected source.
func DecodeSources(raw []json.RawMessage) []domain.SourceDescriptor {
	out := make([]domain.SourceDescriptor, 0, len(raw))
	for _, item := range raw {
		var desc domain.SourceDescriptor
		if err := json.Unmarshal(item, &desc); err != nil {
			desc = domain.SourceDescriptor{}
		}
		out = append(out, desc)
	}
	return out
}

// validSources returns the descriptors that pass struct validation, in order.
// Rejected descriptors are logged and dropped.
func validSources(v *validator.Validate, sources []domain.SourceDescriptor, logger zerolog.Logger) []domain.SourceDescriptor {
	valid := make([]domain.SourceDescriptor, 0, len(sources))
	for i, src := range sources {
		if err := v.Struct(src); err != nil {
			logger.Warn().
				Int("index", i).
				Str("source", src.ID).
				Err(err).
				Msg("dropping invalid source descriptor")
			continue
		}
		valid = append(valid, src)
	}
	return valid
}
