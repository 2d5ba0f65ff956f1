package mirror

import (
	jsoniter "github.com/json-iterator/go"
	"github.com/rs/zerolog/log"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// encode serializes v for a JSON text column, nil on failure or nil input
func encode(v any) *string {
	if v == nil {
		return nil
	}
	s, err := json.MarshalToString(v)
	if err != nil {
		log.Warn().Err(err).Msg("cannot serialize cache column")
		return nil
	}
	return &s
}

// decode parses a stored JSON column into T. The columns are written only by
// this package, but corrupted local storage or version skew can still leave
// malformed text behind; such a column is logged and treated as absent rather
// than failing the whole read path.
func decode[T any](col *string, rowID, field string) *T {
	if col == nil || *col == "" {
		return nil
	}
	var v T
	if err := json.UnmarshalFromString(*col, &v); err != nil {
		log.Warn().Err(err).Str("row", rowID).Str("field", field).Msg("corrupted cache column, dropping value")
		return nil
	}
	return &v
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
