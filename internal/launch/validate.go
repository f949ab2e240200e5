package launch

import (
	"errors"
	"fmt"
)

// ErrMissingField indicates a required document field is absent or empty.
// Validation failures abort the run before any storage write.
var ErrMissingField = errors.New("missing required field")

// RequiredFields is the default validation set for ingested documents.
var RequiredFields = []string{"id"}

// Validate checks that every named field is present and non-empty in doc.
// A field is invalid when absent, null, an empty string, zero, false, or an
// empty array/object. The first offending field is reported.
func Validate(doc Document, required ...string) error {
	if len(required) == 0 {
		required = RequiredFields
	}
	for _, field := range required {
		v, ok := doc[field]
		if !ok || isEmpty(v) {
			return fmt.Errorf("%w: %s", ErrMissingField, field)
		}
	}
	return nil
}

func isEmpty(v any) bool {
	switch t := v.(type) {
	case nil:
		return true
	case string:
		return t == ""
	case []any:
		return len(t) == 0
	case map[string]any:
		return len(t) == 0
	case bool:
		return !t
	case float64:
		return t == 0
	default:
		return false
	}
}
