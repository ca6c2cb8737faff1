package form

import (
	"encoding/json"
	"errors"
	"fmt"
)

// ErrIncompleteResponse reports a test submission with at least one
// unanswered section. It is recoverable: the host surfaces a message and the
// document stays in waiting_for_response.
var ErrIncompleteResponse = errors.New("form: incomplete responses")

// ValidateTestResponse checks that every section carries a response (or a
// non-zero rating for Rating sections) before a test submission may advance.
func ValidateTestResponse(sections []Section) error {
	for i, s := range sections {
		if s.Type == TypeRating {
			if s.Rating == 0 {
				return fmt.Errorf("%w: section %d (%s) has no rating", ErrIncompleteResponse, i, s.ID)
			}
			continue
		}
		if emptyResponse(s.Response) {
			return fmt.Errorf("%w: section %d (%s) has no response", ErrIncompleteResponse, i, s.ID)
		}
	}
	return nil
}

// emptyResponse treats every zero value as unanswered. Known limitation:
// a number-field answer of exactly 0 is indistinguishable from no answer
// and fails validation.
func emptyResponse(v interface{}) bool {
	switch t := v.(type) {
	case nil:
		return true
	case string:
		return t == ""
	case float64:
		return t == 0
	case int:
		return t == 0
	case []string:
		return len(t) == 0
	case []interface{}:
		return len(t) == 0
	default:
		return false
	}
}

// LoadSections decodes a persisted collection. Every entry must carry a
// non-empty id and a known type; one bad entry invalidates the whole load so
// the caller's current collection stays untouched.
func LoadSections(data []byte) ([]Section, error) {
	var sections []Section
	if err := json.Unmarshal(data, &sections); err != nil {
		return nil, fmt.Errorf("form: decode sections: %w", err)
	}
	for i, s := range sections {
		if s.ID == "" {
			return nil, fmt.Errorf("form: section %d has an empty id", i)
		}
		if !s.Type.Valid() {
			return nil, fmt.Errorf("form: section %d (%s): %w: %q", i, s.ID, ErrUnknownSectionType, s.Type)
		}
	}
	return sections, nil
}

// MarshalSections is the inverse of LoadSections.
func MarshalSections(sections []Section) ([]byte, error) {
	return json.Marshal(sections)
}
