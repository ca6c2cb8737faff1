package form

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
)

// Per-variant creation defaults. Every initializer returns a fully populated
// section: no answer/response field is left in an out-of-shape state, so the
// result is immediately valid for its type.

const (
	trueFalseOptionCount = 2
	defaultOptionCount   = 3

	DefaultRatingMin = 0
	DefaultRatingMax = 5
	DefaultRatingGap = 1
)

// ErrUnknownSectionType is returned by NewSection for a type outside the six
// variants. No section is created in that case.
var ErrUnknownSectionType = errors.New("form: unknown section type")

// NewSection builds a section of the given type with variant-appropriate
// defaults, stamped with a fresh id and the owning document's mode.
func NewSection(mode Mode, typ SectionType) (Section, error) {
	s := Section{
		ID:       uuid.NewString(),
		Type:     typ,
		Mode:     mode,
		IsEdit:   true,
		Answer:   "",
		Response: "",
	}
	switch typ {
	case TypeTrueFalse:
		s.Options = initTrueFalseOptions(s.ID)
	case TypeSingle, TypeMultiple:
		s.Options = initChoiceOptions(s.ID, defaultOptionCount)
		if typ == TypeMultiple {
			s.Answer = []string{}
			s.Response = []string{}
		}
	case TypeField:
		s.AnswerType = FieldInput
	case TypeEssay:
		// base defaults already fit: empty answer and response
	case TypeRating:
		s.RatingType = RatingNumber
		s.Rating = 0
		s.Min = DefaultRatingMin
		s.Max = DefaultRatingMax
		s.RatingGap = DefaultRatingGap
		s.Answer = nil
		s.Response = nil
	default:
		return Section{}, fmt.Errorf("%w: %q", ErrUnknownSectionType, typ)
	}
	return s, nil
}

// initTrueFalseOptions returns the fixed O/X pair.
func initTrueFalseOptions(sectionID string) []Option {
	labels := [trueFalseOptionCount]string{"O", "X"}
	opts := make([]Option, trueFalseOptionCount)
	for i := range opts {
		key := fmt.Sprintf("%s-%d", sectionID, i)
		opts[i] = Option{Key: key, Label: labels[i], Value: key}
	}
	return opts
}

func initChoiceOptions(sectionID string, n int) []Option {
	opts := make([]Option, n)
	for i := range opts {
		key := fmt.Sprintf("%s-%d", sectionID, i)
		opts[i] = Option{Key: key, Label: "", Value: key}
	}
	return opts
}

// NewOption returns an option stub with a fresh unique key for appending to
// a Single/Multiple section during editing.
func NewOption() Option {
	key := uuid.NewString()
	return Option{Key: key, Value: key}
}
