package grading

import (
	"errors"
	"fmt"

	"github.com/tqgen/tqgen/form"
)

// Manual review of the types automatic grading cannot judge. Kept apart
// from the Strategy pass so automatic and manual scoring stay separately
// auditable.

// ErrNotReviewable is returned when a review targets a section type that is
// auto-graded.
var ErrNotReviewable = errors.New("grading: section type is not manually reviewable")

// Review is a reviewer's verdict on a Field or Essay section.
type Review struct {
	Pass bool
}

// ApplyReview stamps the verdict onto the section: pass sets FinalScore to
// the section's point value, fail sets it to 0. Applying the same review
// twice is a no-op. The input section is not mutated.
func ApplyReview(s form.Section, r Review) (form.Section, error) {
	if s.Type != form.TypeField && s.Type != form.TypeEssay {
		return s, fmt.Errorf("%w: %q", ErrNotReviewable, s.Type)
	}
	v := r.Pass
	s.IsPass = &v
	if v {
		s.FinalScore = s.Score
	} else {
		s.FinalScore = 0
	}
	return s, nil
}
