package form

// Collection operations. All four are total, pure transforms: the input
// slice and its sections are never mutated, and sections an operation does
// not touch are carried over as-is so callers can diff cheaply.

// Patch carries the fields an edit wants to change. Pointer fields left nil
// are untouched; that lets a patch set a legitimate zero value (a score of
// 0, IsEdit false) explicitly. Answer, Response and Options use nil as the
// "unchanged" marker since nil is not a meaningful value for any of them
// outside the dedicated reset helpers.
type Patch struct {
	Question   *string
	Role       *Role
	IsEdit     *bool
	Score      *float64
	FinalScore *float64
	IsPass     *bool

	Answer   interface{}
	Response interface{}
	Options  []Option

	AnswerType *FieldAnswerType
	RatingType *RatingStyle
	Rating     *float64
	Min        *float64
	Max        *float64
	RatingGap  *float64
}

func (p Patch) apply(s Section) Section {
	if p.Question != nil {
		s.Question = *p.Question
	}
	if p.Role != nil {
		s.Role = *p.Role
	}
	if p.IsEdit != nil {
		s.IsEdit = *p.IsEdit
	}
	if p.Score != nil {
		s.Score = *p.Score
	}
	if p.FinalScore != nil {
		s.FinalScore = *p.FinalScore
	}
	if p.IsPass != nil {
		v := *p.IsPass
		s.IsPass = &v
	}
	if p.Answer != nil {
		s.Answer = p.Answer
	}
	if p.Response != nil {
		s.Response = p.Response
	}
	if p.Options != nil {
		s.Options = p.Options
	}
	if p.AnswerType != nil {
		s.AnswerType = *p.AnswerType
	}
	if p.RatingType != nil {
		s.RatingType = *p.RatingType
	}
	if p.Rating != nil {
		s.Rating = *p.Rating
	}
	if p.Min != nil {
		s.Min = *p.Min
	}
	if p.Max != nil {
		s.Max = *p.Max
	}
	if p.RatingGap != nil {
		s.RatingGap = *p.RatingGap
	}
	return s
}

// Add appends a freshly initialized section of the given type. Every
// existing section leaves edit mode so the new one is the single active
// edit. Returns the input unchanged alongside the error when the type is
// unknown.
func Add(sections []Section, mode Mode, typ SectionType) ([]Section, error) {
	next, err := NewSection(mode, typ)
	if err != nil {
		return sections, err
	}
	out := make([]Section, 0, len(sections)+1)
	for _, s := range sections {
		s.IsEdit = false
		out = append(out, s)
	}
	return append(out, next), nil
}

// Edit merges patch into the section with the matching id. When the patch
// puts a section into edit mode, every other section leaves it. A miss on
// id returns a copy of the input untouched; not an error.
func Edit(sections []Section, id string, patch Patch) []Section {
	out := make([]Section, len(sections))
	for i, s := range sections {
		switch {
		case s.ID == id:
			out[i] = patch.apply(s)
		case patch.IsEdit != nil && *patch.IsEdit:
			s.IsEdit = false
			out[i] = s
		default:
			out[i] = s
		}
	}
	return out
}

// Delete removes the section with the matching id; no-op if absent.
func Delete(sections []Section, id string) []Section {
	out := make([]Section, 0, len(sections))
	for _, s := range sections {
		if s.ID != id {
			out = append(out, s)
		}
	}
	return out
}

// Move shifts the section at from to position to, sliding the sections in
// between. Out-of-range indexes return a copy of the input unchanged.
func Move(sections []Section, from, to int) []Section {
	out := make([]Section, len(sections))
	copy(out, sections)
	if from < 0 || from >= len(out) || to < 0 || to >= len(out) || from == to {
		return out
	}
	s := out[from]
	if from < to {
		copy(out[from:to], out[from+1:to+1])
	} else {
		copy(out[to+1:from+1], out[to:from])
	}
	out[to] = s
	return out
}

// FindIndex returns the position of the section with the given id, or -1.
func FindIndex(sections []Section, id string) int {
	for i := range sections {
		if sections[i].ID == id {
			return i
		}
	}
	return -1
}
