package form

// Mode is the document kind. It decides which section types are offered
// and which scoring rules apply.
type Mode string

const (
	ModeTest          Mode = "test"
	ModeQuestionnaire Mode = "questionnaire"
)

func (m Mode) Valid() bool {
	return m == ModeTest || m == ModeQuestionnaire
}

// Status is the document-level workflow stage.
type Status string

const (
	StatusEditing            Status = "editing"
	StatusPreviewEditing     Status = "preview_editing"
	StatusWaitingForResponse Status = "waiting_for_response"
	StatusWaitingForCorrect  Status = "waiting_for_correct"
	StatusFinished           Status = "finished"
	// StatusArchived is never produced by the controller; hosts may supply it
	// for documents retired out-of-band. Treated as read-only everywhere.
	StatusArchived Status = "archived"
)

func (s Status) Valid() bool {
	switch s {
	case StatusEditing, StatusPreviewEditing, StatusWaitingForResponse,
		StatusWaitingForCorrect, StatusFinished, StatusArchived:
		return true
	}
	return false
}

// Role identifies which party a section or viewer is associated with.
// Open string type: hosts may introduce their own roles, these are the
// well-known ones.
type Role string

const (
	RoleEditor    Role = "editor"
	RoleResponder Role = "responder"
	RoleCorrector Role = "corrector"
	RoleViewer    Role = "viewer"
)

// SectionType tags the six section variants.
type SectionType string

const (
	TypeTrueFalse SectionType = "true_false"
	TypeSingle    SectionType = "single"
	TypeMultiple  SectionType = "multiple"
	TypeField     SectionType = "field"
	TypeEssay     SectionType = "essay"
	TypeRating    SectionType = "rating"
)

func (t SectionType) Valid() bool {
	switch t {
	case TypeTrueFalse, TypeSingle, TypeMultiple, TypeField, TypeEssay, TypeRating:
		return true
	}
	return false
}

// FieldAnswerType selects the value type of a Field section.
type FieldAnswerType string

const (
	FieldInput  FieldAnswerType = "input"
	FieldNumber FieldAnswerType = "number"
	FieldDate   FieldAnswerType = "date"
)

// RatingStyle selects how a Rating section collects its value.
type RatingStyle string

const (
	RatingNumber RatingStyle = "number"
	RatingClick  RatingStyle = "click"
)

// Option is a selectable choice owned by a TrueFalse, Single or Multiple
// section. OptionScore only matters in questionnaire mode; IsChecked is a
// transient UI flag and carries no scoring weight.
type Option struct {
	Key         string  `json:"key"`
	Label       string  `json:"label"`
	Value       string  `json:"value"`
	OptionScore float64 `json:"option_score,omitempty"`
	IsChecked   bool    `json:"is_checked,omitempty"`
}

// Section is one question/item within a document. The variant fields past
// the base block are only meaningful for the types that declare them.
//
// Answer and Response hold a string (TrueFalse/Single/Field-input/Essay),
// a float64 (Field-number) or a []string set of option keys (Multiple).
// A []interface{} of strings, as produced by a JSON reload, is accepted
// wherever a []string is.
type Section struct {
	ID       string      `json:"id"`
	Type     SectionType `json:"type"`
	Mode     Mode        `json:"mode"`
	Role     Role        `json:"role,omitempty"`
	IsEdit   bool        `json:"is_edit,omitempty"`
	Question string      `json:"question"`

	Answer     interface{} `json:"answer,omitempty"`
	Response   interface{} `json:"response,omitempty"`
	Score      float64     `json:"score"`
	FinalScore float64     `json:"final_score"`
	IsPass     *bool       `json:"is_pass,omitempty"`

	// TrueFalse / Single / Multiple
	Options []Option `json:"options,omitempty"`

	// Field
	AnswerType FieldAnswerType `json:"answer_type,omitempty"`

	// Rating
	RatingType RatingStyle `json:"rating_type,omitempty"`
	Rating     float64     `json:"rating,omitempty"`
	Min        float64     `json:"min,omitempty"`
	Max        float64     `json:"max,omitempty"`
	RatingGap  float64     `json:"rating_gap,omitempty"`
}

// TypesForMode lists the section types offered when authoring a document of
// the given mode. Rating is questionnaire-only; TrueFalse is test-only.
func TypesForMode(mode Mode) []SectionType {
	switch mode {
	case ModeTest:
		return []SectionType{TypeTrueFalse, TypeSingle, TypeMultiple, TypeField, TypeEssay}
	case ModeQuestionnaire:
		return []SectionType{TypeSingle, TypeMultiple, TypeField, TypeEssay, TypeRating}
	default:
		return nil
	}
}

// StringSlice normalizes a Multiple answer/response payload. A JSON reload
// turns []string into []interface{}; both are accepted.
func StringSlice(v interface{}) ([]string, bool) {
	switch t := v.(type) {
	case []string:
		return t, true
	case []interface{}:
		out := make([]string, 0, len(t))
		for _, e := range t {
			s, ok := e.(string)
			if !ok {
				return nil, false
			}
			out = append(out, s)
		}
		return out, true
	case nil:
		return nil, true
	default:
		return nil, false
	}
}
