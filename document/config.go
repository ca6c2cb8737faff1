package document

import "github.com/tqgen/tqgen/form"

// Config carries the document-level capability flags supplied by the host.
// All flags default to off; the zero Config is the most restrictive
// configuration.
type Config struct {
	AllowSelectReviewer      bool `json:"is_allow_select_reviewer"`
	AllowReCorrect           bool `json:"is_allow_re_correct"`
	AllowReviewWithAnswer    bool `json:"is_allow_review_with_answer"`
	ShowCorrectContent       bool `json:"is_show_correct_content"`
	ShowCorrectActionPass    bool `json:"is_show_correct_action_pass"`
	ShowCorrectActionSubmit  bool `json:"is_show_correct_action_submit"`
	AllowReSelectReviewer    bool `json:"is_allow_re_select_reviewer"`
	ShowCurrentFinalScore    bool `json:"is_show_current_final_total_score"`
	ReCorrecting             bool `json:"is_re_correcting"`
	AllowUpdateAfterFinished bool `json:"is_allow_update_after_finished"`

	// ReviewerOptions feeds the host's reviewer-selection list when
	// AllowSelectReviewer is set.
	ReviewerOptions []form.Option `json:"reviewer_options,omitempty"`
}
