package document

import (
	"errors"
	"testing"

	"github.com/tqgen/tqgen/form"
)

type recorder struct {
	sections    []form.Section
	statuses    []form.Status
	totals      []float64
	transitions []string

	submitEditingCalls int
	responseTotal      float64
	reviewerID         string
	correctTotal       float64
	correctPass        bool
	correctCalls       int
}

func (r *recorder) callbacks() Callbacks {
	return Callbacks{
		SetSections:     func(s []form.Section) { r.sections = s },
		SetStatus:       func(s form.Status) { r.statuses = append(r.statuses, s) },
		SetTotalScore:   func(t float64) { r.totals = append(r.totals, t) },
		OnSubmitEditing: func() { r.submitEditingCalls++ },
		OnSubmitResponse: func(total float64, reviewerID string) {
			r.responseTotal = total
			r.reviewerID = reviewerID
		},
		OnSubmitCorrect: func(total float64, pass bool) {
			r.correctTotal = total
			r.correctPass = pass
			r.correctCalls++
		},
		OnTransition: func(from, to form.Status, _ float64) {
			r.transitions = append(r.transitions, string(from)+">"+string(to))
		},
	}
}

func newTestController(t *testing.T, rec *recorder, cfg Config) *Controller {
	t.Helper()
	c, err := New(Params{
		Mode:      form.ModeTest,
		Role:      form.RoleEditor,
		Config:    cfg,
		Callbacks: rec.callbacks(),
	})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return c
}

func TestNewValidatesParams(t *testing.T) {
	if _, err := New(Params{Mode: form.Mode("exam")}); err == nil {
		t.Fatal("invalid mode accepted")
	}
	if _, err := New(Params{Mode: form.ModeTest, Status: form.Status("draft")}); err == nil {
		t.Fatal("invalid status accepted")
	}
	c, err := New(Params{Mode: form.ModeTest})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if c.Status() != form.StatusEditing {
		t.Fatalf("default status = %q, want editing", c.Status())
	}
	if c.ID() == "" {
		t.Fatal("no document id assigned")
	}
}

func TestAddSectionGating(t *testing.T) {
	rec := &recorder{}
	c := newTestController(t, rec, Config{})

	if err := c.AddSection(form.TypeSingle); err != nil {
		t.Fatalf("AddSection: %v", err)
	}
	if len(rec.sections) != 1 {
		t.Fatalf("setter saw %d sections, want 1", len(rec.sections))
	}

	// rating is not offered in test mode
	if err := c.AddSection(form.TypeRating); !errors.Is(err, form.ErrUnknownSectionType) {
		t.Fatalf("err = %v, want ErrUnknownSectionType", err)
	}
	if len(rec.sections) != 1 {
		t.Fatal("a section appeared despite the rejected type")
	}

	// no adds after publishing
	if err := c.SubmitEditing(); err != nil {
		t.Fatalf("SubmitEditing: %v", err)
	}
	if err := c.AddSection(form.TypeSingle); !errors.Is(err, ErrInvalidAction) {
		t.Fatalf("err = %v, want ErrInvalidAction", err)
	}
}

func TestEditSectionBoundaryChecks(t *testing.T) {
	rec := &recorder{}
	c := newTestController(t, rec, Config{})
	if err := c.AddSection(form.TypeEssay); err != nil {
		t.Fatalf("AddSection: %v", err)
	}
	id := rec.sections[0].ID

	if err := c.EditSection("", form.Patch{}); !errors.Is(err, ErrEmptyID) {
		t.Fatalf("err = %v, want ErrEmptyID", err)
	}
	if err := c.EditSection("ghost", form.Patch{}); !errors.Is(err, ErrSectionNotFound) {
		t.Fatalf("err = %v, want ErrSectionNotFound", err)
	}

	role := form.RoleResponder
	if err := c.EditSection(id, form.Patch{Role: &role}); err != nil {
		t.Fatalf("EditSection: %v", err)
	}
	if err := c.SubmitEditing(); err != nil {
		t.Fatalf("SubmitEditing: %v", err)
	}

	// the editor is not the section's responder; policy denies the write
	q := "late edit"
	if err := c.EditSection(id, form.Patch{Question: &q}); !errors.Is(err, ErrNotEditable) {
		t.Fatalf("err = %v, want ErrNotEditable", err)
	}
	c.SetRole(form.RoleResponder)
	if err := c.EditSection(id, form.Patch{Response: "my answer"}); err != nil {
		t.Fatalf("EditSection as responder: %v", err)
	}
}

func TestDeleteAndMoveOnlyWhileEditing(t *testing.T) {
	rec := &recorder{}
	c := newTestController(t, rec, Config{})
	for i := 0; i < 2; i++ {
		if err := c.AddSection(form.TypeSingle); err != nil {
			t.Fatalf("AddSection: %v", err)
		}
	}
	first := rec.sections[0].ID

	if err := c.MoveSection(0, 1); err != nil {
		t.Fatalf("MoveSection: %v", err)
	}
	if rec.sections[1].ID != first {
		t.Fatal("move did not reorder")
	}

	if err := c.SubmitEditing(); err != nil {
		t.Fatalf("SubmitEditing: %v", err)
	}
	if err := c.DeleteSection(first); !errors.Is(err, ErrInvalidAction) {
		t.Fatalf("err = %v, want ErrInvalidAction", err)
	}
	if err := c.MoveSection(0, 1); !errors.Is(err, ErrInvalidAction) {
		t.Fatalf("err = %v, want ErrInvalidAction", err)
	}
}

func TestPreviewExcursion(t *testing.T) {
	rec := &recorder{}
	c := newTestController(t, rec, Config{})

	if err := c.Preview(); err != nil {
		t.Fatalf("Preview: %v", err)
	}
	if c.Status() != form.StatusPreviewEditing {
		t.Fatalf("status = %q, want preview_editing", c.Status())
	}
	// no forward transition from preview
	if err := c.SubmitEditing(); !errors.Is(err, ErrInvalidAction) {
		t.Fatalf("err = %v, want ErrInvalidAction", err)
	}
	if err := c.ClosePreview(); err != nil {
		t.Fatalf("ClosePreview: %v", err)
	}
	if c.Status() != form.StatusEditing {
		t.Fatalf("status = %q, want editing", c.Status())
	}
}

func TestSubmitResponseValidationGate(t *testing.T) {
	rec := &recorder{}
	c := newTestController(t, rec, Config{})
	if err := c.AddSection(form.TypeSingle); err != nil {
		t.Fatalf("AddSection: %v", err)
	}
	if err := c.SubmitEditing(); err != nil {
		t.Fatalf("SubmitEditing: %v", err)
	}

	err := c.SubmitResponse("")
	if !errors.Is(err, form.ErrIncompleteResponse) {
		t.Fatalf("err = %v, want ErrIncompleteResponse", err)
	}
	if c.Status() != form.StatusWaitingForResponse {
		t.Fatalf("status advanced to %q despite missing responses", c.Status())
	}
}

// Full test-mode lifecycle: author two scored sections, answer both, submit,
// review, finish.
func TestLifecycleEndToEnd(t *testing.T) {
	rec := &recorder{}
	c := newTestController(t, rec, Config{AllowSelectReviewer: true})
	responder := form.RoleResponder

	if err := c.AddSection(form.TypeSingle); err != nil {
		t.Fatalf("AddSection: %v", err)
	}
	if err := c.AddSection(form.TypeMultiple); err != nil {
		t.Fatalf("AddSection: %v", err)
	}
	single, multiple := rec.sections[0], rec.sections[1]
	if err := c.EditSection(single.ID, form.Patch{
		Role: &responder, Score: f64(10), Answer: "A",
	}); err != nil {
		t.Fatalf("EditSection: %v", err)
	}
	if err := c.EditSection(multiple.ID, form.Patch{
		Role: &responder, Score: f64(10), Answer: []string{"B", "C"},
	}); err != nil {
		t.Fatalf("EditSection: %v", err)
	}

	if err := c.SubmitEditing(); err != nil {
		t.Fatalf("SubmitEditing: %v", err)
	}
	if rec.submitEditingCalls != 1 {
		t.Fatal("OnSubmitEditing not fired")
	}

	c.SetRole(form.RoleResponder)
	if err := c.SaveResponse(single.ID, "A"); err != nil {
		t.Fatalf("SaveResponse: %v", err)
	}
	if err := c.SaveResponse(multiple.ID, []string{"C", "B"}); err != nil {
		t.Fatalf("SaveResponse: %v", err)
	}
	if err := c.SubmitResponse("reviewer-7"); err != nil {
		t.Fatalf("SubmitResponse: %v", err)
	}
	if c.Status() != form.StatusWaitingForCorrect {
		t.Fatalf("status = %q, want waiting_for_correct", c.Status())
	}
	if rec.responseTotal != 20 || rec.reviewerID != "reviewer-7" {
		t.Fatalf("OnSubmitResponse got (%v, %q), want (20, reviewer-7)", rec.responseTotal, rec.reviewerID)
	}
	for _, s := range rec.sections {
		if s.FinalScore != 10 {
			t.Fatalf("section %s scored %v, want 10", s.ID, s.FinalScore)
		}
	}

	c.SetRole(form.RoleCorrector)
	if err := c.SubmitCorrect(); err != nil {
		t.Fatalf("SubmitCorrect: %v", err)
	}
	if c.Status() != form.StatusFinished {
		t.Fatalf("status = %q, want finished", c.Status())
	}
	if rec.correctTotal != 20 || !rec.correctPass {
		t.Fatalf("OnSubmitCorrect got (%v, %v), want (20, true)", rec.correctTotal, rec.correctPass)
	}

	want := []string{
		"editing>waiting_for_response",
		"waiting_for_response>waiting_for_correct",
		"waiting_for_correct>finished",
	}
	if len(rec.transitions) != len(want) {
		t.Fatalf("transitions = %v, want %v", rec.transitions, want)
	}
	for i := range want {
		if rec.transitions[i] != want[i] {
			t.Fatalf("transition %d = %q, want %q", i, rec.transitions[i], want[i])
		}
	}
}

// Questionnaire lifecycle: no response-completeness gate, only Single,
// Multiple and Rating feed the total, and the document verdict is always
// true.
func TestLifecycleQuestionnaire(t *testing.T) {
	rec := &recorder{}
	c, err := New(Params{
		Mode:      form.ModeQuestionnaire,
		Role:      form.RoleEditor,
		Callbacks: rec.callbacks(),
	})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	responder := form.RoleResponder

	for _, typ := range []form.SectionType{form.TypeSingle, form.TypeMultiple, form.TypeRating, form.TypeEssay} {
		if err := c.AddSection(typ); err != nil {
			t.Fatalf("AddSection(%s): %v", typ, err)
		}
	}
	single, multiple, rating, essay := rec.sections[0], rec.sections[1], rec.sections[2], rec.sections[3]

	if err := c.EditSection(single.ID, form.Patch{
		Role: &responder, Options: scoredOptions(single.Options, 3, 1, 0),
	}); err != nil {
		t.Fatalf("EditSection: %v", err)
	}
	if err := c.EditSection(multiple.ID, form.Patch{
		Role: &responder, Options: scoredOptions(multiple.Options, 2, 5, 9),
	}); err != nil {
		t.Fatalf("EditSection: %v", err)
	}
	for _, id := range []string{rating.ID, essay.ID} {
		if err := c.EditSection(id, form.Patch{Role: &responder}); err != nil {
			t.Fatalf("EditSection: %v", err)
		}
	}

	if err := c.SubmitEditing(); err != nil {
		t.Fatalf("SubmitEditing: %v", err)
	}
	c.SetRole(form.RoleResponder)
	if err := c.SaveResponse(single.ID, single.Options[0].Key); err != nil {
		t.Fatalf("SaveResponse: %v", err)
	}
	if err := c.SaveResponse(multiple.ID, []string{multiple.Options[0].Key, multiple.Options[1].Key}); err != nil {
		t.Fatalf("SaveResponse: %v", err)
	}
	if err := c.SaveResponse(rating.ID, 4.0); err != nil {
		t.Fatalf("SaveResponse: %v", err)
	}

	// the essay is left blank: questionnaires submit without a completeness
	// check
	if err := c.SubmitResponse(""); err != nil {
		t.Fatalf("SubmitResponse: %v", err)
	}
	if c.Status() != form.StatusWaitingForCorrect {
		t.Fatalf("status = %q, want waiting_for_correct", c.Status())
	}
	// 3 (single) + 2+5 (multiple) + 4 (rating); the essay never counts
	if rec.responseTotal != 14 {
		t.Fatalf("OnSubmitResponse total = %v, want 14", rec.responseTotal)
	}

	c.SetRole(form.RoleCorrector)
	if err := c.SubmitCorrect(); err != nil {
		t.Fatalf("SubmitCorrect: %v", err)
	}
	if c.Status() != form.StatusFinished {
		t.Fatalf("status = %q, want finished", c.Status())
	}
	if rec.correctTotal != 14 || !rec.correctPass {
		t.Fatalf("OnSubmitCorrect got (%v, %v), want (14, true)", rec.correctTotal, rec.correctPass)
	}
}

// scoredOptions copies opts and assigns the given per-option scores.
func scoredOptions(opts []form.Option, scores ...float64) []form.Option {
	out := make([]form.Option, len(opts))
	copy(out, opts)
	for i := range out {
		if i < len(scores) {
			out[i].OptionScore = scores[i]
		}
	}
	return out
}

func TestOverrideReviewRefreshesTotal(t *testing.T) {
	rec := &recorder{}
	c := newTestController(t, rec, Config{})
	responder := form.RoleResponder
	if err := c.AddSection(form.TypeEssay); err != nil {
		t.Fatalf("AddSection: %v", err)
	}
	id := rec.sections[0].ID
	if err := c.EditSection(id, form.Patch{Role: &responder, Score: f64(10)}); err != nil {
		t.Fatalf("EditSection: %v", err)
	}
	if err := c.SubmitEditing(); err != nil {
		t.Fatalf("SubmitEditing: %v", err)
	}
	c.SetRole(form.RoleResponder)
	if err := c.SaveResponse(id, "an essay"); err != nil {
		t.Fatalf("SaveResponse: %v", err)
	}
	if err := c.SubmitResponse(""); err != nil {
		t.Fatalf("SubmitResponse: %v", err)
	}
	if c.TotalScore() != 0 {
		t.Fatalf("unreviewed essay total = %v, want 0", c.TotalScore())
	}

	c.SetRole(form.RoleCorrector)
	if err := c.OverrideReview(id, true); err != nil {
		t.Fatalf("OverrideReview: %v", err)
	}
	if c.TotalScore() != 10 {
		t.Fatalf("total after pass verdict = %v, want 10", c.TotalScore())
	}
	if err := c.OverrideReview(id, false); err != nil {
		t.Fatalf("OverrideReview: %v", err)
	}
	if c.TotalScore() != 0 {
		t.Fatalf("total after fail verdict = %v, want 0", c.TotalScore())
	}

	if err := c.SubmitCorrect(); err != nil {
		t.Fatalf("SubmitCorrect: %v", err)
	}
	if rec.correctPass {
		t.Fatal("document verdict true despite a failed section")
	}
}

func TestRecorrectRequiresConfiguration(t *testing.T) {
	rec := &recorder{}
	c := finished(t, rec, Config{})
	if err := c.Recorrect(); !errors.Is(err, ErrInvalidAction) {
		t.Fatalf("err = %v, want ErrInvalidAction", err)
	}
}

func TestRecorrectReopensFinishedDocument(t *testing.T) {
	rec := &recorder{}
	cfg := Config{AllowReCorrect: true, AllowUpdateAfterFinished: true}
	c := finished(t, rec, cfg)
	id := rec.sections[0].ID

	// closed again after finishing
	if err := c.OverrideReview(id, true); !errors.Is(err, ErrInvalidAction) {
		t.Fatalf("err = %v, want ErrInvalidAction before reopening", err)
	}

	if err := c.Recorrect(); err != nil {
		t.Fatalf("Recorrect: %v", err)
	}
	if err := c.OverrideReview(id, true); err != nil {
		t.Fatalf("OverrideReview after reopen: %v", err)
	}
	if c.TotalScore() != 10 {
		t.Fatalf("total = %v, want 10", c.TotalScore())
	}
	calls := rec.correctCalls
	if err := c.SubmitCorrect(); err != nil {
		t.Fatalf("SubmitCorrect: %v", err)
	}
	if c.Status() != form.StatusFinished {
		t.Fatalf("status = %q, want finished after re-correction", c.Status())
	}
	if rec.correctCalls != calls+1 || !rec.correctPass {
		t.Fatal("re-correction did not report a fresh verdict")
	}
	// the reopen window closes once re-submitted
	if err := c.OverrideReview(id, false); !errors.Is(err, ErrInvalidAction) {
		t.Fatalf("err = %v, want ErrInvalidAction after closing", err)
	}
}

// finished drives a one-essay test document to the finished status with the
// essay left unreviewed.
func finished(t *testing.T, rec *recorder, cfg Config) *Controller {
	t.Helper()
	c := newTestController(t, rec, cfg)
	corrector := form.RoleCorrector
	if err := c.AddSection(form.TypeEssay); err != nil {
		t.Fatalf("AddSection: %v", err)
	}
	id := rec.sections[0].ID
	if err := c.EditSection(id, form.Patch{Role: &corrector, Score: f64(10)}); err != nil {
		t.Fatalf("EditSection: %v", err)
	}
	if err := c.SubmitEditing(); err != nil {
		t.Fatalf("SubmitEditing: %v", err)
	}
	c.SetRole(form.RoleCorrector)
	if err := c.SaveResponse(id, "answer text"); err != nil {
		t.Fatalf("SaveResponse: %v", err)
	}
	if err := c.SubmitResponse(""); err != nil {
		t.Fatalf("SubmitResponse: %v", err)
	}
	if err := c.SubmitCorrect(); err != nil {
		t.Fatalf("SubmitCorrect: %v", err)
	}
	return c
}

func f64(v float64) *float64 { return &v }
