// Package document orchestrates a form document's status state machine. The
// controller owns no persistence: every mutation produces a new section
// collection handed back through the caller-supplied setter, and scores
// computed at transition boundaries travel through the action callbacks.
package document

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/tqgen/tqgen/form"
	"github.com/tqgen/tqgen/grading"
	"github.com/tqgen/tqgen/policy"
)

var (
	// ErrInvalidTransition rejects a status change the machine does not allow.
	ErrInvalidTransition = errors.New("document: invalid status transition")
	// ErrInvalidAction rejects an action requested outside its defined status.
	ErrInvalidAction = errors.New("document: action not allowed in current status")
	// ErrEmptyID rejects an edit or delete aimed at a blank section id.
	ErrEmptyID = errors.New("document: empty section id")
	// ErrNotEditable rejects a response write the editability policy denies.
	ErrNotEditable = errors.New("document: section is not editable by this role")
	// ErrSectionNotFound rejects an action aimed at an id the collection
	// does not contain.
	ErrSectionNotFound = errors.New("document: section not found")
)

// Callbacks are the host's side of the boundary. Nil members are skipped.
type Callbacks struct {
	SetSections   func([]form.Section)
	SetStatus     func(form.Status)
	SetTotalScore func(float64)

	OnSubmitEditing  func()
	OnSubmitResponse func(total float64, reviewerID string)
	OnSubmitCorrect  func(total float64, pass bool)

	// OnTransition fires after every accepted status change; hosts typically
	// point it at a docstore.EventLog.
	OnTransition func(from, to form.Status, total float64)
}

// Params configures a new controller.
type Params struct {
	ID        string // document id; a fresh UUID when empty
	Mode      form.Mode
	Role      form.Role // the ambient viewer role
	Status    form.Status
	Sections  []form.Section
	Config    Config
	Callbacks Callbacks
}

// Controller holds one document's collection and status and validates every
// action against the machine:
//
//	editing -> preview_editing (excursion, returns to editing)
//	editing -> waiting_for_response
//	waiting_for_response -> waiting_for_correct
//	waiting_for_correct -> finished
type Controller struct {
	id       string
	mode     form.Mode
	role     form.Role
	status   form.Status
	sections []form.Section
	config   Config
	cb       Callbacks
	total    float64

	// recorrecting marks a finished document the host has re-opened for
	// correction; the status nominally stays finished.
	recorrecting bool
}

// New validates the params and returns a controller. Status defaults to
// editing.
func New(p Params) (*Controller, error) {
	if !p.Mode.Valid() {
		return nil, fmt.Errorf("document: invalid mode %q", p.Mode)
	}
	if p.Status == "" {
		p.Status = form.StatusEditing
	}
	if !p.Status.Valid() {
		return nil, fmt.Errorf("document: invalid status %q", p.Status)
	}
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	return &Controller{
		id:           p.ID,
		mode:         p.Mode,
		role:         p.Role,
		status:       p.Status,
		sections:     p.Sections,
		config:       p.Config,
		cb:           p.Callbacks,
		recorrecting: p.Config.ReCorrecting,
	}, nil
}

func (c *Controller) ID() string          { return c.id }
func (c *Controller) Mode() form.Mode     { return c.mode }
func (c *Controller) Role() form.Role     { return c.role }
func (c *Controller) Status() form.Status { return c.status }
func (c *Controller) TotalScore() float64 { return c.total }

// Sections returns a copy of the current collection.
func (c *Controller) Sections() []form.Section {
	out := make([]form.Section, len(c.sections))
	copy(out, c.sections)
	return out
}

// SetRole changes the ambient viewer role, e.g. when the host hands the
// document from the responder to the corrector.
func (c *Controller) SetRole(role form.Role) { c.role = role }

func (c *Controller) caps() policy.Capabilities {
	return policy.Capabilities{
		AllowReCorrect:           c.config.AllowReCorrect,
		AllowUpdateAfterFinished: c.config.AllowUpdateAfterFinished,
	}
}

func (c *Controller) emitSections(sections []form.Section) {
	c.sections = sections
	if c.cb.SetSections != nil {
		c.cb.SetSections(sections)
	}
}

func (c *Controller) emitTotal(total float64) {
	c.total = total
	if c.cb.SetTotalScore != nil {
		c.cb.SetTotalScore(total)
	}
}

var transitions = map[form.Status][]form.Status{
	form.StatusEditing:            {form.StatusPreviewEditing, form.StatusWaitingForResponse},
	form.StatusPreviewEditing:     {form.StatusEditing},
	form.StatusWaitingForResponse: {form.StatusWaitingForCorrect},
	form.StatusWaitingForCorrect:  {form.StatusFinished},
}

func (c *Controller) transition(to form.Status) error {
	for _, allowed := range transitions[c.status] {
		if allowed == to {
			from := c.status
			c.status = to
			if c.cb.SetStatus != nil {
				c.cb.SetStatus(to)
			}
			if c.cb.OnTransition != nil {
				c.cb.OnTransition(from, to, c.total)
			}
			return nil
		}
	}
	log.Error().Str("document", c.id).Str("from", string(c.status)).Str("to", string(to)).
		Msg("document: rejected status transition")
	return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, c.status, to)
}

// --- authoring actions ---

// AddSection appends a new section of the given type. Only valid while
// editing, and only for types the document's mode offers.
func (c *Controller) AddSection(typ form.SectionType) error {
	if c.status != form.StatusEditing {
		return fmt.Errorf("%w: add section in %s", ErrInvalidAction, c.status)
	}
	allowed := false
	for _, t := range form.TypesForMode(c.mode) {
		if t == typ {
			allowed = true
			break
		}
	}
	if !allowed {
		log.Error().Str("document", c.id).Str("type", string(typ)).Str("mode", string(c.mode)).
			Msg("document: section type not offered for mode")
		return fmt.Errorf("%w: %q for mode %q", form.ErrUnknownSectionType, typ, c.mode)
	}
	next, err := form.Add(c.sections, c.mode, typ)
	if err != nil {
		return err
	}
	c.emitSections(next)
	return nil
}

// EditSection merges a patch into one section. Allowed while editing; in
// later statuses the editability policy decides per section and role.
func (c *Controller) EditSection(id string, patch form.Patch) error {
	if id == "" {
		return ErrEmptyID
	}
	i := form.FindIndex(c.sections, id)
	if i < 0 {
		return fmt.Errorf("%w: %s", ErrSectionNotFound, id)
	}
	if !policy.Editable(c.status, c.role, c.sections[i], c.caps()) {
		return fmt.Errorf("%w: %s in %s", ErrNotEditable, id, c.status)
	}
	c.emitSections(form.Edit(c.sections, id, patch))
	return nil
}

// DeleteSection removes one section; sections only leave during editing.
func (c *Controller) DeleteSection(id string) error {
	if id == "" {
		return ErrEmptyID
	}
	if c.status != form.StatusEditing {
		return fmt.Errorf("%w: delete section in %s", ErrInvalidAction, c.status)
	}
	c.emitSections(form.Delete(c.sections, id))
	return nil
}

// MoveSection reorders the collection; only meaningful while editing.
func (c *Controller) MoveSection(from, to int) error {
	if c.status != form.StatusEditing {
		return fmt.Errorf("%w: reorder in %s", ErrInvalidAction, c.status)
	}
	c.emitSections(form.Move(c.sections, from, to))
	return nil
}

// Preview enters the read-only rehearsal of the authored form.
func (c *Controller) Preview() error {
	if c.status != form.StatusEditing {
		return fmt.Errorf("%w: preview in %s", ErrInvalidAction, c.status)
	}
	return c.transition(form.StatusPreviewEditing)
}

// ClosePreview returns from the rehearsal to editing.
func (c *Controller) ClosePreview() error {
	if c.status != form.StatusPreviewEditing {
		return fmt.Errorf("%w: close preview in %s", ErrInvalidAction, c.status)
	}
	return c.transition(form.StatusEditing)
}

// SubmitEditing publishes the document for responses.
func (c *Controller) SubmitEditing() error {
	if c.status != form.StatusEditing {
		return fmt.Errorf("%w: submit editing in %s", ErrInvalidAction, c.status)
	}
	if err := c.transition(form.StatusWaitingForResponse); err != nil {
		return err
	}
	if c.cb.OnSubmitEditing != nil {
		c.cb.OnSubmitEditing()
	}
	return nil
}

// --- response actions ---

// SaveResponse records a respondent's value for one section, subject to the
// editability policy. Rating sections route through the clamp-and-snap
// helper; everything else writes the response payload as-is.
func (c *Controller) SaveResponse(id string, value interface{}) error {
	if id == "" {
		return ErrEmptyID
	}
	if c.status != form.StatusWaitingForResponse && !c.reviewOpen() {
		return fmt.Errorf("%w: save response in %s", ErrInvalidAction, c.status)
	}
	i := form.FindIndex(c.sections, id)
	if i < 0 {
		return fmt.Errorf("%w: %s", ErrSectionNotFound, id)
	}
	s := c.sections[i]
	if !policy.Editable(c.status, c.role, s, c.caps()) {
		return fmt.Errorf("%w: %s in %s", ErrNotEditable, id, c.status)
	}
	out := make([]form.Section, len(c.sections))
	copy(out, c.sections)
	if s.Type == form.TypeRating {
		v, ok := value.(float64)
		if !ok {
			return fmt.Errorf("document: rating response must be a number, got %T", value)
		}
		out[i] = form.EditRating(s, v)
	} else {
		s.Response = value
		out[i] = s
	}
	c.emitSections(out)
	return nil
}

// SubmitResponse closes the response phase: in test mode the response set is
// validated first, then the mode's scoring pass runs and the document moves
// to waiting_for_correct. reviewerID names the chosen corrector when the
// configuration allows selecting one.
func (c *Controller) SubmitResponse(reviewerID string) error {
	if c.status != form.StatusWaitingForResponse {
		return fmt.Errorf("%w: submit response in %s", ErrInvalidAction, c.status)
	}
	if c.mode == form.ModeTest {
		if err := form.ValidateTestResponse(c.sections); err != nil {
			return err
		}
	}
	corrected, total := grading.Correct(c.mode, c.sections)
	c.emitSections(corrected)
	c.emitTotal(total)
	if err := c.transition(form.StatusWaitingForCorrect); err != nil {
		return err
	}
	if c.cb.OnSubmitResponse != nil {
		c.cb.OnSubmitResponse(total, reviewerID)
	}
	return nil
}

// --- correction actions ---

// reviewOpen reports whether correction-phase actions are currently
// available: either the document is waiting for correction, or it is
// finished and has been re-opened under the re-correct capability.
func (c *Controller) reviewOpen() bool {
	if c.status == form.StatusWaitingForCorrect {
		return true
	}
	return c.status == form.StatusFinished && c.recorrecting &&
		c.config.AllowReCorrect && c.config.AllowUpdateAfterFinished
}

// OverrideReview records the reviewer's verdict on a Field or Essay section
// and refreshes the aggregate, so the running total never trusts a stale
// cache across a verdict change.
func (c *Controller) OverrideReview(id string, pass bool) error {
	if id == "" {
		return ErrEmptyID
	}
	if !c.reviewOpen() {
		return fmt.Errorf("%w: override review in %s", ErrInvalidAction, c.status)
	}
	i := form.FindIndex(c.sections, id)
	if i < 0 {
		return fmt.Errorf("%w: %s", ErrSectionNotFound, id)
	}
	reviewed, err := grading.ApplyReview(c.sections[i], grading.Review{Pass: pass})
	if err != nil {
		return err
	}
	out := make([]form.Section, len(c.sections))
	copy(out, c.sections)
	out[i] = reviewed
	corrected, total := grading.Correct(c.mode, out)
	c.emitSections(corrected)
	c.emitTotal(total)
	return nil
}

// SubmitCorrect finalizes the correction: the scoring pass runs once more,
// the whole-document verdict is computed, and the document finishes. When
// invoked during a re-correction of an already finished document the status
// stays finished and only the scores and verdict are refreshed.
func (c *Controller) SubmitCorrect() error {
	if c.status != form.StatusWaitingForCorrect && !c.reviewOpen() {
		return fmt.Errorf("%w: submit correct in %s", ErrInvalidAction, c.status)
	}
	corrected, total := grading.Correct(c.mode, c.sections)
	c.emitSections(corrected)
	c.emitTotal(total)
	verdict := c.verdict(corrected)
	if c.status == form.StatusWaitingForCorrect {
		if err := c.transition(form.StatusFinished); err != nil {
			return err
		}
	} else {
		c.recorrecting = false
	}
	if c.cb.OnSubmitCorrect != nil {
		c.cb.OnSubmitCorrect(total, verdict)
	}
	return nil
}

// Recorrect re-opens a finished document for correction. The status
// nominally stays finished; correction actions become available again.
func (c *Controller) Recorrect() error {
	if c.status != form.StatusFinished {
		return fmt.Errorf("%w: recorrect in %s", ErrInvalidAction, c.status)
	}
	if !c.config.AllowReCorrect || !c.config.AllowUpdateAfterFinished {
		return fmt.Errorf("%w: re-correction not permitted by configuration", ErrInvalidAction)
	}
	c.recorrecting = true
	return nil
}

// verdict is the whole-document pass/fail: a test passes when every judged
// section passed; a questionnaire has no failing verdict.
func (c *Controller) verdict(sections []form.Section) bool {
	if c.mode != form.ModeTest {
		return true
	}
	for _, s := range sections {
		if s.IsPass != nil && !*s.IsPass {
			return false
		}
	}
	return true
}
