// Package policy decides whether a viewer may currently mutate a section's
// response. The check is pure and fails closed: a status the policy does not
// know is reported and treated as not editable.
package policy

import (
	"github.com/rs/zerolog/log"

	"github.com/tqgen/tqgen/form"
)

// Capabilities are the document-level flags the finished state consults.
type Capabilities struct {
	AllowReCorrect           bool
	AllowUpdateAfterFinished bool
}

// Editable reports whether the viewer may edit the section's response in
// the given document status.
//
//	editing               -> always (the author has full control)
//	preview_editing       -> never (read-only rehearsal)
//	waiting_for_response,
//	waiting_for_correct   -> only the section's assigned role
//	finished              -> assigned role, and only with both re-correct and
//	                         update-after-finish capabilities granted
//	archived              -> never
func Editable(status form.Status, viewer form.Role, section form.Section, caps Capabilities) bool {
	switch status {
	case form.StatusEditing:
		return true
	case form.StatusPreviewEditing:
		return false
	case form.StatusWaitingForResponse, form.StatusWaitingForCorrect:
		return section.Role == viewer
	case form.StatusFinished:
		return section.Role == viewer && caps.AllowReCorrect && caps.AllowUpdateAfterFinished
	case form.StatusArchived:
		return false
	default:
		log.Error().Str("status", string(status)).Msg("policy: status configuration is not valid")
		return false
	}
}
