package submission

import (
	"strings"
	"time"

	"github.com/jansssss/jbfPL/internal"
)

// Decision is a reviewed outcome for a pending record. Only the two
// transitions out of PENDING exist; nothing locks a decided record, so a
// later decision overwrites feedback and status (last write wins).
type Decision struct {
	Status   Status
	Level    Level
	Feedback string
}

// ApprovalDecision grades and approves. Blank feedback falls back to the
// canned approval message; the level becomes the final grade.
func ApprovalDecision(level Level, feedback string) (Decision, error) {
	if !level.Valid() {
		return Decision{}, internal.ErrInvalidLevel
	}
	feedback = strings.TrimSpace(feedback)
	if feedback == "" {
		feedback = DefaultApprovalFeedback
	}
	return Decision{Status: StatusApproved, Level: level, Feedback: feedback}, nil
}

// RejectionDecision requires non-blank feedback; a blank comment fails
// validation before any remote write happens.
func RejectionDecision(feedback string) (Decision, error) {
	feedback = strings.TrimSpace(feedback)
	if feedback == "" {
		return Decision{}, internal.ErrFeedbackRequired
	}
	return Decision{Status: StatusRejected, Feedback: feedback}, nil
}

// Fields renders the decision as the column set written to the row.
func (d Decision) Fields() map[string]any {
	fields := map[string]any{
		"status":     string(d.Status),
		"feedback":   d.Feedback,
		"updated_at": time.Now(),
	}
	if d.Level != "" {
		fields["level"] = string(d.Level)
	}
	return fields
}
