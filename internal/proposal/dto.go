package proposal

import (
	"fmt"
	"strings"
	"time"

	"github.com/jansssss/jbfPL/internal/submission"
)

type ValidationError struct {
	Msg string
}

func (e ValidationError) Error() string {
	return e.Msg
}

// CreateProposalDTO mirrors the multi-step submission form. Name and
// members are the only hard requirements; the planning fields may be
// filled in later via update.
type CreateProposalDTO struct {
	Name         string           `json:"name"`
	Description  string           `json:"description"`
	Members      string           `json:"members"`
	Strategy     string           `json:"strategy"`
	Goal         string           `json:"goal"`
	Level        submission.Level `json:"level"`
	Notes        string           `json:"notes"`
	StartDate    *time.Time       `json:"start_date"`
	EndDate      *time.Time       `json:"end_date"`
	Background   string           `json:"background"`
	Contribution string           `json:"contribution"`
	Innovation   string           `json:"innovation"`
}

func (d CreateProposalDTO) Validate() error {
	if strings.TrimSpace(d.Name) == "" {
		return ValidationError{Msg: "name is required"}
	}
	if strings.TrimSpace(d.Members) == "" {
		return ValidationError{Msg: "members is required"}
	}
	if d.Level != "" && !d.Level.Valid() {
		return ValidationError{Msg: fmt.Sprintf("invalid level: %s", d.Level)}
	}
	if d.StartDate != nil && d.EndDate != nil && d.EndDate.Before(*d.StartDate) {
		return ValidationError{Msg: "end_date must not precede start_date"}
	}
	return nil
}

type UpdateProposalDTO struct {
	Name         *string           `json:"name"`
	Description  *string           `json:"description"`
	Members      *string           `json:"members"`
	Strategy     *string           `json:"strategy"`
	Goal         *string           `json:"goal"`
	Level        *submission.Level `json:"level"`
	Notes        *string           `json:"notes"`
	StartDate    *time.Time        `json:"start_date"`
	EndDate      *time.Time        `json:"end_date"`
	Background   *string           `json:"background"`
	Contribution *string           `json:"contribution"`
	Innovation   *string           `json:"innovation"`
}

func (d UpdateProposalDTO) Validate() error {
	if d.Name != nil && strings.TrimSpace(*d.Name) == "" {
		return ValidationError{Msg: "name must not be empty"}
	}
	if d.Level != nil && *d.Level != "" && !d.Level.Valid() {
		return ValidationError{Msg: fmt.Sprintf("invalid level: %s", *d.Level)}
	}
	return nil
}

// Fields flattens the set pointers into a column map for a partial
// update. Returns an empty map when nothing was set.
func (d UpdateProposalDTO) Fields() map[string]any {
	fields := map[string]any{}
	if d.Name != nil {
		fields["name"] = *d.Name
	}
	if d.Description != nil {
		fields["description"] = *d.Description
	}
	if d.Members != nil {
		fields["members"] = *d.Members
	}
	if d.Strategy != nil {
		fields["strategy"] = *d.Strategy
	}
	if d.Goal != nil {
		fields["goal"] = *d.Goal
	}
	if d.Level != nil {
		fields["level"] = *d.Level
	}
	if d.Notes != nil {
		fields["notes"] = *d.Notes
	}
	if d.StartDate != nil {
		fields["start_date"] = *d.StartDate
	}
	if d.EndDate != nil {
		fields["end_date"] = *d.EndDate
	}
	if d.Background != nil {
		fields["background"] = *d.Background
	}
	if d.Contribution != nil {
		fields["contribution"] = *d.Contribution
	}
	if d.Innovation != nil {
		fields["innovation"] = *d.Innovation
	}
	return fields
}

type ApproveProposalDTO struct {
	Level    submission.Level `json:"level"`
	Feedback string           `json:"feedback"`
}

type RejectProposalDTO struct {
	Feedback string `json:"feedback"`
}
