package workitem

import (
	"fmt"
	"strings"

	"github.com/jansssss/jbfPL/internal/submission"
)

type ValidationError struct {
	Msg string
}

func (e ValidationError) Error() string {
	return e.Msg
}

type CreateWorkItemDTO struct {
	Name        string           `json:"name"`
	Description string           `json:"description"`
	Strategy    string           `json:"strategy"`
	Goal        string           `json:"goal"`
	Level       submission.Level `json:"level"`
	Notes       string           `json:"notes"`
}

func (d CreateWorkItemDTO) Validate() error {
	if strings.TrimSpace(d.Name) == "" {
		return ValidationError{Msg: "name is required"}
	}
	if d.Level != "" && !d.Level.Valid() {
		return ValidationError{Msg: fmt.Sprintf("invalid level: %s", d.Level)}
	}
	return nil
}

type UpdateWorkItemDTO struct {
	Name        *string           `json:"name"`
	Description *string           `json:"description"`
	Strategy    *string           `json:"strategy"`
	Goal        *string           `json:"goal"`
	Level       *submission.Level `json:"level"`
	Notes       *string           `json:"notes"`
}

func (d UpdateWorkItemDTO) Validate() error {
	if d.Name != nil && strings.TrimSpace(*d.Name) == "" {
		return ValidationError{Msg: "name must not be empty"}
	}
	if d.Level != nil && *d.Level != "" && !d.Level.Valid() {
		return ValidationError{Msg: fmt.Sprintf("invalid level: %s", *d.Level)}
	}
	return nil
}

func (d UpdateWorkItemDTO) Fields() map[string]any {
	fields := map[string]any{}
	if d.Name != nil {
		fields["name"] = *d.Name
	}
	if d.Description != nil {
		fields["description"] = *d.Description
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
	return fields
}

type ApproveWorkItemDTO struct {
	Level    submission.Level `json:"level"`
	Feedback string           `json:"feedback"`
}

type RejectWorkItemDTO struct {
	Feedback string `json:"feedback"`
}
