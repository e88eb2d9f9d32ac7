package employee

import (
	"fmt"
	"strings"

	"github.com/jansssss/jbfPL/internal/principal"
)

type ValidationError struct {
	Msg string
}

func (e ValidationError) Error() string {
	return e.Msg
}

// CreateEmployeeDTO is an administrator-created account. The account
// starts with the organizational temporary password and first_login
// set, which forces a password change on first sign-in.
type CreateEmployeeDTO struct {
	Identifier  string `json:"identifier"`
	Name        string `json:"name"`
	AccessLevel int    `json:"access_level"`
	Center      string `json:"center"`
	Team        string `json:"team"`
}

func (d CreateEmployeeDTO) Validate() error {
	if strings.TrimSpace(d.Identifier) == "" {
		return ValidationError{Msg: "identifier is required"}
	}
	if strings.TrimSpace(d.Name) == "" {
		return ValidationError{Msg: "name is required"}
	}
	if d.AccessLevel != 0 && !validLevel(d.AccessLevel) {
		return ValidationError{Msg: fmt.Sprintf("invalid access level: %d", d.AccessLevel)}
	}
	return nil
}

type UpdateEmployeeDTO struct {
	Name        *string `json:"name"`
	AccessLevel *int    `json:"access_level"`
	Center      *string `json:"center"`
	Team        *string `json:"team"`
}

func (d UpdateEmployeeDTO) Validate() error {
	if d.Name != nil && strings.TrimSpace(*d.Name) == "" {
		return ValidationError{Msg: "name must not be empty"}
	}
	if d.AccessLevel != nil && !validLevel(*d.AccessLevel) {
		return ValidationError{Msg: fmt.Sprintf("invalid access level: %d", *d.AccessLevel)}
	}
	return nil
}

func (d UpdateEmployeeDTO) Fields() map[string]any {
	fields := map[string]any{}
	if d.Name != nil {
		fields["name"] = *d.Name
	}
	if d.AccessLevel != nil {
		fields["access_level"] = *d.AccessLevel
	}
	if d.Center != nil {
		fields["center"] = *d.Center
	}
	if d.Team != nil {
		fields["team"] = *d.Team
	}
	return fields
}

func validLevel(level int) bool {
	return level >= principal.EmployeeLevel && level <= principal.AdministratorLevel
}
