package auth

import "strings"

// LoginDTO accepts either a full email or a bare organizational
// identifier; bare identifiers are completed with the org domain before
// the credential check.
type LoginDTO struct {
	Identifier string `json:"identifier"`
	Password   string `json:"password"`
}

type SignUpDTO struct {
	Identifier string `json:"identifier"`
	Password   string `json:"password"`
	Name       string `json:"name"`
	Center     string `json:"center,omitempty"`
	Team       string `json:"team,omitempty"`
}

type RefreshTokenDTO struct {
	RefreshToken string `json:"refresh_token"`
}

type UpdateProfileDTO struct {
	Name   *string `json:"name,omitempty"`
	Center *string `json:"center,omitempty"`
	Team   *string `json:"team,omitempty"`
}

type ChangePasswordDTO struct {
	NewPassword string `json:"new_password"`
}

// ValidationError represents a simple validation error from DTO validation.
type ValidationError struct {
	Msg string
}

func (v ValidationError) Error() string { return v.Msg }

func (d LoginDTO) Validate() error {
	if strings.TrimSpace(d.Identifier) == "" {
		return ValidationError{Msg: "identifier is required"}
	}
	if d.Password == "" {
		return ValidationError{Msg: "password is required"}
	}
	return nil
}

func (d SignUpDTO) Validate() error {
	if strings.TrimSpace(d.Identifier) == "" {
		return ValidationError{Msg: "identifier is required"}
	}
	if len(d.Password) < 6 {
		return ValidationError{Msg: "password must be at least 6 characters"}
	}
	if strings.TrimSpace(d.Name) == "" {
		return ValidationError{Msg: "name is required"}
	}
	return nil
}

func (d RefreshTokenDTO) Validate() error {
	if d.RefreshToken == "" {
		return ValidationError{Msg: "refresh_token is required"}
	}
	return nil
}

func (d ChangePasswordDTO) Validate() error {
	if len(d.NewPassword) < 6 {
		return ValidationError{Msg: "new_password must be at least 6 characters"}
	}
	return nil
}

// NormalizeIdentifier appends the organizational domain to a bare
// identifier; inputs that already contain "@" pass through unchanged.
func NormalizeIdentifier(identifier, domain string) string {
	identifier = strings.TrimSpace(identifier)
	if strings.Contains(identifier, "@") {
		return identifier
	}
	return identifier + "@" + domain
}
