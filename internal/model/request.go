package model

import (
	"strings"

	validation "github.com/go-ozzo/ozzo-validation"
)

type RegisterRequest struct {
	Name     string `json:"name"`
	Login    string `json:"login"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

// Validate reports every violated field, not just the first. Name and login
// are trimmed before the rules run, so whitespace-only values fail Required
// and padding cannot satisfy a length minimum; lengths count runes, not bytes.
func (r RegisterRequest) Validate() error {
	r.Name = strings.TrimSpace(r.Name)
	r.Login = strings.TrimSpace(r.Login)
	return validation.ValidateStruct(&r,
		validation.Field(&r.Name, validation.Required, validation.RuneLength(2, 200)),
		validation.Field(&r.Login, validation.Required, validation.RuneLength(3, 20)),
		validation.Field(&r.Password, validation.Required, validation.RuneLength(6, 100)),
		validation.Field(&r.Role, validation.Required, validation.In(string(RoleUser), string(RoleAdmin))),
	)
}

// Login payloads are not length-validated; credentials that do not match
// always surface as invalid credentials, never as a field error.
type LoginRequest struct {
	Login    string `json:"login"`
	Password string `json:"password"`
}

type UpdateUserRequest struct {
	Name     string `json:"name"`
	Password string `json:"password"`
}

// Blank (or whitespace-only) fields mean "leave unchanged"; length rules only
// apply to values actually supplied, after trimming.
func (r UpdateUserRequest) Validate() error {
	r.Name = strings.TrimSpace(r.Name)
	r.Password = strings.TrimSpace(r.Password)
	return validation.ValidateStruct(&r,
		validation.Field(&r.Name, validation.RuneLength(2, 200)),
		validation.Field(&r.Password, validation.RuneLength(6, 100)),
	)
}
