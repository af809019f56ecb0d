package blog

import (
	"errors"
	"sort"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation"
)

// Field length bounds enforced on registration and account update. Counted
// in characters, not bytes.
const (
	UsernameMinLength = 1
	UsernameMaxLength = 30
	PasswordMinLength = 4
	PasswordMaxLength = 25
)

// Validation and failure messages surfaced to API clients.
const (
	MsgUsernameLength    = "Username must be minimum of 1 and a maximum of 30 characters."
	MsgUsernameTaken     = "Another user already has this username."
	MsgInvalidEmail      = "Email must be valid."
	MsgEmailTaken        = "Another user already has this email."
	MsgPasswordLength    = "Password must be between 4 and 25 characters long."
	MsgIncorrectPassword = "Password is incorrect."
	MsgUsernameMissing   = "Username is required"
	MsgPasswordMissing   = "Password is required"
	MsgAuthFailure       = "Authentication failed."
	MsgWrongCredentials  = "Wrong username and/or password."
	MsgAccountUpdateFail = "Failed to update account."
	MsgGetAccountFail    = "Failed to get account."
	MsgCreateAccountFail = "Failed to create account."
	MsgAccountUpdated    = "Account updated."
)

// FieldError is a single per-field validation failure.
type FieldError struct {
	Msg string `json:"msg"`
}

// FieldErrors maps request field names to validation failures. It is the
// 400 response body for registration and account update and implements
// error so workflows can return it through normal error plumbing.
type FieldErrors map[string]FieldError

func (e FieldErrors) Error() string {
	if len(e) == 0 {
		return "validation failed"
	}

	fields := make([]string, 0, len(e))
	for field := range e {
		fields = append(fields, field)
	}
	sort.Strings(fields)

	parts := make([]string, 0, len(fields))
	for _, field := range fields {
		parts = append(parts, field+": "+e[field].Msg)
	}

	return strings.Join(parts, "; ")
}

// Has reports whether a failure was recorded for the given field.
func (e FieldErrors) Has(field string) bool {
	_, ok := e[field]
	return ok
}

// Add records a failure for field unless one is already present, so the
// first (most specific) failure per field wins.
func (e FieldErrors) Add(field, msg string) {
	if e.Has(field) {
		return
	}
	e[field] = FieldError{Msg: msg}
}

// FormatValidationErrorToMap converts an ozzo-validation error into our
// field-error map. Field keys come from the payload's json tags.
func FormatValidationErrorToMap(err error) FieldErrors {
	out := FieldErrors{}
	if err == nil {
		return out
	}

	var verrs validation.Errors
	if errors.As(err, &verrs) {
		for field, ferr := range verrs {
			if ferr == nil {
				continue
			}
			out[field] = FieldError{Msg: ferr.Error()}
		}
		return out
	}

	out["form"] = FieldError{Msg: err.Error()}
	return out
}
