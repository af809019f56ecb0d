package blog

import (
	"strings"

	goerrors "github.com/goliatone/go-errors"
)

// ErrIdentityNotFound is the error we return for non found identities
var ErrIdentityNotFound = goerrors.New("identity not found", goerrors.CategoryNotFound).
	WithTextCode("IDENTITY_NOT_FOUND")

// ErrMismatchedHashAndPassword covers both unknown usernames and wrong
// passwords so callers cannot enumerate accounts.
var ErrMismatchedHashAndPassword = goerrors.New("wrong username and/or password", goerrors.CategoryAuth).
	WithTextCode("WRONG_CREDENTIALS")

// ErrNoEmptyString rejects empty plaintext passwords before hashing
var ErrNoEmptyString = goerrors.New("string must not be empty", goerrors.CategoryValidation).
	WithTextCode("EMPTY_STRING")

// ErrTokenExpired is returned when a token's exp claim is in the past
var ErrTokenExpired = goerrors.New("token is expired", goerrors.CategoryAuth).
	WithTextCode("TOKEN_EXPIRED")

// ErrTokenMalformed covers bad signatures and unparsable tokens
var ErrTokenMalformed = goerrors.New("token is malformed", goerrors.CategoryAuth).
	WithTextCode("TOKEN_MALFORMED")

// ErrUnableToDecodeSession unable to decode claims from a parsed token
var ErrUnableToDecodeSession = goerrors.New("unable to decode session", goerrors.CategoryAuth).
	WithTextCode("SESSION_DECODE")

// IsTokenExpiredError will check for expired tokens
func IsTokenExpiredError(err error) bool {
	if err == nil {
		return false
	}
	return strings.Contains(err.Error(), "token is expired")
}

// IsMalformedError will check for error message
func IsMalformedError(err error) bool {
	if err == nil {
		return false
	}
	return strings.Contains(err.Error(), "token is malformed") ||
		strings.Contains(err.Error(), "missing or malformed JWT")
}
