// Package jwtware gates fiber routes behind a bearer token. It validates
// the token, resolves the subject to a live identity, and attaches that
// identity to the request; every failure path answers 401.
package jwtware

import (
	"context"
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"
)

var (
	// ErrJWTMissingOrMalformed covers absent headers and bad schemes.
	ErrJWTMissingOrMalformed = errors.New("missing or malformed JWT")
	// ErrIdentityNotResolved means the token verified but its subject no
	// longer maps to a stored identity.
	ErrIdentityNotResolved = errors.New("token identity not found")
)

// AuthClaims interface for structured claims without import cycles.
// This mirrors the AuthClaims interface from the blog package.
type AuthClaims interface {
	Subject() string
	UserID() string
}

// TokenValidator interface for validating tokens without import cycles.
// This mirrors the TokenService.Validate method from the blog package.
type TokenValidator interface {
	Validate(tokenString string) (AuthClaims, error)
}

// TokenValidatorFunc adapts a function into a TokenValidator.
type TokenValidatorFunc func(tokenString string) (AuthClaims, error)

// Validate satisfies the TokenValidator interface.
func (f TokenValidatorFunc) Validate(tokenString string) (AuthClaims, error) {
	if f == nil {
		return nil, ErrJWTMissingOrMalformed
	}
	return f(tokenString)
}

// IdentityResolver maps a verified user id to a stored identity. Returning
// a nil identity rejects the request.
type IdentityResolver func(ctx context.Context, userID string) (any, error)

type Config struct {
	// Filter skips the guard for matching requests.
	Filter func(*fiber.Ctx) bool
	// Validator is required; it verifies signature and expiry.
	Validator TokenValidator
	// Resolver is required; it turns the token subject into an identity.
	Resolver IdentityResolver
	// ContextKey is the locals key holding the resolved identity.
	ContextKey string
	// ClaimsKey is the locals key holding the verified claims.
	ClaimsKey string
	// AuthScheme is the expected Authorization scheme.
	AuthScheme string
	// ErrorHandler renders rejections. Default answers 401 JSON.
	ErrorHandler func(*fiber.Ctx, error) error
}

const (
	defaultContextKey = "user"
	defaultClaimsKey  = "claims"
	defaultAuthScheme = "Bearer"
)

func configDefaults(config ...Config) Config {
	cfg := Config{}
	if len(config) > 0 {
		cfg = config[0]
	}

	if cfg.ContextKey == "" {
		cfg.ContextKey = defaultContextKey
	}
	if cfg.ClaimsKey == "" {
		cfg.ClaimsKey = defaultClaimsKey
	}
	if cfg.AuthScheme == "" {
		cfg.AuthScheme = defaultAuthScheme
	}
	if cfg.ErrorHandler == nil {
		cfg.ErrorHandler = defaultErrorHandler
	}

	return cfg
}

// New builds the guard middleware. It panics when the validator or resolver
// is missing: that is a wiring bug, not a runtime condition.
func New(config ...Config) fiber.Handler {
	cfg := configDefaults(config...)

	if cfg.Validator == nil {
		panic("jwtware: Config.Validator is required")
	}
	if cfg.Resolver == nil {
		panic("jwtware: Config.Resolver is required")
	}

	return func(c *fiber.Ctx) error {
		if cfg.Filter != nil && cfg.Filter(c) {
			return c.Next()
		}

		raw, err := TokenFromHeader(c, cfg.AuthScheme)
		if err != nil {
			return cfg.ErrorHandler(c, err)
		}

		claims, err := cfg.Validator.Validate(raw)
		if err != nil {
			return cfg.ErrorHandler(c, err)
		}

		identity, err := cfg.Resolver(c.UserContext(), claims.UserID())
		if err != nil {
			return cfg.ErrorHandler(c, err)
		}
		if identity == nil {
			return cfg.ErrorHandler(c, ErrIdentityNotResolved)
		}

		c.Locals(cfg.ContextKey, identity)
		c.Locals(cfg.ClaimsKey, claims)

		return c.Next()
	}
}

// TokenFromHeader extracts the raw token from the Authorization header.
func TokenFromHeader(c *fiber.Ctx, scheme string) (string, error) {
	header := c.Get(fiber.HeaderAuthorization)
	if header == "" {
		return "", ErrJWTMissingOrMalformed
	}

	prefix := scheme + " "
	if len(header) <= len(prefix) || !strings.EqualFold(header[:len(prefix)], prefix) {
		return "", ErrJWTMissingOrMalformed
	}

	token := strings.TrimSpace(header[len(prefix):])
	if token == "" {
		return "", ErrJWTMissingOrMalformed
	}

	return token, nil
}

func defaultErrorHandler(c *fiber.Ctx, _ error) error {
	return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
		"msg": "Authentication failed.",
	})
}
