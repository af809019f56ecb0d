package blog

import (
	"context"

	goerrors "github.com/goliatone/go-errors"
	"github.com/google/uuid"
)

// Auther implements the login workflow and resolves bearer tokens back to a
// live identity. Login failures are deliberately indistinguishable: unknown
// usernames and wrong passwords both surface ErrMismatchedHashAndPassword.
type Auther struct {
	repo   RepositoryManager
	hasher *Hasher
	tokens *TokenService
	logger Logger
}

var _ Authenticator = (*Auther)(nil)

// NewAuthenticator returns a new Authenticator
func NewAuthenticator(repo RepositoryManager, hasher *Hasher, tokens *TokenService) *Auther {
	return &Auther{
		repo:   repo,
		hasher: hasher,
		tokens: tokens,
		logger: defLogger{},
	}
}

func (s *Auther) WithLogger(logger Logger) *Auther {
	if logger != nil {
		s.logger = logger
	}
	return s
}

// TokenService returns the TokenService instance used by this Authenticator
func (s *Auther) TokenService() *TokenService {
	return s.tokens
}

// Login verifies credentials and mints a bearer token. The username lookup
// is case-insensitive, matching registration's uniqueness rule.
func (s *Auther) Login(ctx context.Context, username, password string) (string, error) {
	user, err := s.repo.Users().FindByUsername(ctx, username)
	if err != nil {
		s.logger.Error("Login lookup error: %v", err)
		return "", goerrors.Wrap(err, goerrors.CategoryInternal, "failed to retrieve user during verification")
	}

	if user == nil {
		return "", ErrMismatchedHashAndPassword
	}

	if err := s.hasher.ComparePasswordAndHash(password, user.PasswordHash); err != nil {
		return "", ErrMismatchedHashAndPassword
	}

	token, err := s.tokens.Generate(user.ID.String())
	if err != nil {
		s.logger.Error("Login token generation error: %v", err)
		return "", err
	}

	return token, nil
}

// IdentityFromToken validates a bearer token and resolves its subject to a
// stored user. A valid token whose identity no longer exists fails with
// ErrIdentityNotFound; the guard treats that the same as a bad token.
func (s *Auther) IdentityFromToken(ctx context.Context, raw string) (*User, error) {
	claims, err := s.tokens.Validate(raw)
	if err != nil {
		return nil, err
	}

	id, err := uuid.Parse(claims.UserID())
	if err != nil {
		s.logger.Error("IdentityFromToken subject is not a valid id: %v", err)
		return nil, ErrTokenMalformed
	}

	user, err := s.repo.Users().GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	return user, nil
}
