package blog

import (
	"context"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/uptrace/bun"

	"github.com/goliatone/go-blog/middleware/jwtware"
)

// Server bundles the fiber app with the wired services so callers (the
// binary, the tests) can reach both.
type Server struct {
	App    *fiber.App
	Repo   RepositoryManager
	Auther *Auther
	Tokens *TokenService
	Hasher *Hasher
}

// NewServer wires repositories, services, the auth guard, and every route
// onto a fiber app. Config is the only source of knobs.
func NewServer(cfg Config, db *bun.DB, logger Logger) *Server {
	if logger == nil {
		logger = defLogger{}
	}

	hasher := NewHasher(cfg.GetBcryptCost())
	repo := NewRepositoryManager(db, hasher)
	repo.MustValidate()

	tokens := NewTokenService([]byte(cfg.SigningKey), cfg.GetTokenTTL(), "", logger)
	auther := NewAuthenticator(repo, hasher, tokens).WithLogger(logger)

	guard := jwtware.New(jwtware.Config{
		Validator:  AsGuardValidator(tokens),
		Resolver:   IdentityResolver(auther),
		ContextKey: UserContextKey,
	})

	app := fiber.New(fiber.Config{
		DisableStartupMessage: true,
	})

	accounts := NewAccountController(
		WithAccountLogger(logger),
		WithAccountRepo(repo),
		WithAccountAuther(auther),
		WithAccountTokens(tokens),
		WithAccountHasher(hasher),
	)

	RegisterAccountRoutes(app, accounts, guard)
	RegisterPostRoutes(app, NewPostsController(logger), guard)
	RegisterCommentRoutes(app, NewCommentsController(logger), guard)

	return &Server{
		App:    app,
		Repo:   repo,
		Auther: auther,
		Tokens: tokens,
		Hasher: hasher,
	}
}

// AsGuardValidator adapts the token service to the guard's mirrored
// validator interface.
func AsGuardValidator(tokens *TokenService) jwtware.TokenValidator {
	return jwtware.TokenValidatorFunc(func(raw string) (jwtware.AuthClaims, error) {
		claims, err := tokens.Validate(raw)
		if err != nil {
			return nil, err
		}
		return claims, nil
	})
}

// IdentityResolver resolves a verified token subject to a stored user for
// the guard. Unknown ids reject the request: the identity may have been
// deleted after the token was issued.
func IdentityResolver(auther *Auther) jwtware.IdentityResolver {
	return func(ctx context.Context, userID string) (any, error) {
		id, err := uuid.Parse(userID)
		if err != nil {
			return nil, ErrTokenMalformed
		}

		user, err := auther.repo.Users().GetByID(ctx, id)
		if err != nil {
			return nil, err
		}

		return user, nil
	}
}
