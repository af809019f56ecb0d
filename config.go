package blog

import (
	"time"

	"golang.org/x/crypto/bcrypt"
)

// DefaultTokenTTL keeps bearer tokens short lived. There is no refresh
// flow, so clients re-login when a token lapses.
const DefaultTokenTTL = 5 * time.Minute

// Config carries every knob the blog services need. It is passed explicitly
// to constructors; nothing reads ambient globals or the environment.
type Config struct {
	// Addr is the HTTP listen address, e.g. ":3000".
	Addr string
	// DSN is the sqlite database source name.
	DSN string
	// SigningKey is the server-held JWT secret.
	SigningKey string
	// TokenTTL bounds issued tokens. Zero means DefaultTokenTTL.
	TokenTTL time.Duration
	// BcryptCost is the hashing work factor. Zero means bcrypt.DefaultCost.
	// Tests may lower it; production should not.
	BcryptCost int
}

func (c Config) GetTokenTTL() time.Duration {
	if c.TokenTTL == 0 {
		return DefaultTokenTTL
	}
	return c.TokenTTL
}

func (c Config) GetBcryptCost() int {
	if c.BcryptCost == 0 {
		return bcrypt.DefaultCost
	}
	return c.BcryptCost
}
