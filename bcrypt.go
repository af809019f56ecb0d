package blog

import (
	"errors"

	goerrors "github.com/goliatone/go-errors"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// Hasher wraps bcrypt with a configurable work factor.
type Hasher struct {
	cost int
}

// NewHasher returns a Hasher with the given cost. Costs outside bcrypt's
// supported range fall back to bcrypt.DefaultCost.
func NewHasher(cost int) *Hasher {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	return &Hasher{cost: cost}
}

// HashPassword will generate a password hash
func (h *Hasher) HashPassword(password string) (string, error) {
	if password == "" {
		return "", ErrNoEmptyString
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), h.cost)
	if err != nil {
		return "", goerrors.Wrap(err, goerrors.CategoryInternal, "failed to hash password")
	}

	return string(hashed), nil
}

// ComparePasswordAndHash will validate the given cleartext
// password matches the hashed password
func (h *Hasher) ComparePasswordAndHash(password, hash string) error {
	if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)); err != nil {
		if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			return ErrMismatchedHashAndPassword
		}
		return goerrors.Wrap(err, goerrors.CategoryAuth, "failed to compare password and hash")
	}
	return nil
}

// RandomPasswordHash is a temporary password
func (h *Hasher) RandomPasswordHash() string {
	pwd := uuid.New()

	hashed, err := h.HashPassword(pwd.String())
	if err != nil {
		return h.RandomPasswordHash()
	}

	return hashed
}
