package blog

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	goerrors "github.com/goliatone/go-errors"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// UserUpdate is the closed set of fields an account update may touch.
// Absent fields are left untouched; anything else is unrepresentable.
type UserUpdate struct {
	Username *string
	Email    *string
	Password *string
}

// IsEmpty reports whether the update would change nothing.
func (u UserUpdate) IsEmpty() bool {
	return u.Username == nil && u.Email == nil && u.Password == nil
}

// Users is the identity directory: lookups, creation, and persistence of
// account mutations. Username lookups are case-insensitive; email lookups
// are exact.
type Users interface {
	GetByID(ctx context.Context, id uuid.UUID) (*User, error)

	FindByUsername(ctx context.Context, username string, excludeID ...uuid.UUID) (*User, error)
	FindByEmail(ctx context.Context, email string, excludeID ...uuid.UUID) (*User, error)

	Register(ctx context.Context, username, email, password string) (*User, error)
	RegisterTx(ctx context.Context, tx bun.IDB, username, email, password string) (*User, error)

	ApplyUpdate(ctx context.Context, user *User, update UserUpdate) ([]string, error)
	ApplyUpdateTx(ctx context.Context, tx bun.IDB, user *User, update UserUpdate) ([]string, error)
}

type users struct {
	db     *bun.DB
	hasher *Hasher
}

var _ Users = (*users)(nil)

// NewUsersRepository wires the directory over bun. The hasher is used for
// every password write so plaintext never reaches the store.
func NewUsersRepository(db *bun.DB, hasher *Hasher) Users {
	return &users{db: db, hasher: hasher}
}

func (a *users) GetByID(ctx context.Context, id uuid.UUID) (*User, error) {
	record := &User{}

	err := a.db.NewSelect().
		Model(record).
		Where("?TableAlias.id = ?", id).
		Limit(1).
		Scan(ctx)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrIdentityNotFound
		}
		return nil, goerrors.Wrap(err, goerrors.CategoryInternal, "failed to get user by id")
	}

	return record, nil
}

func (a *users) FindByUsername(ctx context.Context, username string, excludeID ...uuid.UUID) (*User, error) {
	q := a.db.NewSelect().
		Where("lower(?TableAlias.username) = lower(?)", strings.TrimSpace(username))

	return a.findOne(ctx, q, excludeID...)
}

func (a *users) FindByEmail(ctx context.Context, email string, excludeID ...uuid.UUID) (*User, error) {
	q := a.db.NewSelect().
		Where("?TableAlias.email = ?", strings.TrimSpace(email))

	return a.findOne(ctx, q, excludeID...)
}

// findOne resolves a lookup to a record or nil when absent. Lookup misses
// are not errors here: workflows treat absence as a normal outcome.
func (a *users) findOne(ctx context.Context, q *bun.SelectQuery, excludeID ...uuid.UUID) (*User, error) {
	record := &User{}
	q = q.Model(record).Limit(1)

	if len(excludeID) > 0 && excludeID[0] != uuid.Nil {
		q = q.Where("?TableAlias.id != ?", excludeID[0])
	}

	if err := q.Scan(ctx); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, goerrors.Wrap(err, goerrors.CategoryInternal, "failed to find user")
	}

	return record, nil
}

func (a *users) Register(ctx context.Context, username, email, password string) (*User, error) {
	return a.RegisterTx(ctx, a.db, username, email, password)
}

func (a *users) RegisterTx(ctx context.Context, tx bun.IDB, username, email, password string) (*User, error) {
	hash, err := a.hasher.HashPassword(password)
	if err != nil {
		return nil, err
	}

	record := &User{
		ID:           uuid.New(),
		Username:     strings.TrimSpace(username),
		Email:        strings.TrimSpace(email),
		PasswordHash: hash,
	}

	if _, err := tx.NewInsert().Model(record).Exec(ctx); err != nil {
		if field := DuplicateField(err); field != "" {
			return nil, goerrors.Wrap(err, goerrors.CategoryConflict, "user already exists").
				WithTextCode("DUPLICATE_FIELD").
				WithMetadata(map[string]any{"field": field})
		}
		return nil, goerrors.Wrap(err, goerrors.CategoryInternal, "failed to create user")
	}

	return record, nil
}

func (a *users) ApplyUpdate(ctx context.Context, user *User, update UserUpdate) ([]string, error) {
	return a.ApplyUpdateTx(ctx, a.db, user, update)
}

// ApplyUpdateTx mutates the in-memory user from the update set and persists
// every changed column in a single UPDATE, so the durable state and the
// reported field list cannot diverge.
func (a *users) ApplyUpdateTx(ctx context.Context, tx bun.IDB, user *User, update UserUpdate) ([]string, error) {
	if user == nil || user.ID == uuid.Nil {
		return nil, goerrors.New("cannot update unsaved user", goerrors.CategoryBadInput)
	}

	if update.IsEmpty() {
		return []string{}, nil
	}

	updated := make([]string, 0, 3)
	columns := make([]string, 0, 4)

	if update.Username != nil {
		user.Username = strings.TrimSpace(*update.Username)
		updated = append(updated, "username")
		columns = append(columns, "username")
	}

	if update.Email != nil {
		user.Email = strings.TrimSpace(*update.Email)
		updated = append(updated, "email")
		columns = append(columns, "email")
	}

	if update.Password != nil {
		hash, err := a.hasher.HashPassword(*update.Password)
		if err != nil {
			return nil, err
		}
		user.PasswordHash = hash
		updated = append(updated, "password")
		columns = append(columns, "password_hash")
	}

	now := time.Now()
	user.UpdatedAt = &now
	columns = append(columns, "updated_at")

	_, err := tx.NewUpdate().
		Model(user).
		Column(columns...).
		WherePK().
		Exec(ctx)

	if err != nil {
		if field := DuplicateField(err); field != "" {
			return nil, goerrors.Wrap(err, goerrors.CategoryConflict, "user already exists").
				WithTextCode("DUPLICATE_FIELD").
				WithMetadata(map[string]any{"field": field})
		}
		return nil, goerrors.Wrap(err, goerrors.CategoryInternal, "failed to persist account update")
	}

	return updated, nil
}

// DuplicateField classifies a storage-level unique constraint violation,
// returning the offending column or "" when err is something else. This is
// the backstop for the check-then-act gap between our existence checks and
// the write.
func DuplicateField(err error) string {
	if err == nil {
		return ""
	}

	msg := err.Error()
	if !strings.Contains(msg, "UNIQUE constraint failed") &&
		!strings.Contains(msg, "constraint failed") {
		return ""
	}

	switch {
	case strings.Contains(msg, "users.username"):
		return "username"
	case strings.Contains(msg, "users.email"):
		return "email"
	default:
		return "unknown"
	}
}
