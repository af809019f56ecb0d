package blog

import (
	"context"
	"database/sql"
	"errors"

	goerrors "github.com/goliatone/go-errors"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// Authors resolves the zero-or-one author relation for a user. Presence
// means the user may create posts.
type Authors interface {
	FindByUserID(ctx context.Context, userID uuid.UUID) (*Author, error)
	Create(ctx context.Context, userID uuid.UUID) (*Author, error)
}

type authors struct {
	db *bun.DB
}

var _ Authors = (*authors)(nil)

func NewAuthorsRepository(db *bun.DB) Authors {
	return &authors{db: db}
}

// FindByUserID returns the author record for a user, or nil when the user
// is not an author.
func (a *authors) FindByUserID(ctx context.Context, userID uuid.UUID) (*Author, error) {
	record := &Author{}

	err := a.db.NewSelect().
		Model(record).
		Where("?TableAlias.user_id = ?", userID).
		Limit(1).
		Scan(ctx)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, goerrors.Wrap(err, goerrors.CategoryInternal, "failed to find author for user")
	}

	return record, nil
}

func (a *authors) Create(ctx context.Context, userID uuid.UUID) (*Author, error) {
	record := &Author{
		ID:     uuid.New(),
		UserID: userID,
	}

	if _, err := a.db.NewInsert().Model(record).Exec(ctx); err != nil {
		return nil, goerrors.Wrap(err, goerrors.CategoryInternal, "failed to create author")
	}

	return record, nil
}
