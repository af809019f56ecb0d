package blog

import (
	"context"
	"database/sql"
	"errors"
	"log"

	"github.com/uptrace/bun"
)

// RepositoryManager exposes all repositories
type RepositoryManager interface {
	Validate() error
	MustValidate()
	RunInTx(ctx context.Context, opts *sql.TxOptions, f func(ctx context.Context, tx bun.Tx) error) error
	Users() Users
	Authors() Authors
}

type mngr struct {
	db      *bun.DB
	users   Users
	authors Authors
}

// NewRepositoryManager builds the repository set over a single bun database.
func NewRepositoryManager(db *bun.DB, hasher *Hasher) RepositoryManager {
	return &mngr{
		db:      db,
		users:   NewUsersRepository(db, hasher),
		authors: NewAuthorsRepository(db),
	}
}

func (m mngr) Validate() error {
	if m.users == nil {
		return errors.New("repository users should be initialized")
	}

	if m.authors == nil {
		return errors.New("repository authors should be initialized")
	}

	return nil
}

func (m mngr) MustValidate() {
	if err := m.Validate(); err != nil {
		log.Panic(err)
	}
}

func (m mngr) RunInTx(ctx context.Context, opts *sql.TxOptions, f func(ctx context.Context, tx bun.Tx) error) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
		return m.db.RunInTx(ctx, opts, f)
	}
}

func (m mngr) Users() Users {
	return m.users
}

func (m mngr) Authors() Authors {
	return m.authors
}
