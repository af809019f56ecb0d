package blog

import (
	"context"
	"database/sql"

	goerrors "github.com/goliatone/go-errors"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	"github.com/uptrace/bun/driver/sqliteshim"
)

// OpenDB opens a sqlite-backed bun database for the given DSN.
func OpenDB(dsn string) (*bun.DB, error) {
	sqldb, err := sql.Open(sqliteshim.ShimName, dsn)
	if err != nil {
		return nil, goerrors.Wrap(err, goerrors.CategoryInternal, "failed to open database")
	}

	return bun.NewDB(sqldb, sqlitedialect.New()), nil
}

// CreateTables creates the schema for every model. The uniqueness
// constraints on users are the authoritative backstop against races between
// application-level existence checks and the subsequent write.
func CreateTables(ctx context.Context, db *bun.DB) error {
	models := []any{
		(*User)(nil),
		(*Author)(nil),
		(*Post)(nil),
		(*Comment)(nil),
		(*Reply)(nil),
		(*Like)(nil),
	}

	for _, model := range models {
		if _, err := db.NewCreateTable().Model(model).IfNotExists().Exec(ctx); err != nil {
			return goerrors.Wrap(err, goerrors.CategoryInternal, "failed to create table")
		}
	}

	return nil
}
