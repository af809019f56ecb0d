package blog_test

import (
	"context"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"github.com/uptrace/bun"
	"golang.org/x/crypto/bcrypt"

	blog "github.com/goliatone/go-blog"
)

// testSigningKey is only used inside the test suite.
const testSigningKey = "test-signing-key"

func testConfig() blog.Config {
	return blog.Config{
		SigningKey: testSigningKey,
		BcryptCost: bcrypt.MinCost,
	}
}

// setupDB opens a process-private in-memory database with the full schema.
func setupDB(t *testing.T) *bun.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := blog.OpenDB(dsn)
	require.NoError(t, err)

	require.NoError(t, blog.CreateTables(context.Background(), db))

	t.Cleanup(func() { _ = db.Close() })

	return db
}

func setupServer(t *testing.T) *blog.Server {
	t.Helper()
	return blog.NewServer(testConfig(), setupDB(t), nil)
}

// mustRegister seeds a user through the real registration workflow.
func mustRegister(t *testing.T, server *blog.Server, username, email, password string) *blog.User {
	t.Helper()

	var resp *blog.RegisterUserResponse
	handler := blog.NewRegisterUserHandler(server.Repo, server.Tokens)
	err := handler.Execute(context.Background(), blog.RegisterUserMessage{
		Username: username,
		Email:    email,
		Password: password,
		OnResponse: func(r *blog.RegisterUserResponse) {
			resp = r
		},
	})
	require.NoError(t, err)
	require.NotNil(t, resp)
	require.NotEmpty(t, resp.Token)

	return resp.User
}
