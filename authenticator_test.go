package blog_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	blog "github.com/goliatone/go-blog"
)

func setupAuther(t *testing.T) (*blog.Auther, blog.RepositoryManager) {
	t.Helper()

	hasher := blog.NewHasher(bcrypt.MinCost)
	repo := blog.NewRepositoryManager(setupDB(t), hasher)
	tokens := blog.NewTokenService([]byte(testSigningKey), 5*time.Minute, "", nil)

	return blog.NewAuthenticator(repo, hasher, tokens), repo
}

func TestAutherLogin(t *testing.T) {
	auther, repo := setupAuther(t)
	ctx := context.Background()

	user, err := repo.Users().Register(ctx, "emma", "emma@example.com", "emma-pass")
	require.NoError(t, err)

	token, err := auther.Login(ctx, "emma", "emma-pass")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := auther.TokenService().Validate(token)
	require.NoError(t, err)
	assert.Equal(t, user.ID.String(), claims.UserID())
}

func TestAutherLoginCaseInsensitiveUsername(t *testing.T) {
	auther, repo := setupAuther(t)
	ctx := context.Background()

	_, err := repo.Users().Register(ctx, "Emma", "emma@example.com", "emma-pass")
	require.NoError(t, err)

	token, err := auther.Login(ctx, "eMMa", "emma-pass")
	require.NoError(t, err)
	assert.NotEmpty(t, token)
}

func TestAutherLoginFailure(t *testing.T) {
	auther, repo := setupAuther(t)
	ctx := context.Background()

	_, err := repo.Users().Register(ctx, "emma", "emma@example.com", "emma-pass")
	require.NoError(t, err)

	tests := []struct {
		name     string
		username string
		password string
	}{
		{"unknown username", "nobody", "emma-pass"},
		{"wrong password", "emma", "not-the-password"},
		{"empty password", "emma", ""},
	}

	// every failure mode surfaces the same sentinel so callers cannot tell
	// unknown accounts from bad passwords
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			token, err := auther.Login(ctx, tt.username, tt.password)
			assert.Empty(t, token)
			assert.ErrorIs(t, err, blog.ErrMismatchedHashAndPassword)
		})
	}
}

func TestAutherIdentityFromToken(t *testing.T) {
	auther, repo := setupAuther(t)
	ctx := context.Background()

	user, err := repo.Users().Register(ctx, "emma", "emma@example.com", "emma-pass")
	require.NoError(t, err)

	token, err := auther.Login(ctx, "emma", "emma-pass")
	require.NoError(t, err)

	resolved, err := auther.IdentityFromToken(ctx, token)
	require.NoError(t, err)
	assert.Equal(t, user.ID, resolved.ID)
	assert.Equal(t, "emma", resolved.Username)
}

func TestAutherIdentityFromTokenFailures(t *testing.T) {
	auther, _ := setupAuther(t)
	ctx := context.Background()

	t.Run("garbage token", func(t *testing.T) {
		_, err := auther.IdentityFromToken(ctx, "not.a.token")
		assert.True(t, blog.IsMalformedError(err))
	})

	t.Run("expired token", func(t *testing.T) {
		token, err := auther.TokenService().GenerateWithTTL("some-user", -time.Minute)
		require.NoError(t, err)

		_, err = auther.IdentityFromToken(ctx, token)
		assert.ErrorIs(t, err, blog.ErrTokenExpired)
	})

	t.Run("subject is not an id", func(t *testing.T) {
		token, err := auther.TokenService().Generate("not-a-uuid")
		require.NoError(t, err)

		_, err = auther.IdentityFromToken(ctx, token)
		assert.ErrorIs(t, err, blog.ErrTokenMalformed)
	})

	t.Run("identity no longer exists", func(t *testing.T) {
		token, err := auther.TokenService().Generate("f2f8f36e-61a3-4ecb-96cb-b458570abd83")
		require.NoError(t, err)

		_, err = auther.IdentityFromToken(ctx, token)
		assert.ErrorIs(t, err, blog.ErrIdentityNotFound)
	})
}
