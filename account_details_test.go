package blog_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	blog "github.com/goliatone/go-blog"
)

func TestGetAccountDetails(t *testing.T) {
	repo := blog.NewRepositoryManager(setupDB(t), blog.NewHasher(bcrypt.MinCost))
	ctx := context.Background()

	user, err := repo.Users().Register(ctx, "emma", "emma@example.com", "emma-pass")
	require.NoError(t, err)

	t.Run("regular user", func(t *testing.T) {
		details, err := blog.GetAccountDetails(ctx, repo, user)
		require.NoError(t, err)

		assert.Equal(t, "emma@example.com", details.Email)
		assert.Equal(t, "emma", details.Username)
		assert.Equal(t, user.ID.String(), details.UserID)
		assert.False(t, details.IsAuthor)
		assert.Empty(t, details.AuthorID)
	})

	t.Run("author", func(t *testing.T) {
		author, err := repo.Authors().Create(ctx, user.ID)
		require.NoError(t, err)

		details, err := blog.GetAccountDetails(ctx, repo, user)
		require.NoError(t, err)

		assert.True(t, details.IsAuthor)
		assert.Equal(t, author.ID.String(), details.AuthorID)
	})
}
