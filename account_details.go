package blog

import (
	"context"
)

// AccountDetails is the GET /account response body.
type AccountDetails struct {
	Email    string `json:"email"`
	Username string `json:"username"`
	UserID   string `json:"userId"`
	IsAuthor bool   `json:"isAuthor"`
	AuthorID string `json:"authorId,omitempty"`
}

// GetAccountDetails assembles an account view for a user: profile fields
// plus the author relation (present means the user may create posts).
func GetAccountDetails(ctx context.Context, repo RepositoryManager, user *User) (*AccountDetails, error) {
	author, err := repo.Authors().FindByUserID(ctx, user.ID)
	if err != nil {
		return nil, err
	}

	details := &AccountDetails{
		Email:    user.Email,
		Username: user.Username,
		UserID:   user.ID.String(),
		IsAuthor: author != nil,
	}

	if author != nil {
		details.AuthorID = author.ID.String()
	}

	return details, nil
}
