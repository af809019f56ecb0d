package blog

import (
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// User is a registered account. The password is only ever stored hashed;
// plaintext never reaches the model.
type User struct {
	bun.BaseModel `bun:"table:users,alias:usr"`
	ID            uuid.UUID  `bun:"id,pk,nullzero,type:uuid" json:"id,omitempty"`
	Username      string     `bun:"username,notnull,unique" json:"username,omitempty"`
	Email         string     `bun:"email,notnull,unique" json:"email,omitempty"`
	PasswordHash  string     `bun:"password_hash,notnull" json:"-"`
	CreatedAt     *time.Time `bun:"created_at,nullzero,default:current_timestamp" json:"created_at,omitempty"`
	UpdatedAt     *time.Time `bun:"updated_at,nullzero,default:current_timestamp" json:"updated_at,omitempty"`
}

// Author marks a user as allowed to create posts. Zero-or-one per user.
type Author struct {
	bun.BaseModel `bun:"table:authors,alias:atr"`
	ID            uuid.UUID `bun:"id,pk,nullzero,type:uuid" json:"id,omitempty"`
	UserID        uuid.UUID `bun:"user_id,notnull,unique,type:uuid" json:"user_id,omitempty"`
	User          *User     `bun:"rel:belongs-to,join:user_id=id" json:"user,omitempty"`
}

// Post is an author's article
type Post struct {
	bun.BaseModel `bun:"table:posts,alias:pst"`
	ID            uuid.UUID  `bun:"id,pk,nullzero,type:uuid" json:"id,omitempty"`
	Title         string     `bun:"title,notnull" json:"title,omitempty"`
	Body          string     `bun:"body,notnull" json:"body,omitempty"`
	IsPublished   bool       `bun:"is_published,notnull" json:"is_published"`
	PublishedAt   *time.Time `bun:"published_at,nullzero" json:"published_at,omitempty"`
	AuthorID      uuid.UUID  `bun:"author_id,notnull,type:uuid" json:"author_id,omitempty"`
	Author        *Author    `bun:"rel:belongs-to,join:author_id=id" json:"author,omitempty"`
}

// Comment is a user's comment on a post
type Comment struct {
	bun.BaseModel `bun:"table:comments,alias:cmt"`
	ID            uuid.UUID  `bun:"id,pk,nullzero,type:uuid" json:"id,omitempty"`
	Text          string     `bun:"text,notnull" json:"text,omitempty"`
	UserID        uuid.UUID  `bun:"user_id,notnull,type:uuid" json:"user_id,omitempty"`
	PostID        uuid.UUID  `bun:"post_id,notnull,type:uuid" json:"post_id,omitempty"`
	CreatedAt     *time.Time `bun:"created_at,nullzero,default:current_timestamp" json:"created_at,omitempty"`
}

// ReplyTargetType discriminates what a reply answers
type ReplyTargetType = string

const (
	ReplyToComment ReplyTargetType = "comment"
	ReplyToReply   ReplyTargetType = "reply"
)

// Reply answers a comment or another reply
type Reply struct {
	bun.BaseModel `bun:"table:replies,alias:rpl"`
	ID            uuid.UUID       `bun:"id,pk,nullzero,type:uuid" json:"id,omitempty"`
	Text          string          `bun:"text,notnull" json:"text,omitempty"`
	UserID        uuid.UUID       `bun:"user_id,notnull,type:uuid" json:"user_id,omitempty"`
	ReplyToID     uuid.UUID       `bun:"reply_to_id,notnull,type:uuid" json:"reply_to_id,omitempty"`
	ReplyToType   ReplyTargetType `bun:"reply_to_type,notnull" json:"reply_to_type,omitempty"`
	CreatedAt     *time.Time      `bun:"created_at,nullzero,default:current_timestamp" json:"created_at,omitempty"`
}

// LikeEntityType discriminates what a like points at
type LikeEntityType = string

const (
	LikedPost    LikeEntityType = "post"
	LikedComment LikeEntityType = "comment"
	LikedReply   LikeEntityType = "reply"
)

// Like is a user's like of a post, comment, or reply
type Like struct {
	bun.BaseModel `bun:"table:likes,alias:lke"`
	ID            uuid.UUID      `bun:"id,pk,nullzero,type:uuid" json:"id,omitempty"`
	UserID        uuid.UUID      `bun:"user_id,notnull,type:uuid" json:"user_id,omitempty"`
	EntityID      uuid.UUID      `bun:"entity_id,notnull,type:uuid" json:"entity_id,omitempty"`
	EntityType    LikeEntityType `bun:"entity_type,notnull" json:"entity_type,omitempty"`
}
