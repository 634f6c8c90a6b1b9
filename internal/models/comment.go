package models

import (
	"time"
)

// Comment represents a reply to a post
type Comment struct {
	ID        string    `json:"_id" db:"id"`
	UserID    string    `json:"userId" db:"user_id"`
	PostID    string    `json:"postId" db:"post_id"`
	Content   string    `json:"content" db:"content"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt time.Time `json:"updatedAt" db:"updated_at"`
}

// CommentInput is the payload for creating a comment. UserID is filled from
// the caller when the front-end does not send it.
type CommentInput struct {
	UserID  string `json:"userId" form:"userId" validate:"required"`
	Content string `json:"content" form:"content" validate:"required,notblank"`
	PostID  string `json:"postId" form:"postId" validate:"required"`
}

// CommentPatch updates a comment's content
type CommentPatch struct {
	Content *string `json:"content" form:"content"`
}
