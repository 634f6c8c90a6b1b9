package models

import (
	"time"
)

// MaxTitleLength is the maximum number of characters in a post title
const MaxTitleLength = 120

// Post is a top-level message inside a forum
type Post struct {
	ID        string    `json:"_id" db:"id"`
	UserID    string    `json:"userId" db:"user_id"`
	ForumID   string    `json:"forumId" db:"forum_id"`
	Title     string    `json:"title" db:"title"`
	Content   string    `json:"content" db:"content"`
	ImageURL  string    `json:"imageUrl,omitempty" db:"image_url"`
	Comments  []string  `json:"comments" db:"comments"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt time.Time `json:"updatedAt" db:"updated_at"`
}

// PostInput is the payload for creating a post. Field order is the order in
// which violations are reported.
type PostInput struct {
	UserID  string `json:"userId" form:"userId" validate:"required"`
	Title   string `json:"title" form:"title" validate:"required,max=120"`
	Content string `json:"content" form:"content" validate:"required"`
	ForumID string `json:"forumId" form:"forumId" validate:"required"`
}

// PostPatch updates a post. Owner and forum cannot change.
type PostPatch struct {
	Title   *string `json:"title" form:"title"`
	Content *string `json:"content" form:"content"`
}

// PopulatedPost is a post with its comments resolved
type PopulatedPost struct {
	*Post
	Comments []*Comment `json:"comments"`
}
