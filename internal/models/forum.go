package models

import (
	"time"
)

// Forum is a named topic channel
type Forum struct {
	ID        string    `json:"_id" db:"id"`
	Name      string    `json:"name" db:"name"`
	Posts     []string  `json:"posts" db:"posts"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt time.Time `json:"updatedAt" db:"updated_at"`
}

// ForumInput is one record of a forum seed batch
type ForumInput struct {
	Name string `json:"name" yaml:"name" validate:"required"`
}

// PopulatedForum is a forum with its posts resolved
type PopulatedForum struct {
	*Forum
	Posts []*Post `json:"posts"`
}

// DeleteResult is returned by every delete operation
type DeleteResult struct {
	Message string `json:"message"`
}

// InsertForumsResult acknowledges a seeded batch
type InsertForumsResult struct {
	Message string   `json:"message"`
	Forums  []string `json:"forums"`
}

// NewInsertForumsResult lists the ids of the inserted forums in batch order
func NewInsertForumsResult(forums []*Forum) *InsertForumsResult {
	ids := make([]string, len(forums))
	for i, f := range forums {
		ids[i] = f.ID
	}
	return &InsertForumsResult{Message: "Insert Forums Success!!", Forums: ids}
}
