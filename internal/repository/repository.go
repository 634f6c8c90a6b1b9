package repository

import (
	"context"
	"database/sql"

	"github.com/hacklingo-backend/internal/database"
	"github.com/hacklingo-backend/internal/models"
)

// Lookups return (nil, nil) when no record exists. Update, Delete and the
// Append* methods report whether a row was touched.

// UserRepository defines the interface for user data operations
type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id string) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	FindByFilter(ctx context.Context, filter models.UserFilter) ([]*models.User, error)
	Update(ctx context.Context, user *models.User) (bool, error)
	Delete(ctx context.Context, id string) (bool, error)
	AppendPost(ctx context.Context, userID, postID string) (bool, error)
	AppendComment(ctx context.Context, userID, commentID string) (bool, error)
	Count(ctx context.Context) (int, error)
}

// ForumRepository defines the interface for forum data operations
type ForumRepository interface {
	Create(ctx context.Context, forum *models.Forum) error
	BatchInsert(ctx context.Context, forums []*models.Forum) (int, error)
	GetByID(ctx context.Context, id string) (*models.Forum, error)
	List(ctx context.Context) ([]*models.Forum, error)
	Delete(ctx context.Context, id string) (bool, error)
	AppendPost(ctx context.Context, forumID, postID string) (bool, error)
	Count(ctx context.Context) (int, error)
}

// PostRepository defines the interface for post data operations
type PostRepository interface {
	Create(ctx context.Context, post *models.Post) error
	GetByID(ctx context.Context, id string) (*models.Post, error)
	GetByIDs(ctx context.Context, ids []string) ([]*models.Post, error)
	Update(ctx context.Context, post *models.Post) (bool, error)
	Delete(ctx context.Context, id string) (bool, error)
	AppendComment(ctx context.Context, postID, commentID string) (bool, error)
	Count(ctx context.Context) (int, error)
}

// CommentRepository defines the interface for comment data operations
type CommentRepository interface {
	Create(ctx context.Context, comment *models.Comment) error
	GetByID(ctx context.Context, id string) (*models.Comment, error)
	GetByIDs(ctx context.Context, ids []string) ([]*models.Comment, error)
	Update(ctx context.Context, comment *models.Comment) (bool, error)
	Delete(ctx context.Context, id string) (bool, error)
	Count(ctx context.Context) (int, error)
}

// ReferenceRepository audits back-reference arrays against the child tables
type ReferenceRepository interface {
	FindDangling(ctx context.Context) ([]models.DanglingReference, error)
	Remove(ctx context.Context, ref models.DanglingReference) (bool, error)
}

// Repositories holds all repository interfaces
type Repositories struct {
	User      UserRepository
	Forum     ForumRepository
	Post      PostRepository
	Comment   CommentRepository
	Reference ReferenceRepository
}

// New creates all repositories on the given connection or transaction
func New(q database.Querier) *Repositories {
	return &Repositories{
		User:      NewUserRepo(q),
		Forum:     NewForumRepo(q),
		Post:      NewPostRepo(q),
		Comment:   NewCommentRepo(q),
		Reference: NewReferenceRepo(q),
	}
}

// TxRunner runs a unit of work against repositories bound to one transaction
type TxRunner interface {
	WithinTx(ctx context.Context, fn func(repos *Repositories) error) error
}

type txRunner struct {
	db *database.DB
}

// NewTxRunner creates a TxRunner on the given database
func NewTxRunner(db *database.DB) TxRunner {
	return &txRunner{db: db}
}

// WithinTx commits when fn returns nil and rolls back otherwise
func (r *txRunner) WithinTx(ctx context.Context, fn func(repos *Repositories) error) error {
	return r.db.WithinTx(ctx, func(tx *sql.Tx) error {
		return fn(New(tx))
	})
}
