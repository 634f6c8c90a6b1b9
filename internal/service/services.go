package service

import (
	"context"

	"github.com/hacklingo-backend/internal/auth"
	"github.com/hacklingo-backend/internal/config"
	"github.com/hacklingo-backend/internal/models"
	"github.com/hacklingo-backend/internal/password"
	"github.com/hacklingo-backend/internal/repository"
	"github.com/hacklingo-backend/internal/storage"
	"github.com/hacklingo-backend/internal/validation"
	"github.com/rs/zerolog"
)

// Every operation takes the caller explicitly. Failures are *apperr.Error
// values; anything else is an internal error.

// UserService defines the interface for user operations
type UserService interface {
	Register(ctx context.Context, input *models.UserInput, file *models.Attachment) (*models.User, error)
	Login(ctx context.Context, input *models.LoginInput) (*models.User, error)
	Find(ctx context.Context, filter models.UserFilter) ([]*models.UserSummary, error)
	GetByID(ctx context.Context, id string) (*models.PopulatedUser, error)
	Update(ctx context.Context, caller auth.Identity, id string, patch *models.UserPatch, file *models.Attachment) (*models.UserSummary, error)
	Delete(ctx context.Context, caller auth.Identity, id string) (*models.DeleteResult, error)
}

// ForumService defines the interface for forum operations
type ForumService interface {
	InsertMany(ctx context.Context, inputs []models.ForumInput) ([]*models.Forum, error)
	Insert(ctx context.Context, input *models.ForumInput) (*models.Forum, error)
	List(ctx context.Context) ([]*models.Forum, error)
	GetByID(ctx context.Context, id string) (*models.PopulatedForum, error)
	Delete(ctx context.Context, caller auth.Identity, id string) (*models.DeleteResult, error)
}

// PostService defines the interface for post operations
type PostService interface {
	Create(ctx context.Context, caller auth.Identity, input *models.PostInput, file *models.Attachment) (*models.Post, error)
	GetByID(ctx context.Context, id string) (*models.PopulatedPost, error)
	Update(ctx context.Context, caller auth.Identity, id string, patch *models.PostPatch, file *models.Attachment) (*models.PopulatedPost, error)
	Delete(ctx context.Context, caller auth.Identity, id string) (*models.DeleteResult, error)
}

// CommentService defines the interface for comment operations
type CommentService interface {
	Create(ctx context.Context, caller auth.Identity, input *models.CommentInput) (*models.Comment, error)
	GetByID(ctx context.Context, id string) (*models.Comment, error)
	Update(ctx context.Context, caller auth.Identity, id string, patch *models.CommentPatch) (*models.Comment, error)
	Delete(ctx context.Context, caller auth.Identity, id string) (*models.DeleteResult, error)
}

// SweepService audits back-references in the background
type SweepService interface {
	Start(ctx context.Context)
	Stop()
	Sweep(ctx context.Context) (*SweepReport, error)
}

// Services holds all service interfaces
type Services struct {
	Users    UserService
	Forums   ForumService
	Posts    PostService
	Comments CommentService
	Sweeper  SweepService
}

// Collaborators are the external pieces the services delegate to.
// Uploader may be nil when no bucket is configured; Metrics may be nil.
type Collaborators struct {
	Hasher   password.Hasher
	Uploader storage.Uploader
	Metrics  SweepObserver
}

// NewServices creates all services
func NewServices(repos *repository.Repositories, tx repository.TxRunner, collab Collaborators, cfg *config.Config, log zerolog.Logger) *Services {
	guard := auth.NewGuard(repos)
	validator := validation.NewValidator()
	files := &attachments{uploader: collab.Uploader, log: log.With().Str("component", "attachments").Logger()}

	return &Services{
		Users:    newUserService(repos, guard, validator, collab.Hasher, files, log),
		Forums:   newForumService(repos, tx, validator, log),
		Posts:    newPostService(repos, tx, guard, validator, files, log),
		Comments: newCommentService(repos, tx, guard, validator, log),
		Sweeper:  newSweeper(repos.Reference, collab.Metrics, cfg.Sweep, log),
	}
}
