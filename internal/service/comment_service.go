package service

import (
	"context"

	"github.com/hacklingo-backend/internal/apperr"
	"github.com/hacklingo-backend/internal/auth"
	"github.com/hacklingo-backend/internal/models"
	"github.com/hacklingo-backend/internal/repository"
	"github.com/hacklingo-backend/internal/validation"
	"github.com/rs/zerolog"
)

// commentService is the concrete implementation of CommentService
type commentService struct {
	repos     *repository.Repositories
	tx        repository.TxRunner
	guard     *auth.Guard
	validator *validation.Validator
	log       zerolog.Logger
}

func newCommentService(repos *repository.Repositories, tx repository.TxRunner, guard *auth.Guard,
	validator *validation.Validator, log zerolog.Logger) *commentService {
	return &commentService{
		repos:     repos,
		tx:        tx,
		guard:     guard,
		validator: validator,
		log:       log.With().Str("service", "comment").Logger(),
	}
}

// Create stores a comment owned by the caller and links it from the author
// and the post in the same transaction.
func (s *commentService) Create(ctx context.Context, caller auth.Identity, input *models.CommentInput) (*models.Comment, error) {
	if err := auth.Require(caller); err != nil {
		return nil, err
	}
	in := *input
	if in.UserID == "" {
		in.UserID = caller.UserID
	}
	if err := auth.RequireOwner(caller, in.UserID); err != nil {
		return nil, err
	}
	if err := validation.Check(s.validator.ValidateComment(&in)); err != nil {
		return nil, err
	}

	if err := s.requireParents(ctx, in.UserID, in.PostID); err != nil {
		return nil, err
	}

	comment := &models.Comment{
		ID:      models.NewID(),
		UserID:  in.UserID,
		PostID:  in.PostID,
		Content: in.Content,
	}

	err := s.tx.WithinTx(ctx, func(repos *repository.Repositories) error {
		if err := repos.Comment.Create(ctx, comment); err != nil {
			return err
		}
		if ok, err := repos.User.AppendComment(ctx, comment.UserID, comment.ID); err != nil || !ok {
			return notLinked(err, models.KindUser)
		}
		if ok, err := repos.Post.AppendComment(ctx, comment.PostID, comment.ID); err != nil || !ok {
			return notLinked(err, models.KindPost)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.Info().Str("comment_id", comment.ID).Str("post_id", comment.PostID).Msg("Comment created")
	return comment, nil
}

func (s *commentService) requireParents(ctx context.Context, userID, postID string) error {
	if !models.ValidID(userID) {
		return apperr.NotFound(models.KindUser)
	}
	if !models.ValidID(postID) {
		return apperr.NotFound(models.KindPost)
	}

	user, err := s.repos.User.GetByID(ctx, userID)
	if err != nil {
		return err
	}
	if user == nil {
		return apperr.NotFound(models.KindUser)
	}

	post, err := s.repos.Post.GetByID(ctx, postID)
	if err != nil {
		return err
	}
	if post == nil {
		return apperr.NotFound(models.KindPost)
	}
	return nil
}

// GetByID returns a single comment
func (s *commentService) GetByID(ctx context.Context, id string) (*models.Comment, error) {
	if !models.ValidID(id) {
		return nil, apperr.NotFound(models.KindComment)
	}
	comment, err := s.repos.Comment.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if comment == nil {
		return nil, apperr.NotFound(models.KindComment)
	}
	return comment, nil
}

// Update changes the content of the caller's own comment
func (s *commentService) Update(ctx context.Context, caller auth.Identity, id string, patch *models.CommentPatch) (*models.Comment, error) {
	comment, err := s.guard.AuthorizeComment(ctx, caller, id)
	if err != nil {
		return nil, err
	}

	merged := &models.CommentInput{
		UserID:  comment.UserID,
		Content: stringOr(patch.Content, comment.Content),
		PostID:  comment.PostID,
	}
	if err := validation.Check(s.validator.ValidateComment(merged)); err != nil {
		return nil, err
	}
	comment.Content = merged.Content

	found, err := s.repos.Comment.Update(ctx, comment)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, apperr.NotFound(models.KindComment)
	}
	return comment, nil
}

// Delete removes the caller's own comment. Back-references to it remain.
func (s *commentService) Delete(ctx context.Context, caller auth.Identity, id string) (*models.DeleteResult, error) {
	if _, err := s.guard.AuthorizeComment(ctx, caller, id); err != nil {
		return nil, err
	}

	found, err := s.repos.Comment.Delete(ctx, id)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, apperr.NotFound(models.KindComment)
	}

	s.log.Info().Str("comment_id", id).Msg("Comment deleted")
	return deleted(models.KindComment, id), nil
}
