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

// postService is the concrete implementation of PostService
type postService struct {
	repos     *repository.Repositories
	tx        repository.TxRunner
	guard     *auth.Guard
	validator *validation.Validator
	files     *attachments
	log       zerolog.Logger
}

func newPostService(repos *repository.Repositories, tx repository.TxRunner, guard *auth.Guard,
	validator *validation.Validator, files *attachments, log zerolog.Logger) *postService {
	return &postService{
		repos:     repos,
		tx:        tx,
		guard:     guard,
		validator: validator,
		files:     files,
		log:       log.With().Str("service", "post").Logger(),
	}
}

// Create stores a post owned by the caller and links it from the author
// and the forum in the same transaction.
func (s *postService) Create(ctx context.Context, caller auth.Identity, input *models.PostInput, file *models.Attachment) (*models.Post, error) {
	if err := auth.Require(caller); err != nil {
		return nil, err
	}
	in := *input
	input = &in
	if input.UserID == "" {
		input.UserID = caller.UserID
	}
	if err := auth.RequireOwner(caller, input.UserID); err != nil {
		return nil, err
	}
	if err := s.files.check(file); err != nil {
		return nil, err
	}
	if err := validation.Check(s.validator.ValidatePost(input)); err != nil {
		return nil, err
	}

	if err := s.requireParents(ctx, input.UserID, input.ForumID); err != nil {
		return nil, err
	}

	imageURL, err := s.files.store(ctx, file)
	if err != nil {
		return nil, err
	}

	post := &models.Post{
		ID:       models.NewID(),
		UserID:   input.UserID,
		ForumID:  input.ForumID,
		Title:    input.Title,
		Content:  input.Content,
		ImageURL: imageURL,
		Comments: []string{},
	}

	err = s.tx.WithinTx(ctx, func(repos *repository.Repositories) error {
		if err := repos.Post.Create(ctx, post); err != nil {
			return err
		}
		if ok, err := repos.User.AppendPost(ctx, post.UserID, post.ID); err != nil || !ok {
			return notLinked(err, models.KindUser)
		}
		if ok, err := repos.Forum.AppendPost(ctx, post.ForumID, post.ID); err != nil || !ok {
			return notLinked(err, models.KindForum)
		}
		return nil
	})
	if err != nil {
		s.files.discard(ctx, imageURL)
		return nil, err
	}

	s.log.Info().Str("post_id", post.ID).Str("forum_id", post.ForumID).Msg("Post created")
	return post, nil
}

func (s *postService) requireParents(ctx context.Context, userID, forumID string) error {
	if !models.ValidID(userID) {
		return apperr.NotFound(models.KindUser)
	}
	if !models.ValidID(forumID) {
		return apperr.NotFound(models.KindForum)
	}

	user, err := s.repos.User.GetByID(ctx, userID)
	if err != nil {
		return err
	}
	if user == nil {
		return apperr.NotFound(models.KindUser)
	}

	forum, err := s.repos.Forum.GetByID(ctx, forumID)
	if err != nil {
		return err
	}
	if forum == nil {
		return apperr.NotFound(models.KindForum)
	}
	return nil
}

// GetByID returns the post with its comments populated
func (s *postService) GetByID(ctx context.Context, id string) (*models.PopulatedPost, error) {
	if !models.ValidID(id) {
		return nil, apperr.NotFound(models.KindPost)
	}
	post, err := s.repos.Post.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if post == nil {
		return nil, apperr.NotFound(models.KindPost)
	}
	return populatePost(ctx, s.repos, post)
}

// Update changes title, content and image of the caller's own post
func (s *postService) Update(ctx context.Context, caller auth.Identity, id string, patch *models.PostPatch, file *models.Attachment) (*models.PopulatedPost, error) {
	post, err := s.guard.AuthorizePost(ctx, caller, id)
	if err != nil {
		return nil, err
	}
	if err := s.files.check(file); err != nil {
		return nil, err
	}

	merged := &models.PostInput{
		UserID:  post.UserID,
		Title:   stringOr(patch.Title, post.Title),
		Content: stringOr(patch.Content, post.Content),
		ForumID: post.ForumID,
	}
	if err := validation.Check(s.validator.ValidatePost(merged)); err != nil {
		return nil, err
	}

	var uploaded string
	if file != nil {
		if uploaded, err = s.files.store(ctx, file); err != nil {
			return nil, err
		}
		post.ImageURL = uploaded
	}
	post.Title = merged.Title
	post.Content = merged.Content

	found, err := s.repos.Post.Update(ctx, post)
	if err == nil && !found {
		err = apperr.NotFound(models.KindPost)
	}
	if err != nil {
		s.files.discard(ctx, uploaded)
		return nil, err
	}
	return populatePost(ctx, s.repos, post)
}

// Delete removes the caller's own post. Back-references to it remain.
func (s *postService) Delete(ctx context.Context, caller auth.Identity, id string) (*models.DeleteResult, error) {
	if _, err := s.guard.AuthorizePost(ctx, caller, id); err != nil {
		return nil, err
	}

	found, err := s.repos.Post.Delete(ctx, id)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, apperr.NotFound(models.KindPost)
	}

	s.log.Info().Str("post_id", id).Msg("Post deleted")
	return deleted(models.KindPost, id), nil
}

// notLinked turns a failed back-reference append into an error. A parent
// that vanished between lookup and append is reported as not found.
func notLinked(err error, parentKind string) error {
	if err != nil {
		return err
	}
	return apperr.NotFound(parentKind)
}
