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

// forumService is the concrete implementation of ForumService
type forumService struct {
	repos     *repository.Repositories
	tx        repository.TxRunner
	validator *validation.Validator
	log       zerolog.Logger
}

func newForumService(repos *repository.Repositories, tx repository.TxRunner, validator *validation.Validator, log zerolog.Logger) *forumService {
	return &forumService{
		repos:     repos,
		tx:        tx,
		validator: validator,
		log:       log.With().Str("service", "forum").Logger(),
	}
}

// InsertMany seeds forums all-or-nothing. The first invalid record or
// duplicate name aborts the whole batch.
func (s *forumService) InsertMany(ctx context.Context, inputs []models.ForumInput) ([]*models.Forum, error) {
	if len(inputs) == 0 {
		return nil, apperr.Validation(validation.ValidationError{
			Field:   "forums",
			Message: "At least one forum is required",
		})
	}

	forums := make([]*models.Forum, 0, len(inputs))
	for i := range inputs {
		if err := validation.Check(s.validator.ValidateForum(&inputs[i])); err != nil {
			return nil, err
		}
		forums = append(forums, &models.Forum{ID: models.NewID(), Name: inputs[i].Name, Posts: []string{}})
	}

	err := s.tx.WithinTx(ctx, func(repos *repository.Repositories) error {
		_, err := repos.Forum.BatchInsert(ctx, forums)
		return err
	})
	if err != nil {
		return nil, err
	}

	s.log.Info().Int("count", len(forums)).Msg("Forums inserted")
	return forums, nil
}

// Insert creates a single forum
func (s *forumService) Insert(ctx context.Context, input *models.ForumInput) (*models.Forum, error) {
	if err := validation.Check(s.validator.ValidateForum(input)); err != nil {
		return nil, err
	}

	forum := &models.Forum{ID: models.NewID(), Name: input.Name, Posts: []string{}}
	if err := s.repos.Forum.Create(ctx, forum); err != nil {
		return nil, err
	}
	return forum, nil
}

// List returns all forums with post ids unresolved
func (s *forumService) List(ctx context.Context) ([]*models.Forum, error) {
	return s.repos.Forum.List(ctx)
}

// GetByID returns the forum with its posts populated
func (s *forumService) GetByID(ctx context.Context, id string) (*models.PopulatedForum, error) {
	if !models.ValidID(id) {
		return nil, apperr.NotFound(models.KindForum)
	}
	forum, err := s.repos.Forum.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if forum == nil {
		return nil, apperr.NotFound(models.KindForum)
	}
	return populateForum(ctx, s.repos, forum)
}

// Delete removes a forum. Any authenticated caller may do this; posts that
// belonged to it are left in place.
func (s *forumService) Delete(ctx context.Context, caller auth.Identity, id string) (*models.DeleteResult, error) {
	if err := auth.Require(caller); err != nil {
		return nil, err
	}
	if !models.ValidID(id) {
		return nil, apperr.NotFound(models.KindForum)
	}

	found, err := s.repos.Forum.Delete(ctx, id)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, apperr.NotFound(models.KindForum)
	}

	s.log.Info().Str("forum_id", id).Str("caller", caller.UserID).Msg("Forum deleted")
	return deleted(models.KindForum, id), nil
}
