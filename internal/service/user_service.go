package service

import (
	"context"

	"github.com/hacklingo-backend/internal/apperr"
	"github.com/hacklingo-backend/internal/auth"
	"github.com/hacklingo-backend/internal/models"
	"github.com/hacklingo-backend/internal/password"
	"github.com/hacklingo-backend/internal/repository"
	"github.com/hacklingo-backend/internal/validation"
	"github.com/rs/zerolog"
)

// userService is the concrete implementation of UserService
type userService struct {
	repos     *repository.Repositories
	guard     *auth.Guard
	validator *validation.Validator
	hasher    password.Hasher
	files     *attachments
	log       zerolog.Logger
}

func newUserService(repos *repository.Repositories, guard *auth.Guard, validator *validation.Validator,
	hasher password.Hasher, files *attachments, log zerolog.Logger) *userService {
	return &userService{
		repos:     repos,
		guard:     guard,
		validator: validator,
		hasher:    hasher,
		files:     files,
		log:       log.With().Str("service", "user").Logger(),
	}
}

// Register validates the profile, hashes the password and stores the user.
// The optional attachment becomes the profile image.
func (s *userService) Register(ctx context.Context, input *models.UserInput, file *models.Attachment) (*models.User, error) {
	if err := s.files.check(file); err != nil {
		return nil, err
	}
	if err := validation.Check(s.validator.ValidateUser(input)); err != nil {
		return nil, err
	}

	hash, err := s.hasher.Hash(input.Password)
	if err != nil {
		return nil, err
	}

	imageURL, err := s.files.store(ctx, file)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		ID:              models.NewID(),
		Username:        input.Username,
		Email:           input.Email,
		PasswordHash:    hash,
		Role:            input.Role,
		NativeLanguage:  input.NativeLanguage,
		TargetLanguage:  orEmpty(input.TargetLanguage),
		ProfileImageURL: imageURL,
		Posts:           []string{},
		Comments:        []string{},
	}
	if err := s.repos.User.Create(ctx, user); err != nil {
		s.files.discard(ctx, imageURL)
		return nil, err
	}

	s.log.Info().Str("user_id", user.ID).Msg("User registered")
	return user, nil
}

// Login returns the user whose email and password match
func (s *userService) Login(ctx context.Context, input *models.LoginInput) (*models.User, error) {
	var violations []validation.ValidationError
	if input.Email == "" {
		violations = append(violations, validation.ValidationError{Field: "email", Message: "Email is required"})
	}
	if input.Password == "" {
		violations = append(violations, validation.ValidationError{Field: "password", Message: "Password is required"})
	}
	if err := validation.Check(violations); err != nil {
		return nil, err
	}

	user, err := s.repos.User.GetByEmail(ctx, input.Email)
	if err != nil {
		return nil, err
	}
	if user == nil || !s.hasher.Verify(input.Password, user.PasswordHash) {
		return nil, apperr.Unauthenticated()
	}
	return user, nil
}

// Find searches users without their back-references
func (s *userService) Find(ctx context.Context, filter models.UserFilter) ([]*models.UserSummary, error) {
	users, err := s.repos.User.FindByFilter(ctx, filter)
	if err != nil {
		return nil, err
	}

	summaries := make([]*models.UserSummary, 0, len(users))
	for _, u := range users {
		summaries = append(summaries, u.Summary())
	}
	return summaries, nil
}

// GetByID returns the user with posts and comments populated
func (s *userService) GetByID(ctx context.Context, id string) (*models.PopulatedUser, error) {
	if !models.ValidID(id) {
		return nil, apperr.NotFound(models.KindUser)
	}
	user, err := s.repos.User.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, apperr.NotFound(models.KindUser)
	}
	return populateUser(ctx, s.repos, user)
}

// Update merges the patch into the caller's own profile. The password is
// re-validated and re-hashed only when a new one is supplied.
func (s *userService) Update(ctx context.Context, caller auth.Identity, id string, patch *models.UserPatch, file *models.Attachment) (*models.UserSummary, error) {
	user, err := s.guard.AuthorizeUser(ctx, caller, id)
	if err != nil {
		return nil, err
	}
	if err := s.files.check(file); err != nil {
		return nil, err
	}

	merged := &models.UserInput{
		Username:       stringOr(patch.Username, user.Username),
		Email:          stringOr(patch.Email, user.Email),
		Password:       stringOr(patch.Password, ""),
		NativeLanguage: stringOr(patch.NativeLanguage, user.NativeLanguage),
		Role:           stringOr(patch.Role, user.Role),
		TargetLanguage: user.TargetLanguage,
	}
	if patch.TargetLanguage != nil {
		merged.TargetLanguage = patch.TargetLanguage
	}

	passwordChanged := patch.Password != nil
	if err := validation.Check(s.validator.ValidateUserUpdate(merged, passwordChanged)); err != nil {
		return nil, err
	}

	if passwordChanged {
		if user.PasswordHash, err = s.hasher.Hash(merged.Password); err != nil {
			return nil, err
		}
	}
	var uploaded string
	if file != nil {
		if uploaded, err = s.files.store(ctx, file); err != nil {
			return nil, err
		}
		user.ProfileImageURL = uploaded
	}

	user.Username = merged.Username
	user.Email = merged.Email
	user.Role = merged.Role
	user.NativeLanguage = merged.NativeLanguage
	user.TargetLanguage = orEmpty(merged.TargetLanguage)

	found, err := s.repos.User.Update(ctx, user)
	if err == nil && !found {
		err = apperr.NotFound(models.KindUser)
	}
	if err != nil {
		s.files.discard(ctx, uploaded)
		return nil, err
	}
	return user.Summary(), nil
}

// Delete removes the caller's own user record. Posts and comments stay.
func (s *userService) Delete(ctx context.Context, caller auth.Identity, id string) (*models.DeleteResult, error) {
	if _, err := s.guard.AuthorizeUser(ctx, caller, id); err != nil {
		return nil, err
	}

	found, err := s.repos.User.Delete(ctx, id)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, apperr.NotFound(models.KindUser)
	}

	s.log.Info().Str("user_id", id).Msg("User deleted")
	return deleted(models.KindUser, id), nil
}
