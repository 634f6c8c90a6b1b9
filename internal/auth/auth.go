// Package auth resolves who is acting on a request and gates mutations by
// ownership.
//
// Identity is caller-asserted: front-ends copy a user id from the request
// (the identity header) into an Identity without verifying it.
package auth

import (
	"context"

	"github.com/hacklingo-backend/internal/apperr"
	"github.com/hacklingo-backend/internal/models"
	"github.com/hacklingo-backend/internal/repository"
)

// Identity is the caller of an operation
type Identity struct {
	UserID string
}

// Anonymous is the identity of a caller that asserted nothing
var Anonymous = Identity{}

// NewIdentity builds an identity from an asserted user id
func NewIdentity(userID string) Identity {
	return Identity{UserID: userID}
}

// Authenticated reports whether the caller asserted a user id
func (i Identity) Authenticated() bool {
	return i.UserID != ""
}

// Guard loads mutation targets and compares their owner with the caller
type Guard struct {
	users    repository.UserRepository
	posts    repository.PostRepository
	comments repository.CommentRepository
}

// NewGuard creates a guard over the given repositories
func NewGuard(repos *repository.Repositories) *Guard {
	return &Guard{
		users:    repos.User,
		posts:    repos.Post,
		comments: repos.Comment,
	}
}

// Require fails with Unauthenticated when the caller has no identity
func Require(caller Identity) error {
	if !caller.Authenticated() {
		return apperr.Unauthenticated()
	}
	return nil
}

// RequireOwner fails with Forbidden unless ownerID is the caller
func RequireOwner(caller Identity, ownerID string) error {
	if err := Require(caller); err != nil {
		return err
	}
	if ownerID != caller.UserID {
		return apperr.Forbidden()
	}
	return nil
}

// AuthorizeUser returns the user record when the caller is that user
func (g *Guard) AuthorizeUser(ctx context.Context, caller Identity, id string) (*models.User, error) {
	if err := Require(caller); err != nil {
		return nil, err
	}
	if !models.ValidID(id) {
		return nil, apperr.NotFound(models.KindUser)
	}
	user, err := g.users.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, apperr.NotFound(models.KindUser)
	}
	if err := RequireOwner(caller, user.ID); err != nil {
		return nil, err
	}
	return user, nil
}

// AuthorizePost returns the post when the caller authored it
func (g *Guard) AuthorizePost(ctx context.Context, caller Identity, id string) (*models.Post, error) {
	if err := Require(caller); err != nil {
		return nil, err
	}
	if !models.ValidID(id) {
		return nil, apperr.NotFound(models.KindPost)
	}
	post, err := g.posts.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if post == nil {
		return nil, apperr.NotFound(models.KindPost)
	}
	if err := RequireOwner(caller, post.UserID); err != nil {
		return nil, err
	}
	return post, nil
}

// AuthorizeComment returns the comment when the caller authored it
func (g *Guard) AuthorizeComment(ctx context.Context, caller Identity, id string) (*models.Comment, error) {
	if err := Require(caller); err != nil {
		return nil, err
	}
	if !models.ValidID(id) {
		return nil, apperr.NotFound(models.KindComment)
	}
	comment, err := g.comments.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if comment == nil {
		return nil, apperr.NotFound(models.KindComment)
	}
	if err := RequireOwner(caller, comment.UserID); err != nil {
		return nil, err
	}
	return comment, nil
}
