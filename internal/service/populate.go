package service

import (
	"context"

	"github.com/hacklingo-backend/internal/models"
	"github.com/hacklingo-backend/internal/repository"
)

// Population resolves back-reference ids in stored order. Ids whose record
// was deleted are skipped.

func populateUser(ctx context.Context, repos *repository.Repositories, user *models.User) (*models.PopulatedUser, error) {
	posts, err := repos.Post.GetByIDs(ctx, user.Posts)
	if err != nil {
		return nil, err
	}
	comments, err := repos.Comment.GetByIDs(ctx, user.Comments)
	if err != nil {
		return nil, err
	}
	return &models.PopulatedUser{User: user, Posts: posts, Comments: comments}, nil
}

func populateForum(ctx context.Context, repos *repository.Repositories, forum *models.Forum) (*models.PopulatedForum, error) {
	posts, err := repos.Post.GetByIDs(ctx, forum.Posts)
	if err != nil {
		return nil, err
	}
	return &models.PopulatedForum{Forum: forum, Posts: posts}, nil
}

func populatePost(ctx context.Context, repos *repository.Repositories, post *models.Post) (*models.PopulatedPost, error) {
	comments, err := repos.Comment.GetByIDs(ctx, post.Comments)
	if err != nil {
		return nil, err
	}
	return &models.PopulatedPost{Post: post, Comments: comments}, nil
}
