package repository

import (
	"context"

	"github.com/hacklingo-backend/internal/database"
	"github.com/hacklingo-backend/internal/models"
	"github.com/lib/pq"
)

const postColumns = `id, user_id, forum_id, title, content, image_url, comments, created_at, updated_at`

// postRepo is the concrete implementation of PostRepository
type postRepo struct {
	db database.Querier
}

// NewPostRepo creates a new post repository
func NewPostRepo(db database.Querier) PostRepository {
	return &postRepo{db: db}
}

func scanPost(row scanner) (*models.Post, error) {
	var post models.Post
	err := row.Scan(
		&post.ID, &post.UserID, &post.ForumID, &post.Title, &post.Content, &post.ImageURL,
		pq.Array(&post.Comments), &post.CreatedAt, &post.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	post.Comments = orEmpty(post.Comments)
	return &post, nil
}

// Create inserts a new post
func (r *postRepo) Create(ctx context.Context, post *models.Post) error {
	query := `
		INSERT INTO posts (id, user_id, forum_id, title, content, image_url, comments)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING created_at, updated_at
	`
	return r.db.QueryRowContext(ctx, query,
		post.ID, post.UserID, post.ForumID, post.Title, post.Content, post.ImageURL,
		arrayValue(post.Comments),
	).Scan(&post.CreatedAt, &post.UpdatedAt)
}

// GetByID retrieves a post by ID
func (r *postRepo) GetByID(ctx context.Context, id string) (*models.Post, error) {
	query := `SELECT ` + postColumns + ` FROM posts WHERE id = $1`

	post, err := scanPost(r.db.QueryRowContext(ctx, query, id))
	if isNoRows(err) {
		return nil, nil
	}
	return post, err
}

// GetByIDs retrieves posts in the order of ids, skipping missing ones
func (r *postRepo) GetByIDs(ctx context.Context, ids []string) ([]*models.Post, error) {
	if len(ids) == 0 {
		return []*models.Post{}, nil
	}

	rows, err := r.db.QueryContext(ctx,
		`SELECT `+postColumns+` FROM posts WHERE id = ANY($1)`, pq.Array(ids))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var posts []*models.Post
	for rows.Next() {
		post, err := scanPost(rows)
		if err != nil {
			return nil, err
		}
		posts = append(posts, post)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return orderByIDs(ids, posts, func(p *models.Post) string { return p.ID }), nil
}

// Update overwrites title, content and image. Owner and forum never change.
func (r *postRepo) Update(ctx context.Context, post *models.Post) (bool, error) {
	query := `
		UPDATE posts SET title = $1, content = $2, image_url = $3, updated_at = NOW()
		WHERE id = $4
		RETURNING updated_at
	`
	err := r.db.QueryRowContext(ctx, query, post.Title, post.Content, post.ImageURL, post.ID).
		Scan(&post.UpdatedAt)
	if isNoRows(err) {
		return false, nil
	}
	return err == nil, err
}

// Delete removes only the post row
func (r *postRepo) Delete(ctx context.Context, id string) (bool, error) {
	result, err := r.db.ExecContext(ctx, "DELETE FROM posts WHERE id = $1", id)
	if err != nil {
		return false, err
	}
	rows, _ := result.RowsAffected()
	return rows > 0, nil
}

// AppendComment adds a comment id to the end of the post's comments
func (r *postRepo) AppendComment(ctx context.Context, postID, commentID string) (bool, error) {
	return appendReference(ctx, r.db, "posts", "comments", postID, commentID)
}

// Count returns the total number of posts
func (r *postRepo) Count(ctx context.Context) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM posts").Scan(&count)
	return count, err
}
