package repository

import (
	"context"

	"github.com/hacklingo-backend/internal/database"
	"github.com/hacklingo-backend/internal/models"
	"github.com/lib/pq"
)

const commentColumns = `id, user_id, post_id, content, created_at, updated_at`

// commentRepo is the concrete implementation of CommentRepository
type commentRepo struct {
	db database.Querier
}

// NewCommentRepo creates a new comment repository
func NewCommentRepo(db database.Querier) CommentRepository {
	return &commentRepo{db: db}
}

func scanComment(row scanner) (*models.Comment, error) {
	var comment models.Comment
	err := row.Scan(
		&comment.ID, &comment.UserID, &comment.PostID, &comment.Content,
		&comment.CreatedAt, &comment.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &comment, nil
}

// Create inserts a new comment
func (r *commentRepo) Create(ctx context.Context, comment *models.Comment) error {
	query := `
		INSERT INTO comments (id, user_id, post_id, content)
		VALUES ($1, $2, $3, $4)
		RETURNING created_at, updated_at
	`
	return r.db.QueryRowContext(ctx, query,
		comment.ID, comment.UserID, comment.PostID, comment.Content,
	).Scan(&comment.CreatedAt, &comment.UpdatedAt)
}

// GetByID retrieves a comment by ID
func (r *commentRepo) GetByID(ctx context.Context, id string) (*models.Comment, error) {
	query := `SELECT ` + commentColumns + ` FROM comments WHERE id = $1`

	comment, err := scanComment(r.db.QueryRowContext(ctx, query, id))
	if isNoRows(err) {
		return nil, nil
	}
	return comment, err
}

// GetByIDs retrieves comments in the order of ids, skipping missing ones
func (r *commentRepo) GetByIDs(ctx context.Context, ids []string) ([]*models.Comment, error) {
	if len(ids) == 0 {
		return []*models.Comment{}, nil
	}

	rows, err := r.db.QueryContext(ctx,
		`SELECT `+commentColumns+` FROM comments WHERE id = ANY($1)`, pq.Array(ids))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var comments []*models.Comment
	for rows.Next() {
		comment, err := scanComment(rows)
		if err != nil {
			return nil, err
		}
		comments = append(comments, comment)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return orderByIDs(ids, comments, func(c *models.Comment) string { return c.ID }), nil
}

// Update overwrites the comment content
func (r *commentRepo) Update(ctx context.Context, comment *models.Comment) (bool, error) {
	query := `
		UPDATE comments SET content = $1, updated_at = NOW()
		WHERE id = $2
		RETURNING updated_at
	`
	err := r.db.QueryRowContext(ctx, query, comment.Content, comment.ID).Scan(&comment.UpdatedAt)
	if isNoRows(err) {
		return false, nil
	}
	return err == nil, err
}

// Delete removes only the comment row
func (r *commentRepo) Delete(ctx context.Context, id string) (bool, error) {
	result, err := r.db.ExecContext(ctx, "DELETE FROM comments WHERE id = $1", id)
	if err != nil {
		return false, err
	}
	rows, _ := result.RowsAffected()
	return rows > 0, nil
}

// Count returns the total number of comments
func (r *commentRepo) Count(ctx context.Context) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM comments").Scan(&count)
	return count, err
}
