package repository

import (
	"context"
	"time"

	"github.com/hacklingo-backend/internal/apperr"
	"github.com/hacklingo-backend/internal/database"
	"github.com/hacklingo-backend/internal/models"
	"github.com/lib/pq"
)

const forumColumns = `id, name, posts, created_at, updated_at`

// forumRepo is the concrete implementation of ForumRepository
type forumRepo struct {
	db database.Querier
}

// NewForumRepo creates a new forum repository
func NewForumRepo(db database.Querier) ForumRepository {
	return &forumRepo{db: db}
}

func scanForum(row scanner) (*models.Forum, error) {
	var forum models.Forum
	err := row.Scan(&forum.ID, &forum.Name, pq.Array(&forum.Posts), &forum.CreatedAt, &forum.UpdatedAt)
	if err != nil {
		return nil, err
	}
	forum.Posts = orEmpty(forum.Posts)
	return &forum, nil
}

// Create inserts a single forum
func (r *forumRepo) Create(ctx context.Context, forum *models.Forum) error {
	query := `
		INSERT INTO forums (id, name, posts)
		VALUES ($1, $2, $3)
		RETURNING created_at, updated_at
	`
	err := r.db.QueryRowContext(ctx, query, forum.ID, forum.Name, arrayValue(forum.Posts)).
		Scan(&forum.CreatedAt, &forum.UpdatedAt)
	if isUniqueViolation(err) {
		return apperr.Conflict(apperr.MsgForumNameTaken, err)
	}
	return err
}

// BatchInsert inserts forums using PostgreSQL COPY. It must run on a
// transaction: any failing row aborts the whole batch.
func (r *forumRepo) BatchInsert(ctx context.Context, forums []*models.Forum) (int, error) {
	if len(forums) == 0 {
		return 0, nil
	}

	stmt, err := r.db.PrepareContext(ctx, pq.CopyIn("forums",
		"id", "name", "created_at", "updated_at",
	))
	if err != nil {
		return 0, err
	}
	defer stmt.Close()

	now := time.Now().UTC()
	for _, forum := range forums {
		forum.CreatedAt, forum.UpdatedAt = now, now
		forum.Posts = orEmpty(forum.Posts)
		if _, err := stmt.ExecContext(ctx, forum.ID, forum.Name, now, now); err != nil {
			return 0, r.batchError(err)
		}
	}

	// Execute the COPY
	if _, err := stmt.ExecContext(ctx); err != nil {
		return 0, r.batchError(err)
	}

	return len(forums), nil
}

func (r *forumRepo) batchError(err error) error {
	if isUniqueViolation(err) {
		return apperr.Conflict(apperr.MsgForumNameTaken, err)
	}
	return err
}

// GetByID retrieves a forum by ID
func (r *forumRepo) GetByID(ctx context.Context, id string) (*models.Forum, error) {
	query := `SELECT ` + forumColumns + ` FROM forums WHERE id = $1`

	forum, err := scanForum(r.db.QueryRowContext(ctx, query, id))
	if isNoRows(err) {
		return nil, nil
	}
	return forum, err
}

// List returns every forum in creation order
func (r *forumRepo) List(ctx context.Context) ([]*models.Forum, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+forumColumns+` FROM forums ORDER BY created_at, id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	forums := []*models.Forum{}
	for rows.Next() {
		forum, err := scanForum(rows)
		if err != nil {
			return nil, err
		}
		forums = append(forums, forum)
	}
	return forums, rows.Err()
}

// Delete removes only the forum row
func (r *forumRepo) Delete(ctx context.Context, id string) (bool, error) {
	result, err := r.db.ExecContext(ctx, "DELETE FROM forums WHERE id = $1", id)
	if err != nil {
		return false, err
	}
	rows, _ := result.RowsAffected()
	return rows > 0, nil
}

// AppendPost adds a post id to the end of the forum's posts
func (r *forumRepo) AppendPost(ctx context.Context, forumID, postID string) (bool, error) {
	return appendReference(ctx, r.db, "forums", "posts", forumID, postID)
}

// Count returns the total number of forums
func (r *forumRepo) Count(ctx context.Context) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM forums").Scan(&count)
	return count, err
}
