package repository

import (
	"context"

	"github.com/hacklingo-backend/internal/apperr"
	"github.com/hacklingo-backend/internal/database"
	"github.com/hacklingo-backend/internal/models"
	"github.com/lib/pq"
)

const userColumns = `id, username, email, password_hash, role, native_language, target_language,
	profile_image_url, posts, comments, created_at, updated_at`

// userRepo is the concrete implementation of UserRepository
type userRepo struct {
	db database.Querier
}

// NewUserRepo creates a new user repository
func NewUserRepo(db database.Querier) UserRepository {
	return &userRepo{db: db}
}

func scanUser(row scanner) (*models.User, error) {
	var user models.User
	err := row.Scan(
		&user.ID, &user.Username, &user.Email, &user.PasswordHash, &user.Role,
		&user.NativeLanguage, pq.Array(&user.TargetLanguage), &user.ProfileImageURL,
		pq.Array(&user.Posts), pq.Array(&user.Comments), &user.CreatedAt, &user.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	user.TargetLanguage = orEmpty(user.TargetLanguage)
	user.Posts = orEmpty(user.Posts)
	user.Comments = orEmpty(user.Comments)
	return &user, nil
}

// Create inserts a new user. A taken username or email is a Conflict.
func (r *userRepo) Create(ctx context.Context, user *models.User) error {
	query := `
		INSERT INTO users (id, username, email, password_hash, role, native_language,
			target_language, profile_image_url, posts, comments)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING created_at, updated_at
	`
	err := r.db.QueryRowContext(ctx, query,
		user.ID, user.Username, user.Email, user.PasswordHash, user.Role, user.NativeLanguage,
		arrayValue(user.TargetLanguage), user.ProfileImageURL,
		arrayValue(user.Posts), arrayValue(user.Comments),
	).Scan(&user.CreatedAt, &user.UpdatedAt)
	if isUniqueViolation(err) {
		return apperr.Conflict(apperr.MsgUserTaken, err)
	}
	return err
}

// GetByID retrieves a user by ID
func (r *userRepo) GetByID(ctx context.Context, id string) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`

	user, err := scanUser(r.db.QueryRowContext(ctx, query, id))
	if isNoRows(err) {
		return nil, nil
	}
	return user, err
}

// GetByEmail retrieves a user by email
func (r *userRepo) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE email = $1`

	user, err := scanUser(r.db.QueryRowContext(ctx, query, email))
	if isNoRows(err) {
		return nil, nil
	}
	return user, err
}

// FindByFilter matches native language exactly and username as a
// case-insensitive substring. Empty filter fields match everything.
func (r *userRepo) FindByFilter(ctx context.Context, filter models.UserFilter) ([]*models.User, error) {
	query := `
		SELECT ` + userColumns + ` FROM users
		WHERE ($1 = '' OR native_language = $1)
		  AND ($2 = '' OR username ILIKE $3)
		ORDER BY created_at, id
	`
	rows, err := r.db.QueryContext(ctx, query,
		filter.NativeLanguage, filter.Username, likePattern(filter.Username),
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	users := []*models.User{}
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, user)
	}
	return users, rows.Err()
}

// Update overwrites the profile fields. Back-references are left alone.
func (r *userRepo) Update(ctx context.Context, user *models.User) (bool, error) {
	query := `
		UPDATE users SET
			username = $1, email = $2, password_hash = $3, role = $4, native_language = $5,
			target_language = $6, profile_image_url = $7, updated_at = NOW()
		WHERE id = $8
		RETURNING updated_at
	`
	err := r.db.QueryRowContext(ctx, query,
		user.Username, user.Email, user.PasswordHash, user.Role, user.NativeLanguage,
		arrayValue(user.TargetLanguage), user.ProfileImageURL, user.ID,
	).Scan(&user.UpdatedAt)
	switch {
	case isNoRows(err):
		return false, nil
	case isUniqueViolation(err):
		return false, apperr.Conflict(apperr.MsgUserTaken, err)
	case err != nil:
		return false, err
	}
	return true, nil
}

// Delete removes only the user row
func (r *userRepo) Delete(ctx context.Context, id string) (bool, error) {
	result, err := r.db.ExecContext(ctx, "DELETE FROM users WHERE id = $1", id)
	if err != nil {
		return false, err
	}
	rows, _ := result.RowsAffected()
	return rows > 0, nil
}

// AppendPost adds a post id to the end of the user's posts
func (r *userRepo) AppendPost(ctx context.Context, userID, postID string) (bool, error) {
	return appendReference(ctx, r.db, "users", "posts", userID, postID)
}

// AppendComment adds a comment id to the end of the user's comments
func (r *userRepo) AppendComment(ctx context.Context, userID, commentID string) (bool, error) {
	return appendReference(ctx, r.db, "users", "comments", userID, commentID)
}

// Count returns the total number of users
func (r *userRepo) Count(ctx context.Context) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM users").Scan(&count)
	return count, err
}
