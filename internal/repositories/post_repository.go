package repositories

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/memberhub/backend/internal/apperror"
	"github.com/memberhub/backend/internal/models"
	"go.uber.org/zap"
)

// postRepository implements post table data access
type postRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewPostRepository creates a new post repository
func NewPostRepository(db *sql.DB, logger *zap.Logger) *postRepository {
	return &postRepository{
		db:     db,
		logger: logger,
	}
}

// Create inserts a new post into the database
func (r *postRepository) Create(ctx context.Context, post *models.Post) error {
	query := `
		INSERT INTO posts (title, content, user_id)
		VALUES (?, ?, ?)
	`

	result, err := r.db.ExecContext(ctx, query, post.Title, post.Content, post.UserID)
	if err != nil {
		r.logger.Error("failed to create post", zap.Error(err))
		return fmt.Errorf("failed to create post: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		r.logger.Error("failed to get last insert id", zap.Error(err))
		return fmt.Errorf("failed to get last insert id: %w", err)
	}

	post.ID = int(id)
	return nil
}

// GetByID retrieves a post by ID
func (r *postRepository) GetByID(ctx context.Context, id int) (*models.Post, error) {
	query := `
		SELECT id, title, content, user_id, created_at, updated_at
		FROM posts
		WHERE id = ?
		LIMIT 1
	`

	post := &models.Post{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&post.ID,
		&post.Title,
		&post.Content,
		&post.UserID,
		&post.CreatedAt,
		&post.UpdatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, apperror.NewNotFound("Post not found")
	}
	if err != nil {
		r.logger.Error("failed to get post by id", zap.Error(err), zap.Int("id", id))
		return nil, fmt.Errorf("failed to get post by id: %w", err)
	}

	return post, nil
}

// GetByIDForUser retrieves a post by ID scoped to its owner. A post owned by
// another user is indistinguishable from a missing one.
func (r *postRepository) GetByIDForUser(ctx context.Context, id, userID int) (*models.Post, error) {
	query := `
		SELECT id, title, content, user_id, created_at, updated_at
		FROM posts
		WHERE id = ? AND user_id = ?
		LIMIT 1
	`

	post := &models.Post{}
	err := r.db.QueryRowContext(ctx, query, id, userID).Scan(
		&post.ID,
		&post.Title,
		&post.Content,
		&post.UserID,
		&post.CreatedAt,
		&post.UpdatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, apperror.NewNotFound("Post not found")
	}
	if err != nil {
		r.logger.Error("failed to get post for user", zap.Error(err), zap.Int("id", id), zap.Int("user_id", userID))
		return nil, fmt.Errorf("failed to get post for user: %w", err)
	}

	return post, nil
}

// Update applies the post's current field values to the stored row
func (r *postRepository) Update(ctx context.Context, post *models.Post) error {
	query := `
		UPDATE posts
		SET title = ?, content = ?
		WHERE id = ? AND user_id = ?
	`

	_, err := r.db.ExecContext(ctx, query, post.Title, post.Content, post.ID, post.UserID)
	if err != nil {
		r.logger.Error("failed to update post", zap.Error(err), zap.Int("id", post.ID))
		return fmt.Errorf("failed to update post: %w", err)
	}

	return nil
}

// Delete hard-deletes a post scoped to its owner
func (r *postRepository) Delete(ctx context.Context, id, userID int) error {
	query := `DELETE FROM posts WHERE id = ? AND user_id = ?`

	result, err := r.db.ExecContext(ctx, query, id, userID)
	if err != nil {
		r.logger.Error("failed to delete post", zap.Error(err), zap.Int("id", id))
		return fmt.Errorf("failed to delete post: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		r.logger.Error("failed to get rows affected", zap.Error(err))
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return apperror.NewNotFound("Post not found")
	}

	return nil
}

// List retrieves a page of posts across all users, each joined with its
// owning user, with an optional substring filter over title and content.
func (r *postRepository) List(ctx context.Context, q models.ListQuery) ([]models.PostWithUser, int, error) {
	var whereClause string
	var filterArgs []any

	if q.Search != "" {
		whereClause = `WHERE p.title LIKE ? OR p.content LIKE ?`
		searchValue := "%" + q.Search + "%"
		filterArgs = append(filterArgs, searchValue, searchValue)
	}

	countQuery := fmt.Sprintf(`SELECT COUNT(*) FROM posts p %s`, whereClause)

	var total int
	if err := r.db.QueryRowContext(ctx, countQuery, filterArgs...).Scan(&total); err != nil {
		r.logger.Error("failed to count posts", zap.Error(err))
		return nil, 0, fmt.Errorf("failed to count posts: %w", err)
	}

	offset := (q.Page - 1) * q.Limit
	query := fmt.Sprintf(`
		SELECT p.id, p.title, p.content, p.user_id, p.created_at, p.updated_at,
		       u.id, u.name, u.email, u.member_code, u.created_at, u.updated_at
		FROM posts p
		JOIN users u ON u.id = p.user_id
		%s
		ORDER BY p.id
		LIMIT ? OFFSET ?
	`, whereClause)

	args := append(filterArgs, q.Limit, offset)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		r.logger.Error("failed to query posts", zap.Error(err))
		return nil, 0, fmt.Errorf("failed to query posts: %w", err)
	}
	defer rows.Close()

	posts := []models.PostWithUser{}
	for rows.Next() {
		var post models.PostWithUser
		err := rows.Scan(
			&post.ID,
			&post.Title,
			&post.Content,
			&post.UserID,
			&post.CreatedAt,
			&post.UpdatedAt,
			&post.User.ID,
			&post.User.Name,
			&post.User.Email,
			&post.User.MemberCode,
			&post.User.CreatedAt,
			&post.User.UpdatedAt,
		)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan post: %w", err)
		}
		posts = append(posts, post)
	}

	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("error iterating rows: %w", err)
	}

	return posts, total, nil
}
