package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/go-sql-driver/mysql"
	"github.com/memberhub/backend/internal/apperror"
	"github.com/memberhub/backend/internal/models"
	"go.uber.org/zap"
)

// userRepository implements user table data access
type userRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewUserRepository creates a new user repository
func NewUserRepository(db *sql.DB, logger *zap.Logger) *userRepository {
	return &userRepository{
		db:     db,
		logger: logger,
	}
}

// duplicateField maps a MySQL duplicate-key error (1062) to the offending
// column. Uniqueness races that slip past the service pre-checks end up here.
func duplicateField(err error) (string, bool) {
	var mysqlErr *mysql.MySQLError
	if !errors.As(err, &mysqlErr) || mysqlErr.Number != 1062 {
		return "", false
	}
	if strings.Contains(mysqlErr.Message, "member_code") {
		return "member_code", true
	}
	if strings.Contains(mysqlErr.Message, "email") {
		return "email", true
	}
	return "", true
}

// Create inserts a new user into the database
func (r *userRepository) Create(ctx context.Context, user *models.User) error {
	query := `
		INSERT INTO users (name, email, member_code, password_hash)
		VALUES (?, ?, ?, ?)
	`

	result, err := r.db.ExecContext(ctx, query, user.Name, user.Email, user.MemberCode, user.PasswordHash)
	if err != nil {
		if field, ok := duplicateField(err); ok {
			return apperror.NewConflict(field, fmt.Sprintf("The %s has already been taken", field), err)
		}
		r.logger.Error("failed to create user", zap.Error(err))
		return fmt.Errorf("failed to create user: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		r.logger.Error("failed to get last insert id", zap.Error(err))
		return fmt.Errorf("failed to get last insert id: %w", err)
	}

	user.ID = int(id)
	return nil
}

// GetByID retrieves a user by ID
func (r *userRepository) GetByID(ctx context.Context, id int) (*models.User, error) {
	query := `
		SELECT id, name, email, member_code, password_hash, created_at, updated_at
		FROM users
		WHERE id = ?
		LIMIT 1
	`

	user := &models.User{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&user.ID,
		&user.Name,
		&user.Email,
		&user.MemberCode,
		&user.PasswordHash,
		&user.CreatedAt,
		&user.UpdatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, apperror.NewNotFound("User not found")
	}
	if err != nil {
		r.logger.Error("failed to get user by id", zap.Error(err), zap.Int("id", id))
		return nil, fmt.Errorf("failed to get user by id: %w", err)
	}

	return user, nil
}

// GetByEmail retrieves a user by email
func (r *userRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	query := `
		SELECT id, name, email, member_code, password_hash, created_at, updated_at
		FROM users
		WHERE email = ?
		LIMIT 1
	`

	user := &models.User{}
	err := r.db.QueryRowContext(ctx, query, email).Scan(
		&user.ID,
		&user.Name,
		&user.Email,
		&user.MemberCode,
		&user.PasswordHash,
		&user.CreatedAt,
		&user.UpdatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, apperror.NewNotFound("User not found")
	}
	if err != nil {
		r.logger.Error("failed to get user by email", zap.Error(err))
		return nil, fmt.Errorf("failed to get user by email: %w", err)
	}

	return user, nil
}

// ExistsByEmail checks if a user other than excludeID exists with the given
// email. Pass excludeID 0 to check across all users.
func (r *userRepository) ExistsByEmail(ctx context.Context, email string, excludeID int) (bool, error) {
	query := `SELECT EXISTS(SELECT * FROM users WHERE email = ? AND id != ?)`

	var exists bool
	err := r.db.QueryRowContext(ctx, query, email, excludeID).Scan(&exists)
	if err != nil {
		r.logger.Error("failed to check email existence", zap.Error(err))
		return false, fmt.Errorf("failed to check email existence: %w", err)
	}

	return exists, nil
}

// ExistsByMemberCode checks if a user other than excludeID exists with the
// given member code. Pass excludeID 0 to check across all users.
func (r *userRepository) ExistsByMemberCode(ctx context.Context, memberCode string, excludeID int) (bool, error) {
	query := `SELECT EXISTS(SELECT * FROM users WHERE member_code = ? AND id != ?)`

	var exists bool
	err := r.db.QueryRowContext(ctx, query, memberCode, excludeID).Scan(&exists)
	if err != nil {
		r.logger.Error("failed to check member code existence", zap.Error(err))
		return false, fmt.Errorf("failed to check member code existence: %w", err)
	}

	return exists, nil
}

// Update applies the user's current field values to the stored row
func (r *userRepository) Update(ctx context.Context, user *models.User) error {
	query := `
		UPDATE users
		SET name = ?, email = ?, member_code = ?, password_hash = ?
		WHERE id = ?
	`

	result, err := r.db.ExecContext(ctx, query, user.Name, user.Email, user.MemberCode, user.PasswordHash, user.ID)
	if err != nil {
		if field, ok := duplicateField(err); ok {
			return apperror.NewConflict(field, fmt.Sprintf("The %s has already been taken", field), err)
		}
		r.logger.Error("failed to update user", zap.Error(err), zap.Int("id", user.ID))
		return fmt.Errorf("failed to update user: %w", err)
	}

	if _, err := result.RowsAffected(); err != nil {
		r.logger.Error("failed to get rows affected", zap.Error(err))
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	return nil
}

// Delete hard-deletes a user by ID
func (r *userRepository) Delete(ctx context.Context, id int) error {
	query := `DELETE FROM users WHERE id = ?`

	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		r.logger.Error("failed to delete user", zap.Error(err), zap.Int("id", id))
		return fmt.Errorf("failed to delete user: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		r.logger.Error("failed to get rows affected", zap.Error(err))
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return apperror.NewNotFound("User not found")
	}

	return nil
}

// List retrieves a page of users with an optional substring filter over
// name, email and member_code, plus the total matching row count.
func (r *userRepository) List(ctx context.Context, q models.ListQuery) ([]models.User, int, error) {
	var whereClause string
	var filterArgs []any

	if q.Search != "" {
		whereClause = `WHERE name LIKE ? OR email LIKE ? OR member_code LIKE ?`
		searchValue := "%" + q.Search + "%"
		filterArgs = append(filterArgs, searchValue, searchValue, searchValue)
	}

	countQuery := fmt.Sprintf(`SELECT COUNT(*) FROM users %s`, whereClause)

	var total int
	if err := r.db.QueryRowContext(ctx, countQuery, filterArgs...).Scan(&total); err != nil {
		r.logger.Error("failed to count users", zap.Error(err))
		return nil, 0, fmt.Errorf("failed to count users: %w", err)
	}

	offset := (q.Page - 1) * q.Limit
	query := fmt.Sprintf(`
		SELECT id, name, email, member_code, password_hash, created_at, updated_at
		FROM users
		%s
		ORDER BY id
		LIMIT ? OFFSET ?
	`, whereClause)

	args := append(filterArgs, q.Limit, offset)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		r.logger.Error("failed to query users", zap.Error(err))
		return nil, 0, fmt.Errorf("failed to query users: %w", err)
	}
	defer rows.Close()

	users := []models.User{}
	for rows.Next() {
		var user models.User
		err := rows.Scan(
			&user.ID,
			&user.Name,
			&user.Email,
			&user.MemberCode,
			&user.PasswordHash,
			&user.CreatedAt,
			&user.UpdatedAt,
		)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan user: %w", err)
		}
		users = append(users, user)
	}

	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("error iterating rows: %w", err)
	}

	return users, total, nil
}
