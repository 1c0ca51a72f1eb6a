package services

import (
	"context"
	"strings"

	"github.com/memberhub/backend/internal/apperror"
	"github.com/memberhub/backend/internal/models"
	"github.com/memberhub/backend/internal/validation"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// userService implements UserService
type userService struct {
	userRepo UserRepository
	logger   *zap.Logger
}

// NewUserService creates a new user service
func NewUserService(userRepo UserRepository, logger *zap.Logger) *userService {
	return &userService{
		userRepo: userRepo,
		logger:   logger,
	}
}

// Create persists a new user with the register contract. Unlike register it
// is an administrative operation and does not issue a token.
func (s *userService) Create(ctx context.Context, req *models.CreateUserRequest) (*models.User, error) {
	req.Email = strings.TrimSpace(strings.ToLower(req.Email))
	req.Name = strings.TrimSpace(req.Name)
	req.MemberCode = strings.TrimSpace(req.MemberCode)

	fields := validation.Check(req)
	if fields == nil {
		fields = map[string]string{}
	}

	if _, invalid := fields["email"]; !invalid {
		exists, err := s.userRepo.ExistsByEmail(ctx, req.Email, 0)
		if err != nil {
			return nil, wrap(err, "failed to check email")
		}
		if exists {
			fields["email"] = "The email has already been taken"
		}
	}
	if _, invalid := fields["member_code"]; !invalid {
		exists, err := s.userRepo.ExistsByMemberCode(ctx, req.MemberCode, 0)
		if err != nil {
			return nil, wrap(err, "failed to check member code")
		}
		if exists {
			fields["member_code"] = "The member_code has already been taken"
		}
	}

	if len(fields) > 0 {
		return nil, apperror.NewValidation(fields)
	}

	passwordHash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, wrap(err, "failed to hash password")
	}

	user := &models.User{
		Name:         req.Name,
		Email:        req.Email,
		MemberCode:   req.MemberCode,
		PasswordHash: string(passwordHash),
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, wrap(err, "failed to create user")
	}

	created, err := s.userRepo.GetByID(ctx, user.ID)
	if err != nil {
		return nil, wrap(err, "failed to load created user")
	}

	return created, nil
}

// Get retrieves a user by ID
func (s *userService) Get(ctx context.Context, id int) (*models.User, error) {
	user, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		return nil, wrap(err, "failed to get user")
	}
	return user, nil
}

// Update applies a validated update to an existing user. The password is
// re-hashed only when the request carries a new one; an omitted password
// leaves the stored hash untouched.
func (s *userService) Update(ctx context.Context, id int, req *models.UpdateUserRequest) (*models.User, error) {
	user, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		return nil, wrap(err, "failed to get user")
	}

	req.Email = strings.TrimSpace(strings.ToLower(req.Email))
	req.Name = strings.TrimSpace(req.Name)
	req.MemberCode = strings.TrimSpace(req.MemberCode)

	fields := validation.Check(req)
	if fields == nil {
		fields = map[string]string{}
	}

	// Uniqueness excluding the user being updated
	if _, invalid := fields["email"]; !invalid {
		exists, err := s.userRepo.ExistsByEmail(ctx, req.Email, id)
		if err != nil {
			return nil, wrap(err, "failed to check email")
		}
		if exists {
			fields["email"] = "The email has already been taken"
		}
	}
	if _, invalid := fields["member_code"]; !invalid {
		exists, err := s.userRepo.ExistsByMemberCode(ctx, req.MemberCode, id)
		if err != nil {
			return nil, wrap(err, "failed to check member code")
		}
		if exists {
			fields["member_code"] = "The member_code has already been taken"
		}
	}

	if len(fields) > 0 {
		return nil, apperror.NewValidation(fields)
	}

	user.Name = req.Name
	user.Email = req.Email
	user.MemberCode = req.MemberCode

	if req.Password != "" {
		passwordHash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
		if err != nil {
			return nil, wrap(err, "failed to hash password")
		}
		user.PasswordHash = string(passwordHash)
	}

	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, wrap(err, "failed to update user")
	}

	updated, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		return nil, wrap(err, "failed to load updated user")
	}

	return updated, nil
}

// Delete hard-deletes a user by ID
func (s *userService) Delete(ctx context.Context, id int) error {
	if err := s.userRepo.Delete(ctx, id); err != nil {
		return wrap(err, "failed to delete user")
	}
	return nil
}

// List retrieves a page of users with pagination metadata
func (s *userService) List(ctx context.Context, q models.ListQuery) ([]models.User, models.Pagination, error) {
	users, total, err := s.userRepo.List(ctx, q)
	if err != nil {
		return nil, models.Pagination{}, wrap(err, "failed to list users")
	}

	return users, models.NewPagination(q.Page, q.Limit, total), nil
}
