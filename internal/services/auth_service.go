package services

import (
	"context"
	"strings"

	"github.com/memberhub/backend/internal/apperror"
	"github.com/memberhub/backend/internal/auth"
	"github.com/memberhub/backend/internal/models"
	"github.com/memberhub/backend/internal/validation"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// UserRepository is the interface that wraps methods for users table data access
type UserRepository interface {
	// Method Create inserts a new user and sets its generated ID.
	//
	// A duplicate email or member_code surfaces as a conflict error.
	Create(ctx context.Context, user *models.User) error
	// Method GetByID retrieves a user by ID.
	//
	// If no such user exists, a not-found error is returned together with "nil" value.
	GetByID(ctx context.Context, id int) (*models.User, error)
	// Method GetByEmail retrieves a user by email.
	//
	// If no such user exists, a not-found error is returned together with "nil" value.
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	// Method ExistsByEmail checks if a user other than excludeID has the given email.
	//
	// Pass excludeID 0 to check across all users.
	ExistsByEmail(ctx context.Context, email string, excludeID int) (bool, error)
	// Method ExistsByMemberCode checks if a user other than excludeID has the given member code.
	//
	// Pass excludeID 0 to check across all users.
	ExistsByMemberCode(ctx context.Context, memberCode string, excludeID int) (bool, error)
	// Method Update applies the user's current field values to the stored row.
	//
	// A duplicate email or member_code surfaces as a conflict error.
	Update(ctx context.Context, user *models.User) error
	// Method Delete hard-deletes a user by ID.
	//
	// If no such user exists, a not-found error is returned.
	Delete(ctx context.Context, id int) error
	// Method List retrieves a page of users with an optional substring filter
	// and the total matching row count.
	List(ctx context.Context, q models.ListQuery) ([]models.User, int, error)
}

// authService implements AuthService
type authService struct {
	userRepo       UserRepository
	tokenGenerator *auth.TokenGenerator
	logger         *zap.Logger
	dummyHash      []byte
}

// NewAuthService creates a new auth service
func NewAuthService(userRepo UserRepository, tokenGenerator *auth.TokenGenerator, logger *zap.Logger) *authService {
	// Hash compared against on the no-such-user login path so the response
	// time matches the wrong-password path.
	dummyHash, _ := bcrypt.GenerateFromPassword([]byte("memberhub-timing-pad"), bcrypt.DefaultCost)

	return &authService{
		userRepo:       userRepo,
		tokenGenerator: tokenGenerator,
		logger:         logger,
		dummyHash:      dummyHash,
	}
}

// Register validates the registration payload, hashes the password and
// persists the new user. The created user is returned without logging it in.
func (s *authService) Register(ctx context.Context, req *models.RegisterRequest) (*models.User, error) {
	req.Email = strings.TrimSpace(strings.ToLower(req.Email))
	req.Name = strings.TrimSpace(req.Name)
	req.MemberCode = strings.TrimSpace(req.MemberCode)

	fields := validation.Check(req)
	if fields == nil {
		fields = map[string]string{}
	}

	// Uniqueness checks only make sense once format validation passed for the field
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

	// Re-read so the response carries the store-generated timestamps
	created, err := s.userRepo.GetByID(ctx, user.ID)
	if err != nil {
		return nil, wrap(err, "failed to load created user")
	}

	return created, nil
}

// Login verifies the credentials and issues a bearer token. A missing user
// and a wrong password produce the identical error.
func (s *authService) Login(ctx context.Context, req *models.LoginRequest) (*models.User, string, error) {
	req.Email = strings.TrimSpace(strings.ToLower(req.Email))

	if fields := validation.Check(req); fields != nil {
		return nil, "", apperror.NewValidation(fields)
	}

	user, err := s.userRepo.GetByEmail(ctx, req.Email)
	if err != nil {
		if apperror.IsNotFound(err) {
			// Burn a bcrypt compare so the timing matches the mismatch path
			bcrypt.CompareHashAndPassword(s.dummyHash, []byte(req.Password))
			return nil, "", apperror.NewAuth("Email or password is incorrect")
		}
		return nil, "", wrap(err, "failed to look up user")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return nil, "", apperror.NewAuth("Email or password is incorrect")
	}

	token, err := s.tokenGenerator.GenerateToken(user.ID)
	if err != nil {
		s.logger.Error("failed to generate token", zap.Int("user_id", user.ID), zap.Error(err))
		return nil, "", wrap(err, "failed to generate token")
	}

	return user, token, nil
}
