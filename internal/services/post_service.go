package services

import (
	"context"

	"github.com/memberhub/backend/internal/apperror"
	"github.com/memberhub/backend/internal/models"
	"github.com/memberhub/backend/internal/validation"
	"go.uber.org/zap"
)

// PostRepository is the interface that wraps methods for posts table data access
type PostRepository interface {
	// Method Create inserts a new post and sets its generated ID.
	Create(ctx context.Context, post *models.Post) error
	// Method GetByID retrieves a post by ID regardless of owner.
	//
	// If no such post exists, a not-found error is returned together with "nil" value.
	GetByID(ctx context.Context, id int) (*models.Post, error)
	// Method GetByIDForUser retrieves a post by ID scoped to its owner.
	//
	// A post owned by another user is reported as not found.
	GetByIDForUser(ctx context.Context, id, userID int) (*models.Post, error)
	// Method Update applies the post's current field values to the stored row.
	Update(ctx context.Context, post *models.Post) error
	// Method Delete hard-deletes a post scoped to its owner.
	//
	// A post owned by another user is reported as not found.
	Delete(ctx context.Context, id, userID int) error
	// Method List retrieves a page of posts across all users joined with
	// their owners, plus the total matching row count.
	List(ctx context.Context, q models.ListQuery) ([]models.PostWithUser, int, error)
}

// postService implements PostService
type postService struct {
	postRepo PostRepository
	logger   *zap.Logger
}

// NewPostService creates a new post service
func NewPostService(postRepo PostRepository, logger *zap.Logger) *postService {
	return &postService{
		postRepo: postRepo,
		logger:   logger,
	}
}

// Create persists a new post owned by the authenticated requester
func (s *postService) Create(ctx context.Context, userID int, req *models.CreatePostRequest) (*models.Post, error) {
	if fields := validation.Check(req); fields != nil {
		return nil, apperror.NewValidation(fields)
	}

	post := &models.Post{
		Title:   req.Title,
		Content: req.Content,
		UserID:  userID,
	}

	if err := s.postRepo.Create(ctx, post); err != nil {
		return nil, wrap(err, "failed to create post")
	}

	created, err := s.postRepo.GetByID(ctx, post.ID)
	if err != nil {
		return nil, wrap(err, "failed to load created post")
	}

	return created, nil
}

// Get retrieves a post by ID
func (s *postService) Get(ctx context.Context, id int) (*models.Post, error) {
	post, err := s.postRepo.GetByID(ctx, id)
	if err != nil {
		return nil, wrap(err, "failed to get post")
	}
	return post, nil
}

// Update applies a validated partial update to a post owned by the
// requester. Fields absent from the request keep their stored value.
func (s *postService) Update(ctx context.Context, userID, id int, req *models.UpdatePostRequest) (*models.Post, error) {
	if fields := validation.Check(req); fields != nil {
		return nil, apperror.NewValidation(fields)
	}

	post, err := s.postRepo.GetByIDForUser(ctx, id, userID)
	if err != nil {
		return nil, wrap(err, "failed to get post")
	}

	if req.Title != nil {
		post.Title = *req.Title
	}
	if req.Content != nil {
		post.Content = *req.Content
	}

	if err := s.postRepo.Update(ctx, post); err != nil {
		return nil, wrap(err, "failed to update post")
	}

	updated, err := s.postRepo.GetByIDForUser(ctx, id, userID)
	if err != nil {
		return nil, wrap(err, "failed to load updated post")
	}

	return updated, nil
}

// Delete hard-deletes a post owned by the requester
func (s *postService) Delete(ctx context.Context, userID, id int) error {
	if err := s.postRepo.Delete(ctx, id, userID); err != nil {
		return wrap(err, "failed to delete post")
	}
	return nil
}

// List retrieves a page of posts across all users with pagination metadata
func (s *postService) List(ctx context.Context, q models.ListQuery) ([]models.PostWithUser, models.Pagination, error) {
	posts, total, err := s.postRepo.List(ctx, q)
	if err != nil {
		return nil, models.Pagination{}, wrap(err, "failed to list posts")
	}

	return posts, models.NewPagination(q.Page, q.Limit, total), nil
}
