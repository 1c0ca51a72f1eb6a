package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/memberhub/backend/internal/middleware"
	"github.com/memberhub/backend/internal/models"
	"go.uber.org/zap"
)

// PostService is the interface that wraps methods for post business logic.
type PostService interface {
	// Method Create persists a new post owned by the authenticated requester.
	Create(ctx context.Context, userID int, req *models.CreatePostRequest) (*models.Post, error)
	// Method Get retrieves a post by ID regardless of owner.
	//
	// If no such post exists, a not-found error is returned together with "nil" value.
	Get(ctx context.Context, id int) (*models.Post, error)
	// Method Update applies a validated partial update to a post owned by the
	// requester.
	//
	// A post owned by another user is reported as not found.
	Update(ctx context.Context, userID, id int, req *models.UpdatePostRequest) (*models.Post, error)
	// Method Delete hard-deletes a post owned by the requester.
	//
	// A post owned by another user is reported as not found.
	Delete(ctx context.Context, userID, id int) error
	// Method List retrieves a page of posts across all users joined with
	// their owners, with an optional substring filter over title and content.
	List(ctx context.Context, q models.ListQuery) ([]models.PostWithUser, models.Pagination, error)
}

// PostHandler handles post CRUD requests
type PostHandler struct {
	BaseHandler
	postService PostService
}

// NewPostHandler creates a new post handler
func NewPostHandler(postService PostService, logger *zap.Logger) *PostHandler {
	return &PostHandler{
		BaseHandler: BaseHandler{logger: logger},
		postService: postService,
	}
}

// RegisterRoutes registers all post handler routes
// Note: This assumes the router is already scoped to /api and protected by the auth middleware
func (h *PostHandler) RegisterRoutes(r chi.Router) {
	r.Route("/posts", func(r chi.Router) {
		r.Get("/", h.Index)
		r.Post("/", h.Store)
		r.Get("/{id}", h.Show)
		r.Put("/{id}", h.Update)
		r.Delete("/{id}", h.Destroy)
	})
}

// requesterID pulls the authenticated user ID set by the auth middleware
func (h *PostHandler) requesterID(w http.ResponseWriter, r *http.Request) (int, bool) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		h.respondError(w, http.StatusUnauthorized, "authentication required")
		return 0, false
	}
	return userID, true
}

// Index handles GET /posts
// @Summary List posts
// @Description Get a paginated list of all posts joined with their owners, with optional substring search over title and content
// @Tags posts
// @Accept json
// @Produce json
// @Param page query int false "Page number (default: 1)"
// @Param limit query int false "Items per page (default: 10)"
// @Param q query string false "Substring filter"
// @Success 200 {object} map[string]any "Posts retrieved successfully"
// @Failure 401 {object} map[string]string "Authentication required"
// @Failure 500 {object} map[string]string "Internal server error"
// @Security ApiKeyAuth
// @Router /posts [get]
func (h *PostHandler) Index(w http.ResponseWriter, r *http.Request) {
	query := parseListQuery(r)

	posts, pagination, err := h.postService.List(r.Context(), query)
	if err != nil {
		h.respondAppError(w, err)
		return
	}

	h.respondJSON(w, http.StatusOK, map[string]any{
		"message":    "Posts retrieved successfully",
		"data":       posts,
		"pagination": pagination,
	})
}

// Store handles POST /posts
// @Summary Create post
// @Description Create a post owned by the authenticated requester
// @Tags posts
// @Accept json
// @Produce json
// @Param request body models.CreatePostRequest true "Create post request"
// @Success 201 {object} map[string]any "Post created successfully"
// @Failure 401 {object} map[string]string "Authentication required"
// @Failure 422 {object} map[string]any "Validation failed"
// @Security ApiKeyAuth
// @Router /posts [post]
func (h *PostHandler) Store(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.requesterID(w, r)
	if !ok {
		return
	}

	var req models.CreatePostRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	post, err := h.postService.Create(r.Context(), userID, &req)
	if err != nil {
		h.respondAppError(w, err)
		return
	}

	h.respondJSON(w, http.StatusCreated, map[string]any{
		"message": "Post created successfully",
		"data":    post,
	})
}

// Show handles GET /posts/{id}
// @Summary Get post by ID
// @Tags posts
// @Accept json
// @Produce json
// @Param id path int true "Post ID"
// @Success 200 {object} map[string]any "Post fetched successfully"
// @Failure 404 {object} map[string]string "Post not found"
// @Security ApiKeyAuth
// @Router /posts/{id} [get]
func (h *PostHandler) Show(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		h.respondError(w, http.StatusBadRequest, "invalid post ID")
		return
	}

	post, err := h.postService.Get(r.Context(), id)
	if err != nil {
		h.respondAppError(w, err)
		return
	}

	h.respondJSON(w, http.StatusOK, map[string]any{
		"message": "Post fetched successfully",
		"data":    post,
	})
}

// Update handles PUT /posts/{id}
// @Summary Update post
// @Description Update a post owned by the requester; absent fields keep their stored value
// @Tags posts
// @Accept json
// @Produce json
// @Param id path int true "Post ID"
// @Param request body models.UpdatePostRequest true "Update post request"
// @Success 200 {object} map[string]any "Post updated successfully"
// @Failure 404 {object} map[string]string "Post not found"
// @Failure 422 {object} map[string]any "Validation failed"
// @Security ApiKeyAuth
// @Router /posts/{id} [put]
func (h *PostHandler) Update(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.requesterID(w, r)
	if !ok {
		return
	}

	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		h.respondError(w, http.StatusBadRequest, "invalid post ID")
		return
	}

	var req models.UpdatePostRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	post, err := h.postService.Update(r.Context(), userID, id, &req)
	if err != nil {
		h.respondAppError(w, err)
		return
	}

	h.respondJSON(w, http.StatusOK, map[string]any{
		"message": "Post updated successfully",
		"data":    post,
	})
}

// Destroy handles DELETE /posts/{id}
// @Summary Delete post
// @Description Delete a post owned by the requester
// @Tags posts
// @Accept json
// @Produce json
// @Param id path int true "Post ID"
// @Success 200 {object} map[string]string "Post deleted successfully"
// @Failure 404 {object} map[string]string "Post not found"
// @Security ApiKeyAuth
// @Router /posts/{id} [delete]
func (h *PostHandler) Destroy(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.requesterID(w, r)
	if !ok {
		return
	}

	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		h.respondError(w, http.StatusBadRequest, "invalid post ID")
		return
	}

	if err := h.postService.Delete(r.Context(), userID, id); err != nil {
		h.respondAppError(w, err)
		return
	}

	h.respondJSON(w, http.StatusOK, map[string]string{
		"message": "Post deleted successfully",
	})
}
