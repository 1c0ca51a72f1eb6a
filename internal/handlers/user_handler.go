package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/memberhub/backend/internal/models"
	"go.uber.org/zap"
)

// UserService is the interface that wraps methods for user administration business logic.
type UserService interface {
	// Method Create persists a new user with the register contract without
	// logging it in.
	//
	// If validation fails or the email/member code is already taken, a
	// validation error with field-level messages is returned together with "nil" value.
	Create(ctx context.Context, req *models.CreateUserRequest) (*models.User, error)
	// Method Get retrieves a user by ID.
	//
	// If no such user exists, a not-found error is returned together with "nil" value.
	Get(ctx context.Context, id int) (*models.User, error)
	// Method Update applies a validated update to an existing user.
	//
	// An omitted password leaves the stored hash untouched; email and member
	// code uniqueness is checked excluding the user being updated.
	Update(ctx context.Context, id int, req *models.UpdateUserRequest) (*models.User, error)
	// Method Delete hard-deletes a user by ID.
	//
	// If no such user exists, a not-found error is returned.
	Delete(ctx context.Context, id int) error
	// Method List retrieves a page of users with an optional substring filter
	// over name, email and member code, plus pagination metadata.
	List(ctx context.Context, q models.ListQuery) ([]models.User, models.Pagination, error)
}

// UserHandler handles administrative user CRUD requests
type UserHandler struct {
	BaseHandler
	userService UserService
}

// NewUserHandler creates a new user handler
func NewUserHandler(userService UserService, logger *zap.Logger) *UserHandler {
	return &UserHandler{
		BaseHandler: BaseHandler{logger: logger},
		userService: userService,
	}
}

// RegisterRoutes registers all user handler routes
// Note: This assumes the router is already scoped to /api and protected by the auth middleware
func (h *UserHandler) RegisterRoutes(r chi.Router) {
	r.Route("/users", func(r chi.Router) {
		r.Get("/", h.Index)
		r.Post("/", h.Store)
		r.Get("/{id}", h.Show)
		r.Put("/{id}", h.Update)
		r.Delete("/{id}", h.Destroy)
	})
}

// Index handles GET /users
// @Summary List users
// @Description Get a paginated list of users with optional substring search over name, email and member code
// @Tags users
// @Accept json
// @Produce json
// @Param page query int false "Page number (default: 1)"
// @Param limit query int false "Items per page (default: 10)"
// @Param q query string false "Substring filter"
// @Success 200 {object} map[string]any "Users fetched successfully"
// @Failure 401 {object} map[string]string "Authentication required"
// @Failure 500 {object} map[string]string "Internal server error"
// @Security ApiKeyAuth
// @Router /users [get]
func (h *UserHandler) Index(w http.ResponseWriter, r *http.Request) {
	query := parseListQuery(r)

	users, pagination, err := h.userService.List(r.Context(), query)
	if err != nil {
		h.respondAppError(w, err)
		return
	}

	h.respondJSON(w, http.StatusOK, map[string]any{
		"message":    "Users fetched successfully",
		"data":       users,
		"pagination": pagination,
	})
}

// Store handles POST /users
// @Summary Create user
// @Description Create a new user with the register contract without logging it in
// @Tags users
// @Accept json
// @Produce json
// @Param request body models.CreateUserRequest true "Create user request"
// @Success 201 {object} map[string]any "User created successfully"
// @Failure 401 {object} map[string]string "Authentication required"
// @Failure 422 {object} map[string]any "Validation failed"
// @Failure 500 {object} map[string]string "Internal server error"
// @Security ApiKeyAuth
// @Router /users [post]
func (h *UserHandler) Store(w http.ResponseWriter, r *http.Request) {
	var req models.CreateUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	user, err := h.userService.Create(r.Context(), &req)
	if err != nil {
		h.respondAppError(w, err)
		return
	}

	h.respondJSON(w, http.StatusCreated, map[string]any{
		"message": "User created successfully",
		"data":    user,
	})
}

// Show handles GET /users/{id}
// @Summary Get user by ID
// @Tags users
// @Accept json
// @Produce json
// @Param id path int true "User ID"
// @Success 200 {object} map[string]any "User fetched successfully"
// @Failure 404 {object} map[string]string "User not found"
// @Security ApiKeyAuth
// @Router /users/{id} [get]
func (h *UserHandler) Show(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		h.respondError(w, http.StatusBadRequest, "invalid user ID")
		return
	}

	user, err := h.userService.Get(r.Context(), id)
	if err != nil {
		h.respondAppError(w, err)
		return
	}

	h.respondJSON(w, http.StatusOK, map[string]any{
		"message": "User fetched successfully",
		"data":    user,
	})
}

// Update handles PUT /users/{id}
// @Summary Update user
// @Description Update a user's fields; password is optional and re-hashed only when supplied
// @Tags users
// @Accept json
// @Produce json
// @Param id path int true "User ID"
// @Param request body models.UpdateUserRequest true "Update user request"
// @Success 200 {object} map[string]any "User updated successfully"
// @Failure 404 {object} map[string]string "User not found"
// @Failure 422 {object} map[string]any "Validation failed"
// @Security ApiKeyAuth
// @Router /users/{id} [put]
func (h *UserHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		h.respondError(w, http.StatusBadRequest, "invalid user ID")
		return
	}

	var req models.UpdateUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	user, err := h.userService.Update(r.Context(), id, &req)
	if err != nil {
		h.respondAppError(w, err)
		return
	}

	h.respondJSON(w, http.StatusOK, map[string]any{
		"message": "User updated successfully",
		"data":    user,
	})
}

// Destroy handles DELETE /users/{id}
// @Summary Delete user
// @Tags users
// @Accept json
// @Produce json
// @Param id path int true "User ID"
// @Success 200 {object} map[string]string "User deleted successfully"
// @Failure 404 {object} map[string]string "User not found"
// @Security ApiKeyAuth
// @Router /users/{id} [delete]
func (h *UserHandler) Destroy(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		h.respondError(w, http.StatusBadRequest, "invalid user ID")
		return
	}

	if err := h.userService.Delete(r.Context(), id); err != nil {
		h.respondAppError(w, err)
		return
	}

	h.respondJSON(w, http.StatusOK, map[string]string{
		"message": "User deleted successfully",
	})
}
