package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"github.com/memberhub/backend/internal/apperror"
	"github.com/memberhub/backend/internal/models"
	"go.uber.org/zap"
)

type BaseHandler struct {
	logger *zap.Logger
}

// respondJSON sends a JSON response
func (h *BaseHandler) respondJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.logger.Error("failed to encode JSON response", zap.Error(err))
	}
}

// respondError sends an error JSON response
func (h *BaseHandler) respondError(w http.ResponseWriter, status int, message string) {
	h.respondJSON(w, status, map[string]string{"message": message})
}

// respondAppError maps a service error to its HTTP response. Validation and
// conflict errors carry a field-level error map; internal errors are logged
// with their cause and answered with a generic message.
func (h *BaseHandler) respondAppError(w http.ResponseWriter, err error) {
	appErr := apperror.From(err)

	if appErr.Type == apperror.InternalError {
		h.logger.Error("internal error", zap.Error(appErr))
	}

	if len(appErr.Fields) > 0 {
		h.respondJSON(w, appErr.StatusCode(), map[string]any{
			"message": appErr.Message,
			"errors":  appErr.Fields,
		})
		return
	}

	h.respondError(w, appErr.StatusCode(), appErr.Message)
}

// parseListQuery parses the page/limit/q query parameters of a list
// endpoint, falling back to page 1 and 10 items per page.
func parseListQuery(r *http.Request) models.ListQuery {
	q := models.ListQuery{Page: 1, Limit: 10}

	if pageStr := r.URL.Query().Get("page"); pageStr != "" {
		if page, err := strconv.Atoi(pageStr); err == nil && page > 0 {
			q.Page = page
		}
	}

	if limitStr := r.URL.Query().Get("limit"); limitStr != "" {
		if limit, err := strconv.Atoi(limitStr); err == nil && limit > 0 {
			q.Limit = limit
		}
	}

	q.Search = strings.TrimSpace(r.URL.Query().Get("q"))

	return q
}
