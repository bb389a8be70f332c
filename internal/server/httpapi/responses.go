package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/dmitrijs2005/tasklist/internal/common"
	"github.com/dmitrijs2005/tasklist/internal/server/models"
)

type errorResponse struct {
	Detail string `json:"detail"`
}

type userResponse struct {
	ID         string    `json:"id"`
	Username   *string   `json:"username,omitempty"`
	Email      string    `json:"email"`
	IsActive   bool      `json:"is_active"`
	IsVerified bool      `json:"is_verified"`
	CreatedAt  time.Time `json:"created_at"`
}

type listResponse struct {
	ID        string     `json:"id"`
	Name      string     `json:"name"`
	UserID    string     `json:"userId"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt *time.Time `json:"updated_at,omitempty"`
}

type taskResponse struct {
	ID          string     `json:"id"`
	ListID      string     `json:"listId"`
	Description string     `json:"description"`
	Completed   bool       `json:"completed"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   *time.Time `json:"updated_at,omitempty"`
}

func toUserResponse(u *models.User) userResponse {
	resp := userResponse{
		ID:         u.ID,
		Email:      u.Email,
		IsActive:   u.IsActive,
		IsVerified: u.IsVerified,
		CreatedAt:  u.CreatedAt,
	}
	if u.Username.Valid {
		name := u.Username.String
		resp.Username = &name
	}
	return resp
}

func toListResponse(l *models.List) listResponse {
	resp := listResponse{
		ID:        l.ID,
		Name:      l.Name,
		UserID:    l.UserID,
		CreatedAt: l.CreatedAt,
	}
	if l.UpdatedAt.Valid {
		ts := l.UpdatedAt.Time
		resp.UpdatedAt = &ts
	}
	return resp
}

func toTaskResponse(t *models.Task) taskResponse {
	resp := taskResponse{
		ID:          t.ID,
		ListID:      t.ListID,
		Description: t.Description,
		Completed:   t.Completed,
		CreatedAt:   t.CreatedAt,
	}
	if t.UpdatedAt.Valid {
		ts := t.UpdatedAt.Time
		resp.UpdatedAt = &ts
	}
	return resp
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError maps service sentinels to HTTP status codes. Anything unmatched
// is a 500 with a generic body; the detail is logged, never leaked.
func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, common.ErrorUnauthorized),
		errors.Is(err, common.ErrInvalidToken),
		errors.Is(err, common.ErrTokenExpired):
		w.Header().Set("WWW-Authenticate", `Bearer, Basic realm="Access to API"`)
		writeJSON(w, http.StatusUnauthorized, errorResponse{Detail: "Could not validate credentials. Please provide valid Bearer token or email/password."})
	case errors.Is(err, common.ErrorInactiveUser):
		writeJSON(w, http.StatusForbidden, errorResponse{Detail: "Inactive user"})
	case errors.Is(err, common.ErrorNotFound):
		writeJSON(w, http.StatusNotFound, errorResponse{Detail: "Not found"})
	case errors.Is(err, common.ErrorEmailExists),
		errors.Is(err, common.ErrorUsernameExists):
		writeJSON(w, http.StatusConflict, errorResponse{Detail: err.Error()})
	case errors.Is(err, common.ErrorValidation):
		writeJSON(w, http.StatusUnprocessableEntity, errorResponse{Detail: err.Error()})
	default:
		s.logger.Error(r.Context(), "internal error", "error", err, "path", r.URL.Path)
		writeJSON(w, http.StatusInternalServerError, errorResponse{Detail: "Internal server error"})
	}
}

// decodeJSON unmarshals the request body into v, reporting malformed input as
// a validation error.
func decodeJSON(r *http.Request, v any) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return common.ErrorValidation
	}
	return nil
}
