package user

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/premierlux/premierlux-backend/internal/user/repository"
	"github.com/premierlux/premierlux-backend/pkg/httputil"
	"github.com/premierlux/premierlux-backend/pkg/logger"
	"github.com/premierlux/premierlux-backend/pkg/scope"
)

// Handler handles user and governance endpoints
type Handler struct {
	service *Service
	logger  *logger.Logger
}

// NewHandler creates a new user handler
func NewHandler(svc *Service, log *logger.Logger) *Handler {
	return &Handler{
		service: svc,
		logger:  log,
	}
}

// List lists all users
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	sc := scope.MustFromContext(r.Context())

	users, err := h.service.List(r.Context(), sc)
	if err != nil {
		httputil.Error(w, err)
		return
	}

	httputil.JSON(w, http.StatusOK, users)
}

type createUserRequest struct {
	Name     string `json:"name" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
	Role     string `json:"role" validate:"omitempty,oneof=admin staff"`
	Branch   string `json:"branch"`
}

// Create creates a user
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	sc := scope.MustFromContext(r.Context())

	var req createUserRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		httputil.Error(w, err)
		return
	}
	if err := httputil.Validate(req); err != nil {
		httputil.Error(w, err)
		return
	}

	u, err := h.service.Create(r.Context(), sc, CreateInput{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
		Role:     req.Role,
		Branch:   req.Branch,
	})
	if err != nil {
		httputil.Error(w, err)
		return
	}

	httputil.Created(w, u)
}

type updateUserRequest struct {
	Name     string `json:"name" validate:"required"`
	Role     string `json:"role" validate:"required,oneof=admin staff"`
	Branch   string `json:"branch" validate:"required"`
	Password string `json:"password" validate:"omitempty,min=8"`
}

// Update updates a user's profile
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	sc := scope.MustFromContext(r.Context())
	id := chi.URLParam(r, "id")

	var req updateUserRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		httputil.Error(w, err)
		return
	}
	if err := httputil.Validate(req); err != nil {
		httputil.Error(w, err)
		return
	}

	u := repository.User{
		ID:     id,
		Name:   req.Name,
		Role:   req.Role,
		Branch: req.Branch,
	}

	if err := h.service.Update(r.Context(), sc, &u, req.Password); err != nil {
		httputil.Error(w, err)
		return
	}

	httputil.JSON(w, http.StatusOK, u)
}

// Delete removes a user
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	sc := scope.MustFromContext(r.Context())
	id := chi.URLParam(r, "id")

	if err := h.service.Delete(r.Context(), sc, id); err != nil {
		httputil.Error(w, err)
		return
	}

	httputil.NoContent(w)
}

// AuditLogs lists recent audit entries
func (h *Handler) AuditLogs(w http.ResponseWriter, r *http.Request) {
	sc := scope.MustFromContext(r.Context())

	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))

	entries, err := h.service.AuditLogs(r.Context(), sc, limit)
	if err != nil {
		httputil.Error(w, err)
		return
	}

	httputil.JSON(w, http.StatusOK, entries)
}

// Settings returns the governance settings
func (h *Handler) Settings(w http.ResponseWriter, r *http.Request) {
	sc := scope.MustFromContext(r.Context())

	settings, err := h.service.Settings(r.Context(), sc)
	if err != nil {
		httputil.Error(w, err)
		return
	}

	httputil.JSON(w, http.StatusOK, settings)
}

type lockdownRequest struct {
	Status bool `json:"status"`
}

// Lockdown toggles maintenance mode
func (h *Handler) Lockdown(w http.ResponseWriter, r *http.Request) {
	sc := scope.MustFromContext(r.Context())

	var req lockdownRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		httputil.Error(w, err)
		return
	}

	if err := h.service.SetLockdown(r.Context(), sc, req.Status); err != nil {
		httputil.Error(w, err)
		return
	}

	action := "Disabled"
	if req.Status {
		action = "Enabled"
	}
	httputil.JSON(w, http.StatusOK, map[string]string{"message": "System Lockdown " + action})
}

// ClearLogs wipes the audit trail
func (h *Handler) ClearLogs(w http.ResponseWriter, r *http.Request) {
	sc := scope.MustFromContext(r.Context())

	removed, err := h.service.ClearAuditLogs(r.Context(), sc)
	if err != nil {
		httputil.Error(w, err)
		return
	}

	httputil.JSON(w, http.StatusOK, map[string]interface{}{
		"message": "Audit logs wiped successfully",
		"removed": removed,
	})
}

type broadcastRequest struct {
	Message string `json:"message" validate:"required"`
}

// Broadcast sends a message to all connected clients
func (h *Handler) Broadcast(w http.ResponseWriter, r *http.Request) {
	sc := scope.MustFromContext(r.Context())

	var req broadcastRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		httputil.Error(w, err)
		return
	}
	if err := httputil.Validate(req); err != nil {
		httputil.Error(w, err)
		return
	}

	if err := h.service.Broadcast(r.Context(), sc, req.Message); err != nil {
		httputil.Error(w, err)
		return
	}

	httputil.JSON(w, http.StatusOK, map[string]string{"message": "Broadcast sent"})
}

// KillSessions forces all non-owner clients to log out
func (h *Handler) KillSessions(w http.ResponseWriter, r *http.Request) {
	sc := scope.MustFromContext(r.Context())

	if err := h.service.KillSessions(r.Context(), sc); err != nil {
		httputil.Error(w, err)
		return
	}

	httputil.JSON(w, http.StatusOK, map[string]string{"message": "Kill command sent to all clients"})
}

// Backup exports inventory, batches and suppliers as one document
func (h *Handler) Backup(w http.ResponseWriter, r *http.Request) {
	sc := scope.MustFromContext(r.Context())

	data, err := h.service.Backup(r.Context(), sc)
	if err != nil {
		httputil.Error(w, err)
		return
	}

	httputil.JSON(w, http.StatusOK, data)
}
