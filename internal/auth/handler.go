package auth

import (
	"net/http"

	"github.com/premierlux/premierlux-backend/pkg/httputil"
	"github.com/premierlux/premierlux-backend/pkg/logger"
	"github.com/premierlux/premierlux-backend/pkg/scope"
)

// Handler handles authentication endpoints
type Handler struct {
	service *Service
	logger  *logger.Logger
}

// NewHandler creates a new auth handler
func NewHandler(svc *Service, log *logger.Logger) *Handler {
	return &Handler{
		service: svc,
		logger:  log,
	}
}

type loginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// Login authenticates a user and issues a token
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		httputil.Error(w, err)
		return
	}
	if err := httputil.Validate(req); err != nil {
		httputil.Error(w, err)
		return
	}

	result, err := h.service.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		httputil.Error(w, err)
		return
	}

	httputil.JSON(w, http.StatusOK, result)
}

// Me returns the calling user's identity
func (h *Handler) Me(w http.ResponseWriter, r *http.Request) {
	sc := scope.MustFromContext(r.Context())

	httputil.JSON(w, http.StatusOK, map[string]string{
		"name":   sc.Name,
		"email":  sc.Email,
		"role":   sc.Role,
		"branch": sc.Branch,
	})
}

// Logout acknowledges a client-side token discard. Tokens are stateless so
// there is nothing to revoke server-side.
func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	httputil.JSON(w, http.StatusOK, map[string]string{"message": "Logged out"})
}
