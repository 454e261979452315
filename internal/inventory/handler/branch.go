package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/premierlux/premierlux-backend/internal/inventory/repository"
	"github.com/premierlux/premierlux-backend/internal/inventory/service"
	"github.com/premierlux/premierlux-backend/pkg/httputil"
	"github.com/premierlux/premierlux-backend/pkg/logger"
	"github.com/premierlux/premierlux-backend/pkg/scope"
)

// BranchHandler handles branch endpoints
type BranchHandler struct {
	service *service.InventoryService
	logger  *logger.Logger
}

// NewBranchHandler creates a new branch handler
func NewBranchHandler(svc *service.InventoryService, log *logger.Logger) *BranchHandler {
	return &BranchHandler{
		service: svc,
		logger:  log,
	}
}

// List lists branches visible to the caller
func (h *BranchHandler) List(w http.ResponseWriter, r *http.Request) {
	sc := scope.MustFromContext(r.Context())

	branches, err := h.service.ListBranches(r.Context(), sc)
	if err != nil {
		httputil.Error(w, err)
		return
	}

	httputil.JSON(w, http.StatusOK, branches)
}

type branchRequest struct {
	Name     string `json:"name" validate:"required"`
	Location string `json:"location"`
	Manager  string `json:"manager"`
	Phone    string `json:"phone"`
}

// Create creates a branch
func (h *BranchHandler) Create(w http.ResponseWriter, r *http.Request) {
	sc := scope.MustFromContext(r.Context())

	var req branchRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		httputil.Error(w, err)
		return
	}
	if err := httputil.Validate(req); err != nil {
		httputil.Error(w, err)
		return
	}

	b := repository.Branch{
		Name:     req.Name,
		Location: req.Location,
		Manager:  req.Manager,
		Phone:    req.Phone,
	}

	if err := h.service.CreateBranch(r.Context(), sc, &b); err != nil {
		httputil.Error(w, err)
		return
	}

	httputil.Created(w, b)
}

// Update updates a branch
func (h *BranchHandler) Update(w http.ResponseWriter, r *http.Request) {
	sc := scope.MustFromContext(r.Context())
	id := chi.URLParam(r, "id")

	var req branchRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		httputil.Error(w, err)
		return
	}
	if err := httputil.Validate(req); err != nil {
		httputil.Error(w, err)
		return
	}

	b := repository.Branch{
		ID:       id,
		Name:     req.Name,
		Location: req.Location,
		Manager:  req.Manager,
		Phone:    req.Phone,
	}

	if err := h.service.UpdateBranch(r.Context(), sc, &b); err != nil {
		httputil.Error(w, err)
		return
	}

	httputil.JSON(w, http.StatusOK, b)
}

// Delete removes a branch
func (h *BranchHandler) Delete(w http.ResponseWriter, r *http.Request) {
	sc := scope.MustFromContext(r.Context())
	id := chi.URLParam(r, "id")

	if err := h.service.DeleteBranch(r.Context(), sc, id); err != nil {
		httputil.Error(w, err)
		return
	}

	httputil.NoContent(w)
}
