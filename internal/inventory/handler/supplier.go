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

// SupplierHandler handles supplier endpoints
type SupplierHandler struct {
	service *service.InventoryService
	logger  *logger.Logger
}

// NewSupplierHandler creates a new supplier handler
func NewSupplierHandler(svc *service.InventoryService, log *logger.Logger) *SupplierHandler {
	return &SupplierHandler{
		service: svc,
		logger:  log,
	}
}

// List lists all suppliers
func (h *SupplierHandler) List(w http.ResponseWriter, r *http.Request) {
	sc := scope.MustFromContext(r.Context())

	suppliers, err := h.service.ListSuppliers(r.Context(), sc)
	if err != nil {
		httputil.Error(w, err)
		return
	}

	httputil.JSON(w, http.StatusOK, suppliers)
}

type supplierRequest struct {
	Name          string `json:"name" validate:"required"`
	ContactPerson string `json:"contact_person"`
	Email         string `json:"email" validate:"omitempty,email"`
	Phone         string `json:"phone"`
	Address       string `json:"address"`
}

// Create registers a supplier
func (h *SupplierHandler) Create(w http.ResponseWriter, r *http.Request) {
	sc := scope.MustFromContext(r.Context())

	var req supplierRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		httputil.Error(w, err)
		return
	}
	if err := httputil.Validate(req); err != nil {
		httputil.Error(w, err)
		return
	}

	sup := repository.Supplier{
		Name:          req.Name,
		ContactPerson: req.ContactPerson,
		Email:         req.Email,
		Phone:         req.Phone,
		Address:       req.Address,
	}

	if err := h.service.CreateSupplier(r.Context(), sc, &sup); err != nil {
		httputil.Error(w, err)
		return
	}

	httputil.Created(w, sup)
}

// Update updates a supplier
func (h *SupplierHandler) Update(w http.ResponseWriter, r *http.Request) {
	sc := scope.MustFromContext(r.Context())
	id := chi.URLParam(r, "id")

	var req supplierRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		httputil.Error(w, err)
		return
	}
	if err := httputil.Validate(req); err != nil {
		httputil.Error(w, err)
		return
	}

	sup := repository.Supplier{
		ID:            id,
		Name:          req.Name,
		ContactPerson: req.ContactPerson,
		Email:         req.Email,
		Phone:         req.Phone,
		Address:       req.Address,
	}

	if err := h.service.UpdateSupplier(r.Context(), sc, &sup); err != nil {
		httputil.Error(w, err)
		return
	}

	httputil.JSON(w, http.StatusOK, sup)
}

// Delete removes a supplier
func (h *SupplierHandler) Delete(w http.ResponseWriter, r *http.Request) {
	sc := scope.MustFromContext(r.Context())
	id := chi.URLParam(r, "id")

	if err := h.service.DeleteSupplier(r.Context(), sc, id); err != nil {
		httputil.Error(w, err)
		return
	}

	httputil.NoContent(w)
}
