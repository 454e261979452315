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

// OrderHandler handles order endpoints
type OrderHandler struct {
	service *service.InventoryService
	logger  *logger.Logger
}

// NewOrderHandler creates a new order handler
func NewOrderHandler(svc *service.InventoryService, log *logger.Logger) *OrderHandler {
	return &OrderHandler{
		service: svc,
		logger:  log,
	}
}

// List lists orders
func (h *OrderHandler) List(w http.ResponseWriter, r *http.Request) {
	sc := scope.MustFromContext(r.Context())

	orders, err := h.service.ListOrders(r.Context(), sc,
		r.URL.Query().Get("branch"), r.URL.Query().Get("status"))
	if err != nil {
		httputil.Error(w, err)
		return
	}

	httputil.JSON(w, http.StatusOK, orders)
}

type createOrderRequest struct {
	ItemName string `json:"item_name" validate:"required"`
	Quantity int    `json:"quantity" validate:"required,gt=0"`
	Supplier string `json:"supplier"`
	Branch   string `json:"branch"`
}

// Create raises a purchase request
func (h *OrderHandler) Create(w http.ResponseWriter, r *http.Request) {
	sc := scope.MustFromContext(r.Context())

	var req createOrderRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		httputil.Error(w, err)
		return
	}
	if err := httputil.Validate(req); err != nil {
		httputil.Error(w, err)
		return
	}

	order := repository.Order{
		ItemName: req.ItemName,
		Quantity: req.Quantity,
		Supplier: req.Supplier,
		Branch:   req.Branch,
	}

	if err := h.service.CreateOrder(r.Context(), sc, &order); err != nil {
		httputil.Error(w, err)
		return
	}

	httputil.Created(w, order)
}

type updateOrderStatusRequest struct {
	Status string `json:"status" validate:"required"`
}

// UpdateStatus moves an order through its lifecycle
func (h *OrderHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	sc := scope.MustFromContext(r.Context())
	id := chi.URLParam(r, "id")

	var req updateOrderStatusRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		httputil.Error(w, err)
		return
	}
	if err := httputil.Validate(req); err != nil {
		httputil.Error(w, err)
		return
	}

	if err := h.service.UpdateOrderStatus(r.Context(), sc, id, req.Status); err != nil {
		httputil.Error(w, err)
		return
	}

	httputil.JSON(w, http.StatusOK, map[string]string{"id": id, "status": req.Status})
}

// Delete removes an order
func (h *OrderHandler) Delete(w http.ResponseWriter, r *http.Request) {
	sc := scope.MustFromContext(r.Context())
	id := chi.URLParam(r, "id")

	if err := h.service.DeleteOrder(r.Context(), sc, id); err != nil {
		httputil.Error(w, err)
		return
	}

	httputil.NoContent(w)
}
