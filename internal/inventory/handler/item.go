// Package handler exposes the inventory HTTP API.
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

// ItemHandler handles item endpoints
type ItemHandler struct {
	service *service.InventoryService
	logger  *logger.Logger
}

// NewItemHandler creates a new item handler
func NewItemHandler(svc *service.InventoryService, log *logger.Logger) *ItemHandler {
	return &ItemHandler{
		service: svc,
		logger:  log,
	}
}

// List lists inventory items
func (h *ItemHandler) List(w http.ResponseWriter, r *http.Request) {
	sc := scope.MustFromContext(r.Context())

	filter := repository.ItemFilter{
		Branch:   r.URL.Query().Get("branch"),
		Category: r.URL.Query().Get("category"),
		Search:   r.URL.Query().Get("search"),
	}

	items, err := h.service.ListItems(r.Context(), sc, filter)
	if err != nil {
		httputil.Error(w, err)
		return
	}

	httputil.JSON(w, http.StatusOK, items)
}

// Get gets an item by ID
func (h *ItemHandler) Get(w http.ResponseWriter, r *http.Request) {
	sc := scope.MustFromContext(r.Context())
	id := chi.URLParam(r, "id")

	item, err := h.service.GetItem(r.Context(), sc, id)
	if err != nil {
		httputil.Error(w, err)
		return
	}

	httputil.JSON(w, http.StatusOK, item)
}

type createItemRequest struct {
	Name          string  `json:"name" validate:"required"`
	Category      string  `json:"category"`
	Quantity      int     `json:"quantity" validate:"gte=0"`
	Unit          string  `json:"unit"`
	Branch        string  `json:"branch"`
	Supplier      string  `json:"supplier"`
	ReorderLevel  int     `json:"reorder_level" validate:"gte=0"`
	AvgDailyUsage float64 `json:"avg_daily_usage" validate:"gte=0"`
	LeadTimeDays  int     `json:"lead_time_days" validate:"gte=0"`
	SafetyStock   int     `json:"safety_stock" validate:"gte=0"`
	UnitCost      float64 `json:"unit_cost" validate:"gte=0"`
	ExpiryDate    string  `json:"expiry_date"`
}

// Create creates a new item
func (h *ItemHandler) Create(w http.ResponseWriter, r *http.Request) {
	sc := scope.MustFromContext(r.Context())

	var req createItemRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		httputil.Error(w, err)
		return
	}
	if err := httputil.Validate(req); err != nil {
		httputil.Error(w, err)
		return
	}

	item := repository.InventoryItem{
		Name:          req.Name,
		Category:      req.Category,
		Quantity:      req.Quantity,
		Unit:          req.Unit,
		Branch:        req.Branch,
		Supplier:      req.Supplier,
		ReorderLevel:  req.ReorderLevel,
		AvgDailyUsage: req.AvgDailyUsage,
		LeadTimeDays:  req.LeadTimeDays,
		SafetyStock:   req.SafetyStock,
		UnitCost:      req.UnitCost,
		ExpiryDate:    req.ExpiryDate,
	}

	if err := h.service.CreateItem(r.Context(), sc, &item); err != nil {
		httputil.Error(w, err)
		return
	}

	httputil.Created(w, item)
}

// Update updates an item
func (h *ItemHandler) Update(w http.ResponseWriter, r *http.Request) {
	sc := scope.MustFromContext(r.Context())
	id := chi.URLParam(r, "id")

	var item repository.InventoryItem
	if err := httputil.DecodeJSON(r, &item); err != nil {
		httputil.Error(w, err)
		return
	}

	item.ID = id
	if err := h.service.UpdateItem(r.Context(), sc, &item); err != nil {
		httputil.Error(w, err)
		return
	}

	httputil.JSON(w, http.StatusOK, item)
}

// Delete deletes an item
func (h *ItemHandler) Delete(w http.ResponseWriter, r *http.Request) {
	sc := scope.MustFromContext(r.Context())
	id := chi.URLParam(r, "id")

	if err := h.service.DeleteItem(r.Context(), sc, id); err != nil {
		httputil.Error(w, err)
		return
	}

	httputil.NoContent(w)
}

type adjustRequest struct {
	Delta          int    `json:"delta" validate:"required"`
	ReasonCategory string `json:"reason_category"`
	Note           string `json:"note"`
}

// Adjust applies a signed quantity change to an item
func (h *ItemHandler) Adjust(w http.ResponseWriter, r *http.Request) {
	sc := scope.MustFromContext(r.Context())
	id := chi.URLParam(r, "id")

	var req adjustRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		httputil.Error(w, err)
		return
	}
	if err := httputil.Validate(req); err != nil {
		httputil.Error(w, err)
		return
	}

	item, err := h.service.AdjustStock(r.Context(), sc, id, req.Delta, req.ReasonCategory, req.Note)
	if err != nil {
		httputil.Error(w, err)
		return
	}

	httputil.JSON(w, http.StatusOK, item)
}
