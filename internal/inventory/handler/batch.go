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

// BatchHandler handles batch endpoints
type BatchHandler struct {
	service *service.InventoryService
	logger  *logger.Logger
}

// NewBatchHandler creates a new batch handler
func NewBatchHandler(svc *service.InventoryService, log *logger.Logger) *BatchHandler {
	return &BatchHandler{
		service: svc,
		logger:  log,
	}
}

// List lists batches
func (h *BatchHandler) List(w http.ResponseWriter, r *http.Request) {
	sc := scope.MustFromContext(r.Context())

	filter := repository.BatchFilter{
		Branch: r.URL.Query().Get("branch"),
		Status: r.URL.Query().Get("status"),
	}

	batches, err := h.service.ListBatches(r.Context(), sc, filter)
	if err != nil {
		httputil.Error(w, err)
		return
	}

	httputil.JSON(w, http.StatusOK, batches)
}

// Get gets a batch by ID
func (h *BatchHandler) Get(w http.ResponseWriter, r *http.Request) {
	sc := scope.MustFromContext(r.Context())
	id := chi.URLParam(r, "id")

	b, err := h.service.GetBatch(r.Context(), sc, id)
	if err != nil {
		httputil.Error(w, err)
		return
	}

	httputil.JSON(w, http.StatusOK, b)
}

// Scan looks a batch up from a scanned label code
func (h *BatchHandler) Scan(w http.ResponseWriter, r *http.Request) {
	sc := scope.MustFromContext(r.Context())
	code := chi.URLParam(r, "code")

	b, err := h.service.GetBatchByQRCode(r.Context(), sc, code)
	if err != nil {
		httputil.Error(w, err)
		return
	}

	httputil.JSON(w, http.StatusOK, b)
}

type receiveBatchRequest struct {
	ProductName string `json:"product_name" validate:"required"`
	Category    string `json:"category"`
	Quantity    int    `json:"quantity" validate:"required,gt=0"`
	Unit        string `json:"unit"`
	Branch      string `json:"branch"`
	Supplier    string `json:"supplier"`
	ExpiryDate  string `json:"expiry_date"`
	BatchNumber string `json:"batch_number"`
	LotNumber   string `json:"lot_number"`
}

// Receive records a new batch. Identifiers left blank are generated.
func (h *BatchHandler) Receive(w http.ResponseWriter, r *http.Request) {
	sc := scope.MustFromContext(r.Context())

	var req receiveBatchRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		httputil.Error(w, err)
		return
	}
	if err := httputil.Validate(req); err != nil {
		httputil.Error(w, err)
		return
	}

	b := repository.Batch{
		BatchNumber: req.BatchNumber,
		LotNumber:   req.LotNumber,
		ProductName: req.ProductName,
		Category:    req.Category,
		Quantity:    req.Quantity,
		Unit:        req.Unit,
		Branch:      req.Branch,
		Supplier:    req.Supplier,
		ExpiryDate:  req.ExpiryDate,
	}

	if err := h.service.ReceiveBatch(r.Context(), sc, &b); err != nil {
		httputil.Error(w, err)
		return
	}

	httputil.Created(w, b)
}

// Delete deletes a batch
func (h *BatchHandler) Delete(w http.ResponseWriter, r *http.Request) {
	sc := scope.MustFromContext(r.Context())
	id := chi.URLParam(r, "id")

	if err := h.service.DeleteBatch(r.Context(), sc, id); err != nil {
		httputil.Error(w, err)
		return
	}

	httputil.NoContent(w)
}
