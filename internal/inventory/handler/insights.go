package handler

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/premierlux/premierlux-backend/internal/inventory/service"
	"github.com/premierlux/premierlux-backend/pkg/httputil"
	"github.com/premierlux/premierlux-backend/pkg/logger"
	"github.com/premierlux/premierlux-backend/pkg/scope"
)

// InsightsHandler handles replenishment, forecasting and compliance endpoints
type InsightsHandler struct {
	service *service.InventoryService
	logger  *logger.Logger
}

// NewInsightsHandler creates a new insights handler
func NewInsightsHandler(svc *service.InventoryService, log *logger.Logger) *InsightsHandler {
	return &InsightsHandler{
		service: svc,
		logger:  log,
	}
}

// Recommendations lists items the reorder engine flags for replenishment
func (h *InsightsHandler) Recommendations(w http.ResponseWriter, r *http.Request) {
	sc := scope.MustFromContext(r.Context())

	recs, err := h.service.ReorderSuggestions(r.Context(), sc, r.URL.Query().Get("branch"))
	if err != nil {
		httputil.Error(w, err)
		return
	}

	httputil.JSON(w, http.StatusOK, recs)
}

// Forecast predicts daily usage for one item
func (h *InsightsHandler) Forecast(w http.ResponseWriter, r *http.Request) {
	sc := scope.MustFromContext(r.Context())
	itemName := chi.URLParam(r, "name")

	result, err := h.service.ForecastItem(r.Context(), sc, itemName)
	if err != nil {
		httputil.Error(w, err)
		return
	}

	httputil.JSON(w, http.StatusOK, result)
}

// Compliance summarizes stock health as a score
func (h *InsightsHandler) Compliance(w http.ResponseWriter, r *http.Request) {
	sc := scope.MustFromContext(r.Context())

	overview, err := h.service.Compliance(r.Context(), sc)
	if err != nil {
		httputil.Error(w, err)
		return
	}

	httputil.JSON(w, http.StatusOK, overview)
}

// Movements lists recent stock movements
func (h *InsightsHandler) Movements(w http.ResponseWriter, r *http.Request) {
	sc := scope.MustFromContext(r.Context())

	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))

	entries, err := h.service.RecentMovements(r.Context(), sc, limit)
	if err != nil {
		httputil.Error(w, err)
		return
	}

	httputil.JSON(w, http.StatusOK, entries)
}
