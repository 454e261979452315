package analytics

import (
	"net/http"

	"github.com/premierlux/premierlux-backend/pkg/httputil"
	"github.com/premierlux/premierlux-backend/pkg/logger"
	"github.com/premierlux/premierlux-backend/pkg/scope"
)

// Handler handles analytics endpoints
type Handler struct {
	service *Service
	hub     *Hub
	logger  *logger.Logger
}

// NewHandler creates a new analytics handler
func NewHandler(svc *Service, hub *Hub, log *logger.Logger) *Handler {
	return &Handler{
		service: svc,
		hub:     hub,
		logger:  log,
	}
}

// Overview returns the headline KPIs
func (h *Handler) Overview(w http.ResponseWriter, r *http.Request) {
	sc := scope.MustFromContext(r.Context())

	overview, err := h.service.Overview(r.Context(), sc)
	if err != nil {
		httputil.Error(w, err)
		return
	}

	httputil.JSON(w, http.StatusOK, overview)
}

// Movement returns the seven day movement chart
func (h *Handler) Movement(w http.ResponseWriter, r *http.Request) {
	sc := scope.MustFromContext(r.Context())

	series, err := h.service.WeeklyMovement(r.Context(), sc)
	if err != nil {
		httputil.Error(w, err)
		return
	}

	httputil.JSON(w, http.StatusOK, series)
}

// MovementMonthly returns the twelve month movement chart
func (h *Handler) MovementMonthly(w http.ResponseWriter, r *http.Request) {
	sc := scope.MustFromContext(r.Context())

	series, err := h.service.MonthlyMovement(r.Context(), sc)
	if err != nil {
		httputil.Error(w, err)
		return
	}

	httputil.JSON(w, http.StatusOK, series)
}

// Category returns per-category stock totals
func (h *Handler) Category(w http.ResponseWriter, r *http.Request) {
	sc := scope.MustFromContext(r.Context())

	totals, err := h.service.CategoryTotals(r.Context(), sc)
	if err != nil {
		httputil.Error(w, err)
		return
	}

	httputil.JSON(w, http.StatusOK, totals)
}

// LowStock returns items at or below their reorder level
func (h *Handler) LowStock(w http.ResponseWriter, r *http.Request) {
	sc := scope.MustFromContext(r.Context())

	rows, err := h.service.LowStock(r.Context(), sc)
	if err != nil {
		httputil.Error(w, err)
		return
	}

	httputil.JSON(w, http.StatusOK, rows)
}

// TopProducts returns the most consumed items with cost impact
func (h *Handler) TopProducts(w http.ResponseWriter, r *http.Request) {
	sc := scope.MustFromContext(r.Context())

	products, err := h.service.TopProducts(r.Context(), sc)
	if err != nil {
		httputil.Error(w, err)
		return
	}

	httputil.JSON(w, http.StatusOK, products)
}

// BranchStock returns per-branch stock totals as chart series
func (h *Handler) BranchStock(w http.ResponseWriter, r *http.Request) {
	sc := scope.MustFromContext(r.Context())

	totals, err := h.service.BranchStock(r.Context(), sc)
	if err != nil {
		httputil.Error(w, err)
		return
	}

	labels := make([]string, len(totals))
	values := make([]int, len(totals))
	for i, t := range totals {
		label := t.Branch
		if label == "" {
			label = "Unassigned"
		}
		labels[i] = label
		values[i] = t.Total
	}

	httputil.JSON(w, http.StatusOK, map[string]interface{}{
		"labels": labels,
		"values": values,
	})
}

// Snapshot returns the most recent broadcast snapshot, building one on
// demand when the broadcaster has not run yet
func (h *Handler) Snapshot(w http.ResponseWriter, r *http.Request) {
	sc := scope.MustFromContext(r.Context())

	// Branch-restricted callers always get a freshly scoped build; the
	// cached snapshot is unrestricted.
	if !sc.Restricted() {
		if snap := h.hub.Latest(); snap != nil {
			httputil.JSON(w, http.StatusOK, snap)
			return
		}
	}

	snap, err := h.service.BuildSnapshot(r.Context(), sc)
	if err != nil {
		httputil.Error(w, err)
		return
	}

	httputil.JSON(w, http.StatusOK, snap)
}
