package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/premierlux/premierlux-backend/internal/inventory/service"
	"github.com/premierlux/premierlux-backend/pkg/httputil"
	"github.com/premierlux/premierlux-backend/pkg/logger"
	"github.com/premierlux/premierlux-backend/pkg/scope"
)

// AlertHandler handles alert endpoints
type AlertHandler struct {
	service *service.InventoryService
	logger  *logger.Logger
}

// NewAlertHandler creates a new alert handler
func NewAlertHandler(svc *service.InventoryService, log *logger.Logger) *AlertHandler {
	return &AlertHandler{
		service: svc,
		logger:  log,
	}
}

// List returns the caller's active, unacknowledged alerts
func (h *AlertHandler) List(w http.ResponseWriter, r *http.Request) {
	sc := scope.MustFromContext(r.Context())

	alerts, err := h.service.ActiveAlerts(r.Context(), sc)
	if err != nil {
		httputil.Error(w, err)
		return
	}

	httputil.JSON(w, http.StatusOK, alerts)
}

// Acknowledge dismisses an alert for the calling user
func (h *AlertHandler) Acknowledge(w http.ResponseWriter, r *http.Request) {
	sc := scope.MustFromContext(r.Context())
	alertID := chi.URLParam(r, "id")

	if err := h.service.AcknowledgeAlert(r.Context(), sc, alertID); err != nil {
		httputil.Error(w, err)
		return
	}

	httputil.JSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
