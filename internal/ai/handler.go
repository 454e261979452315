package ai

import (
	"net/http"

	"github.com/premierlux/premierlux-backend/pkg/httputil"
	"github.com/premierlux/premierlux-backend/pkg/logger"
	"github.com/premierlux/premierlux-backend/pkg/scope"
)

// Handler handles assistant endpoints
type Handler struct {
	service *Service
	logger  *logger.Logger
}

// NewHandler creates a new assistant handler
func NewHandler(svc *Service, log *logger.Logger) *Handler {
	return &Handler{
		service: svc,
		logger:  log,
	}
}

type chatRequest struct {
	Message string `json:"message" validate:"required"`
}

// Chat answers a chat message with inventory context
func (h *Handler) Chat(w http.ResponseWriter, r *http.Request) {
	sc := scope.MustFromContext(r.Context())

	var req chatRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		httputil.Error(w, err)
		return
	}
	if err := httputil.Validate(&req); err != nil {
		httputil.Error(w, err)
		return
	}

	reply := h.service.Chat(r.Context(), sc, req.Message)
	httputil.JSON(w, http.StatusOK, reply)
}

// Analyze returns the cached or freshly generated stock health report
func (h *Handler) Analyze(w http.ResponseWriter, r *http.Request) {
	sc := scope.MustFromContext(r.Context())

	analysis, err := h.service.Analyze(r.Context(), sc)
	if err != nil {
		httputil.Error(w, err)
		return
	}

	httputil.JSON(w, http.StatusOK, analysis)
}

// MarketIntelligence returns supplier price trend analysis. Management only.
func (h *Handler) MarketIntelligence(w http.ResponseWriter, r *http.Request) {
	sc := scope.MustFromContext(r.Context())

	report, err := h.service.MarketIntelligence(r.Context(), sc)
	if err != nil {
		httputil.Error(w, err)
		return
	}

	httputil.JSON(w, http.StatusOK, report)
}

// Dashboard returns the stored assistant summary
func (h *Handler) Dashboard(w http.ResponseWriter, r *http.Request) {
	summary, err := h.service.Dashboard(r.Context())
	if err != nil {
		httputil.Error(w, err)
		return
	}

	httputil.JSON(w, http.StatusOK, summary)
}
