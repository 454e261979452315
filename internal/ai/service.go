package ai

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"time"

	"github.com/premierlux/premierlux-backend/internal/inventory/repository"
	"github.com/premierlux/premierlux-backend/pkg/config"
	"github.com/premierlux/premierlux-backend/pkg/errors"
	"github.com/premierlux/premierlux-backend/pkg/logger"
	"github.com/premierlux/premierlux-backend/pkg/scope"
)

const (
	analysisItemLimit = 30
	chatContextLimit  = 20
	marketRowLimit    = 20

	offlineReply = "⚠️ I'm currently offline or check your API Key."
)

// ChatReply is the assistant's answer to one chat message
type ChatReply struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

// OrderSuggestion is one line of a recommended purchase
type OrderSuggestion struct {
	Item   string `json:"item"`
	Qty    int    `json:"qty"`
	Reason string `json:"reason"`
}

// Analysis is the generated inventory health report
type Analysis struct {
	InsightText      string            `json:"insight_text"`
	StatusBadge      string            `json:"status_badge"`
	RecommendedOrder []OrderSuggestion `json:"recommended_order"`
}

// MarketPrediction is one supplier-level price forecast
type MarketPrediction struct {
	Item     string `json:"item"`
	Supplier string `json:"supplier"`
	Trend    string `json:"trend"`
	Forecast string `json:"forecast"`
	Advice   string `json:"advice"`
}

// MarketReport is the generated supplier price analysis
type MarketReport struct {
	MarketSummary string             `json:"market_summary"`
	Predictions   []MarketPrediction `json:"predictions"`
}

// DashboardSummary is the stored assistant summary shown on the dashboard
type DashboardSummary struct {
	SummaryText string     `json:"summary_text"`
	RiskText    string     `json:"risk_text"`
	UpdatedAt   *time.Time `json:"updated_at"`
}

// Service implements the assistant features on top of the completion client
type Service struct {
	client    *Client
	items     *repository.ItemRepository
	dashboard *DashboardRepository
	config    *config.LLMConfig
	logger    *logger.Logger
}

// NewService creates a new assistant service
func NewService(client *Client, items *repository.ItemRepository, dashboard *DashboardRepository, cfg *config.LLMConfig, log *logger.Logger) *Service {
	return &Service{
		client:    client,
		items:     items,
		dashboard: dashboard,
		config:    cfg,
		logger:    log.WithComponent("ai-service"),
	}
}

// Chat answers a free-form question with the caller's inventory as context.
// A failed completion degrades to a canned offline reply instead of an error
// so the chat widget stays usable.
func (s *Service) Chat(ctx context.Context, sc scope.Scope, message string) *ChatReply {
	systemPrompt := s.buildChatContext(ctx, sc)

	messages := []Message{
		{Role: "system", Content: systemPrompt},
		{Role: "user", Content: message},
	}

	answer, err := s.client.Complete(ctx, messages, CompletionOptions{
		Model:       s.config.ChatModel,
		Temperature: 0.5,
		MaxTokens:   500,
	})
	if err != nil {
		s.logger.Warn().Err(err).Msg("chat completion failed")
		return &ChatReply{Type: "error", Text: offlineReply}
	}

	return &ChatReply{Type: "llm_answer", Text: answer}
}

func (s *Service) buildChatContext(ctx context.Context, sc scope.Scope) string {
	summary := "Inventory data currently unavailable."

	items, err := s.items.List(ctx, sc, repository.ItemFilter{})
	if err != nil {
		s.logger.Warn().Err(err).Msg("failed to load inventory for chat context")
	} else {
		type lowRow struct {
			Name     string `json:"name"`
			Quantity int    `json:"quantity"`
			Branch   string `json:"branch"`
		}
		low := []lowRow{}
		for _, it := range items {
			if it.Quantity <= it.ReorderLevel && len(low) < chatContextLimit {
				low = append(low, lowRow{Name: it.Name, Quantity: it.Quantity, Branch: it.Branch})
			}
		}
		if encoded, err := json.Marshal(low); err == nil {
			summary = fmt.Sprintf("Total Items: %d. Low Stock Items: %s", len(items), encoded)
		}
	}

	return fmt.Sprintf(`You are LUX, the AI assistant for PremierLux Dental.
Your Tone: Professional, concise, and helpful.

Current Inventory Status:
%s

Rules:
- If the user asks about stock, check the 'Low Stock Items' list above first.
- Keep answers short (under 3 sentences) unless asked for details.`, summary)
}

// Analyze produces a stock health report over the lowest-quantity items. The
// result is cached so repeated dashboard loads do not burn completion quota,
// and failures return a safe placeholder rather than an error.
func (s *Service) Analyze(ctx context.Context, sc scope.Scope) (*Analysis, error) {
	if s.config.APIKey == "" {
		return &Analysis{
			InsightText:      "Configuration Error: LLM API key is not configured.",
			StatusBadge:      "Config Error",
			RecommendedOrder: []OrderSuggestion{},
		}, nil
	}

	var cached Analysis
	found, storedAt, err := s.dashboard.Get(ctx, DashboardKeyAnalysis, &cached)
	if err != nil {
		s.logger.Warn().Err(err).Msg("failed to read analysis cache")
	}
	if found && time.Since(storedAt) < s.config.CacheTTL {
		return &cached, nil
	}

	items, err := s.items.List(ctx, sc, repository.ItemFilter{})
	if err != nil {
		return nil, err
	}
	sort.Slice(items, func(i, j int) bool { return items[i].Quantity < items[j].Quantity })
	if len(items) > analysisItemLimit {
		items = items[:analysisItemLimit]
	}

	type analysisRow struct {
		Name          string  `json:"name"`
		Quantity      int     `json:"quantity"`
		ReorderLevel  int     `json:"reorder_level"`
		AvgDailyUsage float64 `json:"avg_daily_usage"`
	}
	rows := make([]analysisRow, 0, len(items))
	for _, it := range items {
		rows = append(rows, analysisRow{
			Name:          it.Name,
			Quantity:      it.Quantity,
			ReorderLevel:  it.ReorderLevel,
			AvgDailyUsage: it.AvgDailyUsage,
		})
	}
	dataStr, err := json.Marshal(rows)
	if err != nil {
		return nil, errors.Internal("failed to encode inventory for analysis")
	}

	prompt := fmt.Sprintf(`Analyze this inventory list: %s

Return a JSON object with this EXACT structure (no markdown):
{
    "insight_text": "Write a 2-sentence summary of the stock health.",
    "status_badge": "Healthy" or "Critical",
    "recommended_order": [
        {"item": "Item Name", "qty": 10, "reason": "Low stock"}
    ]
}`, dataStr)

	content, err := s.client.Complete(ctx, []Message{
		{Role: "system", Content: "You are a supply chain assistant. Output ONLY valid JSON."},
		{Role: "user", Content: prompt},
	}, CompletionOptions{
		Model:       s.config.AnalysisModel,
		Temperature: 0.3,
		JSONOutput:  true,
	})
	if err != nil {
		s.logger.Warn().Err(err).Msg("analysis completion failed")
		return fallbackAnalysis(err), nil
	}

	var analysis Analysis
	if err := json.Unmarshal([]byte(content), &analysis); err != nil {
		s.logger.Warn().Err(err).Msg("analysis response was not valid JSON")
		return fallbackAnalysis(err), nil
	}
	if analysis.RecommendedOrder == nil {
		analysis.RecommendedOrder = []OrderSuggestion{}
	}

	if err := s.dashboard.Set(ctx, DashboardKeyAnalysis, &analysis); err != nil {
		s.logger.Warn().Err(err).Msg("failed to cache analysis")
	}
	return &analysis, nil
}

func fallbackAnalysis(err error) *Analysis {
	return &Analysis{
		InsightText:      fmt.Sprintf("System Error: %v", err),
		StatusBadge:      "Error",
		RecommendedOrder: []OrderSuggestion{},
	}
}

// MarketIntelligence analyzes supplier purchasing history for price trends.
// Management only.
func (s *Service) MarketIntelligence(ctx context.Context, sc scope.Scope) (*MarketReport, error) {
	if !sc.IsManagement() {
		return nil, errors.Forbidden("market intelligence requires admin or owner role")
	}

	rows, err := s.dashboard.MarketRows(ctx, marketRowLimit)
	if err != nil {
		return nil, err
	}
	dataStr, err := json.Marshal(rows)
	if err != nil {
		return nil, errors.Internal("failed to encode supplier history")
	}

	prompt := fmt.Sprintf(`Analyze this supplier price data: %s

Identify which specific suppliers are raising prices and which are cheapest.
Return JSON:
{
    "market_summary": "1-sentence summary of supplier behavior.",
    "predictions": [
        {
            "item": "Item Name",
            "supplier": "Supplier Name",
            "trend": "Rising/Falling/Stable",
            "forecast": "Predicted next price",
            "advice": "Tactical advice for this specific supplier."
        }
    ]
}`, dataStr)

	content, err := s.client.Complete(ctx, []Message{
		{Role: "system", Content: "You are LUX, a Dental Procurement Expert. You track prices per specific supplier. Output ONLY JSON."},
		{Role: "user", Content: prompt},
	}, CompletionOptions{
		Model:      s.config.AnalysisModel,
		JSONOutput: true,
	})
	if err != nil {
		s.logger.Warn().Err(err).Msg("market intelligence completion failed")
		return nil, errors.Internal("LUX is currently analyzing supplier catalogs.")
	}

	var report MarketReport
	if err := json.Unmarshal([]byte(content), &report); err != nil {
		s.logger.Warn().Err(err).Msg("market intelligence response was not valid JSON")
		return nil, errors.Internal("LUX is currently analyzing supplier catalogs.")
	}
	if report.Predictions == nil {
		report.Predictions = []MarketPrediction{}
	}
	return &report, nil
}

// Dashboard returns the stored assistant summary, empty when none exists yet.
func (s *Service) Dashboard(ctx context.Context) (*DashboardSummary, error) {
	var summary DashboardSummary
	found, storedAt, err := s.dashboard.Get(ctx, "summary", &summary)
	if err != nil {
		return nil, err
	}
	if found {
		summary.UpdatedAt = &storedAt
	}
	return &summary, nil
}
