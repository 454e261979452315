package messaging

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Exchange names
const (
	ExchangeInventory = "inventory.events"
	ExchangeAnalytics = "analytics.events"
	ExchangeSystem    = "system.events"
)

// Event types
const (
	EventStockAdjusted     = "inventory.stock.adjusted"
	EventBatchReceived     = "inventory.batch.received"
	EventAlertGenerated    = "inventory.alert.generated"
	EventAnalyticsSnapshot = "analytics.snapshot"
	EventSystemBroadcast   = "system.broadcast"
	EventForceLogout       = "system.force_logout"
	EventAuditLogCreated   = "audit.log.created"
)

// Event is the envelope for all published events
type Event struct {
	ID            string          `json:"id"`
	Type          string          `json:"type"`
	Source        string          `json:"source"`
	Timestamp     time.Time       `json:"timestamp"`
	CorrelationID string          `json:"correlation_id,omitempty"`
	Data          json.RawMessage `json:"data"`
}

// NewEvent creates a new event with the given type, source and payload
func NewEvent(eventType, source string, data interface{}) (*Event, error) {
	payload, err := json.Marshal(data)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal event data: %w", err)
	}

	return &Event{
		ID:        GenerateEventID(),
		Type:      eventType,
		Source:    source,
		Timestamp: time.Now().UTC(),
		Data:      payload,
	}, nil
}

// UnmarshalData unmarshals the event payload into the given target
func (e *Event) UnmarshalData(target interface{}) error {
	return json.Unmarshal(e.Data, target)
}

// GenerateEventID generates a unique event identifier
func GenerateEventID() string {
	return uuid.New().String()
}

// StockAdjustedEvent is published when an item's quantity changes
type StockAdjustedEvent struct {
	ItemID       string    `json:"item_id"`
	ItemName     string    `json:"item_name"`
	Branch       string    `json:"branch"`
	Delta        int       `json:"delta"`
	NewQuantity  int       `json:"new_quantity"`
	Direction    string    `json:"direction"`
	AdjustedBy   string    `json:"adjusted_by"`
	AdjustedAt   time.Time `json:"adjusted_at"`
	ReorderLevel int       `json:"reorder_level"`
}

// BatchReceivedEvent is published when a new batch is recorded
type BatchReceivedEvent struct {
	BatchID     string    `json:"batch_id"`
	BatchNumber string    `json:"batch_number"`
	ProductName string    `json:"product_name"`
	Branch      string    `json:"branch"`
	Quantity    int       `json:"quantity"`
	ExpiryDate  string    `json:"expiry_date,omitempty"`
	ReceivedBy  string    `json:"received_by"`
	ReceivedAt  time.Time `json:"received_at"`
}

// AlertGeneratedEvent is published when the alert engine produces a new alert
type AlertGeneratedEvent struct {
	AlertID  string `json:"alert_id"`
	Type     string `json:"alert_type"`
	Severity string `json:"severity"`
	Title    string `json:"title"`
	Message  string `json:"message"`
	Branch   string `json:"branch,omitempty"`
}

// SystemBroadcastEvent carries an owner broadcast message to all sessions
type SystemBroadcastEvent struct {
	Message string    `json:"message"`
	SentBy  string    `json:"sent_by"`
	SentAt  time.Time `json:"sent_at"`
}

// ForceLogoutEvent instructs clients to terminate their sessions
type ForceLogoutEvent struct {
	Reason      string    `json:"reason"`
	InitiatedBy string    `json:"initiated_by"`
	InitiatedAt time.Time `json:"initiated_at"`
}

// AuditLogCreatedEvent mirrors an audit log entry onto the event bus
type AuditLogCreatedEvent struct {
	UserEmail string    `json:"user_email"`
	Action    string    `json:"action"`
	Details   string    `json:"details,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}
