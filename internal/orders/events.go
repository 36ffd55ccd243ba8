package orders

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const (
	EventOrderPlaced        = "OrderPlaced"
	EventOrderStatusChanged = "OrderStatusChanged"
)

type Envelope struct {
	EventID       string          `json:"event_id"`
	EventType     string          `json:"event_type"`
	EventVersion  int             `json:"event_version"`
	OccurredAt    time.Time       `json:"occurred_at"`
	Producer      string          `json:"producer"`
	TraceID       string          `json:"trace_id,omitempty"`
	CorrelationID string          `json:"correlation_id,omitempty"` // order id
	Payload       json.RawMessage `json:"payload"`
}

// NewEnvelope wraps payload as a version 1 event correlated to orderID.
func NewEnvelope(eventType, producer, orderID string, occurredAt time.Time, payload any) (Envelope, error) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return Envelope{}, fmt.Errorf("marshal %s payload: %w", eventType, err)
	}
	return Envelope{
		EventID:       uuid.NewString(),
		EventType:     eventType,
		EventVersion:  1,
		OccurredAt:    occurredAt.UTC(),
		Producer:      producer,
		CorrelationID: orderID,
		Payload:       raw,
	}, nil
}

type OrderPlacedPayload struct {
	SessionID     string          `json:"session_id"`
	OrderID       string          `json:"order_id"`
	CustomerID    string          `json:"customer_id"`
	PaymentMethod PaymentMethod   `json:"payment_method"`
	TotalAmount   decimal.Decimal `json:"total_amount"`
	Items         []LineItem      `json:"items"`
}

// OrderStatusChangedPayload is emitted by fulfillment when an order moves on.
type OrderStatusChangedPayload struct {
	SessionID string `json:"session_id"`
	OrderID   string `json:"order_id"`
	Status    Status `json:"status"`
}
