package orders

import (
	"encoding/json"
	"time"
)

const (
	EventOrderCreated   = "OrderCreated"
	EventOrderPaid      = "OrderPaid"
	EventOrderSubmitted = "OrderSubmitted"
	EventOrderFailed    = "OrderFailed"
)

type Envelope struct {
	EventID       string          `json:"event_id"`
	EventType     string          `json:"event_type"`
	EventVersion  int             `json:"event_version"`
	OccurredAt    time.Time       `json:"occurred_at"`
	Producer      string          `json:"producer"`
	TraceID       string          `json:"trace_id,omitempty"`
	CorrelationID string          `json:"correlation_id,omitempty"` // order_id
	Payload       json.RawMessage `json:"payload"`
}

// ---- Per-event payloads ----

type TargetQty struct {
	Link string `json:"link"`
	Qty  int    `json:"qty"`
}

type OrderCreatedPayload struct {
	OrderID       string      `json:"order_id"`
	ExternalID    string      `json:"external_id"`
	Platform      string      `json:"platform"`
	ServiceType   string      `json:"service_type"`
	Quality       string      `json:"quality"`
	Quantity      int         `json:"quantity"`
	Targets       []TargetQty `json:"targets"`
	TotalUSD      string      `json:"total_usd"`
	PaymentMethod string      `json:"payment_method"`
}

type OrderPaidPayload struct {
	OrderID       string `json:"order_id"`
	PaymentMethod string `json:"payment_method"`
	PaymentRef    string `json:"payment_ref"`
	AmountUSD     string `json:"amount_usd"`
}

type OrderSubmittedPayload struct {
	OrderID       string  `json:"order_id"`
	PanelOrderIDs []int64 `json:"panel_order_ids"`
}

type OrderFailedPayload struct {
	OrderID string `json:"order_id"`
	Reason  string `json:"reason"` // e.g. PANEL_REJECTED
}
