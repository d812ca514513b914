package orders

import (
	"encoding/json"
	"time"
)

const (
	EventOrderCreated     = "OrderCreated"
	EventPaymentRequested = "PaymentRequested"
	EventPaymentFailed    = "PaymentFailed"
)

type Envelope struct {
	EventID       string          `json:"event_id"`      // uuid
	EventType     string          `json:"event_type"`    // one of the consts above
	EventVersion  int             `json:"event_version"` // 1
	OccurredAt    time.Time       `json:"occurred_at"`   // RFC3339
	Producer      string          `json:"producer"`      // e.g., "storefront-api"
	TraceID       string          `json:"trace_id,omitempty"`
	CorrelationID string          `json:"correlation_id,omitempty"` // usually order_id
	Payload       json.RawMessage `json:"payload"`
}

// ---- Payload types per event ----

type ItemPrice struct {
	ProductID string `json:"product_id"`
	Qty       int    `json:"qty"`
	Price     int    `json:"price"`
}

type OrderCreatedPayload struct {
	OrderID     string      `json:"order_id"`
	ExternalID  string      `json:"external_id"`
	UserID      string      `json:"user_id"`
	Items       []ItemPrice `json:"items"`
	Total       int         `json:"total"`
	PaymentType string      `json:"payment_type"` // mpesa | on_delivery
	MpesaNumber string      `json:"mpesa_number,omitempty"`
}

type PaymentRequestedPayload struct {
	OrderID           string `json:"order_id"`
	MerchantRequestID string `json:"merchant_request_id"`
	CheckoutRequestID string `json:"checkout_request_id"`
	Amount            int    `json:"amount"`
	Phone             string `json:"phone"`
}

type PaymentFailedPayload struct {
	OrderID string `json:"order_id"`
	Reason  string `json:"reason"` // e.g., GATEWAY_REJECTED
}
