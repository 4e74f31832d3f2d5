package webhook

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/YuvisTechPoint/FoundrVerse-sub000/pkg/types"
)

// Envelope is the gateway webhook body:
// { id?, event, created_at, payload: { payment|order|refund: { entity } } }
type Envelope struct {
	ID        string          `json:"id"`
	Event     types.EventType `json:"event"`
	CreatedAt int64           `json:"created_at"`
	Payload   EnvelopePayload `json:"payload"`
}

type EnvelopePayload struct {
	Payment *EntityWrapper[PaymentEntity] `json:"payment"`
	Order   *EntityWrapper[OrderEntity]   `json:"order"`
	Refund  *EntityWrapper[RefundEntity]  `json:"refund"`
}

type EntityWrapper[T any] struct {
	Entity T `json:"entity"`
}

// PaymentEntity is the gateway payment object. Amount is in minor units.
type PaymentEntity struct {
	ID        string         `json:"id"`
	OrderID   string         `json:"order_id"`
	Amount    int64          `json:"amount"`
	Currency  string         `json:"currency"`
	Status    string         `json:"status"`
	Method    string         `json:"method"`
	Email     string         `json:"email"`
	Notes     map[string]any `json:"notes"`
	CreatedAt int64          `json:"created_at"`
}

type OrderEntity struct {
	ID       string         `json:"id"`
	Amount   int64          `json:"amount"`
	Currency string         `json:"currency"`
	Receipt  string         `json:"receipt"`
	Status   string         `json:"status"`
	Notes    map[string]any `json:"notes"`
}

type RefundEntity struct {
	ID        string         `json:"id"`
	PaymentID string         `json:"payment_id"`
	Amount    int64          `json:"amount"`
	Status    string         `json:"status"`
	Notes     map[string]any `json:"notes"`
	CreatedAt int64          `json:"created_at"`
}

// ParseEnvelope decodes a raw delivery. Parse errors are the caller's to log;
// an unparseable body is acknowledged, not retried.
func ParseEnvelope(raw []byte) (*Envelope, error) {
	var env Envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return nil, fmt.Errorf("failed to parse webhook envelope: %w", err)
	}
	if env.Event == "" {
		return nil, fmt.Errorf("webhook envelope missing event type")
	}
	return &env, nil
}

// EventKey derives the idempotency ledger key. The gateway envelope id is
// preferred; without one the key is synthesized from the event type, the
// payment or order id, and the arrival time. The synthesized form is a weak
// dedup key: a redelivery without a stable id arrives at a new timestamp and
// is treated as new.
func (e *Envelope) EventKey(arrival time.Time) string {
	if e.ID != "" {
		return e.ID
	}
	return fmt.Sprintf("%s_%s_%d", e.Event, e.SubjectID(), arrival.Unix())
}

// SubjectID returns the most specific gateway id the payload carries.
func (e *Envelope) SubjectID() string {
	switch {
	case e.Payload.Refund != nil && e.Payload.Refund.Entity.ID != "":
		return e.Payload.Refund.Entity.ID
	case e.Payload.Payment != nil && e.Payload.Payment.Entity.ID != "":
		return e.Payload.Payment.Entity.ID
	case e.Payload.Order != nil && e.Payload.Order.Entity.ID != "":
		return e.Payload.Order.Entity.ID
	}
	return "unknown"
}

// OrderID returns the order the event applies to, from whichever entity has it.
func (e *Envelope) OrderID() string {
	if e.Payload.Payment != nil && e.Payload.Payment.Entity.OrderID != "" {
		return e.Payload.Payment.Entity.OrderID
	}
	if e.Payload.Order != nil {
		return e.Payload.Order.Entity.ID
	}
	return ""
}

// PaymentID returns the gateway payment id the event applies to, if any.
func (e *Envelope) PaymentID() string {
	if e.Payload.Payment != nil && e.Payload.Payment.Entity.ID != "" {
		return e.Payload.Payment.Entity.ID
	}
	if e.Payload.Refund != nil {
		return e.Payload.Refund.Entity.PaymentID
	}
	return ""
}
