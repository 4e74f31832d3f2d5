package models

import (
	"time"

	"gorm.io/datatypes"
)

type WebhookEventLogStatus string

const (
	WebhookEventLogStatusReceived     WebhookEventLogStatus = "received"
	WebhookEventLogStatusHandled      WebhookEventLogStatus = "handled"
	WebhookEventLogStatusDuplicate    WebhookEventLogStatus = "duplicate"
	WebhookEventLogStatusHandleFailed WebhookEventLogStatus = "handle_failed"
)

// WebhookEventLog is the audit trail for inbound gateway deliveries. Because
// the webhook endpoint acknowledges even when processing fails, handle_failed
// rows are the durable dead-letter record operators reconcile from.
type WebhookEventLog struct {
	ID        string                `gorm:"column:id;type:uuid;primary_key" json:"id"`
	EventID   string                `gorm:"column:event_id;type:varchar(191);not null;index" json:"event_id"`
	EventType string                `gorm:"column:event_type;type:varchar(64);not null" json:"event_type"`
	TraceID   string                `gorm:"column:trace_id;type:varchar(128)" json:"trace_id"`
	OrderID   string                `gorm:"column:order_id;type:varchar(64);index" json:"order_id"`
	PaymentID string                `gorm:"column:payment_id;type:varchar(64);index" json:"payment_id"`
	Payload   datatypes.JSON        `gorm:"column:payload;type:jsonb" json:"payload"`
	Result    *datatypes.JSON       `gorm:"column:result;type:jsonb" json:"result"`
	Status    WebhookEventLogStatus `gorm:"column:status;type:varchar(32);not null;index" json:"status"`
	CreatedAt time.Time             `json:"created_at"`
	UpdatedAt time.Time             `json:"updated_at"`
}

func (WebhookEventLog) TableName() string {
	return "webhook_event_log"
}
