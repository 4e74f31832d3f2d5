package models

import "time"

// WebhookEvent is the idempotency ledger. ID is the dedup key: the gateway
// event envelope id when present, otherwise a synthesized
// "{event}_{payment-or-order-id}_{arrival-unix}" key.
type WebhookEvent struct {
	ID          string     `gorm:"column:id;primary_key;type:varchar(191)" json:"id"`
	Processed   bool       `gorm:"column:processed;not null;default:false" json:"processed"`
	ProcessedAt *time.Time `gorm:"column:processed_at;default:null" json:"processed_at"`
	CreatedAt   time.Time  `json:"created_at"`
}

func (WebhookEvent) TableName() string {
	return "webhook_event"
}
