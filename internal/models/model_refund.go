package models

import (
	"time"

	"github.com/YuvisTechPoint/FoundrVerse-sub000/pkg/types"
)

// Refund is one gateway refund against a payment. The invariant that
// processed refunds never exceed the parent amount is enforced by the
// payment service before a row is written.
type Refund struct {
	ID string `gorm:"column:id;primary_key;type:uuid" json:"id"`
	// PaymentRecordID links to payment.id (the row, not the gateway payment id).
	PaymentRecordID string `gorm:"column:payment_record_id;type:uuid;not null;index" json:"payment_record_id"`
	// RefundID is the gateway-assigned refund identifier.
	RefundID string `gorm:"column:refund_id;type:varchar(64);not null;uniqueIndex:unique_refund_id" json:"refund_id"`
	// PaymentID is the gateway payment identifier the refund applies to.
	PaymentID string             `gorm:"column:payment_id;type:varchar(64);not null;index" json:"payment_id"`
	Amount    int64              `gorm:"column:amount;type:bigint;not null" json:"amount"`
	Status    types.RefundStatus `gorm:"column:status;type:varchar(32);not null" json:"status"`
	Reason    *string            `gorm:"column:reason;type:varchar(255)" json:"reason"`
	CreatedAt time.Time          `json:"created_at"`
}

func (Refund) TableName() string {
	return "refund"
}
