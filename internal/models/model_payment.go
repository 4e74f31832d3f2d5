package models

import (
	"time"

	"github.com/YuvisTechPoint/FoundrVerse-sub000/pkg/types"
	"gorm.io/datatypes"
)

// Payment is the per-order payment record. One row per checkout order;
// refunds are appended as child rows, never as new payments.
type Payment struct {
	ID      string `gorm:"column:id;primary_key;type:uuid" json:"id"`
	OrderID string `gorm:"column:order_id;type:varchar(64);not null;uniqueIndex:unique_order_id" json:"order_id"`
	// PaymentID is assigned by the gateway once a payment attempt is made
	// against the order; unique when present.
	PaymentID *string `gorm:"column:payment_id;type:varchar(64);uniqueIndex:unique_payment_id" json:"payment_id"`
	// Amount is in minor currency units (paise for INR), as delivered by the gateway.
	Amount    int64               `gorm:"column:amount;type:bigint;not null" json:"amount"`
	Currency  string              `gorm:"column:currency;type:varchar(8);not null" json:"currency"`
	Status    types.PaymentStatus `gorm:"column:status;type:varchar(32);not null;index" json:"status"`
	UserID    *string             `gorm:"column:user_id;type:varchar(64);index" json:"user_id"`
	UserEmail *string             `gorm:"column:user_email;type:varchar(255);index" json:"user_email"`
	Method    *string             `gorm:"column:method;type:varchar(32)" json:"method"`
	// Notes carries gateway metadata passthrough (course id, cohort, ...).
	Notes     datatypes.JSONMap `gorm:"column:notes;type:jsonb;default:'{}'" json:"notes"`
	Refunds   []*Refund         `gorm:"foreignKey:PaymentRecordID" json:"refunds"`
	PaidAt    *time.Time        `gorm:"column:paid_at;default:null" json:"paid_at"`
	CreatedAt time.Time         `json:"created_at"`
	UpdatedAt time.Time         `json:"updated_at"`
}

func (Payment) TableName() string {
	return "payment"
}

// ProcessedRefundTotal sums the amounts of refunds the gateway has settled.
func (p *Payment) ProcessedRefundTotal() int64 {
	if p == nil {
		return 0
	}
	var total int64
	for _, r := range p.Refunds {
		if r != nil && r.Status == types.RefundStatusProcessed {
			total += r.Amount
		}
	}
	return total
}

// Entitled reports whether this record grants dashboard access.
func (p *Payment) Entitled() bool {
	return p != nil && p.Status.Entitles()
}
