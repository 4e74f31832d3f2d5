package payment

import (
	"context"
	"errors"
	"fmt"

	"github.com/YuvisTechPoint/FoundrVerse-sub000/internal/models"
	"github.com/YuvisTechPoint/FoundrVerse-sub000/pkg/logctx"
	"github.com/YuvisTechPoint/FoundrVerse-sub000/pkg/tool"
	"github.com/YuvisTechPoint/FoundrVerse-sub000/pkg/types"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ErrRefundExceedsAmount is returned when a processed refund would push the
// cumulative refunded total past the payment amount.
var ErrRefundExceedsAmount = errors.New("refund total exceeds payment amount")

// Service owns payment and refund rows. Every mutation runs in a transaction
// holding a row lock on the payment, so concurrent webhook deliveries cannot
// interleave a read-modify-write and drop each other's updates.
type Service struct {
	db  *gorm.DB
	log *zap.SugaredLogger
}

func New(db *gorm.DB, log *zap.SugaredLogger) *Service { return &Service{db: db, log: log} }

// GetByOrderID returns the payment for a checkout order, or nil when unknown.
func (s *Service) GetByOrderID(ctx context.Context, orderID string) (*models.Payment, error) {
	return s.getOne(ctx, "order_id = ?", orderID)
}

// GetByPaymentID returns the payment carrying the gateway payment id, or nil.
func (s *Service) GetByPaymentID(ctx context.Context, paymentID string) (*models.Payment, error) {
	return s.getOne(ctx, "payment_id = ?", paymentID)
}

func (s *Service) getOne(ctx context.Context, query string, arg string) (*models.Payment, error) {
	if arg == "" {
		return nil, nil
	}
	var row models.Payment
	err := s.db.WithContext(ctx).Preload("Refunds").Where(query, arg).First(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to load payment: %w", err)
	}
	return &row, nil
}

// ListByUserID returns all payments owned by the account, newest first.
func (s *Service) ListByUserID(ctx context.Context, userID string) ([]*models.Payment, error) {
	return s.list(ctx, "user_id = ?", userID)
}

// ListByEmail returns all payments linked by the email join key, newest first.
func (s *Service) ListByEmail(ctx context.Context, email string) ([]*models.Payment, error) {
	return s.list(ctx, "user_email = ?", email)
}

func (s *Service) list(ctx context.Context, query string, arg string) ([]*models.Payment, error) {
	if arg == "" {
		return nil, nil
	}
	var rows []*models.Payment
	err := s.db.WithContext(ctx).Preload("Refunds").Where(query, arg).
		Order("created_at desc").Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list payments: %w", err)
	}
	return rows, nil
}

// Create inserts a new payment record, assigning its id and defaulting the
// status to created.
func (s *Service) Create(ctx context.Context, p *models.Payment) (*models.Payment, error) {
	if p == nil || p.OrderID == "" {
		return nil, fmt.Errorf("payment requires an order id")
	}
	if p.ID == "" {
		p.ID = tool.GenerateUUIDV7()
	}
	if p.Status == "" {
		p.Status = types.PaymentStatusCreated
	}
	if err := s.db.WithContext(ctx).Create(p).Error; err != nil {
		return nil, fmt.Errorf("failed to create payment: %w", err)
	}
	return p, nil
}

// UpdateByOrderID applies a mutation to the payment for orderID under a row
// lock. Returns (nil, nil) when the order is unknown: webhook events for
// orders outside our visibility window are benign no-ops, never errors.
func (s *Service) UpdateByOrderID(ctx context.Context, orderID string, apply func(*models.Payment) error) (*models.Payment, error) {
	var updated *models.Payment
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var row models.Payment
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("order_id = ?", orderID).First(&row).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil
			}
			return fmt.Errorf("failed to lock payment: %w", err)
		}
		if err := apply(&row); err != nil {
			return err
		}
		if err := tx.Save(&row).Error; err != nil {
			return fmt.Errorf("failed to update payment: %w", err)
		}
		updated = &row
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// Transition moves the record to next if that is a forward move, copying any
// extra mutation from apply. Backward or repeated transitions are logged and
// ignored; gateway deliveries can arrive out of order and must not rewind a
// settled record.
func (s *Service) Transition(ctx context.Context, orderID string, next types.PaymentStatus, apply func(*models.Payment)) (*models.Payment, error) {
	return s.UpdateByOrderID(ctx, orderID, func(row *models.Payment) error {
		if !row.Status.CanTransition(next) {
			logctx.FromCtx(ctx, s.log).Infow("payment_transition_ignored",
				"order_id", orderID, "status", row.Status, "next", next)
			return nil
		}
		row.Status = next
		if apply != nil {
			apply(row)
		}
		return nil
	})
}

// AppendRefund records a gateway refund against the payment carrying
// paymentID and recomputes the payment status from the cumulative processed
// total. Returns (nil, nil) when the payment is unknown. A refund id already
// on file updates that row's status instead of appending a duplicate.
func (s *Service) AppendRefund(ctx context.Context, paymentID string, refund *models.Refund) (*models.Payment, error) {
	if refund == nil || refund.RefundID == "" {
		return nil, fmt.Errorf("refund requires a gateway refund id")
	}
	var updated *models.Payment
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var row models.Payment
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("payment_id = ?", paymentID).First(&row).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil
			}
			return fmt.Errorf("failed to lock payment: %w", err)
		}
		if err := tx.Where("payment_record_id = ?", row.ID).Find(&row.Refunds).Error; err != nil {
			return fmt.Errorf("failed to load refunds: %w", err)
		}

		existing := findRefund(row.Refunds, refund.RefundID)
		if existing != nil {
			// Out-of-order deliveries must not rewind a processed refund.
			if existing.Status.CanTransition(refund.Status) {
				existing.Status = refund.Status
			}
			if refund.Reason != nil {
				existing.Reason = refund.Reason
			}
			if err := tx.Save(existing).Error; err != nil {
				return fmt.Errorf("failed to update refund: %w", err)
			}
		} else {
			if refund.Status == types.RefundStatusProcessed &&
				row.ProcessedRefundTotal()+refund.Amount > row.Amount {
				return ErrRefundExceedsAmount
			}
			refund.ID = tool.GenerateUUIDV7()
			refund.PaymentRecordID = row.ID
			refund.PaymentID = paymentID
			if err := tx.Create(refund).Error; err != nil {
				return fmt.Errorf("failed to append refund: %w", err)
			}
			row.Refunds = append(row.Refunds, refund)
		}

		next := RecomputeRefundStatus(row.Amount, row.Status, row.Refunds)
		if next != row.Status {
			row.Status = next
			if err := tx.Save(&row).Error; err != nil {
				return fmt.Errorf("failed to update payment status: %w", err)
			}
		}
		updated = &row
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// RelinkUser rewrites the owning user id of a record found by email whose
// user id is missing or points at a stale account. Idempotent repair of the
// email join key.
func (s *Service) RelinkUser(ctx context.Context, recordID string, userID string) error {
	if recordID == "" || userID == "" {
		return fmt.Errorf("record id and user id required")
	}
	err := s.db.WithContext(ctx).Model(&models.Payment{}).
		Where("id = ?", recordID).Update("user_id", userID).Error
	if err != nil {
		return fmt.Errorf("failed to relink payment owner: %w", err)
	}
	return nil
}

func findRefund(refunds []*models.Refund, refundID string) *models.Refund {
	for _, r := range refunds {
		if r != nil && r.RefundID == refundID {
			return r
		}
	}
	return nil
}

// RecomputeRefundStatus derives the payment status from the processed refund
// total: refunded once the total covers the full amount, partially_refunded
// for anything above zero, otherwise the current status stands.
func RecomputeRefundStatus(amount int64, current types.PaymentStatus, refunds []*models.Refund) types.PaymentStatus {
	var total int64
	for _, r := range refunds {
		if r != nil && r.Status == types.RefundStatusProcessed {
			total += r.Amount
		}
	}
	switch {
	case amount > 0 && total >= amount:
		return types.PaymentStatusRefunded
	case total > 0:
		return types.PaymentStatusPartiallyRefunded
	default:
		return current
	}
}
