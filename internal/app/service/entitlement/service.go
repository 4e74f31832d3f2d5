package entitlement

import (
	"context"
	"fmt"

	paymentsvc "github.com/YuvisTechPoint/FoundrVerse-sub000/internal/app/service/payment"
	"github.com/YuvisTechPoint/FoundrVerse-sub000/internal/models"
	"github.com/YuvisTechPoint/FoundrVerse-sub000/pkg/logctx"

	"github.com/samber/lo"
	"go.uber.org/zap"
)

// Service derives "has this account paid" for the dashboard. Payments can be
// linked by user id or only by email (purchases made before the account
// existed, or from a different sign-in); the pass unions both lookups and
// repairs the missing user linkage while it is at it.
type Service struct {
	payments *paymentsvc.Service
	log      *zap.SugaredLogger
}

func New(payments *paymentsvc.Service, log *zap.SugaredLogger) *Service {
	return &Service{payments: payments, log: log}
}

// HasEntitlement computes the entitlement fresh from the store. Re-linking is
// a side effect: records found by email whose user_id is absent or stale are
// rewritten to the current account, so the next load finds them by user id
// directly. Only linkage is repaired; status is never touched here.
func (s *Service) HasEntitlement(ctx context.Context, userID string, email string) (bool, error) {
	if userID == "" && email == "" {
		return false, fmt.Errorf("user id or email required")
	}

	byUser, err := s.payments.ListByUserID(ctx, userID)
	if err != nil {
		return false, fmt.Errorf("failed to list payments by user: %w", err)
	}
	byEmail, err := s.payments.ListByEmail(ctx, email)
	if err != nil {
		return false, fmt.Errorf("failed to list payments by email: %w", err)
	}

	union := Reconcile(byUser, byEmail, userID)

	for _, rec := range union.Relink {
		if err := s.payments.RelinkUser(ctx, rec.ID, userID); err != nil {
			// Repair failure does not block entitlement; the next load retries.
			logctx.FromCtx(ctx, s.log).Errorw("entitlement_relink_failed",
				"record_id", rec.ID, "user_id", userID, "error", err.Error())
			continue
		}
		logctx.FromCtx(ctx, s.log).Infow("entitlement_relinked",
			"record_id", rec.ID, "order_id", rec.OrderID, "user_id", userID)
	}

	return union.Entitled, nil
}

// ReconcileResult is the outcome of unioning the two lookups.
type ReconcileResult struct {
	// Records is the union of both lookups, deduplicated by record id.
	Records []*models.Payment
	// Relink holds email-matched records whose user_id must be rewritten.
	Relink []*models.Payment
	// Entitled is true when any record in the union is in a paid-like state.
	Entitled bool
}

// Reconcile unions the user-id and email lookups and decides entitlement.
// Pure: the caller performs the relink writes.
func Reconcile(byUser []*models.Payment, byEmail []*models.Payment, userID string) *ReconcileResult {
	res := &ReconcileResult{}

	for _, rec := range byEmail {
		if rec == nil {
			continue
		}
		if userID != "" && (rec.UserID == nil || *rec.UserID != userID) {
			res.Relink = append(res.Relink, rec)
		}
	}

	res.Records = lo.UniqBy(append(append([]*models.Payment{}, byUser...), byEmail...),
		func(p *models.Payment) string {
			if p == nil {
				return ""
			}
			return p.ID
		})

	for _, rec := range res.Records {
		if rec.Entitled() {
			res.Entitled = true
			break
		}
	}
	return res
}
