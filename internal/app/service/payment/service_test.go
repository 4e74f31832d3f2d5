package payment

import (
	"testing"

	"github.com/YuvisTechPoint/FoundrVerse-sub000/internal/models"
	"github.com/YuvisTechPoint/FoundrVerse-sub000/pkg/types"

	"github.com/stretchr/testify/require"
)

func refund(amount int64, status types.RefundStatus) *models.Refund {
	return &models.Refund{RefundID: "rfnd_x", Amount: amount, Status: status}
}

func TestRecomputeRefundStatus_FullRefund(t *testing.T) {
	got := RecomputeRefundStatus(149900, types.PaymentStatusCaptured, []*models.Refund{
		refund(149900, types.RefundStatusProcessed),
	})
	require.Equal(t, types.PaymentStatusRefunded, got)
}

func TestRecomputeRefundStatus_PartialRefund(t *testing.T) {
	got := RecomputeRefundStatus(149900, types.PaymentStatusPaid, []*models.Refund{
		refund(50000, types.RefundStatusProcessed),
	})
	require.Equal(t, types.PaymentStatusPartiallyRefunded, got)
}

func TestRecomputeRefundStatus_PartialsSumToFull(t *testing.T) {
	got := RecomputeRefundStatus(100000, types.PaymentStatusPaid, []*models.Refund{
		refund(60000, types.RefundStatusProcessed),
		refund(40000, types.RefundStatusProcessed),
	})
	require.Equal(t, types.PaymentStatusRefunded, got)
}

func TestRecomputeRefundStatus_PendingRefundsDoNotCount(t *testing.T) {
	got := RecomputeRefundStatus(100000, types.PaymentStatusCaptured, []*models.Refund{
		refund(100000, types.RefundStatusPending),
		refund(30000, types.RefundStatusFailed),
	})
	require.Equal(t, types.PaymentStatusCaptured, got)
}

func TestRecomputeRefundStatus_NoRefundsKeepsCurrent(t *testing.T) {
	got := RecomputeRefundStatus(100000, types.PaymentStatusAuthorized, nil)
	require.Equal(t, types.PaymentStatusAuthorized, got)

	got = RecomputeRefundStatus(100000, types.PaymentStatusPaid, []*models.Refund{nil})
	require.Equal(t, types.PaymentStatusPaid, got)
}

func TestRecomputeRefundStatus_ZeroAmountNeverFullyRefunded(t *testing.T) {
	got := RecomputeRefundStatus(0, types.PaymentStatusCreated, []*models.Refund{
		refund(100, types.RefundStatusProcessed),
	})
	require.Equal(t, types.PaymentStatusPartiallyRefunded, got)
}
