package entitlement

import (
	"testing"

	"github.com/YuvisTechPoint/FoundrVerse-sub000/internal/models"
	"github.com/YuvisTechPoint/FoundrVerse-sub000/pkg/types"

	"github.com/samber/lo"
	"github.com/stretchr/testify/require"
)

func rec(id string, status types.PaymentStatus, userID *string) *models.Payment {
	return &models.Payment{ID: id, OrderID: "order_" + id, Status: status, UserID: userID}
}

func TestReconcile_EntitledByUserLookup(t *testing.T) {
	res := Reconcile([]*models.Payment{rec("a", types.PaymentStatusPaid, lo.ToPtr("u1"))}, nil, "u1")
	require.True(t, res.Entitled)
	require.Len(t, res.Records, 1)
	require.Empty(t, res.Relink)
}

func TestReconcile_EmailOnlyRecordIsRelinked(t *testing.T) {
	byEmail := []*models.Payment{rec("a", types.PaymentStatusCaptured, nil)}
	res := Reconcile(nil, byEmail, "u1")
	require.True(t, res.Entitled)
	require.Len(t, res.Relink, 1)
	require.Equal(t, "a", res.Relink[0].ID)
}

func TestReconcile_StaleUserIDIsRelinked(t *testing.T) {
	byEmail := []*models.Payment{rec("a", types.PaymentStatusPaid, lo.ToPtr("old-user"))}
	res := Reconcile(nil, byEmail, "u1")
	require.Len(t, res.Relink, 1)
}

func TestReconcile_NoRelinkWithoutUserID(t *testing.T) {
	byEmail := []*models.Payment{rec("a", types.PaymentStatusPaid, nil)}
	res := Reconcile(nil, byEmail, "")
	require.Empty(t, res.Relink)
	require.True(t, res.Entitled)
}

func TestReconcile_UnionDeduplicatesByID(t *testing.T) {
	shared := rec("a", types.PaymentStatusPaid, lo.ToPtr("u1"))
	res := Reconcile([]*models.Payment{shared}, []*models.Payment{shared}, "u1")
	require.Len(t, res.Records, 1)
}

func TestReconcile_NotEntitledWithoutPaidLikeRecord(t *testing.T) {
	res := Reconcile([]*models.Payment{
		rec("a", types.PaymentStatusCreated, lo.ToPtr("u1")),
		rec("b", types.PaymentStatusFailed, lo.ToPtr("u1")),
		rec("c", types.PaymentStatusRefunded, lo.ToPtr("u1")),
	}, nil, "u1")
	require.False(t, res.Entitled)
	require.Len(t, res.Records, 3)
}

func TestReconcile_Empty(t *testing.T) {
	res := Reconcile(nil, nil, "u1")
	require.False(t, res.Entitled)
	require.Empty(t, res.Records)
	require.Empty(t, res.Relink)
}
