package webhook

import (
	"context"
	"testing"
	"time"

	"github.com/YuvisTechPoint/FoundrVerse-sub000/internal/models"
	"github.com/YuvisTechPoint/FoundrVerse-sub000/pkg/types"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeStore struct {
	transitions   []string
	transitionRow *models.Payment
	created       []*models.Payment
	refunds       []*models.Refund
	refundRow     *models.Payment
}

func (f *fakeStore) Create(_ context.Context, p *models.Payment) (*models.Payment, error) {
	f.created = append(f.created, p)
	return p, nil
}

func (f *fakeStore) Transition(_ context.Context, orderID string, next types.PaymentStatus, apply func(*models.Payment)) (*models.Payment, error) {
	f.transitions = append(f.transitions, orderID+":"+string(next))
	if f.transitionRow != nil && apply != nil {
		apply(f.transitionRow)
	}
	return f.transitionRow, nil
}

func (f *fakeStore) AppendRefund(_ context.Context, _ string, refund *models.Refund) (*models.Payment, error) {
	f.refunds = append(f.refunds, refund)
	return f.refundRow, nil
}

type fakeLedger struct {
	processed bool
	checkErr  error
	marked    []string
}

func (f *fakeLedger) IsProcessed(_ context.Context, _ string) (bool, error) {
	return f.processed, f.checkErr
}

func (f *fakeLedger) MarkProcessed(_ context.Context, eventID string) error {
	f.marked = append(f.marked, eventID)
	return nil
}

type fakeAudit struct {
	rows []*models.WebhookEventLog
}

func (f *fakeAudit) Save(_ context.Context, row *models.WebhookEventLog) {
	f.rows = append(f.rows, row)
}

func (f *fakeAudit) statuses() []models.WebhookEventLogStatus {
	out := make([]models.WebhookEventLogStatus, 0, len(f.rows))
	for _, r := range f.rows {
		out = append(out, r.Status)
	}
	return out
}

func testProcessor(store *fakeStore, ledger *fakeLedger, audit *fakeAudit) *Processor {
	return &Processor{payments: store, ledger: ledger, audit: audit, Logger: zap.NewNop().Sugar()}
}

func capturedBody(t *testing.T, eventID string) []byte {
	t.Helper()
	return []byte(`{
		"id": "` + eventID + `",
		"event": "payment.captured",
		"payload": {"payment": {"entity": {"id": "pay_abc", "order_id": "order_xyz", "amount": 149900, "status": "captured"}}}
	}`)
}

func TestProcess_DuplicateDeliveryAckedWithoutDispatch(t *testing.T) {
	store := &fakeStore{}
	ledger := &fakeLedger{processed: true}
	audit := &fakeAudit{}
	p := testProcessor(store, ledger, audit)

	res := p.Process(context.Background(), capturedBody(t, "evt_dup"), "trace-1")

	require.True(t, res.Duplicate)
	require.NoError(t, res.Err)
	require.Equal(t, "evt_dup", res.EventID)
	require.Empty(t, store.transitions)
	require.Empty(t, store.created)
	require.Empty(t, ledger.marked)
	require.Equal(t, []models.WebhookEventLogStatus{
		models.WebhookEventLogStatusReceived,
		models.WebhookEventLogStatusDuplicate,
	}, audit.statuses())
}

func TestProcess_UnknownOrderCapturedIsBenignNoOp(t *testing.T) {
	store := &fakeStore{transitionRow: nil}
	ledger := &fakeLedger{}
	audit := &fakeAudit{}
	p := testProcessor(store, ledger, audit)

	res := p.Process(context.Background(), capturedBody(t, "evt_unknown"), "trace-1")

	require.NoError(t, res.Err)
	require.False(t, res.Duplicate)
	require.Equal(t, []string{"order_xyz:captured"}, store.transitions)
	require.Empty(t, store.created)
	require.Equal(t, []string{"evt_unknown"}, ledger.marked)
	require.Equal(t, []models.WebhookEventLogStatus{
		models.WebhookEventLogStatusReceived,
		models.WebhookEventLogStatusHandled,
	}, audit.statuses())
}

func TestProcess_CapturedWithoutTimestampUsesArrivalTime(t *testing.T) {
	row := &models.Payment{OrderID: "order_xyz", Status: types.PaymentStatusAuthorized}
	store := &fakeStore{transitionRow: row}
	p := testProcessor(store, &fakeLedger{}, &fakeAudit{})

	before := time.Now()
	res := p.Process(context.Background(), capturedBody(t, "evt_ts"), "trace-1")

	require.NoError(t, res.Err)
	require.NotNil(t, row.PaidAt)
	require.False(t, row.PaidAt.Before(before))
}

func TestProcess_CapturedWithTimestampKeepsIt(t *testing.T) {
	row := &models.Payment{OrderID: "order_xyz", Status: types.PaymentStatusAuthorized}
	store := &fakeStore{transitionRow: row}
	p := testProcessor(store, &fakeLedger{}, &fakeAudit{})

	body := []byte(`{
		"id": "evt_ts2",
		"event": "payment.captured",
		"payload": {"payment": {"entity": {"id": "pay_abc", "order_id": "order_xyz", "created_at": 1700000000}}}
	}`)
	res := p.Process(context.Background(), body, "trace-1")

	require.NoError(t, res.Err)
	require.NotNil(t, row.PaidAt)
	require.Equal(t, time.Unix(1700000000, 0), *row.PaidAt)
}

func TestProcess_HandlerFailureStillMarksLedgerAndDeadLetters(t *testing.T) {
	ledger := &fakeLedger{}
	audit := &fakeAudit{}
	p := testProcessor(&fakeStore{}, ledger, audit)

	// captured event with no payment entity fails dispatch
	body := []byte(`{"id": "evt_bad", "event": "payment.captured", "payload": {}}`)
	res := p.Process(context.Background(), body, "trace-1")

	require.Error(t, res.Err)
	require.Equal(t, []string{"evt_bad"}, ledger.marked)
	require.Equal(t, []models.WebhookEventLogStatus{
		models.WebhookEventLogStatusReceived,
		models.WebhookEventLogStatusHandleFailed,
	}, audit.statuses())
}

func TestProcess_LedgerCheckFailureProcessesAnyway(t *testing.T) {
	row := &models.Payment{OrderID: "order_xyz", Status: types.PaymentStatusAuthorized}
	store := &fakeStore{transitionRow: row}
	ledger := &fakeLedger{checkErr: context.DeadlineExceeded}
	p := testProcessor(store, ledger, &fakeAudit{})

	res := p.Process(context.Background(), capturedBody(t, "evt_ledger_down"), "trace-1")

	require.NoError(t, res.Err)
	require.False(t, res.Duplicate)
	require.Equal(t, []string{"order_xyz:captured"}, store.transitions)
	require.Equal(t, []string{"evt_ledger_down"}, ledger.marked)
}
