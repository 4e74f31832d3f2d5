package webhook

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/YuvisTechPoint/FoundrVerse-sub000/internal/app/service/eventlog"
	"github.com/YuvisTechPoint/FoundrVerse-sub000/internal/app/service/ledger"
	paymentsvc "github.com/YuvisTechPoint/FoundrVerse-sub000/internal/app/service/payment"
	"github.com/YuvisTechPoint/FoundrVerse-sub000/internal/models"
	"github.com/YuvisTechPoint/FoundrVerse-sub000/pkg/logctx"
	"github.com/YuvisTechPoint/FoundrVerse-sub000/pkg/types"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/samber/lo"
	"go.uber.org/zap"
	"gorm.io/datatypes"
)

var eventsTotal = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "webhook_events_total",
		Help: "Gateway webhook deliveries partitioned by event type and outcome.",
	},
	[]string{"event", "result"},
)

func init() {
	prometheus.MustRegister(eventsTotal)
}

// Result summarizes one webhook delivery after processing.
type Result struct {
	EventID   string `json:"event_id"`
	EventType string `json:"event_type"`
	Duplicate bool   `json:"duplicate,omitempty"`
	// Err is the swallowed processing error, surfaced to the operator in the
	// acknowledgment payload and the dead-letter log but never as an HTTP
	// failure: a non-2xx answer would put the gateway into a redelivery storm.
	Err error `json:"-"`
}

// paymentStore is the slice of the payment service the dispatcher needs.
type paymentStore interface {
	Create(ctx context.Context, p *models.Payment) (*models.Payment, error)
	Transition(ctx context.Context, orderID string, next types.PaymentStatus, apply func(*models.Payment)) (*models.Payment, error)
	AppendRefund(ctx context.Context, paymentID string, refund *models.Refund) (*models.Payment, error)
}

type eventLedger interface {
	IsProcessed(ctx context.Context, eventID string) (bool, error)
	MarkProcessed(ctx context.Context, eventID string) error
}

type auditLog interface {
	Save(ctx context.Context, row *models.WebhookEventLog)
}

// Processor runs a verified delivery through the idempotency ledger, the
// event dispatch table, and the audit log.
type Processor struct {
	payments paymentStore
	ledger   eventLedger
	audit    auditLog
	Logger   *zap.SugaredLogger
}

func NewProcessor(payments *paymentsvc.Service, ledger *ledger.Service, audit *eventlog.Service, log *zap.SugaredLogger) *Processor {
	return &Processor{payments: payments, ledger: ledger, audit: audit, Logger: log}
}

// Process handles one raw, signature-verified delivery. The returned Result
// always describes a completed exchange: any internal failure is recorded and
// swallowed so the caller can acknowledge.
func (p *Processor) Process(ctx context.Context, raw []byte, traceID string) *Result {
	log := logctx.FromCtx(ctx, p.Logger)

	env, err := ParseEnvelope(raw)
	if err != nil {
		log.Errorw("webhook_parse_error", "error", err.Error())
		eventsTotal.WithLabelValues("unparseable", "failed").Inc()
		p.audit.Save(ctx, &models.WebhookEventLog{
			EventID:   "unparseable_" + time.Now().Format(time.RFC3339Nano),
			EventType: "unparseable",
			TraceID:   traceID,
			Payload:   datatypes.JSON(raw),
			Status:    models.WebhookEventLogStatusHandleFailed,
			Result:    resultJSON(nil, err),
		})
		return &Result{EventType: "unparseable", Err: err}
	}

	eventID := env.EventKey(time.Now())
	res := &Result{EventID: eventID, EventType: string(env.Event)}

	p.audit.Save(ctx, &models.WebhookEventLog{
		EventID:   eventID,
		EventType: string(env.Event),
		TraceID:   traceID,
		OrderID:   env.OrderID(),
		PaymentID: env.PaymentID(),
		Payload:   datatypes.JSON(raw),
		Status:    models.WebhookEventLogStatusReceived,
	})

	processed, err := p.ledger.IsProcessed(ctx, eventID)
	if err != nil {
		// Ledger unavailable: process anyway rather than drop the event; a
		// duplicate transition is guarded by the state machine.
		log.Errorw("webhook_ledger_check_error", "event_id", eventID, "error", err.Error())
	}
	if processed {
		log.Infow("webhook_duplicate_delivery", "event_id", eventID, "event", env.Event)
		eventsTotal.WithLabelValues(string(env.Event), "duplicate").Inc()
		res.Duplicate = true
		p.audit.Save(ctx, &models.WebhookEventLog{
			EventID:   eventID,
			EventType: string(env.Event),
			TraceID:   traceID,
			OrderID:   env.OrderID(),
			PaymentID: env.PaymentID(),
			Payload:   datatypes.JSON(raw),
			Status:    models.WebhookEventLogStatusDuplicate,
		})
		return res
	}

	payment, dispatchErr := p.dispatch(ctx, env)

	// The ledger commit happens whether or not the handler succeeded: gateway
	// redelivery of a failing event would loop forever, and the dead-letter
	// log already carries the failure for manual reconciliation.
	if err := p.ledger.MarkProcessed(ctx, eventID); err != nil {
		log.Errorw("webhook_ledger_mark_error", "event_id", eventID, "error", err.Error())
	}

	status := models.WebhookEventLogStatusHandled
	outcome := "handled"
	if dispatchErr != nil {
		log.Errorw("webhook_handle_error", "event_id", eventID, "event", env.Event,
			"order_id", env.OrderID(), "payment_id", env.PaymentID(), "error", dispatchErr.Error())
		status = models.WebhookEventLogStatusHandleFailed
		outcome = "failed"
		res.Err = dispatchErr
	}
	eventsTotal.WithLabelValues(string(env.Event), outcome).Inc()

	p.audit.Save(ctx, &models.WebhookEventLog{
		EventID:   eventID,
		EventType: string(env.Event),
		TraceID:   traceID,
		OrderID:   env.OrderID(),
		PaymentID: env.PaymentID(),
		Payload:   datatypes.JSON(raw),
		Result:    resultJSON(payment, dispatchErr),
		Status:    status,
	})
	return res
}

// dispatch routes the event to its status transition. Unknown orders and
// payments are logged no-ops: events can reference orders created outside
// this system's visibility window.
func (p *Processor) dispatch(ctx context.Context, env *Envelope) (*models.Payment, error) {
	log := logctx.FromCtx(ctx, p.Logger)

	switch env.Event {
	case types.EventPaymentAuthorized:
		return p.handleAuthorized(ctx, env)

	case types.EventPaymentCaptured:
		ent, err := paymentEntity(env)
		if err != nil {
			return nil, err
		}
		row, err := p.payments.Transition(ctx, ent.OrderID, types.PaymentStatusCaptured, func(row *models.Payment) {
			if row.PaymentID == nil && ent.ID != "" {
				row.PaymentID = lo.ToPtr(ent.ID)
			}
			// Some deliveries omit the capture timestamp.
			if ent.CreatedAt > 0 {
				row.PaidAt = lo.ToPtr(time.Unix(ent.CreatedAt, 0))
			} else {
				row.PaidAt = lo.ToPtr(time.Now())
			}
		})
		if err == nil && row == nil {
			log.Warnw("webhook_unknown_order", "event", env.Event, "order_id", ent.OrderID)
		}
		return row, err

	case types.EventPaymentFailed:
		ent, err := paymentEntity(env)
		if err != nil {
			return nil, err
		}
		row, err := p.payments.Transition(ctx, ent.OrderID, types.PaymentStatusFailed, nil)
		if err == nil && row == nil {
			log.Warnw("webhook_unknown_order", "event", env.Event, "order_id", ent.OrderID)
		}
		return row, err

	case types.EventOrderPaid:
		orderID := env.OrderID()
		if orderID == "" {
			return nil, fmt.Errorf("order.paid event missing order id")
		}
		row, err := p.payments.Transition(ctx, orderID, types.PaymentStatusPaid, func(row *models.Payment) {
			row.PaidAt = lo.ToPtr(time.Now())
		})
		if err == nil && row == nil {
			log.Warnw("webhook_unknown_order", "event", env.Event, "order_id", orderID)
		}
		return row, err

	case types.EventRefundCreated, types.EventRefundProcessed:
		return p.handleRefund(ctx, env)

	default:
		// Forward compatibility: new gateway event types must not fail the request.
		log.Infow("webhook_unhandled_event", "event", env.Event)
		return nil, nil
	}
}

// handleAuthorized updates the order's record, creating it when the eager
// checkout create was skipped and the webhook is the first sighting.
func (p *Processor) handleAuthorized(ctx context.Context, env *Envelope) (*models.Payment, error) {
	ent, err := paymentEntity(env)
	if err != nil {
		return nil, err
	}
	if ent.OrderID == "" {
		return nil, fmt.Errorf("payment.authorized event missing order id")
	}

	row, err := p.payments.Transition(ctx, ent.OrderID, types.PaymentStatusAuthorized, func(row *models.Payment) {
		row.PaymentID = lo.ToPtr(ent.ID)
		if ent.Method != "" {
			row.Method = lo.ToPtr(ent.Method)
		}
		if row.UserEmail == nil && ent.Email != "" {
			row.UserEmail = lo.ToPtr(ent.Email)
		}
		mergeNotes(row, ent.Notes)
	})
	if err != nil || row != nil {
		return row, err
	}

	created := &models.Payment{
		OrderID:   ent.OrderID,
		PaymentID: lo.ToPtr(ent.ID),
		Amount:    ent.Amount,
		Currency:  ent.Currency,
		Status:    types.PaymentStatusAuthorized,
		Method:    lo.EmptyableToPtr(ent.Method),
		UserEmail: lo.EmptyableToPtr(ent.Email),
		Notes:     datatypes.JSONMap(ent.Notes),
	}
	return p.payments.Create(ctx, created)
}

func (p *Processor) handleRefund(ctx context.Context, env *Envelope) (*models.Payment, error) {
	if env.Payload.Refund == nil {
		return nil, fmt.Errorf("%s event missing refund entity", env.Event)
	}
	ent := env.Payload.Refund.Entity
	if ent.PaymentID == "" {
		return nil, fmt.Errorf("%s event missing payment id", env.Event)
	}

	status := types.RefundStatusPending
	if env.Event == types.EventRefundProcessed || ent.Status == string(types.RefundStatusProcessed) {
		status = types.RefundStatusProcessed
	}

	var reason *string
	if v, ok := ent.Notes["reason"].(string); ok && v != "" {
		reason = lo.ToPtr(v)
	}

	row, err := p.payments.AppendRefund(ctx, ent.PaymentID, &models.Refund{
		RefundID: ent.ID,
		Amount:   ent.Amount,
		Status:   status,
		Reason:   reason,
	})
	if err == nil && row == nil {
		logctx.FromCtx(ctx, p.Logger).Warnw("webhook_unknown_payment", "event", env.Event, "payment_id", ent.PaymentID)
	}
	return row, err
}

func paymentEntity(env *Envelope) (*PaymentEntity, error) {
	if env.Payload.Payment == nil {
		return nil, fmt.Errorf("%s event missing payment entity", env.Event)
	}
	return &env.Payload.Payment.Entity, nil
}

func mergeNotes(row *models.Payment, notes map[string]any) {
	if len(notes) == 0 {
		return
	}
	if row.Notes == nil {
		row.Notes = datatypes.JSONMap{}
	}
	for k, v := range notes {
		row.Notes[k] = v
	}
}

func resultJSON(payment *models.Payment, err error) *datatypes.JSON {
	resMap := map[string]any{
		"payment": payment,
	}
	if err != nil {
		resMap["error"] = err.Error()
	}
	resBytes, _ := json.Marshal(resMap)
	j := datatypes.JSON(resBytes)
	return &j
}
