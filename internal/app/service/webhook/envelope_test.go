package webhook

import (
	"testing"
	"time"

	"github.com/YuvisTechPoint/FoundrVerse-sub000/pkg/types"

	"github.com/stretchr/testify/require"
)

func TestParseEnvelope_PaymentCaptured(t *testing.T) {
	raw := []byte(`{
		"id": "evt_001",
		"event": "payment.captured",
		"created_at": 1700000000,
		"payload": {
			"payment": {
				"entity": {
					"id": "pay_abc",
					"order_id": "order_xyz",
					"amount": 149900,
					"currency": "INR",
					"status": "captured",
					"method": "upi",
					"email": "buyer@example.com",
					"notes": {"course": "launchpad"}
				}
			}
		}
	}`)

	env, err := ParseEnvelope(raw)
	require.NoError(t, err)
	require.Equal(t, "evt_001", env.ID)
	require.Equal(t, types.EventPaymentCaptured, env.Event)
	require.NotNil(t, env.Payload.Payment)
	require.Equal(t, "pay_abc", env.Payload.Payment.Entity.ID)
	require.Equal(t, "order_xyz", env.Payload.Payment.Entity.OrderID)
	require.Equal(t, int64(149900), env.Payload.Payment.Entity.Amount)
	require.Equal(t, "upi", env.Payload.Payment.Entity.Method)
}

func TestParseEnvelope_Errors(t *testing.T) {
	_, err := ParseEnvelope([]byte(`{not json`))
	require.Error(t, err)

	_, err = ParseEnvelope([]byte(`{"payload":{}}`))
	require.Error(t, err)
}

func TestEventKey_PrefersEnvelopeID(t *testing.T) {
	env := &Envelope{ID: "evt_42", Event: types.EventPaymentAuthorized}
	require.Equal(t, "evt_42", env.EventKey(time.Unix(1700000000, 0)))
}

func TestEventKey_SynthesizedWithoutID(t *testing.T) {
	env := &Envelope{
		Event: types.EventPaymentAuthorized,
		Payload: EnvelopePayload{
			Payment: &EntityWrapper[PaymentEntity]{Entity: PaymentEntity{ID: "pay_abc"}},
		},
	}
	arrival := time.Unix(1700000000, 0)
	require.Equal(t, "payment.authorized_pay_abc_1700000000", env.EventKey(arrival))

	// A redelivery at a later time gets a different key.
	require.NotEqual(t, env.EventKey(arrival), env.EventKey(arrival.Add(time.Second)))
}

func TestEventKey_SubjectFallsBackToOrderThenUnknown(t *testing.T) {
	env := &Envelope{
		Event: types.EventOrderPaid,
		Payload: EnvelopePayload{
			Order: &EntityWrapper[OrderEntity]{Entity: OrderEntity{ID: "order_xyz"}},
		},
	}
	require.Equal(t, "order.paid_order_xyz_1", env.EventKey(time.Unix(1, 0)))

	empty := &Envelope{Event: types.EventOrderPaid}
	require.Equal(t, "order.paid_unknown_1", empty.EventKey(time.Unix(1, 0)))
}

func TestEnvelope_OrderAndPaymentIDExtraction(t *testing.T) {
	payment := &Envelope{
		Event: types.EventPaymentCaptured,
		Payload: EnvelopePayload{
			Payment: &EntityWrapper[PaymentEntity]{Entity: PaymentEntity{ID: "pay_abc", OrderID: "order_xyz"}},
		},
	}
	require.Equal(t, "order_xyz", payment.OrderID())
	require.Equal(t, "pay_abc", payment.PaymentID())

	order := &Envelope{
		Event: types.EventOrderPaid,
		Payload: EnvelopePayload{
			Order: &EntityWrapper[OrderEntity]{Entity: OrderEntity{ID: "order_xyz"}},
		},
	}
	require.Equal(t, "order_xyz", order.OrderID())
	require.Equal(t, "", order.PaymentID())

	refund := &Envelope{
		Event: types.EventRefundProcessed,
		Payload: EnvelopePayload{
			Refund: &EntityWrapper[RefundEntity]{Entity: RefundEntity{ID: "rfnd_1", PaymentID: "pay_abc"}},
		},
	}
	require.Equal(t, "", refund.OrderID())
	require.Equal(t, "pay_abc", refund.PaymentID())
	require.Equal(t, "rfnd_1", refund.SubjectID())
}
