package types

// PaymentStatus is the lifecycle state of a payment record.
type PaymentStatus string

const (
	PaymentStatusCreated           PaymentStatus = "created"
	PaymentStatusAuthorized        PaymentStatus = "authorized"
	PaymentStatusCaptured          PaymentStatus = "captured"
	PaymentStatusPaid              PaymentStatus = "paid"
	PaymentStatusFailed            PaymentStatus = "failed"
	PaymentStatusRefunded          PaymentStatus = "refunded"
	PaymentStatusPartiallyRefunded PaymentStatus = "partially_refunded"
)

// statusRank orders forward transitions. A transition is only applied when the
// target rank is above the current one, so late or replayed deliveries cannot
// move a record backwards.
var statusRank = map[PaymentStatus]int{
	PaymentStatusCreated:           0,
	PaymentStatusAuthorized:        1,
	PaymentStatusCaptured:          2,
	PaymentStatusPaid:              3,
	PaymentStatusPartiallyRefunded: 4,
	PaymentStatusRefunded:          5,
}

// CanTransition reports whether moving from the current status to next is a
// forward move. "failed" may be entered from any pre-settlement state but is
// treated as non-terminal: a later capture/paid event for the same order is
// still accepted, since gateway delivery order is not guaranteed.
func (s PaymentStatus) CanTransition(next PaymentStatus) bool {
	if s == next {
		return false
	}
	if next == PaymentStatusFailed {
		return !s.Settled()
	}
	if s == PaymentStatusFailed {
		return true
	}
	return statusRank[next] > statusRank[s]
}

// Settled reports whether money has moved for this status.
func (s PaymentStatus) Settled() bool {
	switch s {
	case PaymentStatusCaptured, PaymentStatusPaid, PaymentStatusRefunded, PaymentStatusPartiallyRefunded:
		return true
	}
	return false
}

// Entitles reports whether this status grants course access on the dashboard.
func (s PaymentStatus) Entitles() bool {
	switch s {
	case PaymentStatusPaid, PaymentStatusCaptured, PaymentStatusAuthorized:
		return true
	}
	return false
}

// RefundStatus mirrors the gateway refund states.
type RefundStatus string

const (
	RefundStatusPending   RefundStatus = "pending"
	RefundStatusProcessed RefundStatus = "processed"
	RefundStatusFailed    RefundStatus = "failed"
)

var refundStatusRank = map[RefundStatus]int{
	RefundStatusPending:   0,
	RefundStatusFailed:    1,
	RefundStatusProcessed: 2,
}

// CanTransition reports whether a refund may move from the current status to
// next. Forward-only: a refund.created replayed after refund.processed must
// not rewind the row to pending, which would silently shrink the processed
// refund total.
func (s RefundStatus) CanTransition(next RefundStatus) bool {
	if s == next {
		return false
	}
	return refundStatusRank[next] > refundStatusRank[s]
}

// EventType is a gateway webhook event name.
type EventType string

const (
	EventPaymentAuthorized EventType = "payment.authorized"
	EventPaymentCaptured   EventType = "payment.captured"
	EventPaymentFailed     EventType = "payment.failed"
	EventOrderPaid         EventType = "order.paid"
	EventRefundCreated     EventType = "refund.created"
	EventRefundProcessed   EventType = "refund.processed"
)
