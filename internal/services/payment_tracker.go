package services

import (
	"context"
	"time"

	"github.com/nicolasconil/gp-frontend-sub000/domain"
)

// PaymentTrackerImpl implements domain.PaymentTracker as a bounded,
// cancellable polling task: one status request per tick, a hard attempt
// limit, and guaranteed ticker teardown on any terminal state or context
// cancellation.
type PaymentTrackerImpl struct {
	orders   domain.OrderGateway
	interval time.Duration
	attempts int
}

// NewPaymentTracker creates a new payment tracker
func NewPaymentTracker(orders domain.OrderGateway, interval time.Duration, attempts int) *PaymentTrackerImpl {
	return &PaymentTrackerImpl{
		orders:   orders,
		interval: interval,
		attempts: attempts,
	}
}

// Compile-time interface compliance verification
var _ domain.PaymentTracker = (*PaymentTrackerImpl)(nil)

// Watch polls the order's payment status and emits every observed state on
// the returned channel, closing it after a terminal state or cancellation.
// Pending keeps the poll alive; exhausting the attempt budget while still
// pending emits timeout, which is distinct from error.
func (t *PaymentTrackerImpl) Watch(ctx context.Context, orderID string) <-chan domain.TrackState {
	ch := make(chan domain.TrackState, t.attempts+1)

	go func() {
		defer close(ch)
		ticker := time.NewTicker(t.interval)
		defer ticker.Stop()

		for attempt := 1; attempt <= t.attempts; attempt++ {
			status, err := t.orders.OrderPaymentStatus(ctx, orderID)
			if err != nil {
				ch <- domain.TrackError
				return
			}

			switch status {
			case domain.PaymentApproved:
				ch <- domain.TrackApproved
				return
			case domain.PaymentRejected:
				ch <- domain.TrackRejected
				return
			default:
				if attempt == t.attempts {
					ch <- domain.TrackTimeout
					return
				}
				ch <- domain.TrackPending
			}

			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
			}
		}
	}()

	return ch
}

// Await implements domain.PaymentTracker. Blocks until the poll reaches a
// terminal state; cancellation returns the last observed state.
func (t *PaymentTrackerImpl) Await(ctx context.Context, orderID string) domain.TrackState {
	last := domain.TrackLoading
	for state := range t.Watch(ctx, orderID) {
		last = state
	}
	return last
}
