package messaging

import (
	"context"
	"errors"
	"time"

	"github.com/abgdnv/products/pkg/config"
	"github.com/sony/gobreaker/v2"
)

const breakerHalfOpenRequests = 3

// ErrBreakerOpen is returned when the breaker rejects a publish without trying the broker.
var ErrBreakerOpen = errors.New("event publishing suspended: circuit breaker open")

// BreakerPublisher guards a Publisher with a circuit breaker, so a failing broker is
// skipped instead of slowing down every request that emits an event.
type BreakerPublisher struct {
	next Publisher
	cb   *gobreaker.CircuitBreaker[struct{}]
}

// NewBreakerPublisher wraps next with a breaker that trips after cfg.ConsecutiveFailures
// consecutive failures, or when the failure rate exceeds cfg.ErrorRatePercent.
func NewBreakerPublisher(name string, next Publisher, cfg config.CircuitBreakerConfig) *BreakerPublisher {
	st := gobreaker.Settings{
		Name:        name,
		MaxRequests: breakerHalfOpenRequests,
		Timeout:     cfg.OpenTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			total := counts.TotalSuccesses + counts.TotalFailures
			return counts.ConsecutiveFailures >= cfg.ConsecutiveFailures ||
				(total > cfg.ConsecutiveFailures &&
					float64(counts.TotalFailures)/float64(total)*100 > float64(cfg.ErrorRatePercent))
		},
		IsSuccessful: func(err error) bool {
			// a cancelled request says nothing about the broker
			return err == nil || errors.Is(err, context.Canceled)
		},
	}
	if st.Timeout <= 0 {
		st.Timeout = 5 * time.Second
	}
	return &BreakerPublisher{next: next, cb: gobreaker.NewCircuitBreaker[struct{}](st)}
}

func (p *BreakerPublisher) Publish(ctx context.Context, event Event) error {
	_, err := p.cb.Execute(func() (struct{}, error) {
		return struct{}{}, p.next.Publish(ctx, event)
	})
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return ErrBreakerOpen
	}
	return err
}
