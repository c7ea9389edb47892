package nats

import (
	"context"
	"fmt"
	"time"

	"github.com/abgdnv/products/pkg/messaging"
	"github.com/nats-io/nats.go/jetstream"
)

// StreamPublisher is the subset of jetstream.JetStream used for publishing.
type StreamPublisher interface {
	Publish(ctx context.Context, subject string, data []byte, opts ...jetstream.PublishOpt) (*jetstream.PubAck, error)
}

type NatsPublisher struct {
	js        StreamPublisher
	attempts  int
	retryWait time.Duration
}

// NewNatsPublisher creates a publisher that retries each message up to attempts times,
// waiting retryWait between tries.
func NewNatsPublisher(js StreamPublisher, attempts int, retryWait time.Duration) *NatsPublisher {
	return &NatsPublisher{js: js, attempts: attempts, retryWait: retryWait}
}

func (p *NatsPublisher) Publish(ctx context.Context, event messaging.Event) error {
	data, err := event.Payload()
	if err != nil {
		return fmt.Errorf("failed to get event payload: %w", err)
	}
	opts := []jetstream.PublishOpt{jetstream.WithRetryAttempts(p.attempts)}
	if p.retryWait > 0 {
		opts = append(opts, jetstream.WithRetryWait(p.retryWait))
	}
	if _, err = p.js.Publish(ctx, event.Subject(), data, opts...); err != nil {
		return fmt.Errorf("failed to publish %s: %w", event.Subject(), err)
	}
	return nil
}
