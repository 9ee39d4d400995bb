package notify

import (
	"context"
	"errors"
	"time"

	"github.com/sony/gobreaker/v2"
	"go.uber.org/zap"

	"github.com/dmehra2102/prod-golang-projects/zentherapy/pkg/metrics"
)

// Breaker stops calling a failing broker for a while so request handlers that
// create notifications are not held up by it.
type Breaker struct {
	next    Publisher
	cb      *gobreaker.CircuitBreaker[struct{}]
	driver  string
	metrics *metrics.Collector
}

func NewBreaker(next Publisher, driver string, maxFailures uint32, openTimeout time.Duration, log *zap.Logger, m *metrics.Collector) *Breaker {
	if maxFailures == 0 {
		maxFailures = 5
	}
	cb := gobreaker.NewCircuitBreaker[struct{}](gobreaker.Settings{
		Name:        "outbox-" + driver,
		MaxRequests: 1,
		Timeout:     openTimeout,
		ReadyToTrip: func(c gobreaker.Counts) bool {
			return c.ConsecutiveFailures >= maxFailures
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			log.Warn("outbox circuit breaker state change",
				zap.String("breaker", name),
				zap.String("from", from.String()),
				zap.String("to", to.String()),
			)
		},
	})
	return &Breaker{next: next, cb: cb, driver: driver, metrics: m}
}

func (b *Breaker) Publish(ctx context.Context, msg Message) error {
	_, err := b.cb.Execute(func() (struct{}, error) {
		return struct{}{}, b.next.Publish(ctx, msg)
	})
	b.observe(err)
	return err
}

func (b *Breaker) observe(err error) {
	if b.metrics == nil {
		return
	}
	result := "ok"
	switch {
	case errors.Is(err, gobreaker.ErrOpenState), errors.Is(err, gobreaker.ErrTooManyRequests):
		result = "rejected"
	case err != nil:
		result = "error"
	}
	b.metrics.OutboxPublishedTotal.WithLabelValues(b.driver, result).Inc()
}

func (b *Breaker) State() gobreaker.State { return b.cb.State() }

func (b *Breaker) Close() error { return b.next.Close() }
