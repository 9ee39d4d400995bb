// Package events carries domain events from the operation that caused them to
// the handlers that react. Publish drains a FIFO queue: handlers for one event
// run in registration order, and events they return are queued behind the
// current ones.
package events

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/dmehra2102/prod-golang-projects/zentherapy/internal/domain/feedback"
	"github.com/dmehra2102/prod-golang-projects/zentherapy/internal/domain/notification"
	"github.com/dmehra2102/prod-golang-projects/zentherapy/internal/domain/progress"
	"github.com/dmehra2102/prod-golang-projects/zentherapy/internal/domain/session"
	"github.com/dmehra2102/prod-golang-projects/zentherapy/pkg/metrics"
)

const (
	SessionScheduled     = "session.scheduled"
	SessionStatusChanged = "session.status_changed"
	FeedbackSubmitted    = "feedback.submitted"
	MilestoneAchieved    = "milestone.achieved"
	NotificationCreated  = "notification.created"
)

type Event struct {
	Name       string
	OccurredAt time.Time
	Payload    any
}

type SessionPayload struct {
	Session        session.Session
	PreviousStatus session.Status
}

type FeedbackPayload struct {
	Feedback feedback.Feedback
}

type MilestonePayload struct {
	Milestone progress.Milestone
}

type NotificationPayload struct {
	Notification notification.Notification
}

func NewSessionScheduled(s session.Session, at time.Time) Event {
	return Event{Name: SessionScheduled, OccurredAt: at, Payload: SessionPayload{Session: s}}
}

func NewSessionStatusChanged(s session.Session, previous session.Status, at time.Time) Event {
	return Event{Name: SessionStatusChanged, OccurredAt: at, Payload: SessionPayload{Session: s, PreviousStatus: previous}}
}

func NewFeedbackSubmitted(f feedback.Feedback, at time.Time) Event {
	return Event{Name: FeedbackSubmitted, OccurredAt: at, Payload: FeedbackPayload{Feedback: f}}
}

func NewMilestoneAchieved(m progress.Milestone, at time.Time) Event {
	return Event{Name: MilestoneAchieved, OccurredAt: at, Payload: MilestonePayload{Milestone: m}}
}

func NewNotificationCreated(n notification.Notification, at time.Time) Event {
	return Event{Name: NotificationCreated, OccurredAt: at, Payload: NotificationPayload{Notification: n}}
}

// Handler reacts to one event and may return follow-up events.
type Handler func(ctx context.Context, e Event) ([]Event, error)

// maxEventsPerPublish bounds a single Publish so a handler cycle cannot spin forever.
const maxEventsPerPublish = 1000

var ErrEventLoop = errors.New("events: too many follow-up events in one publish")

type Bus struct {
	mu       sync.RWMutex
	handlers map[string][]Handler
	log      *zap.Logger
	metrics  *metrics.Collector
}

func NewBus(log *zap.Logger, m *metrics.Collector) *Bus {
	return &Bus{
		handlers: make(map[string][]Handler),
		log:      log,
		metrics:  m,
	}
}

func (b *Bus) Subscribe(name string, h Handler) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.handlers[name] = append(b.handlers[name], h)
}

// Publish runs every handler synchronously. A failing handler does not stop the
// others; all failures are logged and joined into the returned error.
func (b *Bus) Publish(ctx context.Context, evts ...Event) error {
	queue := append([]Event(nil), evts...)
	var errs []error

	for processed := 0; len(queue) > 0; processed++ {
		if processed >= maxEventsPerPublish {
			errs = append(errs, ErrEventLoop)
			break
		}
		e := queue[0]
		queue = queue[1:]

		b.mu.RLock()
		handlers := b.handlers[e.Name]
		b.mu.RUnlock()

		for _, h := range handlers {
			next, err := h(ctx, e)
			if err != nil {
				b.log.Error("event handler failed", zap.String("event", e.Name), zap.Error(err))
				if b.metrics != nil {
					b.metrics.EventHandlerErrors.WithLabelValues(e.Name).Inc()
				}
				errs = append(errs, fmt.Errorf("%s: %w", e.Name, err))
			}
			queue = append(queue, next...)
		}
	}

	return errors.Join(errs...)
}
