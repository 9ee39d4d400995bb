// Package worker runs the periodic clinic jobs: session reminders and overdue
// milestone sweeps.
package worker

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/dmehra2102/prod-golang-projects/zentherapy/internal/domain"
	"github.com/dmehra2102/prod-golang-projects/zentherapy/internal/domain/progress"
	"github.com/dmehra2102/prod-golang-projects/zentherapy/internal/domain/session"
	"github.com/dmehra2102/prod-golang-projects/zentherapy/internal/events"
)

// Reminders creates the reminder notification for one session.
type Reminders interface {
	Remind(ctx context.Context, s session.Session, startsIn time.Duration) (events.Event, error)
}

type Publisher interface {
	Publish(ctx context.Context, evts ...events.Event) error
}

type OverdueMarker interface {
	MarkOverdue(ctx context.Context) ([]progress.Milestone, error)
}

var errAlreadyReminded = errors.New("reminder already sent")

// ReminderWorker sends one reminder per scheduled session once it starts
// within the clinic's reminder window.
type ReminderWorker struct {
	sessions  session.Repository
	settings  domain.SettingsRepository
	reminders Reminders
	bus       Publisher
	overdue   OverdueMarker
	interval  time.Duration
	log       *zap.Logger
	now       func() time.Time
}

func NewReminderWorker(
	sessions session.Repository,
	settings domain.SettingsRepository,
	reminders Reminders,
	bus Publisher,
	overdue OverdueMarker,
	interval time.Duration,
	log *zap.Logger,
) *ReminderWorker {
	return &ReminderWorker{
		sessions:  sessions,
		settings:  settings,
		reminders: reminders,
		bus:       bus,
		overdue:   overdue,
		interval:  interval,
		log:       log,
		now:       time.Now,
	}
}

// Run ticks until ctx is cancelled. A failed tick is logged and retried on the
// next one.
func (w *ReminderWorker) Run(ctx context.Context) error {
	w.log.Info("reminder worker started", zap.Duration("interval", w.interval))
	for {
		if _, err := w.Tick(ctx); err != nil && ctx.Err() == nil {
			w.log.Error("reminder tick failed", zap.Error(err))
		}

		select {
		case <-ctx.Done():
			w.log.Info("reminder worker stopped")
			return nil
		case <-time.After(w.interval):
		}
	}
}

// Tick sends the due reminders and marks overdue milestones. It returns how
// many reminders went out.
func (w *ReminderWorker) Tick(ctx context.Context) (int, error) {
	sent, remindErr := w.remind(ctx)

	var overdueErr error
	if w.overdue != nil {
		_, overdueErr = w.overdue.MarkOverdue(ctx)
	}
	return sent, errors.Join(remindErr, overdueErr)
}

func (w *ReminderWorker) remind(ctx context.Context) (int, error) {
	settings, err := w.settings.Get(ctx)
	if err != nil {
		return 0, fmt.Errorf("loading settings: %w", err)
	}
	loc, err := time.LoadLocation(settings.Preferences.Timezone)
	if err != nil {
		w.log.Warn("unknown clinic timezone, using UTC", zap.String("timezone", settings.Preferences.Timezone))
		loc = time.UTC
	}
	window := time.Duration(settings.Notifications.ReminderHours) * time.Hour

	all, err := w.sessions.GetAll(ctx)
	if err != nil {
		return 0, fmt.Errorf("loading sessions: %w", err)
	}

	now := w.now()
	var (
		sent int
		errs []error
	)
	for _, s := range all {
		if s.Status != session.StatusScheduled || s.ReminderSentAt != nil {
			continue
		}
		start, ok := s.StartsAt(loc)
		if !ok {
			continue
		}
		startsIn := start.Sub(now)
		if startsIn <= 0 || startsIn > window {
			continue
		}

		if err := w.send(ctx, s, startsIn, now); err != nil {
			if errors.Is(err, errAlreadyReminded) {
				continue
			}
			errs = append(errs, fmt.Errorf("session %s: %w", s.ID, err))
			continue
		}
		sent++
	}

	if sent > 0 {
		w.log.Info("session reminders sent", zap.Int("count", sent))
	}
	return sent, errors.Join(errs...)
}

// send claims the session before creating the notification so two workers
// never remind twice. A failed notification releases the claim for the next tick.
func (w *ReminderWorker) send(ctx context.Context, s session.Session, startsIn time.Duration, now time.Time) error {
	at := now.UTC()
	claimed, err := w.sessions.Modify(ctx, s.ID, func(cur *session.Session) error {
		if cur.ReminderSentAt != nil || cur.Status != session.StatusScheduled {
			return errAlreadyReminded
		}
		cur.ReminderSentAt = &at
		return nil
	})
	if err != nil {
		return err
	}

	evt, err := w.reminders.Remind(ctx, *claimed, startsIn)
	if err != nil {
		return errors.Join(err, w.release(ctx, s.ID, at))
	}
	if err := w.bus.Publish(ctx, evt); err != nil {
		// The notification is stored; only the outbound delivery failed.
		w.log.Warn("reminder delivery failed", zap.String("session_id", s.ID), zap.Error(err))
	}
	return nil
}

// release clears a claim made at at, leaving claims from other ticks alone.
func (w *ReminderWorker) release(ctx context.Context, id string, at time.Time) error {
	_, err := w.sessions.Modify(ctx, id, func(cur *session.Session) error {
		if cur.ReminderSentAt == nil || !cur.ReminderSentAt.Equal(at) {
			return errAlreadyReminded
		}
		cur.ReminderSentAt = nil
		return nil
	})
	if err != nil && !errors.Is(err, errAlreadyReminded) {
		return fmt.Errorf("releasing reminder claim: %w", err)
	}
	return nil
}
