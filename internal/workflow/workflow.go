// Package workflow holds the cross-entity reactions to domain events: session
// scheduling creates reminders, feedback nudges progress, milestones announce
// themselves, and notifications fan out to the outbox.
package workflow

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/dmehra2102/prod-golang-projects/zentherapy/internal/domain"
	"github.com/dmehra2102/prod-golang-projects/zentherapy/internal/domain/notification"
	"github.com/dmehra2102/prod-golang-projects/zentherapy/internal/domain/patient"
	"github.com/dmehra2102/prod-golang-projects/zentherapy/internal/domain/practitioner"
	"github.com/dmehra2102/prod-golang-projects/zentherapy/internal/domain/progress"
	"github.com/dmehra2102/prod-golang-projects/zentherapy/internal/domain/session"
	"github.com/dmehra2102/prod-golang-projects/zentherapy/internal/domain/therapy"
	"github.com/dmehra2102/prod-golang-projects/zentherapy/internal/events"
	"github.com/dmehra2102/prod-golang-projects/zentherapy/internal/notify"
	"github.com/dmehra2102/prod-golang-projects/zentherapy/pkg/metrics"
)

type Deps struct {
	Patients      patient.Repository
	Therapies     therapy.Repository
	Practitioners practitioner.Repository
	Notifications notification.Repository
	Progress      progress.Repository
	Settings      domain.SettingsRepository
	Outbox        notify.Publisher
	Metrics       *metrics.Collector
	Log           *zap.Logger
	Now           func() time.Time
}

type Handlers struct {
	Deps
}

func New(d Deps) *Handlers {
	if d.Now == nil {
		d.Now = time.Now
	}
	return &Handlers{Deps: d}
}

// Register subscribes every handler. Order matters only within one event name.
func (h *Handlers) Register(bus *events.Bus) {
	bus.Subscribe(events.SessionScheduled, h.onSessionScheduled)
	bus.Subscribe(events.SessionStatusChanged, h.onSessionStatusChanged)
	bus.Subscribe(events.FeedbackSubmitted, h.onFeedbackSubmitted)
	bus.Subscribe(events.MilestoneAchieved, h.onMilestoneAchieved)
	bus.Subscribe(events.NotificationCreated, h.onNotificationCreated)
}

func payload[T any](e events.Event) (T, error) {
	p, ok := e.Payload.(T)
	if !ok {
		var zero T
		return zero, fmt.Errorf("%s: unexpected payload %T", e.Name, e.Payload)
	}
	return p, nil
}

func (h *Handlers) onSessionScheduled(ctx context.Context, e events.Event) ([]events.Event, error) {
	p, err := payload[events.SessionPayload](e)
	if err != nil {
		return nil, err
	}
	s := p.Session

	t, err := h.therapy(ctx, s.TherapyTypeID)
	if err != nil {
		return nil, err
	}
	practitionerName, err := h.practitionerName(ctx, s.PractitionerID)
	if err != nil {
		return nil, err
	}

	reminder, err := h.create(ctx, notification.Notification{
		Type:  notification.TypeReminder,
		Title: "Upcoming Therapy Session",
		Message: fmt.Sprintf("Your %s session with %s is scheduled for %s at %s.",
			t.Name, practitionerName, s.Date, s.Time),
		PatientID: s.PatientID,
		SessionID: s.ID,
		Channels:  notification.Channels{InApp: true, Email: true, SMS: true},
		Priority:  notification.PriorityMedium,
	})
	if err != nil {
		return nil, err
	}
	out := []events.Event{reminder}

	if len(t.PreparationInstructions) > 0 {
		preCare, err := h.create(ctx, notification.Notification{
			Type:      notification.TypePreCare,
			Title:     "Pre-Session Preparation: " + t.Name,
			Message:   "Before your session: " + strings.Join(t.PreparationInstructions, "; "),
			PatientID: s.PatientID,
			SessionID: s.ID,
			Channels:  notification.Channels{InApp: true, Email: true},
			Priority:  notification.PriorityHigh,
		})
		if err != nil {
			return out, err
		}
		out = append(out, preCare)
	}
	return out, nil
}

func (h *Handlers) onSessionStatusChanged(ctx context.Context, e events.Event) ([]events.Event, error) {
	p, err := payload[events.SessionPayload](e)
	if err != nil {
		return nil, err
	}
	s := p.Session
	if s.Status != session.StatusCompleted {
		return nil, nil
	}

	t, err := h.therapy(ctx, s.TherapyTypeID)
	if err != nil {
		return nil, err
	}
	if len(t.PostCareInstructions) == 0 {
		return nil, nil
	}

	postCare, err := h.create(ctx, notification.Notification{
		Type:      notification.TypePostCare,
		Title:     "Post-Session Care: " + t.Name,
		Message:   "After your session: " + strings.Join(t.PostCareInstructions, "; "),
		PatientID: s.PatientID,
		SessionID: s.ID,
		Channels:  notification.Channels{InApp: true, Email: true},
		Priority:  notification.PriorityMedium,
	})
	if err != nil {
		return nil, err
	}
	return []events.Event{postCare}, nil
}

// onFeedbackSubmitted nudges every In Progress milestone of the patient. The
// nudge is not tied to the therapy the feedback is about.
func (h *Handlers) onFeedbackSubmitted(ctx context.Context, e events.Event) ([]events.Event, error) {
	p, err := payload[events.FeedbackPayload](e)
	if err != nil {
		return nil, err
	}
	f := p.Feedback
	if f.Rating < progress.NudgeMinRating {
		return nil, nil
	}

	today := domain.Today(h.Now())
	changed, err := h.Progress.UpdateEach(ctx, func(m *progress.Milestone) bool {
		if m.PatientID != f.PatientID || m.Status != progress.StatusInProgress {
			return false
		}
		before := totalCurrent(m.Metrics)
		achieved := m.ApplyFeedbackNudge(f.Rating, today)
		return achieved || totalCurrent(m.Metrics) != before
	})
	if err != nil {
		return nil, fmt.Errorf("nudging milestones: %w", err)
	}

	var out []events.Event
	for _, m := range changed {
		if m.Status != progress.StatusAchieved {
			continue
		}
		if h.Metrics != nil {
			h.Metrics.MilestonesAchieved.Inc()
		}
		h.Log.Info("milestone achieved",
			zap.String("milestone_id", m.ID),
			zap.String("patient_id", m.PatientID),
		)
		out = append(out, events.NewMilestoneAchieved(m, h.Now()))
	}
	return out, nil
}

func totalCurrent(ms []progress.Metric) float64 {
	var sum float64
	for _, m := range ms {
		sum += m.Current
	}
	return sum
}

func (h *Handlers) onMilestoneAchieved(ctx context.Context, e events.Event) ([]events.Event, error) {
	p, err := payload[events.MilestonePayload](e)
	if err != nil {
		return nil, err
	}

	n, err := h.create(ctx, notification.Notification{
		Type:      notification.TypeProgress,
		Title:     "Milestone Achieved!",
		Message:   "Congratulations! You've achieved your milestone: " + p.Milestone.Title,
		PatientID: p.Milestone.PatientID,
		Channels:  notification.Channels{InApp: true, Email: true},
		Priority:  notification.PriorityHigh,
	})
	if err != nil {
		return nil, err
	}
	return []events.Event{n}, nil
}

// onNotificationCreated hands email and SMS delivery to the outbox when both
// the notification and the clinic settings enable the channel.
func (h *Handlers) onNotificationCreated(ctx context.Context, e events.Event) ([]events.Event, error) {
	p, err := payload[events.NotificationPayload](e)
	if err != nil {
		return nil, err
	}
	n := p.Notification
	if h.Outbox == nil || n.PatientID == "" {
		return nil, nil
	}

	settings, err := h.Settings.Get(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading settings: %w", err)
	}

	var channels []string
	if n.Channels.Email && settings.Notifications.Email {
		channels = append(channels, notification.ChannelEmail)
	}
	if n.Channels.SMS && settings.Notifications.SMS {
		channels = append(channels, notification.ChannelSMS)
	}
	if len(channels) == 0 {
		return nil, nil
	}

	pt, err := h.Patients.GetByID(ctx, n.PatientID)
	if errors.Is(err, patient.ErrPatientNotFound) {
		h.Log.Debug("skipping outbox for unknown patient", zap.String("patient_id", n.PatientID))
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	msg := notify.Message{
		NotificationID: n.ID,
		Type:           string(n.Type),
		Priority:       string(n.Priority),
		Title:          n.Title,
		Body:           n.Message,
		PatientID:      n.PatientID,
		SessionID:      n.SessionID,
		Recipient:      notify.Recipient{Name: pt.Name, Email: pt.Email, Phone: pt.Phone},
		Channels:       channels,
		CreatedAt:      n.Timestamp,
	}
	if err := h.Outbox.Publish(ctx, msg); err != nil {
		return nil, fmt.Errorf("publishing notification %s: %w", n.ID, err)
	}
	return nil, nil
}

// Remind creates the reminder sent ahead of a session by the reminder worker.
func (h *Handlers) Remind(ctx context.Context, s session.Session, startsIn time.Duration) (events.Event, error) {
	t, err := h.therapy(ctx, s.TherapyTypeID)
	if err != nil {
		return events.Event{}, err
	}
	return h.create(ctx, notification.Notification{
		Type:  notification.TypeReminder,
		Title: "Session Reminder",
		Message: fmt.Sprintf("Your %s session starts in about %d hours (%s at %s).",
			t.Name, int(startsIn.Round(time.Hour).Hours()), s.Date, s.Time),
		PatientID: s.PatientID,
		SessionID: s.ID,
		Channels:  notification.Channels{InApp: true, Email: true, SMS: true},
		Priority:  notification.PriorityHigh,
	})
}

// create stores n and returns the event announcing it.
func (h *Handlers) create(ctx context.Context, n notification.Notification) (events.Event, error) {
	n.Timestamp = h.Now().UTC()
	if err := h.Notifications.Create(ctx, &n); err != nil {
		return events.Event{}, fmt.Errorf("creating %s notification: %w", n.Type, err)
	}
	if h.Metrics != nil {
		h.Metrics.NotificationsTotal.WithLabelValues(string(n.Type)).Inc()
	}
	return events.NewNotificationCreated(n, n.Timestamp), nil
}

// therapy resolves a dangling id to a placeholder instead of failing.
func (h *Handlers) therapy(ctx context.Context, id string) (*therapy.TherapyType, error) {
	t, err := h.Therapies.GetByID(ctx, id)
	if errors.Is(err, therapy.ErrTherapyNotFound) {
		return &therapy.TherapyType{ID: id, Name: therapy.UnknownName}, nil
	}
	return t, err
}

func (h *Handlers) practitionerName(ctx context.Context, id string) (string, error) {
	p, err := h.Practitioners.GetByID(ctx, id)
	if errors.Is(err, practitioner.ErrPractitionerNotFound) {
		return practitioner.UnknownName, nil
	}
	if err != nil {
		return "", err
	}
	return p.Name, nil
}
