package service

import (
	"context"

	"github.com/samber/lo"

	"github.com/dmehra2102/prod-golang-projects/zentherapy/internal/domain/appointment"
	"github.com/dmehra2102/prod-golang-projects/zentherapy/internal/domain/feedback"
	"github.com/dmehra2102/prod-golang-projects/zentherapy/internal/domain/notification"
	"github.com/dmehra2102/prod-golang-projects/zentherapy/internal/domain/patient"
	"github.com/dmehra2102/prod-golang-projects/zentherapy/internal/domain/progress"
	"github.com/dmehra2102/prod-golang-projects/zentherapy/internal/domain/session"
)

type Summary struct {
	Patients            int                        `json:"patients"`
	ActivePatients      int                        `json:"activePatients"`
	Sessions            session.Stats              `json:"sessions"`
	AverageRating       float64                    `json:"averageRating"`
	FeedbackCount       int                        `json:"feedbackCount"`
	UnreadNotifications int                        `json:"unreadNotifications"`
	Progress            progress.Stats             `json:"progress"`
	Appointments        map[appointment.Status]int `json:"appointments"`
	Revenue             float64                    `json:"revenue"`
}

// AnalyticsService recomputes the dashboard summary from the stored
// collections on every call.
type AnalyticsService struct {
	patients      patient.Repository
	sessions      session.Repository
	feedback      feedback.Repository
	notifications notification.Repository
	progress      progress.Repository
	appointments  appointment.Repository
}

func NewAnalyticsService(
	patients patient.Repository,
	sessions session.Repository,
	fb feedback.Repository,
	notifications notification.Repository,
	prog progress.Repository,
	appointments appointment.Repository,
) *AnalyticsService {
	return &AnalyticsService{
		patients:      patients,
		sessions:      sessions,
		feedback:      fb,
		notifications: notifications,
		progress:      prog,
		appointments:  appointments,
	}
}

func (s *AnalyticsService) Summary(ctx context.Context, caller Caller) (*Summary, error) {
	if !caller.isStaff() {
		return nil, ErrForbidden
	}

	patients, err := s.patients.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	sessions, err := s.sessions.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	fbs, err := s.feedback.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	unread, err := s.notifications.GetUnread(ctx)
	if err != nil {
		return nil, err
	}
	milestones, err := s.progress.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	appts, err := s.appointments.GetAll(ctx)
	if err != nil {
		return nil, err
	}

	paid := lo.Filter(appts, func(a appointment.Appointment, _ int) bool {
		return a.PaymentStatus == appointment.PaymentPaid
	})

	return &Summary{
		Patients:            len(patients),
		ActivePatients:      lo.CountBy(patients, func(p patient.Patient) bool { return p.IsActive() }),
		Sessions:            session.ComputeStats(sessions),
		AverageRating:       feedback.AverageRating(fbs),
		FeedbackCount:       len(fbs),
		UnreadNotifications: len(unread),
		Progress:            progress.ComputeStats(milestones),
		Appointments:        lo.CountValuesBy(appts, func(a appointment.Appointment) appointment.Status { return a.Status }),
		Revenue:             lo.SumBy(paid, func(a appointment.Appointment) float64 { return a.Amount }),
	}, nil
}
