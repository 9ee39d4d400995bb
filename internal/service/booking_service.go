package service

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"net/mail"
	"time"

	"github.com/google/uuid"
	"github.com/samber/lo"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"

	"github.com/dmehra2102/prod-golang-projects/zentherapy/config"
	"github.com/dmehra2102/prod-golang-projects/zentherapy/internal/domain"
	"github.com/dmehra2102/prod-golang-projects/zentherapy/internal/domain/appointment"
	"github.com/dmehra2102/prod-golang-projects/zentherapy/internal/domain/practitioner"
	"github.com/dmehra2102/prod-golang-projects/zentherapy/internal/domain/session"
	"github.com/dmehra2102/prod-golang-projects/zentherapy/internal/domain/therapy"
	"github.com/dmehra2102/prod-golang-projects/zentherapy/pkg/metrics"
)

// RandomSource drives room assignment and the simulated payment outcome.
// *rand.Rand from math/rand/v2 satisfies it.
type RandomSource interface {
	Float64() float64
	IntN(n int) int
}

type globalRandom struct{}

func (globalRandom) Float64() float64 { return rand.Float64() }
func (globalRandom) IntN(n int) int   { return rand.IntN(n) }

const paymentFailedMessage = "Payment failed. Please try again."

// BookingService is the public booking flow: slot lookup, appointment
// requests and the simulated payment step.
type BookingService struct {
	appointments  appointment.Repository
	sessions      session.Repository
	practitioners practitioner.Repository
	therapies     therapy.Repository
	cfg           config.BookingConfig
	random        RandomSource
	auditSvc      *AuditService
	metrics       *metrics.Collector
	log           *zap.Logger
}

func NewBookingService(
	appointments appointment.Repository,
	sessions session.Repository,
	practitioners practitioner.Repository,
	therapies therapy.Repository,
	cfg config.BookingConfig,
	random RandomSource,
	auditSvc *AuditService,
	m *metrics.Collector,
	log *zap.Logger,
) *BookingService {
	if random == nil {
		random = globalRandom{}
	}
	return &BookingService{
		appointments:  appointments,
		sessions:      sessions,
		practitioners: practitioners,
		therapies:     therapies,
		cfg:           cfg,
		random:        random,
		auditSvc:      auditSvc,
		metrics:       m,
		log:           log,
	}
}

// GenerateAvailableSlots lists the free hourly start times of a practitioner on
// date. Times held by a non-cancelled appointment or therapy session are
// excluded; a day off yields no slots.
func (s *BookingService) GenerateAvailableSlots(ctx context.Context, practitionerID, date string) (_ []string, err error) {
	ctx, span := startSpan(ctx, "BookingService.GenerateAvailableSlots",
		attribute.String("practitioner.id", practitionerID),
		attribute.String("date", date),
	)
	defer func() { endSpan(span, err) }()

	if err := validationErr(checkDate(nil, "date", date)); err != nil {
		return nil, err
	}

	p, err := s.practitioners.GetByID(ctx, practitionerID)
	if err != nil {
		return nil, err
	}
	day, ok := p.WorkingHours.On(date)
	if !ok || !day.Available {
		return []string{}, nil
	}

	taken, err := s.takenTimes(ctx, practitionerID, date)
	if err != nil {
		return nil, err
	}

	return lo.Filter(day.HourlySlots(), func(slot string, _ int) bool { return !taken[slot] }), nil
}

func (s *BookingService) takenTimes(ctx context.Context, practitionerID, date string) (map[string]bool, error) {
	appts, err := s.appointments.GetByPractitionerAndDate(ctx, practitionerID, date)
	if err != nil {
		return nil, fmt.Errorf("loading appointments: %w", err)
	}
	sessions, err := s.sessions.GetByPractitioner(ctx, practitionerID)
	if err != nil {
		return nil, fmt.Errorf("loading sessions: %w", err)
	}

	taken := make(map[string]bool)
	for _, a := range appts {
		if a.Holds() {
			taken[a.Time] = true
		}
	}
	for _, ss := range sessions {
		if ss.Holds() && ss.Date == date {
			taken[ss.Time] = true
		}
	}
	return taken, nil
}

// CreateAppointment books a pending appointment priced at the therapy's list
// price, in a room picked at random.
func (s *BookingService) CreateAppointment(ctx context.Context, caller Caller, cmd *appointment.CreateAppointmentCommand) (_ *appointment.Appointment, err error) {
	ctx, span := startSpan(ctx, "BookingService.CreateAppointment",
		attribute.String("practitioner.id", cmd.PractitionerID),
		attribute.String("date", cmd.Date),
	)
	defer func() {
		s.countAppointment(err)
		endSpan(span, err)
	}()

	if caller.Role == domain.RolePatient {
		if cmd.PatientID != "" && cmd.PatientID != caller.PatientID {
			return nil, ErrForbidden
		}
		cmd.PatientID = caller.PatientID
	}
	if err := validateCreateAppointment(cmd); err != nil {
		return nil, err
	}

	t, err := s.therapies.GetByID(ctx, cmd.ServiceID)
	if err != nil {
		return nil, fmt.Errorf("verifying service: %w", err)
	}
	p, err := s.practitioners.GetByID(ctx, cmd.PractitionerID)
	if err != nil {
		return nil, fmt.Errorf("verifying practitioner: %w", err)
	}
	if !p.WorksAt(cmd.Date, cmd.Time) {
		return nil, practitioner.ErrOutsideWorkingHours
	}

	// Sessions live under another key, so this check is best effort.
	taken, err := s.takenTimes(ctx, cmd.PractitionerID, cmd.Date)
	if err != nil {
		return nil, err
	}
	if taken[cmd.Time] {
		return nil, appointment.ErrSlotTaken
	}

	a := &appointment.Appointment{
		PatientName:    cmd.PatientName,
		PatientEmail:   cmd.PatientEmail,
		PatientPhone:   cmd.PatientPhone,
		PatientID:      cmd.PatientID,
		PractitionerID: cmd.PractitionerID,
		ServiceID:      cmd.ServiceID,
		Date:           cmd.Date,
		Time:           cmd.Time,
		Status:         appointment.StatusPending,
		Room:           s.cfg.Rooms[s.random.IntN(len(s.cfg.Rooms))],
		Amount:         t.Price,
		PaymentStatus:  appointment.PaymentPending,
		Notes:          cmd.Notes,
	}

	err = s.appointments.CreateUnlessConflict(ctx, a, func(existing *appointment.Appointment) error {
		if existing.Holds() && existing.PractitionerID == a.PractitionerID && existing.At(a.Date, a.Time) {
			return appointment.ErrSlotTaken
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.auditSvc.LogAsync(ctx, caller, AuditEntry{Action: domain.ActionCreate, ResourceType: "appointment", ResourceID: a.ID})
	s.log.Info("appointment booked",
		zap.String("appointment_id", a.ID),
		zap.String("practitioner_id", a.PractitionerID),
		zap.String("date", a.Date),
		zap.String("time", a.Time),
		zap.String("room", a.Room),
	)
	return a, nil
}

// ProcessPayment simulates a gateway call. It waits for the configured delay,
// or until ctx is done, and succeeds with the configured probability.
func (s *BookingService) ProcessPayment(ctx context.Context, amount float64) (*appointment.PaymentResult, error) {
	if s.cfg.PaymentDelay > 0 {
		timer := time.NewTimer(s.cfg.PaymentDelay)
		defer timer.Stop()
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-timer.C:
		}
	}

	if s.random.Float64() < s.cfg.PaymentSuccessRate {
		s.countPayment("success")
		return &appointment.PaymentResult{
			Success:       true,
			TransactionID: "txn_" + uuid.NewString(),
			Amount:        amount,
		}, nil
	}

	s.countPayment("failed")
	return &appointment.PaymentResult{Success: false, Amount: amount, Error: paymentFailedMessage}, nil
}

// PayForAppointment charges the appointment amount once. Success confirms the
// booking; failure marks the payment failed and leaves the booking pending so
// it can be retried.
func (s *BookingService) PayForAppointment(ctx context.Context, caller Caller, id string) (_ *appointment.Appointment, _ *appointment.PaymentResult, err error) {
	ctx, span := startSpan(ctx, "BookingService.PayForAppointment", attribute.String("appointment.id", id))
	defer func() { endSpan(span, err) }()

	a, err := s.GetAppointment(ctx, caller, id)
	if err != nil {
		return nil, nil, err
	}
	if a.PaymentStatus == appointment.PaymentPaid {
		return nil, nil, appointment.ErrAlreadyPaid
	}
	if !a.CanTransitionTo(appointment.StatusConfirmed) {
		return nil, nil, appointment.ErrInvalidStatusTransition
	}

	result, err := s.ProcessPayment(ctx, a.Amount)
	if err != nil {
		s.countPayment("aborted")
		return nil, nil, fmt.Errorf("processing payment: %w", err)
	}

	updated, err := s.appointments.Modify(ctx, id, func(a *appointment.Appointment) error {
		if result.Success {
			return a.MarkPaid(result.TransactionID)
		}
		return a.MarkPaymentFailed()
	})
	if err != nil {
		if result.Success {
			s.log.Error("payment captured but appointment not updated",
				zap.String("appointment_id", id),
				zap.String("transaction_id", result.TransactionID),
				zap.Error(err),
			)
		}
		return nil, nil, err
	}

	s.auditSvc.LogAsync(ctx, caller, AuditEntry{
		Action: domain.ActionUpdate, ResourceType: "appointment", ResourceID: id,
		Changes: fmt.Sprintf(`{"paymentStatus":%q}`, updated.PaymentStatus),
	})
	return updated, result, nil
}

func (s *BookingService) CancelAppointment(ctx context.Context, caller Caller, id string) (*appointment.Appointment, error) {
	a, err := s.appointments.Modify(ctx, id, func(a *appointment.Appointment) error {
		if !caller.canAccessPatient(a.PatientID) {
			return ErrForbidden
		}
		return a.Cancel()
	})
	if err != nil {
		return nil, err
	}
	s.auditSvc.LogAsync(ctx, caller, AuditEntry{
		Action: domain.ActionUpdate, ResourceType: "appointment", ResourceID: id,
		Changes: `{"status":"cancelled"}`,
	})
	return a, nil
}

func (s *BookingService) CompleteAppointment(ctx context.Context, caller Caller, id string) (*appointment.Appointment, error) {
	if !caller.isStaff() {
		return nil, ErrForbidden
	}
	a, err := s.appointments.Modify(ctx, id, func(a *appointment.Appointment) error { return a.Complete() })
	if err != nil {
		return nil, err
	}
	s.auditSvc.LogAsync(ctx, caller, AuditEntry{
		Action: domain.ActionUpdate, ResourceType: "appointment", ResourceID: id,
		Changes: `{"status":"completed"}`,
	})
	return a, nil
}

func (s *BookingService) UpdateAppointment(ctx context.Context, caller Caller, id string, cmd *appointment.UpdateAppointmentCommand) (*appointment.Appointment, error) {
	if !caller.isStaff() {
		return nil, ErrForbidden
	}
	a, err := s.appointments.Update(ctx, id, cmd)
	if err != nil {
		return nil, err
	}
	s.auditSvc.LogAsync(ctx, caller, AuditEntry{Action: domain.ActionUpdate, ResourceType: "appointment", ResourceID: id})
	return a, nil
}

func (s *BookingService) GetAppointment(ctx context.Context, caller Caller, id string) (*appointment.Appointment, error) {
	a, err := s.appointments.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !caller.canAccessPatient(a.PatientID) {
		return nil, ErrForbidden
	}
	return a, nil
}

func (s *BookingService) ListAppointments(ctx context.Context, caller Caller) ([]appointment.Appointment, error) {
	all, err := s.appointments.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	if caller.Role != domain.RolePatient {
		return all, nil
	}
	return lo.Filter(all, func(a appointment.Appointment, _ int) bool {
		return a.PatientID != "" && a.PatientID == caller.PatientID
	}), nil
}

func (s *BookingService) countAppointment(err error) {
	if s.metrics == nil {
		return
	}
	outcome := "created"
	var verr *ValidationError
	switch {
	case err == nil:
	case errors.Is(err, appointment.ErrSlotTaken):
		outcome = "conflict"
	case errors.As(err, &verr), errors.Is(err, practitioner.ErrOutsideWorkingHours):
		outcome = "invalid"
	default:
		outcome = "error"
	}
	s.metrics.AppointmentsTotal.WithLabelValues(outcome).Inc()
}

func (s *BookingService) countPayment(outcome string) {
	if s.metrics != nil {
		s.metrics.PaymentsTotal.WithLabelValues(outcome).Inc()
	}
}

func validateCreateAppointment(cmd *appointment.CreateAppointmentCommand) error {
	var errs []string

	errs = requireString(errs, "patientName", cmd.PatientName)
	errs = requireString(errs, "patientEmail", cmd.PatientEmail)
	errs = requireString(errs, "patientPhone", cmd.PatientPhone)
	errs = requireString(errs, "practitionerId", cmd.PractitionerID)
	errs = requireString(errs, "serviceId", cmd.ServiceID)
	errs = requireString(errs, "date", cmd.Date)
	errs = requireString(errs, "time", cmd.Time)
	if len(errs) > 0 {
		return validationErr(errs)
	}

	if _, err := mail.ParseAddress(cmd.PatientEmail); err != nil {
		errs = append(errs, "patientEmail is invalid")
	}
	errs = checkDate(errs, "date", cmd.Date)
	errs = checkClock(errs, "time", cmd.Time)
	return validationErr(errs)
}
