package service

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"

	"github.com/dmehra2102/prod-golang-projects/zentherapy/internal/domain"
	"github.com/dmehra2102/prod-golang-projects/zentherapy/internal/domain/appointment"
	"github.com/dmehra2102/prod-golang-projects/zentherapy/internal/domain/patient"
	"github.com/dmehra2102/prod-golang-projects/zentherapy/internal/domain/practitioner"
	"github.com/dmehra2102/prod-golang-projects/zentherapy/internal/domain/session"
	"github.com/dmehra2102/prod-golang-projects/zentherapy/internal/domain/therapy"
	"github.com/dmehra2102/prod-golang-projects/zentherapy/internal/events"
	"github.com/dmehra2102/prod-golang-projects/zentherapy/pkg/metrics"
)

type SessionService struct {
	sessions      session.Repository
	patients      patient.Repository
	therapies     therapy.Repository
	practitioners practitioner.Repository
	appointments  appointment.Repository
	bus           Publisher
	auditSvc      *AuditService
	metrics       *metrics.Collector
	log           *zap.Logger
	now           func() time.Time
}

func NewSessionService(
	sessions session.Repository,
	patients patient.Repository,
	therapies therapy.Repository,
	practitioners practitioner.Repository,
	appointments appointment.Repository,
	bus Publisher,
	auditSvc *AuditService,
	m *metrics.Collector,
	log *zap.Logger,
) *SessionService {
	return &SessionService{
		sessions:      sessions,
		patients:      patients,
		therapies:     therapies,
		practitioners: practitioners,
		appointments:  appointments,
		bus:           bus,
		auditSvc:      auditSvc,
		metrics:       m,
		log:           log,
		now:           time.Now,
	}
}

// ScheduleSession books a therapy session. The slot must fall inside the
// practitioner's working hours, and neither the patient nor the practitioner
// may already hold a non-cancelled session at the same date and time.
func (s *SessionService) ScheduleSession(ctx context.Context, caller Caller, cmd *session.ScheduleSessionCommand) (_ *session.Session, err error) {
	ctx, span := startSpan(ctx, "SessionService.ScheduleSession",
		attribute.String("practitioner.id", cmd.PractitionerID),
		attribute.String("session.date", cmd.Date),
	)
	defer func() { endSpan(span, err) }()

	if !caller.canAccessPatient(cmd.PatientID) {
		return nil, ErrForbidden
	}
	if err := validateScheduleSession(cmd); err != nil {
		return nil, err
	}

	if _, err := s.patients.GetByID(ctx, cmd.PatientID); err != nil {
		return nil, fmt.Errorf("verifying patient: %w", err)
	}
	t, err := s.therapies.GetByID(ctx, cmd.TherapyTypeID)
	if err != nil {
		return nil, fmt.Errorf("verifying therapy type: %w", err)
	}
	p, err := s.practitioners.GetByID(ctx, cmd.PractitionerID)
	if err != nil {
		return nil, fmt.Errorf("verifying practitioner: %w", err)
	}
	if !p.WorksAt(cmd.Date, cmd.Time) {
		return nil, practitioner.ErrOutsideWorkingHours
	}

	duration := cmd.Duration
	if duration == 0 {
		duration = t.Duration
	}
	checklist := cmd.PreSessionChecklist
	if checklist == nil {
		checklist = []session.ChecklistItem{}
	}

	ss := &session.Session{
		PatientID:           cmd.PatientID,
		TherapyTypeID:       cmd.TherapyTypeID,
		PractitionerID:      cmd.PractitionerID,
		Date:                cmd.Date,
		Time:                cmd.Time,
		Status:              session.StatusScheduled,
		Notes:               cmd.Notes,
		PreSessionChecklist: checklist,
		Duration:            duration,
		Room:                cmd.Room,
	}

	// Bookings live under another key, so this check is best effort.
	booked, err := s.appointments.GetByPractitionerAndDate(ctx, ss.PractitionerID, ss.Date)
	if err != nil {
		return nil, fmt.Errorf("checking appointments: %w", err)
	}
	for i := range booked {
		if booked[i].Holds() && booked[i].At(ss.Date, ss.Time) {
			return nil, session.ErrPractitionerDoubleBooked
		}
	}

	err = s.sessions.CreateUnlessConflict(ctx, ss, func(existing *session.Session) error {
		if !existing.Holds() || !existing.At(ss.Date, ss.Time) {
			return nil
		}
		if existing.PatientID == ss.PatientID {
			return session.ErrPatientDoubleBooked
		}
		if existing.PractitionerID == ss.PractitionerID {
			return session.ErrPractitionerDoubleBooked
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.countSession(ss.Status)
	s.auditSvc.LogAsync(ctx, caller, AuditEntry{Action: domain.ActionCreate, ResourceType: "session", ResourceID: ss.ID})
	s.log.Info("session scheduled",
		zap.String("session_id", ss.ID),
		zap.String("patient_id", ss.PatientID),
		zap.String("practitioner_id", ss.PractitionerID),
		zap.String("date", ss.Date),
		zap.String("time", ss.Time),
	)

	publish(ctx, s.bus, s.log, events.NewSessionScheduled(*ss, s.now().UTC()))
	return ss, nil
}

func (s *SessionService) GetSession(ctx context.Context, caller Caller, id string) (*session.Session, error) {
	ss, err := s.sessions.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !caller.canAccessPatient(ss.PatientID) {
		return nil, ErrForbidden
	}
	return ss, nil
}

func (s *SessionService) ListSessions(ctx context.Context, caller Caller) ([]session.Session, error) {
	if caller.Role == domain.RolePatient {
		return s.sessions.GetByPatient(ctx, caller.PatientID)
	}
	return s.sessions.GetAll(ctx)
}

func (s *SessionService) GetByPatient(ctx context.Context, caller Caller, patientID string) ([]session.Session, error) {
	if !caller.canAccessPatient(patientID) {
		return nil, ErrForbidden
	}
	return s.sessions.GetByPatient(ctx, patientID)
}

func (s *SessionService) GetByPractitioner(ctx context.Context, caller Caller, practitionerID string) ([]session.Session, error) {
	if !caller.isStaff() {
		return nil, ErrForbidden
	}
	return s.sessions.GetByPractitioner(ctx, practitionerID)
}

func (s *SessionService) GetByDateRange(ctx context.Context, caller Caller, from, to string) ([]session.Session, error) {
	var errs []string
	errs = checkDate(errs, "from", from)
	errs = checkDate(errs, "to", to)
	if len(errs) == 0 && from > to {
		errs = append(errs, "from must not be after to")
	}
	if err := validationErr(errs); err != nil {
		return nil, err
	}

	list, err := s.sessions.GetByDateRange(ctx, from, to)
	if err != nil {
		return nil, err
	}
	return s.scope(caller, list), nil
}

// GetUpcoming returns Scheduled sessions from today on, earliest first.
func (s *SessionService) GetUpcoming(ctx context.Context, caller Caller, limit int) ([]session.Session, error) {
	today := domain.Today(s.now())
	if caller.Role == domain.RolePatient {
		own, err := s.sessions.GetByPatient(ctx, caller.PatientID)
		if err != nil {
			return nil, err
		}
		return session.Upcoming(own, today, limit), nil
	}
	return s.sessions.GetUpcoming(ctx, today, limit)
}

func (s *SessionService) Stats(ctx context.Context, caller Caller) (session.Stats, error) {
	list, err := s.ListSessions(ctx, caller)
	if err != nil {
		return session.Stats{}, err
	}
	return session.ComputeStats(list), nil
}

// UpdateStatus moves a session through its lifecycle. Patients may only cancel
// their own sessions.
func (s *SessionService) UpdateStatus(ctx context.Context, caller Caller, id string, next session.Status) (*session.Session, error) {
	return s.UpdateSession(ctx, caller, id, &session.UpdateSessionCommand{Status: &next})
}

func (s *SessionService) UpdateSession(ctx context.Context, caller Caller, id string, cmd *session.UpdateSessionCommand) (_ *session.Session, err error) {
	ctx, span := startSpan(ctx, "SessionService.UpdateSession", attribute.String("session.id", id))
	defer func() { endSpan(span, err) }()

	if caller.Role == domain.RolePatient && !patientMayUpdate(cmd) {
		return nil, ErrForbidden
	}

	var previous session.Status
	updated, err := s.sessions.Modify(ctx, id, func(ss *session.Session) error {
		if !caller.canAccessPatient(ss.PatientID) {
			return ErrForbidden
		}
		previous = ss.Status
		return ss.Apply(cmd)
	})
	if err != nil {
		return nil, err
	}

	changes := ""
	if updated.Status != previous {
		changes = fmt.Sprintf(`{"status":{"from":%q,"to":%q}}`, previous, updated.Status)
	}
	s.auditSvc.LogAsync(ctx, caller, AuditEntry{Action: domain.ActionUpdate, ResourceType: "session", ResourceID: id, Changes: changes})

	if updated.Status != previous {
		s.countSession(updated.Status)
		s.log.Info("session status changed",
			zap.String("session_id", id),
			zap.String("from", string(previous)),
			zap.String("to", string(updated.Status)),
		)
		publish(ctx, s.bus, s.log, events.NewSessionStatusChanged(*updated, previous, s.now().UTC()))
	}
	return updated, nil
}

func (s *SessionService) DeleteSession(ctx context.Context, caller Caller, id string) error {
	if caller.Role != domain.RoleAdmin {
		return ErrForbidden
	}
	if err := s.sessions.Delete(ctx, id); err != nil {
		return err
	}
	s.auditSvc.LogAsync(ctx, caller, AuditEntry{Action: domain.ActionDelete, ResourceType: "session", ResourceID: id})
	return nil
}

func (s *SessionService) scope(caller Caller, list []session.Session) []session.Session {
	if caller.Role != domain.RolePatient {
		return list
	}
	out := make([]session.Session, 0, len(list))
	for _, ss := range list {
		if ss.PatientID == caller.PatientID {
			out = append(out, ss)
		}
	}
	return out
}

func (s *SessionService) countSession(st session.Status) {
	if s.metrics != nil {
		s.metrics.SessionsTotal.WithLabelValues(string(st)).Inc()
	}
}

// A patient may cancel and nothing else.
func patientMayUpdate(cmd *session.UpdateSessionCommand) bool {
	return cmd.Status != nil && *cmd.Status == session.StatusCancelled &&
		cmd.Notes == nil && cmd.PreSessionChecklist == nil && cmd.PostSessionNotes == nil &&
		cmd.Duration == nil && cmd.Room == nil
}

func validateScheduleSession(cmd *session.ScheduleSessionCommand) error {
	var errs []string

	errs = requireString(errs, "patientId", cmd.PatientID)
	errs = requireString(errs, "therapyTypeId", cmd.TherapyTypeID)
	errs = requireString(errs, "practitionerId", cmd.PractitionerID)
	errs = checkDate(errs, "date", cmd.Date)
	errs = checkClock(errs, "time", cmd.Time)
	if cmd.Duration < 0 || cmd.Duration > 480 {
		errs = append(errs, "duration must be between 0 and 480 minutes")
	}

	return validationErr(errs)
}
