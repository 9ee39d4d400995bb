package service

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/dmehra2102/prod-golang-projects/zentherapy/internal/domain"
	"github.com/dmehra2102/prod-golang-projects/zentherapy/internal/domain/feedback"
	"github.com/dmehra2102/prod-golang-projects/zentherapy/internal/domain/session"
	"github.com/dmehra2102/prod-golang-projects/zentherapy/internal/events"
	"github.com/dmehra2102/prod-golang-projects/zentherapy/pkg/metrics"
)

type FeedbackService struct {
	repo     feedback.Repository
	sessions session.Repository
	bus      Publisher
	auditSvc *AuditService
	metrics  *metrics.Collector
	log      *zap.Logger
	now      func() time.Time
}

func NewFeedbackService(
	repo feedback.Repository,
	sessions session.Repository,
	bus Publisher,
	auditSvc *AuditService,
	m *metrics.Collector,
	log *zap.Logger,
) *FeedbackService {
	return &FeedbackService{
		repo:     repo,
		sessions: sessions,
		bus:      bus,
		auditSvc: auditSvc,
		metrics:  m,
		log:      log,
		now:      time.Now,
	}
}

// SubmitFeedback stores a patient's feedback on a session and runs the
// progress workflow for it.
func (s *FeedbackService) SubmitFeedback(ctx context.Context, caller Caller, cmd *feedback.SubmitFeedbackCommand) (*feedback.Feedback, error) {
	if !caller.canAccessPatient(cmd.PatientID) {
		return nil, ErrForbidden
	}

	f := &feedback.Feedback{
		SessionID:       cmd.SessionID,
		PatientID:       cmd.PatientID,
		Rating:          cmd.Rating,
		Comfort:         cmd.Comfort,
		Effectiveness:   cmd.Effectiveness,
		Mood:            cmd.Mood,
		EnergyLevel:     cmd.EnergyLevel,
		SleepQuality:    cmd.SleepQuality,
		Digestion:       cmd.Digestion,
		Symptoms:        cmd.Symptoms,
		SideEffects:     cmd.SideEffects,
		Comments:        cmd.Comments,
		Recommendations: cmd.Recommendations,
	}

	var errs []string
	errs = requireString(errs, "sessionId", cmd.SessionID)
	errs = requireString(errs, "patientId", cmd.PatientID)
	errs = append(errs, f.Validate()...)
	if err := validationErr(errs); err != nil {
		return nil, err
	}

	ss, err := s.sessions.GetByID(ctx, cmd.SessionID)
	if err != nil {
		return nil, fmt.Errorf("verifying session: %w", err)
	}
	if ss.PatientID != cmd.PatientID {
		return nil, &ValidationError{Fields: []string{"sessionId does not belong to patientId"}}
	}

	if err := s.repo.Create(ctx, f); err != nil {
		s.log.Error("failed to store feedback", zap.Error(err))
		return nil, fmt.Errorf("creating feedback: %w", err)
	}

	if s.metrics != nil {
		s.metrics.FeedbackTotal.Inc()
	}
	s.auditSvc.LogAsync(ctx, caller, AuditEntry{Action: domain.ActionCreate, ResourceType: "feedback", ResourceID: f.ID})
	s.log.Info("feedback submitted",
		zap.String("feedback_id", f.ID),
		zap.String("session_id", f.SessionID),
		zap.Int("rating", f.Rating),
	)

	publish(ctx, s.bus, s.log, events.NewFeedbackSubmitted(*f, s.now().UTC()))
	return f, nil
}

func (s *FeedbackService) GetFeedback(ctx context.Context, caller Caller, id string) (*feedback.Feedback, error) {
	f, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !caller.canAccessPatient(f.PatientID) {
		return nil, ErrForbidden
	}
	return f, nil
}

func (s *FeedbackService) ListFeedback(ctx context.Context, caller Caller) ([]feedback.Feedback, error) {
	if caller.Role == domain.RolePatient {
		return s.repo.GetByPatient(ctx, caller.PatientID)
	}
	return s.repo.GetAll(ctx)
}

func (s *FeedbackService) GetBySession(ctx context.Context, caller Caller, sessionID string) ([]feedback.Feedback, error) {
	list, err := s.repo.GetBySession(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	for _, f := range list {
		if !caller.canAccessPatient(f.PatientID) {
			return nil, ErrForbidden
		}
	}
	return list, nil
}

func (s *FeedbackService) GetByPatient(ctx context.Context, caller Caller, patientID string) ([]feedback.Feedback, error) {
	if !caller.canAccessPatient(patientID) {
		return nil, ErrForbidden
	}
	return s.repo.GetByPatient(ctx, patientID)
}

// AverageRating averages over every feedback when patientID is empty, which
// only staff may ask for.
func (s *FeedbackService) AverageRating(ctx context.Context, caller Caller, patientID string) (float64, error) {
	if patientID == "" && !caller.isStaff() {
		return 0, ErrForbidden
	}
	if !caller.canAccessPatient(patientID) {
		return 0, ErrForbidden
	}
	return s.repo.GetAverageRating(ctx, patientID)
}

func (s *FeedbackService) UpdateFeedback(ctx context.Context, caller Caller, id string, cmd *feedback.UpdateFeedbackCommand) (*feedback.Feedback, error) {
	f, err := s.repo.Update(ctx, id, cmd, func(f *feedback.Feedback) error {
		if !caller.canAccessPatient(f.PatientID) {
			return ErrForbidden
		}
		return validationErr(f.Validate())
	})
	if err != nil {
		return nil, err
	}
	s.auditSvc.LogAsync(ctx, caller, AuditEntry{Action: domain.ActionUpdate, ResourceType: "feedback", ResourceID: id})
	return f, nil
}

func (s *FeedbackService) DeleteFeedback(ctx context.Context, caller Caller, id string) error {
	if caller.Role != domain.RoleAdmin {
		return ErrForbidden
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.auditSvc.LogAsync(ctx, caller, AuditEntry{Action: domain.ActionDelete, ResourceType: "feedback", ResourceID: id})
	return nil
}
