package service

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/dmehra2102/prod-golang-projects/zentherapy/internal/domain"
	"github.com/dmehra2102/prod-golang-projects/zentherapy/internal/domain/progress"
	"github.com/dmehra2102/prod-golang-projects/zentherapy/internal/events"
	"github.com/dmehra2102/prod-golang-projects/zentherapy/pkg/metrics"
)

type ProgressService struct {
	repo     progress.Repository
	bus      Publisher
	auditSvc *AuditService
	metrics  *metrics.Collector
	log      *zap.Logger
	now      func() time.Time
}

func NewProgressService(repo progress.Repository, bus Publisher, auditSvc *AuditService, m *metrics.Collector, log *zap.Logger) *ProgressService {
	return &ProgressService{repo: repo, bus: bus, auditSvc: auditSvc, metrics: m, log: log, now: time.Now}
}

func (s *ProgressService) CreateMilestone(ctx context.Context, caller Caller, cmd *progress.CreateMilestoneCommand) (*progress.Milestone, error) {
	if !caller.isStaff() {
		return nil, ErrForbidden
	}

	var errs []string
	errs = requireString(errs, "patientId", cmd.PatientID)
	errs = requireString(errs, "title", cmd.Title)
	if cmd.TargetDate != "" {
		errs = checkDate(errs, "targetDate", cmd.TargetDate)
	}
	if !cmd.Category.IsValid() {
		errs = append(errs, progress.ErrInvalidCategory.Error())
	}
	if cmd.Status != "" && !cmd.Status.IsValid() {
		errs = append(errs, progress.ErrInvalidStatus.Error())
	}
	for _, m := range cmd.Metrics {
		if m.Target <= 0 {
			errs = append(errs, fmt.Sprintf("metric %q target must be positive", m.Name))
		}
	}
	if err := validationErr(errs); err != nil {
		return nil, err
	}

	m := &progress.Milestone{
		PatientID:   cmd.PatientID,
		Title:       cmd.Title,
		Description: cmd.Description,
		TargetDate:  cmd.TargetDate,
		Status:      cmd.Status,
		Category:    cmd.Category,
		Metrics:     cmd.Metrics,
	}
	if m.Metrics == nil {
		m.Metrics = []progress.Metric{}
	}
	if m.Status == progress.StatusAchieved {
		m.AchievedDate = domain.Today(s.now())
	}

	if err := s.repo.Create(ctx, m); err != nil {
		return nil, fmt.Errorf("creating milestone: %w", err)
	}
	s.auditSvc.LogAsync(ctx, caller, AuditEntry{Action: domain.ActionCreate, ResourceType: "milestone", ResourceID: m.ID})
	return m, nil
}

func (s *ProgressService) GetMilestones(ctx context.Context, caller Caller, patientID string) ([]progress.Milestone, error) {
	if !caller.canAccessPatient(patientID) {
		return nil, ErrForbidden
	}
	return s.repo.GetMilestones(ctx, patientID)
}

func (s *ProgressService) ListMilestones(ctx context.Context, caller Caller) ([]progress.Milestone, error) {
	if caller.Role == domain.RolePatient {
		return s.repo.GetMilestones(ctx, caller.PatientID)
	}
	return s.repo.GetAll(ctx)
}

func (s *ProgressService) GetMilestone(ctx context.Context, caller Caller, id string) (*progress.Milestone, error) {
	m, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !caller.canAccessPatient(m.PatientID) {
		return nil, ErrForbidden
	}
	return m, nil
}

// UpdateMilestone applies a staff edit. Reaching Achieved announces the
// milestone the same way a feedback-driven achievement does.
func (s *ProgressService) UpdateMilestone(ctx context.Context, caller Caller, id string, cmd *progress.UpdateMilestoneCommand) (*progress.Milestone, error) {
	if !caller.isStaff() {
		return nil, ErrForbidden
	}
	if cmd.TargetDate != nil && *cmd.TargetDate != "" {
		if err := validationErr(checkDate(nil, "targetDate", *cmd.TargetDate)); err != nil {
			return nil, err
		}
	}

	now := s.now()
	before, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	m, err := s.repo.UpdateMilestone(ctx, id, cmd, domain.Today(now))
	if err != nil {
		return nil, err
	}
	s.auditSvc.LogAsync(ctx, caller, AuditEntry{Action: domain.ActionUpdate, ResourceType: "milestone", ResourceID: id})

	if before.Status != progress.StatusAchieved && m.Status == progress.StatusAchieved {
		if s.metrics != nil {
			s.metrics.MilestonesAchieved.Inc()
		}
		publish(ctx, s.bus, s.log, events.NewMilestoneAchieved(*m, now.UTC()))
	}
	return m, nil
}

func (s *ProgressService) DeleteMilestone(ctx context.Context, caller Caller, id string) error {
	if caller.Role != domain.RoleAdmin {
		return ErrForbidden
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.auditSvc.LogAsync(ctx, caller, AuditEntry{Action: domain.ActionDelete, ResourceType: "milestone", ResourceID: id})
	return nil
}

func (s *ProgressService) Stats(ctx context.Context, caller Caller, patientID string) (progress.Stats, error) {
	if !caller.canAccessPatient(patientID) {
		return progress.Stats{}, ErrForbidden
	}
	return s.repo.GetProgressStats(ctx, patientID)
}

// MarkOverdue flips open milestones whose target date has passed to Overdue
// and returns them.
func (s *ProgressService) MarkOverdue(ctx context.Context) ([]progress.Milestone, error) {
	today := domain.Today(s.now())
	changed, err := s.repo.UpdateEach(ctx, func(m *progress.Milestone) bool {
		if !m.IsPastDue(today) {
			return false
		}
		return m.TransitionTo(progress.StatusOverdue, today) == nil
	})
	if err != nil {
		return nil, fmt.Errorf("marking overdue milestones: %w", err)
	}
	if len(changed) > 0 {
		s.log.Info("milestones marked overdue", zap.Int("count", len(changed)))
	}
	return changed, nil
}
