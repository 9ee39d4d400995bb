package service

import (
	"context"
	"fmt"

	"github.com/samber/lo"
	"go.uber.org/zap"

	"github.com/dmehra2102/prod-golang-projects/zentherapy/internal/domain"
	"github.com/dmehra2102/prod-golang-projects/zentherapy/internal/domain/appointment"
	"github.com/dmehra2102/prod-golang-projects/zentherapy/internal/domain/practitioner"
	"github.com/dmehra2102/prod-golang-projects/zentherapy/internal/domain/session"
	"github.com/dmehra2102/prod-golang-projects/zentherapy/internal/domain/therapy"
)

// CatalogService manages therapy types and practitioners. Reads are open to
// every role; writes are admin only.
type CatalogService struct {
	therapies     therapy.Repository
	practitioners practitioner.Repository
	sessions      session.Repository
	appointments  appointment.Repository
	auditSvc      *AuditService
	log           *zap.Logger
}

func NewCatalogService(
	therapies therapy.Repository,
	practitioners practitioner.Repository,
	sessions session.Repository,
	appointments appointment.Repository,
	auditSvc *AuditService,
	log *zap.Logger,
) *CatalogService {
	return &CatalogService{
		therapies:     therapies,
		practitioners: practitioners,
		sessions:      sessions,
		appointments:  appointments,
		auditSvc:      auditSvc,
		log:           log,
	}
}

func (s *CatalogService) ListTherapies(ctx context.Context) ([]therapy.TherapyType, error) {
	return s.therapies.GetAll(ctx)
}

func (s *CatalogService) GetTherapy(ctx context.Context, id string) (*therapy.TherapyType, error) {
	return s.therapies.GetByID(ctx, id)
}

func (s *CatalogService) CreateTherapy(ctx context.Context, caller Caller, t *therapy.TherapyType) (*therapy.TherapyType, error) {
	if caller.Role != domain.RoleAdmin {
		return nil, ErrForbidden
	}
	var errs []string
	errs = requireString(errs, "name", t.Name)
	if err := t.Validate(); err != nil {
		errs = append(errs, err.Error())
	}
	if err := validationErr(errs); err != nil {
		return nil, err
	}

	if err := s.therapies.Create(ctx, t); err != nil {
		return nil, fmt.Errorf("creating therapy type: %w", err)
	}
	s.auditSvc.LogAsync(ctx, caller, AuditEntry{Action: domain.ActionCreate, ResourceType: "therapy", ResourceID: t.ID})
	return t, nil
}

func (s *CatalogService) UpdateTherapy(ctx context.Context, caller Caller, id string, cmd *therapy.UpdateTherapyCommand) (*therapy.TherapyType, error) {
	if caller.Role != domain.RoleAdmin {
		return nil, ErrForbidden
	}
	t, err := s.therapies.Update(ctx, id, cmd)
	if err != nil {
		return nil, err
	}
	s.auditSvc.LogAsync(ctx, caller, AuditEntry{Action: domain.ActionUpdate, ResourceType: "therapy", ResourceID: id})
	return t, nil
}

func (s *CatalogService) DeleteTherapy(ctx context.Context, caller Caller, id string) error {
	if caller.Role != domain.RoleAdmin {
		return ErrForbidden
	}
	if err := s.therapies.Delete(ctx, id); err != nil {
		return err
	}
	s.auditSvc.LogAsync(ctx, caller, AuditEntry{Action: domain.ActionDelete, ResourceType: "therapy", ResourceID: id})
	return nil
}

func (s *CatalogService) ListPractitioners(ctx context.Context) ([]practitioner.Practitioner, error) {
	return s.practitioners.GetAll(ctx)
}

func (s *CatalogService) GetPractitioner(ctx context.Context, id string) (*practitioner.Practitioner, error) {
	return s.practitioners.GetByID(ctx, id)
}

func (s *CatalogService) CreatePractitioner(ctx context.Context, caller Caller, p *practitioner.Practitioner) (*practitioner.Practitioner, error) {
	if caller.Role != domain.RoleAdmin {
		return nil, ErrForbidden
	}
	var errs []string
	errs = requireString(errs, "name", p.Name)
	if err := p.Validate(); err != nil {
		errs = append(errs, err.Error())
	}
	if err := validationErr(errs); err != nil {
		return nil, err
	}

	if err := s.practitioners.Create(ctx, p); err != nil {
		return nil, fmt.Errorf("creating practitioner: %w", err)
	}
	s.auditSvc.LogAsync(ctx, caller, AuditEntry{Action: domain.ActionCreate, ResourceType: "practitioner", ResourceID: p.ID})
	return p, nil
}

func (s *CatalogService) UpdatePractitioner(ctx context.Context, caller Caller, id string, cmd *practitioner.UpdatePractitionerCommand) (*practitioner.Practitioner, error) {
	if caller.Role != domain.RoleAdmin && caller.PractitionerID != id {
		return nil, ErrForbidden
	}
	p, err := s.practitioners.Update(ctx, id, cmd)
	if err != nil {
		return nil, err
	}
	s.auditSvc.LogAsync(ctx, caller, AuditEntry{Action: domain.ActionUpdate, ResourceType: "practitioner", ResourceID: id})
	return p, nil
}

func (s *CatalogService) DeletePractitioner(ctx context.Context, caller Caller, id string) error {
	if caller.Role != domain.RoleAdmin {
		return ErrForbidden
	}
	if err := s.practitioners.Delete(ctx, id); err != nil {
		return err
	}
	s.auditSvc.LogAsync(ctx, caller, AuditEntry{Action: domain.ActionDelete, ResourceType: "practitioner", ResourceID: id})
	return nil
}

// GetAvailablePractitioners lists practitioners working at date/clock who hold
// no non-cancelled session or appointment at that moment.
func (s *CatalogService) GetAvailablePractitioners(ctx context.Context, date, clock string) ([]practitioner.Practitioner, error) {
	var errs []string
	errs = checkDate(errs, "date", date)
	errs = checkClock(errs, "time", clock)
	if err := validationErr(errs); err != nil {
		return nil, err
	}

	all, err := s.practitioners.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	sessions, err := s.sessions.GetByDateRange(ctx, date, date)
	if err != nil {
		return nil, err
	}
	appointments, err := s.appointments.GetAll(ctx)
	if err != nil {
		return nil, err
	}

	busy := map[string]bool{}
	for _, ss := range sessions {
		if ss.Holds() && ss.At(date, clock) {
			busy[ss.PractitionerID] = true
		}
	}
	for _, a := range appointments {
		if a.Holds() && a.At(date, clock) {
			busy[a.PractitionerID] = true
		}
	}

	return lo.Filter(all, func(p practitioner.Practitioner, _ int) bool {
		return !busy[p.ID] && p.WorksAt(date, clock)
	}), nil
}
