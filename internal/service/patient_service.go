package service

import (
	"context"
	"fmt"
	"net/mail"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/dmehra2102/prod-golang-projects/zentherapy/internal/domain"
	"github.com/dmehra2102/prod-golang-projects/zentherapy/internal/domain/patient"
)

type PatientService struct {
	repo     patient.Repository
	auditSvc *AuditService
	log      *zap.Logger
	now      func() time.Time
}

func NewPatientService(repo patient.Repository, auditSvc *AuditService, log *zap.Logger) *PatientService {
	return &PatientService{
		repo:     repo,
		auditSvc: auditSvc,
		log:      log,
		now:      time.Now,
	}
}

func (s *PatientService) CreatePatient(ctx context.Context, caller Caller, cmd *patient.CreatePatientCommand) (*patient.Patient, error) {
	if !caller.isStaff() {
		return nil, ErrForbidden
	}
	if err := validateCreatePatient(cmd); err != nil {
		return nil, err
	}

	enrolled := cmd.EnrollmentDate
	if enrolled == "" {
		enrolled = domain.Today(s.now())
	}

	p := &patient.Patient{
		Name:             strings.TrimSpace(cmd.Name),
		Email:            strings.ToLower(strings.TrimSpace(cmd.Email)),
		Phone:            strings.TrimSpace(cmd.Phone),
		Address:          cmd.Address,
		DateOfBirth:      cmd.DateOfBirth,
		MedicalHistory:   cmd.MedicalHistory,
		Constitution:     cmd.Constitution,
		EnrollmentDate:   enrolled,
		Status:           patient.StatusActive,
		EmergencyContact: cmd.EmergencyContact,
	}
	if p.MedicalHistory == nil {
		p.MedicalHistory = []string{}
	}

	if err := s.repo.Create(ctx, p); err != nil {
		s.log.Error("failed to create patient", zap.Error(err))
		return nil, fmt.Errorf("creating patient: %w", err)
	}

	s.auditSvc.LogAsync(ctx, caller, AuditEntry{Action: domain.ActionCreate, ResourceType: "patient", ResourceID: p.ID})

	s.log.Info("patient created",
		zap.String("patient_id", p.ID),
		zap.String("created_by", caller.UserID),
	)

	return p, nil
}

func (s *PatientService) GetPatient(ctx context.Context, caller Caller, id string) (*patient.Patient, error) {
	// RBAC: patients can only read their own record
	if !caller.canAccessPatient(id) {
		return nil, ErrForbidden
	}

	p, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	s.auditSvc.LogAsync(ctx, caller, AuditEntry{Action: domain.ActionRead, ResourceType: "patient", ResourceID: id})

	return p, nil
}

// ListPatients returns every patient to staff and only the caller's own record
// to a patient.
func (s *PatientService) ListPatients(ctx context.Context, caller Caller) ([]patient.Patient, error) {
	if caller.Role == domain.RolePatient {
		p, err := s.GetPatient(ctx, caller, caller.PatientID)
		if err != nil {
			return nil, err
		}
		return []patient.Patient{*p}, nil
	}
	return s.repo.GetAll(ctx)
}

func (s *PatientService) UpdatePatient(ctx context.Context, caller Caller, id string, cmd *patient.UpdatePatientCommand) (*patient.Patient, error) {
	if !caller.canAccessPatient(id) {
		return nil, ErrForbidden
	}
	// Treatment status is managed by the clinic.
	if caller.Role == domain.RolePatient && cmd.Status != nil {
		return nil, ErrForbidden
	}
	normalizeUpdatePatient(cmd)
	if err := validateUpdatePatient(cmd); err != nil {
		return nil, err
	}

	p, err := s.repo.Update(ctx, id, cmd)
	if err != nil {
		return nil, err
	}

	s.auditSvc.LogAsync(ctx, caller, AuditEntry{Action: domain.ActionUpdate, ResourceType: "patient", ResourceID: id})
	return p, nil
}

func (s *PatientService) DeletePatient(ctx context.Context, caller Caller, id string) error {
	if caller.Role != domain.RoleAdmin {
		return ErrForbidden
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}

	s.auditSvc.LogAsync(ctx, caller, AuditEntry{Action: domain.ActionDelete, ResourceType: "patient", ResourceID: id})
	s.log.Info("patient deleted", zap.String("patient_id", id), zap.String("deleted_by", caller.UserID))
	return nil
}

func validateCreatePatient(cmd *patient.CreatePatientCommand) error {
	var errs []string

	errs = requireString(errs, "name", cmd.Name)
	errs = requireString(errs, "phone", cmd.Phone)
	if _, err := mail.ParseAddress(cmd.Email); err != nil {
		errs = append(errs, "email is invalid")
	}
	if cmd.DateOfBirth != "" {
		errs = checkDate(errs, "dateOfBirth", cmd.DateOfBirth)
	}
	if cmd.EnrollmentDate != "" {
		errs = checkDate(errs, "enrollmentDate", cmd.EnrollmentDate)
	}
	if !cmd.Constitution.IsValid() {
		errs = append(errs, "constitution must be one of Vata, Pitta, Kapha, Mixed")
	}

	return validationErr(errs)
}

// normalizeUpdatePatient applies the same cleanup CreatePatient does.
func normalizeUpdatePatient(cmd *patient.UpdatePatientCommand) {
	if cmd.Name != nil {
		*cmd.Name = strings.TrimSpace(*cmd.Name)
	}
	if cmd.Email != nil {
		*cmd.Email = strings.ToLower(strings.TrimSpace(*cmd.Email))
	}
	if cmd.Phone != nil {
		*cmd.Phone = strings.TrimSpace(*cmd.Phone)
	}
}

func validateUpdatePatient(cmd *patient.UpdatePatientCommand) error {
	var errs []string

	if cmd.Name != nil {
		errs = requireString(errs, "name", *cmd.Name)
	}
	if cmd.Email != nil {
		if _, err := mail.ParseAddress(*cmd.Email); err != nil {
			errs = append(errs, "email is invalid")
		}
	}
	if cmd.DateOfBirth != nil && *cmd.DateOfBirth != "" {
		errs = checkDate(errs, "dateOfBirth", *cmd.DateOfBirth)
	}

	return validationErr(errs)
}
