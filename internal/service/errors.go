package service

import (
	"errors"
	"strings"

	"github.com/dmehra2102/prod-golang-projects/zentherapy/internal/domain"
)

var ErrForbidden = errors.New("forbidden: insufficient permissions")

type ValidationError struct {
	Fields []string
}

func (e *ValidationError) Error() string {
	return "validation failed: " + strings.Join(e.Fields, "; ")
}

func validationErr(fields []string) error {
	if len(fields) == 0 {
		return nil
	}
	return &ValidationError{Fields: fields}
}

// Caller identifies who is invoking a service operation.
type Caller struct {
	UserID         string
	Role           domain.Role
	PatientID      string
	PractitionerID string
	IP             string
}

// SystemCaller is used by background jobs and seeding.
var SystemCaller = Caller{UserID: "system", Role: domain.RoleAdmin}

func CallerFromClaims(c *domain.Claims, ip string) Caller {
	return Caller{
		UserID:         c.UserID,
		Role:           c.Role,
		PatientID:      c.PatientID,
		PractitionerID: c.PractitionerID,
		IP:             ip,
	}
}

// RBAC: patients can only reach their own records.
func (c Caller) canAccessPatient(patientID string) bool {
	if c.Role != domain.RolePatient {
		return true
	}
	return c.PatientID != "" && c.PatientID == patientID
}

func (c Caller) isStaff() bool {
	return c.Role == domain.RoleAdmin || c.Role == domain.RolePractitioner
}

type AuditEntry struct {
	Action       domain.AuditAction
	ResourceType string
	ResourceID   string
	Changes      string
}
