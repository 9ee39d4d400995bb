package service

import (
	"testing"

	"github.com/dmehra2102/prod-golang-projects/zentherapy/internal/domain/patient"
)

func TestUpdatePatientNormalizesContact(t *testing.T) {
	f := newFixture(t)
	id := f.addPatient(t, "Priya Sharma")

	email := "  Priya.Sharma@Example.COM "
	name := " Priya S. "
	phone := " +91 98765 43210 "
	p, err := f.patients.UpdatePatient(f.ctx, admin, id, &patient.UpdatePatientCommand{
		Name:  &name,
		Email: &email,
		Phone: &phone,
	})
	if err != nil {
		t.Fatalf("UpdatePatient() error = %v", err)
	}
	if p.Email != "priya.sharma@example.com" || p.Name != "Priya S." || p.Phone != "+91 98765 43210" {
		t.Errorf("patient = %q %q %q, want trimmed values and a lowercase email", p.Name, p.Email, p.Phone)
	}

	stored, err := f.patientRepo.GetByID(f.ctx, id)
	if err != nil {
		t.Fatal(err)
	}
	if stored.Email != "priya.sharma@example.com" {
		t.Errorf("stored email = %q", stored.Email)
	}
}
