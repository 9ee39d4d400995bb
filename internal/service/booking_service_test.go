package service

import (
	"context"
	"errors"
	"slices"
	"testing"
	"time"

	"github.com/dmehra2102/prod-golang-projects/zentherapy/internal/domain/appointment"
	"github.com/dmehra2102/prod-golang-projects/zentherapy/internal/domain/practitioner"
)

func booking(date, clock string) *appointment.CreateAppointmentCommand {
	return &appointment.CreateAppointmentCommand{
		PatientName:    "Anita Desai",
		PatientEmail:   "anita@example.com",
		PatientPhone:   "+91 90000 11111",
		PractitionerID: vikram,
		ServiceID:      "shirodhara",
		Date:           date,
		Time:           clock,
	}
}

func TestGenerateAvailableSlots(t *testing.T) {
	f := newFixture(t)

	// 2024-10-07 is a Monday; Dr. Arya Menon works 09:00-17:00.
	slots, err := f.booking.GenerateAvailableSlots(f.ctx, arya, "2024-10-07")
	if err != nil {
		t.Fatal(err)
	}
	want := []string{"09:00", "10:00", "11:00", "12:00", "13:00", "14:00", "15:00", "16:00"}
	if !slices.Equal(slots, want) {
		t.Fatalf("slots = %v, want %v", slots, want)
	}

	priya := f.addPatient(t, "Priya Sharma")
	if _, err := f.sessions.ScheduleSession(f.ctx, admin, schedule(priya, arya, "2024-10-07", "11:00")); err != nil {
		t.Fatal(err)
	}
	cmd := booking("2024-10-07", "10:00")
	cmd.PractitionerID = arya
	if _, err := f.booking.CreateAppointment(f.ctx, admin, cmd); err != nil {
		t.Fatal(err)
	}

	slots, err = f.booking.GenerateAvailableSlots(f.ctx, arya, "2024-10-07")
	if err != nil {
		t.Fatal(err)
	}
	if slices.Contains(slots, "10:00") || slices.Contains(slots, "11:00") || len(slots) != 6 {
		t.Errorf("slots = %v, want 10:00 and 11:00 excluded", slots)
	}

	sunday, err := f.booking.GenerateAvailableSlots(f.ctx, arya, "2024-10-06")
	if err != nil || len(sunday) != 0 {
		t.Errorf("sunday slots = %v, %v; want none", sunday, err)
	}

	if _, err := f.booking.GenerateAvailableSlots(f.ctx, "nobody", "2024-10-07"); !errors.Is(err, practitioner.ErrPractitionerNotFound) {
		t.Errorf("unknown practitioner error = %v", err)
	}
}

func TestCreateAppointmentConflict(t *testing.T) {
	f := newFixture(t)

	a, err := f.booking.CreateAppointment(f.ctx, admin, booking("2024-10-05", "14:00"))
	if err != nil {
		t.Fatalf("CreateAppointment() error = %v", err)
	}
	if a.Status != appointment.StatusPending || a.PaymentStatus != appointment.PaymentPending {
		t.Errorf("status = %s/%s, want pending/pending", a.Status, a.PaymentStatus)
	}
	if a.Amount != 3000 {
		t.Errorf("amount = %v, want the therapy price 3000", a.Amount)
	}
	if a.Room != "Room B" {
		t.Errorf("room = %q, want the room picked by the random source", a.Room)
	}

	if _, err := f.booking.CreateAppointment(f.ctx, admin, booking("2024-10-05", "14:00")); !errors.Is(err, appointment.ErrSlotTaken) {
		t.Fatalf("second booking error = %v, want ErrSlotTaken", err)
	}

	if _, err := f.booking.CancelAppointment(f.ctx, admin, a.ID); err != nil {
		t.Fatal(err)
	}
	if _, err := f.booking.CreateAppointment(f.ctx, admin, booking("2024-10-05", "14:00")); err != nil {
		t.Errorf("booking a cancelled slot: %v", err)
	}
}

func TestCreateAppointmentValidation(t *testing.T) {
	f := newFixture(t)

	_, err := f.booking.CreateAppointment(f.ctx, admin, &appointment.CreateAppointmentCommand{
		PatientName: "Anita Desai",
		Date:        "2024-10-05",
	})
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("error = %v, want *ValidationError", err)
	}
	if len(verr.Fields) != 5 {
		t.Errorf("fields = %v, want the five missing ones", verr.Fields)
	}
}

func TestProcessPayment(t *testing.T) {
	f := newFixture(t)

	f.booking.random = fixedRandom{f: 0.89}
	res, err := f.booking.ProcessPayment(f.ctx, 2500)
	if err != nil || !res.Success || res.TransactionID == "" || res.Amount != 2500 {
		t.Errorf("ProcessPayment() = %+v, %v; want success", res, err)
	}

	f.booking.random = fixedRandom{f: 0.9}
	res, err = f.booking.ProcessPayment(f.ctx, 2500)
	if err != nil || res.Success || res.Error == "" {
		t.Errorf("ProcessPayment() = %+v, %v; want failure", res, err)
	}

	f.booking.cfg.PaymentDelay = time.Hour
	ctx, cancel := context.WithCancel(f.ctx)
	cancel()
	if _, err := f.booking.ProcessPayment(ctx, 2500); !errors.Is(err, context.Canceled) {
		t.Errorf("cancelled payment error = %v, want context.Canceled", err)
	}
}

func TestPayForAppointment(t *testing.T) {
	f := newFixture(t)
	a, err := f.booking.CreateAppointment(f.ctx, admin, booking("2024-10-07", "10:00"))
	if err != nil {
		t.Fatal(err)
	}

	f.booking.random = fixedRandom{f: 0.95}
	failed, res, err := f.booking.PayForAppointment(f.ctx, admin, a.ID)
	if err != nil {
		t.Fatal(err)
	}
	if res.Success || failed.PaymentStatus != appointment.PaymentFailed || failed.Status != appointment.StatusPending {
		t.Errorf("after failed payment = %s/%s", failed.Status, failed.PaymentStatus)
	}

	f.booking.random = fixedRandom{f: 0.1}
	paid, res, err := f.booking.PayForAppointment(f.ctx, admin, a.ID)
	if err != nil {
		t.Fatal(err)
	}
	if !res.Success || paid.PaymentStatus != appointment.PaymentPaid || paid.Status != appointment.StatusConfirmed || paid.TransactionID != res.TransactionID {
		t.Errorf("after payment = %+v", paid)
	}

	if _, _, err := f.booking.PayForAppointment(f.ctx, admin, a.ID); !errors.Is(err, appointment.ErrAlreadyPaid) {
		t.Errorf("second payment error = %v, want ErrAlreadyPaid", err)
	}

	if _, err := f.booking.CompleteAppointment(f.ctx, staff, a.ID); err != nil {
		t.Errorf("CompleteAppointment() error = %v", err)
	}
	if _, err := f.booking.CancelAppointment(f.ctx, admin, a.ID); !errors.Is(err, appointment.ErrInvalidStatusTransition) {
		t.Errorf("cancelling a completed appointment: error = %v", err)
	}
}

func TestPatientAppointmentScope(t *testing.T) {
	f := newFixture(t)
	priya := f.addPatient(t, "Priya Sharma")
	rahul := f.addPatient(t, "Rahul Verma")

	cmd := booking("2024-10-07", "10:00")
	cmd.PatientID = rahul
	if _, err := f.booking.CreateAppointment(f.ctx, patientCaller(priya), cmd); !errors.Is(err, ErrForbidden) {
		t.Errorf("booking for another patient: error = %v", err)
	}

	own, err := f.booking.CreateAppointment(f.ctx, patientCaller(priya), booking("2024-10-07", "11:00"))
	if err != nil {
		t.Fatal(err)
	}
	if own.PatientID != priya {
		t.Errorf("PatientID = %q, want the caller's", own.PatientID)
	}
	if _, err := f.booking.CreateAppointment(f.ctx, admin, booking("2024-10-07", "12:00")); err != nil {
		t.Fatal(err)
	}

	list, err := f.booking.ListAppointments(f.ctx, patientCaller(priya))
	if err != nil {
		t.Fatal(err)
	}
	if len(list) != 1 || list[0].ID != own.ID {
		t.Errorf("ListAppointments() = %v, want only the caller's", list)
	}
}
