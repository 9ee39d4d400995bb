package service

import (
	"errors"
	"testing"

	"github.com/dmehra2102/prod-golang-projects/zentherapy/internal/domain/notification"
	"github.com/dmehra2102/prod-golang-projects/zentherapy/internal/domain/practitioner"
	"github.com/dmehra2102/prod-golang-projects/zentherapy/internal/domain/session"
)

func schedule(pid, practitionerID, date, clock string) *session.ScheduleSessionCommand {
	return &session.ScheduleSessionCommand{
		PatientID:      pid,
		TherapyTypeID:  "abhyanga",
		PractitionerID: practitionerID,
		Date:           date,
		Time:           clock,
	}
}

func TestScheduleSessionConflicts(t *testing.T) {
	f := newFixture(t)
	priya := f.addPatient(t, "Priya Sharma")
	rahul := f.addPatient(t, "Rahul Verma")

	first, err := f.sessions.ScheduleSession(f.ctx, admin, schedule(priya, arya, "2024-10-07", "10:00"))
	if err != nil {
		t.Fatalf("ScheduleSession() error = %v", err)
	}
	if first.Status != session.StatusScheduled || first.Duration != 60 {
		t.Errorf("session = %+v, want Scheduled with therapy duration 60", first)
	}

	tests := []struct {
		name string
		cmd  *session.ScheduleSessionCommand
		want error
	}{
		{"same patient other practitioner", schedule(priya, vikram, "2024-10-07", "10:00"), session.ErrPatientDoubleBooked},
		{"same practitioner other patient", schedule(rahul, arya, "2024-10-07", "10:00"), session.ErrPractitionerDoubleBooked},
		{"sunday off", schedule(rahul, arya, "2024-10-06", "10:00"), practitioner.ErrOutsideWorkingHours},
		{"after hours", schedule(rahul, arya, "2024-10-07", "17:00"), practitioner.ErrOutsideWorkingHours},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := f.sessions.ScheduleSession(f.ctx, admin, tt.cmd); !errors.Is(err, tt.want) {
				t.Errorf("ScheduleSession() error = %v, want %v", err, tt.want)
			}
		})
	}

	if _, err := f.sessions.UpdateStatus(f.ctx, admin, first.ID, session.StatusCancelled); err != nil {
		t.Fatalf("cancel: %v", err)
	}
	if _, err := f.sessions.ScheduleSession(f.ctx, admin, schedule(rahul, arya, "2024-10-07", "10:00")); err != nil {
		t.Errorf("slot freed by cancellation was not bookable: %v", err)
	}
}

func TestScheduleSessionValidation(t *testing.T) {
	f := newFixture(t)
	priya := f.addPatient(t, "Priya Sharma")

	_, err := f.sessions.ScheduleSession(f.ctx, admin, schedule(priya, arya, "07/10/2024", "10am"))
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("error = %v, want *ValidationError", err)
	}
	if len(verr.Fields) != 2 {
		t.Errorf("fields = %v, want date and time", verr.Fields)
	}
}

func TestScheduleSessionCreatesReminders(t *testing.T) {
	f := newFixture(t)
	priya := f.addPatient(t, "Priya Sharma")

	ss, err := f.sessions.ScheduleSession(f.ctx, admin, schedule(priya, arya, "2024-10-07", "11:00"))
	if err != nil {
		t.Fatal(err)
	}

	list, err := f.notificationRepo.GetByPatient(f.ctx, priya)
	if err != nil {
		t.Fatal(err)
	}
	types := map[notification.Type]bool{}
	for _, n := range list {
		if n.SessionID != ss.ID {
			t.Errorf("notification %s points at session %s", n.ID, n.SessionID)
		}
		types[n.Type] = true
	}
	if !types[notification.TypeReminder] || !types[notification.TypePreCare] {
		t.Errorf("notification types = %v, want Reminder and Pre-Care", types)
	}
}

func TestUpdateStatusTransitions(t *testing.T) {
	f := newFixture(t)
	priya := f.addPatient(t, "Priya Sharma")
	ss, err := f.sessions.ScheduleSession(f.ctx, admin, schedule(priya, arya, "2024-10-07", "12:00"))
	if err != nil {
		t.Fatal(err)
	}

	if _, err := f.sessions.UpdateStatus(f.ctx, staff, ss.ID, session.StatusCompleted); !errors.Is(err, session.ErrInvalidStatusTransition) {
		t.Fatalf("Scheduled -> Completed error = %v, want ErrInvalidStatusTransition", err)
	}
	stored, _ := f.sessionRepo.GetByID(f.ctx, ss.ID)
	if stored.Status != session.StatusScheduled {
		t.Errorf("rejected transition changed status to %s", stored.Status)
	}

	for _, next := range []session.Status{session.StatusInProgress, session.StatusCompleted} {
		if _, err := f.sessions.UpdateStatus(f.ctx, staff, ss.ID, next); err != nil {
			t.Fatalf("-> %s: %v", next, err)
		}
	}

	list, _ := f.notificationRepo.GetByPatient(f.ctx, priya)
	postCare := 0
	for _, n := range list {
		if n.Type == notification.TypePostCare {
			postCare++
		}
	}
	if postCare != 1 {
		t.Errorf("post-care notifications = %d, want 1", postCare)
	}
}

func TestPatientSessionAccess(t *testing.T) {
	f := newFixture(t)
	priya := f.addPatient(t, "Priya Sharma")
	rahul := f.addPatient(t, "Rahul Verma")

	if _, err := f.sessions.ScheduleSession(f.ctx, patientCaller(priya), schedule(rahul, arya, "2024-10-07", "10:00")); !errors.Is(err, ErrForbidden) {
		t.Errorf("booking for another patient: error = %v, want ErrForbidden", err)
	}

	own, err := f.sessions.ScheduleSession(f.ctx, patientCaller(priya), schedule(priya, arya, "2024-10-07", "10:00"))
	if err != nil {
		t.Fatal(err)
	}
	other, err := f.sessions.ScheduleSession(f.ctx, admin, schedule(rahul, vikram, "2024-10-07", "10:00"))
	if err != nil {
		t.Fatal(err)
	}

	list, err := f.sessions.ListSessions(f.ctx, patientCaller(priya))
	if err != nil {
		t.Fatal(err)
	}
	if len(list) != 1 || list[0].ID != own.ID {
		t.Errorf("ListSessions() = %v, want only the caller's session", list)
	}
	if _, err := f.sessions.GetSession(f.ctx, patientCaller(priya), other.ID); !errors.Is(err, ErrForbidden) {
		t.Errorf("GetSession(other) error = %v, want ErrForbidden", err)
	}
	if _, err := f.sessions.UpdateStatus(f.ctx, patientCaller(priya), own.ID, session.StatusInProgress); !errors.Is(err, ErrForbidden) {
		t.Errorf("patient starting a session: error = %v, want ErrForbidden", err)
	}
	if _, err := f.sessions.UpdateStatus(f.ctx, patientCaller(priya), other.ID, session.StatusCancelled); !errors.Is(err, ErrForbidden) {
		t.Errorf("patient cancelling another patient's session: error = %v, want ErrForbidden", err)
	}
	if _, err := f.sessions.UpdateStatus(f.ctx, patientCaller(priya), own.ID, session.StatusCancelled); err != nil {
		t.Errorf("patient cancelling own session: %v", err)
	}
}

func TestGetUpcoming(t *testing.T) {
	f := newFixture(t)
	priya := f.addPatient(t, "Priya Sharma")

	for _, c := range []struct{ date, clock string }{
		{"2024-10-08", "09:00"},
		{"2024-10-07", "15:00"},
		{"2024-10-07", "09:00"},
	} {
		if _, err := f.sessions.ScheduleSession(f.ctx, admin, schedule(priya, arya, c.date, c.clock)); err != nil {
			t.Fatal(err)
		}
	}

	got, err := f.sessions.GetUpcoming(f.ctx, patientCaller(priya), 2)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 2 || got[0].Time != "09:00" || got[0].Date != "2024-10-07" || got[1].Time != "15:00" {
		t.Errorf("GetUpcoming() = %+v", got)
	}
}

func TestScheduleSessionRespectsAppointments(t *testing.T) {
	f := newFixture(t)
	priya := f.addPatient(t, "Priya Sharma")

	cmd := booking("2024-10-07", "14:00")
	cmd.PractitionerID = arya
	a, err := f.booking.CreateAppointment(f.ctx, admin, cmd)
	if err != nil {
		t.Fatalf("CreateAppointment() error = %v", err)
	}

	if _, err := f.sessions.ScheduleSession(f.ctx, admin, schedule(priya, arya, "2024-10-07", "14:00")); !errors.Is(err, session.ErrPractitionerDoubleBooked) {
		t.Fatalf("ScheduleSession() error = %v, want %v", err, session.ErrPractitionerDoubleBooked)
	}

	if _, err := f.booking.CancelAppointment(f.ctx, admin, a.ID); err != nil {
		t.Fatalf("CancelAppointment() error = %v", err)
	}
	if _, err := f.sessions.ScheduleSession(f.ctx, admin, schedule(priya, arya, "2024-10-07", "14:00")); err != nil {
		t.Errorf("slot freed by cancelled appointment was not schedulable: %v", err)
	}
}
