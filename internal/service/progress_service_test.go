package service

import (
	"errors"
	"testing"

	"github.com/dmehra2102/prod-golang-projects/zentherapy/internal/domain/notification"
	"github.com/dmehra2102/prod-golang-projects/zentherapy/internal/domain/progress"
)

func TestMarkOverdue(t *testing.T) {
	f := newFixture(t)
	priya := f.addPatient(t, "Priya Sharma")
	late := f.addMilestone(t, priya, progress.StatusInProgress, 10, 2)
	onTime := f.addMilestone(t, priya, progress.StatusPending, 10, 2)
	done := f.addMilestone(t, priya, progress.StatusAchieved, 10, 10)

	for _, id := range []string{late.ID, done.ID} {
		past := "2024-09-01"
		if _, err := f.progressRepo.UpdateMilestone(f.ctx, id, &progress.UpdateMilestoneCommand{TargetDate: &past}, "2024-10-01"); err != nil {
			t.Fatal(err)
		}
	}

	changed, err := f.progress.MarkOverdue(f.ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(changed) != 1 || changed[0].ID != late.ID || changed[0].Status != progress.StatusOverdue {
		t.Fatalf("MarkOverdue() = %+v, want only the late milestone", changed)
	}
	for _, id := range []string{onTime.ID, done.ID} {
		m, _ := f.progressRepo.GetByID(f.ctx, id)
		if m.Status == progress.StatusOverdue {
			t.Errorf("milestone %s marked overdue", id)
		}
	}

	again, err := f.progress.MarkOverdue(f.ctx)
	if err != nil || len(again) != 0 {
		t.Errorf("second MarkOverdue() = %d changed, %v", len(again), err)
	}
}

func TestUpdateMilestone(t *testing.T) {
	f := newFixture(t)
	priya := f.addPatient(t, "Priya Sharma")
	m := f.addMilestone(t, priya, progress.StatusPending, 10, 2)

	achieved := progress.StatusAchieved
	if _, err := f.progress.UpdateMilestone(f.ctx, patientCaller(priya), m.ID, &progress.UpdateMilestoneCommand{Status: &achieved}); !errors.Is(err, ErrForbidden) {
		t.Errorf("patient update: error = %v", err)
	}

	got, err := f.progress.UpdateMilestone(f.ctx, staff, m.ID, &progress.UpdateMilestoneCommand{Status: &achieved})
	if err != nil {
		t.Fatal(err)
	}
	if got.AchievedDate != "2024-10-01" {
		t.Errorf("AchievedDate = %q", got.AchievedDate)
	}

	pending := progress.StatusPending
	if _, err := f.progress.UpdateMilestone(f.ctx, staff, m.ID, &progress.UpdateMilestoneCommand{Status: &pending}); !errors.Is(err, progress.ErrInvalidStatusTransition) {
		t.Errorf("reopening an achieved milestone: error = %v", err)
	}

	st, err := f.progress.Stats(f.ctx, staff, "")
	if err != nil {
		t.Fatal(err)
	}
	if st.Total != 1 || st.Achieved != 1 || st.CompletionPercentage != 100 {
		t.Errorf("Stats() = %+v", st)
	}
}

func TestMarkAllAsReadForPatient(t *testing.T) {
	f := newFixture(t)
	priya := f.addPatient(t, "Priya Sharma")
	rahul := f.addPatient(t, "Rahul Verma")
	for _, pid := range []string{priya, priya, rahul} {
		if _, err := f.notifications.CreateNotification(f.ctx, staff, &notification.CreateNotificationCommand{
			Type:      notification.TypeAlert,
			Title:     "Clinic closed",
			Message:   "The clinic is closed on Diwali.",
			PatientID: pid,
			Channels:  notification.Channels{InApp: true},
		}); err != nil {
			t.Fatal(err)
		}
	}

	n, err := f.notifications.MarkAllAsRead(f.ctx, patientCaller(priya))
	if err != nil || n != 2 {
		t.Fatalf("MarkAllAsRead() = %d, %v; want 2", n, err)
	}
	unread, err := f.notifications.GetUnread(f.ctx, admin)
	if err != nil {
		t.Fatal(err)
	}
	if len(unread) != 1 || unread[0].PatientID != rahul {
		t.Errorf("unread = %+v, want only rahul's", unread)
	}

	if _, err := f.notifications.MarkAsRead(f.ctx, patientCaller(priya), unread[0].ID); !errors.Is(err, ErrForbidden) {
		t.Errorf("marking another patient's notification: error = %v", err)
	}
}

func TestAnalyticsSummary(t *testing.T) {
	f := newFixture(t)
	priya := f.addPatient(t, "Priya Sharma")
	if _, err := f.sessions.ScheduleSession(f.ctx, admin, schedule(priya, arya, "2024-10-07", "10:00")); err != nil {
		t.Fatal(err)
	}
	f.booking.random = fixedRandom{f: 0.1}
	a, err := f.booking.CreateAppointment(f.ctx, admin, booking("2024-10-07", "10:00"))
	if err != nil {
		t.Fatal(err)
	}
	if _, _, err := f.booking.PayForAppointment(f.ctx, admin, a.ID); err != nil {
		t.Fatal(err)
	}

	if _, err := f.analytics.Summary(f.ctx, patientCaller(priya)); !errors.Is(err, ErrForbidden) {
		t.Errorf("patient summary: error = %v", err)
	}
	sum, err := f.analytics.Summary(f.ctx, staff)
	if err != nil {
		t.Fatal(err)
	}
	if sum.Patients != 1 || sum.Sessions.Total != 1 || sum.Revenue != 3000 {
		t.Errorf("Summary() = %+v", sum)
	}
	// Reminder and Pre-Care for the scheduled session.
	if sum.UnreadNotifications != 2 {
		t.Errorf("UnreadNotifications = %d, want 2", sum.UnreadNotifications)
	}
}
