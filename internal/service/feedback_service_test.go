package service

import (
	"errors"
	"testing"

	"github.com/samber/lo"

	"github.com/dmehra2102/prod-golang-projects/zentherapy/internal/domain/feedback"
	"github.com/dmehra2102/prod-golang-projects/zentherapy/internal/domain/notification"
	"github.com/dmehra2102/prod-golang-projects/zentherapy/internal/domain/progress"
)

func rated(sessionID, patientID string, rating int) *feedback.SubmitFeedbackCommand {
	return &feedback.SubmitFeedbackCommand{
		SessionID:     sessionID,
		PatientID:     patientID,
		Rating:        rating,
		Comfort:       4,
		Effectiveness: 4,
		Mood:          feedback.MoodGood,
		EnergyLevel:   7,
		SleepQuality:  6,
		Digestion:     8,
	}
}

func (f *fixture) addMilestone(t *testing.T, patientID string, status progress.Status, target, current float64) *progress.Milestone {
	t.Helper()
	m, err := f.progress.CreateMilestone(f.ctx, admin, &progress.CreateMilestoneCommand{
		PatientID:  patientID,
		Title:      "Improve Sleep Quality",
		TargetDate: "2024-12-31",
		Status:     status,
		Category:   progress.CategoryPhysical,
		Metrics:    []progress.Metric{{Name: "Sleep hours", Target: target, Current: current, Unit: "hours"}},
	})
	if err != nil {
		t.Fatalf("CreateMilestone() error = %v", err)
	}
	return m
}

func progressNotifications(t *testing.T, f *fixture, patientID string) []notification.Notification {
	t.Helper()
	list, err := f.notificationRepo.GetByPatient(f.ctx, patientID)
	if err != nil {
		t.Fatal(err)
	}
	return lo.Filter(list, func(n notification.Notification, _ int) bool { return n.Type == notification.TypeProgress })
}

func TestPositiveFeedbackAchievesMilestone(t *testing.T) {
	f := newFixture(t)
	priya := f.addPatient(t, "Priya Sharma")
	ss, err := f.sessions.ScheduleSession(f.ctx, admin, schedule(priya, arya, "2024-10-07", "10:00"))
	if err != nil {
		t.Fatal(err)
	}
	m := f.addMilestone(t, priya, progress.StatusInProgress, 10, 9)

	if _, err := f.feedback.SubmitFeedback(f.ctx, patientCaller(priya), rated(ss.ID, priya, 5)); err != nil {
		t.Fatalf("SubmitFeedback() error = %v", err)
	}

	got, err := f.progressRepo.GetByID(f.ctx, m.ID)
	if err != nil {
		t.Fatal(err)
	}
	if got.Metrics[0].Current != 10 {
		t.Errorf("current = %v, want 10", got.Metrics[0].Current)
	}
	if got.Status != progress.StatusAchieved || got.AchievedDate != "2024-10-01" {
		t.Errorf("milestone = %s on %q, want Achieved on 2024-10-01", got.Status, got.AchievedDate)
	}

	notes := progressNotifications(t, f, priya)
	if len(notes) != 1 || notes[0].Title != "Milestone Achieved!" || notes[0].Priority != notification.PriorityHigh {
		t.Errorf("progress notifications = %+v, want one Milestone Achieved!", notes)
	}
}

func TestFeedbackNudge(t *testing.T) {
	f := newFixture(t)
	priya := f.addPatient(t, "Priya Sharma")
	ss, err := f.sessions.ScheduleSession(f.ctx, admin, schedule(priya, arya, "2024-10-07", "10:00"))
	if err != nil {
		t.Fatal(err)
	}
	open := f.addMilestone(t, priya, progress.StatusInProgress, 10, 2)
	pending := f.addMilestone(t, priya, progress.StatusPending, 10, 2)

	if _, err := f.feedback.SubmitFeedback(f.ctx, admin, rated(ss.ID, priya, 3)); err != nil {
		t.Fatal(err)
	}
	got, _ := f.progressRepo.GetByID(f.ctx, open.ID)
	if got.Metrics[0].Current != 2 {
		t.Errorf("rating 3 moved current to %v", got.Metrics[0].Current)
	}

	if _, err := f.feedback.SubmitFeedback(f.ctx, admin, rated(ss.ID, priya, 4)); err != nil {
		t.Fatal(err)
	}
	got, _ = f.progressRepo.GetByID(f.ctx, open.ID)
	if got.Metrics[0].Current != 3 || got.Status != progress.StatusInProgress {
		t.Errorf("after rating 4 = %v/%s, want 3/In Progress", got.Metrics[0].Current, got.Status)
	}
	untouched, _ := f.progressRepo.GetByID(f.ctx, pending.ID)
	if untouched.Metrics[0].Current != 2 {
		t.Errorf("pending milestone moved to %v", untouched.Metrics[0].Current)
	}
	if n := progressNotifications(t, f, priya); len(n) != 0 {
		t.Errorf("progress notifications = %d, want 0", len(n))
	}
}

func TestSubmitFeedbackChecks(t *testing.T) {
	f := newFixture(t)
	priya := f.addPatient(t, "Priya Sharma")
	rahul := f.addPatient(t, "Rahul Verma")
	ss, err := f.sessions.ScheduleSession(f.ctx, admin, schedule(priya, arya, "2024-10-07", "10:00"))
	if err != nil {
		t.Fatal(err)
	}

	var verr *ValidationError
	if _, err := f.feedback.SubmitFeedback(f.ctx, admin, rated(ss.ID, rahul, 5)); !errors.As(err, &verr) {
		t.Errorf("feedback on another patient's session: error = %v", err)
	}
	if _, err := f.feedback.SubmitFeedback(f.ctx, patientCaller(rahul), rated(ss.ID, priya, 5)); !errors.Is(err, ErrForbidden) {
		t.Errorf("submitting for another patient: error = %v", err)
	}

	bad := rated(ss.ID, priya, 6)
	bad.EnergyLevel = 0
	if _, err := f.feedback.SubmitFeedback(f.ctx, admin, bad); !errors.As(err, &verr) || len(verr.Fields) != 2 {
		t.Errorf("out of range scores: error = %v", err)
	}

	if _, err := f.feedback.SubmitFeedback(f.ctx, admin, rated(ss.ID, priya, 4)); err != nil {
		t.Fatal(err)
	}
	if _, err := f.feedback.SubmitFeedback(f.ctx, admin, rated(ss.ID, priya, 2)); err != nil {
		t.Fatal(err)
	}
	avg, err := f.feedback.AverageRating(f.ctx, patientCaller(priya), priya)
	if err != nil || avg != 3 {
		t.Errorf("AverageRating() = %v, %v; want 3", avg, err)
	}
	if _, err := f.feedback.AverageRating(f.ctx, patientCaller(priya), ""); !errors.Is(err, ErrForbidden) {
		t.Errorf("patient asking for the clinic average: error = %v", err)
	}
}
