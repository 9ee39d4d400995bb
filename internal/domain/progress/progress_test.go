package progress

import (
	"errors"
	"testing"
)

func TestApplyFeedbackNudge(t *testing.T) {
	t.Run("reaches target and achieves", func(t *testing.T) {
		m := Milestone{
			Status:  StatusInProgress,
			Metrics: []Metric{{Name: "flexibility", Target: 10, Current: 9}},
		}
		if !m.ApplyFeedbackNudge(5, "2024-10-05") {
			t.Fatal("ApplyFeedbackNudge() = false, want achieved")
		}
		if m.Metrics[0].Current != 10 {
			t.Errorf("current = %v, want 10", m.Metrics[0].Current)
		}
		if m.Status != StatusAchieved || m.AchievedDate != "2024-10-05" {
			t.Errorf("status = %q achievedDate = %q", m.Status, m.AchievedDate)
		}
	})

	t.Run("caps at target", func(t *testing.T) {
		m := Milestone{
			Status: StatusInProgress,
			Metrics: []Metric{
				{Target: 10, Current: 9.5},
				{Target: 20, Current: 2},
			},
		}
		if m.ApplyFeedbackNudge(4, "2024-10-05") {
			t.Fatal("achieved with an unmet metric")
		}
		if m.Metrics[0].Current != 10 || m.Metrics[1].Current != 4 {
			t.Errorf("metrics = %+v", m.Metrics)
		}
		if m.Status != StatusInProgress {
			t.Errorf("status = %q, want In Progress", m.Status)
		}
	})

	t.Run("low rating is ignored", func(t *testing.T) {
		m := Milestone{Status: StatusInProgress, Metrics: []Metric{{Target: 10, Current: 9}}}
		if m.ApplyFeedbackNudge(3, "2024-10-05") || m.Metrics[0].Current != 9 {
			t.Errorf("rating 3 changed milestone: %+v", m)
		}
	})

	t.Run("only in progress milestones move", func(t *testing.T) {
		m := Milestone{Status: StatusPending, Metrics: []Metric{{Target: 10, Current: 9}}}
		if m.ApplyFeedbackNudge(5, "2024-10-05") || m.Metrics[0].Current != 9 {
			t.Errorf("pending milestone changed: %+v", m)
		}
	})

	t.Run("no metrics never achieves", func(t *testing.T) {
		m := Milestone{Status: StatusInProgress}
		if m.ApplyFeedbackNudge(5, "2024-10-05") {
			t.Error("milestone without metrics achieved")
		}
	})

	t.Run("accumulated fractions land on target", func(t *testing.T) {
		m := Milestone{Status: StatusInProgress, Metrics: []Metric{{Target: 3}}}
		achieved := false
		for range 10 {
			achieved = m.ApplyFeedbackNudge(5, "2024-10-05")
		}
		if !achieved {
			t.Errorf("ten nudges left current at %v", m.Metrics[0].Current)
		}
	})
}

func TestTransitionTo(t *testing.T) {
	m := Milestone{Status: StatusAchieved}
	if err := m.TransitionTo(StatusInProgress, "2024-10-05"); !errors.Is(err, ErrInvalidStatusTransition) {
		t.Errorf("Achieved -> In Progress error = %v", err)
	}

	m = Milestone{Status: StatusOverdue}
	if err := m.TransitionTo(StatusInProgress, "2024-10-05"); err != nil {
		t.Errorf("Overdue -> In Progress error = %v", err)
	}
	if err := m.TransitionTo(StatusPending, "2024-10-05"); !errors.Is(err, ErrInvalidStatusTransition) {
		t.Errorf("In Progress -> Pending error = %v", err)
	}
}

func TestIsPastDue(t *testing.T) {
	tests := []struct {
		m    Milestone
		want bool
	}{
		{Milestone{Status: StatusPending, TargetDate: "2024-10-01"}, true},
		{Milestone{Status: StatusInProgress, TargetDate: "2024-10-01"}, true},
		{Milestone{Status: StatusInProgress, TargetDate: "2024-10-05"}, false},
		{Milestone{Status: StatusAchieved, TargetDate: "2024-10-01"}, false},
		{Milestone{Status: StatusOverdue, TargetDate: "2024-10-01"}, false},
	}
	for _, tt := range tests {
		if got := tt.m.IsPastDue("2024-10-05"); got != tt.want {
			t.Errorf("IsPastDue(%+v) = %v, want %v", tt.m, got, tt.want)
		}
	}
}

func TestComputeStats(t *testing.T) {
	if st := ComputeStats(nil); st.CompletionPercentage != 0 || st.Total != 0 {
		t.Errorf("ComputeStats(nil) = %+v", st)
	}

	st := ComputeStats([]Milestone{
		{Status: StatusAchieved},
		{Status: StatusInProgress},
		{Status: StatusPending},
		{Status: StatusOverdue},
	})
	want := Stats{Total: 4, Achieved: 1, InProgress: 1, Pending: 1, Overdue: 1, CompletionPercentage: 25}
	if st != want {
		t.Errorf("ComputeStats() = %+v, want %+v", st, want)
	}
}
