package session

import (
	"errors"
	"testing"
)

func TestTransitionTo(t *testing.T) {
	tests := []struct {
		from, to Status
		wantErr  error
	}{
		{StatusScheduled, StatusInProgress, nil},
		{StatusScheduled, StatusCancelled, nil},
		{StatusInProgress, StatusCompleted, nil},
		{StatusInProgress, StatusCancelled, nil},
		{StatusScheduled, StatusCompleted, ErrInvalidStatusTransition},
		{StatusCancelled, StatusCompleted, ErrInvalidStatusTransition},
		{StatusCancelled, StatusScheduled, ErrInvalidStatusTransition},
		{StatusCompleted, StatusInProgress, ErrInvalidStatusTransition},
		{StatusScheduled, Status("Done"), ErrInvalidStatus},
	}

	for _, tt := range tests {
		t.Run(string(tt.from)+"->"+string(tt.to), func(t *testing.T) {
			s := Session{Status: tt.from}
			err := s.TransitionTo(tt.to)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("TransitionTo() error = %v, want %v", err, tt.wantErr)
			}
			if tt.wantErr != nil && s.Status != tt.from {
				t.Errorf("status mutated to %q on rejected transition", s.Status)
			}
		})
	}
}

func TestApplyLeavesSessionUntouchedOnError(t *testing.T) {
	completed := StatusCompleted
	notes := "changed"
	s := Session{Status: StatusCancelled, Notes: "original"}

	err := s.Apply(&UpdateSessionCommand{Status: &completed, Notes: &notes})
	if !errors.Is(err, ErrInvalidStatusTransition) {
		t.Fatalf("Apply() error = %v, want ErrInvalidStatusTransition", err)
	}
	if s.Notes != "original" || s.Status != StatusCancelled {
		t.Errorf("session mutated: %+v", s)
	}
}

func TestUpcoming(t *testing.T) {
	list := []Session{
		{ID: "past", Date: "2024-10-01", Time: "09:00", Status: StatusScheduled},
		{ID: "late", Date: "2024-10-06", Time: "15:00", Status: StatusScheduled},
		{ID: "early", Date: "2024-10-06", Time: "09:00", Status: StatusScheduled},
		{ID: "today", Date: "2024-10-05", Time: "18:00", Status: StatusScheduled},
		{ID: "cancelled", Date: "2024-10-05", Time: "10:00", Status: StatusCancelled},
		{ID: "running", Date: "2024-10-05", Time: "08:00", Status: StatusInProgress},
	}

	got := Upcoming(list, "2024-10-05", 0)
	want := []string{"today", "early", "late"}
	if len(got) != len(want) {
		t.Fatalf("Upcoming() returned %d sessions, want %d", len(got), len(want))
	}
	for i, id := range want {
		if got[i].ID != id {
			t.Errorf("Upcoming()[%d] = %s, want %s", i, got[i].ID, id)
		}
	}

	if limited := Upcoming(list, "2024-10-05", 2); len(limited) != 2 || limited[1].ID != "early" {
		t.Errorf("Upcoming() with limit 2 = %+v", limited)
	}
}

func TestComputeStats(t *testing.T) {
	st := ComputeStats([]Session{
		{Status: StatusScheduled},
		{Status: StatusScheduled},
		{Status: StatusCompleted},
		{Status: StatusCancelled},
	})
	want := Stats{Total: 4, Scheduled: 2, Completed: 1, Cancelled: 1}
	if st != want {
		t.Errorf("ComputeStats() = %+v, want %+v", st, want)
	}
}
