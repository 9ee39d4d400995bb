package session

import (
	"cmp"
	"slices"
	"time"
)

// State transitions:
//
//	Scheduled → In Progress → Completed
//	Scheduled → Cancelled
//	In Progress → Cancelled
//
// Completed and Cancelled are terminal.
type Status string

const (
	StatusScheduled  Status = "Scheduled"
	StatusInProgress Status = "In Progress"
	StatusCompleted  Status = "Completed"
	StatusCancelled  Status = "Cancelled"
)

var validTransitions = map[Status][]Status{
	StatusScheduled:  {StatusInProgress, StatusCancelled},
	StatusInProgress: {StatusCompleted, StatusCancelled},
	StatusCompleted:  {},
	StatusCancelled:  {},
}

func (s Status) IsValid() bool {
	_, ok := validTransitions[s]
	return ok
}

func (s Status) CanTransitionTo(next Status) bool {
	return slices.Contains(validTransitions[s], next)
}

type ChecklistItem struct {
	Item      string `json:"item"`
	Completed bool   `json:"completed"`
}

type Session struct {
	ID                  string          `json:"id"`
	PatientID           string          `json:"patientId"`
	TherapyTypeID       string          `json:"therapyTypeId"`
	PractitionerID      string          `json:"practitionerId"`
	Date                string          `json:"date"` // YYYY-MM-DD
	Time                string          `json:"time"` // HH:mm
	Status              Status          `json:"status"`
	Notes               string          `json:"notes"`
	PreSessionChecklist []ChecklistItem `json:"preSessionChecklist"`
	PostSessionNotes    string          `json:"postSessionNotes"`
	Duration            int             `json:"duration"` // minutes
	Room                string          `json:"room"`
	ReminderSentAt      *time.Time      `json:"reminderSentAt,omitempty"`
	CreatedAt           time.Time       `json:"createdAt"`
	UpdatedAt           time.Time       `json:"updatedAt"`
}

// Holds reports whether the session still occupies its slot.
func (s *Session) Holds() bool {
	return s.Status != StatusCancelled
}

func (s *Session) At(date, clock string) bool {
	return s.Date == date && s.Time == clock
}

// StartsAt resolves the session start in loc. ok is false for malformed dates.
func (s *Session) StartsAt(loc *time.Location) (time.Time, bool) {
	t, err := time.ParseInLocation("2006-01-02 15:04", s.Date+" "+s.Time, loc)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

func (s *Session) TransitionTo(next Status) error {
	if !next.IsValid() {
		return ErrInvalidStatus
	}
	if !s.Status.CanTransitionTo(next) {
		return ErrInvalidStatusTransition
	}
	s.Status = next
	return nil
}

// Apply merges cmd into s. A status change goes through TransitionTo; on any
// error s is left untouched.
func (s *Session) Apply(cmd *UpdateSessionCommand) error {
	next := *s
	if cmd.Status != nil && *cmd.Status != s.Status {
		if err := next.TransitionTo(*cmd.Status); err != nil {
			return err
		}
	}
	if cmd.Notes != nil {
		next.Notes = *cmd.Notes
	}
	if cmd.PreSessionChecklist != nil {
		next.PreSessionChecklist = *cmd.PreSessionChecklist
	}
	if cmd.PostSessionNotes != nil {
		next.PostSessionNotes = *cmd.PostSessionNotes
	}
	if cmd.Duration != nil {
		next.Duration = *cmd.Duration
	}
	if cmd.Room != nil {
		next.Room = *cmd.Room
	}
	*s = next
	return nil
}

type ScheduleSessionCommand struct {
	PatientID           string          `json:"patientId"`
	TherapyTypeID       string          `json:"therapyTypeId"`
	PractitionerID      string          `json:"practitionerId"`
	Date                string          `json:"date"`
	Time                string          `json:"time"`
	Notes               string          `json:"notes"`
	PreSessionChecklist []ChecklistItem `json:"preSessionChecklist"`
	Duration            int             `json:"duration"`
	Room                string          `json:"room"`
}

// UpdateSessionCommand deliberately has no date, time or participant fields;
// rescheduling is cancel and book again.
type UpdateSessionCommand struct {
	Status              *Status          `json:"status"`
	Notes               *string          `json:"notes"`
	PreSessionChecklist *[]ChecklistItem `json:"preSessionChecklist"`
	PostSessionNotes    *string          `json:"postSessionNotes"`
	Duration            *int             `json:"duration"`
	Room                *string          `json:"room"`
}

// Upcoming returns Scheduled sessions dated today or later, earliest first.
// limit <= 0 means no limit.
func Upcoming(list []Session, today string, limit int) []Session {
	out := make([]Session, 0, len(list))
	for _, s := range list {
		if s.Status == StatusScheduled && s.Date >= today {
			out = append(out, s)
		}
	}
	slices.SortStableFunc(out, func(a, b Session) int {
		return cmp.Or(cmp.Compare(a.Date, b.Date), cmp.Compare(a.Time, b.Time))
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}

type Stats struct {
	Total      int `json:"total"`
	Scheduled  int `json:"scheduled"`
	InProgress int `json:"inProgress"`
	Completed  int `json:"completed"`
	Cancelled  int `json:"cancelled"`
}

func ComputeStats(list []Session) Stats {
	st := Stats{Total: len(list)}
	for _, s := range list {
		switch s.Status {
		case StatusScheduled:
			st.Scheduled++
		case StatusInProgress:
			st.InProgress++
		case StatusCompleted:
			st.Completed++
		case StatusCancelled:
			st.Cancelled++
		}
	}
	return st
}
