package progress

import (
	"math"
	"slices"
)

// State transitions:
//
//	Pending → In Progress | Overdue | Achieved
//	In Progress → Achieved | Overdue
//	Overdue → In Progress | Achieved
//
// Achieved is terminal.
type Status string

const (
	StatusPending    Status = "Pending"
	StatusInProgress Status = "In Progress"
	StatusAchieved   Status = "Achieved"
	StatusOverdue    Status = "Overdue"
)

var validTransitions = map[Status][]Status{
	StatusPending:    {StatusInProgress, StatusOverdue, StatusAchieved},
	StatusInProgress: {StatusAchieved, StatusOverdue},
	StatusOverdue:    {StatusInProgress, StatusAchieved},
	StatusAchieved:   {},
}

func (s Status) IsValid() bool {
	_, ok := validTransitions[s]
	return ok
}

func (s Status) CanTransitionTo(next Status) bool {
	return slices.Contains(validTransitions[s], next)
}

type Category string

const (
	CategoryPhysical  Category = "Physical"
	CategoryMental    Category = "Mental"
	CategoryEmotional Category = "Emotional"
	CategoryLifestyle Category = "Lifestyle"
)

func (c Category) IsValid() bool {
	switch c {
	case CategoryPhysical, CategoryMental, CategoryEmotional, CategoryLifestyle:
		return true
	}
	return false
}

type Metric struct {
	Name    string  `json:"name"`
	Target  float64 `json:"target"`
	Current float64 `json:"current"`
	Unit    string  `json:"unit"`
}

func (m Metric) Met() bool {
	return m.Current >= m.Target
}

type Milestone struct {
	ID           string   `json:"id"`
	PatientID    string   `json:"patientId"`
	Title        string   `json:"title"`
	Description  string   `json:"description"`
	TargetDate   string   `json:"targetDate"`
	AchievedDate string   `json:"achievedDate,omitempty"`
	Status       Status   `json:"status"`
	Category     Category `json:"category"`
	Metrics      []Metric `json:"metrics"`
}

// AllMetricsMet is false for a milestone without metrics.
func (m *Milestone) AllMetricsMet() bool {
	if len(m.Metrics) == 0 {
		return false
	}
	for _, metric := range m.Metrics {
		if !metric.Met() {
			return false
		}
	}
	return true
}

// TransitionTo moves m to next, stamping AchievedDate with today on Achieved.
func (m *Milestone) TransitionTo(next Status, today string) error {
	if !next.IsValid() {
		return ErrInvalidStatus
	}
	if !m.Status.CanTransitionTo(next) {
		return ErrInvalidStatusTransition
	}
	m.Status = next
	if next == StatusAchieved {
		m.AchievedDate = today
	}
	return nil
}

// NudgeFraction of each metric's target is added per positive feedback.
const (
	NudgeFraction   = 0.1
	NudgeMinRating  = 4
	metricTolerance = 1e-9
)

// ApplyFeedbackNudge moves every metric of an In Progress milestone a tenth of
// its target toward that target when rating qualifies. It reports whether the
// milestone became Achieved.
func (m *Milestone) ApplyFeedbackNudge(rating int, today string) bool {
	if m.Status != StatusInProgress || rating < NudgeMinRating {
		return false
	}
	for i := range m.Metrics {
		metric := &m.Metrics[i]
		next := math.Min(metric.Current+metric.Target*NudgeFraction, metric.Target)
		if metric.Target-next < metricTolerance {
			next = metric.Target
		}
		if next > metric.Current {
			metric.Current = next
		}
	}
	if !m.AllMetricsMet() {
		return false
	}
	return m.TransitionTo(StatusAchieved, today) == nil
}

// IsPastDue reports whether an open milestone's target date lies before today.
func (m *Milestone) IsPastDue(today string) bool {
	if m.Status != StatusPending && m.Status != StatusInProgress {
		return false
	}
	return m.TargetDate != "" && m.TargetDate < today
}

// Apply merges cmd into m; status changes go through TransitionTo. On error m
// is left untouched.
func (m *Milestone) Apply(cmd *UpdateMilestoneCommand, today string) error {
	next := *m
	next.Metrics = slices.Clone(m.Metrics)

	if cmd.Title != nil {
		next.Title = *cmd.Title
	}
	if cmd.Description != nil {
		next.Description = *cmd.Description
	}
	if cmd.TargetDate != nil {
		next.TargetDate = *cmd.TargetDate
	}
	if cmd.Category != nil {
		if !cmd.Category.IsValid() {
			return ErrInvalidCategory
		}
		next.Category = *cmd.Category
	}
	if cmd.Metrics != nil {
		next.Metrics = *cmd.Metrics
	}
	if cmd.Status != nil && *cmd.Status != m.Status {
		if err := next.TransitionTo(*cmd.Status, today); err != nil {
			return err
		}
	}
	*m = next
	return nil
}

type CreateMilestoneCommand struct {
	PatientID   string   `json:"patientId"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	TargetDate  string   `json:"targetDate"`
	Status      Status   `json:"status"`
	Category    Category `json:"category"`
	Metrics     []Metric `json:"metrics"`
}

type UpdateMilestoneCommand struct {
	Title       *string   `json:"title"`
	Description *string   `json:"description"`
	TargetDate  *string   `json:"targetDate"`
	Status      *Status   `json:"status"`
	Category    *Category `json:"category"`
	Metrics     *[]Metric `json:"metrics"`
}

type Stats struct {
	Total                int     `json:"total"`
	Achieved             int     `json:"achieved"`
	InProgress           int     `json:"inProgress"`
	Pending              int     `json:"pending"`
	Overdue              int     `json:"overdue"`
	CompletionPercentage float64 `json:"completionPercentage"`
}

func ComputeStats(list []Milestone) Stats {
	st := Stats{Total: len(list)}
	for _, m := range list {
		switch m.Status {
		case StatusAchieved:
			st.Achieved++
		case StatusInProgress:
			st.InProgress++
		case StatusPending:
			st.Pending++
		case StatusOverdue:
			st.Overdue++
		}
	}
	if st.Total > 0 {
		st.CompletionPercentage = float64(st.Achieved) / float64(st.Total) * 100
	}
	return st
}
