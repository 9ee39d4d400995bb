package progress

import "context"

type Repository interface {
	GetAll(ctx context.Context) ([]Milestone, error)
	GetByID(ctx context.Context, id string) (*Milestone, error)
	Create(ctx context.Context, m *Milestone) error
	Delete(ctx context.Context, id string) error

	GetMilestones(ctx context.Context, patientID string) ([]Milestone, error)
	UpdateMilestone(ctx context.Context, id string, cmd *UpdateMilestoneCommand, today string) (*Milestone, error)

	// UpdateEach calls fn on every stored milestone inside one atomic update and
	// returns the ones for which fn reported a change.
	UpdateEach(ctx context.Context, fn func(m *Milestone) bool) ([]Milestone, error)

	// GetProgressStats covers every patient when patientID is empty.
	GetProgressStats(ctx context.Context, patientID string) (Stats, error)
}
