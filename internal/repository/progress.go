package repository

import (
	"context"

	"github.com/dmehra2102/prod-golang-projects/zentherapy/internal/domain/progress"
	"github.com/dmehra2102/prod-golang-projects/zentherapy/internal/kv"
)

var _ progress.Repository = (*ProgressRepository)(nil)

type ProgressRepository struct {
	c collection[progress.Milestone]
}

func NewProgressRepository(store kv.Store) *ProgressRepository {
	return &ProgressRepository{
		c: newCollection(store, kv.KeyProgress, func(m *progress.Milestone) string { return m.ID }, progress.ErrMilestoneNotFound),
	}
}

func (r *ProgressRepository) GetAll(ctx context.Context) ([]progress.Milestone, error) {
	return r.c.all(ctx)
}

func (r *ProgressRepository) GetByID(ctx context.Context, id string) (*progress.Milestone, error) {
	return r.c.find(ctx, id)
}

func (r *ProgressRepository) Create(ctx context.Context, m *progress.Milestone) error {
	if m.ID == "" {
		m.ID = newID()
	}
	if m.Status == "" {
		m.Status = progress.StatusPending
	}
	return r.c.insert(ctx, *m, nil)
}

func (r *ProgressRepository) Delete(ctx context.Context, id string) error {
	return r.c.remove(ctx, id)
}

func (r *ProgressRepository) GetMilestones(ctx context.Context, patientID string) ([]progress.Milestone, error) {
	return r.c.filter(ctx, func(m *progress.Milestone) bool { return m.PatientID == patientID })
}

func (r *ProgressRepository) UpdateMilestone(ctx context.Context, id string, cmd *progress.UpdateMilestoneCommand, today string) (*progress.Milestone, error) {
	return r.c.modify(ctx, id, func(m *progress.Milestone) error { return m.Apply(cmd, today) })
}

func (r *ProgressRepository) UpdateEach(ctx context.Context, fn func(*progress.Milestone) bool) ([]progress.Milestone, error) {
	return r.c.modifyEach(ctx, fn)
}

func (r *ProgressRepository) GetProgressStats(ctx context.Context, patientID string) (progress.Stats, error) {
	list, err := r.c.filter(ctx, func(m *progress.Milestone) bool { return patientID == "" || m.PatientID == patientID })
	if err != nil {
		return progress.Stats{}, err
	}
	return progress.ComputeStats(list), nil
}
