package repository

import (
	"context"

	"github.com/dmehra2102/prod-golang-projects/zentherapy/internal/domain/feedback"
	"github.com/dmehra2102/prod-golang-projects/zentherapy/internal/kv"
)

var _ feedback.Repository = (*FeedbackRepository)(nil)

type FeedbackRepository struct {
	c   collection[feedback.Feedback]
	now Clock
}

func NewFeedbackRepository(store kv.Store, now Clock) *FeedbackRepository {
	return &FeedbackRepository{
		c:   newCollection(store, kv.KeyFeedback, func(f *feedback.Feedback) string { return f.ID }, feedback.ErrFeedbackNotFound),
		now: now,
	}
}

func (r *FeedbackRepository) GetAll(ctx context.Context) ([]feedback.Feedback, error) {
	return r.c.all(ctx)
}

func (r *FeedbackRepository) GetByID(ctx context.Context, id string) (*feedback.Feedback, error) {
	return r.c.find(ctx, id)
}

func (r *FeedbackRepository) Create(ctx context.Context, f *feedback.Feedback) error {
	if f.ID == "" {
		f.ID = newID()
	}
	if f.Timestamp.IsZero() {
		f.Timestamp = r.now.now()
	}
	return r.c.insert(ctx, *f, nil)
}

func (r *FeedbackRepository) Update(ctx context.Context, id string, cmd *feedback.UpdateFeedbackCommand, validate func(*feedback.Feedback) error) (*feedback.Feedback, error) {
	return r.c.modify(ctx, id, func(f *feedback.Feedback) error {
		f.Apply(cmd)
		if validate != nil {
			return validate(f)
		}
		return nil
	})
}

func (r *FeedbackRepository) Delete(ctx context.Context, id string) error {
	return r.c.remove(ctx, id)
}

func (r *FeedbackRepository) GetBySession(ctx context.Context, sessionID string) ([]feedback.Feedback, error) {
	return r.c.filter(ctx, func(f *feedback.Feedback) bool { return f.SessionID == sessionID })
}

func (r *FeedbackRepository) GetByPatient(ctx context.Context, patientID string) ([]feedback.Feedback, error) {
	return r.c.filter(ctx, func(f *feedback.Feedback) bool { return f.PatientID == patientID })
}

func (r *FeedbackRepository) GetAverageRating(ctx context.Context, patientID string) (float64, error) {
	list, err := r.c.filter(ctx, func(f *feedback.Feedback) bool {
		return patientID == "" || f.PatientID == patientID
	})
	if err != nil {
		return 0, err
	}
	return feedback.AverageRating(list), nil
}
