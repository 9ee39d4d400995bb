package feedback

import "context"

type Repository interface {
	GetAll(ctx context.Context) ([]Feedback, error)
	GetByID(ctx context.Context, id string) (*Feedback, error)
	Create(ctx context.Context, f *Feedback) error

	// Update returns ErrFeedbackNotFound when absent. validate runs on the merged
	// record and its error aborts the write.
	Update(ctx context.Context, id string, cmd *UpdateFeedbackCommand, validate func(*Feedback) error) (*Feedback, error)

	Delete(ctx context.Context, id string) error
	GetBySession(ctx context.Context, sessionID string) ([]Feedback, error)
	GetByPatient(ctx context.Context, patientID string) ([]Feedback, error)

	// GetAverageRating averages over all feedback when patientID is empty.
	GetAverageRating(ctx context.Context, patientID string) (float64, error)
}
