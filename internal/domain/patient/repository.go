package patient

import "context"

type Repository interface {
	GetAll(ctx context.Context) ([]Patient, error)

	// GetByID returns ErrPatientNotFound if no patient has the id.
	GetByID(ctx context.Context, id string) (*Patient, error)

	// Create assigns a fresh id and timestamps, then appends the patient.
	Create(ctx context.Context, p *Patient) error

	Update(ctx context.Context, id string, cmd *UpdatePatientCommand) (*Patient, error)
	Delete(ctx context.Context, id string) error
}
