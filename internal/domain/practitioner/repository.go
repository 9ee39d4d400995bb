package practitioner

import "context"

type Repository interface {
	GetAll(ctx context.Context) ([]Practitioner, error)
	GetByID(ctx context.Context, id string) (*Practitioner, error)

	// Create keeps a preset id (catalog seeding) and assigns one otherwise.
	Create(ctx context.Context, p *Practitioner) error

	Update(ctx context.Context, id string, cmd *UpdatePractitionerCommand) (*Practitioner, error)
	Delete(ctx context.Context, id string) error
}
