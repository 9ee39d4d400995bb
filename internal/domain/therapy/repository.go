package therapy

import "context"

type Repository interface {
	GetAll(ctx context.Context) ([]TherapyType, error)
	GetByID(ctx context.Context, id string) (*TherapyType, error)

	// Create keeps a preset id (catalog seeding) and assigns one otherwise.
	Create(ctx context.Context, t *TherapyType) error

	Update(ctx context.Context, id string, cmd *UpdateTherapyCommand) (*TherapyType, error)
	Delete(ctx context.Context, id string) error
}
