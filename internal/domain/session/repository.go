package session

import "context"

type Repository interface {
	GetAll(ctx context.Context) ([]Session, error)
	GetByID(ctx context.Context, id string) (*Session, error)
	Create(ctx context.Context, s *Session) error

	// CreateUnlessConflict runs conflict against every stored session and
	// appends s only if none returns an error, within one atomic update.
	CreateUnlessConflict(ctx context.Context, s *Session, conflict func(existing *Session) error) error

	Update(ctx context.Context, id string, cmd *UpdateSessionCommand) (*Session, error)

	// Modify applies fn to the stored session atomically. An fn error aborts the write.
	Modify(ctx context.Context, id string, fn func(s *Session) error) (*Session, error)

	Delete(ctx context.Context, id string) error

	GetByPatient(ctx context.Context, patientID string) ([]Session, error)
	GetByPractitioner(ctx context.Context, practitionerID string) ([]Session, error)

	// GetByDateRange is inclusive on both ends.
	GetByDateRange(ctx context.Context, from, to string) ([]Session, error)
	GetUpcoming(ctx context.Context, today string, limit int) ([]Session, error)
}
