package appointment

import "context"

type Repository interface {
	GetAll(ctx context.Context) ([]Appointment, error)
	GetByID(ctx context.Context, id string) (*Appointment, error)
	GetByPractitionerAndDate(ctx context.Context, practitionerID, date string) ([]Appointment, error)
	Create(ctx context.Context, a *Appointment) error

	// CreateUnlessConflict appends a only if conflict accepts every stored
	// appointment, within one atomic update.
	CreateUnlessConflict(ctx context.Context, a *Appointment, conflict func(existing *Appointment) error) error

	Update(ctx context.Context, id string, cmd *UpdateAppointmentCommand) (*Appointment, error)

	// Modify applies fn to the stored appointment atomically. An fn error aborts the write.
	Modify(ctx context.Context, id string, fn func(a *Appointment) error) (*Appointment, error)
}
