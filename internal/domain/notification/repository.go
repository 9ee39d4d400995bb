package notification

import "context"

type Repository interface {
	GetAll(ctx context.Context) ([]Notification, error)
	GetByID(ctx context.Context, id string) (*Notification, error)
	Create(ctx context.Context, n *Notification) error
	GetUnread(ctx context.Context) ([]Notification, error)
	GetByPatient(ctx context.Context, patientID string) ([]Notification, error)
	MarkAsRead(ctx context.Context, id string) (*Notification, error)

	// MarkAllAsRead returns how many notifications were unread before the call.
	MarkAllAsRead(ctx context.Context) (int, error)
	MarkAllAsReadForPatient(ctx context.Context, patientID string) (int, error)
}
