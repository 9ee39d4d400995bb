package repository

import (
	"context"

	"github.com/dmehra2102/prod-golang-projects/zentherapy/internal/domain/notification"
	"github.com/dmehra2102/prod-golang-projects/zentherapy/internal/kv"
)

var _ notification.Repository = (*NotificationRepository)(nil)

type NotificationRepository struct {
	c   collection[notification.Notification]
	now Clock
}

func NewNotificationRepository(store kv.Store, now Clock) *NotificationRepository {
	return &NotificationRepository{
		c:   newCollection(store, kv.KeyNotifications, func(n *notification.Notification) string { return n.ID }, notification.ErrNotificationNotFound),
		now: now,
	}
}

func (r *NotificationRepository) GetAll(ctx context.Context) ([]notification.Notification, error) {
	return r.c.all(ctx)
}

func (r *NotificationRepository) GetByID(ctx context.Context, id string) (*notification.Notification, error) {
	return r.c.find(ctx, id)
}

func (r *NotificationRepository) Create(ctx context.Context, n *notification.Notification) error {
	if n.ID == "" {
		n.ID = newID()
	}
	if n.Timestamp.IsZero() {
		n.Timestamp = r.now.now()
	}
	return r.c.insert(ctx, *n, nil)
}

func (r *NotificationRepository) GetUnread(ctx context.Context) ([]notification.Notification, error) {
	return r.c.filter(ctx, func(n *notification.Notification) bool { return !n.Read })
}

func (r *NotificationRepository) GetByPatient(ctx context.Context, patientID string) ([]notification.Notification, error) {
	return r.c.filter(ctx, func(n *notification.Notification) bool { return n.PatientID == patientID })
}

func (r *NotificationRepository) MarkAsRead(ctx context.Context, id string) (*notification.Notification, error) {
	return r.c.modify(ctx, id, func(n *notification.Notification) error {
		n.Read = true
		return nil
	})
}

func (r *NotificationRepository) MarkAllAsRead(ctx context.Context) (int, error) {
	return r.markRead(ctx, func(*notification.Notification) bool { return true })
}

func (r *NotificationRepository) MarkAllAsReadForPatient(ctx context.Context, patientID string) (int, error) {
	return r.markRead(ctx, func(n *notification.Notification) bool { return n.PatientID == patientID })
}

func (r *NotificationRepository) markRead(ctx context.Context, match func(*notification.Notification) bool) (int, error) {
	changed, err := r.c.modifyEach(ctx, func(n *notification.Notification) bool {
		if n.Read || !match(n) {
			return false
		}
		n.Read = true
		return true
	})
	if err != nil {
		return 0, err
	}
	return len(changed), nil
}
