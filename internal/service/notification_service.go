package service

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/dmehra2102/prod-golang-projects/zentherapy/internal/domain"
	"github.com/dmehra2102/prod-golang-projects/zentherapy/internal/domain/notification"
	"github.com/dmehra2102/prod-golang-projects/zentherapy/internal/events"
	"github.com/dmehra2102/prod-golang-projects/zentherapy/pkg/metrics"
)

type NotificationService struct {
	repo    notification.Repository
	bus     Publisher
	metrics *metrics.Collector
	log     *zap.Logger
	now     func() time.Time
}

func NewNotificationService(repo notification.Repository, bus Publisher, m *metrics.Collector, log *zap.Logger) *NotificationService {
	return &NotificationService{repo: repo, bus: bus, metrics: m, log: log, now: time.Now}
}

// CreateNotification stores a staff-authored notification and hands it to the
// outbox workflow.
func (s *NotificationService) CreateNotification(ctx context.Context, caller Caller, cmd *notification.CreateNotificationCommand) (*notification.Notification, error) {
	if !caller.isStaff() {
		return nil, ErrForbidden
	}

	var errs []string
	errs = requireString(errs, "title", cmd.Title)
	errs = requireString(errs, "message", cmd.Message)
	if !cmd.Type.IsValid() {
		errs = append(errs, notification.ErrInvalidType.Error())
	}
	priority := cmd.Priority
	if priority == "" {
		priority = notification.PriorityMedium
	}
	if !priority.IsValid() {
		errs = append(errs, notification.ErrInvalidPriority.Error())
	}
	if err := validationErr(errs); err != nil {
		return nil, err
	}

	n := &notification.Notification{
		Type:      cmd.Type,
		Title:     cmd.Title,
		Message:   cmd.Message,
		Timestamp: s.now().UTC(),
		PatientID: cmd.PatientID,
		SessionID: cmd.SessionID,
		Channels:  cmd.Channels,
		Priority:  priority,
	}
	if err := s.repo.Create(ctx, n); err != nil {
		return nil, fmt.Errorf("creating notification: %w", err)
	}
	if s.metrics != nil {
		s.metrics.NotificationsTotal.WithLabelValues(string(n.Type)).Inc()
	}

	publish(ctx, s.bus, s.log, events.NewNotificationCreated(*n, n.Timestamp))
	return n, nil
}

func (s *NotificationService) ListNotifications(ctx context.Context, caller Caller) ([]notification.Notification, error) {
	if caller.Role == domain.RolePatient {
		return s.repo.GetByPatient(ctx, caller.PatientID)
	}
	return s.repo.GetAll(ctx)
}

func (s *NotificationService) GetUnread(ctx context.Context, caller Caller) ([]notification.Notification, error) {
	if caller.Role == domain.RolePatient {
		own, err := s.repo.GetByPatient(ctx, caller.PatientID)
		if err != nil {
			return nil, err
		}
		return notification.Unread(own), nil
	}
	return s.repo.GetUnread(ctx)
}

func (s *NotificationService) GetByPatient(ctx context.Context, caller Caller, patientID string) ([]notification.Notification, error) {
	if !caller.canAccessPatient(patientID) {
		return nil, ErrForbidden
	}
	return s.repo.GetByPatient(ctx, patientID)
}

func (s *NotificationService) MarkAsRead(ctx context.Context, caller Caller, id string) (*notification.Notification, error) {
	if caller.Role == domain.RolePatient {
		n, err := s.repo.GetByID(ctx, id)
		if err != nil {
			return nil, err
		}
		if !caller.canAccessPatient(n.PatientID) {
			return nil, ErrForbidden
		}
	}
	return s.repo.MarkAsRead(ctx, id)
}

// MarkAllAsRead returns how many notifications were unread. Patients only
// touch their own.
func (s *NotificationService) MarkAllAsRead(ctx context.Context, caller Caller) (int, error) {
	if caller.Role == domain.RolePatient {
		return s.repo.MarkAllAsReadForPatient(ctx, caller.PatientID)
	}
	return s.repo.MarkAllAsRead(ctx)
}
