package service

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/dmehra2102/prod-golang-projects/zentherapy/internal/domain"
)

var supportedThemes = map[string]bool{"light": true, "dark": true, "system": true}

type SettingsService struct {
	repo     domain.SettingsRepository
	auditSvc *AuditService
	log      *zap.Logger
}

func NewSettingsService(repo domain.SettingsRepository, auditSvc *AuditService, log *zap.Logger) *SettingsService {
	return &SettingsService{repo: repo, auditSvc: auditSvc, log: log}
}

func (s *SettingsService) Get(ctx context.Context) (domain.Settings, error) {
	return s.repo.Get(ctx)
}

func (s *SettingsService) Update(ctx context.Context, caller Caller, next domain.Settings) (domain.Settings, error) {
	if caller.Role != domain.RoleAdmin {
		return domain.Settings{}, ErrForbidden
	}

	var errs []string
	if next.Notifications.ReminderHours < 1 || next.Notifications.ReminderHours > 168 {
		errs = append(errs, "notifications.reminderHours must be between 1 and 168")
	}
	if next.Preferences.Theme != "" && !supportedThemes[next.Preferences.Theme] {
		errs = append(errs, "preferences.theme must be light, dark or system")
	}
	if next.Preferences.Timezone != "" {
		if _, err := time.LoadLocation(next.Preferences.Timezone); err != nil {
			errs = append(errs, "preferences.timezone is not a known IANA zone")
		}
	}
	if err := validationErr(errs); err != nil {
		return domain.Settings{}, err
	}

	if err := s.repo.Save(ctx, next); err != nil {
		return domain.Settings{}, fmt.Errorf("saving settings: %w", err)
	}
	s.auditSvc.LogAsync(ctx, caller, AuditEntry{Action: domain.ActionUpdate, ResourceType: "settings"})
	return s.repo.Get(ctx)
}
