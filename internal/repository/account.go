package repository

import (
	"context"
	"errors"
	"slices"
	"strings"
	"time"

	"github.com/dmehra2102/prod-golang-projects/zentherapy/internal/domain"
	"github.com/dmehra2102/prod-golang-projects/zentherapy/internal/kv"
)

var (
	_ domain.UserRepository        = (*UserRepository)(nil)
	_ domain.SettingsRepository    = (*SettingsRepository)(nil)
	_ domain.CurrentUserRepository = (*CurrentUserRepository)(nil)
	_ domain.AuditRepository       = (*AuditRepository)(nil)
)

type UserRepository struct {
	c   collection[domain.User]
	now Clock
}

func NewUserRepository(store kv.Store, now Clock) *UserRepository {
	return &UserRepository{
		c:   newCollection(store, kv.KeyUsers, func(u *domain.User) string { return u.ID }, domain.ErrUserNotFound),
		now: now,
	}
}

func (r *UserRepository) GetAll(ctx context.Context) ([]domain.User, error) {
	return r.c.all(ctx)
}

func (r *UserRepository) GetByID(ctx context.Context, id string) (*domain.User, error) {
	return r.c.find(ctx, id)
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	matches, err := r.c.filter(ctx, func(u *domain.User) bool { return strings.EqualFold(u.Email, email) })
	if err != nil {
		return nil, err
	}
	if len(matches) == 0 {
		return nil, domain.ErrUserNotFound
	}
	return &matches[0], nil
}

func (r *UserRepository) Create(ctx context.Context, u *domain.User) error {
	if u.ID == "" {
		u.ID = newID()
	}
	u.Email = strings.ToLower(strings.TrimSpace(u.Email))
	u.CreatedAt = r.now.now()
	return r.c.insert(ctx, *u, func(existing *domain.User) error {
		if existing.Email == u.Email {
			return domain.ErrEmailTaken
		}
		return nil
	})
}

func (r *UserRepository) RecordLoginAttempt(ctx context.Context, id string, success bool, at time.Time) error {
	_, err := r.c.modify(ctx, id, func(u *domain.User) error {
		u.RecordLoginAttempt(success, at)
		return nil
	})
	return err
}

func (r *UserRepository) UpdatePassword(ctx context.Context, id, hash string) error {
	_, err := r.c.modify(ctx, id, func(u *domain.User) error {
		u.PasswordHash = hash
		return nil
	})
	return err
}

type SettingsRepository struct {
	store kv.Store
}

func NewSettingsRepository(store kv.Store) *SettingsRepository {
	return &SettingsRepository{store: store}
}

// Get decodes the stored object over DefaultSettings, so fields missing from
// older stored values keep their defaults.
func (r *SettingsRepository) Get(ctx context.Context) (domain.Settings, error) {
	s := domain.DefaultSettings()
	err := kv.LoadObject(ctx, r.store, kv.KeySettings, &s)
	if errors.Is(err, kv.ErrNotFound) {
		return domain.DefaultSettings(), nil
	}
	if err != nil {
		return domain.Settings{}, err
	}
	return s, nil
}

func (r *SettingsRepository) Save(ctx context.Context, s domain.Settings) error {
	return kv.SaveObject(ctx, r.store, kv.KeySettings, s)
}

type CurrentUserRepository struct {
	store kv.Store
}

func NewCurrentUserRepository(store kv.Store) *CurrentUserRepository {
	return &CurrentUserRepository{store: store}
}

func (r *CurrentUserRepository) Get(ctx context.Context) (*domain.CurrentUser, error) {
	var u domain.CurrentUser
	err := kv.LoadObject(ctx, r.store, kv.KeyCurrentUser, &u)
	if errors.Is(err, kv.ErrNotFound) {
		return nil, domain.ErrNoCurrentUser
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *CurrentUserRepository) Set(ctx context.Context, u domain.CurrentUser) error {
	return kv.SaveObject(ctx, r.store, kv.KeyCurrentUser, u)
}

func (r *CurrentUserRepository) Clear(ctx context.Context) error {
	return r.store.Delete(ctx, kv.KeyCurrentUser)
}

// AuditRepository keeps at most maxEntries, dropping the oldest first.
type AuditRepository struct {
	c          collection[domain.AuditLog]
	maxEntries int
}

const defaultAuditRetention = 10000

var errAuditEntryNotFound = errors.New("audit entry not found")

func NewAuditRepository(store kv.Store, maxEntries int) *AuditRepository {
	if maxEntries <= 0 {
		maxEntries = defaultAuditRetention
	}
	return &AuditRepository{
		c:          newCollection(store, kv.KeyAuditLog, func(a *domain.AuditLog) string { return a.ID }, errAuditEntryNotFound),
		maxEntries: maxEntries,
	}
}

func (r *AuditRepository) Append(ctx context.Context, entries ...domain.AuditLog) error {
	if len(entries) == 0 {
		return nil
	}
	for i := range entries {
		if entries[i].ID == "" {
			entries[i].ID = newID()
		}
	}
	return kv.Mutate(ctx, r.c.store, r.c.key, func(items []domain.AuditLog) ([]domain.AuditLog, error) {
		items = append(items, entries...)
		if over := len(items) - r.maxEntries; over > 0 {
			items = items[over:]
		}
		return items, nil
	})
}

func (r *AuditRepository) Recent(ctx context.Context, limit int) ([]domain.AuditLog, error) {
	items, err := r.c.all(ctx)
	if err != nil {
		return nil, err
	}
	slices.Reverse(items)
	if limit > 0 && len(items) > limit {
		items = items[:limit]
	}
	return items, nil
}
