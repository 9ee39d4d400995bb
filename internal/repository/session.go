package repository

import (
	"context"

	"github.com/dmehra2102/prod-golang-projects/zentherapy/internal/domain/session"
	"github.com/dmehra2102/prod-golang-projects/zentherapy/internal/kv"
)

var _ session.Repository = (*SessionRepository)(nil)

type SessionRepository struct {
	c   collection[session.Session]
	now Clock
}

func NewSessionRepository(store kv.Store, now Clock) *SessionRepository {
	return &SessionRepository{
		c:   newCollection(store, kv.KeySessions, func(s *session.Session) string { return s.ID }, session.ErrSessionNotFound),
		now: now,
	}
}

func (r *SessionRepository) GetAll(ctx context.Context) ([]session.Session, error) {
	return r.c.all(ctx)
}

func (r *SessionRepository) GetByID(ctx context.Context, id string) (*session.Session, error) {
	return r.c.find(ctx, id)
}

func (r *SessionRepository) Create(ctx context.Context, s *session.Session) error {
	return r.CreateUnlessConflict(ctx, s, nil)
}

func (r *SessionRepository) CreateUnlessConflict(ctx context.Context, s *session.Session, conflict func(*session.Session) error) error {
	if s.ID == "" {
		s.ID = newID()
	}
	if s.Status == "" {
		s.Status = session.StatusScheduled
	}
	now := r.now.now()
	s.CreatedAt, s.UpdatedAt = now, now
	return r.c.insert(ctx, *s, conflict)
}

func (r *SessionRepository) Update(ctx context.Context, id string, cmd *session.UpdateSessionCommand) (*session.Session, error) {
	return r.Modify(ctx, id, func(s *session.Session) error { return s.Apply(cmd) })
}

func (r *SessionRepository) Modify(ctx context.Context, id string, fn func(*session.Session) error) (*session.Session, error) {
	return r.c.modify(ctx, id, func(s *session.Session) error {
		if err := fn(s); err != nil {
			return err
		}
		s.UpdatedAt = r.now.now()
		return nil
	})
}

func (r *SessionRepository) Delete(ctx context.Context, id string) error {
	return r.c.remove(ctx, id)
}

func (r *SessionRepository) GetByPatient(ctx context.Context, patientID string) ([]session.Session, error) {
	return r.c.filter(ctx, func(s *session.Session) bool { return s.PatientID == patientID })
}

func (r *SessionRepository) GetByPractitioner(ctx context.Context, practitionerID string) ([]session.Session, error) {
	return r.c.filter(ctx, func(s *session.Session) bool { return s.PractitionerID == practitionerID })
}

func (r *SessionRepository) GetByDateRange(ctx context.Context, from, to string) ([]session.Session, error) {
	return r.c.filter(ctx, func(s *session.Session) bool { return s.Date >= from && s.Date <= to })
}

func (r *SessionRepository) GetUpcoming(ctx context.Context, today string, limit int) ([]session.Session, error) {
	all, err := r.c.all(ctx)
	if err != nil {
		return nil, err
	}
	return session.Upcoming(all, today, limit), nil
}
