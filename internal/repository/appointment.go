package repository

import (
	"context"

	"github.com/dmehra2102/prod-golang-projects/zentherapy/internal/domain/appointment"
	"github.com/dmehra2102/prod-golang-projects/zentherapy/internal/kv"
)

var _ appointment.Repository = (*AppointmentRepository)(nil)

type AppointmentRepository struct {
	c   collection[appointment.Appointment]
	now Clock
}

func NewAppointmentRepository(store kv.Store, now Clock) *AppointmentRepository {
	return &AppointmentRepository{
		c:   newCollection(store, kv.KeyAppointments, func(a *appointment.Appointment) string { return a.ID }, appointment.ErrAppointmentNotFound),
		now: now,
	}
}

func (r *AppointmentRepository) GetAll(ctx context.Context) ([]appointment.Appointment, error) {
	return r.c.all(ctx)
}

func (r *AppointmentRepository) GetByID(ctx context.Context, id string) (*appointment.Appointment, error) {
	return r.c.find(ctx, id)
}

func (r *AppointmentRepository) GetByPractitionerAndDate(ctx context.Context, practitionerID, date string) ([]appointment.Appointment, error) {
	return r.c.filter(ctx, func(a *appointment.Appointment) bool {
		return a.PractitionerID == practitionerID && a.Date == date
	})
}

func (r *AppointmentRepository) Create(ctx context.Context, a *appointment.Appointment) error {
	return r.CreateUnlessConflict(ctx, a, nil)
}

func (r *AppointmentRepository) CreateUnlessConflict(ctx context.Context, a *appointment.Appointment, conflict func(*appointment.Appointment) error) error {
	if a.ID == "" {
		a.ID = newID()
	}
	now := r.now.now()
	a.CreatedAt, a.UpdatedAt = now, now
	return r.c.insert(ctx, *a, conflict)
}

func (r *AppointmentRepository) Update(ctx context.Context, id string, cmd *appointment.UpdateAppointmentCommand) (*appointment.Appointment, error) {
	return r.Modify(ctx, id, func(a *appointment.Appointment) error {
		if cmd.Notes != nil {
			a.Notes = *cmd.Notes
		}
		if cmd.Room != nil {
			a.Room = *cmd.Room
		}
		return nil
	})
}

func (r *AppointmentRepository) Modify(ctx context.Context, id string, fn func(*appointment.Appointment) error) (*appointment.Appointment, error) {
	return r.c.modify(ctx, id, func(a *appointment.Appointment) error {
		if err := fn(a); err != nil {
			return err
		}
		a.UpdatedAt = r.now.now()
		return nil
	})
}
