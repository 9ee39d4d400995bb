package repository

import (
	"context"

	"github.com/dmehra2102/prod-golang-projects/zentherapy/internal/domain/patient"
	"github.com/dmehra2102/prod-golang-projects/zentherapy/internal/kv"
)

var _ patient.Repository = (*PatientRepository)(nil)

type PatientRepository struct {
	c   collection[patient.Patient]
	now Clock
}

func NewPatientRepository(store kv.Store, now Clock) *PatientRepository {
	return &PatientRepository{
		c:   newCollection(store, kv.KeyPatients, func(p *patient.Patient) string { return p.ID }, patient.ErrPatientNotFound),
		now: now,
	}
}

func (r *PatientRepository) GetAll(ctx context.Context) ([]patient.Patient, error) {
	return r.c.all(ctx)
}

func (r *PatientRepository) GetByID(ctx context.Context, id string) (*patient.Patient, error) {
	return r.c.find(ctx, id)
}

func (r *PatientRepository) Create(ctx context.Context, p *patient.Patient) error {
	if p.ID == "" {
		p.ID = newID()
	}
	now := r.now.now()
	p.CreatedAt, p.UpdatedAt = now, now
	return r.c.insert(ctx, *p, nil)
}

func (r *PatientRepository) Update(ctx context.Context, id string, cmd *patient.UpdatePatientCommand) (*patient.Patient, error) {
	return r.c.modify(ctx, id, func(p *patient.Patient) error {
		if err := p.Apply(cmd); err != nil {
			return err
		}
		p.UpdatedAt = r.now.now()
		return nil
	})
}

func (r *PatientRepository) Delete(ctx context.Context, id string) error {
	return r.c.remove(ctx, id)
}
