package repository

import (
	"context"

	"github.com/dmehra2102/prod-golang-projects/zentherapy/internal/domain/practitioner"
	"github.com/dmehra2102/prod-golang-projects/zentherapy/internal/domain/therapy"
	"github.com/dmehra2102/prod-golang-projects/zentherapy/internal/kv"
)

var (
	_ therapy.Repository      = (*TherapyRepository)(nil)
	_ practitioner.Repository = (*PractitionerRepository)(nil)
)

type TherapyRepository struct {
	c collection[therapy.TherapyType]
}

func NewTherapyRepository(store kv.Store) *TherapyRepository {
	return &TherapyRepository{
		c: newCollection(store, kv.KeyTherapyTypes, func(t *therapy.TherapyType) string { return t.ID }, therapy.ErrTherapyNotFound),
	}
}

func (r *TherapyRepository) GetAll(ctx context.Context) ([]therapy.TherapyType, error) {
	return r.c.all(ctx)
}

func (r *TherapyRepository) GetByID(ctx context.Context, id string) (*therapy.TherapyType, error) {
	return r.c.find(ctx, id)
}

func (r *TherapyRepository) Create(ctx context.Context, t *therapy.TherapyType) error {
	if t.ID == "" {
		t.ID = newID()
	}
	return r.c.insert(ctx, *t, nil)
}

func (r *TherapyRepository) Update(ctx context.Context, id string, cmd *therapy.UpdateTherapyCommand) (*therapy.TherapyType, error) {
	return r.c.modify(ctx, id, func(t *therapy.TherapyType) error { return t.Apply(cmd) })
}

func (r *TherapyRepository) Delete(ctx context.Context, id string) error {
	return r.c.remove(ctx, id)
}

type PractitionerRepository struct {
	c collection[practitioner.Practitioner]
}

func NewPractitionerRepository(store kv.Store) *PractitionerRepository {
	return &PractitionerRepository{
		c: newCollection(store, kv.KeyPractitioners, func(p *practitioner.Practitioner) string { return p.ID }, practitioner.ErrPractitionerNotFound),
	}
}

func (r *PractitionerRepository) GetAll(ctx context.Context) ([]practitioner.Practitioner, error) {
	return r.c.all(ctx)
}

func (r *PractitionerRepository) GetByID(ctx context.Context, id string) (*practitioner.Practitioner, error) {
	return r.c.find(ctx, id)
}

func (r *PractitionerRepository) Create(ctx context.Context, p *practitioner.Practitioner) error {
	if p.ID == "" {
		p.ID = newID()
	}
	return r.c.insert(ctx, *p, nil)
}

func (r *PractitionerRepository) Update(ctx context.Context, id string, cmd *practitioner.UpdatePractitionerCommand) (*practitioner.Practitioner, error) {
	return r.c.modify(ctx, id, func(p *practitioner.Practitioner) error { return p.Apply(cmd) })
}

func (r *PractitionerRepository) Delete(ctx context.Context, id string) error {
	return r.c.remove(ctx, id)
}
