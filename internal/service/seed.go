package service

import (
	"context"
	_ "embed"
	"fmt"
	"os"
	"time"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/dmehra2102/prod-golang-projects/zentherapy/config"
	"github.com/dmehra2102/prod-golang-projects/zentherapy/internal/domain"
	"github.com/dmehra2102/prod-golang-projects/zentherapy/internal/domain/patient"
	"github.com/dmehra2102/prod-golang-projects/zentherapy/internal/domain/practitioner"
	"github.com/dmehra2102/prod-golang-projects/zentherapy/internal/domain/progress"
	"github.com/dmehra2102/prod-golang-projects/zentherapy/internal/domain/therapy"
	"github.com/dmehra2102/prod-golang-projects/zentherapy/internal/kv"
)

//go:embed catalog.yaml
var defaultCatalog []byte

// DemoPassword is the password of every demo account.
const DemoPassword = "zentherapy-demo"

type Catalog struct {
	TherapyTypes  []therapy.TherapyType       `yaml:"therapyTypes"`
	Practitioners []practitioner.Practitioner `yaml:"practitioners"`
}

// ParseCatalog decodes and validates a YAML catalog.
func ParseCatalog(data []byte) (*Catalog, error) {
	var c Catalog
	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("parsing catalog: %w", err)
	}
	for i := range c.TherapyTypes {
		t := &c.TherapyTypes[i]
		if t.ID == "" || t.Name == "" {
			return nil, fmt.Errorf("therapy type %d: id and name are required", i)
		}
		if err := t.Validate(); err != nil {
			return nil, fmt.Errorf("therapy type %s: %w", t.ID, err)
		}
	}
	for i := range c.Practitioners {
		p := &c.Practitioners[i]
		if p.ID == "" || p.Name == "" {
			return nil, fmt.Errorf("practitioner %d: id and name are required", i)
		}
		if err := p.Validate(); err != nil {
			return nil, fmt.Errorf("practitioner %s: %w", p.ID, err)
		}
	}
	return &c, nil
}

func LoadCatalog(path string) (*Catalog, error) {
	if path == "" {
		return ParseCatalog(defaultCatalog)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading catalog %s: %w", path, err)
	}
	return ParseCatalog(data)
}

// Seeder writes the initial collections. Each key is written only when it is
// absent, so running it on every start is safe.
type Seeder struct {
	store kv.Store
	cfg   config.SeedConfig
	log   *zap.Logger
	now   func() time.Time
}

func NewSeeder(store kv.Store, cfg config.SeedConfig, log *zap.Logger) *Seeder {
	return &Seeder{store: store, cfg: cfg, log: log, now: time.Now}
}

func (s *Seeder) Seed(ctx context.Context) error {
	if !s.cfg.Enabled {
		return nil
	}

	catalog, err := LoadCatalog(s.cfg.CatalogFile)
	if err != nil {
		return err
	}

	if err := seed(ctx, s, kv.KeyTherapyTypes, catalog.TherapyTypes); err != nil {
		return err
	}
	if err := seed(ctx, s, kv.KeyPractitioners, catalog.Practitioners); err != nil {
		return err
	}
	if err := s.seedSettings(ctx); err != nil {
		return err
	}

	if !s.cfg.DemoData {
		return nil
	}
	return s.seedDemo(ctx, catalog)
}

func seed[T any](ctx context.Context, s *Seeder, key string, items []T) error {
	wrote, err := kv.SeedIfAbsent(ctx, s.store, key, items)
	if err != nil {
		return fmt.Errorf("seeding %s: %w", key, err)
	}
	if wrote {
		s.log.Info("seeded collection", zap.String("key", key), zap.Int("items", len(items)))
	}
	return nil
}

func (s *Seeder) seedSettings(ctx context.Context) error {
	exists, err := kv.Exists(ctx, s.store, kv.KeySettings)
	if err != nil {
		return fmt.Errorf("seeding %s: %w", kv.KeySettings, err)
	}
	if exists {
		return nil
	}
	return kv.SaveObject(ctx, s.store, kv.KeySettings, domain.DefaultSettings())
}

func (s *Seeder) seedDemo(ctx context.Context, catalog *Catalog) error {
	now := s.now().UTC()
	today := domain.Today(now)

	patients := []patient.Patient{
		{
			ID: "patient-priya", Name: "Priya Sharma", Email: "priya.sharma@example.com", Phone: "+91 98765 43210",
			Address: "12 MG Road, Kochi", DateOfBirth: "1988-04-12",
			MedicalHistory: []string{"Chronic lower back pain", "Insomnia"},
			Constitution:   patient.ConstitutionVata, EnrollmentDate: today, Status: patient.StatusActive,
			EmergencyContact: patient.EmergencyContact{Name: "Arjun Sharma", Relationship: "Spouse", Phone: "+91 98765 43211"},
			CreatedAt:        now, UpdatedAt: now,
		},
		{
			ID: "patient-rahul", Name: "Rahul Verma", Email: "rahul.verma@example.com", Phone: "+91 91234 56789",
			Address: "44 Residency Road, Bengaluru", DateOfBirth: "1979-11-30",
			MedicalHistory: []string{"Acid reflux"},
			Constitution:   patient.ConstitutionPitta, EnrollmentDate: today, Status: patient.StatusActive,
			EmergencyContact: patient.EmergencyContact{Name: "Sunita Verma", Relationship: "Sister", Phone: "+91 91234 56780"},
			CreatedAt:        now, UpdatedAt: now,
		},
	}
	if err := seed(ctx, s, kv.KeyPatients, patients); err != nil {
		return err
	}

	target := domain.Today(now.AddDate(0, 2, 0))
	milestones := []progress.Milestone{
		{
			ID: "milestone-priya-sleep", PatientID: "patient-priya", Title: "Restful sleep",
			Description: "Sleep through the night at least five nights a week",
			TargetDate:  target, Status: progress.StatusInProgress, Category: progress.CategoryPhysical,
			Metrics: []progress.Metric{{Name: "Nights of full sleep", Target: 5, Current: 2, Unit: "nights/week"}},
		},
		{
			ID: "milestone-rahul-digestion", PatientID: "patient-rahul", Title: "Calmer digestion",
			Description: "Reduce reflux episodes",
			TargetDate:  target, Status: progress.StatusPending, Category: progress.CategoryLifestyle,
			Metrics: []progress.Metric{{Name: "Reflux-free days", Target: 7, Current: 3, Unit: "days/week"}},
		},
	}
	if err := seed(ctx, s, kv.KeyProgress, milestones); err != nil {
		return err
	}

	hash, err := HashPassword(DemoPassword)
	if err != nil {
		return err
	}
	users := []domain.User{
		{ID: "user-admin", Email: "admin@zentherapy.in", Name: "Clinic Admin", Role: domain.RoleAdmin},
		{ID: "user-priya", Email: "priya.sharma@example.com", Name: "Priya Sharma", Role: domain.RolePatient, PatientID: "patient-priya"},
		{ID: "user-rahul", Email: "rahul.verma@example.com", Name: "Rahul Verma", Role: domain.RolePatient, PatientID: "patient-rahul"},
	}
	for _, p := range catalog.Practitioners {
		users = append(users, domain.User{
			ID: "user-" + p.ID, Email: p.Email, Name: p.Name,
			Role: domain.RolePractitioner, PractitionerID: p.ID,
		})
	}
	for i := range users {
		users[i].PasswordHash = hash
		users[i].Active = true
		users[i].CreatedAt = now
	}
	wrote, err := kv.SeedIfAbsent(ctx, s.store, kv.KeyUsers, users)
	if err != nil {
		return fmt.Errorf("seeding users: %w", err)
	}
	if wrote {
		s.log.Warn("demo accounts created; change their passwords before exposing this instance",
			zap.Int("accounts", len(users)),
		)
	}
	return nil
}
