// Package postgres stores kv entries as jsonb rows through gorm.
package postgres

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/dmehra2102/prod-golang-projects/zentherapy/internal/kv"
	"github.com/dmehra2102/prod-golang-projects/zentherapy/pkg/database"
)

var _ kv.Store = (*Store)(nil)

type Store struct {
	db *gorm.DB
}

// NewStore expects a migrated database (see database.Migrate).
func NewStore(db *gorm.DB) *Store {
	return &Store{db: db}
}

func (s *Store) Get(ctx context.Context, key string) ([]byte, error) {
	var e database.Entry
	err := s.db.WithContext(ctx).Where("key = ?", key).Take(&e).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, kv.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("select %s: %w", key, err)
	}
	return []byte(e.Payload), nil
}

func (s *Store) Put(ctx context.Context, key string, value []byte) error {
	return upsert(s.db.WithContext(ctx), key, value)
}

func (s *Store) Delete(ctx context.Context, key string) error {
	if err := s.db.WithContext(ctx).Where("key = ?", key).Delete(&database.Entry{}).Error; err != nil {
		return fmt.Errorf("delete %s: %w", key, err)
	}
	return nil
}

// Update serializes writers of the same key across processes with a
// transaction-scoped advisory lock, which also covers keys that do not exist yet.
func (s *Store) Update(ctx context.Context, key string, fn kv.UpdateFunc) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Exec("SELECT pg_advisory_xact_lock(hashtext(?))", key).Error; err != nil {
			return fmt.Errorf("locking %s: %w", key, err)
		}

		var e database.Entry
		found := true
		err := tx.Where("key = ?", key).Take(&e).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			found = false
		} else if err != nil {
			return fmt.Errorf("select %s: %w", key, err)
		}

		next, err := fn([]byte(e.Payload), found)
		if err != nil {
			return err
		}
		return upsert(tx, key, next)
	})
}

func (s *Store) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

func upsert(db *gorm.DB, key string, value []byte) error {
	e := database.Entry{Key: key, Payload: datatypes.JSON(value)}
	err := db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "key"}},
		DoUpdates: clause.AssignmentColumns([]string{"payload", "updated_at"}),
	}).Create(&e).Error
	if err != nil {
		return fmt.Errorf("upsert %s: %w", key, err)
	}
	return nil
}
