package postgres

import (
	"os"
	"testing"

	"go.uber.org/zap/zaptest"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/dmehra2102/prod-golang-projects/zentherapy/internal/kv/kvtest"
	"github.com/dmehra2102/prod-golang-projects/zentherapy/pkg/database"
)

// Runs against a disposable database named by ZENTHERAPY_TEST_POSTGRES_DSN.
func TestStore(t *testing.T) {
	dsn := os.Getenv("ZENTHERAPY_TEST_POSTGRES_DSN")
	if dsn == "" {
		t.Skip("ZENTHERAPY_TEST_POSTGRES_DSN not set")
	}

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if err := database.Migrate(db, zaptest.NewLogger(t)); err != nil {
		t.Fatalf("Migrate() error = %v", err)
	}
	if err := db.Exec("TRUNCATE clinic.kv_entries").Error; err != nil {
		t.Fatalf("truncate: %v", err)
	}

	s := NewStore(db)
	t.Cleanup(func() { _ = s.Close() })
	kvtest.Run(t, s)
}
