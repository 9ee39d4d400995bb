// Package storage opens the kv.Store selected by configuration.
package storage

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/dmehra2102/prod-golang-projects/zentherapy/config"
	"github.com/dmehra2102/prod-golang-projects/zentherapy/internal/infra/kv/memory"
	"github.com/dmehra2102/prod-golang-projects/zentherapy/internal/infra/kv/postgres"
	s3store "github.com/dmehra2102/prod-golang-projects/zentherapy/internal/infra/kv/s3"
	"github.com/dmehra2102/prod-golang-projects/zentherapy/internal/infra/kv/sqlite"
	"github.com/dmehra2102/prod-golang-projects/zentherapy/internal/kv"
	"github.com/dmehra2102/prod-golang-projects/zentherapy/pkg/awsclient"
	"github.com/dmehra2102/prod-golang-projects/zentherapy/pkg/database"
	"github.com/dmehra2102/prod-golang-projects/zentherapy/pkg/metrics"
)

func Open(ctx context.Context, cfg *config.Config, log *zap.Logger, m *metrics.Collector) (kv.Store, error) {
	var (
		store kv.Store
		err   error
	)

	switch cfg.Store.Driver {
	case config.DriverMemory:
		store = memory.New()

	case config.DriverSQLite:
		store, err = sqlite.NewStore(cfg.Store.SQLitePath)

	case config.DriverPostgres:
		db, cErr := database.Connect(cfg.Database)
		if cErr != nil {
			return nil, cErr
		}
		if mErr := database.Migrate(db, log); mErr != nil {
			return nil, mErr
		}
		store = postgres.NewStore(db)

	case config.DriverS3:
		awsCfg, aErr := awsclient.Load(ctx, cfg.AWS)
		if aErr != nil {
			return nil, aErr
		}
		store, err = s3store.NewFromConfig(awsCfg, cfg.AWS.Endpoint, cfg.AWS.S3Bucket, cfg.Store.S3Prefix)

	default:
		return nil, fmt.Errorf("unknown store driver %q", cfg.Store.Driver)
	}
	if err != nil {
		return nil, fmt.Errorf("opening %s store: %w", cfg.Store.Driver, err)
	}

	log.Info("kv store opened", zap.String("driver", cfg.Store.Driver))
	return kv.Instrument(store, cfg.Store.Driver, m), nil
}
