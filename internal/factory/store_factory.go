package factory

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/mikey/inbox-labeler/internal/adapters/store"
	"github.com/mikey/inbox-labeler/internal/config"
	"github.com/mikey/inbox-labeler/internal/core"
	"go.uber.org/zap"
)

// StoreFactory creates label stores based on configuration
type StoreFactory struct {
	cfg    *config.Config
	logger *zap.Logger
}

// NewStoreFactory creates a new store factory
func NewStoreFactory(cfg *config.Config, logger *zap.Logger) *StoreFactory {
	return &StoreFactory{
		cfg:    cfg,
		logger: logger,
	}
}

// CreateLabelStore opens the configured store and seeds it when enabled
func (f *StoreFactory) CreateLabelStore(ctx context.Context) (core.LabelStore, error) {
	storeCfg := f.cfg.GetStore()

	labels, err := f.open(storeCfg)
	if err != nil {
		return nil, err
	}

	if storeCfg.Seed {
		if err := core.SeedStore(ctx, labels, f.logger); err != nil {
			labels.Close()
			return nil, err
		}
	}

	f.logger.Info("Opened label store", zap.String("type", storeCfg.Type))
	return labels, nil
}

func (f *StoreFactory) open(storeCfg config.StoreConfig) (core.LabelStore, error) {
	switch storeCfg.Type {
	case "memory":
		return store.NewMemoryStore(f.logger), nil
	case "sqlite":
		if err := os.MkdirAll(filepath.Dir(storeCfg.SQLitePath), 0755); err != nil {
			return nil, fmt.Errorf("failed to create SQLite directory: %w", err)
		}
		return store.NewSQLiteStore(storeCfg.SQLitePath, f.logger)
	case "mysql":
		return store.NewMySQLStore(storeCfg.MySQLDSN, f.logger)
	case "postgres":
		return store.NewPostgresStore(storeCfg.PostgresDSN, f.logger)
	default:
		return nil, fmt.Errorf("unsupported store type: %s", storeCfg.Type)
	}
}
