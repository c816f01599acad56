package database

import (
	"errors"
	"fmt"

	"cargo-broker/internal/config"
	"cargo-broker/internal/infrastructure/database/postgres"
	"cargo-broker/internal/infrastructure/kv"
	"cargo-broker/internal/logger"
	"cargo-broker/internal/store"

	"go.uber.org/zap"
)

// Database is the key-value backend chosen by STORAGE_DRIVER.
type Database struct {
	Backend store.Backend
	driver  string
	health  func() error
}

func NewDatabase(cfg *config.Config) (*Database, error) {
	switch cfg.Storage.Driver {
	case "memory":
		logger.Warn("Using in-memory storage; data is lost on restart")
		return &Database{Backend: kv.NewMemoryBackend(), driver: "memory"}, nil

	case "sqlite", "":
		backend, err := kv.NewSQLiteBackend(cfg.Storage.SQLitePath)
		if err != nil {
			return nil, err
		}
		logger.Info("Data store opened",
			zap.String("driver", "sqlite"),
			zap.String("path", cfg.Storage.SQLitePath),
		)
		return &Database{Backend: backend, driver: "sqlite", health: backend.Health}, nil

	case "postgres":
		if cfg.Database.Host == "" || cfg.Database.DBName == "" {
			return nil, errors.New("postgres storage requires DB_HOST and DB_NAME")
		}
		db, err := postgres.NewDB(cfg)
		if err != nil {
			return nil, err
		}
		return &Database{Backend: postgres.NewKVRepository(db), driver: "postgres", health: db.Health}, nil
	}

	return nil, fmt.Errorf("unsupported storage driver %q", cfg.Storage.Driver)
}

func (d *Database) Driver() string {
	return d.driver
}

func (d *Database) Close() error {
	return d.Backend.Close()
}

func (d *Database) Health() error {
	if d.health == nil {
		return nil
	}
	return d.health()
}
