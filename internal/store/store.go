// Package store persists users, search rounds and enriched videos behind a
// GORM connection. The Store is constructed once at startup and passed to
// dependents explicitly; there is no package-level connection.
package store

import (
	"fmt"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormLogger "gorm.io/gorm/logger"

	"vidscope/internal/models"
	"vidscope/shared/config"
	"vidscope/shared/logger"
)

type Store struct {
	db  *gorm.DB
	log *logger.Logger
}

// Open connects to the configured database and runs migrations. Calling it
// again on the same config simply yields another handle to the same
// database; per-process callers are expected to open once and share.
func Open(cfg *config.DatabaseConfig, log *logger.Logger) (*Store, error) {
	var dialector gorm.Dialector
	switch cfg.Driver {
	case "postgres":
		dialector = postgres.Open(cfg.DSN)
	case "sqlite":
		dialector = sqlite.Open(cfg.DSN)
	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.Driver)
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: gormLogger.Default.LogMode(gormLogger.Warn),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to %s database: %w", cfg.Driver, err)
	}

	s := &Store{db: db, log: log.With("component", "store")}
	if err := s.migrate(); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Store) migrate() error {
	if err := s.db.AutoMigrate(&models.User{}, &models.SearchRound{}, &models.Video{}); err != nil {
		return fmt.Errorf("migration failed: %w", err)
	}
	return nil
}
