package db

import (
	"fmt"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormLogger "gorm.io/gorm/logger"

	"stepik-analytics/internal/logger"
	"stepik-analytics/internal/types"
)

type SqliteService struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewSqliteService(path string, log *logger.Logger) (*SqliteService, error) {
	serviceLog := log.With("service", "SqliteService")

	serviceLog.Info("Opening sqlite database...", "path", path)
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: gormLogger.Default.LogMode(gormLogger.Warn),
	})
	if err != nil {
		serviceLog.Error("Failed to open sqlite database", "error", err)
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Exec(`PRAGMA foreign_keys = ON;`).Error; err != nil {
		serviceLog.Error("Failed to enable foreign keys", "error", err)
		return nil, fmt.Errorf("enable foreign keys: %w", err)
	}

	return &SqliteService{db: db, log: serviceLog}, nil
}

func (s *SqliteService) AutoMigrateAll() error {
	s.log.Info("Auto migrating sqlite tables...")
	if err := s.db.AutoMigrate(
		&types.Course{},
		&types.SyncRun{},
		&types.DailyMetric{},
		&types.RawAttempt{},
	); err != nil {
		s.log.Error("Auto migration failed for sqlite tables", "error", err)
		return err
	}
	return nil
}

func (s *SqliteService) DB() *gorm.DB { return s.db }
