package repository

import (
	"fmt"
	"time"

	"game-night-service/config"
	"game-night-service/logger"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// Open connects to the configured database. TranslateError is enabled so unique
// and foreign key violations come back as gorm sentinel errors.
func Open(cfg *config.Config, log *logger.Logger) (*gorm.DB, error) {
	var dialector gorm.Dialector
	switch cfg.DBDriver {
	case "postgres":
		dialector = postgres.Open(cfg.DatabaseURL)
	case "sqlite":
		dialector = sqlite.Open(SQLiteDSN(cfg.SQLitePath))
	default:
		return nil, fmt.Errorf("unsupported DB_DRIVER %q", cfg.DBDriver)
	}

	level := gormlogger.Warn
	if !cfg.IsProduction() {
		level = gormlogger.Info
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		TranslateError: true,
		Logger:         NewGormLogger(log, level, DefaultSlowQuery),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get sql.DB: %w", err)
	}
	maxOpen := cfg.DBMaxOpenConns
	if cfg.DBDriver == "sqlite" {
		// sqlite serializes writers; one connection avoids SQLITE_BUSY.
		maxOpen = 1
	}
	sqlDB.SetMaxOpenConns(maxOpen)
	sqlDB.SetMaxIdleConns(cfg.DBMaxIdleConns)
	sqlDB.SetConnMaxLifetime(30 * time.Minute)

	log.Info("database connected", "driver", cfg.DBDriver)
	return db, nil
}

// SQLiteDSN turns a file path into a DSN with foreign keys enforced.
func SQLiteDSN(path string) string {
	return fmt.Sprintf("file:%s?_foreign_keys=on&_busy_timeout=5000", path)
}

// Migrate creates or updates every table this service owns.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(AllRecords()...); err != nil {
		return fmt.Errorf("failed to migrate database: %w", err)
	}
	return nil
}
