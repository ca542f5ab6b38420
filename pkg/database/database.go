// Package database opens the gorm connection and owns schema migration.
package database

import (
	"fmt"
	"time"

	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/d60-Lab/recipe-social/config"
	"github.com/d60-Lab/recipe-social/internal/model"
	"github.com/d60-Lab/recipe-social/pkg/logger"
)

// InitDB opens the configured database, applies pool settings and migrates the schema.
func InitDB(cfg *config.Config) (*gorm.DB, error) {
	dbCfg := cfg.Database
	gcfg := &gorm.Config{
		Logger:  gormlogger.Default.LogMode(parseLogLevel(dbCfg.LogLevel)),
		NowFunc: func() time.Time { return time.Now().UTC() },
	}

	var (
		db  *gorm.DB
		err error
	)
	switch dbCfg.Driver {
	case "sqlite":
		db, err = OpenSQLite(dbCfg.Path, gcfg)
	default:
		db, err = gorm.Open(postgres.Open(dbCfg.DSN()), gcfg)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database instance: %w", err)
	}
	if dbCfg.Driver != "sqlite" {
		sqlDB.SetMaxIdleConns(dbCfg.MaxIdleConns)
		sqlDB.SetMaxOpenConns(dbCfg.MaxOpenConns)
		sqlDB.SetConnMaxLifetime(dbCfg.ConnMaxLifetime)
	}

	if err := AutoMigrate(db); err != nil {
		return nil, err
	}
	logger.Info("database connected", zap.String("driver", dbCfg.Driver))
	return db, nil
}

// OpenSQLite opens a sqlite database. A single connection is kept so that
// ":memory:" databases are shared by every query of the process.
func OpenSQLite(path string, gcfg *gorm.Config) (*gorm.DB, error) {
	if gcfg == nil {
		gcfg = &gorm.Config{
			Logger:  gormlogger.Default.LogMode(gormlogger.Silent),
			NowFunc: func() time.Time { return time.Now().UTC() },
		}
	}
	db, err := gorm.Open(sqlite.Open(path), gcfg)
	if err != nil {
		return nil, err
	}
	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(1)
	// Foreign keys are off by default in sqlite; OnDelete:CASCADE depends on them.
	if err := db.Exec("PRAGMA foreign_keys = ON").Error; err != nil {
		return nil, fmt.Errorf("enable sqlite foreign keys: %w", err)
	}
	return db, nil
}

// AutoMigrate creates or updates every table owned by the service.
func AutoMigrate(db *gorm.DB) error {
	err := db.AutoMigrate(
		&model.User{},
		&model.Recipe{},
		&model.Rating{},
		&model.Favorite{},
		&model.Follow{},
		&model.FollowRequest{},
		&model.Block{},
		&model.Mute{},
		&model.Notification{},
		&model.FeedPreference{},
	)
	if err != nil {
		return fmt.Errorf("migration failed: %w", err)
	}
	return nil
}

func parseLogLevel(level string) gormlogger.LogLevel {
	switch level {
	case "silent":
		return gormlogger.Silent
	case "error":
		return gormlogger.Error
	case "info":
		return gormlogger.Info
	default:
		return gormlogger.Warn
	}
}
