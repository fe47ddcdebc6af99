package database

import (
	"context"
	"fmt"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/mroshb/quizline/internal/config"
	"github.com/mroshb/quizline/internal/models"
	"github.com/mroshb/quizline/pkg/logger"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func Connect(cfg *config.Config) (*gorm.DB, error) {
	var logLevel gormlogger.LogLevel
	if cfg.AppEnv == "development" && cfg.LogLevel == "debug" {
		logLevel = gormlogger.Info
	} else {
		logLevel = gormlogger.Error
	}

	var dialector gorm.Dialector
	switch cfg.DBDriver {
	case config.DriverPostgres:
		dialector = postgres.Open(cfg.GetDSN())
	case config.DriverSQLite:
		dialector = sqlite.Open(cfg.DBPath)
	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.DBDriver)
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: gormlogger.Default.LogMode(logLevel),
		NowFunc: func() time.Time {
			return time.Now().UTC()
		},
		SkipDefaultTransaction: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database instance: %w", err)
	}

	if cfg.DBDriver == config.DriverSQLite {
		// sqlite allows a single writer; serialize through one connection
		sqlDB.SetMaxOpenConns(1)
	} else {
		sqlDB.SetMaxIdleConns(10)
		sqlDB.SetMaxOpenConns(50)
		sqlDB.SetConnMaxLifetime(time.Hour)
		sqlDB.SetConnMaxIdleTime(10 * time.Minute)
	}

	logger.Info("Database connected", "driver", cfg.DBDriver)
	return db, nil
}

// OpenInMemory returns a migrated, private sqlite database. Used by tests.
func OpenInMemory() (*gorm.DB, error) {
	db, err := Connect(&config.Config{DBDriver: config.DriverSQLite, DBPath: ":memory:"})
	if err != nil {
		return nil, err
	}
	if err := AutoMigrate(db); err != nil {
		return nil, err
	}
	return db, nil
}

func AutoMigrate(db *gorm.DB) error {
	logger.Info("Running database migrations...")

	if err := db.AutoMigrate(&models.Quiz{}); err != nil {
		return fmt.Errorf("migration failed: %w", err)
	}

	logger.Info("Database migrations completed successfully")
	return nil
}

func Close(db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// SeedQuizzes fills an empty catalog with a few starter questions.
func SeedQuizzes(ctx context.Context, db *gorm.DB) error {
	var count int64
	if err := db.WithContext(ctx).Model(&models.Quiz{}).Count(&count).Error; err != nil {
		return fmt.Errorf("failed to count quizzes: %w", err)
	}
	if count > 0 {
		return nil
	}

	logger.Info("Seeding starter quizzes...")
	quizzes := []models.Quiz{
		{Question: "Capital de Italia", Answer: "Roma"},
		{Question: "Capital de Francia", Answer: "París"},
		{Question: "Capital de España", Answer: "Madrid"},
		{Question: "Capital de Portugal", Answer: "Lisboa"},
	}

	if err := db.WithContext(ctx).Create(&quizzes).Error; err != nil {
		return fmt.Errorf("failed to seed quizzes: %w", err)
	}
	return nil
}
