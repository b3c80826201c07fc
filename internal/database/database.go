package database

import (
	"fmt"

	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/pge-app/incidents-api/internal/config"
	"github.com/pge-app/incidents-api/internal/models"
)

var (
	DB  *gorm.DB
	log = zap.NewNop()
)

func Connect(cfg *config.Config, logger *zap.Logger) error {
	if logger != nil {
		log = logger
	}

	dsn := fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		cfg.DBHost,
		cfg.DBPort,
		cfg.DBUser,
		cfg.DBPassword,
		cfg.DBName,
		cfg.DBSSLMode,
	)

	var err error
	DB, err = gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Warn),
	})
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}

	log.Info("database connection established",
		zap.String("host", cfg.DBHost),
		zap.String("database", cfg.DBName))
	return nil
}

// Migrate enables PostGIS, migrates the schema, seeds reference data, and
// creates the spatial and filter indexes.
func Migrate() error {
	log.Info("running database migrations")

	if err := DB.Exec("CREATE EXTENSION IF NOT EXISTS postgis").Error; err != nil {
		return fmt.Errorf("failed to enable postgis: %w", err)
	}

	err := DB.AutoMigrate(
		&models.Role{},
		&models.IncidentState{},
		&models.Category{},
		&models.User{},
		&models.Incident{},
	)
	if err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	if err := Seed(DB); err != nil {
		return fmt.Errorf("failed to seed reference data: %w", err)
	}

	if err := AddIndexes(DB); err != nil {
		return fmt.Errorf("failed to add indexes: %w", err)
	}

	log.Info("database migrations completed")
	return nil
}

func GetDB() *gorm.DB {
	return DB
}

// SetDB sets the database instance (used for testing)
func SetDB(db *gorm.DB) {
	DB = db
}
