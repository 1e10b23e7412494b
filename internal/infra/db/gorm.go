package db

import (
	"fmt"

	"rental/internal/config"
	"rental/internal/domain/model"

	"github.com/glebarez/sqlite"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// Connect opens the database selected by cfg.DBDriver.
func Connect(cfg config.Config, gl gormlogger.Interface) (*gorm.DB, error) {
	gcfg := &gorm.Config{Logger: gl}

	switch cfg.DBDriver {
	case config.DriverSQLite:
		return OpenSQLite(cfg.SQLitePath, gcfg)
	default:
		return gorm.Open(postgres.Open(postgresDSN(cfg)), gcfg)
	}
}

// OpenSQLite opens a pure-Go sqlite database. ":memory:" gives an
// isolated database, kept on a single connection so every query sees it.
func OpenSQLite(path string, gcfg *gorm.Config) (*gorm.DB, error) {
	if gcfg == nil {
		gcfg = &gorm.Config{}
	}
	gdb, err := gorm.Open(sqlite.Open(path), gcfg)
	if err != nil {
		return nil, err
	}

	sqlDB, err := gdb.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(1)

	return gdb, nil
}

// DATABASE_URL wins over the individual POSTGRES_* values
func postgresDSN(cfg config.Config) string {
	if cfg.DatabaseURL != "" {
		return cfg.DatabaseURL
	}
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		cfg.PostgresHost, cfg.PostgresPort, cfg.PostgresUser, cfg.PostgresPassword, cfg.PostgresDB, cfg.PostgresSSLMode,
	)
}

// Migrate creates or updates every table the service owns.
func Migrate(gdb *gorm.DB, l *zap.Logger) error {
	models := []interface{}{
		&model.User{},
		&model.Product{},
		&model.ProductInstance{},
		&model.Reservation{},
		&model.ReservationLine{},
		&model.StockMovement{},
		&model.AuditLog{},
	}
	if err := gdb.AutoMigrate(models...); err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}
	l.Info("database migrated", zap.Int("tables", len(models)))
	return nil
}
