// Package db opens the gorm store shared by every feature repository.
package db

import (
	"context"
	"fmt"
	"io"
	"log"
	"log/slog"
	"os"
	"time"

	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"storefront_backend/internal/shared/env"
)

// Supported values of Config.Driver.
const (
	DriverSQLite   = "sqlite"
	DriverMySQL    = "mysql"
	DriverPostgres = "postgres"
)

// DefaultSQLiteDSN is a named shared-cache in-memory database. Its content
// lives as long as the process keeps a connection open.
const DefaultSQLiteDSN = "file:storefront?mode=memory&cache=shared"

const (
	connectTimeout = 60 * time.Second
	retryInterval  = 3 * time.Second
)

// Config describes how to reach the store.
type Config struct {
	Driver       string // sqlite (default), mysql or postgres
	DSN          string // full DSN; overrides the discrete fields below
	User         string
	Password     string
	Name         string
	Host         string
	Port         string
	InstanceName string // Cloud SQL instance; MySQL only
}

// Opener opens a gorm connection for a DSN.
type Opener func(dsn string) (*gorm.DB, error)

// LoadConfigFromEnv reads the store configuration from environment variables.
func LoadConfigFromEnv() Config {
	return Config{
		Driver:       env.Str("DB_DRIVER", DriverSQLite),
		DSN:          env.Str("DB_DSN", ""),
		User:         env.Str("DB_USER", ""),
		Password:     env.Str("DB_PASSWORD", ""),
		Name:         env.Str("DB_NAME", ""),
		Host:         env.Str("DB_HOST", ""),
		Port:         env.Str("DB_PORT", ""),
		InstanceName: env.Str("INSTANCE_CONNECTION_NAME", ""),
	}
}

// BuildDSN renders the driver specific DSN for cfg.
func BuildDSN(cfg Config) string {
	if cfg.DSN != "" {
		return cfg.DSN
	}
	switch cfg.Driver {
	case DriverMySQL:
		if cfg.InstanceName != "" {
			return fmt.Sprintf("%s:%s@unix(/cloudsql/%s)/%s?charset=utf8mb4&parseTime=true&loc=Local",
				cfg.User, cfg.Password, cfg.InstanceName, cfg.Name)
		}
		return fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=true&loc=Local",
			cfg.User, cfg.Password, cfg.Host, cfg.Port, cfg.Name)
	case DriverPostgres:
		return fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=disable TimeZone=UTC",
			cfg.Host, cfg.User, cfg.Password, cfg.Name, cfg.Port)
	default:
		return DefaultSQLiteDSN
	}
}

// newGormLogger logs slow queries and errors. Record-not-found is an expected
// outcome of First/Take lookups and is not logged.
func newGormLogger(w io.Writer) logger.Interface {
	return logger.New(
		log.New(w, "\r\n", log.LstdFlags),
		logger.Config{
			SlowThreshold:             200 * time.Millisecond,
			LogLevel:                  logger.Warn,
			IgnoreRecordNotFoundError: true,
			Colorful:                  false,
		},
	)
}

func gormConfig() *gorm.Config {
	// TranslateError maps driver unique violations to gorm.ErrDuplicatedKey.
	return &gorm.Config{
		TranslateError: true,
		Logger:         newGormLogger(os.Stdout),
	}
}

// OpenDB opens the configured store. Server databases are retried for up to a minute.
func OpenDB(cfg Config) (*gorm.DB, error) {
	dsn := BuildDSN(cfg)
	switch cfg.Driver {
	case DriverMySQL:
		return ConnectWithRetry(dsn, connectTimeout, func(dsn string) (*gorm.DB, error) {
			return gorm.Open(mysql.Open(dsn), gormConfig())
		})
	case DriverPostgres:
		return ConnectWithRetry(dsn, connectTimeout, func(dsn string) (*gorm.DB, error) {
			return gorm.Open(postgres.Open(dsn), gormConfig())
		})
	case DriverSQLite, "":
		return OpenSQLite(dsn)
	default:
		return nil, fmt.Errorf("unsupported DB_DRIVER %q", cfg.Driver)
	}
}

// OpenSQLite opens a SQLite database limited to one connection, so every
// statement and transaction against it is serialized.
func OpenSQLite(dsn string) (*gorm.DB, error) {
	db, err := gorm.Open(sqlite.Open(dsn), gormConfig())
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite: %w", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get sql.DB: %w", err)
	}
	sqlDB.SetMaxOpenConns(1)
	sqlDB.SetMaxIdleConns(1)
	sqlDB.SetConnMaxLifetime(0)
	return db, nil
}

// ConnectWithRetry calls opener until it succeeds or timeout elapses.
func ConnectWithRetry(dsn string, timeout time.Duration, opener Opener) (*gorm.DB, error) {
	deadline := time.Now().Add(timeout)
	for {
		db, err := opener(dsn)
		if err == nil {
			return db, nil
		}
		if time.Now().After(deadline) {
			return nil, fmt.Errorf("DB connect failed after %v: %w", timeout, err)
		}
		slog.Warn("DB connect failed, retrying", "error", err, "retry_in", retryInterval)
		time.Sleep(retryInterval)
	}
}

// Migrate creates or updates the tables of the given models.
func Migrate(db *gorm.DB, models ...any) error {
	if err := db.AutoMigrate(models...); err != nil {
		return fmt.Errorf("failed to migrate: %w", err)
	}
	return nil
}

// Close releases the underlying connection pool.
func Close(db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// Ping checks that the store answers.
func Ping(ctx context.Context, db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}
