package database

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	_ "github.com/lib/pq" // registers the "postgres" database/sql driver
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"qurainbot/internal/domain/entity"
	"qurainbot/internal/pkg/config"
	"qurainbot/internal/pkg/logger"
)

const (
	postgresMaxOpenConns    = 10
	postgresMaxIdleConns    = 5
	postgresConnMaxLifetime = 30 * time.Minute
	sqliteBusyTimeoutMillis = 5000
)

// Open connects to the configured database, migrates the schema and seeds the
// directory categories.
func Open(ctx context.Context, cfg *config.Config, log logger.Logger) (*gorm.DB, error) {
	gormCfg := &gorm.Config{
		Logger:  newGormLogger(log, cfg.LogLevel),
		NowFunc: func() time.Time { return time.Now().UTC().Truncate(time.Second) },
	}

	var (
		db  *gorm.DB
		err error
	)
	switch cfg.DBDriver {
	case config.DriverPostgres:
		db, err = openPostgres(cfg.DatabaseURL, gormCfg)
	default:
		db, err = openSQLite(cfg.SQLitePath, gormCfg)
	}
	if err != nil {
		return nil, err
	}
	log.Info(fmt.Sprintf("connected to %s database: %s", cfg.DBDriver, cfg.RedactedDSN()))

	if err := AutoMigrate(db); err != nil {
		_ = Close(db)
		return nil, err
	}
	if err := NewCategoryRepository(db).SeedIfMissing(ctx, DefaultCategories()); err != nil {
		_ = Close(db)
		return nil, err
	}
	log.Info("database schema migration completed")
	return db, nil
}

// OpenSQLite opens, migrates and seeds the SQLite database at path.
func OpenSQLite(ctx context.Context, path string, log logger.Logger) (*gorm.DB, error) {
	return Open(ctx, &config.Config{DBDriver: config.DriverSQLite, SQLitePath: path, LogLevel: "error"}, log)
}

// The pool is capped at one connection: SQLite allows a single writer and
// the dispatcher transaction must not wait on a second connection.
func openSQLite(path string, gormCfg *gorm.Config) (*gorm.DB, error) {
	dsn := path
	if !strings.Contains(dsn, "?") {
		dsn = fmt.Sprintf("%s?_busy_timeout=%d&_foreign_keys=on", path, sqliteBusyTimeoutMillis)
	}
	db, err := gorm.Open(sqlite.Open(dsn), gormCfg)
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite database %s: %w", path, err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get underlying *sql.DB: %w", err)
	}
	sqlDB.SetMaxOpenConns(1)
	return db, nil
}

func openPostgres(dsn string, gormCfg *gorm.Config) (*gorm.DB, error) {
	sqlDB, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open postgres connection: %w", err)
	}
	sqlDB.SetMaxOpenConns(postgresMaxOpenConns)
	sqlDB.SetMaxIdleConns(postgresMaxIdleConns)
	sqlDB.SetConnMaxLifetime(postgresConnMaxLifetime)
	if err := sqlDB.Ping(); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("postgres ping failed: %w", err)
	}

	db, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), gormCfg)
	if err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("failed to initialize gorm for postgres: %w", err)
	}
	return db, nil
}

// AutoMigrate automatically migrates the database schema for the defined entities.
func AutoMigrate(db *gorm.DB) error {
	err := db.AutoMigrate(
		&entity.Reminder{},
		&entity.ReminderStat{},
		&entity.Session{},
		&entity.ServiceCategory{},
	)
	if err != nil {
		return fmt.Errorf("schema migration failed: %w", err)
	}
	return nil
}

// Close closes the underlying connection pool.
func Close(db *gorm.DB) error {
	if db == nil {
		return nil
	}
	sqlDB, err := db.DB()
	if err != nil {
		return fmt.Errorf("failed to get underlying *sql.DB: %w", err)
	}
	return sqlDB.Close()
}

func isPostgres(db *gorm.DB) bool {
	return db.Dialector.Name() == "postgres"
}

// gormWriter routes gorm's log lines into the application logger.
type gormWriter struct {
	log logger.Logger
}

func (w gormWriter) Printf(format string, args ...interface{}) {
	w.log.Warn(strings.TrimSpace(fmt.Sprintf(format, args...)))
}

func newGormLogger(log logger.Logger, level string) gormlogger.Interface {
	lvl := gormlogger.Warn
	if strings.EqualFold(level, "debug") {
		lvl = gormlogger.Info
	}
	return gormlogger.New(gormWriter{log: log.With("component", "gorm")}, gormlogger.Config{
		SlowThreshold:             500 * time.Millisecond,
		LogLevel:                  lvl,
		IgnoreRecordNotFoundError: true,
		Colorful:                  false,
	})
}
