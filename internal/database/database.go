package database

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/driver/postgres"
	gormsqlite "gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
	_ "modernc.org/sqlite"

	"estatehub/internal/config"
)

// Options tune the gorm handle independently of the DSN.
type Options struct {
	MaxOpenConns int
	LogLevel     logger.LogLevel
}

// Open builds the DSN from cfg and connects. The returned handle owns the
// connection pool and must be released with Close.
func Open(cfg config.DatabaseConfig, log *slog.Logger) (*gorm.DB, error) {
	opts := Options{MaxOpenConns: cfg.MaxOpenConns, LogLevel: logger.Warn}

	switch cfg.Driver {
	case "sqlite":
		log.Info("using SQLite", "path", cfg.SQLitePath)
		return Connect(SQLiteDSN(cfg.SQLitePath), opts)
	default:
		log.Info("connecting to PostgreSQL", "host", cfg.Host, "port", cfg.Port, "database", cfg.Name)
		return Connect(PostgresDSN(cfg), opts)
	}
}

// Connect opens either PostgreSQL or SQLite depending on the DSN scheme.
func Connect(dsn string, opts Options) (*gorm.DB, error) {
	gormCfg := &gorm.Config{
		Logger:         logger.Default.LogMode(opts.LogLevel),
		TranslateError: true,
	}

	var (
		db  *gorm.DB
		err error
	)
	sqlite := !strings.HasPrefix(dsn, "postgres://") && !strings.HasPrefix(dsn, "postgresql://")
	if sqlite {
		db, err = gorm.Open(
			gormsqlite.New(gormsqlite.Config{
				DriverName: "sqlite",
				DSN:        dsn,
			}),
			gormCfg,
		)
	} else {
		db, err = gorm.Open(postgres.Open(dsn), gormCfg)
	}
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("get sql.DB: %w", err)
	}
	if sqlite {
		// one writer avoids "database is locked" and keeps :memory: databases alive
		sqlDB.SetMaxOpenConns(1)
	} else if opts.MaxOpenConns > 0 {
		sqlDB.SetMaxOpenConns(opts.MaxOpenConns)
	}

	return db, nil
}

// PostgresDSN renders a postgres:// URL from the DB_* settings.
func PostgresDSN(cfg config.DatabaseConfig) string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		cfg.User, cfg.Password, cfg.Host, cfg.Port, cfg.Name, cfg.SSLMode)
}

// SQLiteDSN enables foreign keys on every connection so that
// ON DELETE CASCADE works like it does on PostgreSQL.
func SQLiteDSN(path string) string {
	sep := "?"
	if strings.Contains(path, "?") {
		sep = "&"
	}
	return "file:" + strings.TrimPrefix(path, "file:") + sep + "_pragma=foreign_keys(1)"
}

// MemoryDSN returns a private in-memory SQLite database keyed by name.
func MemoryDSN(name string) string {
	return SQLiteDSN(name + "?mode=memory&cache=shared")
}

// Close releases the pool behind db.
func Close(db *gorm.DB) error {
	if db == nil {
		return nil
	}
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// IsUniqueViolation reports whether err comes from a unique index, whatever
// the driver.
func IsUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505"
	}
	return strings.Contains(err.Error(), "UNIQUE constraint failed")
}

// IsForeignKeyViolation is the foreign key counterpart of IsUniqueViolation.
func IsForeignKeyViolation(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrForeignKeyViolated) {
		return true
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23503"
	}
	return strings.Contains(err.Error(), "FOREIGN KEY constraint failed")
}
