// Package db provides database connectivity and migration functionality for the tareas application.
// It establishes the pgx connection pool, exposes a database/sql view of that same pool
// (wrapped in sqlx for struct scanning) to the repositories, and runs the embedded migrations.
package db

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"strconv"
	"time"

	"github.com/golang-migrate/migrate/v4"
	// The postgres database driver registers itself with golang-migrate; it talks lib/pq under the hood.
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/jackc/pgx/v5/pgxpool"
	// `stdlib` bridges a pgxpool.Pool into a *sql.DB so sqlx (and sqlmock in tests) can sit on top.
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"

	"github.com/user/tareas-go/apperror"
	"github.com/user/tareas-go/config"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// NewDBPool establishes a connection pool to PostgreSQL using the provided configuration.
// The pool is pinged before it is returned so that a wrong password or an unreachable host
// is reported at startup instead of on the first request.
func NewDBPool(ctx context.Context, cfg *config.DatabaseConfig) (*pgxpool.Pool, error) {
	poolConfig, err := pgxpool.ParseConfig(DSN(cfg))
	if err != nil {
		return nil, apperror.NewDatabaseError(fmt.Sprintf("error parsing DSN for database %s", cfg.DBName), err)
	}

	poolConfig.MaxConns = int32(cfg.MaxSize)
	poolConfig.MaxConnIdleTime = 10 * time.Minute
	poolConfig.MaxConnLifetime = 30 * time.Minute

	// Use a context with a timeout for the pool creation process.
	// This prevents indefinite blocking if the database is unreachable.
	createCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	pool, err := pgxpool.NewWithConfig(createCtx, poolConfig)
	if err != nil {
		return nil, apperror.NewDatabaseError(fmt.Sprintf("error creating pgxpool for database %s", cfg.DBName), err)
	}

	pingCtx, pingCancel := context.WithTimeout(ctx, 5*time.Second)
	defer pingCancel()
	if err := pool.Ping(pingCtx); err != nil {
		pool.Close()
		return nil, apperror.NewDatabaseError(fmt.Sprintf("error connecting to the database %s with pgxpool", cfg.DBName), err)
	}

	return pool, nil
}

// NewSQLX returns a *sqlx.DB backed by the given pool.
// Closing the returned handle does not close the pool.
func NewSQLX(pool *pgxpool.Pool) *sqlx.DB {
	return sqlx.NewDb(stdlib.OpenDBFromPool(pool), "pgx")
}

// DSN constructs a postgres:// connection URL from the database configuration.
// The same URL works for pgx and for golang-migrate's postgres driver.
func DSN(cfg *config.DatabaseConfig) string {
	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(cfg.User, cfg.Password),
		Host:     cfg.Host + ":" + strconv.Itoa(cfg.Port),
		Path:     "/" + cfg.DBName,
		RawQuery: "sslmode=disable",
	}
	return u.String()
}

// RunMigrations applies any pending migrations embedded under db/migrations.
// Migration files follow golang-migrate naming: {version}_{title}.up.sql / .down.sql.
func RunMigrations(cfg *config.DatabaseConfig, logger *slog.Logger) error {
	src, err := iofs.New(migrationsFS, "migrations")
	if err != nil {
		return apperror.NewMigrationError("failed to open embedded migrations", err)
	}

	m, err := migrate.NewWithSourceInstance("iofs", src, DSN(cfg))
	if err != nil {
		return apperror.NewMigrationError("failed to create migrator", err)
	}
	// m.Close() returns two errors, one for source and one for database.
	defer func() {
		if srcErr, dbErr := m.Close(); srcErr != nil || dbErr != nil {
			logger.Warn("error closing migrator", "source_err", srcErr, "db_err", dbErr)
		}
	}()

	// `migrate.ErrNoChange` is returned if there are no new migrations to apply, which is not an actual error.
	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return apperror.NewMigrationError("failed to run migrations", err)
	}

	version, dirty, err := m.Version()
	if err == nil {
		logger.Info("database schema up to date", "version", version, "dirty", dirty)
	}
	return nil
}
