package repository

import (
	"database/sql"
	"embed"
	"errors"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database"
	migratepgx "github.com/golang-migrate/migrate/v4/database/pgx/v5"
	migratesqlite "github.com/golang-migrate/migrate/v4/database/sqlite"
	"github.com/golang-migrate/migrate/v4/source/iofs"
)

//go:embed migrations
var migrationsFS embed.FS

type dialect struct {
	name   string
	driver string
	// migrationsDir is the directory inside migrationsFS.
	migrationsDir string
	withInstance  func(db *sql.DB) (database.Driver, error)
}

var (
	postgresDialect = dialect{
		name:          "postgres",
		driver:        "pgx",
		migrationsDir: "migrations/postgres",
		withInstance: func(db *sql.DB) (database.Driver, error) {
			return migratepgx.WithInstance(db, &migratepgx.Config{})
		},
	}
	sqliteDialect = dialect{
		name:          "sqlite",
		driver:        "sqlite",
		migrationsDir: "migrations/sqlite",
		withInstance: func(db *sql.DB) (database.Driver, error) {
			return migratesqlite.WithInstance(db, &migratesqlite.Config{})
		},
	}
)

// NewMigrate builds a migrate instance on a dedicated connection. Closing the
// returned instance closes that connection only.
func (r *Repository) NewMigrate() (*migrate.Migrate, error) {
	if r.dsn == "" {
		return nil, errors.New("repository has no dsn to migrate")
	}

	src, err := iofs.New(migrationsFS, r.dialect.migrationsDir)
	if err != nil {
		return nil, fmt.Errorf("failed to load migrations: %w", err)
	}

	db, err := sql.Open(r.dialect.driver, r.dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open migration connection: %w", err)
	}

	driver, err := r.dialect.withInstance(db)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create migration driver: %w", err)
	}

	m, err := migrate.NewWithInstance("iofs", src, r.dialect.name, driver)
	if err != nil {
		driver.Close()
		return nil, fmt.Errorf("failed to create migrate instance: %w", err)
	}
	return m, nil
}

// Migrate applies all pending migrations.
func (r *Repository) Migrate() error {
	m, err := r.NewMigrate()
	if err != nil {
		return err
	}
	defer m.Close()

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("failed to run migrations: %w", err)
	}
	return nil
}
