package repository

import (
	"context"
	"fmt"
	"strings"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
	"github.com/xreward/backend/internal/config"
	"github.com/xreward/backend/internal/model"
	_ "modernc.org/sqlite"
)

// Store is the persistence surface used by the services. Each backend gets its
// own constructor; callers never look at which one they were handed.
type Store interface {
	GetUser(ctx context.Context, id int64) (*model.User, error)
	GetUserByReferralCode(ctx context.Context, code string) (*model.User, error)
	ReferralCodeExists(ctx context.Context, code string) (bool, error)
	CreateUser(ctx context.Context, user *model.User) (bool, error)
	AddCoins(ctx context.Context, id, amount int64) error
	IncrementReferrals(ctx context.Context, id int64) error
	SetBoostUntil(ctx context.Context, id, until int64) error
	TopUsers(ctx context.Context, limit int) ([]model.LeaderboardEntry, error)

	InsertAdWatch(ctx context.Context, userID, watchedAt int64) error
	CountAdWatchesSince(ctx context.Context, userID, since int64) (int, error)
	DeleteAdWatchesBefore(ctx context.Context, cutoff int64) (int64, error)

	InsertVerifier(ctx context.Context, grant *model.VerifierGrant) (bool, error)
	DeleteVerifier(ctx context.Context, userID int64) (bool, error)
	IsVerifier(ctx context.Context, userID int64) (bool, error)
	ListVerifiers(ctx context.Context) ([]model.VerifierGrant, error)

	Ping(ctx context.Context) error
	Migrate() error
	Close() error
}

type Repository struct {
	db      *sqlx.DB
	dialect dialect
	dsn     string
}

var _ Store = (*Repository)(nil)

// Open picks the backend once from the configured DATABASE_URL.
func Open(cfg config.DatabaseConfig) (*Repository, error) {
	if cfg.IsPostgres() {
		return NewPostgres(cfg.URL)
	}
	return NewSQLite(cfg.SQLitePath())
}

func NewPostgres(dsn string) (*Repository, error) {
	db, err := sqlx.Connect(postgresDialect.driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)

	return &Repository{db: db, dialect: postgresDialect, dsn: dsn}, nil
}

func NewSQLite(path string) (*Repository, error) {
	dsn := sqliteDSN(path)
	db, err := sqlx.Connect(sqliteDialect.driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite database: %w", err)
	}

	// SQLite allows a single writer.
	db.SetMaxOpenConns(1)

	return &Repository{db: db, dialect: sqliteDialect, dsn: dsn}, nil
}

// newWithDB wraps an existing handle, used by tests with sqlmock.
func newWithDB(db *sqlx.DB, d dialect) *Repository {
	return &Repository{db: db, dialect: d}
}

func (r *Repository) Close() error {
	return r.db.Close()
}

func (r *Repository) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}

func (r *Repository) DB() *sqlx.DB {
	return r.db
}

// Dialect returns the backend name, "postgres" or "sqlite".
func (r *Repository) Dialect() string {
	return r.dialect.name
}

func (r *Repository) get(ctx context.Context, dest interface{}, query string, args ...interface{}) error {
	return r.db.GetContext(ctx, dest, r.db.Rebind(query), args...)
}

func (r *Repository) selectAll(ctx context.Context, dest interface{}, query string, args ...interface{}) error {
	return r.db.SelectContext(ctx, dest, r.db.Rebind(query), args...)
}

// exec runs a statement and returns the number of affected rows.
func (r *Repository) exec(ctx context.Context, query string, args ...interface{}) (int64, error) {
	res, err := r.db.ExecContext(ctx, r.db.Rebind(query), args...)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func sqliteDSN(path string) string {
	if strings.HasPrefix(path, "file:") || strings.Contains(path, "?") {
		return path
	}
	return "file:" + path + "?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)"
}
