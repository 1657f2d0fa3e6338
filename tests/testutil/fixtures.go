package testutil

import (
	"context"
	"database/sql"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/oklog/ulid/v2"

	"github.com/frank113/FinDash/internal/adapter/repository/postgres"
	"github.com/frank113/FinDash/internal/adapter/repository/sqlite"
	"github.com/frank113/FinDash/internal/domain"
	infrapostgres "github.com/frank113/FinDash/internal/infrastructure/postgres"
	infrasqlite "github.com/frank113/FinDash/internal/infrastructure/sqlite"
	"github.com/frank113/FinDash/internal/usecase"
)

// Stores bundles one driver's store implementations for tests.
type Stores struct {
	Ledger     usecase.LedgerStore
	Accounts   usecase.AccountStore
	Categories usecase.CategoryStore
	Rules      usecase.RuleStore
	IDGen      usecase.IDGenerator

	t       *testing.T
	pool    *pgxpool.Pool
	sqliteD *sql.DB
}

// NewSQLiteStores opens a fresh SQLite database in a temp directory and
// migrates it. Every call gets its own file, so tests stay isolated.
func NewSQLiteStores(t *testing.T) *Stores {
	t.Helper()

	path := filepath.Join(t.TempDir(), "findash.db")

	db, err := infrasqlite.Open(path)
	if err != nil {
		t.Fatalf("failed to open sqlite database: %v", err)
	}

	if err := infrasqlite.RunMigrations(path); err != nil {
		db.Close()
		t.Fatalf("failed to run migrations: %v", err)
	}

	return &Stores{
		Ledger:     sqlite.NewLedgerStore(db),
		Accounts:   sqlite.NewAccountStore(db),
		Categories: sqlite.NewCategoryStore(db),
		Rules:      sqlite.NewRuleStore(db),
		IDGen:      postgres.NewULIDGenerator(),
		t:          t,
		sqliteD:    db,
	}
}

// NewPostgresStores connects to the database named by DATABASE_URL and
// migrates it. Tests that call it are skipped when the variable is not
// set, so a plain `go test ./...` never needs a running PostgreSQL.
func NewPostgresStores(t *testing.T) *Stores {
	t.Helper()

	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		t.Skip("DATABASE_URL not set; skipping postgres test")
	}

	migrationsPath := findMigrationsPath(t)
	if err := infrapostgres.RunMigrations(dbURL, migrationsPath); err != nil {
		t.Fatalf("failed to run migrations: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	pool, err := pgxpool.New(ctx, dbURL)
	if err != nil {
		t.Fatalf("failed to connect to test database: %v", err)
	}

	if err := pool.Ping(ctx); err != nil {
		t.Fatalf("failed to ping test database: %v", err)
	}

	return &Stores{
		Ledger:     postgres.NewLedgerStore(pool),
		Accounts:   postgres.NewAccountStore(pool),
		Categories: postgres.NewCategoryStore(pool),
		Rules:      postgres.NewRuleStore(pool),
		IDGen:      postgres.NewULIDGenerator(),
		t:          t,
		pool:       pool,
	}
}

// findMigrationsPath probes upward from the test's working directory,
// which differs between `go test ./...` and IDE runs.
func findMigrationsPath(t *testing.T) string {
	t.Helper()

	candidates := []string{
		"migrations/postgres",
		"../../migrations/postgres",
		"../../../migrations/postgres",
	}
	for _, p := range candidates {
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}

	t.Fatalf("could not locate migrations/postgres from %q", mustGetwd())
	return ""
}

func mustGetwd() string {
	wd, err := os.Getwd()
	if err != nil {
		return "unknown"
	}
	return wd
}

// Cleanup closes the underlying connections.
func (s *Stores) Cleanup() {
	if s.pool != nil {
		s.pool.Close()
	}
	if s.sqliteD != nil {
		_ = s.sqliteD.Close()
	}
}

// TruncateAll removes all data from tables.
func (s *Stores) TruncateAll(ctx context.Context) {
	s.t.Helper()

	if s.pool != nil {
		_, err := s.pool.Exec(ctx, `
			TRUNCATE TABLE rules CASCADE;
			TRUNCATE TABLE transactions CASCADE;
			TRUNCATE TABLE categories CASCADE;
			TRUNCATE TABLE accounts CASCADE;
		`)
		if err != nil {
			s.t.Fatalf("failed to truncate tables: %v", err)
		}
	}
}

// CreateTestAccount creates an account through the store and returns it.
func (s *Stores) CreateTestAccount(ctx context.Context, name, institution string) *domain.Account {
	s.t.Helper()

	account := &domain.Account{
		ID:          s.IDGen.Generate(),
		Name:        name,
		Institution: institution,
		CreatedAt:   time.Now().UTC(),
	}

	if err := s.Accounts.Create(ctx, account); err != nil {
		s.t.Fatalf("failed to create test account: %v", err)
	}

	return account
}

// CreateTestCategory creates a category through the store and returns it.
func (s *Stores) CreateTestCategory(ctx context.Context, name string, monthlyGoal *int64) *domain.Category {
	s.t.Helper()

	category := &domain.Category{
		ID:          s.IDGen.Generate(),
		Name:        name,
		MonthlyGoal: monthlyGoal,
		CreatedAt:   time.Now().UTC(),
	}

	if err := s.Categories.Create(ctx, category); err != nil {
		s.t.Fatalf("failed to create test category: %v", err)
	}

	return category
}

// GenerateID generates a new ULID.
func GenerateID() string {
	return ulid.Make().String()
}
