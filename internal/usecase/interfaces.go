package usecase

import (
	"context"
	"time"

	"github.com/frank113/FinDash/internal/domain"
)

// LedgerSession is one exclusive load-mutate-save pass over the
// transaction table: the ledger is loaded on Begin, mutated in memory,
// and flushed on Commit. Close without Commit discards the mutations
// and always releases the writer, so it is safe to defer on every path.
type LedgerSession interface {
	Ledger() *domain.Ledger
	Commit(ctx context.Context) error
	Close(ctx context.Context) error
}

// LedgerStore owns transaction persistence. Begin acquires the single
// logical ledger writer; Snapshot loads a read-only ledger for
// aggregation and listing and never blocks a writer.
type LedgerStore interface {
	Begin(ctx context.Context) (LedgerSession, error)
	Snapshot(ctx context.Context) (*domain.Ledger, error)
}

// AccountStore defines data access for accounts.
type AccountStore interface {
	Create(ctx context.Context, account *domain.Account) error
	GetByID(ctx context.Context, id string) (*domain.Account, error)
	List(ctx context.Context) ([]*domain.Account, error)
}

// CategoryStore defines data access for categories and their goals.
type CategoryStore interface {
	Create(ctx context.Context, category *domain.Category) error
	GetByID(ctx context.Context, id string) (*domain.Category, error)
	List(ctx context.Context) ([]*domain.Category, error)
	Update(ctx context.Context, category *domain.Category) error
	Delete(ctx context.Context, id string) error
}

// RuleStore defines data access for payee rules.
type RuleStore interface {
	Create(ctx context.Context, rule *domain.Rule) error
	List(ctx context.Context) ([]*domain.Rule, error)
	Delete(ctx context.Context, id string) error
	DeleteByCategory(ctx context.Context, categoryID string) error
}

// IDGenerator generates unique IDs.
type IDGenerator interface {
	Generate() string
}

// ReportCache caches marshalled month reports. Get returns nil bytes
// on a miss. Implementations are optional; usecases treat a nil
// ReportCache as "no cache".
type ReportCache interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	InvalidateMonths(ctx context.Context, months []domain.Month) error
	InvalidateAll(ctx context.Context) error
}

// IdempotencyStore remembers responses to repeated mutating requests so
// a retried statement upload is served the first outcome instead of
// being imported twice.
type IdempotencyStore interface {
	CheckAndSet(ctx context.Context, key string, response []byte, ttl time.Duration) (bool, []byte, error)
	Update(ctx context.Context, key string, response []byte, ttl time.Duration) error
}
