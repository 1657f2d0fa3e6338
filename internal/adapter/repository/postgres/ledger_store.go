package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/frank113/FinDash/internal/domain"
	"github.com/frank113/FinDash/internal/usecase"
)

// ledgerWriterLockID is the advisory lock key serializing ledger write
// sessions. One logical writer at a time; readers never take it.
const ledgerWriterLockID int64 = 0x6c65646765723031

const selectTransactionsSQL = `
	SELECT id, account_id, posted_on, amount, raw_description,
	       category_id, parent_id, split, source_hash, created_at
	FROM transactions`

const insertTransactionSQL = `
	INSERT INTO transactions (
		id, account_id, posted_on, amount, raw_description,
		category_id, parent_id, split, source_hash, created_at
	) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`

const updateTransactionSQL = `
	UPDATE transactions SET category_id = $1, split = $2 WHERE id = $3`

const deleteTransactionSQL = `
	DELETE FROM transactions WHERE id = $1`

type querier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

// LedgerStore implements usecase.LedgerStore on PostgreSQL. The whole
// transaction table is small for a personal ledger, so sessions load it
// into a domain.Ledger and flush only the rows the session changed.
type LedgerStore struct {
	pool    *pgxpool.Pool
	retrier *Retrier
}

// NewLedgerStore creates a new LedgerStore.
func NewLedgerStore(pool *pgxpool.Pool) *LedgerStore {
	return &LedgerStore{
		pool:    pool,
		retrier: NewRetrier(),
	}
}

// Begin opens an exclusive write session. The advisory lock is taken
// before the load so every writer sees the previous writer's commit.
func (s *LedgerStore) Begin(ctx context.Context) (usecase.LedgerSession, error) {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, err
	}

	if _, err := tx.Exec(ctx, "SELECT pg_advisory_xact_lock($1)", ledgerWriterLockID); err != nil {
		_ = tx.Rollback(ctx)
		return nil, err
	}

	rows, err := loadTransactions(ctx, tx)
	if err != nil {
		_ = tx.Rollback(ctx)
		return nil, err
	}

	return &LedgerSession{tx: tx, ledger: domain.NewLedger(rows)}, nil
}

// Snapshot loads a read-only ledger without blocking writers.
func (s *LedgerStore) Snapshot(ctx context.Context) (*domain.Ledger, error) {
	var rows []*domain.Transaction
	err := s.retrier.Retry(ctx, func() error {
		var loadErr error
		rows, loadErr = loadTransactions(ctx, s.pool)
		return loadErr
	})
	if err != nil {
		return nil, err
	}
	return domain.NewLedger(rows), nil
}

// LedgerSession is one tx-scoped write pass over the ledger.
type LedgerSession struct {
	tx     pgx.Tx
	ledger *domain.Ledger
}

// Ledger returns the ledger loaded at Begin.
func (s *LedgerSession) Ledger() *domain.Ledger {
	return s.ledger
}

// Commit flushes the session's added, updated and removed rows in one
// batch and commits the transaction.
func (s *LedgerSession) Commit(ctx context.Context) error {
	if s.ledger.Dirty() {
		if err := s.flush(ctx); err != nil {
			return err
		}
	}
	return s.tx.Commit(ctx)
}

// Close rolls the transaction back. After a successful Commit it is a
// no-op, so it is safe to defer on every path.
func (s *LedgerSession) Close(ctx context.Context) error {
	err := s.tx.Rollback(ctx)
	if errors.Is(err, pgx.ErrTxClosed) {
		return nil
	}
	return err
}

func (s *LedgerSession) flush(ctx context.Context) error {
	b := &pgx.Batch{}
	for _, t := range s.ledger.Added() {
		b.Queue(insertTransactionSQL,
			t.ID, t.AccountID, t.Date.Time, t.Amount, t.RawDescription,
			t.CategoryID, t.ParentID, t.Split, t.SourceHash, t.CreatedAt)
	}
	for _, t := range s.ledger.Updated() {
		b.Queue(updateTransactionSQL, t.CategoryID, t.Split, t.ID)
	}
	// Removed rows may include children already cascaded away by their
	// parent's delete; deleting an absent row is harmless.
	for _, t := range s.ledger.Removed() {
		b.Queue(deleteTransactionSQL, t.ID)
	}
	return s.tx.SendBatch(ctx, b).Close()
}

func loadTransactions(ctx context.Context, q querier) ([]*domain.Transaction, error) {
	rows, err := q.Query(ctx, selectTransactionsSQL)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*domain.Transaction
	for rows.Next() {
		var t domain.Transaction
		var postedOn time.Time
		err := rows.Scan(
			&t.ID, &t.AccountID, &postedOn, &t.Amount, &t.RawDescription,
			&t.CategoryID, &t.ParentID, &t.Split, &t.SourceHash, &t.CreatedAt,
		)
		if err != nil {
			return nil, err
		}
		t.Date = domain.DateOf(postedOn)
		out = append(out, &t)
	}
	return out, rows.Err()
}
