package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/frank113/FinDash/internal/domain"
	"github.com/frank113/FinDash/internal/usecase"
)

const selectTransactionsSQL = `
	SELECT id, account_id, posted_on, amount, raw_description,
	       category_id, parent_id, split, source_hash, created_at
	FROM transactions`

const insertTransactionSQL = `
	INSERT INTO transactions (
		id, account_id, posted_on, amount, raw_description,
		category_id, parent_id, split, source_hash, created_at
	) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

const updateTransactionSQL = `
	UPDATE transactions SET category_id = ?, split = ? WHERE id = ?`

const deleteTransactionSQL = `
	DELETE FROM transactions WHERE id = ?`

type querier interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
}

// LedgerStore implements usecase.LedgerStore on SQLite. SQLite allows
// one writer per database; the store adds an in-process mutex so write
// sessions queue instead of failing with SQLITE_BUSY.
type LedgerStore struct {
	db *sql.DB
	mu sync.Mutex
}

// NewLedgerStore creates a new LedgerStore.
func NewLedgerStore(db *sql.DB) *LedgerStore {
	return &LedgerStore{db: db}
}

// Begin opens an exclusive write session.
func (s *LedgerStore) Begin(ctx context.Context) (usecase.LedgerSession, error) {
	s.mu.Lock()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.mu.Unlock()
		return nil, err
	}

	rows, err := loadTransactions(ctx, tx)
	if err != nil {
		_ = tx.Rollback()
		s.mu.Unlock()
		return nil, err
	}

	return &LedgerSession{store: s, tx: tx, ledger: domain.NewLedger(rows)}, nil
}

// Snapshot loads a read-only ledger.
func (s *LedgerStore) Snapshot(ctx context.Context) (*domain.Ledger, error) {
	rows, err := loadTransactions(ctx, s.db)
	if err != nil {
		return nil, err
	}
	return domain.NewLedger(rows), nil
}

// LedgerSession is one tx-scoped write pass over the ledger. It holds
// the store's writer mutex until Commit or Close.
type LedgerSession struct {
	store  *LedgerStore
	tx     *sql.Tx
	ledger *domain.Ledger
	done   bool
}

// Ledger returns the ledger loaded at Begin.
func (s *LedgerSession) Ledger() *domain.Ledger {
	return s.ledger
}

// Commit flushes the session's added, updated and removed rows and
// commits. On flush failure the session stays open for Close to roll
// back.
func (s *LedgerSession) Commit(ctx context.Context) error {
	if s.done {
		return sql.ErrTxDone
	}
	if s.ledger.Dirty() {
		if err := s.flush(ctx); err != nil {
			return err
		}
	}
	if err := s.tx.Commit(); err != nil {
		return err
	}
	s.finish()
	return nil
}

// Close rolls the transaction back and releases the writer. After a
// successful Commit it is a no-op, so it is safe to defer.
func (s *LedgerSession) Close(ctx context.Context) error {
	if s.done {
		return nil
	}
	err := s.tx.Rollback()
	s.finish()
	if errors.Is(err, sql.ErrTxDone) {
		return nil
	}
	return err
}

func (s *LedgerSession) finish() {
	s.done = true
	s.store.mu.Unlock()
}

func (s *LedgerSession) flush(ctx context.Context) error {
	for _, t := range s.ledger.Added() {
		_, err := s.tx.ExecContext(ctx, insertTransactionSQL,
			t.ID, t.AccountID, t.Date.String(), t.Amount, t.RawDescription,
			t.CategoryID, t.ParentID, t.Split, t.SourceHash, formatTime(t.CreatedAt))
		if err != nil {
			return fmt.Errorf("insert transaction %s: %w", t.ID, err)
		}
	}
	for _, t := range s.ledger.Updated() {
		_, err := s.tx.ExecContext(ctx, updateTransactionSQL, t.CategoryID, t.Split, t.ID)
		if err != nil {
			return fmt.Errorf("update transaction %s: %w", t.ID, err)
		}
	}
	for _, t := range s.ledger.Removed() {
		if _, err := s.tx.ExecContext(ctx, deleteTransactionSQL, t.ID); err != nil {
			return fmt.Errorf("delete transaction %s: %w", t.ID, err)
		}
	}
	return nil
}

func loadTransactions(ctx context.Context, q querier) ([]*domain.Transaction, error) {
	rows, err := q.QueryContext(ctx, selectTransactionsSQL)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*domain.Transaction
	for rows.Next() {
		var (
			t         domain.Transaction
			postedOn  string
			createdAt string
		)
		err := rows.Scan(
			&t.ID, &t.AccountID, &postedOn, &t.Amount, &t.RawDescription,
			&t.CategoryID, &t.ParentID, &t.Split, &t.SourceHash, &createdAt,
		)
		if err != nil {
			return nil, err
		}
		if t.Date, err = domain.ParseDate(postedOn); err != nil {
			return nil, fmt.Errorf("transaction %s: %w", t.ID, err)
		}
		if t.CreatedAt, err = parseTime(createdAt); err != nil {
			return nil, fmt.Errorf("transaction %s: %w", t.ID, err)
		}
		out = append(out, &t)
	}
	return out, rows.Err()
}

// Timestamps are stored as RFC 3339 text so rows stay readable in the
// sqlite3 shell.
func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}

func parseTime(s string) (time.Time, error) {
	return time.Parse(time.RFC3339Nano, s)
}
