package domain

import (
	"fmt"
	"sort"
)

type hashKey struct {
	accountID string
	hash      string
}

// Ledger is the full transaction set, held in memory for the duration
// of one import, split or categorize operation. It tracks the multiset
// of (account, source_hash) pairs over non-split-child transactions for
// dedup, and records which rows were added, updated or removed so the
// storage layer can flush only what changed.
type Ledger struct {
	txns    map[string]*Transaction
	hashes  map[hashKey]int
	added   map[string]*Transaction
	updated map[string]*Transaction
	removed map[string]*Transaction
	months  map[Month]struct{}
}

// NewLedger builds a ledger from previously persisted transactions.
func NewLedger(txns []*Transaction) *Ledger {
	l := &Ledger{
		txns:    make(map[string]*Transaction, len(txns)),
		hashes:  make(map[hashKey]int),
		added:   make(map[string]*Transaction),
		updated: make(map[string]*Transaction),
		removed: make(map[string]*Transaction),
		months:  make(map[Month]struct{}),
	}
	for _, t := range txns {
		l.txns[t.ID] = t
		if counted(t) {
			l.hashes[hashKey{t.AccountID, t.SourceHash}]++
		}
	}
	return l
}

// Split children share none of their own identity with the statement
// line, so only non-children contribute to the dedup multiset. Split
// parents keep contributing: the original line must still dedup on
// re-import.
func counted(t *Transaction) bool {
	return !t.IsSplitChild() && t.SourceHash != ""
}

// Len returns the number of transactions, split parents and children
// both included.
func (l *Ledger) Len() int {
	return len(l.txns)
}

// Get returns the transaction with the given id.
func (l *Ledger) Get(id string) (*Transaction, error) {
	t, ok := l.txns[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrTransactionNotFound, id)
	}
	return t, nil
}

// All returns every transaction ordered by date, then id.
func (l *Ledger) All() []*Transaction {
	out := make([]*Transaction, 0, len(l.txns))
	for _, t := range l.txns {
		out = append(out, t)
	}
	sortTransactions(out)
	return out
}

// HashCount returns how many non-split-child transactions of the
// account carry the given source hash.
func (l *Ledger) HashCount(accountID, hash string) int {
	return l.hashes[hashKey{accountID, hash}]
}

// Append admits a new transaction to the ledger.
func (l *Ledger) Append(t *Transaction) error {
	if _, ok := l.txns[t.ID]; ok {
		return fmt.Errorf("%w: %s", ErrDuplicateID, t.ID)
	}
	l.txns[t.ID] = t
	if counted(t) {
		l.hashes[hashKey{t.AccountID, t.SourceHash}]++
	}
	l.added[t.ID] = t
	l.touch(t.Date.YearMonth())
	return nil
}

// Categorize assigns a category to the transaction, or clears it when
// categoryID is nil.
func (l *Ledger) Categorize(id string, categoryID *string) (*Transaction, error) {
	t, err := l.Get(id)
	if err != nil {
		return nil, err
	}
	t.CategoryID = categoryID
	l.markUpdated(t)
	l.touch(t.Date.YearMonth())
	return t, nil
}

// Split replaces the effect of one transaction with the given children.
// The children's amounts must sum exactly to the parent amount; on
// success the parent is marked split and each child is admitted with the
// parent's date, account, description and source hash. Nothing is
// mutated on failure.
func (l *Ledger) Split(parentID string, children []*Transaction) error {
	parent, err := l.Get(parentID)
	if err != nil {
		return err
	}
	if parent.IsSplitChild() {
		return fmt.Errorf("%w: %s", ErrSplitChild, parentID)
	}
	if parent.Split {
		return fmt.Errorf("%w: %s", ErrAlreadySplit, parentID)
	}
	if len(children) == 0 {
		return ErrEmptySplit
	}

	var sum int64
	for _, c := range children {
		if _, ok := l.txns[c.ID]; ok {
			return fmt.Errorf("%w: %s", ErrDuplicateID, c.ID)
		}
		sum += c.Amount
	}
	if sum != parent.Amount {
		return fmt.Errorf("%w: parts sum to %d, parent amount is %d", ErrSplitSumMismatch, sum, parent.Amount)
	}

	for _, c := range children {
		c.AccountID = parent.AccountID
		c.Date = parent.Date
		c.RawDescription = parent.RawDescription
		c.SourceHash = parent.SourceHash
		pid := parent.ID
		c.ParentID = &pid

		l.txns[c.ID] = c
		l.added[c.ID] = c
	}
	parent.Split = true
	l.markUpdated(parent)
	l.touch(parent.Date.YearMonth())
	return nil
}

// UndoSplit deletes the children of a split transaction and clears its
// split flag, restoring it to aggregation.
func (l *Ledger) UndoSplit(parentID string) error {
	parent, err := l.Get(parentID)
	if err != nil {
		return err
	}
	if !parent.Split {
		return fmt.Errorf("%w: %s", ErrNotSplit, parentID)
	}

	for _, c := range l.ChildrenOf(parentID) {
		l.delete(c)
	}
	parent.Split = false
	l.markUpdated(parent)
	l.touch(parent.Date.YearMonth())
	return nil
}

// Remove deletes a transaction. Removing a split parent removes its
// children with it; removing a single child is rejected since it would
// break the parent's sum, undo the split instead.
func (l *Ledger) Remove(id string) error {
	t, err := l.Get(id)
	if err != nil {
		return err
	}
	if t.IsSplitChild() {
		return fmt.Errorf("%w: %s", ErrSplitChild, id)
	}

	if t.Split {
		for _, c := range l.ChildrenOf(id) {
			l.delete(c)
		}
	}
	l.delete(t)
	return nil
}

// ChildrenOf returns the split children of a transaction ordered by id.
func (l *Ledger) ChildrenOf(parentID string) []*Transaction {
	var out []*Transaction
	for _, t := range l.txns {
		if t.ParentID != nil && *t.ParentID == parentID {
			out = append(out, t)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// ClearCategory strips the given category from every transaction that
// references it and returns how many were touched. Used when the
// category itself is deleted; the transactions return to the
// uncategorized bucket.
func (l *Ledger) ClearCategory(categoryID string) int {
	cleared := 0
	for _, t := range l.txns {
		if t.CategoryID != nil && *t.CategoryID == categoryID {
			t.CategoryID = nil
			l.markUpdated(t)
			l.touch(t.Date.YearMonth())
			cleared++
		}
	}
	return cleared
}

// Added returns the transactions appended since the ledger was loaded,
// ordered by id.
func (l *Ledger) Added() []*Transaction {
	return sortedByID(l.added)
}

// Updated returns the previously persisted transactions mutated since
// load, ordered by id.
func (l *Ledger) Updated() []*Transaction {
	return sortedByID(l.updated)
}

// Removed returns the previously persisted transactions deleted since
// load, ordered by id.
func (l *Ledger) Removed() []*Transaction {
	return sortedByID(l.removed)
}

// Dirty reports whether anything changed since the ledger was loaded.
func (l *Ledger) Dirty() bool {
	return len(l.added)+len(l.updated)+len(l.removed) > 0
}

// TouchedMonths returns the months affected by the session's mutations
// in ascending order. Report caches for these months are stale.
func (l *Ledger) TouchedMonths() []Month {
	out := make([]Month, 0, len(l.months))
	for m := range l.months {
		out = append(out, m)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Before(out[j]) })
	return out
}

func (l *Ledger) delete(t *Transaction) {
	delete(l.txns, t.ID)
	if counted(t) {
		l.hashes[hashKey{t.AccountID, t.SourceHash}]--
		if l.hashes[hashKey{t.AccountID, t.SourceHash}] <= 0 {
			delete(l.hashes, hashKey{t.AccountID, t.SourceHash})
		}
	}
	delete(l.updated, t.ID)
	if _, ok := l.added[t.ID]; ok {
		// never persisted, nothing to delete downstream
		delete(l.added, t.ID)
	} else {
		l.removed[t.ID] = t
	}
	l.touch(t.Date.YearMonth())
}

func (l *Ledger) markUpdated(t *Transaction) {
	if _, ok := l.added[t.ID]; !ok {
		l.updated[t.ID] = t
	}
}

func (l *Ledger) touch(m Month) {
	l.months[m] = struct{}{}
}

func sortedByID(m map[string]*Transaction) []*Transaction {
	out := make([]*Transaction, 0, len(m))
	for _, t := range m {
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func sortTransactions(ts []*Transaction) {
	sort.Slice(ts, func(i, j int) bool {
		if !ts[i].Date.Equal(ts[j].Date.Time) {
			return ts[i].Date.Before(ts[j].Date.Time)
		}
		return ts[i].ID < ts[j].ID
	})
}
