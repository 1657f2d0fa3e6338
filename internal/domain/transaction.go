package domain

import (
	"crypto/sha256"
	"encoding/hex"
	"strconv"
	"time"
)

// Transaction is one canonical ledger line. Core fields are immutable
// once committed; only CategoryID and the Split flag change afterwards.
// Amount is in minor currency units (cents), expenses negative and
// income positive regardless of how the institution exported the row.
type Transaction struct {
	ID             string
	AccountID      string
	Date           Date
	Amount         int64
	RawDescription string
	CategoryID     *string
	ParentID       *string
	Split          bool
	SourceHash     string
	CreatedAt      time.Time
}

// IsSplitChild reports whether the transaction was produced by splitting
// another transaction.
func (t *Transaction) IsSplitChild() bool {
	return t.ParentID != nil
}

// Countable reports whether the transaction participates in budget
// aggregation. Split parents are retained for audit and undo but their
// children carry the spend.
func (t *Transaction) Countable() bool {
	return !t.Split
}

// ComputeSourceHash derives the dedup identity of a statement line from
// the fields every institution export can reproduce. Two exports of the
// same line always collide; everything else is expected not to.
func ComputeSourceHash(accountID string, date Date, amount int64, rawDescription string) string {
	h := sha256.New()
	h.Write([]byte(accountID))
	h.Write([]byte{'|'})
	h.Write([]byte(date.String()))
	h.Write([]byte{'|'})
	h.Write([]byte(strconv.FormatInt(amount, 10)))
	h.Write([]byte{'|'})
	h.Write([]byte(rawDescription))
	return hex.EncodeToString(h.Sum(nil))
}
