package statement

import (
	"errors"
	"io"

	"github.com/frank113/FinDash/internal/domain"
)

// Normalizer converts one institution statement into canonical
// candidate transactions. It iterates in the bufio.Scanner mold: Next
// advances past any malformed lines, Candidate returns the current
// transaction, Err reports a fatal source failure and RowErrors the
// malformed lines skipped along the way. Candidates are not yet
// admitted to any ledger; dedup happens downstream.
type Normalizer struct {
	schema    Schema
	accountID string
	src       RowSource

	line    int
	cur     *domain.Transaction
	rowErrs []*RowError
	err     error
	done    bool
}

// NewNormalizer builds a normalizer for one account's statement.
func NewNormalizer(schema Schema, accountID string, src RowSource) *Normalizer {
	return &Normalizer{schema: schema, accountID: accountID, src: src, line: 1}
}

// Next advances to the next well-formed candidate. It returns false
// when the source is exhausted or failed fatally.
func (n *Normalizer) Next() bool {
	if n.done {
		return false
	}
	for {
		row, err := n.src.Next()
		if err != nil {
			if errors.Is(err, io.EOF) {
				n.done = true
				return false
			}
			var re *RowError
			if errors.As(err, &re) {
				n.line = re.Line
				n.rowErrs = append(n.rowErrs, re)
				continue
			}
			n.err = err
			n.done = true
			return false
		}
		n.line++

		txn, err := n.schema.normalizeRow(n.accountID, row)
		if err != nil {
			n.rowErrs = append(n.rowErrs, &RowError{Line: n.line, Err: err})
			continue
		}
		n.cur = txn
		return true
	}
}

// Candidate returns the transaction produced by the last Next.
func (n *Normalizer) Candidate() *domain.Transaction {
	return n.cur
}

// Err returns the fatal source error that stopped iteration, if any.
// Malformed rows are not fatal; see RowErrors.
func (n *Normalizer) Err() error {
	return n.err
}

// RowErrors returns the malformed lines encountered so far.
func (n *Normalizer) RowErrors() []*RowError {
	return n.rowErrs
}

// Collect drains the normalizer and returns every well-formed
// candidate in statement order.
func (n *Normalizer) Collect() ([]*domain.Transaction, error) {
	var out []*domain.Transaction
	for n.Next() {
		out = append(out, n.Candidate())
	}
	if err := n.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
