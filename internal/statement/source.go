package statement

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/frank113/FinDash/internal/domain"
)

// Row is one raw statement line keyed by column header.
type Row map[string]string

// RowSource yields statement rows in file order. Sources are forward
// only; retrying an import means reopening the file. A row-local
// problem is returned as *RowError so the caller can record it and keep
// going; any other error is fatal to the source.
type RowSource interface {
	Next() (Row, error) // io.EOF when exhausted
}

// RowError is one malformed statement line: the record number in the
// source (the header is record 1) and what was wrong with it. Wraps
// domain.ErrMalformedRow.
type RowError struct {
	Line int
	Err  error
}

func (e *RowError) Error() string {
	return fmt.Sprintf("row %d: %v", e.Line, e.Err)
}

func (e *RowError) Unwrap() error {
	return e.Err
}

// CSVSource reads statement rows from a CSV export with a header line.
type CSVSource struct {
	r      *csv.Reader
	header []string
	line   int
}

// NewCSVSource wraps a CSV stream, consuming the header line.
func NewCSVSource(r io.Reader) (*CSVSource, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("statement: file is empty")
	}
	if err != nil {
		return nil, fmt.Errorf("statement: read header: %w", err)
	}
	for i, name := range header {
		if i == 0 {
			// Excel and most banks prepend a BOM.
			name = strings.TrimPrefix(name, "\uFEFF")
		}
		header[i] = strings.TrimSpace(name)
	}

	return &CSVSource{r: cr, header: header, line: 1}, nil
}

func (s *CSVSource) Next() (Row, error) {
	rec, err := s.r.Read()
	if errors.Is(err, io.EOF) {
		return nil, io.EOF
	}
	s.line++
	if err != nil {
		var pe *csv.ParseError
		if errors.As(err, &pe) {
			return nil, &RowError{Line: s.line, Err: fmt.Errorf("%w: %v", domain.ErrMalformedRow, err)}
		}
		return nil, fmt.Errorf("statement: read row: %w", err)
	}

	row := make(Row, len(s.header))
	for i, name := range s.header {
		if i < len(rec) {
			row[name] = rec[i]
		}
	}
	return row, nil
}
