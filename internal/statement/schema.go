package statement

import (
	"fmt"
	"strings"
	"time"

	"github.com/frank113/FinDash/internal/domain"
)

// Schema describes one institution's statement export: which columns
// hold what, how dates are written, and which sign convention amounts
// follow. Each institution is a variant of this one descriptor rather
// than a parser subclass, so its quirks stay isolated and testable.
//
// Exactly one amount layout applies. Single-amount exports put a signed
// (or to-be-negated) number in AmountColumn; debit/credit exports put
// positive numbers in DebitColumn (expenses) or CreditColumn (income),
// leaving the other cell empty.
type Schema struct {
	Institution string

	DateColumn        string
	DateFormats       []string
	DescriptionColumn string

	AmountColumn string
	// NegateAmount flips single-column amounts for exports that list
	// charges as positive numbers, the usual card-statement convention.
	NegateAmount bool

	DebitColumn  string
	CreditColumn string
}

// Validate checks the descriptor is complete enough to parse rows.
func (s Schema) Validate() error {
	if strings.TrimSpace(s.Institution) == "" {
		return fmt.Errorf("statement schema: institution name required")
	}
	if s.DateColumn == "" || len(s.DateFormats) == 0 {
		return fmt.Errorf("statement schema %s: date column and formats required", s.Institution)
	}
	if s.DescriptionColumn == "" {
		return fmt.Errorf("statement schema %s: description column required", s.Institution)
	}

	single := s.AmountColumn != ""
	double := s.DebitColumn != "" || s.CreditColumn != ""
	if single == double {
		return fmt.Errorf("statement schema %s: exactly one amount layout required", s.Institution)
	}
	if double && (s.DebitColumn == "" || s.CreditColumn == "") {
		return fmt.Errorf("statement schema %s: debit and credit columns required together", s.Institution)
	}
	return nil
}

// normalizeRow maps one raw row into a candidate transaction with the
// canonical sign convention: expenses negative, income positive.
func (s Schema) normalizeRow(accountID string, row Row) (*domain.Transaction, error) {
	rawDate, ok := row[s.DateColumn]
	if !ok {
		return nil, fmt.Errorf("%w: missing column %q", domain.ErrMalformedRow, s.DateColumn)
	}
	date, err := s.parseDate(rawDate)
	if err != nil {
		return nil, err
	}

	desc, ok := row[s.DescriptionColumn]
	if !ok {
		return nil, fmt.Errorf("%w: missing column %q", domain.ErrMalformedRow, s.DescriptionColumn)
	}
	desc = strings.TrimSpace(desc)

	amount, err := s.parseAmount(row)
	if err != nil {
		return nil, err
	}

	return &domain.Transaction{
		AccountID:      accountID,
		Date:           date,
		Amount:         amount,
		RawDescription: desc,
	}, nil
}

func (s Schema) parseAmount(row Row) (int64, error) {
	if s.AmountColumn != "" {
		raw, ok := row[s.AmountColumn]
		if !ok {
			return 0, fmt.Errorf("%w: missing column %q", domain.ErrMalformedRow, s.AmountColumn)
		}
		v, err := ParseAmount(raw)
		if err != nil {
			return 0, err
		}
		if s.NegateAmount {
			v = -v
		}
		return v, nil
	}

	debit := strings.TrimSpace(row[s.DebitColumn])
	credit := strings.TrimSpace(row[s.CreditColumn])
	switch {
	case debit == "" && credit == "":
		return 0, fmt.Errorf("%w: neither debit nor credit present", domain.ErrMalformedRow)
	case debit != "" && credit != "":
		return 0, fmt.Errorf("%w: both debit and credit present", domain.ErrMalformedRow)
	case debit != "":
		v, err := ParseAmount(debit)
		if err != nil {
			return 0, err
		}
		if v < 0 {
			v = -v
		}
		return -v, nil
	default:
		v, err := ParseAmount(credit)
		if err != nil {
			return 0, err
		}
		if v < 0 {
			v = -v
		}
		return v, nil
	}
}

func (s Schema) parseDate(raw string) (domain.Date, error) {
	v := strings.TrimSpace(raw)
	for _, layout := range s.DateFormats {
		if t, err := time.Parse(layout, v); err == nil {
			return domain.DateOf(t), nil
		}
	}
	return domain.Date{}, fmt.Errorf("%w: unparseable date %q", domain.ErrMalformedRow, raw)
}
