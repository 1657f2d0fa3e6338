package statement

import (
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/frank113/FinDash/internal/domain"
)

var (
	registryMu sync.RWMutex
	registry   = make(map[string]Schema)
)

// Built-in institution variants. "generic" covers any export already
// using signed amounts; the named banks mirror the column conventions
// of their real CSV downloads.
func init() {
	builtins := []Schema{
		{
			Institution:       "generic",
			DateColumn:        "Date",
			DateFormats:       []string{"2006-01-02", "01/02/2006"},
			DescriptionColumn: "Description",
			AmountColumn:      "Amount",
		},
		{
			Institution:       "chase_checking",
			DateColumn:        "Posting Date",
			DateFormats:       []string{"01/02/2006"},
			DescriptionColumn: "Description",
			AmountColumn:      "Amount",
		},
		{
			Institution:       "amex_card",
			DateColumn:        "Date",
			DateFormats:       []string{"01/02/2006", "2006-01-02"},
			DescriptionColumn: "Description",
			AmountColumn:      "Amount",
			NegateAmount:      true,
		},
		{
			Institution:       "td_bank",
			DateColumn:        "Date",
			DateFormats:       []string{"01/02/2006"},
			DescriptionColumn: "Description",
			DebitColumn:       "Debit",
			CreditColumn:      "Credit",
		},
	}
	for _, s := range builtins {
		if err := Register(s); err != nil {
			panic(err)
		}
	}
}

// Register adds or replaces an institution variant. Names are
// case-insensitive.
func Register(s Schema) error {
	if err := s.Validate(); err != nil {
		return err
	}
	registryMu.Lock()
	defer registryMu.Unlock()
	registry[normalizeName(s.Institution)] = s
	return nil
}

// Resolve returns the schema registered for an institution.
func Resolve(institution string) (Schema, error) {
	registryMu.RLock()
	defer registryMu.RUnlock()
	s, ok := registry[normalizeName(institution)]
	if !ok {
		return Schema{}, fmt.Errorf("%w: %q", domain.ErrUnknownInstitution, institution)
	}
	return s, nil
}

// Institutions lists the registered institution names in sorted order.
func Institutions() []string {
	registryMu.RLock()
	defer registryMu.RUnlock()
	out := make([]string, 0, len(registry))
	for name := range registry {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

func normalizeName(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}
