package statement

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/frank113/FinDash/internal/domain"
)

var symbolStripper = strings.NewReplacer("$", "", "€", "", "£", "")

// ParseAmount converts a statement amount string into minor currency
// units, exactly. Accepts currency symbols, thousands separators,
// parenthesised negatives and a decimal comma; more than two decimal
// places is a malformed row, never a rounding.
func ParseAmount(s string) (int64, error) {
	clean := strings.TrimSpace(s)

	neg := false
	if strings.HasPrefix(clean, "(") && strings.HasSuffix(clean, ")") {
		neg = true
		clean = strings.TrimSpace(clean[1 : len(clean)-1])
	}
	clean = strings.TrimSpace(symbolStripper.Replace(clean))

	// "1.234,56" and "1,234.56" both appear in the wild. A comma after
	// the last dot with exactly two digits to the end is the decimal
	// mark and any dots before it separate thousands; otherwise commas
	// are the thousands separators.
	if ci := strings.LastIndex(clean, ","); ci >= 0 && ci > strings.LastIndex(clean, ".") && len(clean)-ci-1 == 2 {
		intPart := strings.NewReplacer(",", "", ".", "").Replace(clean[:ci])
		clean = intPart + "." + clean[ci+1:]
	} else {
		clean = strings.ReplaceAll(clean, ",", "")
	}

	d, err := decimal.NewFromString(clean)
	if err != nil {
		return 0, fmt.Errorf("%w: amount %q is not a number", domain.ErrMalformedRow, s)
	}

	cents := d.Shift(2)
	if !cents.IsInteger() {
		return 0, fmt.Errorf("%w: amount %q has sub-cent precision", domain.ErrMalformedRow, s)
	}
	big := cents.BigInt()
	if !big.IsInt64() {
		return 0, fmt.Errorf("%w: amount %q overflows", domain.ErrMalformedRow, s)
	}

	v := big.Int64()
	if neg && v > 0 {
		v = -v
	}
	return v, nil
}
