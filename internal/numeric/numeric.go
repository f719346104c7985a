// Package numeric provides the lenient amount type used across the ledger.
// Reports must never fail on malformed numbers: anything that does not parse
// as a decimal reads as zero. Keeping the rule in one named place makes the
// leniency auditable instead of scattered across handlers.
package numeric

import (
	"strconv"
	"strings"

	"github.com/govalues/decimal"
)

// Amount is a decimal value with lenient JSON decoding and plain-number
// JSON encoding. The zero value is 0 and ready to use.
type Amount struct {
	dec decimal.Decimal
}

// Zero returns the zero amount.
func Zero() Amount { return Amount{} }

// New wraps a decimal as an Amount.
func New(d decimal.Decimal) Amount { return Amount{dec: d} }

// Parse converts a string to an Amount, failing on invalid input.
// Use Lenient when the zero-default policy applies.
func Parse(s string) (Amount, error) {
	d, err := decimal.Parse(s)
	if err != nil {
		return Amount{}, err
	}
	return Amount{dec: d}, nil
}

// MustParse is Parse for literals in tests and seeds; panics on error.
func MustParse(s string) Amount {
	a, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return a
}

// Lenient converts a string to an Amount, coercing anything unparseable
// (empty, text, null-ish) to zero. This is the documented read policy for
// ledger amounts: a half-edited record must still produce a report.
func Lenient(s string) Amount {
	s = strings.TrimSpace(s)
	if s == "" {
		return Amount{}
	}
	d, err := decimal.Parse(s)
	if err != nil {
		return Amount{}
	}
	return Amount{dec: d}
}

// Decimal exposes the underlying decimal value.
func (a Amount) Decimal() decimal.Decimal { return a.dec }

// Add returns a+b. Overflow keeps a, consistent with never failing a report.
func (a Amount) Add(b Amount) Amount {
	d, err := a.dec.Add(b.dec)
	if err != nil {
		return a
	}
	return Amount{dec: d}
}

// Sub returns a-b. Overflow keeps a.
func (a Amount) Sub(b Amount) Amount {
	d, err := a.dec.Sub(b.dec)
	if err != nil {
		return a
	}
	return Amount{dec: d}
}

// Neg returns -a.
func (a Amount) Neg() Amount { return Amount{dec: a.dec.Neg()} }

// Cmp compares a and b numerically (-1, 0, +1).
func (a Amount) Cmp(b Amount) int { return a.dec.Cmp(b.dec) }

// Equal reports numeric equality (1.0 equals 1).
func (a Amount) Equal(b Amount) bool { return a.dec.Cmp(b.dec) == 0 }

// IsZero reports whether a is numerically zero.
func (a Amount) IsZero() bool { return a.dec.IsZero() }

// IsNeg reports whether a is negative.
func (a Amount) IsNeg() bool { return a.dec.IsNeg() }

// String renders the amount in plain decimal notation.
func (a Amount) String() string { return a.dec.String() }

// MarshalJSON encodes the amount as a bare JSON number so snapshots
// round-trip numerically.
func (a Amount) MarshalJSON() ([]byte, error) {
	return []byte(a.dec.String()), nil
}

// UnmarshalJSON decodes a JSON number, a quoted numeric string, or anything
// else (null, text, objects) as the value or zero. It never returns an error.
func (a *Amount) UnmarshalJSON(b []byte) error {
	s := string(b)
	if len(s) >= 2 && s[0] == '"' && s[len(s)-1] == '"' {
		if u, err := strconv.Unquote(s); err == nil {
			s = u
		}
	}
	if s == "null" {
		*a = Amount{}
		return nil
	}
	*a = Lenient(s)
	return nil
}
