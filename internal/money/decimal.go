// Package money wraps github.com/shopspring/decimal with the fixed-precision,
// half-up rounding rules the ledger and interest engines require. Binary
// floating point never appears on either path.
package money

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// DivisionPrecision is the number of significant digits division/rate
// computations carry before rounding. Set once at process start by
// Configure and never mutated afterwards (spec: "process-wide constant").
const DivisionPrecision = 20

var configured bool

// Configure pins the global decimal rounding behavior for the process.
// It must be called exactly once, before any calculation, typically from
// main(). Calling it more than once panics — interleaving different
// rounding settings within a process (or across tests) would make
// InterestLog rows computed before and after the change disagree on
// scale, silently.
func Configure() {
	if configured {
		panic("money: Configure called more than once")
	}
	decimal.DivisionPrecision = DivisionPrecision
	configured = true
}

// Decimal is the exact fixed-point value type used on both the wallet and
// interest paths.
type Decimal = decimal.Decimal

// Zero is the additive identity.
var Zero = decimal.Zero

// FromString parses a decimal literal ("123.45", "-0.01"). Exponent
// forms ("1.5e3") are accepted and parsed to their exact value; NaN and
// Inf are rejected.
func FromString(s string) (Decimal, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return Decimal{}, fmt.Errorf("money: invalid decimal %q: %w", s, err)
	}
	return d, nil
}

// MustFromString is FromString for compile-time-known literals (rate
// constants). It panics on malformed input, which is a programmer error.
func MustFromString(s string) Decimal {
	d, err := FromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

// FromInt returns the exact decimal value of i.
func FromInt(i int64) Decimal { return decimal.NewFromInt(i) }

// Add returns a + b.
func Add(a, b Decimal) Decimal { return a.Add(b) }

// Sub returns a - b.
func Sub(a, b Decimal) Decimal { return a.Sub(b) }

// Mul returns a * b.
func Mul(a, b Decimal) Decimal { return a.Mul(b) }

// Div returns a / b at DivisionPrecision significant digits, half-up
// rounded. b must be non-zero.
func Div(a, b Decimal) Decimal {
	// Fractional places for DivisionPrecision significant digits, from the
	// operands' integer-digit counts; the quotient's leading digit can sit
	// one place higher than this assumes, which keeps one extra digit.
	places := DivisionPrecision - (a.NumDigits() + int(a.Exponent())) + (b.NumDigits() + int(b.Exponent()))
	return a.DivRound(b, int32(places))
}

// Compare returns -1, 0 or 1 per a.Cmp(b).
func Compare(a, b Decimal) int { return a.Cmp(b) }

// IsNegative reports whether d < 0.
func IsNegative(d Decimal) bool { return d.IsNegative() }

// ToFixed renders d with exactly scale fractional digits, half-up
// rounded, no exponent, no grouping — the canonical persisted textual
// form for every monetary column.
func ToFixed(d Decimal, scale int32) string {
	return d.Round(scale).StringFixed(scale)
}

// ToFixedDecimal rounds d to scale fractional digits and returns the
// Decimal (rather than its string form), for further arithmetic.
func ToFixedDecimal(d Decimal, scale int32) Decimal {
	return d.Round(scale)
}
