package value

import (
	"fmt"
	"math"
	"math/big"
	"strconv"
	"strings"
)

// Number is a numeric value of arbitrary precision.
//
// Integers are held exactly; everything else is an IEEE-754 double. Two
// Numbers are equal when their canonical text is equal, so Int(30) and
// Float(30.0) are the same number.
type Number struct {
	i *big.Int // nil for non-integers
	f float64
}

func (Number) value()     {}
func (Number) Kind() Kind { return KindNumber }

// Int creates an integer Number.
func Int(n int64) Number {
	return Number{i: big.NewInt(n)}
}

// Uint creates an integer Number from an unsigned value.
func Uint(n uint64) Number {
	return Number{i: new(big.Int).SetUint64(n)}
}

// BigInt creates an integer Number. The argument is copied.
func BigInt(n *big.Int) Number {
	if n == nil {
		return Int(0)
	}
	return Number{i: new(big.Int).Set(n)}
}

// Float creates a Number from a double. Integral doubles are kept as
// doubles; canonical text makes them indistinguishable from integers.
func Float(f float64) Number {
	return Number{f: f}
}

// ParseNumber parses a JSON-style numeric literal. Integer literals (no
// fraction, no exponent) are held exactly regardless of magnitude.
func ParseNumber(lit string) (Number, error) {
	s := strings.TrimSpace(lit)
	if s == "" {
		return Number{}, fmt.Errorf("empty number literal")
	}
	if !strings.ContainsAny(s, ".eE") {
		n, ok := new(big.Int).SetString(s, 10)
		if ok {
			return Number{i: n}, nil
		}
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return Number{}, fmt.Errorf("invalid number literal %q: %w", lit, err)
	}
	return Number{f: f}, nil
}

// IsInteger reports whether n was created as an exact integer.
func (n Number) IsInteger() bool {
	return n.i != nil
}

// Float64 returns n as a double (rounded for large integers).
func (n Number) Float64() float64 {
	if n.i != nil {
		f, _ := new(big.Float).SetInt(n.i).Float64()
		return f
	}
	return n.f
}

// BigInt returns a copy of the integer value, or nil when n is not an
// exact integer.
func (n Number) BigInt() *big.Int {
	if n.i == nil {
		return nil
	}
	return new(big.Int).Set(n.i)
}

// IsFinite reports whether n is neither NaN nor infinite.
func (n Number) IsFinite() bool {
	if n.i != nil {
		return true
	}
	return !math.IsNaN(n.f) && !math.IsInf(n.f, 0)
}

// String returns the canonical text of n.
//
// Integers print as plain decimal digits. Doubles follow the ECMAScript
// Number-to-String algorithm (RFC 8785 §3.2.2.3). NaN and infinities have
// no JSON form and print as "null".
func (n Number) String() string {
	if n.i != nil {
		return n.i.String()
	}
	if !n.IsFinite() {
		return "null"
	}
	return formatES6(n.f)
}

// formatES6 formats a finite double the way ECMAScript does.
func formatES6(f float64) string {
	if f == 0 {
		return "0" // covers -0
	}
	format := byte('f')
	if abs := math.Abs(f); abs < 1e-6 || abs >= 1e21 {
		format = 'e'
	}
	s := strconv.FormatFloat(f, format, -1, 64)
	if format == 'e' {
		// Go pads single-digit exponents ("1e-07"); ECMAScript does not.
		if n := len(s); n >= 4 && s[n-4] == 'e' && s[n-2] == '0' {
			s = s[:n-2] + s[n-1:]
		}
	}
	return s
}
