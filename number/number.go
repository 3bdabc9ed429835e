// Copyright 2023 The Hypatia Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package number implements the scalar type of the Hypatia language: an
// arbitrary-precision rational that degrades, irreversibly, to a float64
// once any approximate value enters a computation.
package number

import (
	"fmt"
	"math/big"
	"strconv"
	"strings"
)

// Number is either an exact rational or an approximate float64.
// The zero Number is approximate zero; Zero returns exact zero.
type Number struct {
	rat    *big.Rat // nil when approximate
	approx float64
}

// FromInt returns the exact integer n.
func FromInt(n int64) Number {
	return Number{rat: new(big.Rat).SetInt64(n)}
}

// FromFloat returns an approximate number.
func FromFloat(f float64) Number {
	return Number{approx: f}
}

// One returns exact 1.
func One() Number {
	return FromInt(1)
}

// Zero returns exact 0.
func Zero() Number {
	return FromInt(0)
}

// ParseDecimal parses "ddd" or "ddd.ddd" into an exact rational:
// "123.2" becomes 1232/10.
func ParseDecimal(s string) (Number, error) {
	integer, frac, found := strings.Cut(s, ".")
	if !found {
		n, ok := new(big.Int).SetString(s, 10)
		if !ok {
			return Number{}, fmt.Errorf("bad decimal literal %q", s)
		}
		return Number{rat: new(big.Rat).SetInt(n)}, nil
	}
	num, ok := new(big.Int).SetString(integer+frac, 10)
	if !ok {
		return Number{}, fmt.Errorf("bad decimal literal %q", s)
	}
	den := new(big.Int).Exp(big.NewInt(10), big.NewInt(int64(len(frac))), nil)
	return Number{rat: new(big.Rat).SetFrac(num, den)}, nil
}

// ParseBinary parses a base-2 digit string (without the 0b marker).
func ParseBinary(s string) (Number, error) {
	return parseRadix(s, 2)
}

// ParseHex parses a base-16 digit string (without the 0x marker).
func ParseHex(s string) (Number, error) {
	return parseRadix(s, 16)
}

func parseRadix(s string, radix int) (Number, error) {
	n, ok := new(big.Int).SetString(s, radix)
	if !ok {
		return Number{}, fmt.Errorf("bad base-%d literal %q", radix, s)
	}
	return Number{rat: new(big.Rat).SetInt(n)}, nil
}

// ParseScientific parses a scientific literal split into its mantissa
// ("1.5"), exponent digits ("3") and exponent sign. The result is exact:
// the mantissa scaled by 10^±exp.
func ParseScientific(mantissa, expDigits string, negExp bool) (Number, error) {
	m, err := ParseDecimal(mantissa)
	if err != nil {
		return Number{}, err
	}
	exp, err := strconv.ParseUint(expDigits, 10, 32)
	if err != nil {
		return Number{}, fmt.Errorf("bad exponent %q", expDigits)
	}
	pow := new(big.Int).Exp(big.NewInt(10), new(big.Int).SetUint64(exp), nil)
	scale := Number{rat: new(big.Rat).SetInt(pow)}
	if negExp {
		return m.Div(scale), nil
	}
	return m.Mul(scale), nil
}

// IsExact reports whether n holds an exact rational.
func (n Number) IsExact() bool {
	return n.rat != nil
}

// Approx returns the approximate form of n. Exact values take big.Rat's
// float64 projection; values beyond float64 range come back as ±Inf rather
// than aborting.
func (n Number) Approx() Number {
	if n.rat == nil {
		return n
	}
	f, _ := n.rat.Float64()
	return Number{approx: f}
}

// Float returns n as a float64.
func (n Number) Float() float64 {
	return n.Approx().approx
}

// Rat returns the exact rational, or nil if n is approximate.
func (n Number) Rat() *big.Rat {
	return n.rat
}

// IsZero reports whether n is zero in its own form.
func (n Number) IsZero() bool {
	if n.rat != nil {
		return n.rat.Sign() == 0
	}
	return n.approx == 0
}

// Neg returns -n.
func (n Number) Neg() Number {
	if n.rat != nil {
		return Number{rat: new(big.Rat).Neg(n.rat)}
	}
	return Number{approx: -n.approx}
}

// Abs returns |n|.
func (n Number) Abs() Number {
	if n.rat != nil {
		return Number{rat: new(big.Rat).Abs(n.rat)}
	}
	if n.approx < 0 {
		return Number{approx: -n.approx}
	}
	return n
}

// Add returns n + m, exact only when both operands are exact.
func (n Number) Add(m Number) Number {
	if n.rat != nil && m.rat != nil {
		return Number{rat: new(big.Rat).Add(n.rat, m.rat)}
	}
	return Number{approx: n.Float() + m.Float()}
}

// Sub returns n - m.
func (n Number) Sub(m Number) Number {
	if n.rat != nil && m.rat != nil {
		return Number{rat: new(big.Rat).Sub(n.rat, m.rat)}
	}
	return Number{approx: n.Float() - m.Float()}
}

// Mul returns n * m.
func (n Number) Mul(m Number) Number {
	if n.rat != nil && m.rat != nil {
		return Number{rat: new(big.Rat).Mul(n.rat, m.rat)}
	}
	return Number{approx: n.Float() * m.Float()}
}

// Div returns n / m. Division of an exact value by exact zero promotes both
// operands to approximate form, so the result follows IEEE 754 instead of
// aborting.
func (n Number) Div(m Number) Number {
	if n.rat != nil && m.rat != nil {
		if m.rat.Sign() == 0 {
			return Number{approx: n.Float() / m.Float()}
		}
		return Number{rat: new(big.Rat).Quo(n.rat, m.rat)}
	}
	return Number{approx: n.Float() / m.Float()}
}

// Cmp compares n and m, returning -1, 0, or +1. Mixed exact/approximate
// pairs are compared in approximate form.
func (n Number) Cmp(m Number) int {
	if n.rat != nil && m.rat != nil {
		return n.rat.Cmp(m.rat)
	}
	a, b := n.Float(), m.Float()
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}

// Equal reports whether n and m are numerically equal, comparing exactly
// when both sides are exact.
func (n Number) Equal(m Number) bool {
	return n.Cmp(m) == 0
}

// String renders exact integers as n, other rationals as p/q, and
// approximate values in Go's shortest float form.
func (n Number) String() string {
	if n.rat != nil {
		if n.rat.IsInt() {
			return n.rat.Num().String()
		}
		return n.rat.RatString()
	}
	return strconv.FormatFloat(n.approx, 'g', -1, 64)
}
