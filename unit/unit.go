// Copyright 2023 The Hypatia Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package unit implements the unit algebra: base units, units as a scale
// factor over a product of base units with rational exponents, and
// quantities pairing a number with a unit.
package unit

import (
	"fmt"
	"sort"
	"strings"

	"github.com/hypatia-lang/hypatia/number"
)

// A BaseUnit is a fundamental declared dimension. Identity and ordering are
// by the long name; the short name exists for display only.
type BaseUnit struct {
	Name  string
	Short string // empty if the unit has no short name
}

// Display returns the short name if present, otherwise the long name.
func (b BaseUnit) Display() string {
	if b.Short != "" {
		return b.Short
	}
	return b.Name
}

// A Ratio is a rational exponent with small components. The representation
// is kept normalised: gcd(Num, Den) == 1 and Den > 0.
type Ratio struct {
	Num int32
	Den int32
}

// NewRatio returns the normalised rational num/den. den must be nonzero.
func NewRatio(num, den int32) Ratio {
	if den == 0 {
		panic("unit: zero denominator in exponent")
	}
	if den < 0 {
		num, den = -num, -den
	}
	g := gcd32(abs32(num), den)
	return Ratio{num / g, den / g}
}

func abs32(n int32) int32 {
	if n < 0 {
		return -n
	}
	return n
}

func gcd32(a, b int32) int32 {
	for b != 0 {
		a, b = b, a%b
	}
	if a == 0 {
		return 1
	}
	return a
}

// Add returns r + s.
func (r Ratio) Add(s Ratio) Ratio {
	return NewRatio(r.Num*s.Den+s.Num*r.Den, r.Den*s.Den)
}

// Sub returns r - s.
func (r Ratio) Sub(s Ratio) Ratio {
	return NewRatio(r.Num*s.Den-s.Num*r.Den, r.Den*s.Den)
}

// Neg returns -r.
func (r Ratio) Neg() Ratio {
	return Ratio{-r.Num, r.Den}
}

// IsZero reports whether r == 0.
func (r Ratio) IsZero() bool {
	return r.Num == 0
}

func (r Ratio) String() string {
	if r.Den == 1 {
		return fmt.Sprintf("%d", r.Num)
	}
	return fmt.Sprintf("%d/%d", r.Num, r.Den)
}

// A Power is one base unit raised to a rational exponent.
type Power struct {
	Base BaseUnit
	Exp  Ratio
}

// A Unit is a scale factor into the canonical product of base units plus the
// dimensional signature itself. Powers is sorted by base long name and never
// contains zero exponents; both invariants are maintained by every operation
// in this package.
type Unit struct {
	Scale  number.Number
	Powers []Power
}

// Unitless returns the dimensionless unit with scale 1.
func Unitless() Unit {
	return Unit{Scale: number.One()}
}

// Base returns the unit (1, {b:1}) for a freshly declared base unit.
func Base(b BaseUnit) Unit {
	return Unit{
		Scale:  number.One(),
		Powers: []Power{{Base: b, Exp: NewRatio(1, 1)}},
	}
}

// Rescaled returns u with its scale multiplied by k.
func (u Unit) Rescaled(k number.Number) Unit {
	return Unit{Scale: u.Scale.Mul(k), Powers: u.Powers}
}

// Mul returns the product of two units: scales multiply, exponents add.
func (u Unit) Mul(v Unit) Unit {
	return Unit{
		Scale:  u.Scale.Mul(v.Scale),
		Powers: mergePowers(u.Powers, v.Powers, Ratio.Add),
	}
}

// Div returns the quotient of two units: scales divide, exponents subtract.
func (u Unit) Div(v Unit) Unit {
	return Unit{
		Scale:  u.Scale.Div(v.Scale),
		Powers: mergePowers(u.Powers, v.Powers, Ratio.Sub),
	}
}

// mergePowers combines two sorted power lists entry-wise with op, treating a
// missing base as exponent zero and pruning zero results.
func mergePowers(a, b []Power, op func(Ratio, Ratio) Ratio) []Power {
	out := make([]Power, 0, len(a)+len(b))
	i, j := 0, 0
	for i < len(a) || j < len(b) {
		switch {
		case j == len(b) || (i < len(a) && a[i].Base.Name < b[j].Base.Name):
			exp := op(a[i].Exp, Ratio{0, 1})
			if !exp.IsZero() {
				out = append(out, Power{a[i].Base, exp})
			}
			i++
		case i == len(a) || a[i].Base.Name > b[j].Base.Name:
			exp := op(Ratio{0, 1}, b[j].Exp)
			if !exp.IsZero() {
				out = append(out, Power{b[j].Base, exp})
			}
			j++
		default:
			exp := op(a[i].Exp, b[j].Exp)
			if !exp.IsZero() {
				out = append(out, Power{a[i].Base, exp})
			}
			i++
			j++
		}
	}
	return out
}

// NormalizePowers sorts powers by base long name and prunes zero exponents.
// Callers constructing power lists by hand should pass them through here.
func NormalizePowers(powers []Power) []Power {
	out := make([]Power, 0, len(powers))
	for _, p := range powers {
		if !p.Exp.IsZero() {
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Base.Name < out[j].Base.Name })
	return out
}

// SameSignature reports whether u and v share a dimensional signature,
// comparing powers as multisets of nonzero entries.
func (u Unit) SameSignature(v Unit) bool {
	if len(u.Powers) != len(v.Powers) {
		return false
	}
	for i := range u.Powers {
		if u.Powers[i].Base.Name != v.Powers[i].Base.Name || u.Powers[i].Exp != v.Powers[i].Exp {
			return false
		}
	}
	return true
}

// Signature returns a canonical key for the dimensional signature, suitable
// for indexing named units by dimension.
func (u Unit) Signature() string {
	var b strings.Builder
	for i, p := range u.Powers {
		if i > 0 {
			b.WriteByte(' ')
		}
		fmt.Fprintf(&b, "%s^%s", p.Base.Name, p.Exp)
	}
	return b.String()
}

// String renders the unit the way results are displayed: a "(Nx)" scale
// marker when the scale is not 1, positive powers, then a slash and the
// negated negative powers. A bare exponent of 1 is elided.
func (u Unit) String() string {
	scale := ""
	if !u.Scale.Equal(number.One()) {
		scale = fmt.Sprintf("(%sx) ", u.Scale)
	}
	if len(u.Powers) == 0 {
		return strings.TrimSuffix(scale, " ")
	}

	var pos, neg strings.Builder
	one := NewRatio(1, 1)
	for _, p := range u.Powers {
		switch {
		case p.Exp.Num > 0 && p.Exp == one:
			pos.WriteString(p.Base.Display())
		case p.Exp.Num > 0:
			fmt.Fprintf(&pos, "%s^%s", p.Base.Display(), p.Exp)
		case p.Exp.Neg() == one:
			neg.WriteString(p.Base.Display())
		default:
			fmt.Fprintf(&neg, "%s^%s", p.Base.Display(), p.Exp.Neg())
		}
	}
	posStr := pos.String()
	if posStr == "" {
		posStr = "1"
	}
	if neg.Len() == 0 {
		return scale + posStr
	}
	return scale + posStr + "/" + neg.String()
}
