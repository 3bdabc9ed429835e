// Copyright 2023 The Hypatia Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package unit

import (
	"github.com/hypatia-lang/hypatia/diag"
	"github.com/hypatia-lang/hypatia/number"
)

// A Quantity is a number paired with a unit. Its magnitude in canonical base
// units is Number * Unit.Scale.
type Quantity struct {
	Number number.Number
	Unit   Unit
}

// Add returns q + r. The operands must share a dimensional signature; the
// right-hand magnitude is normalised to the left-hand scale and the
// left-hand unit is kept.
func (q Quantity) Add(r Quantity) (Quantity, error) {
	if !q.Unit.SameSignature(r.Unit) {
		return Quantity{}, &diag.Error{Kind: diag.InvalidUnitOperation}
	}
	return Quantity{
		Number: q.Number.Add(r.Number.Mul(r.Unit.Scale).Div(q.Unit.Scale)),
		Unit:   q.Unit,
	}, nil
}

// Sub returns q - r under the same rules as Add.
func (q Quantity) Sub(r Quantity) (Quantity, error) {
	if !q.Unit.SameSignature(r.Unit) {
		return Quantity{}, &diag.Error{Kind: diag.InvalidUnitOperation}
	}
	return Quantity{
		Number: q.Number.Sub(r.Number.Mul(r.Unit.Scale).Div(q.Unit.Scale)),
		Unit:   q.Unit,
	}, nil
}

// Mul returns q * r; numbers and units multiply independently.
func (q Quantity) Mul(r Quantity) Quantity {
	return Quantity{Number: q.Number.Mul(r.Number), Unit: q.Unit.Mul(r.Unit)}
}

// Div returns q / r.
func (q Quantity) Div(r Quantity) Quantity {
	return Quantity{Number: q.Number.Div(r.Number), Unit: q.Unit.Div(r.Unit)}
}

// Neg returns -q.
func (q Quantity) Neg() Quantity {
	return Quantity{Number: q.Number.Neg(), Unit: q.Unit}
}

// Normalize folds the unit scale into the number, leaving a scale of 1.
func (q Quantity) Normalize() Quantity {
	return Quantity{
		Number: q.Number.Mul(q.Unit.Scale),
		Unit:   Unit{Scale: number.One(), Powers: q.Unit.Powers},
	}
}

// TryConvert rescales q into target. It reports false when the dimensional
// signatures differ.
func (q Quantity) TryConvert(target Unit) (Quantity, bool) {
	if !q.Unit.SameSignature(target) {
		return Quantity{}, false
	}
	return Quantity{
		Number: q.Number.Mul(q.Unit.Scale).Div(target.Scale),
		Unit:   target,
	}, true
}

// Equal reports whether q and r have the same signature and equal
// normalised magnitudes. Quantities of different dimensions are unequal.
func (q Quantity) Equal(r Quantity) bool {
	if !q.Unit.SameSignature(r.Unit) {
		return false
	}
	return q.Number.Mul(q.Unit.Scale).Equal(r.Number.Mul(r.Unit.Scale))
}

// Cmp orders q against r by normalised magnitude. Quantities of different
// dimensions cannot be ordered.
func (q Quantity) Cmp(r Quantity) (int, error) {
	if !q.Unit.SameSignature(r.Unit) {
		return 0, &diag.Error{Kind: diag.InvalidUnitOperation}
	}
	return q.Number.Mul(q.Unit.Scale).Cmp(r.Number.Mul(r.Unit.Scale)), nil
}

// String renders the number followed by the unit, or just the number for a
// fully dimensionless quantity.
func (q Quantity) String() string {
	unitStr := q.Unit.String()
	if unitStr == "" {
		return q.Number.String()
	}
	return q.Number.String() + " " + unitStr
}
