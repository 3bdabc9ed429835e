// Copyright 2023 The Hypatia Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package unit

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hypatia-lang/hypatia/number"
)

var (
	meter  = BaseUnit{Name: "meter", Short: "m"}
	gram   = BaseUnit{Name: "gram", Short: "g"}
	second = BaseUnit{Name: "second", Short: "s"}
)

// newton is encoded as scale 1000 over g m / s^2.
func newton() Unit {
	return Unit{
		Scale: number.FromInt(1000),
		Powers: NormalizePowers([]Power{
			{Base: meter, Exp: NewRatio(1, 1)},
			{Base: gram, Exp: NewRatio(1, 1)},
			{Base: second, Exp: NewRatio(-2, 1)},
		}),
	}
}

func q(n int64, u Unit) Quantity {
	return Quantity{Number: number.FromInt(n), Unit: u}
}

func TestFormatting(t *testing.T) {
	ten := q(10, Unitless())
	fiveSeconds := q(5, Base(second))

	assert.Equal(t, "10", ten.String())
	assert.Equal(t, "5 s", fiveSeconds.String())
	assert.Equal(t, "2 1/s", ten.Div(fiveSeconds).String())
	assert.Equal(t, "20 (1000x) gm/s^2", q(20, newton()).String())
}

func TestArithmetic(t *testing.T) {
	m := q(10000, Base(gram))
	l := q(1, Base(meter))
	tm := q(4, Base(second))
	f := q(20, newton())

	assert.Equal(t, "20000 gm/s^2", f.Normalize().String())

	back, ok := f.Normalize().TryConvert(newton())
	require.True(t, ok)
	assert.Equal(t, "20 (1000x) gm/s^2", back.String())

	_, ok = f.TryConvert(Base(second))
	assert.False(t, ok)

	// 10000 g * 1 m / (4 s * 4 s) + 20 N = 625 + 20000 gm/s^2
	result, err := m.Mul(l).Div(tm.Mul(tm)).Add(f)
	require.NoError(t, err)
	assert.Equal(t, "20625 gm/s^2", result.String())
}

func TestAddChecksSignature(t *testing.T) {
	_, err := q(1, Base(meter)).Add(q(1, Base(second)))
	assert.Error(t, err)

	_, err = q(1, Base(meter)).Sub(q(1, Base(second)))
	assert.Error(t, err)
}

func TestAddNormalizesToLeftScale(t *testing.T) {
	km := Base(meter).Rescaled(number.FromInt(1000))
	sum, err := q(1, km).Add(q(500, Base(meter)))
	require.NoError(t, err)
	assert.Equal(t, "3/2", sum.Number.String())
	assert.True(t, sum.Unit.SameSignature(km))
	assert.Equal(t, "1000", sum.Unit.Scale.String())

	// (a + b) - b == a while everything stays exact.
	diff, err := sum.Sub(q(500, Base(meter)))
	require.NoError(t, err)
	assert.True(t, diff.Equal(q(1, km)))
}

func TestZeroExponentsArePruned(t *testing.T) {
	m := Base(meter)
	ratio := m.Div(m)
	assert.Empty(t, ratio.Powers)
	assert.True(t, ratio.SameSignature(Unitless()))

	// m * s / m leaves only the second.
	left := m.Mul(Base(second)).Div(m)
	assert.True(t, left.SameSignature(Base(second)))
}

func TestRationalExponents(t *testing.T) {
	half := NewRatio(1, 2)
	u := Unit{Scale: number.One(), Powers: []Power{{Base: meter, Exp: half}}}
	sq := u.Mul(u)
	require.Len(t, sq.Powers, 1)
	assert.Equal(t, NewRatio(1, 1), sq.Powers[0].Exp)
	assert.Equal(t, "m^1/2", u.String())
}

func TestTryConvertRoundTrip(t *testing.T) {
	km := Base(meter).Rescaled(number.FromInt(1000))
	mi := Base(meter).Rescaled(number.FromInt(1609))

	orig := q(3, km)
	there, ok := orig.TryConvert(mi)
	require.True(t, ok)
	back, ok := there.TryConvert(km)
	require.True(t, ok)
	assert.True(t, back.Number.Equal(orig.Number))
}

func TestQuantityCmp(t *testing.T) {
	km := Base(meter).Rescaled(number.FromInt(1000))

	cmp, err := q(1, km).Cmp(q(500, Base(meter)))
	require.NoError(t, err)
	assert.Equal(t, 1, cmp)

	cmp, err = q(1, km).Cmp(q(1000, Base(meter)))
	require.NoError(t, err)
	assert.Equal(t, 0, cmp)

	_, err = q(1, km).Cmp(q(1, Base(second)))
	assert.Error(t, err)
}

func TestQuantityEqual(t *testing.T) {
	km := Base(meter).Rescaled(number.FromInt(1000))
	assert.True(t, q(1, km).Equal(q(1000, Base(meter))))
	assert.False(t, q(1, km).Equal(q(1, Base(meter))))
	// Different dimensions are unequal rather than an error.
	assert.False(t, q(1, km).Equal(q(1, Base(second))))
}

func TestSignatureKey(t *testing.T) {
	assert.Equal(t, "", Unitless().Signature())
	assert.Equal(t, "gram^1 meter^1 second^-2", newton().Signature())
	// Scale does not participate in the signature.
	assert.Equal(t, newton().Signature(), newton().Rescaled(number.FromInt(7)).Signature())
}
