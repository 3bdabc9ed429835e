// Copyright 2023 The Hypatia Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package number

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDecimal(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"0", "0"},
		{"42", "42"},
		{"123.2", "616/5"}, // 1232/10 reduced
		{"0.5", "1/2"},
		{"10.00", "10"},
	}
	for _, tt := range tests {
		n, err := ParseDecimal(tt.in)
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, n.String(), tt.in)
		assert.True(t, n.IsExact(), tt.in)
	}

	_, err := ParseDecimal("12x")
	assert.Error(t, err)
}

func TestParseRadix(t *testing.T) {
	n, err := ParseHex("FF")
	require.NoError(t, err)
	assert.Equal(t, "255", n.String())

	n, err = ParseBinary("10")
	require.NoError(t, err)
	assert.Equal(t, "2", n.String())

	sum := mustHex(t, "FF").Add(mustBin(t, "10"))
	assert.Equal(t, "257", sum.String())
	assert.True(t, sum.IsExact())
}

func mustHex(t *testing.T, s string) Number {
	t.Helper()
	n, err := ParseHex(s)
	require.NoError(t, err)
	return n
}

func mustBin(t *testing.T, s string) Number {
	t.Helper()
	n, err := ParseBinary(s)
	require.NoError(t, err)
	return n
}

func TestParseScientific(t *testing.T) {
	tests := []struct {
		mantissa string
		exp      string
		neg      bool
		want     string
	}{
		{"1.5", "3", false, "1500"},
		{"1", "3", true, "1/1000"},
		{"2", "0", false, "2"},
		{"1", "24", false, "1000000000000000000000000"},
	}
	for _, tt := range tests {
		n, err := ParseScientific(tt.mantissa, tt.exp, tt.neg)
		require.NoError(t, err)
		assert.Equal(t, tt.want, n.String())
	}
}

func TestPromotionIsSticky(t *testing.T) {
	exact := FromInt(1)
	approx := FromFloat(0.5)

	sum := exact.Add(approx)
	assert.False(t, sum.IsExact())

	// Once approximate, every further operation stays approximate.
	assert.False(t, sum.Add(FromInt(1)).IsExact())
	assert.False(t, sum.Mul(FromInt(2)).IsExact())
	assert.False(t, FromInt(3).Sub(sum).IsExact())
	assert.False(t, FromInt(3).Div(sum).IsExact())
}

func TestArithmetic(t *testing.T) {
	a, b, c := FromInt(3), FromInt(5), FromInt(7)

	assert.True(t, a.Add(b).Equal(b.Add(a)))
	assert.True(t, a.Add(b).Add(c).Equal(a.Add(b.Add(c))))
	assert.Equal(t, "3/5", a.Div(b).String())
	assert.Equal(t, "-3", a.Neg().String())
	assert.Equal(t, "3", a.Neg().Abs().String())
	assert.Equal(t, "15", a.Mul(b).String())
	assert.Equal(t, "-2", a.Sub(b).String())
}

func TestDivByExactZero(t *testing.T) {
	// Division by an exact zero must not abort; it degrades to IEEE 754.
	q := FromInt(1).Div(Zero())
	assert.False(t, q.IsExact())
	assert.True(t, math.IsInf(q.Float(), 1))

	q = FromInt(-1).Div(Zero())
	assert.True(t, math.IsInf(q.Float(), -1))

	q = Zero().Div(Zero())
	assert.True(t, math.IsNaN(q.Float()))
}

func TestCmp(t *testing.T) {
	assert.Equal(t, -1, FromInt(1).Cmp(FromInt(2)))
	assert.Equal(t, 1, FromInt(2).Cmp(FromInt(1)))
	assert.Equal(t, 0, FromInt(2).Cmp(FromInt(2)))

	// Mixed pairs compare in approximate form.
	half, err := ParseDecimal("0.5")
	require.NoError(t, err)
	assert.Equal(t, 0, half.Cmp(FromFloat(0.5)))
	assert.Equal(t, -1, half.Cmp(FromFloat(0.75)))
}

func TestApproxDisplay(t *testing.T) {
	assert.Equal(t, "1.5", FromFloat(1.5).String())
	assert.Equal(t, "42", FromInt(42).String())

	half, err := ParseDecimal("0.5")
	require.NoError(t, err)
	assert.Equal(t, "0.5", half.Approx().String())
	assert.False(t, half.Approx().IsExact())
}
