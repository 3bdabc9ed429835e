// Copyright 2023 The Hypatia Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package run

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSessionPersists(t *testing.T) {
	s := NewBare()

	_, errs := s.Eval("x = 40")
	require.Empty(t, errs)

	out, errs := s.Eval("x + 2")
	require.Empty(t, errs)
	assert.Equal(t, "42", out)

	// Units declared earlier stay available too.
	_, errs = s.Eval("unit meter m")
	require.Empty(t, errs)
	out, errs = s.Eval("2 m + 3 m")
	require.Empty(t, errs)
	assert.Equal(t, "5 m", out)
}

func TestRenderPicksNamedUnit(t *testing.T) {
	s := New()

	out, errs := s.Eval("1 km + 500 m")
	require.Empty(t, errs)
	// Exact rational plus its approximate form, in kilometers.
	assert.Equal(t, "3/2 km ≈ 1.5 km", out)

	out, errs = s.Eval("20 m / 4 s")
	require.Empty(t, errs)
	assert.Equal(t, "5 m/s", out)

	out, errs = s.Eval("40 + 2")
	require.Empty(t, errs)
	assert.Equal(t, "42", out)
}

func TestRenderNonQuantities(t *testing.T) {
	s := NewBare()

	out, errs := s.Eval("not false")
	require.Empty(t, errs)
	assert.Equal(t, "true", out)

	out, errs = s.Eval("nothing")
	require.Empty(t, errs)
	assert.Equal(t, "nothing", out)

	out, errs = s.Eval("f(x) = x\nf")
	require.Empty(t, errs)
	assert.Equal(t, "function(x)", out)
}

func TestEvalErrors(t *testing.T) {
	s := NewBare()

	_, errs := s.Eval("update x = 5")
	require.Len(t, errs, 1)
	report := Reports(errs, "update x = 5")
	assert.Contains(t, report, "x")
	assert.Contains(t, report, "^")

	_, errs = s.Eval("(1 + )")
	assert.NotEmpty(t, errs)
}

func TestOpenBraces(t *testing.T) {
	assert.Equal(t, 0, OpenBraces("x = 1"))
	assert.Equal(t, 1, OpenBraces("f(x) = {"))
	assert.Equal(t, 2, OpenBraces("{ {"))
	assert.Equal(t, 0, OpenBraces("{ x }"))
	assert.Equal(t, -1, OpenBraces("}"))

	// The REPL accumulates until the balance closes.
	input := "f(x) = {\n"
	require.Greater(t, OpenBraces(input), 0)
	input += "  x * 2\n}\n"
	assert.Equal(t, 0, OpenBraces(input))

	s := NewBare()
	out, errs := s.Eval(input + "f(21)")
	require.Empty(t, errs)
	assert.Equal(t, "42", out)
}

func TestReportShape(t *testing.T) {
	src := "1 +\n2"
	s := NewBare()
	_, errs := s.Eval(src)
	require.NotEmpty(t, errs)
	report := Reports(errs, src)
	// The report names the position and excerpts the line.
	assert.True(t, strings.Contains(report, "-->"), report)
}
