// Copyright 2023 The Hypatia Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package eval implements the Hypatia evaluator: runtime values, the
// lexically scoped environment with its unit and prefix stores, the
// tree-walking interpreter and the display-unit formatter.
package eval

import (
	"strings"

	"github.com/hypatia-lang/hypatia/ast"
	"github.com/hypatia-lang/hypatia/diag"
	"github.com/hypatia-lang/hypatia/unit"
)

// Value is the result of evaluating an expression.
type Value interface {
	String() string
	isValue()
}

// Nothing is the unit value produced by statements and empty blocks.
type Nothing struct{}

// Bool is a boolean value.
type Bool bool

// Quantity wraps a unit.Quantity as a Value.
type Quantity struct {
	unit.Quantity
}

// Function is a closure: parameter names, an unevaluated body, and a
// snapshot of the environment at the point of declaration. The snapshot
// shares the unit and prefix stores and pins the scope chain cursor, so a
// closure keeps its outer scopes alive after they are popped.
type Function struct {
	Params []string
	Body   ast.Expr
	Env    Environment
}

func (Nothing) isValue()  {}
func (Bool) isValue()     {}
func (Quantity) isValue() {}
func (Function) isValue() {}

func (Nothing) String() string {
	return "nothing"
}

func (b Bool) String() string {
	if b {
		return "true"
	}
	return "false"
}

// String renders the quantity normalised into base units.
func (q Quantity) String() string {
	return q.Normalize().String()
}

func (f Function) String() string {
	return "function(" + strings.Join(f.Params, ", ") + ")"
}

// isTrue interprets a value as a condition: Nothing is false, booleans are
// themselves, anything else is a type error.
func isTrue(v Value, span diag.Span) (bool, error) {
	switch v := v.(type) {
	case Nothing:
		return false, nil
	case Bool:
		return bool(v), nil
	}
	return false, &diag.Error{Kind: diag.InvalidType, Span: span}
}

// asQuantity demands a quantity operand.
func asQuantity(v Value, span diag.Span) (unit.Quantity, error) {
	if q, ok := v.(Quantity); ok {
		return q.Quantity, nil
	}
	return unit.Quantity{}, &diag.Error{Kind: diag.InvalidType, Span: span}
}
