// Copyright 2023 The Hypatia Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package ast defines the spanned expression tree produced by the parser
// and annotated by the resolver. Nodes are immutable after resolution.
package ast

import "github.com/hypatia-lang/hypatia/diag"

// Expr is the interface satisfied by every expression node.
type Expr interface {
	Span() diag.Span
}

// Node carries the source span and is embedded by every expression node.
type Node struct {
	S diag.Span
}

// At returns a Node at the given span, for use in composite literals.
func At(span diag.Span) Node {
	return Node{S: span}
}

// Span returns the node's half-open byte range in the source.
func (n Node) Span() diag.Span {
	return n.S
}

// Scope is a resolved variable reference: either a local scope depth or the
// global scope.
type Scope struct {
	Global bool
	// Depth counts scopes above the innermost one, the global scope
	// excluded: 0 is the innermost scope itself.
	Depth int
}

// GlobalScope marks a name the resolver could not find in any local scope.
var GlobalScope = Scope{Global: true}

// Local returns a resolved local reference at the given depth.
func Local(depth int) Scope {
	return Scope{Depth: depth}
}

// NumberKind identifies the literal form a number was written in.
type NumberKind int

const (
	Decimal    NumberKind = iota // 123 or 1.25
	Binary                      // 0b1010 (Digits excludes the marker)
	Hex                         // 0xFF (Digits excludes the marker)
	Scientific                  // 1.5e-3, split into mantissa and exponent
)

// A NumberLit preserves the literal's text so the evaluator can parse it
// exactly. For Scientific literals Exp and NegExp carry the exponent.
type NumberLit struct {
	Kind   NumberKind
	Digits string
	Exp    string
	NegExp bool
}

// LiteralKind identifies the variant of a Literal node.
type LiteralKind int

const (
	NothingLit LiteralKind = iota
	BoolLit
	QuantityLit
)

// Literal is nothing, a boolean, or a quantity literal: a number with an
// optional trailing unit name.
type Literal struct {
	Node
	Kind LiteralKind
	Bool bool
	Num  NumberLit
	Unit string // optional unit name; empty means unitless
}

// Error is a placeholder emitted by parser recovery. Evaluating it fails.
type Error struct {
	Node
}

// Variable is a reference to a name, annotated by the resolver.
type Variable struct {
	Node
	Name  string
	Scope Scope
}

// VarDecl declares a variable in the current scope.
type VarDecl struct {
	Node
	Name string
	RHS  Expr
}

// VarUpdate overwrites a previously declared variable in its resolved scope.
type VarUpdate struct {
	Node
	Name  string
	RHS   Expr
	Scope Scope
}

// FuncDecl declares a named function.
type FuncDecl struct {
	Node
	Name   string
	Params []string
	Body   Expr
}

// FuncUpdate replaces a previously declared function.
type FuncUpdate struct {
	Node
	Name   string
	Params []string
	Body   Expr
	Scope  Scope
}

// Call applies a callee to arguments.
type Call struct {
	Node
	Callee Expr
	Args   []Expr
}

// If evaluates exactly one of its branches. A missing else is desugared to
// a Nothing literal by the parser.
type If struct {
	Node
	Cond Expr
	Then Expr
	Else Expr
}

// Block is a brace-delimited sequence evaluated in a fresh scope; its value
// is the last expression's.
type Block struct {
	Node
	Exprs []Expr
}

// Program is the root: a sequence evaluated in the global scope.
type Program struct {
	Node
	Exprs []Expr
}

// BinOpKind enumerates the binary operators.
type BinOpKind int

const (
	Add BinOpKind = iota
	Sub
	Mul
	Div
	Eq
	Neq
	Lt
	Gt
	Lte
	Gte
)

// BinOp applies a binary operator.
type BinOp struct {
	Node
	Op    BinOpKind
	Left  Expr
	Right Expr
}

// UnaryOpKind enumerates the unary operators.
type UnaryOpKind int

const (
	Negate UnaryOpKind = iota
	Not
)

// UnaryOp applies a unary operator.
type UnaryOp struct {
	Node
	Op      UnaryOpKind
	Operand Expr
}

// BaseUnitDecl declares a fresh base unit with an optional short name.
type BaseUnitDecl struct {
	Node
	Name  string
	Short string
}

// DerivedUnitDecl declares a named unit from a quantity expression.
type DerivedUnitDecl struct {
	Node
	Name  string
	Short string
	RHS   Expr
}

// PrefixDecl declares a dimensionless multiplier usable as a unit prefix.
type PrefixDecl struct {
	Node
	Name  string
	Short string
	RHS   Expr
}

// Conversion is `expr in unit-expr`.
type Conversion struct {
	Node
	Value  Expr
	Target Expr
}
