// Copyright 2023 The Hypatia Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package eval

import (
	"github.com/hypatia-lang/hypatia/ast"
	"github.com/hypatia-lang/hypatia/diag"
	"github.com/hypatia-lang/hypatia/number"
	"github.com/hypatia-lang/hypatia/parse"
	"github.com/hypatia-lang/hypatia/unit"
)

// Eval evaluates a resolved expression tree, mutating env in place, and
// returns the resulting value. The first error aborts evaluation.
func Eval(expr ast.Expr, env *Environment) (Value, error) {
	switch e := expr.(type) {
	case *ast.Error:
		return nil, &diag.Error{Kind: diag.ErrorNode, Span: e.Span()}

	case *ast.Literal:
		return evalLiteral(e, env)

	case *ast.Variable:
		// A unit name used as a variable evaluates to 1 of that unit.
		if u, ok := env.LookupUnit(e.Name); ok {
			return Quantity{unit.Quantity{Number: number.One(), Unit: u}}, nil
		}
		if scope := env.scopeFor(e.Scope); scope != nil {
			if v, ok := scope.vars[e.Name]; ok {
				return v, nil
			}
		}
		return nil, &diag.Error{Kind: diag.UnknownName, Name: e.Name, Span: e.Span()}

	case *ast.VarDecl:
		v, err := Eval(e.RHS, env)
		if err != nil {
			return nil, err
		}
		if err := env.declareVar(e.Name, v, e.Span()); err != nil {
			return nil, err
		}
		return v, nil

	case *ast.VarUpdate:
		v, err := Eval(e.RHS, env)
		if err != nil {
			return nil, err
		}
		if env.isUnitName(e.Name) {
			return nil, &diag.Error{Kind: diag.OccupiedName, Name: e.Name, Span: e.Span()}
		}
		scope := env.scopeFor(e.Scope)
		if scope == nil {
			return nil, &diag.Error{Kind: diag.UpdateNonExistentVar, Name: e.Name, Span: e.Span()}
		}
		if _, ok := scope.vars[e.Name]; !ok {
			return nil, &diag.Error{Kind: diag.UpdateNonExistentVar, Name: e.Name, Span: e.Span()}
		}
		scope.vars[e.Name] = v
		return v, nil

	case *ast.FuncDecl:
		fn := Function{Params: e.Params, Body: e.Body, Env: *env}
		if err := env.declareVar(e.Name, fn, e.Span()); err != nil {
			return nil, err
		}
		return fn, nil

	case *ast.FuncUpdate:
		fn := Function{Params: e.Params, Body: e.Body, Env: *env}
		if env.isUnitName(e.Name) {
			return nil, &diag.Error{Kind: diag.OccupiedName, Name: e.Name, Span: e.Span()}
		}
		scope := env.scopeFor(e.Scope)
		if scope == nil {
			return nil, &diag.Error{Kind: diag.UpdateNonExistentVar, Name: e.Name, Span: e.Span()}
		}
		if _, ok := scope.vars[e.Name]; !ok {
			return nil, &diag.Error{Kind: diag.UpdateNonExistentVar, Name: e.Name, Span: e.Span()}
		}
		scope.vars[e.Name] = fn
		return fn, nil

	case *ast.Call:
		return evalCall(e, env)

	case *ast.If:
		cond, err := Eval(e.Cond, env)
		if err != nil {
			return nil, err
		}
		truth, err := isTrue(cond, e.Cond.Span())
		if err != nil {
			return nil, err
		}
		if truth {
			return Eval(e.Then, env)
		}
		return Eval(e.Else, env)

	case *ast.Block:
		env.pushScope()
		defer env.popScope()
		return evalSequence(e.Exprs, env)

	case *ast.Program:
		return evalSequence(e.Exprs, env)

	case *ast.BinOp:
		return evalBinOp(e, env)

	case *ast.UnaryOp:
		v, err := Eval(e.Operand, env)
		if err != nil {
			return nil, err
		}
		switch e.Op {
		case ast.Negate:
			q, err := asQuantity(v, e.Operand.Span())
			if err != nil {
				return nil, err
			}
			return Quantity{q.Neg()}, nil
		default: // ast.Not
			b, ok := v.(Bool)
			if !ok {
				return nil, &diag.Error{Kind: diag.InvalidType, Span: e.Operand.Span()}
			}
			return !b, nil
		}

	case *ast.BaseUnitDecl:
		base := unit.BaseUnit{Name: e.Name, Short: e.Short}
		if err := env.checkUnitNames(e.Name, e.Short, e.Span()); err != nil {
			return nil, err
		}
		env.declareUnit(e.Name, e.Short, unit.Base(base))
		return Nothing{}, nil

	case *ast.DerivedUnitDecl:
		v, err := Eval(e.RHS, env)
		if err != nil {
			return nil, err
		}
		q, err := asQuantity(v, e.RHS.Span())
		if err != nil {
			return nil, err
		}
		if err := env.checkUnitNames(e.Name, e.Short, e.Span()); err != nil {
			return nil, err
		}
		derived := unit.Unit{Scale: q.Number.Mul(q.Unit.Scale), Powers: q.Unit.Powers}
		env.declareUnit(e.Name, e.Short, derived)
		return Nothing{}, nil

	case *ast.PrefixDecl:
		v, err := Eval(e.RHS, env)
		if err != nil {
			return nil, err
		}
		q, err := asQuantity(v, e.RHS.Span())
		if err != nil {
			return nil, err
		}
		if len(q.Unit.Powers) != 0 {
			return nil, &diag.Error{Kind: diag.InvalidType, Span: e.RHS.Span()}
		}
		scale := q.Number.Mul(q.Unit.Scale)
		if err := env.checkPrefixName(e.Name, e.Span()); err != nil {
			return nil, err
		}
		env.declarePrefix(e.Name, true, scale)
		if e.Short != "" {
			if err := env.checkPrefixName(e.Short, e.Span()); err != nil {
				return nil, err
			}
			env.declarePrefix(e.Short, false, scale)
		}
		return Nothing{}, nil

	case *ast.Conversion:
		return evalConversion(e, env)
	}
	return nil, &diag.Error{Kind: diag.InvalidType, Span: expr.Span()}
}

// scopeFor maps a resolver annotation to the runtime scope it denotes.
func (env *Environment) scopeFor(s ast.Scope) *Scope {
	if s.Global {
		return env.scope.root()
	}
	return env.scope.at(s.Depth)
}

// declareVar inserts a variable in the current scope, rejecting names that
// already denote a unit or a prefixed unit.
func (env *Environment) declareVar(name string, v Value, span diag.Span) error {
	if env.isUnitName(name) {
		return &diag.Error{Kind: diag.OccupiedName, Name: name, Span: span}
	}
	env.scope.vars[name] = v
	return nil
}

// checkUnitNames rejects unit names that shadow a visible variable.
// Redeclaring an existing unit is allowed and replaces it.
func (env *Environment) checkUnitNames(name, short string, span diag.Span) error {
	if _, ok := env.scope.lookup(name); ok {
		return &diag.Error{Kind: diag.OccupiedName, Name: name, Span: span}
	}
	if short != "" {
		if _, ok := env.scope.lookup(short); ok {
			return &diag.Error{Kind: diag.OccupiedName, Name: short, Span: span}
		}
	}
	return nil
}

// checkPrefixName rejects prefix names that are already prefixes or that
// shadow a visible variable.
func (env *Environment) checkPrefixName(name string, span diag.Span) error {
	if env.prefixes.ContainsKey(name) {
		return &diag.Error{Kind: diag.OccupiedName, Name: name, Span: span}
	}
	if _, ok := env.scope.lookup(name); ok {
		return &diag.Error{Kind: diag.OccupiedName, Name: name, Span: span}
	}
	return nil
}

// evalSequence evaluates expressions in order and returns the last value,
// or Nothing for an empty sequence.
func evalSequence(exprs []ast.Expr, env *Environment) (Value, error) {
	var result Value = Nothing{}
	for _, e := range exprs {
		v, err := Eval(e, env)
		if err != nil {
			return nil, err
		}
		result = v
	}
	return result, nil
}

func evalLiteral(e *ast.Literal, env *Environment) (Value, error) {
	switch e.Kind {
	case ast.NothingLit:
		return Nothing{}, nil
	case ast.BoolLit:
		return Bool(e.Bool), nil
	}

	var (
		n   number.Number
		err error
	)
	switch e.Num.Kind {
	case ast.Decimal:
		n, err = number.ParseDecimal(e.Num.Digits)
	case ast.Binary:
		n, err = number.ParseBinary(e.Num.Digits)
	case ast.Hex:
		n, err = number.ParseHex(e.Num.Digits)
	case ast.Scientific:
		n, err = number.ParseScientific(e.Num.Digits, e.Num.Exp, e.Num.NegExp)
	}
	if err != nil {
		return nil, &diag.Error{Kind: diag.Parsing, Name: e.Num.Digits, Span: e.Span()}
	}

	u := unit.Unitless()
	if e.Unit != "" {
		var ok bool
		u, ok = env.LookupUnit(e.Unit)
		if !ok {
			return nil, &diag.Error{Kind: diag.UnknownName, Name: e.Unit, Span: e.Span()}
		}
	}
	return Quantity{unit.Quantity{Number: n, Unit: u}}, nil
}

func evalCall(e *ast.Call, env *Environment) (Value, error) {
	callee, err := Eval(e.Callee, env)
	if err != nil {
		return nil, err
	}
	fn, ok := callee.(Function)
	if !ok {
		return nil, &diag.Error{Kind: diag.InvalidType, Span: e.Callee.Span()}
	}
	if len(fn.Params) != len(e.Args) {
		return nil, &diag.Error{Kind: diag.InvalidType, Span: e.Span()}
	}

	// Arguments evaluate in the caller's environment; the body runs in a
	// fresh scope pushed onto the closure's captured environment, leaving
	// the caller's scope chain untouched.
	args := make([]Value, len(e.Args))
	for i, arg := range e.Args {
		v, err := Eval(arg, env)
		if err != nil {
			return nil, err
		}
		args[i] = v
	}

	fnEnv := fn.Env
	fnEnv.pushScope()
	for i, name := range fn.Params {
		fnEnv.scope.vars[name] = args[i]
	}
	return Eval(fn.Body, &fnEnv)
}

func evalBinOp(e *ast.BinOp, env *Environment) (Value, error) {
	left, err := Eval(e.Left, env)
	if err != nil {
		return nil, err
	}
	right, err := Eval(e.Right, env)
	if err != nil {
		return nil, err
	}
	a, err := asQuantity(left, e.Left.Span())
	if err != nil {
		return nil, err
	}
	b, err := asQuantity(right, e.Right.Span())
	if err != nil {
		return nil, err
	}

	withSpan := func(err error) error {
		if d, ok := err.(*diag.Error); ok {
			d.Span = e.Span()
		}
		return err
	}

	switch e.Op {
	case ast.Add:
		q, err := a.Add(b)
		if err != nil {
			return nil, withSpan(err)
		}
		return Quantity{q}, nil
	case ast.Sub:
		q, err := a.Sub(b)
		if err != nil {
			return nil, withSpan(err)
		}
		return Quantity{q}, nil
	case ast.Mul:
		return Quantity{a.Mul(b)}, nil
	case ast.Div:
		return Quantity{a.Div(b)}, nil
	case ast.Eq:
		return Bool(a.Equal(b)), nil
	case ast.Neq:
		return Bool(!a.Equal(b)), nil
	}

	cmp, err := a.Cmp(b)
	if err != nil {
		return nil, withSpan(err)
	}
	switch e.Op {
	case ast.Lt:
		return Bool(cmp < 0), nil
	case ast.Gt:
		return Bool(cmp > 0), nil
	case ast.Lte:
		return Bool(cmp <= 0), nil
	default: // ast.Gte
		return Bool(cmp >= 0), nil
	}
}

// evalConversion handles `expr in unit`. The right-hand side must denote a
// unit: it evaluates to a quantity and its magnitude folds into the target
// scale, so both `x in km` and `x in (1 km)` convert to kilometers.
func evalConversion(e *ast.Conversion, env *Environment) (Value, error) {
	v, err := Eval(e.Value, env)
	if err != nil {
		return nil, err
	}
	q, err := asQuantity(v, e.Value.Span())
	if err != nil {
		return nil, err
	}
	t, err := Eval(e.Target, env)
	if err != nil {
		return nil, err
	}
	tq, err := asQuantity(t, e.Target.Span())
	if err != nil {
		return nil, err
	}
	target := tq.Unit.Rescaled(tq.Number)
	converted, ok := q.TryConvert(target)
	if !ok {
		return nil, &diag.Error{Kind: diag.InvalidUnitOperation, Span: e.Span()}
	}
	return Quantity{converted}, nil
}

// loadPrelude parses and evaluates the embedded prelude into env.
func loadPrelude(env *Environment) error {
	tree, errs := parse.Parse(preludeSource)
	if len(errs) > 0 {
		return errs[0]
	}
	_, err := Eval(tree, env)
	return err
}
