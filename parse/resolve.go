// Copyright 2023 The Hypatia Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package parse

import (
	"github.com/hypatia-lang/hypatia/ast"
	"github.com/hypatia-lang/hypatia/diag"
)

// Resolve performs the semantic pass over a freshly parsed tree: it rejects
// same-scope variable redeclarations and annotates every variable reference
// and update with the scope that binds it. The annotations depend only on
// declarations, so resolving an already-resolved tree is a no-op.
func Resolve(expr ast.Expr) error {
	r := &resolver{scopes: []map[string]bool{{}}}
	return r.resolve(expr)
}

type resolver struct {
	// scopes[0] is the global scope; the rest are nested local scopes,
	// innermost last.
	scopes []map[string]bool
}

func (r *resolver) push() {
	r.scopes = append(r.scopes, map[string]bool{})
}

func (r *resolver) pop() {
	r.scopes = r.scopes[:len(r.scopes)-1]
}

func (r *resolver) current() map[string]bool {
	return r.scopes[len(r.scopes)-1]
}

// find locates name among the local scopes, innermost first. Names not
// found locally are assumed global.
func (r *resolver) find(name string) ast.Scope {
	for depth, i := 0, len(r.scopes)-1; i >= 1; depth, i = depth+1, i-1 {
		if r.scopes[i][name] {
			return ast.Local(depth)
		}
	}
	return ast.GlobalScope
}

func (r *resolver) resolve(expr ast.Expr) error {
	switch e := expr.(type) {
	case *ast.Error, *ast.Literal:
		return nil
	case *ast.Variable:
		e.Scope = r.find(e.Name)
		return nil
	case *ast.VarDecl:
		if r.current()[e.Name] {
			return &diag.Error{Kind: diag.Redeclaration, Name: e.Name, Span: e.Span()}
		}
		r.current()[e.Name] = true
		return r.resolve(e.RHS)
	case *ast.VarUpdate:
		if err := r.resolve(e.RHS); err != nil {
			return err
		}
		e.Scope = r.find(e.Name)
		return nil
	case *ast.FuncDecl:
		// The function's own name goes into the enclosing scope first so
		// the body can recur.
		r.current()[e.Name] = true
		r.push()
		for _, param := range e.Params {
			r.current()[param] = true
		}
		err := r.resolve(e.Body)
		r.pop()
		return err
	case *ast.FuncUpdate:
		r.push()
		for _, param := range e.Params {
			r.current()[param] = true
		}
		err := r.resolve(e.Body)
		r.pop()
		if err != nil {
			return err
		}
		e.Scope = r.find(e.Name)
		return nil
	case *ast.Call:
		if err := r.resolve(e.Callee); err != nil {
			return err
		}
		for _, arg := range e.Args {
			if err := r.resolve(arg); err != nil {
				return err
			}
		}
		return nil
	case *ast.If:
		if err := r.resolve(e.Cond); err != nil {
			return err
		}
		if err := r.resolve(e.Then); err != nil {
			return err
		}
		return r.resolve(e.Else)
	case *ast.Block:
		r.push()
		defer r.pop()
		for _, child := range e.Exprs {
			if err := r.resolve(child); err != nil {
				return err
			}
		}
		return nil
	case *ast.Program:
		for _, child := range e.Exprs {
			if err := r.resolve(child); err != nil {
				return err
			}
		}
		return nil
	case *ast.BinOp:
		if err := r.resolve(e.Left); err != nil {
			return err
		}
		return r.resolve(e.Right)
	case *ast.UnaryOp:
		return r.resolve(e.Operand)
	case *ast.Conversion:
		if err := r.resolve(e.Value); err != nil {
			return err
		}
		return r.resolve(e.Target)
	case *ast.BaseUnitDecl:
		r.declareNames(e.Name, e.Short)
		return nil
	case *ast.DerivedUnitDecl:
		r.declareNames(e.Name, e.Short)
		return r.resolve(e.RHS)
	case *ast.PrefixDecl:
		r.declareNames(e.Name, e.Short)
		return r.resolve(e.RHS)
	}
	return nil
}

// declareNames registers a unit or prefix declaration's names in the
// current scope so later references resolve against it.
func (r *resolver) declareNames(name, short string) {
	r.current()[name] = true
	if short != "" {
		r.current()[short] = true
	}
}
