// Copyright 2023 The Hypatia Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package run drives parsing and evaluation against a persistent
// environment. It is factored out of the command so the REPL behavior can
// be tested; the CLI and any embedding host go through a Session.
package run

import (
	"strings"

	"github.com/hypatia-lang/hypatia/diag"
	"github.com/hypatia-lang/hypatia/eval"
	"github.com/hypatia-lang/hypatia/parse"
)

// A Session owns the environment shared by consecutive inputs.
type Session struct {
	env *eval.Environment
}

// New returns a session with the prelude loaded.
func New() *Session {
	return &Session{env: eval.NewEnvironment()}
}

// NewBare returns a session without the prelude, for hosts that want full
// control over declared units.
func NewBare() *Session {
	return &Session{env: eval.NewBareEnvironment()}
}

// Env exposes the session environment.
func (s *Session) Env() *eval.Environment {
	return s.env
}

// Eval parses and evaluates one complete input against the session
// environment and renders the resulting value.
func (s *Session) Eval(source string) (string, []error) {
	tree, errs := parse.Parse(source)
	if len(errs) > 0 {
		return "", errs
	}
	v, err := eval.Eval(tree, s.env)
	if err != nil {
		return "", []error{err}
	}
	return Render(v, s.env), nil
}

// Render formats a value for display. Quantities go through the unit
// formatter so results come out in the closest named unit; a non-integer
// exact result also shows its approximate form.
func Render(v eval.Value, env *eval.Environment) string {
	q, ok := v.(eval.Quantity)
	if !ok {
		return v.String()
	}
	best, name := eval.FormatUnit(q.Quantity, env)

	display := name.Short
	if display == "" {
		display = name.Long
	}
	out := best.Number.String()
	if display != "" {
		out += " " + display
	}
	if best.Number.IsExact() && !best.Number.Rat().IsInt() {
		approx := best.Number.Approx().String()
		if display != "" {
			approx += " " + display
		}
		out += " ≈ " + approx
	}
	return out
}

// Reports renders a batch of errors against their source text.
func Reports(errs []error, source string) string {
	var b strings.Builder
	for _, err := range errs {
		b.WriteString(diag.Report(err, source))
	}
	return strings.TrimRight(b.String(), "\n")
}

// OpenBraces returns the brace balance of the input so far. The REPL keeps
// reading lines while the balance is positive.
func OpenBraces(input string) int {
	depth := 0
	for _, r := range input {
		switch r {
		case '{':
			depth++
		case '}':
			depth--
		}
	}
	return depth
}
