// Copyright 2023 The Hypatia Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package diag defines source spans, the error taxonomy shared by the
// scanner, parser, resolver and evaluator, and a plain-text diagnostic
// renderer.
package diag

import (
	"fmt"
	"strings"
)

// A Span is a half-open byte range [Start, End) into the source text.
type Span struct {
	Start int
	End   int
}

// Union returns the smallest span covering both s and t.
func (s Span) Union(t Span) Span {
	u := s
	if t.Start < u.Start {
		u.Start = t.Start
	}
	if t.End > u.End {
		u.End = t.End
	}
	return u
}

func (s Span) String() string {
	return fmt.Sprintf("[%d:%d)", s.Start, s.End)
}

// Kind classifies an Error.
type Kind int

const (
	// Parsing marks lexing and parsing failures. The Expected set, when
	// non-empty, lists the token descriptions that would have been accepted.
	Parsing Kind = iota
	// ErrorNode is reported when evaluation reaches a parser recovery
	// placeholder.
	ErrorNode
	// UnknownName is an identifier that is neither a variable, a unit,
	// nor a prefixed unit.
	UnknownName
	// UpdateNonExistentVar is an update of an undeclared variable.
	UpdateNonExistentVar
	// OccupiedName is a declaration that collides with an existing unit,
	// prefix or variable.
	OccupiedName
	// Redeclaration is a same-scope redeclaration of a variable. Unit and
	// prefix declarations count as declaring their names, so a variable
	// declared after a unit of the same name in the same scope of one
	// source is reported as Redeclaration, not OccupiedName.
	Redeclaration
	// InvalidType is an operand of the wrong value variant.
	InvalidType
	// InvalidUnitOperation is arithmetic or ordering over quantities whose
	// dimensional signatures differ.
	InvalidUnitOperation
)

// Error is the single error type reported by the frontend and evaluator.
// Name carries the offending identifier for the name-related kinds and the
// unexpected text for Parsing errors.
type Error struct {
	Kind     Kind
	Name     string
	Span     Span
	Expected []string
}

func (e *Error) Error() string {
	switch e.Kind {
	case Parsing:
		msg := "unexpected end of input"
		if e.Name != "" {
			msg = fmt.Sprintf("unexpected %q", e.Name)
		}
		if len(e.Expected) > 0 {
			msg += ", expected " + strings.Join(e.Expected, ", ")
		}
		return msg
	case ErrorNode:
		return "cannot evaluate erroneous expression"
	case UnknownName:
		return fmt.Sprintf("unknown name %q", e.Name)
	case UpdateNonExistentVar:
		return fmt.Sprintf("cannot update %q: it has not been declared", e.Name)
	case OccupiedName:
		return fmt.Sprintf("the name %q is already taken", e.Name)
	case Redeclaration:
		return fmt.Sprintf("%q is already declared in this scope", e.Name)
	case InvalidType:
		return "invalid type"
	case InvalidUnitOperation:
		return "invalid unit operation"
	}
	return "unknown error"
}

// Errorf builds an Error of the given kind at span.
func Errorf(kind Kind, span Span, name string) *Error {
	return &Error{Kind: kind, Name: name, Span: span}
}

// Report renders err against its source text as a carat-style diagnostic:
// a position line, the offending source line, and an underline. Errors
// without a usable span render as a single message line.
func Report(err error, src string) string {
	e, ok := err.(*Error)
	if !ok {
		return "error: " + err.Error()
	}
	var b strings.Builder
	line, col, text := locate(src, e.Span.Start)
	fmt.Fprintf(&b, "error: %s\n", e.Error())
	if text == "" && e.Span.Start >= len(src) {
		fmt.Fprintf(&b, " --> %d:%d (end of input)\n", line, col)
		return b.String()
	}
	fmt.Fprintf(&b, " --> %d:%d\n", line, col)
	fmt.Fprintf(&b, "  | %s\n", text)
	width := e.Span.End - e.Span.Start
	if width < 1 {
		width = 1
	}
	if max := len(text) - (col - 1); width > max && max > 0 {
		width = max
	}
	fmt.Fprintf(&b, "  | %s^%s\n", strings.Repeat(" ", col-1), strings.Repeat("~", width-1))
	return b.String()
}

// locate maps a byte offset to a 1-based line and column plus the line text.
func locate(src string, offset int) (line, col int, text string) {
	if offset > len(src) {
		offset = len(src)
	}
	start := 0
	line = 1
	for i := 0; i < offset; i++ {
		if src[i] == '\n' {
			line++
			start = i + 1
		}
	}
	end := len(src)
	if i := strings.IndexByte(src[start:], '\n'); i >= 0 {
		end = start + i
	}
	return line, offset - start + 1, src[start:end]
}
