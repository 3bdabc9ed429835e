// Copyright 2023 The Hypatia Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package scan tokenizes Hypatia source text. Tokens carry byte spans;
// unrecognized input produces a collected error and the scanner skips one
// rune and resynchronizes.
package scan

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/hypatia-lang/hypatia/diag"
)

// Type identifies the type of a token.
type Type int

const (
	EOF Type = iota
	Newline
	Comment
	Identifier
	Number    // decimal, possibly fractional
	BinNumber // 0b...
	HexNumber // 0x...
	SciNumber // 1.5e-3
	Bool      // true, false
	Unit      // 'unit' keyword
	Prefix    // 'prefix' keyword
	Update    // 'update' keyword
	If
	Else
	NothingWord
	Not
	In
	Plus
	Minus
	Star
	Slash
	Assign
	Equal
	NotEqual
	Less
	Greater
	LessEqual
	GreaterEqual
	LeftParen
	RightParen
	LeftBrack
	RightBrack
	LeftBrace
	RightBrace
	Semicolon
	Comma
)

var typeNames = map[Type]string{
	EOF:          "end of input",
	Newline:      "newline",
	Comment:      "comment",
	Identifier:   "identifier",
	Number:       "number",
	BinNumber:    "binary number",
	HexNumber:    "hex number",
	SciNumber:    "scientific number",
	Bool:         "boolean",
	Unit:         "'unit'",
	Prefix:       "'prefix'",
	Update:       "'update'",
	If:           "'if'",
	Else:         "'else'",
	NothingWord:  "'nothing'",
	Not:          "'not'",
	In:           "'in'",
	Plus:         "'+'",
	Minus:        "'-'",
	Star:         "'*'",
	Slash:        "'/'",
	Assign:       "'='",
	Equal:        "'=='",
	NotEqual:     "'!='",
	Less:         "'<'",
	Greater:      "'>'",
	LessEqual:    "'<='",
	GreaterEqual: "'>='",
	LeftParen:    "'('",
	RightParen:   "')'",
	LeftBrack:    "'['",
	RightBrack:   "']'",
	LeftBrace:    "'{'",
	RightBrace:   "'}'",
	Semicolon:    "';'",
	Comma:        "','",
}

func (t Type) String() string {
	if s, ok := typeNames[t]; ok {
		return s
	}
	return fmt.Sprintf("token(%d)", int(t))
}

var keywords = map[string]Type{
	"unit":    Unit,
	"prefix":  Prefix,
	"update":  Update,
	"if":      If,
	"else":    Else,
	"nothing": NothingWord,
	"not":     Not,
	"in":      In,
	"true":    Bool,
	"false":   Bool,
}

// Token is a lexeme with its half-open byte span in the input.
type Token struct {
	Type Type
	Text string
	Span diag.Span
}

func (t Token) String() string {
	switch t.Type {
	case Identifier, Number, BinNumber, HexNumber, SciNumber, Bool:
		return fmt.Sprintf("%s %q", t.Type, t.Text)
	}
	return t.Type.String()
}

const eof = -1

// stateFn represents the state of the scanner as a function returning the
// next state.
type stateFn func(*Scanner) stateFn

// Scanner holds the scanning state. It runs the whole input to completion,
// collecting tokens and errors.
type Scanner struct {
	input  string
	pos    int // current position in the input
	start  int // start position of the pending token
	width  int // width of the last rune read
	tokens []Token
	errs   []error
}

// Tokens scans src and returns its tokens (without a trailing EOF token)
// and any lexing errors.
func Tokens(src string) ([]Token, []error) {
	s := &Scanner{input: src}
	for state := lexAny; state != nil; {
		state = state(s)
	}
	return s.tokens, s.errs
}

func (s *Scanner) next() rune {
	if s.pos >= len(s.input) {
		s.width = 0
		return eof
	}
	r, w := utf8.DecodeRuneInString(s.input[s.pos:])
	s.width = w
	s.pos += w
	return r
}

func (s *Scanner) peek() rune {
	r := s.next()
	s.backup()
	return r
}

// backup steps back one rune. Can only be called once per call of next.
func (s *Scanner) backup() {
	s.pos -= s.width
}

func (s *Scanner) emit(t Type) {
	s.tokens = append(s.tokens, Token{
		Type: t,
		Text: s.input[s.start:s.pos],
		Span: diag.Span{Start: s.start, End: s.pos},
	})
	s.start = s.pos
}

func (s *Scanner) ignore() {
	s.start = s.pos
}

func (s *Scanner) accept(valid string) bool {
	if strings.ContainsRune(valid, s.next()) {
		return true
	}
	s.backup()
	return false
}

func (s *Scanner) acceptRun(valid string) {
	for strings.ContainsRune(valid, s.next()) {
	}
	s.backup()
}

// errorf records a lexing error spanning the pending text and resynchronizes.
func (s *Scanner) errorf(format string, args ...any) stateFn {
	s.errs = append(s.errs, &diag.Error{
		Kind: diag.Parsing,
		Name: fmt.Sprintf(format, args...),
		Span: diag.Span{Start: s.start, End: s.pos},
	})
	s.ignore()
	return lexAny
}

func lexAny(s *Scanner) stateFn {
	switch r := s.next(); {
	case r == eof:
		return nil
	case r == '\n':
		s.emit(Newline)
		return lexAny
	case r == '\r':
		if s.peek() == '\n' {
			s.next()
		}
		s.emit(Newline)
		return lexAny
	case r == ' ' || r == '\t':
		return lexSpace
	case r == '/':
		if s.peek() == '/' {
			return lexComment
		}
		s.emit(Slash)
		return lexAny
	case '0' <= r && r <= '9':
		s.backup()
		return lexNumber
	case r == '=':
		if s.peek() == '=' {
			s.next()
			s.emit(Equal)
		} else {
			s.emit(Assign)
		}
		return lexAny
	case r == '!':
		if s.peek() == '=' {
			s.next()
			s.emit(NotEqual)
			return lexAny
		}
		return s.errorf("unrecognized character %q", r)
	case r == '<':
		if s.peek() == '=' {
			s.next()
			s.emit(LessEqual)
		} else {
			s.emit(Less)
		}
		return lexAny
	case r == '>':
		if s.peek() == '=' {
			s.next()
			s.emit(GreaterEqual)
		} else {
			s.emit(Greater)
		}
		return lexAny
	case r == '+':
		s.emit(Plus)
		return lexAny
	case r == '-':
		s.emit(Minus)
		return lexAny
	case r == '*':
		s.emit(Star)
		return lexAny
	case r == '(':
		s.emit(LeftParen)
		return lexAny
	case r == ')':
		s.emit(RightParen)
		return lexAny
	case r == '[':
		s.emit(LeftBrack)
		return lexAny
	case r == ']':
		s.emit(RightBrack)
		return lexAny
	case r == '{':
		s.emit(LeftBrace)
		return lexAny
	case r == '}':
		s.emit(RightBrace)
		return lexAny
	case r == ';':
		s.emit(Semicolon)
		return lexAny
	case r == ',':
		s.emit(Comma)
		return lexAny
	case isIdentStart(r):
		s.backup()
		return lexIdentifier
	default:
		return s.errorf("unrecognized character %q", r)
	}
}

// lexSpace skips a run of horizontal whitespace. One space has already
// been seen.
func lexSpace(s *Scanner) stateFn {
	for {
		r := s.peek()
		if r != ' ' && r != '\t' {
			break
		}
		s.next()
	}
	s.ignore()
	return lexAny
}

// lexComment scans from "//" to the end of the line. The newline itself is
// left for lexAny so it still separates statements.
func lexComment(s *Scanner) stateFn {
	for {
		r := s.next()
		if r == eof {
			break
		}
		if r == '\n' {
			s.backup()
			break
		}
	}
	s.emit(Comment)
	return lexAny
}

func lexIdentifier(s *Scanner) stateFn {
	for {
		r := s.next()
		if !isIdent(r) {
			s.backup()
			break
		}
	}
	word := s.input[s.start:s.pos]
	if t, ok := keywords[word]; ok {
		s.emit(t)
	} else {
		s.emit(Identifier)
	}
	return lexAny
}

const digits = "0123456789"

// lexNumber scans decimal, 0b, 0x and scientific forms. The first digit has
// not been consumed yet.
func lexNumber(s *Scanner) stateFn {
	if s.accept("0") {
		switch {
		case s.accept("bB"):
			mark := s.pos
			s.acceptRun("01")
			if s.pos == mark || isIdent(s.peek()) {
				s.next()
				return s.errorf("bad binary literal %q", s.input[s.start:s.pos])
			}
			s.emit(BinNumber)
			return lexAny
		case s.accept("xX"):
			mark := s.pos
			s.acceptRun("0123456789abcdefABCDEF")
			if s.pos == mark || isIdent(s.peek()) {
				s.next()
				return s.errorf("bad hex literal %q", s.input[s.start:s.pos])
			}
			s.emit(HexNumber)
			return lexAny
		}
	}
	s.acceptRun(digits)
	if s.accept(".") {
		if !strings.ContainsRune(digits, s.peek()) {
			return s.errorf("bad number %q", s.input[s.start:s.pos])
		}
		s.acceptRun(digits)
	}
	// A scientific marker is taken only when a full exponent follows;
	// otherwise the 'e' starts the next identifier (a unit name, say).
	if r := s.peek(); r == 'e' || r == 'E' {
		mark := s.pos
		s.next()
		s.accept("+-")
		expStart := s.pos
		s.acceptRun(digits)
		if s.pos == expStart {
			s.pos = mark
		} else {
			s.emit(SciNumber)
			return lexAny
		}
	}
	s.emit(Number)
	return lexAny
}

func isIdentStart(r rune) bool {
	return r == '_' || unicode.IsLetter(r)
}

func isIdent(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r)
}
