// Package gerr holds the error types shared across gramlex's packages.
//
// ConstructionError and LexError are fatal to the call that produced them
// (grammar construction and lexing, respectively). ParseError is not: it is
// data carried inside a gramlex.Outcome, never returned as a Go error.
package gerr

import (
	"errors"
	"fmt"
	"strings"

	"github.com/dekarrin/rosed"
)

// Sentinel causes usable with errors.Is against the wrapped error types
// below.
var (
	ErrUnknownToken   = errors.New("grammar references a token id that is not in the token table")
	ErrEmptySequence  = errors.New("and/or sequence must have at least one operand")
	ErrBadPattern     = errors.New("token pattern is not a valid regular expression")
	ErrNoMatch        = errors.New("no token pattern matches the remaining input")
	ErrZeroLengthScan = errors.New("token pattern matched a zero-length string")
	ErrBadFormat  = errors.New("not a recognized grammar config document")
	ErrUnknownDef = errors.New("expression references a def name that is not declared")
	ErrCyclicDef  = errors.New("def references form a cycle")
)

// ConstructionError is returned synchronously from grammar-building
// functions (lex.NewTable, gramlex.BuildGrammar). It can carry more than one
// underlying cause, e.g. every unknown token id a grammar references.
type ConstructionError struct {
	msg   string
	cause []error
}

func Construction(msg string, cause ...error) *ConstructionError {
	return &ConstructionError{msg: msg, cause: cause}
}

func (e *ConstructionError) Error() string {
	if len(e.cause) == 0 {
		return e.msg
	}
	parts := make([]string, len(e.cause))
	for i, c := range e.cause {
		parts[i] = c.Error()
	}
	return fmt.Sprintf("%s: %s", e.msg, strings.Join(parts, "; "))
}

func (e *ConstructionError) Unwrap() []error {
	return e.cause
}

// HumanSummary renders e wrapped to a terminal-friendly width, for display
// in cmd/gramlex and gsvc error responses, rather than dumping a raw,
// unwrapped Go error string.
func (e *ConstructionError) HumanSummary() string {
	return rosed.Edit(e.Error()).Wrap(72).String()
}

// LexError is returned when a line cannot be fully tokenized.
type LexError struct {
	msg  string
	Line uint
	// Column is the 1-based column at which lexing stopped making progress.
	Column uint
	cause  error
}

func Lex(msg string, line, column uint, cause error) *LexError {
	return &LexError{msg: msg, Line: line, Column: column, cause: cause}
}

func (e *LexError) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s at line %d, column %d: %s", e.msg, e.Line, e.Column, e.cause.Error())
	}
	return fmt.Sprintf("%s at line %d, column %d", e.msg, e.Line, e.Column)
}

func (e *LexError) Unwrap() error {
	return e.cause
}

// ParseError names the token id a parser expression expected and the token
// (real or end-of-input sentinel) actually found at the point of failure.
// ParseError is a plain value, not propagated as a Go error, so it does not
// implement the error interface; Render exists for diagnostic display.
type ParseError struct {
	Expected string
	Actual   ActualToken
}

// ActualToken is the minimal shape ParseError needs from a lexed token,
// decoupled from the lex package to avoid an import cycle (lex imports gerr
// to report its own errors, so gerr cannot import lex).
type ActualToken struct {
	ID      string
	Content string
	Line    uint
	Column  uint
}

func (pe ParseError) Render() string {
	return fmt.Sprintf("line %d, column %d: expected %q but found %s %q",
		pe.Actual.Line, pe.Actual.Column, pe.Expected, pe.Actual.ID, pe.Actual.Content)
}
