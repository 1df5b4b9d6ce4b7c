// Package gramlex is a minimal, self-contained parser-combinator engine for
// line-oriented, user-defined grammars. An embedder supplies a
// regex-driven token table (package lex), an optional token filter, and a
// grammar expression built from the composable primitives of package
// combinator. BuildGrammar validates and compiles those into a Parser;
// ParseLine runs one line through it and returns either a single successful
// AST or the furthest-progress failure diagnostics.
package gramlex

import (
	"github.com/dekarrin/gramlex/ast"
	"github.com/dekarrin/gramlex/combinator"
	"github.com/dekarrin/gramlex/gerr"
	"github.com/dekarrin/gramlex/lex"
)

// Parser is a validated, ready-to-use grammar: a token table, an optional
// token filter, and a root expression, built once by BuildGrammar and
// reusable — including concurrently, see package combinator's evalCtx doc —
// across any number of ParseLine calls.
type Parser struct {
	table  lex.Table
	filter lex.Filter
	root   combinator.Expr
}

// BuildGrammar validates that every token id root references (transitively,
// via Token nodes) exists in tokens, and returns a Parser if so. Validation
// happens once, here, so that "unknown token" cannot occur at parse time.
func BuildGrammar(tokens lex.Table, filter lex.Filter, root combinator.Expr) (*Parser, error) {
	var unknown []string
	for _, id := range root.ReferencedTokens() {
		if !tokens.Has(id) {
			unknown = append(unknown, id)
		}
	}
	if len(unknown) > 0 {
		causes := make([]error, len(unknown))
		for i, id := range unknown {
			causes[i] = gerr.ErrUnknownToken
			_ = id
		}
		return nil, gerr.Construction(
			"grammar references undeclared token ids: "+joinIDs(unknown), causes...)
	}

	return &Parser{table: tokens, filter: filter, root: root}, nil
}

func joinIDs(ids []string) string {
	out := ""
	for i, id := range ids {
		if i > 0 {
			out += ", "
		}
		out += id
	}
	return out
}

// Outcome is one item of a ParseLine result: either the single success (when
// len(results) == 1 and Success is true) or one of possibly several
// furthest-progress failures sharing the same NewPos.
type Outcome struct {
	Success bool
	AST     []ast.Node
	NewPos  uint
	Err     *gerr.ParseError
}

// ParseLine lexes line (stamped with lineNumber), runs p's root expression
// over the resulting token vector from offset 0, and returns either the
// first total-coverage success (a single Outcome) or every
// furthest-progress failure.
//
// A LexError is returned directly (not as an Outcome) since it means the
// line could not be tokenized at all — there is no token vector to parse.
func (p *Parser) ParseLine(line string, lineNumber uint) ([]Outcome, error) {
	tokens, err := lex.Lex(p.table, p.filter, line, lineNumber)
	if err != nil {
		return nil, err
	}

	return evalTopLevel(p.root, tokens, lineNumber, uint(len(tokens))), nil
}
