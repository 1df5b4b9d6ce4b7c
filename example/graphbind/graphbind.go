// Package graphbind is an illustrative graph-binding grammar (lines like
// "//+ a->c;"). It is not part of gramlex's core and no core package
// imports it; it exists only to exercise the engine end-to-end and to give
// the driver's testable properties a concrete grammar to run against.
package graphbind

import (
	"github.com/dekarrin/gramlex"
	"github.com/dekarrin/gramlex/combinator"
	"github.com/dekarrin/gramlex/lex"
)

// Token ids used by the graph-binding grammar.
const (
	Marker   = "MARKER" // "//+"
	Name     = "NAME"
	Arrow    = "ARROW"    // "->"
	AtArrow  = "AT_ARROW" // "@>"
	Star     = "STAR"     // "*"
	Semi     = "SEMI"     // ";"
	LBrace   = "LBRACE"
	RBrace   = "RBRACE"
	Comma    = "COMMA"
	Space    = "SPACE"
)

// New builds the graph-binding Parser. A line is a "//+" marker followed by
// zero or more bindings of the form NAME ("->"|"@>") target ";", where
// target is a NAME, a "*", or a brace-delimited, comma-separated list of
// NAMEs. Each binding becomes a Structure tagged with the arrow operator
// that introduced it ("->" or "@>"); the marker, arrow, semicolon, braces,
// and comma are all muted out of the AST except the marker itself, which is
// kept as a leading Leaf.
func New() (*gramlex.Parser, error) {
	table, err := lex.NewTable(
		[]string{Marker, Name, Arrow, AtArrow, Star, Semi, LBrace, RBrace, Comma, Space},
		[]string{`//\+`, `[a-zA-Z][a-zA-Z0-9]*`, `->`, `@>`, `\*`, `;`, `\{`, `\}`, `,`, ` +`},
	)
	if err != nil {
		return nil, err
	}

	dropSpace := func(tok lex.Token) bool { return tok.ID != Space }

	nameList := combinator.Seq(
		combinator.Token(Name),
		combinator.Star(combinator.Seq(combinator.Mute(combinator.Token(Comma)), combinator.Token(Name))),
	)

	target := combinator.Alt(
		combinator.Token(Name),
		combinator.Token(Star),
		combinator.Seq(combinator.Mute(combinator.Token(LBrace)), nameList, combinator.Mute(combinator.Token(RBrace))),
	)

	binding := func(arrowID, arrowSymbol string) combinator.Expr {
		return combinator.Named(arrowSymbol, combinator.Seq(
			combinator.Token(Name),
			combinator.Mute(combinator.Token(arrowID)),
			target,
			combinator.Mute(combinator.Token(Semi)),
		))
	}

	line := combinator.Seq(
		combinator.Token(Marker),
		combinator.Star(combinator.Alt(binding(Arrow, "->"), binding(AtArrow, "@>"))),
	)

	return gramlex.BuildGrammar(table, dropSpace, line)
}
