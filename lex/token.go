package lex

import "fmt"

// EndOfInputID is the id of the synthetic token produced when a grammar
// demands a token past the end of the input.
const EndOfInputID = "END-OF-INPUT"

// Token is one identified token produced by Lex: the class that recognized
// it, the exact text matched, and its source coordinates. Line is whatever
// the caller passed to Lex; Column is 1-based and counted in runes from the
// start of the line.
type Token struct {
	ID      string
	Content string
	Line    uint
	Column  uint
}

// String renders the token the way ast.Leaf does: "id content".
func (t Token) String() string {
	return fmt.Sprintf("%s %q", t.ID, t.Content)
}

// EndOfInput builds the synthetic end-of-input sentinel: id END-OF-INPUT,
// content "EOF", coordinates inherited from the last real token so
// diagnostics referencing it still point somewhere meaningful on the line.
func EndOfInput(line, lastColumn uint) Token {
	return Token{ID: EndOfInputID, Content: "EOF", Line: line, Column: lastColumn}
}

// IsEndOfInput reports whether t is the synthetic sentinel.
func (t Token) IsEndOfInput() bool {
	return t.ID == EndOfInputID
}
