// Package lex implements gramlex's token table and regex-driven lexer: an
// ordered, first-match-wins table of (id, anchored regex) pairs that turns
// one line of input into a sequence of identified tokens.
package lex

import (
	"unicode/utf8"

	"github.com/dekarrin/gramlex/gerr"
)

// Lex tokenizes one line of input against table, in order, first-match-wins,
// and applies filter (if non-nil) afterward. lineNumber is supplied by the
// caller and stamped onto every produced token; column is 1-based and
// computed from the cumulative rune length of prior matches before
// filtering removes any tokens, so that surviving tokens keep their
// original-source column.
//
// Lex fails if no class matches at the cursor, or if a class matches a
// zero-length string (which would otherwise loop forever).
func Lex(table Table, filter Filter, line string, lineNumber uint) ([]Token, error) {
	var all []Token

	cursor := 0   // byte offset into line
	column := uint(1)

	for cursor < len(line) {
		remaining := line[cursor:]

		var matched *Class
		var matchText string

		for i := range table.classes {
			loc := table.classes[i].Pattern.FindStringIndex(remaining)
			if loc == nil || loc[0] != 0 {
				continue
			}
			matched = &table.classes[i]
			matchText = remaining[:loc[1]]
			break
		}

		if matched == nil {
			return nil, gerr.Lex("no token matches remaining input", lineNumber, column, gerr.ErrNoMatch)
		}
		if len(matchText) == 0 {
			return nil, gerr.Lex("token class "+matched.ID+" matched a zero-length string", lineNumber, column, gerr.ErrZeroLengthScan)
		}

		all = append(all, Token{
			ID:      matched.ID,
			Content: matchText,
			Line:    lineNumber,
			Column:  column,
		})

		cursor += len(matchText)
		column += uint(utf8.RuneCountInString(matchText))
	}

	if filter == nil {
		return all, nil
	}

	filtered := all[:0:0]
	for _, tok := range all {
		if filter(tok) {
			filtered = append(filtered, tok)
		}
	}
	return filtered, nil
}
