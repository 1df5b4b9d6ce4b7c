package lex

import (
	"regexp"

	"github.com/dekarrin/gramlex/gerr"
)

// Class is one entry of a Table: a token id paired with the compiled regular
// expression that recognizes it. Patterns are always matched anchored at
// position 0 of the remaining input.
type Class struct {
	ID      string
	Pattern *regexp.Regexp
}

// Table is an ordered token table. Order is semantically
// significant: Lex tries classes in table order and the first one whose
// pattern matches at the cursor wins, so the embedder is responsible for
// placing longer or more-specific patterns (keywords) before shorter
// prefixes (a general identifier class).
type Table struct {
	classes []Class
	byID    map[string]int
}

// NewTable compiles pat, for pattern, as a regular expression and builds an
// ordered Table from them. Each entry's index in the ids/patterns slices
// gives its priority. A pattern that is not already anchored at the start is
// anchored implicitly by prefixing "^" — gramlex uses Go's RE2-based
// regexp package throughout, so "anchored" means "matches starting at
// position 0 of the unconsumed suffix", not "matches the whole suffix".
func NewTable(ids []string, patterns []string) (Table, error) {
	if len(ids) != len(patterns) {
		return Table{}, gerr.Construction("token table ids and patterns must be the same length")
	}

	t := Table{byID: make(map[string]int, len(ids))}

	var compileErrs []error
	for i, id := range ids {
		pat := patterns[i]
		if len(pat) == 0 || pat[0] != '^' {
			pat = "^" + pat
		}

		re, err := regexp.Compile(pat)
		if err != nil {
			compileErrs = append(compileErrs, gerr.Construction(
				"token "+id+" has invalid pattern", err))
			continue
		}

		if _, exists := t.byID[id]; exists {
			compileErrs = append(compileErrs, gerr.Construction("duplicate token id "+id))
			continue
		}

		t.byID[id] = len(t.classes)
		t.classes = append(t.classes, Class{ID: id, Pattern: re})
	}

	if len(compileErrs) > 0 {
		return Table{}, gerr.Construction("could not build token table", compileErrs...)
	}

	return t, nil
}

// Has reports whether id is a declared class of t.
func (t Table) Has(id string) bool {
	_, ok := t.byID[id]
	return ok
}

// Classes returns the table's classes in priority order. The returned slice
// must not be mutated.
func (t Table) Classes() []Class {
	return t.classes
}

// Len returns the number of classes in the table.
func (t Table) Len() int {
	return len(t.classes)
}

// Filter decides whether an identified token should survive lexing. Lex
// applies the filter after computing positions, so columns reported for
// surviving tokens always refer to their original position in the source
// line.
type Filter func(Token) bool
