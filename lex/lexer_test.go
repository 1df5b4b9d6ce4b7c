package lex_test

import (
	"testing"

	"github.com/dekarrin/gramlex/lex"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustTable(t *testing.T, ids, pats []string) lex.Table {
	t.Helper()
	tbl, err := lex.NewTable(ids, pats)
	require.NoError(t, err)
	return tbl
}

func TestLex_PositionTracking(t *testing.T) {
	tbl := mustTable(t, []string{"WORD", "SPACE"}, []string{`[a-z]+`, ` +`})

	toks, err := lex.Lex(tbl, nil, "foo bar baz", 1)
	require.NoError(t, err)

	var total int
	for _, tok := range toks {
		total += len(tok.Content)
	}
	assert.Equal(t, len("foo bar baz"), total)
}

func TestLex_FirstMatchWins(t *testing.T) {
	tbl := mustTable(t, []string{"KEYWORD", "IDENT"}, []string{`if`, `[a-z]+`})
	toks, err := lex.Lex(tbl, nil, "if", 1)
	require.NoError(t, err)
	require.Len(t, toks, 1)
	assert.Equal(t, "KEYWORD", toks[0].ID)

	// reordering changes which id wins
	tbl2 := mustTable(t, []string{"IDENT", "KEYWORD"}, []string{`[a-z]+`, `if`})
	toks2, err := lex.Lex(tbl2, nil, "if", 1)
	require.NoError(t, err)
	require.Len(t, toks2, 1)
	assert.Equal(t, "IDENT", toks2[0].ID)
}

func TestLex_ColumnsSurviveFiltering(t *testing.T) {
	tbl := mustTable(t, []string{"WORD", "SPACE"}, []string{`[a-z]+`, ` +`})

	filter := func(tok lex.Token) bool {
		return tok.ID != "SPACE"
	}

	toks, err := lex.Lex(tbl, filter, "foo bar", 1)
	require.NoError(t, err)
	require.Len(t, toks, 2)
	assert.Equal(t, uint(1), toks[0].Column)
	assert.Equal(t, uint(5), toks[1].Column) // "bar" starts after "foo "
}

func TestLex_NoMatchFails(t *testing.T) {
	tbl := mustTable(t, []string{"WORD"}, []string{`[a-z]+`})
	_, err := lex.Lex(tbl, nil, "123", 1)
	require.Error(t, err)
}

func TestLex_ZeroLengthMatchFails(t *testing.T) {
	tbl := mustTable(t, []string{"MAYBE"}, []string{`x*`})
	_, err := lex.Lex(tbl, nil, "yyy", 1)
	require.Error(t, err)
}

func TestEndOfInput(t *testing.T) {
	tok := lex.EndOfInput(3, 7)
	assert.True(t, tok.IsEndOfInput())
	assert.Equal(t, lex.EndOfInputID, tok.ID)
	assert.Equal(t, "EOF", tok.Content)
	assert.Equal(t, uint(3), tok.Line)
	assert.Equal(t, uint(7), tok.Column)
}
