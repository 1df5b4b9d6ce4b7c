package gramlex_test

import (
	"testing"

	"github.com/dekarrin/gramlex"
	"github.com/dekarrin/gramlex/combinator"
	"github.com/dekarrin/gramlex/lex"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func digitsTable(t *testing.T) lex.Table {
	t.Helper()
	tbl, err := lex.NewTable(
		[]string{"NUM", "PLUS", "SPACE"},
		[]string{`[0-9]+`, `\+`, ` +`},
	)
	require.NoError(t, err)
	return tbl
}

func noSpace(tok lex.Token) bool { return tok.ID != "SPACE" }

func TestBuildGrammar_UnknownTokenFails(t *testing.T) {
	tbl := digitsTable(t)
	_, err := gramlex.BuildGrammar(tbl, noSpace, combinator.Token("MINUS"))
	require.Error(t, err)
}

func TestParseLine_TotalCoverageSuccess(t *testing.T) {
	tbl := digitsTable(t)
	root := combinator.Seq(combinator.Token("NUM"), combinator.Mute(combinator.Token("PLUS")), combinator.Token("NUM"))

	p, err := gramlex.BuildGrammar(tbl, noSpace, root)
	require.NoError(t, err)

	outcomes, err := p.ParseLine("1 + 2", 1)
	require.NoError(t, err)
	require.Len(t, outcomes, 1)
	assert.True(t, outcomes[0].Success)
	assert.Len(t, outcomes[0].AST, 2) // PLUS was muted
}

func TestParseLine_FurthestProgressFailures(t *testing.T) {
	tbl := digitsTable(t)
	root := combinator.Seq(combinator.Token("NUM"), combinator.Mute(combinator.Token("PLUS")), combinator.Token("NUM"))

	p, err := gramlex.BuildGrammar(tbl, noSpace, root)
	require.NoError(t, err)

	outcomes, err := p.ParseLine("1 +", 1)
	require.NoError(t, err)
	require.NotEmpty(t, outcomes)

	maxPos := outcomes[0].NewPos
	for _, o := range outcomes {
		assert.False(t, o.Success)
		assert.Equal(t, maxPos, o.NewPos)
	}
}

func TestParseLine_LexErrorPropagates(t *testing.T) {
	tbl := digitsTable(t)
	root := combinator.Token("NUM")
	p, err := gramlex.BuildGrammar(tbl, noSpace, root)
	require.NoError(t, err)

	_, err = p.ParseLine("1 @ 2", 1)
	require.Error(t, err)
}
