package combinator_test

import (
	"testing"

	"github.com/dekarrin/gramlex/combinator"
	"github.com/dekarrin/gramlex/lex"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func toks(ids ...string) []lex.Token {
	out := make([]lex.Token, len(ids))
	for i, id := range ids {
		out[i] = lex.Token{ID: id, Content: id, Line: 1, Column: uint(i + 1)}
	}
	return out
}

func collect(seq combinator.Candidates) []combinator.Result {
	var out []combinator.Result
	seq(func(r combinator.Result) bool {
		out = append(out, r)
		return true
	})
	return out
}

func successes(rs []combinator.Result) []combinator.Result {
	var out []combinator.Result
	for _, r := range rs {
		if r.Err == nil {
			out = append(out, r)
		}
	}
	return out
}

func failures(rs []combinator.Result) []combinator.Result {
	var out []combinator.Result
	for _, r := range rs {
		if r.Err != nil {
			out = append(out, r)
		}
	}
	return out
}

func TestToken_SuccessAndFailure(t *testing.T) {
	input := toks("A", "B")

	results := collect(combinator.Evaluate(combinator.Token("A"), input, 1))
	require.Len(t, results, 1)
	assert.Nil(t, results[0].Err)
	assert.Equal(t, uint(1), results[0].NewPos)

	results = collect(combinator.Evaluate(combinator.Token("B"), input, 1))
	require.Len(t, results, 1)
	require.NotNil(t, results[0].Err)
	assert.Equal(t, "B", results[0].Err.Expected)
	assert.Equal(t, "A", results[0].Err.Actual.ID)
}

func TestToken_EndOfInput(t *testing.T) {
	results := collect(combinator.Evaluate(combinator.Token("A"), nil, 5))
	require.Len(t, results, 1)
	require.NotNil(t, results[0].Err)
	assert.True(t, results[0].Err.Actual.ID == lex.EndOfInputID)
}

func TestAndWithEpsilonIsIdentity(t *testing.T) {
	input := toks("A")

	left := collect(combinator.Evaluate(combinator.And(combinator.Epsilon(), combinator.Token("A")), input, 1))
	right := collect(combinator.Evaluate(combinator.And(combinator.Token("A"), combinator.Epsilon()), input, 1))
	plain := collect(combinator.Evaluate(combinator.Token("A"), input, 1))

	require.Len(t, left, 1)
	require.Len(t, right, 1)
	require.Len(t, plain, 1)
	assert.Equal(t, plain[0].NewPos, left[0].NewPos)
	assert.Equal(t, plain[0].NewPos, right[0].NewPos)
	assert.Len(t, left[0].AST, 1)
	assert.Len(t, right[0].AST, 1)
}

func TestOr_DuplicatesNotDeduped(t *testing.T) {
	input := toks("A")
	expr := combinator.Or(combinator.Token("A"), combinator.Token("A"))

	results := successes(collect(combinator.Evaluate(expr, input, 1)))
	assert.Len(t, results, 2)
}

func TestOptional_EquivalentToOrEpsilon(t *testing.T) {
	input := toks("A")

	opt := collect(combinator.Evaluate(combinator.Optional(combinator.Token("A")), input, 1))
	orEps := collect(combinator.Evaluate(combinator.Or(combinator.Epsilon(), combinator.Token("A")), input, 1))

	require.Len(t, opt, 2)
	require.Len(t, orEps, 2)
	for i := range opt {
		assert.Equal(t, orEps[i].NewPos, opt[i].NewPos)
		assert.Equal(t, orEps[i].Err == nil, opt[i].Err == nil)
	}
}

func TestMute_SamePositionsEmptyAST(t *testing.T) {
	input := toks("A")

	plain := collect(combinator.Evaluate(combinator.Token("A"), input, 1))
	muted := collect(combinator.Evaluate(combinator.Mute(combinator.Token("A")), input, 1))

	require.Len(t, plain, 1)
	require.Len(t, muted, 1)
	assert.Equal(t, plain[0].NewPos, muted[0].NewPos)
	assert.Empty(t, muted[0].AST)
}

func TestNamed_WrapsExactlyOneStructure(t *testing.T) {
	input := toks("A", "B")
	inner := combinator.Seq(combinator.Token("A"), combinator.Token("B"))
	named := combinator.Named("pair", inner)

	innerResults := successes(collect(combinator.Evaluate(inner, input, 1)))
	namedResults := successes(collect(combinator.Evaluate(named, input, 1)))

	require.Len(t, innerResults, 1)
	require.Len(t, namedResults, 1)
	require.Len(t, namedResults[0].AST, 1)

	structure, ok := namedResults[0].AST[0].(interface{ String() string })
	require.True(t, ok)
	_ = structure
}

func TestStar_AccumulatesAcrossRepetitions(t *testing.T) {
	input := toks("A", "A", "A")
	expr := combinator.Star(combinator.Token("A"))

	results := successes(collect(combinator.Evaluate(expr, input, 1)))
	require.Len(t, results, 4) // 0, 1, 2, 3 repetitions

	assert.Equal(t, uint(0), results[0].NewPos)
	assert.Equal(t, uint(1), results[1].NewPos)
	assert.Equal(t, uint(2), results[2].NewPos)
	assert.Equal(t, uint(3), results[3].NewPos)
	assert.Len(t, results[3].AST, 3)
}

func TestFurthestProgressFiltering(t *testing.T) {
	// A B C required; input only has A, so the B-token node should fail at
	// position 1 and that should be the single furthest-progress failure
	// when this grammar is driven directly (no duplicate from re-tries).
	input := toks("A")
	expr := combinator.Seq(combinator.Token("A"), combinator.Token("B"), combinator.Token("C"))

	results := failures(collect(combinator.Evaluate(expr, input, 1)))
	require.NotEmpty(t, results)
	for _, r := range results {
		assert.Equal(t, uint(1), r.NewPos)
	}
}

func TestReferencedTokens(t *testing.T) {
	expr := combinator.Seq("A", combinator.Named("n", combinator.Alt("B", "C")), combinator.Star("A"))
	assert.Equal(t, []string{"A", "B", "C"}, expr.ReferencedTokens())
}

func TestSeqAndAltPanicOnEmpty(t *testing.T) {
	assert.Panics(t, func() { combinator.Seq() })
	assert.Panics(t, func() { combinator.Alt() })
}
