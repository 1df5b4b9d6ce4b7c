package combinator

import "github.com/dekarrin/gramlex/lex"

// Evaluate runs root against tokens, stamped with lineNumber for any
// end-of-input sentinel it needs to synthesize, and returns the lazy
// candidate sequence produced at offset 0. It allocates one fresh
// furthest-progress context for this evaluation, so root can be reused
// safely across concurrent calls.
func Evaluate(root Expr, tokens []lex.Token, lineNumber uint) Candidates {
	ctx := newEvalCtx(tokens, lineNumber)
	return eval(ctx, root.n, 0)
}
