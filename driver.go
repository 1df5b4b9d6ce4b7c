package gramlex

import (
	"github.com/dekarrin/gramlex/combinator"
	"github.com/dekarrin/gramlex/gerr"
	"github.com/dekarrin/gramlex/lex"
)

// evalTopLevel runs expr over tokens from position 0, returning the first
// total-coverage success if one is produced, otherwise collecting every
// failure sharing the maximum NewPos seen.
func evalTopLevel(expr combinator.Expr, tokens []lex.Token, lineNumber, tokenCount uint) []Outcome {
	var success *Outcome
	var failures []Outcome
	maxFailPos := uint(0)
	sawFailure := false

	combinator.Evaluate(expr, tokens, lineNumber)(func(r combinator.Result) bool {
		if r.Err == nil {
			if r.NewPos == tokenCount {
				success = &Outcome{Success: true, AST: r.AST, NewPos: r.NewPos}
				return false // total coverage: stop pulling more candidates
			}
			return true
		}

		if !sawFailure || r.NewPos > maxFailPos {
			maxFailPos = r.NewPos
			failures = failures[:0]
			sawFailure = true
		}
		if r.NewPos == maxFailPos {
			failures = append(failures, Outcome{
				Success: false,
				NewPos:  r.NewPos,
				Err:     copyParseErr(r.Err),
			})
		}
		return true
	})

	if success != nil {
		return []Outcome{*success}
	}
	return failures
}

func copyParseErr(e *gerr.ParseError) *gerr.ParseError {
	if e == nil {
		return nil
	}
	cp := *e
	return &cp
}
