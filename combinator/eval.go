package combinator

import (
	"github.com/dekarrin/gramlex/ast"
	"github.com/dekarrin/gramlex/gerr"
	"github.com/dekarrin/gramlex/lex"
)

// Result is one candidate produced by evaluating an Expr at a position.
// Err == nil iff the candidate is a success; on success AST holds the
// fragments produced by consuming tokens [start, NewPos), on failure AST is
// empty and NewPos records how far the attempt advanced before failing.
type Result struct {
	NewPos uint
	AST    []ast.Node
	Err    *gerr.ParseError
}

// Candidates is a lazy, pull-driven candidate sequence. yield is
// called once per candidate, in order; returning false from yield tells the
// producer to stop. And, Star and the other combinators pass that stop on to
// the sequences they are consuming, which is how the driver halts all further
// exploration once it has seen a total-coverage success.
type Candidates func(yield func(Result) bool)

// evalCtx carries the per-parse state threaded through every Eval call: the
// token vector being parsed and a furthest-progress map keyed by node
// identity, rather than mutable counters on the Expr tree. A fresh evalCtx
// is created for every top-level ParseLine call, which is what makes one
// compiled grammar safe to use from multiple goroutines concurrently.
type evalCtx struct {
	tokens []lex.Token
	// line/lastCol describe the synthetic end-of-input sentinel location.
	line    uint
	lastCol uint

	maxErrPos map[*exprNode]int
}

func newEvalCtx(tokens []lex.Token, line uint) *evalCtx {
	lastCol := uint(1)
	if len(tokens) > 0 {
		last := tokens[len(tokens)-1]
		lastCol = last.Column + uint(len([]rune(last.Content)))
	}
	return &evalCtx{
		tokens:    tokens,
		line:      line,
		lastCol:   lastCol,
		maxErrPos: make(map[*exprNode]int),
	}
}

// admitFailure applies the furthest-progress filter for
// node n at position p: a failure whose position regresses versus the best
// one n has already surfaced this parse is stale and suppressed.
func (c *evalCtx) admitFailure(n *exprNode, p uint) bool {
	best, ok := c.maxErrPos[n]
	if ok && int(p) < best {
		return false
	}
	c.maxErrPos[n] = int(p)
	return true
}

// actualAt returns the token at pos, or the end-of-input sentinel if pos is
// past the end of the token vector.
func (c *evalCtx) actualAt(pos uint) lex.Token {
	if int(pos) < len(c.tokens) {
		return c.tokens[pos]
	}
	return lex.EndOfInput(c.line, c.lastCol)
}

// filtered wraps upstream so that every failure it produces passes through
// n's furthest-progress filter before being yielded onward. Successes pass
// through unchanged. This is applied at every combinator boundary, which is
// what gives each node in the tree its own "best failure so far".
func filtered(ctx *evalCtx, n *exprNode, upstream Candidates) Candidates {
	return func(yield func(Result) bool) {
		upstream(func(r Result) bool {
			if r.Err != nil && !ctx.admitFailure(n, r.NewPos) {
				return true
			}
			return yield(r)
		})
	}
}

// eval evaluates node n at pos against ctx's token vector, dispatching on
// the node's kind.
func eval(ctx *evalCtx, n *exprNode, pos uint) Candidates {
	switch n.kind {
	case kToken:
		return evalToken(ctx, n, pos)
	case kAnd:
		return filtered(ctx, n, evalAnd(ctx, n, pos))
	case kOr:
		return filtered(ctx, n, evalOr(ctx, n, pos))
	case kEpsilon:
		return func(yield func(Result) bool) {
			yield(Result{NewPos: pos})
		}
	case kMute:
		return filtered(ctx, n, evalMute(ctx, n, pos))
	case kOptional:
		return filtered(ctx, n, evalOptional(ctx, n, pos))
	case kStar:
		return filtered(ctx, n, evalStar(ctx, n, pos))
	case kNamed:
		return filtered(ctx, n, evalNamed(ctx, n, pos))
	default:
		panic("combinator: unknown expr kind")
	}
}

func evalToken(ctx *evalCtx, n *exprNode, pos uint) Candidates {
	return filtered(ctx, n, func(yield func(Result) bool) {
		actual := ctx.actualAt(pos)
		if int(pos) < len(ctx.tokens) && actual.ID == n.tokenID {
			yield(Result{
				NewPos: pos + 1,
				AST:    []ast.Node{ast.Leaf{Token: actual}},
			})
			return
		}
		yield(Result{
			NewPos: pos,
			Err: &gerr.ParseError{
				Expected: n.tokenID,
				Actual: gerr.ActualToken{
					ID:      actual.ID,
					Content: actual.Content,
					Line:    actual.Line,
					Column:  actual.Column,
				},
			},
		})
	})
}

func evalAnd(ctx *evalCtx, n *exprNode, pos uint) Candidates {
	return func(yield func(Result) bool) {
		cont := true
		eval(ctx, n.a, pos)(func(left Result) bool {
			if !cont {
				return false
			}
			if left.Err != nil {
				// left failed: pass the failure through unchanged, do not
				// attempt the right operand.
				cont = yield(left)
				return cont
			}

			eval(ctx, n.b, left.NewPos)(func(right Result) bool {
				if !cont {
					return false
				}
				if right.Err != nil {
					// right failed on a successful left: pass the failure
					// through (position-only; no partial AST is exposed).
					cont = yield(Result{NewPos: right.NewPos, Err: right.Err})
					return cont
				}
				combined := make([]ast.Node, 0, len(left.AST)+len(right.AST))
				combined = append(combined, left.AST...)
				combined = append(combined, right.AST...)
				cont = yield(Result{NewPos: right.NewPos, AST: combined})
				return cont
			})
			return cont
		})
	}
}

func evalOr(ctx *evalCtx, n *exprNode, pos uint) Candidates {
	return func(yield func(Result) bool) {
		cont := true
		eval(ctx, n.a, pos)(func(r Result) bool {
			cont = yield(r)
			return cont
		})
		if !cont {
			return
		}
		eval(ctx, n.b, pos)(func(r Result) bool {
			cont = yield(r)
			return cont
		})
	}
}

func evalMute(ctx *evalCtx, n *exprNode, pos uint) Candidates {
	return func(yield func(Result) bool) {
		eval(ctx, n.a, pos)(func(r Result) bool {
			if r.Err != nil {
				return yield(r)
			}
			return yield(Result{NewPos: r.NewPos})
		})
	}
}

func evalOptional(ctx *evalCtx, n *exprNode, pos uint) Candidates {
	return func(yield func(Result) bool) {
		if !yield(Result{NewPos: pos}) {
			return
		}
		eval(ctx, n.a, pos)(yield)
	}
}

func evalNamed(ctx *evalCtx, n *exprNode, pos uint) Candidates {
	return func(yield func(Result) bool) {
		eval(ctx, n.a, pos)(func(r Result) bool {
			if r.Err != nil {
				return yield(r)
			}
			return yield(Result{
				NewPos: r.NewPos,
				AST:    []ast.Node{ast.Structure{Name: n.name, Children: r.AST}},
			})
		})
	}
}

// evalStar implements Star-node semantics: a zero-match success is
// always yielded first; then the inner expression is re-parsed from the new
// position, accumulating AST across repetitions, one yielded candidate per
// repetition count. A failing inner parse ends that path without
// invalidating the candidates already yielded; the failure itself is still
// yielded (subject to the furthest-progress filter) so that diagnostics can
// report where the repetition got stuck.
func evalStar(ctx *evalCtx, n *exprNode, pos uint) Candidates {
	return func(yield func(Result) bool) {
		if !yield(Result{NewPos: pos}) {
			return
		}

		var step func(curPos uint, acc []ast.Node) bool
		step = func(curPos uint, acc []ast.Node) bool {
			cont := true
			eval(ctx, n.a, curPos)(func(r Result) bool {
				if !cont {
					return false
				}
				if r.Err != nil {
					// this path is exhausted; report the failure, then let
					// other candidates of the inner expression (if any) be
					// tried.
					if !yield(r) {
						cont = false
						return false
					}
					return true
				}
				combined := make([]ast.Node, 0, len(acc)+len(r.AST))
				combined = append(combined, acc...)
				combined = append(combined, r.AST...)

				if !yield(Result{NewPos: r.NewPos, AST: combined}) {
					cont = false
					return false
				}
				if r.NewPos == curPos {
					// zero-length repetition: recursing would loop forever
					// re-deriving the same candidate.
					return true
				}
				if !step(r.NewPos, combined) {
					cont = false
					return false
				}
				return true
			})
			return cont
		}
		step(pos, nil)
	}
}
