// Package combinator implements gramlex's parser expression algebra and
// evaluator: the eight composable primitives grammars are built from, and
// the backtracking, lazy-candidate-sequence execution model that walks them
// against a token vector.
package combinator

import (
	"fmt"
	"sort"
	"sync"
)

type kind int

const (
	kToken kind = iota
	kAnd
	kOr
	kEpsilon
	kMute
	kOptional
	kStar
	kNamed
)

// exprNode is the immutable representation of one grammar term. Expr wraps a
// *exprNode so every Expr value built from the same constructor call shares
// one node identity — exprNode pointers are the keys evalCtx uses for
// furthest-progress tracking (see eval.go), which is what lets the tree
// itself stay free of mutable state and safe to share across concurrent
// parses.
type exprNode struct {
	kind kind

	tokenID string // kToken
	name    string // kNamed
	a, b    *exprNode // kAnd, kOr: both; kMute/kOptional/kStar/kNamed: a only

	refsOnce sync.Once
	refs     []string
}

// Expr is a node in the parser expression tree. Expr values are immutable
// and may be freely shared and reused across grammars and parses.
type Expr struct {
	n *exprNode
}

// Exprlike is either an Expr or a string (coerced to Token(id)). It exists
// only to document the accepted argument types of the variadic
// constructors below; Go has no sum type; the type switch lives in toExpr.
type Exprlike = any

// toExpr coerces x, which must be an Expr or a string, to an Expr. A bare
// string in expression position is implicitly Token(that string). Any other
// type is a grammar-authoring bug and panics immediately at
// grammar-construction time rather than being smuggled through as an
// untyped union.
func toExpr(x Exprlike) Expr {
	switch v := x.(type) {
	case Expr:
		return v
	case string:
		return Token(v)
	default:
		panic(fmt.Sprintf("combinator: %T is not an Expr or a string", x))
	}
}

// Token consumes one token whose id equals id and emits a Leaf. It fails if
// the current token's id differs, or if the cursor is past end-of-input.
func Token(id string) Expr {
	return Expr{n: &exprNode{kind: kToken, tokenID: id}}
}

// And parses a, then parses b at the position a's candidate left off at,
// for every successful candidate of a. AST fragments are concatenated in
// order.
func And(a, b Expr) Expr {
	return Expr{n: &exprNode{kind: kAnd, a: a.n, b: b.n}}
}

// Or tries a and b independently from the same start position and yields
// every candidate of a, in order, followed by every candidate of b. This
// ordering is part of Or's contract: since the driver picks the first
// total-coverage success it sees, operand order in Or is visible to grammar
// authors and must not be reordered by an implementation.
func Or(a, b Expr) Expr {
	return Expr{n: &exprNode{kind: kOr, a: a.n, b: b.n}}
}

// Epsilon always succeeds, consumes no tokens, and emits no AST.
func Epsilon() Expr {
	return Expr{n: &exprNode{kind: kEpsilon}}
}

// Mute parses x and discards the AST fragments of each successful
// candidate, while leaving its consumed position and failures unchanged.
func Mute(x Exprlike) Expr {
	return Expr{n: &exprNode{kind: kMute, a: toExpr(x).n}}
}

// Optional first yields a zero-consumption success, then yields every
// candidate of x. It is semantically equivalent to Or(Epsilon(), x).
func Optional(x Exprlike) Expr {
	return Expr{n: &exprNode{kind: kOptional, a: toExpr(x).n}}
}

// Star first yields a zero-consumption success, then repeatedly re-parses
// x, yielding one candidate per cumulative repetition with AST accumulated
// across repetitions. Star's zero-match candidate is always yielded first;
// a greedy-looking grammar built as And(Star(x), y) may therefore accept
// the empty repetition of x before y ever gets a chance to see a longer
// match of x — this is intended behavior, not a bug.
func Star(x Exprlike) Expr {
	return Expr{n: &exprNode{kind: kStar, a: toExpr(x).n}}
}

// Named parses x and wraps the AST fragments of each successful candidate
// in a single Structure node tagged name.
func Named(name string, x Exprlike) Expr {
	return Expr{n: &exprNode{kind: kNamed, name: name, a: toExpr(x).n}}
}

// Seq is the n-ary convenience for And: Seq(a, b, c) == And(And(a, b), c).
// Seq panics if given zero operands — an empty sequence is a
// grammar-authoring error caught at grammar-construction time, not a
// runtime parse failure.
func Seq(items ...Exprlike) Expr {
	if len(items) == 0 {
		panic("combinator: Seq requires at least one operand")
	}
	result := toExpr(items[0])
	for _, it := range items[1:] {
		result = And(result, toExpr(it))
	}
	return result
}

// Alt is the n-ary convenience for Or: Alt(a, b, c) == Or(Or(a, b), c).
// Alt panics if given zero operands, for the same reason as Seq.
func Alt(items ...Exprlike) Expr {
	if len(items) == 0 {
		panic("combinator: Alt requires at least one operand")
	}
	result := toExpr(items[0])
	for _, it := range items[1:] {
		result = Or(result, toExpr(it))
	}
	return result
}

// ReferencedTokens returns every distinct token id referenced by a Token
// node anywhere in e, sorted, used by grammar construction to validate that
// every referenced id is declared. The result is computed once per node and
// cached, since the tree is immutable.
func (e Expr) ReferencedTokens() []string {
	e.n.refsOnce.Do(func() {
		seen := map[string]bool{}
		collectRefs(e.n, seen)
		refs := make([]string, 0, len(seen))
		for id := range seen {
			refs = append(refs, id)
		}
		sort.Strings(refs)
		e.n.refs = refs
	})
	return e.n.refs
}

func collectRefs(n *exprNode, seen map[string]bool) {
	if n == nil {
		return
	}
	switch n.kind {
	case kToken:
		seen[n.tokenID] = true
	case kAnd, kOr:
		collectRefs(n.a, seen)
		collectRefs(n.b, seen)
	case kMute, kOptional, kStar, kNamed:
		collectRefs(n.a, seen)
	case kEpsilon:
	}
}
