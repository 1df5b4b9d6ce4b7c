// Package gramconfig loads gramlex grammars from TOML documents: a token
// table, an optional drop-filter, and a tree of named expression
// definitions built from the combinator primitives.
package gramconfig

import (
	"os"

	"github.com/BurntSushi/toml"

	"github.com/dekarrin/gramlex"
	"github.com/dekarrin/gramlex/combinator"
	"github.com/dekarrin/gramlex/gerr"
	"github.com/dekarrin/gramlex/lex"
)

// Format and Type are the required header values of a gramconfig document,
// checked before the rest of the file is parsed.
const (
	Format = "GRAMLEX"
	Type   = "GRAMMAR"
)

// header is decoded first, from the same bytes as the full Document, so a
// file with the wrong format/type fails fast with a precise error before the
// (possibly large) token and def tables are unmarshaled.
type header struct {
	Format string `toml:"format"`
	Type   string `toml:"type"`
}

// Document is the full shape of a gramconfig TOML file.
type Document struct {
	Format string               `toml:"format"`
	Type   string               `toml:"type"`
	Token  []TokenSpec          `toml:"token"`
	Drop   []string             `toml:"drop"`
	Def    map[string]*ExprSpec `toml:"def"`
	Root   string               `toml:"root"`
}

// TokenSpec is one token class: its id and the regular expression pattern
// that recognizes it.
type TokenSpec struct {
	ID      string `toml:"id"`
	Pattern string `toml:"pattern"`
}

// ExprSpec is one node of a grammar's expression tree as written in TOML.
// Kind selects which combinator primitive the node builds and which other
// fields are meaningful:
//
//	"token"    Token   -> combinator.Token(Token)
//	"and"      A, B    -> combinator.And(a, b)
//	"or"       A, B    -> combinator.Or(a, b)
//	"epsilon"  (none)  -> combinator.Epsilon()
//	"mute"     A       -> combinator.Mute(a)
//	"optional" A       -> combinator.Optional(a)
//	"star"     A       -> combinator.Star(a)
//	"named"    Name, A -> combinator.Named(Name, a)
//	"ref"      Ref     -> the def named Ref, resolved once and shared
type ExprSpec struct {
	Kind  string    `toml:"kind"`
	Token string    `toml:"token"`
	Name  string    `toml:"name"`
	Ref   string    `toml:"ref"`
	A     *ExprSpec `toml:"a"`
	B     *ExprSpec `toml:"b"`
}

// LoadFile reads path and returns a built, validated Parser.
func LoadFile(path string) (*gramlex.Parser, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Load(data)
}

// Load parses data as a gramconfig document and builds the Parser it
// describes.
func Load(data []byte) (*gramlex.Parser, error) {
	var hdr header
	if _, err := toml.Decode(string(data), &hdr); err != nil {
		return nil, gerr.Construction("could not read grammar config header", err)
	}
	if hdr.Format != Format || hdr.Type != Type {
		return nil, gerr.Construction("could not read grammar config header", gerr.ErrBadFormat)
	}

	var doc Document
	if _, err := toml.Decode(string(data), &doc); err != nil {
		return nil, gerr.Construction("could not parse grammar config", err)
	}

	return build(doc)
}

func build(doc Document) (*gramlex.Parser, error) {
	ids := make([]string, len(doc.Token))
	pats := make([]string, len(doc.Token))
	for i, t := range doc.Token {
		ids[i] = t.ID
		pats[i] = t.Pattern
	}

	table, err := lex.NewTable(ids, pats)
	if err != nil {
		return nil, err
	}

	var filter lex.Filter
	if len(doc.Drop) > 0 {
		dropped := make(map[string]bool, len(doc.Drop))
		for _, id := range doc.Drop {
			dropped[id] = true
		}
		filter = func(tok lex.Token) bool { return !dropped[tok.ID] }
	}

	r := &resolver{defs: doc.Def, built: make(map[string]combinator.Expr), visiting: make(map[string]bool)}
	root, err := r.resolveRef(doc.Root)
	if err != nil {
		return nil, err
	}

	return gramlex.BuildGrammar(table, filter, root)
}

// resolver turns an ExprSpec tree into a combinator.Expr tree, memoizing
// resolved defs by name (so "ref" nodes to the same def share one Expr) and
// detecting reference cycles.
type resolver struct {
	defs     map[string]*ExprSpec
	built    map[string]combinator.Expr
	visiting map[string]bool
}

func (r *resolver) resolve(name string, spec *ExprSpec) (combinator.Expr, error) {
	switch spec.Kind {
	case "token":
		return combinator.Token(spec.Token), nil
	case "epsilon":
		return combinator.Epsilon(), nil
	case "and", "or":
		a, err := r.resolveChild(spec.A)
		if err != nil {
			return combinator.Expr{}, err
		}
		b, err := r.resolveChild(spec.B)
		if err != nil {
			return combinator.Expr{}, err
		}
		if spec.Kind == "and" {
			return combinator.And(a, b), nil
		}
		return combinator.Or(a, b), nil
	case "mute", "optional", "star":
		a, err := r.resolveChild(spec.A)
		if err != nil {
			return combinator.Expr{}, err
		}
		switch spec.Kind {
		case "mute":
			return combinator.Mute(a), nil
		case "optional":
			return combinator.Optional(a), nil
		default:
			return combinator.Star(a), nil
		}
	case "named":
		a, err := r.resolveChild(spec.A)
		if err != nil {
			return combinator.Expr{}, err
		}
		return combinator.Named(spec.Name, a), nil
	case "ref":
		return r.resolveRef(spec.Ref)
	default:
		return combinator.Expr{}, gerr.Construction("def " + name + " has unknown expression kind " + spec.Kind)
	}
}

func (r *resolver) resolveChild(spec *ExprSpec) (combinator.Expr, error) {
	if spec == nil {
		return combinator.Expr{}, gerr.Construction("expression node is missing a required child")
	}
	return r.resolve("", spec)
}

func (r *resolver) resolveRef(name string) (combinator.Expr, error) {
	if built, ok := r.built[name]; ok {
		return built, nil
	}
	if r.visiting[name] {
		return combinator.Expr{}, gerr.Construction("def "+name+" is part of a reference cycle", gerr.ErrCyclicDef)
	}
	spec, ok := r.defs[name]
	if !ok {
		return combinator.Expr{}, gerr.Construction("def "+name+" is not declared", gerr.ErrUnknownDef)
	}

	r.visiting[name] = true
	built, err := r.resolve(name, spec)
	delete(r.visiting, name)
	if err != nil {
		return combinator.Expr{}, err
	}

	r.built[name] = built
	return built, nil
}
