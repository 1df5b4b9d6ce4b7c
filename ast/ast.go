// Package ast defines gramlex's abstract syntax tree nodes: a closed
// two-variant tagged union, Leaf (one identified token) and Structure (a
// named, ordered group of children produced by combinator.Named).
package ast

import (
	"fmt"
	"strings"

	"github.com/dekarrin/gramlex/lex"
)

// Node is the closed AST interface. The only implementations are Leaf and
// Structure; the unexported marker method keeps it that way.
type Node interface {
	astNode()

	// String renders a human-readable, indented dump of the node. This is a
	// diagnostic aid, not a serialization format.
	String() string
}

// Leaf owns exactly one identified token and has no children.
type Leaf struct {
	Token lex.Token
}

func (Leaf) astNode() {}

// String prints "id content".
func (l Leaf) String() string {
	return fmt.Sprintf("%s %q", l.Token.ID, l.Token.Content)
}

// Structure is a named, ordered group of child nodes, produced by
// combinator.Named. Name is exactly the name given to the Named operator
// that produced the Structure; Children reflects left-to-right consumption
// order in the grammar.
type Structure struct {
	Name     string
	Children []Node
}

func (Structure) astNode() {}

// String prints the structure's name followed by its children, each
// indented two spaces deeper than their parent.
func (s Structure) String() string {
	var sb strings.Builder
	sb.WriteString(s.Name)

	const childIndent = "  "
	for _, c := range s.Children {
		sb.WriteRune('\n')
		sb.WriteString(childIndent)
		sb.WriteString(spaceIndentNewlines(c.String(), len(childIndent)))
	}

	return sb.String()
}

// spaceIndentNewlines pads every embedded newline in str with amount spaces
// so a multi-line child's String() nests visually under its parent.
func spaceIndentNewlines(str string, amount int) string {
	if strings.Contains(str, "\n") {
		pad := strings.Repeat(" ", amount)
		str = strings.ReplaceAll(str, "\n", "\n"+pad)
	}
	return str
}

// Print renders nodes top-level-list style, one per line, matching how a
// driver presents the ordered AST fragments of a successful parse.
func Print(nodes []Node) string {
	var sb strings.Builder
	for i, n := range nodes {
		if i > 0 {
			sb.WriteRune('\n')
		}
		sb.WriteString(n.String())
	}
	return sb.String()
}
