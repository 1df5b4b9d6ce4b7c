package graphbind_test

import (
	"testing"

	"github.com/dekarrin/gramlex/ast"
	"github.com/dekarrin/gramlex/example/graphbind"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func structureNamed(t *testing.T, nodes []ast.Node, name string) ast.Structure {
	t.Helper()
	for _, n := range nodes {
		if s, ok := n.(ast.Structure); ok && s.Name == name {
			return s
		}
	}
	t.Fatalf("no structure named %q among %d top-level nodes", name, len(nodes))
	return ast.Structure{}
}

func leafContent(t *testing.T, n ast.Node) string {
	t.Helper()
	l, ok := n.(ast.Leaf)
	require.True(t, ok, "expected a Leaf, got %T", n)
	return l.Token.Content
}

// Scenario 1: "//+ a->c;" -> Leaf "//+" then Structure "->" with children
// Name "a", Name "c".
func TestScenario1_SimpleArrow(t *testing.T) {
	p, err := graphbind.New()
	require.NoError(t, err)

	outcomes, err := p.ParseLine(`//+ a->c;`, 1)
	require.NoError(t, err)
	require.Len(t, outcomes, 1)
	require.True(t, outcomes[0].Success)

	nodes := outcomes[0].AST
	require.Len(t, nodes, 2)
	assert.Equal(t, graphbind.Marker, nodes[0].(ast.Leaf).Token.ID)

	arrow := structureNamed(t, nodes, "->")
	require.Len(t, arrow.Children, 2)
	assert.Equal(t, "a", leafContent(t, arrow.Children[0]))
	assert.Equal(t, "c", leafContent(t, arrow.Children[1]))
}

// Scenario 2: "//+ a->*;" -> Structure "->" children Name "a", "*" "*".
func TestScenario2_StarTarget(t *testing.T) {
	p, err := graphbind.New()
	require.NoError(t, err)

	outcomes, err := p.ParseLine(`//+ a->*;`, 1)
	require.NoError(t, err)
	require.Len(t, outcomes, 1)
	require.True(t, outcomes[0].Success)

	arrow := structureNamed(t, outcomes[0].AST, "->")
	require.Len(t, arrow.Children, 2)
	assert.Equal(t, "a", leafContent(t, arrow.Children[0]))
	assert.Equal(t, "*", leafContent(t, arrow.Children[1]))
}

// Scenario 3: "//+ a->{b,c};" -> Structure "->" children Name a, b, c.
func TestScenario3_BraceList(t *testing.T) {
	p, err := graphbind.New()
	require.NoError(t, err)

	outcomes, err := p.ParseLine(`//+ a->{b,c};`, 1)
	require.NoError(t, err)
	require.Len(t, outcomes, 1)
	require.True(t, outcomes[0].Success)

	arrow := structureNamed(t, outcomes[0].AST, "->")
	require.Len(t, arrow.Children, 3)
	assert.Equal(t, "a", leafContent(t, arrow.Children[0]))
	assert.Equal(t, "b", leafContent(t, arrow.Children[1]))
	assert.Equal(t, "c", leafContent(t, arrow.Children[2]))
}

// Scenario 4: "//+ a@>c;" -> Structure named "@>".
func TestScenario4_AtArrow(t *testing.T) {
	p, err := graphbind.New()
	require.NoError(t, err)

	outcomes, err := p.ParseLine(`//+ a@>c;`, 1)
	require.NoError(t, err)
	require.Len(t, outcomes, 1)
	require.True(t, outcomes[0].Success)

	arrow := structureNamed(t, outcomes[0].AST, "@>")
	require.Len(t, arrow.Children, 2)
}

// Scenario 5: chained bindings -> four "->" Structures in order.
func TestScenario5_ChainedBindings(t *testing.T) {
	p, err := graphbind.New()
	require.NoError(t, err)

	outcomes, err := p.ParseLine(`//+ a->b;b->c;c->d;d->e;`, 1)
	require.NoError(t, err)
	require.Len(t, outcomes, 1)
	require.True(t, outcomes[0].Success)

	nodes := outcomes[0].AST
	require.Len(t, nodes, 5) // marker + 4 structures

	wantPairs := [][2]string{{"a", "b"}, {"b", "c"}, {"c", "d"}, {"d", "e"}}
	for i, want := range wantPairs {
		s := nodes[i+1].(ast.Structure)
		assert.Equal(t, "->", s.Name)
		require.Len(t, s.Children, 2)
		assert.Equal(t, want[0], leafContent(t, s.Children[0]))
		assert.Equal(t, want[1], leafContent(t, s.Children[1]))
	}
}

// Scenario 6: missing trailing ";" -> failure, furthest-progress diagnostics
// expecting ";".
func TestScenario6_MissingSemicolon(t *testing.T) {
	p, err := graphbind.New()
	require.NoError(t, err)

	outcomes, err := p.ParseLine(`//+ a->c`, 1)
	require.NoError(t, err)
	require.NotEmpty(t, outcomes)

	foundSemiExpectation := false
	for _, o := range outcomes {
		require.False(t, o.Success)
		require.NotNil(t, o.Err)
		if o.Err.Expected == graphbind.Semi {
			foundSemiExpectation = true
		}
	}
	assert.True(t, foundSemiExpectation)
}
