package gramconfig_test

import (
	"testing"

	"github.com/dekarrin/gramlex/gramconfig"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sumDoc = `
format = "GRAMLEX"
type = "GRAMMAR"
root = "sum"

drop = ["SPACE"]

[[token]]
id = "NUM"
pattern = "[0-9]+"

[[token]]
id = "PLUS"
pattern = "\\+"

[[token]]
id = "SPACE"
pattern = " +"

[def.sum]
kind = "named"
name = "sum"

[def.sum.a]
kind = "and"

[def.sum.a.a]
kind = "token"
token = "NUM"

[def.sum.a.b]
kind = "and"

[def.sum.a.b.a]
kind = "mute"

[def.sum.a.b.a.a]
kind = "token"
token = "PLUS"

[def.sum.a.b.b]
kind = "token"
token = "NUM"
`

func TestLoad_BuildsWorkingParser(t *testing.T) {
	p, err := gramconfig.Load([]byte(sumDoc))
	require.NoError(t, err)

	outcomes, err := p.ParseLine("1 + 2", 1)
	require.NoError(t, err)
	require.Len(t, outcomes, 1)
	assert.True(t, outcomes[0].Success)
}

func TestLoad_BadHeaderFails(t *testing.T) {
	_, err := gramconfig.Load([]byte(`format = "WRONG"
type = "GRAMMAR"
root = "x"
`))
	require.Error(t, err)
}

func TestLoad_UnknownRootFails(t *testing.T) {
	_, err := gramconfig.Load([]byte(`
format = "GRAMLEX"
type = "GRAMMAR"
root = "missing"

[[token]]
id = "A"
pattern = "a"
`))
	require.Error(t, err)
}

func TestLoad_CyclicDefFails(t *testing.T) {
	doc := `
format = "GRAMLEX"
type = "GRAMMAR"
root = "a"

[[token]]
id = "X"
pattern = "x"

[def.a]
kind = "ref"
ref = "b"

[def.b]
kind = "ref"
ref = "a"
`
	_, err := gramconfig.Load([]byte(doc))
	require.Error(t, err)
}
