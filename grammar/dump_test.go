package grammar

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDumpRendersOperatorsAndStates(t *testing.T) {
	table := NewProductionTable[string, string]()
	_, err := table.AddPatternMatch("con", "const", 0, &noopCallback{n: 0, variadic: true}, nil)
	require.NoError(t, err)
	_, err = table.AddClosure("reg", "con", 1, &noopCallback{n: 1, variadic: true})
	require.NoError(t, err)
	_, err = table.AddPatternMatch("reg", "plus", 1, &noopCallback{n: 2, variadic: true}, []string{"reg", "reg"})
	require.NoError(t, err)
	require.NoError(t, table.GenerateStates())

	var buf strings.Builder
	require.NoError(t, table.Dump(&buf, "xml", map[string]string{"name": "demo"}))

	out := buf.String()
	assert.Contains(t, out, `name="demo"`)
	assert.Contains(t, out, `operator nodeType="const" arity="0"`)
	assert.Contains(t, out, `operator nodeType="plus" arity="2"`)
	assert.Contains(t, out, `state number="1"`)
	assert.Contains(t, out, `pattern target="con" cost="0"`)
	assert.Contains(t, out, `closure target="reg" cost="1"`)
}

func TestDumpRequiresGeneration(t *testing.T) {
	table := NewProductionTable[string, string]()
	var buf strings.Builder
	err := table.Dump(&buf, "xml", nil)
	assert.Error(t, err)
}

func TestDumpRejectsUnsupportedFormat(t *testing.T) {
	table := NewProductionTable[string, string]()
	_, err := table.AddPatternMatch("con", "const", 0, &noopCallback{n: 0, variadic: true}, nil)
	require.NoError(t, err)
	require.NoError(t, table.GenerateStates())

	var buf strings.Builder
	err = table.Dump(&buf, "json", nil)
	assert.Error(t, err)
	assert.ErrorIs(t, err, ErrUnsupportedFormat)
}

func TestDumpMarksVariadicSelfLoop(t *testing.T) {
	table := NewProductionTable[string, string]()
	_, err := table.AddPatternMatch("con", "const", 0, &noopCallback{n: 0, variadic: true}, nil)
	require.NoError(t, err)
	_, err = table.AddVarArgsPatternMatch("block", "seq", 0, &noopCallback{n: 0, variadic: true}, []string{"con"})
	require.NoError(t, err)
	require.NoError(t, table.GenerateStates())

	var buf strings.Builder
	require.NoError(t, table.Dump(&buf, "xml", nil))
	assert.Contains(t, buf.String(), "<variadic/>")
}
