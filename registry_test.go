package abacus

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abacus-lang/go-abacus/ast"
)

func TestRegistryLookupIgnoresCase(t *testing.T) {
	r := NewRegistry()
	r.Register(&ast.Function{Name: "Lerp", MinArity: 3, MaxArity: 3})

	for _, name := range []string{"lerp", "Lerp", "LERP"} {
		fn, ok := r.Get(name)
		require.Truef(t, ok, "lookup %q", name)
		assert.Equal(t, "Lerp", fn.Name)
	}

	_, ok := r.Get("slerp")
	assert.False(t, ok)
}

func TestRegistryNamesKeepRegistrationOrder(t *testing.T) {
	r := NewRegistry()
	r.Register(&ast.Function{Name: "gamma", MinArity: 1, MaxArity: 1})
	r.Register(&ast.Function{Name: "alpha", MinArity: 1, MaxArity: 1})
	r.Register(&ast.Function{Name: "beta", MinArity: 1, MaxArity: 1})

	assert.Equal(t, []string{"gamma", "alpha", "beta"}, r.Names())
}

func TestRegistryRegisterReplaces(t *testing.T) {
	r := NewRegistry()
	r.Register(&ast.Function{Name: "clamp", MinArity: 3, MaxArity: 3})
	r.Register(&ast.Function{Name: "CLAMP", MinArity: 1, MaxArity: 3})

	fn, ok := r.Get("clamp")
	require.True(t, ok)
	assert.Equal(t, 1, fn.MinArity)

	// Replacing does not duplicate the entry or move it.
	assert.Equal(t, []string{"CLAMP"}, r.Names())
}

func TestDefaultRegistry(t *testing.T) {
	r := DefaultRegistry()

	fn, ok := r.Get("if")
	require.True(t, ok)
	assert.Equal(t, 3, fn.MinArity)
	assert.Equal(t, 3, fn.MaxArity)

	fn, ok = r.Get("count")
	require.True(t, ok)
	assert.Equal(t, 0, fn.MinArity)
	assert.Equal(t, ast.Variadic, fn.MaxArity)

	fn, ok = r.Get("round")
	require.True(t, ok)
	assert.Equal(t, "1..2", fn.ArityString())
}

func TestParserUsesCustomRegistry(t *testing.T) {
	r := NewRegistry()
	r.Register(&ast.Function{Name: "double", MinArity: 1, MaxArity: 1})

	p := MakeParser()
	p.SetFunctions(r)

	node, err := p.ParseString("double(21)")
	require.NoError(t, err)
	call, ok := node.(*ast.FunctionCall)
	require.True(t, ok)
	assert.Equal(t, "double", call.Func.Name)

	// The defaults are gone once a custom registry is installed.
	_, err = p.ParseString("min(1, 2)")
	require.Error(t, err)
	perr, ok := err.(*ParseError)
	require.True(t, ok)
	assert.Equal(t, ErrUndefinedFunction, perr.Kind)
	assert.Equal(t, "min", perr.Name)
}
