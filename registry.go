package abacus

import (
	"strings"

	orderedmap "github.com/wk8/go-ordered-map/v2"

	"github.com/abacus-lang/go-abacus/ast"
)

// Registry maps function names to their descriptors.  Lookup is
// case-insensitive; Names lists functions in registration order so listings
// stay deterministic.
type Registry struct {
	funcs *orderedmap.OrderedMap[string, *ast.Function]
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{funcs: orderedmap.New[string, *ast.Function]()}
}

// Register adds or replaces a function.  The registered name keeps its
// original casing for listings; lookup ignores case.
func (r *Registry) Register(fn *ast.Function) {
	r.funcs.Set(strings.ToLower(fn.Name), fn)
}

// Get looks a function up by name.
func (r *Registry) Get(name string) (*ast.Function, bool) {
	return r.funcs.Get(strings.ToLower(name))
}

// Names returns the registered function names in registration order.
func (r *Registry) Names() []string {
	names := make([]string, 0, r.funcs.Len())
	for pair := r.funcs.Oldest(); pair != nil; pair = pair.Next() {
		names = append(names, pair.Value.Name)
	}
	return names
}

// DefaultRegistry creates a registry pre-seeded with the standard functions.
func DefaultRegistry() *Registry {
	r := NewRegistry()
	for _, fn := range []*ast.Function{
		{Name: "if", MinArity: 3, MaxArity: 3},
		{Name: "not", MinArity: 1, MaxArity: 1},
		{Name: "abs", MinArity: 1, MaxArity: 1},
		{Name: "min", MinArity: 1, MaxArity: ast.Variadic},
		{Name: "max", MinArity: 1, MaxArity: ast.Variadic},
		{Name: "sum", MinArity: 1, MaxArity: ast.Variadic},
		{Name: "avg", MinArity: 1, MaxArity: ast.Variadic},
		{Name: "count", MinArity: 0, MaxArity: ast.Variadic},
		{Name: "round", MinArity: 1, MaxArity: 2},
		{Name: "roundup", MinArity: 1, MaxArity: 2},
		{Name: "rounddown", MinArity: 1, MaxArity: 2},
		{Name: "concat", MinArity: 1, MaxArity: ast.Variadic},
	} {
		r.Register(fn)
	}
	return r
}
