/*
Copyright 2019 The go-abacus Authors. All rights reserved.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

// Package abacus parses a small expression language into an abstract syntax
// tree.  It validates shape and order (operator precedence, associativity,
// function-call arity, bracket and parenthesis balancing) and never
// evaluates anything.
package abacus

import (
	"github.com/abacus-lang/go-abacus/ast"
)

const version = "v0.3.0"

// Version returns the go-abacus version.
func Version() string {
	return version
}

// Parser is the touchpoint used to turn expression text or token streams
// into ASTs.  A Parser may be reused across parses but must not be used from
// multiple goroutines at once.
type Parser struct {
	// CaseSensitive is propagated to every identifier leaf and controls
	// whether downstream name resolution distinguishes Foo from foo.
	CaseSensitive bool

	functions *Registry
}

// MakeParser creates a new Parser with default parameters.
func MakeParser() *Parser {
	return &Parser{}
}

// Functions returns the parser's function registry, creating the default
// registry on first use.
func (p *Parser) Functions() *Registry {
	if p.functions == nil {
		p.functions = DefaultRegistry()
	}
	return p.functions
}

// SetFunctions replaces the parser's function registry.
func (p *Parser) SetFunctions(r *Registry) {
	p.functions = r
}

// Parse reduces a classified token stream to a single AST node.  An empty
// stream parses to the Null leaf.  On failure it returns a *ParseError and
// no tree.
func (p *Parser) Parse(tokens Tokens) (ast.Node, error) {
	return makeParser(tokens, parserOptions{
		functions:     p.Functions(),
		caseSensitive: p.CaseSensitive,
	}).parse()
}

// ParseString lexes and parses expression text.
func (p *Parser) ParseString(expr string) (ast.Node, error) {
	tokens, err := Lex(expr)
	if err != nil {
		return nil, err
	}
	return p.Parse(tokens)
}

// Dependencies returns the identifier keys the expression references, in
// order of first appearance.
func (p *Parser) Dependencies(expr string) ([]string, error) {
	node, err := p.ParseString(expr)
	if err != nil {
		return nil, err
	}
	seen := make(map[string]bool)
	var deps []string
	for _, d := range node.Dependencies() {
		if !seen[d] {
			seen[d] = true
			deps = append(deps, d)
		}
	}
	return deps, nil
}
