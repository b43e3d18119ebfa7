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

// Package ast defines the node types an expression parses into.  Nodes form
// a tree: every non-leaf node owns its children exclusively, with no sharing
// and no cycles.  Constructors validate the shape of the supplied children
// and refuse to build a malformed node.
package ast

import (
	"fmt"
	"strings"
	"time"
)

// Node is a fully-formed element of the syntax tree.
type Node interface {
	// Dependencies returns the keys of every identifier referenced in
	// this subtree, in source order, possibly with duplicates.
	Dependencies() []string
}

// Nodes is a list of AST nodes.
type Nodes []Node

// ---------------------------------------------------------------------------

// BinaryOp identifies a binary operator.
type BinaryOp int

const (
	BopMult BinaryOp = iota
	BopDiv
	BopMod

	BopPlus
	BopMinus

	BopPower

	BopGreater
	BopGreaterEq
	BopLess
	BopLessEq

	BopEqual
	BopNotEqual

	BopBitwiseAnd
	BopBitwiseOr

	BopAnd
	BopOr
)

var bopStrings = []string{
	BopMult: "*",
	BopDiv:  "/",
	BopMod:  "%",

	BopPlus:  "+",
	BopMinus: "-",

	BopPower: "^",

	BopGreater:   ">",
	BopGreaterEq: ">=",
	BopLess:      "<",
	BopLessEq:    "<=",

	BopEqual:    "=",
	BopNotEqual: "!=",

	BopBitwiseAnd: "&",
	BopBitwiseOr:  "|",

	BopAnd: "and",
	BopOr:  "or",
}

func (b BinaryOp) String() string {
	if b < 0 || int(b) >= len(bopStrings) {
		panic(fmt.Sprintf("INTERNAL ERROR: Unrecognised binary operator: %d", b))
	}
	return bopStrings[b]
}

// UnaryOp identifies a unary operator.
type UnaryOp int

const (
	UopNegate UnaryOp = iota
)

var uopStrings = []string{
	UopNegate: "-",
}

func (u UnaryOp) String() string {
	if u < 0 || int(u) >= len(uopStrings) {
		panic(fmt.Sprintf("INTERNAL ERROR: Unrecognised unary operator: %d", u))
	}
	return uopStrings[u]
}

// ---------------------------------------------------------------------------

// ShapeError reports that a node constructor was given a child list it
// cannot accept.  This is distinct from the parser running out of operands:
// the children were available but do not fit the node's declared shape.
type ShapeError struct {
	Node     string
	Expected string
	Actual   int
}

func (e ShapeError) Error() string {
	return fmt.Sprintf("cannot build %s: expected %s children, got %d",
		e.Node, e.Expected, e.Actual)
}

func shapeError(node, expected string, actual int) ShapeError {
	return ShapeError{Node: node, Expected: expected, Actual: actual}
}

// ---------------------------------------------------------------------------
// Leaves

// Number is a numeric literal.
type Number struct {
	Value float64
}

// Dependencies implements Node.
func (n *Number) Dependencies() []string { return nil }

// Logical is a boolean literal.
type Logical struct {
	Value bool
}

// Dependencies implements Node.
func (n *Logical) Dependencies() []string { return nil }

// String is a string literal.
type String struct {
	Value string
}

// Dependencies implements Node.
func (n *String) Dependencies() []string { return nil }

// DateTime is a datetime literal.
type DateTime struct {
	Value time.Time
}

// Dependencies implements Node.
func (n *DateTime) Dependencies() []string { return nil }

// Null is the null literal.  It is also what an empty token stream parses
// into.
type Null struct{}

// Dependencies implements Node.
func (n *Null) Dependencies() []string { return nil }

// Identifier is a reference to an externally-supplied value.  CaseSensitive
// controls whether downstream name resolution distinguishes Foo from foo.
type Identifier struct {
	Name          string
	CaseSensitive bool
}

// Key returns the name this identifier resolves under.
func (n *Identifier) Key() string {
	if n.CaseSensitive {
		return n.Name
	}
	return strings.ToLower(n.Name)
}

// Dependencies implements Node.
func (n *Identifier) Dependencies() []string { return []string{n.Key()} }

// ---------------------------------------------------------------------------
// Operations

// Binary is a binary operation.
type Binary struct {
	Op    BinaryOp
	Left  Node
	Right Node
}

// NewBinary builds a Binary from exactly two children.
func NewBinary(op BinaryOp, children Nodes) (*Binary, error) {
	if len(children) != 2 {
		return nil, shapeError(op.String(), "2", len(children))
	}
	return &Binary{Op: op, Left: children[0], Right: children[1]}, nil
}

// Dependencies implements Node.
func (n *Binary) Dependencies() []string {
	return append(n.Left.Dependencies(), n.Right.Dependencies()...)
}

// Unary is a unary operation.
type Unary struct {
	Op   UnaryOp
	Expr Node
}

// NewUnary builds a Unary from exactly one child.
func NewUnary(op UnaryOp, children Nodes) (*Unary, error) {
	if len(children) != 1 {
		return nil, shapeError(op.String(), "1", len(children))
	}
	return &Unary{Op: op, Expr: children[0]}, nil
}

// Dependencies implements Node.
func (n *Unary) Dependencies() []string { return n.Expr.Dependencies() }

// ---------------------------------------------------------------------------
// Function calls

// Function describes a callable known to a registry: its public name and the
// argument counts it accepts.  MaxArity of Variadic means no upper bound.
type Function struct {
	Name     string
	MinArity int
	MaxArity int
}

// Variadic marks a Function without an upper arity bound.
const Variadic = -1

// CheckArity reports whether the function accepts n arguments.
func (f *Function) CheckArity(n int) bool {
	if n < f.MinArity {
		return false
	}
	return f.MaxArity == Variadic || n <= f.MaxArity
}

// ArityString describes the accepted argument counts, for error messages.
func (f *Function) ArityString() string {
	switch {
	case f.MaxArity == Variadic:
		return fmt.Sprintf("at least %d", f.MinArity)
	case f.MinArity == f.MaxArity:
		return fmt.Sprintf("%d", f.MinArity)
	default:
		return fmt.Sprintf("%d..%d", f.MinArity, f.MaxArity)
	}
}

// FunctionCall is an invocation of a registered function.
type FunctionCall struct {
	Func *Function
	Args Nodes
}

// NewFunctionCall builds a FunctionCall, checking the argument count against
// the function's declared arity.
func NewFunctionCall(fn *Function, args Nodes) (*FunctionCall, error) {
	if !fn.CheckArity(len(args)) {
		return nil, shapeError(fn.Name, fn.ArityString(), len(args))
	}
	return &FunctionCall{Func: fn, Args: args}, nil
}

// Dependencies implements Node.
func (n *FunctionCall) Dependencies() []string {
	var deps []string
	for _, arg := range n.Args {
		deps = append(deps, arg.Dependencies()...)
	}
	return deps
}

// ---------------------------------------------------------------------------
// Access

// Access is an indexed access, container[index].
type Access struct {
	Container Node
	Index     Node
}

// NewAccess builds an Access from exactly two children: container, index.
func NewAccess(children Nodes) (*Access, error) {
	if len(children) != 2 {
		return nil, shapeError("access", "2", len(children))
	}
	return &Access{Container: children[0], Index: children[1]}, nil
}

// Dependencies implements Node.
func (n *Access) Dependencies() []string {
	return append(n.Container.Dependencies(), n.Index.Dependencies()...)
}

// ---------------------------------------------------------------------------
// Case

// CaseConditional is one when/then arm of a Case.
type CaseConditional struct {
	When Node
	Then Node
}

// Case is a multi-branch conditional: a switch value, one or more when/then
// arms compared against it, and an optional else.  Else is nil when no else
// branch was written.
type Case struct {
	Switch       Node
	Conditionals []CaseConditional
	Else         Node
}

// NewCase builds a Case.  At least one conditional is required.
func NewCase(switchExpr Node, conds []CaseConditional, elseExpr Node) (*Case, error) {
	if len(conds) == 0 {
		return nil, shapeError("case", "at least 1 when/then", 0)
	}
	return &Case{Switch: switchExpr, Conditionals: conds, Else: elseExpr}, nil
}

// Dependencies implements Node.
func (n *Case) Dependencies() []string {
	deps := n.Switch.Dependencies()
	for _, c := range n.Conditionals {
		deps = append(deps, c.When.Dependencies()...)
		deps = append(deps, c.Then.Dependencies()...)
	}
	if n.Else != nil {
		deps = append(deps, n.Else.Dependencies()...)
	}
	return deps
}
