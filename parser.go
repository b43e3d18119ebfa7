package abacus

import (
	"fmt"
	"strconv"
	"time"

	"github.com/abacus-lang/go-abacus/ast"
)

//////////////////////////////////////////////////////////////////////////////
// Reducers
//
// A reducer is a pending entry on the operator stack: an operator waiting
// for its operands, a function call waiting for its argument list, or a
// marker bounding a grouping or access scope.  Markers bound a region and
// stop drains; only operator reducers take part in precedence comparisons.

type reducerKind int

const (
	reduceOperator reducerKind = iota
	reduceFunction
	groupMarker
	accessMarker
)

type operator struct {
	name       string
	binOp      ast.BinaryOp
	unary      bool
	precedence int
	rightAssoc bool
}

type reducer struct {
	kind reducerKind
	op   operator      // valid when kind == reduceOperator
	fn   *ast.Function // valid when kind == reduceFunction
}

func (r reducer) String() string {
	switch r.kind {
	case reduceOperator:
		return r.op.name
	case reduceFunction:
		return r.fn.Name
	case groupMarker:
		return "("
	case accessMarker:
		return "["
	}
	panic(fmt.Sprintf("INTERNAL ERROR: unrecognised reducer kind: %d", r.kind))
}

// fixedArity returns the operand count the reducer itself declares, or -1
// when the caller must supply one.
func (r reducer) fixedArity() int {
	switch r.kind {
	case reduceOperator:
		if r.op.unary {
			return 1
		}
		return 2
	case accessMarker:
		return 2
	}
	return -1
}

func (r reducer) build(children ast.Nodes) (ast.Node, error) {
	switch r.kind {
	case reduceOperator:
		if r.op.unary {
			return ast.NewUnary(ast.UopNegate, children)
		}
		return ast.NewBinary(r.op.binOp, children)
	case reduceFunction:
		return ast.NewFunctionCall(r.fn, children)
	case accessMarker:
		return ast.NewAccess(children)
	}
	panic(fmt.Sprintf("INTERNAL ERROR: reducer %v is not reducible", r))
}

// operatorTable is closed and complete: every operator, comparator and
// combinator value the lexer can emit resolves here.  Precedence is higher
// for tighter binding.
var operatorTable = map[string]operator{
	CombOr:  {name: CombOr, binOp: ast.BopOr, precedence: 1},
	CombAnd: {name: CombAnd, binOp: ast.BopAnd, precedence: 2},

	CompLess:      {name: CompLess, binOp: ast.BopLess, precedence: 5},
	CompLessEq:    {name: CompLessEq, binOp: ast.BopLessEq, precedence: 5},
	CompGreater:   {name: CompGreater, binOp: ast.BopGreater, precedence: 5},
	CompGreaterEq: {name: CompGreaterEq, binOp: ast.BopGreaterEq, precedence: 5},
	CompEqual:     {name: CompEqual, binOp: ast.BopEqual, precedence: 5},
	CompNotEqual:  {name: CompNotEqual, binOp: ast.BopNotEqual, precedence: 5},

	OpBitwiseOr:  {name: OpBitwiseOr, binOp: ast.BopBitwiseOr, precedence: 6},
	OpBitwiseAnd: {name: OpBitwiseAnd, binOp: ast.BopBitwiseAnd, precedence: 7},

	OpAdd:      {name: OpAdd, binOp: ast.BopPlus, precedence: 10},
	OpSubtract: {name: OpSubtract, binOp: ast.BopMinus, precedence: 10},

	OpMultiply: {name: OpMultiply, binOp: ast.BopMult, precedence: 20},
	OpDivide:   {name: OpDivide, binOp: ast.BopDiv, precedence: 20},
	OpMod:      {name: OpMod, binOp: ast.BopMod, precedence: 20},

	OpPower:  {name: OpPower, binOp: ast.BopPower, precedence: 30, rightAssoc: true},
	OpNegate: {name: OpNegate, unary: true, precedence: 40, rightAssoc: true},
}

//////////////////////////////////////////////////////////////////////////////
// Parser

// parser holds the state of one parse: the token stream and the three
// stacks.  A parser is single-use; every invocation of parse gets a fresh
// one.
type parser struct {
	tokens Tokens
	currT  int

	operations []reducer // pending reducers
	arities    []int     // comma count per currently-open function call
	output     ast.Nodes // completed subtrees

	functions     *Registry
	caseSensitive bool
}

type parserOptions struct {
	operations    []reducer
	arities       []int
	functions     *Registry
	caseSensitive bool
}

func makeParser(t Tokens, o parserOptions) *parser {
	p := &parser{
		tokens:        t,
		operations:    o.operations,
		arities:       o.arities,
		functions:     o.functions,
		caseSensitive: o.caseSensitive,
	}
	if p.functions == nil {
		p.functions = DefaultRegistry()
	}
	return p
}

func (p *parser) done() bool {
	return p.currT >= len(p.tokens)
}

func (p *parser) next() Token {
	t := p.tokens[p.currT]
	p.currT++
	return t
}

func (p *parser) peek() (Token, bool) {
	if p.done() {
		return Token{}, false
	}
	return p.tokens[p.currT], true
}

func (p *parser) push(n ast.Node) {
	p.output = append(p.output, n)
}

func (p *parser) topOperation() (reducer, bool) {
	if len(p.operations) == 0 {
		return reducer{}, false
	}
	return p.operations[len(p.operations)-1], true
}

// consume pops the top reducer together with the operands it requires and
// replaces them with one constructed node.  count is the operand count used
// when the reducer does not declare one of its own.
func (p *parser) consume(count int) error {
	top, ok := p.topOperation()
	if !ok {
		return &ParseError{Kind: ErrInvalidStatement, Name: "nothing to reduce"}
	}
	if top.kind == groupMarker {
		// A grouping marker is popped explicitly by the close-paren
		// handler, never reduced.  Reaching it here means the
		// parentheses do not balance.
		return &ParseError{Kind: ErrUnbalancedParenthesis}
	}
	p.operations = p.operations[:len(p.operations)-1]

	if n := top.fixedArity(); n >= 0 {
		count = n
	}
	if len(p.output) < count {
		return &ParseError{
			Kind:     ErrTooFewOperands,
			Reducer:  top.String(),
			Expected: strconv.Itoa(count),
			Actual:   len(p.output),
		}
	}

	children := make(ast.Nodes, count)
	copy(children, p.output[len(p.output)-count:])
	p.output = p.output[:len(p.output)-count]

	node, err := top.build(children)
	if err != nil {
		if se, ok := err.(ast.ShapeError); ok {
			return &ParseError{
				Kind:     ErrNodeInvalid,
				Reducer:  top.String(),
				Expected: se.Expected,
				Actual:   se.Actual,
			}
		}
		return err
	}
	p.push(node)
	return nil
}

// parse is the driving loop.  It dispatches every token to the handler for
// its category, drains the remaining reducers, and requires exactly one
// surviving operand.
func (p *parser) parse() (ast.Node, error) {
	if p.done() {
		return &ast.Null{}, nil
	}

	for !p.done() {
		t := p.next()
		var err error
		switch t.Category {
		case CategoryDatetime, CategoryNumeric, CategoryLogical,
			CategoryString, CategoryNull, CategoryIdentifier:
			err = p.literalToken(t)
		case CategoryOperator, CategoryComparator, CategoryCombinator:
			err = p.operatorToken(t)
		case CategoryFunction:
			err = p.functionToken(t)
		case CategoryGrouping:
			err = p.groupingToken(t)
		case CategoryAccess:
			err = p.accessToken(t)
		case CategoryCase:
			err = p.caseToken(t)
		default:
			err = &ParseError{
				Kind: ErrNotImplementedTokenCategory,
				Name: t.Category.String(),
			}
		}
		if err != nil {
			return nil, err
		}
	}

	for len(p.operations) > 0 {
		if top, _ := p.topOperation(); top.kind == accessMarker {
			return nil, &ParseError{Kind: ErrUnbalancedBracket}
		}
		if err := p.consume(2); err != nil {
			return nil, err
		}
	}

	if len(p.output) != 1 {
		return nil, &ParseError{Kind: ErrInvalidStatement, Actual: len(p.output)}
	}
	return p.output[0], nil
}

//////////////////////////////////////////////////////////////////////////////
// Handlers

func (p *parser) literalToken(t Token) error {
	badValue := func() error {
		return &ParseError{
			Kind:     ErrNodeInvalid,
			Reducer:  t.Category.String(),
			Expected: fmt.Sprintf("a %v value", t.Category),
			Actual:   0,
		}
	}
	switch t.Category {
	case CategoryNumeric:
		switch v := t.Value.(type) {
		case float64:
			p.push(&ast.Number{Value: v})
		case int:
			p.push(&ast.Number{Value: float64(v)})
		default:
			return badValue()
		}
	case CategoryLogical:
		v, ok := t.Value.(bool)
		if !ok {
			return badValue()
		}
		p.push(&ast.Logical{Value: v})
	case CategoryString:
		v, ok := t.Value.(string)
		if !ok {
			return badValue()
		}
		p.push(&ast.String{Value: v})
	case CategoryDatetime:
		v, ok := t.Value.(time.Time)
		if !ok {
			return badValue()
		}
		p.push(&ast.DateTime{Value: v})
	case CategoryNull:
		p.push(&ast.Null{})
	case CategoryIdentifier:
		v, ok := t.Value.(string)
		if !ok {
			return badValue()
		}
		p.push(&ast.Identifier{Name: v, CaseSensitive: p.caseSensitive})
	}
	return nil
}

// operatorToken handles operator, comparator and combinator tokens
// uniformly: reduce whatever must bind first, then push the new operator.
func (p *parser) operatorToken(t Token) error {
	op, ok := operatorTable[valueString(t)]
	if !ok {
		// The table is closed and complete; a miss is a broken lexer or
		// a hand-built token stream violating the contract.
		panic(fmt.Sprintf("INTERNAL ERROR: unrecognised operator token: %v", t))
	}

	for {
		top, ok := p.topOperation()
		if !ok || top.kind != reduceOperator {
			break
		}
		if op.rightAssoc {
			// Equal precedence does not reduce, so chains of the
			// same operator associate right to left.
			if top.op.precedence <= op.precedence {
				break
			}
		} else {
			if top.op.precedence < op.precedence {
				break
			}
		}
		if err := p.consume(2); err != nil {
			return err
		}
	}

	p.operations = append(p.operations, reducer{kind: reduceOperator, op: op})
	return nil
}

func (p *parser) functionToken(t Token) error {
	name := valueString(t)
	fn, ok := p.functions.Get(name)
	if !ok {
		return &ParseError{Kind: ErrUndefinedFunction, Name: name}
	}
	p.arities = append(p.arities, 0)
	p.operations = append(p.operations, reducer{kind: reduceFunction, fn: fn})
	return nil
}

// drainToMarker reduces until the top of the operator stack is a grouping or
// access marker, without popping the marker.
func (p *parser) drainToMarker() error {
	for {
		top, ok := p.topOperation()
		if !ok || top.kind == groupMarker || top.kind == accessMarker {
			return nil
		}
		if err := p.consume(2); err != nil {
			return err
		}
	}
}

func (p *parser) groupingToken(t Token) error {
	switch valueString(t) {
	case GroupingOpen:
		// An immediately following close is an explicitly empty
		// argument list.  The lookahead token is consumed before any
		// marker is pushed: discard the call's arity entry and reduce
		// the function with zero operands.
		if nxt, ok := p.peek(); ok && nxt.Category == CategoryGrouping &&
			valueString(nxt) == GroupingClose {
			p.next()
			if len(p.arities) > 0 {
				p.arities = p.arities[:len(p.arities)-1]
			}
			return p.consume(0)
		}
		p.operations = append(p.operations, reducer{kind: groupMarker})
		return nil

	case GroupingClose:
		if err := p.drainToMarker(); err != nil {
			return err
		}
		top, ok := p.topOperation()
		if !ok || top.kind != groupMarker {
			return &ParseError{Kind: ErrUnbalancedParenthesis}
		}
		p.operations = p.operations[:len(p.operations)-1]

		// A function reducer directly beneath the marker owns this
		// parenthesis: reduce it with one operand per comma plus the
		// final, uncounted argument.
		if top, ok := p.topOperation(); ok && top.kind == reduceFunction {
			arity := 0
			if len(p.arities) > 0 {
				arity = p.arities[len(p.arities)-1]
				p.arities = p.arities[:len(p.arities)-1]
			}
			return p.consume(arity + 1)
		}
		return nil

	case GroupingComma:
		if len(p.arities) == 0 {
			return &ParseError{Kind: ErrInvalidStatement, Name: "comma outside of a function call"}
		}
		p.arities[len(p.arities)-1]++
		return p.drainToMarker()

	default:
		return &ParseError{Kind: ErrUnknownGroupingToken, Name: fmt.Sprint(t.Value)}
	}
}

func (p *parser) accessToken(t Token) error {
	switch valueString(t) {
	case AccessLBracket:
		p.operations = append(p.operations, reducer{kind: accessMarker})
		return nil

	case AccessRBracket:
		for {
			top, ok := p.topOperation()
			if !ok {
				return &ParseError{Kind: ErrUnbalancedBracket}
			}
			if top.kind == accessMarker {
				break
			}
			if err := p.consume(2); err != nil {
				return err
			}
		}
		// This reduction consumes the marker itself together with the
		// container and index expressions.
		return p.consume(2)

	default:
		return &ParseError{Kind: ErrUnknownGroupingToken, Name: fmt.Sprint(t.Value)}
	}
}
