package abacus

import "fmt"

//////////////////////////////////////////////////////////////////////////////
// Token

// Category classifies a token produced by the lexer.
type Category int

const (
	CategoryDatetime Category = iota
	CategoryNumeric
	CategoryLogical
	CategoryString
	CategoryNull
	CategoryIdentifier
	CategoryOperator
	CategoryComparator
	CategoryCombinator
	CategoryFunction
	CategoryCase
	CategoryAccess
	CategoryGrouping
)

var categoryStrings = []string{
	CategoryDatetime:   "datetime",
	CategoryNumeric:    "numeric",
	CategoryLogical:    "logical",
	CategoryString:     "string",
	CategoryNull:       "null",
	CategoryIdentifier: "identifier",
	CategoryOperator:   "operator",
	CategoryComparator: "comparator",
	CategoryCombinator: "combinator",
	CategoryFunction:   "function",
	CategoryCase:       "case",
	CategoryAccess:     "access",
	CategoryGrouping:   "grouping",
}

func (c Category) String() string {
	if c < 0 || int(c) >= len(categoryStrings) {
		return fmt.Sprintf("category(%d)", int(c))
	}
	return categoryStrings[c]
}

// Structural and symbolic token values.  Literal tokens carry their parsed
// value instead (float64, bool, string, time.Time or nil).
const (
	GroupingOpen  = "open"
	GroupingClose = "close"
	GroupingComma = "comma"

	AccessLBracket = "lbracket"
	AccessRBracket = "rbracket"

	OpAdd        = "add"
	OpSubtract   = "subtract"
	OpMultiply   = "multiply"
	OpDivide     = "divide"
	OpMod        = "mod"
	OpPower      = "power"
	OpNegate     = "negate"
	OpBitwiseOr  = "bitor"
	OpBitwiseAnd = "bitand"

	CompLess      = "lt"
	CompLessEq    = "le"
	CompGreater   = "gt"
	CompGreaterEq = "ge"
	CompEqual     = "eq"
	CompNotEqual  = "ne"

	CombAnd = "and"
	CombOr  = "or"

	CaseOpen  = "open"
	CaseWhen  = "when"
	CaseThen  = "then"
	CaseElse  = "else"
	CaseClose = "close"
)

// Token is one classified element of the input.  The parser consumes a token
// stream destructively, one token at a time.
type Token struct {
	Category Category
	Value    interface{}
}

// Tokens is an ordered token stream.
type Tokens []Token

func (t Token) String() string {
	return fmt.Sprintf("(%v, %v)", t.Category, t.Value)
}

// valueString returns the token's value as a string, or "" when the value is
// not a string.  Structural and symbolic values are always strings.
func valueString(t Token) string {
	s, _ := t.Value.(string)
	return s
}
