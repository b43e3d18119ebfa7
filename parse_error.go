package abacus

import "fmt"

// ParseErrorKind is the machine-readable classification of a ParseError.
type ParseErrorKind int

const (
	// ErrTooFewOperands means the reduction engine needed more operands
	// than the operand stack held.
	ErrTooFewOperands ParseErrorKind = iota
	// ErrNodeInvalid means AST node construction rejected the supplied
	// children's count or shape.
	ErrNodeInvalid
	// ErrUndefinedFunction means a function-name lookup against the
	// registry missed.
	ErrUndefinedFunction
	// ErrUnbalancedBracket means no access marker was found while closing
	// a "]".
	ErrUnbalancedBracket
	// ErrUnbalancedParenthesis means the operator stack did not hold a
	// grouping marker where closing a ")" required one.
	ErrUnbalancedParenthesis
	// ErrUnknownGroupingToken means a grouping-category token carried a
	// value other than open/close/comma.
	ErrUnknownGroupingToken
	// ErrNotImplementedTokenCategory means a token's category has no
	// registered handler.
	ErrNotImplementedTokenCategory
	// ErrInvalidStatement means the token stream does not reduce to
	// exactly one node.
	ErrInvalidStatement
)

var parseErrorKindStrings = []string{
	ErrTooFewOperands:              "too_few_operands",
	ErrNodeInvalid:                 "node_invalid",
	ErrUndefinedFunction:           "undefined_function",
	ErrUnbalancedBracket:           "unbalanced_bracket",
	ErrUnbalancedParenthesis:       "unbalanced_parenthesis",
	ErrUnknownGroupingToken:        "unknown_grouping_token",
	ErrNotImplementedTokenCategory: "not_implemented_token_category",
	ErrInvalidStatement:            "invalid_statement",
}

func (k ParseErrorKind) String() string {
	if k < 0 || int(k) >= len(parseErrorKindStrings) {
		panic(fmt.Sprintf("INTERNAL ERROR: unrecognised parse error kind: %d", k))
	}
	return parseErrorKindStrings[k]
}

// ParseError represents a failure to reduce a token stream to a single AST
// node.  Kind identifies the failure; the remaining fields carry the
// kind-specific context.  A parse either succeeds completely or aborts with
// one ParseError; there is no recovery and no partial tree.
type ParseError struct {
	Kind ParseErrorKind

	// Reducer names the offending reducer for too_few_operands and
	// node_invalid.
	Reducer string
	// Expected describes the operand count or child shape that was
	// required.
	Expected string
	// Actual is the operand or node count that was found.
	Actual int
	// Name holds the identifier, token value or category the error is
	// about, when one exists.
	Name string
}

func (e *ParseError) Error() string {
	switch e.Kind {
	case ErrTooFewOperands:
		return fmt.Sprintf("too few operands for %s: expected %s, have %d",
			e.Reducer, e.Expected, e.Actual)
	case ErrNodeInvalid:
		return fmt.Sprintf("cannot build %s: expected %s children, got %d",
			e.Reducer, e.Expected, e.Actual)
	case ErrUndefinedFunction:
		return fmt.Sprintf("undefined function %s", e.Name)
	case ErrUnbalancedBracket:
		return "unbalanced bracket"
	case ErrUnbalancedParenthesis:
		return "unbalanced parenthesis"
	case ErrUnknownGroupingToken:
		return fmt.Sprintf("unknown grouping token %s", e.Name)
	case ErrNotImplementedTokenCategory:
		return fmt.Sprintf("token category %s is not supported", e.Name)
	case ErrInvalidStatement:
		if e.Name != "" {
			return fmt.Sprintf("invalid statement: %s", e.Name)
		}
		return "invalid statement"
	}
	panic(fmt.Sprintf("INTERNAL ERROR: unrecognised parse error kind: %d", e.Kind))
}
