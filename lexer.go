package abacus

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"
)

//////////////////////////////////////////////////////////////////////////////
// Helpers

func isUpper(r rune) bool {
	return r >= 'A' && r <= 'Z'
}

func isLower(r rune) bool {
	return r >= 'a' && r <= 'z'
}

func isNumber(r rune) bool {
	return r >= '0' && r <= '9'
}

func isIdentifierFirst(r rune) bool {
	return isUpper(r) || isLower(r) || r == '_'
}

func isIdentifier(r rune) bool {
	return isIdentifierFirst(r) || isNumber(r)
}

//////////////////////////////////////////////////////////////////////////////
// Lexer

type lexer struct {
	input string // The input string

	pos        int // Current byte position in input
	lineNumber int // Current line number for pos
	lineStart  int // Byte position of start of line

	// Data about the state position of the lexer before previous call to
	// 'next'. If this state is lost then prevPos is set to lexEOF and
	// panic ensues.
	prevPos        int // Byte position of last rune read
	prevLineNumber int // The line number before last rune read
	prevLineStart  int // The line start before last rune read

	tokens Tokens // The tokens that we've generated so far

	// Information about the token we are working on right now
	tokenStart    int
	tokenStartLoc Location
}

const lexEOF = -1

func makeLexer(input string) *lexer {
	return &lexer{
		input:          input,
		lineNumber:     1,
		prevPos:        lexEOF,
		prevLineNumber: 1,
		tokenStartLoc:  Location{Line: 1, Column: 1},
	}
}

// next returns the next rune in the input.
func (l *lexer) next() rune {
	if l.pos >= len(l.input) {
		l.prevPos = l.pos
		return lexEOF
	}
	r, w := utf8.DecodeRuneInString(l.input[l.pos:])
	l.prevPos = l.pos
	l.pos += w
	if r == '\n' {
		l.prevLineNumber = l.lineNumber
		l.prevLineStart = l.lineStart
		l.lineNumber++
		l.lineStart = l.pos
	}
	return r
}

func (l *lexer) acceptN(n int) {
	for i := 0; i < n; i++ {
		l.next()
	}
}

// peek returns but does not consume the next rune in the input.
func (l *lexer) peek() rune {
	r := l.next()
	l.backup()
	return r
}

// backup steps back one rune. Can only be called once per call of next.
func (l *lexer) backup() {
	if l.prevPos == lexEOF {
		panic("backup called with no valid previous rune")
	}
	l.lineNumber = l.prevLineNumber
	l.lineStart = l.prevLineStart
	l.pos = l.prevPos
	l.prevPos = lexEOF
}

func (l *lexer) location() Location {
	return Location{Line: l.lineNumber, Column: l.pos - l.lineStart + 1}
}

func (l *lexer) prevLocation() Location {
	if l.prevPos == lexEOF {
		panic("prevLocation called with no valid previous rune")
	}
	return Location{Line: l.prevLineNumber, Column: l.prevPos - l.prevLineStart + 1}
}

// Reset the current working token start to the current cursor position.  This
// may throw away some characters.
func (l *lexer) resetTokenStart() {
	l.tokenStart = l.pos
	l.tokenStartLoc = l.location()
}

func (l *lexer) text() string {
	return l.input[l.tokenStart:l.pos]
}

func (l *lexer) emit(category Category, value interface{}) {
	l.tokens = append(l.tokens, Token{Category: category, Value: value})
	l.resetTokenStart()
}

// last returns the most recently emitted token, if any.
func (l *lexer) last() (Token, bool) {
	if len(l.tokens) == 0 {
		return Token{}, false
	}
	return l.tokens[len(l.tokens)-1], true
}

// prefixPosition reports whether a minus sign at the current position is a
// unary negation rather than a subtraction: at the start of the input, after
// another operator, or after an opening delimiter, comma or case keyword
// other than end.
func (l *lexer) prefixPosition() bool {
	t, ok := l.last()
	if !ok {
		return true
	}
	switch t.Category {
	case CategoryOperator, CategoryComparator, CategoryCombinator:
		return true
	case CategoryCase:
		// end completes an expression; the other case keywords open one.
		return valueString(t) != CaseClose
	case CategoryGrouping:
		return valueString(t) == GroupingOpen || valueString(t) == GroupingComma
	case CategoryAccess:
		return valueString(t) == AccessLBracket
	}
	return false
}

// lexNumber will consume a number and emit a token.  It is assumed that the
// next rune to be served by the lexer will be a leading digit.
func (l *lexer) lexNumber() error {
	r := l.next()
	for ; isNumber(r); r = l.next() {
	}
	if r == '.' {
		r = l.next()
		if !isNumber(r) {
			return makeStaticError(
				fmt.Sprintf("Couldn't lex number, junk after decimal point: %v", strconv.QuoteRuneToASCII(r)),
				l.prevLocation())
		}
		for ; isNumber(r); r = l.next() {
		}
	}
	if r == 'e' || r == 'E' {
		r = l.next()
		if r == '+' || r == '-' {
			r = l.next()
		}
		if !isNumber(r) {
			return makeStaticError(
				fmt.Sprintf("Couldn't lex number, junk after exponent: %v", strconv.QuoteRuneToASCII(r)),
				l.prevLocation())
		}
		for ; isNumber(r); r = l.next() {
		}
	}
	if r != lexEOF {
		l.backup()
	}

	value, err := strconv.ParseFloat(l.text(), 64)
	if err != nil {
		return makeStaticError(
			fmt.Sprintf("Couldn't lex number %q: %v", l.text(), err), l.tokenStartLoc)
	}
	l.emit(CategoryNumeric, value)
	return nil
}

// datetimeRE matches an ISO-8601-shaped literal: a date, optionally followed
// by a T-separated time with an optional zone.
var datetimeRE = regexp.MustCompile(
	`^\d{4}-\d{2}-\d{2}(T\d{2}:\d{2}:\d{2}(Z|[+-]\d{2}:\d{2})?)?`)

var datetimeLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02",
}

// lexDatetime tries to consume a datetime literal at the current position.
// It reports false, leaving the lexer untouched, when the input does not
// lex as one; text that is merely shaped like a datetime, e.g. 2017-90-01,
// is left for the number lexer.
func (l *lexer) lexDatetime() bool {
	match := datetimeRE.FindString(l.input[l.pos:])
	if match == "" {
		return false
	}
	// A trailing identifier character means this was not a datetime after
	// all, e.g. "2017-01-02x".
	if rest := l.input[l.pos+len(match):]; rest != "" {
		if r, _ := utf8.DecodeRuneInString(rest); isIdentifier(r) {
			return false
		}
	}
	for _, layout := range datetimeLayouts {
		if value, err := time.Parse(layout, match); err == nil {
			l.acceptN(len(match))
			l.emit(CategoryDatetime, value)
			return true
		}
	}
	return false
}

// lexIdentifier will consume an identifier or keyword and emit a token.  An
// identifier immediately followed by an opening parenthesis is a function
// name.  Keywords are matched case-insensitively.
func (l *lexer) lexIdentifier() {
	r := l.next()
	for ; r != lexEOF; r = l.next() {
		if !isIdentifier(r) {
			break
		}
	}
	if r != lexEOF {
		l.backup()
	}

	name := l.text()
	switch strings.ToLower(name) {
	case "true":
		l.emit(CategoryLogical, true)
	case "false":
		l.emit(CategoryLogical, false)
	case "null":
		l.emit(CategoryNull, nil)
	case "and":
		l.emit(CategoryCombinator, CombAnd)
	case "or":
		l.emit(CategoryCombinator, CombOr)
	case "case":
		l.emit(CategoryCase, CaseOpen)
	case "when":
		l.emit(CategoryCase, CaseWhen)
	case "then":
		l.emit(CategoryCase, CaseThen)
	case "else":
		l.emit(CategoryCase, CaseElse)
	case "end":
		l.emit(CategoryCase, CaseClose)
	default:
		if l.parenFollows() {
			l.emit(CategoryFunction, name)
		} else {
			l.emit(CategoryIdentifier, name)
		}
	}
}

// parenFollows reports whether the next non-blank character is an opening
// parenthesis.
func (l *lexer) parenFollows() bool {
	for _, r := range l.input[l.pos:] {
		switch r {
		case ' ', '\t':
			continue
		case '(':
			return true
		default:
			return false
		}
	}
	return false
}

// lexString consumes a quoted string literal.  quote is the opening quote
// rune, already consumed.  A backslash escapes the quote character and
// another backslash; every other backslash is kept verbatim.
func (l *lexer) lexString(quote rune) error {
	stringStartLoc := l.prevLocation()
	var sb strings.Builder
	for r := l.next(); ; r = l.next() {
		if r == lexEOF {
			return makeStaticError("Unterminated String", stringStartLoc)
		}
		if r == quote {
			l.emit(CategoryString, sb.String())
			return nil
		}
		if r == '\\' {
			switch l.peek() {
			case quote, '\\':
				r = l.next()
			}
		}
		sb.WriteRune(r)
	}
}

// Lex converts expression text into a classified token stream.
func Lex(input string) (Tokens, error) {
	l := makeLexer(input)

	for r := l.next(); r != lexEOF; r = l.next() {
		switch r {
		case ' ', '\t', '\r', '\n':
			l.resetTokenStart()
			continue
		case '(':
			l.emit(CategoryGrouping, GroupingOpen)
		case ')':
			l.emit(CategoryGrouping, GroupingClose)
		case ',':
			l.emit(CategoryGrouping, GroupingComma)
		case '[':
			l.emit(CategoryAccess, AccessLBracket)
		case ']':
			l.emit(CategoryAccess, AccessRBracket)

		case '+':
			l.emit(CategoryOperator, OpAdd)
		case '-':
			if l.prefixPosition() {
				l.emit(CategoryOperator, OpNegate)
			} else {
				l.emit(CategoryOperator, OpSubtract)
			}
		case '*':
			l.emit(CategoryOperator, OpMultiply)
		case '/':
			l.emit(CategoryOperator, OpDivide)
		case '%':
			l.emit(CategoryOperator, OpMod)
		case '^':
			l.emit(CategoryOperator, OpPower)
		case '&':
			if l.peek() == '&' {
				l.next()
				l.emit(CategoryCombinator, CombAnd)
			} else {
				l.emit(CategoryOperator, OpBitwiseAnd)
			}
		case '|':
			if l.peek() == '|' {
				l.next()
				l.emit(CategoryCombinator, CombOr)
			} else {
				l.emit(CategoryOperator, OpBitwiseOr)
			}

		case '=':
			if l.peek() == '=' {
				l.next()
			}
			l.emit(CategoryComparator, CompEqual)
		case '!':
			// peek invalidates prevLocation, grab it first.
			bangLoc := l.prevLocation()
			if l.peek() != '=' {
				return nil, makeStaticError(
					"Expected != but got lone !", bangLoc)
			}
			l.next()
			l.emit(CategoryComparator, CompNotEqual)
		case '<':
			switch l.peek() {
			case '=':
				l.next()
				l.emit(CategoryComparator, CompLessEq)
			case '>':
				l.next()
				l.emit(CategoryComparator, CompNotEqual)
			default:
				l.emit(CategoryComparator, CompLess)
			}
		case '>':
			if l.peek() == '=' {
				l.next()
				l.emit(CategoryComparator, CompGreaterEq)
			} else {
				l.emit(CategoryComparator, CompGreater)
			}

		case '"', '\'':
			if err := l.lexString(r); err != nil {
				return nil, err
			}

		case '0', '1', '2', '3', '4', '5', '6', '7', '8', '9':
			l.backup()
			if !l.lexDatetime() {
				if err := l.lexNumber(); err != nil {
					return nil, err
				}
			}

		default:
			if isIdentifierFirst(r) {
				l.backup()
				l.lexIdentifier()
			} else {
				return nil, makeStaticError(
					fmt.Sprintf("Could not lex the character %s", strconv.QuoteRuneToASCII(r)),
					l.prevLocation())
			}
		}
	}

	return l.tokens, nil
}
