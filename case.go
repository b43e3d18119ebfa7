package abacus

import (
	"fmt"

	"github.com/abacus-lang/go-abacus/ast"
)

// caseToken handles a multi-branch conditional:
//
//	case <switch> when <cond> then <result> ... [else <result>] end
//
// The handler consumes every token up to the matching end from the shared
// stream, parses each segment with a fresh parser over the same registry and
// flags, and pushes exactly one Case node onto the shared operand stack.
func (p *parser) caseToken(t Token) error {
	if valueString(t) != CaseOpen {
		return invalidCase(fmt.Sprintf("unexpected %v", valueString(t)))
	}

	body, err := p.collectCaseBody()
	if err != nil {
		return err
	}

	switchToks, conds, elseToks, err := splitCaseBody(body)
	if err != nil {
		return err
	}

	switchExpr, err := p.subParse(switchToks, "case switch")
	if err != nil {
		return err
	}
	conditionals := make([]ast.CaseConditional, 0, len(conds))
	for _, c := range conds {
		when, err := p.subParse(c.when, "when condition")
		if err != nil {
			return err
		}
		then, err := p.subParse(c.then, "then result")
		if err != nil {
			return err
		}
		conditionals = append(conditionals, ast.CaseConditional{When: when, Then: then})
	}
	var elseExpr ast.Node
	if elseToks != nil {
		if elseExpr, err = p.subParse(elseToks, "else result"); err != nil {
			return err
		}
	}

	node, err := ast.NewCase(switchExpr, conditionals, elseExpr)
	if err != nil {
		if se, ok := err.(ast.ShapeError); ok {
			return &ParseError{
				Kind:     ErrNodeInvalid,
				Reducer:  "case",
				Expected: se.Expected,
				Actual:   se.Actual,
			}
		}
		return err
	}
	p.push(node)
	return nil
}

// collectCaseBody removes every token up to and including the matching case
// close from the stream and returns the body between them.  Nested case
// expressions stay intact inside the body.
func (p *parser) collectCaseBody() (Tokens, error) {
	var body Tokens
	depth := 1
	for depth > 0 {
		if p.done() {
			return nil, invalidCase("case without a matching end")
		}
		t := p.next()
		if t.Category == CategoryCase {
			switch valueString(t) {
			case CaseOpen:
				depth++
			case CaseClose:
				depth--
				if depth == 0 {
					return body, nil
				}
			}
		}
		body = append(body, t)
	}
	return body, nil
}

type caseArm struct {
	when Tokens
	then Tokens
}

// splitCaseBody cuts the body at the depth-zero when/then/else markers.
// elseToks is nil when the case has no else branch.
func splitCaseBody(body Tokens) (switchToks Tokens, arms []caseArm, elseToks Tokens, err error) {
	const (
		inSwitch = iota
		inWhen
		inThen
		inElse
	)
	state := inSwitch
	depth := 0
	var current Tokens

	flush := func() error {
		switch state {
		case inSwitch:
			switchToks = current
		case inWhen:
			return invalidCase("when without a then")
		case inThen:
			arms[len(arms)-1].then = current
		case inElse:
			elseToks = current
			if current == nil {
				elseToks = Tokens{}
			}
		}
		current = nil
		return nil
	}

	for _, t := range body {
		if t.Category == CategoryCase {
			switch valueString(t) {
			case CaseOpen:
				depth++
			case CaseClose:
				depth--
			}
			if depth == 0 {
				switch valueString(t) {
				case CaseWhen:
					if state == inElse {
						return nil, nil, nil, invalidCase("when after else")
					}
					if err := flush(); err != nil {
						return nil, nil, nil, err
					}
					arms = append(arms, caseArm{})
					state = inWhen
					continue
				case CaseThen:
					if state != inWhen {
						return nil, nil, nil, invalidCase("then without a when")
					}
					arms[len(arms)-1].when = current
					current = nil
					state = inThen
					continue
				case CaseElse:
					if state != inThen {
						return nil, nil, nil, invalidCase("else without a preceding then")
					}
					if err := flush(); err != nil {
						return nil, nil, nil, err
					}
					state = inElse
					continue
				}
			}
		}
		current = append(current, t)
	}
	if err := flush(); err != nil {
		return nil, nil, nil, err
	}
	return switchToks, arms, elseToks, nil
}

// subParse parses one segment of a case body with a fresh parser sharing the
// registry and the case-sensitivity flag.  An empty segment is malformed.
func (p *parser) subParse(toks Tokens, what string) (ast.Node, error) {
	if len(toks) == 0 {
		return nil, invalidCase("missing " + what)
	}
	sub := makeParser(toks, parserOptions{
		functions:     p.functions,
		caseSensitive: p.caseSensitive,
	})
	return sub.parse()
}

func invalidCase(detail string) *ParseError {
	return &ParseError{Kind: ErrInvalidStatement, Name: detail}
}
