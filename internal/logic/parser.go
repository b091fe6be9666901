package logic

import (
	"fmt"
	"strings"
	"unicode"
)

// Text syntax, mirroring the printer so listings round-trip:
//
//	formula := or-expr ('->' formula)?          implication, right assoc
//	or-expr := and-expr ('|' and-expr)*
//	and-expr := unary ('&' unary)*
//	unary   := '~' unary | ('A'|'E') var '.' unary | atom
//	atom    := '(' formula ')' | 'true' | 'false' | 'Apply()' | rel
//	rel     := name ('(' term (',' term)* ')')?
//	term    := name ('(' term (',' term)* ')')?
//
// A name in term position is a variable when it is bound by an
// enclosing quantifier, or when it is a single letter u through z
// optionally followed by digits (x, y, v1). Everything else is a
// constant (c_127, zero).

type tokenKind int

const (
	tokIdent tokenKind = iota
	tokLParen
	tokRParen
	tokComma
	tokDot
	tokTilde
	tokAmp
	tokPipe
	tokArrow
	tokEOF
)

type token struct {
	kind tokenKind
	text string
	pos  int
}

type parser struct {
	input  string
	tokens []token
	idx    int
	bound  []string
}

// Parse reads a formula from its text syntax.
func Parse(input string) (Formula, error) {
	p, err := newParser(input)
	if err != nil {
		return nil, err
	}
	f, err := p.parseFormula()
	if err != nil {
		return nil, err
	}
	if p.peek().kind != tokEOF {
		return nil, p.errorf("unexpected %q after formula", p.peek().text)
	}
	return f, nil
}

// ParseTerm reads a standalone term, as supplied to quantifier rules.
func ParseTerm(input string) (Term, error) {
	p, err := newParser(input)
	if err != nil {
		return nil, err
	}
	t, err := p.parseTerm()
	if err != nil {
		return nil, err
	}
	if p.peek().kind != tokEOF {
		return nil, p.errorf("unexpected %q after term", p.peek().text)
	}
	return t, nil
}

func newParser(input string) (*parser, error) {
	tokens, err := lex(input)
	if err != nil {
		return nil, err
	}
	return &parser{input: input, tokens: tokens}, nil
}

func lex(input string) ([]token, error) {
	var tokens []token
	i := 0
	for i < len(input) {
		c := input[i]
		switch {
		case c == ' ' || c == '\t' || c == '\n' || c == '\r':
			i++
		case c == '(':
			tokens = append(tokens, token{tokLParen, "(", i})
			i++
		case c == ')':
			tokens = append(tokens, token{tokRParen, ")", i})
			i++
		case c == ',':
			tokens = append(tokens, token{tokComma, ",", i})
			i++
		case c == '.':
			tokens = append(tokens, token{tokDot, ".", i})
			i++
		case c == '~':
			tokens = append(tokens, token{tokTilde, "~", i})
			i++
		case c == '&':
			tokens = append(tokens, token{tokAmp, "&", i})
			i++
		case c == '|':
			tokens = append(tokens, token{tokPipe, "|", i})
			i++
		case c == '-':
			if i+1 >= len(input) || input[i+1] != '>' {
				return nil, fmt.Errorf("parse %q: expected -> at offset %d", input, i)
			}
			tokens = append(tokens, token{tokArrow, "->", i})
			i += 2
		case isIdentStart(rune(c)):
			start := i
			for i < len(input) && isIdentPart(rune(input[i])) {
				i++
			}
			tokens = append(tokens, token{tokIdent, input[start:i], start})
		default:
			return nil, fmt.Errorf("parse %q: unexpected character %q at offset %d", input, c, i)
		}
	}
	tokens = append(tokens, token{tokEOF, "", len(input)})
	return tokens, nil
}

func isIdentStart(r rune) bool {
	return unicode.IsLetter(r) || r == '_'
}

func isIdentPart(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_'
}

func (p *parser) peek() token { return p.tokens[p.idx] }

func (p *parser) next() token {
	t := p.tokens[p.idx]
	if t.kind != tokEOF {
		p.idx++
	}
	return t
}

func (p *parser) expect(kind tokenKind, what string) (token, error) {
	t := p.next()
	if t.kind != kind {
		return t, p.errorf("expected %s, found %q", what, t.text)
	}
	return t, nil
}

func (p *parser) errorf(format string, args ...interface{}) error {
	return fmt.Errorf("parse %q: %s", p.input, fmt.Sprintf(format, args...))
}

func (p *parser) parseFormula() (Formula, error) {
	left, err := p.parseOr()
	if err != nil {
		return nil, err
	}
	if p.peek().kind == tokArrow {
		p.next()
		right, err := p.parseFormula()
		if err != nil {
			return nil, err
		}
		return Impl{Left: left, Right: right}, nil
	}
	return left, nil
}

func (p *parser) parseOr() (Formula, error) {
	left, err := p.parseAnd()
	if err != nil {
		return nil, err
	}
	for p.peek().kind == tokPipe {
		p.next()
		right, err := p.parseAnd()
		if err != nil {
			return nil, err
		}
		left = Or{Left: left, Right: right}
	}
	return left, nil
}

func (p *parser) parseAnd() (Formula, error) {
	left, err := p.parseUnary()
	if err != nil {
		return nil, err
	}
	for p.peek().kind == tokAmp {
		p.next()
		right, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		left = And{Left: left, Right: right}
	}
	return left, nil
}

func (p *parser) parseUnary() (Formula, error) {
	switch t := p.peek(); {
	case t.kind == tokTilde:
		p.next()
		body, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		return Not{Body: body}, nil
	case t.kind == tokIdent && (t.text == "A" || t.text == "E") && p.quantifierAhead():
		return p.parseQuantifier()
	default:
		return p.parseAtom()
	}
}

// quantifierAhead distinguishes the quantifier form `A x.` from a
// relation or letter that happens to be named A or E.
func (p *parser) quantifierAhead() bool {
	return p.idx+2 < len(p.tokens) &&
		p.tokens[p.idx+1].kind == tokIdent &&
		p.tokens[p.idx+2].kind == tokDot
}

func (p *parser) parseQuantifier() (Formula, error) {
	q := p.next()
	v, err := p.expect(tokIdent, "bound variable")
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(tokDot, "'.'"); err != nil {
		return nil, err
	}
	p.bound = append(p.bound, v.text)
	body, err := p.parseUnary()
	p.bound = p.bound[:len(p.bound)-1]
	if err != nil {
		return nil, err
	}
	if q.text == "A" {
		return Forall{Bound: v.text, Body: body}, nil
	}
	return Exists{Bound: v.text, Body: body}, nil
}

func (p *parser) parseAtom() (Formula, error) {
	t := p.next()
	switch t.kind {
	case tokLParen:
		f, err := p.parseFormula()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(tokRParen, "')'"); err != nil {
			return nil, err
		}
		return f, nil
	case tokIdent:
		switch t.text {
		case "true":
			return Truth{}, nil
		case "false":
			return Falsum{}, nil
		case "Apply":
			if _, err := p.expect(tokLParen, "'('"); err != nil {
				return nil, err
			}
			if _, err := p.expect(tokRParen, "')'"); err != nil {
				return nil, err
			}
			return Apply{}, nil
		}
		if p.peek().kind != tokLParen {
			return Rel{Name: t.text}, nil // propositional letter
		}
		args, err := p.parseTermList()
		if err != nil {
			return nil, err
		}
		return Rel{Name: t.text, Args: args}, nil
	default:
		return nil, p.errorf("expected formula, found %q", t.text)
	}
}

func (p *parser) parseTermList() ([]Term, error) {
	if _, err := p.expect(tokLParen, "'('"); err != nil {
		return nil, err
	}
	var args []Term
	for {
		arg, err := p.parseTerm()
		if err != nil {
			return nil, err
		}
		args = append(args, arg)
		if p.peek().kind == tokComma {
			p.next()
			continue
		}
		break
	}
	if _, err := p.expect(tokRParen, "')'"); err != nil {
		return nil, err
	}
	return args, nil
}

func (p *parser) parseTerm() (Term, error) {
	t, err := p.expect(tokIdent, "term")
	if err != nil {
		return nil, err
	}
	if p.peek().kind == tokLParen {
		args, err := p.parseTermList()
		if err != nil {
			return nil, err
		}
		return Fn{Name: t.text, Args: args}, nil
	}
	if p.isBound(t.text) || isVariableName(t.text) {
		return Var{Name: t.text}, nil
	}
	return Const{Name: t.text}, nil
}

func (p *parser) isBound(name string) bool {
	for _, b := range p.bound {
		if b == name {
			return true
		}
	}
	return false
}

// isVariableName applies the u-z convention for names not bound by a
// quantifier: x, y, z, v1 are variables; c_127 and zero are constants.
func isVariableName(name string) bool {
	if name == "" {
		return false
	}
	first := rune(name[0])
	if first < 'u' || first > 'z' {
		return false
	}
	rest := name[1:]
	if rest == "" {
		return true
	}
	return strings.Trim(rest, "0123456789") == ""
}
