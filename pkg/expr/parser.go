package expr

import "fmt"

type parser struct {
	src    string
	tokens []token
	pos    int
}

// Parse parses a dependency expression. Blank input yields Const{true}.
func Parse(src string) (Expr, error) {
	if IsTrivial(src) {
		return Const{Value: true}, nil
	}

	tokens, err := lex(src)
	if err != nil {
		return nil, err
	}

	p := &parser{src: src, tokens: tokens}
	e, err := p.parseOr()
	if err != nil {
		return nil, err
	}

	if tok := p.peek(); tok.kind != tokEOF {
		if tok.kind == tokRParen {
			return nil, p.errorf(tok, "unbalanced parenthesis")
		}
		return nil, p.errorf(tok, "unexpected %s", tok.kind)
	}

	return e, nil
}

// MustParse is like Parse but panics on error. Intended for tests and constants.
func MustParse(src string) Expr {
	e, err := Parse(src)
	if err != nil {
		panic(err)
	}
	return e
}

func (p *parser) peek() token {
	return p.tokens[p.pos]
}

func (p *parser) next() token {
	tok := p.tokens[p.pos]
	if tok.kind != tokEOF {
		p.pos++
	}
	return tok
}

func (p *parser) errorf(tok token, format string, args ...interface{}) error {
	return &SyntaxError{Source: p.src, Pos: tok.pos, Reason: fmt.Sprintf(format, args...)}
}

func (p *parser) parseOr() (Expr, error) {
	left, err := p.parseAnd()
	if err != nil {
		return nil, err
	}
	for p.peek().kind == tokOr {
		p.next()
		right, err := p.parseAnd()
		if err != nil {
			return nil, err
		}
		left = Or{L: left, R: right}
	}
	return left, nil
}

func (p *parser) parseAnd() (Expr, error) {
	left, err := p.parseUnary()
	if err != nil {
		return nil, err
	}
	for p.peek().kind == tokAnd {
		p.next()
		right, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		left = And{L: left, R: right}
	}
	return left, nil
}

func (p *parser) parseUnary() (Expr, error) {
	if p.peek().kind == tokNot {
		p.next()
		x, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		return Not{X: x}, nil
	}
	return p.parsePrimary()
}

func (p *parser) parsePrimary() (Expr, error) {
	tok := p.next()
	switch tok.kind {
	case tokIdent:
		return Ident{Name: tok.text, Pos: tok.pos}, nil
	case tokLParen:
		inner, err := p.parseOr()
		if err != nil {
			return nil, err
		}
		closing := p.next()
		if closing.kind != tokRParen {
			return nil, p.errorf(closing, "unbalanced parenthesis, expected ')' but found %s", closing.kind)
		}
		return inner, nil
	case tokEOF:
		return nil, p.errorf(tok, "unexpected end of expression")
	case tokRParen:
		return nil, p.errorf(tok, "unbalanced parenthesis")
	default:
		return nil, p.errorf(tok, "unexpected %s", tok.kind)
	}
}
