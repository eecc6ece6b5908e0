package condition

import "fmt"

type parser struct {
	src    string
	tokens []token
	pos    int
}

func (p *parser) done() bool { return p.pos >= len(p.tokens) }

func (p *parser) peek() token { return p.tokens[p.pos] }

func (p *parser) match(kind tokenKind) bool {
	if p.done() || p.tokens[p.pos].kind != kind {
		return false
	}
	p.pos++
	return true
}

func (p *parser) errorf(format string, args ...any) error {
	pos := len(p.src)
	if !p.done() {
		pos = p.peek().pos
	}
	return &SyntaxError{Expr: p.src, Pos: pos, Msg: fmt.Sprintf(format, args...)}
}

func (p *parser) parseOr() (node, error) {
	left, err := p.parseAnd()
	if err != nil {
		return nil, err
	}
	for p.match(tokenOr) {
		right, err := p.parseAnd()
		if err != nil {
			return nil, err
		}
		left = orNode{left: left, right: right}
	}
	return left, nil
}

func (p *parser) parseAnd() (node, error) {
	left, err := p.parseUnary()
	if err != nil {
		return nil, err
	}
	for p.match(tokenAnd) {
		right, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		left = andNode{left: left, right: right}
	}
	return left, nil
}

func (p *parser) parseUnary() (node, error) {
	if p.match(tokenNot) {
		inner, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		return notNode{inner: inner}, nil
	}
	return p.parsePrimary()
}

func (p *parser) parsePrimary() (node, error) {
	if p.match(tokenLParen) {
		inner, err := p.parseOr()
		if err != nil {
			return nil, err
		}
		if !p.match(tokenRParen) {
			return nil, p.errorf("missing closing ')'")
		}
		return inner, nil
	}

	left, err := p.parseOperand()
	if err != nil {
		return nil, err
	}

	switch {
	case p.match(tokenEq):
		right, err := p.parseOperand()
		if err != nil {
			return nil, err
		}
		return compareNode{left: left, right: right}, nil
	case p.match(tokenNeq):
		right, err := p.parseOperand()
		if err != nil {
			return nil, err
		}
		return compareNode{left: left, right: right, negate: true}, nil
	}
	return truthyNode{operand: left}, nil
}

func (p *parser) parseOperand() (operand, error) {
	if p.done() {
		return operand{}, p.errorf("expected operand, got end of expression")
	}
	tok := p.peek()
	var op operand
	switch tok.kind {
	case tokenIdent:
		op = operand{kind: operandIdent, raw: tok.raw}
	case tokenString:
		op = operand{kind: operandString, raw: tok.raw}
	case tokenNumber:
		op = operand{kind: operandNumber, raw: tok.raw}
	case tokenBool:
		op = operand{kind: operandBool, raw: tok.raw}
	case tokenNull, tokenUndefined:
		op = operand{kind: operandNull, raw: tok.raw}
	default:
		return operand{}, p.errorf("expected operand, got %q", tok.raw)
	}
	p.pos++
	return op, nil
}
