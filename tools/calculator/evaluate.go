package calculator

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

var (
	// ErrInvalidCharacter the expression contains characters outside digits, + - * / . ( )
	ErrInvalidCharacter = errors.New("invalid characters in expression")
	// ErrSyntax the expression does not match the arithmetic grammar
	ErrSyntax = errors.New("invalid expression")
	// ErrDivisionByZero the expression divides by zero
	ErrDivisionByZero = errors.New("division by zero")
	// ErrNotFinite the result overflowed to an infinite or NaN value
	ErrNotFinite = errors.New("result is not a finite number")
)

const allowedChars = "0123456789+-*/.()"

// Evaluate computes an arithmetic expression made of decimal literals,
// the four basic operators, unary signs and parentheses.
// Spaces are ignored. Nothing outside that grammar is ever executed.
func Evaluate(expression string) (float64, error) {
	expression = strings.ReplaceAll(expression, " ", "")
	for _, r := range expression {
		if !strings.ContainsRune(allowedChars, r) {
			return 0, fmt.Errorf("%w: %q", ErrInvalidCharacter, r)
		}
	}
	p := &parser{src: expression}
	v, err := p.expr()
	if err != nil {
		return 0, err
	}
	if p.pos < len(p.src) {
		return 0, fmt.Errorf("%w: unexpected %q at %d", ErrSyntax, p.src[p.pos], p.pos)
	}
	if math.IsInf(v, 0) || math.IsNaN(v) {
		return 0, ErrNotFinite
	}
	return v, nil
}

// parser is a recursive-descent evaluator:
//
//	expr    := term (('+'|'-') term)*
//	term    := unary (('*'|'/') unary)*
//	unary   := ('+'|'-') unary | primary
//	primary := number | '(' expr ')'
type parser struct {
	src   string
	pos   int
	depth int
}

// maxDepth bounds nesting of parentheses and unary signs
const maxDepth = 256

func (p *parser) peek() byte {
	if p.pos < len(p.src) {
		return p.src[p.pos]
	}
	return 0
}

func (p *parser) expr() (float64, error) {
	left, err := p.term()
	if err != nil {
		return 0, err
	}
	for {
		switch op := p.peek(); op {
		case '+', '-':
			p.pos++
			right, err := p.term()
			if err != nil {
				return 0, err
			}
			if op == '+' {
				left += right
			} else {
				left -= right
			}
		default:
			return left, nil
		}
	}
}

func (p *parser) term() (float64, error) {
	left, err := p.unary()
	if err != nil {
		return 0, err
	}
	for {
		switch op := p.peek(); op {
		case '*', '/':
			p.pos++
			right, err := p.unary()
			if err != nil {
				return 0, err
			}
			if op == '*' {
				left *= right
			} else {
				if right == 0 {
					return 0, ErrDivisionByZero
				}
				left /= right
			}
		default:
			return left, nil
		}
	}
}

func (p *parser) unary() (float64, error) {
	if p.depth++; p.depth > maxDepth {
		return 0, fmt.Errorf("%w: nesting too deep", ErrSyntax)
	}
	defer func() { p.depth-- }()
	switch p.peek() {
	case '+':
		p.pos++
		return p.unary()
	case '-':
		p.pos++
		v, err := p.unary()
		return -v, err
	}
	return p.primary()
}

func (p *parser) primary() (float64, error) {
	switch c := p.peek(); {
	case c == '(':
		p.pos++
		v, err := p.expr()
		if err != nil {
			return 0, err
		}
		if p.peek() != ')' {
			return 0, fmt.Errorf("%w: missing ')' at %d", ErrSyntax, p.pos)
		}
		p.pos++
		return v, nil
	case c == '.' || (c >= '0' && c <= '9'):
		return p.number()
	case c == 0:
		return 0, fmt.Errorf("%w: unexpected end of expression", ErrSyntax)
	default:
		return 0, fmt.Errorf("%w: unexpected %q at %d", ErrSyntax, c, p.pos)
	}
}

func (p *parser) number() (float64, error) {
	start := p.pos
	digits, dots := 0, 0
	for p.pos < len(p.src) {
		c := p.src[p.pos]
		if c == '.' {
			dots++
		} else if c >= '0' && c <= '9' {
			digits++
		} else {
			break
		}
		p.pos++
	}
	lit := p.src[start:p.pos]
	if digits == 0 || dots > 1 {
		return 0, fmt.Errorf("%w: bad number %q", ErrSyntax, lit)
	}
	v, err := strconv.ParseFloat(lit, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: bad number %q", ErrSyntax, lit)
	}
	return v, nil
}
