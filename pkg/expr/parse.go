package expr

import (
	"fmt"
	"strconv"
	"strings"
	"text/scanner"
)

// Parse reads an infix formula such as `kf*A_total/(Km + A_total)` or
// `0.5*k**2`. Both `**` and `^` denote powers; `name(args)` is a function
// call.
func Parse(s string) (Expr, error) {
	p := &parser{src: s}
	p.sc.Init(strings.NewReader(s))
	p.sc.Mode = scanner.ScanIdents | scanner.ScanInts | scanner.ScanFloats
	p.sc.Error = func(_ *scanner.Scanner, msg string) {
		if p.err == nil {
			p.err = fmt.Errorf("cannot parse %q: %s", s, msg)
		}
	}
	p.next()
	res := p.sum()
	if p.err == nil && p.tok != scanner.EOF {
		p.fail("unexpected %q", p.sc.TokenText())
	}
	if p.err != nil {
		return nil, p.err
	}
	return res, nil
}

// MustParse is like Parse but panics on error. Intended for literals in
// tests and package-level variables.
func MustParse(s string) Expr {
	res, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return res
}

type parser struct {
	src string
	sc  scanner.Scanner
	tok rune
	err error
}

func (p *parser) next() {
	p.tok = p.sc.Scan()
}

func (p *parser) fail(format string, args ...any) {
	if p.err == nil {
		p.err = fmt.Errorf("cannot parse %q at %s: %s",
			p.src, p.sc.Position, fmt.Sprintf(format, args...))
	}
}

func (p *parser) sum() Expr {
	res := []Expr{p.product()}
	for p.err == nil && (p.tok == '+' || p.tok == '-') {
		op := p.tok
		p.next()
		t := p.product()
		if op == '-' {
			t = Neg(t)
		}
		res = append(res, t)
	}
	return Add(res...)
}

func (p *parser) product() Expr {
	res := p.unary()
	for p.err == nil {
		switch {
		case p.tok == '*' && p.sc.Peek() != '*':
			p.next()
			res = Mul(res, p.unary())
		case p.tok == '/':
			p.next()
			res = Div(res, p.unary())
		default:
			return res
		}
	}
	return res
}

func (p *parser) unary() Expr {
	switch p.tok {
	case '-':
		p.next()
		return Neg(p.unary())
	case '+':
		p.next()
		return p.unary()
	}
	return p.power()
}

func (p *parser) power() Expr {
	base := p.atom()
	if p.err != nil {
		return base
	}
	switch {
	case p.tok == '^':
		p.next()
		return Pow(base, p.unary())
	case p.tok == '*' && p.sc.Peek() == '*':
		p.next()
		p.next()
		return Pow(base, p.unary())
	}
	return base
}

func (p *parser) atom() Expr {
	switch p.tok {
	case scanner.Int, scanner.Float:
		text := p.sc.TokenText()
		v, err := strconv.ParseFloat(text, 64)
		if err != nil {
			p.fail("bad number %q", text)
			return Zero
		}
		p.next()
		return Num(v)
	case scanner.Ident:
		name := p.sc.TokenText()
		p.next()
		if p.tok != '(' {
			return Sym(name)
		}
		p.next()
		var args []Expr
		for p.err == nil && p.tok != ')' {
			args = append(args, p.sum())
			if p.tok == ',' {
				p.next()
				continue
			}
			if p.tok != ')' {
				p.fail("expected ',' or ')' in call of %s", name)
			}
		}
		p.next()
		return Call{Fn: name, Args: args}
	case '(':
		p.next()
		res := p.sum()
		if p.tok != ')' {
			p.fail("expected ')'")
			return res
		}
		p.next()
		return res
	case scanner.EOF:
		p.fail("unexpected end of formula")
	default:
		p.fail("unexpected %q", p.sc.TokenText())
	}
	return Zero
}
