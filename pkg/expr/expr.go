// Package expr provides a small symbolic algebra for rate laws.
//
// Expressions are immutable trees of numbers, symbols, sums, products,
// powers and function calls. Constructors (Add, Mul, Pow and friends) keep
// trees in a canonical form: nested sums and products are flattened, numeric
// parts are folded, like terms and like factors are collected and operands
// are sorted. Two canonical expressions are equal when their String() forms
// are equal. Expand distributes products over sums, which makes polynomial
// identities comparable as well.
package expr

import (
	"math"
	"strconv"
	"strings"
)

// Expr is a node of a symbolic expression tree.
type Expr interface {
	// String renders the expression in a Python-like infix syntax
	// (`**` for powers). The rendering is deterministic.
	String() string
	isExpr()
}

// Num is a numeric constant.
type Num float64

// Sym is a named symbol: a parameter, an expression, an observable or a
// species population.
type Sym string

// Sum is an n-ary addition. Use Add to build it.
type Sum struct {
	Terms []Expr
}

// Product is an n-ary multiplication. Use Mul to build it.
type Product struct {
	Factors []Expr
}

// Power is Base raised to Exp. Use Pow to build it.
type Power struct {
	Base Expr
	Exp  Expr
}

// Call is an application of a named function (exp, log, sqrt...).
type Call struct {
	Fn   string
	Args []Expr
}

func (Num) isExpr()     {}
func (Sym) isExpr()     {}
func (Sum) isExpr()     {}
func (Product) isExpr() {}
func (Power) isExpr()   {}
func (Call) isExpr()    {}

var (
	// Zero is the additive identity.
	Zero Expr = Num(0)
	// One is the multiplicative identity.
	One Expr = Num(1)
)

func (n Num) String() string {
	v := float64(n)
	if v == math.Trunc(v) && math.Abs(v) < 1e15 {
		return strconv.FormatInt(int64(v), 10)
	}
	return strconv.FormatFloat(v, 'g', -1, 64)
}

func (s Sym) String() string {
	return string(s)
}

func (s Sum) String() string {
	var sb strings.Builder
	for i, t := range s.Terms {
		ts := t.String()
		switch {
		case i == 0:
			sb.WriteString(ts)
		case strings.HasPrefix(ts, "-"):
			sb.WriteString(" - ")
			sb.WriteString(ts[1:])
		default:
			sb.WriteString(" + ")
			sb.WriteString(ts)
		}
	}
	return sb.String()
}

func (p Product) String() string {
	var parts []string
	neg := false
	for i, f := range p.Factors {
		if n, ok := f.(Num); ok && i == 0 {
			if n == -1 {
				neg = true
				continue
			}
			parts = append(parts, n.String())
			continue
		}
		parts = append(parts, wrap(f, precProduct))
	}
	res := strings.Join(parts, "*")
	if neg {
		res = "-" + res
	}
	return res
}

func (p Power) String() string {
	return wrap(p.Base, precPower+1) + "**" + wrap(p.Exp, precPower)
}

func (c Call) String() string {
	args := make([]string, len(c.Args))
	for i, a := range c.Args {
		args[i] = a.String()
	}
	return c.Fn + "(" + strings.Join(args, ", ") + ")"
}

const (
	precSum = iota + 1
	precProduct
	precPower
	precAtom
)

func precedence(e Expr) int {
	switch v := e.(type) {
	case Sum:
		return precSum
	case Product:
		return precProduct
	case Power:
		return precPower
	case Num:
		if v < 0 {
			return precSum
		}
		return precAtom
	default:
		return precAtom
	}
}

// wrap parenthesizes e when it binds weaker than the surrounding operator.
func wrap(e Expr, outer int) string {
	if precedence(e) < outer {
		return "(" + e.String() + ")"
	}
	return e.String()
}

// Equal reports whether two expressions are identical after expansion.
func Equal(a, b Expr) bool {
	return Expand(a).String() == Expand(b).String()
}

// IsZero reports whether e is the numeric constant zero.
func IsZero(e Expr) bool {
	n, ok := e.(Num)
	return ok && n == 0
}
