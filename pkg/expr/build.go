package expr

import (
	"math"
	"slices"
	"strings"
)

// N returns a numeric constant.
func N(v float64) Expr {
	return Num(v)
}

// S returns a symbol.
func S(name string) Expr {
	return Sym(name)
}

// Syms converts names into symbols.
func Syms(names ...string) []Expr {
	res := make([]Expr, len(names))
	for i, v := range names {
		res[i] = Sym(v)
	}
	return res
}

// Add returns the canonical sum of its arguments. Like terms are
// collected (2*k*x + k*x becomes 3*k*x), zero terms are dropped.
func Add(xs ...Expr) Expr {
	var constant float64
	coefs := make(map[string]float64)
	bodies := make(map[string]Expr)
	var keys []string

	var collect func(e Expr)
	collect = func(e Expr) {
		switch v := e.(type) {
		case nil:
			return
		case Sum:
			for _, t := range v.Terms {
				collect(t)
			}
		case Num:
			constant += float64(v)
		default:
			c, body := splitCoef(v)
			key := body.String()
			if _, ok := coefs[key]; !ok {
				keys = append(keys, key)
				bodies[key] = body
			}
			coefs[key] += c
		}
	}
	for _, x := range xs {
		collect(x)
	}

	slices.Sort(keys)
	var terms []Expr
	if constant != 0 {
		terms = append(terms, Num(constant))
	}
	for _, k := range keys {
		c := coefs[k]
		if c == 0 {
			continue
		}
		terms = append(terms, withCoef(c, bodies[k]))
	}

	switch len(terms) {
	case 0:
		return Zero
	case 1:
		return terms[0]
	default:
		return Sum{Terms: terms}
	}
}

// Sub returns a - b.
func Sub(a, b Expr) Expr {
	return Add(a, Neg(b))
}

// Neg returns -e.
func Neg(e Expr) Expr {
	return Mul(Num(-1), e)
}

// Mul returns the canonical product of its arguments. Numeric factors are
// folded into a leading coefficient and repeated bases are collected into
// powers (x*x becomes x**2).
func Mul(xs ...Expr) Expr {
	coef := 1.0
	exps := make(map[string]float64)
	bases := make(map[string]Expr)
	var keys []string
	var opaque []Expr

	addBase := func(b Expr, e float64) {
		key := b.String()
		if _, ok := exps[key]; !ok {
			keys = append(keys, key)
			bases[key] = b
		}
		exps[key] += e
	}

	var collect func(e Expr)
	collect = func(e Expr) {
		switch v := e.(type) {
		case nil:
			return
		case Product:
			for _, f := range v.Factors {
				collect(f)
			}
		case Num:
			coef *= float64(v)
		case Power:
			if n, ok := v.Exp.(Num); ok {
				addBase(v.Base, float64(n))
				return
			}
			opaque = append(opaque, v)
		default:
			addBase(v, 1)
		}
	}
	for _, x := range xs {
		collect(x)
	}

	if coef == 0 {
		return Zero
	}

	slices.Sort(keys)
	var factors []Expr
	for _, k := range keys {
		e := exps[k]
		switch e {
		case 0:
			continue
		case 1:
			factors = append(factors, bases[k])
		default:
			factors = append(factors, Power{Base: bases[k], Exp: Num(e)})
		}
	}
	factors = append(factors, opaque...)
	slices.SortStableFunc(factors, func(a, b Expr) int {
		return strings.Compare(factorKey(a), factorKey(b))
	})

	if len(factors) == 0 {
		return Num(coef)
	}
	if coef != 1 {
		factors = append([]Expr{Num(coef)}, factors...)
	}
	if len(factors) == 1 {
		return factors[0]
	}
	return Product{Factors: factors}
}

// Div returns a / b.
func Div(a, b Expr) Expr {
	if n, ok := b.(Num); ok && n != 0 {
		return Mul(Num(1/float64(n)), a)
	}
	return Mul(a, Pow(b, Num(-1)))
}

// Pow returns base**exp, folding numeric cases.
func Pow(base, exp Expr) Expr {
	en, expNum := exp.(Num)
	if expNum {
		switch en {
		case 0:
			return One
		case 1:
			return base
		}
	}
	switch b := base.(type) {
	case Num:
		if expNum {
			return Num(math.Pow(float64(b), float64(en)))
		}
		if b == 1 {
			return One
		}
	case Power:
		if bn, ok := b.Exp.(Num); ok && expNum && isInteger(float64(en)) {
			return Pow(b.Base, Num(float64(bn)*float64(en)))
		}
	case Product:
		if expNum && isInteger(float64(en)) {
			factors := make([]Expr, len(b.Factors))
			for i, f := range b.Factors {
				factors[i] = Pow(f, exp)
			}
			return Mul(factors...)
		}
	}
	if expNum {
		return Mul(Power{Base: base, Exp: exp})
	}
	return Power{Base: base, Exp: exp}
}

// Fn returns a function call node.
func Fn(name string, args ...Expr) Expr {
	return Call{Fn: name, Args: args}
}

// splitCoef separates a numeric coefficient from the rest of a term.
func splitCoef(e Expr) (float64, Expr) {
	p, ok := e.(Product)
	if !ok {
		return 1, e
	}
	n, ok := p.Factors[0].(Num)
	if !ok {
		return 1, e
	}
	rest := p.Factors[1:]
	if len(rest) == 1 {
		return float64(n), rest[0]
	}
	return float64(n), Product{Factors: slices.Clone(rest)}
}

func withCoef(c float64, body Expr) Expr {
	if c == 1 {
		return body
	}
	if p, ok := body.(Product); ok {
		factors := append([]Expr{Num(c)}, p.Factors...)
		return Product{Factors: factors}
	}
	return Product{Factors: []Expr{Num(c), body}}
}

func factorKey(e Expr) string {
	if p, ok := e.(Power); ok {
		return p.Base.String()
	}
	return e.String()
}

func isInteger(v float64) bool {
	return v == math.Trunc(v)
}
