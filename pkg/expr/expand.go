package expr

import (
	"fmt"
	"math"
	"slices"
)

// maxExpandPower limits the multiplication of (a + b)**n during expansion.
const maxExpandPower = 16

// Expand distributes products over sums and multiplies out small positive
// integer powers of sums.
func Expand(e Expr) Expr {
	switch v := e.(type) {
	case Sum:
		terms := make([]Expr, len(v.Terms))
		for i, t := range v.Terms {
			terms[i] = Expand(t)
		}
		return Add(terms...)
	case Product:
		acc := []Expr{One}
		for _, f := range v.Factors {
			acc = distribute(acc, terms(Expand(f)))
		}
		return Add(acc...)
	case Power:
		base := Expand(v.Base)
		exp := Expand(v.Exp)
		n, ok := exp.(Num)
		if s, isSum := base.(Sum); isSum && ok && n > 1 && n <= maxExpandPower && isInteger(float64(n)) {
			acc := []Expr{One}
			for range int(n) {
				acc = distribute(acc, s.Terms)
			}
			return Add(acc...)
		}
		return Pow(base, exp)
	case Call:
		args := make([]Expr, len(v.Args))
		for i, a := range v.Args {
			args[i] = Expand(a)
		}
		return Call{Fn: v.Fn, Args: args}
	default:
		return e
	}
}

func terms(e Expr) []Expr {
	if s, ok := e.(Sum); ok {
		return s.Terms
	}
	return []Expr{e}
}

func distribute(left, right []Expr) []Expr {
	res := make([]Expr, 0, len(left)*len(right))
	for _, a := range left {
		for _, b := range right {
			res = append(res, Mul(a, b))
		}
	}
	return res
}

// Subs replaces symbols by expressions. Symbols absent from the map are
// kept. The result is rebuilt through the canonical constructors.
func Subs(e Expr, repl map[string]Expr) Expr {
	switch v := e.(type) {
	case Sym:
		if r, ok := repl[string(v)]; ok {
			return r
		}
		return v
	case Sum:
		ts := make([]Expr, len(v.Terms))
		for i, t := range v.Terms {
			ts[i] = Subs(t, repl)
		}
		return Add(ts...)
	case Product:
		fs := make([]Expr, len(v.Factors))
		for i, f := range v.Factors {
			fs[i] = Subs(f, repl)
		}
		return Mul(fs...)
	case Power:
		return Pow(Subs(v.Base, repl), Subs(v.Exp, repl))
	case Call:
		args := make([]Expr, len(v.Args))
		for i, a := range v.Args {
			args[i] = Subs(a, repl)
		}
		return Call{Fn: v.Fn, Args: args}
	default:
		return e
	}
}

// Symbols returns the sorted unique names of all symbols in e.
func Symbols(e Expr) []string {
	seen := make(map[string]struct{})
	var walk func(Expr)
	walk = func(e Expr) {
		switch v := e.(type) {
		case Sym:
			seen[string(v)] = struct{}{}
		case Sum:
			for _, t := range v.Terms {
				walk(t)
			}
		case Product:
			for _, f := range v.Factors {
				walk(f)
			}
		case Power:
			walk(v.Base)
			walk(v.Exp)
		case Call:
			for _, a := range v.Args {
				walk(a)
			}
		}
	}
	walk(e)
	res := make([]string, 0, len(seen))
	for k := range seen {
		res = append(res, k)
	}
	slices.Sort(res)
	return res
}

var funcs = map[string]func(...float64) (float64, error){
	"exp":  unary(math.Exp),
	"log":  unary(math.Log),
	"ln":   unary(math.Log),
	"sqrt": unary(math.Sqrt),
	"abs":  unary(math.Abs),
	"sin":  unary(math.Sin),
	"cos":  unary(math.Cos),
	"tan":  unary(math.Tan),
	"min": func(a ...float64) (float64, error) {
		if len(a) == 0 {
			return 0, fmt.Errorf("min needs at least one argument")
		}
		return slices.Min(a), nil
	},
	"max": func(a ...float64) (float64, error) {
		if len(a) == 0 {
			return 0, fmt.Errorf("max needs at least one argument")
		}
		return slices.Max(a), nil
	},
}

func unary(f func(float64) float64) func(...float64) (float64, error) {
	return func(a ...float64) (float64, error) {
		if len(a) != 1 {
			return 0, fmt.Errorf("expected 1 argument, got %d", len(a))
		}
		return f(a[0]), nil
	}
}

// Eval computes the numeric value of e with symbol values taken from env.
func Eval(e Expr, env map[string]float64) (float64, error) {
	switch v := e.(type) {
	case Num:
		return float64(v), nil
	case Sym:
		val, ok := env[string(v)]
		if !ok {
			return 0, fmt.Errorf("symbol %q has no value", string(v))
		}
		return val, nil
	case Sum:
		var res float64
		for _, t := range v.Terms {
			x, err := Eval(t, env)
			if err != nil {
				return 0, err
			}
			res += x
		}
		return res, nil
	case Product:
		res := 1.0
		for _, f := range v.Factors {
			x, err := Eval(f, env)
			if err != nil {
				return 0, err
			}
			res *= x
		}
		return res, nil
	case Power:
		b, err := Eval(v.Base, env)
		if err != nil {
			return 0, err
		}
		x, err := Eval(v.Exp, env)
		if err != nil {
			return 0, err
		}
		return math.Pow(b, x), nil
	case Call:
		f, ok := funcs[v.Fn]
		if !ok {
			return 0, fmt.Errorf("unknown function %q", v.Fn)
		}
		args := make([]float64, len(v.Args))
		for i, a := range v.Args {
			x, err := Eval(a, env)
			if err != nil {
				return 0, err
			}
			args[i] = x
		}
		return f(args...)
	default:
		return 0, fmt.Errorf("cannot evaluate %T", e)
	}
}
