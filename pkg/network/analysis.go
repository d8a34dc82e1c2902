package network

import (
	"strings"

	"github.com/gnames/rbmnet/pkg/expr"
	"github.com/gnames/rbmnet/pkg/model"
)

// CheckConservation returns the expanded sum of all ODE right-hand sides.
// It is zero for a closed system where every reaction preserves the
// number of species entities.
func CheckConservation(odes []expr.Expr) expr.Expr {
	return expr.Expand(expr.Add(odes...))
}

// Flux returns the expanded net flux of species i over all reactions: the
// sum of rates of reactions producing it minus the sum of rates of
// reactions consuming it. It equals the expanded ODE of the species.
func Flux(reactions []*model.Reaction, i int) expr.Expr {
	var terms []expr.Expr
	for _, r := range reactions {
		for _, p := range r.Products {
			if p == i {
				terms = append(terms, r.Rate)
			}
		}
		for _, s := range r.Reactants {
			if s == i {
				terms = append(terms, expr.Neg(r.Rate))
			}
		}
	}
	return expr.Expand(expr.Add(terms...))
}

// Propensity converts the deterministic rate of a reaction into a
// stochastic propensity. Powers of species populations become falling
// factorials (`__s0**2` turns into `__s0*(__s0 - 1)`), and expressions and
// generated observables are replaced by their definitions.
func Propensity(m *model.Model, r *model.Reaction) expr.Expr {
	return m.Resolve(fallingFactorial(r.Rate))
}

func fallingFactorial(e expr.Expr) expr.Expr {
	switch v := e.(type) {
	case expr.Power:
		base, ok := v.Base.(expr.Sym)
		n, isNum := v.Exp.(expr.Num)
		if !ok || !isNum || !strings.HasPrefix(string(base), "__s") ||
			float64(n) < 2 || float64(n) != float64(int(n)) {
			return e
		}
		fs := []expr.Expr{base}
		for i := 1; i < int(n); i++ {
			fs = append(fs, expr.Sub(base, expr.N(float64(i))))
		}
		return expr.Mul(fs...)
	case expr.Product:
		fs := make([]expr.Expr, len(v.Factors))
		for i, f := range v.Factors {
			fs[i] = fallingFactorial(f)
		}
		return expr.Mul(fs...)
	case expr.Sum:
		ts := make([]expr.Expr, len(v.Terms))
		for i, t := range v.Terms {
			ts[i] = fallingFactorial(t)
		}
		return expr.Add(ts...)
	default:
		return e
	}
}
