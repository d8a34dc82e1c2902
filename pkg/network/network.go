// Package network turns a parsed network into symbolic reactions and ODEs.
//
// Every reaction gets a rate equal to the product of the population
// symbols of its reactants (`__s<i>`) and its rate factors. Forward and
// reverse reactions of the same rule are also merged into bidirectional
// records with a net rate. ODEs are accumulated from the unmerged
// reactions, so no flux is lost when a net rate cancels.
package network

import (
	"strconv"
	"strings"

	"github.com/gnames/rbmnet/pkg/expr"
	"github.com/gnames/rbmnet/pkg/model"
	"github.com/gnames/rbmnet/pkg/netfile"
)

// Assemble stores the species, reactions, bidirectional reactions, ODEs and
// observable assignments of the network in the model. The model is left
// unchanged when an error is returned.
func Assemble(m *model.Model, net *netfile.Network) error {
	if err := check(m, net); err != nil {
		return err
	}

	odes := make([]expr.Expr, len(net.Species))
	for i := range odes {
		odes[i] = expr.Zero
	}

	type merged struct {
		bd      *model.BidirectionalReaction
		reverse bool
	}
	var (
		reactions []*model.Reaction
		order     []*merged
		cache     = make(map[string]*merged)
	)

	for _, rr := range net.Reactions {
		rate := Rate(rr.Reactants, rr.Factors)
		reactions = append(reactions, &model.Reaction{
			Reactants: rr.Reactants,
			Products:  rr.Products,
			Rate:      rate,
			Rule:      rr.Rule,
			Reverse:   rr.Reverse,
		})

		if mr, ok := cache[key(rr.Rule, rr.Products, rr.Reactants)]; ok {
			mr.bd.Reversible = true
			mr.bd.Rate = expr.Sub(mr.bd.Rate, rate)
		} else {
			mr := &merged{
				bd: &model.BidirectionalReaction{
					Reactants: rr.Reactants,
					Products:  rr.Products,
					Rate:      rate,
					Rule:      rr.Rule,
				},
				reverse: rr.Reverse,
			}
			cache[key(rr.Rule, rr.Reactants, rr.Products)] = mr
			order = append(order, mr)
		}

		for _, p := range rr.Products {
			odes[p] = expr.Add(odes[p], rate)
		}
		for _, r := range rr.Reactants {
			odes[r] = expr.Sub(odes[r], rate)
		}
	}

	// records first seen in the reverse direction are flipped to forward
	bidirectional := make([]*model.BidirectionalReaction, len(order))
	for i, mr := range order {
		if mr.reverse {
			mr.bd.Reactants, mr.bd.Products = mr.bd.Products, mr.bd.Reactants
			mr.bd.Rate = expr.Neg(mr.bd.Rate)
		}
		bidirectional[i] = mr.bd
	}

	for _, o := range m.Observables.All() {
		o.Coefficients, o.Species = []int{}, []int{}
	}
	for _, g := range net.Groups {
		o, _ := m.Observables.Get(g.Name)
		o.Coefficients = append(o.Coefficients, g.Coefficients...)
		o.Species = append(o.Species, g.Species...)
	}

	m.Species = net.Species
	m.ODEs = odes
	m.Reactions = reactions
	m.ReactionsBidirectional = bidirectional
	return nil
}

func check(m *model.Model, net *netfile.Network) error {
	for i, rr := range net.Reactions {
		if !m.Rules.Has(rr.Rule) {
			return UnknownRuleError(rr.Rule, i)
		}
	}
	for _, g := range net.Groups {
		if !m.Observables.Has(g.Name) {
			return netfile.NetworkParseError(0, "",
				"group "+g.Name+" is not an observable of model "+m.Name, nil)
		}
	}
	return nil
}

// Rate multiplies the population symbols of the reactants by the rate
// factors.
func Rate(reactants []int, factors []expr.Expr) expr.Expr {
	fs := make([]expr.Expr, 0, len(reactants)+len(factors))
	for _, r := range reactants {
		fs = append(fs, expr.S(model.SpeciesSymbol(r)))
	}
	fs = append(fs, factors...)
	return expr.Mul(fs...)
}

func key(rule string, reactants, products []int) string {
	var sb strings.Builder
	sb.WriteString(rule)
	for _, side := range [][]int{reactants, products} {
		sb.WriteByte('|')
		for i, v := range side {
			if i > 0 {
				sb.WriteByte(',')
			}
			sb.WriteString(strconv.Itoa(v))
		}
	}
	return sb.String()
}
