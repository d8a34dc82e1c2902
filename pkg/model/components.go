package model

import (
	"fmt"
	"slices"
	"strings"

	"github.com/gnames/rbmnet/pkg/expr"
)

// Compartment is a named volume (dimension 3) or surface (dimension 2),
// optionally nested in a parent compartment.
type Compartment struct {
	Name      string
	Dimension int
	// Parent is the name of the enclosing compartment, if any.
	Parent string
	// Size is the name of a parameter holding the compartment size, if any.
	Size string
}

// Parameter is a named numeric constant, the symbolic leaf of all rate
// expressions.
type Parameter struct {
	Name  string
	Value float64
}

// Expression is a named formula over parameters, observables and other
// expressions.
type Expression struct {
	Name string
	Expr expr.Expr
}

// Rule transforms reactant patterns into product patterns. Forward and
// Reverse name parameters or expressions; Reverse is used only when the
// rule is reversible.
type Rule struct {
	Name       string
	Reactants  []*ComplexPattern
	Products   []*ComplexPattern
	Forward    string
	Reverse    string
	Reversible bool
	// DeleteMolecules permits deleting molecules from complexes when a
	// product side drops some of them.
	DeleteMolecules bool
	// MoveConnected moves connected molecules together when a compartment
	// changes.
	MoveConnected bool
}

// NewRule checks that mapping labels are consistent across the arrow:
// labels are unique on each side, and every product label is also present
// on the reactant side.
func NewRule(
	name string,
	reactants, products []*ComplexPattern,
	forward, reverse string,
	reversible bool,
) (*Rule, error) {
	if !isIdentifier(name) {
		return nil, PatternValidationError("", "", "rule name "+name+" is not a valid identifier")
	}
	if len(reactants) == 0 && len(products) == 0 {
		return nil, PatternValidationError("", "", "rule "+name+" has no reactants and no products")
	}
	if forward == "" {
		return nil, PatternValidationError("", "", "rule "+name+" has no forward rate")
	}
	if reversible && reverse == "" {
		return nil, PatternValidationError("", "", "reversible rule "+name+" has no reverse rate")
	}
	left, err := sideLabels(reactants)
	if err != nil {
		return nil, err
	}
	right, err := sideLabels(products)
	if err != nil {
		return nil, err
	}
	for l, ep := range right {
		if _, ok := left[l]; !ok {
			return nil, PatternValidationError(ep.monomer, ep.site,
				"mapping label "+l+" of rule "+name+" is missing on the reactant side")
		}
	}
	if reversible {
		for l, ep := range left {
			if _, ok := right[l]; !ok {
				return nil, PatternValidationError(ep.monomer, ep.site,
					"mapping label "+l+" of reversible rule "+name+" is missing on the product side")
			}
		}
	}
	return &Rule{
		Name:       name,
		Reactants:  slices.Clone(reactants),
		Products:   slices.Clone(products),
		Forward:    forward,
		Reverse:    reverse,
		Reversible: reversible,
	}, nil
}

type labelSite struct {
	monomer string
	site    string
}

func sideLabels(side []*ComplexPattern) (map[string]labelSite, error) {
	res := make(map[string]labelSite)
	for _, cp := range side {
		for _, mp := range cp.Monomers {
			for _, site := range mp.Monomer.sites {
				l, ok := mp.Labels[site]
				if !ok {
					continue
				}
				if _, dup := res[l]; dup {
					return nil, PatternValidationError(mp.Monomer.name, site,
						"mapping label "+l+" is used twice on one side of a rule")
				}
				res[l] = labelSite{monomer: mp.Monomer.name, site: site}
			}
		}
	}
	return res, nil
}

// String renders the rule as `name: reactants -> products rate`.
func (r *Rule) String() string {
	arrow, rates := "->", r.Forward
	if r.Reversible {
		arrow, rates = "<->", r.Forward+", "+r.Reverse
	}
	return fmt.Sprintf("%s: %s %s %s %s",
		r.Name, joinComplexes(r.Reactants), arrow, joinComplexes(r.Products), rates)
}

func joinComplexes(cps []*ComplexPattern) string {
	if len(cps) == 0 {
		return "0"
	}
	parts := make([]string, len(cps))
	for i, cp := range cps {
		parts[i] = cp.String()
	}
	return strings.Join(parts, " + ")
}

// ObservableMatch selects whether an observable counts molecules or
// species.
type ObservableMatch string

const (
	MatchMolecules ObservableMatch = "Molecules"
	MatchSpecies   ObservableMatch = "Species"
)

// Observable is a named weighted sum of species populations. Coefficients
// and Species are parallel slices filled by network generation.
type Observable struct {
	Name         string
	Patterns     []*ComplexPattern
	Match        ObservableMatch
	Coefficients []int
	Species      []int
}

// Expr returns the observable as a weighted sum of species symbols.
func (o *Observable) Expr() expr.Expr {
	terms := make([]expr.Expr, len(o.Species))
	for i, s := range o.Species {
		terms[i] = expr.Mul(expr.N(float64(o.Coefficients[i])), expr.S(SpeciesSymbol(s)))
	}
	return expr.Add(terms...)
}

// InitialValue is the value of an initial condition: a Constant, a
// ParameterRef or an ExpressionRef.
type InitialValue interface {
	isInitialValue()
}

// Constant is a literal initial amount.
type Constant float64

// ParameterRef names a parameter holding the initial amount.
type ParameterRef string

// ExpressionRef names an expression computing the initial amount.
type ExpressionRef string

func (Constant) isInitialValue()      {}
func (ParameterRef) isInitialValue()  {}
func (ExpressionRef) isInitialValue() {}

// Initial is the initial amount of a concrete species.
type Initial struct {
	Pattern *ComplexPattern
	Value   InitialValue
}

// Reaction is a single directed reaction of the generated network.
// Reactants and Products are species indices.
type Reaction struct {
	Reactants []int
	Products  []int
	Rate      expr.Expr
	Rule      string
	// Reverse is true when the reaction was produced by the reverse
	// direction of a reversible rule.
	Reverse bool
}

// BidirectionalReaction merges a forward/reverse pair into one record with
// a net rate (forward minus reverse).
type BidirectionalReaction struct {
	Reactants  []int
	Products   []int
	Rate       expr.Expr
	Rule       string
	Reversible bool
}

// SpeciesSymbol returns the population symbol of a species index.
func SpeciesSymbol(i int) string {
	return fmt.Sprintf("__s%d", i)
}
