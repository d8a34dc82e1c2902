// Package model holds the declarative description of a rule-based model
// (monomers, compartments, parameters, expressions, rules, observables and
// initial conditions) together with the network generated from it.
//
// The package is pure: it performs no I/O. Every constructor validates its
// input and returns a *gn.Error with errcode.PatternValidationError or
// errcode.DuplicateNameError on invalid input, so errors surface at the call
// that introduced them.
package model

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/gnames/rbmnet/pkg/expr"
)

// Model owns all components by name. Rules, observables and initials refer
// back to monomers, parameters and expressions by name.
//
// Species, ODEs, Reactions and ReactionsBidirectional start empty and are
// filled once by network generation. A non-empty ODEs slice marks the
// network as generated.
type Model struct {
	Name string

	Monomers     *Registry[*Monomer]
	Compartments *Registry[*Compartment]
	Parameters   *Registry[*Parameter]
	Expressions  *Registry[*Expression]
	Rules        *Registry[*Rule]
	Observables  *Registry[*Observable]
	Initials     []*Initial

	Species                []*ComplexPattern
	ODEs                   []expr.Expr
	Reactions              []*Reaction
	ReactionsBidirectional []*BidirectionalReaction

	speciesIdx map[string]int
	speciesN   int
}

// New creates an empty model.
func New(name string) *Model {
	return &Model{
		Name:         name,
		Monomers:     NewRegistry[*Monomer]("Monomer"),
		Compartments: NewRegistry[*Compartment]("Compartment"),
		Parameters:   NewRegistry[*Parameter]("Parameter"),
		Expressions:  NewRegistry[*Expression]("Expression"),
		Rules:        NewRegistry[*Rule]("Rule"),
		Observables:  NewRegistry[*Observable]("Observable"),
	}
}

// AddMonomer registers a monomer.
func (m *Model) AddMonomer(mon *Monomer) error {
	return m.Monomers.Add(mon.name, mon)
}

// AddCompartment registers a compartment. Its parent and size parameter
// must already be registered, which keeps the compartment tree acyclic.
func (m *Model) AddCompartment(c *Compartment) error {
	if !isIdentifier(c.Name) {
		return PatternValidationError("", "", "compartment name "+c.Name+" is not a valid identifier")
	}
	if c.Dimension != 2 && c.Dimension != 3 {
		return PatternValidationError("", "",
			fmt.Sprintf("compartment %s has dimension %d, expected 2 or 3", c.Name, c.Dimension))
	}
	if c.Parent != "" {
		if c.Parent == c.Name || !m.Compartments.Has(c.Parent) {
			return PatternValidationError("", "",
				"parent "+c.Parent+" of compartment "+c.Name+" is not registered")
		}
	}
	if c.Size != "" && !m.Parameters.Has(c.Size) {
		return PatternValidationError("", "",
			"size parameter "+c.Size+" of compartment "+c.Name+" is not registered")
	}
	return m.Compartments.Add(c.Name, c)
}

// AddParameter registers a parameter.
func (m *Model) AddParameter(p *Parameter) error {
	if !isIdentifier(p.Name) {
		return PatternValidationError("", "", "parameter name "+p.Name+" is not a valid identifier")
	}
	return m.Parameters.Add(p.Name, p)
}

// AddExpression registers an expression. Its symbols must name registered
// parameters, expressions, observables or compartments, and it must not
// reach itself through expression references.
func (m *Model) AddExpression(e *Expression) error {
	if !isIdentifier(e.Name) {
		return PatternValidationError("", "", "expression name "+e.Name+" is not a valid identifier")
	}
	if e.Expr == nil {
		return PatternValidationError("", "", "expression "+e.Name+" is empty")
	}
	if cycle := m.expressionCycle(e.Name, e.Expr, []string{e.Name}); cycle != nil {
		return PatternValidationError("", "",
			"expression cycle "+strings.Join(cycle, " -> "))
	}
	for _, s := range expr.Symbols(e.Expr) {
		if !m.isKnownSymbol(s) {
			return PatternValidationError("", "",
				"expression "+e.Name+" refers to unknown symbol "+s)
		}
	}
	return m.Expressions.Add(e.Name, e)
}

// expressionCycle returns the path back to target if e reaches it through
// expression references.
func (m *Model) expressionCycle(target string, e expr.Expr, path []string) []string {
	for _, s := range expr.Symbols(e) {
		if s == target {
			return append(slices.Clone(path), s)
		}
		sub, ok := m.Expressions.Get(s)
		if !ok || slices.Contains(path, s) {
			continue
		}
		if res := m.expressionCycle(target, sub.Expr, append(path, s)); res != nil {
			return res
		}
	}
	return nil
}

func (m *Model) isKnownSymbol(s string) bool {
	return m.Parameters.Has(s) || m.Expressions.Has(s) ||
		m.Observables.Has(s) || m.Compartments.Has(s)
}

// AddRule registers a rule. The monomers and compartments of its patterns
// must be registered and its rates must name parameters or expressions.
func (m *Model) AddRule(r *Rule) error {
	for _, cp := range slices.Concat(r.Reactants, r.Products) {
		if err := m.checkPattern(cp); err != nil {
			return err
		}
	}
	rates := []string{r.Forward}
	if r.Reversible {
		rates = append(rates, r.Reverse)
	}
	for _, rate := range rates {
		if !m.Parameters.Has(rate) && !m.Expressions.Has(rate) {
			return PatternValidationError("", "",
				"rate "+rate+" of rule "+r.Name+" is neither a parameter nor an expression")
		}
	}
	return m.Rules.Add(r.Name, r)
}

// AddObservable registers an observable. Generated coefficients and species
// are cleared.
func (m *Model) AddObservable(o *Observable) error {
	if !isIdentifier(o.Name) {
		return PatternValidationError("", "", "observable name "+o.Name+" is not a valid identifier")
	}
	if len(o.Patterns) == 0 {
		return PatternValidationError("", "", "observable "+o.Name+" has no patterns")
	}
	for _, cp := range o.Patterns {
		if err := m.checkPattern(cp); err != nil {
			return err
		}
	}
	switch o.Match {
	case "":
		o.Match = MatchMolecules
	case MatchMolecules, MatchSpecies:
	default:
		return PatternValidationError("", "",
			"observable "+o.Name+" has unknown match type "+string(o.Match))
	}
	o.Coefficients, o.Species = nil, nil
	return m.Observables.Add(o.Name, o)
}

// AddInitial registers the initial amount of a concrete species. A species
// can have only one initial condition.
func (m *Model) AddInitial(cp *ComplexPattern, value InitialValue) error {
	if err := m.checkPattern(cp); err != nil {
		return err
	}
	if !cp.Concrete() {
		return PatternValidationError("", "",
			"initial condition pattern "+cp.String()+" is not concrete")
	}
	switch v := value.(type) {
	case Constant:
	case ParameterRef:
		if !m.Parameters.Has(string(v)) {
			return PatternValidationError("", "",
				"initial condition refers to unknown parameter "+string(v))
		}
	case ExpressionRef:
		if !m.Expressions.Has(string(v)) {
			return PatternValidationError("", "",
				"initial condition refers to unknown expression "+string(v))
		}
	default:
		return PatternValidationError("", "",
			fmt.Sprintf("unsupported initial value %T", value))
	}
	canon := cp.Canonical()
	for _, ic := range m.Initials {
		if ic.Pattern.Canonical() == canon {
			return DuplicateNameError("Initial condition", cp.String())
		}
	}
	m.Initials = append(m.Initials, &Initial{Pattern: cp, Value: value})
	return nil
}

func (m *Model) checkPattern(cp *ComplexPattern) error {
	if cp.Compartment != "" && !m.Compartments.Has(cp.Compartment) {
		return PatternValidationError("", "",
			"compartment "+cp.Compartment+" is not registered")
	}
	for _, mp := range cp.Monomers {
		reg, ok := m.Monomers.Get(mp.Monomer.name)
		if !ok || reg != mp.Monomer {
			return PatternValidationError(mp.Monomer.name, "",
				"monomer is not registered in model "+m.Name)
		}
		if mp.Compartment != "" && !m.Compartments.Has(mp.Compartment) {
			return PatternValidationError(mp.Monomer.name, "",
				"compartment "+mp.Compartment+" is not registered")
		}
	}
	return nil
}

// Generated reports whether the network was generated.
func (m *Model) Generated() bool {
	return len(m.ODEs) > 0
}

// SpeciesIndex returns the index of the generated species with the same
// canonical form as cp, or (-1, false). If several species share a
// canonical form the first one is returned.
func (m *Model) SpeciesIndex(cp *ComplexPattern) (int, bool) {
	if m.speciesIdx == nil || m.speciesN != len(m.Species) {
		m.speciesIdx = make(map[string]int, len(m.Species))
		m.speciesN = len(m.Species)
		for i, sp := range m.Species {
			key := sp.Canonical()
			if _, ok := m.speciesIdx[key]; !ok {
				m.speciesIdx[key] = i
			}
		}
	}
	i, ok := m.speciesIdx[cp.Canonical()]
	if !ok {
		return -1, false
	}
	return i, true
}

// ResetNetwork clears the generated network so it can be generated again.
func (m *Model) ResetNetwork() {
	m.Species = nil
	m.ODEs = nil
	m.Reactions = nil
	m.ReactionsBidirectional = nil
	m.speciesIdx = nil
	m.speciesN = 0
	for _, o := range m.Observables.items {
		o.Coefficients, o.Species = nil, nil
	}
}

// ExpandExpression substitutes expression references in the named
// expression recursively, and replaces observables that have generated
// species with their weighted sums. The result refers to parameters,
// compartments and species symbols only, unless an observable was not
// generated yet.
func (m *Model) ExpandExpression(name string) (expr.Expr, error) {
	e, ok := m.Expressions.Get(name)
	if !ok {
		return nil, ExpressionError(name, errors.New("no such expression"))
	}
	return m.Resolve(e.Expr), nil
}

// Resolve substitutes expressions and generated observables in e the same
// way as ExpandExpression.
func (m *Model) Resolve(e expr.Expr) expr.Expr {
	repl := make(map[string]expr.Expr)
	for _, s := range expr.Symbols(e) {
		if sub, ok := m.Expressions.Get(s); ok {
			repl[s] = m.Resolve(sub.Expr)
			continue
		}
		if o, ok := m.Observables.Get(s); ok && len(o.Species) > 0 {
			repl[s] = o.Expr()
		}
	}
	if len(repl) == 0 {
		return e
	}
	return expr.Subs(e, repl)
}

// ParameterValues returns the values of all parameters with optional
// overrides applied.
func (m *Model) ParameterValues(overrides map[string]float64) map[string]float64 {
	res := make(map[string]float64, m.Parameters.Len())
	for _, p := range m.Parameters.items {
		res[p.Name] = p.Value
	}
	for k, v := range overrides {
		if _, ok := res[k]; ok {
			res[k] = v
		}
	}
	return res
}

// InitialValues resolves the initial amount of every generated species.
// Species without an initial condition start at zero. Parameter overrides
// replace declared parameter values.
func (m *Model) InitialValues(overrides map[string]float64) ([]float64, error) {
	params := m.ParameterValues(overrides)
	res := make([]float64, len(m.Species))
	for _, ic := range m.Initials {
		idx, ok := m.SpeciesIndex(ic.Pattern)
		if !ok {
			return nil, SpeciesNotFoundError(ic.Pattern.String())
		}
		var val float64
		switch v := ic.Value.(type) {
		case Constant:
			val = float64(v)
		case ParameterRef:
			val = params[string(v)]
		case ExpressionRef:
			e, err := m.ExpandExpression(string(v))
			if err != nil {
				return nil, err
			}
			if val, err = expr.Eval(e, params); err != nil {
				return nil, ExpressionError(string(v), err)
			}
		}
		res[idx] = val
	}
	return res, nil
}
