package model

import (
	"fmt"
	"maps"
	"slices"
	"strings"
)

// MonomerPattern is a monomer with conditions on a subset of its sites,
// optionally tagged with a compartment.
type MonomerPattern struct {
	Monomer *Monomer
	// Conditions maps site names to their constraints. Sites without an
	// entry are unconstrained.
	Conditions map[string]SiteCondition
	// Labels maps site names to mapping labels that carry site identity
	// (state and bonds) across a rule arrow.
	Labels map[string]string
	// Compartment is the name of the compartment of this monomer, if any.
	Compartment string
}

// NewMonomerPattern validates conditions against the monomer declaration.
func NewMonomerPattern(
	m *Monomer,
	conds map[string]SiteCondition,
	compartment string,
) (*MonomerPattern, error) {
	if m == nil {
		return nil, PatternValidationError("", "", "monomer is nil")
	}
	if compartment != "" && !isIdentifier(compartment) {
		return nil, PatternValidationError(m.name, "",
			"compartment name "+compartment+" is not a valid identifier")
	}
	res := &MonomerPattern{
		Monomer:     m,
		Conditions:  make(map[string]SiteCondition, len(conds)),
		Compartment: compartment,
	}
	for site, c := range conds {
		if err := validateCondition(m, site, c); err != nil {
			return nil, err
		}
		res.Conditions[site] = c.clone()
	}
	return res, nil
}

// MustMonomerPattern is like NewMonomerPattern but panics on error.
// Intended for fixtures.
func MustMonomerPattern(
	m *Monomer,
	conds map[string]SiteCondition,
	compartment string,
) *MonomerPattern {
	res, err := NewMonomerPattern(m, conds, compartment)
	if err != nil {
		panic(err)
	}
	return res
}

func validateCondition(m *Monomer, site string, c SiteCondition) error {
	if !m.HasSite(site) {
		return PatternValidationError(m.name, site, "no such site")
	}
	if c.State != "" {
		states := m.states[site]
		if len(states) == 0 {
			return PatternValidationError(m.name, site,
				"site has no states but state "+c.State+" is given")
		}
		if !slices.Contains(states, c.State) {
			return PatternValidationError(m.name, site,
				fmt.Sprintf("state %s is not one of %v", c.State, states))
		}
	}
	switch c.Bond.Kind {
	case BondNone, BondAny, BondWild:
		if len(c.Bond.Indices) > 0 {
			return PatternValidationError(m.name, site,
				"bond indices given for a non-indexed bond")
		}
	case BondIndexed:
		if len(c.Bond.Indices) == 0 {
			return PatternValidationError(m.name, site, "bond without index")
		}
		for _, i := range c.Bond.Indices {
			if i <= 0 {
				return PatternValidationError(m.name, site,
					fmt.Sprintf("bond index %d is not positive", i))
			}
		}
	default:
		return PatternValidationError(m.name, site,
			fmt.Sprintf("unknown bond kind %d", c.Bond.Kind))
	}
	return nil
}

// WithLabels returns a copy of the pattern with mapping labels attached to
// the given sites.
func (mp *MonomerPattern) WithLabels(labels map[string]string) (*MonomerPattern, error) {
	res := mp.Clone()
	res.Labels = make(map[string]string, len(labels))
	seen := make(map[string]struct{}, len(labels))
	for site, l := range labels {
		if !mp.Monomer.HasSite(site) {
			return nil, PatternValidationError(mp.Monomer.name, site, "no such site")
		}
		if !isIdentifier(l) {
			return nil, PatternValidationError(mp.Monomer.name, site,
				"mapping label "+l+" is not a valid identifier")
		}
		if _, ok := seen[l]; ok {
			return nil, PatternValidationError(mp.Monomer.name, site,
				"mapping label "+l+" is used twice")
		}
		seen[l] = struct{}{}
		res.Labels[site] = l
	}
	return res, nil
}

// Clone returns a deep copy of the pattern sharing the immutable monomer.
func (mp *MonomerPattern) Clone() *MonomerPattern {
	res := &MonomerPattern{
		Monomer:     mp.Monomer,
		Conditions:  make(map[string]SiteCondition, len(mp.Conditions)),
		Labels:      maps.Clone(mp.Labels),
		Compartment: mp.Compartment,
	}
	for k, v := range mp.Conditions {
		res.Conditions[k] = v.clone()
	}
	return res
}

// Concrete reports whether every site is specified, every state-valued site
// has a state and no bond is a wildcard.
func (mp *MonomerPattern) Concrete() bool {
	for _, s := range mp.Monomer.sites {
		c, ok := mp.Conditions[s]
		if !ok || !c.Concrete() {
			return false
		}
		if mp.Monomer.HasStates(s) && c.State == "" {
			return false
		}
	}
	return true
}

// String renders the pattern, e.g. `A(s1~u!1,s2~l)@cyto`. Sites follow the
// monomer declaration order.
func (mp *MonomerPattern) String() string {
	return mp.format(nil, mp.Compartment)
}

func (mp *MonomerPattern) format(renumber map[int]int, compartment string) string {
	var parts []string
	for _, s := range mp.Monomer.sites {
		c, hasCond := mp.Conditions[s]
		label, hasLabel := mp.Labels[s]
		if !hasCond && !hasLabel {
			continue
		}
		if renumber != nil && c.Bond.Kind == BondIndexed {
			idx := make([]int, len(c.Bond.Indices))
			for i, v := range c.Bond.Indices {
				idx[i] = renumber[v]
			}
			slices.Sort(idx)
			c.Bond = BondTo(idx...)
		}
		part := s
		if hasCond {
			part = c.format(s)
		}
		if hasLabel {
			part += "%" + label
		}
		parts = append(parts, part)
	}
	res := mp.Monomer.name + "(" + strings.Join(parts, ",") + ")"
	if compartment != "" {
		res += "@" + compartment
	}
	return res
}

// ComplexPattern is an ordered collection of monomer patterns forming one
// (possibly partially specified) bonded assembly.
type ComplexPattern struct {
	Monomers []*MonomerPattern
	// Compartment is the enclosing compartment of the whole complex.
	Compartment string
}

// Endpoint identifies a site of a monomer pattern inside a complex.
type Endpoint struct {
	Monomer int
	Site    string
}

// NewComplexPattern checks that every bond index occurs exactly twice in
// the complex, so bonds pair sites up.
func NewComplexPattern(mps []*MonomerPattern, compartment string) (*ComplexPattern, error) {
	if len(mps) == 0 {
		return nil, PatternValidationError("", "", "complex pattern has no monomers")
	}
	if compartment != "" && !isIdentifier(compartment) {
		return nil, PatternValidationError(mps[0].Monomer.name, "",
			"compartment name "+compartment+" is not a valid identifier")
	}
	res := &ComplexPattern{
		Monomers:    slices.Clone(mps),
		Compartment: compartment,
	}
	bonds := res.Bonds()
	for _, idx := range slices.Sorted(maps.Keys(bonds)) {
		if ends := bonds[idx]; len(ends) != 2 {
			e := ends[0]
			return nil, danglingBondError(mps[e.Monomer].Monomer.name, e.Site, idx)
		}
	}
	return res, nil
}

// MustComplexPattern is like NewComplexPattern but panics on error.
func MustComplexPattern(mps []*MonomerPattern, compartment string) *ComplexPattern {
	res, err := NewComplexPattern(mps, compartment)
	if err != nil {
		panic(err)
	}
	return res
}

// Bonds maps every numeric bond index to the site endpoints carrying it.
func (cp *ComplexPattern) Bonds() map[int][]Endpoint {
	res := make(map[int][]Endpoint)
	for i, mp := range cp.Monomers {
		for _, s := range mp.Monomer.sites {
			c, ok := mp.Conditions[s]
			if !ok || c.Bond.Kind != BondIndexed {
				continue
			}
			for _, b := range c.Bond.Indices {
				res[b] = append(res[b], Endpoint{Monomer: i, Site: s})
			}
		}
	}
	return res
}

// Links maps mapping labels to the site endpoints they tag.
func (cp *ComplexPattern) Links() map[string]Endpoint {
	res := make(map[string]Endpoint)
	for i, mp := range cp.Monomers {
		for s, l := range mp.Labels {
			res[l] = Endpoint{Monomer: i, Site: s}
		}
	}
	return res
}

// Concrete reports whether the complex is a fully resolved species.
func (cp *ComplexPattern) Concrete() bool {
	for _, mp := range cp.Monomers {
		if !mp.Concrete() {
			return false
		}
	}
	return true
}

// Clone returns a deep copy of the complex.
func (cp *ComplexPattern) Clone() *ComplexPattern {
	res := &ComplexPattern{
		Monomers:    make([]*MonomerPattern, len(cp.Monomers)),
		Compartment: cp.Compartment,
	}
	for i, mp := range cp.Monomers {
		res.Monomers[i] = mp.Clone()
	}
	return res
}

// String renders the complex, e.g. `@EC::A(s1~u!1).B(s1!1)`.
func (cp *ComplexPattern) String() string {
	parts := make([]string, len(cp.Monomers))
	for i, mp := range cp.Monomers {
		parts[i] = mp.String()
	}
	res := strings.Join(parts, ".")
	if cp.Compartment != "" {
		res = "@" + cp.Compartment + "::" + res
	}
	return res
}

// AsComplex wraps a single monomer pattern into a complex pattern.
func AsComplex(mp *MonomerPattern) (*ComplexPattern, error) {
	return NewComplexPattern([]*MonomerPattern{mp}, "")
}
