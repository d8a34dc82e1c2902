package model

import (
	"slices"
)

// Monomer is a named molecular building block with an ordered list of
// sites. A site with declared states is state-valued; a site without them
// is bond-only. Monomers are immutable after creation.
type Monomer struct {
	name   string
	sites  []string
	states map[string][]string
}

// NewMonomer creates a monomer. Site names must be unique, and every key
// of states must be one of the sites with a non-empty unique list of labels.
func NewMonomer(name string, sites []string, states map[string][]string) (*Monomer, error) {
	if !isIdentifier(name) {
		return nil, PatternValidationError(name, "", "monomer name is not a valid identifier")
	}
	seen := make(map[string]struct{}, len(sites))
	for _, s := range sites {
		if !isIdentifier(s) {
			return nil, PatternValidationError(name, s, "site name is not a valid identifier")
		}
		if _, ok := seen[s]; ok {
			return nil, PatternValidationError(name, s, "site is declared twice")
		}
		seen[s] = struct{}{}
	}

	res := &Monomer{
		name:   name,
		sites:  slices.Clone(sites),
		states: make(map[string][]string, len(states)),
	}
	for site, labels := range states {
		if _, ok := seen[site]; !ok {
			return nil, PatternValidationError(name, site, "states given for an unknown site")
		}
		if len(labels) == 0 {
			return nil, PatternValidationError(name, site, "empty list of states")
		}
		uniq := make(map[string]struct{}, len(labels))
		for _, l := range labels {
			if !isLabel(l) {
				return nil, PatternValidationError(name, site, "state label "+l+" is not alphanumeric")
			}
			if _, ok := uniq[l]; ok {
				return nil, PatternValidationError(name, site, "state "+l+" is declared twice")
			}
			uniq[l] = struct{}{}
		}
		res.states[site] = slices.Clone(labels)
	}
	return res, nil
}

// Name returns the monomer name.
func (m *Monomer) Name() string {
	return m.name
}

// Sites returns a copy of the ordered site names.
func (m *Monomer) Sites() []string {
	return slices.Clone(m.sites)
}

// States returns a copy of the valid state labels of a site, or nil for a
// bond-only site.
func (m *Monomer) States(site string) []string {
	return slices.Clone(m.states[site])
}

// HasSite reports whether the monomer declares the site.
func (m *Monomer) HasSite(site string) bool {
	return slices.Contains(m.sites, site)
}

// HasStates reports whether the site is state-valued.
func (m *Monomer) HasStates(site string) bool {
	return len(m.states[site]) > 0
}

// siteIndex returns the position of the site in the declaration order.
func (m *Monomer) siteIndex(site string) int {
	return slices.Index(m.sites, site)
}

// String returns the molecule type declaration, e.g. `A(b,s~u~p)`.
func (m *Monomer) String() string {
	res := m.name + "("
	for i, s := range m.sites {
		if i > 0 {
			res += ","
		}
		res += s
		for _, st := range m.states[s] {
			res += "~" + st
		}
	}
	return res + ")"
}

func isIdentifier(s string) bool {
	if s == "" {
		return false
	}
	for i, r := range s {
		switch {
		case r == '_', r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z':
		case r >= '0' && r <= '9' && i > 0:
		default:
			return false
		}
	}
	return true
}

// isLabel accepts state labels, which may start with a digit.
func isLabel(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r != '_' && !(r >= 'a' && r <= 'z') && !(r >= 'A' && r <= 'Z') && !(r >= '0' && r <= '9') {
			return false
		}
	}
	return true
}
