package bngl

import (
	"strconv"
	"strings"

	"github.com/gnames/rbmnet/pkg/model"
)

// ParseComplex reads a complex pattern such as
// `@EC::A(b!1,s~p).B(a!1)@PM`, resolving monomers and compartments in m.
// Bond `?` means bound or not, `+` means bound to anything.
func ParseComplex(m *model.Model, s string) (*model.ComplexPattern, error) {
	orig := s
	var comp string
	if strings.HasPrefix(s, "@") {
		c, rest, ok := strings.Cut(s[1:], "::")
		if !ok {
			return nil, PatternSyntaxError(orig, "compartment prefix without ::")
		}
		if !m.Compartments.Has(c) {
			return nil, PatternSyntaxError(orig, "compartment "+c+" is not defined")
		}
		comp, s = c, rest
	}

	parts := strings.Split(s, ".")
	mps := make([]*model.MonomerPattern, len(parts))
	for i, ms := range parts {
		mp, err := parseMonomer(m, orig, ms)
		if err != nil {
			return nil, err
		}
		mps[i] = mp
	}
	return model.NewComplexPattern(mps, comp)
}

// ParseSide reads complexes joined by `+`. A single `0` is the empty side.
func ParseSide(m *model.Model, s string) ([]*model.ComplexPattern, error) {
	s = strings.TrimSpace(s)
	if s == "0" || s == "" {
		return nil, nil
	}
	var res []*model.ComplexPattern
	for _, v := range splitSide(s) {
		v = strings.TrimSpace(v)
		if v == "" {
			return nil, PatternSyntaxError(s, "empty complex")
		}
		cp, err := ParseComplex(m, v)
		if err != nil {
			return nil, err
		}
		res = append(res, cp)
	}
	return res, nil
}

// splitSide splits on `+` outside of parentheses, `!+` bonds stay intact.
func splitSide(s string) []string {
	var res []string
	var depth, start int
	for i, r := range s {
		switch r {
		case '(':
			depth++
		case ')':
			depth--
		case '+':
			if depth == 0 {
				res = append(res, s[start:i])
				start = i + 1
			}
		}
	}
	return append(res, s[start:])
}

func parseMonomer(m *model.Model, orig, s string) (*model.MonomerPattern, error) {
	open := strings.IndexByte(s, '(')
	closing := strings.LastIndexByte(s, ')')
	if open <= 0 || closing < open {
		return nil, PatternSyntaxError(orig, "bad monomer "+s)
	}
	name, sites, tail := s[:open], s[open+1:closing], s[closing+1:]

	var comp string
	if tail != "" {
		c, ok := strings.CutPrefix(tail, "@")
		if !ok {
			return nil, PatternSyntaxError(orig, "unexpected text after monomer "+name)
		}
		if !m.Compartments.Has(c) {
			return nil, PatternSyntaxError(orig, "compartment "+c+" is not defined")
		}
		comp = c
	}

	mon, ok := m.Monomers.Get(name)
	if !ok {
		return nil, PatternSyntaxError(orig, "monomer "+name+" is not defined")
	}

	conds := make(map[string]model.SiteCondition)
	labels := make(map[string]string)
	seen := make(map[string]struct{})
	if strings.TrimSpace(sites) != "" {
		for _, ss := range strings.Split(sites, ",") {
			ss, label, hasLabel := strings.Cut(strings.TrimSpace(ss), "%")
			site, cond, err := parseSite(orig, ss)
			if err != nil {
				return nil, err
			}
			if _, dup := seen[site]; dup {
				return nil, PatternSyntaxError(orig, "site "+site+" of "+name+" occurs twice")
			}
			seen[site] = struct{}{}
			if !hasLabel {
				conds[site] = cond
				continue
			}
			// a labeled site without state or bond stays unconstrained
			if ss != site {
				conds[site] = cond
			}
			labels[site] = label
		}
	}
	mp, err := model.NewMonomerPattern(mon, conds, comp)
	if err != nil || len(labels) == 0 {
		return mp, err
	}
	return mp.WithLabels(labels)
}

// parseSite reads `name[~state][!bond[!bond]]`.
func parseSite(orig, s string) (string, model.SiteCondition, error) {
	var cond model.SiteCondition
	head, bonds, hasBond := strings.Cut(s, "!")
	name, state, hasState := strings.Cut(head, "~")
	if name == "" {
		return "", cond, PatternSyntaxError(orig, "empty site name in "+s)
	}
	if hasState {
		if state == "" {
			return "", cond, PatternSyntaxError(orig, "empty state in "+s)
		}
		cond.State = state
	}
	if !hasBond {
		return name, cond, nil
	}

	switch bonds {
	case "?":
		cond.Bond = model.WildBond()
	case "+":
		cond.Bond = model.AnyBond()
	default:
		var idx []int
		for _, b := range strings.Split(bonds, "!") {
			i, err := strconv.Atoi(b)
			if err != nil {
				return "", cond, PatternSyntaxError(orig,
					"bond "+b+" of site "+name+" is not a number")
			}
			idx = append(idx, i)
		}
		cond.Bond = model.BondTo(idx...)
	}
	return name, cond, nil
}
