package model

import (
	"slices"
	"strconv"
	"strings"
)

// BondKind enumerates the bond specifiers a site condition may carry.
type BondKind int

const (
	// BondNone means the site is unbound. It is the zero value, which
	// matches the pattern language where `A(s)` denotes a free site.
	BondNone BondKind = iota
	// BondIndexed binds the site to partners sharing the same indices.
	BondIndexed
	// BondAny means the site is bound to something (`!+`).
	BondAny
	// BondWild means the site may or may not be bound (`!?`).
	BondWild
)

// Bond is the bond part of a site condition.
type Bond struct {
	Kind BondKind
	// Indices holds one bond index, or two for a double bond on the same
	// site. Only used with BondIndexed.
	Indices []int
}

// Unbound returns a bond specifier for a free site.
func Unbound() Bond {
	return Bond{}
}

// BondTo returns a specifier binding a site through the given indices.
func BondTo(indices ...int) Bond {
	return Bond{Kind: BondIndexed, Indices: slices.Clone(indices)}
}

// AnyBond returns the "bound to anything" sentinel.
func AnyBond() Bond {
	return Bond{Kind: BondAny}
}

// WildBond returns the "bound or not" sentinel.
func WildBond() Bond {
	return Bond{Kind: BondWild}
}

// String renders the bond in the pattern language.
func (b Bond) String() string {
	switch b.Kind {
	case BondAny:
		return "!+"
	case BondWild:
		return "!?"
	case BondIndexed:
		var sb strings.Builder
		for _, i := range b.Indices {
			sb.WriteString("!")
			sb.WriteString(strconv.Itoa(i))
		}
		return sb.String()
	default:
		return ""
	}
}

// SiteCondition constrains one site of a monomer pattern. A site that is
// absent from a pattern's conditions is unconstrained. A present condition
// fixes the bond (free by default) and optionally the state.
type SiteCondition struct {
	State string
	Bond  Bond
}

// Free returns a condition for a free site without a state constraint.
func Free() SiteCondition {
	return SiteCondition{}
}

// InState returns a condition for a free site in the given state.
func InState(state string) SiteCondition {
	return SiteCondition{State: state}
}

// Bound returns a condition with a bond and no state constraint.
func Bound(b Bond) SiteCondition {
	return SiteCondition{Bond: b}
}

// StateBound returns a combined (state, bond) condition.
func StateBound(state string, b Bond) SiteCondition {
	return SiteCondition{State: state, Bond: b}
}

// Concrete reports whether the condition is fully resolved: no wildcard
// bonds.
func (c SiteCondition) Concrete() bool {
	return c.Bond.Kind == BondNone || c.Bond.Kind == BondIndexed
}

func (c SiteCondition) format(site string) string {
	res := site
	if c.State != "" {
		res += "~" + c.State
	}
	return res + c.Bond.String()
}

func (c SiteCondition) clone() SiteCondition {
	c.Bond.Indices = slices.Clone(c.Bond.Indices)
	return c
}
