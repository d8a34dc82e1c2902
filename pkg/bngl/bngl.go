// Package bngl writes a model in the text grammar of the rule expander
// (BioNetGen language) together with an actions block.
package bngl

import (
	"fmt"
	"maps"
	"slices"
	"strconv"
	"strings"

	"github.com/gnames/rbmnet/pkg/expr"
	"github.com/gnames/rbmnet/pkg/model"
)

// GenerateNetwork is the actions block that asks the engine to write the
// network file, replacing an existing one.
const GenerateNetwork = `begin actions
generate_network({overwrite=>1});
end actions
`

// SSAOptions control a stochastic simulation run.
type SSAOptions struct {
	// TEnd is the final time point.
	TEnd float64
	// NSteps is the number of output time points.
	NSteps int
	// Verbose asks the engine for detailed output.
	Verbose bool
	// Args are passed to the simulator as additional `key=>value` pairs.
	Args map[string]string
}

// SimulateSSA returns the actions block that generates the network and
// runs a stochastic simulation.
func SimulateSSA(opts SSAOptions) string {
	args := fmt.Sprintf("t_end=>%f, n_steps=>%d", opts.TEnd, opts.NSteps)
	for _, k := range slices.Sorted(maps.Keys(opts.Args)) {
		args += ", " + k + "=>" + opts.Args[k]
	}
	if opts.Verbose {
		args += ", verbose=>1"
	}
	return "begin actions\ngenerate_network({overwrite=>1});\n" +
		"simulate_ssa({" + args + "});\nend actions\n"
}

// Request returns the model text followed by the actions block. A model
// without rules or without initial conditions is rejected before anything
// is written.
func Request(m *model.Model, actions string) (string, error) {
	if m.Rules.Len() == 0 {
		return "", model.NoRulesError(m.Name)
	}
	if len(m.Initials) == 0 {
		return "", model.NoInitialConditionsError(m.Name)
	}
	body, err := Model(m)
	if err != nil {
		return "", err
	}
	return body + "\n" + actions, nil
}

// Model renders the model block.
func Model(m *model.Model) (string, error) {
	var sb strings.Builder
	sb.WriteString("# BioNetGen model " + m.Name + "\n")
	sb.WriteString("begin model\n")

	section(&sb, "parameters", m.Parameters.All(), func(p *model.Parameter) string {
		return p.Name + " " + number(p.Value)
	})

	section(&sb, "compartments", m.Compartments.All(), func(c *model.Compartment) string {
		size := "1.0"
		if c.Size != "" {
			size = c.Size
		}
		res := fmt.Sprintf("%s %d %s", c.Name, c.Dimension, size)
		if c.Parent != "" {
			res += " " + c.Parent
		}
		return res
	})

	section(&sb, "molecule types", m.Monomers.All(), (*model.Monomer).String)

	section(&sb, "observables", m.Observables.All(), func(o *model.Observable) string {
		pats := make([]string, len(o.Patterns))
		for i, p := range o.Patterns {
			pats[i] = p.String()
		}
		return string(o.Match) + " " + o.Name + " " + strings.Join(pats, ", ")
	})

	section(&sb, "functions", m.Expressions.All(), func(e *model.Expression) string {
		return e.Name + "() " + Formula(e.Expr)
	})

	var species []string
	for _, ic := range m.Initials {
		var amount string
		switch v := ic.Value.(type) {
		case model.Constant:
			amount = number(float64(v))
		case model.ParameterRef:
			amount = string(v)
		case model.ExpressionRef:
			e, err := m.ExpandExpression(string(v))
			if err != nil {
				return "", err
			}
			amount = "(" + Formula(e) + ")"
		default:
			return "", fmt.Errorf("unsupported initial value %T", ic.Value)
		}
		species = append(species, ic.Pattern.String()+" "+amount)
	}
	section(&sb, "species", species, func(s string) string { return s })

	section(&sb, "reaction rules", m.Rules.All(), rule)

	sb.WriteString("end model\n")
	return sb.String(), nil
}

func section[T any](sb *strings.Builder, name string, items []T, line func(T) string) {
	if len(items) == 0 {
		return
	}
	sb.WriteString("  begin " + name + "\n")
	for _, v := range items {
		sb.WriteString("    " + line(v) + "\n")
	}
	sb.WriteString("  end " + name + "\n")
}

func rule(r *model.Rule) string {
	res := r.String()
	if r.DeleteMolecules {
		res += " DeleteMolecules"
	}
	if r.MoveConnected {
		res += " MoveConnected"
	}
	return res
}

// Formula renders an expression with `^` as the power operator.
func Formula(e expr.Expr) string {
	return strings.ReplaceAll(e.String(), "**", "^")
}

func number(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}
