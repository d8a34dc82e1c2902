// Package iomodel loads models from YAML files. Patterns use the same
// text syntax BioNetGen uses, for example `A(b!1,s~p).B(a!1)`.
package iomodel

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/gnames/rbmnet/internal/iofs"
	"github.com/gnames/rbmnet/pkg/bngl"
	"github.com/gnames/rbmnet/pkg/expr"
	"github.com/gnames/rbmnet/pkg/model"
	"gopkg.in/yaml.v3"
)

// File is the YAML layout of a model. Lists keep declaration order.
type File struct {
	Name         string        `yaml:"name"`
	Monomers     []Monomer     `yaml:"monomers"`
	Compartments []Compartment `yaml:"compartments"`
	Parameters   []Parameter   `yaml:"parameters"`
	Expressions  []Expression  `yaml:"expressions"`
	Observables  []Observable  `yaml:"observables"`
	Rules        []Rule        `yaml:"rules"`
	Initials     []Initial     `yaml:"initials"`
}

type Monomer struct {
	Name   string              `yaml:"name"`
	Sites  []string            `yaml:"sites"`
	States map[string][]string `yaml:"states"`
}

type Compartment struct {
	Name      string `yaml:"name"`
	Dimension int    `yaml:"dimension"`
	Parent    string `yaml:"parent"`
	Size      string `yaml:"size"`
}

type Parameter struct {
	Name  string  `yaml:"name"`
	Value float64 `yaml:"value"`
}

type Expression struct {
	Name string `yaml:"name"`
	Expr string `yaml:"expr"`
}

type Observable struct {
	Name     string   `yaml:"name"`
	Match    string   `yaml:"match"`
	Patterns []string `yaml:"patterns"`
}

// Rule holds a rule in the form `A(b) + B(a) <-> A(b!1).B(a!1)`. Use `->`
// for irreversible rules and `0` for an empty side.
type Rule struct {
	Name            string `yaml:"name"`
	Rule            string `yaml:"rule"`
	Forward         string `yaml:"forward"`
	Reverse         string `yaml:"reverse"`
	DeleteMolecules bool   `yaml:"delete_molecules"`
	MoveConnected   bool   `yaml:"move_connected"`
}

// Initial sets the amount of a species. Exactly one of Value, Parameter
// or Expression must be given.
type Initial struct {
	Pattern    string   `yaml:"pattern"`
	Value      *float64 `yaml:"value"`
	Parameter  string   `yaml:"parameter"`
	Expression string   `yaml:"expression"`
}

// Load reads a model from a YAML file.
func Load(path string) (*model.Model, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, iofs.ReadFileError(path, err)
	}
	return Parse(bytes.NewReader(data), path)
}

// Parse reads a model in YAML from r. The source names r in errors.
func Parse(r io.Reader, source string) (*model.Model, error) {
	var f File
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&f); err != nil {
		return nil, ModelFileError(source, "invalid YAML", err)
	}
	return f.Build(source)
}

// Build creates a model from the file contents.
func (f *File) Build(source string) (*model.Model, error) {
	if f.Name == "" {
		return nil, ModelFileError(source, "model name is empty", nil)
	}
	m := model.New(f.Name)
	fail := func(kind, name string, err error) error {
		return ModelFileError(source, kind+" "+name, err)
	}

	for _, v := range f.Monomers {
		mon, err := model.NewMonomer(v.Name, v.Sites, v.States)
		if err == nil {
			err = m.AddMonomer(mon)
		}
		if err != nil {
			return nil, fail("monomer", v.Name, err)
		}
	}

	for _, v := range f.Parameters {
		if err := m.AddParameter(&model.Parameter{Name: v.Name, Value: v.Value}); err != nil {
			return nil, fail("parameter", v.Name, err)
		}
	}

	for _, v := range f.Compartments {
		c := &model.Compartment{
			Name: v.Name, Dimension: v.Dimension, Parent: v.Parent, Size: v.Size,
		}
		if err := m.AddCompartment(c); err != nil {
			return nil, fail("compartment", v.Name, err)
		}
	}

	// observables go first, expressions may refer to them
	for _, v := range f.Observables {
		o, err := observable(m, v)
		if err == nil {
			err = m.AddObservable(o)
		}
		if err != nil {
			return nil, fail("observable", v.Name, err)
		}
	}

	for _, v := range f.Expressions {
		e, err := expr.Parse(v.Expr)
		if err == nil {
			err = m.AddExpression(&model.Expression{Name: v.Name, Expr: e})
		}
		if err != nil {
			return nil, fail("expression", v.Name, err)
		}
	}

	for _, v := range f.Rules {
		r, err := rule(m, v)
		if err == nil {
			err = m.AddRule(r)
		}
		if err != nil {
			return nil, fail("rule", v.Name, err)
		}
	}

	for _, v := range f.Initials {
		cp, val, err := initial(m, v)
		if err == nil {
			err = m.AddInitial(cp, val)
		}
		if err != nil {
			return nil, fail("initial", v.Pattern, err)
		}
	}
	return m, nil
}

func observable(m *model.Model, o Observable) (*model.Observable, error) {
	res := &model.Observable{Name: o.Name, Match: model.ObservableMatch(o.Match)}
	for _, p := range o.Patterns {
		cp, err := bngl.ParseComplex(m, p)
		if err != nil {
			return nil, err
		}
		res.Patterns = append(res.Patterns, cp)
	}
	return res, nil
}

func rule(m *model.Model, r Rule) (*model.Rule, error) {
	reversible := true
	lhs, rhs, ok := strings.Cut(r.Rule, "<->")
	if !ok {
		reversible = false
		lhs, rhs, ok = strings.Cut(r.Rule, "->")
	}
	if !ok {
		return nil, fmt.Errorf("rule %q has no -> or <->", r.Rule)
	}
	reactants, err := bngl.ParseSide(m, lhs)
	if err != nil {
		return nil, err
	}
	products, err := bngl.ParseSide(m, rhs)
	if err != nil {
		return nil, err
	}
	res, err := model.NewRule(r.Name, reactants, products, r.Forward, r.Reverse, reversible)
	if err != nil {
		return nil, err
	}
	res.DeleteMolecules = r.DeleteMolecules
	res.MoveConnected = r.MoveConnected
	return res, nil
}

func initial(m *model.Model, ic Initial) (*model.ComplexPattern, model.InitialValue, error) {
	cp, err := bngl.ParseComplex(m, ic.Pattern)
	if err != nil {
		return nil, nil, err
	}

	var vals []model.InitialValue
	if ic.Value != nil {
		vals = append(vals, model.Constant(*ic.Value))
	}
	if ic.Parameter != "" {
		vals = append(vals, model.ParameterRef(ic.Parameter))
	}
	if ic.Expression != "" {
		vals = append(vals, model.ExpressionRef(ic.Expression))
	}
	if len(vals) != 1 {
		return nil, nil, fmt.Errorf(
			"exactly one of value, parameter or expression is required, got %d", len(vals))
	}
	return cp, vals[0], nil
}
