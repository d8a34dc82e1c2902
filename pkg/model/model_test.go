package model_test

import (
	"errors"
	"testing"

	"github.com/gnames/gn"
	"github.com/gnames/rbmnet/pkg/errcode"
	"github.com/gnames/rbmnet/pkg/expr"
	"github.com/gnames/rbmnet/pkg/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func monomers(t *testing.T) (*model.Monomer, *model.Monomer) {
	a, err := model.NewMonomer("A", []string{"s1", "s2"},
		map[string][]string{"s1": {"u", "p"}, "s2": {"l", "r"}})
	require.Nil(t, err)
	b, err := model.NewMonomer("B", []string{"s1"}, nil)
	require.Nil(t, err)
	return a, b
}

func TestNewMonomer(t *testing.T) {
	tests := []struct {
		msg    string
		name   string
		sites  []string
		states map[string][]string
		ok     bool
	}{
		{"plain", "A", []string{"b"}, nil, true},
		{"states", "A", []string{"b", "s"}, map[string][]string{"s": {"u", "1"}}, true},
		{"bad name", "1A", []string{"b"}, nil, false},
		{"dup site", "A", []string{"b", "b"}, nil, false},
		{"unknown state site", "A", []string{"b"}, map[string][]string{"x": {"u"}}, false},
		{"empty states", "A", []string{"b"}, map[string][]string{"b": {}}, false},
		{"dup state", "A", []string{"b"}, map[string][]string{"b": {"u", "u"}}, false},
	}

	for _, v := range tests {
		m, err := model.NewMonomer(v.name, v.sites, v.states)
		if !v.ok {
			assert.True(t, model.HasCode(err, errcode.PatternValidationError), v.msg)
			continue
		}
		require.Nil(t, err, v.msg)
		assert.Equal(t, v.name, m.Name(), v.msg)
	}

	a, _ := monomers(t)
	assert.Equal(t, "A(s1~u~p,s2~l~r)", a.String())
	sites := a.Sites()
	sites[0] = "zz"
	assert.Equal(t, "s1", a.Sites()[0])
}

func TestMonomerPatternValidation(t *testing.T) {
	a, _ := monomers(t)
	tests := []struct {
		msg   string
		conds map[string]model.SiteCondition
		ok    bool
	}{
		{"state", map[string]model.SiteCondition{"s1": model.InState("u")}, true},
		{"state bond", map[string]model.SiteCondition{
			"s1": model.StateBound("p", model.BondTo(1))}, true},
		{"any", map[string]model.SiteCondition{"s1": model.Bound(model.AnyBond())}, true},
		{"no site", map[string]model.SiteCondition{"x": model.Free()}, false},
		{"bad state", map[string]model.SiteCondition{"s1": model.InState("q")}, false},
		{"zero index", map[string]model.SiteCondition{"s1": model.Bound(model.BondTo(0))}, false},
		{"indexed without index", map[string]model.SiteCondition{
			"s1": model.Bound(model.Bond{Kind: model.BondIndexed})}, false},
	}

	for _, v := range tests {
		_, err := model.NewMonomerPattern(a, v.conds, "")
		if v.ok {
			assert.Nil(t, err, v.msg)
			continue
		}
		var gnErr *gn.Error
		require.True(t, errors.As(err, &gnErr), v.msg)
		assert.Equal(t, errcode.PatternValidationError, gnErr.Code, v.msg)
		assert.Equal(t, "A", gnErr.Vars[0], v.msg)
	}
}

func TestComplexPattern(t *testing.T) {
	a, b := monomers(t)
	mpA := model.MustMonomerPattern(a, map[string]model.SiteCondition{
		"s1": model.StateBound("u", model.BondTo(1)),
		"s2": model.InState("l"),
	}, "")
	mpB := model.MustMonomerPattern(b, map[string]model.SiteCondition{
		"s1": model.Bound(model.BondTo(1)),
	}, "")

	cp, err := model.NewComplexPattern([]*model.MonomerPattern{mpA, mpB}, "")
	require.Nil(t, err)
	assert.Equal(t, "A(s1~u!1,s2~l).B(s1!1)", cp.String())
	assert.True(t, cp.Concrete())
	bonds := cp.Bonds()
	assert.Equal(t, []model.Endpoint{{Monomer: 0, Site: "s1"}, {Monomer: 1, Site: "s1"}}, bonds[1])

	_, err = model.NewComplexPattern([]*model.MonomerPattern{mpA}, "")
	require.NotNil(t, err)
	gnErr, ok := err.(*gn.Error)
	require.True(t, ok)
	assert.Equal(t, errcode.PatternValidationError, gnErr.Code)
	assert.ErrorIs(t, gnErr.Err, model.ErrDanglingBond)

	partial := model.MustMonomerPattern(a, map[string]model.SiteCondition{
		"s1": model.InState("u"),
	}, "")
	assert.False(t, model.MustComplexPattern([]*model.MonomerPattern{partial}, "").Concrete())
}

func TestCanonical(t *testing.T) {
	a, b := monomers(t)
	c1 := model.MustComplexPattern([]*model.MonomerPattern{
		model.MustMonomerPattern(a, map[string]model.SiteCondition{
			"s1": model.StateBound("u", model.BondTo(1)),
			"s2": model.InState("l"),
		}, ""),
		model.MustMonomerPattern(b, map[string]model.SiteCondition{
			"s1": model.Bound(model.BondTo(1)),
		}, ""),
	}, "")
	c2 := model.MustComplexPattern([]*model.MonomerPattern{
		model.MustMonomerPattern(b, map[string]model.SiteCondition{
			"s1": model.Bound(model.BondTo(7)),
		}, ""),
		model.MustMonomerPattern(a, map[string]model.SiteCondition{
			"s1": model.StateBound("u", model.BondTo(7)),
			"s2": model.InState("l"),
		}, ""),
	}, "")
	assert.Equal(t, "A(s1~u!1,s2~l).B(s1!1)", c1.Canonical())
	assert.True(t, model.SameSpecies(c1, c2))

	c3 := model.MustComplexPattern([]*model.MonomerPattern{
		model.MustMonomerPattern(a, map[string]model.SiteCondition{
			"s1": model.InState("u"), "s2": model.InState("l"),
		}, "cyto"),
	}, "")
	c4 := model.MustComplexPattern([]*model.MonomerPattern{
		model.MustMonomerPattern(a, map[string]model.SiteCondition{
			"s1": model.InState("u"), "s2": model.InState("l"),
		}, ""),
	}, "cyto")
	assert.True(t, model.SameSpecies(c3, c4))
	assert.False(t, model.SameSpecies(c1, c3))
}

func TestCanonicalTiedBonds(t *testing.T) {
	hub, err := model.NewMonomer("A", []string{"s"}, nil)
	require.Nil(t, err)
	arm, err := model.NewMonomer("B", []string{"x", "y"},
		map[string][]string{"y": {"u", "p"}})
	require.Nil(t, err)

	b := func(bond int, state string) *model.MonomerPattern {
		return model.MustMonomerPattern(arm, map[string]model.SiteCondition{
			"x": model.Bound(model.BondTo(bond)),
			"y": model.InState(state),
		}, "")
	}
	a := func(b1, b2 int) *model.MonomerPattern {
		return model.MustMonomerPattern(hub, map[string]model.SiteCondition{
			"s": model.Bound(model.BondTo(b1, b2)),
		}, "")
	}

	tests := []struct {
		msg string
		mps []*model.MonomerPattern
	}{
		{"u first", []*model.MonomerPattern{a(1, 2), b(1, "u"), b(2, "p")}},
		{"p first", []*model.MonomerPattern{a(1, 2), b(1, "p"), b(2, "u")}},
		{"arms first", []*model.MonomerPattern{b(5, "u"), b(3, "p"), a(3, 5)}},
	}
	want := "A(s!1!2).B(x!1,y~p).B(x!2,y~u)"
	for _, v := range tests {
		cp := model.MustComplexPattern(v.mps, "")
		for range 50 {
			assert.Equal(t, want, cp.Canonical(), v.msg)
		}
	}
}

func TestRuleLabels(t *testing.T) {
	a, _ := monomers(t)
	mp := model.MustMonomerPattern(a, map[string]model.SiteCondition{"s1": model.InState("u")}, "")
	left, err := mp.WithLabels(map[string]string{"s2": "x"})
	require.Nil(t, err)
	right, err := mp.WithLabels(map[string]string{"s2": "y"})
	require.Nil(t, err)
	lcp := model.MustComplexPattern([]*model.MonomerPattern{left}, "")
	rcp := model.MustComplexPattern([]*model.MonomerPattern{right}, "")

	_, err = model.NewRule("r1", []*model.ComplexPattern{lcp}, []*model.ComplexPattern{lcp},
		"kf", "", false)
	assert.Nil(t, err)

	_, err = model.NewRule("r2", []*model.ComplexPattern{lcp}, []*model.ComplexPattern{rcp},
		"kf", "", false)
	assert.True(t, model.HasCode(err, errcode.PatternValidationError))

	_, err = model.NewRule("r3", []*model.ComplexPattern{lcp}, nil, "kf", "", true)
	assert.True(t, model.HasCode(err, errcode.PatternValidationError))

	_, err = mp.WithLabels(map[string]string{"s1": "x", "s2": "x"})
	assert.True(t, model.HasCode(err, errcode.PatternValidationError))
}

func buildModel(t *testing.T) (*model.Model, *model.ComplexPattern, *model.ComplexPattern) {
	m := model.New("test")
	a, b := monomers(t)
	require.Nil(t, m.AddMonomer(a))
	require.Nil(t, m.AddMonomer(b))
	require.Nil(t, m.AddParameter(&model.Parameter{Name: "kf", Value: 2}))
	require.Nil(t, m.AddParameter(&model.Parameter{Name: "kr", Value: 0.5}))
	require.Nil(t, m.AddParameter(&model.Parameter{Name: "A_0", Value: 100}))

	freeA := model.MustComplexPattern([]*model.MonomerPattern{
		model.MustMonomerPattern(a, map[string]model.SiteCondition{
			"s1": model.InState("u"), "s2": model.InState("l"),
		}, ""),
	}, "")
	freeB := model.MustComplexPattern([]*model.MonomerPattern{
		model.MustMonomerPattern(b, map[string]model.SiteCondition{"s1": model.Free()}, ""),
	}, "")
	require.Nil(t, m.AddInitial(freeA, model.ParameterRef("A_0")))
	require.Nil(t, m.AddInitial(freeB, model.Constant(50)))
	return m, freeA, freeB
}

func TestModelRegistry(t *testing.T) {
	m, freeA, _ := buildModel(t)
	err := m.AddParameter(&model.Parameter{Name: "kf", Value: 1})
	var gnErr *gn.Error
	require.True(t, errors.As(err, &gnErr))
	assert.Equal(t, errcode.DuplicateNameError, gnErr.Code)

	assert.Equal(t, 1, m.Parameters.Index("kr"))
	assert.Equal(t, -1, m.Parameters.Index("none"))
	assert.Equal(t, []string{"kf", "kr", "A_0"}, m.Parameters.Names())
	p, ok := m.Parameters.Get("kr")
	require.True(t, ok)
	assert.Equal(t, 0.5, p.Value)

	err = m.AddInitial(freeA, model.Constant(1))
	assert.True(t, model.HasCode(err, errcode.DuplicateNameError))

	c, _ := model.NewMonomer("C", []string{"x"}, nil)
	cp := model.MustComplexPattern([]*model.MonomerPattern{
		model.MustMonomerPattern(c, map[string]model.SiteCondition{"x": model.Free()}, ""),
	}, "")
	err = m.AddInitial(cp, model.Constant(1))
	assert.True(t, model.HasCode(err, errcode.PatternValidationError))

	r, err := model.NewRule("bind", []*model.ComplexPattern{freeA}, nil, "nope", "", false)
	require.Nil(t, err)
	err = m.AddRule(r)
	assert.True(t, model.HasCode(err, errcode.PatternValidationError))
}

func TestCompartments(t *testing.T) {
	m := model.New("comp")
	require.Nil(t, m.AddParameter(&model.Parameter{Name: "V", Value: 1}))
	require.Nil(t, m.AddCompartment(&model.Compartment{Name: "EC", Dimension: 3, Size: "V"}))
	require.Nil(t, m.AddCompartment(&model.Compartment{Name: "PM", Dimension: 2, Parent: "EC"}))

	err := m.AddCompartment(&model.Compartment{Name: "CP", Dimension: 3, Parent: "NUC"})
	assert.True(t, model.HasCode(err, errcode.PatternValidationError))
	err = m.AddCompartment(&model.Compartment{Name: "X", Dimension: 4})
	assert.True(t, model.HasCode(err, errcode.PatternValidationError))
	err = m.AddCompartment(&model.Compartment{Name: "EC", Dimension: 3})
	assert.True(t, model.HasCode(err, errcode.DuplicateNameError))
}

func TestExpressions(t *testing.T) {
	m, _, _ := buildModel(t)
	require.Nil(t, m.AddExpression(&model.Expression{Name: "keff", Expr: expr.MustParse("kf*kr")}))
	require.Nil(t, m.AddExpression(&model.Expression{Name: "k2", Expr: expr.MustParse("2*keff")}))

	err := m.AddExpression(&model.Expression{Name: "loop", Expr: expr.MustParse("loop + 1")})
	var gnErr *gn.Error
	require.True(t, errors.As(err, &gnErr))
	assert.Equal(t, errcode.PatternValidationError, gnErr.Code)
	assert.Contains(t, gnErr.Vars[2], "loop -> loop")

	err = m.AddExpression(&model.Expression{Name: "bad", Expr: expr.MustParse("zz*kf")})
	assert.True(t, model.HasCode(err, errcode.PatternValidationError))

	e, err := m.ExpandExpression("k2")
	require.Nil(t, err)
	assert.True(t, expr.Equal(expr.MustParse("2*kf*kr"), e))

	_, err = m.ExpandExpression("none")
	assert.True(t, model.HasCode(err, errcode.ExpressionError))
}

func TestInitialValuesAndReset(t *testing.T) {
	m, freeA, freeB := buildModel(t)
	require.Nil(t, m.AddExpression(&model.Expression{Name: "half", Expr: expr.MustParse("A_0/2")}))

	_, err := m.InitialValues(nil)
	assert.True(t, model.HasCode(err, errcode.SpeciesNotFoundError))

	m.Species = []*model.ComplexPattern{freeB, freeA}
	m.ODEs = []expr.Expr{expr.Zero, expr.Zero}
	idx, ok := m.SpeciesIndex(freeA)
	assert.True(t, ok)
	assert.Equal(t, 1, idx)

	vals, err := m.InitialValues(nil)
	require.Nil(t, err)
	assert.Equal(t, []float64{50, 100}, vals)

	vals, err = m.InitialValues(map[string]float64{"A_0": 10})
	require.Nil(t, err)
	assert.Equal(t, []float64{50, 10}, vals)

	assert.True(t, m.Generated())
	m.ResetNetwork()
	assert.False(t, m.Generated())
	assert.Empty(t, m.Species)
	_, ok = m.SpeciesIndex(freeA)
	assert.False(t, ok)
}

func TestSpeciesIndexDuplicates(t *testing.T) {
	m, freeA, freeB := buildModel(t)
	m.Species = []*model.ComplexPattern{freeA, freeB, freeA}

	idx, ok := m.SpeciesIndex(freeA)
	require.True(t, ok)
	assert.Equal(t, 0, idx)
	cache := model.SpeciesCache(m)

	idx, ok = m.SpeciesIndex(freeB)
	require.True(t, ok)
	assert.Equal(t, 1, idx)
	assert.Equal(t, cache, model.SpeciesCache(m))

	m.Species = m.Species[:2]
	idx, ok = m.SpeciesIndex(freeA)
	require.True(t, ok)
	assert.Equal(t, 0, idx)
	assert.NotEqual(t, cache, model.SpeciesCache(m))
}
