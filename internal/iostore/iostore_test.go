package iostore_test

import (
	"context"
	"testing"

	"github.com/gnames/rbmnet/pkg/model"
	"github.com/gnames/rbmnet/pkg/rbmnet"
	"github.com/stretchr/testify/require"
)

const phosNet = `begin species
    1 A(s~u) A_0
    2 A(s~p) 0
end species
begin reactions
    1 1 2 kp #phos
    2 2 1 kdp #phos(reverse)
end reactions
begin groups
    1 Ap 2
end groups
`

type textExpander string

func (e textExpander) Expand(_ context.Context, _ *model.Model) (string, error) {
	return string(e), nil
}

func phosModel(t *testing.T, name string, generate bool) *model.Model {
	m := model.New(name)
	a, err := model.NewMonomer("A", []string{"s"}, map[string][]string{"s": {"u", "p"}})
	require.Nil(t, err)
	require.Nil(t, m.AddMonomer(a))
	for _, p := range []string{"kp", "kdp", "A_0"} {
		require.Nil(t, m.AddParameter(&model.Parameter{Name: p, Value: 1}))
	}
	au := model.MustComplexPattern([]*model.MonomerPattern{
		model.MustMonomerPattern(a, map[string]model.SiteCondition{"s": model.InState("u")}, ""),
	}, "")
	ap := model.MustComplexPattern([]*model.MonomerPattern{
		model.MustMonomerPattern(a, map[string]model.SiteCondition{"s": model.InState("p")}, ""),
	}, "")
	r, err := model.NewRule("phos", []*model.ComplexPattern{au}, []*model.ComplexPattern{ap},
		"kp", "kdp", true)
	require.Nil(t, err)
	require.Nil(t, m.AddRule(r))
	require.Nil(t, m.AddObservable(&model.Observable{Name: "Ap", Patterns: []*model.ComplexPattern{ap}}))
	require.Nil(t, m.AddInitial(au, model.ParameterRef("A_0")))
	if generate {
		require.Nil(t, rbmnet.GenerateEquations(context.Background(), m, textExpander(phosNet)))
	}
	return m
}
