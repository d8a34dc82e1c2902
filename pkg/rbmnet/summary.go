package rbmnet

import (
	"github.com/gnames/rbmnet/pkg/expr"
	"github.com/gnames/rbmnet/pkg/model"
	"github.com/gnames/rbmnet/pkg/network"
)

// Summary describes a generated network.
type Summary struct {
	// Model is the model name.
	Model string `json:"model"`

	// Species is the number of species.
	Species int `json:"species"`

	// Reactions is the number of directed reactions.
	Reactions int `json:"reactions"`

	// ReactionsBidirectional is the number of merged reactions.
	ReactionsBidirectional int `json:"reactionsBidirectional"`

	// Conserved is true when the ODE right-hand sides sum up to zero.
	Conserved bool `json:"conserved"`

	// SpeciesList contains canonical forms of species in index order.
	SpeciesList []string `json:"speciesList,omitempty"`

	// ODEs contains the right-hand sides of the ODEs in species order.
	ODEs []string `json:"odes,omitempty"`

	// Observables maps observable names to their weighted sums of species.
	Observables map[string]string `json:"observables,omitempty"`
}

// NewSummary summarizes the generated network of a model. With details it
// also lists species, ODEs and observables.
func NewSummary(m *model.Model, details bool) Summary {
	res := Summary{
		Model:                  m.Name,
		Species:                len(m.Species),
		Reactions:              len(m.Reactions),
		ReactionsBidirectional: len(m.ReactionsBidirectional),
		Conserved:              expr.IsZero(network.CheckConservation(m.ODEs)),
	}
	if !details {
		return res
	}

	res.SpeciesList = make([]string, len(m.Species))
	for i, sp := range m.Species {
		res.SpeciesList[i] = sp.Canonical()
	}
	res.ODEs = make([]string, len(m.ODEs))
	for i, e := range m.ODEs {
		res.ODEs[i] = e.String()
	}
	res.Observables = make(map[string]string)
	for _, o := range m.Observables.All() {
		res.Observables[o.Name] = o.Expr().String()
	}
	return res
}
