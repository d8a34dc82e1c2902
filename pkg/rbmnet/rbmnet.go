// Package rbmnet declares the contracts of the impure parts of the toolkit
// (the rule expander, the simulator and network stores) and drives network
// generation through them.
package rbmnet

import (
	"context"

	"github.com/gnames/rbmnet/pkg/bngl"
	"github.com/gnames/rbmnet/pkg/model"
	"github.com/gnames/rbmnet/pkg/netfile"
)

// Expander sends a model to the rule expansion engine and returns the
// network file it produced.
type Expander interface {
	// Expand fails with NoRulesError or NoInitialConditionsError before
	// running the engine when the model is incomplete. Engine failures are
	// returned as NetworkGenerationError with the engine output.
	// Temporary files are removed before Expand returns, also on errors
	// and timeouts.
	Expand(ctx context.Context, m *model.Model) (string, error)
}

// Simulator runs a stochastic simulation of a model with the engine.
type Simulator interface {
	// Simulate returns the table of observables over time.
	Simulate(ctx context.Context, m *model.Model, opts bngl.SSAOptions) (*netfile.Table, error)
}

// Store persists generated networks.
type Store interface {
	// Save writes the generated network of the model, replacing a network
	// previously saved under the same model name.
	Save(ctx context.Context, m *model.Model) error

	// List returns summaries of saved networks ordered by model name.
	List(ctx context.Context) ([]Summary, error)

	// Close releases the underlying connection.
	Close() error
}
