package rbmnet

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/gnames/rbmnet/pkg/model"
	"github.com/gnames/rbmnet/pkg/netfile"
	"github.com/gnames/rbmnet/pkg/network"
)

// GenerateEquations generates the network of the model once: it expands the
// rules, parses the engine output and assembles species, reactions, ODEs
// and observable assignments into the model.
//
// It does nothing when the model already has ODEs. To generate again, call
// m.ResetNetwork first or build a new model.
func GenerateEquations(ctx context.Context, m *model.Model, exp Expander) error {
	if m.Generated() {
		slog.Debug("Network already generated", "model", m.Name)
		return nil
	}

	start := time.Now()
	text, err := exp.Expand(ctx, m)
	if err != nil {
		return err
	}

	net, err := netfile.Parse(strings.NewReader(text), m)
	if err != nil {
		return err
	}

	if err = network.Assemble(m, net); err != nil {
		return err
	}

	slog.Info("Network generated",
		"model", m.Name,
		"species", len(m.Species),
		"reactions", len(m.Reactions),
		"duration", time.Since(start).String(),
	)
	return nil
}
