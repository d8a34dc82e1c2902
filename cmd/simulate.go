/*
Copyright © 2025 Dmitry Mozzherin <dmozzherin@gmail.com>

Permission is hereby granted, free of charge, to any person obtaining a copy
of this software and associated documentation files (the "Software"), to deal
in the Software without restriction, including without limitation the rights
to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
copies of the Software, and to permit persons to whom the Software is
furnished to do so, subject to the following conditions:

The above copyright notice and this permission notice shall be included in
all copies or substantial portions of the Software.

THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN
THE SOFTWARE.
*/
package cmd

import (
	"context"

	"github.com/gnames/gn"
	"github.com/gnames/rbmnet/internal/ioengine"
	"github.com/gnames/rbmnet/internal/iometrics"
	"github.com/gnames/rbmnet/internal/iomodel"
	"github.com/gnames/rbmnet/pkg/bngl"
	"github.com/spf13/cobra"
)

// getSimulateCmd returns the simulate command.
func getSimulateCmd() *cobra.Command {
	simulateCmd := &cobra.Command{
		Use:   "simulate MODEL.yaml",
		Short: "Run a stochastic simulation of a model",
		Long: `Run a stochastic simulation (SSA) of a model with BioNetGen.

The output is a table of observables over time. The first column is time.

Examples:
  rbmnet simulate --t-end 100 --n-steps 50 egfr.yaml
  rbmnet simulate -f json -o traj.json egfr.yaml`,
		Args: cobra.ExactArgs(1),
		RunE: runSimulate,
	}

	addEngineFlags(simulateCmd)
	addOutputFlags(simulateCmd)
	simulateCmd.Flags().Float64("t-end", 100, "final time point")
	simulateCmd.Flags().Int("n-steps", 100, "number of output time points")
	simulateCmd.Flags().StringToString("arg", nil,
		"additional simulator arguments, for example --arg seed=42")

	return simulateCmd
}

func runSimulate(cmd *cobra.Command, args []string) error {
	applyFlags(cmd, engineFlags, outputFlags)
	ctx := context.Background()

	m, err := iomodel.Load(args[0])
	if err != nil {
		gn.PrintErrorMessage(err)
		return err
	}

	var opts bngl.SSAOptions
	opts.TEnd, _ = cmd.Flags().GetFloat64("t-end")
	opts.NSteps, _ = cmd.Flags().GetInt("n-steps")
	opts.Args, _ = cmd.Flags().GetStringToString("arg")
	opts.Verbose = cfg.Engine.Verbose

	metrics := iometrics.New()
	defer writeMetrics(metrics)
	sim := metrics.Simulator(ioengine.New(cfg.Engine))

	gn.Info("Simulating model <em>%s</em>...", m.Name)
	tbl, err := sim.Simulate(ctx, m, opts)
	if err != nil {
		gn.PrintErrorMessage(err)
		return err
	}

	if err = writeOutput(tbl); err != nil {
		gn.PrintErrorMessage(err)
		return err
	}
	return nil
}
