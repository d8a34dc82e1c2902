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
	"fmt"

	"github.com/gnames/gn"
	"github.com/gnames/rbmnet/internal/iobatch"
	"github.com/gnames/rbmnet/internal/ioengine"
	"github.com/gnames/rbmnet/internal/iometrics"
	"github.com/gnames/rbmnet/internal/iostore"
	"github.com/gnames/rbmnet/pkg/rbmnet"
	"github.com/spf13/cobra"
)

// getGenerateCmd returns the generate command.
func getGenerateCmd() *cobra.Command {
	generateCmd := &cobra.Command{
		Use:   "generate MODEL.yaml...",
		Short: "Generate reaction networks of models",
		Long: `Generate reaction networks and ODEs of rule-based models.

This command:
  1. Reads model YAML files
  2. Runs BioNetGen for every model, several models in parallel
  3. Assembles species, reactions and ODEs
  4. Prints a summary of every network

Use --details to print species, ODEs and observables.
Use --save to keep networks in the local SQLite store.

Examples:
  rbmnet generate egfr.yaml
  rbmnet generate -d -f json egfr.yaml
  rbmnet generate --save models/*.yaml`,
		Args: cobra.MinimumNArgs(1),
		RunE: runGenerate,
	}

	addEngineFlags(generateCmd)
	addOutputFlags(generateCmd)
	generateCmd.Flags().BoolP("details", "d", false,
		"print species, ODEs and observables")
	generateCmd.Flags().IntP("jobs", "j", 0,
		"number of models generated in parallel")
	generateCmd.Flags().BoolP("save", "s", false,
		"save networks to the local SQLite store")
	generateCmd.Flags().String("sqlite", "",
		"SQLite store file, implies --save")

	return generateCmd
}

func runGenerate(cmd *cobra.Command, args []string) error {
	applyFlags(cmd, engineFlags, outputFlags, detailsFlag, jobsFlag, sqliteFlag)
	ctx := context.Background()

	if _, err := ioengine.InitEnginePath(cfg.Engine.Path); err != nil {
		gn.PrintErrorMessage(err)
		return err
	}

	var batchOpts []iobatch.Option
	save, _ := cmd.Flags().GetBool("save")
	sqlitePath, _ := cmd.Flags().GetString("sqlite")
	if save || sqlitePath != "" {
		store, err := iostore.NewSQLite(cfg.SQLitePath())
		if err != nil {
			gn.PrintErrorMessage(err)
			return err
		}
		defer store.Close()
		batchOpts = append(batchOpts, iobatch.OptStore(store))
	}

	metrics := iometrics.New()
	defer writeMetrics(metrics)
	batchOpts = append(batchOpts,
		iobatch.OptProgress(len(args) > 1),
		iobatch.OptOnGenerate(metrics.ObserveNetwork),
	)

	res, err := newBatch(metrics, batchOpts...).Generate(ctx, args)
	if err != nil {
		gn.PrintErrorMessage(err)
		return err
	}

	var sums []rbmnet.Summary
	var firstErr error
	for _, r := range res {
		if r.Err != nil {
			gn.Warn("Model file <em>%s</em> failed", r.Path)
			gn.PrintErrorMessage(r.Err)
			if firstErr == nil {
				firstErr = r.Err
			}
			continue
		}
		sums = append(sums, rbmnet.NewSummary(r.Model, cfg.Output.Details))
	}

	if len(sums) > 0 {
		if err = writeOutput(sums); err != nil {
			gn.PrintErrorMessage(err)
			return err
		}
	}
	if firstErr != nil {
		return fmt.Errorf("%d of %d models failed: %w",
			len(res)-len(sums), len(res), firstErr)
	}
	return nil
}

// newBatch creates a batch whose engines are instrumented with metrics.
func newBatch(metrics *iometrics.Metrics, opts ...iobatch.Option) *iobatch.Batch {
	engine := ioengine.New(cfg.Engine)
	newExp := func(dir string) rbmnet.Expander {
		return metrics.Expander(engine.WithWorkDir(dir))
	}
	return iobatch.New(cfg, newExp, opts...)
}
