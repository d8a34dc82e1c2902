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

// networkStore is a store that can also show species of a network.
type networkStore interface {
	rbmnet.Store
	Species(ctx context.Context, modelName string) ([]iostore.SpeciesRecord, error)
}

// getStoreCmd returns the store command with its subcommands.
func getStoreCmd() *cobra.Command {
	storeCmd := &cobra.Command{
		Use:   "store",
		Short: "Archive networks and list saved networks",
		Long: `Work with saved networks.

Networks are saved locally to a SQLite file (see 'rbmnet generate --save')
or archived to PostgreSQL with 'rbmnet store push'. PostgreSQL settings
come from the store.postgres section of config.yaml.`,
	}

	pushCmd := &cobra.Command{
		Use:   "push MODEL.yaml...",
		Short: "Generate networks and archive them in PostgreSQL",
		Long: `Generate networks of models and save them to the PostgreSQL archive.

Tables are created on first use with GORM AutoMigrate. A network saved
under the same model name is replaced.

Examples:
  rbmnet store push egfr.yaml
  rbmnet store push models/*.yaml`,
		Args: cobra.MinimumNArgs(1),
		RunE: runStorePush,
	}
	addEngineFlags(pushCmd)
	pushCmd.Flags().IntP("jobs", "j", 0,
		"number of models generated in parallel")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List saved networks",
		Args:  cobra.NoArgs,
		RunE:  runStoreList,
	}

	showCmd := &cobra.Command{
		Use:   "show MODEL_NAME",
		Short: "Show species of a saved network",
		Args:  cobra.ExactArgs(1),
		RunE:  runStoreShow,
	}

	for _, c := range []*cobra.Command{listCmd, showCmd} {
		addOutputFlags(c)
		c.Flags().BoolP("postgres", "p", false,
			"read from the PostgreSQL archive instead of the SQLite store")
		c.Flags().String("sqlite", "", "SQLite store file")
	}

	storeCmd.AddCommand(pushCmd, listCmd, showCmd)
	return storeCmd
}

func runStorePush(cmd *cobra.Command, args []string) error {
	applyFlags(cmd, engineFlags, jobsFlag)
	ctx := context.Background()

	if _, err := ioengine.InitEnginePath(cfg.Engine.Path); err != nil {
		gn.PrintErrorMessage(err)
		return err
	}

	store, err := iostore.NewPostgres(ctx, cfg.Store)
	if err != nil {
		gn.PrintErrorMessage(err)
		return err
	}
	defer store.Close()

	db := cfg.Store.Postgres
	gn.Info("Connected to database: %s@%s:%d/%s",
		db.User, db.Host, db.Port, db.Database)

	metrics := iometrics.New()
	defer writeMetrics(metrics)
	b := newBatch(metrics,
		iobatch.OptStore(store),
		iobatch.OptProgress(len(args) > 1),
		iobatch.OptOnGenerate(metrics.ObserveNetwork),
	)
	res, err := b.Generate(ctx, args)
	if err != nil {
		gn.PrintErrorMessage(err)
		return err
	}

	var failed int
	for _, r := range res {
		if r.Err != nil {
			failed++
			gn.Warn("Model file <em>%s</em> failed", r.Path)
			gn.PrintErrorMessage(r.Err)
			continue
		}
		gn.Info("Archived network <em>%s</em>", r.Model.Name)
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d models failed", failed, len(res))
	}
	return nil
}

func openStore(ctx context.Context, cmd *cobra.Command) (networkStore, error) {
	applyFlags(cmd, outputFlags, sqliteFlag)
	pg, _ := cmd.Flags().GetBool("postgres")
	if pg {
		return iostore.NewPostgres(ctx, cfg.Store)
	}
	return iostore.NewSQLite(cfg.SQLitePath())
}

func runStoreList(cmd *cobra.Command, _ []string) error {
	ctx := context.Background()
	store, err := openStore(ctx, cmd)
	if err != nil {
		gn.PrintErrorMessage(err)
		return err
	}
	defer store.Close()

	sums, err := store.List(ctx)
	if err != nil {
		gn.PrintErrorMessage(err)
		return err
	}
	if len(sums) == 0 {
		gn.Info("No saved networks")
		return nil
	}
	if err = writeOutput(sums); err != nil {
		gn.PrintErrorMessage(err)
		return err
	}
	return nil
}

func runStoreShow(cmd *cobra.Command, args []string) error {
	ctx := context.Background()
	store, err := openStore(ctx, cmd)
	if err != nil {
		gn.PrintErrorMessage(err)
		return err
	}
	defer store.Close()

	recs, err := store.Species(ctx, args[0])
	if err != nil {
		gn.PrintErrorMessage(err)
		return err
	}
	if len(recs) == 0 {
		gn.Warn("Network <em>%s</em> is not saved", args[0])
		return nil
	}

	rows := make([]speciesRow, len(recs))
	for i, r := range recs {
		rows[i] = speciesRow{
			Index:     r.Idx,
			ID:        r.SpeciesID,
			Canonical: r.Canonical,
			ODE:       r.ODE,
		}
	}
	if err = writeOutput(rows); err != nil {
		gn.PrintErrorMessage(err)
		return err
	}
	return nil
}
