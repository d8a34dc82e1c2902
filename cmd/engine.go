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
	"github.com/gnames/rbmnet/pkg/config"
	"github.com/spf13/cobra"
)

// getEngineCmd returns the engine command.
func getEngineCmd() *cobra.Command {
	engineCmd := &cobra.Command{
		Use:   "engine",
		Short: "Show BioNetGen location and version",
		Long: `Find BioNetGen (BNG2.pl) and print its location and version.

Locations are checked in this order:
  1. --engine flag or engine.path setting
  2. BNGPATH environment variable
  3. Standard install locations

Examples:
  rbmnet engine
  rbmnet engine --engine /opt/BioNetGen-2.9.2`,
		Args: cobra.NoArgs,
		RunE: runEngine,
	}

	engineCmd.Flags().StringP("engine", "e", "",
		"BioNetGen directory (overrides BNGPATH)")

	return engineCmd
}

func runEngine(cmd *cobra.Command, _ []string) error {
	ctx := context.Background()

	var path string
	var err error
	dir, _ := cmd.Flags().GetString("engine")
	if dir != "" {
		cfg.Update([]config.Option{config.OptEnginePath(dir)})
		path, err = ioengine.OverrideEnginePath(dir)
	} else {
		path, err = ioengine.InitEnginePath(cfg.Engine.Path)
	}
	if err != nil {
		gn.PrintErrorMessage(err)
		return err
	}
	gn.Info("BioNetGen script: <em>%s</em>", path)

	version, err := ioengine.New(cfg.Engine).EngineVersion(ctx)
	if err != nil {
		gn.PrintErrorMessage(err)
		return err
	}
	gn.Info("BioNetGen version: <em>%s</em>", version)
	return nil
}
