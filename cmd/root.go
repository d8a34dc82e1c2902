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
	"fmt"
	"log/slog"
	"os"

	"github.com/gnames/gn"
	"github.com/gnames/rbmnet/internal/ioconfig"
	"github.com/gnames/rbmnet/internal/iofs"
	"github.com/gnames/rbmnet/internal/iologger"
	"github.com/gnames/rbmnet/pkg/config"
	"github.com/gnames/rbmnet/pkg/rbmnet"
	"github.com/spf13/cobra"
)

var (
	homeDir string
	cfgFile string
	opts    []config.Option
	cfg     *config.Config
)

func getRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Version: fmt.Sprintf("version: %s\nbuild:   %s", rbmnet.Version, rbmnet.Build),
		Use:     "rbmnet",
		Short:   "Rbmnet generates reaction networks of rule-based models",
		Long: `Rbmnet turns rule-based biochemical models into reaction networks
and ordinary differential equations.

A model is a YAML file with monomers, parameters, rules, observables and
initial conditions. Rbmnet sends the model to BioNetGen (BNG2.pl), reads
the generated network back, and assembles species, reactions and ODEs.

Commands:
  generate  generate networks and print species, reactions and ODEs
  simulate  run a stochastic simulation of a model
  engine    show the BioNetGen location and version
  store     save networks to a PostgreSQL archive and list saved networks
  config    show the effective configuration

Configuration precedence (highest to lowest):
  1. CLI flags
  2. Environment variables (RBMNET_*)
  3. Config file (~/.config/rbmnet/config.yaml)
  4. Built-in defaults

Run 'rbmnet config --env' to see all environment variables.`,
		PersistentPreRunE: bootstrap,
		RunE:              runRoot,
		SilenceErrors:     true,
		SilenceUsage:      true,
	}

	// Remove the automatic "rbmnet version" prefix
	rootCmd.SetVersionTemplate("{{.Version}}\n")

	// Override version flag to use -V (consistent with other gn projects)
	rootCmd.Flags().BoolP("version", "V", false, "version for rbmnet")
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "",
		"config file (default is ~/.config/rbmnet/config.yaml)")

	rootCmd.AddCommand(
		getGenerateCmd(),
		getSimulateCmd(),
		getEngineCmd(),
		getStoreCmd(),
		getConfigCmd(),
	)
	return rootCmd
}

func bootstrap(cmd *cobra.Command, args []string) error {
	var err error
	homeDir, err = os.UserHomeDir()
	if err != nil {
		gn.PrintErrorMessage(err)
		return err
	}

	if err = iofs.EnsureDirs(homeDir); err != nil {
		gn.PrintErrorMessage(err)
		return err
	}

	// Initialize logging with hardcoded defaults
	// Will be reconfigured later with user's config settings
	defaultLog := config.New().Log
	if err = iologger.Init(config.LogDir(homeDir), defaultLog, false); err != nil {
		gn.PrintErrorMessage(err)
		return err
	}

	if err = iofs.EnsureConfigFile(homeDir); err != nil {
		gn.PrintErrorMessage(err)
		return err
	}

	cfgPath := configPath()

	var cfgViper *config.Config
	if cfgViper, err = ioconfig.LoadFile(cfgPath); err != nil {
		gn.PrintErrorMessage(err)
		return err
	}

	cfg = config.New()
	opts = cfgViper.ToOptions()
	cfg.Update(opts)

	// Set HomeDir after config is loaded
	cfg.Update([]config.Option{config.OptHomeDir(homeDir)})

	// Reconfigure logging with user's settings and proper log file location
	if err = reconfigureLogging(cfg); err != nil {
		gn.PrintErrorMessage(err)
		return err
	}

	slog.Info("Configuration loaded", "config_file", cfgPath)
	return nil
}

// configPath returns the file given by --config or the default config.yaml.
func configPath() string {
	if cfgFile != "" {
		return cfgFile
	}
	return config.ConfigFilePath(homeDir)
}

// reconfigureLogging reinitializes the logger with the loaded configuration.
// The log file started by bootstrap is appended to.
func reconfigureLogging(cfg *config.Config) error {
	logDir := config.LogDir(cfg.HomeDir)
	return iologger.Init(logDir, cfg.Log, true)
}

func runRoot(cmd *cobra.Command, args []string) error {
	versionFlag(cmd)
	return cmd.Help()
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := getRootCmd().Execute()
	if err != nil {
		os.Exit(1)
	}
}
