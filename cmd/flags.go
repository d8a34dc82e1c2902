package cmd

import (
	"fmt"
	"os"

	"github.com/gnames/rbmnet/pkg/config"
	"github.com/gnames/rbmnet/pkg/rbmnet"
	"github.com/spf13/cobra"
)

// funcFlag reads a flag and applies it to the configuration.
type funcFlag func(cmd *cobra.Command)

func versionFlag(cmd *cobra.Command) {
	hasVersionFlag, _ := cmd.Flags().GetBool("version")
	if hasVersionFlag {
		fmt.Printf("\nversion: %s\nbuild: %s\n\n", rbmnet.Version, rbmnet.Build)
		os.Exit(0)
	}
}

func applyFlags(cmd *cobra.Command, flags ...funcFlag) {
	for _, f := range flags {
		f(cmd)
	}
}

// addEngineFlags declares flags of commands that run BioNetGen.
func addEngineFlags(cmd *cobra.Command) {
	cmd.Flags().StringP("engine", "e", "",
		"BioNetGen directory (overrides BNGPATH)")
	cmd.Flags().IntP("timeout", "t", 0,
		"engine time limit in seconds, 0 means no limit")
	cmd.Flags().BoolP("keep-files", "k", false,
		"keep temporary engine files for debugging")
	cmd.Flags().BoolP("verbose", "v", false,
		"show BioNetGen output while it runs")
}

// addOutputFlags declares flags of commands that print results.
func addOutputFlags(cmd *cobra.Command) {
	cmd.Flags().StringP("format", "f", "text", "output format: text or json")
	cmd.Flags().StringP("out", "o", "", "write output to a file instead of STDOUT")
}

func engineFlags(cmd *cobra.Command) {
	applyFlags(cmd, enginePathFlag, timeoutFlag, keepFilesFlag, verboseFlag)
}

func outputFlags(cmd *cobra.Command) {
	applyFlags(cmd, formatFlag, outFlag)
}

func enginePathFlag(cmd *cobra.Command) {
	s, _ := cmd.Flags().GetString("engine")
	if s != "" {
		cfg.Update([]config.Option{config.OptEnginePath(s)})
	}
}

func timeoutFlag(cmd *cobra.Command) {
	if !cmd.Flags().Changed("timeout") {
		return
	}
	i, _ := cmd.Flags().GetInt("timeout")
	cfg.Update([]config.Option{config.OptEngineTimeoutSec(i)})
}

func keepFilesFlag(cmd *cobra.Command) {
	b, _ := cmd.Flags().GetBool("keep-files")
	if b {
		cfg.Update([]config.Option{config.OptEngineCleanup(false)})
	}
}

func verboseFlag(cmd *cobra.Command) {
	b, _ := cmd.Flags().GetBool("verbose")
	if b {
		cfg.Update([]config.Option{config.OptEngineVerbose(true)})
	}
}

func formatFlag(cmd *cobra.Command) {
	s, _ := cmd.Flags().GetString("format")
	if s != "" {
		cfg.Update([]config.Option{config.OptOutputFormat(s)})
	}
}

func outFlag(cmd *cobra.Command) {
	s, _ := cmd.Flags().GetString("out")
	if s != "" {
		cfg.Update([]config.Option{config.OptOutputFile(s)})
	}
}

func detailsFlag(cmd *cobra.Command) {
	b, _ := cmd.Flags().GetBool("details")
	if b {
		cfg.Update([]config.Option{config.OptOutputDetails(true)})
	}
}

func jobsFlag(cmd *cobra.Command) {
	if !cmd.Flags().Changed("jobs") {
		return
	}
	i, _ := cmd.Flags().GetInt("jobs")
	cfg.Update([]config.Option{config.OptJobsNumber(i)})
}

func sqliteFlag(cmd *cobra.Command) {
	s, _ := cmd.Flags().GetString("sqlite")
	if s != "" {
		cfg.Update([]config.Option{config.OptStoreSQLitePath(s)})
	}
}
