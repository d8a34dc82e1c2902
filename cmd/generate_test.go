package cmd

import (
	"testing"

	"github.com/gnames/rbmnet/pkg/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetGenerateCmd_Flags(t *testing.T) {
	cmd := getGenerateCmd()
	require.NotNil(t, cmd)
	assert.Equal(t, "generate MODEL.yaml...", cmd.Use)
	assert.NotNil(t, cmd.RunE)

	tests := []struct {
		name      string
		shorthand string
		defValue  string
	}{
		{"engine", "e", ""},
		{"timeout", "t", "0"},
		{"keep-files", "k", "false"},
		{"verbose", "v", "false"},
		{"format", "f", "text"},
		{"out", "o", ""},
		{"details", "d", "false"},
		{"jobs", "j", "0"},
		{"save", "s", "false"},
		{"sqlite", "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := cmd.Flags().Lookup(tt.name)
			require.NotNil(t, f)
			assert.Equal(t, tt.shorthand, f.Shorthand)
			assert.Equal(t, tt.defValue, f.DefValue)
		})
	}
}

func TestGenerateFlagsUpdateConfig(t *testing.T) {
	cfg = config.New()
	cmd := getGenerateCmd()
	require.NoError(t, cmd.ParseFlags([]string{
		"--engine", "/opt/bng",
		"--timeout", "30",
		"--keep-files",
		"-f", "json",
		"-d",
		"-j", "3",
		"--sqlite", "/tmp/n.sqlite",
	}))

	applyFlags(cmd, engineFlags, outputFlags, detailsFlag, jobsFlag, sqliteFlag)
	assert.Equal(t, "/opt/bng", cfg.Engine.Path)
	assert.Equal(t, 30, cfg.Engine.TimeoutSec)
	assert.False(t, cfg.Engine.Cleanup)
	assert.False(t, cfg.Engine.Verbose)
	assert.Equal(t, "json", cfg.Output.Format)
	assert.True(t, cfg.Output.Details)
	assert.Equal(t, 3, cfg.JobsNumber)
	assert.Equal(t, "/tmp/n.sqlite", cfg.SQLitePath())
}

func TestGenerateFlagsKeepConfig(t *testing.T) {
	cfg = config.New()
	cfg.Update([]config.Option{config.OptEngineTimeoutSec(60)})
	cmd := getGenerateCmd()
	require.NoError(t, cmd.ParseFlags(nil))

	applyFlags(cmd, engineFlags, outputFlags, jobsFlag)
	assert.Equal(t, 60, cfg.Engine.TimeoutSec)
	assert.True(t, cfg.Engine.Cleanup)
	assert.Equal(t, "text", cfg.Output.Format)
	assert.Equal(t, config.New().JobsNumber, cfg.JobsNumber)
}

func TestGetStoreCmd(t *testing.T) {
	cmd := getStoreCmd()
	var names []string
	for _, c := range cmd.Commands() {
		names = append(names, c.Name())
		if c.Name() == "list" || c.Name() == "show" {
			assert.NotNil(t, c.Flags().Lookup("postgres"))
			assert.NotNil(t, c.Flags().Lookup("format"))
		}
	}
	assert.ElementsMatch(t, []string{"push", "list", "show"}, names)
}

func TestGetSimulateCmd(t *testing.T) {
	cmd := getSimulateCmd()
	require.NoError(t, cmd.ParseFlags([]string{"--t-end", "5", "--arg", "seed=42"}))
	tEnd, _ := cmd.Flags().GetFloat64("t-end")
	nSteps, _ := cmd.Flags().GetInt("n-steps")
	args, _ := cmd.Flags().GetStringToString("arg")
	assert.Equal(t, 5.0, tEnd)
	assert.Equal(t, 100, nSteps)
	assert.Equal(t, map[string]string{"seed": "42"}, args)
}
