package config_test

import (
	"path/filepath"
	"runtime"
	"testing"

	"github.com/gnames/rbmnet/pkg/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDirs(t *testing.T) {
	tempHome := t.TempDir()

	tests := []struct {
		msg string
		fn  func(string) string
		res string
	}{
		{
			msg: "config dir",
			fn:  config.ConfigDir,
			res: filepath.Join(tempHome, ".config", "rbmnet"),
		},
		{
			msg: "cache dir",
			fn:  config.CacheDir,
			res: filepath.Join(tempHome, ".cache", "rbmnet"),
		},
		{
			msg: "log dir",
			fn:  config.LogDir,
			res: filepath.Join(tempHome, ".local", "share", "rbmnet", "logs"),
		},
		{
			msg: "config file",
			fn:  config.ConfigFilePath,
			res: filepath.Join(tempHome, ".config", "rbmnet", "config.yaml"),
		},
	}

	for _, v := range tests {
		res := v.fn(tempHome)
		assert.Equal(t, v.res, res, v.msg)
	}
}

func TestNew(t *testing.T) {
	cfg := config.New()
	require.NotNil(t, cfg)

	assert.Equal(t, "", cfg.Engine.Path)
	assert.Equal(t, 0, cfg.Engine.TimeoutSec)
	assert.True(t, cfg.Engine.Cleanup)
	assert.False(t, cfg.Engine.AppendStdout)
	assert.False(t, cfg.Engine.Verbose)

	assert.Equal(t, 10_000, cfg.Store.BatchSize)
	assert.Equal(t, "localhost", cfg.Store.Postgres.Host)
	assert.Equal(t, 5432, cfg.Store.Postgres.Port)
	assert.Equal(t, "rbmnet", cfg.Store.Postgres.Database)
	assert.Equal(t, "disable", cfg.Store.Postgres.SSLMode)

	assert.Equal(t, "json", cfg.Log.Format)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "file", cfg.Log.Destination)

	assert.Equal(t, "", cfg.Metrics.File)
	assert.Equal(t, "text", cfg.Output.Format)
	assert.Equal(t, runtime.NumCPU(), cfg.JobsNumber)
}

func TestSQLitePath(t *testing.T) {
	cfg := config.New()
	cfg.Update([]config.Option{config.OptHomeDir("/home/user")})
	assert.Equal(t, filepath.Join("/home/user", ".cache", "rbmnet", "networks.sqlite"),
		cfg.SQLitePath())

	cfg.Update([]config.Option{config.OptStoreSQLitePath("/tmp/net.sqlite")})
	assert.Equal(t, "/tmp/net.sqlite", cfg.SQLitePath())
}

func TestOptionStrings(t *testing.T) {
	tests := []struct {
		name     string
		opt      func(string) config.Option
		field    func(*config.Config) string
		input    string
		expected string
	}{
		{
			name:     "engine path",
			opt:      config.OptEnginePath,
			field:    func(c *config.Config) string { return c.Engine.Path },
			input:    "  /opt/BioNetGen  ",
			expected: "/opt/BioNetGen",
		},
		{
			name:     "engine path ignores empty",
			opt:      config.OptEnginePath,
			field:    func(c *config.Config) string { return c.Engine.Path },
			input:    "   ",
			expected: "",
		},
		{
			name:     "work dir",
			opt:      config.OptEngineWorkDir,
			field:    func(c *config.Config) string { return c.Engine.WorkDir },
			input:    "/tmp/work",
			expected: "/tmp/work",
		},
		{
			name:     "database host",
			opt:      config.OptDatabaseHost,
			field:    func(c *config.Config) string { return c.Store.Postgres.Host },
			input:    "db.example.com",
			expected: "db.example.com",
		},
		{
			name:     "database host ignores empty",
			opt:      config.OptDatabaseHost,
			field:    func(c *config.Config) string { return c.Store.Postgres.Host },
			input:    "",
			expected: "localhost",
		},
		{
			name:     "ssl mode lowercased",
			opt:      config.OptDatabaseSSLMode,
			field:    func(c *config.Config) string { return c.Store.Postgres.SSLMode },
			input:    "REQUIRE",
			expected: "require",
		},
		{
			name:     "ssl mode rejects unknown",
			opt:      config.OptDatabaseSSLMode,
			field:    func(c *config.Config) string { return c.Store.Postgres.SSLMode },
			input:    "sometimes",
			expected: "disable",
		},
		{
			name:     "log level",
			opt:      config.OptLogLevel,
			field:    func(c *config.Config) string { return c.Log.Level },
			input:    "debug",
			expected: "debug",
		},
		{
			name:     "log level rejects unknown",
			opt:      config.OptLogLevel,
			field:    func(c *config.Config) string { return c.Log.Level },
			input:    "verbose",
			expected: "info",
		},
		{
			name:     "log format",
			opt:      config.OptLogFormat,
			field:    func(c *config.Config) string { return c.Log.Format },
			input:    "tint",
			expected: "tint",
		},
		{
			name:     "log destination",
			opt:      config.OptLogDestination,
			field:    func(c *config.Config) string { return c.Log.Destination },
			input:    "stderr",
			expected: "stderr",
		},
		{
			name:     "metrics file",
			opt:      config.OptMetricsFile,
			field:    func(c *config.Config) string { return c.Metrics.File },
			input:    "/tmp/rbmnet.prom",
			expected: "/tmp/rbmnet.prom",
		},
		{
			name:     "output format",
			opt:      config.OptOutputFormat,
			field:    func(c *config.Config) string { return c.Output.Format },
			input:    "JSON",
			expected: "json",
		},
		{
			name:     "output format rejects yaml",
			opt:      config.OptOutputFormat,
			field:    func(c *config.Config) string { return c.Output.Format },
			input:    "yaml",
			expected: "text",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := config.New()
			cfg.Update([]config.Option{tt.opt(tt.input)})
			assert.Equal(t, tt.expected, tt.field(cfg))
		})
	}
}

func TestOptionInts(t *testing.T) {
	tests := []struct {
		name     string
		opt      func(int) config.Option
		field    func(*config.Config) int
		input    int
		expected int
	}{
		{
			name:     "timeout",
			opt:      config.OptEngineTimeoutSec,
			field:    func(c *config.Config) int { return c.Engine.TimeoutSec },
			input:    600,
			expected: 600,
		},
		{
			name:     "timeout accepts zero",
			opt:      config.OptEngineTimeoutSec,
			field:    func(c *config.Config) int { return c.Engine.TimeoutSec },
			input:    0,
			expected: 0,
		},
		{
			name:     "timeout ignores negative",
			opt:      config.OptEngineTimeoutSec,
			field:    func(c *config.Config) int { return c.Engine.TimeoutSec },
			input:    -1,
			expected: 0,
		},
		{
			name:     "batch size",
			opt:      config.OptStoreBatchSize,
			field:    func(c *config.Config) int { return c.Store.BatchSize },
			input:    500,
			expected: 500,
		},
		{
			name:     "batch size ignores zero",
			opt:      config.OptStoreBatchSize,
			field:    func(c *config.Config) int { return c.Store.BatchSize },
			input:    0,
			expected: 10_000,
		},
		{
			name:     "port ignores negative",
			opt:      config.OptDatabasePort,
			field:    func(c *config.Config) int { return c.Store.Postgres.Port },
			input:    -100,
			expected: 5432,
		},
		{
			name:     "jobs number",
			opt:      config.OptJobsNumber,
			field:    func(c *config.Config) int { return c.JobsNumber },
			input:    3,
			expected: 3,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := config.New()
			cfg.Update([]config.Option{tt.opt(tt.input)})
			assert.Equal(t, tt.expected, tt.field(cfg))
		})
	}
}

func TestOptionBools(t *testing.T) {
	cfg := config.New()
	cfg.Update([]config.Option{
		config.OptEngineCleanup(false),
		config.OptEngineAppendStdout(true),
		config.OptEngineVerbose(true),
		config.OptOutputDetails(true),
	})
	assert.False(t, cfg.Engine.Cleanup)
	assert.True(t, cfg.Engine.AppendStdout)
	assert.True(t, cfg.Engine.Verbose)
	assert.True(t, cfg.Output.Details)
}

func TestMultipleOptions(t *testing.T) {
	t.Run("later options override earlier ones", func(t *testing.T) {
		cfg := config.New()
		cfg.Update([]config.Option{
			config.OptDatabaseHost("first.host.com"),
			config.OptDatabaseHost("second.host.com"),
		})
		assert.Equal(t, "second.host.com", cfg.Store.Postgres.Host)
	})
}

func TestToOptions(t *testing.T) {
	t.Run("round trips persistent fields", func(t *testing.T) {
		original := config.New()
		original.Update([]config.Option{
			config.OptEnginePath("/opt/bng"),
			config.OptEngineWorkDir("/tmp/rbm"),
			config.OptEngineTimeoutSec(60),
			config.OptEngineCleanup(false),
			config.OptEngineAppendStdout(true),
			config.OptEngineVerbose(true),
			config.OptStoreSQLitePath("/tmp/n.sqlite"),
			config.OptStoreBatchSize(100),
			config.OptDatabaseHost("test.host.com"),
			config.OptDatabasePort(6543),
			config.OptDatabaseUser("testuser"),
			config.OptDatabasePassword("testpass"),
			config.OptDatabaseDatabase("testdb"),
			config.OptDatabaseSSLMode("require"),
			config.OptLogLevel("debug"),
			config.OptLogFormat("text"),
			config.OptLogDestination("stdout"),
			config.OptMetricsFile("/tmp/m.prom"),
			config.OptJobsNumber(8),
		})

		newCfg := config.New()
		newCfg.Update(original.ToOptions())
		assert.Equal(t, original.Engine, newCfg.Engine)
		assert.Equal(t, original.Store, newCfg.Store)
		assert.Equal(t, original.Log, newCfg.Log)
		assert.Equal(t, original.Metrics, newCfg.Metrics)
		assert.Equal(t, original.JobsNumber, newCfg.JobsNumber)
	})

	t.Run("excludes runtime-only fields", func(t *testing.T) {
		cfg := config.New()
		cfg.Update([]config.Option{
			config.OptHomeDir("/custom/home"),
			config.OptOutputFormat("json"),
			config.OptOutputDetails(true),
			config.OptOutputFile("out.json"),
		})

		newCfg := config.New()
		newCfg.Update(cfg.ToOptions())
		assert.Equal(t, "", newCfg.HomeDir)
		assert.Equal(t, "text", newCfg.Output.Format)
		assert.False(t, newCfg.Output.Details)
		assert.Equal(t, "", newCfg.Output.File)
	})
}
