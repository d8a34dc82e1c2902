// Package config provides configuration management for rbmnet.
//
// This package has no I/O dependencies (no file operations, no network calls).
// Validation functions may write user-facing warnings via gn.Warn().
//
// # Configuration Sources
//
// Precedence (highest to lowest): CLI flags > env vars > config.yaml > defaults
//
// # Design Principles
//
// - Default config (from New()) is always valid - no validation needed
// - All mutations go through Option functions - the only way to modify Config
// - Invalid options are rejected with gn.Warn() - config remains in valid state
// - ToOptions() converts persistent fields (those in config.yaml)
// - Environment variables match ToOptions() fields exactly
//
// # Persistent vs Runtime Fields
//
// Persistent fields (in ToOptions, config.yaml, and env vars):
//   - Engine: path, work_dir, timeout_sec, cleanup, append_stdout, verbose
//   - Store: sqlite_path, batch_size, postgres host, port, user, password,
//     database, ssl_mode
//   - Log: level, format, destination
//   - Metrics: file
//   - General: jobs_number
//
// Runtime-only fields (CLI flags only):
//   - Output.Format, Output.Details, Output.File (per-command)
//   - HomeDir (set once at startup)
//
// # Environment Variables
//
// Use RBMNET_ prefix with underscores for nesting:
//
//	RBMNET_ENGINE_PATH=/opt/BioNetGen
//	RBMNET_ENGINE_TIMEOUT_SEC=600
//	RBMNET_STORE_POSTGRES_HOST=localhost
//	RBMNET_LOG_LEVEL=info
//	RBMNET_JOBS_NUMBER=8
package config

import (
	"runtime"
)

// Config represents the complete rbmnet configuration.
type Config struct {
	// Engine contains settings of the rule expansion engine (BNG2.pl).
	Engine EngineConfig `mapstructure:"engine" yaml:"engine"`

	// Store contains settings of network persistence.
	Store StoreConfig `mapstructure:"store" yaml:"store"`

	Log LogConfig `mapstructure:"log" yaml:"log"`

	Metrics MetricsConfig `mapstructure:"metrics" yaml:"metrics"`

	// Output contains runtime settings of command output.
	Output OutputConfig `mapstructure:"-" yaml:"-"`

	// JobsNumber is the number of models generated in parallel.
	// Default value is set according to the number of available threads.
	JobsNumber int `mapstructure:"jobs_number" yaml:"jobs_number"`

	// HomeDir determines where config, cache and logs directories reside.
	// It must be set by CLI during init, there is no default value for it.
	HomeDir string `mapstructure:"-" yaml:"-"`
}

// EngineConfig contains settings of the external rule expansion engine.
type EngineConfig struct {
	// Path is a BioNetGen distribution directory that overrides the
	// BNGPATH environment variable and standard install locations.
	Path string `mapstructure:"path" yaml:"path"`

	// WorkDir is where temporary model and network files are created.
	// Empty value means the system temporary directory.
	WorkDir string `mapstructure:"work_dir" yaml:"work_dir"`

	// TimeoutSec limits the run time of the engine in seconds.
	// Zero means no limit.
	TimeoutSec int `mapstructure:"timeout_sec" yaml:"timeout_sec"`

	// Cleanup removes temporary files after the engine finished.
	// Set to false to keep them for debugging.
	Cleanup bool `mapstructure:"cleanup" yaml:"cleanup"`

	// AppendStdout appends the engine log to the network text as
	// comment lines.
	AppendStdout bool `mapstructure:"append_stdout" yaml:"append_stdout"`

	// Verbose prints the engine output while it runs.
	Verbose bool `mapstructure:"verbose" yaml:"verbose"`
}

// StoreConfig contains settings of network persistence.
type StoreConfig struct {
	// SQLitePath is the file of the local SQLite network store.
	// Empty value means CacheDir/networks.sqlite.
	SQLitePath string `mapstructure:"sqlite_path" yaml:"sqlite_path"`

	// BatchSize is the number of rows inserted per batch.
	BatchSize int `mapstructure:"batch_size" yaml:"batch_size"`

	// Postgres contains PostgreSQL connection settings of the network
	// archive.
	Postgres DatabaseConfig `mapstructure:"postgres" yaml:"postgres"`
}

// DatabaseConfig contains PostgreSQL connection parameters.
type DatabaseConfig struct {
	// Host is the PostgreSQL server hostname or IP address.
	Host string `mapstructure:"host" yaml:"host"`

	// Port is the PostgreSQL server port number.
	Port int `mapstructure:"port" yaml:"port"`

	// User is the PostgreSQL database username.
	User string `mapstructure:"user" yaml:"user"`

	// Password is the PostgreSQL database password.
	Password string `mapstructure:"password" yaml:"password"`

	// Database is the PostgreSQL database name to connect to.
	Database string `mapstructure:"database" yaml:"database"`

	// SSLMode specifies the SSL connection mode.
	// Valid values: "disable", "require", "verify-ca", "verify-full"
	SSLMode string `mapstructure:"ssl_mode" yaml:"ssl_mode"`
}

// LogConfig provides typical settings for application logs.
type LogConfig struct {
	// Format can be 'json', 'text' or 'tint' (user-facing and colored).
	Format string `mapstructure:"format"      yaml:"format"`
	// Level of logging -- 'error', 'warn', 'info', 'debug'
	Level string `mapstructure:"level"       yaml:"level"`
	// Destination can be a log file (to default place), STDERR or STDOUT
	Destination string `mapstructure:"destination" yaml:"destination"`
}

// MetricsConfig contains settings of engine run metrics.
type MetricsConfig struct {
	// File is a Prometheus text file the metrics are written to after a
	// command finished. Empty value disables the export.
	File string `mapstructure:"file" yaml:"file"`
}

// OutputConfig contains runtime settings of command output.
type OutputConfig struct {
	// Format is 'json' or 'text'.
	Format string
	// Details adds species, ODEs and observables to summaries.
	Details bool
	// File receives the output instead of STDOUT when set.
	File string
}

// New creates a Config with sensible default values.
// The returned config is always valid and ready to use.
// Default values can be overridden using Option functions via Update().
func New() *Config {
	res := &Config{
		Engine: EngineConfig{
			Cleanup: true,
		},
		Store: StoreConfig{
			BatchSize: 10_000,
			Postgres: DatabaseConfig{
				Host:     "localhost",
				Port:     5432,
				User:     "postgres",
				Password: "postgres",
				Database: "rbmnet",
				SSLMode:  "disable",
			},
		},
		Log: LogConfig{
			Format: "json",
			Level:  "info",
			// for now file is rewritten every time the log starts
			Destination: "file",
		},
		Output: OutputConfig{
			Format: "text",
		},
		JobsNumber: runtime.NumCPU(), // Default to number of CPU threads
	}

	return res
}
