package config

import (
	"strings"
)

// Option is a function that modifies a Config.
// Options validate inputs and reject invalid values with warnings.
type Option func(*Config)

// OptEnginePath sets the BioNetGen distribution directory.
// It takes priority over BNGPATH and standard install locations.
func OptEnginePath(s string) Option {
	s = strings.TrimSpace(s)
	return func(c *Config) {
		if isValidString("Engine Path", s) {
			c.Engine.Path = s
		}
	}
}

// OptEngineWorkDir sets the directory for temporary engine files.
func OptEngineWorkDir(s string) Option {
	s = strings.TrimSpace(s)
	return func(c *Config) {
		if isValidString("Engine Work Directory", s) {
			c.Engine.WorkDir = s
		}
	}
}

// OptEngineTimeoutSec sets the engine time limit in seconds.
// Zero removes the limit.
func OptEngineTimeoutSec(i int) Option {
	return func(c *Config) {
		if isValidNonNegativeInt("Engine Timeout", i) {
			c.Engine.TimeoutSec = i
		}
	}
}

// OptEngineCleanup sets whether temporary engine files are removed.
func OptEngineCleanup(b bool) Option {
	return func(c *Config) {
		c.Engine.Cleanup = b
	}
}

// OptEngineAppendStdout sets whether the engine log is appended to the
// network text.
func OptEngineAppendStdout(b bool) Option {
	return func(c *Config) {
		c.Engine.AppendStdout = b
	}
}

// OptEngineVerbose sets whether the engine output is shown while it runs.
func OptEngineVerbose(b bool) Option {
	return func(c *Config) {
		c.Engine.Verbose = b
	}
}

// OptStoreSQLitePath sets the file of the local network store.
func OptStoreSQLitePath(s string) Option {
	s = strings.TrimSpace(s)
	return func(c *Config) {
		if isValidString("SQLite Path", s) {
			c.Store.SQLitePath = s
		}
	}
}

// OptStoreBatchSize sets the number of rows inserted per batch.
func OptStoreBatchSize(i int) Option {
	return func(c *Config) {
		if isValidInt("Batch Size", i) {
			c.Store.BatchSize = i
		}
	}
}

// OptDatabaseHost sets the PostgreSQL server hostname or IP address.
func OptDatabaseHost(s string) Option {
	s = strings.TrimSpace(s)
	return func(c *Config) {
		if isValidString("Database Host", s) {
			c.Store.Postgres.Host = s
		}
	}
}

// OptDatabasePort sets the PostgreSQL server port number.
func OptDatabasePort(i int) Option {
	return func(c *Config) {
		if isValidInt("Database Port", i) {
			c.Store.Postgres.Port = i
		}
	}
}

// OptDatabaseUser sets the PostgreSQL database username.
func OptDatabaseUser(s string) Option {
	s = strings.TrimSpace(s)
	return func(c *Config) {
		if isValidString("Database User", s) {
			c.Store.Postgres.User = s
		}
	}
}

// OptDatabasePassword sets the PostgreSQL database password.
func OptDatabasePassword(s string) Option {
	s = strings.TrimSpace(s)
	return func(c *Config) {
		if isValidString("Database Password", s) {
			c.Store.Postgres.Password = s
		}
	}
}

// OptDatabaseDatabase sets the PostgreSQL database name to connect to.
func OptDatabaseDatabase(s string) Option {
	s = strings.TrimSpace(s)
	return func(c *Config) {
		if isValidString("Database Name", s) {
			c.Store.Postgres.Database = s
		}
	}
}

// OptDatabaseSSLMode sets the SSL connection mode.
// Valid values: "disable", "require", "verify-ca", "verify-full".
func OptDatabaseSSLMode(s string) Option {
	s = strings.TrimSpace(s)
	s = strings.ToLower(s)
	return func(c *Config) {
		if isValidEnum("Database.SSLMode", s) {
			c.Store.Postgres.SSLMode = s
		}
	}
}

// OptLogLevel sets the logging level.
// Valid values: "debug", "info", "warn", "error".
func OptLogLevel(s string) Option {
	s = strings.TrimSpace(s)
	s = strings.ToLower(s)
	return func(c *Config) {
		if isValidEnum("Log.Level", s) {
			c.Log.Level = s
		}
	}
}

// OptLogFormat sets the log output format.
// Valid values: "json", "text", "tint".
func OptLogFormat(s string) Option {
	s = strings.TrimSpace(s)
	s = strings.ToLower(s)
	return func(c *Config) {
		if isValidEnum("Log.Format", s) {
			c.Log.Format = s
		}
	}
}

// OptLogDestination sets where logs are written.
// Valid values: "file", "stderr", "stdout".
func OptLogDestination(s string) Option {
	s = strings.TrimSpace(s)
	s = strings.ToLower(s)
	return func(c *Config) {
		if isValidEnum("Log.Destination", s) {
			c.Log.Destination = s
		}
	}
}

// OptMetricsFile sets the Prometheus text file for engine metrics.
func OptMetricsFile(s string) Option {
	s = strings.TrimSpace(s)
	return func(c *Config) {
		if isValidString("Metrics File", s) {
			c.Metrics.File = s
		}
	}
}

// OptOutputFormat sets the format of command output.
// Valid values: "json", "text".
// Runtime-only field - not in ToOptions().
func OptOutputFormat(s string) Option {
	s = strings.TrimSpace(s)
	s = strings.ToLower(s)
	return func(c *Config) {
		if isValidEnum("Output.Format", s) {
			c.Output.Format = s
		}
	}
}

// OptOutputDetails sets whether summaries include species and equations.
// Runtime-only field - not in ToOptions().
func OptOutputDetails(b bool) Option {
	return func(c *Config) {
		c.Output.Details = b
	}
}

// OptOutputFile sets the file that receives command output.
// Runtime-only field - not in ToOptions().
func OptOutputFile(s string) Option {
	s = strings.TrimSpace(s)
	return func(c *Config) {
		if isValidString("Output File", s) {
			c.Output.File = s
		}
	}
}

// OptJobsNumber sets the number of models generated concurrently.
// Default is runtime.NumCPU().
func OptJobsNumber(i int) Option {
	return func(c *Config) {
		if isValidInt("Jobs Number", i) {
			c.JobsNumber = i
		}
	}
}

// OptHomeDir sets the home directory for config, cache, and log locations.
// Set once at startup from os.UserHomeDir().
// Runtime-only field - not in ToOptions().
func OptHomeDir(s string) Option {
	s = strings.TrimSpace(s)
	return func(c *Config) {
		if isValidString("Home Directory", s) {
			c.HomeDir = s
		}
	}
}
