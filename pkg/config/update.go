package config

import (
	"fmt"
	"maps"
	"slices"
	"strings"

	"github.com/gnames/gn"
)

// Update applies a slice of Option functions to the Config.
// This is the only way to modify a Config after creation.
// Invalid options are rejected with warnings - config remains in valid state.
func (c *Config) Update(opts []Option) {
	for _, opt := range opts {
		opt(c)
	}
}

// ToOptions converts the Config to a slice of Option functions.
// Only includes persistent fields appropriate for config.yaml.
// Excludes runtime-only fields (HomeDir, Output).
// Used for round-tripping config.yaml ↔ Config conversions.
func (c *Config) ToOptions() []Option {
	var res []Option
	var s string
	var i int

	s = c.Engine.Path
	if s != "" {
		res = append(res, OptEnginePath(s))
	}
	s = c.Engine.WorkDir
	if s != "" {
		res = append(res, OptEngineWorkDir(s))
	}
	i = c.Engine.TimeoutSec
	if i >= 0 {
		res = append(res, OptEngineTimeoutSec(i))
	}
	res = append(res,
		OptEngineCleanup(c.Engine.Cleanup),
		OptEngineAppendStdout(c.Engine.AppendStdout),
		OptEngineVerbose(c.Engine.Verbose),
	)

	s = c.Store.SQLitePath
	if s != "" {
		res = append(res, OptStoreSQLitePath(s))
	}
	i = c.Store.BatchSize
	if i > 0 {
		res = append(res, OptStoreBatchSize(i))
	}

	db := c.Store.Postgres
	s = db.Host
	if s != "" {
		res = append(res, OptDatabaseHost(s))
	}
	i = db.Port
	if i > 0 {
		res = append(res, OptDatabasePort(i))
	}
	s = db.User
	if s != "" {
		res = append(res, OptDatabaseUser(s))
	}
	s = db.Password
	if s != "" {
		res = append(res, OptDatabasePassword(s))
	}
	s = db.Database
	if s != "" {
		res = append(res, OptDatabaseDatabase(s))
	}
	s = db.SSLMode
	if s != "" {
		res = append(res, OptDatabaseSSLMode(s))
	}

	s = c.Log.Format
	if s != "" {
		res = append(res, OptLogFormat(s))
	}
	s = c.Log.Level
	if s != "" {
		res = append(res, OptLogLevel(s))
	}
	s = c.Log.Destination
	if s != "" {
		res = append(res, OptLogDestination(s))
	}

	s = c.Metrics.File
	if s != "" {
		res = append(res, OptMetricsFile(s))
	}

	i = c.JobsNumber
	if i > 0 {
		res = append(res, OptJobsNumber(i))
	}
	return res
}

func isValidString(name, s string) bool {
	res := s != ""
	if !res {
		gn.Warn("<em>%s</em> cannot be empty, ignoring", name)
	}
	return res
}

func isValidInt(name string, i int) bool {
	res := i > 0
	if !res {
		gn.Warn("<em>%s</em> has to be positive number, ignoring %d", name, i)
	}
	return res
}

func isValidNonNegativeInt(name string, i int) bool {
	res := i >= 0
	if !res {
		gn.Warn("<em>%s</em> cannot be negative, ignoring %d", name, i)
	}
	return res
}

func isValidEnum(name, val string) bool {
	s := struct{}{}
	data := map[string]map[string]struct{}{
		"Database.SSLMode": {"disable": s, "require": s,
			"verify-ca": s, "verify-full": s},
		"Log.Level":       {"debug": s, "info": s, "warn": s, "error": s},
		"Log.Format":      {"json": s, "text": s, "tint": s},
		"Log.Destination": {"file": s, "stderr": s, "stdout": s},
		"Output.Format":   {"json": s, "text": s},
	}
	vals := slices.Sorted(maps.Keys(data[name]))
	var lines []string
	for _, v := range vals {
		line := fmt.Sprintf("  * %s", v)
		lines = append(lines, line)
	}
	if _, ok := data[name][val]; ok {
		return true
	}
	gn.Warn(
		"<em>%s</em> does not support '%s' as a value. "+
			"Valid values are: \n%s\nIgnoring...",
		name, val, strings.Join(lines, "\n"),
	)
	return false
}
