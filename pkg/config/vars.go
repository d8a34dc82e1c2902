package config

import (
	"path/filepath"
)

var (
	// MinEngineVersion determines the BioNetGen version which is still
	// compatible with rbmnet. Versions higher than minimal are all supported.
	MinEngineVersion = "v2.3.0"
	// AppName is used in generating file system paths.
	AppName = "rbmnet"
)

// ConfigDir returns the directory path for configuration files.
// Returns ~/.config/rbmnet by default.
func ConfigDir(homeDir string) string {
	return filepath.Join(homeDir, ".config", AppName)
}

// CacheDir returns the directory path for cache files.
// Returns ~/.cache/rbmnet by default.
func CacheDir(homeDir string) string {
	return filepath.Join(homeDir, ".cache", AppName)
}

// LogDir returns the directory path for log files.
// Returns ~/.local/share/rbmnet/logs by default.
func LogDir(homeDir string) string {
	return filepath.Join(homeDir, ".local", "share", AppName, "logs")
}

// ConfigFilePath returns the full path to the config.yaml file.
// Returns ~/.config/rbmnet/config.yaml by default.
func ConfigFilePath(homeDir string) string {
	return filepath.Join(ConfigDir(homeDir), "config.yaml")
}

// SQLitePath returns the network store file. A configured path wins over
// the default location in the cache directory.
func (c *Config) SQLitePath() string {
	if c.Store.SQLitePath != "" {
		return c.Store.SQLitePath
	}
	return filepath.Join(CacheDir(c.HomeDir), "networks.sqlite")
}
