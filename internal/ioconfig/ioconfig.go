// Package ioconfig reads rbmnet configuration from config.yaml and
// environment variables and renders the effective configuration.
package ioconfig

import (
	"strings"

	"github.com/gnames/rbmnet/internal/iofs"
	"github.com/gnames/rbmnet/pkg/config"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// EnvPrefix is prepended to every environment variable name.
const EnvPrefix = "RBMNET"

// keys are the persistent settings, they match config.ToOptions().
var keys = []string{
	"engine.path",
	"engine.work_dir",
	"engine.timeout_sec",
	"engine.cleanup",
	"engine.append_stdout",
	"engine.verbose",

	"store.sqlite_path",
	"store.batch_size",
	"store.postgres.host",
	"store.postgres.port",
	"store.postgres.user",
	"store.postgres.password",
	"store.postgres.database",
	"store.postgres.ssl_mode",

	"log.level",
	"log.format",
	"log.destination",

	"metrics.file",

	"jobs_number",
}

// Load reads config.yaml from the rbmnet config directory under homeDir.
// Environment variables take precedence over the file.
func Load(homeDir string) (*config.Config, error) {
	return LoadFile(config.ConfigFilePath(homeDir))
}

// LoadFile reads configuration from a YAML file at cfgPath.
func LoadFile(cfgPath string) (*config.Config, error) {
	var err error
	v := viper.New()
	v.SetConfigFile(cfgPath)

	initEnvVars(v)

	if err = v.ReadInConfig(); err != nil {
		return nil, iofs.ReadFileError(cfgPath, err)
	}

	// booleans must not silently fall to false when a key is missing
	def := config.New()
	v.SetDefault("engine.cleanup", def.Engine.Cleanup)

	var res config.Config
	if err = v.Unmarshal(&res); err != nil {
		return nil, iofs.ReadFileError(cfgPath, err)
	}

	return &res, nil
}

// EnvVars returns names of all supported environment variables.
func EnvVars() []string {
	res := make([]string, len(keys))
	for i, v := range keys {
		res[i] = envName(v)
	}
	return res
}

func envName(key string) string {
	key = strings.ToUpper(strings.ReplaceAll(key, ".", "_"))
	return EnvPrefix + "_" + key
}

func initEnvVars(v *viper.Viper) {
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	for _, k := range keys {
		_ = v.BindEnv(k, envName(k))
	}
	v.AutomaticEnv()
}

// Dump renders persistent settings of cfg as YAML. The database password
// is masked.
func Dump(cfg *config.Config) (string, error) {
	res := *cfg
	if res.Store.Postgres.Password != "" {
		res.Store.Postgres.Password = "********"
	}
	data, err := yaml.Marshal(&res)
	if err != nil {
		return "", err
	}
	return string(data), nil
}
