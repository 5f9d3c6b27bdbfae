package cli

import (
	"os"
	"path/filepath"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/DRepublic-io/gNFT/internal/errors"
	"github.com/DRepublic-io/gNFT/pkg/types"
)

const (
	configFileName = "config"
	configFileType = "yaml"
	configFileExt  = "config.yaml"

	cfgKeyBackend       = "backend"
	cfgKeyDataDir       = "data_dir"
	cfgKeyOperatorToken = "operator_token"
	cfgKeyAccount       = "account"
	cfgKeyLogLevel      = "log_level"
	cfgKeyLogFormat     = "log_format"

	defaultAccount = "operator"
	envPrefix      = "GNFT"
)

// configFile holds the structure written to config.yaml.
type configFile struct {
	Backend       string `yaml:"backend"`
	DataDir       string `yaml:"data_dir,omitempty"`
	Account       string `yaml:"account"`
	OperatorToken string `yaml:"operator_token,omitempty"`
	LogLevel      string `yaml:"log_level,omitempty"`
}

// loadConfig reads config.yaml from configDir using Viper. Every key can
// also be set through a GNFT_-prefixed environment variable. A missing
// config.yaml is not an error.
func loadConfig(configDir string) (*viper.Viper, error) {
	v := viper.New()
	v.SetDefault(cfgKeyBackend, types.BackendSQLite)
	v.SetDefault(cfgKeyAccount, defaultAccount)
	v.SetDefault(cfgKeyLogLevel, "warn")
	v.SetDefault(cfgKeyLogFormat, "console")
	v.SetEnvPrefix(envPrefix)
	v.AutomaticEnv()
	v.SetConfigName(configFileName)
	v.SetConfigType(configFileType)
	v.AddConfigPath(configDir)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) {
			return v, nil
		}
		return nil, errors.Wrap(err, "read config")
	}
	return v, nil
}

// writeConfig writes cfg to config.yaml in configDir.
func writeConfig(configDir string, cfg configFile) error {
	if err := os.MkdirAll(configDir, 0o755); err != nil {
		return errors.Wrap(err, "create config directory")
	}
	data, err := yaml.Marshal(&cfg)
	if err != nil {
		return errors.Wrap(err, "marshal config")
	}
	return os.WriteFile(filepath.Join(configDir, configFileExt), data, 0o600)
}

// configExists reports whether configDir already holds config.yaml.
func configExists(configDir string) bool {
	_, err := os.Stat(filepath.Join(configDir, configFileExt))
	return err == nil
}
