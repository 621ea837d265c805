package config

import (
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"

	"github.com/ajitpratap0/vents/pkg/errors"
	"github.com/ajitpratap0/vents/pkg/logger"
)

// Settings are the process-level knobs of the vents CLI. Each is read from a
// flag, a VENTS_* variable or an optional settings file, in that order.
type Settings struct {
	EnvPrefix          string `mapstructure:"env_prefix"`
	LogLevel           string `mapstructure:"log_level" validate:"oneof=debug info warn error"`
	LogFormat          string `mapstructure:"log_format" validate:"oneof=json console"`
	ConnectionsCatalog string `mapstructure:"connections_catalog"`
	ProjectName        string `mapstructure:"project_name"`
	ProjectURL         string `mapstructure:"project_url" validate:"omitempty,url"`
	ProjectIcon        string `mapstructure:"project_icon" validate:"omitempty,url"`
}

// NewViper returns a viper instance reading VENTS_* variables with the
// settings defaults applied.
func NewViper() *viper.Viper {
	v := viper.New()
	v.SetEnvPrefix(DefaultEnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))
	v.AutomaticEnv()

	v.SetDefault("env_prefix", DefaultEnvPrefix)
	v.SetDefault("log_level", "info")
	v.SetDefault("log_format", "json")
	v.SetDefault("connections_catalog", "")
	v.SetDefault("project_name", DefaultProjectName)
	v.SetDefault("project_url", "")
	v.SetDefault("project_icon", "")
	return v
}

// LoadSettings reads the optional settings file, then unmarshals and
// validates the settings held by v.
func LoadSettings(v *viper.Viper, file string) (*Settings, error) {
	if file != "" {
		v.SetConfigFile(file)
		if err := v.ReadInConfig(); err != nil {
			return nil, errors.Wrap(err, errors.ErrorTypeConfig, "failed to read settings file").
				WithDetail("path", file)
		}
	}

	var s Settings
	if err := v.Unmarshal(&s); err != nil {
		return nil, errors.Wrap(err, errors.ErrorTypeConfig, "failed to decode settings")
	}
	s.LogLevel = strings.ToLower(s.LogLevel)
	s.LogFormat = strings.ToLower(s.LogFormat)

	if err := validator.New().Struct(&s); err != nil {
		return nil, errors.Wrap(err, errors.ErrorTypeValidation, "invalid settings")
	}
	return &s, nil
}

// LoggerConfig returns the logger configuration the settings describe
func (s *Settings) LoggerConfig() logger.Config {
	return logger.Config{
		Level:       s.LogLevel,
		Encoding:    s.LogFormat,
		Development: s.LogFormat == "console",
	}
}

// Options returns the AppConfig options the settings describe. A configured
// catalog file takes the place of the environment variable.
func (s *Settings) Options() []Option {
	opts := []Option{
		WithEnvPrefix(s.EnvPrefix),
		WithProject(s.ProjectName, s.ProjectURL, s.ProjectIcon),
	}
	if s.ConnectionsCatalog != "" {
		opts = append(opts, WithCatalogFile(s.ConnectionsCatalog))
	}
	return opts
}
