package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// Option customises the viper instance before the config file is read.
type Option func(v *viper.Viper)

// WithDefaults registers default values keyed by dotted config path.
func WithDefaults(defaults map[string]interface{}) Option {
	return func(v *viper.Viper) {
		for key, value := range defaults {
			v.SetDefault(key, value)
		}
	}
}

// WithEnvBindings binds dotted config keys to explicit environment variable names,
// on top of the automatic SECTION_KEY mapping.
func WithEnvBindings(bindings map[string]string) Option {
	return func(v *viper.Viper) {
		for key, env := range bindings {
			_ = v.BindEnv(key, env)
		}
	}
}

// Load reads configuration from file and environment variables.
// configPath is the directory containing config files.
// configName is the name of the config file (without extension).
// A missing config file is not an error; env vars and defaults apply.
func Load(configPath, configName string, opts ...Option) (*viper.Viper, error) {
	v := viper.New()

	v.SetConfigName(configName)
	v.SetConfigType("yaml")
	v.AddConfigPath(configPath)
	v.AddConfigPath(".")
	v.AddConfigPath("./config")

	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	for _, opt := range opts {
		opt(v)
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) {
			return v, nil
		}
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	return v, nil
}
