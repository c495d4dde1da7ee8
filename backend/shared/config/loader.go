package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"

	"github.com/spf13/viper"
)

type loadOptions struct {
	defaults     map[string]any
	optionalFile bool
}

// Option configures Load.
type Option func(o *loadOptions)

// WithDefaults registers default values keyed by dotted path (e.g. "app.port").
// Only keys known to viper (file or defaults) are picked up from the environment,
// so every key should have a default.
func WithDefaults(defaults map[string]any) Option {
	return func(o *loadOptions) {
		o.defaults = defaults
	}
}

// WithOptionalFile lets Load fall back to env vars and defaults when path is missing.
func WithOptionalFile() Option {
	return func(o *loadOptions) {
		o.optionalFile = true
	}
}

// Load reads path (yaml) into out. Every key can be overridden from the
// environment as <PREFIX>_<SECTION>_<KEY>, e.g. APP_MONGO_URI.
func Load(path, envPrefix string, out any, opts ...Option) error {
	var o loadOptions
	for _, opt := range opts {
		opt(&o)
	}

	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")
	if envPrefix != "" {
		v.SetEnvPrefix(envPrefix)
	}
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	for k, val := range o.defaults {
		v.SetDefault(k, val)
	}

	if err := v.ReadInConfig(); err != nil {
		if !o.optionalFile || !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("read config %s: %w", path, err)
		}
	}
	if err := v.Unmarshal(out); err != nil {
		return fmt.Errorf("unmarshal config: %w", err)
	}
	return nil
}
