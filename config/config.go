// Package config resolves cbir settings from defaults, an optional config
// file, CBIR_* environment variables and command-line flags via viper.
package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/viper"
	"github.com/viant/cbir/distance"
	"github.com/viant/cbir/feature"
	"github.com/viant/cbir/index"
	"github.com/viant/cbir/internal/catalog"
)

// EnvPrefix prefixes every environment variable, e.g. CBIR_SCHEME.
const EnvPrefix = "CBIR"

// Log configures the process logger.
type Log struct {
	Level  string `mapstructure:"level" yaml:"level"`
	Format string `mapstructure:"format" yaml:"format"`
}

// Config is the resolved cbir configuration.
type Config struct {
	Scheme            string           `mapstructure:"scheme" yaml:"scheme"`
	Bins              int              `mapstructure:"bins" yaml:"bins"`
	K                 int              `mapstructure:"k" yaml:"k"`
	Workers           int              `mapstructure:"workers" yaml:"workers"`
	CacheSize         int              `mapstructure:"cache_size" yaml:"cache_size"`
	SuppressSelfMatch bool             `mapstructure:"suppress_self_match" yaml:"suppress_self_match"`
	Epsilon           float32          `mapstructure:"epsilon" yaml:"epsilon"`
	Database          string           `mapstructure:"database" yaml:"database"`
	Embeddings        string           `mapstructure:"embeddings" yaml:"embeddings"`
	Extensions        []string         `mapstructure:"extensions" yaml:"extensions"`
	Weights           distance.Weights `mapstructure:"weights" yaml:"weights"`
	Skin              feature.SkinTone `mapstructure:"skin" yaml:"skin"`
	Log               Log              `mapstructure:"log" yaml:"log"`
}

// SetDefaults registers the default value of every key on v.
func SetDefaults(v *viper.Viper) {
	w := distance.DefaultWeights()
	s := feature.DefaultSkinTone()
	v.SetDefault("scheme", feature.Baseline.String())
	v.SetDefault("bins", 0)
	v.SetDefault("k", 4)
	v.SetDefault("workers", 0)
	v.SetDefault("cache_size", 0)
	v.SetDefault("suppress_self_match", true)
	v.SetDefault("epsilon", index.DefaultEpsilon)
	v.SetDefault("database", "data/olympus")
	v.SetDefault("embeddings", "data/ResNet18_olym.csv")
	v.SetDefault("extensions", catalog.DefaultExtensions)
	v.SetDefault("weights.dnn", w.DNN)
	v.SetDefault("weights.skin", w.Skin)
	v.SetDefault("weights.brightness", w.Brightness)
	v.SetDefault("skin.max_hue", s.MaxHue)
	v.SetDefault("skin.min_sat", s.MinSat)
	v.SetDefault("skin.max_sat", s.MaxSat)
	v.SetDefault("skin.min_val", s.MinVal)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")
}

// BindEnv makes v read CBIR_* environment variables, mapping nested keys
// with underscores (log.level -> CBIR_LOG_LEVEL).
func BindEnv(v *viper.Viper) {
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()
}

// Load reads the configuration file at path (when not empty) into v and
// decodes the result.
func Load(v *viper.Viper, path string) (*Config, error) {
	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("config: failed to read %s: %w", path, err)
		}
	}
	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// FeatureScheme resolves the configured scheme name and bins.
func (c *Config) FeatureScheme() (feature.Scheme, error) {
	return feature.Parse(c.Scheme, c.Bins)
}

// Validate checks value ranges.
func (c *Config) Validate() error {
	var errs []error
	if _, err := c.FeatureScheme(); err != nil {
		errs = append(errs, err)
	}
	if c.K <= 0 {
		errs = append(errs, fmt.Errorf("k must be positive, got %d", c.K))
	}
	if c.Workers < 0 {
		errs = append(errs, fmt.Errorf("workers must not be negative, got %d", c.Workers))
	}
	if c.CacheSize < 0 {
		errs = append(errs, fmt.Errorf("cache_size must not be negative, got %d", c.CacheSize))
	}
	if c.Epsilon < 0 {
		errs = append(errs, fmt.Errorf("epsilon must not be negative, got %v", c.Epsilon))
	}
	if c.Weights.DNN < 0 || c.Weights.Skin < 0 || c.Weights.Brightness < 0 {
		errs = append(errs, fmt.Errorf("weights must not be negative, got %+v", c.Weights))
	}
	switch strings.ToLower(c.Log.Format) {
	case "", "text", "json":
	default:
		errs = append(errs, fmt.Errorf("log.format must be text or json, got %q", c.Log.Format))
	}
	if err := errors.Join(errs...); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	return nil
}
