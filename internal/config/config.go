// Package config loads run settings from an optional YAML file, MMBRACKET_*
// environment variables and bound command-line flags.
package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

// EnvPrefix is prepended to every environment override, e.g. MMBRACKET_MODEL_C.
const EnvPrefix = "MMBRACKET"

// Config holds all tunables of a run.
type Config struct {
	DataDir string       `mapstructure:"data_dir"`
	Year    int          `mapstructure:"year" validate:"min=1985"`
	DBPath  string       `mapstructure:"db_path" validate:"required"`
	Seed    uint64       `mapstructure:"seed"`
	Log     LogConfig    `mapstructure:"log"`
	Rating  RatingConfig `mapstructure:"rating"`
	Stats   StatsConfig  `mapstructure:"stats"`
	Model   ModelConfig  `mapstructure:"model"`
}

type LogConfig struct {
	Level  string `mapstructure:"level" validate:"oneof=debug info warn error"`
	Format string `mapstructure:"format" validate:"oneof=text json"`
}

type RatingConfig struct {
	Base          int `mapstructure:"base" validate:"min=1"`
	HomeAdvantage int `mapstructure:"home_advantage" validate:"min=0"`
}

type StatsConfig struct {
	Window int `mapstructure:"window" validate:"min=1"`
}

type ModelConfig struct {
	C       float64 `mapstructure:"c" validate:"gt=0"`
	MaxIter int     `mapstructure:"max_iter" validate:"min=1"`
	CVFolds int     `mapstructure:"cv_folds" validate:"min=2"`
}

// New returns a viper instance with defaults and environment binding set up.
// Callers bind flags on it before calling Load.
func New(defaultDB string) *viper.Viper {
	v := viper.New()
	v.SetConfigType("yaml")
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("data_dir", ".")
	v.SetDefault("year", time.Now().Year())
	v.SetDefault("db_path", defaultDB)
	v.SetDefault("seed", 0)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")
	v.SetDefault("rating.base", 1600)
	v.SetDefault("rating.home_advantage", 100)
	v.SetDefault("stats.window", 9)
	v.SetDefault("model.c", 1.0)
	v.SetDefault("model.max_iter", 1000)
	v.SetDefault("model.cv_folds", 10)
	return v
}

// Load reads path (when non-empty) into v, then unmarshals and validates.
// An explicitly named file that does not exist is an error.
func Load(v *viper.Viper, path string) (*Config, error) {
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
		if err := v.MergeConfig(strings.NewReader(os.ExpandEnv(string(data)))); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", path, err)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	if err := Validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks struct-tag constraints and reports every failing field.
func Validate(cfg *Config) error {
	err := validator.New().Struct(cfg)
	if err == nil {
		return nil
	}
	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return fmt.Errorf("validate config: %w", err)
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, fmt.Sprintf("%s failed %q (got %v)", fe.Namespace(), fe.Tag(), fe.Value()))
	}
	return fmt.Errorf("invalid config: %s", strings.Join(msgs, "; "))
}
