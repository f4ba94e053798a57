package config

import (
	"fmt"
	"os"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/gyeh/notewizard/internal/model"
)

// Config holds all runtime configuration for a notewizard run.
type Config struct {
	DSN        string `mapstructure:"DATABASE_URL"`
	LogFormat  string `mapstructure:"LOG_FORMAT"` // "text" or "json"
	Port       string `mapstructure:"PORT"`
	DBMaxConns int32  `mapstructure:"DB_MAX_CONNS"`
	DBMinConns int32  `mapstructure:"DB_MIN_CONNS"`
	ExportDir  string `mapstructure:"EXPORT_DIR"`

	SessionPath   string                      `mapstructure:"-"`
	OverridesPath string                      `mapstructure:"-"`
	DryRun        bool                        `mapstructure:"-"`
	Force         bool                        `mapstructure:"-"`
	Overrides     map[int]model.StageOverride `mapstructure:"-"`
}

// Load reads configuration from the environment and an optional .env file.
func Load() (*Config, error) {
	v := viper.New()
	v.SetConfigFile(".env")
	v.SetConfigType("env")
	v.AutomaticEnv()

	v.SetDefault("LOG_FORMAT", "text")
	v.SetDefault("PORT", "8080")
	v.SetDefault("DB_MAX_CONNS", 10)
	v.SetDefault("DB_MIN_CONNS", 1)

	v.BindEnv("DATABASE_URL")
	v.BindEnv("LOG_FORMAT")
	v.BindEnv("PORT")
	v.BindEnv("DB_MAX_CONNS")
	v.BindEnv("DB_MIN_CONNS")
	v.BindEnv("EXPORT_DIR")

	// .env is optional.
	_ = v.ReadInConfig()

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	if cfg.DBMinConns > cfg.DBMaxConns {
		return nil, fmt.Errorf("DB_MIN_CONNS (%d) exceeds DB_MAX_CONNS (%d)", cfg.DBMinConns, cfg.DBMaxConns)
	}
	return cfg, nil
}

// yamlOverrides is the on-disk YAML structure of a stage override file.
type yamlOverrides struct {
	Stages map[int]model.StageOverride `yaml:"stages"`
}

// LoadOverrides reads per-stage overrides from a YAML file into Config.
func (c *Config) LoadOverrides(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read overrides file: %w", err)
	}
	var yo yamlOverrides
	if err := yaml.Unmarshal(data, &yo); err != nil {
		return fmt.Errorf("parse overrides file: %w", err)
	}
	for id := range yo.Stages {
		if !model.ValidStageID(id) {
			return fmt.Errorf("unknown stage id %d in overrides (want 1-%d)", id, model.StageCount)
		}
	}
	c.Overrides = yo.Stages
	return nil
}

// Validate checks required fields and returns an error if the config is invalid.
func (c *Config) Validate() error {
	if c.SessionPath == "" {
		return fmt.Errorf("--session is required")
	}
	if _, err := os.Stat(c.SessionPath); err != nil {
		return fmt.Errorf("session file not accessible: %w", err)
	}
	return nil
}

// ValidateWithDSN checks both session and DSN fields.
func (c *Config) ValidateWithDSN() error {
	if err := c.Validate(); err != nil {
		return err
	}
	if c.DSN == "" {
		return fmt.Errorf("--dsn or DATABASE_URL is required")
	}
	return nil
}
