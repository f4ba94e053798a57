package main

import (
	"github.com/spf13/cobra"

	"github.com/gyeh/notewizard/internal/config"
)

var cfg config.Config

var rootCmd = &cobra.Command{
	Use:   "notewizard",
	Short: "Clinical note finalization wizard",
	Long: "Normalizes AI code suggestions for a clinical note, builds the review wizard " +
		"and finalizes the note into Postgres with an optional Parquet code summary.",
	SilenceUsage:      true,
	PersistentPreRunE: loadConfig,
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVar(&cfg.DSN, "dsn", "", "Postgres connection string (or set DATABASE_URL)")
	pf.StringVar(&cfg.LogFormat, "log-format", "", "Log format: text or json (or set LOG_FORMAT)")
	pf.StringVar(&cfg.OverridesPath, "overrides", "", "YAML file of per-stage overrides")
}

// loadConfig fills every setting not given on the command line from the
// environment, then reads the overrides file.
func loadConfig(cmd *cobra.Command, args []string) error {
	env, err := config.Load()
	if err != nil {
		return err
	}
	if cfg.DSN == "" {
		cfg.DSN = env.DSN
	}
	if cfg.LogFormat == "" {
		cfg.LogFormat = env.LogFormat
	}
	if cfg.Port == "" {
		cfg.Port = env.Port
	}
	if cfg.ExportDir == "" {
		cfg.ExportDir = env.ExportDir
	}
	cfg.DBMaxConns = env.DBMaxConns
	cfg.DBMinConns = env.DBMinConns

	if cfg.OverridesPath != "" {
		if err := cfg.LoadOverrides(cfg.OverridesPath); err != nil {
			return err
		}
	}
	return nil
}
