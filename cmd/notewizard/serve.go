package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/gyeh/notewizard/internal/db"
	"github.com/gyeh/notewizard/internal/dispatch"
	"github.com/gyeh/notewizard/internal/exitcode"
	"github.com/gyeh/notewizard/internal/finalize"
	"github.com/gyeh/notewizard/internal/logging"
	"github.com/gyeh/notewizard/internal/server"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve wizard sessions over HTTP",
	RunE:  runServe,
}

func init() {
	f := serveCmd.Flags()
	f.StringVar(&cfg.Port, "port", "", "Listen port (or set PORT)")
	f.StringVar(&cfg.ExportDir, "export-dir", "", "Write a Parquet code summary per finalize to this directory (or set EXPORT_DIR)")
	f.BoolVar(&cfg.DryRun, "dry-run", false, "Finalize without a database using the default result")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	log := logging.Setup(cfg.LogFormat)
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var fn finalize.Func
	if !cfg.DryRun {
		if cfg.DSN == "" {
			log.Error().Msg("--dsn or DATABASE_URL is required (or use --dry-run)")
			os.Exit(exitcode.UsageError)
		}
		pool, err := db.NewPool(ctx, cfg.DSN, cfg.DBMaxConns, cfg.DBMinConns)
		if err != nil {
			log.Error().Err(err).Msg("database connection failed")
			os.Exit(exitcode.DBConnError)
		}
		defer pool.Close()
		fn = dispatch.NewStore(pool, log).Finalize
	}

	h := server.NewHandler(fn, cfg.Overrides, cfg.ExportDir, log)
	e := server.New(h, log)
	return server.Run(ctx, e, ":"+cfg.Port, log)
}
