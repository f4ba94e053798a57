package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/gyeh/notewizard/internal/db"
	"github.com/gyeh/notewizard/internal/dispatch"
	"github.com/gyeh/notewizard/internal/exitcode"
	"github.com/gyeh/notewizard/internal/export"
	"github.com/gyeh/notewizard/internal/finalize"
	"github.com/gyeh/notewizard/internal/logging"
)

var finalizeCmd = &cobra.Command{
	Use:   "finalize",
	Short: "Finalize a session and dispatch the note to the database",
	RunE:  runFinalize,
}

func init() {
	f := finalizeCmd.Flags()
	f.StringVar(&cfg.SessionPath, "session", "", "Path to session JSON file (required)")
	f.BoolVar(&cfg.Force, "force", false, "Re-dispatch even if identical content was dispatched before")
	f.BoolVar(&cfg.DryRun, "dry-run", false, "Skip the database and use the default finalize result")
	f.StringVar(&cfg.ExportDir, "export-dir", "", "Write a Parquet code summary to this directory (or set EXPORT_DIR)")
	_ = finalizeCmd.MarkFlagRequired("session")
	rootCmd.AddCommand(finalizeCmd)
}

func runFinalize(cmd *cobra.Command, args []string) error {
	log := logging.Setup(cfg.LogFormat)
	ctx := context.Background()

	validate := cfg.ValidateWithDSN
	if cfg.DryRun {
		validate = cfg.Validate
	}
	if err := validate(); err != nil {
		log.Error().Err(err).Msg("config validation failed")
		os.Exit(exitcode.UsageError)
	}

	var fn finalize.Func
	if !cfg.DryRun {
		pool, err := db.NewPool(ctx, cfg.DSN, cfg.DBMaxConns, cfg.DBMinConns)
		if err != nil {
			log.Error().Err(err).Msg("database connection failed")
			os.Exit(exitcode.DBConnError)
		}
		defer pool.Close()

		store := dispatch.NewStore(pool, log)
		store.Force = cfg.Force
		fn = store.Finalize
	}

	s, err := openSession(fn, log)
	if err != nil {
		log.Error().Err(err).Msg("failed to load session")
		os.Exit(exitcode.ValidationError)
	}

	res, err := s.Finalize(ctx)
	if err != nil {
		if errors.Is(err, dispatch.ErrAlreadyDispatched) {
			log.Warn().Err(err).Msg("note already dispatched, skipping (use --force to re-dispatch)")
			os.Exit(exitcode.AlreadyDone)
		}
		var fe *finalize.Error
		if errors.As(err, &fe) {
			log.Error().Err(fe.Err).Str("phase", fe.Phase).Msg("finalize failed")
			os.Exit(exitcode.DispatchError)
		}
		log.Error().Err(err).Msg("finalize failed")
		os.Exit(exitcode.DispatchError)
	}

	if cfg.ExportDir != "" {
		rows := export.Rows(res.RequestID, s.Patient(), res)
		path, err := export.WriteCodeSummary(cfg.ExportDir, res.RequestID, rows)
		if err != nil {
			log.Error().Err(err).Msg("export failed")
			os.Exit(exitcode.ExportError)
		}
		log.Info().Str("path", path).Int("rows", len(rows)).Msg("code summary exported")
	}

	fmt.Printf("Finalize complete: request %s, %d codes, $%.2f reimbursement (%d billing lines)\n",
		res.RequestID, len(res.CodeSummary),
		float64(res.Reimbursement.TotalCents)/100, res.Reimbursement.LineCount)
	return nil
}
