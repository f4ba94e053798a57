package main

import (
	"encoding/hex"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/gyeh/notewizard/internal/content"
	"github.com/gyeh/notewizard/internal/exitcode"
	"github.com/gyeh/notewizard/internal/finalize"
	"github.com/gyeh/notewizard/internal/logging"
	"github.com/gyeh/notewizard/internal/model"
	"github.com/gyeh/notewizard/internal/normalize"
)

var planCmd = &cobra.Command{
	Use:   "plan",
	Short: "Dry-run: print the wizard stages, questions and code sets (no writes)",
	RunE:  runPlan,
}

func init() {
	planCmd.Flags().StringVar(&cfg.SessionPath, "session", "", "Path to session JSON file (required)")
	_ = planCmd.MarkFlagRequired("session")
	rootCmd.AddCommand(planCmd)
}

func runPlan(cmd *cobra.Command, args []string) error {
	log := logging.Setup(cfg.LogFormat)

	if err := cfg.Validate(); err != nil {
		log.Error().Err(err).Msg("config validation failed")
		os.Exit(exitcode.UsageError)
	}

	sha, err := normalize.FileHash(cfg.SessionPath)
	if err != nil {
		log.Error().Err(err).Msg("failed to hash session file")
		os.Exit(exitcode.ValidationError)
	}

	s, err := openSession(nil, log)
	if err != nil {
		log.Error().Err(err).Msg("failed to load session")
		os.Exit(exitcode.ValidationError)
	}
	view := s.View()
	selected, suggested := s.Items()

	req := finalize.BuildRequest(finalize.Input{
		Selected:   selected,
		Suggested:  suggested,
		Compliance: s.Compliance(),
		Content:    content.Enhanced(s.Note()),
		Patient:    s.Patient(),
	})

	fmt.Println("=== notewizard plan ===")
	fmt.Printf("Session:     %s\n", cfg.SessionPath)
	fmt.Printf("SHA-256:     %s\n", sha)
	fmt.Printf("Patient:     %s\n", logging.HashPHI(s.Patient().PatientID))
	fmt.Printf("Selected:    %d items\n", len(selected))
	fmt.Printf("Suggested:   %d items\n", len(suggested))
	fmt.Printf("Start stage: %d\n", view.ActiveStep)
	fmt.Println()

	fmt.Println("Stages:")
	for _, st := range view.Steps {
		marker := " "
		if st.ID == view.ActiveStep {
			marker = "*"
		}
		fmt.Printf(" %s %d. %-24s [%s] %s\n", marker, st.ID, st.Title, st.Type, st.Description)
	}

	fmt.Println("\nItems:")
	for _, list := range []struct {
		name  string
		items []model.NormalizedCodeItem
	}{{"selected", selected}, {"suggested", suggested}} {
		for _, it := range list.items {
			fmt.Printf("  %-9s %4d  %-10s %-8s %-15s %s\n",
				list.name, it.ID, it.Code, it.CodeType, it.Classifications, it.Title)
		}
	}

	qs := s.Questions()
	if len(qs) > 0 {
		fmt.Println("\nQuestions:")
		for _, q := range qs {
			fmt.Printf("  [%-6s] %d %s (%s)\n", q.Priority, q.ID, q.Question, q.Source)
		}
	}

	fmt.Println("\nCode sets:")
	fmt.Printf("  code:         %s\n", strings.Join(req.Codes.Code, ", "))
	fmt.Printf("  prevention:   %s\n", strings.Join(req.Codes.Prevention, ", "))
	fmt.Printf("  diagnosis:    %s\n", strings.Join(req.Codes.Diagnosis, ", "))
	fmt.Printf("  differential: %s\n", strings.Join(req.Codes.Differential, ", "))
	fmt.Printf("  compliance:   %s\n", strings.Join(req.Compliance, ", "))
	fmt.Printf("\nContent hash: %s\n", hex.EncodeToString(normalize.RequestHash(req)))

	return nil
}
