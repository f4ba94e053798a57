package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/gyeh/notewizard/internal/exitcode"
	"github.com/gyeh/notewizard/internal/export"
	"github.com/gyeh/notewizard/internal/logging"
	"github.com/gyeh/notewizard/internal/model"
)

var summaryFile string

var summaryCmd = &cobra.Command{
	Use:   "summary",
	Short: "Validate an exported code summary and print its classification distribution",
	RunE:  runSummary,
}

func init() {
	summaryCmd.Flags().StringVar(&summaryFile, "file", "", "Path to exported Parquet file (required)")
	_ = summaryCmd.MarkFlagRequired("file")
	rootCmd.AddCommand(summaryCmd)
}

func runSummary(cmd *cobra.Command, args []string) error {
	log := logging.Setup(cfg.LogFormat)

	reader, err := export.Open(summaryFile)
	if err != nil {
		log.Error().Err(err).Msg("failed to open parquet file")
		os.Exit(exitcode.ValidationError)
	}
	defer reader.Close()

	if err := export.ValidateSchema(reader.Schema()); err != nil {
		log.Error().Err(err).Msg("schema validation failed")
		os.Exit(exitcode.ValidationError)
	}

	rows, err := reader.ReadAll()
	if err != nil {
		log.Error().Err(err).Msg("failed to read rows")
		os.Exit(exitcode.ValidationError)
	}

	fmt.Println("=== notewizard summary ===")
	fmt.Printf("File:  %s\n", summaryFile)
	fmt.Printf("Codes: %d\n", len(rows))
	if len(rows) > 0 {
		fmt.Printf("Request:       %s\n", rows[0].RequestID)
		fmt.Printf("Reimbursement: $%.2f (%.2f RVU)\n", float64(rows[0].TotalCents)/100, rows[0].TotalRVU)
		fmt.Printf("Export ready:  %t\n", rows[0].ExportReady)
	}

	d := export.Summarize(rows)
	fmt.Println("\nClassification distribution:")
	for _, c := range model.AllClassifications {
		fmt.Printf("  %-13s %d\n", c, d.Counts[c])
	}
	fmt.Println("Schema validation: OK")
	return nil
}
