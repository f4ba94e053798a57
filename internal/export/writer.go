// Package export writes the code summary of a finalized note to Parquet and
// reads it back.
package export

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/parquet-go/parquet-go"

	"github.com/gyeh/notewizard/internal/logging"
	"github.com/gyeh/notewizard/internal/model"
	"github.com/gyeh/notewizard/internal/normalize"
)

// Rows flattens a finalize result into one row per code. The patient id is
// stored as its log hash.
func Rows(requestID string, patient model.PatientMetadata, res *model.FinalizeResult) []model.CodeSummaryRow {
	encounter := patient.EncounterDate
	if d, ok := normalize.ParseDate(encounter); ok {
		encounter = d.Format("2006-01-02")
	}
	rows := make([]model.CodeSummaryRow, 0, len(res.CodeSummary))
	for i, e := range res.CodeSummary {
		rows = append(rows, model.CodeSummaryRow{
			RequestID:      requestID,
			PatientID:      logging.HashPHI(patient.PatientID),
			EncounterDate:  encounter,
			Position:       int32(i),
			Code:           e.Code,
			IsCode:         e.Classifications.Has(model.ClassCode),
			IsPrevention:   e.Classifications.Has(model.ClassPrevention),
			IsDiagnosis:    e.Classifications.Has(model.ClassDiagnosis),
			IsDifferential: e.Classifications.Has(model.ClassDifferential),
			TotalCents:     res.Reimbursement.TotalCents,
			TotalRVU:       res.Reimbursement.TotalRVU,
			ExportReady:    res.ExportReady,
		})
	}
	return rows
}

// FileName is the export file name for a request.
func FileName(requestID string) string {
	return "code-summary-" + requestID + ".parquet"
}

// WriteCodeSummary writes rows to a new Parquet file in dir and returns its path.
func WriteCodeSummary(dir, requestID string, rows []model.CodeSummaryRow) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create export dir: %w", err)
	}
	path := filepath.Join(dir, FileName(requestID))
	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("create export file: %w", err)
	}

	w := parquet.NewGenericWriter[model.CodeSummaryRow](f)
	if _, err := w.Write(rows); err != nil {
		f.Close()
		return "", fmt.Errorf("write parquet rows: %w", err)
	}
	if err := w.Close(); err != nil {
		f.Close()
		return "", fmt.Errorf("close parquet writer: %w", err)
	}
	if err := f.Close(); err != nil {
		return "", fmt.Errorf("close export file: %w", err)
	}
	return path, nil
}
