package model

// CodeSummaryRow mirrors the Parquet schema of an exported code summary.
// One row per finalized code identifier.
type CodeSummaryRow struct {
	RequestID      string `parquet:"request_id"`
	PatientID      string `parquet:"patient_id,optional"`
	EncounterDate  string `parquet:"encounter_date,optional"`
	Position       int32  `parquet:"position"`
	Code           string `parquet:"code"`
	IsCode         bool   `parquet:"is_code"`
	IsPrevention   bool   `parquet:"is_prevention"`
	IsDiagnosis    bool   `parquet:"is_diagnosis"`
	IsDifferential bool   `parquet:"is_differential"`

	// Note-level totals, repeated on every row
	TotalCents  int64   `parquet:"total_cents"`
	TotalRVU    float64 `parquet:"total_rvu"`
	ExportReady bool    `parquet:"export_ready"`
}

// ClassificationValues returns classification name -> flag for the row.
func (r *CodeSummaryRow) ClassificationValues() map[Classification]bool {
	return map[Classification]bool{
		ClassCode:         r.IsCode,
		ClassPrevention:   r.IsPrevention,
		ClassDiagnosis:    r.IsDiagnosis,
		ClassDifferential: r.IsDifferential,
	}
}
