package export

import (
	"fmt"
	"strings"

	"github.com/parquet-go/parquet-go"

	"github.com/gyeh/notewizard/internal/model"
)

var requiredColumns = []string{
	"request_id", "code",
	"is_code", "is_prevention", "is_diagnosis", "is_differential",
}

// ValidateSchema checks that the Parquet schema carries the code summary columns.
func ValidateSchema(schema *parquet.Schema) error {
	columns := make(map[string]bool)
	for _, field := range schema.Fields() {
		columns[strings.ToLower(field.Name())] = true
	}

	var missing []string
	for _, col := range requiredColumns {
		if !columns[col] {
			missing = append(missing, col)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("missing required columns: %s", strings.Join(missing, ", "))
	}
	return nil
}

// Distribution counts rows per classification, in canonical order.
type Distribution struct {
	Rows   int
	Counts map[model.Classification]int
}

// Summarize tallies the classifications of rows.
func Summarize(rows []model.CodeSummaryRow) Distribution {
	d := Distribution{Rows: len(rows), Counts: make(map[model.Classification]int)}
	for i := range rows {
		for c, on := range rows[i].ClassificationValues() {
			if on {
				d.Counts[c]++
			}
		}
	}
	return d
}
