package model

import "strings"

// Category is the canonical bucket a code item is filed under.
type Category string

const (
	CategoryDiagnosis Category = "diagnosis-code"
	CategoryProcedure Category = "procedure-code"
)

// Default code types assigned when a raw item does not name one.
const (
	DefaultProcedureType = "CPT"
	DefaultDiagnosisType = "ICD-10"
)

// CodeType represents one of the supported clinical code systems.
type CodeType struct {
	Name     string   // e.g. "CPT"
	Category Category // bucket items of this type are filed under
}

// AllCodeTypes lists the supported code systems in canonical order.
var AllCodeTypes = []CodeType{
	{Name: "CPT", Category: CategoryProcedure},
	{Name: "HCPCS", Category: CategoryProcedure},
	{Name: "CDT", Category: CategoryProcedure},
	{Name: "ICD-10-PCS", Category: CategoryProcedure},
	{Name: "ICD-10", Category: CategoryDiagnosis},
	{Name: "ICD-10-CM", Category: CategoryDiagnosis},
	{Name: "SNOMED", Category: CategoryDiagnosis},
}

// CodeTypeNames returns just the names of all code types.
func CodeTypeNames() []string {
	names := make([]string, len(AllCodeTypes))
	for i, ct := range AllCodeTypes {
		names[i] = ct.Name
	}
	return names
}

// CodeTypeByName returns the CodeType for the given name (case-insensitive), or ok=false.
func CodeTypeByName(name string) (CodeType, bool) {
	name = strings.TrimSpace(name)
	for _, ct := range AllCodeTypes {
		if strings.EqualFold(ct.Name, name) {
			return ct, true
		}
	}
	return CodeType{}, false
}

// IsProcedureType reports whether codeType names a procedure/billing code system.
// Unknown names fall back to a substring match so caller-specific labels such as
// "procedure" or "cpt-4" still resolve.
func IsProcedureType(codeType string) bool {
	if ct, ok := CodeTypeByName(codeType); ok {
		return ct.Category == CategoryProcedure
	}
	lower := strings.ToLower(codeType)
	return strings.Contains(lower, "procedure") ||
		strings.Contains(lower, "cpt") ||
		strings.Contains(lower, "hcpcs")
}

// CategoryFor derives the item category from its code type.
func CategoryFor(codeType string) Category {
	if IsProcedureType(codeType) {
		return CategoryProcedure
	}
	return CategoryDiagnosis
}
