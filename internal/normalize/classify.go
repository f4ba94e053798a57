package normalize

import (
	"strings"

	"github.com/gyeh/notewizard/internal/model"
)

// InferCodeType returns explicit when it is non-empty; otherwise a bare 4–5
// digit code is a procedure code and any other code is a diagnosis code.
func InferCodeType(code, explicit string) string {
	if t := strings.TrimSpace(explicit); t != "" {
		return explicit
	}
	if IsNumericProcedureCode(code) {
		return model.DefaultProcedureType
	}
	return model.DefaultDiagnosisType
}

// classificationKeywords maps label substrings to classifications. Order does
// not matter; every match is added.
var classificationKeywords = []struct {
	substr string
	class  model.Classification
}{
	{"differential", model.ClassDifferential},
	{"prevent", model.ClassPrevention},
	{"diagn", model.ClassDiagnosis},
	{"code", model.ClassCode},
	{"procedure", model.ClassCode},
}

// MatchClassifications returns every classification whose keyword appears in label.
func MatchClassifications(label string) model.ClassificationSet {
	var set model.ClassificationSet
	l := NormalizeName(label)
	if l == "" {
		return set
	}
	for _, kw := range classificationKeywords {
		if strings.Contains(l, kw.substr) {
			set = set.Add(kw.class)
		}
	}
	return set
}

// InferClassifications unions keyword matches over the item's explicit
// classification, its category and its tags with rules derived from the code
// itself. The result is never empty.
func InferClassifications(raw model.RawCodeItem) model.ClassificationSet {
	var set model.ClassificationSet
	for _, c := range raw.Classification {
		set |= MatchClassifications(c)
	}
	set |= MatchClassifications(raw.Category)
	for _, t := range raw.Tags {
		set |= MatchClassifications(t)
	}

	codeType := InferCodeType(raw.Code, raw.CodeType)
	if model.IsProcedureType(codeType) {
		set = set.Add(model.ClassCode)
	} else {
		set = set.Add(model.ClassDiagnosis)
	}
	if IsNumericProcedureCode(raw.Code) {
		set = set.Add(model.ClassCode)
	}

	if set.Empty() {
		set = set.Add(model.ClassDiagnosis)
	}
	return set
}
