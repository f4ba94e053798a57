package normalize

import (
	"testing"

	"github.com/gyeh/notewizard/internal/model"
)

func TestInferCodeType(t *testing.T) {
	tests := []struct {
		code, explicit, want string
	}{
		{"99213", "", model.DefaultProcedureType},
		{"1234", "", model.DefaultProcedureType},
		{" 99213 ", "", model.DefaultProcedureType},
		{"123", "", model.DefaultDiagnosisType},
		{"123456", "", model.DefaultDiagnosisType},
		{"I25.10", "", model.DefaultDiagnosisType},
		{"G0438", "", model.DefaultDiagnosisType},
		{"", "", model.DefaultDiagnosisType},
		{"99213", "HCPCS", "HCPCS"},
		{"I25.10", "custom-type", "custom-type"},
	}
	for _, tt := range tests {
		if got := InferCodeType(tt.code, tt.explicit); got != tt.want {
			t.Errorf("InferCodeType(%q, %q) = %q, want %q", tt.code, tt.explicit, got, tt.want)
		}
	}
}

func TestInferClassifications_KeywordSources(t *testing.T) {
	raw := model.RawCodeItem{
		Code:           "Z13.6",
		Classification: model.StringList{"Preventive screening"},
		Category:       "Differential dx",
		Tags:           model.StringList{"procedure"},
	}
	got := InferClassifications(raw)
	for _, c := range []model.Classification{model.ClassPrevention, model.ClassDifferential, model.ClassCode, model.ClassDiagnosis} {
		if !got.Has(c) {
			t.Errorf("expected %s in %s", c, got)
		}
	}
}

func TestInferClassifications_ProcedureCode(t *testing.T) {
	got := InferClassifications(model.RawCodeItem{Code: "99213", Classification: model.StringList{"code"}})
	if got != model.NewClassificationSet(model.ClassCode) {
		t.Errorf("expected {code}, got %s", got)
	}
}

func TestInferClassifications_NeverEmpty(t *testing.T) {
	for _, raw := range []model.RawCodeItem{
		{},
		{Code: "???"},
		{Tags: model.StringList{"unrelated"}},
		{CodeType: "weird"},
	} {
		if InferClassifications(raw).Empty() {
			t.Errorf("empty classification set for %+v", raw)
		}
	}
}

func TestInferClassifications_OrderIndependent(t *testing.T) {
	a := InferClassifications(model.RawCodeItem{Tags: model.StringList{"prevention", "differential"}})
	b := InferClassifications(model.RawCodeItem{Tags: model.StringList{"differential", "prevention"}})
	if a != b {
		t.Errorf("tag order changed result: %s vs %s", a, b)
	}
}
