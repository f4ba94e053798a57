package finalize

import (
	"reflect"
	"testing"

	"github.com/gyeh/notewizard/internal/model"
)

func floatPtr(f float64) *float64 { return &f }

func TestBuildRequest_Partitions(t *testing.T) {
	in := Input{
		Selected: []model.NormalizedCodeItem{
			{Code: "I25.10", CodeType: "ICD-10", Classifications: model.NewClassificationSet(model.ClassDiagnosis)},
			{Code: "R07.9", CodeType: "ICD-10", Classifications: model.NewClassificationSet(model.ClassDiagnosis, model.ClassDifferential)},
		},
		Suggested: []model.NormalizedCodeItem{
			{Code: "99213", CodeType: "CPT", Classifications: model.NewClassificationSet(model.ClassCode), Reimbursement: floatPtr(92.5)},
			{Title: "Depression screening", CodeType: "HCPCS"},
			{Code: "I25.10", CodeType: "ICD-10", Classifications: model.NewClassificationSet(model.ClassDiagnosis)},
			{Code: "Z00.00"},
		},
		Compliance: []model.NormalizedComplianceItem{
			{ID: 1, Title: "Attestation signed"},
			{ID: 2},
			{ID: 3, Title: "Attestation signed"},
		},
		Content: "  note  ",
	}

	req := BuildRequest(in)

	want := model.CodeSets{
		Code:         []string{"99213", "Depression screening"},
		Prevention:   []string{},
		Diagnosis:    []string{"I25.10", "R07.9", "Z00.00"},
		Differential: []string{"R07.9"},
	}
	if !reflect.DeepEqual(req.Codes, want) {
		t.Errorf("Codes = %+v, want %+v", req.Codes, want)
	}
	if !reflect.DeepEqual(req.Compliance, []string{"Attestation signed", "2"}) {
		t.Errorf("Compliance = %v", req.Compliance)
	}
	if len(req.Billing) != 1 || *req.Billing[0].ReimbursementCents != 9250 {
		t.Errorf("Billing = %+v", req.Billing)
	}
}

func TestBuildRequest_FreshID(t *testing.T) {
	a := BuildRequest(Input{})
	b := BuildRequest(Input{})
	if a.RequestID == b.RequestID {
		t.Error("expected a new request id per call")
	}
	if a.Codes.Code == nil || a.Compliance == nil {
		t.Error("expected empty non-nil sets")
	}
}

func TestDefaultResult(t *testing.T) {
	req := BuildRequest(Input{
		Content: "\n Final note \n",
		Selected: []model.NormalizedCodeItem{
			{Code: "R07.9", Classifications: model.NewClassificationSet(model.ClassDiagnosis, model.ClassDifferential)},
		},
		Suggested: []model.NormalizedCodeItem{
			{Code: "99213", Classifications: model.NewClassificationSet(model.ClassCode)},
		},
	})
	res := DefaultResult(req)

	if res.FinalizedContent != "Final note" {
		t.Errorf("FinalizedContent = %q", res.FinalizedContent)
	}
	if !res.ExportReady {
		t.Error("expected export ready")
	}
	if res.Issues == nil || len(res.Issues) != 0 {
		t.Errorf("Issues = %v", res.Issues)
	}
	if res.Reimbursement != (model.ReimbursementSummary{}) {
		t.Errorf("Reimbursement = %+v", res.Reimbursement)
	}
	if len(res.CodeSummary) != 2 {
		t.Fatalf("CodeSummary = %+v", res.CodeSummary)
	}
	if res.CodeSummary[0].Code != "99213" || !res.CodeSummary[0].Classifications.Has(model.ClassCode) {
		t.Errorf("first entry = %+v", res.CodeSummary[0])
	}
	r := res.CodeSummary[1].Classifications
	if !r.Has(model.ClassDiagnosis) || !r.Has(model.ClassDifferential) {
		t.Errorf("second entry = %+v", res.CodeSummary[1])
	}
}
