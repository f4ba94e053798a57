package steps

import (
	"testing"

	"github.com/gyeh/notewizard/internal/model"
)

func strPtr(s string) *string { return &s }

func TestBuildBase_AlwaysSixStages(t *testing.T) {
	inputs := []Input{
		{},
		{Selected: []model.NormalizedCodeItem{{ID: 1, Title: "x"}}},
		{Compliance: make([]model.NormalizedComplianceItem, 3)},
	}
	wantTypes := []model.StageType{
		model.StageCodeReview, model.StageSuggestionReview, model.StageComposeLoading,
		model.StageCompareEdit, model.StagePlaceholder, model.StageDispatch,
	}
	for _, in := range inputs {
		stages := BuildBase(in)
		if len(stages) != 6 {
			t.Fatalf("expected 6 stages, got %d", len(stages))
		}
		for i, st := range stages {
			if st.ID != i+1 {
				t.Errorf("stage %d has id %d", i, st.ID)
			}
			if st.Type != wantTypes[i] {
				t.Errorf("stage %d type = %s, want %s", st.ID, st.Type, wantTypes[i])
			}
		}
	}
}

func TestBuildBase_BillingDescription(t *testing.T) {
	tests := []struct {
		n    int
		want string
	}{
		{0, "Review billing and attest to the documentation before dispatch."},
		{1, "Review 1 compliance item before attesting."},
		{4, "Review 4 compliance items before attesting."},
	}
	for _, tt := range tests {
		st := BuildBase(Input{Compliance: make([]model.NormalizedComplianceItem, tt.n)})[4]
		if st.Description != tt.want {
			t.Errorf("n=%d: description = %q, want %q", tt.n, st.Description, tt.want)
		}
	}
}

func TestBuildBase_DispatchDescription(t *testing.T) {
	tests := []struct {
		status model.FinalizeStatus
		want   string
	}{
		{model.FinalizeStatus{State: model.FinalizeIdle}, "Finalize the note and dispatch it to the chart."},
		{model.FinalizeStatus{}, "Finalize the note and dispatch it to the chart."},
		{model.FinalizeStatus{State: model.FinalizeInFlight}, "Finalizing note and preparing dispatch…"},
		{model.FinalizeStatus{State: model.FinalizeSucceeded}, "Note finalized and ready to dispatch."},
		{model.FinalizeStatus{State: model.FinalizeFailed, Error: "boom"}, "Finalization failed: boom"},
		{model.FinalizeStatus{State: model.FinalizeFailed}, "Finalization failed: Failed to finalize note."},
	}
	for _, tt := range tests {
		st := BuildBase(Input{Finalize: tt.status})[5]
		if st.Description != tt.want {
			t.Errorf("%s: description = %q, want %q", tt.status.State, st.Description, tt.want)
		}
	}
}

func TestBuildBase_Content(t *testing.T) {
	stages := BuildBase(Input{Note: "orig", Enhanced: "Orig", Summary: "sum"})
	cmp := stages[3]
	if cmp.OriginalContent != "orig" || cmp.EnhancedContent != "Orig" || cmp.PatientSummary != "sum" {
		t.Errorf("compare stage content not populated: %+v", cmp)
	}
}

func TestApplyOverrides_MergesAndKeepsBase(t *testing.T) {
	base := BuildBase(Input{})
	origTitle := base[1].Title
	origDesc := base[1].Description

	out := ApplyOverrides(base, map[int]model.StageOverride{
		2:  {Title: strPtr("Preventive Suggestions")},
		99: {Title: strPtr("ignored")},
	})

	if out[1].Title != "Preventive Suggestions" {
		t.Errorf("override title not applied: %q", out[1].Title)
	}
	if out[1].Description != origDesc {
		t.Errorf("unspecified field changed: %q", out[1].Description)
	}
	if base[1].Title != origTitle {
		t.Errorf("base template mutated: %q", base[1].Title)
	}
	if len(out) != 6 {
		t.Errorf("unknown override id changed stage count: %d", len(out))
	}
}

func TestApplyOverrides_LastWriteWins(t *testing.T) {
	base := BuildBase(Input{})
	once := ApplyOverrides(base, map[int]model.StageOverride{5: {Description: strPtr("first")}})
	twice := ApplyOverrides(once, map[int]model.StageOverride{5: {Description: strPtr("second")}})
	if twice[4].Description != "second" {
		t.Errorf("expected later override to win, got %q", twice[4].Description)
	}
}
