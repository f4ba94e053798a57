package steps

import "github.com/gyeh/notewizard/internal/model"

// ApplyOverrides merges overrides onto base by stage id and returns a new
// slice. Set override fields win; nil fields keep the base value. Overrides for
// unknown ids are ignored and base is never modified.
func ApplyOverrides(base []model.StageDefinition, overrides map[int]model.StageOverride) []model.StageDefinition {
	out := make([]model.StageDefinition, len(base))
	copy(out, base)
	for i := range out {
		if ov, ok := overrides[out[i].ID]; ok {
			out[i] = Merge(out[i], ov)
		}
	}
	return out
}

// Merge applies a single override to a stage value.
func Merge(st model.StageDefinition, ov model.StageOverride) model.StageDefinition {
	if ov.Title != nil {
		st.Title = *ov.Title
	}
	if ov.Description != nil {
		st.Description = *ov.Description
	}
	if ov.Type != nil {
		st.Type = *ov.Type
	}
	if ov.StepType != nil {
		st.StepType = *ov.StepType
	}
	if ov.Items != nil {
		st.Items = ov.Items
	}
	if ov.Compliance != nil {
		st.Compliance = ov.Compliance
	}
	if ov.ProgressSteps != nil {
		st.ProgressSteps = ov.ProgressSteps
	}
	if ov.OriginalContent != nil {
		st.OriginalContent = *ov.OriginalContent
	}
	if ov.EnhancedContent != nil {
		st.EnhancedContent = *ov.EnhancedContent
	}
	if ov.PatientSummary != nil {
		st.PatientSummary = *ov.PatientSummary
	}
	return st
}
