// Package steps builds the six wizard stage definitions from the normalized
// model and applies caller overrides.
package steps

import (
	"fmt"

	"github.com/gyeh/notewizard/internal/model"
)

// Input is everything the stage definitions are derived from.
type Input struct {
	Selected   []model.NormalizedCodeItem
	Suggested  []model.NormalizedCodeItem
	Compliance []model.NormalizedComplianceItem

	Note     string
	Enhanced string
	Summary  string

	Finalize model.FinalizeStatus
}

// Build returns the base stages with overrides applied.
func Build(in Input, overrides map[int]model.StageOverride) []model.StageDefinition {
	return ApplyOverrides(BuildBase(in), overrides)
}

// BuildBase returns exactly six stages in fixed order. It has no side effects.
func BuildBase(in Input) []model.StageDefinition {
	return []model.StageDefinition{
		{
			ID:          model.StageIDCodeReview,
			Title:       "Review Selected Codes",
			Description: "Confirm the codes selected for this encounter and resolve documentation gaps.",
			Type:        model.StageCodeReview,
			StepType:    model.StepSelected,
			Items:       in.Selected,
		},
		{
			ID:          model.StageIDSuggestionReview,
			Title:       "Review Suggested Codes",
			Description: "Accept or dismiss AI-suggested codes, including preventive care opportunities.",
			Type:        model.StageSuggestionReview,
			StepType:    model.StepSuggested,
			Items:       in.Suggested,
		},
		{
			ID:              model.StageIDCompose,
			Title:           "Compose Note",
			Description:     "Applying selected codes and enhancing the documentation.",
			Type:            model.StageComposeLoading,
			ProgressSteps:   composeProgress(),
			OriginalContent: in.Note,
			EnhancedContent: in.Enhanced,
		},
		{
			ID:              model.StageIDCompare,
			Title:           "Compare & Edit",
			Description:     "Compare the original and enhanced note and make final edits.",
			Type:            model.StageCompareEdit,
			OriginalContent: in.Note,
			EnhancedContent: in.Enhanced,
			PatientSummary:  in.Summary,
		},
		{
			ID:          model.StageIDBilling,
			Title:       "Billing & Attestation",
			Description: billingDescription(len(in.Compliance)),
			Type:        model.StagePlaceholder,
			Compliance:  in.Compliance,
		},
		{
			ID:              model.StageIDDispatch,
			Title:           "Sign & Dispatch",
			Description:     dispatchDescription(in.Finalize),
			Type:            model.StageDispatch,
			ProgressSteps:   dispatchProgress(in.Finalize.State),
			EnhancedContent: in.Enhanced,
			PatientSummary:  in.Summary,
		},
	}
}

func billingDescription(n int) string {
	switch n {
	case 0:
		return "Review billing and attest to the documentation before dispatch."
	case 1:
		return "Review 1 compliance item before attesting."
	default:
		return fmt.Sprintf("Review %d compliance items before attesting.", n)
	}
}

// DefaultFinalizeError is shown when a failed finalize carried no message.
const DefaultFinalizeError = "Failed to finalize note."

func dispatchDescription(st model.FinalizeStatus) string {
	switch st.State {
	case model.FinalizeInFlight:
		return "Finalizing note and preparing dispatch…"
	case model.FinalizeSucceeded:
		return "Note finalized and ready to dispatch."
	case model.FinalizeFailed:
		msg := st.Error
		if msg == "" {
			msg = DefaultFinalizeError
		}
		return "Finalization failed: " + msg
	default:
		return "Finalize the note and dispatch it to the chart."
	}
}

func composeProgress() []model.ProgressStep {
	return []model.ProgressStep{
		{ID: 1, Title: "Analyzing note", Status: model.StatusPending},
		{ID: 2, Title: "Applying selected codes", Status: model.StatusPending},
		{ID: 3, Title: "Enhancing documentation", Status: model.StatusPending},
		{ID: 4, Title: "Generating patient summary", Status: model.StatusPending},
	}
}

func dispatchProgress(state model.FinalizeState) []model.ProgressStep {
	finalize, dispatch := model.StatusPending, model.StatusPending
	switch state {
	case model.FinalizeInFlight:
		finalize = model.StatusInProgress
	case model.FinalizeSucceeded:
		finalize, dispatch = model.StatusCompleted, model.StatusConfirmed
	}
	return []model.ProgressStep{
		{ID: 1, Title: "Finalize note", Status: finalize},
		{ID: 2, Title: "Dispatch to chart", Status: dispatch},
	}
}
