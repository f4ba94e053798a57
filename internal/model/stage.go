package model

// StageType selects how the presentation layer renders a stage.
type StageType string

const (
	StageCodeReview       StageType = "code-review"
	StageSuggestionReview StageType = "suggestion-review"
	StageComposeLoading   StageType = "compose-loading"
	StageCompareEdit      StageType = "compare-edit"
	StagePlaceholder      StageType = "placeholder"
	StageDispatch         StageType = "dispatch"
)

// StepType distinguishes the two code-review stages.
type StepType string

const (
	StepSelected  StepType = "selected"
	StepSuggested StepType = "suggested"
)

// Stage ids are fixed; the wizard always has exactly these six.
const (
	StageIDCodeReview = iota + 1
	StageIDSuggestionReview
	StageIDCompose
	StageIDCompare
	StageIDBilling
	StageIDDispatch

	StageCount = StageIDDispatch
)

// ProgressStep is a sub-step shown while a stage is working.
type ProgressStep struct {
	ID     int    `json:"id"`
	Title  string `json:"title"`
	Status Status `json:"status"`
}

// StageDefinition is everything the presentation layer needs to render one
// wizard stage.
type StageDefinition struct {
	ID              int                        `json:"id"`
	Title           string                     `json:"title"`
	Description     string                     `json:"description"`
	Type            StageType                  `json:"type"`
	StepType        StepType                   `json:"stepType,omitempty"`
	Items           []NormalizedCodeItem       `json:"items,omitempty"`
	Compliance      []NormalizedComplianceItem `json:"complianceItems,omitempty"`
	ProgressSteps   []ProgressStep             `json:"progressSteps,omitempty"`
	OriginalContent string                     `json:"originalContent,omitempty"`
	EnhancedContent string                     `json:"enhancedContent,omitempty"`
	PatientSummary  string                     `json:"patientSummary,omitempty"`
}

// StageOverride replaces selected fields of a base stage. Nil fields keep the
// base value.
type StageOverride struct {
	Title           *string                    `json:"title,omitempty" yaml:"title"`
	Description     *string                    `json:"description,omitempty" yaml:"description"`
	Type            *StageType                 `json:"type,omitempty" yaml:"type"`
	StepType        *StepType                  `json:"stepType,omitempty" yaml:"step_type"`
	Items           []NormalizedCodeItem       `json:"items,omitempty" yaml:"-"`
	Compliance      []NormalizedComplianceItem `json:"complianceItems,omitempty" yaml:"-"`
	ProgressSteps   []ProgressStep             `json:"progressSteps,omitempty" yaml:"progress_steps"`
	OriginalContent *string                    `json:"originalContent,omitempty" yaml:"original_content"`
	EnhancedContent *string                    `json:"enhancedContent,omitempty" yaml:"enhanced_content"`
	PatientSummary  *string                    `json:"patientSummary,omitempty" yaml:"patient_summary"`
}

// ValidStageID reports whether id names one of the six wizard stages.
func ValidStageID(id int) bool {
	return id >= StageIDCodeReview && id <= StageIDDispatch
}
