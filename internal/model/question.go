package model

// Priority orders clarification questions for the clinician.
type Priority string

const (
	PriorityHigh   Priority = "high"
	PriorityMedium Priority = "medium"
	PriorityLow    Priority = "low"
)

// QuestionCategoryClinical is the only category this engine emits.
const QuestionCategoryClinical = "clinical"

// PatientQuestion is a clarification question derived from a documentation gap.
type PatientQuestion struct {
	ID          int      `json:"id"`
	Question    string   `json:"question"`
	Source      string   `json:"source"`
	Priority    Priority `json:"priority"`
	CodeRelated string   `json:"codeRelated"`
	Category    string   `json:"category"`
}

// HighlightRange marks one evidence match inside the note text. Start and End
// are byte offsets, End exclusive.
type HighlightRange struct {
	Start     int    `json:"start"`
	End       int    `json:"end"`
	ClassName string `json:"className"`
	Label     string `json:"label"`
	Text      string `json:"text"`
}
