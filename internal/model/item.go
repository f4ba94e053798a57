package model

import (
	"encoding/json"
	"strings"
)

// Status is the review state of a code or compliance item.
type Status string

const (
	StatusPending    Status = "pending"
	StatusInProgress Status = "in-progress"
	StatusConfirmed  Status = "confirmed"
	StatusCompleted  Status = "completed"
)

// ParseStatus returns the canonical status for s, or ok=false when s is not one
// of the four recognized values. Matching is exact.
func ParseStatus(s string) (Status, bool) {
	switch Status(s) {
	case StatusPending, StatusInProgress, StatusConfirmed, StatusCompleted:
		return Status(s), true
	}
	return "", false
}

// Classification is a semantic tag describing how a code is used downstream.
type Classification string

const (
	ClassCode         Classification = "code"
	ClassPrevention   Classification = "prevention"
	ClassDiagnosis    Classification = "diagnosis"
	ClassDifferential Classification = "differential"
)

// AllClassifications lists classifications in canonical order.
var AllClassifications = []Classification{ClassCode, ClassPrevention, ClassDiagnosis, ClassDifferential}

// ClassificationSet is an unordered set of classifications.
type ClassificationSet uint8

func classBit(c Classification) ClassificationSet {
	for i, known := range AllClassifications {
		if known == c {
			return 1 << uint(i)
		}
	}
	return 0
}

// NewClassificationSet builds a set from the given classifications.
func NewClassificationSet(cs ...Classification) ClassificationSet {
	var s ClassificationSet
	for _, c := range cs {
		s = s.Add(c)
	}
	return s
}

// Add returns the set with c included.
func (s ClassificationSet) Add(c Classification) ClassificationSet { return s | classBit(c) }

// Has reports whether c is in the set.
func (s ClassificationSet) Has(c Classification) bool {
	b := classBit(c)
	return b != 0 && s&b != 0
}

// Empty reports whether the set has no members.
func (s ClassificationSet) Empty() bool { return s == 0 }

// Slice returns the members in canonical order.
func (s ClassificationSet) Slice() []Classification {
	out := make([]Classification, 0, len(AllClassifications))
	for _, c := range AllClassifications {
		if s.Has(c) {
			out = append(out, c)
		}
	}
	return out
}

func (s ClassificationSet) String() string {
	parts := make([]string, 0, len(AllClassifications))
	for _, c := range s.Slice() {
		parts = append(parts, string(c))
	}
	return "{" + strings.Join(parts, ",") + "}"
}

func (s ClassificationSet) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.Slice())
}

func (s *ClassificationSet) UnmarshalJSON(data []byte) error {
	var cs []Classification
	if err := json.Unmarshal(data, &cs); err != nil {
		return err
	}
	*s = NewClassificationSet(cs...)
	return nil
}

// NormalizedCodeItem is the canonical form of a RawCodeItem. Every field the
// raw item carried is preserved; derived fields replace their raw counterparts.
type NormalizedCodeItem struct {
	ID              int               `json:"id"`
	Code            string            `json:"code,omitempty"`
	Title           string            `json:"title"`
	Status          Status            `json:"status"`
	Details         string            `json:"details,omitempty"`
	Description     string            `json:"description,omitempty"`
	CodeType        string            `json:"codeType"`
	Category        Category          `json:"category"`
	Confidence      *float64          `json:"confidence,omitempty"`
	Evidence        []string          `json:"evidence"`
	Gaps            []string          `json:"gaps"`
	Classifications ClassificationSet `json:"classifications"`
	Reimbursement   *float64          `json:"reimbursement,omitempty"`
	RVU             *float64          `json:"rvu,omitempty"`

	// Source fields kept as supplied, for callers that read them back.
	SourceClassification []string                   `json:"classification,omitempty"`
	SourceCategory       string                     `json:"sourceCategory,omitempty"`
	Tags                 []string                   `json:"tags,omitempty"`
	Extra                map[string]json.RawMessage `json:"extra,omitempty"`
}

// Identifier is the value an item contributes to finalize code sets: its code,
// or its title when no code was supplied.
func (it NormalizedCodeItem) Identifier() string {
	if c := strings.TrimSpace(it.Code); c != "" {
		return c
	}
	return strings.TrimSpace(it.Title)
}

// NormalizedComplianceItem is the canonical form of a RawComplianceItem.
type NormalizedComplianceItem struct {
	ID          int    `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
	Status      Status `json:"status"`
}

// PatientMetadata describes the encounter the note documents.
type PatientMetadata struct {
	Name          string `json:"name,omitempty" yaml:"name"`
	PatientID     string `json:"patientId,omitempty" yaml:"patient_id"`
	EncounterDate string `json:"encounterDate,omitempty" yaml:"encounter_date"`
	Provider      string `json:"provider,omitempty" yaml:"provider"`
	VisitType     string `json:"visitType,omitempty" yaml:"visit_type"`
}
