package model

import "github.com/google/uuid"

// CodeSets partitions code identifiers by classification. Each list is
// deduplicated and keeps first-seen order.
type CodeSets struct {
	Code         []string `json:"code"`
	Prevention   []string `json:"prevention"`
	Diagnosis    []string `json:"diagnosis"`
	Differential []string `json:"differential"`
}

// All returns every identifier across the four sets, deduplicated, in set order.
func (s CodeSets) All() []string {
	seen := make(map[string]bool)
	var out []string
	for _, set := range [][]string{s.Code, s.Prevention, s.Diagnosis, s.Differential} {
		for _, id := range set {
			if !seen[id] {
				seen[id] = true
				out = append(out, id)
			}
		}
	}
	return out
}

// ClassificationsOf returns the sets identifier appears in.
func (s CodeSets) ClassificationsOf(identifier string) ClassificationSet {
	var cs ClassificationSet
	for c, set := range map[Classification][]string{
		ClassCode: s.Code, ClassPrevention: s.Prevention,
		ClassDiagnosis: s.Diagnosis, ClassDifferential: s.Differential,
	} {
		for _, id := range set {
			if id == identifier {
				cs = cs.Add(c)
				break
			}
		}
	}
	return cs
}

// BillingLine carries the billing figures of one item into the request.
type BillingLine struct {
	Identifier         string   `json:"identifier"`
	CodeType           string   `json:"codeType"`
	ReimbursementCents *int64   `json:"reimbursementCents,omitempty"`
	RVU                *float64 `json:"rvu,omitempty"`
}

// FinalizeRequest is the package handed to the external finalize function.
type FinalizeRequest struct {
	RequestID  uuid.UUID       `json:"requestId"`
	Content    string          `json:"content"`
	Codes      CodeSets        `json:"codes"`
	Compliance []string        `json:"compliance"`
	Billing    []BillingLine   `json:"billing,omitempty"`
	Patient    PatientMetadata `json:"patient"`
}

// CodeSummaryEntry is one finalized code identifier.
type CodeSummaryEntry struct {
	Code            string            `json:"code"`
	Classifications ClassificationSet `json:"classifications"`
}

// ReimbursementSummary totals the billing lines of a finalized note.
type ReimbursementSummary struct {
	TotalCents int64   `json:"totalCents"`
	TotalRVU   float64 `json:"totalRvu"`
	LineCount  int     `json:"lineCount"`
}

// FinalizeResult is what the finalize function reports back.
type FinalizeResult struct {
	RequestID        string               `json:"requestId,omitempty"`
	FinalizedContent string               `json:"finalizedContent"`
	CodeSummary      []CodeSummaryEntry   `json:"codeSummary"`
	Reimbursement    ReimbursementSummary `json:"reimbursement"`
	ExportReady      bool                 `json:"exportReady"`
	Issues           map[string][]string  `json:"issues"`
}

// FinalizeState is the lifecycle of a finalize attempt.
type FinalizeState string

const (
	FinalizeIdle      FinalizeState = "idle"
	FinalizeInFlight  FinalizeState = "in-flight"
	FinalizeSucceeded FinalizeState = "succeeded"
	FinalizeFailed    FinalizeState = "failed"
)

// FinalizeStatus is a snapshot of the orchestrator for display.
type FinalizeStatus struct {
	State     FinalizeState   `json:"state"`
	RequestID string          `json:"requestId,omitempty"`
	Result    *FinalizeResult `json:"result,omitempty"`
	Error     string          `json:"error,omitempty"`
}
