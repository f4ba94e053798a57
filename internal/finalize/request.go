// Package finalize packages the wizard model into a finalize request and runs
// the caller's finalize function under a single-flight guard.
package finalize

import (
	"strconv"
	"strings"

	"github.com/google/uuid"

	"github.com/gyeh/notewizard/internal/model"
	"github.com/gyeh/notewizard/internal/normalize"
)

// Input is the model snapshot a request is built from.
type Input struct {
	Selected   []model.NormalizedCodeItem
	Suggested  []model.NormalizedCodeItem
	Compliance []model.NormalizedComplianceItem
	Content    string
	Patient    model.PatientMetadata
}

// BuildRequest partitions every selected and suggested identifier into the
// code sets by classification. Items without classifications are routed by
// code type. A fresh request id is assigned on every call.
func BuildRequest(in Input) *model.FinalizeRequest {
	var sets setBuilder
	var billing []model.BillingLine

	for _, list := range [][]model.NormalizedCodeItem{in.Selected, in.Suggested} {
		for _, item := range list {
			id := item.Identifier()
			if id == "" {
				continue
			}
			classes := item.Classifications
			if classes.Empty() {
				if model.IsProcedureType(item.CodeType) {
					classes = classes.Add(model.ClassCode)
				} else {
					classes = classes.Add(model.ClassDiagnosis)
				}
			}
			sets.add(id, classes)

			if item.Reimbursement != nil || item.RVU != nil {
				billing = append(billing, model.BillingLine{
					Identifier:         id,
					CodeType:           item.CodeType,
					ReimbursementCents: normalize.DollarsToCents(item.Reimbursement),
					RVU:                item.RVU,
				})
			}
		}
	}

	compliance := newOrderedSet()
	for _, c := range in.Compliance {
		id := strings.TrimSpace(c.Title)
		if id == "" {
			id = strconv.Itoa(c.ID)
		}
		compliance.add(id)
	}

	return &model.FinalizeRequest{
		RequestID:  uuid.New(),
		Content:    in.Content,
		Codes:      sets.codeSets(),
		Compliance: compliance.items,
		Billing:    billing,
		Patient:    in.Patient,
	}
}

// DefaultResult is substituted when the finalize function reports success
// without a result.
func DefaultResult(req *model.FinalizeRequest) *model.FinalizeResult {
	ids := req.Codes.All()
	summary := make([]model.CodeSummaryEntry, 0, len(ids))
	for _, id := range ids {
		summary = append(summary, model.CodeSummaryEntry{
			Code:            id,
			Classifications: req.Codes.ClassificationsOf(id),
		})
	}
	return &model.FinalizeResult{
		FinalizedContent: strings.TrimSpace(req.Content),
		CodeSummary:      summary,
		ExportReady:      true,
		Issues:           map[string][]string{},
	}
}

type orderedSet struct {
	seen  map[string]bool
	items []string
}

func newOrderedSet() *orderedSet {
	return &orderedSet{seen: make(map[string]bool), items: []string{}}
}

func (s *orderedSet) add(v string) {
	if !s.seen[v] {
		s.seen[v] = true
		s.items = append(s.items, v)
	}
}

type setBuilder struct {
	code, prevention, diagnosis, differential *orderedSet
}

func (b *setBuilder) add(id string, classes model.ClassificationSet) {
	if b.code == nil {
		b.code, b.prevention = newOrderedSet(), newOrderedSet()
		b.diagnosis, b.differential = newOrderedSet(), newOrderedSet()
	}
	if classes.Has(model.ClassCode) {
		b.code.add(id)
	}
	if classes.Has(model.ClassPrevention) {
		b.prevention.add(id)
	}
	if classes.Has(model.ClassDiagnosis) {
		b.diagnosis.add(id)
	}
	if classes.Has(model.ClassDifferential) {
		b.differential.add(id)
	}
}

func (b *setBuilder) codeSets() model.CodeSets {
	if b.code == nil {
		return model.CodeSets{Code: []string{}, Prevention: []string{}, Diagnosis: []string{}, Differential: []string{}}
	}
	return model.CodeSets{
		Code:         b.code.items,
		Prevention:   b.prevention.items,
		Diagnosis:    b.diagnosis.items,
		Differential: b.differential.items,
	}
}
