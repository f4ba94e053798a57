package normalize

import (
	"fmt"
	"strings"

	"github.com/gyeh/notewizard/internal/model"
)

// NormalizeItems converts raw code suggestions into canonical items. The input
// is never modified; nil input yields an empty, non-nil slice.
func NormalizeItems(raw []model.RawCodeItem) []model.NormalizedCodeItem {
	out := make([]model.NormalizedCodeItem, len(raw))
	for i := range raw {
		out[i] = NormalizeItem(raw[i], i)
	}
	return out
}

// NormalizeItem converts the raw item at position index.
func NormalizeItem(raw model.RawCodeItem, index int) model.NormalizedCodeItem {
	code := NormalizeCode(raw.Code)
	codeType := InferCodeType(code, raw.CodeType)

	return model.NormalizedCodeItem{
		ID:              NormalizeID(raw.ID, index),
		Code:            code,
		Title:           itemTitle(raw.Title, code, index),
		Status:          NormalizeStatus(raw.Status),
		Details:         raw.Details,
		Description:     raw.Description,
		CodeType:        codeType,
		Category:        model.CategoryFor(codeType),
		Confidence:      NormalizeConfidence(raw.Confidence),
		Evidence:        copyStrings(raw.Evidence),
		Gaps:            copyStrings(raw.Gaps),
		Classifications: InferClassifications(raw),
		Reimbursement:   copyFloat(raw.Reimbursement),
		RVU:             copyFloat(raw.RVU),

		SourceClassification: copyStrings(raw.Classification),
		SourceCategory:       raw.Category,
		Tags:                 copyStrings(raw.Tags),
		Extra:                raw.Extra,
	}
}

// NormalizeComplianceItems converts raw compliance findings into canonical items.
func NormalizeComplianceItems(raw []model.RawComplianceItem) []model.NormalizedComplianceItem {
	out := make([]model.NormalizedComplianceItem, len(raw))
	for i, r := range raw {
		out[i] = model.NormalizedComplianceItem{
			ID:          NormalizeID(r.ID, i),
			Title:       itemTitle(r.Title, "", i),
			Description: strings.TrimSpace(r.Description),
			Status:      NormalizeStatus(r.Status),
		}
	}
	return out
}

func itemTitle(title, code string, index int) string {
	if t := strings.TrimSpace(title); t != "" {
		return t
	}
	if code != "" {
		return code
	}
	return fmt.Sprintf("Item %d", index+1)
}

// copyStrings returns a trimmed copy without empty entries; never nil.
func copyStrings(in []string) []string {
	out := make([]string, 0, len(in))
	for _, s := range in {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}

func copyFloat(v *float64) *float64 {
	if v == nil {
		return nil
	}
	f := *v
	return &f
}
