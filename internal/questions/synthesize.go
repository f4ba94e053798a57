// Package questions derives clarification questions from documentation gaps
// and prevention suggestions.
package questions

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/gyeh/notewizard/internal/model"
)

const (
	clarifyPrefix    = "Can you clarify: "
	gapSourcePrefix  = "Code Gap: "
	preventionPrefix = "Prevention: "
	preventionSuffix = "99"
)

var highPriorityKeywords = []string{"smok", "tobacco"}

// Clock supplies the fallback id for prevention questions.
var Clock = time.Now

// Synthesize returns questions for every gap on the selected items followed by
// one question per prevention-classified suggestion. It is pure apart from the
// clock fallback and keeps no state between calls.
func Synthesize(selected, suggested []model.NormalizedCodeItem) []model.PatientQuestion {
	out := make([]model.PatientQuestion, 0)
	for i, item := range selected {
		for g, gap := range item.Gaps {
			out = append(out, model.PatientQuestion{
				ID:          gapQuestionID(item.ID, i, g),
				Question:    questionText(gap),
				Source:      gapSourcePrefix + item.Title,
				Priority:    gapPriority(gap),
				CodeRelated: codeRelated(item),
				Category:    model.QuestionCategoryClinical,
			})
		}
	}
	for i, item := range suggested {
		if !item.Classifications.Has(model.ClassPrevention) {
			continue
		}
		out = append(out, model.PatientQuestion{
			ID:          preventionQuestionID(item.ID, i),
			Question:    fmt.Sprintf("What preventive care documentation supports %s?", item.Title),
			Source:      preventionPrefix + item.Title,
			Priority:    model.PriorityLow,
			CodeRelated: codeRelated(item),
			Category:    model.QuestionCategoryClinical,
		})
	}
	return out
}

func questionText(gap string) string {
	gap = strings.TrimSpace(gap)
	if strings.HasSuffix(gap, "?") {
		return gap
	}
	return clarifyPrefix + gap + "?"
}

func gapPriority(gap string) model.Priority {
	g := strings.ToLower(gap)
	for _, kw := range highPriorityKeywords {
		if strings.Contains(g, kw) {
			return model.PriorityHigh
		}
	}
	return model.PriorityMedium
}

func codeRelated(item model.NormalizedCodeItem) string {
	if item.Code != "" {
		return item.Code
	}
	return item.Title
}

func gapQuestionID(itemID, index, gapIndex int) int {
	if id, ok := concatID(itemID, strconv.Itoa(gapIndex)); ok {
		return id
	}
	return index*100 + gapIndex
}

// preventionQuestionID falls back to the clock, offset by the item's position
// so fallbacks within one call stay distinct.
func preventionQuestionID(itemID, index int) int {
	if id, ok := concatID(itemID, preventionSuffix); ok {
		return id
	}
	return int(Clock().UnixMilli())*100 + index
}

// concatID appends suffix to the decimal form of id. It fails when the result
// does not fit a safe integer.
func concatID(id int, suffix string) (int, bool) {
	n, err := strconv.ParseInt(strconv.Itoa(id)+suffix, 10, 64)
	if err != nil || n > 1<<53-1 || n < -(1<<53-1) {
		return 0, false
	}
	return int(n), true
}
