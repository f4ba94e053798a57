package normalize

import (
	"math"
	"strconv"
	"strings"

	"github.com/gyeh/notewizard/internal/model"
)

// NormalizeID returns a list key for an item at position index. A finite
// numeric id is used as-is (truncated toward zero); a string that parses as a
// finite number is coerced; anything else falls back to index+1.
func NormalizeID(raw model.RawID, index int) int {
	if raw.Number != nil && isFinite(*raw.Number) {
		return int(*raw.Number)
	}
	if raw.Text != nil {
		s := strings.TrimSpace(*raw.Text)
		if s != "" {
			if f, err := strconv.ParseFloat(s, 64); err == nil && isFinite(f) {
				return int(f)
			}
		}
	}
	return index + 1
}

// NormalizeStatus returns raw when it is a canonical status, pending otherwise.
func NormalizeStatus(raw string) model.Status {
	if s, ok := model.ParseStatus(raw); ok {
		return s
	}
	return model.StatusPending
}

// maxSafeInteger is the largest integer a float64 represents exactly.
const maxSafeInteger = 1<<53 - 1

func isFinite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0) && math.Abs(f) <= maxSafeInteger
}
