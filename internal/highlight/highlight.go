// Package highlight locates evidence strings inside note text.
package highlight

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/gyeh/notewizard/internal/model"
)

const buckets = 3

// Compute returns one range per evidence string of item found in note. It is
// empty unless visible is set and an item is selected. Ranges are byte
// offsets and may overlap.
func Compute(note string, item *model.NormalizedCodeItem, visible bool) []model.HighlightRange {
	out := make([]model.HighlightRange, 0)
	if !visible || item == nil {
		return out
	}
	for i, ev := range item.Evidence {
		ev = strings.TrimSpace(ev)
		if ev == "" {
			continue
		}
		start, end, ok := IndexFold(note, ev)
		if !ok {
			continue
		}
		out = append(out, model.HighlightRange{
			Start:     start,
			End:       end,
			ClassName: ClassName(i),
			Label:     fmt.Sprintf("Evidence %d", i+1),
			Text:      note[start:end],
		})
	}
	return out
}

// ClassName returns the style bucket for the evidence at index.
func ClassName(index int) string {
	return fmt.Sprintf("evidence-highlight-%d", index%buckets)
}

// IndexFold finds the first case-insensitive occurrence of needle in s and
// returns its byte span in s.
func IndexFold(s, needle string) (start, end int, ok bool) {
	if needle == "" {
		return 0, 0, false
	}
	for i := 0; i < len(s); {
		if j, matched := matchAt(s, i, needle); matched {
			return i, j, true
		}
		_, w := utf8.DecodeRuneInString(s[i:])
		i += w
	}
	return 0, 0, false
}

func matchAt(s string, i int, needle string) (int, bool) {
	for _, nr := range needle {
		if i >= len(s) {
			return 0, false
		}
		sr, w := utf8.DecodeRuneInString(s[i:])
		if !equalFold(sr, nr) {
			return 0, false
		}
		i += w
	}
	return i, true
}

func equalFold(a, b rune) bool {
	if a == b {
		return true
	}
	for r := unicode.SimpleFold(a); r != a; r = unicode.SimpleFold(r) {
		if r == b {
			return true
		}
	}
	return false
}
