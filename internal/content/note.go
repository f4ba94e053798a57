// Package content derives the note variants shown by the compose and compare
// stages: the default template, the tidied "enhanced" text and the patient
// summary.
package content

import (
	"fmt"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"

	"github.com/gyeh/notewizard/internal/model"
	"github.com/gyeh/notewizard/internal/normalize"
)

const (
	defaultPatientName = "Patient"
	dateLayout         = "2006-01-02"
	summaryLineLimit   = 6
	summaryPlaceholder = "• No documented findings"
)

// PatientName returns the display name for meta, falling back to "Patient".
func PatientName(meta model.PatientMetadata) string {
	if n := strings.TrimSpace(meta.Name); n != "" {
		return n
	}
	return defaultPatientName
}

// EncounterDate formats the encounter date of meta. Unparseable dates are
// shown as supplied; a missing date falls back to now.
func EncounterDate(meta model.PatientMetadata, now time.Time) string {
	raw := strings.TrimSpace(meta.EncounterDate)
	if raw == "" {
		return now.Format(dateLayout)
	}
	if d, ok := normalize.ParseDate(raw); ok {
		return d.Format(dateLayout)
	}
	return raw
}

// DefaultNote is the note template used when no note text was supplied.
func DefaultNote(meta model.PatientMetadata, now time.Time) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Clinical Note\nPatient: %s\nDate: %s\n", PatientName(meta), EncounterDate(meta, now))
	if v := strings.TrimSpace(meta.VisitType); v != "" {
		fmt.Fprintf(&b, "Visit: %s\n", v)
	}
	b.WriteString("\nChief Complaint:\n\nHistory of Present Illness:\n\nAssessment:\n\nPlan:\n")
	return b.String()
}

// Lines splits note into trimmed, non-empty lines.
func Lines(note string) []string {
	var out []string
	for _, line := range strings.Split(note, "\n") {
		if line = strings.TrimSpace(line); line != "" {
			out = append(out, line)
		}
	}
	return out
}

// Enhanced tidies note: lines are trimmed, blank lines dropped and the first
// letter of each line capitalized. Enhanced(Enhanced(x)) == Enhanced(x).
func Enhanced(note string) string {
	lines := Lines(note)
	for i, line := range lines {
		lines[i] = capitalize(line)
	}
	return strings.Join(lines, "\n")
}

// Summary is the patient-facing digest: a header followed by up to six
// bulleted lines of the note.
func Summary(note string, meta model.PatientMetadata, now time.Time) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Patient: %s\nDate: %s\n\n", PatientName(meta), EncounterDate(meta, now))

	lines := Lines(note)
	if len(lines) > summaryLineLimit {
		lines = lines[:summaryLineLimit]
	}
	if len(lines) == 0 {
		b.WriteString(summaryPlaceholder)
		return b.String()
	}
	for i, line := range lines {
		if i > 0 {
			b.WriteByte('\n')
		}
		b.WriteString("• ")
		b.WriteString(line)
	}
	return b.String()
}

func capitalize(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError || unicode.IsUpper(r) {
		return s
	}
	return string(unicode.ToUpper(r)) + s[size:]
}
