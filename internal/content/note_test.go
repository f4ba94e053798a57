package content

import (
	"strings"
	"testing"
	"time"

	"github.com/gyeh/notewizard/internal/model"
)

var fixedNow = time.Date(2025, 2, 14, 9, 30, 0, 0, time.UTC)

func TestDefaultNote_Fallbacks(t *testing.T) {
	note := DefaultNote(model.PatientMetadata{}, fixedNow)
	if !strings.Contains(note, "Patient: Patient\n") {
		t.Errorf("missing name fallback:\n%s", note)
	}
	if !strings.Contains(note, "Date: 2025-02-14\n") {
		t.Errorf("missing date fallback:\n%s", note)
	}
	for _, section := range []string{"Chief Complaint:", "History of Present Illness:", "Assessment:", "Plan:"} {
		if !strings.Contains(note, section) {
			t.Errorf("missing section %q", section)
		}
	}
}

func TestDefaultNote_UsesMetadata(t *testing.T) {
	note := DefaultNote(model.PatientMetadata{Name: "Ada Park", EncounterDate: "03/05/2024", VisitType: "Follow-up"}, fixedNow)
	if !strings.Contains(note, "Patient: Ada Park\nDate: 2024-03-05\nVisit: Follow-up\n") {
		t.Errorf("unexpected header:\n%s", note)
	}
}

func TestEnhanced(t *testing.T) {
	in := "  chest pain for 2 days.\n\n\r\n  denies fever  \n1. follow up\n Élan noted"
	want := "Chest pain for 2 days.\nDenies fever\n1. follow up\nÉlan noted"
	if got := Enhanced(in); got != want {
		t.Errorf("Enhanced =\n%q\nwant\n%q", got, want)
	}
}

func TestEnhanced_Idempotent(t *testing.T) {
	inputs := []string{
		"",
		"\n\n",
		"a\nb\n c ",
		"ßtraße\n\tindented\tline",
		"already Tidy\nLines",
		"ǆemal", // titlecase digraph
	}
	for _, in := range inputs {
		once := Enhanced(in)
		if twice := Enhanced(once); twice != once {
			t.Errorf("not idempotent for %q: %q vs %q", in, once, twice)
		}
	}
}

func TestSummary(t *testing.T) {
	note := "l1\n\nl2\nl3\nl4\nl5\nl6\nl7\n"
	got := Summary(note, model.PatientMetadata{Name: "Ada"}, fixedNow)
	want := "Patient: Ada\nDate: 2025-02-14\n\n• l1\n• l2\n• l3\n• l4\n• l5\n• l6"
	if got != want {
		t.Errorf("Summary =\n%q\nwant\n%q", got, want)
	}
}

func TestSummary_Placeholder(t *testing.T) {
	got := Summary("  \n ", model.PatientMetadata{}, fixedNow)
	if !strings.HasSuffix(got, "• No documented findings") {
		t.Errorf("expected placeholder bullet, got %q", got)
	}
}
