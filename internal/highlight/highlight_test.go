package highlight

import (
	"testing"

	"github.com/gyeh/notewizard/internal/model"
)

func TestCompute_CaseInsensitive(t *testing.T) {
	item := &model.NormalizedCodeItem{Evidence: []string{"chest pain"}}
	got := Compute("Chest pain for 2 days.", item, true)
	if len(got) != 1 {
		t.Fatalf("expected 1 range, got %d", len(got))
	}
	r := got[0]
	if r.Start != 0 || r.End != 10 {
		t.Errorf("range = [%d,%d), want [0,10)", r.Start, r.End)
	}
	if r.ClassName != "evidence-highlight-0" || r.Label != "Evidence 1" || r.Text != "Chest pain" {
		t.Errorf("unexpected range: %+v", r)
	}
}

func TestCompute_Gated(t *testing.T) {
	item := &model.NormalizedCodeItem{Evidence: []string{"pain"}}
	if got := Compute("pain", item, false); len(got) != 0 {
		t.Errorf("hidden evidence produced %d ranges", len(got))
	}
	if got := Compute("pain", nil, true); len(got) != 0 {
		t.Errorf("no selection produced %d ranges", len(got))
	}
}

func TestCompute_SkipsAndBuckets(t *testing.T) {
	note := "Denies fever. Reports cough and fatigue. Cough worse at night."
	item := &model.NormalizedCodeItem{Evidence: []string{
		"cough", "wheezing", "fatigue", "denies fever", "COUGH worse",
	}}
	got := Compute(note, item, true)
	if len(got) != 4 {
		t.Fatalf("expected 4 ranges, got %d: %+v", len(got), got)
	}
	want := []struct {
		start int
		class string
		label string
	}{
		{22, "evidence-highlight-0", "Evidence 1"},
		{32, "evidence-highlight-2", "Evidence 3"},
		{0, "evidence-highlight-0", "Evidence 4"},
		{41, "evidence-highlight-1", "Evidence 5"},
	}
	for i, w := range want {
		if got[i].Start != w.start || got[i].ClassName != w.class || got[i].Label != w.label {
			t.Errorf("range %d = %+v, want start %d %s %s", i, got[i], w.start, w.class, w.label)
		}
	}
}

func TestIndexFold_Unicode(t *testing.T) {
	s := "Patient reports ÉDÈME of ankles"
	start, end, ok := IndexFold(s, "édème")
	if !ok {
		t.Fatal("expected match")
	}
	if s[start:end] != "ÉDÈME" {
		t.Errorf("matched %q", s[start:end])
	}
	if _, _, ok := IndexFold(s, "missing"); ok {
		t.Error("unexpected match")
	}
}
