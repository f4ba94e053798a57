// mkfixture writes a representative session document for exercising the wizard.
// Items cycle through every supported code type, classification and status.
// Usage: go run ./cmd/mkfixture --out testdata/session.json --selected 6 --suggested 4
//
//	go run ./cmd/mkfixture --check --out testdata/session.json
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"github.com/gyeh/notewizard/internal/model"
	"github.com/gyeh/notewizard/internal/normalize"
	"github.com/gyeh/notewizard/internal/questions"
	"github.com/gyeh/notewizard/internal/wizard"
)

type fixtureItem struct {
	ID             int      `json:"id"`
	Code           string   `json:"code"`
	Title          string   `json:"title"`
	Status         string   `json:"status"`
	CodeType       string   `json:"codeType"`
	Confidence     float64  `json:"confidence"`
	Evidence       []string `json:"evidence"`
	Gaps           []string `json:"gaps,omitempty"`
	Classification []string `json:"classification"`
	Reimbursement  *float64 `json:"reimbursement,omitempty"`
	RVU            *float64 `json:"rvu,omitempty"`
}

type fixtureCompliance struct {
	ID     int    `json:"id"`
	Title  string `json:"title"`
	Status string `json:"status"`
}

type fixture struct {
	Selected   []fixtureItem         `json:"selected"`
	Suggested  []fixtureItem         `json:"suggested"`
	Compliance []fixtureCompliance   `json:"compliance"`
	Note       string                `json:"note"`
	Patient    model.PatientMetadata `json:"patient"`
}

// seed codes per code type; a fixture item takes the entry at its index.
var seeds = map[string][]struct{ code, title, evidence string }{
	"CPT":        {{"99213", "Office visit, established patient", "follow-up visit"}, {"93000", "Electrocardiogram", "ECG performed"}},
	"HCPCS":      {{"G0438", "Annual wellness visit", "annual wellness"}},
	"CDT":        {{"D0120", "Periodic oral evaluation", "oral exam"}},
	"ICD-10-PCS": {{"0DJ08ZZ", "Inspection of upper intestinal tract", "endoscopy"}},
	"ICD-10":     {{"I10", "Essential hypertension", "blood pressure"}, {"F17.210", "Nicotine dependence, cigarettes", "smokes"}},
	"ICD-10-CM":  {{"E11.9", "Type 2 diabetes mellitus", "A1c"}},
	"SNOMED":     {{"38341003", "Hypertensive disorder", "hypertension"}},
}

var classifications = [][]string{{"code"}, {"diagnosis"}, {"prevention"}, {"differential"}, {"diagnosis", "code"}}

var gapSamples = []string{
	"Smoking status not documented",
	"Duration of symptoms unclear",
	"Laterality not specified",
}

const sampleNote = "Patient seen for follow-up visit. Blood pressure remains elevated; hypertension " +
	"discussed. Patient smokes half a pack per day. A1c reviewed. ECG performed, " +
	"annual wellness items addressed and oral exam deferred. Prior endoscopy normal."

func main() {
	out := flag.String("out", "testdata/session.json", "output session JSON")
	nSelected := flag.Int("selected", 6, "number of selected items")
	nSuggested := flag.Int("suggested", 4, "number of suggested items")
	checkOnly := flag.Bool("check", false, "only print normalized stats of --out, don't write")
	flag.Parse()

	if *checkOnly {
		if err := check(*out); err != nil {
			fmt.Fprintf(os.Stderr, "check: %v\n", err)
			os.Exit(1)
		}
		return
	}

	fx := fixture{
		Selected:  items(1, *nSelected),
		Suggested: items(*nSelected+1, *nSuggested),
		Compliance: []fixtureCompliance{
			{ID: 1, Title: "Medical necessity documented", Status: "confirmed"},
			{ID: 2, Title: "Time statement missing", Status: "pending"},
		},
		Note: sampleNote,
		Patient: model.PatientMetadata{
			Name:          "Fixture Patient",
			PatientID:     "MRN-0001",
			EncounterDate: "2024-03-05",
			Provider:      "Dr. Fixture",
			VisitType:     "follow-up",
		},
	}

	data, err := json.MarshalIndent(fx, "", "  ")
	if err != nil {
		fmt.Fprintf(os.Stderr, "encode: %v\n", err)
		os.Exit(1)
	}
	if err := os.MkdirAll(filepath.Dir(*out), 0o755); err != nil {
		fmt.Fprintf(os.Stderr, "create output dir: %v\n", err)
		os.Exit(1)
	}
	if err := os.WriteFile(*out, append(data, '\n'), 0o644); err != nil {
		fmt.Fprintf(os.Stderr, "write output: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Wrote %d selected, %d suggested items to %s\n", len(fx.Selected), len(fx.Suggested), *out)

	if err := check(*out); err != nil {
		fmt.Fprintf(os.Stderr, "check: %v\n", err)
		os.Exit(1)
	}
}

// items builds n fixture items with ids starting at first.
func items(first, n int) []fixtureItem {
	types := model.CodeTypeNames()
	statuses := []string{"confirmed", "pending", "in-progress", "completed"}
	out := make([]fixtureItem, 0, n)
	for i := 0; i < n; i++ {
		id := first + i
		ct := types[id%len(types)]
		s := seeds[ct][id%len(seeds[ct])]
		it := fixtureItem{
			ID:             id,
			Code:           s.code,
			Title:          s.title,
			Status:         statuses[id%len(statuses)],
			CodeType:       ct,
			Confidence:     float64(50+(id*7)%50) / 100,
			Evidence:       []string{s.evidence},
			Classification: classifications[id%len(classifications)],
		}
		if id%2 == 0 {
			it.Gaps = []string{gapSamples[id%len(gapSamples)]}
		}
		if model.IsProcedureType(ct) {
			dollars := float64(40 + id*15)
			rvu := float64(id) * 0.75
			it.Reimbursement = &dollars
			it.RVU = &rvu
		}
		out = append(out, it)
	}
	return out
}

// check decodes the session the way the wizard does and prints distributions.
func check(path string) error {
	in, err := wizard.LoadInput(path)
	if err != nil {
		return err
	}
	selected := normalize.NormalizeItems(in.Selected)
	suggested := normalize.NormalizeItems(in.Suggested)
	all := append(append([]model.NormalizedCodeItem{}, selected...), suggested...)

	typeCounts := make(map[string]int)
	classCounts := make(map[model.Classification]int)
	for _, it := range all {
		typeCounts[it.CodeType]++
		for _, c := range it.Classifications.Slice() {
			classCounts[c]++
		}
	}

	fmt.Printf("Items: %d selected, %d suggested\n", len(selected), len(suggested))
	fmt.Println("Code type distribution:")
	for _, ct := range model.AllCodeTypes {
		if c := typeCounts[ct.Name]; c > 0 {
			fmt.Printf("  %-10s %d\n", ct.Name, c)
		}
	}
	fmt.Println("Classification distribution:")
	for _, c := range model.AllClassifications {
		fmt.Printf("  %-12s %d\n", c, classCounts[c])
	}
	fmt.Printf("Questions: %d\n", len(questions.Synthesize(selected, suggested)))
	return nil
}
