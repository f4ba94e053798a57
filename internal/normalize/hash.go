package normalize

import (
	"crypto/sha256"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/gyeh/notewizard/internal/model"
)

// FileHash computes the hex-encoded SHA-256 of the file at path.
func FileHash(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("open file for hash: %w", err)
	}
	defer f.Close()

	h := sha256.New()
	if _, err := io.Copy(h, f); err != nil {
		return "", fmt.Errorf("hash file: %w", err)
	}
	return fmt.Sprintf("%x", h.Sum(nil)), nil
}

// RequestHash computes a stable SHA-256 over the clinical content of a finalize
// request: trimmed note text, patient id, encounter date and every code set.
// Set members are sorted so item order does not change the digest; the request
// id is excluded so a retried request hashes the same.
func RequestHash(req *model.FinalizeRequest) []byte {
	h := sha256.New()
	write := func(label string, values ...string) {
		h.Write([]byte(label))
		h.Write([]byte{0})
		for _, v := range values {
			h.Write([]byte(strings.TrimSpace(v)))
			h.Write([]byte{0})
		}
	}
	sorted := func(in []string) []string {
		out := append([]string(nil), in...)
		sort.Strings(out)
		return out
	}

	write("content", req.Content)
	write("patient", req.Patient.PatientID, req.Patient.EncounterDate)
	write("code", sorted(req.Codes.Code)...)
	write("prevention", sorted(req.Codes.Prevention)...)
	write("diagnosis", sorted(req.Codes.Diagnosis)...)
	write("differential", sorted(req.Codes.Differential)...)
	write("compliance", sorted(req.Compliance)...)
	return h.Sum(nil)
}
