package normalize

import (
	"regexp"
	"strings"
)

var numericProcedureCode = regexp.MustCompile(`^\d{4,5}$`)

// IsNumericProcedureCode reports whether code is a bare 4–5 digit code, the
// shape of CPT and CDT procedure codes. Surrounding whitespace is ignored.
func IsNumericProcedureCode(code string) bool {
	return numericProcedureCode.MatchString(strings.TrimSpace(code))
}

// NormalizeCode trims whitespace from a code. Returns "" if nothing remains.
// Case and punctuation are kept: "I25.10" and "i25.10" are different identifiers
// to downstream billing systems.
func NormalizeCode(code string) string {
	return strings.TrimSpace(code)
}
