package normalize

import (
	"regexp"
	"strings"
)

var multiSpace = regexp.MustCompile(`\s+`)

// TrimText trims whitespace and collapses internal runs of spaces.
func TrimText(s string) string {
	s = strings.TrimSpace(s)
	return multiSpace.ReplaceAllString(s, " ")
}

// LowerText trims, collapses whitespace, and lowercases. Used for
// categorical codes, e-mail addresses, and other case-insensitive fields.
func LowerText(s string) string {
	return strings.ToLower(TrimText(s))
}

// admissionTypeSynonyms normalizes admission_type values to the fixed
// vocabulary {emergency, scheduled}. "urgent" folds into "emergency" even
// though some feeds carry it as a distinct category; see DESIGN.md.
var admissionTypeSynonyms = map[string]string{
	"er":       "emergency",
	"em":       "emergency",
	"elective": "scheduled",
	"urgent":   "emergency",
}

// AdmissionType lowercases and maps an admission type through the synonym
// table. Values with no synonym pass through lowercased.
func AdmissionType(s string) string {
	v := LowerText(s)
	if mapped, ok := admissionTypeSynonyms[v]; ok {
		return mapped
	}
	return v
}
