package normalize

import "strings"

// NormalizeCode trims whitespace and uppercases an ICD or CPT code.
// Returns "" for empty input.
func NormalizeCode(s string) string {
	return strings.ToUpper(strings.TrimSpace(s))
}

// icdChapters maps ICD code prefixes to chapter names, checked in order.
// First match wins, so narrower prefixes must precede wider ones.
var icdChapters = []struct {
	prefixes []string
	chapter  string
}{
	{[]string{"A", "B"}, "Infectious and Parasitic Diseases"},
	{[]string{"C", "D0", "D1", "D2", "D3", "D4"}, "Neoplasms"},
	{[]string{"E"}, "Endocrine, Nutritional and Metabolic Diseases"},
	{[]string{"F"}, "Mental and Behavioral Disorders"},
	{[]string{"G"}, "Nervous System Diseases"},
	{[]string{"I"}, "Circulatory System Diseases"},
	{[]string{"J"}, "Respiratory Diseases"},
	{[]string{"K"}, "Digestive System Diseases"},
}

// ICDChapter maps an ICD code to its chapter by prefix. Unmapped codes fall
// into "Other"; an empty code is "unknown".
func ICDChapter(code string) string {
	code = NormalizeCode(code)
	if code == "" {
		return "unknown"
	}
	for _, c := range icdChapters {
		for _, p := range c.prefixes {
			if strings.HasPrefix(code, p) {
				return c.chapter
			}
		}
	}
	return "Other"
}

// ChronicConditionPrefixes is the fixed set of ICD code prefixes treated as
// indicating a chronic condition for feature engineering.
var ChronicConditionPrefixes = []string{"E11", "I10", "I25", "E78", "E66", "J44", "N18", "F32"}

// IsChronicCondition reports whether an ICD code matches the chronic
// condition prefix set.
func IsChronicCondition(code string) bool {
	code = NormalizeCode(code)
	for _, p := range ChronicConditionPrefixes {
		if strings.HasPrefix(code, p) {
			return true
		}
	}
	return false
}
