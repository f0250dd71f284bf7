package normalize

import (
	"testing"
	"time"
)

func TestParseDate_Formats(t *testing.T) {
	want := time.Date(2023, 1, 15, 0, 0, 0, 0, time.UTC)
	cases := []string{
		"2023-01-15",
		"01/15/2023",
		"1/15/2023",
		"2023/01/15",
		"January 15, 2023",
		"Jan 15, 2023",
		"  2023-01-15  ",
	}
	for _, in := range cases {
		got := ParseDate(in)
		if got == nil {
			t.Errorf("ParseDate(%q) = nil, want %v", in, want)
			continue
		}
		if !got.Equal(want) {
			t.Errorf("ParseDate(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestParseDate_Timestamp(t *testing.T) {
	got := ParseDate("2023-01-15 10:30:00")
	if got == nil {
		t.Fatal("ParseDate returned nil for timestamp")
	}
	want := time.Date(2023, 1, 15, 10, 30, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestParseDate_Invalid(t *testing.T) {
	for _, in := range []string{"", "   ", "not a date", "2023-13-45", "13/45/2023"} {
		if got := ParseDate(in); got != nil {
			t.Errorf("ParseDate(%q) = %v, want nil", in, got)
		}
	}
}

func TestFormatPhone(t *testing.T) {
	cases := []struct {
		in, want string
	}{
		{"5551234567", "(555) 123-4567"},
		{"555-123-4567", "(555) 123-4567"},
		{"(555) 123 4567", "(555) 123-4567"},
		{"15551234567", "(555) 123-4567"},
		{"+1 555 123 4567", "(555) 123-4567"},
		{"12345", "12345"},
		{"555123456789", "555123456789"},
		{"", ""},
		{"ext. 4567", "ext. 4567"},
	}
	for _, c := range cases {
		if got := FormatPhone(c.in); got != c.want {
			t.Errorf("FormatPhone(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestAdmissionType(t *testing.T) {
	cases := []struct {
		in, want string
	}{
		{"ER", "emergency"},
		{"em", "emergency"},
		{"Urgent", "emergency"},
		{"ELECTIVE", "scheduled"},
		{"  Emergency ", "emergency"},
		{"scheduled", "scheduled"},
		{"transfer", "transfer"},
	}
	for _, c := range cases {
		if got := AdmissionType(c.in); got != c.want {
			t.Errorf("AdmissionType(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestICDChapter(t *testing.T) {
	cases := []struct {
		code, want string
	}{
		{"A41.9", "Infectious and Parasitic Diseases"},
		{"B20", "Infectious and Parasitic Diseases"},
		{"C50.911", "Neoplasms"},
		{"D22.5", "Neoplasms"},
		{"D65", "Other"},
		{"E11.9", "Endocrine, Nutritional and Metabolic Diseases"},
		{"F32.9", "Mental and Behavioral Disorders"},
		{"G40", "Nervous System Diseases"},
		{"I10", "Circulatory System Diseases"},
		{"J44.9", "Respiratory Diseases"},
		{"K35.80", "Digestive System Diseases"},
		{"M54.5", "Other"},
		{"s72", "Other"},
		{"e78.5", "Endocrine, Nutritional and Metabolic Diseases"},
		{"", "unknown"},
		{"   ", "unknown"},
	}
	for _, c := range cases {
		if got := ICDChapter(c.code); got != c.want {
			t.Errorf("ICDChapter(%q) = %q, want %q", c.code, got, c.want)
		}
	}
}

func TestIsChronicCondition(t *testing.T) {
	chronic := []string{"E11.9", "e11.65", "I10", "I25.10", "E78.5", "E66.9", "J44.9", "N18.3", "F32.9"}
	for _, code := range chronic {
		if !IsChronicCondition(code) {
			t.Errorf("IsChronicCondition(%q) = false, want true", code)
		}
	}
	acute := []string{"A41.9", "J18.9", "E10.9", "I21.3", "", "F33.1"}
	for _, code := range acute {
		if IsChronicCondition(code) {
			t.Errorf("IsChronicCondition(%q) = true, want false", code)
		}
	}
}

func TestAge(t *testing.T) {
	ref := time.Date(2023, 6, 1, 0, 0, 0, 0, time.UTC)
	cases := []struct {
		dob  time.Time
		want int64
	}{
		{time.Date(1980, 6, 1, 0, 0, 0, 0, time.UTC), 43},
		{time.Date(2023, 6, 1, 0, 0, 0, 0, time.UTC), 0},
		{time.Date(2022, 6, 2, 0, 0, 0, 0, time.UTC), 0},
	}
	for _, c := range cases {
		if got := Age(c.dob, ref); got != c.want {
			t.Errorf("Age(%v) = %d, want %d", c.dob, got, c.want)
		}
	}
}

func TestAgeGroup_Boundaries(t *testing.T) {
	cases := []struct {
		age  int64
		want string
	}{
		{0, "0-18"},
		{18, "0-18"},
		{19, "19-30"},
		{30, "19-30"},
		{31, "31-45"},
		{45, "31-45"},
		{46, "46-60"},
		{60, "46-60"},
		{61, "61-75"},
		{75, "61-75"},
		{76, "76-90"},
		{90, "76-90"},
		{91, "90+"},
		{-1, ""},
		{130, ""},
	}
	for _, c := range cases {
		if got := AgeGroup(c.age); got != c.want {
			t.Errorf("AgeGroup(%d) = %q, want %q", c.age, got, c.want)
		}
	}
}
