package transform

import (
	"errors"
	"testing"
	"time"

	"github.com/gyeh/admitstats/internal/table"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// admissionsFixture builds a cleaned admissions table. Rows are given
// deliberately out of order to exercise the sort.
func admissionsFixture() *table.Table {
	t := table.New("id", "patient_id", "admission_date", "discharge_date", "admission_type", "discharge_disposition")
	// patient 2: single admission
	t.MustAppendRow(int64(3), int64(2), date(2023, 3, 10), date(2023, 3, 12), "scheduled", "home")
	// patient 1: readmitted 15 days after first discharge, then a late third visit
	t.MustAppendRow(int64(2), int64(1), date(2023, 1, 20), date(2023, 1, 25), "emergency", "home")
	t.MustAppendRow(int64(1), int64(1), date(2023, 1, 1), date(2023, 1, 5), "emergency", "home")
	t.MustAppendRow(int64(4), int64(1), date(2023, 6, 1), date(2023, 6, 3), "scheduled", "home")
	return t
}

func TestEngineerReadmissionFeatures_Sequence(t *testing.T) {
	tr := newTestTransformer()
	out, err := tr.EngineerReadmissionFeatures(admissionsFixture(), nil, nil, nil)
	if err != nil {
		t.Fatalf("EngineerReadmissionFeatures: %v", err)
	}
	if out.NumRows() != 4 {
		t.Fatalf("NumRows = %d, want 4", out.NumRows())
	}

	// Sorted by (patient_id, admission_date): rows 0..2 are patient 1.
	if v, _ := table.Time(out.Value(0, "admission_date")); !v.Equal(date(2023, 1, 1)) {
		t.Fatalf("row 0 admission_date = %v, sort broken", v)
	}

	// First admission: discharged Jan 5, next admit Jan 20 is 15 days later.
	if v, _ := table.Bool(out.Value(0, "readmission_status")); !v {
		t.Error("row 0 readmission_status = false, want true")
	}
	if v, _ := table.Int(out.Value(0, "days_to_readmission")); v != 15 {
		t.Errorf("row 0 days_to_readmission = %v, want 15", out.Value(0, "days_to_readmission"))
	}
	if v, _ := table.Int(out.Value(0, "prev_admissions_count")); v != 0 {
		t.Errorf("row 0 prev_admissions_count = %v, want 0", out.Value(0, "prev_admissions_count"))
	}
	if v := out.Value(0, "days_since_last_admission"); v != nil {
		t.Errorf("row 0 days_since_last_admission = %v, want nil", v)
	}

	// Second admission: next visit is 127 days after discharge, outside the window.
	if v, _ := table.Bool(out.Value(1, "readmission_status")); v {
		t.Error("row 1 readmission_status = true, want false")
	}
	if v, _ := table.Int(out.Value(1, "prev_admissions_count")); v != 1 {
		t.Errorf("row 1 prev_admissions_count = %v, want 1", out.Value(1, "prev_admissions_count"))
	}
	if v, _ := table.Int(out.Value(1, "days_since_last_admission")); v != 19 {
		t.Errorf("row 1 days_since_last_admission = %v, want 19", out.Value(1, "days_since_last_admission"))
	}

	// Last admission of patient 1 has no successor.
	if v := out.Value(2, "days_to_readmission"); v != nil {
		t.Errorf("row 2 days_to_readmission = %v, want nil", v)
	}

	// Patient 2's single admission restarts the run.
	if v, _ := table.Int(out.Value(3, "prev_admissions_count")); v != 0 {
		t.Errorf("row 3 prev_admissions_count = %v, want 0", out.Value(3, "prev_admissions_count"))
	}
	if v, _ := table.Bool(out.Value(3, "readmission_status")); v {
		t.Error("row 3 readmission_status = true, want false")
	}
}

func TestEngineerReadmissionFeatures_Calendar(t *testing.T) {
	tr := newTestTransformer()
	out, err := tr.EngineerReadmissionFeatures(admissionsFixture(), nil, nil, nil)
	if err != nil {
		t.Fatalf("EngineerReadmissionFeatures: %v", err)
	}

	// 2023-01-01 is a Sunday: Monday-based day 6, weekend.
	if v, _ := table.Int(out.Value(0, "admission_month")); v != 1 {
		t.Errorf("admission_month = %v, want 1", out.Value(0, "admission_month"))
	}
	if v, _ := table.Int(out.Value(0, "admission_dayofweek")); v != 6 {
		t.Errorf("admission_dayofweek = %v, want 6", out.Value(0, "admission_dayofweek"))
	}
	if v, _ := table.Bool(out.Value(0, "is_weekend")); !v {
		t.Error("is_weekend = false, want true")
	}

	// 2023-01-20 is a Friday: day 4, not weekend.
	if v, _ := table.Int(out.Value(1, "admission_dayofweek")); v != 4 {
		t.Errorf("admission_dayofweek = %v, want 4", out.Value(1, "admission_dayofweek"))
	}
	if v, _ := table.Bool(out.Value(1, "is_weekend")); v {
		t.Error("is_weekend = true, want false")
	}
}

func TestEngineerReadmissionFeatures_Merges(t *testing.T) {
	tr := newTestTransformer()

	patients := table.New("id", "first_name", "last_name", "date_of_birth", "gender", "insurance_provider", "phone")
	patients.MustAppendRow("1", "Jane", "Doe", "1980-06-01", "F", "Medicare", "5551234567")
	// patient 2 absent from the patient feed

	diagnoses := table.New("id", "patient_id", "icd_code")
	diagnoses.MustAppendRow("1", "1", "E11.9")
	diagnoses.MustAppendRow("2", "1", "I10")
	diagnoses.MustAppendRow("3", "1", "A41.9")
	diagnoses.MustAppendRow("4", "2", "J18.9")

	treatments := table.New("id", "admission_id")
	treatments.MustAppendRow(int64(1), int64(1))
	treatments.MustAppendRow(int64(2), int64(1))
	treatments.MustAppendRow(int64(3), int64(3))

	out, err := tr.EngineerReadmissionFeatures(admissionsFixture(), patients, diagnoses, treatments)
	if err != nil {
		t.Fatalf("EngineerReadmissionFeatures: %v", err)
	}

	// patient attributes merged onto every admission of patient 1
	if v, _ := table.String(out.Value(0, "gender")); v != "f" {
		t.Errorf("gender = %q, want f", v)
	}
	if v, _ := table.String(out.Value(0, "age_group")); v != "31-45" {
		t.Errorf("age_group = %q, want 31-45", v)
	}
	if v, _ := table.String(out.Value(1, "insurance_provider")); v != "Medicare" {
		t.Errorf("insurance_provider = %q", v)
	}
	// unmatched patient gets nulls
	if v := out.Value(3, "gender"); v != nil {
		t.Errorf("unmatched patient gender = %v, want nil", v)
	}

	// chronic counts: patient 1 has E11.9 and I10 (A41.9 is acute), patient 2 none
	if v, _ := table.Int(out.Value(0, "chronic_condition_count")); v != 2 {
		t.Errorf("chronic_condition_count = %v, want 2", out.Value(0, "chronic_condition_count"))
	}
	if v, _ := table.Int(out.Value(3, "chronic_condition_count")); v != 0 {
		t.Errorf("patient 2 chronic_condition_count = %v, want 0", out.Value(3, "chronic_condition_count"))
	}

	// treatment counts join on the admission id
	if v, _ := table.Int(out.Value(0, "treatment_count")); v != 2 {
		t.Errorf("treatment_count = %v, want 2", out.Value(0, "treatment_count"))
	}
	if v, _ := table.Int(out.Value(1, "treatment_count")); v != 0 {
		t.Errorf("treatment_count = %v, want 0", out.Value(1, "treatment_count"))
	}
	if v, _ := table.Int(out.Value(3, "treatment_count")); v != 1 {
		t.Errorf("treatment_count = %v, want 1", out.Value(3, "treatment_count"))
	}
}

func TestEngineerReadmissionFeatures_DropsIdentifiers(t *testing.T) {
	tr := newTestTransformer()
	patients := table.New("id", "first_name", "last_name", "address", "phone", "email", "insurance_policy_number", "gender")
	patients.MustAppendRow("1", "Jane", "Doe", "1 Main St", "5551234567", "j@x.org", "POL-1", "F")

	out, err := tr.EngineerReadmissionFeatures(admissionsFixture(), patients, nil, nil)
	if err != nil {
		t.Fatalf("EngineerReadmissionFeatures: %v", err)
	}
	for _, col := range []string{"first_name", "last_name", "address", "phone", "email", "insurance_policy_number"} {
		if out.HasColumn(col) {
			t.Errorf("identifying column %q survived into the feature table", col)
		}
	}
	if !out.HasColumn("gender") {
		t.Error("gender should survive")
	}
}

func TestEngineerReadmissionFeatures_EmptyAndMissing(t *testing.T) {
	tr := newTestTransformer()

	out, err := tr.EngineerReadmissionFeatures(table.New(), nil, nil, nil)
	if err != nil {
		t.Fatalf("empty input: %v", err)
	}
	if !out.Empty() {
		t.Error("empty input should produce an empty table")
	}

	out, err = tr.EngineerReadmissionFeatures(nil, nil, nil, nil)
	if err != nil || !out.Empty() {
		t.Errorf("nil input: out=%v err=%v", out, err)
	}

	bad := table.New("patient_id", "admission_date")
	bad.MustAppendRow(int64(1), date(2023, 1, 1))
	_, err = tr.EngineerReadmissionFeatures(bad, nil, nil, nil)
	var se *SchemaError
	if !errors.As(err, &se) {
		t.Fatalf("expected SchemaError, got %v", err)
	}
	if len(se.Missing) != 3 {
		t.Errorf("missing = %v, want 3 columns", se.Missing)
	}
}
