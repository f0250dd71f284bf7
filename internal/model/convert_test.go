package model

import (
	"testing"
	"time"

	"github.com/gyeh/admitstats/internal/table"
)

func featureFixture() *table.Table {
	t := table.New(FeatureColumns()[1:]...)
	t.MustAppendRow(
		int64(1), time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2023, 1, 5, 0, 0, 0, 0, time.UTC),
		"emergency", "home",
		int64(5), true, int64(15),
		int64(0), nil,
		int64(1), int64(6), true,
		"f", int64(43), "31-45", "Medicare",
		int64(2), int64(1),
	)
	// identity incomplete: no admission_date
	t.MustAppendRow(
		int64(2), nil, nil, nil, nil,
		nil, false, nil,
		int64(0), nil,
		int64(0), int64(0), false,
		nil, nil, nil, nil,
		int64(0), int64(0),
	)
	return t
}

func TestFeatureRowsFromTable(t *testing.T) {
	rows, dropped := FeatureRowsFromTable(featureFixture())
	if dropped != 1 {
		t.Errorf("dropped = %d, want 1", dropped)
	}
	if len(rows) != 1 {
		t.Fatalf("rows = %d, want 1", len(rows))
	}

	r := rows[0]
	if r.PatientID != 1 || !r.ReadmissionStatus {
		t.Errorf("row = %+v", r)
	}
	if r.LengthOfStay == nil || *r.LengthOfStay != 5 {
		t.Errorf("LengthOfStay = %v", r.LengthOfStay)
	}
	if r.DaysSinceLastAdmission != nil {
		t.Errorf("DaysSinceLastAdmission = %v, want nil", r.DaysSinceLastAdmission)
	}
	if r.AgeGroup == nil || *r.AgeGroup != "31-45" {
		t.Errorf("AgeGroup = %v", r.AgeGroup)
	}
}

func TestFeatureTable_RoundTrip(t *testing.T) {
	rows, _ := FeatureRowsFromTable(featureFixture())
	back := FeatureTable(rows)

	if back.NumRows() != 1 {
		t.Fatalf("NumRows = %d, want 1", back.NumRows())
	}
	if back.HasColumn("run_id") {
		t.Error("run_id must not appear in the feature table")
	}
	if v, _ := table.Int(back.Value(0, "length_of_stay")); v != 5 {
		t.Errorf("length_of_stay = %v", back.Value(0, "length_of_stay"))
	}
	if v, _ := table.String(back.Value(0, "gender")); v != "f" {
		t.Errorf("gender = %v", back.Value(0, "gender"))
	}
	if v := back.Value(0, "days_since_last_admission"); v != nil {
		t.Errorf("days_since_last_admission = %v, want nil", v)
	}
}

func TestReadmissionRowsFromTable(t *testing.T) {
	in := table.New("patient_id", "admission_date", "discharge_date", "next_admission_date",
		"discharge_disposition", "gender", "was_readmitted", "days_to_readmission")
	in.MustAppendRow(int64(1),
		time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2023, 1, 5, 0, 0, 0, 0, time.UTC),
		time.Date(2023, 1, 20, 0, 0, 0, 0, time.UTC),
		"home", "f", true, int64(15))
	// open admission: no discharge, dropped
	in.MustAppendRow(int64(1),
		time.Date(2023, 6, 1, 0, 0, 0, 0, time.UTC),
		nil, nil, nil, nil, false, nil)

	rows, dropped := ReadmissionRowsFromTable(in)
	if dropped != 1 {
		t.Errorf("dropped = %d, want 1", dropped)
	}
	if len(rows) != 1 {
		t.Fatalf("rows = %d, want 1", len(rows))
	}
	if !rows[0].WasReadmitted || rows[0].DaysToReadmission == nil || *rows[0].DaysToReadmission != 15 {
		t.Errorf("row = %+v", rows[0])
	}
}
