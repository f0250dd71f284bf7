package model

import (
	"time"

	"github.com/gyeh/admitstats/internal/table"
)

// FeatureRowsFromTable converts the engineered feature table into typed
// rows for the parquet and COPY sinks. Rows missing the (patient_id,
// admission_date) identity are dropped; the count of dropped rows is
// returned alongside.
func FeatureRowsFromTable(t *table.Table) ([]FeatureRow, int) {
	rows := make([]FeatureRow, 0, t.NumRows())
	dropped := 0
	for i := 0; i < t.NumRows(); i++ {
		pid, pok := table.Int(t.Value(i, "patient_id"))
		date, dok := table.Time(t.Value(i, "admission_date"))
		if !pok || !dok {
			dropped++
			continue
		}
		r := FeatureRow{
			PatientID:     pid,
			AdmissionDate: date,

			DischargeDate:        timePtr(t.Value(i, "discharge_date")),
			AdmissionType:        strPtr(t.Value(i, "admission_type")),
			DischargeDisposition: strPtr(t.Value(i, "discharge_disposition")),

			LengthOfStay:      intPtr(t.Value(i, "length_of_stay")),
			DaysToReadmission: intPtr(t.Value(i, "days_to_readmission")),

			DaysSinceLastAdmission: intPtr(t.Value(i, "days_since_last_admission")),

			Gender:            strPtr(t.Value(i, "gender")),
			Age:               intPtr(t.Value(i, "age")),
			AgeGroup:          strPtr(t.Value(i, "age_group")),
			InsuranceProvider: strPtr(t.Value(i, "insurance_provider")),
		}
		r.ReadmissionStatus, _ = table.Bool(t.Value(i, "readmission_status"))
		r.PrevAdmissionsCount, _ = table.Int(t.Value(i, "prev_admissions_count"))
		r.AdmissionMonth, _ = table.Int(t.Value(i, "admission_month"))
		r.AdmissionDayOfWeek, _ = table.Int(t.Value(i, "admission_dayofweek"))
		r.IsWeekend, _ = table.Bool(t.Value(i, "is_weekend"))
		r.ChronicConditionCount, _ = table.Int(t.Value(i, "chronic_condition_count"))
		r.TreatmentCount, _ = table.Int(t.Value(i, "treatment_count"))
		rows = append(rows, r)
	}
	return rows, dropped
}

// ReadmissionRowsFromTable converts a windowed readmission table (from the
// source-side query or the in-memory recompute) into typed rows. Rows
// without the required identity or discharge date are dropped.
func ReadmissionRowsFromTable(t *table.Table) ([]ReadmissionRow, int) {
	rows := make([]ReadmissionRow, 0, t.NumRows())
	dropped := 0
	for i := 0; i < t.NumRows(); i++ {
		pid, pok := table.Int(t.Value(i, "patient_id"))
		adm, aok := table.Time(t.Value(i, "admission_date"))
		dis, dok := table.Time(t.Value(i, "discharge_date"))
		if !pok || !aok || !dok {
			dropped++
			continue
		}
		r := ReadmissionRow{
			PatientID:            pid,
			AdmissionDate:        adm,
			DischargeDate:        dis,
			NextAdmissionDate:    timePtr(t.Value(i, "next_admission_date")),
			DischargeDisposition: strPtr(t.Value(i, "discharge_disposition")),
			Gender:               strPtr(t.Value(i, "gender")),
			DaysToReadmission:    intPtr(t.Value(i, "days_to_readmission")),
		}
		r.WasReadmitted, _ = table.Bool(t.Value(i, "was_readmitted"))
		rows = append(rows, r)
	}
	return rows, dropped
}

// FeatureTable rebuilds an in-memory table from typed feature rows, the
// inverse of FeatureRowsFromTable. The run_id column is omitted; it tags
// sink rows and is not a feature. Optional fields become null cells.
func FeatureTable(rows []FeatureRow) *table.Table {
	t := table.New(FeatureColumns()[1:]...)
	for i := range rows {
		r := &rows[i]
		t.MustAppendRow(
			r.PatientID,
			r.AdmissionDate,
			cell(r.DischargeDate),
			cell(r.AdmissionType),
			cell(r.DischargeDisposition),
			cell(r.LengthOfStay),
			r.ReadmissionStatus,
			cell(r.DaysToReadmission),
			r.PrevAdmissionsCount,
			cell(r.DaysSinceLastAdmission),
			r.AdmissionMonth,
			r.AdmissionDayOfWeek,
			r.IsWeekend,
			cell(r.Gender),
			cell(r.Age),
			cell(r.AgeGroup),
			cell(r.InsuranceProvider),
			r.ChronicConditionCount,
			r.TreatmentCount,
		)
	}
	return t
}

// cell dereferences an optional field into a table cell, null when unset.
func cell[T any](p *T) any {
	if p == nil {
		return nil
	}
	return *p
}

func strPtr(v any) *string {
	if s, ok := table.String(v); ok {
		return &s
	}
	return nil
}

func intPtr(v any) *int64 {
	if n, ok := table.Int(v); ok {
		return &n
	}
	return nil
}

func timePtr(v any) *time.Time {
	if t, ok := table.Time(v); ok {
		return &t
	}
	return nil
}
