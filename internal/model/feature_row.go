package model

import (
	"time"

	"github.com/google/uuid"
)

// FeatureRow mirrors the readmission feature table: one row per admission,
// with the derived covariates and merged patient attributes. Direct
// identifiers (names, address, phone, email, policy number) never appear
// here. Parquet tags define the columnar output schema.
type FeatureRow struct {
	// RunID tags the pipeline run that produced the row. Sink-only; not
	// part of the columnar output.
	RunID uuid.UUID `parquet:"-"`

	PatientID     int64      `parquet:"patient_id"`
	AdmissionDate time.Time  `parquet:"admission_date"`
	DischargeDate *time.Time `parquet:"discharge_date,optional"`

	AdmissionType        *string `parquet:"admission_type,optional"`
	DischargeDisposition *string `parquet:"discharge_disposition,optional"`

	LengthOfStay      *int64 `parquet:"length_of_stay,optional"`
	ReadmissionStatus bool   `parquet:"readmission_status"`
	DaysToReadmission *int64 `parquet:"days_to_readmission,optional"`

	PrevAdmissionsCount    int64  `parquet:"prev_admissions_count"`
	DaysSinceLastAdmission *int64 `parquet:"days_since_last_admission,optional"`

	AdmissionMonth     int64 `parquet:"admission_month"`
	AdmissionDayOfWeek int64 `parquet:"admission_dayofweek"`
	IsWeekend          bool  `parquet:"is_weekend"`

	Gender            *string `parquet:"gender,optional"`
	Age               *int64  `parquet:"age,optional"`
	AgeGroup          *string `parquet:"age_group,optional"`
	InsuranceProvider *string `parquet:"insurance_provider,optional"`

	ChronicConditionCount int64 `parquet:"chronic_condition_count"`
	TreatmentCount        int64 `parquet:"treatment_count"`
}

// FeatureColumns returns the feature table column names in schema order,
// shared by the CSV sink, the parquet sink, and the COPY bulk load.
func FeatureColumns() []string {
	return []string{
		"run_id",
		"patient_id",
		"admission_date",
		"discharge_date",
		"admission_type",
		"discharge_disposition",
		"length_of_stay",
		"readmission_status",
		"days_to_readmission",
		"prev_admissions_count",
		"days_since_last_admission",
		"admission_month",
		"admission_dayofweek",
		"is_weekend",
		"gender",
		"age",
		"age_group",
		"insurance_provider",
		"chronic_condition_count",
		"treatment_count",
	}
}

// CopyValues returns the row values in FeatureColumns order for pgx COPY.
func (r *FeatureRow) CopyValues() []any {
	return []any{
		r.RunID,
		r.PatientID,
		r.AdmissionDate,
		r.DischargeDate,
		r.AdmissionType,
		r.DischargeDisposition,
		r.LengthOfStay,
		r.ReadmissionStatus,
		r.DaysToReadmission,
		r.PrevAdmissionsCount,
		r.DaysSinceLastAdmission,
		r.AdmissionMonth,
		r.AdmissionDayOfWeek,
		r.IsWeekend,
		r.Gender,
		r.Age,
		r.AgeGroup,
		r.InsuranceProvider,
		r.ChronicConditionCount,
		r.TreatmentCount,
	}
}

// ReadmissionRow is one row of the windowed readmission analysis: each
// admission joined to its immediate chronological successor per patient.
type ReadmissionRow struct {
	// RunID tags the pipeline run that produced the row. Sink-only.
	RunID uuid.UUID `parquet:"-"`

	PatientID            int64      `parquet:"patient_id"`
	AdmissionDate        time.Time  `parquet:"admission_date"`
	DischargeDate        time.Time  `parquet:"discharge_date"`
	NextAdmissionDate    *time.Time `parquet:"next_admission_date,optional"`
	DischargeDisposition *string    `parquet:"discharge_disposition,optional"`
	Gender               *string    `parquet:"gender,optional"`
	WasReadmitted        bool       `parquet:"was_readmitted"`
	DaysToReadmission    *int64     `parquet:"days_to_readmission,optional"`
}

// ReadmissionColumns returns the analysis table column names in schema order.
func ReadmissionColumns() []string {
	return []string{
		"run_id",
		"patient_id",
		"admission_date",
		"discharge_date",
		"next_admission_date",
		"discharge_disposition",
		"gender",
		"was_readmitted",
		"days_to_readmission",
	}
}

// CopyValues returns the row values in ReadmissionColumns order for pgx COPY.
func (r *ReadmissionRow) CopyValues() []any {
	return []any{
		r.RunID,
		r.PatientID,
		r.AdmissionDate,
		r.DischargeDate,
		r.NextAdmissionDate,
		r.DischargeDisposition,
		r.Gender,
		r.WasReadmitted,
		r.DaysToReadmission,
	}
}
