package transform

import (
	"github.com/gyeh/admitstats/internal/normalize"
	"github.com/gyeh/admitstats/internal/table"
)

// requiredAdmissionColumns must be present before feature derivation.
var requiredAdmissionColumns = []string{
	"patient_id", "admission_date", "discharge_date",
	"admission_type", "discharge_disposition",
}

// identifyingColumns never survive into the feature table.
var identifyingColumns = []string{
	"first_name", "last_name", "address", "phone", "email", "insurance_policy_number",
}

// EngineerReadmissionFeatures builds the readmission feature table: one row
// per admission, augmented with sequence-derived covariates, merged patient
// attributes, chronic-condition and treatment counts. The admission ordering
// by (patient_id, admission_date) is load-bearing for every sequence-derived
// column. Patient and diagnosis inputs are cleaned here; admissions and
// treatments are expected cleaned (dates parsed, ids numeric).
func (tr *Transformer) EngineerReadmissionFeatures(admissions, patients, diagnoses, treatments *table.Table) (*table.Table, error) {
	if admissions == nil || admissions.Empty() {
		return table.New(), nil
	}
	if missing := admissions.MissingColumns(requiredAdmissionColumns...); len(missing) > 0 {
		return nil, &SchemaError{Entity: "admission", Missing: missing}
	}

	adm, err := admissions.SortBy("patient_id", "admission_date")
	if err != nil {
		return nil, err
	}

	tr.deriveSequenceFeatures(adm)
	deriveCalendarFeatures(adm)

	adm, err = tr.mergePatients(adm, patients)
	if err != nil {
		return nil, err
	}
	adm, err = tr.mergeChronicCounts(adm, diagnoses)
	if err != nil {
		return nil, err
	}
	adm, err = mergeTreatmentCounts(adm, treatments)
	if err != nil {
		return nil, err
	}

	return adm.Drop(identifyingColumns...), nil
}

// deriveSequenceFeatures walks the sorted admissions once per patient run,
// deriving prev_admissions_count, days_since_last_admission,
// readmission_status, days_to_readmission, and length_of_stay if absent.
func (tr *Transformer) deriveSequenceFeatures(adm *table.Table) {
	ensureColumn(adm, "prev_admissions_count")
	ensureColumn(adm, "days_since_last_admission")
	ensureColumn(adm, "readmission_status")
	ensureColumn(adm, "days_to_readmission")
	ensureColumn(adm, "length_of_stay")

	var (
		prevPatient any
		prevDate    any
		runCount    int64
	)
	for i := 0; i < adm.NumRows(); i++ {
		patient := adm.Value(i, "patient_id")
		date := adm.Value(i, "admission_date")

		samePatient := i > 0 && table.Compare(patient, prevPatient) == 0
		if !samePatient {
			runCount = 0
		}
		adm.Set(i, "prev_admissions_count", runCount)
		runCount++

		// Gap from the previous admission of the same patient.
		if samePatient {
			if prev, ok := table.Time(prevDate); ok {
				if cur, ok := table.Time(date); ok {
					adm.Set(i, "days_since_last_admission", normalize.DaysBetween(prev, cur))
				}
			}
		} else {
			adm.Set(i, "days_since_last_admission", nil)
		}

		if adm.Value(i, "length_of_stay") == nil {
			adm.Set(i, "length_of_stay", lengthOfStay(date, adm.Value(i, "discharge_date")))
		}

		// Readmission: next admission of the same patient within the window
		// of this row's discharge. Open admissions never count as readmitted.
		adm.Set(i, "readmission_status", false)
		adm.Set(i, "days_to_readmission", nil)
		if i+1 < adm.NumRows() && table.Compare(adm.Value(i+1, "patient_id"), patient) == 0 {
			discharge, dok := table.Time(adm.Value(i, "discharge_date"))
			next, nok := table.Time(adm.Value(i+1, "admission_date"))
			if dok && nok {
				days := normalize.DaysBetween(discharge, next)
				adm.Set(i, "days_to_readmission", days)
				if days <= int64(tr.WindowDays) {
					adm.Set(i, "readmission_status", true)
				}
			}
		}

		prevPatient = patient
		prevDate = date
	}
}

// deriveCalendarFeatures adds admission seasonality columns. Day-of-week is
// Monday-based (0..6), so 5 and 6 mark the weekend.
func deriveCalendarFeatures(adm *table.Table) {
	ensureColumn(adm, "admission_month")
	ensureColumn(adm, "admission_dayofweek")
	ensureColumn(adm, "is_weekend")

	for i := 0; i < adm.NumRows(); i++ {
		d, ok := table.Time(adm.Value(i, "admission_date"))
		if !ok {
			continue
		}
		dow := (int64(d.Weekday()) + 6) % 7
		adm.Set(i, "admission_month", int64(d.Month()))
		adm.Set(i, "admission_dayofweek", dow)
		adm.Set(i, "is_weekend", dow >= 5)
	}
}

// mergePatients left-joins cleaned patient attributes onto the admissions.
// Unmatched patients keep the admission row with null patient fields.
func (tr *Transformer) mergePatients(adm, patients *table.Table) (*table.Table, error) {
	if patients == nil || patients.Empty() {
		return adm, nil
	}
	pt := tr.CleanPatients(patients)
	if !pt.HasColumn("patient_id") {
		if !pt.HasColumn("id") {
			return adm, nil
		}
		if err := pt.Rename("id", "patient_id"); err != nil {
			return nil, err
		}
	}
	return adm.LeftJoin(pt, "patient_id")
}

// mergeChronicCounts counts, per patient, diagnoses whose ICD code matches
// the chronic-condition prefix set, then joins the counts on. Patients with
// no chronic diagnoses get 0.
func (tr *Transformer) mergeChronicCounts(adm, diagnoses *table.Table) (*table.Table, error) {
	if diagnoses == nil || diagnoses.Empty() ||
		!diagnoses.HasColumn("patient_id") || !diagnoses.HasColumn("icd_code") {
		ensureColumn(adm, "chronic_condition_count")
		fillNulls(adm, "chronic_condition_count", int64(0))
		return adm, nil
	}

	dg := tr.CleanDiagnoses(diagnoses)
	chronic := table.New("patient_id")
	for i := 0; i < dg.NumRows(); i++ {
		code, _ := table.String(dg.Value(i, "icd_code"))
		if normalize.IsChronicCondition(code) {
			chronic.MustAppendRow(dg.Value(i, "patient_id"))
		}
	}

	counts, err := chronic.CountBy("patient_id", "chronic_condition_count")
	if err != nil {
		return nil, err
	}
	out, err := adm.LeftJoin(counts, "patient_id")
	if err != nil {
		return nil, err
	}
	fillNulls(out, "chronic_condition_count", int64(0))
	return out, nil
}

// mergeTreatmentCounts joins the number of treatment rows per admission onto
// the admissions. Admissions without treatments get 0.
func mergeTreatmentCounts(adm, treatments *table.Table) (*table.Table, error) {
	joinKey := ""
	switch {
	case adm.HasColumn("admission_id"):
		joinKey = "admission_id"
	case adm.HasColumn("id"):
		joinKey = "id"
	}

	if treatments == nil || treatments.Empty() || joinKey == "" || !treatments.HasColumn("admission_id") {
		ensureColumn(adm, "treatment_count")
		fillNulls(adm, "treatment_count", int64(0))
		return adm, nil
	}

	counts, err := treatments.CountBy("admission_id", "treatment_count")
	if err != nil {
		return nil, err
	}
	if joinKey != "admission_id" {
		if err := counts.Rename("admission_id", joinKey); err != nil {
			return nil, err
		}
	}
	out, err := adm.LeftJoin(counts, joinKey)
	if err != nil {
		return nil, err
	}
	fillNulls(out, "treatment_count", int64(0))
	return out, nil
}

// fillNulls replaces null cells in a column with the given value.
func fillNulls(t *table.Table, col string, v any) {
	for i := 0; i < t.NumRows(); i++ {
		if t.Value(i, col) == nil {
			t.Set(i, col, v)
		}
	}
}
