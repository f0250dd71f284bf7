package transform

import (
	"strconv"
	"time"

	"github.com/gyeh/admitstats/internal/normalize"
	"github.com/gyeh/admitstats/internal/table"
)

// CleanPatients standardizes patient demographics and derives age and
// age_group from date_of_birth. An empty input yields an empty output.
func (tr *Transformer) CleanPatients(t *table.Table) *table.Table {
	out := t.Clone()
	if out.Empty() {
		return out
	}

	for _, c := range []string{"first_name", "last_name", "address", "insurance_provider", "insurance_policy_number"} {
		trimColumn(out, c)
	}
	lowerColumn(out, "gender")
	lowerColumn(out, "email")
	intColumn(out, "id")
	intColumn(out, "patient_id")
	dateColumn(out, "date_of_birth")

	if out.HasColumn("phone") {
		for i := 0; i < out.NumRows(); i++ {
			if s, ok := table.String(out.Value(i, "phone")); ok {
				out.Set(i, "phone", normalize.FormatPhone(s))
			}
		}
	}

	if out.HasColumn("date_of_birth") {
		ensureColumn(out, "age")
		ensureColumn(out, "age_group")
		ref := tr.now()
		for i := 0; i < out.NumRows(); i++ {
			dob, ok := table.Time(out.Value(i, "date_of_birth"))
			if !ok {
				out.Set(i, "age", nil)
				out.Set(i, "age_group", nil)
				continue
			}
			age := normalize.Age(dob, ref)
			out.Set(i, "age", age)
			out.Set(i, "age_group", normalize.AgeGroup(age))
		}
	}
	return out
}

// CleanAdmissions parses admission and discharge dates, derives
// length_of_stay (clipped to >= 0), and normalizes the categorical fields.
func (tr *Transformer) CleanAdmissions(t *table.Table) *table.Table {
	out := t.Clone()
	if out.Empty() {
		return out
	}

	intColumn(out, "id")
	intColumn(out, "admission_id")
	intColumn(out, "patient_id")
	dateColumn(out, "admission_date")
	dateColumn(out, "discharge_date")
	lowerColumn(out, "discharge_disposition")

	if out.HasColumn("admission_type") {
		for i := 0; i < out.NumRows(); i++ {
			if s, ok := table.String(out.Value(i, "admission_type")); ok {
				out.Set(i, "admission_type", normalize.AdmissionType(s))
			}
		}
	}

	if out.HasColumn("admission_date") && out.HasColumn("discharge_date") {
		ensureColumn(out, "length_of_stay")
		for i := 0; i < out.NumRows(); i++ {
			out.Set(i, "length_of_stay", lengthOfStay(out.Value(i, "admission_date"), out.Value(i, "discharge_date")))
		}
	}
	return out
}

// CleanDiagnoses uppercases ICD codes and derives the ICD chapter. A null
// code maps to the "unknown" chapter.
func (tr *Transformer) CleanDiagnoses(t *table.Table) *table.Table {
	out := t.Clone()
	if out.Empty() {
		return out
	}

	intColumn(out, "id")
	intColumn(out, "diagnosis_id")
	intColumn(out, "patient_id")
	trimColumn(out, "description")

	if out.HasColumn("icd_code") {
		ensureColumn(out, "icd_chapter")
		for i := 0; i < out.NumRows(); i++ {
			code, _ := table.String(out.Value(i, "icd_code"))
			if code != "" {
				out.Set(i, "icd_code", normalize.NormalizeCode(code))
			}
			out.Set(i, "icd_chapter", normalize.ICDChapter(code))
		}
	}
	return out
}

// CleanTreatments parses treatment dates and lowercases the outcome.
func (tr *Transformer) CleanTreatments(t *table.Table) *table.Table {
	out := t.Clone()
	if out.Empty() {
		return out
	}

	intColumn(out, "id")
	intColumn(out, "admission_id")
	intColumn(out, "diagnosis_id")
	dateColumn(out, "start_date")
	dateColumn(out, "end_date")
	lowerColumn(out, "outcome")
	return out
}

// CleanProcedures uppercases CPT codes and coerces the cost to numeric.
func (tr *Transformer) CleanProcedures(t *table.Table) *table.Table {
	out := t.Clone()
	if out.Empty() {
		return out
	}

	intColumn(out, "id")
	trimColumn(out, "description")
	floatColumn(out, "cost")

	if out.HasColumn("cpt_code") {
		for i := 0; i < out.NumRows(); i++ {
			if s, ok := table.String(out.Value(i, "cpt_code")); ok {
				out.Set(i, "cpt_code", normalize.NormalizeCode(s))
			}
		}
	}
	return out
}

// CleanBillings lowercases the payment status and coerces the money fields
// to numeric, with unparsable values becoming nulls.
func (tr *Transformer) CleanBillings(t *table.Table) *table.Table {
	out := t.Clone()
	if out.Empty() {
		return out
	}

	intColumn(out, "id")
	intColumn(out, "admission_id")
	lowerColumn(out, "payment_status")
	floatColumn(out, "total_charges")
	floatColumn(out, "insurance_coverage")
	floatColumn(out, "patient_responsibility")
	return out
}

// lengthOfStay computes inclusive stay days from the two date cells,
// clipped to >= 0. Returns nil when either date is null.
func lengthOfStay(admission, discharge any) any {
	adm, aok := table.Time(admission)
	dis, dok := table.Time(discharge)
	if !aok || !dok {
		return nil
	}
	days := normalize.DaysBetween(adm, dis) + 1
	if days < 0 {
		days = 0
	}
	return days
}

// ensureColumn adds a null-filled column unless it already exists, so
// re-cleaning a cleaned table overwrites instead of failing.
func ensureColumn(t *table.Table, name string) {
	if !t.HasColumn(name) {
		t.AddColumn(name, nil)
	}
}

func trimColumn(t *table.Table, col string) {
	if !t.HasColumn(col) {
		return
	}
	for i := 0; i < t.NumRows(); i++ {
		if s, ok := table.String(t.Value(i, col)); ok {
			t.Set(i, col, normalize.TrimText(s))
		}
	}
}

func lowerColumn(t *table.Table, col string) {
	if !t.HasColumn(col) {
		return
	}
	for i := 0; i < t.NumRows(); i++ {
		if s, ok := table.String(t.Value(i, col)); ok {
			t.Set(i, col, normalize.LowerText(s))
		}
	}
}

// dateColumn parses string cells into dates; unparsable values become
// nulls. Cells that are already dates pass through.
func dateColumn(t *table.Table, col string) {
	if !t.HasColumn(col) {
		return
	}
	for i := 0; i < t.NumRows(); i++ {
		switch v := t.Value(i, col).(type) {
		case string:
			if parsed := normalize.ParseDate(v); parsed != nil {
				t.Set(i, col, *parsed)
			} else {
				t.Set(i, col, nil)
			}
		case time.Time:
			// already parsed
		case nil:
		default:
			t.Set(i, col, nil)
		}
	}
}

// intColumn coerces string and float cells to int64; unparsable values
// become nulls.
func intColumn(t *table.Table, col string) {
	if !t.HasColumn(col) {
		return
	}
	for i := 0; i < t.NumRows(); i++ {
		switch v := t.Value(i, col).(type) {
		case string:
			if n, err := strconv.ParseInt(normalize.TrimText(v), 10, 64); err == nil {
				t.Set(i, col, n)
			} else {
				t.Set(i, col, nil)
			}
		case float64:
			t.Set(i, col, int64(v))
		}
	}
}

// floatColumn coerces string cells to float64; unparsable values become nulls.
func floatColumn(t *table.Table, col string) {
	if !t.HasColumn(col) {
		return
	}
	for i := 0; i < t.NumRows(); i++ {
		switch v := t.Value(i, col).(type) {
		case string:
			if f, err := strconv.ParseFloat(normalize.TrimText(v), 64); err == nil {
				t.Set(i, col, f)
			} else {
				t.Set(i, col, nil)
			}
		case int64:
			t.Set(i, col, float64(v))
		}
	}
}
