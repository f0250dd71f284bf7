package model

// Entity describes one relational sink table: its natural key and the
// explicit allow-list of columns the loader may write. Unknown columns in an
// input table are ignored rather than silently accepted.
type Entity struct {
	Name       string   // logical entity name, e.g. "patient"
	Table      string   // sink table name
	KeyColumns []string // natural key used for upsert matching
	Updatable  []string // non-key columns the loader may insert/overwrite
}

// Columns returns the key columns followed by the updatable columns.
func (e Entity) Columns() []string {
	cols := make([]string, 0, len(e.KeyColumns)+len(e.Updatable))
	cols = append(cols, e.KeyColumns...)
	cols = append(cols, e.Updatable...)
	return cols
}

// The six sink entities in canonical order.
var (
	Patients = Entity{
		Name:       "patient",
		Table:      "patients",
		KeyColumns: []string{"first_name", "last_name", "date_of_birth"},
		Updatable: []string{
			"gender", "address", "phone", "email",
			"insurance_provider", "insurance_policy_number",
			"age", "age_group",
		},
	}

	Admissions = Entity{
		Name:       "admission",
		Table:      "admissions",
		KeyColumns: []string{"patient_id", "admission_date"},
		Updatable: []string{
			"discharge_date", "admission_type", "discharge_disposition",
			"length_of_stay", "readmission_status",
		},
	}

	Diagnoses = Entity{
		Name:       "diagnosis",
		Table:      "diagnoses",
		KeyColumns: []string{"icd_code"},
		Updatable:  []string{"description", "icd_chapter"},
	}

	Treatments = Entity{
		Name:       "treatment",
		Table:      "treatments",
		KeyColumns: []string{"admission_id", "diagnosis_id", "start_date"},
		Updatable:  []string{"end_date", "outcome"},
	}

	Procedures = Entity{
		Name:       "procedure",
		Table:      "procedures",
		KeyColumns: []string{"cpt_code"},
		Updatable:  []string{"description", "cost"},
	}

	Billings = Entity{
		Name:       "billing",
		Table:      "billing",
		KeyColumns: []string{"admission_id"},
		Updatable: []string{
			"total_charges", "insurance_coverage",
			"patient_responsibility", "payment_status",
		},
	}
)

// AllEntities lists the entities in pipeline dependency order: patients,
// diagnoses, and procedures have no prerequisites; admissions reference
// patients; treatments reference admissions and diagnoses; billing
// references admissions.
var AllEntities = []Entity{
	Patients,
	Diagnoses,
	Procedures,
	Admissions,
	Treatments,
	Billings,
}

// EntityByName looks up an entity by its logical name.
func EntityByName(name string) (Entity, bool) {
	for _, e := range AllEntities {
		if e.Name == name {
			return e, true
		}
	}
	return Entity{}, false
}
