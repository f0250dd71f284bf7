// Package sql holds the embedded SQL surface of the pipeline: schema
// migrations plus the handful of fixed queries that are easier to read as
// SQL files than as Go string literals.
package sql

import (
	"embed"
	_ "embed"
)

//go:embed migrations
var Migrations embed.FS

//go:embed queries/readmission_window.sql
var ReadmissionWindow string

//go:embed queries/patient_admissions.sql
var PatientAdmissions string

//go:embed queries/link_patient_diagnosis.sql
var LinkPatientDiagnosis string

//go:embed queries/link_treatment_procedure.sql
var LinkTreatmentProcedure string

//go:embed queries/delete_feature_rows.sql
var DeleteFeatureRows string

//go:embed queries/delete_readmission_rows.sql
var DeleteReadmissionRows string

//go:embed queries/readmission_rates.sql
var ReadmissionRates string

//go:embed queries/recent_admissions.sql
var RecentAdmissions string
