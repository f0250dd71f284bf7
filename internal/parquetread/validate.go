package parquetread

import (
	"fmt"
	"strings"

	"github.com/parquet-go/parquet-go"
)

// predictorColumns are the engineered columns a feature file is expected to
// carry. A file with none of them is not something the model step can use.
var predictorColumns = []string{
	"length_of_stay",
	"prev_admissions_count",
	"days_since_last_admission",
	"chronic_condition_count",
	"treatment_count",
	"age",
	"age_group",
	"gender",
	"admission_type",
}

// ValidateSchema checks that the Parquet schema identifies each admission
// and carries the readmission label plus at least one predictor.
func ValidateSchema(schema *parquet.Schema) error {
	columns := make(map[string]bool)
	for _, field := range schema.Fields() {
		columns[strings.ToLower(field.Name())] = true
	}

	required := []string{"patient_id", "admission_date", "readmission_status"}
	for _, col := range required {
		if !columns[col] {
			return fmt.Errorf("missing required column: %s", col)
		}
	}

	for _, col := range predictorColumns {
		if columns[col] {
			return nil
		}
	}
	return fmt.Errorf("no predictor columns found; need at least one of: %s",
		strings.Join(predictorColumns, ", "))
}
