// mkfeed writes a small synthetic set of raw hospital feeds for local runs
// and demos. Output is deterministic for a given seed. Identifiers are
// unique within each feed so cross-feed references survive loading.
// Usage: go run ./cmd/mkfeed --out data/raw --patients 200 --seed 42
package main

import (
	"encoding/csv"
	"flag"
	"fmt"
	"math/rand"
	"os"
	"path/filepath"
	"strconv"
	"time"
)

var (
	genders      = []string{"M", "F"}
	insurers     = []string{"Medicare", "Medicaid", "Private", "Self-pay", "Other"}
	admitTypes   = []string{"emergency", "urgent", "elective"}
	dispositions = []string{"home", "transfer", "hospice", "expired", "other"}
	outcomes     = []string{"improved", "stable", "worsened"}
	statuses     = []string{"paid", "pending", "denied"}

	// A mix of chronic and acute codes so the chronic-condition counts are
	// non-trivial.
	icdCodes = []string{
		"E11.9", "I10", "I25.10", "E78.5", "E66.9", "J44.9", "N18.3", "F32.9",
		"A41.9", "C50.911", "J18.9", "K35.80", "M54.5", "S72.001A", "R07.9",
	}
	cptCodes = []string{"99213", "99214", "99285", "36415", "71046", "80053", "85025", "93000"}
)

func main() {
	out := flag.String("out", "data/raw", "output directory for the raw feeds")
	numPatients := flag.Int("patients", 200, "number of patients to generate")
	seed := flag.Int64("seed", 42, "random seed")
	flag.Parse()

	if err := os.MkdirAll(*out, 0o755); err != nil {
		fmt.Fprintf(os.Stderr, "create output dir: %v\n", err)
		os.Exit(1)
	}
	rng := rand.New(rand.NewSource(*seed))

	patients := writePatients(*out, rng, *numPatients)
	admissions := writeAdmissions(*out, rng, *numPatients)
	diagnoses := writeDiagnoses(*out, rng, *numPatients)
	procedures := writeProcedures(*out)
	treatments := writeTreatments(*out, rng, admissions, diagnoses)
	billings := writeBillings(*out, rng, admissions)
	links := writeTreatmentProcedures(*out, rng, treatments, procedures)

	fmt.Printf("Wrote feeds to %s: %d patients, %d admissions, %d diagnoses, %d procedures, %d treatments, %d billing rows, %d procedure links\n",
		*out, patients, admissions, diagnoses, procedures, treatments, billings, links)
}

func writeCSV(dir, name string, header []string, rows [][]string) {
	f, err := os.Create(filepath.Join(dir, name))
	if err != nil {
		fmt.Fprintf(os.Stderr, "create %s: %v\n", name, err)
		os.Exit(1)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(header); err == nil {
		err = w.WriteAll(rows)
	}
	w.Flush()
	if err := w.Error(); err != nil {
		fmt.Fprintf(os.Stderr, "write %s: %v\n", name, err)
		os.Exit(1)
	}
}

func writePatients(dir string, rng *rand.Rand, n int) int {
	header := []string{"id", "first_name", "last_name", "date_of_birth", "gender",
		"address", "phone", "email", "insurance_provider", "insurance_policy_number"}
	rows := make([][]string, 0, n)
	for i := 1; i <= n; i++ {
		dob := time.Date(1930, 1, 1, 0, 0, 0, 0, time.UTC).
			AddDate(0, 0, rng.Intn(90*365))
		rows = append(rows, []string{
			strconv.Itoa(i),
			fmt.Sprintf("Patient_%d", i),
			"Doe",
			dob.Format("2006-01-02"),
			genders[rng.Intn(len(genders))],
			"123 Main St",
			fmt.Sprintf("555%03d%04d", rng.Intn(1000), rng.Intn(10000)),
			fmt.Sprintf("patient_%d@example.com", i),
			insurers[rng.Intn(len(insurers))],
			fmt.Sprintf("POL-%06d", i),
		})
	}
	writeCSV(dir, "patients.csv", header, rows)
	return len(rows)
}

func writeAdmissions(dir string, rng *rand.Rand, numPatients int) int {
	header := []string{"id", "patient_id", "admission_date", "discharge_date",
		"admission_type", "discharge_disposition"}
	var rows [][]string
	id := 1
	for p := 1; p <= numPatients; p++ {
		// Admission dates stay distinct per patient so the natural key
		// (patient_id, admission_date) never collides within a feed.
		date := time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC).
			AddDate(0, 0, rng.Intn(120))
		for a := 0; a < 1+rng.Intn(4); a++ {
			stay := 1 + rng.Intn(14)
			discharge := date.AddDate(0, 0, stay)
			rows = append(rows, []string{
				strconv.Itoa(id),
				strconv.Itoa(p),
				date.Format("2006-01-02"),
				discharge.Format("2006-01-02"),
				admitTypes[rng.Intn(len(admitTypes))],
				dispositions[rng.Intn(len(dispositions))],
			})
			id++
			// Next admission lands 5-60 days after this discharge, which
			// keeps a realistic share inside the 30-day window.
			date = discharge.AddDate(0, 0, 5+rng.Intn(56))
		}
	}
	writeCSV(dir, "admissions.csv", header, rows)
	return len(rows)
}

func writeDiagnoses(dir string, rng *rand.Rand, numPatients int) int {
	header := []string{"id", "patient_id", "icd_code", "description"}
	// One row per code: a duplicated code would be collapsed on load and
	// its raw id dropped, breaking the patient links that reference it.
	rows := make([][]string, 0, len(icdCodes))
	for i, code := range icdCodes {
		rows = append(rows, []string{
			strconv.Itoa(i + 1),
			strconv.Itoa(1 + rng.Intn(numPatients)),
			code,
			fmt.Sprintf("condition %s", code),
		})
	}
	writeCSV(dir, "diagnoses.csv", header, rows)
	return len(rows)
}

func writeProcedures(dir string) int {
	header := []string{"id", "cpt_code", "description", "cost"}
	rows := make([][]string, 0, len(cptCodes))
	for i, code := range cptCodes {
		rows = append(rows, []string{
			strconv.Itoa(i + 1),
			code,
			fmt.Sprintf("procedure %s", code),
			fmt.Sprintf("%.2f", 50.0+float64(i)*125.5),
		})
	}
	writeCSV(dir, "procedures.csv", header, rows)
	return len(rows)
}

func writeTreatments(dir string, rng *rand.Rand, numAdmissions, numDiagnoses int) int {
	header := []string{"id", "admission_id", "diagnosis_id", "start_date", "end_date", "outcome"}
	var rows [][]string
	id := 1
	for a := 1; a <= numAdmissions; a++ {
		for t := 0; t < 1+rng.Intn(2); t++ {
			start := time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC).
				AddDate(0, 0, rng.Intn(600))
			rows = append(rows, []string{
				strconv.Itoa(id),
				strconv.Itoa(a),
				strconv.Itoa(1 + rng.Intn(numDiagnoses)),
				start.Format("2006-01-02"),
				start.AddDate(0, 0, 1+rng.Intn(10)).Format("2006-01-02"),
				outcomes[rng.Intn(len(outcomes))],
			})
			id++
		}
	}
	writeCSV(dir, "treatments.csv", header, rows)
	return len(rows)
}

func writeBillings(dir string, rng *rand.Rand, numAdmissions int) int {
	header := []string{"id", "admission_id", "total_charges", "insurance_coverage",
		"patient_responsibility", "payment_status"}
	rows := make([][]string, 0, numAdmissions)
	for a := 1; a <= numAdmissions; a++ {
		total := 1000.0 + rng.Float64()*49000.0
		covered := total * (0.5 + rng.Float64()*0.45)
		rows = append(rows, []string{
			strconv.Itoa(a),
			strconv.Itoa(a),
			fmt.Sprintf("%.2f", total),
			fmt.Sprintf("%.2f", covered),
			fmt.Sprintf("%.2f", total-covered),
			statuses[rng.Intn(len(statuses))],
		})
	}
	writeCSV(dir, "billing.csv", header, rows)
	return len(rows)
}

func writeTreatmentProcedures(dir string, rng *rand.Rand, numTreatments, numProcedures int) int {
	header := []string{"treatment_id", "procedure_id"}
	seen := make(map[[2]int]bool)
	var rows [][]string
	for t := 1; t <= numTreatments; t++ {
		p := 1 + rng.Intn(numProcedures)
		if seen[[2]int{t, p}] {
			continue
		}
		seen[[2]int{t, p}] = true
		rows = append(rows, []string{strconv.Itoa(t), strconv.Itoa(p)})
	}
	writeCSV(dir, "treatment_procedures.csv", header, rows)
	return len(rows)
}
