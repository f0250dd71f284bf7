package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadFromFile_Valid(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	os.WriteFile(path, []byte(
		"readmission_window_days: 60\nmin_patient_visits: 2\nsources:\n  patient: patients.xlsx\n"), 0644)

	c := FromEnv()
	if err := c.LoadFromFile(path); err != nil {
		t.Fatalf("LoadFromFile: %v", err)
	}
	if c.ReadmissionWindowDays != 60 {
		t.Errorf("ReadmissionWindowDays = %d, want 60", c.ReadmissionWindowDays)
	}
	if c.MinPatientVisits != 2 {
		t.Errorf("MinPatientVisits = %d, want 2", c.MinPatientVisits)
	}
	if c.ChunkSize != DefaultChunkSize {
		t.Errorf("ChunkSize = %d, want untouched default", c.ChunkSize)
	}
	if got := c.SourceFile("patient", "patients"); got != "patients.xlsx" {
		t.Errorf("SourceFile(patient) = %q", got)
	}
	if got := c.SourceFile("billing", "billing"); got != "billing.csv" {
		t.Errorf("SourceFile(billing) = %q, want table default", got)
	}
}

func TestLoadFromFile_InvalidValues(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	os.WriteFile(path, []byte("readmission_window_days: -5\n"), 0644)

	c := FromEnv()
	if err := c.LoadFromFile(path); err == nil {
		t.Fatal("expected error for negative window")
	}
}

func TestLoadFromFile_MissingFile(t *testing.T) {
	c := FromEnv()
	if err := c.LoadFromFile("/nonexistent/config.yaml"); err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestFromEnv_Defaults(t *testing.T) {
	t.Setenv("DATABASE_URL", "")
	t.Setenv("DB_NAME", "")
	t.Setenv("READMISSION_WINDOW_DAYS", "")

	c := FromEnv()
	if c.ReadmissionWindowDays != DefaultReadmissionWindowDays {
		t.Errorf("window = %d", c.ReadmissionWindowDays)
	}
	if c.DSN == "" {
		t.Error("DSN should be assembled from DB_* defaults")
	}
}

func TestFromEnv_DatabaseURLWins(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgresql://u:p@db:5/x")
	c := FromEnv()
	if c.DSN != "postgresql://u:p@db:5/x" {
		t.Errorf("DSN = %q", c.DSN)
	}
}

func TestValidate(t *testing.T) {
	c := FromEnv()
	if err := c.Validate(); err != nil {
		t.Fatalf("defaults should validate: %v", err)
	}

	c.MinPatientVisits = 0
	if err := c.Validate(); err == nil {
		t.Error("expected error for zero min visits")
	}

	c = FromEnv()
	c.ChunkSize = -1
	if err := c.Validate(); err == nil {
		t.Error("expected error for negative chunk size")
	}

	c = FromEnv()
	c.DSN = ""
	if err := c.ValidateWithDSN(); err == nil {
		t.Error("expected error for empty DSN")
	}
}
