package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Defaults for the feature-engineering and loading parameters.
const (
	DefaultReadmissionWindowDays = 30
	DefaultMinPatientVisits      = 3
	DefaultFeatureThreshold      = 0.01
	DefaultChunkSize             = 1000
)

// Config holds all runtime configuration for a dssload run.
type Config struct {
	DSN       string
	LogFormat string // "text" or "json"

	RawDataDir       string
	ProcessedDataDir string

	// Feature-engineering parameters.
	ReadmissionWindowDays      int     `yaml:"readmission_window_days"`
	MinPatientVisits           int     `yaml:"min_patient_visits"`
	FeatureImportanceThreshold float64 `yaml:"feature_importance_threshold"`
	ChunkSize                  int     `yaml:"chunk_size"`

	// Sources maps an entity name to its raw file, relative to RawDataDir.
	// Files ending in .xlsx are read as spreadsheets, everything else as
	// delimited text. Unset entities default to "<entity table>.csv".
	Sources map[string]string `yaml:"sources"`

	SkipAnalysis bool // load entities only, skip the readmission analysis
}

// yamlConfig is the on-disk YAML structure.
type yamlConfig struct {
	ReadmissionWindowDays      *int              `yaml:"readmission_window_days"`
	MinPatientVisits           *int              `yaml:"min_patient_visits"`
	FeatureImportanceThreshold *float64          `yaml:"feature_importance_threshold"`
	ChunkSize                  *int              `yaml:"chunk_size"`
	Sources                    map[string]string `yaml:"sources"`
}

// FromEnv builds a Config from the environment with defaults matching a
// local instance. A .env file in the working directory is honored when
// present. DATABASE_URL wins over the individual DB_* variables.
func FromEnv() *Config {
	_ = godotenv.Load()

	c := &Config{
		LogFormat:                  "text",
		RawDataDir:                 envOr("RAW_DATA_DIR", "data/raw"),
		ProcessedDataDir:           envOr("PROCESSED_DATA_DIR", "data/processed"),
		ReadmissionWindowDays:      envOrInt("READMISSION_WINDOW_DAYS", DefaultReadmissionWindowDays),
		MinPatientVisits:           envOrInt("MIN_PATIENT_VISITS", DefaultMinPatientVisits),
		FeatureImportanceThreshold: DefaultFeatureThreshold,
		ChunkSize:                  envOrInt("CHUNK_SIZE", DefaultChunkSize),
	}

	if dsn := os.Getenv("DATABASE_URL"); dsn != "" {
		c.DSN = dsn
	} else {
		c.DSN = fmt.Sprintf("postgresql://%s:%s@%s:%s/%s?sslmode=disable",
			envOr("DB_USER", "postgres"),
			envOr("DB_PASSWORD", "postgres"),
			envOr("DB_HOST", "localhost"),
			envOr("DB_PORT", "5432"),
			envOr("DB_NAME", "hospital_dss"),
		)
	}
	return c
}

// LoadFromFile reads a YAML config file and merges its values into Config.
// Only keys present in the file override the current values.
func (c *Config) LoadFromFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}
	var yc yamlConfig
	if err := yaml.Unmarshal(data, &yc); err != nil {
		return fmt.Errorf("parse config file: %w", err)
	}
	if yc.ReadmissionWindowDays != nil {
		c.ReadmissionWindowDays = *yc.ReadmissionWindowDays
	}
	if yc.MinPatientVisits != nil {
		c.MinPatientVisits = *yc.MinPatientVisits
	}
	if yc.FeatureImportanceThreshold != nil {
		c.FeatureImportanceThreshold = *yc.FeatureImportanceThreshold
	}
	if yc.ChunkSize != nil {
		c.ChunkSize = *yc.ChunkSize
	}
	if yc.Sources != nil {
		c.Sources = yc.Sources
	}
	return c.Validate()
}

// SourceFile returns the raw file name configured for an entity, defaulting
// to "<table>.csv".
func (c *Config) SourceFile(entity, table string) string {
	if f, ok := c.Sources[entity]; ok {
		return f
	}
	return table + ".csv"
}

// Validate checks the parameter ranges.
func (c *Config) Validate() error {
	if c.ReadmissionWindowDays <= 0 {
		return fmt.Errorf("readmission window must be positive, got %d", c.ReadmissionWindowDays)
	}
	if c.MinPatientVisits < 1 {
		return fmt.Errorf("min patient visits must be at least 1, got %d", c.MinPatientVisits)
	}
	if c.ChunkSize <= 0 {
		return fmt.Errorf("chunk size must be positive, got %d", c.ChunkSize)
	}
	return nil
}

// ValidateWithDSN checks parameters and the connection string.
func (c *Config) ValidateWithDSN() error {
	if err := c.Validate(); err != nil {
		return err
	}
	if c.DSN == "" {
		return fmt.Errorf("--dsn or DATABASE_URL is required")
	}
	return nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envOrInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}
