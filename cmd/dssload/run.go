package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/gyeh/admitstats/internal/db"
	"github.com/gyeh/admitstats/internal/exitcode"
	"github.com/gyeh/admitstats/internal/extract"
	"github.com/gyeh/admitstats/internal/logging"
	"github.com/gyeh/admitstats/internal/pipeline"
)

var runCfgFile string

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the full ETL pipeline and readmission analysis",
	RunE:  runRun,
}

func init() {
	f := runCmd.Flags()
	f.StringVar(&cfg.RawDataDir, "raw-dir", cfg.RawDataDir, "Directory holding the raw entity feeds")
	f.StringVar(&cfg.ProcessedDataDir, "processed-dir", cfg.ProcessedDataDir, "Directory for cleaned CSV and Parquet output")
	f.IntVar(&cfg.ReadmissionWindowDays, "window-days", cfg.ReadmissionWindowDays, "Readmission window in days")
	f.IntVar(&cfg.MinPatientVisits, "min-visits", cfg.MinPatientVisits, "Minimum admissions per patient for the windowed analysis")
	f.IntVar(&cfg.ChunkSize, "chunk-size", cfg.ChunkSize, "Rows per upsert statement")
	f.BoolVar(&cfg.SkipAnalysis, "skip-analysis", false, "Load entities only, skip feature engineering")
	f.StringVar(&runCfgFile, "config", "", "YAML file overriding pipeline parameters")
	rootCmd.AddCommand(runCmd)
}

func runRun(cmd *cobra.Command, args []string) error {
	log := logging.Setup(cfg.LogFormat)
	ctx := context.Background()

	if runCfgFile != "" {
		if err := cfg.LoadFromFile(runCfgFile); err != nil {
			log.Error().Err(err).Str("file", runCfgFile).Msg("config file rejected")
			os.Exit(exitcode.UsageError)
		}
	}
	if err := cfg.ValidateWithDSN(); err != nil {
		log.Error().Err(err).Msg("config validation failed")
		os.Exit(exitcode.UsageError)
	}

	pool, err := db.NewPool(ctx, cfg.DSN)
	if err != nil {
		log.Error().Err(err).Msg("database connection failed")
		os.Exit(exitcode.DBConnError)
	}
	defer pool.Close()

	if err := db.ApplyMigrations(ctx, pool, log); err != nil {
		log.Error().Err(err).Msg("migration failed")
		os.Exit(exitcode.LoadError)
	}

	summary, err := pipeline.New(cfg, pool, log).Run(ctx)
	if err != nil {
		log.Error().Err(err).Msg("pipeline failed")
		os.Exit(stageExit(err))
	}

	fmt.Printf("Pipeline complete: %d rows loaded, %d feature rows, %d analysis rows (%.1fs)\n",
		summary.Loaded(), summary.FeatureRows, summary.ReadmissionRows, summary.DurationTotal.Seconds())

	if failed := summary.Failed(); len(failed) > 0 {
		for _, res := range failed {
			fmt.Printf("  failed: %s: %s\n", res.Entity, res.Err)
		}
		os.Exit(exitcode.PartialSuccess)
	}
	return nil
}

// stageExit maps a pipeline failure to its exit code.
func stageExit(err error) int {
	if errors.Is(err, extract.ErrConnection) {
		return exitcode.DBConnError
	}
	var se *pipeline.StageError
	if errors.As(err, &se) {
		switch se.Stage {
		case pipeline.StageExtract:
			return exitcode.ExtractError
		case pipeline.StageLoad:
			return exitcode.LoadError
		default:
			return exitcode.TransformError
		}
	}
	return exitcode.TransformError
}
