package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/gyeh/admitstats/internal/db"
	"github.com/gyeh/admitstats/internal/exitcode"
	"github.com/gyeh/admitstats/internal/logging"
	"github.com/gyeh/admitstats/internal/pipeline"
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Recompute the readmission analysis from loaded entities",
	Long:  "Re-runs feature engineering and the windowed readmission analysis against the entities already in the database, without re-reading the raw feeds.",
	RunE:  runAnalyze,
}

func init() {
	f := analyzeCmd.Flags()
	f.StringVar(&cfg.ProcessedDataDir, "processed-dir", cfg.ProcessedDataDir, "Directory for cleaned CSV and Parquet output")
	f.IntVar(&cfg.ReadmissionWindowDays, "window-days", cfg.ReadmissionWindowDays, "Readmission window in days")
	f.IntVar(&cfg.MinPatientVisits, "min-visits", cfg.MinPatientVisits, "Minimum admissions per patient for the windowed analysis")
	rootCmd.AddCommand(analyzeCmd)
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	log := logging.Setup(cfg.LogFormat)
	ctx := context.Background()

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

	summary, err := pipeline.New(cfg, pool, log).AnalyzeFromDB(ctx)
	if err != nil {
		log.Error().Err(err).Msg("analysis failed")
		os.Exit(stageExit(err))
	}

	fmt.Printf("Analysis complete: %d feature rows, %d analysis rows (%.1fs)\n",
		summary.FeatureRows, summary.ReadmissionRows, summary.DurationTotal.Seconds())
	return nil
}
