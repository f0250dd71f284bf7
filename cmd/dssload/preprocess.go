package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/gyeh/admitstats/internal/exitcode"
	"github.com/gyeh/admitstats/internal/load"
	"github.com/gyeh/admitstats/internal/logging"
	"github.com/gyeh/admitstats/internal/model"
	"github.com/gyeh/admitstats/internal/parquetread"
	"github.com/gyeh/admitstats/internal/transform"
)

var (
	preprocessFile   string
	preprocessOut    string
	preprocessTarget string
)

// leakageColumns identify the admission or reveal the outcome and must not
// reach the model input.
var leakageColumns = []string{
	"patient_id",
	"admission_date",
	"discharge_date",
	"days_to_readmission",
}

var preprocessCmd = &cobra.Command{
	Use:   "preprocess",
	Short: "Turn a feature Parquet file into model-ready input",
	Long:  "Reads an engineered feature Parquet file, imputes and one-hot encodes it, and writes a model input CSV with the readmission label as the final column.",
	RunE:  runPreprocess,
}

func init() {
	f := preprocessCmd.Flags()
	f.StringVar(&preprocessFile, "file", "", "Path to feature Parquet file (required)")
	f.StringVar(&preprocessOut, "out", "model_input", "Output name under the processed data directory")
	f.StringVar(&preprocessTarget, "target", "readmission_status", "Target column to split out as the label")
	_ = preprocessCmd.MarkFlagRequired("file")
	rootCmd.AddCommand(preprocessCmd)
}

func runPreprocess(cmd *cobra.Command, args []string) error {
	log := logging.Setup(cfg.LogFormat)

	reader, err := parquetread.Open(preprocessFile)
	if err != nil {
		log.Error().Err(err).Msg("failed to open parquet file")
		os.Exit(exitcode.ExtractError)
	}
	defer reader.Close()

	if err := parquetread.ValidateSchema(reader.Schema()); err != nil {
		log.Error().Err(err).Msg("schema validation failed")
		os.Exit(exitcode.ExtractError)
	}

	rows, err := reader.ReadAll()
	if err != nil {
		log.Error().Err(err).Msg("failed to read feature rows")
		os.Exit(exitcode.ExtractError)
	}

	features := model.FeatureTable(rows).Drop(leakageColumns...)
	tr := transform.New(cfg.ReadmissionWindowDays)
	out, labels, err := tr.PreprocessForModel(features, preprocessTarget)
	if err != nil {
		log.Error().Err(err).Msg("preprocessing failed")
		os.Exit(exitcode.TransformError)
	}

	if len(labels) > 0 {
		if err := out.AddColumn(preprocessTarget, nil); err != nil {
			log.Error().Err(err).Msg("failed to reattach label column")
			os.Exit(exitcode.TransformError)
		}
		for i, v := range labels {
			_ = out.Set(i, preprocessTarget, v)
		}
	}

	loader := load.New(nil, cfg.ProcessedDataDir, cfg.ChunkSize, log)
	path, err := loader.SaveCSV(out, preprocessOut)
	if err != nil {
		log.Error().Err(err).Msg("failed to write model input")
		os.Exit(exitcode.LoadError)
	}

	fmt.Printf("Preprocessed %d rows into %d columns: %s\n", out.NumRows(), len(out.Columns()), path)
	return nil
}
