package pipeline

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/gyeh/admitstats/internal/extract"
	"github.com/gyeh/admitstats/internal/model"
	"github.com/gyeh/admitstats/internal/table"
)

// AnalyzeFromDB reruns the readmission analysis against entities already
// loaded in the database, without touching the raw feeds. Used to refresh
// features after parameter changes.
func (p *Pipeline) AnalyzeFromDB(ctx context.Context) (*model.RunSummary, error) {
	start := time.Now()
	runID := uuid.New()
	summary := &model.RunSummary{RunID: runID.String()}

	cleaned := make(map[string]*table.Table, 4)
	for _, name := range []string{"patient", "admission", "diagnosis", "treatment"} {
		e, _ := model.EntityByName(name)
		t, err := extract.Entity(ctx, p.Pool, e.Table)
		if err != nil {
			return summary, &StageError{Entity: name, Stage: StageExtract, Err: err}
		}
		cleaned[name] = t
	}

	featN, readmN, err := p.runAnalysis(ctx, runID, cleaned)
	summary.FeatureRows = featN
	summary.ReadmissionRows = readmN
	summary.DurationTotal = time.Since(start)
	if err != nil {
		return summary, err
	}
	p.Log.Info().
		Str("run_id", summary.RunID).
		Int64("feature_rows", featN).
		Int64("analysis_rows", readmN).
		Str("duration", summary.DurationTotal.String()).
		Msg("readmission analysis refreshed")
	return summary, nil
}

// runAnalysis engineers the readmission feature table from the cleaned
// in-memory tables, persists it to every sink, back-fills the admission
// readmission flags, and runs the source-side windowed readmission query
// into the analysis table. Returns (feature rows, analysis rows).
func (p *Pipeline) runAnalysis(ctx context.Context, runID uuid.UUID, cleaned map[string]*table.Table) (int64, int64, error) {
	features, err := p.Tr.EngineerReadmissionFeatures(
		cleaned["admission"], cleaned["patient"], cleaned["diagnosis"], cleaned["treatment"])
	if err != nil {
		return 0, 0, &StageError{Entity: "readmission", Stage: StageAnalyze, Err: err}
	}

	rows, dropped := model.FeatureRowsFromTable(features)
	if dropped > 0 {
		p.Log.Warn().Int("rows", dropped).Msg("feature rows without admission identity dropped")
	}

	if _, err := p.Loader.SaveCSV(features, "readmission_features"); err != nil {
		return 0, 0, &StageError{Entity: "readmission", Stage: StageAnalyze, Err: err}
	}
	if _, err := p.Loader.SaveFeaturesParquet(rows, "readmission_features"); err != nil {
		return 0, 0, &StageError{Entity: "readmission", Stage: StageAnalyze, Err: err}
	}
	featN, err := p.Loader.ReplaceFeatures(ctx, rows, runID)
	if err != nil {
		return 0, 0, &StageError{Entity: "readmission", Stage: StageAnalyze, Err: err}
	}

	if err := p.backfillReadmissionFlags(ctx, features); err != nil {
		return featN, 0, &StageError{Entity: "readmission", Stage: StageAnalyze, Err: err}
	}

	// Windowed analysis at the source, now that the admissions are loaded.
	window, err := extract.ReadmissionWindow(ctx, p.Pool, p.Cfg.ReadmissionWindowDays, p.Cfg.MinPatientVisits)
	if err != nil {
		return featN, 0, &StageError{Entity: "readmission", Stage: StageAnalyze, Err: err}
	}
	analysisRows, _ := model.ReadmissionRowsFromTable(window)

	if _, err := p.Loader.SaveCSV(window, "readmission_analysis"); err != nil {
		return featN, 0, &StageError{Entity: "readmission", Stage: StageAnalyze, Err: err}
	}
	if _, err := p.Loader.SaveReadmissionsParquet(analysisRows, "readmission_analysis"); err != nil {
		return featN, 0, &StageError{Entity: "readmission", Stage: StageAnalyze, Err: err}
	}
	readmN, err := p.Loader.ReplaceReadmissions(ctx, analysisRows, runID)
	if err != nil {
		return featN, 0, &StageError{Entity: "readmission", Stage: StageAnalyze, Err: err}
	}

	return featN, readmN, nil
}

// backfillReadmissionFlags writes the derived readmission_status back onto
// the admissions sink by natural key.
func (p *Pipeline) backfillReadmissionFlags(ctx context.Context, features *table.Table) error {
	if features.Empty() {
		return nil
	}
	flags, err := features.Select("patient_id", "admission_date", "readmission_status")
	if err != nil {
		return err
	}
	_, err = p.Loader.Upsert(ctx, flags, model.Admissions)
	return err
}
