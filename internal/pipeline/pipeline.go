// Package pipeline sequences Extract → Clean → Load per entity type in
// dependency order and runs the readmission analysis after the entity loads
// complete. Execution is single-threaded and batch-oriented; a stage failure
// halts that entity's run but leaves previously loaded entities in place,
// and the partial success is reported rather than hidden.
package pipeline

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"

	"github.com/gyeh/admitstats/internal/config"
	"github.com/gyeh/admitstats/internal/extract"
	"github.com/gyeh/admitstats/internal/load"
	"github.com/gyeh/admitstats/internal/model"
	"github.com/gyeh/admitstats/internal/table"
	"github.com/gyeh/admitstats/internal/transform"
)

// Stage names used in failure tagging.
const (
	StageExtract = "extract"
	StageClean   = "clean"
	StageLoad    = "load"
	StageAnalyze = "analyze"
	StageSkipped = "skipped"
)

// StageError tags a failure with the entity and stage where it occurred.
type StageError struct {
	Entity string
	Stage  string
	Err    error
}

func (e *StageError) Error() string {
	return fmt.Sprintf("%s/%s: %s", e.Entity, e.Stage, e.Err)
}

func (e *StageError) Unwrap() error {
	return e.Err
}

// entityDeps names the entities that must have loaded before an entity's
// own pipeline is invoked. The readmission analysis is gated the same way:
// it reads and writes back every entity it depends on.
var entityDeps = map[string][]string{
	"admission":   {"patient"},
	"treatment":   {"admission", "diagnosis"},
	"billing":     {"admission"},
	"readmission": {"patient", "admission", "diagnosis", "treatment"},
}

// Pipeline wires the extractor, transformer, and loader for one run.
type Pipeline struct {
	Cfg    *config.Config
	Pool   *pgxpool.Pool
	Files  *extract.FileSource
	Tr     *transform.Transformer
	Loader *load.Loader
	Log    zerolog.Logger
}

// New builds a Pipeline from configuration and a connected pool.
func New(cfg *config.Config, pool *pgxpool.Pool, log zerolog.Logger) *Pipeline {
	return &Pipeline{
		Cfg:    cfg,
		Pool:   pool,
		Files:  &extract.FileSource{Dir: cfg.RawDataDir},
		Tr:     transform.New(cfg.ReadmissionWindowDays),
		Loader: load.New(pool, cfg.ProcessedDataDir, cfg.ChunkSize, log),
		Log:    log,
	}
}

// Run executes the full pipeline: every entity in dependency order, then
// the readmission analysis. The returned summary reports per-entity
// outcomes including failures; Run itself errors only when the whole run
// could not proceed.
func (p *Pipeline) Run(ctx context.Context) (*model.RunSummary, error) {
	totalStart := time.Now()
	runID := uuid.New()
	summary := &model.RunSummary{RunID: runID.String()}

	cleaned := make(map[string]*table.Table, len(model.AllEntities))
	failed := make(map[string]bool)

	for _, e := range model.AllEntities {
		if dep := failedDep(e.Name, failed); dep != "" {
			p.Log.Warn().Str("entity", e.Name).Str("dependency", dep).Msg("skipping entity, dependency failed")
			failed[e.Name] = true
			summary.Entities = append(summary.Entities, model.EntityResult{
				Entity: e.Name,
				Err:    &StageError{Entity: e.Name, Stage: StageSkipped, Err: fmt.Errorf("dependency %s failed", dep)},
			})
			continue
		}

		res := p.runEntity(ctx, e, cleaned)
		if res.Err != nil {
			failed[e.Name] = true
			p.Log.Error().Err(res.Err).Str("entity", e.Name).Msg("entity pipeline halted")
		}
		summary.Entities = append(summary.Entities, res)
	}

	if !p.Cfg.SkipAnalysis {
		if dep := failedDep("readmission", failed); dep != "" {
			// The analysis writes readmission flags back into admissions.
			// Running it over data whose load rolled back would seed the
			// sink with rows the load never committed.
			p.Log.Warn().Str("dependency", dep).Msg("skipping readmission analysis, dependency failed")
			summary.Entities = append(summary.Entities, model.EntityResult{
				Entity: "readmission",
				Err:    &StageError{Entity: "readmission", Stage: StageSkipped, Err: fmt.Errorf("dependency %s failed", dep)},
			})
		} else {
			featN, readmN, err := p.runAnalysis(ctx, runID, cleaned)
			summary.FeatureRows = featN
			summary.ReadmissionRows = readmN
			if err != nil {
				p.Log.Error().Err(err).Msg("readmission analysis failed")
				summary.Entities = append(summary.Entities, model.EntityResult{Entity: "readmission", Err: err})
			}
		}
	}

	summary.DurationTotal = time.Since(totalStart)
	p.Log.Info().
		Str("run_id", summary.RunID).
		Int64("rows_loaded", summary.Loaded()).
		Int("entities_failed", len(summary.Failed())).
		Int64("feature_rows", summary.FeatureRows).
		Str("total_duration", summary.DurationTotal.String()).
		Msg("pipeline complete")
	return summary, nil
}

// runEntity drives one entity through extract → clean → load.
func (p *Pipeline) runEntity(ctx context.Context, e model.Entity, cleaned map[string]*table.Table) model.EntityResult {
	start := time.Now()
	res := model.EntityResult{Entity: e.Name}

	raw, err := p.extractEntity(e)
	if err != nil {
		res.Err = &StageError{Entity: e.Name, Stage: StageExtract, Err: err}
		return res
	}
	res.RowsRead = int64(raw.NumRows())

	clean, err := p.cleanEntity(e, raw)
	if err != nil {
		res.Err = &StageError{Entity: e.Name, Stage: StageClean, Err: err}
		return res
	}

	if _, err := p.Loader.SaveCSV(clean, e.Table+"_clean"); err != nil {
		res.Err = &StageError{Entity: e.Name, Stage: StageLoad, Err: err}
		return res
	}

	n, err := p.Loader.Upsert(ctx, clean, e)
	if err != nil {
		res.Err = &StageError{Entity: e.Name, Stage: StageLoad, Err: err}
		return res
	}
	res.RowsLoaded = n

	if err := p.linkEntity(ctx, e, clean); err != nil {
		res.Err = &StageError{Entity: e.Name, Stage: StageLoad, Err: err}
		return res
	}

	// Downstream stages may only see data the sink has committed.
	cleaned[e.Name] = clean
	res.Duration = time.Since(start)

	p.Log.Info().
		Str("entity", e.Name).
		Int64("rows_read", res.RowsRead).
		Int64("rows_loaded", res.RowsLoaded).
		Str("duration", res.Duration.String()).
		Msg("entity loaded")
	return res
}

// extractEntity reads the entity's configured raw file; spreadsheets by
// extension, delimited text otherwise.
func (p *Pipeline) extractEntity(e model.Entity) (*table.Table, error) {
	name := p.Cfg.SourceFile(e.Name, e.Table)
	switch strings.ToLower(filepath.Ext(name)) {
	case ".xlsx", ".xls":
		return p.Files.Spreadsheet(name, "")
	default:
		return p.Files.CSV(name)
	}
}

func (p *Pipeline) cleanEntity(e model.Entity, raw *table.Table) (*table.Table, error) {
	switch e.Name {
	case "patient":
		return p.Tr.CleanPatients(raw), nil
	case "admission":
		return p.Tr.CleanAdmissions(raw), nil
	case "diagnosis":
		return p.Tr.CleanDiagnoses(raw), nil
	case "treatment":
		return p.Tr.CleanTreatments(raw), nil
	case "procedure":
		return p.Tr.CleanProcedures(raw), nil
	case "billing":
		return p.Tr.CleanBillings(raw), nil
	default:
		return nil, fmt.Errorf("no cleaner for entity %q", e.Name)
	}
}

func failedDep(entity string, failed map[string]bool) string {
	for _, dep := range entityDeps[entity] {
		if failed[dep] {
			return dep
		}
	}
	return ""
}
