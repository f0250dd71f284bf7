package pipeline

import (
	"context"
	"errors"
	"strconv"
	"strings"

	"github.com/gyeh/admitstats/internal/extract"
	"github.com/gyeh/admitstats/internal/model"
	"github.com/gyeh/admitstats/internal/table"
)

// linkEntity records association rows once an entity's own load succeeds.
func (p *Pipeline) linkEntity(ctx context.Context, e model.Entity, clean *table.Table) error {
	switch e.Name {
	case "diagnosis":
		return p.linkPatientDiagnoses(ctx, clean)
	case "treatment":
		return p.linkTreatmentProcedures(ctx)
	default:
		return nil
	}
}

// linkPatientDiagnoses derives patient_diagnosis rows from the diagnosis
// feed itself, which carries both identifiers.
func (p *Pipeline) linkPatientDiagnoses(ctx context.Context, diagnoses *table.Table) error {
	if !diagnoses.HasColumn("patient_id") || !diagnoses.HasColumn("id") {
		p.Log.Debug().Msg("diagnosis feed carries no identifiers, skipping patient links")
		return nil
	}
	for i := 0; i < diagnoses.NumRows(); i++ {
		patientID, ok := linkID(diagnoses.Value(i, "patient_id"))
		if !ok {
			continue
		}
		diagnosisID, ok := linkID(diagnoses.Value(i, "id"))
		if !ok {
			continue
		}
		if err := p.Loader.LinkPatientDiagnosis(ctx, patientID, diagnosisID); err != nil {
			return err
		}
	}
	return nil
}

// linkTreatmentProcedures loads the optional cross-reference feed. Feeds
// without one are common, so a missing file is not an error.
func (p *Pipeline) linkTreatmentProcedures(ctx context.Context) error {
	name := p.Cfg.SourceFile("treatment_procedure", "treatment_procedures")
	xref, err := p.Files.CSV(name)
	if errors.Is(err, extract.ErrSourceNotFound) {
		p.Log.Debug().Str("file", name).Msg("no treatment procedure feed, skipping links")
		return nil
	}
	if err != nil {
		return err
	}
	if !xref.HasColumn("treatment_id") || !xref.HasColumn("procedure_id") {
		p.Log.Warn().Str("file", name).Msg("treatment procedure feed missing identifier columns")
		return nil
	}
	for i := 0; i < xref.NumRows(); i++ {
		treatmentID, ok := linkID(xref.Value(i, "treatment_id"))
		if !ok {
			continue
		}
		procedureID, ok := linkID(xref.Value(i, "procedure_id"))
		if !ok {
			continue
		}
		if err := p.Loader.LinkTreatmentProcedure(ctx, treatmentID, procedureID); err != nil {
			return err
		}
	}
	return nil
}

// linkID coerces a cell to an identifier. Raw feeds arrive as text while
// cleaned tables already carry int64.
func linkID(v any) (int64, bool) {
	switch x := v.(type) {
	case int64:
		return x, true
	case float64:
		return int64(x), true
	case string:
		n, err := strconv.ParseInt(strings.TrimSpace(x), 10, 64)
		if err != nil {
			return 0, false
		}
		return n, true
	default:
		return 0, false
	}
}
