package load

import (
	"context"
	"fmt"
	"strings"

	"github.com/gyeh/admitstats/internal/model"
	embedsql "github.com/gyeh/admitstats/internal/sql"
	"github.com/gyeh/admitstats/internal/table"
)

// Upsert writes a table into an entity's sink table with
// update-if-exists-else-insert semantics on the natural key. Only columns in
// the entity's allow-list are written; unknown input columns are ignored.
// The whole call runs in one transaction: a mid-write failure rolls back
// every chunk and reports a PersistenceError. Returns the number of rows
// written.
func (l *Loader) Upsert(ctx context.Context, t *table.Table, e model.Entity) (int64, error) {
	if t == nil || t.Empty() {
		l.Log.Warn().Str("entity", e.Name).Msg("empty table, nothing to load")
		return 0, nil
	}
	if missing := t.MissingColumns(e.KeyColumns...); len(missing) > 0 {
		return 0, &PersistenceError{Table: e.Table,
			Err: fmt.Errorf("input missing natural key columns: %s", strings.Join(missing, ", "))}
	}

	// Write columns: the full natural key plus whichever allow-listed
	// columns the input carries. A raw-feed surrogate id is inserted so
	// cross-feed foreign keys stay consistent, but never updated.
	cols := append([]string(nil), e.KeyColumns...)
	if t.HasColumn("id") {
		cols = append(cols, "id")
	}
	for _, c := range e.Updatable {
		if t.HasColumn(c) {
			cols = append(cols, c)
		}
	}

	// Raw feeds repeat natural keys (the same diagnosis coded on several
	// rows, a re-sent patient record). ON CONFLICT DO UPDATE rejects a
	// statement that touches one key twice, so collapse duplicates first.
	rows := dedupeByKey(t, e.KeyColumns)
	if dropped := t.NumRows() - len(rows); dropped > 0 {
		l.Log.Warn().Str("entity", e.Name).Int("rows", dropped).
			Msg("duplicate natural keys in batch, keeping last occurrence")
	}

	tx, err := l.Pool.Begin(ctx)
	if err != nil {
		return 0, &PersistenceError{Table: e.Table, Err: err}
	}
	defer tx.Rollback(ctx)

	var total int64
	for start := 0; start < len(rows); start += l.ChunkSize {
		end := start + l.ChunkSize
		if end > len(rows) {
			end = len(rows)
		}

		query, args := buildUpsert(e, cols, t, rows[start:end])
		tag, err := tx.Exec(ctx, query, args...)
		if err != nil {
			return 0, &PersistenceError{Table: e.Table, Err: err}
		}
		total += tag.RowsAffected()
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, &PersistenceError{Table: e.Table, Err: err}
	}

	l.Log.Info().Str("entity", e.Name).Int64("rows", total).Msg("upsert complete")
	return total, nil
}

// dedupeByKey returns the row indices to write, at most one per natural
// key. When a key repeats, the last row wins but keeps the position of the
// first, so feed order is preserved.
func dedupeByKey(t *table.Table, keys []string) []int {
	seen := make(map[string]int, t.NumRows())
	order := make([]int, 0, t.NumRows())
	for i := 0; i < t.NumRows(); i++ {
		var sb strings.Builder
		for _, k := range keys {
			fmt.Fprintf(&sb, "%v\x00", t.Value(i, k))
		}
		key := sb.String()
		if pos, ok := seen[key]; ok {
			order[pos] = i
			continue
		}
		seen[key] = len(order)
		order = append(order, i)
	}
	return order
}

// buildUpsert renders a multi-row INSERT ... ON CONFLICT statement for the
// given row indices with positional parameters. rows must not repeat a
// natural key.
func buildUpsert(e model.Entity, cols []string, t *table.Table, rows []int) (string, []any) {
	var sb strings.Builder
	fmt.Fprintf(&sb, "INSERT INTO %s (%s) VALUES ", e.Table, strings.Join(cols, ", "))

	args := make([]any, 0, len(rows)*len(cols))
	for n, i := range rows {
		if n > 0 {
			sb.WriteString(", ")
		}
		sb.WriteByte('(')
		for j, c := range cols {
			if j > 0 {
				sb.WriteString(", ")
			}
			args = append(args, t.Value(i, c))
			fmt.Fprintf(&sb, "$%d", len(args))
		}
		sb.WriteByte(')')
	}

	fmt.Fprintf(&sb, " ON CONFLICT (%s)", strings.Join(e.KeyColumns, ", "))
	var updates []string
	for _, c := range cols[len(e.KeyColumns):] {
		if c == "id" {
			continue
		}
		updates = append(updates, fmt.Sprintf("%s = EXCLUDED.%s", c, c))
	}
	if len(updates) == 0 {
		sb.WriteString(" DO NOTHING")
		return sb.String(), args
	}
	sb.WriteString(" DO UPDATE SET ")
	sb.WriteString(strings.Join(updates, ", "))
	return sb.String(), args
}

// LinkPatientDiagnosis records a patient↔diagnosis association. Links have
// set-union semantics: inserting an existing pair changes nothing.
func (l *Loader) LinkPatientDiagnosis(ctx context.Context, patientID, diagnosisID int64) error {
	if _, err := l.Pool.Exec(ctx, embedsql.LinkPatientDiagnosis, patientID, diagnosisID); err != nil {
		return &PersistenceError{Table: "patient_diagnosis", Err: err}
	}
	return nil
}

// LinkTreatmentProcedure records a treatment↔procedure association with
// set-union semantics.
func (l *Loader) LinkTreatmentProcedure(ctx context.Context, treatmentID, procedureID int64) error {
	if _, err := l.Pool.Exec(ctx, embedsql.LinkTreatmentProcedure, treatmentID, procedureID); err != nil {
		return &PersistenceError{Table: "treatment_procedures", Err: err}
	}
	return nil
}
