package load

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/gyeh/admitstats/internal/db"
	"github.com/gyeh/admitstats/internal/model"
	embedsql "github.com/gyeh/admitstats/internal/sql"
)

// ReplaceFeatures replaces the readmission_features table with this run's
// rows, tagged with the run id, in a single transaction: delete plus COPY
// through a channel-backed source. Empty input is a no-op.
func (l *Loader) ReplaceFeatures(ctx context.Context, rows []model.FeatureRow, runID uuid.UUID) (int64, error) {
	return replaceAnalytic(ctx, l, "readmission_features", embedsql.DeleteFeatureRows,
		model.FeatureColumns(), rows, func(r *model.FeatureRow) { r.RunID = runID })
}

// ReplaceReadmissions replaces the readmission_analysis table with this
// run's windowed rows. Empty input is a no-op.
func (l *Loader) ReplaceReadmissions(ctx context.Context, rows []model.ReadmissionRow, runID uuid.UUID) (int64, error) {
	return replaceAnalytic(ctx, l, "readmission_analysis", embedsql.DeleteReadmissionRows,
		model.ReadmissionColumns(), rows, func(r *model.ReadmissionRow) { r.RunID = runID })
}

func replaceAnalytic[T any, P interface {
	*T
	db.CopyRow
}](ctx context.Context, l *Loader, sink, deleteSQL string, cols []string, rows []T, tag func(P)) (int64, error) {
	if len(rows) == 0 {
		l.Log.Warn().Str("table", sink).Msg("no rows, nothing to load")
		return 0, nil
	}

	tx, err := l.Pool.Begin(ctx)
	if err != nil {
		return 0, &PersistenceError{Table: sink, Err: err}
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, deleteSQL); err != nil {
		return 0, &PersistenceError{Table: sink, Err: err}
	}

	ch := make(chan P, 256)
	go func() {
		defer close(ch)
		for i := range rows {
			p := P(&rows[i])
			tag(p)
			ch <- p
		}
	}()

	n, err := tx.CopyFrom(ctx, pgx.Identifier{sink}, cols, db.NewChannelSource(ch))
	if err != nil {
		return 0, &PersistenceError{Table: sink, Err: err}
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, &PersistenceError{Table: sink, Err: err}
	}

	l.Log.Info().Str("table", sink).Int64("rows", n).Msg("analytic table replaced")
	return n, nil
}
