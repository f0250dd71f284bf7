package extract

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	embedsql "github.com/gyeh/admitstats/internal/sql"
	"github.com/gyeh/admitstats/internal/table"
)

// Query runs a parameterized query against the relational source and
// materializes the result as a table. Column names come from the result
// field descriptions.
func Query(ctx context.Context, pool *pgxpool.Pool, query string, args ...any) (*table.Table, error) {
	rows, err := pool.Query(ctx, query, args...)
	if err != nil {
		return nil, classifyQueryErr(err)
	}
	defer rows.Close()

	fds := rows.FieldDescriptions()
	cols := make([]string, len(fds))
	for i, fd := range fds {
		cols[i] = fd.Name
	}

	t := table.New(cols...)
	for rows.Next() {
		vals, err := rows.Values()
		if err != nil {
			return nil, fmt.Errorf("read row values: %w", err)
		}
		cells := make([]any, len(vals))
		for i, v := range vals {
			cells[i] = toCell(v)
		}
		t.MustAppendRow(cells...)
	}
	if err := rows.Err(); err != nil {
		return nil, classifyQueryErr(err)
	}
	return t, nil
}

// ReadmissionWindow runs the windowed join at the source: each admission
// paired with its immediate chronological successor per patient, yielding
// next_admission_date, was_readmitted, and days_to_readmission. Patients
// with fewer than minVisits admissions are excluded.
func ReadmissionWindow(ctx context.Context, pool *pgxpool.Pool, windowDays, minVisits int) (*table.Table, error) {
	return Query(ctx, pool, embedsql.ReadmissionWindow, windowDays, minVisits)
}

// PatientAdmissions extracts admissions joined with patient identity fields,
// for all patients or a single one when patientID is non-nil.
func PatientAdmissions(ctx context.Context, pool *pgxpool.Pool, patientID *int64) (*table.Table, error) {
	return Query(ctx, pool, embedsql.PatientAdmissions, patientID)
}

// Entity extracts all rows of a sink table.
func Entity(ctx context.Context, pool *pgxpool.Pool, tableName string) (*table.Table, error) {
	// Table names come from the fixed entity specs, never from user input.
	return Query(ctx, pool, "SELECT * FROM "+tableName)
}

// classifyQueryErr maps driver failures onto the extraction error taxonomy:
// a missing relation is a missing source, a dead connection is a
// connectivity failure, anything else passes through wrapped.
func classifyQueryErr(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		if pgErr.Code == "42P01" { // undefined_table
			return fmt.Errorf("%w: %s", ErrSourceNotFound, pgErr.Message)
		}
		return fmt.Errorf("query: %w", err)
	}
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return fmt.Errorf("query: %w", err)
	}
	return fmt.Errorf("%w: %v", ErrConnection, err)
}

// toCell narrows driver values to the table cell types.
func toCell(v any) any {
	switch x := v.(type) {
	case nil:
		return nil
	case string, int64, float64, bool, time.Time:
		return x
	case int16:
		return int64(x)
	case int32:
		return int64(x)
	case int:
		return int64(x)
	case float32:
		return float64(x)
	case []byte:
		return string(x)
	default:
		return fmt.Sprintf("%v", x)
	}
}
