// Package report runs the read-side queries behind the operational
// dashboard: readmission rates broken down by cohort and a feed of the
// most recent admissions.
package report

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	embedsql "github.com/gyeh/admitstats/internal/sql"
)

// RateBucket is one cohort's readmission rate. Grouping values that were
// missing at load time surface as "unknown".
type RateBucket struct {
	AgeGroup        string  `db:"age_group"`
	Gender          string  `db:"gender"`
	AdmissionType   string  `db:"admission_type"`
	Admissions      int64   `db:"admissions"`
	Readmissions    int64   `db:"readmissions"`
	ReadmissionRate float64 `db:"readmission_rate"`
}

// RecentAdmission is one row of the latest-admissions feed.
type RecentAdmission struct {
	AdmissionID          int64      `db:"admission_id"`
	PatientID            int64      `db:"patient_id"`
	FirstName            *string    `db:"first_name"`
	LastName             *string    `db:"last_name"`
	AdmissionDate        time.Time  `db:"admission_date"`
	DischargeDate        *time.Time `db:"discharge_date"`
	AdmissionType        *string    `db:"admission_type"`
	DischargeDisposition *string    `db:"discharge_disposition"`
}

// ReadmissionRates returns the per-cohort readmission breakdown, ordered
// by age group, gender, and admission type.
func ReadmissionRates(ctx context.Context, pool *pgxpool.Pool) ([]RateBucket, error) {
	rows, err := pool.Query(ctx, embedsql.ReadmissionRates)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, pgx.RowToStructByName[RateBucket])
}

// RecentAdmissions returns the latest n admissions joined to their patient.
func RecentAdmissions(ctx context.Context, pool *pgxpool.Pool, n int) ([]RecentAdmission, error) {
	rows, err := pool.Query(ctx, embedsql.RecentAdmissions, n)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, pgx.RowToStructByName[RecentAdmission])
}
