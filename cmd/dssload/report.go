package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/gyeh/admitstats/internal/db"
	"github.com/gyeh/admitstats/internal/exitcode"
	"github.com/gyeh/admitstats/internal/extract"
	"github.com/gyeh/admitstats/internal/logging"
	"github.com/gyeh/admitstats/internal/report"
)

var (
	reportLimit   int
	reportPatient int64
)

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Print readmission rates and recent admissions",
	RunE:  runReport,
}

func init() {
	reportCmd.Flags().IntVar(&reportLimit, "limit", 10, "Number of recent admissions to show")
	reportCmd.Flags().Int64Var(&reportPatient, "patient", 0, "Show the admission history of one patient instead")
	rootCmd.AddCommand(reportCmd)
}

func runReport(cmd *cobra.Command, args []string) error {
	log := logging.Setup(cfg.LogFormat)
	ctx := context.Background()

	if cfg.DSN == "" {
		log.Error().Msg("--dsn or DATABASE_URL is required")
		os.Exit(exitcode.UsageError)
	}

	pool, err := db.NewPool(ctx, cfg.DSN)
	if err != nil {
		log.Error().Err(err).Msg("database connection failed")
		os.Exit(exitcode.DBConnError)
	}
	defer pool.Close()

	if reportPatient > 0 {
		return printPatientHistory(ctx, pool, log)
	}

	rates, err := report.ReadmissionRates(ctx, pool)
	if err != nil {
		log.Error().Err(err).Msg("rate query failed")
		os.Exit(exitcode.ExtractError)
	}

	fmt.Println("=== readmission rates ===")
	fmt.Printf("%-8s %-8s %-10s %10s %12s %8s\n",
		"AGE", "GENDER", "TYPE", "ADMISSIONS", "READMISSIONS", "RATE")
	for _, b := range rates {
		fmt.Printf("%-8s %-8s %-10s %10d %12d %7.2f%%\n",
			b.AgeGroup, b.Gender, b.AdmissionType, b.Admissions, b.Readmissions, b.ReadmissionRate*100)
	}

	recent, err := report.RecentAdmissions(ctx, pool, reportLimit)
	if err != nil {
		log.Error().Err(err).Msg("recent admissions query failed")
		os.Exit(exitcode.ExtractError)
	}

	fmt.Printf("\n=== last %d admissions ===\n", reportLimit)
	for _, a := range recent {
		discharged := "in care"
		if a.DischargeDate != nil {
			discharged = a.DischargeDate.Format("2006-01-02")
		}
		fmt.Printf("#%-6d patient %-6d %s %s admitted %s discharged %s (%s)\n",
			a.AdmissionID, a.PatientID, orDash(a.FirstName), orDash(a.LastName),
			a.AdmissionDate.Format("2006-01-02"), discharged, orDash(a.AdmissionType))
	}
	return nil
}

// printPatientHistory lists every admission of a single patient in
// chronological order.
func printPatientHistory(ctx context.Context, pool *pgxpool.Pool, log zerolog.Logger) error {
	history, err := extract.PatientAdmissions(ctx, pool, &reportPatient)
	if err != nil {
		log.Error().Err(err).Int64("patient_id", reportPatient).Msg("patient history query failed")
		os.Exit(exitcode.ExtractError)
	}

	fmt.Printf("=== patient %d admissions ===\n", reportPatient)
	if history.Empty() {
		fmt.Println("no admissions on record")
		return nil
	}
	for i := 0; i < history.NumRows(); i++ {
		fmt.Printf("#%-6v admitted %s discharged %s type %s disposition %s readmitted %s\n",
			history.Value(i, "admission_id"),
			cellDate(history.Value(i, "admission_date")),
			cellDate(history.Value(i, "discharge_date")),
			cellText(history.Value(i, "admission_type")),
			cellText(history.Value(i, "discharge_disposition")),
			cellText(history.Value(i, "readmission_status")))
	}
	return nil
}

func cellDate(v any) string {
	if ts, ok := v.(time.Time); ok {
		return ts.Format("2006-01-02")
	}
	return "-"
}

func cellText(v any) string {
	switch x := v.(type) {
	case nil:
		return "-"
	case string:
		if x == "" {
			return "-"
		}
		return x
	default:
		return fmt.Sprintf("%v", x)
	}
}

func orDash(s *string) string {
	if s == nil || *s == "" {
		return "-"
	}
	return *s
}
