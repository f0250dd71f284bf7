package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/gyeh/admitstats/internal/config"
	"github.com/gyeh/admitstats/internal/exitcode"
)

var cfg = config.FromEnv()

var rootCmd = &cobra.Command{
	Use:   "dssload",
	Short: "Hospital records ETL and readmission analysis",
	Long:  "Extracts raw hospital feeds, cleans and loads them into Postgres, and engineers the 30-day readmission feature set for the decision-support dashboard.",
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVar(&cfg.DSN, "dsn", cfg.DSN, "Postgres connection string (or set DATABASE_URL)")
	pf.StringVar(&cfg.LogFormat, "log-format", cfg.LogFormat, "Log format: text or json")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(exitcode.UsageError)
	}
}
