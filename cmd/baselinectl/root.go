package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/i474232898/seasonal-baseline/internal/observability"
	"github.com/i474232898/seasonal-baseline/internal/store"
	"github.com/i474232898/seasonal-baseline/internal/weather"
)

var csvPath string

var rootCmd = &cobra.Command{
	Use:   "baselinectl",
	Short: "Inspect seasonal temperature baselines from a historical CSV",
	Long: `baselinectl loads a historical temperature CSV (city, timestamp, temperature and
an optional season column) and derives per-season baselines from it. It can flag
historical anomalies and check a live reading against the baseline.`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&csvPath, "csv", "", "historical CSV file (required)")
	_ = rootCmd.MarkPersistentFlagRequired("csv")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// session is a service with the CSV already imported.
type session struct {
	service   *weather.Service
	datasetID string
	cities    []string
}

// openSession imports the --csv file into an in-memory service.
func openSession(provider weather.Provider) (*session, error) {
	f, err := os.Open(csvPath)
	if err != nil {
		return nil, fmt.Errorf("opening csv: %w", err)
	}
	defer f.Close()

	svc := weather.NewService(
		store.NewMemoryDatasetStore(1),
		store.NewMemoryCheckStore(1, 0, nil),
		provider,
		observability.NewUnregisteredMetrics(),
	)

	report, err := svc.ImportCSV(filepath.Base(csvPath), f)
	if err != nil {
		return nil, fmt.Errorf("importing csv: %w", err)
	}
	if n := len(report.Errors); n > 0 {
		fmt.Fprintf(os.Stderr, "warning: dropped %d malformed row(s)\n", n)
		for i, e := range report.Errors {
			if i == 5 {
				fmt.Fprintf(os.Stderr, "  ... and %d more\n", n-i)
				break
			}
			fmt.Fprintf(os.Stderr, "  %s\n", e.Error())
		}
	}

	return &session{
		service:   svc,
		datasetID: report.Dataset.ID,
		cities:    report.Dataset.Cities,
	}, nil
}
