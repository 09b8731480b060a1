package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/i474232898/seasonal-baseline/internal/climate"
)

var (
	anomaliesCity   string
	anomaliesWindow int
	onlyAnomalies   bool
)

var anomaliesCmd = &cobra.Command{
	Use:   "anomalies",
	Short: "Print a city's series with its rolling mean and anomaly flags",
	Long: `Prints the chronological series of a city together with a centered rolling
mean and a flag for every point outside the mean ± 2σ bounds of its season.`,
	RunE: runAnomalies,
}

func init() {
	anomaliesCmd.Flags().StringVar(&anomaliesCity, "city", "", "city name (required)")
	anomaliesCmd.Flags().IntVar(&anomaliesWindow, "window", 30, "rolling mean window in points (1-365)")
	anomaliesCmd.Flags().BoolVar(&onlyAnomalies, "only-anomalies", false, "print flagged points only")
	_ = anomaliesCmd.MarkFlagRequired("city")
	rootCmd.AddCommand(anomaliesCmd)
}

func runAnomalies(cmd *cobra.Command, args []string) error {
	if anomaliesWindow < 1 || anomaliesWindow > 365 {
		return fmt.Errorf("window must be between 1 and 365")
	}

	s, err := openSession(nil)
	if err != nil {
		return err
	}

	view, err := s.service.Series(s.datasetID, anomaliesCity, anomaliesWindow)
	if err != nil {
		return err
	}

	fmt.Printf("\n%s series (window %d):\n", view.City, view.Window)
	fmt.Println("--------------------------------------------------")
	fmt.Printf("%-20s  %10s  %10s  %s\n", "Timestamp", "Temp", "Smoothed", "Anomaly")
	fmt.Println("--------------------------------------------------")

	var flagged int
	for i, ts := range view.Timestamps {
		if view.Anomalies[i] {
			flagged++
		} else if onlyAnomalies {
			continue
		}
		fmt.Printf("%-20s  %10.2f  %10s  %s\n",
			ts.Format("2006-01-02 15:04"), view.Temperatures[i], formatSmoothed(view.Smoothed[i]), flagMark(view.Anomalies[i]))
	}

	fmt.Println("--------------------------------------------------")
	fmt.Printf("%d anomalies out of %d points\n", flagged, len(view.Timestamps))
	return nil
}

func formatSmoothed(v climate.NullFloat) string {
	if !v.Valid {
		return "-"
	}
	return fmt.Sprintf("%.2f", v.Float64)
}

func flagMark(anomaly bool) string {
	if anomaly {
		return "*"
	}
	return ""
}
