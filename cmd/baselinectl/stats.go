package main

import (
	"fmt"
	"math"
	"strconv"

	"github.com/spf13/cobra"
)

var statsCity string

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show per-season baseline statistics for a city",
	RunE:  runStats,
}

func init() {
	statsCmd.Flags().StringVar(&statsCity, "city", "", "city name (required)")
	_ = statsCmd.MarkFlagRequired("city")
	rootCmd.AddCommand(statsCmd)
}

func runStats(cmd *cobra.Command, args []string) error {
	s, err := openSession(nil)
	if err != nil {
		return err
	}

	baseline, err := s.service.Baseline(s.datasetID, statsCity)
	if err != nil {
		return err
	}
	if len(baseline) == 0 {
		fmt.Printf("No baseline available for %s\n", statsCity)
		return nil
	}

	fmt.Printf("\n%s seasonal baseline:\n", statsCity)
	fmt.Println("----------------------------------------------------------------------")
	fmt.Printf("%-8s  %8s  %8s  %6s  %8s  %10s  %10s\n", "Season", "Mean", "Std", "Count", "CI95", "Lower", "Upper")
	fmt.Println("----------------------------------------------------------------------")
	for _, st := range baseline.Ordered() {
		b := st.Bounds()
		fmt.Printf("%-8s  %8s  %8s  %6d  %8s  %10s  %10s\n",
			st.Season, formatValue(st.Mean), formatValue(st.Std), st.Count,
			formatValue(st.CI95()), formatValue(b.Lower), formatValue(b.Upper))
	}
	return nil
}

// formatValue prints v with two decimals, or "n/a" when undefined.
func formatValue(v float64) string {
	if math.IsNaN(v) {
		return "n/a"
	}
	return strconv.FormatFloat(v, 'f', 2, 64)
}
