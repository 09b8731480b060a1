package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var describeCity string

var describeCmd = &cobra.Command{
	Use:   "describe",
	Short: "Show descriptive statistics of a city's temperatures",
	RunE:  runDescribe,
}

func init() {
	describeCmd.Flags().StringVar(&describeCity, "city", "", "city name (required)")
	_ = describeCmd.MarkFlagRequired("city")
	rootCmd.AddCommand(describeCmd)
}

func runDescribe(cmd *cobra.Command, args []string) error {
	s, err := openSession(nil)
	if err != nil {
		return err
	}

	sum, err := s.service.Describe(s.datasetID, describeCity)
	if err != nil {
		return err
	}

	fmt.Printf("\n%s temperature (°C):\n", describeCity)
	fmt.Println("------------------------")
	fmt.Printf("%-6s  %14d\n", "count", sum.Count)
	rows := []struct {
		label string
		value float64
	}{
		{"mean", sum.Mean},
		{"std", sum.Std},
		{"min", sum.Min},
		{"25%", sum.P25},
		{"50%", sum.P50},
		{"75%", sum.P75},
		{"max", sum.Max},
	}
	for _, r := range rows {
		fmt.Printf("%-6s  %14s\n", r.label, formatValue(r.value))
	}
	return nil
}
