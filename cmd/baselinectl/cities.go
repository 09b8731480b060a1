package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var citiesCmd = &cobra.Command{
	Use:   "cities",
	Short: "List the cities in the CSV",
	RunE:  runCities,
}

func init() {
	rootCmd.AddCommand(citiesCmd)
}

func runCities(cmd *cobra.Command, args []string) error {
	s, err := openSession(nil)
	if err != nil {
		return err
	}

	if len(s.cities) == 0 {
		fmt.Println("No cities found")
		return nil
	}
	for _, city := range s.cities {
		fmt.Println(city)
	}
	return nil
}
