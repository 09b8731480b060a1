package main

import (
	"context"
	"fmt"
	"net/http"

	"github.com/spf13/cobra"

	"github.com/i474232898/seasonal-baseline/internal/config"
	"github.com/i474232898/seasonal-baseline/internal/weather/providers"
)

var checkCity string

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Check the current temperature of a city against its seasonal baseline",
	Long: `Fetches the current temperature from the provider selected by LIVE_PROVIDER
(credentials are read from the environment or .env) and reports whether it lies
within the normal bounds of the current season.`,
	RunE: runCheck,
}

func init() {
	checkCmd.Flags().StringVar(&checkCity, "city", "", "city name (required)")
	_ = checkCmd.MarkFlagRequired("city")
	rootCmd.AddCommand(checkCmd)
}

func runCheck(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	provider, err := providers.New(&http.Client{Timeout: cfg.HTTPTimeout}, providers.Settings{
		Name:              cfg.LiveProvider,
		OpenWeatherAPIKey: cfg.OpenWeatherAPIKey,
		WeatherAPIKey:     cfg.WeatherAPIKey,
		GeocoderAPIKey:    cfg.GeocoderAPIKey,
		MaxRetries:        cfg.ProviderMaxRetries,
	})
	if err != nil {
		return err
	}

	s, err := openSession(provider)
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	check, err := s.service.CheckLive(ctx, s.datasetID, checkCity)
	if err != nil {
		return err
	}

	fmt.Println(check.Message())
	fmt.Printf("Observed at %s by %s\n", check.Reading.ObservedAt.Format("2006-01-02 15:04 MST"), check.Reading.ProviderName)
	return nil
}
