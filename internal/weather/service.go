package weather

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/i474232898/seasonal-baseline/internal/climate"
	"github.com/i474232898/seasonal-baseline/internal/ingest"
	"github.com/i474232898/seasonal-baseline/internal/observability"
)

// ErrNoProvider is returned by live checks when no provider is configured.
var ErrNoProvider = errors.New("no live weather provider configured")

// Service orchestrates historical datasets, the live provider and the
// statistical core.
type Service struct {
	datasets DatasetStore
	checks   CheckStore
	provider Provider
	metrics  *observability.Metrics
}

// NewService creates a new Service. provider may be nil, in which case live
// checks fail with ErrNoProvider while historical analysis keeps working.
func NewService(datasets DatasetStore, checks CheckStore, provider Provider, metrics *observability.Metrics) *Service {
	return &Service{
		datasets: datasets,
		checks:   checks,
		provider: provider,
		metrics:  metrics,
	}
}

// ImportCSV parses a historical CSV source and stores it as a new dataset.
// Malformed rows are dropped and reported; only header problems fail the import.
func (s *Service) ImportCSV(name string, r io.Reader) (ImportReport, error) {
	res, err := ingest.LoadCSV(r)
	if err != nil {
		return ImportReport{}, err
	}

	ds := Dataset{
		ID:           uuid.NewString(),
		Name:         strings.TrimSpace(name),
		CreatedAt:    clock.Now().UTC(),
		Rows:         len(res.Observations),
		Dropped:      res.Dropped,
		Cities:       climate.Cities(res.Observations),
		Observations: res.Observations,
	}
	if ds.Name == "" {
		ds.Name = ds.ID
	}

	if err := s.datasets.SaveDataset(ds); err != nil {
		return ImportReport{}, fmt.Errorf("save dataset: %w", err)
	}

	s.metrics.ObservationsIngested.Add(float64(ds.Rows))
	s.metrics.ObservationsDropped.Add(float64(ds.Dropped))
	s.metrics.DatasetsImported.Inc()

	if ds.Dropped > 0 {
		log.Printf("INFO: dataset %s imported with %d dropped row(s) out of %d", ds.ID, ds.Dropped, res.Total)
	}

	return ImportReport{Dataset: ds, Errors: res.Errors}, nil
}

// Datasets lists stored datasets.
func (s *Service) Datasets() ([]Dataset, error) {
	return s.datasets.ListDatasets()
}

// Dataset returns one stored dataset.
func (s *Service) Dataset(id string) (Dataset, error) {
	return s.datasets.GetDataset(id)
}

// Cities lists the cities present in a dataset.
func (s *Service) Cities(datasetID string) ([]string, error) {
	ds, err := s.datasets.GetDataset(datasetID)
	if err != nil {
		return nil, err
	}
	return ds.Cities, nil
}

// Describe returns descriptive statistics for one city's temperatures.
func (s *Service) Describe(datasetID, city string) (climate.Summary, error) {
	series, err := s.citySeries(datasetID, city)
	if err != nil {
		return climate.Summary{}, err
	}

	values := make([]float64, len(series))
	for i, o := range series {
		values[i] = o.Temperature
	}
	return climate.Describe(values), nil
}

// Baseline computes the per-season statistics of a city. An empty Baseline
// means the dataset holds no rows for the city.
func (s *Service) Baseline(datasetID, city string) (climate.Baseline, error) {
	ds, err := s.datasets.GetDataset(datasetID)
	if err != nil {
		return nil, err
	}
	return climate.Aggregate(ds.Observations, city), nil
}

// Series builds the chronological series of a city with its rolling mean
// and anomaly flags.
func (s *Service) Series(datasetID, city string, window int) (SeriesView, error) {
	series, err := s.citySeries(datasetID, city)
	if err != nil {
		return SeriesView{}, err
	}
	climate.SortByTime(series)

	baseline := climate.Aggregate(series, city)
	det, err := climate.Detect(series, window, baseline)
	if err != nil {
		return SeriesView{}, err
	}

	view := SeriesView{
		City:         city,
		Window:       window,
		Timestamps:   make([]time.Time, len(series)),
		Temperatures: make([]float64, len(series)),
		Smoothed:     det.Smoothed,
		Anomalies:    det.Anomalies,
		Baseline:     baseline,
	}
	for i, o := range series {
		view.Timestamps[i] = o.Timestamp
		view.Temperatures[i] = o.Temperature
	}
	return view, nil
}

// CheckLive fetches the current temperature of city and judges it against
// the city's seasonal baseline. The baseline is resolved before the provider
// is called, so a city without history never reaches the network. Provider
// errors are returned exactly as the provider produced them.
func (s *Service) CheckLive(ctx context.Context, datasetID, city string) (LiveCheck, error) {
	baseline, err := s.Baseline(datasetID, city)
	if err != nil {
		return LiveCheck{}, err
	}
	if len(baseline) == 0 {
		s.metrics.LiveChecks.WithLabelValues(string(OutcomeNoBaseline)).Inc()
		return LiveCheck{}, fmt.Errorf("%w: %s", climate.ErrNoBaselineForCity, city)
	}

	if s.provider == nil {
		s.metrics.LiveChecks.WithLabelValues(string(OutcomeNoProvider)).Inc()
		return LiveCheck{}, ErrNoProvider
	}

	start := clock.Now()
	reading, err := s.provider.FetchCurrent(ctx, city)
	s.metrics.ProviderDuration.WithLabelValues(s.provider.Name()).Observe(clock.Since(start).Seconds())
	if err != nil {
		s.metrics.LiveChecks.WithLabelValues(string(OutcomeProviderError)).Inc()
		return LiveCheck{}, err
	}

	live := climate.LiveReading{
		Temperature: reading.Temperature,
		Season:      climate.SeasonOf(reading.ObservedAt),
	}

	verdict, err := climate.Check(city, live, baseline)
	if err != nil {
		s.metrics.LiveChecks.WithLabelValues(string(outcomeOf(err))).Inc()
		return LiveCheck{Reading: reading}, err
	}

	check := LiveCheck{Reading: reading, Verdict: verdict}
	s.metrics.LiveChecks.WithLabelValues(string(check.Outcome())).Inc()
	return check, nil
}

// Monitor runs a live check and records its outcome, successful or not,
// in the monitor history.
func (s *Service) Monitor(ctx context.Context, datasetID, city string) error {
	check, err := s.CheckLive(ctx, datasetID, city)

	rec := CheckRecord{
		City:      city,
		CheckedAt: clock.Now().UTC(),
	}
	if err != nil {
		rec.Outcome = outcomeOf(err)
		rec.Error = err.Error()
	} else {
		rec.Outcome = check.Outcome()
		rec.Check = &check
	}
	s.checks.SaveCheck(rec)
	s.metrics.MonitorRuns.Inc()

	return err
}

// LatestCheck returns the most recent monitor record for a city.
func (s *Service) LatestCheck(city string) (CheckRecord, error) {
	return s.checks.GetLatest(city)
}

// CheckHistory returns the monitor records for a city between from and to.
func (s *Service) CheckHistory(city string, from, to time.Time) ([]CheckRecord, error) {
	return s.checks.GetRange(city, from, to)
}

// Outcome classifies a successful check.
func (c LiveCheck) Outcome() CheckOutcome {
	if c.Verdict.IsNormal {
		return OutcomeNormal
	}
	return OutcomeAbnormal
}

func (s *Service) citySeries(datasetID, city string) ([]climate.Observation, error) {
	ds, err := s.datasets.GetDataset(datasetID)
	if err != nil {
		return nil, err
	}
	series := climate.FilterCity(ds.Observations, city)
	if len(series) == 0 {
		return nil, fmt.Errorf("%w: %s", climate.ErrNoBaselineForCity, city)
	}
	return series, nil
}

func outcomeOf(err error) CheckOutcome {
	switch {
	case errors.Is(err, climate.ErrNoBaselineForCity):
		return OutcomeNoBaseline
	case errors.Is(err, climate.ErrMissingBaseline):
		return OutcomeMissingSeason
	case errors.Is(err, climate.ErrInsufficientSamples):
		return OutcomeInsufficient
	case errors.Is(err, ErrNoProvider):
		return OutcomeNoProvider
	default:
		return OutcomeProviderError
	}
}
