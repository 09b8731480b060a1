package weather

import (
	"fmt"
	"math"
	"strconv"
	"time"

	"github.com/i474232898/seasonal-baseline/internal/climate"
	"github.com/i474232898/seasonal-baseline/internal/ingest"
)

// Dataset is an uploaded historical dataset. Observations are read-only once
// stored; every analysis runs over this slice without mutating it.
type Dataset struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"createdAt"` // always UTC
	Rows      int       `json:"rows"`
	Dropped   int       `json:"dropped"`
	Cities    []string  `json:"cities"`

	Observations []climate.Observation `json:"-"`
}

// ImportReport describes the outcome of importing a dataset.
type ImportReport struct {
	Dataset Dataset           `json:"dataset"`
	Errors  []ingest.RowError `json:"-"`
}

// SeriesView is one city's time series with the smoothed and anomaly layers
// kept separate so the presentation layer can show any subset of them.
type SeriesView struct {
	City         string              `json:"city"`
	Window       int                 `json:"window"`
	Timestamps   []time.Time         `json:"timestamps"`
	Temperatures []float64           `json:"temperatures"`
	Smoothed     []climate.NullFloat `json:"smoothed"`
	Anomalies    []bool              `json:"anomalies"`
	Baseline     climate.Baseline    `json:"-"`
}

// LiveCheck is a live reading together with the verdict it produced.
type LiveCheck struct {
	Reading Reading                  `json:"reading"`
	Verdict climate.NormalityVerdict `json:"verdict"`
}

// Message renders the verdict as a sentence with the bounds rounded to two
// decimals. The verdict itself is computed at full precision.
func (c LiveCheck) Message() string {
	v := c.Verdict
	state := "normal"
	if !v.IsNormal {
		state = "NOT normal"
	}
	return fmt.Sprintf("Current temperature in %s is %s and is %s for %s. Normal bounds: %s and %s",
		v.City, round2(v.Temperature), state, v.Season, round2(v.Lower), round2(v.Upper))
}

func round2(v float64) string {
	return strconv.FormatFloat(math.Round(v*100)/100, 'f', -1, 64)
}

// CheckOutcome classifies a live check for monitoring and metrics.
type CheckOutcome string

const (
	OutcomeNormal        CheckOutcome = "normal"
	OutcomeAbnormal      CheckOutcome = "abnormal"
	OutcomeNoBaseline    CheckOutcome = "no_baseline"
	OutcomeMissingSeason CheckOutcome = "missing_season"
	OutcomeInsufficient  CheckOutcome = "insufficient_samples"
	OutcomeProviderError CheckOutcome = "provider_error"
	OutcomeNoProvider    CheckOutcome = "no_provider"
)

// CheckRecord is one entry in the live monitor history for a city.
type CheckRecord struct {
	City      string       `json:"city"`
	CheckedAt time.Time    `json:"checkedAt"` // always UTC
	Outcome   CheckOutcome `json:"outcome"`
	Check     *LiveCheck   `json:"check,omitempty"`
	Error     string       `json:"error,omitempty"`
}
