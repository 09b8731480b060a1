package httpapi

import (
	"time"

	"github.com/i474232898/seasonal-baseline/internal/climate"
	"github.com/i474232898/seasonal-baseline/internal/ingest"
	"github.com/i474232898/seasonal-baseline/internal/weather"
)

type rowErrorResponse struct {
	Line   int    `json:"line"`
	Reason string `json:"reason"`
}

type importResponse struct {
	Dataset   weather.Dataset    `json:"dataset"`
	RowErrors []rowErrorResponse `json:"rowErrors"`
	Truncated bool               `json:"truncated"`
}

func newImportResponse(r weather.ImportReport) importResponse {
	resp := importResponse{
		Dataset:   r.Dataset,
		RowErrors: make([]rowErrorResponse, 0, min(len(r.Errors), maxReportedRowErrors)),
	}
	for i, e := range r.Errors {
		if i == maxReportedRowErrors {
			resp.Truncated = true
			break
		}
		resp.RowErrors = append(resp.RowErrors, newRowErrorResponse(e))
	}
	return resp
}

func newRowErrorResponse(e ingest.RowError) rowErrorResponse {
	return rowErrorResponse{Line: e.Line, Reason: e.Reason}
}

type summaryResponse struct {
	Count int               `json:"count"`
	Mean  climate.NullFloat `json:"mean"`
	Std   climate.NullFloat `json:"std"`
	Min   climate.NullFloat `json:"min"`
	P25   climate.NullFloat `json:"p25"`
	P50   climate.NullFloat `json:"p50"`
	P75   climate.NullFloat `json:"p75"`
	Max   climate.NullFloat `json:"max"`
}

func newSummaryResponse(s climate.Summary) summaryResponse {
	return summaryResponse{
		Count: s.Count,
		Mean:  climate.NullFloatOf(s.Mean),
		Std:   climate.NullFloatOf(s.Std),
		Min:   climate.NullFloatOf(s.Min),
		P25:   climate.NullFloatOf(s.P25),
		P50:   climate.NullFloatOf(s.P50),
		P75:   climate.NullFloatOf(s.P75),
		Max:   climate.NullFloatOf(s.Max),
	}
}

type seasonStatsResponse struct {
	Season climate.Season    `json:"season"`
	Mean   climate.NullFloat `json:"mean"`
	Std    climate.NullFloat `json:"std"`
	Count  int               `json:"count"`
	CI95   climate.NullFloat `json:"ci95"`
	Lower  climate.NullFloat `json:"lower"`
	Upper  climate.NullFloat `json:"upper"`
}

// newSeasonStatsResponse lists seasons in display order, skipping the ones
// without observations.
func newSeasonStatsResponse(b climate.Baseline) []seasonStatsResponse {
	ordered := b.Ordered()
	out := make([]seasonStatsResponse, 0, len(ordered))
	for _, s := range ordered {
		bounds := s.Bounds()
		out = append(out, seasonStatsResponse{
			Season: s.Season,
			Mean:   climate.NullFloatOf(s.Mean),
			Std:    climate.NullFloatOf(s.Std),
			Count:  s.Count,
			CI95:   climate.NullFloatOf(s.CI95()),
			Lower:  climate.NullFloatOf(bounds.Lower),
			Upper:  climate.NullFloatOf(bounds.Upper),
		})
	}
	return out
}

type boundsResponse struct {
	Lower climate.NullFloat `json:"lower"`
	Upper climate.NullFloat `json:"upper"`
}

type seriesResponse struct {
	City         string                            `json:"city"`
	Window       int                               `json:"window"`
	Timestamps   []time.Time                       `json:"timestamps"`
	Temperatures []float64                         `json:"temperatures,omitempty"`
	Smoothed     []climate.NullFloat               `json:"smoothed,omitempty"`
	Anomalies    []bool                            `json:"anomalies,omitempty"`
	AnomalyCount int                               `json:"anomalyCount"`
	Bounds       map[climate.Season]boundsResponse `json:"bounds"`
}

func newSeriesResponse(v weather.SeriesView, l layers) seriesResponse {
	resp := seriesResponse{
		City:       v.City,
		Window:     v.Window,
		Timestamps: v.Timestamps,
		Bounds:     make(map[climate.Season]boundsResponse, len(v.Baseline)),
	}
	if l.Raw {
		resp.Temperatures = v.Temperatures
	}
	if l.Smoothed {
		resp.Smoothed = v.Smoothed
	}
	if l.Anomalies {
		resp.Anomalies = v.Anomalies
	}
	for _, flagged := range v.Anomalies {
		if flagged {
			resp.AnomalyCount++
		}
	}
	for season, s := range v.Baseline {
		b := s.Bounds()
		resp.Bounds[season] = boundsResponse{
			Lower: climate.NullFloatOf(b.Lower),
			Upper: climate.NullFloatOf(b.Upper),
		}
	}
	return resp
}
