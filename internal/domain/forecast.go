package domain

import "context"

// forecastWindow is the number of 3-hour samples summarized, ~72 hours.
const forecastWindow = 24

// ForecastSample is one timestamped reading from the upstream forecast.
// Fields are nil when the upstream omitted the value or reported it in a
// non-numeric form.
type ForecastSample struct {
	TempC    *float64
	Rain3hMM *float64
}

// WeatherMetrics summarizes the near-term forecast window. AvgTempC is
// nil when no sample carried a usable temperature; TotalRainMM is nil
// only when the forecast was empty.
type WeatherMetrics struct {
	AvgTempC    *float64 `json:"avg_temp_c"`
	TotalRainMM *float64 `json:"total_rain_mm"`
}

// PlaceCandidate is one geocoding result from the weather provider.
type PlaceCandidate struct {
	Name    string
	State   string
	Country string
	Lat     float64
	Lon     float64
}

// DisplayName builds the canonical "name, state, country" form, omitting
// absent parts. This string keys the place cache.
func (p PlaceCandidate) DisplayName() string {
	out := p.Name
	if p.State != "" {
		out += ", " + p.State
	}
	if p.Country != "" {
		out += ", " + p.Country
	}
	return out
}

// WeatherProvider is the upstream weather API surface the service needs.
type WeatherProvider interface {
	// Geocode resolves a free-text place query to candidate locations.
	Geocode(ctx context.Context, query string, limit int) ([]PlaceCandidate, error)

	// Forecast fetches the 3-hourly forecast for a coordinate, in
	// metric units, ordered by time.
	Forecast(ctx context.Context, lat, lon float64) ([]ForecastSample, error)
}

// SummarizeForecast reduces a forecast to its two guidance scalars over
// the first forecastWindow samples. Samples without a numeric
// temperature are skipped for the average; missing rain readings count
// as 0. An empty forecast produces empty metrics.
func SummarizeForecast(samples []ForecastSample) WeatherMetrics {
	if len(samples) > forecastWindow {
		samples = samples[:forecastWindow]
	}
	if len(samples) == 0 {
		return WeatherMetrics{}
	}

	var (
		tempSum float64
		tempN   int
		rain    float64
	)
	for _, s := range samples {
		if s.TempC != nil {
			tempSum += *s.TempC
			tempN++
		}
		if s.Rain3hMM != nil {
			rain += *s.Rain3hMM
		}
	}

	metrics := WeatherMetrics{TotalRainMM: &rain}
	if tempN > 0 {
		avg := tempSum / float64(tempN)
		metrics.AvgTempC = &avg
	}
	return metrics
}
