// Package openweather implements domain.WeatherProvider against the
// OpenWeather geocoding and 5-day/3-hour forecast APIs.
package openweather

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/sony/gobreaker"

	"github.com/couchcryptid/cropwise-guidance-service/internal/domain"
	"github.com/couchcryptid/cropwise-guidance-service/internal/observability"
)

const (
	geoEndpoint      = "geocode"
	forecastEndpoint = "forecast"
)

// Client calls the OpenWeather API. A circuit breaker fails calls fast
// during sustained upstream outages; there is no automatic retry.
type Client struct {
	apiKey          string
	httpClient      *http.Client
	geoBaseURL      string
	forecastBaseURL string
	breaker         *gobreaker.CircuitBreaker
	metrics         *observability.Metrics
	logger          *slog.Logger
}

// NewClient creates an OpenWeather client with the given request
// timeout. An empty apiKey is allowed; calls then fail with a
// configuration error.
func NewClient(apiKey string, timeout time.Duration, metrics *observability.Metrics, logger *slog.Logger) *Client {
	cb := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "openweather",
		MaxRequests: 5,
		Interval:    1 * time.Minute,
		Timeout:     2 * time.Minute,
	})

	return &Client{
		apiKey:          apiKey,
		httpClient:      &http.Client{Timeout: timeout},
		geoBaseURL:      "http://api.openweathermap.org/geo/1.0/direct",
		forecastBaseURL: "https://api.openweathermap.org/data/2.5/forecast",
		breaker:         cb,
		metrics:         metrics,
		logger:          logger,
	}
}

// Geocode resolves a free-text place query to up to limit candidates.
// Queries without an explicit country marker are biased to India.
func (c *Client) Geocode(ctx context.Context, query string, limit int) ([]domain.PlaceCandidate, error) {
	if c.apiKey == "" {
		return nil, domain.ConfigError("OPENWEATHER_API_KEY not set on server")
	}

	params := url.Values{
		"q":     {biasQuery(query)},
		"limit": {fmt.Sprint(limit)},
		"appid": {c.apiKey},
	}

	var results []geoResult
	if err := c.getJSON(ctx, geoEndpoint, c.geoBaseURL+"?"+params.Encode(), &results); err != nil {
		return nil, err
	}

	candidates := make([]domain.PlaceCandidate, len(results))
	for i, r := range results {
		candidates[i] = domain.PlaceCandidate{
			Name:    r.Name,
			State:   r.State,
			Country: r.Country,
			Lat:     r.Lat,
			Lon:     r.Lon,
		}
	}
	return candidates, nil
}

// Forecast fetches the 3-hourly forecast for a coordinate in metric
// units, ordered by time.
func (c *Client) Forecast(ctx context.Context, lat, lon float64) ([]domain.ForecastSample, error) {
	if c.apiKey == "" {
		return nil, domain.ConfigError("OPENWEATHER_API_KEY not set on server")
	}

	params := url.Values{
		"lat":   {fmt.Sprint(lat)},
		"lon":   {fmt.Sprint(lon)},
		"appid": {c.apiKey},
		"units": {"metric"},
	}

	var resp forecastResponse
	if err := c.getJSON(ctx, forecastEndpoint, c.forecastBaseURL+"?"+params.Encode(), &resp); err != nil {
		return nil, err
	}

	samples := make([]domain.ForecastSample, len(resp.List))
	for i, item := range resp.List {
		samples[i] = domain.ForecastSample{
			TempC:    item.Main.Temp.value,
			Rain3hMM: item.Rain.ThreeHour.value,
		}
	}
	return samples, nil
}

// biasQuery appends the India country code unless the caller already
// specified one of the recognized markers (case-insensitive).
func biasQuery(query string) string {
	q := strings.TrimSpace(query)
	upper := strings.ToUpper(q)
	if strings.Contains(upper, ",IN") || strings.Contains(upper, ", INDIA") {
		return q
	}
	return q + ", IN"
}

// getJSON performs one GET through the circuit breaker and decodes the
// response into out. Transport failures, non-200 statuses, non-JSON
// bodies, and an open breaker all surface as upstream errors.
func (c *Client) getJSON(ctx context.Context, endpoint, fullURL string, out any) error {
	start := time.Now()
	_, err := c.breaker.Execute(func() (any, error) {
		return nil, c.doGet(ctx, fullURL, out)
	})
	c.metrics.UpstreamDuration.WithLabelValues(endpoint).Observe(time.Since(start).Seconds())

	if err != nil {
		c.metrics.UpstreamRequests.WithLabelValues(endpoint, "error").Inc()
		c.logger.Warn("openweather request failed", "endpoint", endpoint, "error", err)
		var derr *domain.Error
		if !errors.As(err, &derr) {
			// Breaker-open and other non-classified failures read as
			// upstream errors to the caller.
			err = domain.Upstream("Upstream request failed", err)
		}
		return err
	}

	c.metrics.UpstreamRequests.WithLabelValues(endpoint, "success").Inc()
	return nil
}

func (c *Client) doGet(ctx context.Context, fullURL string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
	if err != nil {
		return domain.Upstream("Upstream request failed", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return domain.Upstream("Upstream request failed", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return domain.Upstream(fmt.Sprintf("Upstream error %d: %s", resp.StatusCode, body), nil)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return domain.Upstream("Upstream returned non-JSON response", err)
	}
	return nil
}

// OpenWeather API response types.

type geoResult struct {
	Name    string  `json:"name"`
	State   string  `json:"state"`
	Country string  `json:"country"`
	Lat     float64 `json:"lat"`
	Lon     float64 `json:"lon"`
}

type forecastResponse struct {
	List []forecastItem `json:"list"`
}

type forecastItem struct {
	Main struct {
		Temp optionalFloat `json:"temp"`
	} `json:"main"`
	Rain struct {
		ThreeHour optionalFloat `json:"3h"`
	} `json:"rain"`
}

// optionalFloat decodes a JSON number, treating any non-numeric value as
// absent rather than failing the whole payload.
type optionalFloat struct {
	value *float64
}

func (o *optionalFloat) UnmarshalJSON(b []byte) error {
	var v float64
	if err := json.Unmarshal(b, &v); err != nil {
		return nil
	}
	o.value = &v
	return nil
}
