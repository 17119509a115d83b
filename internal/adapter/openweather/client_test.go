package openweather

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/sony/gobreaker"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/couchcryptid/cropwise-guidance-service/internal/domain"
	"github.com/couchcryptid/cropwise-guidance-service/internal/observability"
)

const testAPIKey = "test-key"

func testClient(geoURL, forecastURL string) *Client {
	return &Client{
		apiKey:          testAPIKey,
		httpClient:      &http.Client{Timeout: 5 * time.Second},
		geoBaseURL:      geoURL,
		forecastBaseURL: forecastURL,
		breaker:         gobreaker.NewCircuitBreaker(gobreaker.Settings{Name: "test"}),
		metrics:         observability.NewMetricsForTesting(),
		logger:          slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
}

func TestGeocode_Success(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Guntur, IN", r.URL.Query().Get("q"))
		assert.Equal(t, "5", r.URL.Query().Get("limit"))
		assert.Equal(t, testAPIKey, r.URL.Query().Get("appid"))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[{"name":"Guntur","state":"Andhra Pradesh","country":"IN","lat":16.3,"lon":80.44}]`))
	}))
	defer srv.Close()

	c := testClient(srv.URL, srv.URL)
	candidates, err := c.Geocode(context.Background(), "Guntur", 5)
	require.NoError(t, err)

	require.Len(t, candidates, 1)
	assert.Equal(t, "Guntur", candidates[0].Name)
	assert.Equal(t, "Andhra Pradesh", candidates[0].State)
	assert.Equal(t, "IN", candidates[0].Country)
	assert.Equal(t, 16.3, candidates[0].Lat)
	assert.Equal(t, 80.44, candidates[0].Lon)
}

func TestGeocode_CountryBias(t *testing.T) {
	tests := []struct {
		name     string
		query    string
		expected string
	}{
		{"bare place gets bias", "Guntur", "Guntur, IN"},
		{"country code present", "Guntur,IN", "Guntur,IN"},
		{"country code lowercase", "guntur,in", "guntur,in"},
		{"country name present", "Guntur, India", "Guntur, India"},
		{"other region still biased", "Guntur, AP", "Guntur, AP, IN"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, biasQuery(tc.query))
		})
	}
}

func TestGeocode_MissingAPIKey(t *testing.T) {
	c := testClient("http://unused", "http://unused")
	c.apiKey = ""

	_, err := c.Geocode(context.Background(), "Guntur", 5)
	require.Error(t, err)
	var derr *domain.Error
	require.ErrorAs(t, err, &derr)
	assert.Equal(t, domain.KindConfig, derr.Kind)
}

func TestGeocode_UpstreamFailures(t *testing.T) {
	t.Run("non-200 status", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			http.Error(w, "invalid api key", http.StatusUnauthorized)
		}))
		defer srv.Close()

		c := testClient(srv.URL, srv.URL)
		_, err := c.Geocode(context.Background(), "Guntur", 5)
		var derr *domain.Error
		require.ErrorAs(t, err, &derr)
		assert.Equal(t, domain.KindUpstream, derr.Kind)
		assert.Contains(t, derr.Message, "401")
	})

	t.Run("non-JSON body", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			_, _ = w.Write([]byte("<html>gateway timeout</html>"))
		}))
		defer srv.Close()

		c := testClient(srv.URL, srv.URL)
		_, err := c.Geocode(context.Background(), "Guntur", 5)
		var derr *domain.Error
		require.ErrorAs(t, err, &derr)
		assert.Equal(t, domain.KindUpstream, derr.Kind)
	})

	t.Run("connection refused", func(t *testing.T) {
		c := testClient("http://127.0.0.1:1", "http://127.0.0.1:1")
		_, err := c.Geocode(context.Background(), "Guntur", 5)
		var derr *domain.Error
		require.ErrorAs(t, err, &derr)
		assert.Equal(t, domain.KindUpstream, derr.Kind)
	})
}

func TestForecast_Success(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "16.3", r.URL.Query().Get("lat"))
		assert.Equal(t, "80.44", r.URL.Query().Get("lon"))
		assert.Equal(t, "metric", r.URL.Query().Get("units"))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"list":[
			{"main":{"temp":27.5},"rain":{"3h":1.2}},
			{"main":{"temp":26.0}},
			{"main":{"temp":"n/a"},"rain":{"3h":"trace"}}
		]}`))
	}))
	defer srv.Close()

	c := testClient(srv.URL, srv.URL)
	samples, err := c.Forecast(context.Background(), 16.3, 80.44)
	require.NoError(t, err)

	require.Len(t, samples, 3)
	assert.Equal(t, 27.5, *samples[0].TempC)
	assert.Equal(t, 1.2, *samples[0].Rain3hMM)
	assert.Equal(t, 26.0, *samples[1].TempC)
	assert.Nil(t, samples[1].Rain3hMM)
	// Non-numeric readings are treated as absent, not as errors.
	assert.Nil(t, samples[2].TempC)
	assert.Nil(t, samples[2].Rain3hMM)
}

func TestForecast_MissingAPIKey(t *testing.T) {
	c := testClient("http://unused", "http://unused")
	c.apiKey = ""

	_, err := c.Forecast(context.Background(), 16.3, 80.44)
	var derr *domain.Error
	require.ErrorAs(t, err, &derr)
	assert.Equal(t, domain.KindConfig, derr.Kind)
}

func TestClient_BreakerOpensAfterRepeatedFailures(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "boom", http.StatusBadGateway)
	}))
	defer srv.Close()

	c := testClient(srv.URL, srv.URL)
	for range 10 {
		_, _ = c.Geocode(context.Background(), "Guntur", 5)
	}

	// Once open, calls fail fast without reaching upstream and still
	// read as upstream errors.
	_, err := c.Geocode(context.Background(), "Guntur", 5)
	var derr *domain.Error
	require.ErrorAs(t, err, &derr)
	assert.Equal(t, domain.KindUpstream, derr.Kind)
}
