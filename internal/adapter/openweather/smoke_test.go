//go:build openweather

package openweather

import (
	"context"
	"io"
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/couchcryptid/cropwise-guidance-service/internal/observability"
)

// These tests hit the real OpenWeather API and require a valid
// OPENWEATHER_API_KEY env var.
// Run with: go test -tags=openweather ./internal/adapter/openweather/ -v -count=1

func smokeClient(t *testing.T) *Client {
	t.Helper()
	key := os.Getenv("OPENWEATHER_API_KEY")
	if key == "" {
		t.Fatal("OPENWEATHER_API_KEY must be set to run smoke tests")
	}
	return NewClient(key, 20*time.Second,
		observability.NewMetricsForTesting(),
		slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func TestSmoke_Geocode(t *testing.T) {
	c := smokeClient(t)

	candidates, err := c.Geocode(context.Background(), "Guntur", 5)
	require.NoError(t, err)
	require.NotEmpty(t, candidates)

	assert.Equal(t, "Guntur", candidates[0].Name)
	assert.Equal(t, "IN", candidates[0].Country)
	assert.InDelta(t, 16.3, candidates[0].Lat, 0.5)
}

func TestSmoke_Forecast(t *testing.T) {
	c := smokeClient(t)

	samples, err := c.Forecast(context.Background(), 16.3, 80.44)
	require.NoError(t, err)

	// The 5-day/3-hour API returns 40 samples.
	assert.GreaterOrEqual(t, len(samples), 24)
	require.NotNil(t, samples[0].TempC)
	assert.Greater(t, *samples[0].TempC, -60.0)
	assert.Less(t, *samples[0].TempC, 60.0)
}
