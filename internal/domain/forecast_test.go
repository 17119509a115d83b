package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSummarizeForecast(t *testing.T) {
	t.Run("empty forecast yields empty metrics", func(t *testing.T) {
		m := SummarizeForecast(nil)
		assert.Nil(t, m.AvgTempC)
		assert.Nil(t, m.TotalRainMM)
	})

	t.Run("averages temperature and sums rain", func(t *testing.T) {
		samples := []ForecastSample{
			{TempC: floatPtr(20), Rain3hMM: floatPtr(1.5)},
			{TempC: floatPtr(30), Rain3hMM: floatPtr(2.5)},
		}
		m := SummarizeForecast(samples)
		require.NotNil(t, m.AvgTempC)
		require.NotNil(t, m.TotalRainMM)
		assert.Equal(t, 25.0, *m.AvgTempC)
		assert.Equal(t, 4.0, *m.TotalRainMM)
	})

	t.Run("missing temperatures are skipped from the average", func(t *testing.T) {
		samples := []ForecastSample{
			{TempC: floatPtr(20)},
			{TempC: nil, Rain3hMM: floatPtr(3)},
			{TempC: floatPtr(40)},
		}
		m := SummarizeForecast(samples)
		require.NotNil(t, m.AvgTempC)
		assert.Equal(t, 30.0, *m.AvgTempC)
		assert.Equal(t, 3.0, *m.TotalRainMM)
	})

	t.Run("no usable temperature yields nil average but zero rain", func(t *testing.T) {
		samples := []ForecastSample{{}, {}}
		m := SummarizeForecast(samples)
		assert.Nil(t, m.AvgTempC)
		require.NotNil(t, m.TotalRainMM)
		assert.Equal(t, 0.0, *m.TotalRainMM)
	})

	t.Run("only the first 24 samples count", func(t *testing.T) {
		samples := make([]ForecastSample, 30)
		for i := range samples {
			samples[i] = ForecastSample{TempC: floatPtr(20), Rain3hMM: floatPtr(1)}
		}
		// Samples past the window would skew both metrics if counted.
		for i := 24; i < 30; i++ {
			samples[i] = ForecastSample{TempC: floatPtr(100), Rain3hMM: floatPtr(100)}
		}
		m := SummarizeForecast(samples)
		assert.Equal(t, 20.0, *m.AvgTempC)
		assert.Equal(t, 24.0, *m.TotalRainMM)
	})
}

func TestPlaceCandidateDisplayName(t *testing.T) {
	tests := []struct {
		name      string
		candidate PlaceCandidate
		expected  string
	}{
		{"all parts", PlaceCandidate{Name: "Guntur", State: "Andhra Pradesh", Country: "IN"}, "Guntur, Andhra Pradesh, IN"},
		{"no state", PlaceCandidate{Name: "Guntur", Country: "IN"}, "Guntur, IN"},
		{"name only", PlaceCandidate{Name: "Guntur"}, "Guntur"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, tc.candidate.DisplayName())
		})
	}
}
