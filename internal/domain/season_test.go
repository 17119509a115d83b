package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func floatPtr(v float64) *float64 { return &v }

func metrics(temp, rain float64) WeatherMetrics {
	return WeatherMetrics{AvgTempC: floatPtr(temp), TotalRainMM: floatPtr(rain)}
}

func TestBaseSeason(t *testing.T) {
	tests := []struct {
		month    time.Month
		expected Season
	}{
		{time.January, SeasonRabi},
		{time.February, SeasonRabi},
		{time.March, SeasonRabi},
		{time.April, SeasonSummer},
		{time.May, SeasonSummer},
		{time.June, SeasonKharif},
		{time.July, SeasonKharif},
		{time.August, SeasonKharif},
		{time.September, SeasonKharif},
		{time.October, SeasonKharif},
		{time.November, SeasonRabi},
		{time.December, SeasonRabi},
	}
	for _, tc := range tests {
		t.Run(tc.month.String(), func(t *testing.T) {
			assert.Equal(t, tc.expected, BaseSeason(tc.month))
		})
	}
}

func TestInferSeason_MissingMetricsFallsBackToBase(t *testing.T) {
	// With either metric absent the calendar decides, for every month.
	for m := time.January; m <= time.December; m++ {
		assert.Equal(t, BaseSeason(m), InferSeason(m, WeatherMetrics{}), m.String())
		assert.Equal(t, BaseSeason(m), InferSeason(m, WeatherMetrics{AvgTempC: floatPtr(25)}), m.String())
		assert.Equal(t, BaseSeason(m), InferSeason(m, WeatherMetrics{TotalRainMM: floatPtr(50)}), m.String())
	}
}

func TestInferSeason_WeatherOverrides(t *testing.T) {
	tests := []struct {
		name     string
		month    time.Month
		temp     float64
		rain     float64
		expected Season
	}{
		{"monsoon conditions in a Rabi month", time.December, 26, 55, SeasonKharif},
		{"cool and dry in a Kharif month", time.July, 18, 10, SeasonRabi},
		{"hot and dry in a Rabi month", time.January, 33, 5, SeasonSummer},
		{"no override matches", time.April, 28, 35, SeasonSummer},
		{"no override matches in Kharif month", time.August, 28, 35, SeasonKharif},
		{"rain at threshold", time.December, 22, 40, SeasonKharif},
		{"rain just under threshold", time.December, 22, 39.9, SeasonRabi},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, InferSeason(tc.month, metrics(tc.temp, tc.rain)))
		})
	}
}

func TestInferSeason_OverridePriority(t *testing.T) {
	// avg_temp=25, total_rain=45: the Kharif condition is checked first
	// and must win regardless of the month or any later condition.
	for m := time.January; m <= time.December; m++ {
		assert.Equal(t, SeasonKharif, InferSeason(m, metrics(25, 45)), m.String())
	}
}
