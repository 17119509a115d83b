package domain

import "time"

// Season is an Indian agricultural cropping season label.
type Season string

const (
	SeasonKharif Season = "Kharif"
	SeasonRabi   Season = "Rabi"
	SeasonSummer Season = "Summer"
)

// BaseSeason maps a calendar month to its nominal cropping season.
func BaseSeason(month time.Month) Season {
	switch month {
	case time.June, time.July, time.August, time.September, time.October:
		return SeasonKharif
	case time.November, time.December, time.January, time.February, time.March:
		return SeasonRabi
	default: // April, May
		return SeasonSummer
	}
}

// InferSeason biases the calendar season by observed weather. With either
// metric absent it returns the base season unchanged. Otherwise the
// override conditions are checked in priority order and the first match
// wins:
//
//  1. rain ≥ 40mm and temp ≥ 22°C → Kharif (monsoon conditions)
//  2. 10°C ≤ temp ≤ 25°C and rain ≤ 30mm → Rabi
//  3. temp ≥ 30°C and rain ≤ 20mm → Summer
//
// A warm, wet window satisfying both (1) and (2) therefore reads as
// Kharif.
func InferSeason(month time.Month, metrics WeatherMetrics) Season {
	base := BaseSeason(month)
	if metrics.AvgTempC == nil || metrics.TotalRainMM == nil {
		return base
	}

	temp := *metrics.AvgTempC
	rain := *metrics.TotalRainMM

	switch {
	case rain >= 40 && temp >= 22:
		return SeasonKharif
	case temp >= 10 && temp <= 25 && rain <= 30:
		return SeasonRabi
	case temp >= 30 && rain <= 20:
		return SeasonSummer
	}
	return base
}
