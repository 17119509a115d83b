package domain

import (
	"math"
	"sort"
)

// Penalty slopes and weights for the piecewise-linear suitability score.
const (
	tempPenaltyPerDegree = 8.0
	rainPenaltyShortfall = 2.0
	rainPenaltyExcess    = 1.2
	tempWeight           = 0.6
	rainWeight           = 0.4
)

// Tolerance is a crop's acceptable weather band. Bounds are taken as
// given; min > max is not rejected here and simply produces degenerate
// scores.
type Tolerance struct {
	TempMin float64 `json:"temp_min"`
	TempMax float64 `json:"temp_max"`
	RainMin float64 `json:"rain_min"`
	RainMax float64 `json:"rain_max"`
}

// CropCandidate pairs a crop with its seasons and tolerance band for
// ranking.
type CropCandidate struct {
	Name      string
	Seasons   []Season
	Tolerance Tolerance
}

// ScoredCrop is a ranked guidance entry.
type ScoredCrop struct {
	Name      string
	Score     float64
	Tag       string
	Tolerance Tolerance
}

// ScoreCrop rates a tolerance band against summarized weather, 0–100.
// With either metric absent the crop cannot be evaluated and scores 0.
func ScoreCrop(tol Tolerance, metrics WeatherMetrics) float64 {
	if metrics.AvgTempC == nil || metrics.TotalRainMM == nil {
		return 0.0
	}
	temp := *metrics.AvgTempC
	rain := *metrics.TotalRainMM

	var tempScore float64
	switch {
	case temp < tol.TempMin:
		tempScore = math.Max(0, 100-(tol.TempMin-temp)*tempPenaltyPerDegree)
	case temp > tol.TempMax:
		tempScore = math.Max(0, 100-(temp-tol.TempMax)*tempPenaltyPerDegree)
	default:
		tempScore = 100
	}

	var rainScore float64
	switch {
	case rain < tol.RainMin:
		rainScore = math.Max(0, 100-(tol.RainMin-rain)*rainPenaltyShortfall)
	case rain > tol.RainMax:
		rainScore = math.Max(0, 100-(rain-tol.RainMax)*rainPenaltyExcess)
	default:
		rainScore = 100
	}

	return round2(tempScore*tempWeight + rainScore*rainWeight)
}

// TagForScore buckets a score into its qualitative label. Thresholds are
// inclusive lower bounds checked highest-first.
func TagForScore(score float64) string {
	switch {
	case score >= 80:
		return "Excellent"
	case score >= 60:
		return "Good"
	case score >= 40:
		return "Moderate"
	default:
		return "Low"
	}
}

// RankCrops scores every candidate whose season set contains the target
// season and returns them sorted by score, highest first. The sort is
// stable: ties keep the candidates' original order.
func RankCrops(candidates []CropCandidate, season Season, metrics WeatherMetrics) []ScoredCrop {
	ranked := make([]ScoredCrop, 0, len(candidates))
	for _, c := range candidates {
		if !containsSeason(c.Seasons, season) {
			continue
		}
		score := ScoreCrop(c.Tolerance, metrics)
		ranked = append(ranked, ScoredCrop{
			Name:      c.Name,
			Score:     score,
			Tag:       TagForScore(score),
			Tolerance: c.Tolerance,
		})
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Score > ranked[j].Score
	})
	return ranked
}

func containsSeason(seasons []Season, target Season) bool {
	for _, s := range seasons {
		if s == target {
			return true
		}
	}
	return false
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
