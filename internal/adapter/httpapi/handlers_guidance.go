package httpapi

import (
	"math"
	"net/http"

	"github.com/couchcryptid/cropwise-guidance-service/internal/domain"
)

type placeResponse struct {
	Name string  `json:"name"`
	Lat  float64 `json:"lat"`
	Lon  float64 `json:"lon"`
}

func (h *handlers) handleGeocode(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("query")
	if query == "" {
		writeError(w, h.logger, domain.Invalid("query is required"))
		return
	}

	candidates, err := h.guidance.Geocode(r.Context(), query)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	out := make([]placeResponse, len(candidates))
	for i, c := range candidates {
		out[i] = placeResponse{Name: c.DisplayName(), Lat: c.Lat, Lon: c.Lon}
	}
	writeJSON(w, http.StatusOK, out)
}

type cachedPlaceResponse struct {
	Name string  `json:"name"`
	Lat  float64 `json:"lat"`
	Lon  float64 `json:"lon"`
	Hits int     `json:"hits"`
}

func (h *handlers) handleStates(w http.ResponseWriter, r *http.Request) {
	places, err := h.store.ListPlaces(r.Context())
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	out := make([]cachedPlaceResponse, len(places))
	for i, p := range places {
		out[i] = cachedPlaceResponse{Name: p.Name, Lat: p.Lat, Lon: p.Lon, Hits: p.Hits}
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *handlers) handleSeasonNow(w http.ResponseWriter, r *http.Request) {
	state := r.URL.Query().Get("state")
	if state == "" {
		writeError(w, h.logger, domain.Invalid("state is required"))
		return
	}

	report, err := h.guidance.SeasonNow(r.Context(), state)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"state":   report.Place.Name,
		"lat":     report.Place.Lat,
		"lon":     report.Place.Lon,
		"month":   report.Month,
		"season":  report.Season,
		"metrics": report.Metrics,
	})
}

type scoredCropResponse struct {
	Crop        string           `json:"crop"`
	Season      domain.Season    `json:"season"`
	AvgTempC    *float64         `json:"avg_temp_c"`
	TotalRainMM *float64         `json:"total_rain_mm"`
	Score       float64          `json:"score"`
	Tag         string           `json:"tag"`
	Rule        domain.Tolerance `json:"rule"`
}

func (h *handlers) handleLiveCrops(w http.ResponseWriter, r *http.Request) {
	state := r.URL.Query().Get("state")
	if state == "" {
		writeError(w, h.logger, domain.Invalid("state is required"))
		return
	}
	seasonOverride := r.URL.Query().Get("season")

	report, err := h.guidance.LiveCrops(r.Context(), state, seasonOverride)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	crops := make([]scoredCropResponse, len(report.Crops))
	for i, c := range report.Crops {
		crops[i] = scoredCropResponse{
			Crop:        c.Name,
			Season:      report.Season,
			AvgTempC:    round2Ptr(report.Metrics.AvgTempC),
			TotalRainMM: round2Ptr(report.Metrics.TotalRainMM),
			Score:       c.Score,
			Tag:         c.Tag,
			Rule:        c.Tolerance,
		}
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"state":   report.Place.Name,
		"lat":     report.Place.Lat,
		"lon":     report.Place.Lon,
		"season":  report.Season,
		"metrics": report.Metrics,
		"crops":   crops,
	})
}

// round2Ptr rounds a nullable metric to two decimals for display,
// leaving the raw value in "metrics" untouched.
func round2Ptr(v *float64) *float64 {
	if v == nil {
		return nil
	}
	rounded := math.Round(*v*100) / 100
	return &rounded
}
