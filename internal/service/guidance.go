// Package service orchestrates place resolution, season inference, and
// crop ranking over the store and the upstream weather provider.
package service

import (
	"context"
	"log/slog"
	"strings"

	"github.com/jonboulle/clockwork"

	"github.com/couchcryptid/cropwise-guidance-service/internal/domain"
	"github.com/couchcryptid/cropwise-guidance-service/internal/observability"
	"github.com/couchcryptid/cropwise-guidance-service/internal/store"
)

const geocodeCandidateLimit = 5

// Guidance serves the weather-driven endpoints: place resolution with
// caching, current-season inference, and live crop ranking.
type Guidance struct {
	store   *store.Store
	weather domain.WeatherProvider
	clock   clockwork.Clock
	metrics *observability.Metrics
	logger  *slog.Logger
}

// NewGuidance creates the guidance service. Pass a nil clock to use real
// time.
func NewGuidance(st *store.Store, weather domain.WeatherProvider, clock clockwork.Clock, metrics *observability.Metrics, logger *slog.Logger) *Guidance {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &Guidance{store: st, weather: weather, clock: clock, metrics: metrics, logger: logger}
}

// SeasonReport is the outcome of a season_now query.
type SeasonReport struct {
	Place   *store.Place
	Month   int
	Season  domain.Season
	Metrics domain.WeatherMetrics
}

// CropsReport is the outcome of a live_crops query.
type CropsReport struct {
	Place   *store.Place
	Season  domain.Season
	Metrics domain.WeatherMetrics
	Crops   []domain.ScoredCrop
}

// ResolvePlace maps a free-text place name to cached coordinates. An
// exact display-name hit bumps the popularity counter without touching
// the upstream API. On a miss the name is geocoded and the best
// candidate cached under its canonical display name.
//
// Candidate selection prefers an exact (case-insensitive) match between
// the candidate name and the portion of the input before the first
// comma, falling back to the first candidate. Same-named places in
// different states can therefore shadow each other; that heuristic is
// kept as-is.
func (g *Guidance) ResolvePlace(ctx context.Context, name string) (*store.Place, error) {
	cached, err := g.store.PlaceByName(ctx, name)
	if err != nil {
		return nil, err
	}
	if cached != nil {
		g.metrics.PlaceCache.WithLabelValues("hit").Inc()
		if err := g.store.IncrementPlaceHits(ctx, cached.ID); err != nil {
			return nil, err
		}
		cached.Hits++
		return cached, nil
	}

	g.metrics.PlaceCache.WithLabelValues("miss").Inc()
	candidates, err := g.weather.Geocode(ctx, name, geocodeCandidateLimit)
	if err != nil {
		return nil, err
	}
	if len(candidates) == 0 {
		return nil, domain.NotFound("Place not found")
	}

	best := pickCandidate(candidates, name)
	place := &store.Place{
		Name: best.DisplayName(),
		Lat:  best.Lat,
		Lon:  best.Lon,
		Hits: 1,
	}
	if err := g.store.CreatePlace(ctx, place); err != nil {
		return nil, err
	}
	g.logger.Info("cached new place", "name", place.Name, "lat", place.Lat, "lon", place.Lon)
	return place, nil
}

// Geocode exposes raw candidate lookup for ad-hoc queries. Results are
// not cached; only ResolvePlace populates the place cache.
func (g *Guidance) Geocode(ctx context.Context, query string) ([]domain.PlaceCandidate, error) {
	return g.weather.Geocode(ctx, query, geocodeCandidateLimit)
}

func pickCandidate(candidates []domain.PlaceCandidate, query string) domain.PlaceCandidate {
	needle := strings.TrimSpace(strings.SplitN(query, ",", 2)[0])
	for _, c := range candidates {
		if strings.EqualFold(strings.TrimSpace(c.Name), needle) {
			return c
		}
	}
	return candidates[0]
}

// SeasonNow resolves a place and infers the current cropping season from
// its near-term forecast.
func (g *Guidance) SeasonNow(ctx context.Context, state string) (SeasonReport, error) {
	place, metrics, err := g.placeWeather(ctx, state)
	if err != nil {
		return SeasonReport{}, err
	}

	month := g.clock.Now().Month()
	return SeasonReport{
		Place:   place,
		Month:   int(month),
		Season:  domain.InferSeason(month, metrics),
		Metrics: metrics,
	}, nil
}

// LiveCrops resolves a place and ranks the active crop rules against its
// forecast. An empty seasonOverride infers the season from the weather.
func (g *Guidance) LiveCrops(ctx context.Context, state, seasonOverride string) (CropsReport, error) {
	place, metrics, err := g.placeWeather(ctx, state)
	if err != nil {
		return CropsReport{}, err
	}

	season := domain.Season(seasonOverride)
	if season == "" {
		season = domain.InferSeason(g.clock.Now().Month(), metrics)
	}

	rules, err := g.store.ActiveRules(ctx)
	if err != nil {
		return CropsReport{}, err
	}
	candidates := make([]domain.CropCandidate, len(rules))
	for i, r := range rules {
		candidates[i] = r.Candidate()
	}

	return CropsReport{
		Place:   place,
		Season:  season,
		Metrics: metrics,
		Crops:   domain.RankCrops(candidates, season, metrics),
	}, nil
}

func (g *Guidance) placeWeather(ctx context.Context, state string) (*store.Place, domain.WeatherMetrics, error) {
	place, err := g.ResolvePlace(ctx, state)
	if err != nil {
		return nil, domain.WeatherMetrics{}, err
	}
	samples, err := g.weather.Forecast(ctx, place.Lat, place.Lon)
	if err != nil {
		return nil, domain.WeatherMetrics{}, err
	}
	return place, domain.SummarizeForecast(samples), nil
}
