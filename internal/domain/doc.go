// Package domain models Indian agricultural cropping seasons and crop
// suitability scoring.
//
// # Seasons
//
// Guidance is expressed against the three classical Indian cropping
// seasons:
//
//	Kharif — monsoon-sown (roughly June through October)
//	Rabi   — winter-sown (November through March)
//	Summer — the dry Apr–May window (also called Zaid)
//
// The calendar month alone determines a base season. When near-term
// weather metrics are available they can override the calendar: a wet,
// warm window reads as Kharif even in a nominally Rabi month. The
// override conditions in [InferSeason] are evaluated in a fixed priority
// order; overlapping conditions are resolved by that order, not by
// closest fit.
//
// # Weather metrics
//
// The forecast summary reduces a 3-hourly forecast to two scalars over
// the first 24 samples (~72 hours): average temperature in °C and total
// accumulated rainfall in mm. Either may be absent — a forecast with no
// usable temperature readings yields a nil average, and an empty
// forecast yields neither metric. See [SummarizeForecast].
//
// # Scoring
//
// A crop tolerance rule gives acceptable [min, max] bands for
// temperature and rainfall. Each band scores 100 inside the range and
// decays linearly outside it:
//
//	temperature: 8 points per °C outside the nearer bound
//	rainfall:    2 points per mm of shortfall, 1.2 per mm of excess
//
// Excess rain is penalized less steeply than deficit because most crops
// tolerate a wet spell better than drought. Sub-scores floor at 0 and
// combine 60/40 (temperature/rainfall) into a 0–100 score, rounded to
// two decimals, then bucketed into a qualitative tag: ≥80 Excellent,
// ≥60 Good, ≥40 Moderate, else Low.
package domain
