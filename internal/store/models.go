package store

import (
	"strings"
	"time"

	"github.com/couchcryptid/cropwise-guidance-service/internal/domain"
)

// User is the persisted auth account. Accounts are created at signup and
// never edited or deleted through this API.
type User struct {
	ID             uint   `gorm:"primaryKey"`
	Username       string `gorm:"uniqueIndex;size:191"`
	HashedPassword string `gorm:"not null"`
	IsAdmin        bool   `gorm:"default:false"`
	CreatedAt      time.Time
}

// AnalyticsEvent is an append-only usage record. UserID is nil for
// anonymous events; it is a weak reference, never joined against.
type AnalyticsEvent struct {
	ID        uint  `gorm:"primaryKey"`
	UserID    *uint `gorm:"index"`
	EventName string `gorm:"index;size:191"`
	MetaJSON  string
	CreatedAt time.Time
}

// Place is a cached geocoding result keyed by its canonical display name,
// e.g. "Guntur, Andhra Pradesh, IN". Hits counts cache lookups and is a
// best-effort popularity counter.
type Place struct {
	ID        uint   `gorm:"primaryKey"`
	Name      string `gorm:"uniqueIndex;size:191"`
	Lat       float64
	Lon       float64
	Hits      int `gorm:"default:0"`
	CreatedAt time.Time
}

// CropRule is an admin-managed tolerance rule. SeasonsCSV stores the
// season set comma-joined in the order given by the caller. Bounds are
// not validated: min > max is stored as-is and produces degenerate
// scores.
type CropRule struct {
	ID         uint   `gorm:"primaryKey"`
	Name       string `gorm:"index;size:191"`
	SeasonsCSV string `gorm:"column:seasons_csv"`
	TempMin    float64
	TempMax    float64
	RainMin    float64
	RainMax    float64
	Active     bool `gorm:"default:true"`
	CreatedAt  time.Time
}

// Seasons parses the stored CSV back into labels, discarding empty
// segments.
func (r CropRule) Seasons() []string {
	parts := strings.Split(r.SeasonsCSV, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// Tolerance returns the rule's bounds in domain form.
func (r CropRule) Tolerance() domain.Tolerance {
	return domain.Tolerance{
		TempMin: r.TempMin,
		TempMax: r.TempMax,
		RainMin: r.RainMin,
		RainMax: r.RainMax,
	}
}

// Candidate converts the rule for domain ranking.
func (r CropRule) Candidate() domain.CropCandidate {
	seasons := r.Seasons()
	out := make([]domain.Season, len(seasons))
	for i, s := range seasons {
		out[i] = domain.Season(s)
	}
	return domain.CropCandidate{Name: r.Name, Seasons: out, Tolerance: r.Tolerance()}
}

// SeasonsToCSV serializes a season list for storage, preserving caller
// order.
func SeasonsToCSV(seasons []string) string {
	return strings.Join(seasons, ",")
}
