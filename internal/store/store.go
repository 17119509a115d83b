// Package store provides SQLite persistence for users, analytics events,
// cached places, and crop rules.
package store

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/couchcryptid/cropwise-guidance-service/internal/domain"
)

// Store wraps the gorm handle. All methods scope queries to the request
// context; SQLite commits each statement independently, which is all the
// transactional isolation this service needs.
type Store struct {
	db     *gorm.DB
	logger *slog.Logger
}

// Open opens (creating if needed) the SQLite database at path and runs
// migrations.
func Open(path string, logger *slog.Logger) (*Store, error) {
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("open sqlite %q: %w", path, err)
	}

	if err := db.AutoMigrate(&User{}, &AnalyticsEvent{}, &Place{}, &CropRule{}); err != nil {
		return nil, fmt.Errorf("migrate: %w", err)
	}

	return &Store{db: db, logger: logger}, nil
}

// CheckReadiness pings the underlying database.
func (s *Store) CheckReadiness(ctx context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

// --- users ---

// UserByUsername returns the user, or (nil, nil) when no such account
// exists.
func (s *Store) UserByUsername(ctx context.Context, username string) (*User, error) {
	var u User
	err := s.db.WithContext(ctx).Where("username = ?", username).First(&u).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("lookup user: %w", err)
	}
	return &u, nil
}

func (s *Store) CountUsers(ctx context.Context) (int64, error) {
	var n int64
	if err := s.db.WithContext(ctx).Model(&User{}).Count(&n).Error; err != nil {
		return 0, fmt.Errorf("count users: %w", err)
	}
	return n, nil
}

func (s *Store) CreateUser(ctx context.Context, u *User) error {
	if err := s.db.WithContext(ctx).Create(u).Error; err != nil {
		return fmt.Errorf("create user: %w", err)
	}
	return nil
}

// --- analytics events ---

func (s *Store) InsertEvent(ctx context.Context, e *AnalyticsEvent) error {
	if err := s.db.WithContext(ctx).Create(e).Error; err != nil {
		return fmt.Errorf("insert event: %w", err)
	}
	return nil
}

// --- place cache ---

// PlaceByName returns the cached place for an exact display-name match,
// or (nil, nil) on a miss.
func (s *Store) PlaceByName(ctx context.Context, name string) (*Place, error) {
	var p Place
	err := s.db.WithContext(ctx).Where("name = ?", name).First(&p).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("lookup place: %w", err)
	}
	return &p, nil
}

// IncrementPlaceHits bumps the popularity counter. Lost updates under
// concurrent hits are tolerable; the counter is not correctness-critical.
func (s *Store) IncrementPlaceHits(ctx context.Context, id uint) error {
	err := s.db.WithContext(ctx).Model(&Place{}).Where("id = ?", id).
		UpdateColumn("hits", gorm.Expr("hits + 1")).Error
	if err != nil {
		return fmt.Errorf("increment place hits: %w", err)
	}
	return nil
}

func (s *Store) CreatePlace(ctx context.Context, p *Place) error {
	if err := s.db.WithContext(ctx).Create(p).Error; err != nil {
		return fmt.Errorf("create place: %w", err)
	}
	return nil
}

// ListPlaces returns all cached places, most popular first, newest
// breaking ties.
func (s *Store) ListPlaces(ctx context.Context) ([]Place, error) {
	var places []Place
	err := s.db.WithContext(ctx).Order("hits DESC, id DESC").Find(&places).Error
	if err != nil {
		return nil, fmt.Errorf("list places: %w", err)
	}
	return places, nil
}

// --- crop rules ---

func (s *Store) ListRules(ctx context.Context) ([]CropRule, error) {
	var rules []CropRule
	if err := s.db.WithContext(ctx).Order("id").Find(&rules).Error; err != nil {
		return nil, fmt.Errorf("list rules: %w", err)
	}
	return rules, nil
}

// ActiveRules returns active rules in insertion order.
func (s *Store) ActiveRules(ctx context.Context) ([]CropRule, error) {
	var rules []CropRule
	err := s.db.WithContext(ctx).Where("active = ?", true).Order("id").Find(&rules).Error
	if err != nil {
		return nil, fmt.Errorf("list active rules: %w", err)
	}
	return rules, nil
}

func (s *Store) RuleByID(ctx context.Context, id uint) (*CropRule, error) {
	var r CropRule
	err := s.db.WithContext(ctx).First(&r, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("lookup rule: %w", err)
	}
	return &r, nil
}

func (s *Store) CreateRule(ctx context.Context, r *CropRule) error {
	if err := s.db.WithContext(ctx).Create(r).Error; err != nil {
		return fmt.Errorf("create rule: %w", err)
	}
	return nil
}

// UpdateRule replaces the mutable fields of an existing rule. Returns a
// not-found error when the id does not exist.
func (s *Store) UpdateRule(ctx context.Context, r *CropRule) error {
	existing, err := s.RuleByID(ctx, r.ID)
	if err != nil {
		return err
	}
	if existing == nil {
		return domain.NotFound("Rule not found")
	}
	r.CreatedAt = existing.CreatedAt
	if err := s.db.WithContext(ctx).Save(r).Error; err != nil {
		return fmt.Errorf("update rule: %w", err)
	}
	return nil
}

// DeleteRule removes a rule, returning a not-found error when the id does
// not exist.
func (s *Store) DeleteRule(ctx context.Context, id uint) error {
	res := s.db.WithContext(ctx).Delete(&CropRule{}, id)
	if res.Error != nil {
		return fmt.Errorf("delete rule: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return domain.NotFound("Rule not found")
	}
	return nil
}

// SeedDefaultRules inserts the stock tolerance rules when the table is
// empty, so a fresh install can serve guidance immediately.
func (s *Store) SeedDefaultRules(ctx context.Context) error {
	var n int64
	if err := s.db.WithContext(ctx).Model(&CropRule{}).Count(&n).Error; err != nil {
		return fmt.Errorf("count rules: %w", err)
	}
	if n > 0 {
		return nil
	}

	defaults := []CropRule{
		{Name: "Rice", SeasonsCSV: "Kharif", TempMin: 20, TempMax: 35, RainMin: 50, RainMax: 300, Active: true},
		{Name: "Wheat", SeasonsCSV: "Rabi", TempMin: 10, TempMax: 25, RainMin: 20, RainMax: 100, Active: true},
		{Name: "Maize", SeasonsCSV: "Kharif,Rabi", TempMin: 18, TempMax: 32, RainMin: 25, RainMax: 150, Active: true},
		{Name: "Pulses", SeasonsCSV: "Rabi,Kharif", TempMin: 18, TempMax: 30, RainMin: 20, RainMax: 120, Active: true},
		{Name: "Cotton", SeasonsCSV: "Kharif", TempMin: 21, TempMax: 30, RainMin: 50, RainMax: 150, Active: true},
		{Name: "Groundnut", SeasonsCSV: "Kharif,Summer", TempMin: 20, TempMax: 30, RainMin: 25, RainMax: 100, Active: true},
		{Name: "Sorghum", SeasonsCSV: "Kharif,Rabi,Summer", TempMin: 18, TempMax: 32, RainMin: 10, RainMax: 100, Active: true},
	}
	if err := s.db.WithContext(ctx).Create(&defaults).Error; err != nil {
		return fmt.Errorf("seed rules: %w", err)
	}
	s.logger.Info("seeded default crop rules", "count", len(defaults))
	return nil
}
