package services

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/davidkorenblit/nutrition-tracker/models"

	"gorm.io/gorm"
)

// ComplianceData is the read-only view the scorers consume. Keeping it an
// interface lets the engine run against fakes in tests and keeps the
// scorers free of query mechanics.
type ComplianceData interface {
	// User loads the account being scored, ErrNotFound when missing.
	User(ctx context.Context, userID uint) (*models.User, error)

	// WaterLogs returns the user's entries with logged_at inside [from, to].
	WaterLogs(ctx context.Context, userID uint, from, to time.Time) ([]models.WaterLog, error)

	// WeeklyNotes returns notes whose week_start_date falls inside
	// [startDate, endDate]. Dates are fixed-width YYYY-MM-DD strings, so
	// the range filter is a plain string comparison.
	WeeklyNotes(ctx context.Context, userID uint, startDate, endDate string) ([]models.WeeklyNote, error)

	// MealsWithPlates returns meals (plates preloaded) whose date string
	// falls inside [startDate, endDate], same comparison as WeeklyNotes.
	MealsWithPlates(ctx context.Context, userID uint, startDate, endDate string) ([]models.Meal, error)

	// LatestRecommendations returns the most recent set by visit_date,
	// or nil when the user has none.
	LatestRecommendations(ctx context.Context, userID uint) (*models.RecommendationSet, error)

	// Snapshot returns a view of the user's data for the period frozen
	// at a single point in time, so a check never mixes two states of
	// the database. ErrNotFound when the user does not exist.
	Snapshot(ctx context.Context, userID uint, period Period) (ComplianceData, error)
}

type gormComplianceData struct{ db *gorm.DB }

func NewComplianceData(db *gorm.DB) ComplianceData { return &gormComplianceData{db: db} }

func (d *gormComplianceData) User(ctx context.Context, userID uint) (*models.User, error) {
	var user models.User
	if err := d.db.WithContext(ctx).First(&user, userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &user, nil
}

func (d *gormComplianceData) WaterLogs(ctx context.Context, userID uint, from, to time.Time) ([]models.WaterLog, error) {
	var logs []models.WaterLog
	err := d.db.WithContext(ctx).
		Where("user_id = ? AND logged_at BETWEEN ? AND ?", userID, from, to).
		Order("logged_at ASC").
		Find(&logs).Error
	return logs, err
}

func (d *gormComplianceData) WeeklyNotes(ctx context.Context, userID uint, startDate, endDate string) ([]models.WeeklyNote, error) {
	var notes []models.WeeklyNote
	err := d.db.WithContext(ctx).
		Where("user_id = ? AND week_start_date BETWEEN ? AND ?", userID, startDate, endDate).
		Order("week_start_date ASC").
		Find(&notes).Error
	return notes, err
}

func (d *gormComplianceData) MealsWithPlates(ctx context.Context, userID uint, startDate, endDate string) ([]models.Meal, error) {
	var meals []models.Meal
	err := d.db.WithContext(ctx).
		Preload("Plates").
		Where("user_id = ? AND date BETWEEN ? AND ?", userID, startDate, endDate).
		Order("date ASC").
		Find(&meals).Error
	return meals, err
}

func (d *gormComplianceData) LatestRecommendations(ctx context.Context, userID uint) (*models.RecommendationSet, error) {
	var rec models.RecommendationSet
	err := d.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("visit_date DESC").
		First(&rec).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &rec, nil
}

// Snapshot prefetches the period's rows inside one repeatable-read,
// read-only transaction. The scorers then run concurrently against the
// in-memory copy; a live *gorm.DB transaction cannot be shared across
// goroutines.
func (d *gormComplianceData) Snapshot(ctx context.Context, userID uint, period Period) (ComplianceData, error) {
	snap := &dataSnapshot{}
	err := d.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		txData := &gormComplianceData{db: tx}

		user, err := txData.User(ctx, userID)
		if err != nil {
			return err
		}
		snap.user = user

		if snap.water, err = txData.WaterLogs(ctx, userID, dayStartUTC(period.Start), dayEndUTC(period.End)); err != nil {
			return err
		}
		if snap.notes, err = txData.WeeklyNotes(ctx, userID, period.StartDate(), period.EndDate()); err != nil {
			return err
		}
		if snap.meals, err = txData.MealsWithPlates(ctx, userID, period.StartDate(), period.EndDate()); err != nil {
			return err
		}
		snap.rec, err = txData.LatestRecommendations(ctx, userID)
		return err
	}, &sql.TxOptions{Isolation: sql.LevelRepeatableRead, ReadOnly: true})
	if err != nil {
		return nil, err
	}
	return snap, nil
}

// dataSnapshot serves prefetched rows. The range arguments are ignored:
// the snapshot was loaded for exactly the period being scored.
type dataSnapshot struct {
	user  *models.User
	water []models.WaterLog
	notes []models.WeeklyNote
	meals []models.Meal
	rec   *models.RecommendationSet
}

func (s *dataSnapshot) User(ctx context.Context, userID uint) (*models.User, error) {
	if s.user == nil {
		return nil, ErrNotFound
	}
	return s.user, nil
}

func (s *dataSnapshot) WaterLogs(ctx context.Context, userID uint, from, to time.Time) ([]models.WaterLog, error) {
	return s.water, nil
}

func (s *dataSnapshot) WeeklyNotes(ctx context.Context, userID uint, startDate, endDate string) ([]models.WeeklyNote, error) {
	return s.notes, nil
}

func (s *dataSnapshot) MealsWithPlates(ctx context.Context, userID uint, startDate, endDate string) ([]models.Meal, error) {
	return s.meals, nil
}

func (s *dataSnapshot) LatestRecommendations(ctx context.Context, userID uint) (*models.RecommendationSet, error) {
	return s.rec, nil
}

func (s *dataSnapshot) Snapshot(ctx context.Context, userID uint, period Period) (ComplianceData, error) {
	return s, nil
}
