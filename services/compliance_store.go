package services

import (
	"context"
	"errors"
	"strings"

	"github.com/davidkorenblit/nutrition-tracker/models"

	"gorm.io/gorm"
)

// ComplianceStore persists finished reports. The unique index on
// (user_id, period_start, period_end) is the real duplicate guard; the
// service's read-before-insert only exists to fail fast with a clear error.
type ComplianceStore interface {
	Create(ctx context.Context, check *models.ComplianceCheck) error
	Exists(ctx context.Context, userID uint, periodStart, periodEnd string) (bool, error)
	Latest(ctx context.Context, userID uint) (*models.ComplianceCheck, error)
	History(ctx context.Context, userID uint, limit int) ([]models.ComplianceCheck, error)
	Get(ctx context.Context, userID, checkID uint) (*models.ComplianceCheck, error)
	Delete(ctx context.Context, userID, checkID uint) error
}

type gormComplianceStore struct{ db *gorm.DB }

func NewComplianceStore(db *gorm.DB) ComplianceStore { return &gormComplianceStore{db: db} }

func (s *gormComplianceStore) Create(ctx context.Context, check *models.ComplianceCheck) error {
	err := s.db.WithContext(ctx).Create(check).Error
	if err != nil && isUniqueViolation(err) {
		return ErrCheckExists
	}
	return err
}

func (s *gormComplianceStore) Exists(ctx context.Context, userID uint, periodStart, periodEnd string) (bool, error) {
	var count int64
	err := s.db.WithContext(ctx).
		Model(&models.ComplianceCheck{}).
		Where("user_id = ? AND period_start = ? AND period_end = ?", userID, periodStart, periodEnd).
		Count(&count).Error
	return count > 0, err
}

func (s *gormComplianceStore) Latest(ctx context.Context, userID uint) (*models.ComplianceCheck, error) {
	var check models.ComplianceCheck
	err := s.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("check_date DESC").
		First(&check).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &check, nil
}

func (s *gormComplianceStore) History(ctx context.Context, userID uint, limit int) ([]models.ComplianceCheck, error) {
	var checks []models.ComplianceCheck
	err := s.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("check_date DESC").
		Limit(limit).
		Find(&checks).Error
	return checks, err
}

func (s *gormComplianceStore) Get(ctx context.Context, userID, checkID uint) (*models.ComplianceCheck, error) {
	var check models.ComplianceCheck
	err := s.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", checkID, userID).
		First(&check).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &check, nil
}

func (s *gormComplianceStore) Delete(ctx context.Context, userID, checkID uint) error {
	// Hard delete. A soft-deleted row would keep holding the unique
	// period index and block the user from ever re-running that period.
	res := s.db.WithContext(ctx).
		Unscoped().
		Where("id = ? AND user_id = ?", checkID, userID).
		Delete(&models.ComplianceCheck{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// Postgres reports unique-index conflicts as SQLSTATE 23505; gorm's
// error translation surfaces them as ErrDuplicatedKey.
func isUniqueViolation(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	return err != nil && strings.Contains(err.Error(), "23505")
}
