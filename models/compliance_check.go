package models

import (
    "time"

    "gorm.io/datatypes"
    "gorm.io/gorm"
)

// ComplianceCheck is one immutable compliance report: four sub-scores plus
// the overall score for a single inclusive [period_start, period_end] range.
// At most one check per (user, period); the unique index backs the
// duplicate guard in the service layer.
type ComplianceCheck struct {
    gorm.Model
    UserID      uint      `gorm:"uniqueIndex:idx_user_period;not null" json:"user_id"`
    CheckDate   time.Time `gorm:"index;not null" json:"check_date"`
    PeriodStart string    `gorm:"uniqueIndex:idx_user_period;type:varchar(10);not null" json:"period_start"`
    PeriodEnd   string    `gorm:"uniqueIndex:idx_user_period;type:varchar(10);not null" json:"period_end"`

    WaterIntakeScore   *float64       `json:"water_intake_score"`
    WaterIntakeDetails datatypes.JSON `json:"water_intake_details"`

    NewFoodsScore   *float64       `json:"new_foods_score"`
    NewFoodsDetails datatypes.JSON `json:"new_foods_details"`

    RecommendationsMatchScore   *float64       `json:"recommendations_match_score"`
    RecommendationsMatchDetails datatypes.JSON `json:"recommendations_match_details"`

    HealthyPlatesRatioScore *float64       `json:"healthy_plates_ratio_score"`
    HealthyPlatesDetails    datatypes.JSON `json:"healthy_plates_details"`

    OverallScore *float64 `json:"overall_score"`
}
