package models

import (
    "gorm.io/gorm"
)

type User struct {
    gorm.Model
    Email            string `gorm:"uniqueIndex;not null" json:"email"`
    Password         string `gorm:"not null" json:"-"`
    FullName         string `json:"full_name"`
    Verified         bool   `json:"verified"`
    VerificationCode string `json:"-"`

    // Per-user targets the compliance engine reads.
    DailyWaterGoalML             int `gorm:"default:2000;not null" json:"daily_water_goal_ml"`
    ComplianceCheckFrequencyDays int `gorm:"default:14;not null" json:"compliance_check_frequency_days"`
}
