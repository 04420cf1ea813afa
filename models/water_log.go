package models

import (
    "time"

    "gorm.io/gorm"
)

// One glass/bottle logged by the user. Many entries per day.
type WaterLog struct {
    gorm.Model
    UserID   uint      `gorm:"index;not null" json:"user_id"`
    AmountML float64   `gorm:"not null" json:"amount_ml"`
    LoggedAt time.Time `gorm:"index;not null" json:"logged_at"`
}
