package models

import (
    "time"

    "gorm.io/gorm"
)

// Snack is a between-meals entry, free text only. Date is a YYYY-MM-DD
// string like Meal.Date.
type Snack struct {
    gorm.Model
    UserID      uint      `gorm:"index;not null" json:"user_id"`
    Date        string    `gorm:"type:varchar(10);index;not null" json:"date"`
    Description string    `gorm:"not null" json:"description"`
    Timestamp   time.Time `json:"timestamp"`
}
