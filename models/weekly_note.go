package models

import (
    "gorm.io/datatypes"
    "gorm.io/gorm"
)

// NewFoodItem is one entry in a WeeklyNote's foods list.
type NewFoodItem struct {
    FoodName        string `json:"food_name"`
    DifficultyLevel int    `json:"difficulty_level"` // 1-10
    Notes           string `json:"notes,omitempty"`
}

// WeeklyNote records the new foods a user tried during one week.
// One note per (user, week_start_date); the date is a fixed-width
// YYYY-MM-DD string so range filters compare lexically.
type WeeklyNote struct {
    gorm.Model
    UserID        uint                                `gorm:"uniqueIndex:idx_user_week;not null" json:"user_id"`
    WeekStartDate string                              `gorm:"uniqueIndex:idx_user_week;type:varchar(10);not null" json:"week_start_date"`
    NewFoods      datatypes.JSONType[[]NewFoodItem]   `json:"new_foods"`
}
