package models

import (
    "time"

    "gorm.io/gorm"
)

// One Meal (breakfast/lunch/dinner). Date is a YYYY-MM-DD string so
// range filters compare lexically.
type Meal struct {
    gorm.Model
    UserID     uint        `gorm:"index;not null" json:"user_id"`
    MealType   string      `gorm:"not null" json:"meal_type"` // "breakfast"|"lunch"|"dinner"
    Date       string      `gorm:"type:varchar(10);index;not null" json:"date"`
    Timestamp  time.Time   `json:"timestamp"`
    PhotoURL   string      `json:"photo_url,omitempty"`
    Notes      string      `json:"notes,omitempty"`
    Plates     []Plate     `gorm:"constraint:OnDelete:CASCADE" json:"plates"`
    HungerLogs []HungerLog `gorm:"constraint:OnDelete:CASCADE" json:"hunger_logs"`
}

// Every fully reported meal has exactly two plates:
// the fixed healthy template (50/30/20) and the user's free plate.
type Plate struct {
    gorm.Model
    MealID            uint   `gorm:"index;not null" json:"meal_id"`
    PlateType         string `gorm:"not null" json:"plate_type"` // "healthy" or "free"
    VegetablesPercent int    `gorm:"not null" json:"vegetables_percent"`
    ProteinPercent    int    `gorm:"not null" json:"protein_percent"`
    CarbsPercent      int    `gorm:"not null" json:"carbs_percent"`
}

// HungerLog rates hunger around a meal, three per fully reported meal.
type HungerLog struct {
    gorm.Model
    MealID      uint   `gorm:"index;not null" json:"meal_id"`
    LogType     string `gorm:"not null" json:"log_type"` // "before"|"during"|"after"
    HungerLevel int    `gorm:"not null" json:"hunger_level"` // 1-10
}

const (
    PlateTypeHealthy = "healthy"
    PlateTypeFree    = "free"
)

// The fixed healthy-plate template.
const (
    HealthyVegetablesPercent = 50
    HealthyProteinPercent    = 30
    HealthyCarbsPercent      = 20
)
