package services

import (
	"fmt"

	"github.com/davidkorenblit/nutrition-tracker/config"
	"github.com/davidkorenblit/nutrition-tracker/models"

	"gorm.io/datatypes"
)

func CreateWeeklyNote(userID uint, weekStartDate string, foods []models.NewFoodItem) (*models.WeeklyNote, error) {
	if err := validateNewFoods(foods); err != nil {
		return nil, err
	}

	var count int64
	config.DB.Model(&models.WeeklyNote{}).
		Where("user_id = ? AND week_start_date = ?", userID, weekStartDate).
		Count(&count)
	if count > 0 {
		return nil, NewValidationError(fmt.Sprintf("weekly notes already exist for week starting %s", weekStartDate))
	}

	note := models.WeeklyNote{
		UserID:        userID,
		WeekStartDate: weekStartDate,
		NewFoods:      datatypes.NewJSONType(foods),
	}
	if err := config.DB.Create(&note).Error; err != nil {
		// The count check above can lose a race; the unique index on
		// (user_id, week_start_date) is the real guard.
		if isUniqueViolation(err) {
			return nil, NewValidationError(fmt.Sprintf("weekly notes already exist for week starting %s", weekStartDate))
		}
		return nil, err
	}
	return &note, nil
}

func ListWeeklyNotes(userID uint, weekStartDate string) ([]models.WeeklyNote, error) {
	var notes []models.WeeklyNote
	q := config.DB.Where("user_id = ?", userID)
	if weekStartDate != "" {
		q = q.Where("week_start_date = ?", weekStartDate)
	}
	err := q.Order("week_start_date DESC").Find(&notes).Error
	return notes, err
}

func GetWeeklyNote(userID, noteID uint) (*models.WeeklyNote, error) {
	var note models.WeeklyNote
	if err := config.DB.Where("id = ? AND user_id = ?", noteID, userID).First(&note).Error; err != nil {
		return nil, ErrNotFound
	}
	return &note, nil
}

func UpdateWeeklyNote(userID, noteID uint, weekStartDate string, foods []models.NewFoodItem) (*models.WeeklyNote, error) {
	if err := validateNewFoods(foods); err != nil {
		return nil, err
	}

	note, err := GetWeeklyNote(userID, noteID)
	if err != nil {
		return nil, err
	}

	note.WeekStartDate = weekStartDate
	note.NewFoods = datatypes.NewJSONType(foods)
	if err := config.DB.Save(note).Error; err != nil {
		if isUniqueViolation(err) {
			return nil, NewValidationError(fmt.Sprintf("weekly notes already exist for week starting %s", weekStartDate))
		}
		return nil, err
	}
	return note, nil
}

func DeleteWeeklyNote(userID, noteID uint) error {
	// Hard delete so the week slot frees up for a new note.
	res := config.DB.Unscoped().Where("id = ? AND user_id = ?", noteID, userID).Delete(&models.WeeklyNote{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func validateNewFoods(foods []models.NewFoodItem) error {
	if len(foods) == 0 {
		return NewValidationError("must include at least one new food item")
	}
	for _, f := range foods {
		if f.FoodName == "" {
			return NewValidationError("food_name is required")
		}
		if f.DifficultyLevel < 1 || f.DifficultyLevel > 10 {
			return NewValidationError(fmt.Sprintf("difficulty level must be between 1 and 10, got %d for %s", f.DifficultyLevel, f.FoodName))
		}
	}
	return nil
}
