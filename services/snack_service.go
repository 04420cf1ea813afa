package services

import (
	"time"

	"github.com/davidkorenblit/nutrition-tracker/config"
	"github.com/davidkorenblit/nutrition-tracker/models"
)

func CreateSnack(userID uint, date, description string) (*models.Snack, error) {
	if _, err := time.ParseInLocation("2006-01-02", date, time.UTC); err != nil {
		return nil, NewValidationError("date must be a YYYY-MM-DD date")
	}
	if description == "" {
		return nil, NewValidationError("description is required")
	}

	snack := models.Snack{
		UserID:      userID,
		Date:        date,
		Description: description,
		Timestamp:   time.Now().UTC(),
	}
	if err := config.DB.Create(&snack).Error; err != nil {
		return nil, err
	}
	return &snack, nil
}

// ListSnacks returns the user's snacks, optionally filtered to one date.
func ListSnacks(userID uint, date string) ([]models.Snack, error) {
	var snacks []models.Snack
	q := config.DB.Where("user_id = ?", userID)
	if date != "" {
		q = q.Where("date = ?", date)
	}
	err := q.Order("timestamp DESC").Find(&snacks).Error
	return snacks, err
}

func DeleteSnack(userID, snackID uint) error {
	res := config.DB.Unscoped().Where("id = ? AND user_id = ?", snackID, userID).Delete(&models.Snack{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
