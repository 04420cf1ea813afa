package services

import (
	"time"

	"github.com/davidkorenblit/nutrition-tracker/config"
	"github.com/davidkorenblit/nutrition-tracker/models"
)

func CreateWaterLog(userID uint, amountML float64, loggedAt time.Time) (*models.WaterLog, error) {
	if amountML <= 0 {
		return nil, NewValidationError("amount_ml must be positive")
	}
	if loggedAt.IsZero() {
		loggedAt = time.Now().UTC()
	}

	log := models.WaterLog{
		UserID:   userID,
		AmountML: amountML,
		LoggedAt: loggedAt,
	}
	if err := config.DB.Create(&log).Error; err != nil {
		return nil, err
	}
	return &log, nil
}

func GetWaterLogsByDate(userID uint, date time.Time) ([]models.WaterLog, error) {
	var logs []models.WaterLog
	err := config.DB.
		Where("user_id = ? AND logged_at BETWEEN ? AND ?", userID, dayStartUTC(date), dayEndUTC(date)).
		Order("logged_at ASC").
		Find(&logs).Error
	return logs, err
}

func GetTotalWaterByDate(userID uint, date time.Time) (float64, error) {
	logs, err := GetWaterLogsByDate(userID, date)
	if err != nil {
		return 0, err
	}

	var total float64
	for _, l := range logs {
		total += l.AmountML
	}
	return total, nil
}

func UpdateWaterLog(userID, logID uint, amountML float64) (*models.WaterLog, error) {
	if amountML <= 0 {
		return nil, NewValidationError("amount_ml must be positive")
	}

	var log models.WaterLog
	if err := config.DB.Where("id = ? AND user_id = ?", logID, userID).First(&log).Error; err != nil {
		return nil, ErrNotFound
	}

	log.AmountML = amountML
	if err := config.DB.Save(&log).Error; err != nil {
		return nil, err
	}
	return &log, nil
}

func DeleteWaterLog(userID, logID uint) error {
	res := config.DB.Where("id = ? AND user_id = ?", logID, userID).Delete(&models.WaterLog{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
