package services

import (
	"errors"

	"github.com/davidkorenblit/nutrition-tracker/config"
	"github.com/davidkorenblit/nutrition-tracker/models"
)

type ProfileInput struct {
	FullName                     string `json:"full_name"`
	DailyWaterGoalML             int    `json:"daily_water_goal_ml"`
	ComplianceCheckFrequencyDays int    `json:"compliance_check_frequency_days"`
}

func GetUserProfile(userID uint) (map[string]interface{}, error) {
	var user models.User
	if err := config.DB.First(&user, userID).Error; err != nil {
		return nil, errors.New("user not found")
	}

	return map[string]interface{}{
		"id":                              user.ID,
		"email":                           user.Email,
		"full_name":                       user.FullName,
		"verified":                        user.Verified,
		"daily_water_goal_ml":             user.DailyWaterGoalML,
		"compliance_check_frequency_days": user.ComplianceCheckFrequencyDays,
	}, nil
}

func UpdateUserProfile(userID uint, input ProfileInput) error {
	var user models.User
	if err := config.DB.First(&user, userID).Error; err != nil {
		return errors.New("user not found")
	}

	if input.FullName != "" {
		user.FullName = input.FullName
	}
	if input.DailyWaterGoalML > 0 {
		user.DailyWaterGoalML = input.DailyWaterGoalML
	}
	if input.ComplianceCheckFrequencyDays > 0 {
		user.ComplianceCheckFrequencyDays = input.ComplianceCheckFrequencyDays
	}

	return config.DB.Save(&user).Error
}

func FindUserByEmail(email string) (*models.User, error) {
	var user models.User
	result := config.DB.First(&user, "email = ?", email)
	if result.Error != nil {
		return nil, errors.New("user not found")
	}
	return &user, nil
}
