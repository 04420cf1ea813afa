// services/meal_service.go
package services

import (
	"errors"
	"fmt"
	"time"

	"github.com/davidkorenblit/nutrition-tracker/config"
	"github.com/davidkorenblit/nutrition-tracker/models"
	"github.com/davidkorenblit/nutrition-tracker/utils"

	"gorm.io/gorm"
)

type MealService struct{}

func NewMealService() *MealService { return &MealService{} }

// CompleteMealRequest fills one of the day's meals in a single call:
// the free plate, three hunger ratings and an optional photo.
type CompleteMealRequest struct {
	MealID              uint   `json:"meal_id"`
	FreePlateVegetables int    `json:"free_plate_vegetables"`
	FreePlateProtein    int    `json:"free_plate_protein"`
	FreePlateCarbs      int    `json:"free_plate_carbs"`
	HungerBefore        int    `json:"hunger_before"`
	HungerDuring        int    `json:"hunger_during"`
	HungerAfter         int    `json:"hunger_after"`
	PhotoBase64         string `json:"photo_base64,omitempty"`
	Notes               string `json:"notes,omitempty"`
}

var dailyMealTypes = []string{"breakfast", "lunch", "dinner"}

// EnsureDailyMeals creates the day's three meal rows if they don't exist
// yet, so the client always has fixed slots to fill in.
func (s *MealService) EnsureDailyMeals(userID uint, date string) error {
	for _, mealType := range dailyMealTypes {
		var count int64
		if err := config.DB.Model(&models.Meal{}).
			Where("user_id = ? AND date = ? AND meal_type = ?", userID, date, mealType).
			Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			continue
		}

		meal := models.Meal{
			UserID:    userID,
			MealType:  mealType,
			Date:      date,
			Timestamp: time.Now().UTC(),
		}
		if err := config.DB.Create(&meal).Error; err != nil {
			return err
		}
	}
	return nil
}

// CompleteMeal records the full report for one meal: the user's free plate,
// the fixed healthy plate and the three hunger logs. A meal only counts for
// compliance scoring once it carries exactly these two plates.
func (s *MealService) CompleteMeal(userID uint, req CompleteMealRequest) (*models.Meal, error) {
	total := req.FreePlateVegetables + req.FreePlateProtein + req.FreePlateCarbs
	if total != 100 {
		return nil, NewValidationError(fmt.Sprintf("plate percentages must sum to 100, got %d", total))
	}
	for _, level := range []int{req.HungerBefore, req.HungerDuring, req.HungerAfter} {
		if level < 1 || level > 10 {
			return nil, NewValidationError("hunger levels must be between 1 and 10")
		}
	}

	var meal models.Meal
	if err := config.DB.Where("id = ? AND user_id = ?", req.MealID, userID).First(&meal).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	var plateCount int64
	config.DB.Model(&models.Plate{}).Where("meal_id = ?", meal.ID).Count(&plateCount)
	if plateCount > 0 {
		return nil, NewValidationError("meal is already reported")
	}

	if req.PhotoBase64 != "" {
		key, err := utils.UploadBase64ToS3(req.PhotoBase64, "meal-photos", fmt.Sprintf("meal-%d", meal.ID))
		if err != nil {
			return nil, fmt.Errorf("failed to upload meal photo: %w", err)
		}
		meal.PhotoURL = key
	}
	meal.Notes = req.Notes

	err := config.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Save(&meal).Error; err != nil {
			return err
		}

		plates := []models.Plate{
			{
				MealID:            meal.ID,
				PlateType:         models.PlateTypeHealthy,
				VegetablesPercent: models.HealthyVegetablesPercent,
				ProteinPercent:    models.HealthyProteinPercent,
				CarbsPercent:      models.HealthyCarbsPercent,
			},
			{
				MealID:            meal.ID,
				PlateType:         models.PlateTypeFree,
				VegetablesPercent: req.FreePlateVegetables,
				ProteinPercent:    req.FreePlateProtein,
				CarbsPercent:      req.FreePlateCarbs,
			},
		}
		if err := tx.Create(&plates).Error; err != nil {
			return err
		}

		hungerLogs := []models.HungerLog{
			{MealID: meal.ID, LogType: "before", HungerLevel: req.HungerBefore},
			{MealID: meal.ID, LogType: "during", HungerLevel: req.HungerDuring},
			{MealID: meal.ID, LogType: "after", HungerLevel: req.HungerAfter},
		}
		return tx.Create(&hungerLogs).Error
	})
	if err != nil {
		return nil, err
	}

	var populated models.Meal
	if err := config.DB.
		Preload("Plates").
		Preload("HungerLogs").
		First(&populated, meal.ID).Error; err != nil {
		return nil, err
	}
	return &populated, nil
}

func (s *MealService) ListMealsByDate(userID uint, date string) ([]models.Meal, error) {
	if err := s.EnsureDailyMeals(userID, date); err != nil {
		return nil, err
	}

	var meals []models.Meal
	err := config.DB.
		Preload("Plates").
		Preload("HungerLogs").
		Where("user_id = ? AND date = ?", userID, date).
		Order("id ASC").
		Find(&meals).Error
	return meals, err
}

func (s *MealService) GetMeal(userID, mealID uint) (*models.Meal, error) {
	var meal models.Meal
	err := config.DB.
		Preload("Plates").
		Preload("HungerLogs").
		Where("id = ? AND user_id = ?", mealID, userID).
		First(&meal).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &meal, nil
}

func (s *MealService) DeleteMeal(userID, mealID uint) error {
	var meal models.Meal
	if err := config.DB.Where("id = ? AND user_id = ?", mealID, userID).First(&meal).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return err
	}

	return config.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("meal_id = ?", meal.ID).Delete(&models.Plate{}).Error; err != nil {
			return err
		}
		if err := tx.Where("meal_id = ?", meal.ID).Delete(&models.HungerLog{}).Error; err != nil {
			return err
		}
		return tx.Delete(&meal).Error
	})
}
