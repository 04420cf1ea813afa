package services

import (
	"errors"
	"fmt"

	"github.com/davidkorenblit/nutrition-tracker/config"
	"github.com/davidkorenblit/nutrition-tracker/models"
	"github.com/davidkorenblit/nutrition-tracker/utils"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// RecommendationService stores the structured output of the nutritionist
// visit. The document-to-items extraction runs outside this service; the
// API receives the already-parsed list and optionally the raw document,
// which is archived in S3.
type RecommendationService struct{}

func NewRecommendationService() *RecommendationService { return &RecommendationService{} }

type RecommendationSetInput struct {
	VisitDate      string                      `json:"visit_date"`
	Items          []models.RecommendationItem `json:"items"`
	RawText        string                      `json:"raw_text,omitempty"`
	DocumentBase64 string                      `json:"document_base64,omitempty"`
}

type RecommendationTagInput struct {
	ItemID      int    `json:"item_id"`
	Category    string `json:"category"`
	Tracked     bool   `json:"tracked"`
	TargetValue string `json:"target_value"`
	Notes       string `json:"notes"`
}

func (s *RecommendationService) CreateSet(userID uint, input RecommendationSetInput) (*models.RecommendationSet, error) {
	if input.VisitDate == "" {
		return nil, NewValidationError("visit_date is required")
	}
	if len(input.Items) == 0 {
		return nil, NewValidationError("must include at least one recommendation item")
	}

	filePath := ""
	if input.DocumentBase64 != "" {
		key, err := utils.UploadBase64ToS3(input.DocumentBase64, "recommendation-docs", fmt.Sprintf("user-%d", userID))
		if err != nil {
			return nil, fmt.Errorf("failed to archive document: %w", err)
		}
		filePath = key
	}

	set := models.RecommendationSet{
		UserID:    userID,
		VisitDate: input.VisitDate,
		FilePath:  filePath,
		RawText:   input.RawText,
		Items:     datatypes.NewJSONType(input.Items),
	}
	if err := config.DB.Create(&set).Error; err != nil {
		return nil, err
	}
	return &set, nil
}

func (s *RecommendationService) ListSets(userID uint) ([]models.RecommendationSet, error) {
	var sets []models.RecommendationSet
	err := config.DB.
		Where("user_id = ?", userID).
		Order("visit_date DESC").
		Find(&sets).Error
	return sets, err
}

func (s *RecommendationService) GetSet(userID, setID uint) (*models.RecommendationSet, error) {
	var set models.RecommendationSet
	err := config.DB.Where("id = ? AND user_id = ?", setID, userID).First(&set).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &set, nil
}

// TagItem updates the tracking metadata of one item inside a set's JSON
// payload.
func (s *RecommendationService) TagItem(userID, setID uint, input RecommendationTagInput) (*models.RecommendationSet, error) {
	set, err := s.GetSet(userID, setID)
	if err != nil {
		return nil, err
	}

	items := set.Items.Data()
	updated := false
	for i := range items {
		if items[i].ID == input.ItemID {
			items[i].Category = input.Category
			items[i].Tracked = input.Tracked
			items[i].TargetValue = input.TargetValue
			items[i].Notes = input.Notes
			updated = true
			break
		}
	}
	if !updated {
		return nil, ErrNotFound
	}

	set.Items = datatypes.NewJSONType(items)
	if err := config.DB.Save(set).Error; err != nil {
		return nil, err
	}
	return set, nil
}

func (s *RecommendationService) DeleteSet(userID, setID uint) error {
	res := config.DB.Where("id = ? AND user_id = ?", setID, userID).Delete(&models.RecommendationSet{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
