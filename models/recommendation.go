package models

import (
    "gorm.io/datatypes"
    "gorm.io/gorm"
)

// RecommendationItem is one structured recommendation extracted from the
// nutritionist's document. Extraction happens outside this service; the
// API receives the already-parsed list.
type RecommendationItem struct {
    ID          int    `json:"id"`
    Text        string `json:"text"`
    Category    string `json:"category,omitempty"`
    Tracked     bool   `json:"tracked"`
    TargetValue string `json:"target_value,omitempty"`
    Notes       string `json:"notes,omitempty"`
}

// RecommendationSet holds everything from one nutritionist visit.
type RecommendationSet struct {
    gorm.Model
    UserID    uint                                       `gorm:"index;not null" json:"user_id"`
    VisitDate string                                     `gorm:"type:varchar(10);not null" json:"visit_date"`
    FilePath  string                                     `json:"file_path,omitempty"`
    RawText   string                                     `json:"raw_text,omitempty"`
    Items     datatypes.JSONType[[]RecommendationItem]   `json:"items"`
}
