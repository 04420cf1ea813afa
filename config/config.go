package config

import (
	"fmt"
	"log"
	"os"

	"github.com/davidkorenblit/nutrition-tracker/models"

	"github.com/joho/godotenv"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

var DB *gorm.DB

func InitDB() {
	err := godotenv.Load()
	if err != nil {
		log.Fatalf("Error loading .env file")
	}

	dsn := fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=disable",
		os.Getenv("DB_HOST"),
		os.Getenv("DB_USER"),
		os.Getenv("DB_PASSWORD"),
		os.Getenv("DB_NAME"),
		os.Getenv("DB_PORT"),
	)

	DB, err = gorm.Open(postgres.Open(dsn), &gorm.Config{TranslateError: true})
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	err = DB.AutoMigrate(
		&models.User{},
		&models.WaterLog{},
		&models.WeeklyNote{},
		&models.Meal{},
		&models.Snack{},
		&models.Plate{},
		&models.HungerLog{},
		&models.RecommendationSet{},
		&models.ComplianceCheck{},
	)
	if err != nil {
		log.Fatalf("AutoMigrate failed: %v", err)
	}
}
