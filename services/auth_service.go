package services

import (
	"errors"
	"log"

	"github.com/davidkorenblit/nutrition-tracker/config"
	"github.com/davidkorenblit/nutrition-tracker/models"
	"github.com/davidkorenblit/nutrition-tracker/utils"
)

func RegisterUser(email, password, fullName string) error {
	hashedPassword, err := utils.HashPassword(password)
	if err != nil {
		return err
	}

	code := utils.GenerateVerificationCode(6)

	user := models.User{
		Email:            email,
		Password:         hashedPassword,
		FullName:         fullName,
		Verified:         false,
		VerificationCode: code,
	}

	if err := config.DB.Create(&user).Error; err != nil {
		return err
	}

	// Verification mail is best-effort; the code can be re-requested.
	if err := utils.SendVerificationEmail(email, code); err != nil {
		log.Printf("verification email to %s failed: %v", email, err)
	}
	return nil
}

func VerifyUser(email, code string) error {
	var user models.User
	if err := config.DB.Where("email = ?", email).First(&user).Error; err != nil {
		return errors.New("user not found")
	}
	if user.Verified {
		return nil
	}
	if user.VerificationCode == "" || user.VerificationCode != code {
		return errors.New("invalid verification code")
	}

	user.Verified = true
	user.VerificationCode = ""
	return config.DB.Save(&user).Error
}

func AuthenticateUser(email, password string) (string, error) {
	var user models.User
	result := config.DB.Where("email = ?", email).First(&user)
	if result.Error != nil {
		return "", errors.New("user not found")
	}

	if !utils.CheckPassword(user.Password, password) {
		return "", errors.New("incorrect password")
	}

	if !user.Verified {
		return "", errors.New("email not verified")
	}

	token, err := utils.GenerateJWT(user.ID, user.Email)
	if err != nil {
		return "", err
	}

	return token, nil
}
