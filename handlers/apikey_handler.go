package handlers

import (
	"github.com/dgotpservice/dg-social-panel/database"
	"github.com/dgotpservice/dg-social-panel/models"
	"github.com/dgotpservice/dg-social-panel/utils"
	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

func GetAPIKey(c *fiber.Ctx) error {
	token := c.Locals("user").(*jwt.Token)
	claims := token.Claims.(jwt.MapClaims)
	userID := claims["user_id"].(string)

	var apiKey models.APIKey
	if err := database.DB.Where("user_id = ?", userID).First(&apiKey).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return c.JSON(fiber.Map{"key": nil, "message": "No API key generated yet"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to load API key"})
	}

	return c.JSON(apiKey)
}

// GenerateAPIKey creates or replaces the caller's API key. One key per user;
// regenerating invalidates the old one.
func GenerateAPIKey(c *fiber.Ctx) error {
	token := c.Locals("user").(*jwt.Token)
	claims := token.Claims.(jwt.MapClaims)
	userID, _ := uuid.Parse(claims["user_id"].(string))

	key, err := utils.GenerateAPIKey()
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to generate API key"})
	}

	apiKey := models.APIKey{UserID: userID, Key: key}
	err = database.DB.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"key", "created_at"}),
	}).Create(&apiKey).Error
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to save API key"})
	}

	return c.Status(fiber.StatusCreated).JSON(apiKey)
}
