package handlers

import (
	"fmt"

	config "github.com/dgotpservice/dg-social-panel/configs"
	"github.com/dgotpservice/dg-social-panel/database"
	"github.com/dgotpservice/dg-social-panel/models"
	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v4"
)

// GetReferralStats reports the caller's code, link, completed referral count
// and total earned credit.
func GetReferralStats(c *fiber.Ctx) error {
	token := c.Locals("user").(*jwt.Token)
	claims := token.Claims.(jwt.MapClaims)
	userID := claims["user_id"].(string)

	var user models.User
	if err := database.DB.Where("id = ?", userID).First(&user).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "User not found"})
	}

	var count int64
	var earned float64
	database.DB.Model(&models.Referral{}).Where("referrer_id = ? AND status = ?", userID, "completed").Count(&count)
	database.DB.Model(&models.Referral{}).Where("referrer_id = ? AND status = ?", userID, "completed").
		Select("COALESCE(SUM(reward_amount), 0)").Row().Scan(&earned)

	var referralLink string
	if user.ReferralCode != nil {
		referralLink = fmt.Sprintf("%s/?ref=%s", config.Config("PANEL_URL"), *user.ReferralCode)
	}

	return c.JSON(fiber.Map{
		"referral_code": user.ReferralCode,
		"referral_link": referralLink,
		"count":         count,
		"earned":        earned,
	})
}
