package services

import (
	"fmt"
	"log"
	"math"

	"github.com/dgotpservice/dg-social-panel/database"
	"github.com/dgotpservice/dg-social-panel/models"
	"github.com/dgotpservice/dg-social-panel/notifications"
	"github.com/dgotpservice/dg-social-panel/websocket"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

const ReferralRewardPercent = 5.0

// ReferralReward is the credit earned by a referrer for the referred user's
// first approved top-up.
func ReferralReward(topUpAmount float64) float64 {
	return math.Round(topUpAmount*ReferralRewardPercent) / 100
}

// CompleteReferralIfApplicable credits the referrer once the referred user's
// first top-up is approved. Safe to call on every approval: a completed
// referral is never paid twice.
func CompleteReferralIfApplicable(userID uuid.UUID, topUpAmount float64) {
	var referrerID uuid.UUID
	var reward float64

	err := database.DB.Transaction(func(tx *gorm.DB) error {
		var referral models.Referral
		if err := tx.Preload("Referrer").Where("referred_user_id = ? AND status = ?", userID, "pending").First(&referral).Error; err != nil {
			if err == gorm.ErrRecordNotFound {
				return nil
			}
			return err
		}

		reward = ReferralReward(topUpAmount)
		referrerID = referral.ReferrerID

		if err := tx.Model(&models.User{}).Where("id = ?", referral.ReferrerID).
			Update("balance", gorm.Expr("balance + ?", reward)).Error; err != nil {
			return err
		}

		referral.Status = "completed"
		referral.RewardAmount = reward
		if err := tx.Save(&referral).Error; err != nil {
			return err
		}

		go notifications.SendEmail(
			referral.Referrer.Name,
			referral.Referrer.Email,
			"You've Earned a Referral Credit!",
			fmt.Sprintf("<h1>Congratulations!</h1><p>Someone you referred has made their first top-up. A credit of ₹%.2f has been added to your balance.</p>", reward),
		)

		return nil
	})

	if err != nil {
		log.Printf("🔥 Error processing referral for user %s: %v", userID, err)
		return
	}

	if referrerID != uuid.Nil {
		var referrer models.User
		if err := database.DB.First(&referrer, "id = ?", referrerID).Error; err == nil {
			websocket.PushBalance(referrer.ID, referrer.Balance)
		}
	}
}
