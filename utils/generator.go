package utils

import (
	"crypto/rand"
	"encoding/hex"
	"math/big"

	"github.com/dgotpservice/dg-social-panel/models"
	"gorm.io/gorm"
)

const referralCodeLength = 8
const letterBytes = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// GenerateUniqueReferralCode draws DG-prefixed codes until one is free.
func GenerateUniqueReferralCode(tx *gorm.DB) (string, error) {
	for {
		b := make([]byte, referralCodeLength)
		for i := range b {
			n, err := rand.Int(rand.Reader, big.NewInt(int64(len(letterBytes))))
			if err != nil {
				return "", err
			}
			b[i] = letterBytes[n.Int64()]
		}
		code := "DG" + string(b)

		var user models.User
		err := tx.Where("referral_code = ?", code).First(&user).Error
		if err != nil {
			if err == gorm.ErrRecordNotFound {
				return code, nil
			}
			return "", err
		}
	}
}

// GenerateAPIKey returns an opaque DG_ token. 24 random bytes keeps the key
// inside the 64-char column with the prefix.
func GenerateAPIKey() (string, error) {
	tokenBytes := make([]byte, 24)
	if _, err := rand.Read(tokenBytes); err != nil {
		return "", err
	}
	return "DG_" + hex.EncodeToString(tokenBytes), nil
}
