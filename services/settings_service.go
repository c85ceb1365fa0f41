package services

import (
	"log"
	"sync"

	"github.com/dgotpservice/dg-social-panel/database"
	"github.com/dgotpservice/dg-social-panel/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const CommissionKey = "commission"

var (
	commissionCache  float64
	commissionLoaded bool
	commissionMutex  sync.RWMutex
)

// GetCommission returns the global markup percentage. The value is read from
// the settings table once and cached until SetCommission replaces it; a
// missing row means no markup.
func GetCommission() float64 {
	commissionMutex.RLock()
	if commissionLoaded {
		value := commissionCache
		commissionMutex.RUnlock()
		return value
	}
	commissionMutex.RUnlock()

	commissionMutex.Lock()
	defer commissionMutex.Unlock()
	if commissionLoaded {
		return commissionCache
	}

	var setting models.Setting
	err := database.DB.First(&setting, "key = ?", CommissionKey).Error
	if err != nil {
		if err != gorm.ErrRecordNotFound {
			log.Printf("🔥 Failed to load commission setting: %v", err)
			return 0
		}
		setting.Value = 0
	}

	commissionCache = setting.Value
	commissionLoaded = true
	return commissionCache
}

func SetCommission(value float64) error {
	setting := models.Setting{Key: CommissionKey, Value: value}
	err := database.DB.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
	}).Create(&setting).Error
	if err != nil {
		return err
	}

	commissionMutex.Lock()
	commissionCache = value
	commissionLoaded = true
	commissionMutex.Unlock()
	return nil
}
