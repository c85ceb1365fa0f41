package models

import (
	"time"

	"github.com/google/uuid"
)

type User struct {
	ID       uuid.UUID `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	Name     string    `gorm:"size:255;not null" json:"name"`
	Email    string    `gorm:"size:255;not null;unique" json:"email"`
	Password string    `gorm:"not null" json:"-"`
	Role     string    `gorm:"size:20;not null;default:'user'" json:"role"`
	Status   string    `gorm:"size:20;not null;default:'active'" json:"status"`
	Balance  float64   `gorm:"type:numeric(10,2);default:0.00" json:"balance"`

	ReferralCode   *string `gorm:"size:12;unique" json:"referral_code"`
	ReferredByCode *string `gorm:"size:12" json:"referred_by_code"`

	ResetPasswordToken          *string    `gorm:"size:255;unique" json:"-"`
	ResetPasswordTokenExpiresAt *time.Time `json:"-"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
