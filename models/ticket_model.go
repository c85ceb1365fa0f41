package models

import (
	"time"

	"github.com/google/uuid"
)

type Ticket struct {
	ID      uuid.UUID `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	UserID  uuid.UUID `gorm:"not null;index" json:"user_id"`
	Subject string    `gorm:"size:255;not null" json:"subject"`
	Message string    `gorm:"type:text;not null" json:"message"`
	Status  string    `gorm:"size:20;not null;default:'open'" json:"status"`

	User User `gorm:"foreignkey:UserID" json:"user,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
