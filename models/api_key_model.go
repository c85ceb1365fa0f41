package models

import (
	"time"

	"github.com/google/uuid"
)

type APIKey struct {
	ID     uuid.UUID `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	UserID uuid.UUID `gorm:"not null;unique" json:"user_id"`
	Key    string    `gorm:"size:64;not null;unique" json:"key"`

	CreatedAt time.Time `json:"created_at"`
}
