package models

import (
	"time"

	"github.com/google/uuid"
)

type Order struct {
	ID          uuid.UUID `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	UserID      uuid.UUID `gorm:"not null;index" json:"user_id"`
	ServiceID   string    `gorm:"size:50;not null" json:"service_id"`
	ServiceName string    `gorm:"size:255" json:"service_name"`
	Link        string    `gorm:"size:500;not null" json:"link"`
	Quantity    int       `gorm:"not null" json:"quantity"`
	Amount      float64   `gorm:"type:numeric(10,2);not null" json:"amount"`
	Status      string    `gorm:"size:20;not null;default:'pending'" json:"status"`

	ProviderOrderID *string `gorm:"size:100;unique" json:"provider_order_id"`

	User User `gorm:"foreignkey:UserID" json:"-"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
