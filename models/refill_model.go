package models

import (
	"time"

	"github.com/google/uuid"
)

type Refill struct {
	ID          uuid.UUID `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	OrderID     uuid.UUID `gorm:"not null;index" json:"order_id"`
	UserID      uuid.UUID `gorm:"not null;index" json:"user_id"`
	ServiceName string    `gorm:"size:255" json:"service_name"`
	Status      string    `gorm:"size:20;not null;default:'pending'" json:"status"`

	ProviderRefillID *string `gorm:"size:100" json:"provider_refill_id"`

	Order Order `gorm:"foreignkey:OrderID" json:"-"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
