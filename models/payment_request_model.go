package models

import (
	"time"

	"github.com/google/uuid"
)

type PaymentRequest struct {
	ID         uuid.UUID `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	UserID     uuid.UUID `gorm:"not null;index" json:"user_id"`
	Amount     float64   `gorm:"type:numeric(10,2);not null" json:"amount"`
	UTR        string    `gorm:"size:50;not null" json:"utr"`
	ProofURL   *string   `gorm:"size:500" json:"proof_url"`
	Status     string    `gorm:"size:20;not null;default:'pending'" json:"status"`
	AdminNotes *string   `gorm:"type:text" json:"admin_notes"`
	ReceiptURL *string   `gorm:"size:500" json:"receipt_url"`

	ProcessedAt *time.Time `json:"processed_at"`

	User User `gorm:"foreignkey:UserID" json:"user,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
