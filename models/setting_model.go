package models

import "time"

// Setting is a key/value row for process-wide configuration. The only key
// written today is "commission", the global markup percentage.
type Setting struct {
	Key   string  `gorm:"size:50;primary_key" json:"key"`
	Value float64 `gorm:"type:numeric(10,2);not null" json:"value"`

	UpdatedAt time.Time `json:"updated_at"`
}
