package model

import (
	"time"

	"github.com/google/uuid"
)

// Supplier is the counterparty of purchase orders.
type Supplier struct {
	ID            uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Name          string    `gorm:"not null"`
	ContactPerson string
	Email         *string
	Phone         *string
	Address       *string
	IsActive      bool `gorm:"not null;default:true"`
	CreatedAt     time.Time
	UpdatedAt     time.Time
}
