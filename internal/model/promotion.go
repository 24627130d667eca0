package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Promotion is a dynamic pricing rule: buy MinQuantity or more, get
// DiscountPercent off. A nil VariantID makes the rule store-wide.
type Promotion struct {
	ID              uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Name            string    `gorm:"not null"`
	IsActive        bool      `gorm:"not null;default:true"`
	MinQuantity     int       `gorm:"not null;default:1"`
	DiscountPercent decimal.Decimal `gorm:"type:decimal(5,2);not null"`
	VariantID       *uuid.UUID      `gorm:"type:uuid;index"`
	CreatedAt       time.Time

	Variant *Variant `gorm:"foreignKey:VariantID"`
}
