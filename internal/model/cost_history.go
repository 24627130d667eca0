package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CostHistory records every cost-basis change applied when a purchase order
// is received. One row per receive per variant.
type CostHistory struct {
	ID              uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	VariantID       uuid.UUID       `gorm:"type:uuid;not null;index"`
	PurchaseOrderID uuid.UUID       `gorm:"type:uuid;not null"`
	OldCost         decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	NewCost         decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	CreatedAt       time.Time

	Variant *Variant `gorm:"foreignKey:VariantID"`
}

func (CostHistory) TableName() string { return "cost_history" }
