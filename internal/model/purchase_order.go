package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Purchase order statuses. "received" is terminal for receiving: a second
// receive must fail, never double-apply.
const (
	POStatusDraft    = "draft"
	POStatusOrdered  = "ordered"
	POStatusReceived = "received"
	POStatusCanceled = "canceled"
)

// PurchaseOrder is a supplier-facing procurement document.
type PurchaseOrder struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	SupplierID   uuid.UUID `gorm:"type:uuid;not null;index"`
	CreatedByID  uuid.UUID `gorm:"type:uuid;not null"`
	Status       string    `gorm:"type:varchar(20);not null;default:'draft'"`
	ExpectedDate *time.Time
	ReceivedAt   *time.Time
	TotalCost    decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
	Note         string
	CreatedAt    time.Time
	UpdatedAt    time.Time

	Lines    []PurchaseOrderLine `gorm:"foreignKey:PurchaseOrderID"`
	Supplier *Supplier           `gorm:"foreignKey:SupplierID"`
}

// PurchaseOrderLine carries the cost per unit for this specific shipment.
type PurchaseOrderLine struct {
	ID              uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	PurchaseOrderID uuid.UUID       `gorm:"type:uuid;not null;index"`
	VariantID       uuid.UUID       `gorm:"type:uuid;not null"`
	Quantity        int             `gorm:"not null"`
	UnitCost        decimal.Decimal `gorm:"type:decimal(12,2);not null"`

	Variant *Variant `gorm:"foreignKey:VariantID"`
}

// LineTotal is quantity times unit cost.
func (l *PurchaseOrderLine) LineTotal() decimal.Decimal {
	return l.UnitCost.Mul(decimal.NewFromInt(int64(l.Quantity)))
}
