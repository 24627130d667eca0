package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Order statuses.
const (
	OrderStatusQuote     = "quote"
	OrderStatusPending   = "pending"
	OrderStatusCompleted = "completed"
	OrderStatusRefunded  = "refunded"
)

// Payment methods. "none" is recorded for quotes regardless of input.
const (
	PaymentCash     = "cash"
	PaymentCard     = "card"
	PaymentTransfer = "transfer"
	PaymentDebt     = "debt"
	PaymentWallet   = "wallet"
	PaymentNone     = "none"
)

// Order is one sale or quote. Lines are created atomically with the order at
// sale time and never deleted once the order is completed.
type Order struct {
	ID            uuid.UUID  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	CashierID     uuid.UUID  `gorm:"type:uuid;not null;index"`
	CustomerID    *uuid.UUID `gorm:"type:uuid;index"`
	TotalAmount   decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
	Status        string          `gorm:"type:varchar(20);not null;default:'pending'"`
	PaymentMethod string          `gorm:"type:varchar(20);not null;default:'cash'"`
	CreatedAt     time.Time

	Lines    []OrderLine `gorm:"foreignKey:OrderID"`
	Customer *Customer   `gorm:"foreignKey:CustomerID"`
	Cashier  *User       `gorm:"foreignKey:CashierID"`
}

// OrderLine freezes the unit price at the moment of sale. UnitPrice is
// immutable thereafter; RefundedQuantity only ever grows, bounded by Quantity.
type OrderLine struct {
	ID               uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	OrderID          uuid.UUID       `gorm:"type:uuid;not null;index"`
	VariantID        uuid.UUID       `gorm:"type:uuid;not null;index"`
	Quantity         int             `gorm:"not null;default:1"`
	UnitPrice        decimal.Decimal `gorm:"type:decimal(10,2);not null"`
	RefundedQuantity int             `gorm:"not null;default:0"`
	CreatedAt        time.Time

	Variant *Variant `gorm:"foreignKey:VariantID"`
}

// LineTotal is quantity times the frozen unit price.
func (l *OrderLine) LineTotal() decimal.Decimal {
	return l.UnitPrice.Mul(decimal.NewFromInt(int64(l.Quantity)))
}
