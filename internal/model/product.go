package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Product groups sellable variants under one name/category. Soft-deletable:
// a product with sale history is deactivated, never removed.
type Product struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Name        string    `gorm:"index;not null"`
	Description *string
	Category    string `gorm:"not null;default:'General'"`
	IsActive    bool   `gorm:"not null;default:true"`
	CreatedAt   time.Time
	UpdatedAt   time.Time

	Variants []Variant `gorm:"foreignKey:ProductID"`
}

// Variant is the unit of stock accounting. StockQuantity must never go
// negative through a sale or adjustment; only a stocktake may force-set it.
type Variant struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	ProductID  uuid.UUID `gorm:"type:uuid;not null;index"`
	SKU        string    `gorm:"uniqueIndex;not null"`
	Barcode    string    `gorm:"uniqueIndex;not null"`
	NameSuffix string    `gorm:"not null;default:'Standard'"`

	Price     decimal.Decimal `gorm:"type:decimal(10,2);not null"`
	CostPrice decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	TaxRate   decimal.Decimal `gorm:"type:decimal(5,2);not null;default:0"`

	StockQuantity     int  `gorm:"not null;default:0"`
	LowStockThreshold int  `gorm:"not null;default:5"`
	IsActive          bool `gorm:"not null;default:true"`
	CreatedAt         time.Time
	UpdatedAt         time.Time

	Product *Product `gorm:"foreignKey:ProductID"`
}
