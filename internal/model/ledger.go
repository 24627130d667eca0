package model

import (
	"time"

	"github.com/google/uuid"
)

// Ledger actions.
const (
	LedgerSale    = "sale"    // POS transaction
	LedgerRestock = "restock" // supplier delivery, return to shelf, upward variance
	LedgerAudit   = "audit"   // manual correction
	LedgerLoss    = "loss"    // damage, theft, downward variance
)

// LedgerEntry is an immutable audit fact: one stock change and the resulting
// quantity at the moment of write. Rows are append-only — the storage layer
// installs a trigger rejecting UPDATE and DELETE (see infra.NewDatabase).
// Replaying a variant's entries in creation order by summing QuantityChange
// from zero must reproduce every StockAfter.
type LedgerEntry struct {
	ID             uuid.UUID  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	VariantID      uuid.UUID  `gorm:"type:uuid;not null;index"`
	ActorID        *uuid.UUID `gorm:"type:uuid"`
	Action         string     `gorm:"type:varchar(20);not null"`
	QuantityChange int        `gorm:"not null"`
	StockAfter     int        `gorm:"not null"`
	Note           string
	CreatedAt      time.Time

	Variant *Variant `gorm:"foreignKey:VariantID"`
}

func (LedgerEntry) TableName() string { return "ledger_entries" }
