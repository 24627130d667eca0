package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Customer holds a store-credit wallet. Positive balance = credit owed to the
// customer, negative = debt owed to the store. Mutated only by settlement of
// the debt/wallet payment methods.
type Customer struct {
	ID            uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Name          string    `gorm:"not null"`
	Phone         string    `gorm:"uniqueIndex;not null"`
	Email         *string
	Address       *string
	WalletBalance decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
	CreatedAt     time.Time
}
