package model

import (
	"time"

	"github.com/google/uuid"
)

// Stocktake session statuses.
const (
	StocktakeInProgress = "in_progress"
	StocktakeCompleted  = "completed"
	StocktakeCanceled   = "canceled"
)

// StocktakeSession snapshots expected stock for every active variant, collects
// physical counts, and reconciles variances on approval. A completed session
// may never be deleted — it is part of the audit trail.
type StocktakeSession struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	CreatedByID uuid.UUID `gorm:"type:uuid;not null"`
	Status      string    `gorm:"type:varchar(20);not null;default:'in_progress'"`
	Note        string
	CreatedAt   time.Time
	CompletedAt *time.Time

	Items []StocktakeItem `gorm:"foreignKey:SessionID"`
}

// StocktakeItem pairs the system's expected quantity at session start with the
// human-entered count. Counts default to 0 (blind count).
type StocktakeItem struct {
	ID               uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	SessionID        uuid.UUID `gorm:"type:uuid;not null;index"`
	VariantID        uuid.UUID `gorm:"type:uuid;not null"`
	ExpectedQuantity int       `gorm:"not null"`
	CountedQuantity  int       `gorm:"not null;default:0"`

	Variant *Variant `gorm:"foreignKey:VariantID"`
}

// Variance is counted minus expected.
func (i *StocktakeItem) Variance() int { return i.CountedQuantity - i.ExpectedQuantity }
