package model

import (
	"time"

	"github.com/google/uuid"
)

// Notification titles used for deduplication and routing.
const (
	NotifLowStock      = "Low Stock Alert"
	NotifStockReceived = "Stock Received"
	NotifStocktakeDone = "Stocktake Finished"
)

// Notification is a fire-and-forget alert row, written in the same unit of
// work as the mutation that triggered it.
type Notification struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Title     string    `gorm:"not null"`
	Message   string    `gorm:"not null"`
	Link      string
	IsRead    bool `gorm:"not null;default:false"`
	CreatedAt time.Time
}
