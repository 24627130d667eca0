package model

import "time"

// SettingsKey is the fixed primary key of the single store_settings row.
const SettingsKey = 1

// StoreSettings is a singleton aggregate fetched-or-created by its fixed key.
// Creation is guarded by an upsert on that key, never by process-global state.
type StoreSettings struct {
	ID        int    `gorm:"primaryKey"`
	StoreName string `gorm:"not null;default:'My Store'"`
	Address   string
	Phone     string
	Email     string
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (StoreSettings) TableName() string { return "store_settings" }
