package repository

import (
	"context"

	"github.com/AhmadAdewumi/inventro/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type SettingsRepository interface {
	// GetOrCreate fetches the singleton settings row, creating it with
	// defaults on first access. Creation is an upsert keyed on the fixed
	// SettingsKey so concurrent first calls cannot produce two rows.
	GetOrCreate(ctx context.Context) (*model.StoreSettings, error)
	Update(ctx context.Context, s *model.StoreSettings) error
}

type settingsRepo struct{ db *gorm.DB }

func NewSettingsRepository(db *gorm.DB) SettingsRepository { return &settingsRepo{db: db} }

func (r *settingsRepo) GetOrCreate(ctx context.Context) (*model.StoreSettings, error) {
	seed := model.StoreSettings{ID: model.SettingsKey, StoreName: "My Store"}
	if err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&seed).Error; err != nil {
		return nil, err
	}
	var s model.StoreSettings
	err := r.db.WithContext(ctx).First(&s, model.SettingsKey).Error
	return &s, err
}

func (r *settingsRepo) Update(ctx context.Context, s *model.StoreSettings) error {
	s.ID = model.SettingsKey
	return r.db.WithContext(ctx).Save(s).Error
}
