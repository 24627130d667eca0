package repository

import (
	"context"

	"github.com/AhmadAdewumi/inventro/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type CostHistoryRepository interface {
	CreateTx(tx *gorm.DB, h *model.CostHistory) error
	ListByVariant(ctx context.Context, variantID uuid.UUID, page, limit int) ([]model.CostHistory, int64, error)
}

type costHistoryRepo struct{ db *gorm.DB }

func NewCostHistoryRepository(db *gorm.DB) CostHistoryRepository {
	return &costHistoryRepo{db: db}
}

func (r *costHistoryRepo) CreateTx(tx *gorm.DB, h *model.CostHistory) error {
	return tx.Create(h).Error
}

// ListByVariant returns paginated cost-basis changes for one variant, newest
// first (append-only table, so this reflects natural insert order).
func (r *costHistoryRepo) ListByVariant(ctx context.Context, variantID uuid.UUID, page, limit int) ([]model.CostHistory, int64, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 200 {
		limit = 50
	}

	var total int64
	if err := r.db.WithContext(ctx).
		Model(&model.CostHistory{}).
		Where("variant_id = ?", variantID).
		Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var rows []model.CostHistory
	offset := (page - 1) * limit
	err := r.db.WithContext(ctx).
		Where("variant_id = ?", variantID).
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&rows).Error
	return rows, total, err
}
