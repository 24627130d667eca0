package repository

import (
	"context"
	"errors"

	"github.com/AhmadAdewumi/inventro/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type PromotionRepository interface {
	Create(ctx context.Context, p *model.Promotion) error
	List(ctx context.Context, includeInactive bool) ([]model.Promotion, error)
	SetActive(ctx context.Context, id uuid.UUID, active bool) error
	// FindBest returns the single active promotion with the highest discount
	// that matches the variant (or is store-wide) and whose min_quantity is
	// satisfied. Returns (nil, nil) when no rule matches.
	FindBest(ctx context.Context, variantID uuid.UUID, quantity int) (*model.Promotion, error)
}

type promotionRepo struct{ db *gorm.DB }

func NewPromotionRepository(db *gorm.DB) PromotionRepository { return &promotionRepo{db: db} }

func (r *promotionRepo) Create(ctx context.Context, p *model.Promotion) error {
	return r.db.WithContext(ctx).Create(p).Error
}

func (r *promotionRepo) List(ctx context.Context, includeInactive bool) ([]model.Promotion, error) {
	q := r.db.WithContext(ctx).Order("created_at DESC")
	if !includeInactive {
		q = q.Where("is_active = true")
	}
	var promos []model.Promotion
	err := q.Find(&promos).Error
	return promos, err
}

func (r *promotionRepo) SetActive(ctx context.Context, id uuid.UUID, active bool) error {
	return r.db.WithContext(ctx).Model(&model.Promotion{}).Where("id = ?", id).Update("is_active", active).Error
}

func (r *promotionRepo) FindBest(ctx context.Context, variantID uuid.UUID, quantity int) (*model.Promotion, error) {
	var p model.Promotion
	// Ties on discount_percent are broken by id for a stable order.
	err := r.db.WithContext(ctx).
		Where("is_active = true AND min_quantity <= ?", quantity).
		Where("variant_id = ? OR variant_id IS NULL", variantID).
		Order("discount_percent DESC, id ASC").
		First(&p).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}
