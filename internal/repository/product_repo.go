package repository

import (
	"context"

	"github.com/AhmadAdewumi/inventro/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ProductRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*model.Product, error)
	// FirstOrCreateByName finds an active product with the given name or
	// creates one with the supplied category.
	FirstOrCreateByName(ctx context.Context, name, category string) (*model.Product, error)
	Deactivate(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context) ([]model.Product, error)
}

type productRepo struct{ db *gorm.DB }

func NewProductRepository(db *gorm.DB) ProductRepository { return &productRepo{db: db} }

func (r *productRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Product, error) {
	var p model.Product
	err := r.db.WithContext(ctx).Preload("Variants").First(&p, id).Error
	return &p, err
}

func (r *productRepo) FirstOrCreateByName(ctx context.Context, name, category string) (*model.Product, error) {
	var p model.Product
	err := r.db.WithContext(ctx).
		Where(model.Product{Name: name}).
		Attrs(model.Product{Category: category}).
		FirstOrCreate(&p).Error
	return &p, err
}

func (r *productRepo) Deactivate(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Model(&model.Product{}).Where("id = ?", id).Update("is_active", false).Error
}

func (r *productRepo) List(ctx context.Context) ([]model.Product, error) {
	var products []model.Product
	err := r.db.WithContext(ctx).Where("is_active = true").Order("name ASC").Find(&products).Error
	return products, err
}
