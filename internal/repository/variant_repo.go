package repository

import (
	"context"

	"github.com/AhmadAdewumi/inventro/internal/dto"
	"github.com/AhmadAdewumi/inventro/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// VariantRepository defines the data access contract for sellable units.
// Services depend on this interface, not on the concrete GORM implementation,
// enabling clean unit testing via in-memory stubs.
type VariantRepository interface {
	Create(ctx context.Context, v *model.Variant) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Variant, error)
	FindByBarcode(ctx context.Context, barcode string) (*model.Variant, error)
	List(ctx context.Context, filter dto.VariantFilter) ([]model.Variant, int64, error)
	ListActive(ctx context.Context) ([]model.Variant, error)
	CountBelowThreshold(ctx context.Context) (int64, error)
	Update(ctx context.Context, v *model.Variant) error
	Deactivate(ctx context.Context, id uuid.UUID) error
	Reactivate(ctx context.Context, id uuid.UUID) error

	// Used inside transactions — callers must pass the tx instance.
	// LockByIDTx takes an exclusive row lock (SELECT ... FOR UPDATE) that is
	// held until the surrounding transaction commits or rolls back.
	LockByIDTx(tx *gorm.DB, id uuid.UUID) (*model.Variant, error)
	SaveTx(tx *gorm.DB, v *model.Variant) error

	// DB exposes the underlying *gorm.DB so services can open transactions.
	DB() *gorm.DB
}

type variantRepo struct{ db *gorm.DB }

func NewVariantRepository(db *gorm.DB) VariantRepository { return &variantRepo{db: db} }

func (r *variantRepo) Create(ctx context.Context, v *model.Variant) error {
	return r.db.WithContext(ctx).Create(v).Error
}

func (r *variantRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Variant, error) {
	var v model.Variant
	err := r.db.WithContext(ctx).Preload("Product").First(&v, id).Error
	return &v, err
}

func (r *variantRepo) FindByBarcode(ctx context.Context, barcode string) (*model.Variant, error) {
	var v model.Variant
	err := r.db.WithContext(ctx).Preload("Product").Where("barcode = ?", barcode).First(&v).Error
	return &v, err
}

func (r *variantRepo) List(ctx context.Context, filter dto.VariantFilter) ([]model.Variant, int64, error) {
	var variants []model.Variant
	var total int64

	q := r.db.WithContext(ctx).Model(&model.Variant{}).Joins("Product")

	// Active filter: "false" = inactive, "all" = everything, default = active
	switch filter.Active {
	case "false":
		q = q.Where("variants.is_active = false")
	case "all":
		// no filter
	default:
		q = q.Where("variants.is_active = true")
	}

	if filter.Barcode != "" {
		q = q.Where("variants.barcode = ?", filter.Barcode)
	}
	if filter.SKU != "" {
		q = q.Where("variants.sku = ?", filter.SKU)
	}
	if filter.Name != "" {
		q = q.Where(`"Product".name ILIKE ?`, "%"+filter.Name+"%")
	}
	if filter.Category != "" {
		q = q.Where(`"Product".category = ?`, filter.Category)
	}

	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	page := filter.Page
	limit := filter.Limit
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 500 {
		limit = 50
	}
	offset := (page - 1) * limit
	err := q.Order(`"Product".name ASC, variants.name_suffix ASC`).Limit(limit).Offset(offset).Find(&variants).Error
	return variants, total, err
}

func (r *variantRepo) ListActive(ctx context.Context) ([]model.Variant, error) {
	var variants []model.Variant
	err := r.db.WithContext(ctx).Where("is_active = true").Order("id ASC").Find(&variants).Error
	return variants, err
}

func (r *variantRepo) CountBelowThreshold(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&model.Variant{}).
		Where("is_active = true AND stock_quantity <= low_stock_threshold").
		Count(&n).Error
	return n, err
}

func (r *variantRepo) Update(ctx context.Context, v *model.Variant) error {
	return r.db.WithContext(ctx).Save(v).Error
}

func (r *variantRepo) Deactivate(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Model(&model.Variant{}).Where("id = ?", id).Update("is_active", false).Error
}

func (r *variantRepo) Reactivate(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Model(&model.Variant{}).Where("id = ?", id).Update("is_active", true).Error
}

func (r *variantRepo) LockByIDTx(tx *gorm.DB, id uuid.UUID) (*model.Variant, error) {
	var v model.Variant
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&v, id).Error
	return &v, err
}

func (r *variantRepo) SaveTx(tx *gorm.DB, v *model.Variant) error {
	return tx.Save(v).Error
}

func (r *variantRepo) DB() *gorm.DB { return r.db }
