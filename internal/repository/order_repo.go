package repository

import (
	"context"
	"time"

	"github.com/AhmadAdewumi/inventro/internal/dto"
	"github.com/AhmadAdewumi/inventro/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type OrderRepository interface {
	CreateTx(tx *gorm.DB, o *model.Order) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Order, error)
	List(ctx context.Context, filter dto.OrderFilter) ([]model.Order, int64, error)
	UpdateStatusTx(tx *gorm.DB, id uuid.UUID, status string) error
	SaveLineTx(tx *gorm.DB, line *model.OrderLine) error
	Delete(ctx context.Context, id uuid.UUID) error

	// Aggregates for the dashboard.
	RevenueForDay(ctx context.Context, day time.Time) (decimal.Decimal, error)
	ProfitForDay(ctx context.Context, day time.Time) (decimal.Decimal, error)
	TopSellers(ctx context.Context, limit int) ([]dto.TopSellerRow, error)

	DB() *gorm.DB
}

type orderRepo struct{ db *gorm.DB }

func NewOrderRepository(db *gorm.DB) OrderRepository { return &orderRepo{db: db} }

func (r *orderRepo) DB() *gorm.DB { return r.db }

func (r *orderRepo) CreateTx(tx *gorm.DB, o *model.Order) error {
	return tx.Create(o).Error
}

func (r *orderRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Order, error) {
	var o model.Order
	err := r.db.WithContext(ctx).
		Preload("Lines", func(db *gorm.DB) *gorm.DB { return db.Order("order_lines.created_at ASC") }).
		Preload("Lines.Variant.Product").
		Preload("Customer").
		First(&o, id).Error
	return &o, err
}

func (r *orderRepo) List(ctx context.Context, filter dto.OrderFilter) ([]model.Order, int64, error) {
	var orders []model.Order
	var total int64

	q := r.db.WithContext(ctx).Model(&model.Order{})
	if filter.Status != "" && filter.Status != "all" {
		q = q.Where("status = ?", filter.Status)
	}
	if filter.Date != "" {
		q = q.Where("DATE(created_at) = ?", filter.Date)
	}
	if filter.CustomerID != "" {
		q = q.Where("customer_id = ?", filter.CustomerID)
	}

	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	page := filter.Page
	limit := filter.Limit
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 200 {
		limit = 50
	}
	err := q.Preload("Lines.Variant.Product").Preload("Customer").
		Order("created_at DESC").
		Offset((page - 1) * limit).Limit(limit).
		Find(&orders).Error
	return orders, total, err
}

func (r *orderRepo) UpdateStatusTx(tx *gorm.DB, id uuid.UUID, status string) error {
	return tx.Model(&model.Order{}).Where("id = ?", id).Update("status", status).Error
}

func (r *orderRepo) SaveLineTx(tx *gorm.DB, line *model.OrderLine) error {
	return tx.Save(line).Error
}

// Delete removes an order and its lines. Services only call this for quotes.
func (r *orderRepo) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("order_id = ?", id).Delete(&model.OrderLine{}).Error; err != nil {
			return err
		}
		return tx.Delete(&model.Order{}, id).Error
	})
}

func (r *orderRepo) RevenueForDay(ctx context.Context, day time.Time) (decimal.Decimal, error) {
	var revenue decimal.NullDecimal
	err := r.db.WithContext(ctx).Model(&model.Order{}).
		Select("SUM(total_amount)").
		Where("DATE(created_at) = DATE(?) AND status = ?", day, model.OrderStatusCompleted).
		Scan(&revenue).Error
	if err != nil || !revenue.Valid {
		return decimal.Zero, err
	}
	return revenue.Decimal, nil
}

func (r *orderRepo) ProfitForDay(ctx context.Context, day time.Time) (decimal.Decimal, error) {
	var profit decimal.NullDecimal
	err := r.db.WithContext(ctx).Model(&model.OrderLine{}).
		Select("SUM((order_lines.unit_price - variants.cost_price) * order_lines.quantity)").
		Joins("JOIN orders ON orders.id = order_lines.order_id").
		Joins("JOIN variants ON variants.id = order_lines.variant_id").
		Where("DATE(orders.created_at) = DATE(?) AND orders.status = ?", day, model.OrderStatusCompleted).
		Scan(&profit).Error
	if err != nil || !profit.Valid {
		return decimal.Zero, err
	}
	return profit.Decimal, nil
}

func (r *orderRepo) TopSellers(ctx context.Context, limit int) ([]dto.TopSellerRow, error) {
	if limit < 1 {
		limit = 5
	}
	var rows []dto.TopSellerRow
	err := r.db.WithContext(ctx).Model(&model.OrderLine{}).
		Select(`products.name AS product_name,
			variants.name_suffix AS variant_name,
			SUM(order_lines.quantity) AS total_sold,
			SUM(order_lines.unit_price * order_lines.quantity) AS total_revenue`).
		Joins("JOIN variants ON variants.id = order_lines.variant_id").
		Joins("JOIN products ON products.id = variants.product_id").
		Group("products.name, variants.name_suffix").
		Order("total_sold DESC").
		Limit(limit).
		Scan(&rows).Error
	return rows, err
}
