package repository

import (
	"context"

	"github.com/AhmadAdewumi/inventro/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// LedgerFilter defines filters for listing ledger entries.
type LedgerFilter struct {
	VariantID *uuid.UUID
	Action    string
	Page      int
	Limit     int
}

// LedgerRepository is write-once: entries are created inside the unit of work
// that mutated stock and are never updated or deleted (the storage layer
// rejects both — see infra.NewDatabase).
type LedgerRepository interface {
	CreateTx(tx *gorm.DB, e *model.LedgerEntry) error
	List(ctx context.Context, filter LedgerFilter) ([]model.LedgerEntry, int64, error)
	// ListByVariant returns every entry for one variant in creation order,
	// for ledger replay verification.
	ListByVariant(ctx context.Context, variantID uuid.UUID) ([]model.LedgerEntry, error)
}

type ledgerRepo struct{ db *gorm.DB }

func NewLedgerRepository(db *gorm.DB) LedgerRepository { return &ledgerRepo{db: db} }

func (r *ledgerRepo) CreateTx(tx *gorm.DB, e *model.LedgerEntry) error {
	return tx.Create(e).Error
}

func (r *ledgerRepo) List(ctx context.Context, filter LedgerFilter) ([]model.LedgerEntry, int64, error) {
	q := r.db.WithContext(ctx).Model(&model.LedgerEntry{}).Preload("Variant")
	if filter.VariantID != nil {
		q = q.Where("variant_id = ?", *filter.VariantID)
	}
	if filter.Action != "" {
		q = q.Where("action = ?", filter.Action)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	page := filter.Page
	limit := filter.Limit
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 500 {
		limit = 100
	}
	var entries []model.LedgerEntry
	err := q.Order("created_at DESC").Offset((page - 1) * limit).Limit(limit).Find(&entries).Error
	return entries, total, err
}

func (r *ledgerRepo) ListByVariant(ctx context.Context, variantID uuid.UUID) ([]model.LedgerEntry, error) {
	var entries []model.LedgerEntry
	err := r.db.WithContext(ctx).
		Where("variant_id = ?", variantID).
		Order("created_at ASC, id ASC").
		Find(&entries).Error
	return entries, err
}
