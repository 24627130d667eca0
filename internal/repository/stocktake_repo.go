package repository

import (
	"context"

	"github.com/AhmadAdewumi/inventro/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type StocktakeRepository interface {
	CreateSessionTx(tx *gorm.DB, s *model.StocktakeSession) error
	BulkCreateItemsTx(tx *gorm.DB, items []model.StocktakeItem) error
	FindSessionByID(ctx context.Context, id uuid.UUID) (*model.StocktakeSession, error)
	ListSessions(ctx context.Context) ([]model.StocktakeSession, error)
	// FindItem resolves a session item by the variant's barcode.
	FindItem(ctx context.Context, sessionID uuid.UUID, barcode string) (*model.StocktakeItem, error)
	SaveItem(ctx context.Context, item *model.StocktakeItem) error
	// LockSessionTx locks the session header row, items preloaded.
	LockSessionTx(tx *gorm.DB, id uuid.UUID) (*model.StocktakeSession, error)
	SaveSessionTx(tx *gorm.DB, s *model.StocktakeSession) error
	DeleteSession(ctx context.Context, id uuid.UUID) error
	DB() *gorm.DB
}

type stocktakeRepo struct{ db *gorm.DB }

func NewStocktakeRepository(db *gorm.DB) StocktakeRepository { return &stocktakeRepo{db: db} }

func (r *stocktakeRepo) DB() *gorm.DB { return r.db }

func (r *stocktakeRepo) CreateSessionTx(tx *gorm.DB, s *model.StocktakeSession) error {
	return tx.Create(s).Error
}

func (r *stocktakeRepo) BulkCreateItemsTx(tx *gorm.DB, items []model.StocktakeItem) error {
	if len(items) == 0 {
		return nil
	}
	return tx.CreateInBatches(items, 500).Error
}

func (r *stocktakeRepo) FindSessionByID(ctx context.Context, id uuid.UUID) (*model.StocktakeSession, error) {
	var s model.StocktakeSession
	err := r.db.WithContext(ctx).Preload("Items.Variant.Product").First(&s, id).Error
	return &s, err
}

func (r *stocktakeRepo) ListSessions(ctx context.Context) ([]model.StocktakeSession, error) {
	var sessions []model.StocktakeSession
	err := r.db.WithContext(ctx).Order("created_at DESC").Find(&sessions).Error
	return sessions, err
}

func (r *stocktakeRepo) FindItem(ctx context.Context, sessionID uuid.UUID, barcode string) (*model.StocktakeItem, error) {
	var item model.StocktakeItem
	err := r.db.WithContext(ctx).
		Joins("JOIN variants ON variants.id = stocktake_items.variant_id").
		Where("stocktake_items.session_id = ? AND variants.barcode = ?", sessionID, barcode).
		First(&item).Error
	return &item, err
}

func (r *stocktakeRepo) SaveItem(ctx context.Context, item *model.StocktakeItem) error {
	return r.db.WithContext(ctx).Save(item).Error
}

func (r *stocktakeRepo) LockSessionTx(tx *gorm.DB, id uuid.UUID) (*model.StocktakeSession, error) {
	var s model.StocktakeSession
	if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&s, id).Error; err != nil {
		return nil, err
	}
	if err := tx.Where("session_id = ?", id).Order("id ASC").Find(&s.Items).Error; err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *stocktakeRepo) SaveSessionTx(tx *gorm.DB, s *model.StocktakeSession) error {
	return tx.Save(s).Error
}

func (r *stocktakeRepo) DeleteSession(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("session_id = ?", id).Delete(&model.StocktakeItem{}).Error; err != nil {
			return err
		}
		return tx.Delete(&model.StocktakeSession{}, id).Error
	})
}
