package repository

import (
	"context"

	"github.com/AhmadAdewumi/inventro/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type NotificationRepository interface {
	CreateTx(tx *gorm.DB, n *model.Notification) error
	Create(ctx context.Context, n *model.Notification) error
	// HasUnread reports whether an unread notification with the given title
	// exists whose message contains substr. Used to dedup low-stock alerts
	// by SKU.
	HasUnread(ctx context.Context, title, substr string) (bool, error)
	List(ctx context.Context, unreadOnly bool) ([]model.Notification, error)
	MarkRead(ctx context.Context, id uuid.UUID) error
}

type notificationRepo struct{ db *gorm.DB }

func NewNotificationRepository(db *gorm.DB) NotificationRepository {
	return &notificationRepo{db: db}
}

func (r *notificationRepo) CreateTx(tx *gorm.DB, n *model.Notification) error {
	return tx.Create(n).Error
}

func (r *notificationRepo) Create(ctx context.Context, n *model.Notification) error {
	return r.db.WithContext(ctx).Create(n).Error
}

func (r *notificationRepo) HasUnread(ctx context.Context, title, substr string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.Notification{}).
		Where("title = ? AND is_read = false AND message LIKE ?", title, "%"+substr+"%").
		Count(&count).Error
	return count > 0, err
}

func (r *notificationRepo) List(ctx context.Context, unreadOnly bool) ([]model.Notification, error) {
	q := r.db.WithContext(ctx).Order("created_at DESC").Limit(200)
	if unreadOnly {
		q = q.Where("is_read = false")
	}
	var notifications []model.Notification
	err := q.Find(&notifications).Error
	return notifications, err
}

func (r *notificationRepo) MarkRead(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Model(&model.Notification{}).Where("id = ?", id).Update("is_read", true).Error
}
