package service

import (
	"context"
	"time"

	"github.com/AhmadAdewumi/inventro/internal/dto"
	"github.com/AhmadAdewumi/inventro/internal/repository"

	"github.com/google/uuid"
)

// StoreService exposes the singleton store settings and the in-app
// notification feed.
type StoreService interface {
	Settings(ctx context.Context) (*dto.SettingsResponse, error)
	UpdateSettings(ctx context.Context, req dto.UpdateSettingsRequest) (*dto.SettingsResponse, error)
	Notifications(ctx context.Context, unreadOnly bool) ([]dto.NotificationResponse, error)
	MarkNotificationRead(ctx context.Context, id uuid.UUID) error
}

type storeService struct {
	settings      repository.SettingsRepository
	notifications repository.NotificationRepository
}

func NewStoreService(settings repository.SettingsRepository, notifications repository.NotificationRepository) StoreService {
	return &storeService{settings: settings, notifications: notifications}
}

func (s *storeService) Settings(ctx context.Context) (*dto.SettingsResponse, error) {
	row, err := s.settings.GetOrCreate(ctx)
	if err != nil {
		return nil, err
	}
	return &dto.SettingsResponse{
		StoreName: row.StoreName,
		Address:   row.Address,
		Phone:     row.Phone,
		Email:     row.Email,
	}, nil
}

func (s *storeService) UpdateSettings(ctx context.Context, req dto.UpdateSettingsRequest) (*dto.SettingsResponse, error) {
	row, err := s.settings.GetOrCreate(ctx)
	if err != nil {
		return nil, err
	}
	if req.StoreName != nil {
		row.StoreName = *req.StoreName
	}
	if req.Address != nil {
		row.Address = *req.Address
	}
	if req.Phone != nil {
		row.Phone = *req.Phone
	}
	if req.Email != nil {
		row.Email = *req.Email
	}
	if err := s.settings.Update(ctx, row); err != nil {
		return nil, err
	}
	return &dto.SettingsResponse{
		StoreName: row.StoreName,
		Address:   row.Address,
		Phone:     row.Phone,
		Email:     row.Email,
	}, nil
}

func (s *storeService) Notifications(ctx context.Context, unreadOnly bool) ([]dto.NotificationResponse, error) {
	rows, err := s.notifications.List(ctx, unreadOnly)
	if err != nil {
		return nil, err
	}
	resp := make([]dto.NotificationResponse, len(rows))
	for i, n := range rows {
		resp[i] = dto.NotificationResponse{
			ID:        n.ID.String(),
			Title:     n.Title,
			Message:   n.Message,
			Link:      n.Link,
			IsRead:    n.IsRead,
			CreatedAt: n.CreatedAt.Format(time.RFC3339),
		}
	}
	return resp, nil
}

func (s *storeService) MarkNotificationRead(ctx context.Context, id uuid.UUID) error {
	return s.notifications.MarkRead(ctx, id)
}
