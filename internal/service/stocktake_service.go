package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/AhmadAdewumi/inventro/internal/dto"
	"github.com/AhmadAdewumi/inventro/internal/model"
	"github.com/AhmadAdewumi/inventro/internal/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// StocktakeService runs full physical counts: snapshot expected stock, collect
// counts, then reconcile every variance in one transaction on approval.
type StocktakeService interface {
	Start(ctx context.Context, actorID uuid.UUID, req dto.StartStocktakeRequest) (*dto.StocktakeSessionResponse, error)
	RecordCount(ctx context.Context, sessionID uuid.UUID, req dto.RecordCountRequest) (*dto.StocktakeItemResponse, error)
	// Approve force-sets stock to the counted quantity for every item with a
	// variance and writes one ledger entry per correction. This is the only
	// path that may drop a stock level without a sale or adjustment.
	// Each entry's quantity_change is counted minus the live stock at
	// approval time, not the counted-minus-snapshot variance: stock that
	// moved during the count would otherwise break ledger replay.
	Approve(ctx context.Context, actorID, sessionID uuid.UUID) (*dto.StocktakeSessionResponse, error)
	// Discard deletes a session that is still in progress. Completed sessions
	// are audit history and stay.
	Discard(ctx context.Context, sessionID uuid.UUID) error
	FindSession(ctx context.Context, id uuid.UUID) (*dto.StocktakeSessionResponse, error)
	ListSessions(ctx context.Context) ([]dto.StocktakeSessionResponse, error)
}

type stocktakeService struct {
	stocktakes    repository.StocktakeRepository
	variants      repository.VariantRepository
	ledger        repository.LedgerRepository
	notifications repository.NotificationRepository
}

func NewStocktakeService(
	stocktakes repository.StocktakeRepository,
	variants repository.VariantRepository,
	ledger repository.LedgerRepository,
	notifications repository.NotificationRepository,
) StocktakeService {
	return &stocktakeService{
		stocktakes:    stocktakes,
		variants:      variants,
		ledger:        ledger,
		notifications: notifications,
	}
}

func (s *stocktakeService) Start(ctx context.Context, actorID uuid.UUID, req dto.StartStocktakeRequest) (*dto.StocktakeSessionResponse, error) {
	active, err := s.variants.ListActive(ctx)
	if err != nil {
		return nil, err
	}
	if len(active) == 0 {
		return nil, errors.New("no active variants to count")
	}

	session := &model.StocktakeSession{
		CreatedByID: actorID,
		Status:      model.StocktakeInProgress,
		Note:        req.Note,
	}
	err = runTx(ctx, s.stocktakes.DB(), func(tx *gorm.DB) error {
		if err := s.stocktakes.CreateSessionTx(tx, session); err != nil {
			return err
		}
		items := make([]model.StocktakeItem, len(active))
		for i := range active {
			items[i] = model.StocktakeItem{
				SessionID:        session.ID,
				VariantID:        active[i].ID,
				ExpectedQuantity: active[i].StockQuantity,
			}
		}
		if err := s.stocktakes.BulkCreateItemsTx(tx, items); err != nil {
			return err
		}
		session.Items = items
		return nil
	})
	if err != nil {
		return nil, err
	}
	return sessionToResponse(session, false), nil
}

func (s *stocktakeService) RecordCount(ctx context.Context, sessionID uuid.UUID, req dto.RecordCountRequest) (*dto.StocktakeItemResponse, error) {
	session, err := s.stocktakes.FindSessionByID(ctx, sessionID)
	if err != nil {
		return nil, errors.New("stocktake session not found")
	}
	if session.Status != model.StocktakeInProgress {
		return nil, fmt.Errorf("session is %s, counts are closed", session.Status)
	}

	item, err := s.stocktakes.FindItem(ctx, sessionID, req.Barcode)
	if err != nil {
		return nil, fmt.Errorf("barcode %q is not part of this session", req.Barcode)
	}
	item.CountedQuantity = req.Quantity
	if err := s.stocktakes.SaveItem(ctx, item); err != nil {
		return nil, err
	}
	resp := itemToResponse(item)
	return &resp, nil
}

func (s *stocktakeService) Approve(ctx context.Context, actorID, sessionID uuid.UUID) (*dto.StocktakeSessionResponse, error) {
	var session *model.StocktakeSession
	err := runTx(ctx, s.stocktakes.DB(), func(tx *gorm.DB) error {
		var err error
		session, err = s.stocktakes.LockSessionTx(tx, sessionID)
		if err != nil {
			return errors.New("stocktake session not found")
		}
		if session.Status != model.StocktakeInProgress {
			return fmt.Errorf("session is already %s", session.Status)
		}

		// Only items whose count disagrees with the snapshot move stock.
		adjust := make([]*model.StocktakeItem, 0, len(session.Items))
		variantIDs := make([]uuid.UUID, 0, len(session.Items))
		for i := range session.Items {
			if session.Items[i].Variance() != 0 {
				adjust = append(adjust, &session.Items[i])
				variantIDs = append(variantIDs, session.Items[i].VariantID)
			}
		}

		locked := make(map[uuid.UUID]*model.Variant, len(variantIDs))
		for _, vid := range sortedUnique(variantIDs) {
			v, err := s.variants.LockByIDTx(tx, vid)
			if err != nil {
				return fmt.Errorf("variant %s: %w", vid, err)
			}
			locked[v.ID] = v
		}

		for _, item := range adjust {
			v := locked[item.VariantID]
			// The correction is relative to the live stock level, not the
			// session snapshot: sales during the count already moved it.
			change := item.CountedQuantity - v.StockQuantity
			if change == 0 {
				continue
			}
			action := model.LedgerRestock
			if change < 0 {
				action = model.LedgerLoss
			}
			v.StockQuantity = item.CountedQuantity
			if err := s.ledger.CreateTx(tx, &model.LedgerEntry{
				VariantID:      v.ID,
				ActorID:        &actorID,
				Action:         action,
				QuantityChange: change,
				StockAfter:     v.StockQuantity,
				Note:           fmt.Sprintf("Stocktake %s (expected %d, counted %d)", session.ID, item.ExpectedQuantity, item.CountedQuantity),
			}); err != nil {
				return err
			}
		}
		for _, vid := range sortedUnique(variantIDs) {
			if err := s.variants.SaveTx(tx, locked[vid]); err != nil {
				return err
			}
		}

		now := time.Now()
		session.Status = model.StocktakeCompleted
		session.CompletedAt = &now
		if err := s.stocktakes.SaveSessionTx(tx, session); err != nil {
			return err
		}
		return s.notifications.CreateTx(tx, &model.Notification{
			Title:   model.NotifStocktakeDone,
			Message: fmt.Sprintf("Stocktake finished: %d item(s) counted, %d corrected", len(session.Items), len(adjust)),
			Link:    "/stocktakes/" + session.ID.String(),
		})
	})
	if err != nil {
		return nil, err
	}
	return sessionToResponse(session, true), nil
}

func (s *stocktakeService) Discard(ctx context.Context, sessionID uuid.UUID) error {
	session, err := s.stocktakes.FindSessionByID(ctx, sessionID)
	if err != nil {
		return errors.New("stocktake session not found")
	}
	if session.Status != model.StocktakeInProgress {
		return fmt.Errorf("cannot discard a session that is %s", session.Status)
	}
	return s.stocktakes.DeleteSession(ctx, sessionID)
}

func (s *stocktakeService) FindSession(ctx context.Context, id uuid.UUID) (*dto.StocktakeSessionResponse, error) {
	session, err := s.stocktakes.FindSessionByID(ctx, id)
	if err != nil {
		return nil, errors.New("stocktake session not found")
	}
	return sessionToResponse(session, true), nil
}

func (s *stocktakeService) ListSessions(ctx context.Context) ([]dto.StocktakeSessionResponse, error) {
	sessions, err := s.stocktakes.ListSessions(ctx)
	if err != nil {
		return nil, err
	}
	resp := make([]dto.StocktakeSessionResponse, len(sessions))
	for i := range sessions {
		resp[i] = *sessionToResponse(&sessions[i], false)
	}
	return resp, nil
}

func sessionToResponse(s *model.StocktakeSession, withItems bool) *dto.StocktakeSessionResponse {
	resp := &dto.StocktakeSessionResponse{
		ID:        s.ID.String(),
		Status:    s.Status,
		Note:      s.Note,
		ItemCount: len(s.Items),
		CreatedAt: s.CreatedAt.Format(time.RFC3339),
	}
	if s.CompletedAt != nil {
		ts := s.CompletedAt.Format(time.RFC3339)
		resp.CompletedAt = &ts
	}
	if withItems {
		resp.Items = make([]dto.StocktakeItemResponse, len(s.Items))
		for i := range s.Items {
			resp.Items[i] = itemToResponse(&s.Items[i])
		}
	}
	return resp
}

func itemToResponse(item *model.StocktakeItem) dto.StocktakeItemResponse {
	resp := dto.StocktakeItemResponse{
		ID:               item.ID.String(),
		VariantID:        item.VariantID.String(),
		ExpectedQuantity: item.ExpectedQuantity,
		CountedQuantity:  item.CountedQuantity,
		Variance:         item.Variance(),
	}
	if item.Variant != nil {
		resp.SKU = item.Variant.SKU
	}
	return resp
}
