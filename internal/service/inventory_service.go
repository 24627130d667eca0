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

// InventoryService covers manual stock adjustments and the audit ledger.
type InventoryService interface {
	// Adjust applies a signed stock correction outside the sales flow and
	// writes the matching ledger entry in the same transaction. It returns
	// the corrected variant alongside the entry.
	Adjust(ctx context.Context, actorID uuid.UUID, req dto.AdjustStockRequest) (*dto.AdjustStockResponse, error)
	LedgerHistory(ctx context.Context, filter repository.LedgerFilter) (*dto.LedgerListResponse, error)
	// VerifyLedger replays one variant's entries from zero and checks every
	// recorded stock_after plus the live stock level against the running sum.
	VerifyLedger(ctx context.Context, variantID uuid.UUID) (*dto.LedgerVerifyResponse, error)
}

type inventoryService struct {
	variants repository.VariantRepository
	ledger   repository.LedgerRepository
}

func NewInventoryService(variants repository.VariantRepository, ledger repository.LedgerRepository) InventoryService {
	return &inventoryService{variants: variants, ledger: ledger}
}

func (s *inventoryService) Adjust(ctx context.Context, actorID uuid.UUID, req dto.AdjustStockRequest) (*dto.AdjustStockResponse, error) {
	if req.QuantityChange == 0 {
		return nil, errors.New("quantity_change must not be zero")
	}
	switch req.Action {
	case model.LedgerRestock:
		if req.QuantityChange < 0 {
			return nil, errors.New("a restock must increase stock")
		}
	case model.LedgerLoss:
		if req.QuantityChange > 0 {
			return nil, errors.New("a loss must decrease stock")
		}
	case model.LedgerAudit:
		// either direction
	default:
		return nil, fmt.Errorf("unknown action %q", req.Action)
	}

	found, err := s.variants.FindByBarcode(ctx, req.Barcode)
	if err != nil {
		return nil, fmt.Errorf("unknown barcode %q", req.Barcode)
	}

	var entry *model.LedgerEntry
	var updated *model.Variant
	err = runTx(ctx, s.variants.DB(), func(tx *gorm.DB) error {
		v, err := s.variants.LockByIDTx(tx, found.ID)
		if err != nil {
			return err
		}
		updated = v
		newStock := v.StockQuantity + req.QuantityChange
		if newStock < 0 {
			return fmt.Errorf("adjustment would drive %s below zero (%d on hand, change %d)", v.SKU, v.StockQuantity, req.QuantityChange)
		}
		v.StockQuantity = newStock
		if err := s.variants.SaveTx(tx, v); err != nil {
			return err
		}
		entry = &model.LedgerEntry{
			VariantID:      v.ID,
			ActorID:        &actorID,
			Action:         req.Action,
			QuantityChange: req.QuantityChange,
			StockAfter:     newStock,
			Note:           req.Note,
		}
		return s.ledger.CreateTx(tx, entry)
	})
	if err != nil {
		return nil, err
	}

	return &dto.AdjustStockResponse{
		Variant: variantToResponse(updated),
		Entry:   ledgerEntryToResponse(entry),
	}, nil
}

func (s *inventoryService) LedgerHistory(ctx context.Context, filter repository.LedgerFilter) (*dto.LedgerListResponse, error) {
	entries, total, err := s.ledger.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	resp := &dto.LedgerListResponse{
		Data:  make([]dto.LedgerEntryResponse, len(entries)),
		Total: total,
		Page:  filter.Page,
		Limit: filter.Limit,
	}
	for i := range entries {
		resp.Data[i] = ledgerEntryToResponse(&entries[i])
	}
	return resp, nil
}

func (s *inventoryService) VerifyLedger(ctx context.Context, variantID uuid.UUID) (*dto.LedgerVerifyResponse, error) {
	v, err := s.variants.FindByID(ctx, variantID)
	if err != nil {
		return nil, errors.New("variant not found")
	}
	entries, err := s.ledger.ListByVariant(ctx, variantID)
	if err != nil {
		return nil, err
	}

	running := 0
	firstBad := -1
	for i := range entries {
		running += entries[i].QuantityChange
		if running != entries[i].StockAfter && firstBad == -1 {
			firstBad = i
		}
	}

	return &dto.LedgerVerifyResponse{
		VariantID:     variantID.String(),
		Entries:       len(entries),
		ReplayedStock: running,
		LiveStock:     v.StockQuantity,
		Consistent:    firstBad == -1 && running == v.StockQuantity,
		FirstBadEntry: firstBad,
	}, nil
}

func ledgerEntryToResponse(e *model.LedgerEntry) dto.LedgerEntryResponse {
	resp := dto.LedgerEntryResponse{
		ID:             e.ID.String(),
		VariantID:      e.VariantID.String(),
		Action:         e.Action,
		QuantityChange: e.QuantityChange,
		StockAfter:     e.StockAfter,
		Note:           e.Note,
		CreatedAt:      e.CreatedAt.Format(time.RFC3339),
	}
	if e.Variant != nil {
		resp.SKU = e.Variant.SKU
	}
	return resp
}
