package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/AhmadAdewumi/inventro/internal/dto"
	"github.com/AhmadAdewumi/inventro/internal/model"
	"github.com/AhmadAdewumi/inventro/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// RefundService reverses sale lines at their frozen unit price. Sellable
// returns go back on the shelf; damaged returns are written off without a
// stock movement.
type RefundService interface {
	Refund(ctx context.Context, actorID, orderID uuid.UUID, req dto.RefundRequest) (*dto.RefundResponse, error)
}

type refundService struct {
	orders   repository.OrderRepository
	variants repository.VariantRepository
	ledger   repository.LedgerRepository
}

func NewRefundService(
	orders repository.OrderRepository,
	variants repository.VariantRepository,
	ledger repository.LedgerRepository,
) RefundService {
	return &refundService{orders: orders, variants: variants, ledger: ledger}
}

type refundPlan struct {
	line    *model.OrderLine
	qty     int
	damaged bool
}

func (s *refundService) Refund(ctx context.Context, actorID, orderID uuid.UUID, req dto.RefundRequest) (*dto.RefundResponse, error) {
	order, err := s.orders.FindByID(ctx, orderID)
	if err != nil {
		return nil, errors.New("order not found")
	}
	if order.Status != model.OrderStatusCompleted && order.Status != model.OrderStatusRefunded {
		return nil, fmt.Errorf("cannot refund an order in status %q", order.Status)
	}

	// Phase 1: resolve every item to a line and validate the refund bound
	// before anything is written. planned tracks quantities already claimed
	// by earlier items in this same request.
	planned := make(map[uuid.UUID]int, len(req.Items))
	plans := make([]refundPlan, 0, len(req.Items))
	for _, item := range req.Items {
		line, err := s.resolveLine(order, item)
		if err != nil {
			return nil, err
		}
		returnable := line.Quantity - line.RefundedQuantity - planned[line.ID]
		if item.Quantity > returnable {
			return nil, fmt.Errorf("cannot refund %d of %s: only %d returnable", item.Quantity, item.Barcode, returnable)
		}
		planned[line.ID] += item.Quantity
		plans = append(plans, refundPlan{line: line, qty: item.Quantity, damaged: item.IsDamaged})
	}

	variantIDs := make([]uuid.UUID, 0, len(plans))
	for _, p := range plans {
		variantIDs = append(variantIDs, p.line.VariantID)
	}

	total := decimal.Zero
	err = runTx(ctx, s.orders.DB(), func(tx *gorm.DB) error {
		total = decimal.Zero

		// Damaged items lock too: their zero-change ledger entry must carry
		// the stock level as of this transaction, or a replay of the ledger
		// would disagree with it.
		locked := make(map[uuid.UUID]*model.Variant, len(plans))
		for _, id := range sortedUnique(variantIDs) {
			v, err := s.variants.LockByIDTx(tx, id)
			if err != nil {
				return fmt.Errorf("variant %s: %w", id, err)
			}
			locked[v.ID] = v
		}

		// Phase 2: apply.
		for _, p := range plans {
			v := locked[p.line.VariantID]
			p.line.RefundedQuantity += p.qty
			if err := s.orders.SaveLineTx(tx, p.line); err != nil {
				return err
			}
			total = total.Add(p.line.UnitPrice.Mul(decimal.NewFromInt(int64(p.qty))))

			entry := &model.LedgerEntry{
				VariantID: v.ID,
				ActorID:   &actorID,
				Action:    model.LedgerRestock,
				Note:      fmt.Sprintf("Refund on sale %s", order.ID),
			}
			if p.damaged {
				entry.Action = model.LedgerLoss
				entry.QuantityChange = 0
				entry.Note = fmt.Sprintf("Damaged refund on sale %s (%d written off)", order.ID, p.qty)
			} else {
				v.StockQuantity += p.qty
				entry.QuantityChange = p.qty
			}
			entry.StockAfter = v.StockQuantity
			if err := s.ledger.CreateTx(tx, entry); err != nil {
				return err
			}
		}
		for _, id := range sortedUnique(variantIDs) {
			if err := s.variants.SaveTx(tx, locked[id]); err != nil {
				return err
			}
		}

		// The first refunded item marks the whole order refunded; per-line
		// accounting lives in RefundedQuantity.
		if order.Status == model.OrderStatusCompleted {
			return s.orders.UpdateStatusTx(tx, order.ID, model.OrderStatusRefunded)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &dto.RefundResponse{
		OrderID:       order.ID.String(),
		RefundedTotal: total.Round(2),
	}, nil
}

// resolveLine pins the target line by ID when given, otherwise picks the
// first line matching the barcode in creation order.
func (s *refundService) resolveLine(order *model.Order, item dto.RefundItemRequest) (*model.OrderLine, error) {
	if item.LineID != nil {
		lid, err := uuid.Parse(*item.LineID)
		if err != nil {
			return nil, errors.New("invalid line_id")
		}
		for i := range order.Lines {
			if order.Lines[i].ID == lid {
				return &order.Lines[i], nil
			}
		}
		return nil, fmt.Errorf("line %s does not belong to this order", lid)
	}
	for i := range order.Lines {
		line := &order.Lines[i]
		if line.Variant != nil && line.Variant.Barcode == item.Barcode {
			return line, nil
		}
	}
	return nil, fmt.Errorf("no line with barcode %q on this order", item.Barcode)
}
